package services

import (
	"errors"
	"net/http"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExist          = errors.New("username or email already taken")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrUsernameInvalid    = errors.New("username must not be blank")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrFollowSelf         = errors.New("you cannot follow yourself")
	ErrAlreadyFollowing   = errors.New("already following this user")
	ErrNotFollowing       = errors.New("not following this user")
	ErrMessageNotFound    = errors.New("message not found")
	ErrMessageInvalid     = errors.New("message must be between 1 and 140 characters")
	ErrLikeOwnMessage     = errors.New("you cannot like your own message")
	ErrUnauthorized       = errors.New("access unauthorized")
)

var ErrorMap = map[error]int{
	ErrUserNotFound:       http.StatusNotFound,
	ErrUserExist:          http.StatusBadRequest,
	ErrInvalidEmail:       http.StatusBadRequest,
	ErrUsernameInvalid:    http.StatusBadRequest,
	ErrInvalidCredentials: http.StatusUnauthorized,
	ErrFollowSelf:         http.StatusBadRequest,
	ErrAlreadyFollowing:   http.StatusBadRequest,
	ErrNotFollowing:       http.StatusBadRequest,
	ErrMessageNotFound:    http.StatusNotFound,
	ErrMessageInvalid:     http.StatusBadRequest,
	ErrLikeOwnMessage:     http.StatusBadRequest,
	ErrUnauthorized:       http.StatusForbidden,
}

// StatusFor maps a service error to an HTTP status. Unknown errors are 500.
func StatusFor(err error) int {
	for target, status := range ErrorMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
