package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/warbler/internal/models"
	"github.com/anonto42/warbler/internal/repositories"
	"github.com/anonto42/warbler/internal/security"
	"github.com/badoux/checkmail"
	"gorm.io/gorm"
)

// SignupParams carries the fields of a new account
type SignupParams struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

// ProfileParams carries the editable profile fields. Password is the
// current password and only authorizes the change.
type ProfileParams struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
	Password       string
}

// Profile is a user together with the counters shown on the profile page
type Profile struct {
	User           *models.User
	MessageCount   int64
	FollowingCount int64
	FollowerCount  int64
	LikeCount      int64
}

type UserService struct {
	users    repositories.UserRepository
	messages repositories.MessageRepository
	follows  repositories.FollowRepository
	likes    repositories.LikeRepository
	tx       repositories.Transactor
	hasher   security.PasswordHasher
}

func NewUserService(
	users repositories.UserRepository,
	messages repositories.MessageRepository,
	follows repositories.FollowRepository,
	likes repositories.LikeRepository,
	tx repositories.Transactor,
	hasher security.PasswordHasher,
) *UserService {
	return &UserService{
		users:    users,
		messages: messages,
		follows:  follows,
		likes:    likes,
		tx:       tx,
		hasher:   hasher,
	}
}

// Signup creates an account with a hashed password. The insert runs in its
// own savepoint so a duplicate username or email leaves the caller's
// transaction usable.
func (s *UserService) Signup(ctx context.Context, p SignupParams) (*models.User, error) {
	username := strings.TrimSpace(p.Username)
	if username == "" {
		return nil, ErrUsernameInvalid
	}
	if err := checkmail.ValidateFormat(strings.TrimSpace(p.Email)); err != nil {
		return nil, ErrInvalidEmail
	}
	digest, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:       username,
		Email:          strings.TrimSpace(p.Email),
		Password:       digest,
		ImageURL:       p.ImageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}
	if user.ImageURL == "" {
		user.ImageURL = models.DefaultImageURL
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.users.CreateUser(ctx, user)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrUserExist
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user whose password matches. An unknown username
// and a wrong password both yield (nil, nil).
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !s.hasher.Verify(password, user.Password) {
		return nil, nil
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// ListUsers returns every user, or those whose username contains q
func (s *UserService) ListUsers(ctx context.Context, q string) ([]models.User, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.users.GetUsers(ctx)
	}
	return s.users.SearchUsers(ctx, q)
}

// IsFollowing reports whether followerID follows followedID
func (s *UserService) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.follows.IsFollowing(ctx, followerID, followedID)
}

// IsFollowedBy reports whether otherID follows userID
func (s *UserService) IsFollowedBy(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.follows.IsFollowing(ctx, otherID, userID)
}

func (s *UserService) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return ErrFollowSelf
	}
	if _, err := s.GetUser(ctx, followedID); err != nil {
		return err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.follows.CreateFollow(ctx, &models.Follow{FollowerID: followerID, FollowedID: followedID})
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyFollowing
	}
	return err
}

func (s *UserService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	err := s.follows.DeleteFollow(ctx, followerID, followedID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFollowing
	}
	return err
}

func (s *UserService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.follows.GetFollowers(ctx, userID)
}

func (s *UserService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.follows.GetFollowing(ctx, userID)
}

func (s *UserService) Profile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := &Profile{User: user}
	if p.MessageCount, err = s.messages.CountByUserID(ctx, userID); err != nil {
		return nil, err
	}
	if p.FollowingCount, err = s.follows.GetFollowingCount(ctx, userID); err != nil {
		return nil, err
	}
	if p.FollowerCount, err = s.follows.GetFollowersCount(ctx, userID); err != nil {
		return nil, err
	}
	if p.LikeCount, err = s.likes.GetLikesCountByUserID(ctx, userID); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProfile changes the profile of userID once the current password
// checks out. Empty image fields fall back to the defaults.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, p ProfileParams) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(p.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	username := strings.TrimSpace(p.Username)
	if username == "" {
		return nil, ErrUsernameInvalid
	}
	if err := checkmail.ValidateFormat(strings.TrimSpace(p.Email)); err != nil {
		return nil, ErrInvalidEmail
	}

	user.Username = username
	user.Email = strings.TrimSpace(p.Email)
	user.ImageURL = p.ImageURL
	if user.ImageURL == "" {
		user.ImageURL = models.DefaultImageURL
	}
	user.HeaderImageURL = p.HeaderImageURL
	if user.HeaderImageURL == "" {
		user.HeaderImageURL = models.DefaultHeaderImageURL
	}
	user.Bio = p.Bio
	user.Location = p.Location

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.users.UpdateUser(ctx, user)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrUserExist
	}
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", userID, err)
	}
	return user, nil
}

// DeleteUser removes the user with its messages, likes and follow edges
func (s *UserService) DeleteUser(ctx context.Context, userID uint) error {
	err := s.users.DeleteUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}
