package services

import (
	"context"
	"errors"

	"github.com/anonto42/warbler/internal/models"
	"github.com/anonto42/warbler/internal/repositories"
	"gorm.io/gorm"
)

type LikeService struct {
	likes    repositories.LikeRepository
	messages *MessageService
	tx       repositories.Transactor
}

func NewLikeService(likes repositories.LikeRepository, messages *MessageService, tx repositories.Transactor) *LikeService {
	return &LikeService{likes: likes, messages: messages, tx: tx}
}

// ToggleLike likes the message, or unlikes it when userID already did.
// It reports whether the message is liked afterwards. A like that lands
// concurrently with another one for the same pair counts as liked.
func (s *LikeService) ToggleLike(ctx context.Context, userID, messageID uint) (bool, error) {
	message, err := s.messages.Get(ctx, messageID)
	if err != nil {
		return false, err
	}
	if message.UserID == userID {
		return false, ErrLikeOwnMessage
	}

	liked, err := s.likes.HasUserLikedMessage(ctx, userID, messageID)
	if err != nil {
		return false, err
	}
	if liked {
		return false, s.likes.DeleteLike(ctx, userID, messageID)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.likes.CreateLike(ctx, &models.Like{UserID: userID, MessageID: messageID})
	})
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, err
	}
	return true, nil
}

func (s *LikeService) LikedMessages(ctx context.Context, userID uint) ([]models.Message, error) {
	return s.likes.GetLikedMessages(ctx, userID)
}

// LikedIDs returns the ids of the messages userID liked
func (s *LikeService) LikedIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	return s.likes.GetLikedMessageIDs(ctx, userID)
}
