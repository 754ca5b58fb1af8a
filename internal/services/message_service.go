package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/anonto42/warbler/internal/models"
	"github.com/anonto42/warbler/internal/repositories"
	"gorm.io/gorm"
)

// TimelineLimit is the number of messages shown on the home timeline
const TimelineLimit = 100

type MessageService struct {
	messages repositories.MessageRepository
	follows  repositories.FollowRepository
}

func NewMessageService(messages repositories.MessageRepository, follows repositories.FollowRepository) *MessageService {
	return &MessageService{messages: messages, follows: follows}
}

// Create stores a message written by userID. The text is trimmed and must
// hold between 1 and MaxMessageLength characters.
func (s *MessageService) Create(ctx context.Context, userID uint, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n == 0 || n > models.MaxMessageLength {
		return nil, ErrMessageInvalid
	}

	message := &models.Message{Text: text, UserID: userID}
	if err := s.messages.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return message, nil
}

func (s *MessageService) Get(ctx context.Context, id uint) (*models.Message, error) {
	message, err := s.messages.GetMessageByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get message %d: %w", id, err)
	}
	return message, nil
}

func (s *MessageService) ListByUser(ctx context.Context, userID uint) ([]models.Message, error) {
	return s.messages.GetMessagesByUserID(ctx, userID, TimelineLimit)
}

// Timeline returns the latest messages by userID and everyone they follow
func (s *MessageService) Timeline(ctx context.Context, userID uint) ([]models.Message, error) {
	ids, err := s.follows.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.messages.GetTimeline(ctx, append(ids, userID), TimelineLimit)
}

// Delete removes a message when actorID owns it
func (s *MessageService) Delete(ctx context.Context, actorID, messageID uint) error {
	message, err := s.Get(ctx, messageID)
	if err != nil {
		return err
	}
	if message.UserID != actorID {
		return ErrUnauthorized
	}
	if err := s.messages.DeleteMessage(ctx, messageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	return nil
}
