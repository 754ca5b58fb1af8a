package repositories

import (
	"context"

	"github.com/anonto42/warbler/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	GetMessageByID(ctx context.Context, id uint) (*models.Message, error)
	GetMessagesByUserID(ctx context.Context, userID uint, limit int) ([]models.Message, error)
	GetTimeline(ctx context.Context, userIDs []uint, limit int) ([]models.Message, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	DeleteMessage(ctx context.Context, id uint) error
}

// GormMessageRepository implements MessageRepository with GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// CreateMessage inserts a message; the timestamp is filled in at insert time
func (r *GormMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	return conn(ctx, r.db).Omit("User").Create(message).Error
}

// GetMessageByID retrieves a message and its author
func (r *GormMessageRepository) GetMessageByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := conn(ctx, r.db).Preload("User").First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// GetMessagesByUserID retrieves a user's messages, newest first
func (r *GormMessageRepository) GetMessagesByUserID(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := conn(ctx, r.db).Preload("User").
		Where("user_id = ?", userID).
		Order("messages.timestamp DESC, messages.id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// GetTimeline retrieves the latest messages written by any of userIDs
func (r *GormMessageRepository) GetTimeline(ctx context.Context, userIDs []uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	if len(userIDs) == 0 {
		return messages, nil
	}
	err := conn(ctx, r.db).Preload("User").
		Where("user_id IN ?", userIDs).
		Order("messages.timestamp DESC, messages.id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *GormMessageRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Message{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// DeleteMessage deletes a message and the likes pointing at it
func (r *GormMessageRepository) DeleteMessage(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Message{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
