package repositories

import (
	"context"

	"github.com/anonto42/warbler/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, userID, messageID uint) error
	HasUserLikedMessage(ctx context.Context, userID, messageID uint) (bool, error)
	GetLikedMessages(ctx context.Context, userID uint) ([]models.Message, error)
	GetLikedMessageIDs(ctx context.Context, userID uint) (map[uint]bool, error)
	GetLikesCountByUserID(ctx context.Context, userID uint) (int64, error)
}

// GormLikeRepository implements LikeRepository with GORM
type GormLikeRepository struct {
	db *gorm.DB
}

// NewGormLikeRepository creates a new GormLikeRepository
func NewGormLikeRepository(db *gorm.DB) *GormLikeRepository {
	return &GormLikeRepository{db: db}
}

// CreateLike creates a new like
func (r *GormLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	return conn(ctx, r.db).Omit("User", "Message").Create(like).Error
}

// DeleteLike deletes a like; gorm.ErrRecordNotFound when there was none
func (r *GormLikeRepository) DeleteLike(ctx context.Context, userID, messageID uint) error {
	res := conn(ctx, r.db).Where("user_id = ? AND message_id = ?", userID, messageID).Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasUserLikedMessage checks if a user has liked a specific message
func (r *GormLikeRepository) HasUserLikedMessage(ctx context.Context, userID, messageID uint) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.Like{}).Where("user_id = ? AND message_id = ?", userID, messageID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLikedMessages retrieves the messages a user liked, newest like first
func (r *GormLikeRepository) GetLikedMessages(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := conn(ctx, r.db).Preload("User").
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC, likes.id DESC").
		Find(&messages).Error
	return messages, err
}

// GetLikedMessageIDs returns the set of message ids the user liked
func (r *GormLikeRepository) GetLikedMessageIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	var ids []uint
	if err := conn(ctx, r.db).Model(&models.Like{}).Where("user_id = ?", userID).Pluck("message_id", &ids).Error; err != nil {
		return nil, err
	}
	result := make(map[uint]bool, len(ids))
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

func (r *GormLikeRepository) GetLikesCountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Like{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
