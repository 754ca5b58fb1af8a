package repositories

import (
	"context"

	"github.com/anonto42/warbler/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, followerID, followedID uint) error
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	GetFollowers(ctx context.Context, userID uint) ([]models.User, error)
	GetFollowing(ctx context.Context, userID uint) ([]models.User, error)
	GetFollowersCount(ctx context.Context, userID uint) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint) (int64, error)
	GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error)
}

// GormFollowRepository implements FollowRepository with GORM
type GormFollowRepository struct {
	db *gorm.DB
}

// NewGormFollowRepository creates a new GormFollowRepository
func NewGormFollowRepository(db *gorm.DB) *GormFollowRepository {
	return &GormFollowRepository{db: db}
}

func (r *GormFollowRepository) CreateFollow(ctx context.Context, follow *models.Follow) error {
	return conn(ctx, r.db).Omit("Follower", "Followed").Create(follow).Error
}

// DeleteFollow removes the edge; gorm.ErrRecordNotFound when there was none
func (r *GormFollowRepository) DeleteFollow(ctx context.Context, followerID, followedID uint) error {
	res := conn(ctx, r.db).Where("follower_id = ? AND followed_id = ?", followerID, followedID).Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormFollowRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.Follow{}).Where("follower_id = ? AND followed_id = ?", followerID, followedID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormFollowRepository) GetFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	db := conn(ctx, r.db)
	var users []models.User
	err := db.Where("id IN (?)",
		db.Model(&models.Follow{}).Select("follower_id").Where("followed_id = ?", userID),
	).Order("username").Find(&users).Error
	return users, err
}

func (r *GormFollowRepository) GetFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	db := conn(ctx, r.db)
	var users []models.User
	err := db.Where("id IN (?)",
		db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", userID),
	).Order("username").Find(&users).Error
	return users, err
}

func (r *GormFollowRepository) GetFollowersCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *GormFollowRepository) GetFollowingCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *GormFollowRepository) GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := conn(ctx, r.db).Model(&models.Follow{}).Where("follower_id = ?", userID).Pluck("followed_id", &ids).Error
	return ids, err
}
