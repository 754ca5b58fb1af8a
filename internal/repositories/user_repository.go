package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/warbler/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uint) error
}

// GormUserRepository implements UserRepository with GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// CreateUser inserts a user. A taken username or email yields gorm.ErrDuplicatedKey.
func (r *GormUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return conn(ctx, r.db).Create(user).Error
}

// GetUserByID retrieves a user by ID
func (r *GormUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by exact username
func (r *GormUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsers retrieves all users ordered by username
func (r *GormUserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := conn(ctx, r.db).Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SearchUsers finds users whose username contains query, case-insensitive
func (r *GormUserRepository) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	var users []models.User
	pattern := "%" + strings.ToLower(query) + "%"
	if err := conn(ctx, r.db).Where("LOWER(username) LIKE ?", pattern).Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser saves every column of user
func (r *GormUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	return conn(ctx, r.db).Save(user).Error
}

// DeleteUser deletes a user together with everything that references it:
// likes on the user's messages, the user's own likes, follow edges in both
// directions and the user's messages.
func (r *GormUserRepository) DeleteUser(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&models.Message{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("message_id IN (?)", owned).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
