package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/anonto42/warbler/internal/models"
	"gorm.io/gorm"
)

// fakeUserRepository keeps users in memory and enforces the same unique
// constraints as the users table.
type fakeUserRepository struct {
	users  map[uint]*models.User
	nextID uint
	err    error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[uint]*models.User{}, nextID: 1}
}

func (f *fakeUserRepository) conflicts(u *models.User) bool {
	for _, other := range f.users {
		if other.ID != u.ID && (other.Username == u.Username || other.Email == u.Email) {
			return true
		}
	}
	return false
}

func (f *fakeUserRepository) CreateUser(_ context.Context, user *models.User) error {
	if f.err != nil {
		return f.err
	}
	if f.conflicts(user) {
		return gorm.ErrDuplicatedKey
	}
	user.ID = f.nextID
	f.nextID++
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepository) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepository) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	return f.SearchUsers(ctx, "")
}

func (f *fakeUserRepository) SearchUsers(_ context.Context, query string) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeUserRepository) UpdateUser(_ context.Context, user *models.User) error {
	if f.conflicts(user) {
		return gorm.ErrDuplicatedKey
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepository) DeleteUser(_ context.Context, id uint) error {
	if _, ok := f.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.users, id)
	return nil
}

// inlineTransactor runs fn directly
type inlineTransactor struct{}

func (inlineTransactor) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// plainHasher stores passwords with a marker prefix so tests stay fast
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty")
	}
	return "hashed:" + password, nil
}

func (plainHasher) Verify(password, digest string) bool {
	return digest == "hashed:"+password
}
