package repositories

import (
	"context"
	"time"

	"github.com/sbilibin2017/expense-tracker/internal/models"
)

// UserRepository reads and writes users through the RecordStore.
type UserRepository struct {
	store *RecordStore
}

func NewUserRepository(store *RecordStore) *UserRepository {
	return &UserRepository{store: store}
}

// GetByUsername returns the user with the given username, or nil when there is none.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	users, err := Query[models.User](ctx, r.store, TableUsers, Fields{{Name: "username", Value: username}}, 1)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// Save inserts a new user. ErrConflict is returned when the username is taken.
func (r *UserRepository) Save(ctx context.Context, username, passwordHash string, email *string) (models.User, error) {
	return Insert[models.User](ctx, r.store, TableUsers, Fields{
		{Name: "username", Value: username},
		{Name: "password_hash", Value: passwordHash},
		{Name: "email", Value: email},
	})
}

// UpdateLastLogin stamps the user's last_login and returns the updated row.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) (models.User, error) {
	return Update[models.User](ctx, r.store, TableUsers, id, Fields{{Name: "last_login", Value: at.UTC()}})
}

// List returns all users, newest first.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	return Query[models.User](ctx, r.store, TableUsers, nil, 0)
}
