package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sbilibin2017/expense-tracker/internal/logger"
	"github.com/sbilibin2017/expense-tracker/internal/models"
	"github.com/sbilibin2017/expense-tracker/internal/repositories"
)

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=services

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, passwordHash string, email *string) (models.User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) (models.User, error)
}

// PasswordHasher derives and checks stored credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(encoded, password string) (bool, error)
}

// AuthService handles registration, login and the user listing.
type AuthService struct {
	reader UserReader
	writer UserWriter
	hasher PasswordHasher
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, hasher PasswordHasher) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		hasher: hasher,
		now:    time.Now,
	}
}

// Register creates a user unless the username is taken.
func (svc *AuthService) Register(ctx context.Context, username, password string, email *string) (models.PublicUser, error) {
	existing, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return models.PublicUser{}, err
	}
	if existing != nil {
		logger.Log.Infow("user already exists", "username", username)
		return models.PublicUser{}, ErrUserAlreadyExists
	}

	hash, err := svc.hasher.Hash(password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return models.PublicUser{}, err
	}

	user, err := svc.writer.Save(ctx, username, hash, email)
	if err != nil {
		// a concurrent registration won the race past the pre-check
		if errors.Is(err, repositories.ErrConflict) {
			logger.Log.Infow("user already exists", "username", username, "race", true)
			return models.PublicUser{}, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return models.PublicUser{}, err
	}

	return user.Public(), nil
}

// Login checks the credentials and stamps last_login.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (svc *AuthService) Login(ctx context.Context, username, password string) (models.PublicUser, error) {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return models.PublicUser{}, err
	}
	if user == nil {
		svc.burnCompare(password)
		logger.Log.Infow("login failed", "username", username, "reason", "unknown user")
		return models.PublicUser{}, ErrInvalidCredentials
	}

	ok, err := svc.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		logger.Log.Errorw("stored password hash is unusable", "user_id", user.ID, "err", err)
		return models.PublicUser{}, ErrInvalidCredentials
	}
	if !ok {
		logger.Log.Infow("login failed", "username", username, "reason", "wrong password")
		return models.PublicUser{}, ErrInvalidCredentials
	}

	updated, err := svc.writer.UpdateLastLogin(ctx, user.ID, svc.now())
	if err != nil {
		logger.Log.Errorw("failed to update last login", "user_id", user.ID, "err", err)
		return models.PublicUser{}, err
	}

	return updated.Public(), nil
}

// burnCompare runs one hash comparison so unknown usernames cost about as
// much as wrong passwords.
func (svc *AuthService) burnCompare(password string) {
	svc.dummyOnce.Do(func() {
		hash, err := svc.hasher.Hash("dummy-password")
		if err != nil {
			logger.Log.Warnw("failed to prepare dummy hash", "err", err)
			return
		}
		svc.dummyHash = hash
	})
	if svc.dummyHash != "" {
		_, _ = svc.hasher.Compare(svc.dummyHash, password)
	}
}

// ListUsers returns the public fields of every user, newest first.
func (svc *AuthService) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	users, err := svc.reader.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "err", err)
		return nil, err
	}

	out := make([]models.PublicUser, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return out, nil
}
