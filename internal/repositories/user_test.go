package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Save(t *testing.T) {
	email := "alice@example.com"
	now := time.Now().UTC()

	tests := []struct {
		name      string
		email     *string
		wantArgs  []driver.Value
		rows      *sqlmock.Rows
		dbErr     error
		wantErrIs error
	}{
		{
			name:     "with email",
			email:    &email,
			wantArgs: []driver.Value{"alice", "hash", email},
			rows:     sqlmock.NewRows(userColumns).AddRow(int64(1), "alice", "hash", email, now, nil),
		},
		{
			name:     "without email",
			wantArgs: []driver.Value{"alice", "hash", nil},
			rows:     sqlmock.NewRows(userColumns).AddRow(int64(1), "alice", "hash", nil, now, nil),
		},
		{
			name:      "unique violation",
			wantArgs:  []driver.Value{"alice", "hash", nil},
			dbErr:     &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"},
			wantErrIs: ErrConflict,
		},
		{
			name:     "other pg error",
			wantArgs: []driver.Value{"alice", "hash", nil},
			dbErr:    &pgconn.PgError{Code: "23502"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			repo := NewUserRepository(store)

			expect := mock.ExpectQuery("INSERT INTO users (username, password_hash, email) VALUES (?, ?, ?) RETURNING *").
				WithArgs(tt.wantArgs...)
			if tt.dbErr != nil {
				expect.WillReturnError(tt.dbErr)
			} else {
				expect.WillReturnRows(tt.rows)
			}

			u, err := repo.Save(context.Background(), "alice", "hash", tt.email)
			switch {
			case tt.wantErrIs != nil:
				assert.ErrorIs(t, err, tt.wantErrIs)
			case tt.dbErr != nil:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrConflict)
			default:
				require.NoError(t, err)
				assert.Equal(t, "alice", u.Username)
				assert.Equal(t, tt.email != nil, u.Email.Valid)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	store, mock := newMockStore(t)
	repo := NewUserRepository(store)
	now := time.Now().UTC()
	const query = "SELECT * FROM users WHERE username = ? ORDER BY created_at DESC LIMIT 1"

	mock.ExpectQuery(query).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(3), "alice", "hash", nil, now, nil))
	u, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(3), u.ID)

	mock.ExpectQuery(query).WithArgs("ghost").WillReturnRows(sqlmock.NewRows(userColumns))
	u, err = repo.GetByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, u)

	mock.ExpectQuery(query).WithArgs("bob").WillReturnError(errors.New("connection reset"))
	_, err = repo.GetByUsername(context.Background(), "bob")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateLastLoginStoresUTC(t *testing.T) {
	store, mock := newMockStore(t)
	repo := NewUserRepository(store)

	local := time.Date(2024, 6, 1, 14, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	utc := local.UTC()

	mock.ExpectQuery("UPDATE users SET last_login = ? WHERE id = ? RETURNING *").
		WithArgs(utc, int64(5)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(5), "eve", "hash", nil, utc, utc))

	u, err := repo.UpdateLastLogin(context.Background(), 5, local)
	require.NoError(t, err)
	require.NotNil(t, u.LastLogin)
	assert.True(t, utc.Equal(*u.LastLogin))
	assert.NoError(t, mock.ExpectationsWereMet())
}
