package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/akash0382/ApniSec/internal/common"
	"github.com/akash0382/ApniSec/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	qInsert     = `(?s)^INSERT\s+INTO\s+users\s*\(email,\s*password_hash,\s*name\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`
	qByEmail    = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*name,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	qByID       = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*name,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
	qUpdate     = `(?s)^UPDATE\s+users\s+SET\s+name\s*=\s*COALESCE\(\$2,\s*name\),\s*email\s*=\s*COALESCE\(\$3,\s*email\),\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+.+$`
	qUpdatePass = `(?s)^UPDATE\s+users\s+SET\s+password_hash\s*=\s*\$2,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s*$`
)

var userColumns = []string{"id", "email", "password_hash", "name", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()
	name := "Asha"

	mock.ExpectQuery(qInsert).
		WithArgs("asha@example.com", "hash", "Asha").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("u-1", now, now))

	got, err := repo.Create(context.Background(), &models.User{Email: "asha@example.com", PasswordHash: "hash", Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, now, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_NilNameIsNull(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(qInsert).
		WithArgs("b@example.com", "hash", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("u-2", now, now))

	_, err := repo.Create(context.Background(), &models.User{Email: "b@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(qInsert).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{Email: "dup@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(qInsert).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Email: "a@example.com", PasswordHash: "h"})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(qByEmail).
		WithArgs("asha@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u-1", "asha@example.com", "hash", "Asha", now, now))

	got, err := repo.GetByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	require.NotNil(t, got.Name)
	assert.Equal(t, "Asha", *got.Name)
}

func TestGetByEmail_NullName(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(qByEmail).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u-1", "a@example.com", "hash", nil, now, now))

	got, err := repo.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Nil(t, got.Name)
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(qByEmail).WithArgs("ghost@example.com").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByID_MalformedIDIsNotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(qByID).WithArgs("nope").WillReturnError(&pgconn.PgError{Code: "22P02"})

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(qByID).WithArgs("u-1").WillReturnError(errors.New("db err"))

	_, err := repo.GetByID(context.Background(), "u-1")
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db err`, err.Error())
}

func TestUpdate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()
	email := "new@example.com"

	mock.ExpectQuery(qUpdate).
		WithArgs("u-1", nil, "new@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u-1", "new@example.com", "hash", nil, now, now))

	got, err := repo.Update(context.Background(), "u-1", models.UserUpdate{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_EmailTaken(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	email := "taken@example.com"

	mock.ExpectQuery(qUpdate).WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Update(context.Background(), "u-1", models.UserUpdate{Email: &email})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	name := "x"

	mock.ExpectQuery(qUpdate).WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), "u-404", models.UserUpdate{Name: &name})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdatePassword(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(qUpdatePass).WithArgs("u-1", "new-hash").WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdatePassword(context.Background(), "u-1", "new-hash"))
	})

	t.Run("no such user", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(qUpdatePass).WithArgs("u-404", "h").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdatePassword(context.Background(), "u-404", "h"), common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(qUpdatePass).WillReturnError(errors.New("db err"))

		err := repo.UpdatePassword(context.Background(), "u-1", "h")
		require.Error(t, err)
		assert.Regexp(t, `db error: .*db err`, err.Error())
	})
}
