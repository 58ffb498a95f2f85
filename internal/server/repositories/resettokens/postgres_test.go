package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/akash0382/ApniSec/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	qInsert  = `(?s)^\s*INSERT\s+INTO\s+password_reset_tokens\s*\(user_id,\s*token,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`
	qConsume = `(?s)^\s*DELETE\s+FROM\s+password_reset_tokens\s+WHERE\s+token\s*=\s*\$1\s+RETURNING\s+token,\s*user_id,\s*expires_at,\s*created_at\s*$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	exp := time.Now().Add(30 * time.Minute)

	mock.ExpectExec(qInsert).WithArgs("u1", "abc", exp).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(context.Background(), "u1", "abc", exp))

	mock.ExpectExec(qInsert).WillReturnError(errors.New("nope"))
	err := repo.Create(context.Background(), "u1", "abc", exp)
	require.Error(t, err)
	assert.Regexp(t, `db error: .*nope`, err.Error())
}

func TestConsume(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	exp := time.Now().Add(time.Minute)

	mock.ExpectQuery(qConsume).WithArgs("abc").
		WillReturnRows(sqlmock.NewRows([]string{"token", "user_id", "expires_at", "created_at"}).AddRow("abc", "u1", exp, time.Now()))
	mock.ExpectQuery(qConsume).WithArgs("abc").WillReturnError(sql.ErrNoRows)

	got, err := repo.Consume(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, exp, got.ExpiresAt)

	_, err = repo.Consume(context.Background(), "abc")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
