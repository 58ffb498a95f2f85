package issues

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akash0382/ApniSec/internal/common"
	"github.com/akash0382/ApniSec/internal/dbx"
	"github.com/akash0382/ApniSec/internal/server/models"
)

const issueColumns = `id, type, title, description, priority, status, user_id, evidence_key, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, issue *models.Issue) (*models.Issue, error) {
	query :=
		`INSERT INTO issues (type, title, description, priority, status, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		string(issue.Type), issue.Title, issue.Description, string(issue.Priority), string(issue.Status), issue.UserID).
		Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return issue, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues
		 WHERE id = $1
		 `
	return scanIssue(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, issueType *models.IssueType) ([]*models.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues
		 WHERE user_id = $1 AND ($2::text IS NULL OR type = $2)
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, nullable(issueType))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Issue, 0)
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd models.IssueUpdate) (*models.Issue, error) {
	query :=
		`UPDATE issues
		 SET type = COALESCE($2, type),
		     title = COALESCE($3, title),
		     description = COALESCE($4, description),
		     priority = COALESCE($5, priority),
		     status = COALESCE($6, status),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING ` + issueColumns

	return scanIssue(r.db.QueryRowContext(ctx, query, id,
		nullable(upd.Type), upd.Title, upd.Description, nullable(upd.Priority), nullable(upd.Status)))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM issues WHERE id = $1`
	return r.execOne(ctx, query, id)
}

func (r *PostgresRepository) IsOwner(ctx context.Context, id string, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM issues WHERE id = $1 AND user_id = $2)`

	var owner bool
	if err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&owner); err != nil {
		if dbx.IsInvalidInput(err) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return owner, nil
}

func (r *PostgresRepository) SetEvidenceKey(ctx context.Context, id string, key string) error {
	query := `UPDATE issues SET evidence_key = $2, updated_at = now() WHERE id = $1`
	return r.execOne(ctx, query, id, key)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if dbx.IsInvalidInput(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIssue(row scanner) (*models.Issue, error) {
	issue := &models.Issue{}
	var evidence sql.NullString

	err := row.Scan(&issue.ID, &issue.Type, &issue.Title, &issue.Description, &issue.Priority,
		&issue.Status, &issue.UserID, &evidence, &issue.CreatedAt, &issue.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if evidence.Valid {
		issue.EvidenceKey = &evidence.String
	}
	return issue, nil
}

// nullable turns an optional enum into a driver value, nil meaning NULL.
func nullable[T ~string](v *T) any {
	if v == nil {
		return nil
	}
	return string(*v)
}
