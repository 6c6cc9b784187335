package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akosenkov/fleetdesk/internal/common"
	"github.com/akosenkov/fleetdesk/internal/dbx"
	"github.com/akosenkov/fleetdesk/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, password_hash,
		who_added, when_added, who_changed, when_changed, is_deleted, note`

func (r *PostgresRepository) Insert(ctx context.Context, u *models.User) (int64, error) {
	query := `
		INSERT INTO users (username, email, password_hash, who_added, when_added, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		u.UserName, u.Email, u.PasswordHash, u.WhoAdded, u.WhenAdded, u.Note).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_deleted IS NULL`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.UserName, &u.Email, &u.PasswordHash,
		&u.WhoAdded, &u.WhenAdded, &u.WhoChanged, &u.WhenChanged, &u.IsDeleted, &u.Note)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Update(ctx context.Context, u *models.User) (bool, error) {
	query := `
		UPDATE users
		SET username = $1, email = $2, note = $3,
		    who_changed = $4, when_changed = $5
		WHERE id = $6 AND is_deleted IS NULL
	`
	res, err := r.db.ExecContext(ctx, query,
		u.UserName, u.Email, u.Note, u.WhoChanged, u.WhenChanged, u.ID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected(res)
}

func (r *PostgresRepository) MarkDeleted(ctx context.Context, id int64, who string, when time.Time) (bool, error) {
	query := `
		UPDATE users
		SET is_deleted = $3, who_changed = $2, when_changed = $3
		WHERE id = $1 AND is_deleted IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, id, who, when)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected(res)
}

func (r *PostgresRepository) MarkRecovered(ctx context.Context, id int64, who string, when time.Time) (bool, error) {
	query := `
		UPDATE users
		SET is_deleted = NULL, who_changed = $2, when_changed = $3
		WHERE id = $1 AND is_deleted IS NOT NULL
	`
	res, err := r.db.ExecContext(ctx, query, id, who, when)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected(res)
}

func (r *PostgresRepository) HardDelete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM users
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id int64, passwordHash, who string, when time.Time) (bool, error) {
	query := `
		UPDATE users
		SET password_hash = $2, who_changed = $3, when_changed = $4
		WHERE id = $1 AND is_deleted IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, id, passwordHash, who, when)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected(res)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}
