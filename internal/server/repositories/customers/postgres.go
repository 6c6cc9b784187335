package customers

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

func (r *PostgresRepository) Insert(ctx context.Context, c *models.Customer) (int64, error) {
	query := `
		INSERT INTO customers (name, phone, email, who_added, when_added, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		c.Name, c.Phone, c.Email, c.WhoAdded, c.WhenAdded, c.Note).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `
		SELECT id, name, phone, email,
		       who_added, when_added, who_changed, when_changed, is_deleted, note
		FROM customers
		WHERE id = $1
	`
	c := &models.Customer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email,
		&c.WhoAdded, &c.WhenAdded, &c.WhoChanged, &c.WhenChanged, &c.IsDeleted, &c.Note)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context, includeDeleted bool) ([]*models.Customer, error) {
	query := `
		SELECT id, name, phone, email,
		       who_added, when_added, who_changed, when_changed, is_deleted, note
		FROM customers
		WHERE is_deleted IS NULL OR $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Customer
	for rows.Next() {
		c := &models.Customer{}
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Phone, &c.Email,
			&c.WhoAdded, &c.WhenAdded, &c.WhoChanged, &c.WhenChanged, &c.IsDeleted, &c.Note); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Customer) (bool, error) {
	query := `
		UPDATE customers
		SET name = $1, phone = $2, email = $3, note = $4,
		    who_changed = $5, when_changed = $6
		WHERE id = $7 AND is_deleted IS NULL
	`
	res, err := r.db.ExecContext(ctx, query,
		c.Name, c.Phone, c.Email, c.Note,
		c.WhoChanged, c.WhenChanged, c.ID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected(res)
}

func (r *PostgresRepository) MarkDeleted(ctx context.Context, id int64, who string, when time.Time) (bool, error) {
	query := `
		UPDATE customers
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
		UPDATE customers
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
		DELETE FROM customers
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ExistsActive(ctx context.Context, id int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1 AND is_deleted IS NULL)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}
