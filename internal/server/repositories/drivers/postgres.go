package drivers

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

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, d *models.Driver) (int64, error) {
	query := `
		INSERT INTO drivers (forename, surname, phone, license_no, who_added, when_added, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		d.Forename, d.Surname, d.Phone, d.LicenseNo, d.WhoAdded, d.WhenAdded, d.Note).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Driver, error) {
	query := `
		SELECT id, forename, surname, phone, license_no,
		       who_added, when_added, who_changed, when_changed, is_deleted, note
		FROM drivers
		WHERE id = $1
	`
	d := &models.Driver{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.Forename, &d.Surname, &d.Phone, &d.LicenseNo,
		&d.WhoAdded, &d.WhenAdded, &d.WhoChanged, &d.WhenChanged, &d.IsDeleted, &d.Note)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) List(ctx context.Context, includeDeleted bool) ([]*models.Driver, error) {
	query := `
		SELECT id, forename, surname, phone, license_no,
		       who_added, when_added, who_changed, when_changed, is_deleted, note
		FROM drivers
		WHERE is_deleted IS NULL OR $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Driver
	for rows.Next() {
		d := &models.Driver{}
		if err := rows.Scan(
			&d.ID, &d.Forename, &d.Surname, &d.Phone, &d.LicenseNo,
			&d.WhoAdded, &d.WhenAdded, &d.WhoChanged, &d.WhenChanged, &d.IsDeleted, &d.Note); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, d *models.Driver) (bool, error) {
	query := `
		UPDATE drivers
		SET forename = $1, surname = $2, phone = $3, license_no = $4, note = $5,
		    who_changed = $6, when_changed = $7
		WHERE id = $8 AND is_deleted IS NULL
	`
	res, err := r.db.ExecContext(ctx, query,
		d.Forename, d.Surname, d.Phone, d.LicenseNo, d.Note,
		d.WhoChanged, d.WhenChanged, d.ID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected(res)
}

func (r *PostgresRepository) MarkDeleted(ctx context.Context, id int64, who string, when time.Time) (bool, error) {
	query := `
		UPDATE drivers
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
		UPDATE drivers
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
		DELETE FROM drivers
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ExistsActive(ctx context.Context, id int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM drivers WHERE id = $1 AND is_deleted IS NULL)
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
