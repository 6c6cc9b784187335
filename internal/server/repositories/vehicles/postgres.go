package vehicles

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

func (r *PostgresRepository) Insert(ctx context.Context, v *models.Vehicle) (int64, error) {
	query := `
		INSERT INTO vehicles (plate, make, model, driver_id, who_added, when_added, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		v.Plate, v.Make, v.Model, v.DriverID, v.WhoAdded, v.WhenAdded, v.Note).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	query := `
		SELECT id, plate, make, model, driver_id,
		       who_added, when_added, who_changed, when_changed, is_deleted, note
		FROM vehicles
		WHERE id = $1
	`
	v := &models.Vehicle{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.Plate, &v.Make, &v.Model, &v.DriverID,
		&v.WhoAdded, &v.WhenAdded, &v.WhoChanged, &v.WhenChanged, &v.IsDeleted, &v.Note)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) List(ctx context.Context, includeDeleted bool) ([]*models.Vehicle, error) {
	query := `
		SELECT id, plate, make, model, driver_id,
		       who_added, when_added, who_changed, when_changed, is_deleted, note
		FROM vehicles
		WHERE is_deleted IS NULL OR $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Vehicle
	for rows.Next() {
		v := &models.Vehicle{}
		if err := rows.Scan(
			&v.ID, &v.Plate, &v.Make, &v.Model, &v.DriverID,
			&v.WhoAdded, &v.WhenAdded, &v.WhoChanged, &v.WhenChanged, &v.IsDeleted, &v.Note); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, v *models.Vehicle) (bool, error) {
	query := `
		UPDATE vehicles
		SET plate = $1, make = $2, model = $3, driver_id = $4, note = $5,
		    who_changed = $6, when_changed = $7
		WHERE id = $8 AND is_deleted IS NULL
	`
	res, err := r.db.ExecContext(ctx, query,
		v.Plate, v.Make, v.Model, v.DriverID, v.Note,
		v.WhoChanged, v.WhenChanged, v.ID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected(res)
}

func (r *PostgresRepository) MarkDeleted(ctx context.Context, id int64, who string, when time.Time) (bool, error) {
	query := `
		UPDATE vehicles
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
		UPDATE vehicles
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
		DELETE FROM vehicles
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ExistsActive(ctx context.Context, id int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM vehicles WHERE id = $1 AND is_deleted IS NULL)
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
