package orders

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

func (r *PostgresRepository) Insert(ctx context.Context, o *models.Order) (int64, error) {
	query := `
		INSERT INTO orders (customer_id, pickup_addr, dropoff_addr, order_date, distance_km, price, who_added, when_added, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		o.CustomerID, o.PickupAddr, o.DropoffAddr, o.Date, o.DistanceKm, o.Price,
		o.WhoAdded, o.WhenAdded, o.Note).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `
		SELECT id, customer_id, pickup_addr, dropoff_addr, order_date, distance_km, price,
		       who_added, when_added, who_changed, when_changed, is_deleted, note
		FROM orders
		WHERE id = $1
	`
	o := &models.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.CustomerID, &o.PickupAddr, &o.DropoffAddr, &o.Date, &o.DistanceKm, &o.Price,
		&o.WhoAdded, &o.WhenAdded, &o.WhoChanged, &o.WhenChanged, &o.IsDeleted, &o.Note)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) List(ctx context.Context, includeDeleted bool) ([]*models.Order, error) {
	query := `
		SELECT id, customer_id, pickup_addr, dropoff_addr, order_date, distance_km, price,
		       who_added, when_added, who_changed, when_changed, is_deleted, note
		FROM orders
		WHERE is_deleted IS NULL OR $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Order
	for rows.Next() {
		o := &models.Order{}
		if err := rows.Scan(
			&o.ID, &o.CustomerID, &o.PickupAddr, &o.DropoffAddr, &o.Date, &o.DistanceKm, &o.Price,
			&o.WhoAdded, &o.WhenAdded, &o.WhoChanged, &o.WhenChanged, &o.IsDeleted, &o.Note); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, o *models.Order) (bool, error) {
	query := `
		UPDATE orders
		SET customer_id = $1, pickup_addr = $2, dropoff_addr = $3, order_date = $4,
		    distance_km = $5, price = $6, note = $7,
		    who_changed = $8, when_changed = $9
		WHERE id = $10 AND is_deleted IS NULL
	`
	res, err := r.db.ExecContext(ctx, query,
		o.CustomerID, o.PickupAddr, o.DropoffAddr, o.Date,
		o.DistanceKm, o.Price, o.Note,
		o.WhoChanged, o.WhenChanged, o.ID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected(res)
}

func (r *PostgresRepository) MarkDeleted(ctx context.Context, id int64, who string, when time.Time) (bool, error) {
	query := `
		UPDATE orders
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
		UPDATE orders
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
		DELETE FROM orders
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}
