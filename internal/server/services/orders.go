package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akosenkov/fleetdesk/internal/common"
	"github.com/akosenkov/fleetdesk/internal/dbx"
	"github.com/akosenkov/fleetdesk/internal/server/coherency"
	"github.com/akosenkov/fleetdesk/internal/server/lifecycle"
	"github.com/akosenkov/fleetdesk/internal/server/models"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/repomanager"
)

// OrderService implements CRUD plus the soft-delete lifecycle for orders.
// Every order belongs to an active customer; the reference is checked inside
// the same transaction as the write.
type OrderService struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	coherency *coherency.Service
	rules     *lifecycle.Rules
}

func NewOrderService(db *sql.DB, m repomanager.RepositoryManager, ch *coherency.Service, rules *lifecycle.Rules) *OrderService {
	return &OrderService{db: db, repos: m, coherency: ch, rules: rules}
}

func (s *OrderService) List(ctx context.Context, includeDeleted bool) ([]*models.Order, error) {
	return s.repos.Orders(s.db).List(ctx, includeDeleted)
}

func (s *OrderService) Get(ctx context.Context, id int64) (*models.Order, error) {
	return s.repos.Orders(s.db).GetByID(ctx, id)
}

func (s *OrderService) Create(ctx context.Context, principal string, o *models.Order) (*models.Order, string, error) {
	if err := validateOrder(o); err != nil {
		return nil, "", err
	}
	if err := s.rules.Create(o, principal); err != nil {
		return nil, "", err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.checkCustomer(ctx, tx, o.CustomerID); err != nil {
			return err
		}
		id, err := s.repos.Orders(tx).Insert(ctx, o)
		if err != nil {
			return fmt.Errorf("error creating order: %w", err)
		}
		o.ID = id
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	hash, err := s.coherency.Invalidate(TableOrders)
	if err != nil {
		return nil, "", err
	}
	return o, hash, nil
}

func (s *OrderService) Update(ctx context.Context, principal string, in *models.Order) (*models.Order, string, error) {
	if in.ID == 0 {
		return nil, "", fmt.Errorf("%w: id is required", common.ErrorValidation)
	}
	if err := validateOrder(in); err != nil {
		return nil, "", err
	}

	var current *models.Order
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Orders(tx)

		var err error
		current, err = repo.GetByID(ctx, in.ID)
		if err != nil {
			return err
		}
		if err := s.rules.Update(current, principal); err != nil {
			return err
		}
		if err := s.checkCustomer(ctx, tx, in.CustomerID); err != nil {
			return err
		}
		current.CustomerID = in.CustomerID
		current.PickupAddr = in.PickupAddr
		current.DropoffAddr = in.DropoffAddr
		current.Date = in.Date
		current.DistanceKm = in.DistanceKm
		current.Price = in.Price
		current.Note = in.Note

		applied, err := repo.Update(ctx, current)
		if err != nil {
			return fmt.Errorf("error updating order: %w", err)
		}
		if !applied {
			return common.ErrorEntityDeleted
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	hash, err := s.coherency.Invalidate(TableOrders)
	if err != nil {
		return nil, "", err
	}
	return current, hash, nil
}

func (s *OrderService) SoftDelete(ctx context.Context, principal string, id int64) (string, error) {
	repo := s.repos.Orders(s.db)
	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.rules.SoftDelete(current, principal); err != nil {
		return "", err
	}

	applied, err := repo.MarkDeleted(ctx, id, *current.WhoChanged, *current.WhenChanged)
	if err != nil {
		return "", fmt.Errorf("error deleting order: %w", err)
	}
	if !applied {
		return "", common.ErrorAlreadyDeleted
	}

	return s.coherency.Invalidate(TableOrders)
}

func (s *OrderService) Recover(ctx context.Context, principal string, id int64) (*models.Order, string, error) {
	repo := s.repos.Orders(s.db)
	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if err := s.rules.Recover(current, principal); err != nil {
		return nil, "", err
	}

	applied, err := repo.MarkRecovered(ctx, id, *current.WhoChanged, *current.WhenChanged)
	if err != nil {
		return nil, "", fmt.Errorf("error recovering order: %w", err)
	}
	if !applied {
		return nil, "", common.ErrorAlreadyActive
	}

	hash, err := s.coherency.Invalidate(TableOrders)
	if err != nil {
		return nil, "", err
	}
	return current, hash, nil
}

func (s *OrderService) HardDelete(ctx context.Context, id int64) (string, error) {
	if err := s.repos.Orders(s.db).HardDelete(ctx, id); err != nil {
		return "", fmt.Errorf("error deleting order: %w", err)
	}
	return s.coherency.Invalidate(TableOrders)
}

func (s *OrderService) checkCustomer(ctx context.Context, tx dbx.DBTX, customerID int64) error {
	if customerID == 0 {
		return fmt.Errorf("%w: customerId is required", common.ErrorValidation)
	}
	ok, err := s.repos.Customers(tx).ExistsActive(ctx, customerID)
	if err != nil {
		return fmt.Errorf("error checking customer: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: customer %d does not exist", common.ErrorValidation, customerID)
	}
	return nil
}

func validateOrder(o *models.Order) error {
	if err := requireField("pickupAddr", o.PickupAddr); err != nil {
		return err
	}
	if err := requireField("dropoffAddr", o.DropoffAddr); err != nil {
		return err
	}
	if o.Date.IsZero() {
		return fmt.Errorf("%w: date is required", common.ErrorValidation)
	}
	if err := requirePositive("distanceKm", o.DistanceKm); err != nil {
		return err
	}
	return requirePositive("price", o.Price)
}
