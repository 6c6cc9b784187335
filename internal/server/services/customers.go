package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akosenkov/fleetdesk/internal/common"
	"github.com/akosenkov/fleetdesk/internal/server/coherency"
	"github.com/akosenkov/fleetdesk/internal/server/lifecycle"
	"github.com/akosenkov/fleetdesk/internal/server/models"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/repomanager"
)

// CustomerService implements CRUD plus the soft-delete lifecycle for customers.
type CustomerService struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	coherency *coherency.Service
	rules     *lifecycle.Rules
}

func NewCustomerService(db *sql.DB, m repomanager.RepositoryManager, ch *coherency.Service, rules *lifecycle.Rules) *CustomerService {
	return &CustomerService{db: db, repos: m, coherency: ch, rules: rules}
}

func (s *CustomerService) List(ctx context.Context, includeDeleted bool) ([]*models.Customer, error) {
	return s.repos.Customers(s.db).List(ctx, includeDeleted)
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*models.Customer, error) {
	return s.repos.Customers(s.db).GetByID(ctx, id)
}

func (s *CustomerService) Create(ctx context.Context, principal string, c *models.Customer) (*models.Customer, string, error) {
	if err := validateCustomer(c); err != nil {
		return nil, "", err
	}
	if err := s.rules.Create(c, principal); err != nil {
		return nil, "", err
	}

	id, err := s.repos.Customers(s.db).Insert(ctx, c)
	if err != nil {
		return nil, "", fmt.Errorf("error creating customer: %w", err)
	}
	c.ID = id

	hash, err := s.coherency.Invalidate(TableCustomers)
	if err != nil {
		return nil, "", err
	}
	return c, hash, nil
}

func (s *CustomerService) Update(ctx context.Context, principal string, in *models.Customer) (*models.Customer, string, error) {
	if in.ID == 0 {
		return nil, "", fmt.Errorf("%w: id is required", common.ErrorValidation)
	}
	if err := validateCustomer(in); err != nil {
		return nil, "", err
	}

	repo := s.repos.Customers(s.db)
	current, err := repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, "", err
	}
	if err := s.rules.Update(current, principal); err != nil {
		return nil, "", err
	}
	current.Name = in.Name
	current.Phone = in.Phone
	current.Email = in.Email
	current.Note = in.Note

	applied, err := repo.Update(ctx, current)
	if err != nil {
		return nil, "", fmt.Errorf("error updating customer: %w", err)
	}
	if !applied {
		return nil, "", common.ErrorEntityDeleted
	}

	hash, err := s.coherency.Invalidate(TableCustomers)
	if err != nil {
		return nil, "", err
	}
	return current, hash, nil
}

func (s *CustomerService) SoftDelete(ctx context.Context, principal string, id int64) (string, error) {
	repo := s.repos.Customers(s.db)
	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.rules.SoftDelete(current, principal); err != nil {
		return "", err
	}

	applied, err := repo.MarkDeleted(ctx, id, *current.WhoChanged, *current.WhenChanged)
	if err != nil {
		return "", fmt.Errorf("error deleting customer: %w", err)
	}
	if !applied {
		return "", common.ErrorAlreadyDeleted
	}

	return s.coherency.Invalidate(TableCustomers)
}

func (s *CustomerService) Recover(ctx context.Context, principal string, id int64) (*models.Customer, string, error) {
	repo := s.repos.Customers(s.db)
	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if err := s.rules.Recover(current, principal); err != nil {
		return nil, "", err
	}

	applied, err := repo.MarkRecovered(ctx, id, *current.WhoChanged, *current.WhenChanged)
	if err != nil {
		return nil, "", fmt.Errorf("error recovering customer: %w", err)
	}
	if !applied {
		return nil, "", common.ErrorAlreadyActive
	}

	hash, err := s.coherency.Invalidate(TableCustomers)
	if err != nil {
		return nil, "", err
	}
	return current, hash, nil
}

func (s *CustomerService) HardDelete(ctx context.Context, id int64) (string, error) {
	if err := s.repos.Customers(s.db).HardDelete(ctx, id); err != nil {
		return "", fmt.Errorf("error deleting customer: %w", err)
	}
	return s.coherency.Invalidate(TableCustomers)
}

func validateCustomer(c *models.Customer) error {
	if err := requireField("name", c.Name); err != nil {
		return err
	}
	if err := validatePhone(c.Phone); err != nil {
		return err
	}
	return validateEmail(c.Email)
}
