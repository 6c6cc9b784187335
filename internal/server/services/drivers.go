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

// DriverService implements CRUD plus the soft-delete lifecycle for drivers.
type DriverService struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	coherency *coherency.Service
	rules     *lifecycle.Rules
}

func NewDriverService(db *sql.DB, m repomanager.RepositoryManager, ch *coherency.Service, rules *lifecycle.Rules) *DriverService {
	return &DriverService{db: db, repos: m, coherency: ch, rules: rules}
}

func (s *DriverService) List(ctx context.Context, includeDeleted bool) ([]*models.Driver, error) {
	return s.repos.Drivers(s.db).List(ctx, includeDeleted)
}

func (s *DriverService) Get(ctx context.Context, id int64) (*models.Driver, error) {
	return s.repos.Drivers(s.db).GetByID(ctx, id)
}

// Create validates, establishes the Active state, and persists a new driver.
// The fingerprint is invalidated only after a successful insert; a rejected
// driver leaves the table version untouched.
func (s *DriverService) Create(ctx context.Context, principal string, d *models.Driver) (*models.Driver, string, error) {
	if err := validateDriver(d); err != nil {
		return nil, "", err
	}
	if err := s.rules.Create(d, principal); err != nil {
		return nil, "", err
	}

	id, err := s.repos.Drivers(s.db).Insert(ctx, d)
	if err != nil {
		return nil, "", fmt.Errorf("error creating driver: %w", err)
	}
	d.ID = id

	hash, err := s.coherency.Invalidate(TableDrivers)
	if err != nil {
		return nil, "", err
	}
	return d, hash, nil
}

func (s *DriverService) Update(ctx context.Context, principal string, in *models.Driver) (*models.Driver, string, error) {
	if in.ID == 0 {
		return nil, "", fmt.Errorf("%w: id is required", common.ErrorValidation)
	}
	if err := validateDriver(in); err != nil {
		return nil, "", err
	}

	repo := s.repos.Drivers(s.db)
	current, err := repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, "", err
	}
	if err := s.rules.Update(current, principal); err != nil {
		return nil, "", err
	}
	current.Forename = in.Forename
	current.Surname = in.Surname
	current.Phone = in.Phone
	current.LicenseNo = in.LicenseNo
	current.Note = in.Note

	applied, err := repo.Update(ctx, current)
	if err != nil {
		return nil, "", fmt.Errorf("error updating driver: %w", err)
	}
	if !applied {
		// Lost a race against a concurrent soft-delete.
		return nil, "", common.ErrorEntityDeleted
	}

	hash, err := s.coherency.Invalidate(TableDrivers)
	if err != nil {
		return nil, "", err
	}
	return current, hash, nil
}

func (s *DriverService) SoftDelete(ctx context.Context, principal string, id int64) (string, error) {
	repo := s.repos.Drivers(s.db)
	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.rules.SoftDelete(current, principal); err != nil {
		return "", err
	}

	applied, err := repo.MarkDeleted(ctx, id, *current.WhoChanged, *current.WhenChanged)
	if err != nil {
		return "", fmt.Errorf("error deleting driver: %w", err)
	}
	if !applied {
		return "", common.ErrorAlreadyDeleted
	}

	return s.coherency.Invalidate(TableDrivers)
}

func (s *DriverService) Recover(ctx context.Context, principal string, id int64) (*models.Driver, string, error) {
	repo := s.repos.Drivers(s.db)
	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if err := s.rules.Recover(current, principal); err != nil {
		return nil, "", err
	}

	applied, err := repo.MarkRecovered(ctx, id, *current.WhoChanged, *current.WhenChanged)
	if err != nil {
		return nil, "", fmt.Errorf("error recovering driver: %w", err)
	}
	if !applied {
		return nil, "", common.ErrorAlreadyActive
	}

	hash, err := s.coherency.Invalidate(TableDrivers)
	if err != nil {
		return nil, "", err
	}
	return current, hash, nil
}

// HardDelete physically removes the row. Administrative paths only; the
// audit trail does not survive it.
func (s *DriverService) HardDelete(ctx context.Context, id int64) (string, error) {
	if err := s.repos.Drivers(s.db).HardDelete(ctx, id); err != nil {
		return "", fmt.Errorf("error deleting driver: %w", err)
	}
	return s.coherency.Invalidate(TableDrivers)
}

func validateDriver(d *models.Driver) error {
	if err := requireField("forename", d.Forename); err != nil {
		return err
	}
	if err := requireField("surname", d.Surname); err != nil {
		return err
	}
	if err := requireField("licenseNo", d.LicenseNo); err != nil {
		return err
	}
	return validatePhone(d.Phone)
}
