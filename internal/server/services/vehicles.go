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

// VehicleService implements CRUD plus the soft-delete lifecycle for vehicles.
// A vehicle may reference its assigned driver; assignments are checked against
// active drivers inside the same transaction as the write.
type VehicleService struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	coherency *coherency.Service
	rules     *lifecycle.Rules
}

func NewVehicleService(db *sql.DB, m repomanager.RepositoryManager, ch *coherency.Service, rules *lifecycle.Rules) *VehicleService {
	return &VehicleService{db: db, repos: m, coherency: ch, rules: rules}
}

func (s *VehicleService) List(ctx context.Context, includeDeleted bool) ([]*models.Vehicle, error) {
	return s.repos.Vehicles(s.db).List(ctx, includeDeleted)
}

func (s *VehicleService) Get(ctx context.Context, id int64) (*models.Vehicle, error) {
	return s.repos.Vehicles(s.db).GetByID(ctx, id)
}

func (s *VehicleService) Create(ctx context.Context, principal string, v *models.Vehicle) (*models.Vehicle, string, error) {
	if err := validateVehicle(v); err != nil {
		return nil, "", err
	}
	if err := s.rules.Create(v, principal); err != nil {
		return nil, "", err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.checkDriver(ctx, tx, v.DriverID); err != nil {
			return err
		}
		id, err := s.repos.Vehicles(tx).Insert(ctx, v)
		if err != nil {
			return fmt.Errorf("error creating vehicle: %w", err)
		}
		v.ID = id
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	hash, err := s.coherency.Invalidate(TableVehicles)
	if err != nil {
		return nil, "", err
	}
	return v, hash, nil
}

func (s *VehicleService) Update(ctx context.Context, principal string, in *models.Vehicle) (*models.Vehicle, string, error) {
	if in.ID == 0 {
		return nil, "", fmt.Errorf("%w: id is required", common.ErrorValidation)
	}
	if err := validateVehicle(in); err != nil {
		return nil, "", err
	}

	var current *models.Vehicle
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Vehicles(tx)

		var err error
		current, err = repo.GetByID(ctx, in.ID)
		if err != nil {
			return err
		}
		if err := s.rules.Update(current, principal); err != nil {
			return err
		}
		if err := s.checkDriver(ctx, tx, in.DriverID); err != nil {
			return err
		}
		current.Plate = in.Plate
		current.Make = in.Make
		current.Model = in.Model
		current.DriverID = in.DriverID
		current.Note = in.Note

		applied, err := repo.Update(ctx, current)
		if err != nil {
			return fmt.Errorf("error updating vehicle: %w", err)
		}
		if !applied {
			return common.ErrorEntityDeleted
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	hash, err := s.coherency.Invalidate(TableVehicles)
	if err != nil {
		return nil, "", err
	}
	return current, hash, nil
}

func (s *VehicleService) SoftDelete(ctx context.Context, principal string, id int64) (string, error) {
	repo := s.repos.Vehicles(s.db)
	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.rules.SoftDelete(current, principal); err != nil {
		return "", err
	}

	applied, err := repo.MarkDeleted(ctx, id, *current.WhoChanged, *current.WhenChanged)
	if err != nil {
		return "", fmt.Errorf("error deleting vehicle: %w", err)
	}
	if !applied {
		return "", common.ErrorAlreadyDeleted
	}

	return s.coherency.Invalidate(TableVehicles)
}

func (s *VehicleService) Recover(ctx context.Context, principal string, id int64) (*models.Vehicle, string, error) {
	repo := s.repos.Vehicles(s.db)
	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if err := s.rules.Recover(current, principal); err != nil {
		return nil, "", err
	}

	applied, err := repo.MarkRecovered(ctx, id, *current.WhoChanged, *current.WhenChanged)
	if err != nil {
		return nil, "", fmt.Errorf("error recovering vehicle: %w", err)
	}
	if !applied {
		return nil, "", common.ErrorAlreadyActive
	}

	hash, err := s.coherency.Invalidate(TableVehicles)
	if err != nil {
		return nil, "", err
	}
	return current, hash, nil
}

func (s *VehicleService) HardDelete(ctx context.Context, id int64) (string, error) {
	if err := s.repos.Vehicles(s.db).HardDelete(ctx, id); err != nil {
		return "", fmt.Errorf("error deleting vehicle: %w", err)
	}
	return s.coherency.Invalidate(TableVehicles)
}

// checkDriver verifies that the referenced driver exists and is active.
// A nil driverID means the vehicle is unassigned, which is fine.
func (s *VehicleService) checkDriver(ctx context.Context, tx dbx.DBTX, driverID *int64) error {
	if driverID == nil {
		return nil
	}
	ok, err := s.repos.Drivers(tx).ExistsActive(ctx, *driverID)
	if err != nil {
		return fmt.Errorf("error checking driver: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: driver %d does not exist", common.ErrorValidation, *driverID)
	}
	return nil
}

func validateVehicle(v *models.Vehicle) error {
	if err := validatePlate(v.Plate); err != nil {
		return err
	}
	if err := requireField("make", v.Make); err != nil {
		return err
	}
	return requireField("model", v.Model)
}
