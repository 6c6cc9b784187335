package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akosenkov/fleetdesk/internal/common"
	"github.com/akosenkov/fleetdesk/internal/server/coherency"
	"github.com/akosenkov/fleetdesk/internal/server/lifecycle"
	"github.com/akosenkov/fleetdesk/internal/server/models"
)

// The FK check and the insert run inside one transaction, so these tests use
// sqlmock for Begin/Commit while the fake repositories hold the data.
func newVehicleFixture(t *testing.T) (*VehicleService, *fakeManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := newFakeManager()
	ch := coherency.NewService(coherency.NewVersionStore())
	return NewVehicleService(db, m, ch, lifecycle.NewRules(nil)), m, mock
}

func seedDriver(t *testing.T, m *fakeManager) int64 {
	t.Helper()
	id, err := m.drivers.Insert(context.Background(), &models.Driver{
		Forename: "Janis", Surname: "Berzins", Phone: "+371 26000001", LicenseNo: "LV-445566",
	})
	require.NoError(t, err)
	return id
}

func TestVehicleService_Create(t *testing.T) {
	svc, m, mock := newVehicleFixture(t)
	driverID := seedDriver(t, m)

	mock.ExpectBegin()
	mock.ExpectCommit()

	v, hash, err := svc.Create(context.Background(), "dispatcher", &models.Vehicle{
		Plate: "KX-1234", Make: "Volvo", Model: "FH16", DriverID: &driverID,
	})
	require.NoError(t, err)
	require.NotZero(t, v.ID)
	require.NotEmpty(t, hash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleService_Create_UnassignedDriver(t *testing.T) {
	svc, _, mock := newVehicleFixture(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	v, _, err := svc.Create(context.Background(), "dispatcher", &models.Vehicle{
		Plate: "KX-1234", Make: "Volvo", Model: "FH16",
	})
	require.NoError(t, err)
	assert.Nil(t, v.DriverID)
}

func TestVehicleService_Create_UnknownDriverRejected(t *testing.T) {
	svc, _, mock := newVehicleFixture(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	missing := int64(77)
	_, _, err := svc.Create(context.Background(), "dispatcher", &models.Vehicle{
		Plate: "KX-1234", Make: "Volvo", Model: "FH16", DriverID: &missing,
	})
	require.ErrorIs(t, err, common.ErrorValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleService_Create_DeletedDriverRejected(t *testing.T) {
	svc, m, mock := newVehicleFixture(t)
	driverID := seedDriver(t, m)
	_, err := m.drivers.MarkDeleted(context.Background(), driverID, "x", time.Now())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, _, err = svc.Create(context.Background(), "dispatcher", &models.Vehicle{
		Plate: "KX-1234", Make: "Volvo", Model: "FH16", DriverID: &driverID,
	})
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestVehicleService_Create_InvalidPlate(t *testing.T) {
	svc, _, mock := newVehicleFixture(t)

	// Validation fails before any transaction is opened.
	_, _, err := svc.Create(context.Background(), "dispatcher", &models.Vehicle{
		Plate: "kx_1234!", Make: "Volvo", Model: "FH16",
	})
	require.ErrorIs(t, err, common.ErrorValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleService_Update_ReassignsDriver(t *testing.T) {
	svc, m, mock := newVehicleFixture(t)
	first := seedDriver(t, m)
	second := seedDriver(t, m)

	mock.ExpectBegin()
	mock.ExpectCommit()
	created, _, err := svc.Create(context.Background(), "dispatcher", &models.Vehicle{
		Plate: "KX-1234", Make: "Volvo", Model: "FH16", DriverID: &first,
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	updated, _, err := svc.Update(context.Background(), "manager", &models.Vehicle{
		AuditFields: models.AuditFields{ID: created.ID},
		Plate:       "KX-1234", Make: "Volvo", Model: "FH16", DriverID: &second,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.DriverID)
	assert.Equal(t, second, *updated.DriverID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleService_SoftDelete(t *testing.T) {
	svc, m, mock := newVehicleFixture(t)

	mock.ExpectBegin()
	mock.ExpectCommit()
	created, _, err := svc.Create(context.Background(), "dispatcher", &models.Vehicle{
		Plate: "KX-1234", Make: "Volvo", Model: "FH16",
	})
	require.NoError(t, err)

	_, err = svc.SoftDelete(context.Background(), "manager", created.ID)
	require.NoError(t, err)

	stored, err := m.vehicles.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.IsDeleted)
}
