package services

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/akosenkov/fleetdesk/internal/common"
	"github.com/akosenkov/fleetdesk/internal/dbx"
	"github.com/akosenkov/fleetdesk/internal/server/models"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/customers"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/drivers"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/orders"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/users"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/vehicles"
)

// fakeTable is an in-memory stand-in for one entity table. It reproduces the
// guarded-mutation semantics of the SQL repositories: mutations against a
// missing row or a row in the wrong state report applied=false.
type fakeTable[T models.Auditable] struct {
	nextID int64
	rows   map[int64]T
}

func newFakeTable[T models.Auditable]() *fakeTable[T] {
	return &fakeTable[T]{rows: map[int64]T{}}
}

func (t *fakeTable[T]) insert(e T) int64 {
	t.nextID++
	e.Audit().ID = t.nextID
	t.rows[t.nextID] = e
	return t.nextID
}

func (t *fakeTable[T]) get(id int64) (T, error) {
	e, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, common.ErrorNotFound
	}
	return e, nil
}

// detach returns a copy of a fetched row so callers cannot mutate the stored
// state through the returned pointer, matching how the SQL repositories hand
// out freshly scanned rows.
func detach[E any](e *E, err error) (*E, error) {
	if err != nil {
		return nil, err
	}
	cp := *e
	return &cp, nil
}

func (t *fakeTable[T]) list(includeDeleted bool) []T {
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		e := t.rows[id]
		if e.Audit().Deleted() && !includeDeleted {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (t *fakeTable[T]) update(e T) (bool, error) {
	cur, ok := t.rows[e.Audit().ID]
	if !ok || cur.Audit().Deleted() {
		return false, nil
	}
	t.rows[e.Audit().ID] = e
	return true, nil
}

func (t *fakeTable[T]) markDeleted(id int64, who string, when time.Time) (bool, error) {
	e, ok := t.rows[id]
	if !ok || e.Audit().Deleted() {
		return false, nil
	}
	a := e.Audit()
	a.IsDeleted = &when
	a.WhoChanged = &who
	a.WhenChanged = &when
	return true, nil
}

func (t *fakeTable[T]) markRecovered(id int64, who string, when time.Time) (bool, error) {
	e, ok := t.rows[id]
	if !ok || !e.Audit().Deleted() {
		return false, nil
	}
	a := e.Audit()
	a.IsDeleted = nil
	a.WhoChanged = &who
	a.WhenChanged = &when
	return true, nil
}

func (t *fakeTable[T]) hardDelete(id int64) {
	delete(t.rows, id)
}

func (t *fakeTable[T]) existsActive(id int64) bool {
	e, ok := t.rows[id]
	return ok && !e.Audit().Deleted()
}

type fakeDriversRepo struct{ tbl *fakeTable[*models.Driver] }

func (r *fakeDriversRepo) Insert(_ context.Context, d *models.Driver) (int64, error) {
	return r.tbl.insert(d), nil
}
func (r *fakeDriversRepo) GetByID(_ context.Context, id int64) (*models.Driver, error) {
	return detach(r.tbl.get(id))
}
func (r *fakeDriversRepo) List(_ context.Context, includeDeleted bool) ([]*models.Driver, error) {
	return r.tbl.list(includeDeleted), nil
}
func (r *fakeDriversRepo) Update(_ context.Context, d *models.Driver) (bool, error) {
	return r.tbl.update(d)
}
func (r *fakeDriversRepo) MarkDeleted(_ context.Context, id int64, who string, when time.Time) (bool, error) {
	return r.tbl.markDeleted(id, who, when)
}
func (r *fakeDriversRepo) MarkRecovered(_ context.Context, id int64, who string, when time.Time) (bool, error) {
	return r.tbl.markRecovered(id, who, when)
}
func (r *fakeDriversRepo) HardDelete(_ context.Context, id int64) error {
	r.tbl.hardDelete(id)
	return nil
}
func (r *fakeDriversRepo) ExistsActive(_ context.Context, id int64) (bool, error) {
	return r.tbl.existsActive(id), nil
}

type fakeVehiclesRepo struct{ tbl *fakeTable[*models.Vehicle] }

func (r *fakeVehiclesRepo) Insert(_ context.Context, v *models.Vehicle) (int64, error) {
	return r.tbl.insert(v), nil
}
func (r *fakeVehiclesRepo) GetByID(_ context.Context, id int64) (*models.Vehicle, error) {
	return detach(r.tbl.get(id))
}
func (r *fakeVehiclesRepo) List(_ context.Context, includeDeleted bool) ([]*models.Vehicle, error) {
	return r.tbl.list(includeDeleted), nil
}
func (r *fakeVehiclesRepo) Update(_ context.Context, v *models.Vehicle) (bool, error) {
	return r.tbl.update(v)
}
func (r *fakeVehiclesRepo) MarkDeleted(_ context.Context, id int64, who string, when time.Time) (bool, error) {
	return r.tbl.markDeleted(id, who, when)
}
func (r *fakeVehiclesRepo) MarkRecovered(_ context.Context, id int64, who string, when time.Time) (bool, error) {
	return r.tbl.markRecovered(id, who, when)
}
func (r *fakeVehiclesRepo) HardDelete(_ context.Context, id int64) error {
	r.tbl.hardDelete(id)
	return nil
}
func (r *fakeVehiclesRepo) ExistsActive(_ context.Context, id int64) (bool, error) {
	return r.tbl.existsActive(id), nil
}

type fakeCustomersRepo struct{ tbl *fakeTable[*models.Customer] }

func (r *fakeCustomersRepo) Insert(_ context.Context, c *models.Customer) (int64, error) {
	return r.tbl.insert(c), nil
}
func (r *fakeCustomersRepo) GetByID(_ context.Context, id int64) (*models.Customer, error) {
	return detach(r.tbl.get(id))
}
func (r *fakeCustomersRepo) List(_ context.Context, includeDeleted bool) ([]*models.Customer, error) {
	return r.tbl.list(includeDeleted), nil
}
func (r *fakeCustomersRepo) Update(_ context.Context, c *models.Customer) (bool, error) {
	return r.tbl.update(c)
}
func (r *fakeCustomersRepo) MarkDeleted(_ context.Context, id int64, who string, when time.Time) (bool, error) {
	return r.tbl.markDeleted(id, who, when)
}
func (r *fakeCustomersRepo) MarkRecovered(_ context.Context, id int64, who string, when time.Time) (bool, error) {
	return r.tbl.markRecovered(id, who, when)
}
func (r *fakeCustomersRepo) HardDelete(_ context.Context, id int64) error {
	r.tbl.hardDelete(id)
	return nil
}
func (r *fakeCustomersRepo) ExistsActive(_ context.Context, id int64) (bool, error) {
	return r.tbl.existsActive(id), nil
}

type fakeOrdersRepo struct{ tbl *fakeTable[*models.Order] }

func (r *fakeOrdersRepo) Insert(_ context.Context, o *models.Order) (int64, error) {
	return r.tbl.insert(o), nil
}
func (r *fakeOrdersRepo) GetByID(_ context.Context, id int64) (*models.Order, error) {
	return detach(r.tbl.get(id))
}
func (r *fakeOrdersRepo) List(_ context.Context, includeDeleted bool) ([]*models.Order, error) {
	return r.tbl.list(includeDeleted), nil
}
func (r *fakeOrdersRepo) Update(_ context.Context, o *models.Order) (bool, error) {
	return r.tbl.update(o)
}
func (r *fakeOrdersRepo) MarkDeleted(_ context.Context, id int64, who string, when time.Time) (bool, error) {
	return r.tbl.markDeleted(id, who, when)
}
func (r *fakeOrdersRepo) MarkRecovered(_ context.Context, id int64, who string, when time.Time) (bool, error) {
	return r.tbl.markRecovered(id, who, when)
}
func (r *fakeOrdersRepo) HardDelete(_ context.Context, id int64) error {
	r.tbl.hardDelete(id)
	return nil
}

type fakeUsersRepo struct{ tbl *fakeTable[*models.User] }

func (r *fakeUsersRepo) Insert(_ context.Context, u *models.User) (int64, error) {
	return r.tbl.insert(u), nil
}
func (r *fakeUsersRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	return detach(r.tbl.get(id))
}
func (r *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.tbl.list(false) {
		if u.Email == email {
			return detach(u, nil)
		}
	}
	return nil, common.ErrorNotFound
}
func (r *fakeUsersRepo) Update(_ context.Context, u *models.User) (bool, error) {
	return r.tbl.update(u)
}
func (r *fakeUsersRepo) MarkDeleted(_ context.Context, id int64, who string, when time.Time) (bool, error) {
	return r.tbl.markDeleted(id, who, when)
}
func (r *fakeUsersRepo) MarkRecovered(_ context.Context, id int64, who string, when time.Time) (bool, error) {
	return r.tbl.markRecovered(id, who, when)
}
func (r *fakeUsersRepo) HardDelete(_ context.Context, id int64) error {
	r.tbl.hardDelete(id)
	return nil
}
func (r *fakeUsersRepo) UpdatePassword(_ context.Context, id int64, passwordHash, who string, when time.Time) (bool, error) {
	u, ok := r.tbl.rows[id]
	if !ok || u.Deleted() {
		return false, nil
	}
	u.PasswordHash = passwordHash
	u.WhoChanged = &who
	u.WhenChanged = &when
	return true, nil
}

// fakeManager vends the in-memory fakes regardless of the DBTX handed in,
// which lets transactional service paths run against sqlmock Begin/Commit
// while the data lives in plain maps.
type fakeManager struct {
	users     *fakeUsersRepo
	drivers   *fakeDriversRepo
	vehicles  *fakeVehiclesRepo
	customers *fakeCustomersRepo
	orders    *fakeOrdersRepo
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		users:     &fakeUsersRepo{tbl: newFakeTable[*models.User]()},
		drivers:   &fakeDriversRepo{tbl: newFakeTable[*models.Driver]()},
		vehicles:  &fakeVehiclesRepo{tbl: newFakeTable[*models.Vehicle]()},
		customers: &fakeCustomersRepo{tbl: newFakeTable[*models.Customer]()},
		orders:    &fakeOrdersRepo{tbl: newFakeTable[*models.Order]()},
	}
}

func (m *fakeManager) Users(dbx.DBTX) users.Repository         { return m.users }
func (m *fakeManager) Drivers(dbx.DBTX) drivers.Repository     { return m.drivers }
func (m *fakeManager) Vehicles(dbx.DBTX) vehicles.Repository   { return m.vehicles }
func (m *fakeManager) Customers(dbx.DBTX) customers.Repository { return m.customers }
func (m *fakeManager) Orders(dbx.DBTX) orders.Repository       { return m.orders }

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
