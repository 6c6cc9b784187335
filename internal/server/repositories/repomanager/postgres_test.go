package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

func TestRepositoryConstructors(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := NewPostgresRepositoryManager()

	require.NotNil(t, m.Users(db))
	require.NotNil(t, m.Drivers(db))
	require.NotNil(t, m.Vehicles(db))
	require.NotNil(t, m.Customers(db))
	require.NotNil(t, m.Orders(db))
}

func TestRunMigrations_PropagatesError(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	wantErr := errors.New("migration failed")
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return wantErr
	}

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := &PostgresRepositoryManager{}
	err = m.RunMigrations(context.Background(), db)
	require.ErrorIs(t, err, wantErr)
}

func TestRunMigrations_Success(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	called := false
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		called = true
		return nil
	}

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := &PostgresRepositoryManager{}
	require.NoError(t, m.RunMigrations(context.Background(), db))
	require.True(t, called)
}
