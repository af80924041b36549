//go:build integration

// Package storagetest поднимает PostgreSQL в контейнере для интеграционных тестов репозиториев
package storagetest

import (
	"context"
	"database/sql"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/m04kA/SMC-EventBookingService/pkg/dbmetrics"
)

const image = "postgres:16-alpine"

// NewDB запускает контейнер с примененной схемой migrations/001_init.sql.
// Контейнер останавливается в t.Cleanup.
func NewDB(t *testing.T) *dbmetrics.DB {
	t.Helper()

	ctx := context.Background()

	ctr, err := postgres.Run(ctx, image,
		postgres.WithDatabase("event_booking"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithInitScripts(migrationPath()),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = ctr.Terminate(context.Background())
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.PingContext(ctx))

	return dbmetrics.Wrap(db, nil, "test")
}

// SeedService добавляет активную услугу в каталог и возвращает ее ID
func SeedService(t *testing.T, db *dbmetrics.DB, name, category string, price int64) string {
	t.Helper()

	var id string
	err := db.QueryRowContext(context.Background(),
		`INSERT INTO services (name, category, price) VALUES ($1, $2, $3) RETURNING id`,
		name, category, price,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func migrationPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations", "001_init.sql")
}
