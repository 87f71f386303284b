package postgres_adapter

import (
	"context"
	"fmt"

	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
)

// ExpectedSchemaVersion - последняя миграция из каталога migrations/
const ExpectedSchemaVersion = 1

// CheckSchemaVersion прерывает запуск, если база не на нужной версии схемы.
func (a *PostgresStorageAdapter) CheckSchemaVersion(ctx context.Context) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresStorageAdapter",
		"method":    "CheckSchemaVersion",
	})

	var version *int
	err := a.pool.QueryRow(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&version)
	if err != nil {
		repoLogger.Error("Failed to read schema version", err, nil)
		return fmt.Errorf("%w: %v", domain.ErrSchemaVersion, err)
	}
	return compareSchemaVersion(version, ExpectedSchemaVersion)
}

func compareSchemaVersion(actual *int, expected int) error {
	if actual == nil {
		return fmt.Errorf("%w: no migrations applied, expected %d", domain.ErrSchemaVersion, expected)
	}
	if *actual != expected {
		return fmt.Errorf("%w: database is at %d, expected %d", domain.ErrSchemaVersion, *actual, expected)
	}
	return nil
}
