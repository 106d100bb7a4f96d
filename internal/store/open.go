package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Open returns the store for driver. dsn is a file path for sqlite and a
// connection string for postgres; it is ignored for memory.
func Open(ctx context.Context, logger *zap.Logger, driver, dsn string) (DealStore, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		if dsn == "" {
			return nil, fmt.Errorf("sqlite storage requires a database path")
		}
		return OpenSQLite(logger, dsn)
	case DriverPostgres:
		return OpenPostgres(ctx, logger, dsn)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}
