package seeder

import (
	"context"

	"talent-bridge/internal/database"
)

// Seeder inserts reference or demo rows. Implementations must be idempotent.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
