package repository

import (
	"context"

	"talent-bridge/internal/database"
	"talent-bridge/internal/domain/matching"
)

type AvailabilityRepository interface {
	FindCurrent(ctx context.Context, userID int64) (matching.Availability, error)
}

type PostgresAvailabilityRepository struct {
	db database.DB
}

func NewPostgresAvailabilityRepository(db database.DB) *PostgresAvailabilityRepository {
	return &PostgresAvailabilityRepository{db: db}
}

// FindCurrent returns the most recent record still open today. No record is
// reported as Present=false, not as an error.
func (r *PostgresAvailabilityRepository) FindCurrent(ctx context.Context, userID int64) (matching.Availability, error) {
	row := r.db.QueryRow(ctx,
		`SELECT percent_available
		 FROM employee_availability
		 WHERE user_id = $1 AND (to_date IS NULL OR to_date >= CURRENT_DATE)
		 ORDER BY from_date DESC
		 LIMIT 1`,
		userID,
	)

	var pct int
	if err := row.Scan(&pct); err != nil {
		if database.IsNoRows(err) {
			return matching.Availability{}, nil
		}
		return matching.Availability{}, err
	}
	return matching.Availability{Percent: pct, Present: true}, nil
}
