package repository

import (
	"context"

	"talent-bridge/internal/database"
)

type ProjectRepository interface {
	ExistsByID(ctx context.Context, projectID int64) (bool, error)
}

type PostgresProjectRepository struct {
	db database.DB
}

func NewPostgresProjectRepository(db database.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{db: db}
}

func (r *PostgresProjectRepository) ExistsByID(ctx context.Context, projectID int64) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM projects WHERE project_id = $1)`, projectID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
