package repository

import (
	"context"

	"talent-bridge/internal/database"
	"talent-bridge/internal/domain/matching"
)

type AssignmentRepository interface {
	IsUserAssigned(ctx context.Context, userID, projectID int64) (bool, error)
	FindActiveByUserID(ctx context.Context, userID int64) ([]matching.AssignmentSummary, error)
}

type PostgresAssignmentRepository struct {
	db database.DB
}

func NewPostgresAssignmentRepository(db database.DB) *PostgresAssignmentRepository {
	return &PostgresAssignmentRepository{db: db}
}

func (r *PostgresAssignmentRepository) IsUserAssigned(ctx context.Context, userID, projectID int64) (bool, error) {
	var assigned bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM assignments
			WHERE user_id = $1 AND project_id = $2 AND status = 'ASSIGNED'
		 )`,
		userID, projectID,
	)
	if err := row.Scan(&assigned); err != nil {
		return false, err
	}
	return assigned, nil
}

func (r *PostgresAssignmentRepository) FindActiveByUserID(ctx context.Context, userID int64) ([]matching.AssignmentSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT assignment_id, project_id, COALESCE(role_on_project, ''), assigned_at, release_date
		 FROM assignments
		 WHERE user_id = $1 AND status = 'ASSIGNED'
		 ORDER BY assigned_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matching.AssignmentSummary, 0)
	for rows.Next() {
		var a matching.AssignmentSummary
		if err := rows.Scan(&a.AssignmentID, &a.ProjectID, &a.RoleOnProject, &a.AssignedAt, &a.ReleaseDate); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
