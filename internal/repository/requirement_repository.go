package repository

import (
	"context"

	"talent-bridge/internal/database"
	"talent-bridge/internal/domain/matching"
)

type RequirementRepository interface {
	FindByProjectID(ctx context.Context, projectID int64) ([]matching.SkillRequirement, error)
}

type PostgresRequirementRepository struct {
	db database.DB
}

func NewPostgresRequirementRepository(db database.DB) *PostgresRequirementRepository {
	return &PostgresRequirementRepository{db: db}
}

// FindByProjectID returns the project's requirements in declaration order.
// A NULL weight is kept as nil so the engine can apply its default.
func (r *PostgresRequirementRepository) FindByProjectID(ctx context.Context, projectID int64) ([]matching.SkillRequirement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT psr.skill_id, s.name, psr.desired_level, psr.weight
		 FROM project_skill_reqs psr
		 JOIN skills s ON s.skill_id = psr.skill_id
		 WHERE psr.project_id = $1
		 ORDER BY psr.id ASC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matching.SkillRequirement, 0)
	for rows.Next() {
		var it matching.SkillRequirement
		if err := rows.Scan(&it.SkillID, &it.SkillName, &it.DesiredLevel, &it.Weight); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
