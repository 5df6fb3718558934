package repository

import (
	"context"
	"fmt"
	"strings"

	"talent-bridge/internal/database"
	"talent-bridge/internal/domain/matching"
)

type EmployeeSkillRepository interface {
	FindByUserID(ctx context.Context, userID int64) ([]matching.EmployeeSkill, error)
	FindUsersWithAnySkill(ctx context.Context, skillIDs []int64) ([]int64, error)
}

type PostgresEmployeeSkillRepository struct {
	db database.DB
}

func NewPostgresEmployeeSkillRepository(db database.DB) *PostgresEmployeeSkillRepository {
	return &PostgresEmployeeSkillRepository{db: db}
}

func (r *PostgresEmployeeSkillRepository) FindByUserID(ctx context.Context, userID int64) ([]matching.EmployeeSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT es.user_id, es.skill_id, s.name, es.level, COALESCE(es.years_experience, 0), es.last_used_year
		 FROM employee_skills es
		 JOIN skills s ON s.skill_id = es.skill_id
		 WHERE es.user_id = $1
		 ORDER BY es.skill_id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matching.EmployeeSkill, 0)
	for rows.Next() {
		var es matching.EmployeeSkill
		if err := rows.Scan(&es.UserID, &es.SkillID, &es.SkillName, &es.Level, &es.YearsExperience, &es.LastUsedYear); err != nil {
			return nil, err
		}
		out = append(out, es)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindUsersWithAnySkill returns active employees holding at least one of the
// given skills, ordered by user id.
func (r *PostgresEmployeeSkillRepository) FindUsersWithAnySkill(ctx context.Context, skillIDs []int64) ([]int64, error) {
	if len(skillIDs) == 0 {
		return []int64{}, nil
	}

	placeholders := make([]string, len(skillIDs))
	args := make([]any, len(skillIDs))
	for i, id := range skillIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT es.user_id
		 FROM employee_skills es
		 JOIN users u ON es.user_id = u.user_id
		 WHERE es.skill_id IN (`+strings.Join(placeholders, ", ")+`)
		   AND u.role = 'EMPLOYEE'
		   AND u.is_active = TRUE
		 ORDER BY es.user_id ASC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
