package seeder

import (
	"context"
	"fmt"

	"talent-bridge/internal/database"
)

// DemoSeeder creates one project with two weighted requirements and two
// employees: one exceeding both levels, one holding a single skill below level.
type DemoSeeder struct{}

func (DemoSeeder) Name() string { return "demo" }

const demoProject = "Payments Platform"

type demoUser struct {
	Username, FullName, Email, Role string
}

type demoSkill struct {
	Username, Skill string
	Level, Years    int
}

var (
	demoUsers = []demoUser{
		{Username: "pm.demo", FullName: "Demo Manager", Email: "pm.demo@talentbridge.local", Role: "PM"},
		{Username: "ayu", FullName: "Ayu Lestari", Email: "ayu@talentbridge.local", Role: "EMPLOYEE"},
		{Username: "budi", FullName: "Budi Santoso", Email: "budi@talentbridge.local", Role: "EMPLOYEE"},
	}
	demoRequirements = []struct {
		Skill  string
		Level  int
		Weight float64
	}{
		{Skill: "Go", Level: 4, Weight: 0.7},
		{Skill: "PostgreSQL", Level: 2, Weight: 0.3},
	}
	demoSkills = []demoSkill{
		{Username: "ayu", Skill: "Go", Level: 5, Years: 5},
		{Username: "ayu", Skill: "PostgreSQL", Level: 2, Years: 3},
		{Username: "budi", Skill: "Go", Level: 2, Years: 1},
	}
)

func (DemoSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "project_skill_reqs", "project_id", "skill_id", "desired_level", "weight"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, u := range demoUsers {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO users (username, full_name, email, role) VALUES ($1, $2, $3, $4) ON CONFLICT (username) DO NOTHING`,
			u.Username, u.FullName, u.Email, u.Role,
		); err != nil {
			return fmt.Errorf("user %s: %w", u.Username, err)
		}
	}

	if _, err := tx.Exec(
		ctx,
		`INSERT INTO projects (name, description, created_by)
		 SELECT $1::text, $2, u.user_id FROM users u
		 WHERE u.username = $3 AND NOT EXISTS (SELECT 1 FROM projects p WHERE p.name = $1::text)`,
		demoProject, "Demo project for candidate matching", demoUsers[0].Username,
	); err != nil {
		return fmt.Errorf("project: %w", err)
	}

	for _, r := range demoRequirements {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO project_skill_reqs (project_id, skill_id, desired_level, weight)
			 SELECT p.project_id, s.skill_id, $3, $4 FROM projects p, skills s
			 WHERE p.name = $1 AND s.name = $2
			 ON CONFLICT (project_id, skill_id) DO NOTHING`,
			demoProject, r.Skill, r.Level, r.Weight,
		); err != nil {
			return fmt.Errorf("requirement %s: %w", r.Skill, err)
		}
	}

	for _, s := range demoSkills {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO employee_skills (user_id, skill_id, level, years_experience)
			 SELECT u.user_id, s.skill_id, $3, $4 FROM users u, skills s
			 WHERE u.username = $1 AND s.name = $2
			 ON CONFLICT (user_id, skill_id) DO NOTHING`,
			s.Username, s.Skill, s.Level, s.Years,
		); err != nil {
			return fmt.Errorf("employee skill %s/%s: %w", s.Username, s.Skill, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
