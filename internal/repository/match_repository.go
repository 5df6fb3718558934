package repository

import (
	"context"

	"talent-bridge/internal/database"
	"talent-bridge/internal/domain/match"
	"talent-bridge/internal/domain/matching"
)

// MatchRepository owns the matches and match_results tables. Both are
// append-only apart from the single PENDING to COMPLETED transition.
type MatchRepository interface {
	CreateRun(ctx context.Context, projectID, requestedBy int64) (match.Run, error)
	InsertResult(ctx context.Context, res match.Result) error
	MarkCompleted(ctx context.Context, matchID int64) error
	FindRun(ctx context.Context, matchID int64) (match.Run, error)
	FindResults(ctx context.Context, matchID int64) ([]match.Result, error)
	ListRunsByProject(ctx context.Context, projectID int64, limit, offset int) ([]match.Run, error)
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

func (r *PostgresMatchRepository) CreateRun(ctx context.Context, projectID, requestedBy int64) (match.Run, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO matches (project_id, requested_by, status)
		 VALUES ($1, $2, $3)
		 RETURNING match_id, created_at`,
		projectID, requestedBy, string(match.StatusPending),
	)

	run := match.Run{ProjectID: projectID, RequestedBy: requestedBy, Status: match.StatusPending}
	if err := row.Scan(&run.ID, &run.CreatedAt); err != nil {
		return match.Run{}, err
	}
	return run, nil
}

func (r *PostgresMatchRepository) InsertResult(ctx context.Context, res match.Result) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO match_results (match_id, user_id, total_score, skill_score, experience_score, availability_score, availability_source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		res.MatchID,
		res.UserID,
		res.TotalScore,
		res.SkillScore,
		res.ExperienceScore,
		res.AvailabilityScore,
		nullableSource(res.AvailabilitySource),
	)
	return err
}

// MarkCompleted moves a PENDING run to COMPLETED. A run that is missing or
// already completed yields ErrMatchNotFound.
func (r *PostgresMatchRepository) MarkCompleted(ctx context.Context, matchID int64) error {
	n, err := r.db.Exec(ctx,
		`UPDATE matches SET status = $1 WHERE match_id = $2 AND status = $3`,
		string(match.StatusCompleted), matchID, string(match.StatusPending),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *PostgresMatchRepository) FindRun(ctx context.Context, matchID int64) (match.Run, error) {
	row := r.db.QueryRow(ctx,
		`SELECT match_id, project_id, requested_by, status, created_at
		 FROM matches
		 WHERE match_id = $1`,
		matchID,
	)

	run, err := scanRun(row)
	if err != nil {
		if database.IsNoRows(err) {
			return match.Run{}, ErrMatchNotFound
		}
		return match.Run{}, err
	}
	return run, nil
}

func (r *PostgresMatchRepository) FindResults(ctx context.Context, matchID int64) ([]match.Result, error) {
	rows, err := r.db.Query(ctx,
		`SELECT mr.match_id, mr.user_id, u.full_name, u.email,
		        mr.skill_score, mr.experience_score, mr.availability_score, mr.availability_source, mr.total_score
		 FROM match_results mr
		 JOIN users u ON u.user_id = mr.user_id
		 WHERE mr.match_id = $1
		 ORDER BY mr.total_score DESC, mr.user_id ASC`,
		matchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]match.Result, 0)
	for rows.Next() {
		var (
			it     match.Result
			source *string
		)
		if err := rows.Scan(
			&it.MatchID,
			&it.UserID,
			&it.EmployeeName,
			&it.EmployeeEmail,
			&it.SkillScore,
			&it.ExperienceScore,
			&it.AvailabilityScore,
			&source,
			&it.TotalScore,
		); err != nil {
			return nil, err
		}
		if source != nil {
			it.AvailabilitySource = matching.AvailabilitySource(*source)
		}
		it.Rank = len(out) + 1
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMatchRepository) ListRunsByProject(ctx context.Context, projectID int64, limit, offset int) ([]match.Run, error) {
	rows, err := r.db.Query(ctx,
		`SELECT match_id, project_id, requested_by, status, created_at
		 FROM matches
		 WHERE project_id = $1
		 ORDER BY created_at DESC, match_id DESC
		 LIMIT $2 OFFSET $3`,
		projectID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]match.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (match.Run, error) {
	var (
		run    match.Run
		status string
	)
	if err := s.Scan(&run.ID, &run.ProjectID, &run.RequestedBy, &status, &run.CreatedAt); err != nil {
		return match.Run{}, err
	}
	run.Status = match.Status(status)
	return run, nil
}

func nullableSource(s matching.AvailabilitySource) any {
	if s == "" {
		return nil
	}
	return string(s)
}
