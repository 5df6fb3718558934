package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"talent-bridge/internal/database/sqldb"
	"talent-bridge/internal/domain/match"
	"talent-bridge/internal/domain/matching"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqldb.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return sqldb.New(db), mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestRequirementRepository_FindByProjectID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresRequirementRepository(db)

	mock.ExpectQuery(q("FROM project_skill_reqs psr")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"skill_id", "name", "desired_level", "weight"}).
			AddRow(int64(1), "Go", int64(4), 0.7).
			AddRow(int64(2), "SQL", int64(2), nil))

	reqs, err := repo.FindByProjectID(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	assert.Equal(t, int64(1), reqs[0].SkillID)
	assert.Equal(t, "Go", reqs[0].SkillName)
	assert.Equal(t, 4, reqs[0].DesiredLevel)
	require.NotNil(t, reqs[0].Weight)
	assert.Equal(t, 0.7, *reqs[0].Weight)

	assert.Nil(t, reqs[1].Weight)
	assert.Equal(t, 1.0, reqs[1].EffectiveWeight())
}

func TestEmployeeSkillRepository_FindByUserID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresEmployeeSkillRepository(db)

	mock.ExpectQuery(q("FROM employee_skills es")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "skill_id", "name", "level", "years", "last_used_year"}).
			AddRow(int64(3), int64(1), "Go", int64(5), int64(5), int64(2025)).
			AddRow(int64(3), int64(9), "Rust", int64(2), int64(1), nil))

	skills, err := repo.FindByUserID(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, skills, 2)
	assert.Equal(t, 5, skills[0].Level)
	require.NotNil(t, skills[0].LastUsedYear)
	assert.Equal(t, 2025, *skills[0].LastUsedYear)
	assert.Nil(t, skills[1].LastUsedYear)
}

func TestEmployeeSkillRepository_FindUsersWithAnySkill(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresEmployeeSkillRepository(db)

	mock.ExpectQuery(q("WHERE es.skill_id IN ($1, $2)")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(10)).AddRow(int64(11)))

	ids, err := repo.FindUsersWithAnySkill(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, ids)
}

func TestEmployeeSkillRepository_FindUsersWithAnySkill_NoSkills(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewPostgresEmployeeSkillRepository(db)

	ids, err := repo.FindUsersWithAnySkill(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAssignmentRepository(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresAssignmentRepository(db)
	assignedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	release := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q("SELECT 1 FROM assignments")).
		WithArgs(int64(10), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(q("WHERE user_id = $1 AND status = 'ASSIGNED'")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"assignment_id", "project_id", "role", "assigned_at", "release_date"}).
			AddRow(int64(100), int64(8), "backend", assignedAt, release).
			AddRow(int64(101), int64(9), "", assignedAt, nil))

	assigned, err := repo.IsUserAssigned(context.Background(), 10, 7)
	require.NoError(t, err)
	assert.True(t, assigned)

	active, err := repo.FindActiveByUserID(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "backend", active[0].RoleOnProject)
	require.NotNil(t, active[0].ReleaseDate)
	assert.True(t, release.Equal(*active[0].ReleaseDate))
	assert.Nil(t, active[1].ReleaseDate)
}

func TestAvailabilityRepository_FindCurrent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresAvailabilityRepository(db)

	mock.ExpectQuery(q("FROM employee_availability")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"percent_available"}).AddRow(int64(40)))
	mock.ExpectQuery(q("FROM employee_availability")).
		WithArgs(int64(11)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(q("FROM employee_availability")).
		WithArgs(int64(12)).
		WillReturnError(errors.New("conn reset"))

	got, err := repo.FindCurrent(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, got.Present)
	assert.Equal(t, 40, got.Percent)

	got, err = repo.FindCurrent(context.Background(), 11)
	require.NoError(t, err)
	assert.False(t, got.Present)

	_, err = repo.FindCurrent(context.Background(), 12)
	assert.EqualError(t, err, "conn reset")
}

func TestProjectRepository_ExistsByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresProjectRepository(db)

	mock.ExpectQuery(q("FROM projects WHERE project_id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := repo.ExistsByID(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresUserRepository(db)

	mock.ExpectQuery(q("FROM users")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "full_name", "email", "role", "is_active"}).
			AddRow(int64(10), "Ana Lima", "ana@example.com", "EMPLOYEE", true))
	mock.ExpectQuery(q("FROM users")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	u, err := repo.FindByID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", u.FullName)
	assert.Equal(t, "ana@example.com", u.Email)

	_, err = repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMatchRepository_RunLifecycle(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresMatchRepository(db)
	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q("INSERT INTO matches (project_id, requested_by, status)")).
		WithArgs(int64(7), int64(2), "PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"match_id", "created_at"}).AddRow(int64(55), created))
	mock.ExpectExec(q("INSERT INTO match_results")).
		WithArgs(int64(55), int64(10), 87.5, 100.0, 57.5, 100.0, "unassigned").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("UPDATE matches SET status = $1 WHERE match_id = $2 AND status = $3")).
		WithArgs("COMPLETED", int64(55), "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("UPDATE matches SET status")).
		WithArgs("COMPLETED", int64(55), "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 0))

	run, err := repo.CreateRun(context.Background(), 7, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(55), run.ID)
	assert.Equal(t, match.StatusPending, run.Status)
	assert.True(t, created.Equal(run.CreatedAt))

	err = repo.InsertResult(context.Background(), match.Result{
		MatchID: 55, UserID: 10, TotalScore: 87.5, SkillScore: 100, ExperienceScore: 57.5, AvailabilityScore: 100,
		AvailabilitySource: matching.AvailabilityUnassigned,
	})
	require.NoError(t, err)

	require.NoError(t, repo.MarkCompleted(context.Background(), 55))
	assert.ErrorIs(t, repo.MarkCompleted(context.Background(), 55), ErrMatchNotFound)
}

func TestMatchRepository_FindRunAndResults(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresMatchRepository(db)
	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q("FROM matches")).
		WithArgs(int64(55)).
		WillReturnRows(sqlmock.NewRows([]string{"match_id", "project_id", "requested_by", "status", "created_at"}).
			AddRow(int64(55), int64(7), int64(2), "COMPLETED", created))
	mock.ExpectQuery(q("FROM matches")).
		WithArgs(int64(56)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(q("FROM match_results mr")).
		WithArgs(int64(55)).
		WillReturnRows(sqlmock.NewRows([]string{"match_id", "user_id", "full_name", "email", "skill", "exp", "avail", "source", "total"}).
			AddRow(int64(55), int64(10), "Ana", "ana@example.com", 100.0, 57.14, 50.0, "default", 82.14).
			AddRow(int64(55), int64(11), "Ben", "ben@example.com", 35.0, 14.29, 100.0, nil, 35.29))

	run, err := repo.FindRun(context.Background(), 55)
	require.NoError(t, err)
	assert.Equal(t, match.StatusCompleted, run.Status)
	assert.Equal(t, int64(7), run.ProjectID)

	_, err = repo.FindRun(context.Background(), 56)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	results, err := repo.FindResults(context.Background(), 55)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, "Ana", results[0].EmployeeName)
	assert.Equal(t, matching.AvailabilityDefault, results[0].AvailabilitySource)
	assert.Empty(t, results[1].AvailabilitySource)
	assert.Equal(t, 2, results[1].Rank)
	assert.Equal(t, 35.29, results[1].TotalScore)
}

func TestMatchRepository_ListRunsByProject(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresMatchRepository(db)
	now := time.Date(2026, 10, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q("LIMIT $2 OFFSET $3")).
		WithArgs(int64(7), 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"match_id", "project_id", "requested_by", "status", "created_at"}).
			AddRow(int64(57), int64(7), int64(2), "PENDING", now).
			AddRow(int64(55), int64(7), int64(2), "COMPLETED", now.Add(-time.Hour)))

	runs, err := repo.ListRunsByProject(context.Background(), 7, 20, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, match.StatusPending, runs[0].Status)
	assert.Equal(t, int64(55), runs[1].ID)
}
