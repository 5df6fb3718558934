package usecase

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"talent-bridge/internal/domain/match"
	"talent-bridge/internal/domain/matching"
	"talent-bridge/internal/logger"
	"talent-bridge/internal/metrics"
	"talent-bridge/internal/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	defaultListLimit = 20
	maxListLimit     = 50

	resultCacheKeyPrefix = "match:results:"
)

// ResultCachePattern matches every cached result set.
const ResultCachePattern = resultCacheKeyPrefix + "*"

// ResultCache stores the immutable results of completed runs.
type ResultCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// RunNotifier is told about every run that reaches COMPLETED.
type RunNotifier interface {
	MatchCompleted(ctx context.Context, run match.Run, results []match.Result)
}

type MatchingUsecase interface {
	RunMatch(ctx context.Context, projectID, requestedBy int64) (match.Run, []match.Result, error)
	ScoreCandidate(ctx context.Context, userID, projectID int64) (match.Result, error)
	GetMatch(ctx context.Context, matchID int64) (match.Run, []match.Result, error)
	ListProjectMatches(ctx context.Context, projectID int64, limit, offset int) ([]match.Run, error)
}

type MatchingDeps struct {
	Projects     repository.ProjectRepository
	Users        repository.UserRepository
	Requirements repository.RequirementRepository
	Skills       repository.EmployeeSkillRepository
	Assignments  repository.AssignmentRepository
	Availability repository.AvailabilityRepository
	Matches      repository.MatchRepository

	// Cache and Notifier are optional.
	Cache    ResultCache
	Notifier RunNotifier
	Logger   logger.Logger
}

type MatchingOptions struct {
	Workers        int
	ResultCacheTTL time.Duration
}

type Matching struct {
	projects     repository.ProjectRepository
	users        repository.UserRepository
	requirements repository.RequirementRepository
	skills       repository.EmployeeSkillRepository
	assignments  repository.AssignmentRepository
	availability repository.AvailabilityRepository
	matches      repository.MatchRepository
	discovery    *Discovery

	cache    ResultCache
	notifier RunNotifier
	log      logger.Logger
	tracer   trace.Tracer

	workers  int
	cacheTTL time.Duration
}

func NewMatchingUsecase(deps MatchingDeps, opts MatchingOptions) *Matching {
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	ttl := opts.ResultCacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	return &Matching{
		projects:     deps.Projects,
		users:        deps.Users,
		requirements: deps.Requirements,
		skills:       deps.Skills,
		assignments:  deps.Assignments,
		availability: deps.Availability,
		matches:      deps.Matches,
		discovery:    NewDiscovery(deps.Skills, deps.Assignments),
		cache:        deps.Cache,
		notifier:     deps.Notifier,
		log:          log,
		tracer:       otel.Tracer("talent-bridge/internal/usecase"),
		workers:      workers,
		cacheTTL:     ttl,
	}
}

// RunMatch discovers, scores and persists the candidate ranking for a
// project. The returned results are ordered by total score descending; ties
// keep discovery order. On any failure after the run row exists the run is
// left PENDING.
func (u *Matching) RunMatch(ctx context.Context, projectID, requestedBy int64) (match.Run, []match.Result, error) {
	start := time.Now()
	ctx, span := u.tracer.Start(ctx, "match.run", trace.WithAttributes(
		attribute.Int64("project_id", projectID),
		attribute.Int64("requested_by", requestedBy),
	))
	defer span.End()

	run, results, err := u.runMatch(ctx, projectID, requestedBy)

	outcome := metrics.OutcomeCompleted
	switch {
	case err == nil:
	case run.ID == 0:
		outcome = metrics.OutcomeRejected
	default:
		outcome = metrics.OutcomeFailed
	}
	metrics.MatchRunsTotal.WithLabelValues(outcome).Inc()
	metrics.MatchRunDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if run.ID != 0 {
			u.log.Error("match run aborted", map[string]interface{}{
				"match_id":   run.ID,
				"project_id": projectID,
				"error":      err,
			})
		}
		return match.Run{}, nil, err
	}

	span.SetAttributes(attribute.Int64("match_id", run.ID), attribute.Int("candidates", len(results)))
	span.SetStatus(codes.Ok, "")
	metrics.MatchCandidates.Observe(float64(len(results)))

	u.log.Info("match run completed", map[string]interface{}{
		"match_id":    run.ID,
		"project_id":  projectID,
		"candidates":  len(results),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	u.cacheResults(ctx, run.ID, results)
	if u.notifier != nil {
		u.notifier.MatchCompleted(ctx, run, results)
	}
	return run, results, nil
}

// runMatch returns the created run alongside any error so the caller can
// tell a rejected request from an aborted run.
func (u *Matching) runMatch(ctx context.Context, projectID, requestedBy int64) (match.Run, []match.Result, error) {
	if projectID <= 0 || requestedBy <= 0 {
		return match.Run{}, nil, ErrInvalidInput
	}

	if err := u.ensureProject(ctx, projectID); err != nil {
		return match.Run{}, nil, err
	}

	reqs, err := u.requirements.FindByProjectID(ctx, projectID)
	if err != nil {
		return match.Run{}, nil, storeFailure("load requirements", err)
	}
	if len(reqs) == 0 {
		return match.Run{}, nil, ErrNoRequirements
	}
	if err := matching.ValidateRequirements(reqs); err != nil {
		return match.Run{}, nil, invalidInput(err)
	}

	run, err := u.matches.CreateRun(ctx, projectID, requestedBy)
	if err != nil {
		return match.Run{}, nil, storeFailure("create match run", err)
	}

	dctx, dspan := u.tracer.Start(ctx, "match.discover")
	candidates, err := u.discovery.Discover(dctx, projectID, reqs)
	dspan.SetAttributes(attribute.Int("candidates", len(candidates)))
	dspan.End()
	if err != nil {
		return run, nil, err
	}

	results, err := u.scoreAll(ctx, run, projectID, reqs, candidates)
	if err != nil {
		return run, nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalScore > results[j].TotalScore
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	if err := u.matches.MarkCompleted(ctx, run.ID); err != nil {
		return run, nil, storeFailure("mark match completed", err)
	}
	run.Status = match.StatusCompleted
	return run, results, nil
}

// scoreAll scores and persists every candidate with at most u.workers in
// flight. Results come back in discovery order.
func (u *Matching) scoreAll(ctx context.Context, run match.Run, projectID int64, reqs []matching.SkillRequirement, candidates []int64) ([]match.Result, error) {
	results := make([]match.Result, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)
	for seq, userID := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := u.scoreUser(gctx, userID, projectID, reqs)
			if err != nil {
				return classify("score candidate "+strconv.FormatInt(userID, 10), err)
			}
			res.MatchID = run.ID
			if err := u.matches.InsertResult(gctx, res); err != nil {
				return storeFailure("insert match result", err)
			}
			results[seq] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ScoreCandidate computes one employee's score against a project without
// creating a run or writing anything.
func (u *Matching) ScoreCandidate(ctx context.Context, userID, projectID int64) (match.Result, error) {
	ctx, span := u.tracer.Start(ctx, "match.score_candidate", trace.WithAttributes(
		attribute.Int64("project_id", projectID),
		attribute.Int64("user_id", userID),
	))
	defer span.End()

	if userID <= 0 || projectID <= 0 {
		return match.Result{}, ErrInvalidInput
	}
	if err := u.ensureProject(ctx, projectID); err != nil {
		return match.Result{}, err
	}

	reqs, err := u.requirements.FindByProjectID(ctx, projectID)
	if err != nil {
		return match.Result{}, storeFailure("load requirements", err)
	}
	if err := matching.ValidateRequirements(reqs); err != nil {
		return match.Result{}, invalidInput(err)
	}

	res, err := u.scoreUser(ctx, userID, projectID, reqs)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return match.Result{}, ErrUserNotFound
		}
		span.RecordError(err)
		return match.Result{}, classify("score candidate", err)
	}
	return res, nil
}

func (u *Matching) scoreUser(ctx context.Context, userID, projectID int64, reqs []matching.SkillRequirement) (match.Result, error) {
	usr, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return match.Result{}, err
	}
	skills, err := u.skills.FindByUserID(ctx, userID)
	if err != nil {
		return match.Result{}, err
	}
	active, err := u.assignments.FindActiveByUserID(ctx, userID)
	if err != nil {
		return match.Result{}, err
	}

	// Availability only matters once the employee holds an assignment.
	var avail matching.Availability
	if len(active) > 0 {
		avail, err = u.availability.FindCurrent(ctx, userID)
		if err != nil {
			return match.Result{}, err
		}
	}

	score, err := matching.Calculate(skills, reqs, active, avail)
	if err != nil {
		return match.Result{}, err
	}
	metrics.CandidateScores.Inc()

	return match.Result{
		UserID:             userID,
		EmployeeName:       usr.FullName,
		EmployeeEmail:      usr.Email,
		SkillScore:         score.SkillScore,
		ExperienceScore:    score.ExperienceScore,
		AvailabilityScore:  score.AvailabilityScore,
		AvailabilitySource: score.AvailabilitySource,
		TotalScore:         score.TotalScore,
	}, nil
}

// GetMatch loads a run and its ranked results. Completed runs are served
// from the result cache when possible.
func (u *Matching) GetMatch(ctx context.Context, matchID int64) (match.Run, []match.Result, error) {
	if matchID <= 0 {
		return match.Run{}, nil, ErrInvalidInput
	}

	run, err := u.matches.FindRun(ctx, matchID)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return match.Run{}, nil, ErrMatchNotFound
		}
		return match.Run{}, nil, storeFailure("find match run", err)
	}

	completed := run.Status == match.StatusCompleted
	if completed {
		if cached, ok := u.cachedResults(ctx, matchID); ok {
			return run, cached, nil
		}
	}

	results, err := u.matches.FindResults(ctx, matchID)
	if err != nil {
		return match.Run{}, nil, storeFailure("find match results", err)
	}
	if completed {
		u.cacheResults(ctx, matchID, results)
	}
	return run, results, nil
}

// ListProjectMatches returns a project's runs, newest first.
func (u *Matching) ListProjectMatches(ctx context.Context, projectID int64, limit, offset int) ([]match.Run, error) {
	if projectID <= 0 {
		return nil, ErrInvalidInput
	}
	limit, offset = PageBounds(limit, offset)

	if err := u.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}

	runs, err := u.matches.ListRunsByProject(ctx, projectID, limit, offset)
	if err != nil {
		return nil, storeFailure("list match runs", err)
	}
	return runs, nil
}

// PageBounds applies the run listing defaults: a missing limit becomes 20,
// limits above 50 are capped and negative offsets start at 0.
func PageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (u *Matching) ensureProject(ctx context.Context, projectID int64) error {
	exists, err := u.projects.ExistsByID(ctx, projectID)
	if err != nil {
		return storeFailure("check project", err)
	}
	if !exists {
		return ErrProjectNotFound
	}
	return nil
}

func resultCacheKey(matchID int64) string {
	return resultCacheKeyPrefix + strconv.FormatInt(matchID, 10)
}

func (u *Matching) cachedResults(ctx context.Context, matchID int64) ([]match.Result, bool) {
	if u.cache == nil {
		return nil, false
	}
	var out []match.Result
	ok, err := u.cache.GetJSON(ctx, resultCacheKey(matchID), &out)
	if err != nil {
		u.log.Warn("result cache read failed", map[string]interface{}{"match_id": matchID, "error": err})
		metrics.ResultCacheLookups.WithLabelValues("error").Inc()
		return nil, false
	}
	if !ok {
		metrics.ResultCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.ResultCacheLookups.WithLabelValues("hit").Inc()
	return out, true
}

func (u *Matching) cacheResults(ctx context.Context, matchID int64, results []match.Result) {
	if u.cache == nil {
		return
	}
	if results == nil {
		results = []match.Result{}
	}
	if err := u.cache.SetJSON(ctx, resultCacheKey(matchID), results, u.cacheTTL); err != nil {
		u.log.Warn("result cache write failed", map[string]interface{}{"match_id": matchID, "error": err})
	}
}
