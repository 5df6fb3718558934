package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"talent-bridge/internal/domain/match"
	"talent-bridge/internal/domain/matching"
	"talent-bridge/internal/repository"
)

// fakeStore implements every repository interface the usecases depend on.
type fakeStore struct {
	mu sync.Mutex

	projects map[int64]bool
	users    map[int64]repository.User
	order    []int64
	reqs     map[int64][]matching.SkillRequirement
	skills   map[int64][]matching.EmployeeSkill
	active   map[int64][]matching.AssignmentSummary
	avail    map[int64]matching.Availability

	runs        map[int64]match.Run
	results     []match.Result
	nextMatchID int64

	reqErr      error
	insertErr   error
	insertErrAt int
	completeErr error

	userLookups int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects:    map[int64]bool{},
		users:       map[int64]repository.User{},
		reqs:        map[int64][]matching.SkillRequirement{},
		skills:      map[int64][]matching.EmployeeSkill{},
		active:      map[int64][]matching.AssignmentSummary{},
		avail:       map[int64]matching.Availability{},
		runs:        map[int64]match.Run{},
		nextMatchID: 100,
	}
}

// addEmployee registers an employee. Discovery yields employees in the order
// they were added.
func (f *fakeStore) addEmployee(id int64, name string, skills ...matching.EmployeeSkill) {
	if _, ok := f.users[id]; !ok {
		f.order = append(f.order, id)
	}
	f.users[id] = repository.User{ID: id, FullName: name, Email: name + "@example.com", Role: "EMPLOYEE", IsActive: true}
	for i := range skills {
		skills[i].UserID = id
	}
	f.skills[id] = skills
}

func (f *fakeStore) assign(userID, projectID int64) {
	f.active[userID] = append(f.active[userID], matching.AssignmentSummary{
		AssignmentID: int64(len(f.active[userID]) + 1),
		ProjectID:    projectID,
		AssignedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
}

func (f *fakeStore) ExistsByID(_ context.Context, projectID int64) (bool, error) {
	return f.projects[projectID], nil
}

func (f *fakeStore) FindByID(_ context.Context, userID int64) (repository.User, error) {
	f.mu.Lock()
	f.userLookups++
	f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStore) FindByProjectID(_ context.Context, projectID int64) ([]matching.SkillRequirement, error) {
	if f.reqErr != nil {
		return nil, f.reqErr
	}
	return f.reqs[projectID], nil
}

func (f *fakeStore) FindByUserID(_ context.Context, userID int64) ([]matching.EmployeeSkill, error) {
	return f.skills[userID], nil
}

func (f *fakeStore) FindUsersWithAnySkill(_ context.Context, skillIDs []int64) ([]int64, error) {
	want := map[int64]bool{}
	for _, id := range skillIDs {
		want[id] = true
	}

	out := []int64{}
	for _, id := range f.order {
		u := f.users[id]
		if u.Role != "EMPLOYEE" || !u.IsActive {
			continue
		}
		for _, s := range f.skills[id] {
			if want[s.SkillID] {
				out = append(out, id)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) IsUserAssigned(_ context.Context, userID, projectID int64) (bool, error) {
	for _, a := range f.active[userID] {
		if a.ProjectID == projectID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) FindActiveByUserID(_ context.Context, userID int64) ([]matching.AssignmentSummary, error) {
	return f.active[userID], nil
}

func (f *fakeStore) FindCurrent(_ context.Context, userID int64) (matching.Availability, error) {
	return f.avail[userID], nil
}

func (f *fakeStore) CreateRun(_ context.Context, projectID, requestedBy int64) (match.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextMatchID++
	run := match.Run{
		ID:          f.nextMatchID,
		ProjectID:   projectID,
		RequestedBy: requestedBy,
		Status:      match.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	f.runs[run.ID] = run
	return run, nil
}

func (f *fakeStore) InsertResult(_ context.Context, res match.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil && len(f.results) >= f.insertErrAt {
		return f.insertErr
	}
	if f.runs[res.MatchID].Status != match.StatusPending {
		return repository.ErrMatchNotFound
	}
	f.results = append(f.results, res)
	return nil
}

func (f *fakeStore) MarkCompleted(_ context.Context, matchID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completeErr != nil {
		return f.completeErr
	}
	run, ok := f.runs[matchID]
	if !ok || run.Status != match.StatusPending {
		return repository.ErrMatchNotFound
	}
	run.Status = match.StatusCompleted
	f.runs[matchID] = run
	return nil
}

func (f *fakeStore) FindRun(_ context.Context, matchID int64) (match.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[matchID]
	if !ok {
		return match.Run{}, repository.ErrMatchNotFound
	}
	return run, nil
}

func (f *fakeStore) FindResults(_ context.Context, matchID int64) ([]match.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []match.Result{}
	for _, r := range f.results {
		if r.MatchID == matchID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		return out[i].UserID < out[j].UserID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func (f *fakeStore) ListRunsByProject(_ context.Context, projectID int64, limit, offset int) ([]match.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []match.Run{}
	for _, r := range f.runs {
		if r.ProjectID == projectID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if offset >= len(out) {
		return []match.Run{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) pendingRuns() int {
	n := 0
	for _, r := range f.runs {
		if r.Status == match.StatusPending {
			n++
		}
	}
	return n
}

type fakeCache struct {
	mu    sync.Mutex
	items map[string][]byte
	ttls  map[string]time.Duration
	gets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = b
	c.ttls[key] = ttl
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []match.Run
	counts []int
}

func (n *fakeNotifier) MatchCompleted(_ context.Context, run match.Run, results []match.Result) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, run)
	n.counts = append(n.counts, len(results))
}

func newTestMatching(store *fakeStore, cache ResultCache, notifier RunNotifier, workers int) *Matching {
	return NewMatchingUsecase(MatchingDeps{
		Projects:     store,
		Users:        store,
		Requirements: store,
		Skills:       store,
		Assignments:  store,
		Availability: store,
		Matches:      store,
		Cache:        cache,
		Notifier:     notifier,
	}, MatchingOptions{Workers: workers, ResultCacheTTL: time.Minute})
}
