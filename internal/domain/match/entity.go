package match

import (
	"time"

	"talent-bridge/internal/domain/matching"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

// Run is one invocation of the matching pipeline for a project. A rerun
// always creates a new Run.
type Run struct {
	ID          int64
	ProjectID   int64
	RequestedBy int64
	Status      Status
	CreatedAt   time.Time
}

// Result is one candidate's score within a Run. Results are write-once.
type Result struct {
	MatchID            int64
	UserID             int64
	EmployeeName       string
	EmployeeEmail      string
	SkillScore         float64
	ExperienceScore    float64
	AvailabilityScore  float64
	AvailabilitySource matching.AvailabilitySource
	TotalScore         float64
	Rank               int
}
