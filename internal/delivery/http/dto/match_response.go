package dto

import (
	"time"

	"talent-bridge/internal/domain/match"
)

type MatchResultResponse struct {
	MatchID           int64   `json:"match_id,omitempty"`
	UserID            int64   `json:"user_id"`
	EmployeeName      string  `json:"employee_name"`
	EmployeeEmail     string  `json:"employee_email"`
	Rank              int     `json:"rank,omitempty"`
	SkillScore        float64 `json:"skill_score"`
	ExperienceScore   float64 `json:"experience_score"`
	AvailabilityScore float64 `json:"availability_score"`
	TotalScore        float64 `json:"total_score"`

	// AvailabilitySource is "unassigned", "record" or "default". A "default"
	// score is the fixed 50 given to assigned employees without an
	// availability record, not a measured value.
	AvailabilitySource string `json:"availability_source,omitempty"`
}

type MatchRunResponse struct {
	MatchID     int64     `json:"match_id"`
	ProjectID   int64     `json:"project_id"`
	RequestedBy int64     `json:"requested_by"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type MatchDetailResponse struct {
	Match   MatchRunResponse      `json:"match"`
	Results []MatchResultResponse `json:"results"`
}

func NewMatchResultResponse(r match.Result) MatchResultResponse {
	return MatchResultResponse{
		MatchID:            r.MatchID,
		UserID:             r.UserID,
		EmployeeName:       r.EmployeeName,
		EmployeeEmail:      r.EmployeeEmail,
		Rank:               r.Rank,
		SkillScore:         r.SkillScore,
		ExperienceScore:    r.ExperienceScore,
		AvailabilityScore:  r.AvailabilityScore,
		AvailabilitySource: string(r.AvailabilitySource),
		TotalScore:         r.TotalScore,
	}
}

func NewMatchRunResponse(r match.Run) MatchRunResponse {
	return MatchRunResponse{
		MatchID:     r.ID,
		ProjectID:   r.ProjectID,
		RequestedBy: r.RequestedBy,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}

func NewMatchDetailResponse(run match.Run, results []match.Result) MatchDetailResponse {
	out := MatchDetailResponse{
		Match:   NewMatchRunResponse(run),
		Results: make([]MatchResultResponse, 0, len(results)),
	}
	for _, r := range results {
		out.Results = append(out.Results, NewMatchResultResponse(r))
	}
	return out
}
