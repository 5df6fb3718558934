package matching

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

// Total score policy. The weights are fixed and not configurable per call.
const (
	SkillWeight        = 0.6
	ExperienceWeight   = 0.3
	AvailabilityWeight = 0.1
)

const (
	// DefaultRequirementWeight applies when a requirement carries no weight.
	DefaultRequirementWeight = 1.0

	// FullAvailability is reported for an employee with no active assignments.
	FullAvailability = 100.0

	// DefaultAssignedAvailability is reported for an employee who holds active
	// assignments but has no current availability record. It is a conservative
	// policy default representing partial availability, not a measurement, and
	// API consumers must treat it as such.
	DefaultAssignedAvailability = 50.0

	maxScore = 100.0

	// defaultMaxDesiredLevel is used for the experience threshold when there
	// are no requirements at all.
	defaultMaxDesiredLevel = 3
)

// AvailabilitySource tells where an availability score came from.
type AvailabilitySource string

const (
	// AvailabilityUnassigned: no active assignments, scored FullAvailability.
	AvailabilityUnassigned AvailabilitySource = "unassigned"
	// AvailabilityRecord: taken from the current availability record.
	AvailabilityRecord AvailabilitySource = "record"
	// AvailabilityDefault: assigned with no record, scored
	// DefaultAssignedAvailability.
	AvailabilityDefault AvailabilitySource = "default"
)

var ErrInvalidInput = errors.New("invalid scoring input")

type SkillRequirement struct {
	SkillID      int64    `validate:"gt=0"`
	SkillName    string
	DesiredLevel int      `validate:"min=1,max=5"`
	Weight       *float64 `validate:"omitempty,gte=0,lte=1"`
}

// EffectiveWeight resolves an unset weight to DefaultRequirementWeight.
func (r SkillRequirement) EffectiveWeight() float64 {
	if r.Weight == nil {
		return DefaultRequirementWeight
	}
	return *r.Weight
}

type EmployeeSkill struct {
	UserID          int64
	SkillID         int64 `validate:"gt=0"`
	SkillName       string
	Level           int `validate:"min=1,max=5"`
	YearsExperience int `validate:"gte=0"`
	LastUsedYear    *int
}

// AssignmentSummary is one active project assignment of an employee.
type AssignmentSummary struct {
	AssignmentID  int64
	ProjectID     int64
	RoleOnProject string
	AssignedAt    time.Time
	ReleaseDate   *time.Time
}

// Availability is the employee's current availability record. Present is
// false when no record covers today.
type Availability struct {
	Percent int `validate:"gte=0,lte=100"`
	Present bool
}

type Score struct {
	SkillScore         float64
	ExperienceScore    float64
	AvailabilityScore  float64
	AvailabilitySource AvailabilitySource
	TotalScore         float64
}

var validate = validator.New()

// ValidateRequirements rejects requirements whose level or weight is out of range.
func ValidateRequirements(reqs []SkillRequirement) error {
	for i := range reqs {
		if err := validate.Struct(reqs[i]); err != nil {
			return invalid("requirement", i, reqs[i].SkillID, err)
		}
	}
	return nil
}

func validateEmployeeSkills(skills []EmployeeSkill) error {
	for i := range skills {
		if err := validate.Struct(skills[i]); err != nil {
			return invalid("employee skill", i, skills[i].SkillID, err)
		}
	}
	return nil
}

func invalid(kind string, idx int, skillID int64, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s[%d] skill_id=%d field=%s rule=%s value=%v",
			ErrInvalidInput, kind, idx, skillID, fe.Field(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("%w: %s[%d] skill_id=%d: %v", ErrInvalidInput, kind, idx, skillID, err)
}

// Calculate scores one employee against one project's requirements.
// Out-of-range input is rejected with ErrInvalidInput, never clamped.
func Calculate(skills []EmployeeSkill, reqs []SkillRequirement, assignments []AssignmentSummary, availability Availability) (Score, error) {
	if err := ValidateRequirements(reqs); err != nil {
		return Score{}, err
	}
	if err := validateEmployeeSkills(skills); err != nil {
		return Score{}, err
	}
	if availability.Present {
		if err := validate.Struct(availability); err != nil {
			return Score{}, fmt.Errorf("%w: availability percent=%d", ErrInvalidInput, availability.Percent)
		}
	}

	skill := skillScore(skills, reqs)
	exp := experienceScore(skills, reqs)
	avail, source := availabilityScore(assignments, availability)

	return Score{
		SkillScore:         skill,
		ExperienceScore:    exp,
		AvailabilityScore:  avail,
		AvailabilitySource: source,
		TotalScore:         SkillWeight*skill + ExperienceWeight*exp + AvailabilityWeight*avail,
	}, nil
}

func skillScore(skills []EmployeeSkill, reqs []SkillRequirement) float64 {
	bySkill := make(map[int64]EmployeeSkill, len(skills))
	for _, s := range skills {
		bySkill[s.SkillID] = s
	}

	var total, totalWeight float64
	for _, r := range reqs {
		w := r.EffectiveWeight()
		totalWeight += w

		es, ok := bySkill[r.SkillID]
		if !ok {
			continue
		}
		if es.Level >= r.DesiredLevel {
			total += w * maxScore
			continue
		}
		total += (float64(es.Level) / float64(r.DesiredLevel)) * w * maxScore
	}

	if totalWeight <= 0 {
		return 0
	}
	return total / totalWeight
}

// experienceScore averages years over every skill record the employee has,
// not only the ones overlapping the requirements.
func experienceScore(skills []EmployeeSkill, reqs []SkillRequirement) float64 {
	if len(skills) == 0 {
		return 0
	}

	var sum int
	for _, s := range skills {
		sum += s.YearsExperience
	}
	avg := float64(sum) / float64(len(skills))

	score := avg / RequiredExperienceYears(maxDesiredLevel(reqs)) * maxScore
	return math.Min(score, maxScore)
}

// RequiredExperienceYears maps the highest desired level to the years of
// experience that earn a full experience score.
func RequiredExperienceYears(maxLevel int) float64 {
	switch {
	case maxLevel <= 2:
		return 2
	case maxLevel == 3:
		return 5
	default:
		return 7
	}
}

func maxDesiredLevel(reqs []SkillRequirement) int {
	if len(reqs) == 0 {
		return defaultMaxDesiredLevel
	}
	m := reqs[0].DesiredLevel
	for _, r := range reqs[1:] {
		if r.DesiredLevel > m {
			m = r.DesiredLevel
		}
	}
	return m
}

func availabilityScore(assignments []AssignmentSummary, availability Availability) (float64, AvailabilitySource) {
	if len(assignments) == 0 {
		return FullAvailability, AvailabilityUnassigned
	}
	if availability.Present {
		return float64(availability.Percent), AvailabilityRecord
	}
	return DefaultAssignedAvailability, AvailabilityDefault
}
