package usecase

import (
	"context"

	"talent-bridge/internal/domain/matching"
	"talent-bridge/internal/repository"
)

// Discovery finds the candidate pool for a project: active employees holding
// at least one required skill who are not already assigned to it.
type Discovery struct {
	skills      repository.EmployeeSkillRepository
	assignments repository.AssignmentRepository
}

func NewDiscovery(skills repository.EmployeeSkillRepository, assignments repository.AssignmentRepository) *Discovery {
	return &Discovery{skills: skills, assignments: assignments}
}

// Discover returns candidate user ids in the order the skill store yields
// them. Empty requirements produce an empty pool.
func (d *Discovery) Discover(ctx context.Context, projectID int64, reqs []matching.SkillRequirement) ([]int64, error) {
	if len(reqs) == 0 {
		return []int64{}, nil
	}

	seen := make(map[int64]struct{}, len(reqs))
	skillIDs := make([]int64, 0, len(reqs))
	for _, r := range reqs {
		if _, ok := seen[r.SkillID]; ok {
			continue
		}
		seen[r.SkillID] = struct{}{}
		skillIDs = append(skillIDs, r.SkillID)
	}

	users, err := d.skills.FindUsersWithAnySkill(ctx, skillIDs)
	if err != nil {
		return nil, storeFailure("find users with skills", err)
	}

	out := make([]int64, 0, len(users))
	for _, userID := range users {
		assigned, err := d.assignments.IsUserAssigned(ctx, userID, projectID)
		if err != nil {
			return nil, storeFailure("check assignment", err)
		}
		if assigned {
			continue
		}
		out = append(out, userID)
	}
	return out, nil
}
