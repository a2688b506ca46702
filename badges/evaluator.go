package badges

import (
	"context"

	"github.com/nocodejam/badge-engine/models"
)

// Evaluate returns the catalog badges the user now qualifies for and does
// not own yet, in catalog order.
func (s *Service) Evaluate(ctx context.Context, userID string) ([]models.BadgeDefinition, error) {
	eligible, err := s.evaluate(ctx, userID)
	s.Metrics.ObserveEvaluation(err)
	return eligible, err
}

func (s *Service) evaluate(ctx context.Context, userID string) ([]models.BadgeDefinition, error) {
	snapshot, err := s.ComputeProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.ListBadges(ctx)
	if err != nil {
		return nil, err
	}

	ownedIDs, err := s.UserBadges.GetBadgeIDsByUser(ctx, userID)
	if err != nil {
		return nil, unavailable("owned badges", err)
	}
	owned := make(map[string]bool, len(ownedIDs))
	for _, id := range ownedIDs {
		owned[id] = true
	}

	eligible := eligibleBadges(catalog, snapshot, owned)
	s.log().Debug("badges evaluated",
		"user_id", userID,
		"catalog", len(catalog),
		"eligible", len(eligible),
	)
	return eligible, nil
}

func eligibleBadges(catalog []models.BadgeDefinition, snapshot models.UserProgressSnapshot, owned map[string]bool) []models.BadgeDefinition {
	var eligible []models.BadgeDefinition
	for _, badge := range catalog {
		if owned[badge.ID] || !CriteriaHolds(badge.Criteria, snapshot) {
			continue
		}
		eligible = append(eligible, badge)
	}
	return eligible
}

// CriteriaHolds reports whether the snapshot satisfies c.
func CriteriaHolds(c models.Criteria, snapshot models.UserProgressSnapshot) bool {
	switch v := c.(type) {
	case models.FirstChallenge:
		return snapshot.TotalChallenges >= v.Threshold
	case models.ChallengesCompleted:
		return snapshot.TotalChallenges >= v.Threshold
	case models.XPEarned:
		return snapshot.TotalXP >= v.Threshold
	case models.ExpertChallenges:
		return snapshot.ExpertChallenges >= v.Threshold
	case models.DifficultyMaster:
		for _, difficulty := range v.RequiredDifficulties {
			if snapshot.ChallengesByDifficulty[difficulty] <= 0 {
				return false
			}
		}
		return true
	case models.LeaderboardPosition:
		return snapshot.LeaderboardPosition > 0 && snapshot.LeaderboardPosition <= v.MaxRank
	case models.Streak:
		return snapshot.CurrentStreak >= v.Days
	default:
		return false
	}
}
