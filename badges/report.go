package badges

import (
	"context"
	"fmt"

	"github.com/nocodejam/badge-engine/datastore"
	"github.com/nocodejam/badge-engine/models"
)

// UserReport is everything the engine knows about one user at a point in
// time. It is read only; nothing is awarded while building it.
type UserReport struct {
	User     models.User                 `json:"user"`
	Progress models.UserProgressSnapshot `json:"progress"`
	Owned    []models.UserBadgeAward     `json:"owned"`
	Eligible []models.BadgeDefinition    `json:"eligible"`
}

func (s *Service) Report(ctx context.Context, userID string) (UserReport, error) {
	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		if datastore.IsNoRows(err) {
			return UserReport{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return UserReport{}, unavailable("user", err)
	}

	progress, err := s.ComputeProgress(ctx, userID)
	if err != nil {
		return UserReport{}, err
	}

	owned, err := s.UserBadges.GetByUser(ctx, userID)
	if err != nil {
		return UserReport{}, unavailable("owned badges", err)
	}

	catalog, err := s.ListBadges(ctx)
	if err != nil {
		return UserReport{}, err
	}

	ownedIDs := make(map[string]bool, len(owned))
	for _, award := range owned {
		ownedIDs[award.BadgeID] = true
	}

	return UserReport{
		User:     user,
		Progress: progress,
		Owned:    owned,
		Eligible: eligibleBadges(catalog, progress, ownedIDs),
	}, nil
}
