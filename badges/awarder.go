package badges

import (
	"context"

	"github.com/nocodejam/badge-engine/datastore"
	"github.com/nocodejam/badge-engine/models"
)

// Award records each badge for the user and returns the ones newly awarded.
// A badge the user already holds (including one awarded concurrently by
// another process) is skipped without error. Other failures are returned as
// *AwardError; awards written before a failure stay written.
func (s *Service) Award(ctx context.Context, userID string, badges []models.BadgeDefinition) ([]models.BadgeDefinition, error) {
	awarded := make([]models.BadgeDefinition, 0, len(badges))
	var failures []models.AwardFailure
	log := s.log().With("user_id", userID)

	for _, badge := range badges {
		ok, err := s.awardOne(ctx, userID, badge)
		if err != nil {
			log.Error("failed to award badge", "badge_id", badge.ID, "error", err)
			s.Metrics.ObserveAwardFailure()
			failures = append(failures, models.AwardFailure{BadgeID: badge.ID, Err: err, Message: err.Error()})
			continue
		}
		if ok {
			awarded = append(awarded, badge)
		}
	}

	if len(failures) > 0 {
		return awarded, &AwardError{UserID: userID, Failures: failures}
	}
	return awarded, nil
}

// awardOne reports false with a nil error when the award already existed.
func (s *Service) awardOne(ctx context.Context, userID string, badge models.BadgeDefinition) (bool, error) {
	now := s.now()

	record, err := models.NewBadgeRecord(badge)
	if err != nil {
		return false, err
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if err := s.Badges.Upsert(ctx, record); err != nil {
		return false, err
	}

	err = s.UserBadges.Create(ctx, models.UserBadgeAward{
		UserID:   userID,
		BadgeID:  badge.ID,
		EarnedAt: now,
	})
	switch {
	case err == nil:
		s.log().Info("badge awarded", "user_id", userID, "badge_id", badge.ID, "badge", badge.Name)
		s.Metrics.ObserveAward(badge.ID)
		return true, nil
	case datastore.IsDuplicateKey(err):
		s.log().Debug("badge already awarded", "user_id", userID, "badge_id", badge.ID)
		s.Metrics.ObserveDuplicate()
		return false, nil
	default:
		return false, err
	}
}
