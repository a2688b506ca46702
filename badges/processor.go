package badges

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nocodejam/badge-engine/models"
)

// ProcessAllUsers evaluates and awards badges for every user. A user whose
// evaluation fails is logged and left out of the results; per-badge write
// failures are reported in that user's result. Only failing to list users
// is returned as an error.
func (s *Service) ProcessAllUsers(ctx context.Context) ([]models.UserAwardResult, error) {
	started := time.Now()

	users, err := s.Users.GetAllRankedByXP(ctx)
	if err != nil {
		return nil, unavailable("user list", err)
	}

	slots := make([]*models.UserAwardResult, len(users))
	var g errgroup.Group
	g.SetLimit(s.workers())

	for i, user := range users {
		i, user := i, user // per-iteration copy (go directive < 1.22)
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			result, err := s.ProcessUser(ctx, user.UserID)
			if err != nil {
				s.log().Error("failed to process user badges", "user_id", user.UserID, "error", err)
				return nil
			}
			slots[i] = &result
			return nil
		})
	}
	_ = g.Wait()

	results := make([]models.UserAwardResult, 0, len(users))
	awarded := 0
	for _, result := range slots {
		if result == nil {
			continue
		}
		results = append(results, *result)
		awarded += len(result.Awarded)
	}

	failed := len(users) - len(results)
	s.Metrics.ObserveBatch(time.Since(started), len(results), failed)
	s.log().Info("badge batch finished",
		"users", len(users),
		"processed", len(results),
		"failed", failed,
		"awarded", awarded,
	)

	return results, ctx.Err()
}

// ProcessUser runs evaluation then awarding for one user.
func (s *Service) ProcessUser(ctx context.Context, userID string) (models.UserAwardResult, error) {
	eligible, err := s.Evaluate(ctx, userID)
	if err != nil {
		return models.UserAwardResult{}, err
	}

	awarded, err := s.Award(ctx, userID, eligible)
	result := models.UserAwardResult{UserID: userID, Awarded: awarded}

	var awardErr *AwardError
	if errors.As(err, &awardErr) {
		result.Failures = awardErr.Failures
	} else if err != nil {
		return models.UserAwardResult{}, err
	}

	return result, nil
}
