package badges

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/nocodejam/badge-engine/models"
)

// streakWindow caps how many recent approved submissions the streak looks at.
const streakWindow = 30

// ComputeProgress builds a fresh snapshot of the user's progress. Difficulty
// counts use each challenge's current label, so editing a challenge's
// difficulty changes the counts of past submissions.
func (s *Service) ComputeProgress(ctx context.Context, userID string) (models.UserProgressSnapshot, error) {
	submissions, err := s.Submissions.GetApprovedByUser(ctx, userID)
	if err != nil {
		return models.UserProgressSnapshot{}, unavailable("approved submissions", err)
	}

	xp, err := s.Users.GetXP(ctx, userID)
	if err != nil {
		return models.UserProgressSnapshot{}, unavailable("user xp", err)
	}

	ranked, err := s.Users.GetAllRankedByXP(ctx)
	if err != nil {
		return models.UserProgressSnapshot{}, unavailable("xp leaderboard", err)
	}

	byDifficulty := make(map[string]int)
	for _, submission := range submissions {
		byDifficulty[submission.Difficulty]++
	}

	return models.UserProgressSnapshot{
		UserID:                 userID,
		TotalChallenges:        len(submissions),
		TotalXP:                xp,
		ChallengesByDifficulty: byDifficulty,
		CurrentStreak:          currentStreak(submissions, s.now()),
		LeaderboardPosition:    leaderboardPosition(ranked, userID),
		ExpertChallenges:       byDifficulty[models.Expert],
	}, nil
}

// currentStreak walks the most recent submissions newest first. A submission
// extends the streak while it is at most streak+1 whole days before the
// previous one (or before now, for the first). Same-day submissions each
// count and no timezone normalisation is applied.
func currentStreak(submissions []models.ApprovedSubmission, now time.Time) int {
	recent := make([]models.ApprovedSubmission, len(submissions))
	copy(recent, submissions)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].SubmittedAt.After(recent[j].SubmittedAt)
	})
	if len(recent) > streakWindow {
		recent = recent[:streakWindow]
	}

	streak := 0
	cursor := now
	for _, submission := range recent {
		gap := int(math.Floor(cursor.Sub(submission.SubmittedAt).Hours() / 24))
		if gap > streak+1 {
			break
		}
		streak++
		cursor = submission.SubmittedAt
	}
	return streak
}

// leaderboardPosition returns the 1-based rank of userID by descending XP,
// ties ordered by user id. 0 means the user is not ranked.
func leaderboardPosition(ranked []models.UserXP, userID string) int {
	ordered := make([]models.UserXP, len(ranked))
	copy(ordered, ranked)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].XP != ordered[j].XP {
			return ordered[i].XP > ordered[j].XP
		}
		return ordered[i].UserID < ordered[j].UserID
	})

	for i, entry := range ordered {
		if entry.UserID == userID {
			return i + 1
		}
	}
	return 0
}
