package models

// UserProgressSnapshot is a point-in-time aggregate of a user's progress.
// It is recomputed for every evaluation and never stored.
type UserProgressSnapshot struct {
	UserID                 string         `json:"userId"`
	TotalChallenges        int            `json:"totalChallenges"`
	TotalXP                int            `json:"totalXp"`
	ChallengesByDifficulty map[string]int `json:"challengesByDifficulty"`
	CurrentStreak          int            `json:"currentStreak"`
	LeaderboardPosition    int            `json:"leaderboardPosition"` // 0 when unranked
	ExpertChallenges       int            `json:"expertChallenges"`
}
