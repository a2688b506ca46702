package badges

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nocodejam/badge-engine/models"
)

// DefaultSeeds is the built-in catalog.
func DefaultSeeds() []models.BadgeDefinition {
	return []models.BadgeDefinition{
		{
			ID:          "5b0f7c1e-1a00-4c1a-9e01-000000000001",
			Name:        "First Steps",
			Description: "Complete your first challenge",
			Icon:        "🎯",
			Criteria:    models.FirstChallenge{Threshold: 1},
		},
		{
			ID:          "5b0f7c1e-1a00-4c1a-9e01-000000000002",
			Name:        "Challenge Enthusiast",
			Description: "Complete 5 challenges",
			Icon:        "🔥",
			Criteria:    models.ChallengesCompleted{Threshold: 5},
		},
		{
			ID:          "5b0f7c1e-1a00-4c1a-9e01-000000000003",
			Name:        "Challenge Master",
			Description: "Complete 25 challenges",
			Icon:        "🏆",
			Criteria:    models.ChallengesCompleted{Threshold: 25},
		},
		{
			ID:          "5b0f7c1e-1a00-4c1a-9e01-000000000004",
			Name:        "XP Hunter",
			Description: "Earn 1,000 XP",
			Icon:        "⚡",
			Criteria:    models.XPEarned{Threshold: 1000},
		},
		{
			ID:          "5b0f7c1e-1a00-4c1a-9e01-000000000005",
			Name:        "XP Legend",
			Description: "Earn 10,000 XP",
			Icon:        "🌟",
			Criteria:    models.XPEarned{Threshold: 10000},
		},
		{
			ID:          "5b0f7c1e-1a00-4c1a-9e01-000000000006",
			Name:        "Well Rounded",
			Description: "Complete a challenge at every difficulty",
			Icon:        "🎓",
			Criteria: models.DifficultyMaster{
				RequiredDifficulties: []string{models.Beginner, models.Intermediate, models.Expert},
			},
		},
		{
			ID:          "5b0f7c1e-1a00-4c1a-9e01-000000000007",
			Name:        "Expert Builder",
			Description: "Complete 5 Expert challenges",
			Icon:        "🧠",
			Criteria:    models.ExpertChallenges{Threshold: 5},
		},
		{
			ID:          "5b0f7c1e-1a00-4c1a-9e01-000000000008",
			Name:        "Top 10",
			Description: "Reach the top 10 of the XP leaderboard",
			Icon:        "🥇",
			Criteria:    models.LeaderboardPosition{MaxRank: 10},
		},
		{
			ID:          "5b0f7c1e-1a00-4c1a-9e01-000000000009",
			Name:        "Week Warrior",
			Description: "Keep a 7 day streak",
			Icon:        "📅",
			Criteria:    models.Streak{Days: 7},
		},
	}
}

// LoadSeedFile reads a YAML list of badge definitions to use as the seed
// catalog. Every entry must validate and ids must be unique.
func LoadSeedFile(path string) ([]models.BadgeDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeeds(data)
}

func ParseSeeds(data []byte) ([]models.BadgeDefinition, error) {
	var seeds []models.BadgeDefinition
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed yaml: %w", err)
	}

	seen := make(map[string]bool, len(seeds))
	for i, seed := range seeds {
		if seed.ID == "" {
			return nil, &InvalidBadgeDefinitionError{Reason: fmt.Sprintf("seed %d has no id", i)}
		}
		if seen[seed.ID] {
			return nil, &InvalidBadgeDefinitionError{BadgeID: seed.ID, Reason: "duplicate seed id"}
		}
		seen[seed.ID] = true
		if err := ValidateBadge(seed); err != nil {
			return nil, err
		}
	}

	return seeds, nil
}
