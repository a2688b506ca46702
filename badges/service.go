// Package badges evaluates which achievement badges a learner has earned
// and records the awards.
package badges

import (
	"time"

	"github.com/nocodejam/badge-engine/datastore"
	"github.com/nocodejam/badge-engine/logger"
	"github.com/nocodejam/badge-engine/metrics"
	"github.com/nocodejam/badge-engine/models"
)

// Service holds the collaborators of the badge engine. Seeds, Workers,
// Log, Metrics and Now are optional.
type Service struct {
	Users       datastore.UserRepository
	Submissions datastore.SubmissionRepository
	Badges      datastore.BadgeRepository
	UserBadges  datastore.UserBadgeRepository

	// Seeds is the built-in catalog used under storage. Nil means DefaultSeeds.
	Seeds []models.BadgeDefinition
	// Workers bounds how many users ProcessAllUsers handles at once.
	Workers int

	Log     *logger.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) log() *logger.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logger.NewNop()
}

func (s *Service) seeds() []models.BadgeDefinition {
	if s.Seeds != nil {
		return s.Seeds
	}
	return DefaultSeeds()
}

func (s *Service) workers() int {
	if s.Workers < 1 {
		return 1
	}
	return s.Workers
}
