package badges

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/nocodejam/badge-engine/datastore"
	"github.com/nocodejam/badge-engine/models"
)

var errBoom = errors.New("connection reset")

type memoryStore struct {
	mu sync.Mutex

	xp          map[string]int
	submissions map[string][]models.ApprovedSubmission
	badges      []models.BadgeRecord
	awards      map[string]map[string]time.Time

	failSubmissionsFor map[string]bool
	failBadgeList      bool
	failAwardFor       map[string]bool
	upserts            int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		xp:                 map[string]int{},
		submissions:        map[string][]models.ApprovedSubmission{},
		awards:             map[string]map[string]time.Time{},
		failSubmissionsFor: map[string]bool{},
		failAwardFor:       map[string]bool{},
	}
}

func (m *memoryStore) service() *Service {
	return &Service{
		Users:       memoryUsers{m},
		Submissions: memorySubmissions{m},
		Badges:      memoryBadges{m},
		UserBadges:  memoryUserBadges{m},
		Seeds:       []models.BadgeDefinition{},
		Now:         func() time.Time { return testNow },
	}
}

func (m *memoryStore) awardCount(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.awards[userID])
}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type memoryUsers struct{ m *memoryStore }

func (u memoryUsers) Get(ctx context.Context, userID string) (models.User, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	xp, ok := u.m.xp[userID]
	if !ok {
		return models.User{}, datastore.NoRowsError{NoRows: true, Err: sql.ErrNoRows}
	}
	return models.User{UserID: userID, XP: xp}, nil
}

func (u memoryUsers) GetXP(ctx context.Context, userID string) (int, error) {
	user, err := u.Get(ctx, userID)
	return user.XP, err
}

func (u memoryUsers) GetAllRankedByXP(ctx context.Context) ([]models.UserXP, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	var users []models.UserXP
	for id, xp := range u.m.xp {
		users = append(users, models.UserXP{UserID: id, XP: xp})
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].XP != users[j].XP {
			return users[i].XP > users[j].XP
		}
		return users[i].UserID < users[j].UserID
	})
	return users, nil
}

type memorySubmissions struct{ m *memoryStore }

func (s memorySubmissions) GetApprovedByUser(ctx context.Context, userID string) ([]models.ApprovedSubmission, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.failSubmissionsFor[userID] {
		return nil, errBoom
	}
	return append([]models.ApprovedSubmission(nil), s.m.submissions[userID]...), nil
}

type memoryBadges struct{ m *memoryStore }

func (b memoryBadges) GetAll(ctx context.Context) ([]models.BadgeRecord, error) {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	if b.m.failBadgeList {
		return nil, errBoom
	}
	return append([]models.BadgeRecord(nil), b.m.badges...), nil
}

func (b memoryBadges) Get(ctx context.Context, badgeID string) (models.BadgeRecord, error) {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	for _, badge := range b.m.badges {
		if badge.ID == badgeID {
			return badge, nil
		}
	}
	return models.BadgeRecord{}, datastore.NoRowsError{NoRows: true, Err: sql.ErrNoRows}
}

func (b memoryBadges) Create(ctx context.Context, badge models.BadgeRecord) (models.BadgeRecord, error) {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	for _, existing := range b.m.badges {
		if existing.ID == badge.ID {
			return models.BadgeRecord{}, &datastore.DuplicateKeyError{Constraint: "badges_pkey"}
		}
	}
	b.m.badges = append(b.m.badges, badge)
	return badge, nil
}

func (b memoryBadges) Update(ctx context.Context, badge models.BadgeRecord) (models.BadgeRecord, error) {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	for i, existing := range b.m.badges {
		if existing.ID == badge.ID {
			badge.CreatedAt = existing.CreatedAt
			b.m.badges[i] = badge
			return badge, nil
		}
	}
	return models.BadgeRecord{}, datastore.NoRowsError{NoRows: true, Err: sql.ErrNoRows}
}

func (b memoryBadges) Upsert(ctx context.Context, badge models.BadgeRecord) error {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	b.m.upserts++
	for _, existing := range b.m.badges {
		if existing.ID == badge.ID {
			return nil
		}
	}
	b.m.badges = append(b.m.badges, badge)
	return nil
}

func (b memoryBadges) Delete(ctx context.Context, badgeID string) error {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	kept := b.m.badges[:0]
	for _, badge := range b.m.badges {
		if badge.ID != badgeID {
			kept = append(kept, badge)
		}
	}
	b.m.badges = kept
	return nil
}

type memoryUserBadges struct{ m *memoryStore }

func (u memoryUserBadges) Create(ctx context.Context, award models.UserBadgeAward) error {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	if u.m.failAwardFor[award.BadgeID] {
		return errBoom
	}
	owned := u.m.awards[award.UserID]
	if owned == nil {
		owned = map[string]time.Time{}
		u.m.awards[award.UserID] = owned
	}
	if _, ok := owned[award.BadgeID]; ok {
		return &datastore.DuplicateKeyError{Constraint: "user_badges_pkey"}
	}
	owned[award.BadgeID] = award.EarnedAt
	return nil
}

func (u memoryUserBadges) GetBadgeIDsByUser(ctx context.Context, userID string) ([]string, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	var ids []string
	for id := range u.m.awards[userID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (u memoryUserBadges) GetByUser(ctx context.Context, userID string) ([]models.UserBadgeAward, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	var awards []models.UserBadgeAward
	for id, at := range u.m.awards[userID] {
		awards = append(awards, models.UserBadgeAward{UserID: userID, BadgeID: id, EarnedAt: at})
	}
	return awards, nil
}

func (u memoryUserBadges) CountByBadge(ctx context.Context, badgeID string) (int, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	count := 0
	for _, owned := range u.m.awards {
		if _, ok := owned[badgeID]; ok {
			count++
		}
	}
	return count, nil
}

func badge(id string, c models.Criteria) models.BadgeDefinition {
	return models.BadgeDefinition{ID: id, Name: "badge " + id, Criteria: c}
}

func storedBadge(id string, c models.Criteria) models.BadgeRecord {
	record, err := models.NewBadgeRecord(badge(id, c))
	if err != nil {
		panic(err)
	}
	return record
}

func approved(difficulty string, at time.Time) models.ApprovedSubmission {
	return models.ApprovedSubmission{ChallengeID: "c-" + difficulty, SubmittedAt: at, Difficulty: difficulty}
}
