package badges

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nocodejam/badge-engine/datastore"
	"github.com/nocodejam/badge-engine/models"
)

// ListBadges returns the catalog: stored badges in storage order, then seed
// badges whose id is not stored. A stored badge replaces the seed with the
// same id. When storage cannot be read the seeds are returned alone.
func (s *Service) ListBadges(ctx context.Context) ([]models.BadgeDefinition, error) {
	seeds := s.seeds()

	records, err := s.Badges.GetAll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, unavailable("badge catalog", err)
		}
		s.log().Warn("badge catalog unavailable, falling back to seed list", "error", err)
		return append([]models.BadgeDefinition(nil), seeds...), nil
	}

	catalog := make([]models.BadgeDefinition, 0, len(records)+len(seeds))
	stored := make(map[string]bool, len(records))
	for _, record := range records {
		def, err := record.Definition()
		if err == nil {
			err = ValidateBadge(def)
		}
		if err != nil {
			s.log().Warn("skipping stored badge", "badge_id", record.ID, "error", err)
			continue
		}
		stored[def.ID] = true
		catalog = append(catalog, def)
	}

	for _, seed := range seeds {
		if !stored[seed.ID] {
			catalog = append(catalog, seed)
		}
	}

	return catalog, nil
}

// CreateBadge validates and stores a new badge. An empty id is replaced by
// a fresh UUID.
func (s *Service) CreateBadge(ctx context.Context, def models.BadgeDefinition) (models.BadgeDefinition, error) {
	if def.ID == "" {
		def.ID = uuid.New().String()
	}
	if err := ValidateBadge(def); err != nil {
		return models.BadgeDefinition{}, err
	}
	def.CreatedAt = s.now()

	record, err := models.NewBadgeRecord(def)
	if err != nil {
		return models.BadgeDefinition{}, &InvalidBadgeDefinitionError{BadgeID: def.ID, Reason: err.Error()}
	}

	if _, err := s.Badges.Create(ctx, record); err != nil {
		if datastore.IsDuplicateKey(err) {
			return models.BadgeDefinition{}, &InvalidBadgeDefinitionError{BadgeID: def.ID, Reason: "a badge with this id already exists"}
		}
		return models.BadgeDefinition{}, err
	}

	s.log().Info("badge created", "badge_id", def.ID, "criteria", def.Criteria.Kind())
	return def, nil
}

// UpdateBadge validates and rewrites a stored badge and returns the row as
// stored, keeping its original creation time. Editing a seed badge that has
// no stored row yet stores it, overriding the seed.
func (s *Service) UpdateBadge(ctx context.Context, def models.BadgeDefinition) (models.BadgeDefinition, error) {
	if err := ValidateBadge(def); err != nil {
		return models.BadgeDefinition{}, err
	}

	record, err := models.NewBadgeRecord(def)
	if err != nil {
		return models.BadgeDefinition{}, &InvalidBadgeDefinitionError{BadgeID: def.ID, Reason: err.Error()}
	}

	_, err = s.Badges.Update(ctx, record)
	if datastore.IsNoRows(err) {
		if !s.isSeed(def.ID) {
			return models.BadgeDefinition{}, fmt.Errorf("%w: %s", ErrBadgeNotFound, def.ID)
		}
		record.CreatedAt = s.now()
		_, err = s.Badges.Create(ctx, record)
	}
	if err != nil {
		return models.BadgeDefinition{}, err
	}

	stored, err := s.Badges.Get(ctx, def.ID)
	if err != nil {
		return models.BadgeDefinition{}, unavailable("updated badge", err)
	}
	updated, err := stored.Definition()
	if err != nil {
		return models.BadgeDefinition{}, &InvalidBadgeDefinitionError{BadgeID: def.ID, Reason: err.Error()}
	}

	s.log().Info("badge updated", "badge_id", def.ID, "criteria", def.Criteria.Kind())
	return updated, nil
}

// DeleteBadge removes a stored badge unless a user already owns it. A seed
// badge that is deleted from storage stays in the catalog as its seed.
func (s *Service) DeleteBadge(ctx context.Context, badgeID string) error {
	if _, err := s.Badges.Get(ctx, badgeID); err != nil {
		if datastore.IsNoRows(err) {
			return fmt.Errorf("%w: %s", ErrBadgeNotFound, badgeID)
		}
		return unavailable("badge", err)
	}

	owners, err := s.UserBadges.CountByBadge(ctx, badgeID)
	if err != nil {
		return unavailable("badge owners", err)
	}
	if owners > 0 {
		return fmt.Errorf("%w: %s has %d owner(s)", ErrBadgeInUse, badgeID, owners)
	}

	if err := s.Badges.Delete(ctx, badgeID); err != nil {
		return err
	}

	s.log().Info("badge deleted", "badge_id", badgeID)
	return nil
}

func (s *Service) isSeed(badgeID string) bool {
	for _, seed := range s.seeds() {
		if seed.ID == badgeID {
			return true
		}
	}
	return false
}
