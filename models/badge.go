package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

type CriteriaKind string

const (
	KindChallengesCompleted CriteriaKind = "challenges_completed"
	KindXPEarned            CriteriaKind = "xp_earned"
	KindFirstChallenge      CriteriaKind = "first_challenge"
	KindDifficultyMaster    CriteriaKind = "difficulty_master"
	KindLeaderboardPosition CriteriaKind = "leaderboard_position"
	KindStreak              CriteriaKind = "streak"
	KindExpertChallenges    CriteriaKind = "expert_challenges"
)

// Criteria is the closed set of badge conditions. Only the types in this
// file implement it.
type Criteria interface {
	Kind() CriteriaKind
	isCriteria()
}

type ChallengesCompleted struct {
	Threshold int `validate:"gt=0,lte=1000"`
}

type XPEarned struct {
	Threshold int `validate:"gt=0,lte=1000000"`
}

type FirstChallenge struct {
	Threshold int `validate:"eq=1"`
}

type DifficultyMaster struct {
	RequiredDifficulties []string `validate:"required,min=1,unique,dive,oneof=Beginner Intermediate Expert"`
}

type LeaderboardPosition struct {
	MaxRank int `validate:"gt=0,lte=100"`
}

type Streak struct {
	Days int `validate:"gt=0,lte=1000"`
}

type ExpertChallenges struct {
	Threshold int `validate:"gt=0,lte=1000"`
}

func (ChallengesCompleted) Kind() CriteriaKind { return KindChallengesCompleted }
func (XPEarned) Kind() CriteriaKind            { return KindXPEarned }
func (FirstChallenge) Kind() CriteriaKind      { return KindFirstChallenge }
func (DifficultyMaster) Kind() CriteriaKind    { return KindDifficultyMaster }
func (LeaderboardPosition) Kind() CriteriaKind { return KindLeaderboardPosition }
func (Streak) Kind() CriteriaKind              { return KindStreak }
func (ExpertChallenges) Kind() CriteriaKind    { return KindExpertChallenges }

func (ChallengesCompleted) isCriteria() {}
func (XPEarned) isCriteria()            {}
func (FirstChallenge) isCriteria()      {}
func (DifficultyMaster) isCriteria()    {}
func (LeaderboardPosition) isCriteria() {}
func (Streak) isCriteria()              {}
func (ExpertChallenges) isCriteria()    {}

// criteriaDoc is the stored shape of a criteria value, shared by the JSON
// column and YAML seed files.
type criteriaDoc struct {
	Type         CriteriaKind `json:"type" yaml:"type"`
	Threshold    int          `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Difficulties []string     `json:"difficulties,omitempty" yaml:"difficulties,omitempty"`
	MaxRank      int          `json:"max_rank,omitempty" yaml:"max_rank,omitempty"`
	Days         int          `json:"days,omitempty" yaml:"days,omitempty"`
}

func toDoc(c Criteria) (criteriaDoc, error) {
	switch v := c.(type) {
	case ChallengesCompleted:
		return criteriaDoc{Type: v.Kind(), Threshold: v.Threshold}, nil
	case XPEarned:
		return criteriaDoc{Type: v.Kind(), Threshold: v.Threshold}, nil
	case FirstChallenge:
		return criteriaDoc{Type: v.Kind(), Threshold: v.Threshold}, nil
	case DifficultyMaster:
		return criteriaDoc{Type: v.Kind(), Difficulties: v.RequiredDifficulties}, nil
	case LeaderboardPosition:
		return criteriaDoc{Type: v.Kind(), MaxRank: v.MaxRank}, nil
	case Streak:
		return criteriaDoc{Type: v.Kind(), Days: v.Days}, nil
	case ExpertChallenges:
		return criteriaDoc{Type: v.Kind(), Threshold: v.Threshold}, nil
	case nil:
		return criteriaDoc{}, fmt.Errorf("criteria is missing")
	default:
		return criteriaDoc{}, fmt.Errorf("unsupported criteria %T", c)
	}
}

func (doc criteriaDoc) criteria() (Criteria, error) {
	switch doc.Type {
	case KindChallengesCompleted:
		return ChallengesCompleted{Threshold: doc.Threshold}, nil
	case KindXPEarned:
		return XPEarned{Threshold: doc.Threshold}, nil
	case KindFirstChallenge:
		if doc.Threshold == 0 {
			doc.Threshold = 1
		}
		return FirstChallenge{Threshold: doc.Threshold}, nil
	case KindDifficultyMaster:
		return DifficultyMaster{RequiredDifficulties: doc.Difficulties}, nil
	case KindLeaderboardPosition:
		return LeaderboardPosition{MaxRank: doc.MaxRank}, nil
	case KindStreak:
		return Streak{Days: doc.Days}, nil
	case KindExpertChallenges:
		return ExpertChallenges{Threshold: doc.Threshold}, nil
	case "":
		return nil, fmt.Errorf("criteria type is missing")
	default:
		return nil, fmt.Errorf("unknown criteria type %q", doc.Type)
	}
}

// MarshalCriteria encodes c into its stored JSON form.
func MarshalCriteria(c Criteria) ([]byte, error) {
	doc, err := toDoc(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// ParseCriteria decodes the stored JSON form. It does not range-check
// values; that is the catalog's job.
func ParseCriteria(data []byte) (Criteria, error) {
	var doc criteriaDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing criteria json %v", err)
	}
	return doc.criteria()
}

type BadgeDefinition struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Icon        string    `json:"icon" yaml:"icon"`
	Criteria    Criteria  `json:"-" yaml:"-"`
	CreatedAt   time.Time `json:"createdAt,omitempty" yaml:"-"`
}

type badgeDoc struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Icon        string      `json:"icon" yaml:"icon"`
	Criteria    criteriaDoc `json:"criteria" yaml:"criteria"`
	CreatedAt   time.Time   `json:"createdAt,omitempty" yaml:"-"`
}

func (b BadgeDefinition) MarshalJSON() ([]byte, error) {
	doc, err := toDoc(b.Criteria)
	if err != nil {
		return nil, err
	}
	return json.Marshal(badgeDoc{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Icon:        b.Icon,
		Criteria:    doc,
		CreatedAt:   b.CreatedAt,
	})
}

func (b *BadgeDefinition) UnmarshalJSON(data []byte) error {
	var doc badgeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return b.fromDoc(doc)
}

func (b *BadgeDefinition) UnmarshalYAML(node *yaml.Node) error {
	var doc badgeDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}
	return b.fromDoc(doc)
}

func (b *BadgeDefinition) fromDoc(doc badgeDoc) error {
	criteria, err := doc.Criteria.criteria()
	if err != nil {
		return fmt.Errorf("badge %q: %w", doc.ID, err)
	}
	*b = BadgeDefinition{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
		Icon:        doc.Icon,
		Criteria:    criteria,
		CreatedAt:   doc.CreatedAt,
	}
	return nil
}

// BadgeRecord is a badges row as stored, with criteria still encoded.
type BadgeRecord struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Icon        string          `db:"icon"`
	Criteria    json.RawMessage `db:"criteria"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r BadgeRecord) Definition() (BadgeDefinition, error) {
	criteria, err := ParseCriteria(r.Criteria)
	if err != nil {
		return BadgeDefinition{}, err
	}
	return BadgeDefinition{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Icon:        r.Icon,
		Criteria:    criteria,
		CreatedAt:   r.CreatedAt,
	}, nil
}

func NewBadgeRecord(def BadgeDefinition) (BadgeRecord, error) {
	criteria, err := MarshalCriteria(def.Criteria)
	if err != nil {
		return BadgeRecord{}, err
	}
	return BadgeRecord{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		Icon:        def.Icon,
		Criteria:    criteria,
		CreatedAt:   def.CreatedAt,
	}, nil
}
