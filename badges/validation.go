package badges

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nocodejam/badge-engine/models"
)

var validate = validator.New()

// ValidateBadge checks a definition before it is written. The limits live as
// struct tags on the criteria types in models.
func ValidateBadge(def models.BadgeDefinition) error {
	if strings.TrimSpace(def.ID) == "" {
		return &InvalidBadgeDefinitionError{BadgeID: def.ID, Reason: "id is required"}
	}
	if strings.TrimSpace(def.ID) != def.ID {
		return &InvalidBadgeDefinitionError{BadgeID: def.ID, Reason: "id must not have leading or trailing spaces"}
	}
	if strings.TrimSpace(def.Name) == "" {
		return &InvalidBadgeDefinitionError{BadgeID: def.ID, Reason: "name is required"}
	}
	if def.Criteria == nil {
		return &InvalidBadgeDefinitionError{BadgeID: def.ID, Reason: "criteria is required"}
	}

	err := validate.Struct(def.Criteria)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &InvalidBadgeDefinitionError{BadgeID: def.ID, Reason: err.Error()}
	}

	reasons := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		reasons = append(reasons, describe(fe))
	}
	return &InvalidBadgeDefinitionError{
		BadgeID: def.ID,
		Reason:  fmt.Sprintf("%s: %s", def.Criteria.Kind(), strings.Join(reasons, "; ")),
	}
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "eq":
		return fmt.Sprintf("%s must be %s", field, fe.Param())
	case "required", "min":
		return fmt.Sprintf("%s must not be empty", field)
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s, got %v", field, strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
