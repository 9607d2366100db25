package leadscore

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/deedavisinc/leadscore-pipeline/internal/errors"
)

// validate handles the static field rules declared as struct tags
// (non-negative counters, response rate bounds). Cross-field invariants
// that the tag grammar cannot express cheaply are checked by hand below.
var validate = validator.New()

// neutralDefaults is the single substitution table for missing optional
// fields. An incomplete lead yields a usable, lower-confidence score
// instead of an error; the table is applied once at the Score boundary.
var neutralDefaults = struct {
	CompanySize       CompanySize
	ShipmentVolume    ShipmentVolume
	UrgencyLevel      UrgencyLevel
	DecisionTimeframe DecisionTimeframe
	Status            QualificationStatus
	Source            string
}{
	CompanySize:       SizeMedium,
	ShipmentVolume:    VolumeMedium,
	UrgencyLevel:      UrgencyMedium,
	DecisionTimeframe: TimeframeThreeToSix,
	Status:            StatusNew,
	Source:            "unknown",
}

// ApplyDefaults returns a copy of lead with missing optional fields
// replaced by their neutral values. The input is never mutated.
func ApplyDefaults(lead LeadRecord) LeadRecord {
	if lead.CompanySize == "" {
		lead.CompanySize = neutralDefaults.CompanySize
	}
	if lead.ShipmentVolume == "" {
		lead.ShipmentVolume = neutralDefaults.ShipmentVolume
	}
	if lead.UrgencyLevel == "" {
		lead.UrgencyLevel = neutralDefaults.UrgencyLevel
	}
	if lead.DecisionTimeframe == "" {
		lead.DecisionTimeframe = neutralDefaults.DecisionTimeframe
	}
	if lead.Status == "" {
		lead.Status = neutralDefaults.Status
	}
	if lead.Engagement.Source == "" {
		lead.Engagement.Source = neutralDefaults.Source
	}
	return lead
}

// ValidateLead checks the structural invariants of a LeadRecord and
// returns a VALIDATION_ERROR naming the violated invariant. The engine
// refuses to score a lead that fails here; it never partially scores.
func ValidateLead(lead LeadRecord) error {
	if err := validate.Struct(lead); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return apperrors.Validation(
				fmt.Sprintf("field %s violates constraint %s", fe.Namespace(), fe.Tag()), err)
		}
		return apperrors.Validation("lead record failed structural validation", err)
	}

	if lead.BudgetRange.Min > lead.BudgetRange.Max {
		return apperrors.Validation(
			fmt.Sprintf("budget range min %.2f exceeds max %.2f",
				lead.BudgetRange.Min, lead.BudgetRange.Max), nil)
	}

	eng := lead.Engagement
	if !eng.FirstContact.IsZero() && !eng.LastContact.IsZero() && eng.LastContact.Before(eng.FirstContact) {
		return apperrors.Validation("last contact precedes first contact", nil)
	}

	return nil
}
