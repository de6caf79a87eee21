package cv

import (
	"cv-forge/internal/domain/validation"
)

// Validate checks the aggregate and all children before any persistence
// attempt. The first violation blocks the whole operation.
func (c CV) Validate() error {
	if c.Title == "" {
		return validation.Errorf("title", "required")
	}
	if !validation.ValidEmail(c.Email) {
		return validation.Errorf("email", "invalid format")
	}
	if !validation.ValidPhone(c.Phone) {
		return validation.Errorf("phone", "must start with + followed by 1-15 digits")
	}

	for _, edu := range c.Education {
		if edu.Institution == "" {
			return validation.Errorf("institution", "required")
		}
		if !validation.DateInRange(edu.StartDate) || !validation.DateInRange(edu.EndDate) {
			return validation.Errorf("education dates", "must be between 1900-01-01 and today")
		}
	}

	for _, exp := range c.Experience {
		if exp.Company == "" {
			return validation.Errorf("company", "required")
		}
		if !validation.DateInRange(exp.StartDate) || !validation.DateInRange(exp.EndDate) {
			return validation.Errorf("experience dates", "must be between 1900-01-01 and today")
		}
	}

	for _, sk := range c.Skills {
		if sk.Name == "" {
			return validation.Errorf("skill name", "required")
		}
		if sk.Level < MinSkillLevel || sk.Level > MaxSkillLevel {
			return validation.Errorf("skill level", "must be between %d and %d", MinSkillLevel, MaxSkillLevel)
		}
	}

	for _, lang := range c.Languages {
		if lang.Name == "" {
			return validation.Errorf("language name", "required")
		}
		if !ValidProficiency(lang.Proficiency) {
			return validation.Errorf("language proficiency", "must be one of Beginner, Intermediate, Advanced, Native")
		}
	}

	return nil
}
