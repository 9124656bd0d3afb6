package domain

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MinNameLength        = 2
	MaxNameLength        = 100
	MaxDescriptionLength = 1000
)

// Simulation is a saved projection: the plan that produced it plus its results
type Simulation struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Plan          InvestmentPlan
	YearlyResults []YearlyResult
	Summary       ProjectionSummary
	CreatedAt     time.Time
}

// Validate ensures the simulation adheres to domain rules
func (s *Simulation) Validate() error {
	if err := ValidateName(s.Name, s.Description); err != nil {
		return err
	}
	return s.Plan.Validate()
}

// ValidateName checks the naming rules shared by simulations and portfolios
func ValidateName(name, description string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return &ValidationError{Message: "name is required"}
	}
	if n < MinNameLength {
		return &ValidationError{Message: "name must be at least 2 characters"}
	}
	if n > MaxNameLength {
		return &ValidationError{Message: "name cannot exceed 100 characters"}
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return &ValidationError{Message: "description cannot exceed 1000 characters"}
	}
	return nil
}
