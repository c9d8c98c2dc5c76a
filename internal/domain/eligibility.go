package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// CriterionKind tags one of the closed set of eligibility criterion kinds.
type CriterionKind string

const (
	CriterionAgeRange    CriterionKind = "AGE_RANGE"
	CriterionYearOfStudy CriterionKind = "YEAR_OF_STUDY"
	CriterionMembership  CriterionKind = "MEMBERSHIP"
	CriterionMinGPA      CriterionKind = "MIN_GPA"
)

// Criterion is a single tagged eligibility rule. Exactly the fields for its
// Kind are meaningful; the set of kinds is closed.
type Criterion struct {
	Kind CriterionKind

	MinAge  int
	MaxAge  int // 0 means no upper bound
	Years   []int
	GroupID uuid.UUID
	MinGPA  float64
}

// VoterProfile carries the voter attributes eligibility rules evaluate.
type VoterProfile struct {
	VoterID     uuid.UUID
	Age         int
	YearOfStudy int
	GroupIDs    []uuid.UUID
	GPA         float64
}

// Evaluate reports whether the profile satisfies the criterion.
func (c Criterion) Evaluate(p VoterProfile) bool {
	switch c.Kind {
	case CriterionAgeRange:
		if p.Age < c.MinAge {
			return false
		}
		return c.MaxAge == 0 || p.Age <= c.MaxAge
	case CriterionYearOfStudy:
		for _, y := range c.Years {
			if p.YearOfStudy == y {
				return true
			}
		}
		return false
	case CriterionMembership:
		for _, g := range p.GroupIDs {
			if g == c.GroupID {
				return true
			}
		}
		return false
	case CriterionMinGPA:
		return p.GPA >= c.MinGPA
	}
	return false
}

// Describe returns a human-readable form of the criterion for audit output.
func (c Criterion) Describe() string {
	switch c.Kind {
	case CriterionAgeRange:
		if c.MaxAge == 0 {
			return fmt.Sprintf("age >= %d", c.MinAge)
		}
		return fmt.Sprintf("age between %d and %d", c.MinAge, c.MaxAge)
	case CriterionYearOfStudy:
		return fmt.Sprintf("year of study in %v", c.Years)
	case CriterionMembership:
		return fmt.Sprintf("member of group %s", c.GroupID)
	case CriterionMinGPA:
		return fmt.Sprintf("GPA >= %.2f", c.MinGPA)
	}
	return "unknown criterion"
}

// Criteria is the full rule set attached to a position's eligibility.
// All criteria must pass.
type Criteria []Criterion

// Evaluate returns nil when the profile satisfies every criterion, or the
// first failing criterion's description wrapped in a validation error.
func (cs Criteria) Evaluate(p VoterProfile) error {
	for _, c := range cs {
		if !c.Evaluate(p) {
			return NewValidationError("eligibility", "failed criterion: "+c.Describe())
		}
	}
	return nil
}
