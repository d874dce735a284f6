// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// Grade Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Grade represents a numeric grade on some grading scale. Whether a smaller
// or larger value is better depends on the Scale it belongs to.
type Grade float64

// Float64 returns the underlying float64 value.
func (g Grade) Float64() float64 {
	return float64(g)
}

// String returns the string representation.
func (g Grade) String() string {
	return fmt.Sprintf("%.2f", float64(g))
}

// ═══════════════════════════════════════════════════════════════════════════
// Scale Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Direction indicates which end of a grading scale is the good one.
// Grading scales vary: German grades run 1.0 (best) to 5.0 (worst),
// US-style GPA runs 4.0 (best) to 0.0 (worst).
type Direction string

const (
	// LowerIsBetter means a numerically smaller grade is the better one.
	LowerIsBetter Direction = "lower_is_better"
	// HigherIsBetter means a numerically larger grade is the better one.
	HigherIsBetter Direction = "higher_is_better"
)

// IsValid checks if the direction is one of the known values.
func (d Direction) IsValid() bool {
	return d == LowerIsBetter || d == HigherIsBetter
}

// Scale defines the bounds and direction of a grading scale.
type Scale struct {
	// Best is the best achievable grade on the scale.
	Best Grade

	// Worst is the worst achievable grade on the scale.
	Worst Grade

	// Direction makes the ordering explicit rather than inferred from bounds.
	Direction Direction
}

// NewScale creates a Scale, validating that bounds and direction agree.
func NewScale(best, worst Grade, dir Direction) (Scale, error) {
	if !dir.IsValid() {
		return Scale{}, NewValidationError("direction", ErrValueOutOfRange,
			fmt.Sprintf("unknown scale direction %q", dir))
	}
	if best == worst {
		return Scale{}, NewValidationError("scale", ErrValueOutOfRange,
			"best and worst grade must differ")
	}
	if dir == LowerIsBetter && best > worst {
		return Scale{}, NewValidationError("scale", ErrValueOutOfRange,
			"lower-is-better scale requires best < worst")
	}
	if dir == HigherIsBetter && best < worst {
		return Scale{}, NewValidationError("scale", ErrValueOutOfRange,
			"higher-is-better scale requires best > worst")
	}
	return Scale{Best: best, Worst: worst, Direction: dir}, nil
}

// Contains checks whether a grade lies within the scale bounds.
func (s Scale) Contains(g Grade) bool {
	lo, hi := s.Best, s.Worst
	if lo > hi {
		lo, hi = hi, lo
	}
	return g >= lo && g <= hi
}

// WorseThan reports whether grade a is strictly worse than grade b
// on this scale.
func (s Scale) WorseThan(a, b Grade) bool {
	if s.Direction == LowerIsBetter {
		return a > b
	}
	return a < b
}

// AtLeast reports whether grade g meets a threshold, i.e. is the threshold
// itself or better.
func (s Scale) AtLeast(g, threshold Grade) bool {
	return !s.WorseThan(g, threshold)
}

// ═══════════════════════════════════════════════════════════════════════════
// Credits Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Credits represents a credit value (e.g. ECTS points) of a module or an
// accumulated total.
type Credits float64

// IsValid checks that the credit value is positive.
func (c Credits) IsValid() bool {
	return c > 0
}

// Float64 returns the underlying float64 value.
func (c Credits) Float64() float64 {
	return float64(c)
}

// Add returns the sum of two credit values.
func (c Credits) Add(other Credits) Credits {
	return c + other
}

// NewCredits creates a credit value, rejecting non-positive input.
func NewCredits(value float64) (Credits, error) {
	if value <= 0 {
		return 0, NewValidationError("credits", ErrNonPositive,
			fmt.Sprintf("credit value must be positive, got %v", value))
	}
	return Credits(value), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Weight Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Weight is the relative contribution of an assessment to its module grade.
// Valid weights lie in (0, 1].
type Weight float64

// IsValid checks that the weight is within (0, 1].
func (w Weight) IsValid() bool {
	return w > 0 && w <= 1
}

// Float64 returns the underlying float64 value.
func (w Weight) Float64() float64 {
	return float64(w)
}

// NewWeight creates a weight, rejecting values outside (0, 1].
func NewWeight(value float64) (Weight, error) {
	w := Weight(value)
	if !w.IsValid() {
		return 0, NewValidationError("weight", ErrValueOutOfRange,
			fmt.Sprintf("weight must be in (0, 1], got %v", value))
	}
	return w, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// TermNumber Value Object
// ═══════════════════════════════════════════════════════════════════════════

// TermNumber is the ordinal of a semester within a study program (1-based).
type TermNumber int

// IsValid checks that the term number is at least 1.
func (t TermNumber) IsValid() bool {
	return t >= 1
}

// Int returns the underlying int value.
func (t TermNumber) Int() int {
	return int(t)
}

// String returns the string representation.
func (t TermNumber) String() string {
	return fmt.Sprintf("semester %d", int(t))
}

// NewTermNumber creates a term number, rejecting values below 1.
func NewTermNumber(n int) (TermNumber, error) {
	if n < 1 {
		return 0, NewValidationError("term", ErrNonPositive,
			fmt.Sprintf("term number must be at least 1, got %d", n))
	}
	return TermNumber(n), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Identifier helpers
// ═══════════════════════════════════════════════════════════════════════════

// NormalizeID trims an identifier and rejects empty values. Used by all
// entity constructors for the shared non-empty-identifier invariant.
func NormalizeID(field, id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", NewValidationError(field, ErrEmptyValue, "identifier cannot be empty")
	}
	return trimmed, nil
}
