package program

import (
	"github.com/studyhub/study-progress-hub/internal/domain/shared"
)

// SemesterStatus is the derived display status of a semester.
type SemesterStatus string

const (
	// SemesterUpcoming means no module in the semester has started.
	SemesterUpcoming SemesterStatus = "upcoming"
	// SemesterActive means at least one module has started but not all are done.
	SemesterActive SemesterStatus = "active"
	// SemesterCompleted means every module in the semester is completed.
	SemesterCompleted SemesterStatus = "completed"
)

// Semester is an ordered collection of modules for one academic term.
type Semester struct {
	term    shared.TermNumber
	modules []*Module
}

// NewSemester creates an empty semester for the given term.
func NewSemester(term shared.TermNumber) (*Semester, error) {
	if !term.IsValid() {
		return nil, shared.NewValidationError("semester.term", shared.ErrNonPositive,
			"term number must be at least 1")
	}
	return &Semester{term: term}, nil
}

// Term returns the semester's term number.
func (s *Semester) Term() shared.TermNumber { return s.term }

// Modules returns the modules in planning order. The returned slice is a
// copy; modules are mutated only through aggregate operations.
func (s *Semester) Modules() []*Module {
	out := make([]*Module, len(s.modules))
	copy(out, s.modules)
	return out
}

// AddModule adds a module to the semester. The module set is frozen once any
// module is in-progress or completed, so in-progress work cannot be silently
// reshuffled.
func (s *Semester) AddModule(m *Module) error {
	for _, existing := range s.modules {
		if existing.status.Started() {
			return shared.NewDomainError("semester", "AddModule", shared.ErrFrozen,
				"module set is frozen once any module has started")
		}
	}
	for _, existing := range s.modules {
		if existing.id == m.id {
			return shared.NewDomainError("semester", "AddModule", shared.ErrAlreadyExists,
				"duplicate module id "+m.id)
		}
	}
	s.modules = append(s.modules, m)
	return nil
}

// CreditsEarned derives the sum of credit values of completed modules.
// Completion is the derived condition, never the declared status flag.
func (s *Semester) CreditsEarned(scale shared.Scale) shared.Credits {
	var total shared.Credits
	for _, m := range s.modules {
		if m.Completed(scale) {
			total = total.Add(m.credits)
		}
	}
	return total
}

// CreditsAttempted derives the sum of credit values of in-progress and
// completed modules.
func (s *Semester) CreditsAttempted(scale shared.Scale) shared.Credits {
	var total shared.Credits
	for _, m := range s.modules {
		if m.Attempted(scale) {
			total = total.Add(m.credits)
		}
	}
	return total
}

// GPA derives the credit-weighted mean grade over completed modules.
// Semesters without a completed module have no GPA (ok = false); missing
// grades are excluded, never treated as zero.
func (s *Semester) GPA(scale shared.Scale) (shared.Grade, bool) {
	return creditWeightedGPA(s.modules, scale)
}

// Status derives the semester's display status from its modules.
func (s *Semester) Status(scale shared.Scale) SemesterStatus {
	if len(s.modules) == 0 {
		return SemesterUpcoming
	}
	allCompleted := true
	anyStarted := false
	for _, m := range s.modules {
		completed := m.Completed(scale)
		if !completed {
			allCompleted = false
		}
		if completed || m.status.Started() {
			anyStarted = true
		}
	}
	if allCompleted {
		return SemesterCompleted
	}
	if anyStarted {
		return SemesterActive
	}
	return SemesterUpcoming
}

// findModule returns the module with the given id, or nil.
func (s *Semester) findModule(id string) *Module {
	for _, m := range s.modules {
		if m.id == id {
			return m
		}
	}
	return nil
}

// creditWeightedGPA computes the credit-weighted mean grade over the
// completed modules in the given set. Shared by semester and program level
// aggregation so both use identical rules.
func creditWeightedGPA(modules []*Module, scale shared.Scale) (shared.Grade, bool) {
	var weightedSum, creditSum float64
	for _, m := range modules {
		if !m.Completed(scale) {
			continue
		}
		g, ok := m.Grade()
		if !ok {
			continue
		}
		weightedSum += g.Float64() * m.credits.Float64()
		creditSum += m.credits.Float64()
	}
	if creditSum == 0 {
		return 0, false
	}
	return shared.Grade(weightedSum / creditSum), true
}
