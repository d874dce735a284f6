package program

import (
	"time"

	"github.com/studyhub/study-progress-hub/internal/domain/shared"
)

// ModuleStatus is the declared lifecycle state of a module. It is advisory:
// it groups modules for display, but derived completion is authoritative for
// every credit and GPA aggregate.
type ModuleStatus string

const (
	// StatusPlanned means the module is scheduled but not started.
	StatusPlanned ModuleStatus = "planned"
	// StatusInProgress means the student has enrolled in the module.
	StatusInProgress ModuleStatus = "in_progress"
	// StatusCompleted means the module's completion condition held.
	StatusCompleted ModuleStatus = "completed"
)

// IsValid checks if the status is one of the known values.
func (s ModuleStatus) IsValid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Started reports whether the module has left the planned state.
func (s ModuleStatus) Started() bool {
	return s == StatusInProgress || s == StatusCompleted
}

// Module is a course unit: the unit of completion and credit. It owns an
// ordered collection of assessments whose weighted results determine the
// module grade.
type Module struct {
	id          string
	title       string
	credits     shared.Credits
	status      ModuleStatus
	assessments []*Assessment
}

// NewModule creates a planned module. The credit value is immutable after
// creation.
func NewModule(id, title string, credits shared.Credits) (*Module, error) {
	id, err := shared.NormalizeID("module.id", id)
	if err != nil {
		return nil, err
	}
	title, err = shared.NormalizeID("module.title", title)
	if err != nil {
		return nil, err
	}
	if !credits.IsValid() {
		return nil, shared.NewValidationError("module.credits", shared.ErrNonPositive,
			"credit value must be positive")
	}
	return &Module{
		id:      id,
		title:   title,
		credits: credits,
		status:  StatusPlanned,
	}, nil
}

// ID returns the module identifier.
func (m *Module) ID() string { return m.id }

// Title returns the module title.
func (m *Module) Title() string { return m.title }

// Credits returns the module's credit value.
func (m *Module) Credits() shared.Credits { return m.credits }

// Status returns the declared (advisory) status.
func (m *Module) Status() ModuleStatus { return m.status }

// Assessments returns the assessments in registration order. The returned
// slice is a copy; assessments are mutated only through module operations.
func (m *Module) Assessments() []*Assessment {
	out := make([]*Assessment, len(m.assessments))
	copy(out, m.assessments)
	return out
}

// AddAssessment registers an assessment for the module. Assessment ids must
// be unique within the module. Registering a retake for a failed assessment
// is the supported way to handle later attempts.
func (m *Module) AddAssessment(a *Assessment) error {
	for _, existing := range m.assessments {
		if existing.id == a.id {
			return shared.NewDomainError("module", "AddAssessment", shared.ErrAlreadyExists,
				"duplicate assessment id "+a.id)
		}
	}
	m.assessments = append(m.assessments, a)
	return nil
}

// AddRetake registers a retake for a failed assessment. The original attempt
// is marked superseded rather than rewritten, so the history stays intact
// while completion and the module grade follow the retake.
func (m *Module) AddRetake(originalID string, retake *Assessment) error {
	original := m.findAssessment(originalID)
	if original == nil {
		return shared.NewDomainError("module", "AddRetake", shared.ErrNotFound,
			"no assessment with id "+originalID)
	}
	if original.superseded {
		return shared.NewDomainError("module", "AddRetake", shared.ErrInvalidState,
			"assessment already superseded by a retake")
	}
	if err := m.AddAssessment(retake); err != nil {
		return err
	}
	original.superseded = true
	return nil
}

// Enroll transitions the module from planned to in-progress.
func (m *Module) Enroll() error {
	if m.status != StatusPlanned {
		return shared.NewDomainError("module", "Enroll", shared.ErrStateTransition,
			"can only enroll a planned module")
	}
	m.status = StatusInProgress
	return nil
}

// RecordResult records a grade for one of the module's assessments and, when
// the completion condition now holds, advances the declared status to
// completed. Status never reverts automatically.
func (m *Module) RecordResult(assessmentID string, grade shared.Grade, takenAt time.Time, scale shared.Scale) error {
	a := m.findAssessment(assessmentID)
	if a == nil {
		return shared.NewDomainError("module", "RecordResult", shared.ErrNotFound,
			"no assessment with id "+assessmentID)
	}
	if err := a.RecordResult(grade, takenAt, scale); err != nil {
		return err
	}
	if m.Completed(scale) {
		m.status = StatusCompleted
	}
	return nil
}

// Completed derives whether the module is completed: every required
// assessment has a recorded grade meeting its pass threshold. A module with
// zero assessments is never completed, regardless of its declared status.
func (m *Module) Completed(scale shared.Scale) bool {
	required := 0
	for _, a := range m.assessments {
		if !a.Required() {
			continue
		}
		required++
		if !a.Passed(scale) {
			return false
		}
	}
	return required > 0
}

// Grade derives the module grade: the weighted mean of required assessment
// grades. Weights are normalized by the sum of the weights actually counted,
// so a weight set that does not sum to exactly 1 still yields a proper mean.
// The grade is undefined (ok = false) until every required assessment has a
// recorded result.
func (m *Module) Grade() (shared.Grade, bool) {
	var weightedSum, weightSum float64
	for _, a := range m.assessments {
		if !a.Required() {
			continue
		}
		g, ok := a.Grade()
		if !ok {
			return 0, false
		}
		w := a.weight.Float64()
		weightedSum += g.Float64() * w
		weightSum += w
	}
	if weightSum == 0 {
		return 0, false
	}
	return shared.Grade(weightedSum / weightSum), true
}

// Attempted reports whether the module counts toward attempted credits:
// either the student is enrolled, or the completion condition holds.
func (m *Module) Attempted(scale shared.Scale) bool {
	return m.status == StatusInProgress || m.Completed(scale)
}

// findAssessment returns the assessment with the given id, or nil.
func (m *Module) findAssessment(id string) *Assessment {
	for _, a := range m.assessments {
		if a.id == id {
			return a
		}
	}
	return nil
}
