package program

import (
	"time"

	"github.com/google/uuid"

	"github.com/studyhub/study-progress-hub/internal/domain/shared"
)

// Assessment is a single graded component of a module: an exam, an
// assignment, a project. It is the leaf of the aggregate; everything above
// it is derived from recorded assessment results.
type Assessment struct {
	id            string
	title         string
	weight        shared.Weight
	passThreshold shared.Grade

	// grade is nil until a result has been recorded.
	grade     *shared.Grade
	takenAt   time.Time
	finalized bool

	// superseded marks a failed attempt replaced by a retake. Superseded
	// assessments stay in the history but no longer count toward completion
	// or the module grade.
	superseded bool
}

// NewAssessment registers an assessment with the given weight and pass
// threshold. The threshold must lie within the program's grading scale.
func NewAssessment(id, title string, weight shared.Weight, passThreshold shared.Grade, scale shared.Scale) (*Assessment, error) {
	id, err := shared.NormalizeID("assessment.id", id)
	if err != nil {
		return nil, err
	}
	title, err = shared.NormalizeID("assessment.title", title)
	if err != nil {
		return nil, err
	}
	if !weight.IsValid() {
		return nil, shared.NewValidationError("assessment.weight", shared.ErrValueOutOfRange,
			"weight must be in (0, 1]")
	}
	if !scale.Contains(passThreshold) {
		return nil, shared.NewValidationError("assessment.passThreshold", shared.ErrValueOutOfRange,
			"pass threshold outside grading scale")
	}
	return &Assessment{
		id:            id,
		title:         title,
		weight:        weight,
		passThreshold: passThreshold,
	}, nil
}

// NewAssessmentWithGeneratedID registers an assessment with a fresh UUID.
func NewAssessmentWithGeneratedID(title string, weight shared.Weight, passThreshold shared.Grade, scale shared.Scale) (*Assessment, error) {
	return NewAssessment(uuid.NewString(), title, weight, passThreshold, scale)
}

// ID returns the assessment identifier.
func (a *Assessment) ID() string { return a.id }

// Title returns the assessment title.
func (a *Assessment) Title() string { return a.title }

// Weight returns the relative contribution within the module.
func (a *Assessment) Weight() shared.Weight { return a.weight }

// PassThreshold returns the grade that must be met to pass.
func (a *Assessment) PassThreshold() shared.Grade { return a.passThreshold }

// Graded reports whether a result has been recorded.
func (a *Assessment) Graded() bool { return a.grade != nil }

// Grade returns the recorded grade, if any.
func (a *Assessment) Grade() (shared.Grade, bool) {
	if a.grade == nil {
		return 0, false
	}
	return *a.grade, true
}

// TakenAt returns when the recorded result was taken (zero if ungraded).
func (a *Assessment) TakenAt() time.Time { return a.takenAt }

// Finalized reports whether the result is locked against rewrites.
func (a *Assessment) Finalized() bool { return a.finalized }

// Superseded reports whether a retake has replaced this attempt.
func (a *Assessment) Superseded() bool { return a.superseded }

// Required reports whether the assessment counts toward completion and the
// module grade. Superseded attempts are kept as history but are no longer
// required.
func (a *Assessment) Required() bool { return !a.superseded }

// Passed reports whether the assessment has a recorded grade meeting its
// pass threshold on the given scale. Ungraded assessments are not passed.
func (a *Assessment) Passed(scale shared.Scale) bool {
	if a.grade == nil {
		return false
	}
	return scale.AtLeast(*a.grade, a.passThreshold)
}

// RecordResult records a grade for the assessment. The grade must lie within
// the grading scale. A finalized assessment rejects any further results;
// history is preserved by registering a retake assessment instead.
func (a *Assessment) RecordResult(grade shared.Grade, takenAt time.Time, scale shared.Scale) error {
	if a.finalized {
		return shared.NewDomainError("assessment", "RecordResult", shared.ErrFinalized,
			"cannot rewrite a finalized result")
	}
	if !scale.Contains(grade) {
		return shared.NewValidationError("assessment.grade", shared.ErrValueOutOfRange,
			"grade outside grading scale")
	}
	g := grade
	a.grade = &g
	a.takenAt = takenAt
	return nil
}

// Finalize locks the recorded result against rewrites. Finalizing an
// ungraded assessment is rejected.
func (a *Assessment) Finalize() error {
	if a.grade == nil {
		return shared.NewDomainError("assessment", "Finalize", shared.ErrInvalidState,
			"cannot finalize without a recorded grade")
	}
	a.finalized = true
	return nil
}
