// Package program contains the academic-progress domain model: a student's
// study program as a hierarchy of semesters, modules, and assessments, plus
// the on-demand aggregation of credits, GPA, progress, and alerts.
//
// The package is the core of the tracker and has no infrastructure
// dependencies. All metrics are derived bottom-up from assessment results;
// nothing is cached on children and nothing mutates during derivation.
package program

import (
	"time"

	"github.com/studyhub/study-progress-hub/internal/domain/shared"
)

// Program is the aggregate root: an ordered collection of semesters plus the
// study goals the student is tracked against. All mutation goes through
// named operations on the root so invariants cannot be violated by partial
// updates.
type Program struct {
	name       string
	creditGoal shared.Credits
	targetGPA  shared.Grade
	scale      shared.Scale
	semesters  []*Semester
}

// NewProgram creates a program with the given credit goal and target GPA.
// The credit goal is fixed per program instance.
func NewProgram(name string, creditGoal shared.Credits, targetGPA shared.Grade, scale shared.Scale) (*Program, error) {
	name, err := shared.NormalizeID("program.name", name)
	if err != nil {
		return nil, err
	}
	if !creditGoal.IsValid() {
		return nil, shared.NewValidationError("program.creditGoal", shared.ErrNonPositive,
			"credit goal must be positive")
	}
	if !scale.Contains(targetGPA) {
		return nil, shared.NewValidationError("program.targetGPA", shared.ErrValueOutOfRange,
			"target GPA outside grading scale")
	}
	return &Program{
		name:       name,
		creditGoal: creditGoal,
		targetGPA:  targetGPA,
		scale:      scale,
	}, nil
}

// Name returns the program name.
func (p *Program) Name() string { return p.name }

// CreditGoal returns the total credit goal.
func (p *Program) CreditGoal() shared.Credits { return p.creditGoal }

// TargetGPA returns the target GPA.
func (p *Program) TargetGPA() shared.Grade { return p.targetGPA }

// Scale returns the grading scale the program is graded on.
func (p *Program) Scale() shared.Scale { return p.scale }

// Semesters returns the semesters in term order. The returned slice is a
// copy; semesters are mutated only through aggregate operations.
func (p *Program) Semesters() []*Semester {
	out := make([]*Semester, len(p.semesters))
	copy(out, p.semesters)
	return out
}

// AddSemester adds a semester, keeping the list sorted by term so ordinal
// scans (current term, pace) stay correct whatever order callers add in.
// Term numbers must be unique and module identifiers must be unique across
// the whole program.
func (p *Program) AddSemester(s *Semester) error {
	for _, existing := range p.semesters {
		if existing.term == s.term {
			return shared.NewDomainError("program", "AddSemester", shared.ErrAlreadyExists,
				"duplicate term number")
		}
	}
	for _, m := range s.modules {
		if p.findModule(m.id) != nil {
			return shared.NewDomainError("program", "AddSemester", shared.ErrAlreadyExists,
				"module id "+m.id+" already exists in another semester")
		}
	}
	at := len(p.semesters)
	for i, existing := range p.semesters {
		if s.term < existing.term {
			at = i
			break
		}
	}
	p.semesters = append(p.semesters, nil)
	copy(p.semesters[at+1:], p.semesters[at:])
	p.semesters[at] = s
	return nil
}

// PlanModule adds a module to the semester with the given term, enforcing
// program-wide module id uniqueness.
func (p *Program) PlanModule(term shared.TermNumber, m *Module) error {
	s := p.findSemester(term)
	if s == nil {
		return shared.NewDomainError("program", "PlanModule", shared.ErrNotFound,
			"no semester for "+term.String())
	}
	if p.findModule(m.id) != nil {
		return shared.NewDomainError("program", "PlanModule", shared.ErrAlreadyExists,
			"module id "+m.id+" already exists in the program")
	}
	return s.AddModule(m)
}

// EnrollModule transitions a planned module to in-progress.
func (p *Program) EnrollModule(moduleID string) error {
	m := p.findModule(moduleID)
	if m == nil {
		return shared.NewDomainError("program", "EnrollModule", shared.ErrNotFound,
			"no module with id "+moduleID)
	}
	return m.Enroll()
}

// RecordResult records an assessment result on the module owning the
// assessment.
func (p *Program) RecordResult(moduleID, assessmentID string, grade shared.Grade, takenAt time.Time) error {
	m := p.findModule(moduleID)
	if m == nil {
		return shared.NewDomainError("program", "RecordResult", shared.ErrNotFound,
			"no module with id "+moduleID)
	}
	return m.RecordResult(assessmentID, grade, takenAt, p.scale)
}

// AddRetake registers a retake assessment for a failed attempt on the
// module owning it.
func (p *Program) AddRetake(moduleID, originalID string, retake *Assessment) error {
	m := p.findModule(moduleID)
	if m == nil {
		return shared.NewDomainError("program", "AddRetake", shared.ErrNotFound,
			"no module with id "+moduleID)
	}
	return m.AddRetake(originalID, retake)
}

// FinalizeAssessment locks an assessment result against rewrites.
func (p *Program) FinalizeAssessment(moduleID, assessmentID string) error {
	m := p.findModule(moduleID)
	if m == nil {
		return shared.NewDomainError("program", "FinalizeAssessment", shared.ErrNotFound,
			"no module with id "+moduleID)
	}
	a := m.findAssessment(assessmentID)
	if a == nil {
		return shared.NewDomainError("program", "FinalizeAssessment", shared.ErrNotFound,
			"no assessment with id "+assessmentID)
	}
	return a.Finalize()
}

// CreditsEarned derives the total credits earned across all semesters.
func (p *Program) CreditsEarned() shared.Credits {
	var total shared.Credits
	for _, s := range p.semesters {
		total = total.Add(s.CreditsEarned(p.scale))
	}
	return total
}

// CreditsAttempted derives the total credits attempted across all semesters.
func (p *Program) CreditsAttempted() shared.Credits {
	var total shared.Credits
	for _, s := range p.semesters {
		total = total.Add(s.CreditsAttempted(p.scale))
	}
	return total
}

// ProgressRatio derives earned credits divided by the credit goal. The raw
// ratio is returned: exceeding the goal yields a ratio above 1, which is a
// real scenario to surface, not hide.
func (p *Program) ProgressRatio() float64 {
	return p.CreditsEarned().Float64() / p.creditGoal.Float64()
}

// ProgressRatioClamped returns the progress ratio clamped to [0, 1] for
// display.
func (p *Program) ProgressRatioClamped() float64 {
	r := p.ProgressRatio()
	if r > 1 {
		return 1
	}
	if r < 0 {
		return 0
	}
	return r
}

// GPA derives the credit-weighted mean grade over all completed modules in
// the program. With zero completed modules the GPA is undefined (ok = false),
// never zero.
func (p *Program) GPA() (shared.Grade, bool) {
	var all []*Module
	for _, s := range p.semesters {
		all = append(all, s.modules...)
	}
	return creditWeightedGPA(all, p.scale)
}

// CurrentModules derives the union of in-progress modules across all
// semesters, in term then planning order.
func (p *Program) CurrentModules() []*Module {
	var out []*Module
	for _, s := range p.semesters {
		for _, m := range s.modules {
			if m.status == StatusInProgress && !m.Completed(p.scale) {
				out = append(out, m)
			}
		}
	}
	return out
}

// CurrentTerm derives the term number of the first semester that is not yet
// completed. Returns ok = false when every semester is completed or the
// program has no semesters.
func (p *Program) CurrentTerm() (shared.TermNumber, bool) {
	for _, s := range p.semesters {
		if s.Status(p.scale) != SemesterCompleted {
			return s.term, true
		}
	}
	return 0, false
}

// findSemester returns the semester with the given term, or nil.
func (p *Program) findSemester(term shared.TermNumber) *Semester {
	for _, s := range p.semesters {
		if s.term == term {
			return s
		}
	}
	return nil
}

// findModule returns the module with the given id from any semester, or nil.
func (p *Program) findModule(id string) *Module {
	for _, s := range p.semesters {
		if m := s.findModule(id); m != nil {
			return m
		}
	}
	return nil
}
