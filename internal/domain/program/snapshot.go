package program

import (
	"time"

	"github.com/studyhub/study-progress-hub/internal/domain/shared"
)

// Snapshot records mirror the aggregate field for field. They are the
// serialization contract the persistence collaborators depend on: grades and
// credit values round-trip as float64 with no loss of precision, and
// rebuilding a program from its snapshot yields identical derived metrics.

// ProgramSnapshot is the root record.
type ProgramSnapshot struct {
	Name       string             `json:"name"`
	CreditGoal float64            `json:"credit_goal"`
	TargetGPA  float64            `json:"target_gpa"`
	Scale      ScaleSnapshot      `json:"scale"`
	Semesters  []SemesterSnapshot `json:"semesters"`
}

// ScaleSnapshot records the grading scale bounds and direction.
type ScaleSnapshot struct {
	Best      float64 `json:"best"`
	Worst     float64 `json:"worst"`
	Direction string  `json:"direction"`
}

// SemesterSnapshot records one semester.
type SemesterSnapshot struct {
	Term    int              `json:"term"`
	Modules []ModuleSnapshot `json:"modules"`
}

// ModuleSnapshot records one module.
type ModuleSnapshot struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Credits     float64              `json:"credits"`
	Status      string               `json:"status"`
	Assessments []AssessmentSnapshot `json:"assessments"`
}

// AssessmentSnapshot records one assessment. Grade is nil when no result
// has been recorded yet.
type AssessmentSnapshot struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Weight        float64    `json:"weight"`
	PassThreshold float64    `json:"pass_threshold"`
	Grade         *float64   `json:"grade,omitempty"`
	TakenAt       *time.Time `json:"taken_at,omitempty"`
	Finalized     bool       `json:"finalized,omitempty"`
	Superseded    bool       `json:"superseded,omitempty"`
}

// Snapshot dumps the aggregate into its record form.
func (p *Program) Snapshot() ProgramSnapshot {
	snap := ProgramSnapshot{
		Name:       p.name,
		CreditGoal: p.creditGoal.Float64(),
		TargetGPA:  p.targetGPA.Float64(),
		Scale: ScaleSnapshot{
			Best:      p.scale.Best.Float64(),
			Worst:     p.scale.Worst.Float64(),
			Direction: string(p.scale.Direction),
		},
	}
	for _, s := range p.semesters {
		ss := SemesterSnapshot{Term: s.term.Int()}
		for _, m := range s.modules {
			ms := ModuleSnapshot{
				ID:      m.id,
				Title:   m.title,
				Credits: m.credits.Float64(),
				Status:  string(m.status),
			}
			for _, a := range m.assessments {
				as := AssessmentSnapshot{
					ID:            a.id,
					Title:         a.title,
					Weight:        a.weight.Float64(),
					PassThreshold: a.passThreshold.Float64(),
					Finalized:     a.finalized,
					Superseded:    a.superseded,
				}
				if a.grade != nil {
					g := a.grade.Float64()
					as.Grade = &g
					t := a.takenAt
					as.TakenAt = &t
				}
				ms.Assessments = append(ms.Assessments, as)
			}
			ss.Modules = append(ss.Modules, ms)
		}
		snap.Semesters = append(snap.Semesters, ss)
	}
	return snap
}

// FromSnapshot rebuilds a program aggregate from its record form, running
// every value through the validating constructors. Malformed input fails
// with a ValidationError naming the offending field.
func FromSnapshot(snap ProgramSnapshot) (*Program, error) {
	scale, err := shared.NewScale(
		shared.Grade(snap.Scale.Best),
		shared.Grade(snap.Scale.Worst),
		shared.Direction(snap.Scale.Direction),
	)
	if err != nil {
		return nil, err
	}
	goal, err := shared.NewCredits(snap.CreditGoal)
	if err != nil {
		return nil, err
	}
	p, err := NewProgram(snap.Name, goal, shared.Grade(snap.TargetGPA), scale)
	if err != nil {
		return nil, err
	}

	for _, ss := range snap.Semesters {
		term, err := shared.NewTermNumber(ss.Term)
		if err != nil {
			return nil, err
		}
		sem, err := NewSemester(term)
		if err != nil {
			return nil, err
		}
		// Modules are added first and declared statuses applied afterwards,
		// so the frozen-set rule does not trip over restore order.
		restored := make([]*Module, 0, len(ss.Modules))
		for _, ms := range ss.Modules {
			mod, err := moduleFromSnapshot(ms, scale)
			if err != nil {
				return nil, err
			}
			if err := sem.AddModule(mod); err != nil {
				return nil, err
			}
			restored = append(restored, mod)
		}
		for i, ms := range ss.Modules {
			status := ModuleStatus(ms.Status)
			if !status.IsValid() {
				return nil, shared.NewValidationError("module.status", shared.ErrValueOutOfRange,
					"unknown module status "+ms.Status)
			}
			// The declared status is advisory and must survive the round
			// trip as recorded, never silently corrected.
			restored[i].status = status
		}
		if err := p.AddSemester(sem); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// moduleFromSnapshot rebuilds a module, replaying recorded results so the
// derived state comes out of the same code path as live mutation.
func moduleFromSnapshot(ms ModuleSnapshot, scale shared.Scale) (*Module, error) {
	credits, err := shared.NewCredits(ms.Credits)
	if err != nil {
		return nil, err
	}
	mod, err := NewModule(ms.ID, ms.Title, credits)
	if err != nil {
		return nil, err
	}
	for _, as := range ms.Assessments {
		weight, err := shared.NewWeight(as.Weight)
		if err != nil {
			return nil, err
		}
		a, err := NewAssessment(as.ID, as.Title, weight, shared.Grade(as.PassThreshold), scale)
		if err != nil {
			return nil, err
		}
		if as.Grade != nil {
			var takenAt time.Time
			if as.TakenAt != nil {
				takenAt = *as.TakenAt
			}
			if err := a.RecordResult(shared.Grade(*as.Grade), takenAt, scale); err != nil {
				return nil, err
			}
		}
		if as.Finalized {
			if err := a.Finalize(); err != nil {
				return nil, err
			}
		}
		a.superseded = as.Superseded
		if err := mod.AddAssessment(a); err != nil {
			return nil, err
		}
	}
	return mod, nil
}
