package program

import (
	"github.com/studyhub/study-progress-hub/internal/domain/shared"
)

// Metrics is the full set of derived figures for one program snapshot,
// computed in a single bottom-up pass. Everything in it is derived; nothing
// is cached back onto the tree.
type Metrics struct {
	// CreditsEarned is the sum over completed modules.
	CreditsEarned shared.Credits

	// CreditsAttempted is the sum over in-progress and completed modules.
	CreditsAttempted shared.Credits

	// CreditGoal is the fixed program goal the ratio is measured against.
	CreditGoal shared.Credits

	// ProgressRatio is earned / goal, unclamped.
	ProgressRatio float64

	// ProgressRatioClamped is the ratio clamped to [0, 1] for display.
	ProgressRatioClamped float64

	// GPA is the overall credit-weighted mean grade. Undefined (GPAKnown
	// false) with zero completed modules, never reported as zero.
	GPA      shared.Grade
	GPAKnown bool

	// Semesters holds per-semester summaries in term order.
	Semesters []SemesterMetrics

	// CurrentModuleIDs references the in-progress modules.
	CurrentModuleIDs []string
}

// SemesterMetrics summarizes one semester.
type SemesterMetrics struct {
	Term             shared.TermNumber
	Status           SemesterStatus
	CreditsEarned    shared.Credits
	CreditsAttempted shared.Credits
	GPA              shared.Grade
	GPAKnown         bool
}

// ComputeMetrics derives all metrics for the program. The computation is a
// pure function over the snapshot: same tree in, same metrics out.
func (p *Program) ComputeMetrics() Metrics {
	m := Metrics{
		CreditsEarned:    p.CreditsEarned(),
		CreditsAttempted: p.CreditsAttempted(),
		CreditGoal:       p.creditGoal,
	}
	m.ProgressRatio = m.CreditsEarned.Float64() / m.CreditGoal.Float64()
	m.ProgressRatioClamped = m.ProgressRatio
	if m.ProgressRatioClamped > 1 {
		m.ProgressRatioClamped = 1
	}
	m.GPA, m.GPAKnown = p.GPA()

	for _, s := range p.semesters {
		sm := SemesterMetrics{
			Term:             s.term,
			Status:           s.Status(p.scale),
			CreditsEarned:    s.CreditsEarned(p.scale),
			CreditsAttempted: s.CreditsAttempted(p.scale),
		}
		sm.GPA, sm.GPAKnown = s.GPA(p.scale)
		m.Semesters = append(m.Semesters, sm)
	}
	for _, mod := range p.CurrentModules() {
		m.CurrentModuleIDs = append(m.CurrentModuleIDs, mod.id)
	}
	return m
}
