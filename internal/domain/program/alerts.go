package program

import (
	"fmt"
	"time"

	"github.com/studyhub/study-progress-hub/internal/domain/shared"
	"github.com/studyhub/study-progress-hub/pkg/timeutil"
)

// AlertKind identifies the condition that raised an alert.
type AlertKind string

const (
	// AlertGradeBelowTarget fires when a completed module's grade is worse
	// than the program's target GPA.
	AlertGradeBelowTarget AlertKind = "grade_below_target"
	// AlertPaceBehindGoal fires when earned credits fall behind the expected
	// pace for the current term. This is a heuristic warning, not a hard rule.
	AlertPaceBehindGoal AlertKind = "pace_behind_goal"
	// AlertMissingAssessment fires when an in-progress module has passed its
	// term end but still lacks a required assessment grade.
	AlertMissingAssessment AlertKind = "missing_assessment"
)

// AlertSeverity grades how seriously a consumer should take an alert.
type AlertSeverity string

const (
	// SeverityAdvisory marks heuristic alerts the consumer may tune or ignore.
	SeverityAdvisory AlertSeverity = "advisory"
	// SeverityWarning marks alerts derived from hard data.
	SeverityWarning AlertSeverity = "warning"
)

// Alert is a derived warning record. Evaluation is pure: the engine never
// mutates state in response to an alert.
type Alert struct {
	Kind     AlertKind
	Severity AlertSeverity

	// ModuleID references the affected module (empty for program-level alerts).
	ModuleID string

	// Term references the affected semester (0 for program-level alerts).
	Term shared.TermNumber

	// Message is a human-readable description of the condition.
	Message string
}

// PacePolicy computes the credits a student is expected to have earned by
// the given term. The policy is adjustable; LinearPace is one reasonable
// default, not a contract.
type PacePolicy interface {
	ExpectedCredits(goal shared.Credits, totalSemesters int, currentTerm shared.TermNumber) float64
}

// LinearPace expects credits to accrue evenly: goal divided by the total
// semester count, times the current term ordinal.
type LinearPace struct{}

// ExpectedCredits implements PacePolicy.
func (LinearPace) ExpectedCredits(goal shared.Credits, totalSemesters int, currentTerm shared.TermNumber) float64 {
	if totalSemesters == 0 {
		return 0
	}
	return goal.Float64() / float64(totalSemesters) * float64(currentTerm.Int())
}

// TermCalendar supplies term-end dates. Term calendars are owned by an
// external collaborator; the core takes them as plain input and holds no
// wall clock of its own.
type TermCalendar map[shared.TermNumber]time.Time

// TermEnd returns the end date for a term, if the calendar knows it.
func (c TermCalendar) TermEnd(term shared.TermNumber) (time.Time, bool) {
	end, ok := c[term]
	return end, ok
}

// AlertInput carries the external inputs alert evaluation needs.
type AlertInput struct {
	// Calendar supplies term-end dates for missing-assessment detection.
	// A nil calendar disables that alert kind.
	Calendar TermCalendar

	// Now is the reference time missing-assessment detection compares
	// term ends against.
	Now time.Time

	// Pace is the pace policy; nil falls back to LinearPace.
	Pace PacePolicy
}

// Alerts evaluates every alert condition independently over the current
// snapshot and returns the alerts that fire. Multiple kinds may fire at
// once. The same tree and inputs always produce the same alerts.
func (p *Program) Alerts(in AlertInput) []Alert {
	var alerts []Alert
	alerts = append(alerts, p.gradeBelowTargetAlerts()...)
	alerts = append(alerts, p.paceBehindGoalAlerts(in.Pace)...)
	alerts = append(alerts, p.missingAssessmentAlerts(in.Calendar, in.Now)...)
	return alerts
}

// gradeBelowTargetAlerts flags completed modules whose grade is worse than
// the target GPA in the scale's worse direction.
func (p *Program) gradeBelowTargetAlerts() []Alert {
	var alerts []Alert
	for _, s := range p.semesters {
		for _, m := range s.modules {
			if !m.Completed(p.scale) {
				continue
			}
			g, ok := m.Grade()
			if !ok {
				continue
			}
			if p.scale.WorseThan(g, p.targetGPA) {
				alerts = append(alerts, Alert{
					Kind:     AlertGradeBelowTarget,
					Severity: SeverityWarning,
					ModuleID: m.id,
					Term:     s.term,
					Message: fmt.Sprintf("%s graded %s, worse than target %s",
						m.title, g, p.targetGPA),
				})
			}
		}
	}
	return alerts
}

// paceBehindGoalAlerts compares earned credits against the expected pace at
// the current term. Advisory only: pace policies are heuristics.
func (p *Program) paceBehindGoalAlerts(pace PacePolicy) []Alert {
	currentTerm, ok := p.CurrentTerm()
	if !ok {
		return nil
	}
	if pace == nil {
		pace = LinearPace{}
	}
	expected := pace.ExpectedCredits(p.creditGoal, len(p.semesters), currentTerm)
	earned := p.CreditsEarned().Float64()
	if earned >= expected {
		return nil
	}
	return []Alert{{
		Kind:     AlertPaceBehindGoal,
		Severity: SeverityAdvisory,
		Term:     currentTerm,
		Message: fmt.Sprintf("earned %.1f credits, expected %.1f by %s",
			earned, expected, currentTerm),
	}}
}

// missingAssessmentAlerts flags in-progress modules whose term has ended
// while a required assessment grade is still missing.
func (p *Program) missingAssessmentAlerts(calendar TermCalendar, now time.Time) []Alert {
	if calendar == nil || now.IsZero() {
		return nil
	}
	var alerts []Alert
	for _, s := range p.semesters {
		end, ok := calendar.TermEnd(s.term)
		if !ok || !timeutil.Overdue(end, now) {
			continue
		}
		for _, m := range s.modules {
			if m.status != StatusInProgress || m.Completed(p.scale) {
				continue
			}
			for _, a := range m.assessments {
				if !a.Required() || a.Graded() {
					continue
				}
				alerts = append(alerts, Alert{
					Kind:     AlertMissingAssessment,
					Severity: SeverityWarning,
					ModuleID: m.id,
					Term:     s.term,
					Message: fmt.Sprintf("%s: no grade recorded for %q, term ended %d days ago",
						m.title, a.title, timeutil.DaysBetween(end, now)),
				})
			}
		}
	}
	return alerts
}
