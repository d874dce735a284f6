// Package query contains read operations (CQRS - Queries). Queries load the
// program snapshot through the repository port, run the domain's on-demand
// aggregation, and map the result into transport-friendly DTOs.
package query

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/studyhub/study-progress-hub/internal/domain/program"
	"github.com/studyhub/study-progress-hub/internal/domain/shared"
	"github.com/studyhub/study-progress-hub/pkg/logger"
)

// ReportCache is an optional read-through cache for progress reports.
// Implemented by the redis infrastructure package. Keys come from
// ProgressReportQuery.cacheKey, so queries with different alert inputs
// never share an entry.
type ReportCache interface {
	Get(ctx context.Context, key string) (*ProgressReport, bool)
	Set(ctx context.Context, key string, report *ProgressReport)
}

// ProgressReportQuery contains the parameters for a full progress report.
type ProgressReportQuery struct {
	// ProgramName identifies the program snapshot to report on.
	ProgramName string

	// Now is the reference time for missing-assessment detection. Zero
	// disables time-based alerts.
	Now time.Time

	// TermEnds maps term ordinals to term-end dates. Supplied by the caller
	// owning the term calendar; nil disables missing-assessment alerts.
	TermEnds map[int]time.Time

	// SkipCache bypasses the report cache for this call.
	SkipCache bool
}

// cacheKey folds the program name and the alert inputs into one key. The
// reference time is truncated to the calendar day, so repeat calls within a
// day share the entry while a changed calendar never does. The key starts
// with "<program>|" to keep per-program invalidation a prefix match.
func (q ProgressReportQuery) cacheKey() string {
	var b strings.Builder
	b.WriteString(q.ProgramName)
	b.WriteByte('|')
	if !q.Now.IsZero() {
		b.WriteString(q.Now.UTC().Format("2006-01-02"))
	}
	terms := make([]int, 0, len(q.TermEnds))
	for term := range q.TermEnds {
		terms = append(terms, term)
	}
	sort.Ints(terms)
	for _, term := range terms {
		fmt.Fprintf(&b, "|%d=%s", term, q.TermEnds[term].UTC().Format("2006-01-02"))
	}
	return b.String()
}

// ProgressReport is the query result: every derived metric the presentation
// collaborators consume, JSON-tagged for direct rendering or caching.
type ProgressReport struct {
	ProgramName string `json:"program_name"`

	CreditsEarned    float64 `json:"credits_earned"`
	CreditsAttempted float64 `json:"credits_attempted"`
	CreditGoal       float64 `json:"credit_goal"`

	// ProgressRatio is the raw earned/goal ratio; it exceeds 1 when the goal
	// is exceeded. ProgressDisplay is clamped to [0, 1].
	ProgressRatio   float64 `json:"progress_ratio"`
	ProgressDisplay float64 `json:"progress_display"`

	// GPA is nil while no module is completed: undefined, not zero.
	GPA *float64 `json:"gpa,omitempty"`

	Semesters      []SemesterReport `json:"semesters"`
	CurrentModules []ModuleRef      `json:"current_modules"`
	Alerts         []AlertReport    `json:"alerts"`
}

// SemesterReport summarizes one semester.
type SemesterReport struct {
	Term             int      `json:"term"`
	Status           string   `json:"status"`
	CreditsEarned    float64  `json:"credits_earned"`
	CreditsAttempted float64  `json:"credits_attempted"`
	GPA              *float64 `json:"gpa,omitempty"`
}

// ModuleRef references a module in a report.
type ModuleRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// AlertReport is the transport form of a derived alert.
type AlertReport struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	ModuleID string `json:"module_id,omitempty"`
	Term     int    `json:"term,omitempty"`
	Message  string `json:"message"`
}

// ProgressReportHandler handles ProgressReportQuery.
type ProgressReportHandler struct {
	repo  program.Repository
	cache ReportCache
	pace  program.PacePolicy
	log   *logger.Logger
}

// NewProgressReportHandler creates the handler. cache may be nil; pace nil
// falls back to the linear default.
func NewProgressReportHandler(repo program.Repository, cache ReportCache, pace program.PacePolicy, log *logger.Logger) *ProgressReportHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &ProgressReportHandler{repo: repo, cache: cache, pace: pace, log: log}
}

// Handle loads the program and derives the full report.
func (h *ProgressReportHandler) Handle(ctx context.Context, q ProgressReportQuery) (*ProgressReport, error) {
	if q.ProgramName == "" {
		return nil, shared.NewValidationError("programName", shared.ErrEmptyValue,
			"program name is required")
	}

	key := q.cacheKey()
	if h.cache != nil && !q.SkipCache {
		if report, ok := h.cache.Get(ctx, key); ok {
			h.log.Debug(ctx, "progress report served from cache",
				logger.F("program", q.ProgramName))
			return report, nil
		}
	}

	p, err := h.repo.Load(ctx, q.ProgramName)
	if err != nil {
		return nil, fmt.Errorf("progress_report: load program: %w", err)
	}

	report := buildReport(p, q, h.pace)

	if h.cache != nil && !q.SkipCache {
		h.cache.Set(ctx, key, report)
	}
	h.log.Debug(ctx, "progress report computed",
		logger.F("program", q.ProgramName),
		logger.F("progress", report.ProgressRatio),
		logger.F("alerts", len(report.Alerts)))
	return report, nil
}

// buildReport maps domain metrics and alerts into the report DTO.
func buildReport(p *program.Program, q ProgressReportQuery, pace program.PacePolicy) *ProgressReport {
	m := p.ComputeMetrics()

	report := &ProgressReport{
		ProgramName:      p.Name(),
		CreditsEarned:    m.CreditsEarned.Float64(),
		CreditsAttempted: m.CreditsAttempted.Float64(),
		CreditGoal:       m.CreditGoal.Float64(),
		ProgressRatio:    m.ProgressRatio,
		ProgressDisplay:  m.ProgressRatioClamped,
	}
	if m.GPAKnown {
		gpa := m.GPA.Float64()
		report.GPA = &gpa
	}
	for _, sm := range m.Semesters {
		sr := SemesterReport{
			Term:             sm.Term.Int(),
			Status:           string(sm.Status),
			CreditsEarned:    sm.CreditsEarned.Float64(),
			CreditsAttempted: sm.CreditsAttempted.Float64(),
		}
		if sm.GPAKnown {
			gpa := sm.GPA.Float64()
			sr.GPA = &gpa
		}
		report.Semesters = append(report.Semesters, sr)
	}
	for _, mod := range p.CurrentModules() {
		report.CurrentModules = append(report.CurrentModules, ModuleRef{
			ID:    mod.ID(),
			Title: mod.Title(),
		})
	}

	var calendar program.TermCalendar
	if len(q.TermEnds) > 0 {
		calendar = make(program.TermCalendar, len(q.TermEnds))
		for term, end := range q.TermEnds {
			calendar[shared.TermNumber(term)] = end
		}
	}
	for _, a := range p.Alerts(program.AlertInput{Calendar: calendar, Now: q.Now, Pace: pace}) {
		report.Alerts = append(report.Alerts, AlertReport{
			Kind:     string(a.Kind),
			Severity: string(a.Severity),
			ModuleID: a.ModuleID,
			Term:     a.Term.Int(),
			Message:  a.Message,
		})
	}
	return report
}
