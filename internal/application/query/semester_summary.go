package query

import (
	"context"
	"fmt"

	"github.com/studyhub/study-progress-hub/internal/domain/program"
	"github.com/studyhub/study-progress-hub/internal/domain/shared"
)

// SemesterSummaryQuery asks for the summary of a single term.
type SemesterSummaryQuery struct {
	ProgramName string
	Term        int
}

// SemesterSummary is the result: the semester report plus its module rows.
type SemesterSummary struct {
	SemesterReport
	Modules []ModuleRow `json:"modules"`
}

// ModuleRow is one module in a semester summary.
type ModuleRow struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Credits   float64  `json:"credits"`
	Status    string   `json:"status"`
	Completed bool     `json:"completed"`
	Grade     *float64 `json:"grade,omitempty"`
}

// SemesterSummaryHandler handles SemesterSummaryQuery.
type SemesterSummaryHandler struct {
	repo program.Repository
}

// NewSemesterSummaryHandler creates the handler.
func NewSemesterSummaryHandler(repo program.Repository) *SemesterSummaryHandler {
	return &SemesterSummaryHandler{repo: repo}
}

// Handle loads the program and summarizes the requested term.
func (h *SemesterSummaryHandler) Handle(ctx context.Context, q SemesterSummaryQuery) (*SemesterSummary, error) {
	term, err := shared.NewTermNumber(q.Term)
	if err != nil {
		return nil, err
	}
	p, err := h.repo.Load(ctx, q.ProgramName)
	if err != nil {
		return nil, fmt.Errorf("semester_summary: load program: %w", err)
	}

	scale := p.Scale()
	for _, sem := range p.Semesters() {
		if sem.Term() != term {
			continue
		}
		summary := &SemesterSummary{
			SemesterReport: SemesterReport{
				Term:             sem.Term().Int(),
				Status:           string(sem.Status(scale)),
				CreditsEarned:    sem.CreditsEarned(scale).Float64(),
				CreditsAttempted: sem.CreditsAttempted(scale).Float64(),
			},
		}
		if gpa, ok := sem.GPA(scale); ok {
			v := gpa.Float64()
			summary.GPA = &v
		}
		for _, m := range sem.Modules() {
			row := ModuleRow{
				ID:        m.ID(),
				Title:     m.Title(),
				Credits:   m.Credits().Float64(),
				Status:    string(m.Status()),
				Completed: m.Completed(scale),
			}
			if g, ok := m.Grade(); ok {
				v := g.Float64()
				row.Grade = &v
			}
			summary.Modules = append(summary.Modules, row)
		}
		return summary, nil
	}
	return nil, shared.NewDomainError("query", "SemesterSummary", shared.ErrNotFound,
		"no semester for "+term.String())
}
