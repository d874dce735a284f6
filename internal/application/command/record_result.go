// Package command contains write operations (CQRS - Commands). Commands load
// the program aggregate through the repository port, apply a named domain
// operation, and persist the result. Invariant violations surface as domain
// errors and are never silently corrected.
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/studyhub/study-progress-hub/internal/domain/program"
	"github.com/studyhub/study-progress-hub/internal/domain/shared"
	"github.com/studyhub/study-progress-hub/pkg/logger"
)

// ReportInvalidator drops cached reports for a program after a mutation so
// reads never serve pre-mutation state for the cache TTL. Implemented by the
// redis infrastructure package; nil means no cache is in play.
type ReportInvalidator interface {
	Invalidate(ctx context.Context, programName string)
}

// RecordResultCommand records a grade for one assessment.
type RecordResultCommand struct {
	ProgramName  string
	ModuleID     string
	AssessmentID string
	Grade        float64

	// TakenAt is when the result was taken (defaults to time of handling
	// only if left zero by the caller-facing layer; the core itself never
	// reads the wall clock).
	TakenAt time.Time

	// Finalize locks the result against rewrites in the same pass.
	Finalize bool
}

// Validate checks the command shape before touching the aggregate.
func (c RecordResultCommand) Validate() error {
	if c.ProgramName == "" {
		return errors.New("record_result: program name is required")
	}
	if c.ModuleID == "" {
		return errors.New("record_result: module id is required")
	}
	if c.AssessmentID == "" {
		return errors.New("record_result: assessment id is required")
	}
	return nil
}

// RecordResultHandler handles RecordResultCommand.
type RecordResultHandler struct {
	repo  program.Repository
	cache ReportInvalidator
	log   *logger.Logger
}

// NewRecordResultHandler creates the handler. cache may be nil.
func NewRecordResultHandler(repo program.Repository, cache ReportInvalidator, log *logger.Logger) *RecordResultHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &RecordResultHandler{repo: repo, cache: cache, log: log}
}

// Handle applies the result to the owning module and saves the program.
func (h *RecordResultHandler) Handle(ctx context.Context, cmd RecordResultCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	p, err := h.repo.Load(ctx, cmd.ProgramName)
	if err != nil {
		return fmt.Errorf("record_result: load program: %w", err)
	}
	if err := p.RecordResult(cmd.ModuleID, cmd.AssessmentID, shared.Grade(cmd.Grade), cmd.TakenAt); err != nil {
		return err
	}
	if cmd.Finalize {
		if err := p.FinalizeAssessment(cmd.ModuleID, cmd.AssessmentID); err != nil {
			return err
		}
	}
	if err := h.repo.Save(ctx, p); err != nil {
		return fmt.Errorf("record_result: save program: %w", err)
	}
	if h.cache != nil {
		h.cache.Invalidate(ctx, cmd.ProgramName)
	}
	h.log.Info(ctx, "assessment result recorded",
		logger.F("program", cmd.ProgramName),
		logger.F("module", cmd.ModuleID),
		logger.F("assessment", cmd.AssessmentID))
	return nil
}
