package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/studyhub/study-progress-hub/internal/domain/program"
	"github.com/studyhub/study-progress-hub/internal/domain/shared"
)

// PlanSemesterCommand appends an empty semester to the program.
type PlanSemesterCommand struct {
	ProgramName string
	Term        int
}

// PlanModuleCommand adds a planned module, with its assessments, to a
// semester. Empty module and assessment ids get generated UUIDs.
type PlanModuleCommand struct {
	ProgramName string
	Term        int
	ModuleID    string
	Title       string
	Credits     float64
	Assessments []PlanAssessment
}

// PlanAssessment describes one assessment to register with a planned module.
type PlanAssessment struct {
	ID            string
	Title         string
	Weight        float64
	PassThreshold float64
}

// EnrollModuleCommand transitions a planned module to in-progress.
type EnrollModuleCommand struct {
	ProgramName string
	ModuleID    string
}

// PlanHandler handles the planning commands. They share a handler because
// they share the load-mutate-save shape and no other state.
type PlanHandler struct {
	repo  program.Repository
	cache ReportInvalidator
}

// NewPlanHandler creates the handler. cache may be nil.
func NewPlanHandler(repo program.Repository, cache ReportInvalidator) *PlanHandler {
	return &PlanHandler{repo: repo, cache: cache}
}

// invalidate drops cached reports after a successful save.
func (h *PlanHandler) invalidate(ctx context.Context, programName string) {
	if h.cache != nil {
		h.cache.Invalidate(ctx, programName)
	}
}

// PlanSemester appends a new semester.
func (h *PlanHandler) PlanSemester(ctx context.Context, cmd PlanSemesterCommand) error {
	if cmd.ProgramName == "" {
		return errors.New("plan_semester: program name is required")
	}
	term, err := shared.NewTermNumber(cmd.Term)
	if err != nil {
		return err
	}
	p, err := h.repo.Load(ctx, cmd.ProgramName)
	if err != nil {
		return fmt.Errorf("plan_semester: load program: %w", err)
	}
	sem, err := program.NewSemester(term)
	if err != nil {
		return err
	}
	if err := p.AddSemester(sem); err != nil {
		return err
	}
	if err := h.repo.Save(ctx, p); err != nil {
		return fmt.Errorf("plan_semester: save program: %w", err)
	}
	h.invalidate(ctx, cmd.ProgramName)
	return nil
}

// PlanModule adds a planned module with its assessments.
func (h *PlanHandler) PlanModule(ctx context.Context, cmd PlanModuleCommand) error {
	if cmd.ProgramName == "" {
		return errors.New("plan_module: program name is required")
	}
	term, err := shared.NewTermNumber(cmd.Term)
	if err != nil {
		return err
	}
	p, err := h.repo.Load(ctx, cmd.ProgramName)
	if err != nil {
		return fmt.Errorf("plan_module: load program: %w", err)
	}

	credits, err := shared.NewCredits(cmd.Credits)
	if err != nil {
		return err
	}
	moduleID := cmd.ModuleID
	if moduleID == "" {
		moduleID = uuid.NewString()
	}
	m, err := program.NewModule(moduleID, cmd.Title, credits)
	if err != nil {
		return err
	}
	scale := p.Scale()
	for _, pa := range cmd.Assessments {
		weight, err := shared.NewWeight(pa.Weight)
		if err != nil {
			return err
		}
		var a *program.Assessment
		if pa.ID == "" {
			a, err = program.NewAssessmentWithGeneratedID(pa.Title, weight, shared.Grade(pa.PassThreshold), scale)
		} else {
			a, err = program.NewAssessment(pa.ID, pa.Title, weight, shared.Grade(pa.PassThreshold), scale)
		}
		if err != nil {
			return err
		}
		if err := m.AddAssessment(a); err != nil {
			return err
		}
	}

	if err := p.PlanModule(term, m); err != nil {
		return err
	}
	if err := h.repo.Save(ctx, p); err != nil {
		return fmt.Errorf("plan_module: save program: %w", err)
	}
	h.invalidate(ctx, cmd.ProgramName)
	return nil
}

// EnrollModule marks a planned module as in-progress.
func (h *PlanHandler) EnrollModule(ctx context.Context, cmd EnrollModuleCommand) error {
	if cmd.ProgramName == "" {
		return errors.New("enroll_module: program name is required")
	}
	if cmd.ModuleID == "" {
		return errors.New("enroll_module: module id is required")
	}
	p, err := h.repo.Load(ctx, cmd.ProgramName)
	if err != nil {
		return fmt.Errorf("enroll_module: load program: %w", err)
	}
	if err := p.EnrollModule(cmd.ModuleID); err != nil {
		return err
	}
	if err := h.repo.Save(ctx, p); err != nil {
		return fmt.Errorf("enroll_module: save program: %w", err)
	}
	h.invalidate(ctx, cmd.ProgramName)
	return nil
}
