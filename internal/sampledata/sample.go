// Package sampledata builds a demo study program so the tracker has
// something to show on first run: a six-semester, 180-credit computer
// science bachelor on the German 1.0-5.0 grading scale, roughly halfway
// through the third semester.
package sampledata

import (
	"fmt"
	"time"

	"github.com/studyhub/study-progress-hub/internal/domain/program"
	"github.com/studyhub/study-progress-hub/internal/domain/shared"
	"github.com/studyhub/study-progress-hub/pkg/timeutil"
)

const (
	// ProgramName is the name of the demo program.
	ProgramName = "Informatik Bachelor"

	passThreshold = shared.Grade(4.0)
)

// plannedModule describes one module of the demo plan.
type plannedModule struct {
	id      string
	title   string
	credits float64

	// grade is the recorded exam grade; 0 means not taken yet.
	grade   float64
	takenAt time.Time

	// enrolled marks ungraded modules the student is currently taking.
	enrolled bool
}

// BuildProgram constructs the demo program. It only uses the public
// construction and mutation API, so it doubles as a smoke test of the
// domain's validation path.
func BuildProgram() (*program.Program, error) {
	scale, err := shared.NewScale(1.0, 5.0, shared.LowerIsBetter)
	if err != nil {
		return nil, err
	}
	goal, err := shared.NewCredits(180)
	if err != nil {
		return nil, err
	}
	p, err := program.NewProgram(ProgramName, goal, 2.5, scale)
	if err != nil {
		return nil, err
	}

	plan := map[int][]plannedModule{
		1: {
			{id: "gp", title: "Grundlagen Programmierung", credits: 5, grade: 2.0, takenAt: timeutil.Date(2023, 2, 15)},
			{id: "mathe1", title: "Mathematik I", credits: 5, grade: 2.3, takenAt: timeutil.Date(2023, 2, 20)},
			{id: "theo", title: "Theoretische Informatik", credits: 5, grade: 1.7, takenAt: timeutil.Date(2023, 2, 25)},
			{id: "bs", title: "Betriebssysteme", credits: 5, grade: 2.0, takenAt: timeutil.Date(2023, 3, 1)},
		},
		2: {
			{id: "ds", title: "Datenstrukturen", credits: 5, grade: 2.3, takenAt: timeutil.Date(2023, 7, 15)},
			{id: "mathe2", title: "Mathematik II", credits: 5, grade: 2.7, takenAt: timeutil.Date(2023, 7, 20)},
			{id: "se", title: "Softwareengineering", credits: 5, grade: 1.7, takenAt: timeutil.Date(2023, 7, 25)},
			{id: "rn", title: "Rechnernetze", credits: 5, grade: 2.0, takenAt: timeutil.Date(2023, 8, 1)},
		},
		3: {
			{id: "db", title: "Datenbanken", credits: 5, grade: 2.0, takenAt: timeutil.Date(2024, 2, 15)},
			{id: "web", title: "Web-Entwicklung", credits: 5, grade: 1.7, takenAt: timeutil.Date(2024, 2, 20)},
			{id: "algo", title: "Algorithmen", credits: 5, enrolled: true},
			{id: "pm", title: "Projektmanagement", credits: 5},
		},
		4: {
			{id: "ml", title: "Machine Learning", credits: 5},
			{id: "itsec", title: "IT-Sicherheit", credits: 5},
			{id: "mobile", title: "Mobile Entwicklung", credits: 5},
			{id: "wp1", title: "Wahlpflichtmodul 1", credits: 5},
		},
		5: {
			{id: "vs", title: "Verteilte Systeme", credits: 5},
			{id: "wp2", title: "Wahlpflichtmodul 2", credits: 5},
			{id: "wp3", title: "Wahlpflichtmodul 3", credits: 5},
			{id: "seminar", title: "Seminar", credits: 5},
		},
		6: {
			{id: "praktikum", title: "Praktikum", credits: 10},
			{id: "thesis", title: "Bachelorarbeit", credits: 10},
			{id: "kolloquium", title: "Kolloquium", credits: 5},
		},
	}

	for term := 1; term <= 6; term++ {
		tn, err := shared.NewTermNumber(term)
		if err != nil {
			return nil, err
		}
		sem, err := program.NewSemester(tn)
		if err != nil {
			return nil, err
		}
		for _, pm := range plan[term] {
			m, err := buildModule(pm, scale)
			if err != nil {
				return nil, fmt.Errorf("sampledata: module %s: %w", pm.id, err)
			}
			if err := sem.AddModule(m); err != nil {
				return nil, err
			}
		}
		if err := p.AddSemester(sem); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// TermEnds returns a demo term calendar keyed by term ordinal, matching the
// query API's input shape.
func TermEnds() map[int]time.Time {
	return map[int]time.Time{
		1: timeutil.EndOfDay(timeutil.Date(2023, 3, 31)),
		2: timeutil.EndOfDay(timeutil.Date(2023, 9, 30)),
		3: timeutil.EndOfDay(timeutil.Date(2024, 3, 31)),
		4: timeutil.EndOfDay(timeutil.Date(2024, 9, 30)),
		5: timeutil.EndOfDay(timeutil.Date(2025, 3, 31)),
		6: timeutil.EndOfDay(timeutil.Date(2025, 9, 30)),
	}
}

func buildModule(pm plannedModule, scale shared.Scale) (*program.Module, error) {
	credits, err := shared.NewCredits(pm.credits)
	if err != nil {
		return nil, err
	}
	m, err := program.NewModule(pm.id, pm.title, credits)
	if err != nil {
		return nil, err
	}
	weight, err := shared.NewWeight(1.0)
	if err != nil {
		return nil, err
	}
	examID := pm.id + "-exam"
	exam, err := program.NewAssessment(examID, "Prüfung", weight, passThreshold, scale)
	if err != nil {
		return nil, err
	}
	if err := m.AddAssessment(exam); err != nil {
		return nil, err
	}

	if pm.grade != 0 {
		if err := m.Enroll(); err != nil {
			return nil, err
		}
		if err := m.RecordResult(examID, shared.Grade(pm.grade), pm.takenAt, scale); err != nil {
			return nil, err
		}
	} else if pm.enrolled {
		if err := m.Enroll(); err != nil {
			return nil, err
		}
	}
	return m, nil
}
