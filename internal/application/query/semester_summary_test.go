package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub/study-progress-hub/internal/domain/shared"
	"github.com/studyhub/study-progress-hub/internal/sampledata"
)

func TestSemesterSummary_ActiveTerm(t *testing.T) {
	p := demoProgram(t)
	h := NewSemesterSummaryHandler(newMemoryRepo(t, p))

	summary, err := h.Handle(context.Background(), SemesterSummaryQuery{
		ProgramName: sampledata.ProgramName,
		Term:        3,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Term)
	assert.Equal(t, "active", summary.Status)
	assert.InDelta(t, 10.0, summary.CreditsEarned, 1e-9)
	assert.InDelta(t, 15.0, summary.CreditsAttempted, 1e-9)
	require.NotNil(t, summary.GPA)
	assert.InDelta(t, 1.85, *summary.GPA, 1e-9)

	require.Len(t, summary.Modules, 4)
	rows := make(map[string]ModuleRow, len(summary.Modules))
	for _, r := range summary.Modules {
		rows[r.ID] = r
	}

	db := rows["db"]
	assert.True(t, db.Completed)
	assert.Equal(t, "completed", db.Status)
	require.NotNil(t, db.Grade)
	assert.InDelta(t, 2.0, *db.Grade, 1e-9)

	algo := rows["algo"]
	assert.False(t, algo.Completed)
	assert.Equal(t, "in_progress", algo.Status)
	assert.Nil(t, algo.Grade)

	pm := rows["pm"]
	assert.Equal(t, "planned", pm.Status)
	assert.Nil(t, pm.Grade)
	assert.InDelta(t, 5.0, pm.Credits, 1e-9)
}

func TestSemesterSummary_UpcomingTermHasNoGPA(t *testing.T) {
	p := demoProgram(t)
	h := NewSemesterSummaryHandler(newMemoryRepo(t, p))

	summary, err := h.Handle(context.Background(), SemesterSummaryQuery{
		ProgramName: sampledata.ProgramName,
		Term:        5,
	})
	require.NoError(t, err)

	assert.Equal(t, "upcoming", summary.Status)
	assert.Nil(t, summary.GPA)
	assert.Zero(t, summary.CreditsEarned)
	for _, r := range summary.Modules {
		assert.Equal(t, "planned", r.Status)
		assert.Nil(t, r.Grade)
	}
}

func TestSemesterSummary_UnknownTerm(t *testing.T) {
	p := demoProgram(t)
	h := NewSemesterSummaryHandler(newMemoryRepo(t, p))

	_, err := h.Handle(context.Background(), SemesterSummaryQuery{
		ProgramName: sampledata.ProgramName,
		Term:        9,
	})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestSemesterSummary_InvalidTerm(t *testing.T) {
	h := NewSemesterSummaryHandler(newMemoryRepo(t))

	_, err := h.Handle(context.Background(), SemesterSummaryQuery{
		ProgramName: sampledata.ProgramName,
		Term:        0,
	})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}
