package program

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub/study-progress-hub/internal/domain/shared"
)

// germanScale is the 1.0 (best) to 5.0 (worst) scale with pass at 4.0.
func germanScale(t *testing.T) shared.Scale {
	t.Helper()
	scale, err := shared.NewScale(1.0, 5.0, shared.LowerIsBetter)
	require.NoError(t, err)
	return scale
}

func mustModule(t *testing.T, id, title string, credits float64) *Module {
	t.Helper()
	c, err := shared.NewCredits(credits)
	require.NoError(t, err)
	m, err := NewModule(id, title, c)
	require.NoError(t, err)
	return m
}

func mustAssessment(t *testing.T, scale shared.Scale, id, title string, weight float64) *Assessment {
	t.Helper()
	w, err := shared.NewWeight(weight)
	require.NoError(t, err)
	a, err := NewAssessment(id, title, w, 4.0, scale)
	require.NoError(t, err)
	return a
}

func TestNewModule_Validation(t *testing.T) {
	_, err := NewModule("", "Databases", 5)
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	_, err = NewModule("db-101", "", 5)
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	_, err = NewModule("db-101", "Databases", 0)
	assert.ErrorIs(t, err, shared.ErrNonPositive)
}

func TestModule_CompletionRequiresAllAssessmentsPassed(t *testing.T) {
	scale := germanScale(t)
	m := mustModule(t, "algo", "Algorithms", 6)
	exam := mustAssessment(t, scale, "algo-exam", "Final exam", 0.7)
	lab := mustAssessment(t, scale, "algo-lab", "Lab work", 0.3)
	require.NoError(t, m.AddAssessment(exam))
	require.NoError(t, m.AddAssessment(lab))

	assert.False(t, m.Completed(scale))

	require.NoError(t, m.RecordResult("algo-exam", 2.0, time.Now(), scale))
	assert.False(t, m.Completed(scale), "one missing grade must keep the module incomplete")

	require.NoError(t, m.RecordResult("algo-lab", 1.7, time.Now(), scale))
	assert.True(t, m.Completed(scale))
	assert.Equal(t, StatusCompleted, m.Status(), "completion advances the declared status")
}

func TestModule_BelowThresholdBlocksCompletion(t *testing.T) {
	scale := germanScale(t)
	m := mustModule(t, "math", "Mathematics", 5)
	require.NoError(t, m.AddAssessment(mustAssessment(t, scale, "math-exam", "Exam", 1.0)))

	require.NoError(t, m.RecordResult("math-exam", 4.7, time.Now(), scale))
	assert.False(t, m.Completed(scale))
	assert.Equal(t, StatusPlanned, m.Status())
}

func TestModule_ZeroAssessmentsNeverCompleted(t *testing.T) {
	scale := germanScale(t)
	m := mustModule(t, "sem", "Seminar", 5)
	assert.False(t, m.Completed(scale))
}

func TestModule_GradeIsWeightedMean(t *testing.T) {
	scale := germanScale(t)
	m := mustModule(t, "se", "Software Engineering", 5)
	require.NoError(t, m.AddAssessment(mustAssessment(t, scale, "se-exam", "Exam", 0.5)))
	require.NoError(t, m.AddAssessment(mustAssessment(t, scale, "se-project", "Project", 0.5)))

	require.NoError(t, m.RecordResult("se-exam", 2.0, time.Now(), scale))
	_, ok := m.Grade()
	assert.False(t, ok, "grade undefined while a result is missing")

	require.NoError(t, m.RecordResult("se-project", 1.0, time.Now(), scale))
	g, ok := m.Grade()
	require.True(t, ok)
	assert.InDelta(t, 1.5, g.Float64(), 1e-9)
}

func TestModule_GradeNormalizesPartialWeights(t *testing.T) {
	scale := germanScale(t)
	m := mustModule(t, "net", "Networks", 5)
	require.NoError(t, m.AddAssessment(mustAssessment(t, scale, "net-exam", "Exam", 0.6)))
	require.NoError(t, m.AddAssessment(mustAssessment(t, scale, "net-lab", "Lab", 0.3)))

	require.NoError(t, m.RecordResult("net-exam", 2.0, time.Now(), scale))
	require.NoError(t, m.RecordResult("net-lab", 1.0, time.Now(), scale))

	// Weights sum to 0.9, so the mean is normalized by the present sum.
	g, ok := m.Grade()
	require.True(t, ok)
	assert.InDelta(t, (0.6*2.0+0.3*1.0)/0.9, g.Float64(), 1e-9)
}

func TestModule_FinalizedResultIsImmutable(t *testing.T) {
	scale := germanScale(t)
	m := mustModule(t, "os", "Operating Systems", 5)
	require.NoError(t, m.AddAssessment(mustAssessment(t, scale, "os-exam", "Exam", 1.0)))

	require.NoError(t, m.RecordResult("os-exam", 2.3, time.Now(), scale))
	require.NoError(t, m.Assessments()[0].Finalize())

	err := m.RecordResult("os-exam", 1.0, time.Now(), scale)
	assert.ErrorIs(t, err, shared.ErrFinalized)

	g, ok := m.Grade()
	require.True(t, ok)
	assert.InDelta(t, 2.3, g.Float64(), 1e-9)
}

func TestModule_RecordResultRejectsOutOfScaleGrade(t *testing.T) {
	scale := germanScale(t)
	m := mustModule(t, "db", "Databases", 5)
	require.NoError(t, m.AddAssessment(mustAssessment(t, scale, "db-exam", "Exam", 1.0)))

	err := m.RecordResult("db-exam", 6.0, time.Now(), scale)
	assert.ErrorIs(t, err, shared.ErrValueOutOfRange)
}

func TestModule_DuplicateAssessmentRejected(t *testing.T) {
	scale := germanScale(t)
	m := mustModule(t, "db", "Databases", 5)
	require.NoError(t, m.AddAssessment(mustAssessment(t, scale, "db-exam", "Exam", 0.5)))

	err := m.AddAssessment(mustAssessment(t, scale, "db-exam", "Retake", 0.5))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestModule_EnrollOnlyFromPlanned(t *testing.T) {
	scale := germanScale(t)
	m := mustModule(t, "ml", "Machine Learning", 5)
	require.NoError(t, m.Enroll())
	assert.Equal(t, StatusInProgress, m.Status())

	assert.ErrorIs(t, m.Enroll(), shared.ErrStateTransition)
	_ = scale
}

func TestModule_RetakeAfterFailedAttempt(t *testing.T) {
	scale := germanScale(t)
	m := mustModule(t, "ti", "Theoretical CS", 5)
	first := mustAssessment(t, scale, "ti-exam", "Exam", 1.0)
	require.NoError(t, m.AddAssessment(first))

	require.NoError(t, m.RecordResult("ti-exam", 5.0, time.Now(), scale))
	require.NoError(t, first.Finalize())
	assert.False(t, m.Completed(scale))

	// History stays intact; a retake supersedes the failed attempt.
	retake := mustAssessment(t, scale, "ti-exam-retake", "Exam retake", 1.0)
	require.NoError(t, m.AddRetake("ti-exam", retake))
	require.NoError(t, m.RecordResult("ti-exam-retake", 3.0, time.Now(), scale))

	assert.True(t, m.Completed(scale))
	g, ok := m.Grade()
	require.True(t, ok)
	assert.InDelta(t, 3.0, g.Float64(), 1e-9, "grade follows the retake, not the failed attempt")

	// The failed attempt is preserved, just superseded.
	assert.True(t, first.Superseded())
	failedGrade, ok := first.Grade()
	require.True(t, ok)
	assert.InDelta(t, 5.0, failedGrade.Float64(), 1e-9)
}
