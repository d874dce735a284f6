package program

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub/study-progress-hub/internal/domain/shared"
)

func mustProgram(t *testing.T, name string, goal float64, target shared.Grade) *Program {
	t.Helper()
	scale := germanScale(t)
	g, err := shared.NewCredits(goal)
	require.NoError(t, err)
	p, err := NewProgram(name, g, target, scale)
	require.NoError(t, err)
	return p
}

func mustSemester(t *testing.T, term int) *Semester {
	t.Helper()
	tn, err := shared.NewTermNumber(term)
	require.NoError(t, err)
	s, err := NewSemester(tn)
	require.NoError(t, err)
	return s
}

// completedModule builds a module with a single full-weight assessment
// graded at the given value.
func completedModule(t *testing.T, scale shared.Scale, id string, credits, grade float64) *Module {
	t.Helper()
	m := mustModule(t, id, id, credits)
	require.NoError(t, m.AddAssessment(mustAssessment(t, scale, id+"-exam", "Exam", 1.0)))
	require.NoError(t, m.Enroll())
	require.NoError(t, m.RecordResult(id+"-exam", shared.Grade(grade), time.Now(), scale))
	return m
}

// inProgressModule builds an enrolled module with one ungraded assessment.
func inProgressModule(t *testing.T, scale shared.Scale, id string, credits float64) *Module {
	t.Helper()
	m := mustModule(t, id, id, credits)
	require.NoError(t, m.AddAssessment(mustAssessment(t, scale, id+"-exam", "Exam", 1.0)))
	require.NoError(t, m.Enroll())
	return m
}

func TestNewProgram_Validation(t *testing.T) {
	scale := germanScale(t)

	_, err := NewProgram("", 180, 2.5, scale)
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	_, err = NewProgram("CS BSc", 180, 7.0, scale)
	assert.ErrorIs(t, err, shared.ErrValueOutOfRange)

	goal, err := shared.NewCredits(180)
	require.NoError(t, err)
	p, err := NewProgram("CS BSc", goal, 2.5, scale)
	require.NoError(t, err)
	assert.Equal(t, "CS BSc", p.Name())
	assert.Equal(t, 180.0, p.CreditGoal().Float64())
}

func TestProgram_SingleCompletedModuleScenario(t *testing.T) {
	// One 6-credit completed module at 1.7 and one 6-credit in-progress
	// module against a 180-credit goal.
	scale := germanScale(t)
	p := mustProgram(t, "Informatik Bachelor", 180, 2.5)

	sem := mustSemester(t, 1)
	require.NoError(t, sem.AddModule(completedModule(t, scale, "prog", 6, 1.7)))
	require.NoError(t, sem.AddModule(inProgressModule(t, scale, "math", 6)))
	require.NoError(t, p.AddSemester(sem))

	assert.InDelta(t, 6.0, p.CreditsEarned().Float64(), 1e-9)
	assert.InDelta(t, 12.0, p.CreditsAttempted().Float64(), 1e-9)
	assert.InDelta(t, 6.0/180.0, p.ProgressRatio(), 1e-9)

	gpa, ok := p.GPA()
	require.True(t, ok)
	assert.InDelta(t, 1.7, gpa.Float64(), 1e-9)

	current := p.CurrentModules()
	require.Len(t, current, 1)
	assert.Equal(t, "math", current[0].ID())

	alerts := p.Alerts(AlertInput{})
	for _, a := range alerts {
		assert.NotEqual(t, AlertGradeBelowTarget, a.Kind,
			"1.7 is better than the 2.5 target on a lower-is-better scale")
	}
}

func TestProgram_GPAUndefinedWithZeroCompletedModules(t *testing.T) {
	scale := germanScale(t)
	p := mustProgram(t, "CS BSc", 180, 2.5)

	sem := mustSemester(t, 1)
	require.NoError(t, sem.AddModule(inProgressModule(t, scale, "algo", 5)))
	require.NoError(t, p.AddSemester(sem))

	_, ok := p.GPA()
	assert.False(t, ok, "GPA must be undefined, not zero")

	m := p.ComputeMetrics()
	assert.False(t, m.GPAKnown)
	assert.Zero(t, m.CreditsEarned)
}

func TestProgram_StatusIsAdvisoryCompletionIsAuthoritative(t *testing.T) {
	// A module flagged completed by hand but without passing grades must
	// not contribute credits.
	scale := germanScale(t)
	p := mustProgram(t, "CS BSc", 180, 2.5)

	m := mustModule(t, "ghost", "Ghost Module", 10)
	require.NoError(t, m.AddAssessment(mustAssessment(t, scale, "ghost-exam", "Exam", 1.0)))
	m.status = StatusCompleted // stale flag, e.g. from a bad import

	sem := mustSemester(t, 1)
	require.NoError(t, sem.AddModule(m))
	require.NoError(t, p.AddSemester(sem))

	assert.Zero(t, p.CreditsEarned().Float64())
	_, ok := p.GPA()
	assert.False(t, ok)
}

func TestProgram_ProgressRatioAboveOneIsExposed(t *testing.T) {
	scale := germanScale(t)
	p := mustProgram(t, "CS Cert", 10, 2.5)

	sem := mustSemester(t, 1)
	require.NoError(t, sem.AddModule(completedModule(t, scale, "a", 6, 2.0)))
	require.NoError(t, sem.AddModule(completedModule(t, scale, "b", 6, 2.0)))
	require.NoError(t, p.AddSemester(sem))

	assert.InDelta(t, 1.2, p.ProgressRatio(), 1e-9)
	assert.InDelta(t, 1.0, p.ProgressRatioClamped(), 1e-9)
}

func TestProgram_ProgressMonotonicAsModulesComplete(t *testing.T) {
	scale := germanScale(t)
	p := mustProgram(t, "CS BSc", 180, 2.5)

	sem := mustSemester(t, 1)
	first := inProgressModule(t, scale, "m1", 6)
	second := inProgressModule(t, scale, "m2", 6)
	require.NoError(t, sem.AddModule(first))
	require.NoError(t, sem.AddModule(second))
	require.NoError(t, p.AddSemester(sem))

	prev := p.ProgressRatio()
	require.NoError(t, p.RecordResult("m1", "m1-exam", 2.0, time.Now()))
	assert.GreaterOrEqual(t, p.ProgressRatio(), prev)

	prev = p.ProgressRatio()
	require.NoError(t, p.RecordResult("m2", "m2-exam", 3.0, time.Now()))
	assert.GreaterOrEqual(t, p.ProgressRatio(), prev)
}

func TestProgram_DuplicateModuleIDAcrossSemestersRejected(t *testing.T) {
	scale := germanScale(t)
	p := mustProgram(t, "CS BSc", 180, 2.5)

	sem1 := mustSemester(t, 1)
	require.NoError(t, sem1.AddModule(completedModule(t, scale, "algo", 5, 2.0)))
	require.NoError(t, p.AddSemester(sem1))

	sem2 := mustSemester(t, 2)
	require.NoError(t, sem2.AddModule(mustModule(t, "algo", "Algorithms again", 5)))
	assert.ErrorIs(t, p.AddSemester(sem2), shared.ErrAlreadyExists)

	// Same rule through PlanModule.
	sem3 := mustSemester(t, 3)
	require.NoError(t, p.AddSemester(sem3))
	term, _ := shared.NewTermNumber(3)
	err := p.PlanModule(term, mustModule(t, "algo", "Algorithms again", 5))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestProgram_DuplicateTermRejected(t *testing.T) {
	p := mustProgram(t, "CS BSc", 180, 2.5)
	require.NoError(t, p.AddSemester(mustSemester(t, 1)))
	assert.ErrorIs(t, p.AddSemester(mustSemester(t, 1)), shared.ErrAlreadyExists)
}

func TestSemester_ModuleSetFrozenOnceStarted(t *testing.T) {
	scale := germanScale(t)
	sem := mustSemester(t, 1)
	require.NoError(t, sem.AddModule(inProgressModule(t, scale, "algo", 5)))

	err := sem.AddModule(mustModule(t, "db", "Databases", 5))
	assert.ErrorIs(t, err, shared.ErrFrozen)
}

func TestSemester_StatusDerivation(t *testing.T) {
	scale := germanScale(t)

	upcoming := mustSemester(t, 4)
	require.NoError(t, upcoming.AddModule(mustModule(t, "ml", "Machine Learning", 5)))
	assert.Equal(t, SemesterUpcoming, upcoming.Status(scale))

	active := mustSemester(t, 3)
	require.NoError(t, active.AddModule(completedModule(t, scale, "db", 5, 2.0)))
	require.NoError(t, active.AddModule(inProgressModule(t, scale, "web", 5)))
	assert.Equal(t, SemesterActive, active.Status(scale))

	done := mustSemester(t, 1)
	require.NoError(t, done.AddModule(completedModule(t, scale, "gp", 5, 2.0)))
	assert.Equal(t, SemesterCompleted, done.Status(scale))
}

func TestSemester_GPAExcludesIncompleteModules(t *testing.T) {
	scale := germanScale(t)
	sem := mustSemester(t, 1)
	require.NoError(t, sem.AddModule(completedModule(t, scale, "a", 5, 2.0)))
	require.NoError(t, sem.AddModule(completedModule(t, scale, "b", 10, 1.0)))
	require.NoError(t, sem.AddModule(inProgressModule(t, scale, "c", 5)))

	gpa, ok := sem.GPA(scale)
	require.True(t, ok)
	// Credit-weighted: (2.0*5 + 1.0*10) / 15
	assert.InDelta(t, 20.0/15.0, gpa.Float64(), 1e-9)

	assert.InDelta(t, 15.0, sem.CreditsEarned(scale).Float64(), 1e-9)
	assert.InDelta(t, 20.0, sem.CreditsAttempted(scale).Float64(), 1e-9)
}

func TestProgram_ComputeMetrics(t *testing.T) {
	scale := germanScale(t)
	p := mustProgram(t, "CS BSc", 180, 2.5)

	sem1 := mustSemester(t, 1)
	require.NoError(t, sem1.AddModule(completedModule(t, scale, "a", 6, 1.7)))
	require.NoError(t, p.AddSemester(sem1))

	sem2 := mustSemester(t, 2)
	require.NoError(t, sem2.AddModule(inProgressModule(t, scale, "b", 6)))
	require.NoError(t, p.AddSemester(sem2))

	m := p.ComputeMetrics()
	assert.InDelta(t, 6.0, m.CreditsEarned.Float64(), 1e-9)
	assert.InDelta(t, 12.0, m.CreditsAttempted.Float64(), 1e-9)
	assert.InDelta(t, 6.0/180.0, m.ProgressRatio, 1e-9)
	require.True(t, m.GPAKnown)
	assert.InDelta(t, 1.7, m.GPA.Float64(), 1e-9)
	require.Len(t, m.Semesters, 2)
	assert.Equal(t, SemesterCompleted, m.Semesters[0].Status)
	assert.Equal(t, SemesterActive, m.Semesters[1].Status)
	assert.Equal(t, []string{"b"}, m.CurrentModuleIDs)

	// Deriving metrics twice over the same tree yields identical results.
	assert.Equal(t, m, p.ComputeMetrics())
}

func TestProgram_SemestersKeptInTermOrder(t *testing.T) {
	scale := germanScale(t)
	p := mustProgram(t, "CS BSc", 180, 2.5)

	require.NoError(t, p.AddSemester(mustSemester(t, 3)))
	sem1 := mustSemester(t, 1)
	require.NoError(t, sem1.AddModule(completedModule(t, scale, "done", 5, 2.0)))
	require.NoError(t, p.AddSemester(sem1))
	require.NoError(t, p.AddSemester(mustSemester(t, 2)))

	var terms []int
	for _, s := range p.Semesters() {
		terms = append(terms, s.Term().Int())
	}
	assert.Equal(t, []int{1, 2, 3}, terms)

	// The current term is the lowest non-completed ordinal, not whichever
	// semester happened to be added first.
	term, ok := p.CurrentTerm()
	require.True(t, ok)
	assert.Equal(t, 2, term.Int())
}
