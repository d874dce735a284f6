package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(Date(2024, 3, 31), Date(2024, 3, 31)))
	assert.Equal(t, 1, DaysBetween(Date(2024, 3, 31), Date(2024, 4, 1)))
	assert.Equal(t, 29, DaysBetween(Date(2024, 2, 29), Date(2024, 3, 29)))
	assert.Equal(t, -1, DaysBetween(Date(2024, 4, 1), Date(2024, 3, 31)))

	// Time of day never shifts the whole-day count.
	late := time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(late, Date(2024, 4, 1)))
}

func TestOverdue(t *testing.T) {
	deadline := Date(2024, 3, 31)

	// The deadline day itself still counts as in-term.
	assert.False(t, Overdue(deadline, time.Date(2024, 3, 31, 18, 0, 0, 0, time.UTC)))
	assert.False(t, Overdue(deadline, EndOfDay(deadline)))
	assert.True(t, Overdue(deadline, Date(2024, 4, 1)))
}

func TestEndOfDay(t *testing.T) {
	end := EndOfDay(time.Date(2024, 3, 31, 9, 30, 0, 0, time.UTC))
	assert.Equal(t, Date(2024, 3, 31), DateOnly(end))
	assert.True(t, end.Before(Date(2024, 4, 1)))
}
