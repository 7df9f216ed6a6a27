package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceStreakFirstVisit(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

	current, longest := AdvanceStreak(0, 0, nil, now)
	assert.Equal(t, 1, current)
	assert.Equal(t, 1, longest)
}

func TestAdvanceStreakConsecutiveDay(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	current, longest := AdvanceStreak(3, 5, &yesterday, now)
	assert.Equal(t, 4, current)
	assert.Equal(t, 5, longest)
}

func TestAdvanceStreakUpdatesLongest(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	current, longest := AdvanceStreak(5, 5, &yesterday, now)
	assert.Equal(t, 6, current)
	assert.Equal(t, 6, longest)
}

func TestAdvanceStreakSameDayIsNoop(t *testing.T) {
	now := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)

	current, longest := AdvanceStreak(7, 9, &earlier, now)
	assert.Equal(t, 7, current)
	assert.Equal(t, 9, longest)

	// A second call on the same day stays a no-op
	current, longest = AdvanceStreak(current, longest, &now, now)
	assert.Equal(t, 7, current)
	assert.Equal(t, 9, longest)
}

func TestAdvanceStreakResetAfterGap(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	threeDaysAgo := now.AddDate(0, 0, -3)

	current, longest := AdvanceStreak(6, 6, &threeDaysAgo, now)
	assert.Equal(t, 1, current)
	assert.Equal(t, 6, longest)
}

func TestAdvanceStreakMidnightBoundary(t *testing.T) {
	// 23:59 to 00:01 is still a one-day distance
	lastLogin := time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC)
	now := time.Date(2025, 3, 10, 0, 1, 0, 0, time.UTC)

	current, longest := AdvanceStreak(2, 2, &lastLogin, now)
	assert.Equal(t, 3, current)
	assert.Equal(t, 3, longest)
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 2, 28, 23, 0, 0, 0, time.UTC)
	b := time.Date(2025, 3, 1, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysBetween(a, b))
	assert.Equal(t, 0, DaysBetween(a, a))
	assert.Equal(t, -1, DaysBetween(b, a))
	assert.Equal(t, 31, DaysBetween(
		time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)))
}
