package utils

import "time"

// AdvanceStreak applies one qualifying visit at "now" to a streak counter
// pair and returns the updated values. Granularity is calendar days, not
// rolling 24h windows: a visit the day after the last one extends the
// streak, a same-day visit changes nothing, a gap of more than one day
// resets the streak to 1. A nil lastLogin means this is the first tracked
// visit. The caller is responsible for stamping the new last-login time.
func AdvanceStreak(currentStreak, longestStreak int, lastLogin *time.Time, now time.Time) (int, int) {
	if lastLogin == nil {
		currentStreak = 1
	} else {
		switch DaysBetween(*lastLogin, now) {
		case 0:
			// Already counted today.
		case 1:
			currentStreak++
		default:
			currentStreak = 1
		}
	}

	if currentStreak > longestStreak {
		longestStreak = currentStreak
	}

	return currentStreak, longestStreak
}

// DaysBetween returns the calendar-day distance from a to b, ignoring the
// time-of-day parts. Negative when b's day precedes a's.
func DaysBetween(a, b time.Time) int {
	dayA := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	dayB := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(dayB.Sub(dayA).Hours() / 24)
}
