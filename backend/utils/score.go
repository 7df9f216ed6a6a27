package utils

import "math"

// Points per leaderboard component.
const (
	lessonPoints = 10
	streakPoints = 5

	videoQuizReward  = 3
	videoQuizPenalty = 0.5
)

// Percentage returns round(100 * part / total) clamped to 100, and 0 when
// total is zero. Used for both course completion and quiz results.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(float64(part) / float64(total) * 100))
	if p > 100 {
		p = 100
	}
	return p
}

// LeaderboardScore derives a student's ranking value from current state.
// There is no stored aggregate, so the score can never drift from the
// fields it is computed from.
func LeaderboardScore(completedLessons, currentStreak int, videoQuizScore float64) float64 {
	return float64(completedLessons)*lessonPoints + float64(currentStreak)*streakPoints + videoQuizScore
}

// GradeQuiz awards one point per question whose selected option index
// matches the correct one. Missing or out-of-range answers count as wrong.
func GradeQuiz(correct, answers []int) int {
	points := 0
	for i, want := range correct {
		if i < len(answers) && answers[i] == want {
			points++
		}
	}
	return points
}

// AdjustVideoQuizScore applies one checkpoint answer to the running score.
// No floor or ceiling.
func AdjustVideoQuizScore(score float64, isCorrect bool) float64 {
	if isCorrect {
		return score + videoQuizReward
	}
	return score - videoQuizPenalty
}
