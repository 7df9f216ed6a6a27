package tests

import (
	"testing"
	"time"

	"gurukul/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func setLastLogin(t *testing.T, userID uint, daysAgo, currentStreak, longestStreak int) {
	t.Helper()
	when := time.Now().AddDate(0, 0, -daysAgo)
	assert.NoError(t, db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"last_login_date": when,
		"current_streak":  currentStreak,
		"longest_streak":  longestStreak,
	}).Error)
}

func TestUpdateStreakFirstVisit(t *testing.T) {
	_, token := createUser(t, "First Streak", "student")

	resp := doRequest(t, "POST", "/api/users/update-streak", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeMap(t, resp)
	assert.Equal(t, float64(1), result["currentStreak"])
	assert.Equal(t, float64(1), result["longestStreak"])
	assert.NotNil(t, result["lastLoginDate"])
}

func TestUpdateStreakAfterYesterday(t *testing.T) {
	user, token := createUser(t, "Yesterday Streak", "student")
	setLastLogin(t, user.ID, 1, 2, 4)

	resp := doRequest(t, "POST", "/api/users/update-streak", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeMap(t, resp)
	assert.Equal(t, float64(3), result["currentStreak"])
	assert.Equal(t, float64(4), result["longestStreak"])

	// The second call of the day changes nothing
	resp = doRequest(t, "POST", "/api/users/update-streak", token, nil)
	result = decodeMap(t, resp)
	assert.Equal(t, float64(3), result["currentStreak"])
}

func TestUpdateStreakResetsAfterGap(t *testing.T) {
	user, token := createUser(t, "Gap Streak", "student")
	setLastLogin(t, user.ID, 3, 6, 6)

	resp := doRequest(t, "POST", "/api/users/update-streak", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeMap(t, resp)
	assert.Equal(t, float64(1), result["currentStreak"])
	assert.Equal(t, float64(6), result["longestStreak"])
}

func TestVideoQuizScore(t *testing.T) {
	_, token := createUser(t, "Video Scorer", "student")

	resp := doRequest(t, "POST", "/api/users/video-quiz-score", token, map[string]interface{}{
		"isCorrect": true,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), decodeMap(t, resp)["videoQuizScore"])

	resp = doRequest(t, "POST", "/api/users/video-quiz-score", token, map[string]interface{}{
		"isCorrect": false,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2.5), decodeMap(t, resp)["videoQuizScore"])
}

func TestLeaderboardScoring(t *testing.T) {
	top, _ := createUser(t, "Leaderboard Top", "student")
	_, viewerToken := createUser(t, "Leaderboard Viewer", "student")

	// 10 completed lessons, streak 3, video score 1.5 -> 10*10 + 5*3 + 1.5
	entry := models.ProgressEntry{UserID: top.ID, CourseID: 424242}
	assert.NoError(t, db.Create(&entry).Error)
	for i := 1; i <= 10; i++ {
		assert.NoError(t, db.Create(&models.CompletedLesson{
			ProgressEntryID: entry.ID,
			LessonID:        uint(800000 + i),
		}).Error)
	}
	assert.NoError(t, db.Model(&models.User{}).Where("id = ?", top.ID).Updates(map[string]interface{}{
		"current_streak":   3,
		"video_quiz_score": 1.5,
	}).Error)

	resp := doRequest(t, "GET", "/api/users/leaderboard", viewerToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	list := decodeList(t, resp)
	assert.NotEmpty(t, list)
	assert.LessOrEqual(t, len(list), 10)

	assert.Equal(t, float64(top.ID), list[0]["id"])
	assert.Equal(t, 116.5, list[0]["score"])
	assert.Equal(t, float64(10), list[0]["lessonsCompleted"])
	assert.Equal(t, float64(3), list[0]["currentStreak"])
	assert.Equal(t, 1.5, list[0]["videoScore"])

	// Sorted descending throughout
	for i := 1; i < len(list); i++ {
		assert.GreaterOrEqual(t, list[i-1]["score"].(float64), list[i]["score"].(float64))
	}
}

func TestLeaderboardTieBreakByUserID(t *testing.T) {
	first, _ := createUser(t, "Tie First", "student")
	second, viewerToken := createUser(t, "Tie Second", "student")

	// Same derived score for both, fractional so no other test collides
	assert.NoError(t, db.Model(&models.User{}).Where("id IN ?", []uint{first.ID, second.ID}).
		Update("video_quiz_score", 77.25).Error)

	resp := doRequest(t, "GET", "/api/users/leaderboard", viewerToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decodeList(t, resp)

	posFirst, posSecond := -1, -1
	for i, row := range list {
		switch uint(row["id"].(float64)) {
		case first.ID:
			posFirst = i
		case second.ID:
			posSecond = i
		}
	}
	assert.NotEqual(t, -1, posFirst)
	assert.NotEqual(t, -1, posSecond)
	assert.Less(t, posFirst, posSecond)
}

func TestLeaderboardExcludesTeachers(t *testing.T) {
	teacher, viewerToken := createUser(t, "Score Teacher", "teacher")

	resp := doRequest(t, "GET", "/api/users/leaderboard", viewerToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	for _, row := range decodeList(t, resp) {
		assert.NotEqual(t, float64(teacher.ID), row["id"])
	}
}
