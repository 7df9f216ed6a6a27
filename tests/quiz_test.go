package tests

import (
	"fmt"
	"testing"

	"gurukul/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func createQuiz(t *testing.T, token string, courseID uint) uint {
	t.Helper()

	resp := doRequest(t, "POST", "/api/quizzes", token, map[string]interface{}{
		"title":    "Chapter Quiz",
		"courseId": courseID,
		"questions": []map[string]interface{}{
			{"text": "Q1", "options": []string{"a", "b"}, "correctOptionIndex": 0},
			{"text": "Q2", "options": []string{"a", "b", "c"}, "correctOptionIndex": 2},
			{"text": "Q3", "options": []string{"a", "b"}, "correctOptionIndex": 1},
			{"text": "Q4", "options": []string{"a", "b", "c", "d"}, "correctOptionIndex": 3},
		},
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeMap(t, resp)
	return uint(result["quiz"].(map[string]interface{})["id"].(float64))
}

func TestCreateQuizOwnerOnly(t *testing.T) {
	_, ownerToken := createUser(t, "Quiz Owner", "teacher")
	_, otherToken := createUser(t, "Quiz Other", "teacher")
	courseID, _ := createCourse(t, ownerToken, "Quiz Owner Course", 1)

	resp := doRequest(t, "POST", "/api/quizzes", otherToken, map[string]interface{}{
		"title":    "Not Yours",
		"courseId": courseID,
		"questions": []map[string]interface{}{
			{"text": "Q", "options": []string{"a", "b"}, "correctOptionIndex": 0},
		},
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCreateQuizValidation(t *testing.T) {
	_, token := createUser(t, "Quiz Validator", "teacher")
	courseID, _ := createCourse(t, token, "Quiz Validation Course", 1)

	// One option is not a question
	resp := doRequest(t, "POST", "/api/quizzes", token, map[string]interface{}{
		"title":    "Bad Quiz",
		"courseId": courseID,
		"questions": []map[string]interface{}{
			{"text": "Q", "options": []string{"only"}, "correctOptionIndex": 0},
		},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Correct index outside the option range
	resp = doRequest(t, "POST", "/api/quizzes", token, map[string]interface{}{
		"title":    "Bad Quiz",
		"courseId": courseID,
		"questions": []map[string]interface{}{
			{"text": "Q", "options": []string{"a", "b"}, "correctOptionIndex": 5},
		},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitQuizGrading(t *testing.T) {
	_, teacherToken := createUser(t, "Grading Teacher", "teacher")
	_, studentToken := createUser(t, "Grading Student", "student")
	courseID, _ := createCourse(t, teacherToken, "Grading Course", 1)
	doRequest(t, "POST", fmt.Sprintf("/api/courses/enroll/%d", courseID), studentToken, nil)
	quizID := createQuiz(t, teacherToken, courseID)

	// correct, correct, wrong, unanswered -> 2 of 4, 50%
	resp := doRequest(t, "POST", fmt.Sprintf("/api/quizzes/%d/submit", quizID), studentToken, map[string]interface{}{
		"answers": []int{0, 2, 0, -1},
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeMap(t, resp)
	assert.Equal(t, float64(2), result["score"])
	assert.Equal(t, float64(4), result["total"])
	assert.Equal(t, float64(50), result["percentage"])

	// The result lands on the dashboard's recent quizzes
	resp = doRequest(t, "GET", "/api/users/dashboard", studentToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	dashboard := decodeMap(t, resp)
	recent := dashboard["recentQuizzes"].([]interface{})
	assert.Len(t, recent, 1)
	assert.Equal(t, float64(50), recent[0].(map[string]interface{})["score"])
	assert.Equal(t, "Grading Course", recent[0].(map[string]interface{})["courseTitle"])
}

func TestSubmitQuizWithoutEnrollment(t *testing.T) {
	_, teacherToken := createUser(t, "Walkin Teacher", "teacher")
	student, studentToken := createUser(t, "Walkin Student", "student")
	courseID, _ := createCourse(t, teacherToken, "Walkin Course", 1)
	quizID := createQuiz(t, teacherToken, courseID)

	resp := doRequest(t, "POST", fmt.Sprintf("/api/quizzes/%d/submit", quizID), studentToken, map[string]interface{}{
		"answers": []int{0, 2, 1, 3},
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeMap(t, resp)
	assert.Equal(t, float64(100), result["percentage"])

	// The fallback entry was created and holds the score
	var entry models.ProgressEntry
	assert.NoError(t, db.Preload("QuizScores").
		Where("user_id = ? AND course_id = ?", student.ID, courseID).
		First(&entry).Error)
	assert.Len(t, entry.QuizScores, 1)
	assert.Equal(t, float64(100), entry.QuizScores[0].Score)
}

func TestSubmitQuizNotFound(t *testing.T) {
	_, token := createUser(t, "NoQuiz Student", "student")

	resp := doRequest(t, "POST", "/api/quizzes/999999/submit", token, map[string]interface{}{
		"answers": []int{0},
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateQuizReplacesQuestions(t *testing.T) {
	_, token := createUser(t, "Editing Teacher", "teacher")
	courseID, _ := createCourse(t, token, "Editing Course", 1)
	quizID := createQuiz(t, token, courseID)

	resp := doRequest(t, "PUT", fmt.Sprintf("/api/quizzes/%d", quizID), token, map[string]interface{}{
		"title": "Revised Quiz",
		"questions": []map[string]interface{}{
			{"text": "Only question", "options": []string{"x", "y"}, "correctOptionIndex": 1},
		},
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, "GET", fmt.Sprintf("/api/quizzes/%d", quizID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	quiz := decodeMap(t, resp)["quiz"].(map[string]interface{})
	assert.Equal(t, "Revised Quiz", quiz["title"])
	assert.Len(t, quiz["questions"], 1)
}

func TestGetQuizzesByCourse(t *testing.T) {
	_, token := createUser(t, "Listing Teacher", "teacher")
	courseID, _ := createCourse(t, token, "Listing Course", 1)
	createQuiz(t, token, courseID)
	createQuiz(t, token, courseID)

	resp := doRequest(t, "GET", fmt.Sprintf("/api/quizzes/course/%d", courseID), "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decodeList(t, resp)
	assert.Len(t, list, 2)
}
