package tests

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestDiscussionValidation(t *testing.T) {
	_, teacherToken := createUser(t, "Thread Teacher", "teacher")
	_, studentToken := createUser(t, "Thread Student", "student")
	courseID, _ := createCourse(t, teacherToken, "Thread Course", 1)

	resp := doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/discussions", courseID), studentToken, map[string]interface{}{
		"title": "No content here",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please provide title and content", decodeMap(t, resp)["error"])
}

func TestDiscussionThreadAndReply(t *testing.T) {
	_, teacherToken := createUser(t, "Reply Teacher", "teacher")
	student, studentToken := createUser(t, "Reply Student", "student")
	courseID, _ := createCourse(t, teacherToken, "Reply Course", 1)

	resp := doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/discussions", courseID), studentToken, map[string]interface{}{
		"title":   "Why does lesson 1 skip the proof?",
		"content": "The derivation jumps a step around minute 3.",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	thread := decodeMap(t, resp)
	threadID := uint(thread["id"].(float64))
	assert.Equal(t, student.Name, thread["user"].(map[string]interface{})["name"])

	resp = doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/discussions/%d/reply", courseID, threadID), teacherToken, map[string]interface{}{
		"content": "Good catch, the full proof is in the appendix PDF.",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := decodeMap(t, resp)
	replies := updated["replies"].([]interface{})
	assert.Len(t, replies, 1)
	assert.Equal(t, "teacher", replies[0].(map[string]interface{})["user"].(map[string]interface{})["role"])

	// Empty reply is refused
	resp = doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/discussions/%d/reply", courseID, threadID), studentToken, map[string]interface{}{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDiscussionListOrdering(t *testing.T) {
	_, teacherToken := createUser(t, "Order Teacher", "teacher")
	_, studentToken := createUser(t, "Order Student", "student")
	courseID, _ := createCourse(t, teacherToken, "Order Course", 1)

	resp := doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/discussions", courseID), studentToken, map[string]interface{}{
		"title":   "First thread",
		"content": "Oldest",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	firstID := uint(decodeMap(t, resp)["id"].(float64))

	resp = doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/discussions", courseID), studentToken, map[string]interface{}{
		"title":   "Second thread",
		"content": "Newer",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// A reply bumps the older thread back to the top
	resp = doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/discussions/%d/reply", courseID, firstID), teacherToken, map[string]interface{}{
		"content": "Bumping reply",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, "GET", fmt.Sprintf("/api/courses/%d/discussions", courseID), studentToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decodeList(t, resp)
	assert.Len(t, list, 2)
	assert.Equal(t, "First thread", list[0]["title"])
	assert.Equal(t, "Second thread", list[1]["title"])
}

func TestDiscussionUnknownCourse(t *testing.T) {
	_, token := createUser(t, "Void Student", "student")

	resp := doRequest(t, "POST", "/api/courses/999999/discussions", token, map[string]interface{}{
		"title":   "Into the void",
		"content": "Nobody home",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
