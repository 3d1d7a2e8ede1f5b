package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"assessment-service/internal/models"
	"assessment-service/internal/service"
)

type SessionHandler struct {
	Service *service.SessionService
}

func NewSessionHandler(s *service.SessionService) *SessionHandler {
	return &SessionHandler{Service: s}
}

// Start creates a session for the calling student and returns the first
// question.
func (h *SessionHandler) Start(c *gin.Context) {
	var req struct {
		DefinitionID string `json:"definition_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format", "details": err.Error()})
		return
	}
	studentID := c.GetHeader("X-User-ID")

	outcome, err := h.Service.StartSession(context.Background(), req.DefinitionID, studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, outcome)
}

// SubmitAnswer grades the outstanding question and returns the next question
// or the final report.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req struct {
		QuestionID string `json:"question_id" binding:"required"`
		Answer     string `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format", "details": err.Error()})
		return
	}

	outcome, err := h.Service.SubmitAnswer(context.Background(), c.Param("id"), req.QuestionID, req.Answer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// Abandon ends the session early; the partial report still comes back.
func (h *SessionHandler) Abandon(c *gin.Context) {
	snapshot, err := h.Service.Abandon(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.SessionAbandoned, "report": snapshot})
}

// List returns the calling student's sessions.
func (h *SessionHandler) List(c *gin.Context) {
	sessions, err := h.Service.ListByStudent(context.Background(), c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}
	summaries := make([]gin.H, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, gin.H{
			"id":            s.ID,
			"definition_id": s.DefinitionID,
			"status":        s.Status,
			"partial":       s.Partial,
			"started_at":    s.StartTime,
		})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": summaries})
}

// Get returns session progress without the answer log's scoring internals.
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.Service.GetSession(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":                  session.ID,
		"definition_id":       session.DefinitionID,
		"status":              session.Status,
		"state":               session.State,
		"partial":             session.Partial,
		"questions_asked":     len(session.AskedQuestionIDs),
		"pending_question_id": session.PendingQuestionID,
		"started_at":          session.StartTime,
	})
}

// Report recomputes the competency snapshot from the session log.
func (h *SessionHandler) Report(c *gin.Context) {
	snapshot, err := h.Service.GetReport(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
