package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"practice-service/internal/service"
)

type AttemptHandler struct {
	Service *service.AttemptService
}

func NewAttemptHandler(s *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{Service: s}
}

// Submit scores a finished quiz and returns the result together with the
// assembled practice list.
func (h *AttemptHandler) Submit(c *gin.Context) {
	var sub service.AttemptSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(sub.PartIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "part_ids is required"})
		return
	}

	userID := c.GetString("userID")
	resp, err := h.Service.Submit(context.Background(), userID, sub)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
