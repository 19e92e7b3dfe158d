package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message  string `json:"message" binding:"required"`
	Language string `json:"language"`
}

// Chat is the conversational intake channel: the assistant answers in
// the citizen's language and returns extracted complaint fields the
// client uses to prefill the submission form.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	if req.Language == "" {
		req.Language = "English"
	}

	result := h.Assistant.Reply(c.Request.Context(), req.Message, req.Language)
	c.JSON(http.StatusOK, result)
}
