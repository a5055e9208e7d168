package api

import (
	"net/http"
	"strings"

	"gourmet/internal/chat"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// GetChat returns the transcript
func (a *API) GetChat(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": currentSession(c).ChatMessages()})
}

// SendChat posts a customer message and returns the assistant reply
func (a *API) SendChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	reply := currentSession(c).SendChat(c.Request.Context(), req.Message)
	c.JSON(http.StatusOK, reply)
}

// ClearChat resets the transcript to the greeting
func (a *API) ClearChat(c *gin.Context) {
	s := currentSession(c)
	s.ClearChat()
	c.JSON(http.StatusOK, gin.H{"messages": s.ChatMessages()})
}

// CreateCompletion is the standalone completion service: it takes a
// role/content conversation and answers its last message
func (a *API) CreateCompletion(c *gin.Context) {
	if a.completion == nil {
		c.JSON(http.StatusServiceUnavailable, chat.CompletionResponse{
			Response: chat.ServiceFallback,
			Error:    "completion provider is not configured",
		})
		return
	}

	var req chat.CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid messages format"})
		return
	}

	reply, err := a.completion.Reply(c.Request.Context(), req.Messages)
	if err != nil {
		a.logger.Errorw("Completion failed", "error", err)
		c.JSON(http.StatusInternalServerError, chat.CompletionResponse{
			Response: chat.ServiceFallback,
			Error:    err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, chat.CompletionResponse{Response: reply})
}
