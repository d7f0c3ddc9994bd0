package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"batepapo/internal/service"
	"batepapo/pkg/logger"
	"batepapo/pkg/sanitize"
)

type StatusHandler struct {
	chat service.ChatService
	log  logger.Logger
}

func NewStatusHandler(chat service.ChatService, log logger.Logger) *StatusHandler {
	return &StatusHandler{chat: chat, log: log}
}

// Heartbeat refreshes the requester's lastStatus so the presence sweep keeps
// them alive.
func (h *StatusHandler) Heartbeat(c *gin.Context) {
	name := sanitize.Clean(c.GetHeader("user"))
	if name == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "user header is required"})
		return
	}

	if err := h.chat.Heartbeat(c.Request.Context(), name); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusOK)
}
