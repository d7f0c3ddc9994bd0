package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"batepapo/internal/service"
	"batepapo/internal/validation"
	"batepapo/pkg/logger"
	"batepapo/pkg/sanitize"
)

type MessageHandler struct {
	chat service.ChatService
	log  logger.Logger
}

func NewMessageHandler(chat service.ChatService, log logger.Logger) *MessageHandler {
	return &MessageHandler{chat: chat, log: log}
}

type PostMessageRequest struct {
	To   string `json:"to" validate:"required"`
	Text string `json:"text" validate:"required"`
	Type string `json:"type" validate:"required,oneof=message private_message"`
}

func (h *MessageHandler) Post(c *gin.Context) {
	sender := sanitize.Clean(c.GetHeader("user"))
	if sender == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": validation.Errors{{Field: "user", Message: "header is required"}},
		})
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": validation.Errors{{Field: "body", Message: "must be valid JSON"}},
		})
		return
	}

	req.To = sanitize.Clean(req.To)
	req.Text = sanitize.Clean(req.Text)
	req.Type = sanitize.Clean(req.Type)
	if errs := validation.Check(&req); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	message, err := h.chat.PostMessage(c.Request.Context(), sender, req.To, req.Text, req.Type)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) List(c *gin.Context) {
	requester := sanitize.Clean(c.GetHeader("user"))
	if requester == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "user header is required"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"errors": validation.Errors{{Field: "limit", Message: "must be a positive integer"}},
			})
			return
		}
		limit = n
	}

	messages, err := h.chat.ListMessages(c.Request.Context(), requester, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	requester := sanitize.Clean(c.GetHeader("user"))
	if requester == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "user header is required"})
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}

	if err := h.chat.DeleteMessage(c.Request.Context(), id, requester); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusOK)
}
