package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"batepapo/internal/domain"
	"batepapo/internal/service"
	"batepapo/internal/validation"
	"batepapo/pkg/logger"
	"batepapo/pkg/sanitize"
)

type ParticipantHandler struct {
	chat service.ChatService
	log  logger.Logger
}

func NewParticipantHandler(chat service.ChatService, log logger.Logger) *ParticipantHandler {
	return &ParticipantHandler{chat: chat, log: log}
}

type RegisterRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *ParticipantHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": validation.Errors{{Field: "body", Message: "must be valid JSON"}},
		})
		return
	}

	// Strip markup before validating, so a name that is nothing but tags
	// fails the required check.
	req.Name = sanitize.Clean(req.Name)
	if errs := validation.Check(&req); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	participant, err := h.chat.Register(c.Request.Context(), req.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, participant)
}

func (h *ParticipantHandler) List(c *gin.Context) {
	participants, err := h.chat.ListParticipants(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	if participants == nil {
		participants = []domain.Participant{}
	}
	c.JSON(http.StatusOK, participants)
}
