package handler

import (
	"batepapo/internal/service"
	"batepapo/pkg/logger"
)

type Handlers struct {
	Health      *HealthHandler
	Participant *ParticipantHandler
	Message     *MessageHandler
	Status      *StatusHandler
}

func NewHandlers(services *service.Services, log logger.Logger) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(),
		Participant: NewParticipantHandler(services.Chat, log),
		Message:     NewMessageHandler(services.Chat, log),
		Status:      NewStatusHandler(services.Chat, log),
	}
}
