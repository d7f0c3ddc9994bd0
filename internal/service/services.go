package service

import (
	"batepapo/internal/config"
	"batepapo/internal/repository"
	"batepapo/pkg/logger"
)

type Services struct {
	Chat      ChatService
	RateLimit RateLimitService
	Presence  *PresenceReconciler
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log logger.Logger) *Services {
	return &Services{
		Chat:      NewChatService(repos.Participant, repos.Message, log),
		RateLimit: NewRateLimitService(repos.RateLimit, cfg.RateLimit.Requests, cfg.RateLimit.Window, log),
		Presence:  NewPresenceReconciler(repos.Participant, repos.Message, cfg.Presence, log),
	}
}
