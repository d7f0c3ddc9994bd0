package service

import (
	"context"
	"time"

	"batepapo/internal/repository"
	"batepapo/pkg/logger"
)

type RateLimitService interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type rateLimitService struct {
	rateLimitRepo repository.RateLimitRepository
	requests      int
	window        time.Duration
	log           logger.Logger
}

func NewRateLimitService(rateLimitRepo repository.RateLimitRepository, requests int, window time.Duration, log logger.Logger) RateLimitService {
	return &rateLimitService{
		rateLimitRepo: rateLimitRepo,
		requests:      requests,
		window:        window,
		log:           log,
	}
}

func (s *rateLimitService) Allow(ctx context.Context, key string) (bool, error) {
	return s.rateLimitRepo.Allow(ctx, key, s.requests, s.window)
}
