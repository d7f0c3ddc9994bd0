package repository

import (
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"batepapo/pkg/logger"
)

type Repositories struct {
	Participant ParticipantRepository
	Message     MessageRepository
	RateLimit   RateLimitRepository
}

func NewRepositories(db *mongo.Database, redis *redis.Client, log logger.Logger) *Repositories {
	return &Repositories{
		Participant: NewParticipantRepository(db, log),
		Message:     NewMessageRepository(db, log),
		RateLimit:   NewRateLimitRepository(redis, log),
	}
}
