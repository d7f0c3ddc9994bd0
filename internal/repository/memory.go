package repository

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"batepapo/internal/domain"
	"batepapo/pkg/errors"
)

// In-memory implementations of the store contracts. They back the unit tests,
// which cannot assume a running MongoDB, and honor the same error semantics as
// the mongo-backed repositories.

type MemoryParticipantRepository struct {
	mu           sync.Mutex
	participants map[string]domain.Participant
}

func NewMemoryParticipantRepository() *MemoryParticipantRepository {
	return &MemoryParticipantRepository{participants: make(map[string]domain.Participant)}
}

func (r *MemoryParticipantRepository) Register(_ context.Context, participant *domain.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.participants[participant.Name]; ok {
		return errors.ErrNameTaken
	}
	r.participants[participant.Name] = *participant
	return nil
}

func (r *MemoryParticipantRepository) Touch(_ context.Context, name string, lastStatus int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[name]
	if !ok {
		return errors.ErrNotFound
	}
	p.LastStatus = lastStatus
	r.participants[name] = p
	return nil
}

func (r *MemoryParticipantRepository) List(_ context.Context) ([]domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Participant, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, p)
	}
	return out, nil
}

func (r *MemoryParticipantRepository) Remove(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.participants, name)
	return nil
}

func (r *MemoryParticipantRepository) Exists(_ context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.participants[name]
	return ok, nil
}

type MemoryMessageRepository struct {
	mu       sync.Mutex
	messages []domain.Message
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{}
}

func (r *MemoryMessageRepository) Append(_ context.Context, message *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message.ID = primitive.NewObjectID()
	r.messages = append(r.messages, *message)
	return nil
}

func (r *MemoryMessageRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id {
			copied := m
			return &copied, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (r *MemoryMessageRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.messages {
		if m.ID == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *MemoryMessageRepository) All(_ context.Context) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Message, len(r.messages))
	copy(out, r.messages)
	return out, nil
}
