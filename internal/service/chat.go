package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"batepapo/internal/domain"
	"batepapo/internal/repository"
	"batepapo/pkg/errors"
	"batepapo/pkg/logger"
)

const timeLayout = "15:04:05"

type ChatService interface {
	Register(ctx context.Context, name string) (*domain.Participant, error)
	ListParticipants(ctx context.Context) ([]domain.Participant, error)
	PostMessage(ctx context.Context, sender, to, text, msgType string) (*domain.Message, error)
	ListMessages(ctx context.Context, requester string, limit int) ([]domain.Message, error)
	Heartbeat(ctx context.Context, name string) error
	DeleteMessage(ctx context.Context, id primitive.ObjectID, requester string) error
}

type chatService struct {
	participantRepo repository.ParticipantRepository
	messageRepo     repository.MessageRepository
	log             logger.Logger
}

func NewChatService(participantRepo repository.ParticipantRepository, messageRepo repository.MessageRepository, log logger.Logger) ChatService {
	return &chatService{
		participantRepo: participantRepo,
		messageRepo:     messageRepo,
		log:             log,
	}
}

// Register inserts the participant and then announces the arrival. Uniqueness
// is enforced by the store itself, so concurrent registrations of the same
// name cannot both succeed. The join notice is appended only after the insert
// is durable; if it fails the registration still stands (no transaction spans
// the two collections).
func (s *chatService) Register(ctx context.Context, name string) (*domain.Participant, error) {
	now := time.Now()
	participant := &domain.Participant{
		Name:       name,
		LastStatus: now.UnixMilli(),
	}

	if err := s.participantRepo.Register(ctx, participant); err != nil {
		return nil, err
	}

	notice := &domain.Message{
		From: name,
		To:   domain.BroadcastTarget,
		Text: "joined the room",
		Type: domain.MessageTypeStatus,
		Time: now.Format(timeLayout),
	}
	if err := s.messageRepo.Append(ctx, notice); err != nil {
		s.log.Warn("Failed to append join notice", "name", name, "error", err)
	}

	return participant, nil
}

func (s *chatService) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	return s.participantRepo.List(ctx)
}

func (s *chatService) PostMessage(ctx context.Context, sender, to, text, msgType string) (*domain.Message, error) {
	registered, err := s.participantRepo.Exists(ctx, sender)
	if err != nil {
		return nil, err
	}
	if !registered {
		return nil, errors.ErrSenderNotRegistered
	}

	message := &domain.Message{
		From: sender,
		To:   to,
		Text: text,
		Type: msgType,
		Time: time.Now().Format(timeLayout),
	}
	if err := s.messageRepo.Append(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *chatService) ListMessages(ctx context.Context, requester string, limit int) ([]domain.Message, error) {
	messages, err := s.messageRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	return domain.VisibleTo(requester, messages, limit), nil
}

func (s *chatService) Heartbeat(ctx context.Context, name string) error {
	return s.participantRepo.Touch(ctx, name, time.Now().UnixMilli())
}

// DeleteMessage checks existence before authorship: deleting an unknown id is
// always a not-found, never an authorization failure.
func (s *chatService) DeleteMessage(ctx context.Context, id primitive.ObjectID, requester string) error {
	message, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if message.From != requester {
		return errors.ErrNotMessageAuthor
	}
	return s.messageRepo.Delete(ctx, id)
}
