package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"batepapo/internal/domain"
	"batepapo/internal/repository"
	"batepapo/pkg/errors"
	"batepapo/pkg/logger"
)

func newChatFixture() (ChatService, *repository.MemoryParticipantRepository, *repository.MemoryMessageRepository) {
	participants := repository.NewMemoryParticipantRepository()
	messages := repository.NewMemoryMessageRepository()
	chat := NewChatService(participants, messages, logger.New("error"))
	return chat, participants, messages
}

func TestRegister_AppendsJoinNotice(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	chat, participants, messages := newChatFixture()

	participant, err := chat.Register(ctx, "Alice")
	req.NoError(err)
	req.Equal("Alice", participant.Name)
	req.Positive(participant.LastStatus)

	exists, err := participants.Exists(ctx, "Alice")
	req.NoError(err)
	req.True(exists)

	all, err := messages.All(ctx)
	req.NoError(err)
	req.Len(all, 1)
	req.Equal("Alice", all[0].From)
	req.Equal(domain.BroadcastTarget, all[0].To)
	req.Equal(domain.MessageTypeStatus, all[0].Type)
	req.Equal("joined the room", all[0].Text)
}

func TestRegister_DuplicateNameConflicts(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	chat, _, messages := newChatFixture()

	_, err := chat.Register(ctx, "Alice")
	req.NoError(err)

	_, err = chat.Register(ctx, "Alice")
	req.ErrorIs(err, errors.ErrNameTaken)

	// No second join notice for the rejected registration.
	all, err := messages.All(ctx)
	req.NoError(err)
	req.Len(all, 1)
}

func TestHeartbeat_IsMonotonic(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	chat, participants, _ := newChatFixture()

	registered, err := chat.Register(ctx, "Alice")
	req.NoError(err)

	time.Sleep(5 * time.Millisecond)
	req.NoError(chat.Heartbeat(ctx, "Alice"))

	list, err := participants.List(ctx)
	req.NoError(err)
	req.Len(list, 1)
	req.GreaterOrEqual(list[0].LastStatus, registered.LastStatus)
}

func TestHeartbeat_UnknownParticipant(t *testing.T) {
	req := require.New(t)
	chat, _, _ := newChatFixture()

	err := chat.Heartbeat(context.Background(), "ghost")
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestPostMessage_RequiresRegisteredSender(t *testing.T) {
	req := require.New(t)
	chat, _, _ := newChatFixture()

	_, err := chat.PostMessage(context.Background(), "Bob", domain.BroadcastTarget, "hi", domain.MessageTypePublic)
	req.ErrorIs(err, errors.ErrSenderNotRegistered)
}

func TestPostMessage_AppendsInOrder(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	chat, _, _ := newChatFixture()

	_, err := chat.Register(ctx, "Alice")
	req.NoError(err)

	first, err := chat.PostMessage(ctx, "Alice", domain.BroadcastTarget, "first", domain.MessageTypePublic)
	req.NoError(err)
	req.False(first.ID.IsZero())

	_, err = chat.PostMessage(ctx, "Alice", domain.BroadcastTarget, "second", domain.MessageTypePublic)
	req.NoError(err)

	visible, err := chat.ListMessages(ctx, "Alice", 0)
	req.NoError(err)
	req.Len(visible, 3)
	req.Equal("joined the room", visible[0].Text)
	req.Equal("first", visible[1].Text)
	req.Equal("second", visible[2].Text)
}

func TestListMessages_UnregisteredRequesterSeesPublicFeed(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	chat, _, _ := newChatFixture()

	_, err := chat.Register(ctx, "Alice")
	req.NoError(err)
	_, err = chat.PostMessage(ctx, "Alice", domain.BroadcastTarget, "hi all", domain.MessageTypePublic)
	req.NoError(err)
	_, err = chat.PostMessage(ctx, "Alice", "Carol", "for carol only", domain.MessageTypePrivate)
	req.NoError(err)

	// Bob never registered: public broadcasts and status notices are still
	// visible to him, the private message is not.
	visible, err := chat.ListMessages(ctx, "Bob", 0)
	req.NoError(err)
	req.Len(visible, 2)
	req.Equal("joined the room", visible[0].Text)
	req.Equal("hi all", visible[1].Text)
}

func TestDeleteMessage_AuthorOnly(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	chat, _, messages := newChatFixture()

	_, err := chat.Register(ctx, "Alice")
	req.NoError(err)
	posted, err := chat.PostMessage(ctx, "Alice", domain.BroadcastTarget, "delete me", domain.MessageTypePublic)
	req.NoError(err)

	err = chat.DeleteMessage(ctx, posted.ID, "Bob")
	req.ErrorIs(err, errors.ErrNotMessageAuthor)

	_, err = messages.GetByID(ctx, posted.ID)
	req.NoError(err)

	req.NoError(chat.DeleteMessage(ctx, posted.ID, "Alice"))
	_, err = messages.GetByID(ctx, posted.ID)
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestDeleteMessage_UnknownIDIsNotFoundNotForbidden(t *testing.T) {
	req := require.New(t)
	chat, _, _ := newChatFixture()

	err := chat.DeleteMessage(context.Background(), primitive.NewObjectID(), "Bob")
	req.ErrorIs(err, errors.ErrNotFound)
	req.NotErrorIs(err, errors.ErrNotMessageAuthor)
}
