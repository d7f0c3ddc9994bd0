package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"batepapo/internal/config"
	"batepapo/internal/domain"
	"batepapo/internal/middleware"
	"batepapo/internal/repository"
	"batepapo/internal/service"
	"batepapo/pkg/logger"
)

type apiFixture struct {
	router       *gin.Engine
	participants *repository.MemoryParticipantRepository
	messages     *repository.MemoryMessageRepository
	reconciler   *service.PresenceReconciler
}

func newAPIFixture() *apiFixture {
	gin.SetMode(gin.TestMode)
	log := logger.New("error")

	participants := repository.NewMemoryParticipantRepository()
	messages := repository.NewMemoryMessageRepository()
	chat := service.NewChatService(participants, messages, log)
	reconciler := service.NewPresenceReconciler(participants, messages, config.PresenceConfig{
		SweepInterval:  15 * time.Second,
		StaleThreshold: 10 * time.Second,
	}, log)

	handlers := &Handlers{
		Health:      NewHealthHandler(),
		Participant: NewParticipantHandler(chat, log),
		Message:     NewMessageHandler(chat, log),
		Status:      NewStatusHandler(chat, log),
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.GET("/health", handlers.Health.Check)
	router.POST("/participants", handlers.Participant.Register)
	router.GET("/participants", handlers.Participant.List)
	router.POST("/messages", handlers.Message.Post)
	router.GET("/messages", handlers.Message.List)
	router.DELETE("/messages/:id", handlers.Message.Delete)
	router.POST("/status", handlers.Status.Heartbeat)

	return &apiFixture{
		router:       router,
		participants: participants,
		messages:     messages,
		reconciler:   reconciler,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	httpReq := httptest.NewRequest(method, path, reader)
	httpReq.Header.Set("Content-Type", "application/json")
	if user != "" {
		httpReq.Header.Set("user", user)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httpReq)
	return rec
}

func decodeMessages(t *testing.T, rec *httptest.ResponseRecorder) []domain.Message {
	t.Helper()
	var out []domain.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRegisterEndpoint(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture()

	rec := f.do(t, http.MethodPost, "/participants", "", gin.H{"name": "Alice"})
	req.Equal(http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/participants", "", gin.H{"name": "Alice"})
	req.Equal(http.StatusConflict, rec.Code)

	// A name that is nothing but markup sanitizes to empty and fails
	// validation with a field list.
	rec = f.do(t, http.MethodPost, "/participants", "", gin.H{"name": "<b></b>"})
	req.Equal(http.StatusUnprocessableEntity, rec.Code)
	req.Contains(rec.Body.String(), `"field":"name"`)

	// Markup around a real name is stripped before storage.
	rec = f.do(t, http.MethodPost, "/participants", "", gin.H{"name": " <i>Carol</i> "})
	req.Equal(http.StatusCreated, rec.Code)
	exists, err := f.participants.Exists(context.Background(), "Carol")
	req.NoError(err)
	req.True(exists)
}

func TestMessageEndpoints_PublicFeedScenario(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture()

	rec := f.do(t, http.MethodPost, "/participants", "", gin.H{"name": "Alice"})
	req.Equal(http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/messages", "Alice", gin.H{
		"to":   "Todos",
		"text": "hi",
		"type": "message",
	})
	req.Equal(http.StatusCreated, rec.Code)

	// Bob never registered, yet the public feed is visible to him.
	rec = f.do(t, http.MethodGet, "/messages", "Bob", nil)
	req.Equal(http.StatusOK, rec.Code)
	msgs := decodeMessages(t, rec)
	req.Len(msgs, 2)
	req.Equal("joined the room", msgs[0].Text)
	req.Equal("hi", msgs[1].Text)

	// Missing user header is a not-found, not an empty feed.
	rec = f.do(t, http.MethodGet, "/messages", "", nil)
	req.Equal(http.StatusNotFound, rec.Code)

	// Unregistered senders cannot post.
	rec = f.do(t, http.MethodPost, "/messages", "Bob", gin.H{
		"to":   "Todos",
		"text": "hi",
		"type": "message",
	})
	req.Equal(http.StatusUnprocessableEntity, rec.Code)

	// The status type is reserved for server-generated notices.
	rec = f.do(t, http.MethodPost, "/messages", "Alice", gin.H{
		"to":   "Todos",
		"text": "hi",
		"type": "status",
	})
	req.Equal(http.StatusUnprocessableEntity, rec.Code)
	req.Contains(rec.Body.String(), `"field":"type"`)
}

func TestMessageEndpoints_Limit(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture()

	rec := f.do(t, http.MethodPost, "/participants", "", gin.H{"name": "Alice"})
	req.Equal(http.StatusCreated, rec.Code)
	for _, text := range []string{"one", "two", "three"} {
		rec = f.do(t, http.MethodPost, "/messages", "Alice", gin.H{
			"to":   "Todos",
			"text": text,
			"type": "message",
		})
		req.Equal(http.StatusCreated, rec.Code)
	}

	// Most recent two of the filtered feed, oldest first.
	rec = f.do(t, http.MethodGet, "/messages?limit=2", "Bob", nil)
	req.Equal(http.StatusOK, rec.Code)
	msgs := decodeMessages(t, rec)
	req.Len(msgs, 2)
	req.Equal("two", msgs[0].Text)
	req.Equal("three", msgs[1].Text)

	rec = f.do(t, http.MethodGet, "/messages?limit=abc", "Bob", nil)
	req.Equal(http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodGet, "/messages?limit=0", "Bob", nil)
	req.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func TestDeleteMessageEndpoint(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newAPIFixture()

	rec := f.do(t, http.MethodPost, "/participants", "", gin.H{"name": "Alice"})
	req.Equal(http.StatusCreated, rec.Code)
	rec = f.do(t, http.MethodPost, "/messages", "Alice", gin.H{
		"to":   "Todos",
		"text": "delete me",
		"type": "message",
	})
	req.Equal(http.StatusCreated, rec.Code)

	all, err := f.messages.All(ctx)
	req.NoError(err)
	id := all[len(all)-1].ID.Hex()

	rec = f.do(t, http.MethodDelete, "/messages/"+id, "Bob", nil)
	req.Equal(http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodDelete, "/messages/"+id, "Alice", nil)
	req.Equal(http.StatusOK, rec.Code)

	// Repeating the delete is a not-found, never an authorization failure.
	rec = f.do(t, http.MethodDelete, "/messages/"+id, "Bob", nil)
	req.Equal(http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodDelete, "/messages/not-a-hex-id", "Alice", nil)
	req.Equal(http.StatusNotFound, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture()

	rec := f.do(t, http.MethodPost, "/status", "", nil)
	req.Equal(http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/status", "ghost", nil)
	req.Equal(http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/participants", "", gin.H{"name": "Alice"})
	req.Equal(http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/status", "Alice", nil)
	req.Equal(http.StatusOK, rec.Code)
}

func TestSweepEvictsSilentParticipant(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newAPIFixture()

	rec := f.do(t, http.MethodPost, "/participants", "", gin.H{"name": "Alice"})
	req.Equal(http.StatusCreated, rec.Code)

	// Alice goes silent for longer than the stale threshold.
	stale := time.Now().Add(-11 * time.Second).UnixMilli()
	req.NoError(f.participants.Touch(ctx, "Alice", stale))

	f.reconciler.Sweep(ctx)

	rec = f.do(t, http.MethodGet, "/participants", "", nil)
	req.Equal(http.StatusOK, rec.Code)
	req.Equal("[]", rec.Body.String())

	rec = f.do(t, http.MethodGet, "/messages", "Bob", nil)
	req.Equal(http.StatusOK, rec.Code)
	msgs := decodeMessages(t, rec)
	req.Len(msgs, 2)
	req.Equal("joined the room", msgs[0].Text)
	req.Equal("left the room", msgs[1].Text)
	req.Equal(domain.MessageTypeStatus, msgs[1].Type)
}
