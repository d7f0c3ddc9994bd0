package service

import (
	"context"
	"sync"
	"time"

	"batepapo/internal/config"
	"batepapo/internal/domain"
	"batepapo/internal/repository"
	"batepapo/pkg/logger"
)

// PresenceReconciler periodically evicts participants whose last heartbeat is
// older than the stale threshold, announcing each departure in the message log.
type PresenceReconciler struct {
	participantRepo repository.ParticipantRepository
	messageRepo     repository.MessageRepository
	sweepInterval   time.Duration
	staleThreshold  time.Duration
	log             logger.Logger
}

func NewPresenceReconciler(
	participantRepo repository.ParticipantRepository,
	messageRepo repository.MessageRepository,
	cfg config.PresenceConfig,
	log logger.Logger,
) *PresenceReconciler {
	return &PresenceReconciler{
		participantRepo: participantRepo,
		messageRepo:     messageRepo,
		sweepInterval:   cfg.SweepInterval,
		staleThreshold:  cfg.StaleThreshold,
		log:             log,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (r *PresenceReconciler) Run(ctx context.Context) error {
	r.log.Info("Starting presence reconciler",
		"sweepInterval", r.sweepInterval,
		"staleThreshold", r.staleThreshold,
	)

	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Presence reconciler stopped")
			return ctx.Err()
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep evaluates every participant once. Stale participants are expired
// concurrently, but the sweep returns only after all expiries have finished.
func (r *PresenceReconciler) Sweep(ctx context.Context) {
	participants, err := r.participantRepo.List(ctx)
	if err != nil {
		r.log.Error("Failed to snapshot participants, skipping sweep", "error", err)
		return
	}

	cutoff := time.Now().Add(-r.staleThreshold).UnixMilli()

	var wg sync.WaitGroup
	for _, p := range participants {
		if p.LastStatus >= cutoff {
			continue
		}
		wg.Add(1)
		go func(p domain.Participant) {
			defer wg.Done()
			r.expire(ctx, p)
		}(p)
	}
	wg.Wait()
}

// expire announces the departure and then removes the participant, in that
// order: the removal must never race ahead of its audit message. A failure
// abandons this participant's expiry for the tick; the next sweep will
// re-evaluate it.
func (r *PresenceReconciler) expire(ctx context.Context, p domain.Participant) {
	notice := &domain.Message{
		From: p.Name,
		To:   domain.BroadcastTarget,
		Text: "left the room",
		Type: domain.MessageTypeStatus,
		Time: time.Now().Format(timeLayout),
	}
	if err := r.messageRepo.Append(ctx, notice); err != nil {
		r.log.Error("Failed to append leave notice, expiry postponed", "name", p.Name, "error", err)
		return
	}

	if err := r.participantRepo.Remove(ctx, p.Name); err != nil {
		r.log.Error("Failed to remove stale participant", "name", p.Name, "error", err)
		return
	}

	r.log.Info("Participant expired", "name", p.Name)
}
