package market

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/you/dockside-market/internal/domain"
)

// queueIfOffline records an operation for later replay when the
// backend is unreachable. Called with s.mu held.
func (s *Service) queueIfOffline(ctx context.Context, actionType, summary string) {
	if s.online {
		return
	}
	a := domain.PendingAction{
		ID:        uuid.NewString(),
		Type:      actionType,
		Summary:   summary,
		CreatedAt: s.now(),
	}
	if err := s.actions.Append(ctx, a); err != nil {
		log.Printf("[market] queue action: %v", err)
	}
}

// Online reports the current reachability flag.
func (s *Service) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// SetOnline is the reachability callback. Flipping to online arms a
// deferred flush; the delay absorbs transient flaps and the flush
// re-checks the flag before doing anything.
func (s *Service) SetOnline(online bool) {
	s.mu.Lock()
	was := s.online
	s.online = online
	delay := s.flushDelay
	s.mu.Unlock()

	if online && !was {
		time.AfterFunc(delay, func() {
			if !s.Online() {
				return
			}
			s.Flush(context.Background())
		})
	}
}

// Flush moves every queued action into the synced history and clears
// the queue. Safe to call manually at any time.
func (s *Service) Flush(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.online {
		return 0
	}
	n, err := s.actions.MarkSynced(ctx, s.now())
	if err != nil {
		log.Printf("[market] flush queue: %v", err)
		return 0
	}
	if n > 0 {
		s.emit(ctx, "sync.flushed", map[string]any{"count": n})
		_ = s.notifier.Notify("Sync complete", fmt.Sprintf("%d offline action(s) synchronised", n))
	}
	return n
}

// PendingActions returns the queue contents.
func (s *Service) PendingActions(ctx context.Context) []domain.PendingAction {
	out, err := s.actions.Pending(ctx)
	if err != nil {
		log.Printf("[market] pending actions: %v", err)
		return nil
	}
	return out
}

// SyncHistory returns already-flushed actions.
func (s *Service) SyncHistory(ctx context.Context) []domain.SyncedAction {
	out, err := s.actions.History(ctx)
	if err != nil {
		log.Printf("[market] sync history: %v", err)
		return nil
	}
	return out
}
