package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/dockside-market/internal/domain"
)

func TestOfflineMutationsAreQueued(t *testing.T) {
	f := newFixture(t, nil)
	r := f.checkout(t, 8)
	require.Empty(t, f.svc.PendingActions(ctx), "online mutations are not queued")

	f.svc.SetOnline(false)
	f.svc.Confirm(ctx, fisher, r.ID)
	f.svc.MarkPickedUp(ctx, fisher, r.ID)

	pending := f.svc.PendingActions(ctx)
	require.Len(t, pending, 2)
	assert.Equal(t, "reservation.confirmed", pending[0].Type)
	assert.Equal(t, "reservation.picked_up", pending[1].Type)

	// the mutation itself is applied locally, only the sync is deferred
	cur := f.svc.Reservation(ctx, r.ID)
	assert.Equal(t, domain.ReservationPickedUp, cur.Status)
}

func TestFlushMovesQueueToHistory(t *testing.T) {
	f := newFixture(t, nil)
	r := f.checkout(t, 8)
	f.svc.SetOnline(false)
	f.svc.Confirm(ctx, fisher, r.ID)

	// flushing while offline does nothing
	assert.Equal(t, 0, f.svc.Flush(ctx))
	require.Len(t, f.svc.PendingActions(ctx), 1)

	f.svc.SetOnline(true)
	assert.Equal(t, 1, f.svc.Flush(ctx))
	assert.Empty(t, f.svc.PendingActions(ctx))
	require.Len(t, f.svc.SyncHistory(ctx), 1)
	assert.True(t, f.notifier.has("Sync complete"))

	// nothing left: a second flush is quiet
	assert.Equal(t, 0, f.svc.Flush(ctx))
}

func TestDeferredFlushAfterReconnect(t *testing.T) {
	f := newFixture(t, func(d *Deps) { d.FlushDelay = 10 * time.Millisecond })
	r := f.checkout(t, 8)
	f.svc.SetOnline(false)
	f.svc.Confirm(ctx, fisher, r.ID)

	f.svc.SetOnline(true)
	require.Eventually(t, func() bool {
		return len(f.svc.PendingActions(ctx)) == 0
	}, time.Second, 5*time.Millisecond)
	assert.Len(t, f.svc.SyncHistory(ctx), 1)
}

func TestDeferredFlushAbortsIfOfflineAgain(t *testing.T) {
	f := newFixture(t, func(d *Deps) { d.FlushDelay = 20 * time.Millisecond })
	r := f.checkout(t, 8)
	f.svc.SetOnline(false)
	f.svc.Confirm(ctx, fisher, r.ID)

	// connection flaps before the delayed flush fires
	f.svc.SetOnline(true)
	f.svc.SetOnline(false)

	time.Sleep(60 * time.Millisecond)
	assert.Len(t, f.svc.PendingActions(ctx), 1, "flush must re-check the flag")
	assert.Empty(t, f.svc.SyncHistory(ctx))
}

func TestOfflineCheckoutQueued(t *testing.T) {
	f := newFixture(t, nil)
	f.svc.SetOnline(false)
	r := f.checkout(t, 8)
	require.NotEmpty(t, r.ID, "checkout still works offline")

	pending := f.svc.PendingActions(ctx)
	require.Len(t, pending, 1)
	assert.Equal(t, "checkout", pending[0].Type)
}
