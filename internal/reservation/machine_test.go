package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/dockside-market/internal/domain"
	"github.com/you/dockside-market/internal/policy"
)

var at = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func fresh() domain.Reservation {
	return domain.Reservation{
		ID:         "r1",
		QtyKg:      8,
		TotalPrice: 144,
		Status:     domain.ReservationPending,
		Escrow:     domain.EscrowEscrowed,
		Delivery:   domain.DeliveryAtSea,
		Conformity: domain.ConformityPending,
	}
}

func confirmed() domain.Reservation {
	r, ok := Confirm(fresh())
	if !ok {
		panic("confirm failed")
	}
	return r
}

func TestConfirm(t *testing.T) {
	r, ok := Confirm(fresh())
	require.True(t, ok)
	assert.Equal(t, domain.ReservationConfirmed, r.Status)

	// only from pending
	_, ok = Confirm(r)
	assert.False(t, ok)
}

func TestRejectRefundsEscrow(t *testing.T) {
	r, ok := Reject(confirmed())
	require.True(t, ok)
	assert.Equal(t, domain.ReservationRejected, r.Status)
	assert.Equal(t, domain.EscrowRefunded, r.Escrow)
	assert.Equal(t, domain.RoleFisher, r.CancellationBy)

	_, ok = Reject(r)
	assert.False(t, ok, "terminal state")
}

func TestMarkPickedUp(t *testing.T) {
	_, ok := MarkPickedUp(fresh())
	assert.False(t, ok, "pending cannot be picked up")

	r, ok := MarkPickedUp(confirmed())
	require.True(t, ok)
	assert.Equal(t, domain.ReservationPickedUp, r.Status)
	assert.Equal(t, domain.DeliveryDelivered, r.Delivery)
}

func TestAdvanceDeliveryMonotonic(t *testing.T) {
	r := fresh()
	r, ok := AdvanceDelivery(r, domain.DeliveryApproachingPort)
	require.True(t, ok)
	r, ok = AdvanceDelivery(r, domain.DeliveryArrived)
	require.True(t, ok)

	_, ok = AdvanceDelivery(r, domain.DeliveryAtSea)
	assert.False(t, ok, "no reverse transition")
	_, ok = AdvanceDelivery(r, domain.DeliveryArrived)
	assert.False(t, ok, "no self transition")
	_, ok = AdvanceDelivery(r, "teleported")
	assert.False(t, ok)
}

func TestNonConformHoldsEscrow(t *testing.T) {
	r, ok := SetNonConform(confirmed(), "half the crate was ice")
	require.True(t, ok)
	assert.Equal(t, domain.ConformityNonConform, r.Conformity)
	assert.Equal(t, domain.EscrowHold, r.Escrow)
	assert.Equal(t, "half the crate was ice", r.DisputeNote)
}

func TestReleaseEscrowGuard(t *testing.T) {
	// confirmed + conform is not enough: pickup must have happened
	r := confirmed()
	r.Conformity = domain.ConformityConform
	_, ok := ReleaseEscrow(r)
	assert.False(t, ok)

	// picked up but conformity still pending
	r, _ = MarkPickedUp(confirmed())
	_, ok = ReleaseEscrow(r)
	assert.False(t, ok)

	// picked up + conform releases
	r.Conformity = domain.ConformityConform
	r, ok = ReleaseEscrow(r)
	require.True(t, ok)
	assert.Equal(t, domain.EscrowReleased, r.Escrow)

	_, ok = ReleaseEscrow(r)
	assert.False(t, ok, "already released")
}

func TestEscrowHoldOnlyLeavesViaDispute(t *testing.T) {
	r, _ := SetNonConform(confirmed(), "damaged")
	require.Equal(t, domain.EscrowHold, r.Escrow)

	// none of the ordinary paths may touch a held escrow
	r2, ok := ReleaseEscrow(r)
	assert.False(t, ok)
	assert.Equal(t, domain.EscrowHold, r2.Escrow)

	r2, _ = Reject(r)
	assert.Equal(t, domain.EscrowHold, r2.Escrow, "reject must not refund a held escrow")
}

func TestResolveDispute(t *testing.T) {
	held := func() domain.Reservation {
		r, _ := SetNonConform(confirmed(), "damaged")
		return r
	}

	r, ok := ResolveDispute(held(), domain.ResolutionRefundBuyer, at)
	require.True(t, ok)
	assert.Equal(t, domain.EscrowRefunded, r.Escrow)
	assert.Equal(t, domain.ResolutionRefundBuyer, r.DisputeResolution)
	require.NotNil(t, r.DisputeResolvedAt)

	r, ok = ResolveDispute(held(), domain.ResolutionSplit, at)
	require.True(t, ok)
	assert.Equal(t, domain.EscrowReleased, r.Escrow)

	r, ok = ResolveDispute(held(), domain.ResolutionPayFisher, at)
	require.True(t, ok)
	assert.Equal(t, domain.EscrowReleased, r.Escrow)
	assert.Equal(t, domain.ReservationPickedUp, r.Status, "pay_fisher forces picked_up")

	// only from hold
	_, ok = ResolveDispute(confirmed(), domain.ResolutionRefundBuyer, at)
	assert.False(t, ok)
	// unknown resolution
	_, ok = ResolveDispute(held(), "coin_flip", at)
	assert.False(t, ok)
}

func TestArrivalHandshake(t *testing.T) {
	r, ok := RequestBuyerArrival(confirmed(), at)
	require.True(t, ok)
	require.NotNil(t, r.BuyerArrivalRequestedAt)

	_, ok = RequestBuyerArrival(r, at.Add(time.Minute))
	assert.False(t, ok, "one request per reservation")

	r, ok = ConfirmBuyerArrival(r, at.Add(time.Minute))
	require.True(t, ok)
	require.NotNil(t, r.BuyerArrivalConfirmedAt)

	_, ok = ConfirmBuyerArrival(r, at.Add(2*time.Minute))
	assert.False(t, ok)
}

func TestConfirmBuyerArrivalBackfillsRequest(t *testing.T) {
	r, ok := ConfirmBuyerArrival(confirmed(), at)
	require.True(t, ok)
	require.NotNil(t, r.BuyerArrivalRequestedAt)
	assert.Equal(t, at, *r.BuyerArrivalRequestedAt)
}

func TestDeclareFisherArrival(t *testing.T) {
	r, ok := DeclareFisherArrival(confirmed(), at)
	require.True(t, ok)
	require.NotNil(t, r.FisherArrivalDeclaredAt)

	_, ok = DeclareFisherArrival(r, at)
	assert.False(t, ok)

	_, ok = DeclareFisherArrival(fresh(), at)
	assert.False(t, ok, "only confirmed reservations")
}

func TestDeclareDelayRequiresCounterpartArrival(t *testing.T) {
	// fisher delay requires the buyer to be confirmed on site
	_, ok := DeclareDelay(confirmed(), domain.RoleFisher, at)
	assert.False(t, ok, "no buyer arrival on record")

	r, _ := ConfirmBuyerArrival(confirmed(), at)
	r, ok = DeclareDelay(r, domain.RoleFisher, at.Add(30*time.Minute))
	require.True(t, ok)
	require.NotNil(t, r.Compensation)
	assert.Equal(t, domain.RoleBuyer, r.Compensation.Beneficiary)
	assert.Equal(t, domain.ReasonLate, r.Compensation.Reason)
	assert.Equal(t, policy.Amount(144), r.Compensation.Amount)
}

func TestDeclareDelayIdempotent(t *testing.T) {
	r, _ := ConfirmBuyerArrival(confirmed(), at)
	r, ok := DeclareDelay(r, domain.RoleFisher, at)
	require.True(t, ok)
	first := *r.Compensation

	_, ok = DeclareDelay(r, domain.RoleFisher, at.Add(time.Hour))
	assert.False(t, ok, "second delay is a no-op")
	assert.Equal(t, first, *r.Compensation)
}

func TestBuyerDelayRequiresFisherArrival(t *testing.T) {
	_, ok := DeclareDelay(confirmed(), domain.RoleBuyer, at)
	assert.False(t, ok)

	r, _ := DeclareFisherArrival(confirmed(), at)
	r, ok = DeclareDelay(r, domain.RoleBuyer, at)
	require.True(t, ok)
	assert.Equal(t, domain.RoleFisher, r.Compensation.Beneficiary)
}

func TestCancelAfterArrival(t *testing.T) {
	// fisher walks away after the buyer showed up: buyer is refunded
	r, _ := ConfirmBuyerArrival(confirmed(), at)
	r, ok := CancelAfterArrival(r, domain.RoleFisher, at)
	require.True(t, ok)
	assert.Equal(t, domain.ReservationRejected, r.Status)
	assert.Equal(t, domain.RoleFisher, r.CancellationBy)
	assert.Equal(t, domain.EscrowRefunded, r.Escrow)
	require.NotNil(t, r.Compensation)
	assert.Equal(t, domain.ReasonCancelledAfterArrival, r.Compensation.Reason)
	assert.Equal(t, domain.RoleBuyer, r.Compensation.Beneficiary)

	// buyer walks away after the fisher docked: fisher keeps the money
	r2, _ := DeclareFisherArrival(confirmed(), at)
	r2, ok = CancelAfterArrival(r2, domain.RoleBuyer, at)
	require.True(t, ok)
	assert.Equal(t, domain.EscrowReleased, r2.Escrow)
	assert.Equal(t, domain.RoleFisher, r2.Compensation.Beneficiary)
}

func TestCancelAfterArrivalPreconditions(t *testing.T) {
	_, ok := CancelAfterArrival(confirmed(), domain.RoleFisher, at)
	assert.False(t, ok, "no arrival on record")

	r, _ := ConfirmBuyerArrival(confirmed(), at)
	r, _ = DeclareDelay(r, domain.RoleFisher, at)
	_, ok = CancelAfterArrival(r, domain.RoleFisher, at)
	assert.False(t, ok, "compensation already granted")
}

func TestHappyPathEndToEnd(t *testing.T) {
	// buyer reserves 8kg at 18 EUR/kg, fisher confirms, hands over,
	// buyer approves and releases
	r := fresh()
	r, ok := Confirm(r)
	require.True(t, ok)
	r, ok = MarkPickedUp(r)
	require.True(t, ok)
	r, ok = SetConform(r)
	require.True(t, ok)
	r, ok = ReleaseEscrow(r)
	require.True(t, ok)

	assert.Equal(t, domain.ReservationPickedUp, r.Status)
	assert.Equal(t, domain.EscrowReleased, r.Escrow)
	assert.Equal(t, domain.ConformityConform, r.Conformity)
	assert.Equal(t, 144.0, r.TotalPrice, "total price never recomputed")
}
