// Package reservation holds the transition rules for a single
// reservation. Every function takes a copy, returns the updated copy
// and whether anything changed; a false result means the precondition
// was not met and the caller should treat the call as a no-op.
package reservation

import (
	"time"

	"github.com/you/dockside-market/internal/domain"
	"github.com/you/dockside-market/internal/policy"
)

// Confirm moves a pending reservation to confirmed.
func Confirm(r domain.Reservation) (domain.Reservation, bool) {
	if r.Status != domain.ReservationPending {
		return r, false
	}
	r.Status = domain.ReservationConfirmed
	return r, true
}

// Reject cancels a pending or confirmed reservation. Escrowed funds
// go back to the buyer.
func Reject(r domain.Reservation) (domain.Reservation, bool) {
	if r.Status != domain.ReservationPending && r.Status != domain.ReservationConfirmed {
		return r, false
	}
	r.Status = domain.ReservationRejected
	if r.CancellationBy == "" {
		r.CancellationBy = domain.RoleFisher
	}
	if r.Escrow == domain.EscrowEscrowed {
		r.Escrow = domain.EscrowRefunded
	}
	return r, true
}

// MarkPickedUp records the handover. Delivery is forced to delivered.
func MarkPickedUp(r domain.Reservation) (domain.Reservation, bool) {
	if r.Status != domain.ReservationConfirmed {
		return r, false
	}
	r.Status = domain.ReservationPickedUp
	r.Delivery = domain.DeliveryDelivered
	return r, true
}

// deliveryOrder makes the delivery progression monotonic.
var deliveryOrder = map[domain.DeliveryStatus]int{
	domain.DeliveryAtSea:           0,
	domain.DeliveryApproachingPort: 1,
	domain.DeliveryArrived:         2,
	domain.DeliveryDelivered:       3,
}

// AdvanceDelivery moves the delivery status forward. Unknown targets
// and backward moves are ignored.
func AdvanceDelivery(r domain.Reservation, to domain.DeliveryStatus) (domain.Reservation, bool) {
	cur, ok := deliveryOrder[r.Delivery]
	next, ok2 := deliveryOrder[to]
	if !ok || !ok2 || next <= cur {
		return r, false
	}
	r.Delivery = to
	return r, true
}

// SetConform records the buyer's judgment that goods match the order.
func SetConform(r domain.Reservation) (domain.Reservation, bool) {
	if r.Conformity == domain.ConformityConform {
		return r, false
	}
	r.Conformity = domain.ConformityConform
	return r, true
}

// SetNonConform opens a dispute: escrow moves to hold and the note is
// kept for the admin.
func SetNonConform(r domain.Reservation, note string) (domain.Reservation, bool) {
	if r.Conformity == domain.ConformityNonConform {
		return r, false
	}
	r.Conformity = domain.ConformityNonConform
	if r.Escrow == domain.EscrowEscrowed {
		r.Escrow = domain.EscrowHold
	}
	r.DisputeNote = note
	return r, true
}

// ReleaseEscrow pays the fisher. Only allowed once the goods were
// picked up and judged conforming.
func ReleaseEscrow(r domain.Reservation) (domain.Reservation, bool) {
	if r.Status != domain.ReservationPickedUp || r.Conformity != domain.ConformityConform {
		return r, false
	}
	if r.Escrow == domain.EscrowReleased {
		return r, false
	}
	r.Escrow = domain.EscrowReleased
	return r, true
}

// ResolveDispute settles a held escrow. pay_fisher also forces the
// reservation to picked_up so the ledger stays coherent.
func ResolveDispute(r domain.Reservation, resolution domain.DisputeResolution, at time.Time) (domain.Reservation, bool) {
	if r.Escrow != domain.EscrowHold {
		return r, false
	}
	switch resolution {
	case domain.ResolutionRefundBuyer:
		r.Escrow = domain.EscrowRefunded
	case domain.ResolutionSplit:
		r.Escrow = domain.EscrowReleased
	case domain.ResolutionPayFisher:
		r.Escrow = domain.EscrowReleased
		if r.Status != domain.ReservationPickedUp {
			r.Status = domain.ReservationPickedUp
		}
	default:
		return r, false
	}
	r.DisputeResolution = resolution
	r.DisputeResolvedAt = &at
	return r, true
}

// RequestBuyerArrival records that the buyer announced being at the
// port. One request per reservation.
func RequestBuyerArrival(r domain.Reservation, at time.Time) (domain.Reservation, bool) {
	if r.Status != domain.ReservationConfirmed || r.BuyerArrivalRequestedAt != nil {
		return r, false
	}
	r.BuyerArrivalRequestedAt = &at
	return r, true
}

// ConfirmBuyerArrival is the fisher acknowledging the buyer on site.
// A missing request timestamp is backfilled.
func ConfirmBuyerArrival(r domain.Reservation, at time.Time) (domain.Reservation, bool) {
	if r.Status != domain.ReservationConfirmed || r.BuyerArrivalConfirmedAt != nil {
		return r, false
	}
	if r.BuyerArrivalRequestedAt == nil {
		r.BuyerArrivalRequestedAt = &at
	}
	r.BuyerArrivalConfirmedAt = &at
	return r, true
}

// DeclareFisherArrival records the fisher docking.
func DeclareFisherArrival(r domain.Reservation, at time.Time) (domain.Reservation, bool) {
	if r.Status != domain.ReservationConfirmed || r.FisherArrivalDeclaredAt != nil {
		return r, false
	}
	r.FisherArrivalDeclaredAt = &at
	return r, true
}

// compensable gates both the delay and the late-cancellation flows:
// confirmed reservation, no compensation yet, and the counterpart's
// arrival already on record.
func compensable(r domain.Reservation, triggeredBy domain.Role) bool {
	if r.Status != domain.ReservationConfirmed || r.Compensation != nil {
		return false
	}
	switch triggeredBy {
	case domain.RoleFisher:
		return r.BuyerArrivalConfirmedAt != nil
	case domain.RoleBuyer:
		return r.FisherArrivalDeclaredAt != nil
	}
	return false
}

// DeclareDelay grants a one-time compensation to the waiting party.
func DeclareDelay(r domain.Reservation, triggeredBy domain.Role, at time.Time) (domain.Reservation, bool) {
	if !compensable(r, triggeredBy) {
		return r, false
	}
	comp := policy.Build(r.TotalPrice, triggeredBy, domain.ReasonLate, at)
	comp.ReservationID = r.ID
	r.Compensation = &comp
	return r, true
}

// CancelAfterArrival compensates the counterpart, rejects the
// reservation and settles escrow against the party who walked away.
func CancelAfterArrival(r domain.Reservation, triggeredBy domain.Role, at time.Time) (domain.Reservation, bool) {
	if !compensable(r, triggeredBy) {
		return r, false
	}
	comp := policy.Build(r.TotalPrice, triggeredBy, domain.ReasonCancelledAfterArrival, at)
	comp.ReservationID = r.ID
	r.Compensation = &comp
	r.Status = domain.ReservationRejected
	r.CancellationBy = triggeredBy
	if triggeredBy == domain.RoleFisher {
		r.Escrow = domain.EscrowRefunded
	} else {
		r.Escrow = domain.EscrowReleased
	}
	return r, true
}
