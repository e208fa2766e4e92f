package events

import (
	"encoding/json"
	"fmt"
)

// Routing keys published on the market exchange.
const (
	RKCheckoutCompleted    = "checkout.completed"
	RKReservationConfirmed = "reservation.confirmed"
	RKReservationRejected  = "reservation.rejected"
	RKReservationPickedUp  = "reservation.picked_up"
	RKEscrowReleased       = "escrow.released"
	RKEscrowHold           = "escrow.hold"
	RKDisputeResolved      = "dispute.resolved"
	RKCompensationGranted  = "compensation.granted"
	RKVerificationDone     = "verification.completed"
	RKSyncFlushed          = "sync.flushed"
)

type CheckoutCompleted struct {
	CheckoutID   string  `json:"checkout_id"`
	Reservations int     `json:"reservations"`
	Total        float64 `json:"total"`
}

type ReservationEvent struct {
	ReservationID string `json:"reservation_id"`
	Status        string `json:"status"`
	Escrow        string `json:"escrow"`
}

type VerificationDone struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	RiskLevel string `json:"risk_level"`
}

type SyncFlushed struct {
	Count int `json:"count"`
}

func MustUnmarshal[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}
