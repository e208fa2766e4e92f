package domain

import "time"

type Role string

const (
	RoleFisher Role = "fisher"
	RoleBuyer  Role = "buyer"
	RoleAdmin  Role = "admin"
)

// Opposite returns the counterpart marketplace role. Admin has none.
func (r Role) Opposite() Role {
	switch r {
	case RoleFisher:
		return RoleBuyer
	case RoleBuyer:
		return RoleFisher
	}
	return r
}

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationPickedUp  ReservationStatus = "picked_up"
	ReservationRejected  ReservationStatus = "rejected"
)

type EscrowStatus string

const (
	EscrowUnpaid   EscrowStatus = "unpaid"
	EscrowEscrowed EscrowStatus = "escrowed"
	EscrowReleased EscrowStatus = "released"
	EscrowRefunded EscrowStatus = "refunded"
	EscrowHold     EscrowStatus = "hold"
)

type DeliveryStatus string

const (
	DeliveryAtSea           DeliveryStatus = "at_sea"
	DeliveryApproachingPort DeliveryStatus = "approaching_port"
	DeliveryArrived         DeliveryStatus = "arrived"
	DeliveryDelivered       DeliveryStatus = "delivered"
)

type ConformityStatus string

const (
	ConformityPending    ConformityStatus = "pending"
	ConformityConform    ConformityStatus = "conform"
	ConformityNonConform ConformityStatus = "non_conform"
)

type DisputeResolution string

const (
	ResolutionRefundBuyer DisputeResolution = "refund_buyer"
	ResolutionPayFisher   DisputeResolution = "pay_fisher"
	ResolutionSplit       DisputeResolution = "split"
)

type CompensationReason string

const (
	ReasonLate                  CompensationReason = "late"
	ReasonCancelledAfterArrival CompensationReason = "cancelled_after_arrival"
)

// Compensation is a one-time monetary adjustment attached to a reservation.
// Created once, immutable thereafter.
type Compensation struct {
	ID            string             `gorm:"primaryKey" json:"id"`
	ReservationID string             `gorm:"uniqueIndex" json:"reservation_id"`
	Beneficiary   Role               `json:"beneficiary"`
	Amount        float64            `json:"amount"`
	Reason        CompensationReason `json:"reason"`
	TriggeredBy   Role               `json:"triggered_by"`
	DecidedAt     time.Time          `json:"decided_at"`
}

// Reservation is one buyer's commitment to purchase quantity of a listing.
// TotalPrice is captured at creation time and never recomputed.
type Reservation struct {
	ID         string `gorm:"primaryKey" json:"id"`
	CheckoutID string `gorm:"index" json:"checkout_id"`
	ListingID  string `gorm:"index" json:"listing_id"`
	BuyerID    string `gorm:"index" json:"buyer_id"`
	FisherID   string `gorm:"index" json:"fisher_id"`

	QtyKg      float64   `json:"qty_kg"`
	TotalPrice float64   `json:"total_price"`
	PickupTime time.Time `json:"pickup_time"`
	Note       string    `json:"note,omitempty"`

	Status     ReservationStatus `gorm:"index" json:"status"`
	Escrow     EscrowStatus      `gorm:"index" json:"escrow"`
	Delivery   DeliveryStatus    `json:"delivery"`
	Conformity ConformityStatus  `json:"conformity"`

	BuyerArrivalRequestedAt *time.Time `json:"buyer_arrival_requested_at,omitempty"`
	BuyerArrivalConfirmedAt *time.Time `json:"buyer_arrival_confirmed_at,omitempty"`
	FisherArrivalDeclaredAt *time.Time `json:"fisher_arrival_declared_at,omitempty"`

	Compensation *Compensation `gorm:"foreignKey:ReservationID" json:"compensation,omitempty"`

	CancellationBy    Role              `json:"cancellation_by,omitempty"`
	DisputeNote       string            `json:"dispute_note,omitempty"`
	DisputeResolution DisputeResolution `json:"dispute_resolution,omitempty"`
	DisputeResolvedAt *time.Time        `json:"dispute_resolved_at,omitempty"`

	ChargeID  string    `json:"charge_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Reservation) Terminal() bool {
	return r.Status == ReservationPickedUp || r.Status == ReservationRejected
}
