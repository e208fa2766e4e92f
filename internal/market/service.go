// Package market is the aggregate surface the transport layer calls.
// Every mutating operation is role-gated up front; denials and invalid
// transitions are silent no-ops for the caller, observable only
// through the notification sink.
package market

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/you/dockside-market/internal/domain"
	"github.com/you/dockside-market/internal/notify"
	"github.com/you/dockside-market/internal/reservation"
)

type Actor struct {
	UserID string
	Role   domain.Role
}

type Deps struct {
	Reservations ReservationStore
	Listings     ListingStore
	Applicants   ApplicantStore
	Actions      ActionStore
	Notifier     notify.Notifier // defaults to console
	Publisher    EventPublisher  // optional
	Verifier     RemoteVerifier  // optional
	Uploader     DocUploader     // optional
	Payments     PaymentGateway  // optional
	FlushDelay   time.Duration   // defaults to 3s
	Now          func() time.Time
}

type Service struct {
	mu           sync.Mutex
	reservations ReservationStore
	listings     ListingStore
	applicants   ApplicantStore
	actions      ActionStore
	notifier     notify.Notifier
	pub          EventPublisher
	verifier     RemoteVerifier
	uploader     DocUploader
	payments     PaymentGateway
	online       bool
	flushDelay   time.Duration
	now          func() time.Time
}

func NewService(d Deps) *Service {
	if d.Notifier == nil {
		d.Notifier = notify.NewConsole()
	}
	if d.FlushDelay <= 0 {
		d.FlushDelay = 3 * time.Second
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Service{
		reservations: d.Reservations,
		listings:     d.Listings,
		applicants:   d.Applicants,
		actions:      d.Actions,
		notifier:     d.Notifier,
		pub:          d.Publisher,
		verifier:     d.Verifier,
		uploader:     d.Uploader,
		payments:     d.Payments,
		online:       true,
		flushDelay:   d.FlushDelay,
		now:          d.Now,
	}
}

// authorize is the single role gate. On denial it notifies and the
// operation proceeds as a no-op.
func (s *Service) authorize(actor Actor, allowed ...domain.Role) bool {
	for _, a := range allowed {
		if actor.Role == a {
			return true
		}
	}
	log.Printf("[market] denied user=%s role=%s needs=%v", actor.UserID, actor.Role, allowed)
	_ = s.notifier.Notify("Permission denied", fmt.Sprintf("this action is reserved for role %v", allowed))
	return false
}

func (s *Service) emit(ctx context.Context, key string, payload any) {
	if s.pub == nil {
		return
	}
	_ = s.pub.PublishJSON(ctx, key, payload)
}

// apply looks a reservation up, runs a transition and persists the
// result. Absent ids and failed preconditions are silent no-ops.
func (s *Service) apply(ctx context.Context, id, eventKey string, fn func(domain.Reservation) (domain.Reservation, bool)) (old, cur *domain.Reservation, changed bool) {
	r, err := s.reservations.ByID(ctx, id)
	if err != nil || r == nil {
		return nil, nil, false
	}
	before := *r
	updated, ok := fn(before)
	if !ok {
		return &before, r, false
	}
	updated.UpdatedAt = s.now()
	if err := s.reservations.Save(ctx, &updated); err != nil {
		log.Printf("[market] save reservation %s: %v", id, err)
		return &before, r, false
	}
	s.emit(ctx, eventKey, map[string]any{
		"reservation_id": updated.ID,
		"status":         updated.Status,
		"escrow":         updated.Escrow,
	})
	s.queueIfOffline(ctx, eventKey, fmt.Sprintf("reservation %s: %s", updated.ID, eventKey))
	return &before, &updated, true
}

// refundCharge reverses a card charge when an escrow flips to
// refunded. Best effort; the local state is already settled.
func (s *Service) refundCharge(ctx context.Context, old, cur *domain.Reservation) {
	if s.payments == nil || old == nil || cur == nil {
		return
	}
	if old.Escrow == cur.Escrow || cur.Escrow != domain.EscrowRefunded || cur.ChargeID == "" {
		return
	}
	if err := s.payments.Refund(ctx, cur.ChargeID, int64(math.Round(cur.TotalPrice*100))); err != nil {
		log.Printf("[market] refund charge %s: %v", cur.ChargeID, err)
		_ = s.notifier.Notify("Refund pending", "the card refund could not be issued yet and will be retried")
	}
}

// Confirm: fisher accepts a pending reservation.
func (s *Service) Confirm(ctx context.Context, actor Actor, id string) *domain.Reservation {
	if !s.authorize(actor, domain.RoleFisher) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, cur, _ := s.apply(ctx, id, "reservation.confirmed", reservation.Confirm)
	return cur
}

// Reject: fisher declines; escrowed funds return to the buyer.
func (s *Service) Reject(ctx context.Context, actor Actor, id string) *domain.Reservation {
	if !s.authorize(actor, domain.RoleFisher) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, cur, _ := s.apply(ctx, id, "reservation.rejected", reservation.Reject)
	s.refundCharge(ctx, old, cur)
	return cur
}

// MarkPickedUp: fisher hands the goods over.
func (s *Service) MarkPickedUp(ctx context.Context, actor Actor, id string) *domain.Reservation {
	if !s.authorize(actor, domain.RoleFisher) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, cur, _ := s.apply(ctx, id, "reservation.picked_up", reservation.MarkPickedUp)
	return cur
}

// AdvanceDelivery: fisher reports progress toward the port.
func (s *Service) AdvanceDelivery(ctx context.Context, actor Actor, id string, to domain.DeliveryStatus) *domain.Reservation {
	if !s.authorize(actor, domain.RoleFisher) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, cur, _ := s.apply(ctx, id, "reservation.delivery", func(r domain.Reservation) (domain.Reservation, bool) {
		return reservation.AdvanceDelivery(r, to)
	})
	return cur
}

// SetConformity: buyer judges the goods after pickup. A non-conform
// verdict holds the escrow and opens a dispute.
func (s *Service) SetConformity(ctx context.Context, actor Actor, id string, conform bool, note string) *domain.Reservation {
	if !s.authorize(actor, domain.RoleBuyer) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if conform {
		_, cur, _ := s.apply(ctx, id, "reservation.conform", reservation.SetConform)
		return cur
	}
	_, cur, changed := s.apply(ctx, id, "escrow.hold", func(r domain.Reservation) (domain.Reservation, bool) {
		return reservation.SetNonConform(r, note)
	})
	if changed {
		_ = s.notifier.Notify("Dispute opened", "payment is on hold until an admin settles the dispute")
	}
	return cur
}

// ReleaseEscrow: buyer releases payment to the fisher.
func (s *Service) ReleaseEscrow(ctx context.Context, actor Actor, id string) *domain.Reservation {
	if !s.authorize(actor, domain.RoleBuyer) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, cur, changed := s.apply(ctx, id, "escrow.released", reservation.ReleaseEscrow)
	if changed {
		_ = s.notifier.Notify("Payment released", fmt.Sprintf("%.2f EUR released to the fisher", cur.TotalPrice))
	}
	return cur
}

// ResolveDispute: admin settles a held escrow.
func (s *Service) ResolveDispute(ctx context.Context, actor Actor, id string, resolution domain.DisputeResolution) *domain.Reservation {
	if !s.authorize(actor, domain.RoleAdmin) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, cur, changed := s.apply(ctx, id, "dispute.resolved", func(r domain.Reservation) (domain.Reservation, bool) {
		return reservation.ResolveDispute(r, resolution, s.now())
	})
	if changed {
		s.refundCharge(ctx, old, cur)
		_ = s.notifier.Notify("Dispute resolved", fmt.Sprintf("resolution: %s", resolution))
	}
	return cur
}

// RequestBuyerArrival: buyer announces being at the dock.
func (s *Service) RequestBuyerArrival(ctx context.Context, actor Actor, id string) *domain.Reservation {
	if !s.authorize(actor, domain.RoleBuyer) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, cur, _ := s.apply(ctx, id, "arrival.buyer_requested", func(r domain.Reservation) (domain.Reservation, bool) {
		return reservation.RequestBuyerArrival(r, s.now())
	})
	return cur
}

// ConfirmBuyerArrival: fisher acknowledges the buyer on site.
func (s *Service) ConfirmBuyerArrival(ctx context.Context, actor Actor, id string) *domain.Reservation {
	if !s.authorize(actor, domain.RoleFisher) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, cur, _ := s.apply(ctx, id, "arrival.buyer_confirmed", func(r domain.Reservation) (domain.Reservation, bool) {
		return reservation.ConfirmBuyerArrival(r, s.now())
	})
	return cur
}

// DeclareFisherArrival: fisher reports docking.
func (s *Service) DeclareFisherArrival(ctx context.Context, actor Actor, id string) *domain.Reservation {
	if !s.authorize(actor, domain.RoleFisher) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, cur, _ := s.apply(ctx, id, "arrival.fisher_declared", func(r domain.Reservation) (domain.Reservation, bool) {
		return reservation.DeclareFisherArrival(r, s.now())
	})
	return cur
}

// DeclareDelay: the late party triggers a one-time compensation for
// the counterpart. A second call is a no-op.
func (s *Service) DeclareDelay(ctx context.Context, actor Actor, id string) *domain.Reservation {
	if !s.authorize(actor, domain.RoleFisher, domain.RoleBuyer) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, cur, changed := s.apply(ctx, id, "compensation.granted", func(r domain.Reservation) (domain.Reservation, bool) {
		return reservation.DeclareDelay(r, actor.Role, s.now())
	})
	if changed {
		_ = s.notifier.Notify("Compensation granted",
			fmt.Sprintf("%.2f EUR to the %s for a late %s", cur.Compensation.Amount, cur.Compensation.Beneficiary, actor.Role))
	}
	return cur
}

// CancelAfterArrival: walking away once the counterpart already showed
// up rejects the reservation and compensates the counterpart.
func (s *Service) CancelAfterArrival(ctx context.Context, actor Actor, id string) *domain.Reservation {
	if !s.authorize(actor, domain.RoleFisher, domain.RoleBuyer) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, cur, changed := s.apply(ctx, id, "reservation.cancelled_late", func(r domain.Reservation) (domain.Reservation, bool) {
		return reservation.CancelAfterArrival(r, actor.Role, s.now())
	})
	if changed {
		s.refundCharge(ctx, old, cur)
		_ = s.notifier.Notify("Reservation cancelled",
			fmt.Sprintf("cancelled by the %s after arrival; %.2f EUR compensation granted", actor.Role, cur.Compensation.Amount))
	}
	return cur
}

// Reservation returns one reservation, or nil when absent.
func (s *Service) Reservation(ctx context.Context, id string) *domain.Reservation {
	r, err := s.reservations.ByID(ctx, id)
	if err != nil {
		return nil
	}
	return r
}

// Reservations lists what the actor is allowed to see: buyers their
// purchases, fishers their sales, admins everything.
func (s *Service) Reservations(ctx context.Context, actor Actor) []domain.Reservation {
	out, err := s.reservations.ListForUser(ctx, actor.Role, actor.UserID)
	if err != nil {
		log.Printf("[market] list reservations: %v", err)
		return nil
	}
	return out
}

// CreateListing: fisher publishes a catch.
func (s *Service) CreateListing(ctx context.Context, actor Actor, l domain.Listing) *domain.Listing {
	if !s.authorize(actor, domain.RoleFisher) {
		return nil
	}
	if l.QtyKg <= 0 || l.PricePerKg <= 0 {
		return nil
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.FisherID = actor.UserID
	l.CreatedAt = s.now()
	l.UpdatedAt = l.CreatedAt
	if err := s.listings.Save(ctx, &l); err != nil {
		log.Printf("[market] save listing: %v", err)
		return nil
	}
	s.emit(ctx, "listing.created", map[string]any{"listing_id": l.ID, "port": l.Port})
	return &l
}

// Listings returns the catches offered at a port.
func (s *Service) Listings(ctx context.Context, port string) []domain.Listing {
	out, err := s.listings.ListByPort(ctx, port)
	if err != nil {
		log.Printf("[market] list listings: %v", err)
		return nil
	}
	return out
}

// Reset clears reservations and the offline queue. Demo listings are
// seeded at startup and survive. Admin only.
func (s *Service) Reset(ctx context.Context, actor Actor) bool {
	if !s.authorize(actor, domain.RoleAdmin) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reservations.Reset(ctx); err != nil {
		log.Printf("[market] reset: %v", err)
		return false
	}
	if err := s.actions.Reset(ctx); err != nil {
		log.Printf("[market] reset queue: %v", err)
		return false
	}
	_ = s.notifier.Notify("Reset", "marketplace state restored to defaults")
	return true
}
