package market

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/you/dockside-market/internal/domain"
)

// CheckoutInput is one cart payment event. Unit prices were captured
// when the line entered the cart.
type CheckoutInput struct {
	Lines      []domain.CartLine
	PickupTime time.Time
	Note       string
	CardToken  string // optional; requires a configured gateway
}

// Checkout turns the cart into reservations sharing one checkout id,
// escrows the payment and emits a single notification. Lines whose
// listing is gone or whose quantity is invalid are skipped.
func (s *Service) Checkout(ctx context.Context, actor Actor, in CheckoutInput) []domain.Reservation {
	if !s.authorize(actor, domain.RoleBuyer) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	checkoutID := uuid.NewString()
	now := s.now()
	var created []domain.Reservation
	var total float64

	for _, line := range in.Lines {
		if line.QtyKg <= 0 {
			continue
		}
		listing, err := s.listings.ByID(ctx, line.ListingID)
		if err != nil || listing == nil {
			continue
		}
		r := domain.Reservation{
			ID:         uuid.NewString(),
			CheckoutID: checkoutID,
			ListingID:  listing.ID,
			BuyerID:    actor.UserID,
			FisherID:   listing.FisherID,
			QtyKg:      line.QtyKg,
			TotalPrice: line.QtyKg * line.PricePerKg,
			PickupTime: in.PickupTime,
			Note:       in.Note,
			Status:     domain.ReservationPending,
			Escrow:     domain.EscrowEscrowed,
			Delivery:   domain.DeliveryAtSea,
			Conformity: domain.ConformityPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.reservations.Save(ctx, &r); err != nil {
			log.Printf("[market] save reservation for listing %s: %v", listing.ID, err)
			continue
		}
		created = append(created, r)
		total += r.TotalPrice
	}
	if len(created) == 0 {
		return nil
	}

	// Card charge is best effort: the escrow is already tracked
	// locally and the charge can be replayed.
	if s.payments != nil && in.CardToken != "" && s.online {
		chargeID, err := s.payments.Charge(ctx, checkoutID, in.CardToken, int64(math.Round(total*100)))
		if err != nil {
			log.Printf("[market] charge checkout %s: %v", checkoutID, err)
			_ = s.notifier.Notify("Payment pending", "the card charge could not be completed yet")
		} else {
			for i := range created {
				created[i].ChargeID = chargeID
				if err := s.reservations.Save(ctx, &created[i]); err != nil {
					log.Printf("[market] attach charge to %s: %v", created[i].ID, err)
				}
			}
		}
	}

	s.emit(ctx, "checkout.completed", map[string]any{
		"checkout_id":  checkoutID,
		"reservations": len(created),
		"total":        total,
	})
	s.queueIfOffline(ctx, "checkout", fmt.Sprintf("checkout %s (%d reservations, %.2f EUR)", checkoutID, len(created), total))
	_ = s.notifier.Notify("Payment escrowed",
		fmt.Sprintf("%.2f EUR held for %d reservation(s); released after conform pickup", total, len(created)))
	return created
}
