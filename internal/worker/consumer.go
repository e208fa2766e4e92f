package worker

import (
	"context"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/you/dockside-market/internal/events"
	"github.com/you/dockside-market/internal/notify"
	"github.com/you/dockside-market/pkg/mq"
)

// Consumer turns market events into user-visible notifications.
type Consumer struct {
	cons     *mq.Consumer
	notifier notify.Notifier
}

func NewConsumer(cons *mq.Consumer, n notify.Notifier) *Consumer {
	return &Consumer{cons: cons, notifier: n}
}

func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.cons.Deliveries(ctx)
	if err != nil {
		return fmt.Errorf("consume failed: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := c.handle(d); err != nil {
				log.Printf("[notify] handle error key=%s err=%v -> Nack&requeue", d.RoutingKey, err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handle(d amqp.Delivery) error {
	switch d.RoutingKey {
	case events.RKCheckoutCompleted:
		ev, err := events.MustUnmarshal[events.CheckoutCompleted](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("🧾 Checkout",
			fmt.Sprintf("%d reservation(s) created, %.2f EUR escrowed (checkout=%s).", ev.Reservations, ev.Total, ev.CheckoutID))

	case events.RKReservationConfirmed:
		ev, err := events.MustUnmarshal[events.ReservationEvent](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("✅ Reservation confirmed",
			fmt.Sprintf("Reservation %s was confirmed by the fisher.", ev.ReservationID))

	case events.RKReservationRejected:
		ev, err := events.MustUnmarshal[events.ReservationEvent](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("❌ Reservation rejected",
			fmt.Sprintf("Reservation %s was rejected; escrow is %s.", ev.ReservationID, ev.Escrow))

	case events.RKReservationPickedUp:
		ev, err := events.MustUnmarshal[events.ReservationEvent](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("📦 Picked up",
			fmt.Sprintf("Reservation %s was picked up at the dock.", ev.ReservationID))

	case events.RKEscrowReleased:
		ev, err := events.MustUnmarshal[events.ReservationEvent](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("💰 Payment released",
			fmt.Sprintf("Escrow released for reservation %s.", ev.ReservationID))

	case events.RKEscrowHold:
		ev, err := events.MustUnmarshal[events.ReservationEvent](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("⚠️ Payment on hold",
			fmt.Sprintf("A dispute was opened on reservation %s.", ev.ReservationID))

	case events.RKDisputeResolved:
		ev, err := events.MustUnmarshal[events.ReservationEvent](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("⚖️ Dispute resolved",
			fmt.Sprintf("Reservation %s settled; escrow is %s.", ev.ReservationID, ev.Escrow))

	case events.RKCompensationGranted:
		ev, err := events.MustUnmarshal[events.ReservationEvent](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("🕐 Compensation granted",
			fmt.Sprintf("A delay compensation was recorded on reservation %s.", ev.ReservationID))

	case events.RKVerificationDone:
		ev, err := events.MustUnmarshal[events.VerificationDone](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("🪪 Verification",
			fmt.Sprintf("KYC for %s (%s): %s, risk %s.", ev.UserID, ev.Role, ev.Status, ev.RiskLevel))

	case events.RKSyncFlushed:
		ev, err := events.MustUnmarshal[events.SyncFlushed](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("🔄 Sync", fmt.Sprintf("%d offline action(s) synchronised.", ev.Count))

	default:
		log.Printf("[notify] skip unknown key=%s", d.RoutingKey)
	}
	return nil
}
