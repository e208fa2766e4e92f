package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

// Gateway wraps the Omise client for the two operations the
// marketplace needs: charging a checkout and refunding a charge.
type Gateway struct {
	omc *omise.Client
}

func NewGateway(publicKey, secretKey string) (*Gateway, error) {
	c, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, err
	}
	c.SetDebug(false)
	return &Gateway{omc: c}, nil
}

func (g *Gateway) Charge(ctx context.Context, checkoutID, cardToken string, amountCents int64) (string, error) {
	if amountCents <= 0 || cardToken == "" {
		return "", errors.New("invalid params")
	}
	ch := &omise.Charge{}
	req := &operations.CreateCharge{
		Amount:   amountCents,
		Currency: "eur",
		Card:     cardToken,
		Metadata: map[string]any{"checkout_id": checkoutID},
	}
	if err := g.omc.Do(ch, req); err != nil {
		return "", err
	}
	if string(ch.Status) == "failed" {
		reason := ""
		if ch.FailureMessage != nil {
			reason = *ch.FailureMessage
		}
		return "", fmt.Errorf("charge failed: %s", reason)
	}
	return ch.ID, nil
}

func (g *Gateway) Refund(ctx context.Context, chargeID string, amountCents int64) error {
	refund := &omise.Refund{}
	return g.omc.Do(refund, &operations.CreateRefund{
		ChargeID: chargeID,
		Amount:   amountCents,
	})
}
