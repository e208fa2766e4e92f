// Package policy computes compensation amounts for late arrivals and
// post-arrival cancellations. Pure functions, no state.
package policy

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/you/dockside-market/internal/domain"
)

const (
	Rate                 = 0.12
	MinAmount            = 8.0
	MaxAmount            = 60.0
	LateThresholdMinutes = 20 // shown to users; not enforced here
)

// Amount returns the compensation for a given order total, clamped to
// [MinAmount, MaxAmount]. Zero or negative totals clamp up to MinAmount.
func Amount(totalPrice float64) float64 {
	amt := math.Round(totalPrice*Rate*100) / 100
	if amt < MinAmount {
		return MinAmount
	}
	if amt > MaxAmount {
		return MaxAmount
	}
	return amt
}

// Build creates a compensation record. The beneficiary is always the
// counterpart of the role that triggered it.
func Build(totalPrice float64, triggeredBy domain.Role, reason domain.CompensationReason, decidedAt time.Time) domain.Compensation {
	return domain.Compensation{
		ID:          uuid.NewString(),
		Beneficiary: triggeredBy.Opposite(),
		Amount:      Amount(totalPrice),
		Reason:      reason,
		TriggeredBy: triggeredBy,
		DecidedAt:   decidedAt,
	}
}
