package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/dockside-market/internal/domain"
)

func TestAmountWithinBand(t *testing.T) {
	// rate applies untouched between min/rate and max/rate
	assert.Equal(t, 12.0, Amount(100))
	assert.Equal(t, 17.28, Amount(144))
	assert.Equal(t, 60.0, Amount(500))
}

func TestAmountClamped(t *testing.T) {
	cases := []struct {
		name  string
		total float64
		want  float64
	}{
		{"zero clamps to min", 0, MinAmount},
		{"negative clamps to min", -50, MinAmount},
		{"tiny order clamps to min", 10, MinAmount},
		{"huge order clamps to max", 10000, MaxAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Amount(tc.total))
		})
	}
}

func TestAmountAlwaysInBounds(t *testing.T) {
	for _, total := range []float64{-100, 0, 1, 66, 67, 144, 499, 500, 501, 1e6} {
		got := Amount(total)
		assert.GreaterOrEqual(t, got, MinAmount, "total=%v", total)
		assert.LessOrEqual(t, got, MaxAmount, "total=%v", total)
	}
}

func TestBuildBeneficiaryIsOppositeRole(t *testing.T) {
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	c := Build(144, domain.RoleFisher, domain.ReasonLate, at)
	assert.Equal(t, domain.RoleBuyer, c.Beneficiary)
	assert.Equal(t, domain.RoleFisher, c.TriggeredBy)

	c = Build(144, domain.RoleBuyer, domain.ReasonCancelledAfterArrival, at)
	assert.Equal(t, domain.RoleFisher, c.Beneficiary)
	assert.Equal(t, domain.RoleBuyer, c.TriggeredBy)
}

func TestBuildPassesFieldsThrough(t *testing.T) {
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	c := Build(144, domain.RoleFisher, domain.ReasonLate, at)

	require.NotEmpty(t, c.ID)
	assert.Equal(t, 17.28, c.Amount)
	assert.Equal(t, domain.ReasonLate, c.Reason)
	assert.Equal(t, at, c.DecidedAt)
}
