package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/dockside-market/internal/domain"
)

func statusOf(t *testing.T, checks []domain.VerificationCheck, label string) domain.CheckStatus {
	t.Helper()
	for _, c := range checks {
		if c.Label == label {
			return c.Status
		}
	}
	t.Fatalf("check %s not found", label)
	return ""
}

func validFisher() domain.FisherProfile {
	return domain.FisherProfile{
		BoatRegistration: "GV-1234",
		Permit:           "FR-PECH-12345",
		Insurance:        "AXA-2024-778",
		IBAN:             "FR76 3000 6000 0112 3456 7890 189",
	}
}

func TestFisherChecksAllPass(t *testing.T) {
	for _, c := range FisherChecks(validFisher()) {
		assert.Equal(t, domain.CheckPassed, c.Status, c.Label)
	}
}

func TestFisherChecksNormalization(t *testing.T) {
	p := validFisher()
	p.BoatRegistration = "  gv-1234  "
	p.Permit = "fr-pech-12345"
	checks := FisherChecks(p)
	assert.Equal(t, domain.CheckPassed, statusOf(t, checks, CheckBoatRegistration))
	assert.Equal(t, domain.CheckPassed, statusOf(t, checks, CheckFishingPermit))
}

func TestFisherChecksFailures(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*domain.FisherProfile)
		label string
	}{
		{"boat reg missing dash", func(p *domain.FisherProfile) { p.BoatRegistration = "GV1234" }, CheckBoatRegistration},
		{"boat reg too many letters", func(p *domain.FisherProfile) { p.BoatRegistration = "ABCD-1234" }, CheckBoatRegistration},
		{"permit wrong infix", func(p *domain.FisherProfile) { p.Permit = "FR-FISH-12345" }, CheckFishingPermit},
		{"permit too few digits", func(p *domain.FisherProfile) { p.Permit = "FR-PECH-12" }, CheckFishingPermit},
		{"insurance blank", func(p *domain.FisherProfile) { p.Insurance = "   " }, CheckInsurance},
		{"iban too short", func(p *domain.FisherProfile) { p.IBAN = "FR761234" }, CheckBankAccount},
		{"iban no country", func(p *domain.FisherProfile) { p.IBAN = "7676300060001123456789018" }, CheckBankAccount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validFisher()
			tc.mut(&p)
			c := FisherChecks(p)
			assert.Equal(t, domain.CheckFailed, statusOf(t, c, tc.label))
		})
	}
}

func validBuyer() domain.BuyerProfile {
	return domain.BuyerProfile{
		SIRET:         "55210055400013",
		Activity:      "Restaurant de poisson",
		PaymentMethod: "card",
	}
}

func TestBuyerChecksAllPass(t *testing.T) {
	for _, c := range BuyerChecks(validBuyer()) {
		assert.Equal(t, domain.CheckPassed, c.Status, c.Label)
	}
}

func TestBuyerSIRETWithSpaces(t *testing.T) {
	p := validBuyer()
	p.SIRET = "552 100 554 00013"
	checks := BuyerChecks(p)
	assert.Equal(t, domain.CheckPassed, statusOf(t, checks, CheckSIRETFormat))
}

func TestBuyerActiveStatusGatedOnFormat(t *testing.T) {
	// format passes but 000-prefix fails the active-status check
	p := validBuyer()
	p.SIRET = "00021005540001"
	checks := BuyerChecks(p)
	assert.Equal(t, domain.CheckPassed, statusOf(t, checks, CheckSIRETFormat))
	assert.Equal(t, domain.CheckFailed, statusOf(t, checks, CheckActiveStatus))

	// bad format fails both: active status requires a valid SIRET first
	p.SIRET = "12345"
	checks = BuyerChecks(p)
	assert.Equal(t, domain.CheckFailed, statusOf(t, checks, CheckSIRETFormat))
	assert.Equal(t, domain.CheckFailed, statusOf(t, checks, CheckActiveStatus))
}

func TestBuyerActivityKeywords(t *testing.T) {
	ok := []string{"Poissonnerie du port", "GROSSISTE maree", "hôtel-restaurant", "wholesale seafood"}
	for _, a := range ok {
		p := validBuyer()
		p.Activity = a
		assert.Equal(t, domain.CheckPassed, statusOf(t, BuyerChecks(p), CheckActivity), a)
	}

	p := validBuyer()
	p.Activity = "software consulting"
	checks := BuyerChecks(p)
	require.Equal(t, domain.CheckFailed, statusOf(t, checks, CheckActivity))
}

func TestBuyerPaymentMethodRequired(t *testing.T) {
	p := validBuyer()
	p.PaymentMethod = ""
	assert.Equal(t, domain.CheckFailed, statusOf(t, BuyerChecks(p), CheckPaymentMethod))
}
