package verify

import (
	"regexp"
	"strings"

	"github.com/you/dockside-market/internal/domain"
)

// Check labels, in the order they are evaluated and reported.
const (
	CheckBoatRegistration = "boat_registration"
	CheckFishingPermit    = "fishing_permit"
	CheckInsurance        = "insurance"
	CheckBankAccount      = "bank_account"

	CheckSIRETFormat   = "siret_format"
	CheckActiveStatus  = "active_status"
	CheckActivity      = "business_activity"
	CheckPaymentMethod = "payment_method"
)

var (
	boatRegPattern = regexp.MustCompile(`^[A-Z]{2,3}-[0-9]{3,6}$`)
	permitPattern  = regexp.MustCompile(`^[A-Z]{2}-PECH-[0-9]{3,6}$`)
	ibanPattern    = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{10,30}$`)
	siretPattern   = regexp.MustCompile(`^[0-9]{14}$`)
)

// activityKeywords covers fishery, restaurant, hospitality and
// wholesale trade wording accepted for the buyer activity field.
var activityKeywords = []string{
	"poisson", "fish", "seafood", "maree", "marée",
	"restaurant", "restauration", "traiteur",
	"hotel", "hôtel", "hospitality",
	"grossiste", "wholesale", "negoce", "négoce", "commerce",
	"poissonnerie", "mareyeur",
}

func check(label string, ok bool, failDetail string) domain.VerificationCheck {
	c := domain.VerificationCheck{Label: label, Status: domain.CheckPassed}
	if !ok {
		c.Status = domain.CheckFailed
		c.Detail = failDetail
	}
	return c
}

// FisherChecks runs the four seller onboarding checks.
func FisherChecks(p domain.FisherProfile) []domain.VerificationCheck {
	boatReg := strings.ToUpper(strings.TrimSpace(p.BoatRegistration))
	permit := strings.ToUpper(strings.TrimSpace(p.Permit))
	iban := strings.ToUpper(strings.ReplaceAll(p.IBAN, " ", ""))

	return []domain.VerificationCheck{
		check(CheckBoatRegistration, boatRegPattern.MatchString(boatReg),
			"boat registration must look like AB-1234 (2-3 letters, dash, 3-6 digits)"),
		check(CheckFishingPermit, permitPattern.MatchString(permit),
			"permit must look like FR-PECH-12345"),
		check(CheckInsurance, strings.TrimSpace(p.Insurance) != "",
			"insurance reference is required"),
		check(CheckBankAccount, ibanPattern.MatchString(iban),
			"bank account must be a valid IBAN"),
	}
}

// BuyerChecks runs the four buyer onboarding checks. The active-status
// check only passes when the SIRET format check passed first.
func BuyerChecks(p domain.BuyerProfile) []domain.VerificationCheck {
	siret := strings.ReplaceAll(strings.TrimSpace(p.SIRET), " ", "")
	siretOK := siretPattern.MatchString(siret)
	activeOK := siretOK && !strings.HasPrefix(siret, "000")

	activity := strings.ToLower(p.Activity)
	activityOK := false
	for _, kw := range activityKeywords {
		if strings.Contains(activity, kw) {
			activityOK = true
			break
		}
	}

	return []domain.VerificationCheck{
		check(CheckSIRETFormat, siretOK,
			"SIRET must be a 14 digit business identifier"),
		check(CheckActiveStatus, activeOK,
			"company does not appear to be active"),
		check(CheckActivity, activityOK,
			"activity must relate to fishery, restaurant, hospitality or wholesale trade"),
		check(CheckPaymentMethod, strings.TrimSpace(p.PaymentMethod) != "",
			"a payment method is required"),
	}
}
