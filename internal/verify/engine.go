// Package verify implements the rule-based KYC engine for fisher and
// buyer onboarding. Checks are deterministic over the submitted
// profile; connectivity only decides whether a run can finalize.
package verify

import (
	"time"

	"github.com/google/uuid"

	"github.com/you/dockside-market/internal/domain"
)

const (
	ProviderLocal = "local-rules"

	riskBase       = 10
	riskPerFailed  = 25
	riskPerPending = 10
	riskRejected   = 15
	riskOffline    = 10
	riskMediumBand = 40
	riskHighBand   = 70
	unavailableMsg = "verification service unavailable"
	retryDetailMsg = "service unavailable, automatic retry scheduled"
)

func riskScore(checks []domain.VerificationCheck, status domain.VerificationStatus, offline bool) int {
	score := riskBase
	for _, c := range checks {
		switch c.Status {
		case domain.CheckFailed:
			score += riskPerFailed
		case domain.CheckPending:
			score += riskPerPending
		}
	}
	if status == domain.VerificationRejected {
		score += riskRejected
	}
	if offline {
		score += riskOffline
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func riskLevel(score int) domain.RiskLevel {
	switch {
	case score >= riskHighBand:
		return domain.RiskHigh
	case score >= riskMediumBand:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func newReport(userID string, role domain.Role, checks []domain.VerificationCheck, status domain.VerificationStatus, failureReason string, offline bool, now time.Time) domain.VerificationReport {
	id := uuid.NewString()
	for i := range checks {
		checks[i].ID = uuid.NewString()
		checks[i].ReportID = id
	}
	score := riskScore(checks, status, offline)
	return domain.VerificationReport{
		ID:            id,
		UserID:        userID,
		Role:          role,
		Provider:      ProviderLocal,
		Status:        status,
		Checks:        checks,
		RiskScore:     score,
		RiskLevel:     riskLevel(score),
		FailureReason: failureReason,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func pendingChecks(labels []string, detail string) []domain.VerificationCheck {
	out := make([]domain.VerificationCheck, 0, len(labels))
	for _, l := range labels {
		out = append(out, domain.VerificationCheck{Label: l, Status: domain.CheckPending, Detail: detail})
	}
	return out
}

func finalize(userID string, role domain.Role, checks []domain.VerificationCheck, online bool, now time.Time) domain.VerificationReport {
	if !online {
		labels := make([]string, 0, len(checks))
		for _, c := range checks {
			labels = append(labels, c.Label)
		}
		return newReport(userID, role, pendingChecks(labels, retryDetailMsg),
			domain.VerificationPending, unavailableMsg, true, now)
	}

	status := domain.VerificationVerified
	failureReason := ""
	for _, c := range checks {
		if c.Status == domain.CheckFailed {
			status = domain.VerificationRejected
			failureReason = c.Detail
			break
		}
	}
	return newReport(userID, role, checks, status, failureReason, false, now)
}

// FinalizeFisher runs the seller checks and produces a fresh report.
// Offline runs never reject: every check is re-marked pending.
func FinalizeFisher(userID string, p domain.FisherProfile, online bool, now time.Time) domain.VerificationReport {
	return finalize(userID, domain.RoleFisher, FisherChecks(p), online, now)
}

// FinalizeBuyer runs the buyer checks and produces a fresh report.
func FinalizeBuyer(userID string, p domain.BuyerProfile, online bool, now time.Time) domain.VerificationReport {
	return finalize(userID, domain.RoleBuyer, BuyerChecks(p), online, now)
}

// Start returns the pre-submission placeholder report: all checks
// pending, overall status pending.
func Start(userID string, role domain.Role, now time.Time) domain.VerificationReport {
	labels := []string{CheckBoatRegistration, CheckFishingPermit, CheckInsurance, CheckBankAccount}
	if role == domain.RoleBuyer {
		labels = []string{CheckSIRETFormat, CheckActiveStatus, CheckActivity, CheckPaymentMethod}
	}
	return newReport(userID, role, pendingChecks(labels, ""), domain.VerificationPending, "", false, now)
}
