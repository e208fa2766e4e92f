package domain

import "time"

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

type CheckStatus string

const (
	CheckPending CheckStatus = "pending"
	CheckPassed  CheckStatus = "passed"
	CheckFailed  CheckStatus = "failed"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type VerificationCheck struct {
	ID       string      `gorm:"primaryKey" json:"id"`
	ReportID string      `gorm:"index" json:"report_id"`
	Label    string      `json:"label"`
	Status   CheckStatus `json:"status"`
	Detail   string      `json:"detail,omitempty"`
}

// VerificationReport is the outcome of one KYC run for an applicant
// submission. A new report object is produced every run.
type VerificationReport struct {
	ID            string              `gorm:"primaryKey" json:"id"`
	UserID        string              `gorm:"index" json:"user_id"`
	Role          Role                `json:"role"`
	Provider      string              `json:"provider"`
	Status        VerificationStatus  `json:"status"`
	Checks        []VerificationCheck `gorm:"foreignKey:ReportID" json:"checks"`
	RiskScore     int                 `json:"risk_score"`
	RiskLevel     RiskLevel           `json:"risk_level"`
	FailureReason string              `json:"failure_reason,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// FisherProfile carries the onboarding fields checked for sellers.
type FisherProfile struct {
	BoatRegistration string `json:"boat_registration"`
	Permit           string `json:"permit"`
	Insurance        string `json:"insurance"`
	IBAN             string `json:"iban"`
}

// BuyerProfile carries the onboarding fields checked for buyers.
type BuyerProfile struct {
	SIRET         string `json:"siret"`
	Activity      string `json:"activity"`
	PaymentMethod string `json:"payment_method"`
}

// Applicant is a snapshot of profile fields plus the latest
// verification status, keyed by user id and upserted on resubmission.
type Applicant struct {
	UserID string `gorm:"primaryKey" json:"user_id"`
	Role   Role   `gorm:"index" json:"role"`

	BoatRegistration string `json:"boat_registration,omitempty"`
	Permit           string `json:"permit,omitempty"`
	Insurance        string `json:"insurance,omitempty"`
	IBAN             string `json:"iban,omitempty"`

	SIRET         string `json:"siret,omitempty"`
	Activity      string `json:"activity,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`

	Status         VerificationStatus `gorm:"index" json:"status"`
	LatestReportID string             `json:"latest_report_id,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func (a *Applicant) FisherProfile() FisherProfile {
	return FisherProfile{
		BoatRegistration: a.BoatRegistration,
		Permit:           a.Permit,
		Insurance:        a.Insurance,
		IBAN:             a.IBAN,
	}
}

func (a *Applicant) BuyerProfile() BuyerProfile {
	return BuyerProfile{
		SIRET:         a.SIRET,
		Activity:      a.Activity,
		PaymentMethod: a.PaymentMethod,
	}
}
