package market

import (
	"context"
	"time"

	"github.com/you/dockside-market/internal/domain"
)

// Store interfaces decouple the orchestrator from persistence. The
// gorm repositories implement them for the API binary; the memstore
// package backs tests and the no-database demo mode.

type ReservationStore interface {
	ByID(ctx context.Context, id string) (*domain.Reservation, error)
	Save(ctx context.Context, r *domain.Reservation) error
	ListForUser(ctx context.Context, role domain.Role, userID string) ([]domain.Reservation, error)
	Reset(ctx context.Context) error
}

type ListingStore interface {
	ByID(ctx context.Context, id string) (*domain.Listing, error)
	Save(ctx context.Context, l *domain.Listing) error
	ListByPort(ctx context.Context, port string) ([]domain.Listing, error)
}

type ApplicantStore interface {
	ByUserID(ctx context.Context, userID string) (*domain.Applicant, error)
	Upsert(ctx context.Context, a *domain.Applicant) error
	AppendReport(ctx context.Context, rep *domain.VerificationReport) error
	Reports(ctx context.Context, userID string) ([]domain.VerificationReport, error)
}

type ActionStore interface {
	Append(ctx context.Context, a domain.PendingAction) error
	Pending(ctx context.Context) ([]domain.PendingAction, error)
	// MarkSynced moves every pending action into the synced history
	// and clears the queue, returning how many were flushed.
	MarkSynced(ctx context.Context, at time.Time) (int, error)
	History(ctx context.Context) ([]domain.SyncedAction, error)
	Reset(ctx context.Context) error
}

// RemoteVerifier is an external KYC provider; verify.RemoteClient
// implements it.
type RemoteVerifier interface {
	Verify(userID string, role domain.Role, profile any) (*domain.VerificationReport, error)
}

// DocUploader stores applicant documents; failures are per-document
// and never abort a submission.
type DocUploader interface {
	Upload(ctx context.Context, userID, kind, fileURI string) (string, error)
}

// PaymentGateway charges at checkout and refunds on escrow refunds.
type PaymentGateway interface {
	Charge(ctx context.Context, checkoutID, cardToken string, amountCents int64) (string, error)
	Refund(ctx context.Context, chargeID string, amountCents int64) error
}

// EventPublisher matches mq.Publisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}
