package market

import (
	"context"
	"fmt"
	"log"

	"github.com/you/dockside-market/internal/domain"
	"github.com/you/dockside-market/internal/verify"
)

// Document references a file the applicant attached to a submission.
type Document struct {
	Kind    string
	FileURI string
}

// SubmitFisherVerification runs the seller KYC flow.
func (s *Service) SubmitFisherVerification(ctx context.Context, actor Actor, p domain.FisherProfile, docs []Document) *domain.VerificationReport {
	if !s.authorize(actor, domain.RoleFisher) {
		return nil
	}
	return s.submit(ctx, actor, domain.RoleFisher, docs, func(a *domain.Applicant) {
		a.BoatRegistration = p.BoatRegistration
		a.Permit = p.Permit
		a.Insurance = p.Insurance
		a.IBAN = p.IBAN
	}, func(online bool) domain.VerificationReport {
		return verify.FinalizeFisher(actor.UserID, p, online, s.now())
	}, p)
}

// SubmitBuyerVerification runs the buyer KYC flow.
func (s *Service) SubmitBuyerVerification(ctx context.Context, actor Actor, p domain.BuyerProfile, docs []Document) *domain.VerificationReport {
	if !s.authorize(actor, domain.RoleBuyer) {
		return nil
	}
	return s.submit(ctx, actor, domain.RoleBuyer, docs, func(a *domain.Applicant) {
		a.SIRET = p.SIRET
		a.Activity = p.Activity
		a.PaymentMethod = p.PaymentMethod
	}, func(online bool) domain.VerificationReport {
		return verify.FinalizeBuyer(actor.UserID, p, online, s.now())
	}, p)
}

// submit is the shared KYC pipeline: mark the applicant pending,
// upload documents best effort, take the remote verdict when one is
// reachable, fall back to the local engine otherwise, then upsert the
// applicant and append history.
func (s *Service) submit(ctx context.Context, actor Actor, role domain.Role, docs []Document,
	applyProfile func(*domain.Applicant), localFinalize func(online bool) domain.VerificationReport, profile any) *domain.VerificationReport {

	s.mu.Lock()
	online := s.online
	now := s.now()

	applicant, err := s.applicants.ByUserID(ctx, actor.UserID)
	firstContact := err != nil || applicant == nil
	if firstContact {
		applicant = &domain.Applicant{UserID: actor.UserID, Role: role, CreatedAt: now}
	}
	applicant.Role = role
	applyProfile(applicant)
	// In-flight state: visible to re-reads while the async work runs.
	// A first submission also records the placeholder report so the
	// pending checks are inspectable before the verdict lands.
	applicant.Status = domain.VerificationPending
	if firstContact {
		placeholder := verify.Start(actor.UserID, role, now)
		applicant.LatestReportID = placeholder.ID
		if err := s.applicants.AppendReport(ctx, &placeholder); err != nil {
			log.Printf("[market] append report %s: %v", placeholder.ID, err)
		}
	}
	applicant.UpdatedAt = now
	if err := s.applicants.Upsert(ctx, applicant); err != nil {
		log.Printf("[market] upsert applicant %s: %v", actor.UserID, err)
	}
	s.mu.Unlock()

	var uploadErrs []string
	if s.uploader != nil && online {
		for _, d := range docs {
			if _, err := s.uploader.Upload(ctx, actor.UserID, d.Kind, d.FileURI); err != nil {
				uploadErrs = append(uploadErrs, fmt.Sprintf("%s: %v", d.Kind, err))
			}
		}
	}
	if len(uploadErrs) > 0 {
		_ = s.notifier.Notify("Some documents failed to upload",
			fmt.Sprintf("%d of %d documents could not be stored; verification continues", len(uploadErrs), len(docs)))
	}

	var report domain.VerificationReport
	switch {
	case s.verifier != nil && online:
		remote, err := s.verifier.Verify(actor.UserID, role, profile)
		if err != nil {
			// Remote failure counts as unavailable, never as a
			// rejection of the applicant.
			log.Printf("[market] remote verify %s: %v", actor.UserID, err)
			report = localFinalize(false)
		} else {
			report = *remote
		}
	default:
		report = localFinalize(online)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	applicant.Status = report.Status
	applicant.LatestReportID = report.ID
	applicant.UpdatedAt = s.now()
	if err := s.applicants.Upsert(ctx, applicant); err != nil {
		log.Printf("[market] upsert applicant %s: %v", actor.UserID, err)
	}
	if err := s.applicants.AppendReport(ctx, &report); err != nil {
		log.Printf("[market] append report %s: %v", report.ID, err)
	}

	s.emit(ctx, "verification.completed", map[string]any{
		"user_id":    actor.UserID,
		"role":       role,
		"status":     report.Status,
		"risk_level": report.RiskLevel,
	})
	s.queueIfOffline(ctx, "verification", fmt.Sprintf("verification submitted for %s (%s)", actor.UserID, role))

	switch report.Status {
	case domain.VerificationVerified:
		_ = s.notifier.Notify("Verification passed", "your account is verified; you can trade on the marketplace")
	case domain.VerificationRejected:
		_ = s.notifier.Notify("Verification rejected", report.FailureReason)
	default:
		_ = s.notifier.Notify("Verification pending", "checks will finish automatically once the service is reachable")
	}
	return &report
}

// Applicant returns the stored applicant snapshot for a user.
func (s *Service) Applicant(ctx context.Context, userID string) *domain.Applicant {
	a, err := s.applicants.ByUserID(ctx, userID)
	if err != nil {
		return nil
	}
	return a
}

// VerificationHistory lists past reports, newest first.
func (s *Service) VerificationHistory(ctx context.Context, userID string) []domain.VerificationReport {
	reports, err := s.applicants.Reports(ctx, userID)
	if err != nil {
		log.Printf("[market] reports for %s: %v", userID, err)
		return nil
	}
	return reports
}
