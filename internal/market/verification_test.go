package market

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/dockside-market/internal/domain"
)

func validFisherProfile() domain.FisherProfile {
	return domain.FisherProfile{
		BoatRegistration: "GV-1234",
		Permit:           "FR-PECH-12345",
		Insurance:        "AXA-2024-778",
		IBAN:             "FR7630006000011234567890189",
	}
}

type fakeVerifier struct {
	report *domain.VerificationReport
	err    error
	calls  int
}

func (v *fakeVerifier) Verify(userID string, role domain.Role, profile any) (*domain.VerificationReport, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	return v.report, nil
}

type fakeUploader struct {
	uploaded []string
	failKind string
}

func (u *fakeUploader) Upload(ctx context.Context, userID, kind, fileURI string) (string, error) {
	if kind == u.failKind {
		return "", errors.New("storage unavailable")
	}
	u.uploaded = append(u.uploaded, kind)
	return "https://docs.local/" + userID + "/" + kind, nil
}

func TestSubmitFisherVerifiedLocally(t *testing.T) {
	f := newFixture(t, nil)

	rep := f.svc.SubmitFisherVerification(ctx, fisher, validFisherProfile(), nil)
	require.NotNil(t, rep)
	assert.Equal(t, domain.VerificationVerified, rep.Status)
	assert.True(t, f.notifier.has("Verification passed"))

	a := f.svc.Applicant(ctx, fisher.UserID)
	require.NotNil(t, a)
	assert.Equal(t, domain.VerificationVerified, a.Status)
	assert.Equal(t, rep.ID, a.LatestReportID)
	assert.Equal(t, "GV-1234", a.BoatRegistration)
}

func TestSubmitFisherRejectedLocally(t *testing.T) {
	f := newFixture(t, nil)
	p := validFisherProfile()
	p.Permit = "nope"

	rep := f.svc.SubmitFisherVerification(ctx, fisher, p, nil)
	require.NotNil(t, rep)
	assert.Equal(t, domain.VerificationRejected, rep.Status)
	assert.NotEmpty(t, rep.FailureReason)
	assert.True(t, f.notifier.has("Verification rejected"))
}

func TestSubmitOfflineStaysPending(t *testing.T) {
	f := newFixture(t, nil)
	f.svc.SetOnline(false)

	// an unfixable profile still never gets rejected offline
	rep := f.svc.SubmitFisherVerification(ctx, fisher, domain.FisherProfile{}, nil)
	require.NotNil(t, rep)
	assert.Equal(t, domain.VerificationPending, rep.Status)
	assert.True(t, f.notifier.has("Verification pending"))

	pending := f.svc.PendingActions(ctx)
	require.Len(t, pending, 1)
	assert.Equal(t, "verification", pending[0].Type)
}

func TestSubmitUsesRemoteVerdict(t *testing.T) {
	v := &fakeVerifier{report: &domain.VerificationReport{
		ID:     "rep-remote",
		UserID: "f1",
		Role:   domain.RoleFisher,
		Status: domain.VerificationRejected, FailureReason: "permit revoked",
		RiskScore: 80, RiskLevel: domain.RiskHigh,
	}}
	f := newFixture(t, func(d *Deps) { d.Verifier = v })

	// locally the profile is clean, the remote verdict wins anyway
	rep := f.svc.SubmitFisherVerification(ctx, fisher, validFisherProfile(), nil)
	require.NotNil(t, rep)
	assert.Equal(t, 1, v.calls)
	assert.Equal(t, domain.VerificationRejected, rep.Status)
	assert.Equal(t, "permit revoked", rep.FailureReason)
}

func TestSubmitRemoteFailureFallsBackToPending(t *testing.T) {
	v := &fakeVerifier{err: errors.New("gateway timeout")}
	f := newFixture(t, func(d *Deps) { d.Verifier = v })

	rep := f.svc.SubmitFisherVerification(ctx, fisher, validFisherProfile(), nil)
	require.NotNil(t, rep)
	assert.Equal(t, domain.VerificationPending, rep.Status, "provider outage must not reject the applicant")
}

func TestSubmitRemoteSkippedOffline(t *testing.T) {
	v := &fakeVerifier{report: &domain.VerificationReport{Status: domain.VerificationVerified}}
	f := newFixture(t, func(d *Deps) { d.Verifier = v })
	f.svc.SetOnline(false)

	rep := f.svc.SubmitFisherVerification(ctx, fisher, validFisherProfile(), nil)
	require.NotNil(t, rep)
	assert.Equal(t, 0, v.calls)
	assert.Equal(t, domain.VerificationPending, rep.Status)
}

func TestSubmitUploadsDocuments(t *testing.T) {
	u := &fakeUploader{}
	f := newFixture(t, func(d *Deps) { d.Uploader = u })

	docs := []Document{
		{Kind: "permit", FileURI: "file:///tmp/permit.pdf"},
		{Kind: "insurance", FileURI: "file:///tmp/insurance.pdf"},
	}
	rep := f.svc.SubmitFisherVerification(ctx, fisher, validFisherProfile(), docs)
	require.NotNil(t, rep)
	assert.Equal(t, []string{"permit", "insurance"}, u.uploaded)
	assert.False(t, f.notifier.has("Some documents failed to upload"))
}

func TestSubmitUploadFailureDoesNotAbort(t *testing.T) {
	u := &fakeUploader{failKind: "permit"}
	f := newFixture(t, func(d *Deps) { d.Uploader = u })

	docs := []Document{
		{Kind: "permit", FileURI: "file:///tmp/permit.pdf"},
		{Kind: "insurance", FileURI: "file:///tmp/insurance.pdf"},
	}
	rep := f.svc.SubmitFisherVerification(ctx, fisher, validFisherProfile(), docs)
	require.NotNil(t, rep)
	assert.Equal(t, domain.VerificationVerified, rep.Status)
	assert.True(t, f.notifier.has("Some documents failed to upload"))
}

func TestSubmitBuyerVerification(t *testing.T) {
	f := newFixture(t, nil)
	p := domain.BuyerProfile{SIRET: "55210055400013", Activity: "Poissonnerie", PaymentMethod: "card"}

	rep := f.svc.SubmitBuyerVerification(ctx, buyer, p, nil)
	require.NotNil(t, rep)
	assert.Equal(t, domain.VerificationVerified, rep.Status)

	// role gate: a fisher cannot run the buyer flow
	assert.Nil(t, f.svc.SubmitBuyerVerification(ctx, fisher, p, nil))
}

func TestFirstSubmissionRecordsPlaceholderReport(t *testing.T) {
	f := newFixture(t, nil)
	rep := f.svc.SubmitFisherVerification(ctx, fisher, validFisherProfile(), nil)
	require.NotNil(t, rep)

	hist := f.svc.VerificationHistory(ctx, fisher.UserID)
	require.Len(t, hist, 2)
	placeholder := hist[1]
	assert.Equal(t, domain.VerificationPending, placeholder.Status)
	assert.Equal(t, 50, placeholder.RiskScore)
	assert.Equal(t, domain.RiskMedium, placeholder.RiskLevel)
	for _, c := range placeholder.Checks {
		assert.Equal(t, domain.CheckPending, c.Status)
	}

	// the verdict supersedes the placeholder on the applicant
	a := f.svc.Applicant(ctx, fisher.UserID)
	assert.Equal(t, rep.ID, a.LatestReportID)

	// a resubmission reuses the applicant row, no second placeholder
	f.svc.SubmitFisherVerification(ctx, fisher, validFisherProfile(), nil)
	assert.Len(t, f.svc.VerificationHistory(ctx, fisher.UserID), 3)
}

func TestVerificationHistoryNewestFirst(t *testing.T) {
	f := newFixture(t, nil)
	p := validFisherProfile()
	p.Insurance = ""
	first := f.svc.SubmitFisherVerification(ctx, fisher, p, nil)
	require.Equal(t, domain.VerificationRejected, first.Status)

	second := f.svc.SubmitFisherVerification(ctx, fisher, validFisherProfile(), nil)
	require.Equal(t, domain.VerificationVerified, second.Status)

	hist := f.svc.VerificationHistory(ctx, fisher.UserID)
	require.Len(t, hist, 3)
	assert.Equal(t, second.ID, hist[0].ID)
	assert.Equal(t, first.ID, hist[1].ID)
	// oldest entry is the first-contact placeholder
	assert.Equal(t, domain.VerificationPending, hist[2].Status)

	a := f.svc.Applicant(ctx, fisher.UserID)
	assert.Equal(t, domain.VerificationVerified, a.Status)
	assert.Equal(t, second.ID, a.LatestReportID)
}
