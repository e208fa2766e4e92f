package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/you/dockside-market/internal/domain"
)

type ApplicantRepo struct{ db *gorm.DB }

func NewApplicantRepo(db *gorm.DB) *ApplicantRepo {
	return &ApplicantRepo{db: db}
}

func (r *ApplicantRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Applicant{}, &domain.VerificationReport{}, &domain.VerificationCheck{})
}

func (r *ApplicantRepo) ByUserID(ctx context.Context, userID string) (*domain.Applicant, error) {
	var a domain.Applicant
	err := r.db.WithContext(ctx).First(&a, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Upsert inserts new applicants and merges resubmissions by user id.
func (r *ApplicantRepo) Upsert(ctx context.Context, a *domain.Applicant) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).Create(a).Error
}

func (r *ApplicantRepo) AppendReport(ctx context.Context, rep *domain.VerificationReport) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *ApplicantRepo) Reports(ctx context.Context, userID string) ([]domain.VerificationReport, error) {
	var out []domain.VerificationReport
	err := r.db.WithContext(ctx).Preload("Checks").
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
