package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/you/dockside-market/internal/domain"
)

type ReservationRepo struct{ db *gorm.DB }

func NewReservationRepo(db *gorm.DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

func (r *ReservationRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Reservation{}, &domain.Compensation{})
}

func (r *ReservationRepo) ByID(ctx context.Context, id string) (*domain.Reservation, error) {
	var res domain.Reservation
	err := r.db.WithContext(ctx).Preload("Compensation").First(&res, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepo) Save(ctx context.Context, res *domain.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Compensation").Save(res).Error; err != nil {
			return err
		}
		if res.Compensation != nil {
			return tx.Save(res.Compensation).Error
		}
		return nil
	})
}

func (r *ReservationRepo) ListForUser(ctx context.Context, role domain.Role, userID string) ([]domain.Reservation, error) {
	qb := r.db.WithContext(ctx).Model(&domain.Reservation{}).Preload("Compensation")
	switch role {
	case domain.RoleBuyer:
		qb = qb.Where("buyer_id = ?", userID)
	case domain.RoleFisher:
		qb = qb.Where("fisher_id = ?", userID)
	}
	var out []domain.Reservation
	if err := qb.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReservationRepo) Reset(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.Compensation{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&domain.Reservation{}).Error
	})
}
