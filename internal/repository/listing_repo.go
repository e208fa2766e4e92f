package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/dockside-market/internal/domain"
)

type ListingRepo struct{ db *gorm.DB }

func NewListingRepo(db *gorm.DB) *ListingRepo {
	return &ListingRepo{db: db}
}

func (r *ListingRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Listing{})
}

func (r *ListingRepo) ByID(ctx context.Context, id string) (*domain.Listing, error) {
	var l domain.Listing
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ListingRepo) Save(ctx context.Context, l *domain.Listing) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *ListingRepo) ListByPort(ctx context.Context, port string) ([]domain.Listing, error) {
	qb := r.db.WithContext(ctx).Model(&domain.Listing{})
	if port != "" {
		qb = qb.Where("port = ?", port)
	}
	var out []domain.Listing
	if err := qb.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
