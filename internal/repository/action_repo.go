package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/you/dockside-market/internal/domain"
)

type ActionRepo struct{ db *gorm.DB }

func NewActionRepo(db *gorm.DB) *ActionRepo {
	return &ActionRepo{db: db}
}

func (r *ActionRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.PendingAction{}, &domain.SyncedAction{})
}

func (r *ActionRepo) Append(ctx context.Context, a domain.PendingAction) error {
	return r.db.WithContext(ctx).Create(&a).Error
}

func (r *ActionRepo) Pending(ctx context.Context) ([]domain.PendingAction, error) {
	var out []domain.PendingAction
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ActionRepo) MarkSynced(ctx context.Context, at time.Time) (int, error) {
	var moved int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending []domain.PendingAction
		if err := tx.Order("created_at ASC").Find(&pending).Error; err != nil {
			return err
		}
		for _, p := range pending {
			s := domain.SyncedAction{ID: p.ID, Type: p.Type, Summary: p.Summary, QueuedAt: p.CreatedAt, SyncedAt: at}
			if err := tx.Create(&s).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("1 = 1").Delete(&domain.PendingAction{}).Error; err != nil {
			return err
		}
		moved = len(pending)
		return nil
	})
	return moved, err
}

func (r *ActionRepo) History(ctx context.Context) ([]domain.SyncedAction, error) {
	var out []domain.SyncedAction
	if err := r.db.WithContext(ctx).Order("synced_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ActionRepo) Reset(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.PendingAction{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&domain.SyncedAction{}).Error
	})
}
