package store

import (
	"context"
	"errors"
	"time"

	"alertflow/alerting/entity"
	"alertflow/pkg/aferrors"

	"gorm.io/gorm"
)

// SilenceRepository persists silence audit rows. The TTL key in redis is
// the hot-path record; these rows back the listing and compliance API.
type SilenceRepository interface {
	Create(ctx context.Context, s *entity.Silence) error
	GetBySilenceID(ctx context.Context, id string) (*entity.Silence, error)
	List(ctx context.Context, activeOnly bool, now time.Time) ([]*entity.Silence, error)
	Revoke(ctx context.Context, id string) error
}

var _ SilenceRepository = (*silenceRepository)(nil)

type silenceRepository struct {
	db *gorm.DB
}

func NewSilenceRepository(db *gorm.DB) SilenceRepository {
	return &silenceRepository{db: db}
}

func (r *silenceRepository) Create(ctx context.Context, s *entity.Silence) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *silenceRepository) GetBySilenceID(ctx context.Context, id string) (*entity.Silence, error) {
	var s entity.Silence
	err := r.db.WithContext(ctx).Where("silence_id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, aferrors.ErrSilenceNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *silenceRepository) List(ctx context.Context, activeOnly bool, now time.Time) ([]*entity.Silence, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		query = query.Where("revoked = ? AND starts_at <= ? AND ends_at > ?", false, now, now)
	}
	var rows []*entity.Silence
	err := query.Find(&rows).Error
	return rows, err
}

func (r *silenceRepository) Revoke(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&entity.Silence{}).
		Where("silence_id = ? AND revoked = ?", id, false).
		Update("revoked", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return aferrors.ErrSilenceNotFound
	}
	return nil
}
