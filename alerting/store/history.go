package store

import (
	"context"
	"time"

	"alertflow/alerting/dto"
	"alertflow/alerting/entity"

	"gorm.io/gorm"
)

// HistoryRepository owns the append-only audit trail. Rows are written on
// every state transition and never touched again.
type HistoryRepository interface {
	Append(ctx context.Context, h *entity.AlertHistory) error
	Recent(ctx context.Context, limit int) ([]*entity.AlertHistory, error)
	Stats(ctx context.Context, since time.Time) (*dto.AlertStats, error)
}

var _ HistoryRepository = (*historyRepository)(nil)

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, h *entity.AlertHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *historyRepository) Recent(ctx context.Context, limit int) ([]*entity.AlertHistory, error) {
	var rows []*entity.AlertHistory
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

type groupCount struct {
	Key   string
	Total int64
}

func (r *historyRepository) Stats(ctx context.Context, since time.Time) (*dto.AlertStats, error) {
	stats := &dto.AlertStats{
		BySeverity: make(map[string]int64),
		ByStatus:   make(map[string]int64),
		ByService:  make(map[string]int64),
	}

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&entity.AlertHistory{}).Where("timestamp >= ?", since)
	}

	// Occurrences are the firing transitions; resolved/silenced rows are
	// lifecycle echoes of the same occurrence.
	var rows []groupCount
	if err := base().Where("status = ?", entity.StatusFiring).
		Select("severity as `key`, count(*) as total").Group("severity").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.BySeverity[row.Key] = row.Total
		stats.Total += row.Total
	}

	rows = rows[:0]
	if err := base().Select("status as `key`, count(*) as total").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[row.Key] = row.Total
	}
	stats.Resolved = stats.ByStatus[string(entity.StatusResolved)]

	rows = rows[:0]
	if err := base().Where("status = ?", entity.StatusFiring).
		Select("service as `key`, count(*) as total").Group("service").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByService[row.Key] = row.Total
	}

	return stats, nil
}
