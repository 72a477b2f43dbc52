package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"alertflow/alerting/entity"
	"alertflow/pkg/log"
	"alertflow/pkg/redis"
)

const activeKeyPrefix = "alert:active:"

// SnapshotStore is the durable TTL-bounded mirror of the active-alert map.
// The in-memory map is a cache of this set; LoadAllActive rebuilds it once
// at process start.
type SnapshotStore interface {
	SaveActive(ctx context.Context, alert *entity.AlertRecord, ttl time.Duration) error
	DeleteActive(ctx context.Context, alertID string) error
	LoadAllActive(ctx context.Context) ([]*entity.AlertRecord, error)
}

// KV is the slice of the redis client the snapshot store needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	SetWithExpire(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, key string) error
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
}

var _ KV = (*redis.Client)(nil)

type redisSnapshotStore struct {
	kv     KV
	logger *log.Logger
}

func NewRedisSnapshotStore(kv KV) SnapshotStore {
	return &redisSnapshotStore{
		kv:     kv,
		logger: log.NewLogger(log.Loglevel, "snapshot-store"),
	}
}

func (s *redisSnapshotStore) SaveActive(ctx context.Context, alert *entity.AlertRecord, ttl time.Duration) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return s.kv.SetWithExpire(ctx, activeKeyPrefix+alert.AlertID, string(data), ttl)
}

func (s *redisSnapshotStore) DeleteActive(ctx context.Context, alertID string) error {
	return s.kv.Del(ctx, activeKeyPrefix+alertID)
}

func (s *redisSnapshotStore) LoadAllActive(ctx context.Context) ([]*entity.AlertRecord, error) {
	keys, err := s.kv.ScanKeys(ctx, activeKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan active snapshots: %w", err)
	}

	alerts := make([]*entity.AlertRecord, 0, len(keys))
	for _, key := range keys {
		raw, err := s.kv.Get(ctx, key)
		if err != nil {
			// Key may have expired between SCAN and GET.
			if redis.IsNil(err) {
				continue
			}
			s.logger.Warningf("load snapshot %s: %v", key, err)
			continue
		}
		var alert entity.AlertRecord
		if err := json.Unmarshal([]byte(raw), &alert); err != nil {
			s.logger.Warningf("decode snapshot %s: %v", key, err)
			continue
		}
		alerts = append(alerts, &alert)
	}
	return alerts, nil
}
