package silence

import (
	"context"
	"time"

	"alertflow/alerting/entity"
	"alertflow/alerting/metrics"
	"alertflow/alerting/store"
	"alertflow/pkg/log"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
)

const silenceKeyPrefix = "alert:silence:"

// KV is the slice of the redis client the silence hot path needs. The TTL
// on the key is the silence duration, so expiry is passive.
type KV interface {
	SetWithExpire(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Manager records operator silences and answers IsSilenced on the dispatch
// path. A silence flags the alert, it never removes it from the active set.
type Manager struct {
	kv     KV
	repo   store.SilenceRepository
	clock  clock.Clock
	logger *log.Logger
}

func NewManager(kv KV, repo store.SilenceRepository, clk clock.Clock) *Manager {
	if clk == nil {
		clk = clock.New()
	}
	return &Manager{
		kv:     kv,
		repo:   repo,
		clock:  clk,
		logger: log.NewLogger(log.Loglevel, "silence-manager"),
	}
}

// Create registers a silence for the alert and arms the TTL key.
func (m *Manager) Create(ctx context.Context, alertID string, duration time.Duration, comment, actor string) (*entity.Silence, error) {
	now := m.clock.Now()
	s := &entity.Silence{
		SilenceID: uuid.NewString(),
		AlertID:   alertID,
		Comment:   comment,
		CreatedBy: actor,
		StartsAt:  now,
		EndsAt:    now.Add(duration),
	}

	if err := m.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	if err := m.kv.SetWithExpire(ctx, silenceKeyPrefix+alertID, s.SilenceID, duration); err != nil {
		// The audit row exists; the hot-path key does not. Dispatch keeps
		// running for this alert, which is the safer failure direction.
		m.logger.Errorf("arm silence key for %s: %v", alertID, err)
	}
	metrics.SilencesCreated.Inc()
	m.logger.Infof("alert %s silenced for %s by %s", alertID, duration, actor)
	return s, nil
}

// IsSilenced reports whether a silence is currently in effect.
func (m *Manager) IsSilenced(ctx context.Context, alertID string) bool {
	ok, err := m.kv.Exists(ctx, silenceKeyPrefix+alertID)
	if err != nil {
		m.logger.Warningf("silence check for %s: %v", alertID, err)
		return false
	}
	return ok
}

// List returns silences, optionally only those still in effect.
func (m *Manager) List(ctx context.Context, activeOnly bool) ([]*entity.Silence, error) {
	return m.repo.List(ctx, activeOnly, m.clock.Now())
}

// Delete revokes a silence early and drops the TTL key.
func (m *Manager) Delete(ctx context.Context, silenceID string) error {
	s, err := m.repo.GetBySilenceID(ctx, silenceID)
	if err != nil {
		return err
	}
	if err := m.repo.Revoke(ctx, silenceID); err != nil {
		return err
	}
	if err := m.kv.Del(ctx, silenceKeyPrefix+s.AlertID); err != nil {
		m.logger.Warningf("drop silence key for %s: %v", s.AlertID, err)
	}
	m.logger.Infof("silence %s for alert %s deleted", silenceID, s.AlertID)
	return nil
}
