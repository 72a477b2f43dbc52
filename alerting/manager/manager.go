package manager

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"alertflow/alerting/dto"
	"alertflow/alerting/entity"
	"alertflow/alerting/metrics"
	"alertflow/alerting/normalizer"
	"alertflow/alerting/router"
	"alertflow/alerting/silence"
	"alertflow/alerting/store"
	"alertflow/pkg/log"

	"github.com/benbjohnson/clock"
)

// DefaultDedupWindow is how long a repeated identical-status firing is
// treated as the same occurrence. An alert firing continuously for longer
// than the window notifies again on purpose.
const DefaultDedupWindow = 5 * time.Minute

// DefaultSnapshotTTL bounds how long a crashed process can recover an
// unresolved alert from redis.
const DefaultSnapshotTTL = time.Hour

// Manager owns the active-alert map and drives the lifecycle state
// machine. It is the only component that mutates alert state; channels and
// readers only ever see value copies.
type Manager struct {
	mu     sync.Mutex
	active map[string]*entity.AlertRecord

	snapshots store.SnapshotStore
	history   store.HistoryRepository
	silences  *silence.Manager
	router    *router.Router
	clock     clock.Clock
	window    time.Duration
	ttl       time.Duration
	logger    *log.Logger
}

type Options struct {
	Snapshots store.SnapshotStore
	History   store.HistoryRepository
	Silences  *silence.Manager
	Router    *router.Router
	Clock     clock.Clock
	// Window and TTL fall back to the defaults when zero.
	Window time.Duration
	TTL    time.Duration
}

func NewManager(opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Window <= 0 {
		opts.Window = DefaultDedupWindow
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultSnapshotTTL
	}
	return &Manager{
		active:    make(map[string]*entity.AlertRecord),
		snapshots: opts.Snapshots,
		history:   opts.History,
		silences:  opts.Silences,
		router:    opts.Router,
		clock:     opts.Clock,
		window:    opts.Window,
		ttl:       opts.TTL,
		logger:    log.NewLogger(log.Loglevel, "alert-manager"),
	}
}

// Load rebuilds the in-memory active map from the snapshot store. Called
// once at process start; a scan failure degrades to an empty map because
// snapshots are best-effort, not authoritative.
func (m *Manager) Load(ctx context.Context) {
	alerts, err := m.snapshots.LoadAllActive(ctx)
	if err != nil {
		m.logger.Errorf("recovery load failed, starting with empty active set: %v", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, alert := range alerts {
		if alert.Status == entity.StatusResolved {
			continue
		}
		m.active[alert.AlertID] = alert
	}
	metrics.ActiveAlerts.Set(float64(len(m.active)))
	m.logger.Infof("recovered %d active alerts from snapshot store", len(m.active))
}

// Process runs one raw payload through the state machine. It returns
// whether a notification cycle was triggered; dedup drops, silences,
// resolutions, and malformed payloads all return false.
func (m *Manager) Process(ctx context.Context, raw *dto.RawAlert) bool {
	now := m.clock.Now()
	incoming, err := normalizer.Normalize(raw, now)
	if err != nil {
		metrics.AlertsMalformed.Inc()
		m.logger.Warningf("skipping malformed payload: %v", err)
		return false
	}

	if incoming.Status == entity.StatusResolved {
		return m.resolveLocked(ctx, incoming.AlertID, now)
	}

	// Redis round trip, deliberately outside the map lock. A silence that
	// lands mid-flight is honored on the next evaluation.
	silenced := m.silences.IsSilenced(ctx, incoming.AlertID)

	m.mu.Lock()
	existing, exists := m.active[incoming.AlertID]

	if exists && existing.Status == entity.StatusFiring && now.Sub(existing.Timestamp) < m.window {
		// Same condition, same status, inside the window: one occurrence.
		m.mu.Unlock()
		metrics.DedupDropped.Inc()
		m.logger.Verbosef("dedup drop for %s", incoming.AlertID)
		return false
	}

	if exists && existing.Status == entity.StatusSilenced && silenced {
		// Still silenced; the record stays listed, nothing is sent.
		m.mu.Unlock()
		m.logger.Verbosef("suppressed firing for silenced alert %s", incoming.AlertID)
		return false
	}

	if silenced {
		// A silence can outlive the alert it was issued for. A firing
		// inside that span enters the active set already silenced.
		incoming.Status = entity.StatusSilenced
	}
	// transition marks a state-machine edge worth a history row; a re-fire
	// of an already-firing alert after the window is the same state.
	transition := !exists || existing.Status != incoming.Status
	m.active[incoming.AlertID] = incoming
	// The mapped record can be mutated by a concurrent Silence the moment
	// the lock drops; persist, history, and dispatch work on this copy.
	record := *incoming
	m.mu.Unlock()

	m.persistSnapshot(ctx, &record)
	if transition {
		m.appendHistory(ctx, &record)
	}
	metrics.AlertsIngested.WithLabelValues(string(record.Severity)).Inc()
	m.updateGauge()

	if silenced {
		return false
	}

	m.logger.Infof("alert %s firing (severity=%s service=%s)", record.AlertID, record.Severity, record.Service)
	// The map lock is long released; the caller waits only for the
	// fan-out itself, individual channels run concurrently inside.
	m.router.Dispatch(record)
	return true
}

// Resolve removes an active alert, deletes its snapshot, and appends the
// resolved history row. Returns false when the alert is not active.
func (m *Manager) Resolve(ctx context.Context, alertID string) bool {
	return m.resolveLocked(ctx, alertID, m.clock.Now())
}

func (m *Manager) resolveLocked(ctx context.Context, alertID string, now time.Time) bool {
	m.mu.Lock()
	alert, exists := m.active[alertID]
	if !exists {
		m.mu.Unlock()
		return false
	}
	delete(m.active, alertID)
	alert.Status = entity.StatusResolved
	alert.Timestamp = now
	record := *alert
	m.mu.Unlock()

	if err := m.snapshots.DeleteActive(ctx, alertID); err != nil {
		metrics.SnapshotErrors.Inc()
		m.logger.Errorf("delete snapshot for %s: %v", alertID, err)
	}
	m.appendHistory(ctx, &record)
	m.updateGauge()

	m.logger.Infof("alert %s resolved", alertID)
	return true
}

// Silence flags an active alert as silenced for the duration. Returns the
// silence record and false when the alert is not active.
func (m *Manager) Silence(ctx context.Context, alertID string, duration time.Duration, comment, actor string) (*entity.Silence, bool) {
	now := m.clock.Now()

	m.mu.Lock()
	alert, exists := m.active[alertID]
	if !exists {
		m.mu.Unlock()
		return nil, false
	}
	prevStatus, prevTimestamp := alert.Status, alert.Timestamp
	alert.Status = entity.StatusSilenced
	alert.Timestamp = now
	snapshot := *alert
	m.mu.Unlock()

	record, err := m.silences.Create(ctx, alertID, duration, comment, actor)
	if err != nil {
		m.logger.Errorf("create silence for %s: %v", alertID, err)
		// No audit row and no silence key were written; roll the record
		// back so a firing alert keeps notifying.
		m.mu.Lock()
		if current, ok := m.active[alertID]; ok && current == alert {
			current.Status = prevStatus
			current.Timestamp = prevTimestamp
		}
		m.mu.Unlock()
		return nil, false
	}

	m.persistSnapshot(ctx, &snapshot)
	m.appendHistory(ctx, &snapshot)

	return record, true
}

// Active returns value copies of every record with status firing or
// silenced. Readers never observe engine-side mutation.
func (m *Manager) Active() []entity.AlertRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	alerts := make([]entity.AlertRecord, 0, len(m.active))
	for _, alert := range m.active {
		alerts = append(alerts, *alert)
	}
	return alerts
}

// History returns the most recent transitions, newest first.
func (m *Manager) History(ctx context.Context, limit int) ([]*entity.AlertHistory, error) {
	return m.history.Recent(ctx, limit)
}

// Stats aggregates history over the trailing hour window and overlays the
// live active count.
func (m *Manager) Stats(ctx context.Context, hours int) (*dto.AlertStats, error) {
	if hours <= 0 {
		hours = 24
	}
	since := m.clock.Now().Add(-time.Duration(hours) * time.Hour)
	stats, err := m.history.Stats(ctx, since)
	if err != nil {
		return nil, err
	}
	stats.WindowHours = hours

	m.mu.Lock()
	stats.Active = int64(len(m.active))
	m.mu.Unlock()

	return stats, nil
}

// Silences exposes the silence manager for the API layer.
func (m *Manager) Silences() *silence.Manager {
	return m.silences
}

func (m *Manager) persistSnapshot(ctx context.Context, alert *entity.AlertRecord) {
	if err := m.snapshots.SaveActive(ctx, alert, m.ttl); err != nil {
		metrics.SnapshotErrors.Inc()
		// The in-memory transition already happened and dispatch proceeds;
		// only restart recovery is lost for this alert.
		m.logger.Errorf("persist snapshot for %s failed, alert will not survive a restart: %v", alert.AlertID, err)
	}
}

func (m *Manager) appendHistory(ctx context.Context, alert *entity.AlertRecord) {
	labels, _ := json.Marshal(alert.Labels)
	row := &entity.AlertHistory{
		AlertID:   alert.AlertID,
		Name:      alert.Name,
		Service:   alert.Service,
		Severity:  alert.Severity,
		Status:    alert.Status,
		Message:   alert.Message,
		Labels:    string(labels),
		Timestamp: alert.Timestamp,
	}
	if err := m.history.Append(ctx, row); err != nil {
		m.logger.Errorf("append history for %s: %v", alert.AlertID, err)
	}
}

func (m *Manager) updateGauge() {
	m.mu.Lock()
	n := len(m.active)
	m.mu.Unlock()
	metrics.ActiveAlerts.Set(float64(n))
}
