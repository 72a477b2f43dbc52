package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// --- ingestion ---
	AlertsIngested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "alertflow_alerts_ingested_total",
		Help: "Alert payloads accepted by the lifecycle engine",
	}, []string{"severity"})

	AlertsMalformed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alertflow_alerts_malformed_total",
		Help: "Payload entries skipped as malformed",
	})

	DedupDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alertflow_dedup_dropped_total",
		Help: "Firing payloads dropped inside the dedup window",
	})

	// --- lifecycle ---
	ActiveAlerts = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "alertflow_active_alerts",
		Help: "Alerts currently in the active set (firing or silenced)",
	})

	SilencesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alertflow_silences_created_total",
		Help: "Operator silences created",
	})

	// --- dispatch ---
	// result: sent, failed, suppressed
	Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "alertflow_notifications_total",
		Help: "Notification attempts per channel",
	}, []string{"channel", "result"})

	SnapshotErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alertflow_snapshot_errors_total",
		Help: "Failed writes/deletes against the snapshot store",
	})
)

func init() {
	prometheus.MustRegister(
		AlertsIngested, AlertsMalformed, DedupDropped,
		ActiveAlerts, SilencesCreated,
		Notifications, SnapshotErrors,
	)
}
