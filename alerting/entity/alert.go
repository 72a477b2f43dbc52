package entity

import (
	"fmt"
	"strings"
	"time"
)

// Severity ranks how urgent an alert is. It carries the producer's
// lowercase label form so it round-trips through JSON unchanged.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// ParseSeverity maps a raw severity label to a Severity.
// Unknown or empty values fall back to warning.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(s) {
	case "critical":
		return SeverityCritical
	case "warning":
		return SeverityWarning
	case "info":
		return SeverityInfo
	default:
		return SeverityWarning
	}
}

// Status is the lifecycle state of an alert. Resolved is terminal and a
// resolved record never appears in the active set.
type Status string

const (
	StatusFiring   Status = "firing"
	StatusSilenced Status = "silenced"
	StatusResolved Status = "resolved"
)

// AlertRecord is one alert occurrence. The in-memory active map and the
// redis snapshot store both hold this shape, serialized as JSON.
type AlertRecord struct {
	AlertID     string            `json:"alert_id"`
	Name        string            `json:"name"`
	Service     string            `json:"service"`
	Severity    Severity          `json:"severity"`
	Status      Status            `json:"status"`
	Message     string            `json:"message"`
	Description string            `json:"description,omitempty"`
	RunbookURL  string            `json:"runbook_url,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// MakeAlertID derives the dedup key for an alert. Repeated firings of the
// same condition on the same instance collide to the same key.
func MakeAlertID(name, instance string) string {
	if instance == "" {
		instance = "global"
	}
	return fmt.Sprintf("%s:%s", name, instance)
}
