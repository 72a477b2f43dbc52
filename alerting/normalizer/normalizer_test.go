package normalizer

import (
	"errors"
	"testing"
	"time"

	"alertflow/alerting/dto"
	"alertflow/alerting/entity"
	"alertflow/pkg/aferrors"
)

func TestNormalize(t *testing.T) {
	now := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

	t.Run("firing alert with full labels", func(t *testing.T) {
		raw := &dto.RawAlert{
			AlertName: "HighErrorRate",
			Status:    "firing",
			Labels: map[string]string{
				"severity": "critical",
				"service":  "api",
				"instance": "api-01",
			},
			Annotations: map[string]string{
				"summary":     "err rate high",
				"description": "5xx above 5%",
				"runbook_url": "https://runbooks.local/high-error-rate",
			},
		}

		alert, err := Normalize(raw, now)
		if err != nil {
			t.Fatal(err)
		}
		if alert.AlertID != "HighErrorRate:api-01" {
			t.Errorf("alert id = %s", alert.AlertID)
		}
		if alert.Severity != entity.SeverityCritical {
			t.Errorf("severity = %s", alert.Severity)
		}
		if alert.Status != entity.StatusFiring {
			t.Errorf("status = %s", alert.Status)
		}
		if alert.Service != "api" {
			t.Errorf("service = %s", alert.Service)
		}
		if alert.Message != "err rate high" {
			t.Errorf("message = %s", alert.Message)
		}
		if alert.RunbookURL == "" {
			t.Error("runbook url dropped")
		}
		if !alert.Timestamp.Equal(now) {
			t.Errorf("timestamp = %s", alert.Timestamp)
		}
	})

	t.Run("alert id is deterministic", func(t *testing.T) {
		raw := &dto.RawAlert{
			AlertName: "DiskFull",
			Status:    "firing",
			Labels:    map[string]string{"instance": "db-02"},
		}
		first, err := Normalize(raw, now)
		if err != nil {
			t.Fatal(err)
		}
		second, err := Normalize(raw, now.Add(time.Hour))
		if err != nil {
			t.Fatal(err)
		}
		if first.AlertID != second.AlertID {
			t.Errorf("ids differ: %s vs %s", first.AlertID, second.AlertID)
		}
	})

	t.Run("alertname falls back to label", func(t *testing.T) {
		raw := &dto.RawAlert{
			Status: "firing",
			Labels: map[string]string{"alertname": "PodCrashLoop", "service": "scheduler"},
		}
		alert, err := Normalize(raw, now)
		if err != nil {
			t.Fatal(err)
		}
		if alert.Name != "PodCrashLoop" {
			t.Errorf("name = %s", alert.Name)
		}
	})

	t.Run("unknown severity defaults to warning", func(t *testing.T) {
		raw := &dto.RawAlert{
			AlertName: "WeirdAlert",
			Status:    "firing",
			Labels:    map[string]string{"severity": "catastrophic"},
		}
		alert, err := Normalize(raw, now)
		if err != nil {
			t.Fatal(err)
		}
		if alert.Severity != entity.SeverityWarning {
			t.Errorf("severity = %s, want warning", alert.Severity)
		}
	})

	t.Run("missing severity defaults to warning", func(t *testing.T) {
		raw := &dto.RawAlert{AlertName: "NoSeverity", Status: "firing"}
		alert, err := Normalize(raw, now)
		if err != nil {
			t.Fatal(err)
		}
		if alert.Severity != entity.SeverityWarning {
			t.Errorf("severity = %s, want warning", alert.Severity)
		}
	})

	t.Run("non-firing status is resolved", func(t *testing.T) {
		raw := &dto.RawAlert{AlertName: "HighErrorRate", Status: "resolved"}
		alert, err := Normalize(raw, now)
		if err != nil {
			t.Fatal(err)
		}
		if alert.Status != entity.StatusResolved {
			t.Errorf("status = %s", alert.Status)
		}
	})

	t.Run("missing name is malformed", func(t *testing.T) {
		raw := &dto.RawAlert{Status: "firing"}
		_, err := Normalize(raw, now)
		if !errors.Is(err, aferrors.ErrInvalidPayload) {
			t.Fatalf("err = %v, want ErrInvalidPayload", err)
		}
	})

	t.Run("message falls back to alert name", func(t *testing.T) {
		raw := &dto.RawAlert{AlertName: "NoSummary", Status: "firing"}
		alert, err := Normalize(raw, now)
		if err != nil {
			t.Fatal(err)
		}
		if alert.Message != "NoSummary" {
			t.Errorf("message = %s", alert.Message)
		}
	})
}
