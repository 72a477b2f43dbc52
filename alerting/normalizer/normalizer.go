package normalizer

import (
	"fmt"
	"time"

	"alertflow/alerting/dto"
	"alertflow/alerting/entity"
	"alertflow/pkg/aferrors"
)

// Normalize turns one raw producer payload into a canonical AlertRecord.
// now becomes the record's transition timestamp so the caller controls the
// clock. A payload without a resolvable alert name is malformed.
func Normalize(raw *dto.RawAlert, now time.Time) (*entity.AlertRecord, error) {
	name := raw.AlertName
	if name == "" {
		name = raw.Label("alertname")
	}
	if name == "" {
		return nil, fmt.Errorf("%w: missing alertname", aferrors.ErrInvalidPayload)
	}

	instance := raw.Label("instance")
	if instance == "" {
		instance = raw.Label("service")
	}

	service := raw.Label("service")
	if service == "" {
		service = raw.Label("instance")
	}
	if service == "" {
		service = "unknown"
	}

	status := entity.StatusResolved
	if raw.Status == "firing" {
		status = entity.StatusFiring
	}

	message := raw.Annotation("summary")
	if message == "" {
		message = name
	}

	return &entity.AlertRecord{
		AlertID:     entity.MakeAlertID(name, instance),
		Name:        name,
		Service:     service,
		Severity:    entity.ParseSeverity(raw.Label("severity")),
		Status:      status,
		Message:     message,
		Description: raw.Annotation("description"),
		RunbookURL:  raw.Annotation("runbook_url"),
		Labels:      raw.Labels,
		Annotations: raw.Annotations,
		Timestamp:   now,
	}, nil
}
