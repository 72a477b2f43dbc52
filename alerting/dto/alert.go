package dto

// RawAlert is one producer payload entry as delivered to the webhook.
// The shape follows the Alertmanager webhook format: the alert name rides
// both at top level and in labels, status is "firing" or "resolved".
type RawAlert struct {
	AlertName   string            `json:"alertname"`
	Status      string            `json:"status"`
	Labels      map[string]string `json:"labels"`
	Annotations map[string]string `json:"annotations"`
	StartsAt    string            `json:"startsAt,omitempty"`
	EndsAt      string            `json:"endsAt,omitempty"`
}

// Label returns a label value or "" when absent.
func (r *RawAlert) Label(name string) string {
	if r.Labels == nil {
		return ""
	}
	return r.Labels[name]
}

// Annotation returns an annotation value or "" when absent.
func (r *RawAlert) Annotation(name string) string {
	if r.Annotations == nil {
		return ""
	}
	return r.Annotations[name]
}

// WebhookResult reports how many entries of a batch were accepted.
type WebhookResult struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// SilenceRequest is the operator body for POST /alerts/:alert_id/silence.
type SilenceRequest struct {
	DurationMinutes int    `json:"duration_minutes" binding:"required,gt=0"`
	Comment         string `json:"comment"`
}

// LoginRequest authenticates an operator.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenVo carries an issued operator token.
type TokenVo struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}
