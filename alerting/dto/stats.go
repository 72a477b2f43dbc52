package dto

// AlertStats aggregates history rows over a caller-supplied hour window.
type AlertStats struct {
	WindowHours int              `json:"window_hours"`
	Total       int64            `json:"total"`
	Active      int64            `json:"active"`
	Resolved    int64            `json:"resolved"`
	BySeverity  map[string]int64 `json:"by_severity"`
	ByStatus    map[string]int64 `json:"by_status"`
	ByService   map[string]int64 `json:"by_service"`
}
