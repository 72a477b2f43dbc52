package notifier

import "alertflow/alerting/entity"

// Channel delivers one alert through a concrete medium. Implementations
// receive the record by value and must never mutate alert state.
type Channel interface {
	// Name returns the channel name used for routing and metrics.
	Name() string

	// Send delivers one alert.
	Send(alert entity.AlertRecord) error

	// Available checks whether the delivery service is reachable.
	Available() bool
}

// Channel names understood by the router.
const (
	ChannelEmail      = "email"
	ChannelSMS        = "sms"
	ChannelLiveUpdate = "live_update"
)
