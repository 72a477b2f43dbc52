package router

import (
	"alertflow/alerting/entity"
	"alertflow/alerting/metrics"
	"alertflow/alerting/notifier"
	"alertflow/pkg/log"

	"golang.org/x/sync/errgroup"
)

// Router maps alert severity to the set of channels that must be invoked
// and fans the dispatch out concurrently. The policy is fixed:
//
//	critical -> every registered channel
//	warning  -> every channel except sms
//	info     -> live_update only
type Router struct {
	channels []notifier.Channel
	logger   *log.Logger
}

func NewRouter(channels ...notifier.Channel) *Router {
	return &Router{
		channels: channels,
		logger:   log.NewLogger(log.Loglevel, "notification-router"),
	}
}

// ChannelsFor selects the channels for a severity.
func (r *Router) ChannelsFor(severity entity.Severity) []notifier.Channel {
	var selected []notifier.Channel
	for _, ch := range r.channels {
		switch severity {
		case entity.SeverityCritical:
			selected = append(selected, ch)
		case entity.SeverityWarning:
			if ch.Name() != notifier.ChannelSMS {
				selected = append(selected, ch)
			}
		case entity.SeverityInfo:
			if ch.Name() == notifier.ChannelLiveUpdate {
				selected = append(selected, ch)
			}
		}
	}
	return selected
}

// Dispatch sends the alert through every selected channel concurrently.
// A failing or panicking channel is logged and never affects its siblings
// or the caller; Dispatch itself never returns an error.
func (r *Router) Dispatch(alert entity.AlertRecord) {
	selected := r.ChannelsFor(alert.Severity)
	if len(selected) == 0 {
		return
	}

	var g errgroup.Group
	for _, ch := range selected {
		ch := ch
		g.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.Errorf("channel %s panicked sending alert %s: %v", ch.Name(), alert.AlertID, rec)
					metrics.Notifications.WithLabelValues(ch.Name(), "failed").Inc()
				}
			}()
			if err := ch.Send(alert); err != nil {
				r.logger.Errorf("channel %s failed for alert %s: %v", ch.Name(), alert.AlertID, err)
				metrics.Notifications.WithLabelValues(ch.Name(), "failed").Inc()
				return nil
			}
			r.logger.Verbosef("channel %s delivered alert %s", ch.Name(), alert.AlertID)
			metrics.Notifications.WithLabelValues(ch.Name(), "sent").Inc()
			return nil
		})
	}
	_ = g.Wait()
}
