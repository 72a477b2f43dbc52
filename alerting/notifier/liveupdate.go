package notifier

import (
	"encoding/json"
	"fmt"

	"alertflow/alerting/entity"
	"alertflow/pkg/log"

	"github.com/nats-io/nats.go"
)

// LiveUpdateChannel publishes alert JSON to NATS so dashboards can
// subscribe to alerts.live.<severity> and update in place.
type LiveUpdateChannel struct {
	nc            *nats.Conn
	subjectPrefix string
	logger        *log.Logger
}

func NewLiveUpdateChannel(url, subjectPrefix string) (*LiveUpdateChannel, error) {
	if subjectPrefix == "" {
		subjectPrefix = "alerts"
	}
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &LiveUpdateChannel{
		nc:            nc,
		subjectPrefix: subjectPrefix,
		logger:        log.NewLogger(log.Loglevel, "live-update-channel"),
	}, nil
}

func (n *LiveUpdateChannel) Name() string {
	return ChannelLiveUpdate
}

func (n *LiveUpdateChannel) Available() bool {
	return n.nc != nil && n.nc.IsConnected()
}

func (n *LiveUpdateChannel) Send(alert entity.AlertRecord) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("%s.live.%s", n.subjectPrefix, alert.Severity)
	if err := n.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

func (n *LiveUpdateChannel) Close() {
	if n.nc != nil {
		n.nc.Close()
	}
}
