package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"alertflow/alerting/entity"
	"alertflow/internal/config"
	"alertflow/pkg/log"
)

// smsMaxLen is the single-segment SMS budget; longer texts are truncated.
const smsMaxLen = 160

// SMSChannel pages operators through an HTTP SMS gateway.
type SMSChannel struct {
	gatewayURL string
	token      string
	recipients []string
	client     *http.Client
	logger     *log.Logger
}

type smsMessage struct {
	To   []string `json:"to"`
	Text string   `json:"text"`
}

func NewSMSChannel(cfg config.SMSConfig) *SMSChannel {
	return &SMSChannel{
		gatewayURL: cfg.GatewayURL,
		token:      cfg.Token,
		recipients: cfg.Recipients,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     log.NewLogger(log.Loglevel, "sms-channel"),
	}
}

func (n *SMSChannel) Name() string {
	return ChannelSMS
}

func (n *SMSChannel) Available() bool {
	return n.gatewayURL != "" && len(n.recipients) > 0
}

func (n *SMSChannel) Send(alert entity.AlertRecord) error {
	text := fmt.Sprintf("[%s] %s/%s: %s", alert.Severity, alert.Service, alert.Name, alert.Message)
	if len(text) > smsMaxLen {
		cut := smsMaxLen - 3
		// Back up to a rune start so the cut never splits a multibyte char.
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}

	payload, err := json.Marshal(&smsMessage{To: n.recipients, Text: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, n.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned %d", resp.StatusCode)
	}

	return nil
}
