package notifier

import (
	"fmt"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"alertflow/alerting/entity"
	"alertflow/internal/config"
	"alertflow/pkg/aferrors"
	"alertflow/pkg/log"
)

// EmailChannel sends one HTML mail per alert through plain SMTP.
type EmailChannel struct {
	smtpServer  string
	smtpPort    int
	username    string
	password    string
	from        string
	to          []string
	logger      *log.Logger
	lastCheckAt time.Time
	available   bool
	checkMutex  sync.Mutex
}

func NewEmailChannel(cfg config.SMTPConfig) *EmailChannel {
	n := &EmailChannel{
		smtpServer: cfg.Server,
		smtpPort:   cfg.Port,
		username:   cfg.Username,
		password:   cfg.Password,
		from:       cfg.From,
		to:         cfg.To,
		logger:     log.NewLogger(log.Loglevel, "email-channel"),
	}
	n.checkAvailability()
	return n
}

func (n *EmailChannel) Name() string {
	return ChannelEmail
}

func (n *EmailChannel) Available() bool {
	n.checkMutex.Lock()
	defer n.checkMutex.Unlock()

	// Reuse the cached result for 10 minutes to keep probes off the hot path.
	if time.Since(n.lastCheckAt) < 10*time.Minute {
		return n.available
	}

	return n.checkAvailability()
}

func (n *EmailChannel) checkAvailability() bool {
	n.lastCheckAt = time.Now()

	client, err := smtp.Dial(fmt.Sprintf("%s:%d", n.smtpServer, n.smtpPort))
	if err != nil {
		n.logger.Warningf("smtp dial failed: %v", err)
		n.available = false
		return false
	}
	defer client.Close()

	if n.username != "" && n.password != "" {
		auth := smtp.PlainAuth("", n.username, n.password, n.smtpServer)
		if err := client.Auth(auth); err != nil {
			n.logger.Warningf("smtp auth failed: %v", err)
			n.available = false
			return false
		}
	}

	n.available = true
	return true
}

func (n *EmailChannel) Send(alert entity.AlertRecord) error {
	if !n.Available() {
		return aferrors.ErrChannelUnavailable
	}

	severityColor := "#000000"
	switch alert.Severity {
	case entity.SeverityCritical:
		severityColor = "#ff0000"
	case entity.SeverityWarning:
		severityColor = "#ffcc00"
	case entity.SeverityInfo:
		severityColor = "#0099cc"
	}

	var body strings.Builder
	body.WriteString("<!DOCTYPE html><html><body>")
	body.WriteString(fmt.Sprintf("<h2>Alert: %s</h2>", alert.Name))
	body.WriteString("<table border='1' cellpadding='5' cellspacing='0' style='border-collapse:collapse'>")
	body.WriteString(fmt.Sprintf("<tr><td>Severity</td><td style='color:%s;font-weight:bold'>%s</td></tr>", severityColor, alert.Severity))
	body.WriteString(fmt.Sprintf("<tr><td>Service</td><td>%s</td></tr>", alert.Service))
	body.WriteString(fmt.Sprintf("<tr><td>Status</td><td>%s</td></tr>", alert.Status))
	body.WriteString(fmt.Sprintf("<tr><td>Message</td><td>%s</td></tr>", alert.Message))
	if alert.Description != "" {
		body.WriteString(fmt.Sprintf("<tr><td>Description</td><td>%s</td></tr>", alert.Description))
	}
	if alert.RunbookURL != "" {
		body.WriteString(fmt.Sprintf("<tr><td>Runbook</td><td><a href='%s'>%s</a></td></tr>", alert.RunbookURL, alert.RunbookURL))
	}
	body.WriteString(fmt.Sprintf("<tr><td>Time</td><td>%s</td></tr>", alert.Timestamp.Format("2006-01-02 15:04:05")))
	body.WriteString("</table>")
	body.WriteString("</body></html>")

	subject := fmt.Sprintf("[%s] %s on %s", strings.ToUpper(string(alert.Severity)), alert.Name, alert.Service)

	header := make(map[string]string)
	header["From"] = n.from
	header["To"] = strings.Join(n.to, ",")
	header["Subject"] = subject
	header["MIME-Version"] = "1.0"
	header["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range header {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(body.String())

	auth := smtp.PlainAuth("", n.username, n.password, n.smtpServer)
	err := smtp.SendMail(
		fmt.Sprintf("%s:%d", n.smtpServer, n.smtpPort),
		auth,
		n.from,
		n.to,
		[]byte(message.String()),
	)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}
