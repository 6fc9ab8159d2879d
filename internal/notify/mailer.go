// Package notify sends best-effort email notifications when a note is
// persisted. Delivery failures never influence the pipeline's outcome;
// call sites log and move on.
package notify

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"

	gomail "gopkg.in/gomail.v2"
)

//go:embed assets/logo.png
var logoPNG []byte

const subject = "Your meeting note is ready"

const bodyHTML = `<html>
<body>
<p><img src="cid:logo.png" alt="VoxNote" width="48" height="48"></p>
<p>Hi,</p>
<p>Your meeting recording has been transcribed and summarized.
The note is now available in your collection.</p>
<p>— VoxNote</p>
</body>
</html>`

// Notifier dispatches a notification to a recipient.
type Notifier interface {
	Notify(recipient string) error
}

// Mailer sends the fixed notification template over SMTP with the logo
// embedded inline. Constructed once at startup and shared.
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	enabled bool
	logger  *slog.Logger
}

// Verify Mailer satisfies Notifier at compile time.
var _ Notifier = (*Mailer)(nil)

// NewMailer creates a mailer. When enabled is false, Notify is a logged
// no-op, which keeps local development free of SMTP requirements.
func NewMailer(enabled bool, host string, port int, username, password, from string, logger *slog.Logger) *Mailer {
	m := &Mailer{from: from, enabled: enabled, logger: logger}
	if enabled {
		m.dialer = gomail.NewDialer(host, port, username, password)
	}
	return m
}

// Notify sends the notification message to the recipient.
func (m *Mailer) Notify(recipient string) error {
	if !m.enabled {
		m.logger.Debug("notify: mail disabled, skipping", slog.String("recipient", recipient))
		return nil
	}
	if recipient == "" {
		return fmt.Errorf("notify: empty recipient")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.Embed("logo.png", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(logoPNG)
		return err
	}))
	msg.SetBody("text/html", bodyHTML)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("notify: send to %s: %w", recipient, err)
	}
	m.logger.Info("notify: sent", slog.String("recipient", recipient))
	return nil
}
