package email

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/frahmantamala/tenant-management/internal"
)

// Mailer sends transactional mail over SMTP with plain auth. When no SMTP
// host is configured it logs the message instead, which keeps local
// development working without a mail server.
type Mailer struct {
	cfg     internal.MailerConfig
	baseURL string
	logger  *slog.Logger
}

func NewMailer(cfg internal.MailerConfig, baseURL string, logger *slog.Logger) *Mailer {
	return &Mailer{
		cfg:     cfg,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

func (m *Mailer) Send(to, subject, htmlBody string) error {
	if !m.cfg.Enabled() {
		m.logger.Info("mailer disabled, logging message instead",
			"to", to,
			"subject", subject)
		return nil
	}

	from := m.cfg.FromEmail
	msg := "From: " + m.cfg.FromName + " <" + from + ">\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" + htmlBody

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	m.logger.Info("email sent", "to", to, "subject", subject)
	return nil
}
