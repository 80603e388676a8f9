// Package mail implements the outbound email collaborator used for player
// verification tokens. Delivery is best effort; callers never fail on mailer
// errors.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"aegis.gg/internal/config"
	"aegis.gg/internal/obs"
)

// Mailer sends platform emails over SMTP. When the SMTP host or sender is
// missing the mailer degrades to a logging no-op so local environments work
// without a relay.
type Mailer struct {
	cfg     config.SMTPConfig
	enabled bool
}

func New(cfg config.SMTPConfig) *Mailer {
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.From = strings.TrimSpace(cfg.From)
	enabled := cfg.Host != "" && cfg.From != ""
	if !enabled {
		obs.LogRequest(map[string]any{
			"level": "info",
			"msg":   "mailer disabled; SMTP host or from missing",
		})
	}
	return &Mailer{cfg: cfg, enabled: enabled}
}

// SendVerification delivers an email verification token to a new player.
func (m *Mailer) SendVerification(to, token string) error {
	if !m.enabled {
		obs.LogRequest(map[string]any{
			"level": "info",
			"msg":   "verification mail skipped (mailer disabled)",
			"to":    to,
		})
		return nil
	}
	body := fmt.Sprintf("Welcome to Aegis Arena!\r\n\r\nVerify your account with this token: %s\r\n", token)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Verify your Aegis Arena account\r\n\r\n%s", m.cfg.From, to, body))

	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg)
}
