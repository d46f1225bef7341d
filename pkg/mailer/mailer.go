package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"stock-backtest/config"
	"stock-backtest/pkg/logger"
)

// Mailer mengirim notifikasi hasil run lewat SMTP dengan plain auth.
type Mailer struct {
	cfg config.Mailer
	log *logger.Logger
}

func New(cfg config.Mailer, log *logger.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled
}

// Send mengirim email teks biasa ke seluruh penerima yang dikonfigurasi.
func (m *Mailer) Send(subject, body string) error {
	if !m.cfg.Enabled {
		return nil
	}
	if len(m.cfg.To) == 0 {
		return fmt.Errorf("mailer enabled but no recipients configured")
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + strings.Join(m.cfg.To, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, m.cfg.From, m.cfg.To, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", addr, err)
	}

	m.log.Info("Notification mail sent",
		logger.StringField("subject", subject),
		logger.IntField("recipients", len(m.cfg.To)),
	)
	return nil
}
