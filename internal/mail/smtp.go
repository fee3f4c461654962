package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	nmail "net/mail"
	"net/smtp"
	"strings"
)

const (
	SecuritySSL      = "ssl"      // implicit TLS, typically port 465
	SecurityStartTLS = "starttls" // explicit upgrade, typically port 587
	SecurityNone     = "none"     // cleartext, typically port 25
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Security string
}

type SMTP struct {
	cfg SMTPConfig
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	return &SMTP{cfg: cfg}
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect %s: %w", addr, err)
	}

	if s.cfg.Security == SecuritySSL {
		conn = tls.Client(conn, &tls.Config{ServerName: s.cfg.Host})
	}
	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake %s: %w", addr, err)
	}
	defer c.Close()

	if s.cfg.Security == SecurityStartTLS {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return fmt.Errorf("starttls %s: %w", addr, err)
		}
	}
	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("auth as %s: %w", s.cfg.Username, err)
		}
	}

	if err := c.Mail(msg.FromAddr); err != nil {
		return fmt.Errorf("mail from %s: %w", msg.FromAddr, err)
	}
	for _, rcpt := range recipients(msg.Envelope) {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt to %s: %w", rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(encode(msg)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func recipients(e Envelope) []string {
	out := []string{e.To}
	if e.CC != "" {
		out = append(out, e.CC)
	}
	return out
}

func encode(msg Message) []byte {
	from := nmail.Address{Name: msg.FromName, Address: msg.FromAddr}
	headers := []string{
		fmt.Sprintf("From: %s", from.String()),
		fmt.Sprintf("To: %s", headerValue(msg.To)),
	}
	if msg.ReplyTo != "" {
		headers = append(headers, fmt.Sprintf("Reply-To: %s", headerValue(msg.ReplyTo)))
	}
	if msg.CC != "" {
		headers = append(headers, fmt.Sprintf("Cc: %s", headerValue(msg.CC)))
	}
	headers = append(headers,
		fmt.Sprintf("Subject: %s", headerValue(msg.Subject)),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
	)
	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + msg.Body)
}

// headerValue folds embedded CR/LF to a single space. A header value is one
// line; anything after a raw line break would become an attacker-chosen
// header.
func headerValue(v string) string {
	v = strings.ReplaceAll(v, "\r\n", " ")
	v = strings.ReplaceAll(v, "\r", " ")
	return strings.ReplaceAll(v, "\n", " ")
}
