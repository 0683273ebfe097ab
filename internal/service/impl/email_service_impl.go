package impl

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidRecipient = errors.New("invalid recipient address")

type SMTPConfig struct {
	Host     string
	Port     int // 587 uses STARTTLS, 465 implicit TLS
	User     string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPEmailService delivers plain-text mail through an authenticated relay.
type SMTPEmailService struct {
	cfg SMTPConfig
}

func NewSMTPEmailService(cfg SMTPConfig) *SMTPEmailService {
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SMTPEmailService{cfg: cfg}
}

func (s *SMTPEmailService) Send(ctx context.Context, subject, recipient, body string) error {
	to, err := mail.ParseAddress(recipient)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecipient, err)
	}
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	var conn net.Conn
	if s.cfg.Port == 465 {
		d := &tls.Dialer{Config: &tls.Config{ServerName: s.cfg.Host}}
		conn, err = d.DialContext(ctx, "tcp", addr)
	} else {
		var d net.Dialer
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if s.cfg.Port != 465 {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
				return err
			}
		}
	}
	if s.cfg.User != "" {
		if err := c.Auth(smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err := c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to.Address); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write([]byte(buildMessage(s.cfg.From, to.Address, subject, body, time.Now()))); err != nil {
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildMessage(from, to, subject, body string, at time.Time) string {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + mimeHeader(subject) + "\r\n")
	sb.WriteString("Date: " + at.Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	sb.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return sb.String()
}

// mimeHeader strips CR/LF so a subject cannot inject headers.
func mimeHeader(s string) string {
	return strings.NewReplacer("\r", "", "\n", " ").Replace(s)
}

// LogEmailService stands in for SMTP in development: the message is written
// to the log instead of being delivered.
type LogEmailService struct {
	Logger *slog.Logger
}

func (l LogEmailService) Send(ctx context.Context, subject, recipient, body string) error {
	logger := l.Logger
	if logger == nil {
		logger = logFor(ctx)
	}
	logger.Warn("email delivery disabled, logging message", "to", recipient, "subject", subject, "body", body)
	return nil
}
