package impl

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestBuildMessageHeaders(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := buildMessage("noreply@example.com", "a@example.com", "Code\r\nBcc: x@evil", "line1\nline2", at)

	head, body, ok := strings.Cut(msg, "\r\n\r\n")
	if !ok {
		t.Fatalf("missing header/body separator: %q", msg)
	}
	if strings.Contains(head, "\r\nBcc:") {
		t.Fatalf("subject injected a header: %q", head)
	}
	if !strings.Contains(head, "To: a@example.com\r\n") || !strings.Contains(head, "Content-Type: text/plain; charset=UTF-8") {
		t.Fatalf("unexpected headers: %q", head)
	}
	if body != "line1\r\nline2" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestSMTPSendRejectsBadRecipient(t *testing.T) {
	s := NewSMTPEmailService(SMTPConfig{Host: "127.0.0.1", Port: 1, From: "noreply@example.com"})
	err := s.Send(context.Background(), "hi", "not an address", "body")
	if !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}
}

func TestLogEmailServiceWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	l := LogEmailService{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	if err := l.Send(context.Background(), "Your verification code", "a@example.com", "code 123456"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(buf.String(), "a@example.com") || !strings.Contains(buf.String(), "123456") {
		t.Fatalf("expected recipient and body in log, got %s", buf.String())
	}
}
