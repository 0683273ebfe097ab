package service

import "context"

type EmailService interface {
	Send(ctx context.Context, subject, recipient, body string) error
}
