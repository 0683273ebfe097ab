package service

import "context"

type OTPService interface {
	Issue(ctx context.Context, email, purpose string) error
	Verify(ctx context.Context, email, purpose, candidate string) (bool, error)
}
