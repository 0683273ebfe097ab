package impl

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"rh-platform/internal/domain"
	"rh-platform/internal/events"
	"rh-platform/internal/observability/metrics"
	"rh-platform/internal/service"
	"rh-platform/internal/store"
)

const otpDigits = 6

var otpSpace = big.NewInt(1_000_000)

type OTPConfig struct {
	TTL         time.Duration // e.g. 10 * time.Minute
	Cooldown    time.Duration // minimum gap between sends
	MaxAttempts int           // verification attempts per code
}

var DefaultOTPConfig = OTPConfig{TTL: 10 * time.Minute, Cooldown: 60 * time.Second, MaxAttempts: 5}

// OTPServiceImpl keeps at most one live code per (email, purpose). Only the
// argon2id hash of a code is stored; the plaintext goes out by email once.
type OTPServiceImpl struct {
	store     *store.Store
	passwords service.PasswordService
	email     service.EmailService
	events    events.Emitter
	cfg       OTPConfig
	now       func() time.Time
}

func NewOTPServiceImpl(st *store.Store, passwords service.PasswordService, email service.EmailService, ev events.Emitter, cfg OTPConfig) *OTPServiceImpl {
	if ev == nil {
		ev = events.Nop{}
	}
	return &OTPServiceImpl{store: st, passwords: passwords, email: email, events: ev, cfg: cfg, now: time.Now}
}

func (o *OTPServiceImpl) Issue(ctx context.Context, email, purpose string) error {
	result := "success"
	defer func() {
		metrics.OTPIssuedTotal.WithLabelValues(purpose, result).Inc()
	}()

	email = store.NormalizeEmail(email)
	now := o.now().UTC()
	var code string

	err := o.store.WithTx(ctx, func(tx *store.Store) error {
		existing, err := tx.OTPs().Get(ctx, email, purpose)
		switch {
		case err == nil:
			if existing.CoolingDown(now, o.cfg.Cooldown) {
				return domain.ErrRateLimited
			}
		case !errors.Is(err, store.ErrRecordNotFound):
			return err
		}

		code, err = generateOTP()
		if err != nil {
			return err
		}
		hash, err := o.passwords.Hash(code)
		if err != nil {
			return err
		}
		return tx.OTPs().Upsert(ctx, &domain.OtpCode{
			Email:      email,
			Purpose:    purpose,
			CodeHash:   hash,
			ExpiresAt:  now.Add(o.cfg.TTL),
			Attempts:   0,
			LastSentAt: &now,
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			result = "rate_limited"
		} else {
			result = "failure"
		}
		return err
	}

	sent := true
	subject, body := otpMessage(code, o.cfg.TTL)
	if err := o.email.Send(ctx, subject, email, body); err != nil {
		sent = false
		result = "send_failed"
		logFor(ctx).Error("otp email delivery failed", "email", email, "purpose", purpose, "err", err)
	}
	o.events.Emit(ctx, events.OTPIssued{Email: email, Purpose: purpose, Sent: sent, At: now})
	return nil
}

// Verify counts every attempt against a live code, successful or not. A
// successful check neither resets the counter nor consumes the code.
func (o *OTPServiceImpl) Verify(ctx context.Context, email, purpose, candidate string) (bool, error) {
	result := "mismatch"
	defer func() {
		metrics.OTPVerificationsTotal.WithLabelValues(purpose, result).Inc()
	}()

	email = store.NormalizeEmail(email)
	now := o.now().UTC()

	var record *domain.OtpCode
	err := o.store.WithTx(ctx, func(tx *store.Store) error {
		c, err := tx.OTPs().Get(ctx, email, purpose)
		if err != nil {
			return err
		}
		if c.Expired(now) {
			result = "expired"
			return nil
		}
		if c.Attempts >= o.cfg.MaxAttempts {
			result = "exhausted"
			return nil
		}
		claimed, err := tx.OTPs().IncrementAttempts(ctx, c, o.cfg.MaxAttempts)
		if err != nil {
			return err
		}
		if !claimed {
			result = "exhausted"
			return nil
		}
		record = c
		return nil
	})
	if errors.Is(err, store.ErrRecordNotFound) {
		result = "missing"
		return false, nil
	}
	if err != nil {
		result = "failure"
		return false, err
	}
	if record == nil {
		return false, nil
	}

	if _, ok := o.passwords.Verify(candidate, record.CodeHash); !ok {
		logFor(ctx).Info("otp mismatch", "email", email, "purpose", purpose, "attempts", record.Attempts)
		return false, nil
	}
	result = "success"
	return true, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

func otpMessage(code string, ttl time.Duration) (subject, body string) {
	subject = "Your verification code"
	body = fmt.Sprintf("Your verification code is %s.\n\nIt expires in %d minutes. If you did not request it, you can ignore this email.\n",
		code, int(ttl.Minutes()))
	return subject, body
}
