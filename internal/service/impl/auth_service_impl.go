package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"rh-platform/internal/domain"
	"rh-platform/internal/dto"
	"rh-platform/internal/events"
	"rh-platform/internal/observability/metrics"
	"rh-platform/internal/service"
	"rh-platform/internal/store"

	"github.com/google/uuid"
)

const minPasswordLength = 8

type AuthServiceImpl struct {
	store     *store.Store
	passwords service.PasswordService
	tokens    service.TokenService
	otps      service.OTPService
	events    events.Emitter
	now       func() time.Time

	// compared against for unknown emails so every login costs one hash check
	dummyHash string
}

func NewAuthServiceImpl(
	st *store.Store,
	passwords service.PasswordService,
	tokens service.TokenService,
	otps service.OTPService,
	ev events.Emitter,
) *AuthServiceImpl {
	if ev == nil {
		ev = events.Nop{}
	}
	a := &AuthServiceImpl{store: st, passwords: passwords, tokens: tokens, otps: otps, events: ev, now: time.Now}
	if h, err := passwords.Hash(uuid.NewString()); err == nil {
		a.dummyHash = h
	} else {
		slog.Warn("dummy password hash unavailable", "err", err)
	}
	return a
}

// ====== Signup (email ownership first) ======

func (a *AuthServiceImpl) RequestSignupOTP(ctx context.Context, email string) error {
	email, err := normalizeEmailInput(email)
	if err != nil {
		return err
	}
	u, err := a.store.Users().GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.IsEmailVerified() {
			return domain.ErrAccountExists
		}
	case !errors.Is(err, store.ErrRecordNotFound):
		return err
	}
	return a.otps.Issue(ctx, email, domain.OTPPurposeSignup)
}

func (a *AuthServiceImpl) ResendSignupOTP(ctx context.Context, email, purpose string) error {
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		purpose = domain.OTPPurposeSignup
	}
	if purpose != domain.OTPPurposeSignup {
		return fmt.Errorf("%w: unsupported purpose %q", domain.ErrValidation, purpose)
	}
	email, err := normalizeEmailInput(email)
	if err != nil {
		return err
	}
	return a.otps.Issue(ctx, email, purpose)
}

// VerifySignup exchanges a correct code for a signup token whose subject is
// the email address.
func (a *AuthServiceImpl) VerifySignup(ctx context.Context, email, code string) (string, error) {
	email, err := normalizeEmailInput(email)
	if err != nil {
		return "", err
	}
	ok, err := a.otps.Verify(ctx, email, domain.OTPPurposeSignup, strings.TrimSpace(code))
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrInvalidOTP
	}
	return a.tokens.IssueSignup(email)
}

func (a *AuthServiceImpl) CompleteSignup(ctx context.Context, r dto.SignupComplete) (*dto.AuthResponse, error) {
	result := "success"
	defer func() {
		metrics.AuthRegistrationsTotal.WithLabelValues("signup", result).Inc()
	}()

	claims, err := a.tokens.Validate(r.SignupToken, service.TokenSignup)
	if err != nil {
		result = "invalid_token"
		return nil, err
	}
	if err := validatePassword(r.Password); err != nil {
		result = "invalid"
		return nil, err
	}
	phone := strings.TrimSpace(r.Phone)
	if phone == "" {
		result = "invalid"
		return nil, fmt.Errorf("%w: phone is required", domain.ErrValidation)
	}
	hash, err := a.passwords.Hash(r.Password)
	if err != nil {
		result = "failure"
		return nil, err
	}

	email := store.NormalizeEmail(claims.Subject)
	now := a.now().UTC()
	var (
		user    *domain.User
		created bool
	)
	err = a.store.WithTx(ctx, func(tx *store.Store) error {
		existing, err := tx.Users().GetByEmail(ctx, email)
		switch {
		case err == nil:
			if existing.IsEmailVerified() {
				return domain.ErrAccountExists
			}
			existing.PasswordHash = hash
			existing.Phone = &phone
			existing.EmailVerifiedAt = &now
			existing.MarkProfileCompleted(now)
			user = existing
			return tx.Users().Save(ctx, existing)
		case errors.Is(err, store.ErrRecordNotFound):
			user = &domain.User{
				Email:           email,
				PasswordHash:    hash,
				Role:            domain.RoleCustomer,
				Phone:           &phone,
				EmailVerifiedAt: &now,
			}
			created = true
			return tx.Users().Create(ctx, user)
		default:
			return err
		}
	})
	if errors.Is(err, store.ErrDuplicateKey) {
		err = domain.ErrAccountExists
	}
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			result = "exists"
		} else {
			result = "failure"
		}
		return nil, err
	}

	a.events.Emit(ctx, events.SignupCompleted{UserID: user.ID.String(), Email: user.Email, Created: created, At: now})
	logFor(ctx).Info("signup completed", "user_id", user.ID, "created", created)
	return a.authResponse(user)
}

// ====== Direct registration ======

func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest) (*dto.AuthResponse, error) {
	result := "success"
	defer func() {
		metrics.AuthRegistrationsTotal.WithLabelValues("register", result).Inc()
	}()

	role, err := normalizeRole(r.Role)
	if err != nil {
		result = "invalid"
		return nil, err
	}
	email, err := normalizeEmailInput(r.Email)
	if err != nil {
		result = "invalid"
		return nil, err
	}
	if err := validatePassword(r.Password); err != nil {
		result = "invalid"
		return nil, err
	}
	hash, err := a.passwords.Hash(r.Password)
	if err != nil {
		result = "failure"
		return nil, err
	}

	now := a.now().UTC()
	u := &domain.User{
		Email:              email,
		PasswordHash:       hash,
		Role:               role,
		EmailVerifiedAt:    &now,
		Name:               trimmed(r.Name),
		Phone:              trimmed(r.Phone),
		City:               trimmed(r.City),
		PAN:                trimmed(r.PAN),
		CompanyName:        trimmed(r.CompanyName),
		GSTNumber:          trimmed(r.GSTNumber),
		ExperienceYears:    trimmed(r.ExperienceYears),
		ExistingClientBase: trimmed(r.ExistingClientBase),
	}
	err = a.store.WithTx(ctx, func(tx *store.Store) error {
		return tx.Users().Create(ctx, u)
	})
	if errors.Is(err, store.ErrDuplicateKey) {
		result = "exists"
		return nil, domain.ErrAccountExists
	}
	if err != nil {
		result = "failure"
		return nil, err
	}

	a.events.Emit(ctx, events.UserRegistered{UserID: u.ID.String(), Email: u.Email, Role: string(u.Role), At: now})
	return a.authResponse(u)
}

// ====== Login / tokens ======

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest, ip, ua string) (*dto.AuthResponse, error) {
	result := "success"
	defer func() {
		metrics.AuthLoginsTotal.WithLabelValues("user", result).Inc()
	}()

	u, err := a.checkPassword(ctx, r)
	if err != nil {
		result = "invalid_credentials"
		return nil, err
	}
	if !u.IsEmailVerified() {
		result = "unverified"
		return nil, domain.ErrEmailNotVerified
	}
	logFor(ctx).Info("login", "user_id", u.ID, "ip", ip, "user_agent", ua)
	return a.authResponse(u)
}

// AdminLogin reports every failure, including a valid non-admin login, as
// invalid credentials.
func (a *AuthServiceImpl) AdminLogin(ctx context.Context, r dto.LoginRequest, ip, ua string) (*dto.AuthResponse, error) {
	result := "success"
	defer func() {
		metrics.AuthLoginsTotal.WithLabelValues("admin", result).Inc()
	}()

	u, err := a.checkPassword(ctx, r)
	if err != nil || !u.IsAdmin() {
		result = "invalid_credentials"
		if err != nil && !errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, err
		}
		return nil, domain.ErrInvalidCredentials
	}
	logFor(ctx).Info("admin login", "user_id", u.ID, "ip", ip, "user_agent", ua)
	return a.authResponse(u)
}

// Refresh mints a new pair. The presented refresh token is not revoked.
func (a *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	u, err := a.userFromToken(ctx, refreshToken, service.TokenRefresh)
	if err != nil {
		return nil, err
	}
	return a.authResponse(u)
}

func (a *AuthServiceImpl) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	return a.userFromToken(ctx, accessToken, service.TokenAccess)
}

// ====== Helpers ======

// checkPassword loads the user and verifies the password, upgrading the stored
// hash when the argon2 policy changed.
func (a *AuthServiceImpl) checkPassword(ctx context.Context, r dto.LoginRequest) (*domain.User, error) {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	u, err := a.store.Users().GetByEmail(ctx, r.Email)
	if errors.Is(err, store.ErrRecordNotFound) {
		_, _ = a.passwords.Verify(r.Password, a.dummyHash)
		return nil, domain.ErrInvalidCredentials // don't leak which field failed
	}
	if err != nil {
		return nil, err
	}
	rehashNeeded, ok := a.passwords.Verify(r.Password, u.PasswordHash)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if rehashNeeded {
		if newHash, err := a.passwords.Hash(r.Password); err == nil {
			u.PasswordHash = newHash
			if err := a.store.Users().Save(ctx, u); err != nil {
				logFor(ctx).Warn("password rehash failed", "user_id", u.ID, "err", err)
			}
		}
	}
	return u, nil
}

func (a *AuthServiceImpl) userFromToken(ctx context.Context, token string, typ service.TokenType) (*domain.User, error) {
	claims, err := a.tokens.Validate(token, typ)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	u, err := a.store.Users().GetByID(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (a *AuthServiceImpl) authResponse(u *domain.User) (*dto.AuthResponse, error) {
	pair, err := a.tokens.IssuePair(u.ID.String())
	if err != nil {
		return nil, err
	}
	return dto.NewAuthResponse(pair, dto.NewUserPublic(u)), nil
}

// normalizeEmailInput trims and lower-cases email and rejects anything that is
// not a bare address.
func normalizeEmailInput(email string) (string, error) {
	email = store.NormalizeEmail(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	return email, nil
}

func normalizeRole(raw string) (domain.Role, error) {
	role := domain.Role(strings.ToLower(strings.TrimSpace(raw)))
	if role == "" {
		return domain.RoleCustomer, nil
	}
	if _, ok := domain.SelfServiceRoles[role]; !ok {
		return "", fmt.Errorf("%w: role must be one of customer, partner, referral_partner", domain.ErrValidation)
	}
	return role, nil
}

func validatePassword(p string) error {
	if len(p) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	return nil
}

// trimmed returns nil for absent or blank input.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
