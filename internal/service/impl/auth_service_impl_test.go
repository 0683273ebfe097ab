package impl

import (
	"context"
	"errors"
	"testing"
	"time"

	"rh-platform/internal/domain"
	"rh-platform/internal/dto"
	"rh-platform/internal/events"
	"rh-platform/internal/service"
	"rh-platform/internal/store"

	"gorm.io/gorm"
)

type authFixture struct {
	*otpFixture
	passwords *PasswordServiceImpl
	tokens    *TokenServiceImpl
	auth      *AuthServiceImpl
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	of := newOTPFixture(t)
	f := &authFixture{
		otpFixture: of,
		passwords:  NewPasswordServiceWithParams(fastArgon2),
		tokens:     newTestTokens(of.clock),
	}
	f.auth = NewAuthServiceImpl(of.st, f.passwords, f.tokens, of.svc, of.events)
	f.auth.now = of.clock.Now
	return f
}

func (f *authFixture) seedUser(t *testing.T, email, password string, verified bool, role domain.Role) *domain.User {
	t.Helper()
	hash, err := f.passwords.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &domain.User{Email: email, PasswordHash: hash, Role: role}
	if verified {
		now := f.clock.Now()
		u.EmailVerifiedAt = &now
	}
	if err := f.st.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func (f *authFixture) signupToken(t *testing.T, email string) string {
	t.Helper()
	ctx := context.Background()
	if err := f.auth.RequestSignupOTP(ctx, email); err != nil {
		t.Fatalf("request otp: %v", err)
	}
	tok, err := f.auth.VerifySignup(ctx, email, f.lastCode(t))
	if err != nil {
		t.Fatalf("verify signup: %v", err)
	}
	return tok
}

func TestSignupFlowCreatesVerifiedUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	tok := f.signupToken(t, "New@Example.com")
	claims, err := f.tokens.Validate(tok, service.TokenSignup)
	if err != nil || claims.Subject != "new@example.com" {
		t.Fatalf("unexpected signup token: claims=%+v err=%v", claims, err)
	}

	resp, err := f.auth.CompleteSignup(ctx, dto.SignupComplete{SignupToken: tok, Password: "password1", Phone: " 9999 "})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if resp.TokenType != "bearer" || resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !resp.User.IsEmailVerified || resp.User.Role != "customer" || resp.User.Phone == nil || *resp.User.Phone != "9999" {
		t.Fatalf("unexpected user %+v", resp.User)
	}

	// the same token cannot create a second account
	if _, err := f.auth.CompleteSignup(ctx, dto.SignupComplete{SignupToken: tok, Password: "password2", Phone: "1"}); !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}

	if _, err := f.auth.Login(ctx, dto.LoginRequest{Email: "new@example.com", Password: "password1"}, "", ""); err != nil {
		t.Fatalf("login after signup: %v", err)
	}
}

func TestSignupClaimsUnverifiedAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	existing := f.seedUser(t, "pending@example.com", "old-password", false, domain.RoleCustomer)

	tok := f.signupToken(t, "pending@example.com")
	resp, err := f.auth.CompleteSignup(ctx, dto.SignupComplete{SignupToken: tok, Password: "new-password", Phone: "123"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if resp.User.ID != existing.ID.String() || !resp.User.IsEmailVerified {
		t.Fatalf("expected existing row to be verified, got %+v", resp.User)
	}
	if _, err := f.auth.Login(ctx, dto.LoginRequest{Email: "pending@example.com", Password: "old-password"}, "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password should be replaced, got %v", err)
	}
}

func TestRequestSignupOTPRejectsVerifiedAccount(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "taken@example.com", "password1", true, domain.RoleCustomer)

	err := f.auth.RequestSignupOTP(context.Background(), "TAKEN@example.com")
	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
	if f.mail.count() != 0 {
		t.Fatalf("no code should be sent for an existing account")
	}
}

func TestRequestSignupOTPValidatesEmail(t *testing.T) {
	f := newAuthFixture(t)
	for _, email := range []string{"", "nope", "Name <a@example.com>"} {
		if err := f.auth.RequestSignupOTP(context.Background(), email); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%q: expected ErrValidation, got %v", email, err)
		}
	}
}

func TestResendSignupOTP(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	if err := f.auth.ResendSignupOTP(ctx, "a@example.com", "password_reset"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown purpose, got %v", err)
	}
	if err := f.auth.ResendSignupOTP(ctx, "a@example.com", ""); err != nil {
		t.Fatalf("resend: %v", err)
	}
	if err := f.auth.ResendSignupOTP(ctx, "a@example.com", "signup"); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected cooldown to apply, got %v", err)
	}
}

func TestVerifySignupWrongCode(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	if err := f.auth.RequestSignupOTP(ctx, "a@example.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := f.auth.VerifySignup(ctx, "a@example.com", wrongCode(f.lastCode(t))); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
}

func TestCompleteSignupValidation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	tok := f.signupToken(t, "a@example.com")
	access, _ := f.tokens.IssueAccess("a@example.com")

	cases := []struct {
		name string
		req  dto.SignupComplete
		want error
	}{
		{"short password", dto.SignupComplete{SignupToken: tok, Password: "short", Phone: "1"}, domain.ErrValidation},
		{"missing phone", dto.SignupComplete{SignupToken: tok, Password: "password1", Phone: "  "}, domain.ErrValidation},
		{"garbage token", dto.SignupComplete{SignupToken: "x.y.z", Password: "password1", Phone: "1"}, domain.ErrTokenInvalid},
		{"access token", dto.SignupComplete{SignupToken: access, Password: "password1", Phone: "1"}, domain.ErrTokenWrongType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.auth.CompleteSignup(ctx, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	f.clock.Advance(16 * time.Minute)
	if _, err := f.auth.CompleteSignup(ctx, dto.SignupComplete{SignupToken: tok, Password: "password1", Phone: "1"}); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expired signup token: expected ErrTokenInvalid, got %v", err)
	}
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	name := " Asha "

	resp, err := f.auth.Register(ctx, dto.RegisterRequest{Email: "Partner@Example.com", Password: "password1", Role: " Partner ", Name: &name})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Role != "partner" || resp.User.Email != "partner@example.com" || !resp.User.IsEmailVerified {
		t.Fatalf("unexpected user %+v", resp.User)
	}
	if resp.User.Name == nil || *resp.User.Name != "Asha" {
		t.Fatalf("expected trimmed name, got %v", resp.User.Name)
	}

	_, err = f.auth.Register(ctx, dto.RegisterRequest{Email: "PARTNER@example.com", Password: "password2"})
	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected case-insensitive duplicate, got %v", err)
	}

	if len(f.events.Events) == 0 {
		t.Fatalf("expected a registration event")
	}
	if _, ok := f.events.Events[len(f.events.Events)-1].(events.UserRegistered); !ok {
		t.Fatalf("expected UserRegistered, got %T", f.events.Events[len(f.events.Events)-1])
	}
}

func TestRegisterDefaultsAndRejectsRoles(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.auth.Register(ctx, dto.RegisterRequest{Email: "c@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Role != "customer" {
		t.Fatalf("expected default role customer, got %q", resp.User.Role)
	}

	for _, role := range []string{"admin", "superuser"} {
		_, err := f.auth.Register(ctx, dto.RegisterRequest{Email: role + "@example.com", Password: "password1", Role: role})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("role %q: expected ErrValidation, got %v", role, err)
		}
	}
	if _, err := f.auth.Register(ctx, dto.RegisterRequest{Email: "d@example.com", Password: "short"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("short password: expected ErrValidation, got %v", err)
	}
}

func TestLoginErrors(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.seedUser(t, "verified@example.com", "password1", true, domain.RoleCustomer)
	f.seedUser(t, "unverified@example.com", "password1", false, domain.RoleCustomer)

	cases := []struct {
		name  string
		email string
		pass  string
		want  error
	}{
		{"unknown email", "nobody@example.com", "password1", domain.ErrInvalidCredentials},
		{"wrong password", "verified@example.com", "password2", domain.ErrInvalidCredentials},
		{"wrong password unverified", "unverified@example.com", "password2", domain.ErrInvalidCredentials},
		{"unverified", "unverified@example.com", "password1", domain.ErrEmailNotVerified},
		{"ok", "Verified@Example.com", "password1", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.auth.Login(ctx, dto.LoginRequest{Email: tc.email, Password: tc.pass}, "203.0.113.7", "test")
			if tc.want == nil && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoginRehashesOnPolicyChange(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "a@example.com", "password1", true, domain.RoleCustomer)

	stronger := fastArgon2
	stronger.Time = 2
	f.auth.passwords = NewPasswordServiceWithParams(stronger)

	if _, err := f.auth.Login(ctx, dto.LoginRequest{Email: "a@example.com", Password: "password1"}, "", ""); err != nil {
		t.Fatalf("login: %v", err)
	}
	stored, err := f.st.Users().GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.PasswordHash == u.PasswordHash {
		t.Fatalf("expected the hash to be upgraded")
	}
	if rehash, ok := f.auth.passwords.Verify("password1", stored.PasswordHash); !ok || rehash {
		t.Fatalf("upgraded hash should match the new policy: ok=%v rehash=%v", ok, rehash)
	}
}

func TestAdminLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.seedUser(t, "admin@example.com", "password1", true, domain.RoleAdmin)
	f.seedUser(t, "user@example.com", "password1", true, domain.RoleCustomer)

	if _, err := f.auth.AdminLogin(ctx, dto.LoginRequest{Email: "admin@example.com", Password: "password1"}, "", ""); err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if _, err := f.auth.AdminLogin(ctx, dto.LoginRequest{Email: "user@example.com", Password: "password1"}, "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("non-admin: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.auth.AdminLogin(ctx, dto.LoginRequest{Email: "admin@example.com", Password: "nope-nope"}, "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefreshAndAuthenticate(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "a@example.com", "password1", true, domain.RoleCustomer)

	resp, err := f.auth.Login(ctx, dto.LoginRequest{Email: "a@example.com", Password: "password1"}, "", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	got, err := f.auth.Authenticate(ctx, resp.AccessToken)
	if err != nil || got.ID != u.ID {
		t.Fatalf("authenticate: user=%v err=%v", got, err)
	}
	if _, err := f.auth.Authenticate(ctx, resp.RefreshToken); !errors.Is(err, domain.ErrTokenWrongType) {
		t.Fatalf("refresh as access: expected ErrTokenWrongType, got %v", err)
	}

	refreshed, err := f.auth.Refresh(ctx, resp.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.User.ID != u.ID.String() {
		t.Fatalf("refresh returned wrong user")
	}
	// no rotation: the old refresh token still works
	if _, err := f.auth.Refresh(ctx, resp.RefreshToken); err != nil {
		t.Fatalf("old refresh token should stay valid: %v", err)
	}
	if _, err := f.auth.Refresh(ctx, resp.AccessToken); !errors.Is(err, domain.ErrTokenWrongType) {
		t.Fatalf("access as refresh: expected ErrTokenWrongType, got %v", err)
	}

	ghost, _ := f.tokens.IssueRefresh("00000000-0000-0000-0000-000000000001")
	if _, err := f.auth.Refresh(ctx, ghost); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("unknown subject: expected ErrTokenInvalid, got %v", err)
	}
	bogus, _ := f.tokens.IssueAccess("not-a-uuid")
	if _, err := f.auth.Authenticate(ctx, bogus); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("bad subject: expected ErrTokenInvalid, got %v", err)
	}
}

func TestCompleteSignupAfterAccountVerifiedElsewhere(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	tok := f.signupToken(t, "race@example.com")

	// another request verified the address after this token was minted
	if err := f.st.WithTx(ctx, func(tx *store.Store) error {
		now := f.clock.Now()
		return tx.Users().Create(ctx, &domain.User{Email: "race@example.com", PasswordHash: "x", Role: domain.RoleCustomer, EmailVerifiedAt: &now})
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.auth.CompleteSignup(ctx, dto.SignupComplete{SignupToken: tok, Password: "password1", Phone: "1"}); !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

// countingPasswords records how many hash comparisons a flow performs.
type countingPasswords struct {
	service.PasswordService
	verifies int
}

func (c *countingPasswords) Verify(password, encoded string) (bool, bool) {
	c.verifies++
	return c.PasswordService.Verify(password, encoded)
}

func TestLoginUnknownEmailStillComparesHash(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.seedUser(t, "known@example.com", "password1", true, domain.RoleCustomer)

	counter := &countingPasswords{PasswordService: f.passwords}
	svc := NewAuthServiceImpl(f.st, counter, f.tokens, f.svc, f.events)
	if svc.dummyHash == "" {
		t.Fatalf("expected a dummy hash at construction")
	}

	for _, email := range []string{"nobody@example.com", "known@example.com"} {
		before := counter.verifies
		if _, err := svc.Login(ctx, dto.LoginRequest{Email: email, Password: "wrong-password"}, "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", email, err)
		}
		if got := counter.verifies - before; got != 1 {
			t.Fatalf("%s: expected one hash comparison, got %d", email, got)
		}
	}
	if _, err := svc.AdminLogin(ctx, dto.LoginRequest{Email: "ghost@example.com", Password: "password1"}, "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("admin unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCompleteSignupConcurrentInsertReportsAccountExists(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	tok := f.signupToken(t, "race@example.com")

	// a competing request inserts the same email just before our insert
	fired := false
	err := f.st.DB.Callback().Create().Before("gorm:create").Register("test:competing_signup", func(db *gorm.DB) {
		u, ok := db.Statement.Dest.(*domain.User)
		if fired || !ok || u.Email != "race@example.com" {
			return
		}
		fired = true
		now := f.clock.Now()
		rival := &domain.User{Email: "race@example.com", PasswordHash: "x", Role: domain.RoleCustomer, EmailVerifiedAt: &now}
		if err := store.New(db.Session(&gorm.Session{NewDB: true})).Users().Create(db.Statement.Context, rival); err != nil {
			t.Errorf("rival insert: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err = f.auth.CompleteSignup(ctx, dto.SignupComplete{SignupToken: tok, Password: "password1", Phone: "1"})
	if !fired {
		t.Fatalf("competing insert never ran")
	}
	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
	for _, ev := range f.events.Events {
		if _, ok := ev.(events.SignupCompleted); ok {
			t.Fatalf("no completion event expected, got %+v", ev)
		}
	}
}
