package impl

import (
	"errors"
	"time"

	"rh-platform/internal/domain"
	"rh-platform/internal/dto"
	"rh-platform/internal/observability/metrics"
	"rh-platform/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ====== Config ======

type TokenConfig struct {
	Issuer     string        // e.g. "rh-platform"
	Audience   string        // e.g. "rh-platform-clients"
	AccessTTL  time.Duration // e.g. 30 * time.Minute
	RefreshTTL time.Duration // e.g. 30 * 24h
	SignupTTL  time.Duration // e.g. 15 * time.Minute
	SigningKey []byte        // HS256 secret
}

// ====== Service ======

// TokenServiceImpl signs and checks self-contained HS256 tokens. There is no
// session table, so a token stays valid until it expires.
type TokenServiceImpl struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenServiceHS256(cfg TokenConfig) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg, now: time.Now}
}

func (t *TokenServiceImpl) Issue(subject string, typ service.TokenType, ttl time.Duration) (string, error) {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues(string(typ), result).Inc()
	}()

	now := t.now().UTC()
	claims := service.Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.SigningKey)
	if err != nil {
		result = "failure"
		return "", err
	}
	return signed, nil
}

func (t *TokenServiceImpl) IssueAccess(subject string) (string, error) {
	return t.Issue(subject, service.TokenAccess, t.cfg.AccessTTL)
}

func (t *TokenServiceImpl) IssueRefresh(subject string) (string, error) {
	return t.Issue(subject, service.TokenRefresh, t.cfg.RefreshTTL)
}

// IssueSignup mints the short-lived token proving email ownership.
func (t *TokenServiceImpl) IssueSignup(email string) (string, error) {
	return t.Issue(email, service.TokenSignup, t.cfg.SignupTTL)
}

func (t *TokenServiceImpl) IssuePair(subject string) (*dto.TokenPair, error) {
	access, err := t.IssueAccess(subject)
	if err != nil {
		return nil, err
	}
	refresh, err := t.IssueRefresh(subject)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(t.cfg.AccessTTL.Seconds()),
	}, nil
}

// Validate checks signature, algorithm, issuer, audience and expiry before the
// type, so a forged token never reports ErrTokenWrongType.
func (t *TokenServiceImpl) Validate(token string, expected service.TokenType) (*service.Claims, error) {
	claims := &service.Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithAudience(t.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	tok, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil || !tok.Valid {
		return nil, errors.Join(domain.ErrTokenInvalid, err)
	}
	if claims.Type != expected {
		return nil, domain.ErrTokenWrongType
	}
	return claims, nil
}
