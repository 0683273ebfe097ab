package service

import (
	"time"

	"rh-platform/internal/dto"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
	TokenSignup  TokenType = "signup"
)

// Claims is the signed claim set carried by every token.
type Claims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

type TokenService interface {
	Issue(subject string, typ TokenType, ttl time.Duration) (string, error)
	IssueAccess(subject string) (string, error)
	IssueRefresh(subject string) (string, error)
	IssuePair(subject string) (*dto.TokenPair, error)
	IssueSignup(email string) (string, error)
	Validate(token string, expected TokenType) (*Claims, error)
}
