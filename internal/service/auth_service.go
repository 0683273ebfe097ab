package service

import (
	"context"

	"rh-platform/internal/domain"
	"rh-platform/internal/dto"
)

type AuthService interface {
	Register(ctx context.Context, r dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, r dto.LoginRequest, ip, ua string) (*dto.AuthResponse, error)
	AdminLogin(ctx context.Context, r dto.LoginRequest, ip, ua string) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)

	RequestSignupOTP(ctx context.Context, email string) error
	ResendSignupOTP(ctx context.Context, email, purpose string) error
	VerifySignup(ctx context.Context, email, code string) (string, error)
	CompleteSignup(ctx context.Context, r dto.SignupComplete) (*dto.AuthResponse, error)
}
