package service

import (
	"context"

	"rh-platform/internal/domain"
	"rh-platform/internal/dto"
)

type AdminService interface {
	ListUsers(ctx context.Context, page dto.Page) ([]*domain.User, error)
	GetUser(ctx context.Context, id domain.UserID) (*domain.User, error)
	EnsureSuperadmin(ctx context.Context, email, password string) (*domain.User, error)
}
