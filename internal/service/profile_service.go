package service

import (
	"context"

	"rh-platform/internal/domain"
	"rh-platform/internal/dto"
)

type ProfileService interface {
	UpdateOnboarding(ctx context.Context, userID domain.UserID, completed bool) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID domain.UserID, r dto.ProfileUpdate) (*domain.User, error)
}
