package service

import (
	"context"

	"rh-platform/internal/domain"
	"rh-platform/internal/dto"
)

type LeadService interface {
	Create(ctx context.Context, userID domain.UserID, r dto.LeadCreate) (*domain.Lead, error)
	ListMine(ctx context.Context, userID domain.UserID) ([]*domain.Lead, error)
	GetMine(ctx context.Context, userID domain.UserID, leadID domain.LeadID) (*domain.Lead, error)

	List(ctx context.Context, page dto.Page) ([]*domain.Lead, error)
	Get(ctx context.Context, leadID domain.LeadID) (*domain.Lead, error)
	UpdateStatus(ctx context.Context, leadID domain.LeadID, r dto.LeadStatusUpdate) (*domain.Lead, error)
}
