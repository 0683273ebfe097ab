package dto

import (
	"encoding/json"
	"time"

	"rh-platform/internal/domain"
)

type LeadCreate struct {
	ProductType       string          `json:"product_type"`
	LeadType          string          `json:"lead_type"`
	Name              string          `json:"name"`
	Phone             *string         `json:"phone,omitempty"`
	Email             *string         `json:"email,omitempty"`
	City              *string         `json:"city,omitempty"`
	Requirement       *string         `json:"requirement,omitempty"`
	ProductDetails    json.RawMessage `json:"product_details,omitempty"`
	ConsentConfirmed  bool            `json:"consent_confirmed"`
	ConvertToReferral bool            `json:"convert_to_referral"`
}

type LeadStatusUpdate struct {
	Status          *string `json:"status,omitempty"`
	IncentiveStatus *string `json:"incentive_status,omitempty"`
}

type LeadPublic struct {
	ID              string    `json:"id"`
	ProductType     string    `json:"product_type"`
	LeadType        string    `json:"lead_type"`
	Status          string    `json:"status"`
	IncentiveType   string    `json:"incentive_type"`
	IncentiveStatus string    `json:"incentive_status"`
	ExpectedPayout  *string   `json:"expected_payout"`
	Name            string    `json:"name"`
	Phone           *string   `json:"phone"`
	Email           *string   `json:"email"`
	City            *string   `json:"city"`
	Requirement     *string   `json:"requirement"`
	CreatedAt       time.Time `json:"created_at"`
}

type LeadDetail struct {
	LeadPublic
	ProductDetails    json.RawMessage `json:"product_details"`
	ConsentConfirmed  bool            `json:"consent_confirmed"`
	ConvertToReferral bool            `json:"convert_to_referral"`
}

func NewLeadPublic(l *domain.Lead) LeadPublic {
	return LeadPublic{
		ID:              l.ID.String(),
		ProductType:     l.ProductType,
		LeadType:        string(l.LeadType),
		Status:          l.Status,
		IncentiveType:   l.IncentiveType,
		IncentiveStatus: l.IncentiveStatus,
		ExpectedPayout:  l.ExpectedPayout,
		Name:            l.Name,
		Phone:           l.Phone,
		Email:           l.Email,
		City:            l.City,
		Requirement:     l.Requirement,
		CreatedAt:       l.CreatedAt,
	}
}

func NewLeadDetail(l *domain.Lead) LeadDetail {
	details := json.RawMessage(l.ProductDetails)
	if len(details) == 0 {
		details = json.RawMessage(`{}`)
	}
	return LeadDetail{
		LeadPublic:        NewLeadPublic(l),
		ProductDetails:    details,
		ConsentConfirmed:  l.ConsentConfirmed,
		ConvertToReferral: l.ConvertToReferral,
	}
}

func NewLeadPublicList(leads []*domain.Lead) []LeadPublic {
	out := make([]LeadPublic, 0, len(leads))
	for _, l := range leads {
		out = append(out, NewLeadPublic(l))
	}
	return out
}
