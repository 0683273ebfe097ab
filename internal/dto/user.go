package dto

import (
	"time"

	"rh-platform/internal/domain"
)

type UserPublic struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	Name                *string    `json:"name"`
	OnboardingCompleted bool       `json:"onboarding_completed"`
	Role                string     `json:"role"`
	CreatedAt           time.Time  `json:"created_at"`
	EmailVerifiedAt     *time.Time `json:"email_verified_at"`
	IsEmailVerified     bool       `json:"is_email_verified"`
	Phone               *string    `json:"phone"`
	City                *string    `json:"city"`
	PAN                 *string    `json:"pan"`
	CompanyName         *string    `json:"company_name"`
	GSTNumber           *string    `json:"gst_number"`
	ExperienceYears     *string    `json:"experience_years"`
	ExistingClientBase  *string    `json:"existing_client_base"`
	FullName            *string    `json:"full_name"`
	Username            *string    `json:"username"`
	DOB                 *time.Time `json:"dob"`
	Country             *string    `json:"country"`
	AddressLine         *string    `json:"address_line"`
	Postcode            *string    `json:"postcode"`
	ProfileCompletedAt  *time.Time `json:"profile_completed_at"`
	IsProfileComplete   bool       `json:"is_profile_complete"`
}

// NewUserPublic projects a stored user onto the fields clients may see.
func NewUserPublic(u *domain.User) UserPublic {
	return UserPublic{
		ID:                  u.ID.String(),
		Email:               u.Email,
		Name:                u.Name,
		OnboardingCompleted: u.OnboardingCompleted,
		Role:                string(u.Role),
		CreatedAt:           u.CreatedAt,
		EmailVerifiedAt:     u.EmailVerifiedAt,
		IsEmailVerified:     u.IsEmailVerified(),
		Phone:               u.Phone,
		City:                u.City,
		PAN:                 u.PAN,
		CompanyName:         u.CompanyName,
		GSTNumber:           u.GSTNumber,
		ExperienceYears:     u.ExperienceYears,
		ExistingClientBase:  u.ExistingClientBase,
		FullName:            u.FullName,
		Username:            u.Username,
		DOB:                 u.DOB,
		Country:             u.Country,
		AddressLine:         u.AddressLine,
		Postcode:            u.Postcode,
		ProfileCompletedAt:  u.ProfileCompletedAt,
		IsProfileComplete:   u.IsProfileComplete(),
	}
}

func NewUserPublicList(users []*domain.User) []UserPublic {
	out := make([]UserPublic, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserPublic(u))
	}
	return out
}
