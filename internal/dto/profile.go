package dto

type OnboardingUpdate struct {
	OnboardingCompleted bool `json:"onboarding_completed"`
}

// ProfileUpdate leaves absent fields untouched; an empty string clears one.
type ProfileUpdate struct {
	AddressLine *string `json:"address_line,omitempty"`
	City        *string `json:"city,omitempty"`
	Postcode    *string `json:"postcode,omitempty"`
	DOB         *string `json:"dob,omitempty"`
	FullName    *string `json:"full_name,omitempty"`
	Username    *string `json:"username,omitempty"`
	Country     *string `json:"country,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}
