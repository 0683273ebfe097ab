package dto

type RegisterRequest struct {
	Email              string  `json:"email"`
	Password           string  `json:"password"`
	Name               *string `json:"name,omitempty"`
	Role               string  `json:"role,omitempty"`
	Phone              *string `json:"phone,omitempty"`
	City               *string `json:"city,omitempty"`
	PAN                *string `json:"pan,omitempty"`
	CompanyName        *string `json:"company_name,omitempty"`
	GSTNumber          *string `json:"gst_number,omitempty"`
	ExperienceYears    *string `json:"experience_years,omitempty"`
	ExistingClientBase *string `json:"existing_client_base,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	TokenType    string     `json:"token_type"`
	ExpiresIn    int64      `json:"expires_in"`
	User         UserPublic `json:"user"`
}

// TokenPair is what the token service mints for a session.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

func NewAuthResponse(p *TokenPair, u UserPublic) *AuthResponse {
	return &AuthResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    p.ExpiresIn,
		User:         u,
	}
}
