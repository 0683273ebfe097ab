package dto

type SignupOTPRequest struct {
	Email string `json:"email"`
}

type SignupOTPVerify struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type SignupComplete struct {
	SignupToken string `json:"signup_token"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
}

type ResendOTPRequest struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose,omitempty"`
}

type SignupTokenResponse struct {
	SignupToken string `json:"signup_token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
