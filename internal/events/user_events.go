package events

import "time"

type UserRegistered struct {
	UserID string    `json:"userId"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	At     time.Time `json:"at"`
}

type SignupCompleted struct {
	UserID  string    `json:"userId"`
	Email   string    `json:"email"`
	Created bool      `json:"created"` // false when an unverified row was claimed
	At      time.Time `json:"at"`
}

type OTPIssued struct {
	Email   string    `json:"email"`
	Purpose string    `json:"purpose"`
	Sent    bool      `json:"sent"`
	At      time.Time `json:"at"`
}
