package domain

import "time"

const OTPPurposeSignup = "signup"

type OtpCode struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	Email      string     `gorm:"type:text;not null;uniqueIndex:ux_otp_email_purpose,priority:1" json:"email"`
	Purpose    string     `gorm:"type:text;not null;uniqueIndex:ux_otp_email_purpose,priority:2" json:"purpose"`
	CodeHash   string     `gorm:"type:text;not null" json:"-"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expiresAt"`
	Attempts   int        `gorm:"not null;default:0" json:"attempts"`
	LastSentAt *time.Time `json:"lastSentAt"`
	CreatedAt  time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updatedAt"`
}

func (OtpCode) TableName() string { return "otp_codes" }

func (o *OtpCode) Expired(now time.Time) bool { return now.After(o.ExpiresAt) }

// CoolingDown reports whether a resend is still blocked at now.
func (o *OtpCode) CoolingDown(now time.Time, cooldown time.Duration) bool {
	if o.LastSentAt == nil || o.Expired(now) {
		return false
	}
	return now.Sub(*o.LastSentAt) < cooldown
}
