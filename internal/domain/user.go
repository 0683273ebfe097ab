package domain

import "time"

type User struct {
	ID                  UserID     `gorm:"type:uuid;primaryKey" json:"id"`
	Email               string     `gorm:"type:text;not null;uniqueIndex:ux_users_email" json:"email"`
	Name                *string    `gorm:"type:text" json:"name"`
	PasswordHash        string     `gorm:"type:text;not null" json:"-"`
	Role                Role       `gorm:"type:text;not null;default:customer" json:"role"`
	OnboardingCompleted bool       `gorm:"not null;default:false" json:"onboardingCompleted"`
	EmailVerifiedAt     *time.Time `json:"emailVerifiedAt"`

	Phone              *string `gorm:"type:text" json:"phone"`
	City               *string `gorm:"type:text" json:"city"`
	PAN                *string `gorm:"column:pan;type:text" json:"pan"`
	CompanyName        *string `gorm:"type:text" json:"companyName"`
	GSTNumber          *string `gorm:"column:gst_number;type:text" json:"gstNumber"`
	ExperienceYears    *string `gorm:"type:text" json:"experienceYears"`
	ExistingClientBase *string `gorm:"type:text" json:"existingClientBase"`

	FullName    *string    `gorm:"type:text" json:"fullName"`
	Username    *string    `gorm:"type:text;uniqueIndex:ux_users_username" json:"username"`
	DOB         *time.Time `gorm:"column:dob" json:"dob"`
	Country     *string    `gorm:"type:text" json:"country"`
	AddressLine *string    `gorm:"type:text" json:"addressLine"`
	Postcode    *string    `gorm:"type:text" json:"postcode"`

	ProfileCompletedAt *time.Time `json:"profileCompletedAt"`
	CreatedAt          time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt          time.Time  `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) IsEmailVerified() bool { return u.EmailVerifiedAt != nil }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsProfileComplete reports whether the profile has been completed. Once
// ProfileCompletedAt is stored the answer stays true regardless of later edits.
func (u *User) IsProfileComplete() bool {
	if u.ProfileCompletedAt != nil {
		return true
	}
	return filled(u.Phone) &&
		filled(u.FullName) &&
		filled(u.Username) &&
		u.DOB != nil &&
		filled(u.Country) &&
		filled(u.AddressLine) &&
		filled(u.City) &&
		filled(u.Postcode)
}

// MarkProfileCompleted stamps ProfileCompletedAt the first time the profile
// becomes complete. It never clears the stamp.
func (u *User) MarkProfileCompleted(now time.Time) bool {
	if u.ProfileCompletedAt != nil || !u.IsProfileComplete() {
		return false
	}
	u.ProfileCompletedAt = &now
	return true
}

func filled(s *string) bool { return s != nil && *s != "" }
