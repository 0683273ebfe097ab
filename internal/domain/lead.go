package domain

import "time"

type LeadType string

const (
	LeadTypeSelf     LeadType = "self"
	LeadTypePartner  LeadType = "partner"
	LeadTypeReferral LeadType = "referral"
	LeadTypeCold     LeadType = "cold"
)

const (
	LeadStatusNew        = "new"
	LeadStatusContacted  = "contacted"
	LeadStatusInProgress = "in_progress"
	LeadStatusConverted  = "converted"
	LeadStatusRejected   = "rejected"

	IncentivePending  = "pending"
	IncentiveApproved = "approved"
	IncentivePaid     = "paid"
	IncentiveRejected = "rejected"
)

var LeadStatuses = map[string]struct{}{
	LeadStatusNew: {}, LeadStatusContacted: {}, LeadStatusInProgress: {},
	LeadStatusConverted: {}, LeadStatusRejected: {},
}

var IncentiveStatuses = map[string]struct{}{
	IncentivePending: {}, IncentiveApproved: {}, IncentivePaid: {}, IncentiveRejected: {},
}

// Incentive describes what the submitter earns for a lead type.
type Incentive struct {
	Type           string
	ExpectedPayout *string
}

func payout(s string) *string { return &s }

var incentives = map[LeadType]Incentive{
	LeadTypeSelf:     {Type: "Free add-ons, priority RM, faster callback"},
	LeadTypePartner:  {Type: "Cash payout + contests", ExpectedPayout: payout("Payout on successful conversion")},
	LeadTypeReferral: {Type: "Gifts / vouchers", ExpectedPayout: payout("Gift / voucher on conversion")},
	LeadTypeCold:     {Type: "Up to 25% payout on conversion", ExpectedPayout: payout("Up to 25% payout")},
}

// IncentiveFor returns the incentive for t and whether t is a known lead type.
func IncentiveFor(t LeadType) (Incentive, bool) {
	in, ok := incentives[t]
	return in, ok
}

type Lead struct {
	ID                LeadID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            UserID    `gorm:"type:uuid;not null;index" json:"userId"`
	User              *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ProductType       string    `gorm:"type:text;not null" json:"productType"`
	LeadType          LeadType  `gorm:"type:text;not null" json:"leadType"`
	Status            string    `gorm:"type:text;not null;default:new" json:"status"`
	IncentiveType     string    `gorm:"type:text;not null" json:"incentiveType"`
	IncentiveStatus   string    `gorm:"type:text;not null;default:pending" json:"incentiveStatus"`
	ExpectedPayout    *string   `gorm:"type:text" json:"expectedPayout"`
	Name              string    `gorm:"type:text;not null" json:"name"`
	Email             *string   `gorm:"type:text" json:"email"`
	Phone             *string   `gorm:"type:text" json:"phone"`
	City              *string   `gorm:"type:text" json:"city"`
	Requirement       *string   `gorm:"type:text" json:"requirement"`
	ProductDetails    []byte    `gorm:"type:jsonb" json:"productDetails"`
	ConsentConfirmed  bool      `gorm:"not null;default:false" json:"consentConfirmed"`
	ConvertToReferral bool      `gorm:"not null;default:false" json:"convertToReferral"`
	CreatedAt         time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"not null" json:"updatedAt"`
}

func (Lead) TableName() string { return "leads" }
