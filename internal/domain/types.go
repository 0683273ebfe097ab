package domain

import "github.com/google/uuid"

type UserID = uuid.UUID
type LeadID = uuid.UUID

type Role string

const (
	RoleCustomer        Role = "customer"
	RolePartner         Role = "partner"
	RoleReferralPartner Role = "referral_partner"
	RoleAdmin           Role = "admin"
)

// SelfServiceRoles are the roles a caller may pick at direct registration.
var SelfServiceRoles = map[Role]struct{}{
	RoleCustomer:        {},
	RolePartner:         {},
	RoleReferralPartner: {},
}
