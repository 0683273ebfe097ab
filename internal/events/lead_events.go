package events

import "time"

type LeadSubmitted struct {
	LeadID   string    `json:"leadId"`
	UserID   string    `json:"userId"`
	LeadType string    `json:"leadType"`
	At       time.Time `json:"at"`
}

type LeadStatusChanged struct {
	LeadID          string    `json:"leadId"`
	Status          string    `json:"status"`
	IncentiveStatus string    `json:"incentiveStatus"`
	At              time.Time `json:"at"`
}
