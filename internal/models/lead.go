package models

import (
	"time"
)

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadWon       LeadStatus = "won"
	LeadLost      LeadStatus = "lost"
)

// Valid reports whether s is a known lead status
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadWon, LeadLost:
		return true
	}
	return false
}

// Lead is a contact captured from the public site
type Lead struct {
	ID         string     `json:"id"`
	TenantID   *string    `json:"tenant_id,omitempty"`
	PropertyID *string    `json:"property_id,omitempty"`
	AssignedTo *string    `json:"assigned_to,omitempty"`
	Name       string     `json:"name"`
	Email      *string    `json:"email,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	Message    *string    `json:"message,omitempty"`
	Source     string     `json:"source"`
	Status     LeadStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CreateLeadRequest is the public lead capture payload
type CreateLeadRequest struct {
	PropertyID *string `json:"property_id,omitempty"`
	Name       string  `json:"name"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Message    *string `json:"message,omitempty"`
	Source     string  `json:"source,omitempty"`

	// CaptchaToken is checked when the public form is protected
	CaptchaToken string `json:"captcha_token,omitempty"`
}

// LeadListParams contains parameters for listing leads
type LeadListParams struct {
	Limit    int
	Offset   int
	Status   string
	TenantID *string
	UserID   *string
}

// LeadStats counts leads per status
type LeadStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}
