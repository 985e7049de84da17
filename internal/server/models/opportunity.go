package models

import "time"

type OpportunityStatus string

const (
	OpportunityOpen   OpportunityStatus = "open"
	OpportunityClosed OpportunityStatus = "closed"
	OpportunityDraft  OpportunityStatus = "draft"
)

func (s OpportunityStatus) Valid() bool {
	switch s {
	case OpportunityOpen, OpportunityClosed, OpportunityDraft:
		return true
	}
	return false
}

// Opportunity is a volunteering position published by an organization.
type Opportunity struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	OrganizationID   string            `json:"organizationId"`
	OrganizationName string            `json:"organizationName"`
	Location         string            `json:"location,omitempty"`
	SkillsRequired   []string          `json:"skillsRequired"`
	Commitment       string            `json:"commitment,omitempty"`
	Status           OpportunityStatus `json:"status"`
	Applicants       int               `json:"applicants"`
	Views            int               `json:"views"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// Application records a volunteer applying to an opportunity.
type Application struct {
	ID            string    `json:"id"`
	OpportunityID string    `json:"opportunityId"`
	UserID        string    `json:"userId"`
	Message       string    `json:"message,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
