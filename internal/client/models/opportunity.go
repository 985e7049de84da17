package models

import "time"

type Opportunity struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	OrganizationName string    `json:"organizationName"`
	Location         string    `json:"location,omitempty"`
	SkillsRequired   []string  `json:"skillsRequired"`
	Commitment       string    `json:"commitment,omitempty"`
	Status           string    `json:"status"`
	Applicants       int       `json:"applicants"`
	Views            int       `json:"views"`
	CreatedAt        time.Time `json:"createdAt"`
}

type DashboardStats struct {
	TotalOpportunities int `json:"totalOpportunities"`
	ActiveApplications int `json:"activeApplications"`
}

type Dashboard struct {
	User          User           `json:"user"`
	Opportunities []Opportunity  `json:"opportunities"`
	Stats         DashboardStats `json:"stats"`
}
