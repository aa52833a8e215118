package domain

import "time"

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
)

// Campaign represents an advertising campaign.
// Budgets are stored in integer units (e.g. cents).
type Campaign struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Status      CampaignStatus `json:"status"`
	BudgetTotal int64          `json:"budget_total"`
	BudgetSpent int64          `json:"budget_spent"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
}

// RemainingBudget returns BudgetTotal - BudgetSpent.
func (c Campaign) RemainingBudget() int64 {
	return c.BudgetTotal - c.BudgetSpent
}

// Eligible reports whether the campaign may serve at now: it must be active,
// now must fall inside [StartDate, EndDate] and budget must remain.
func (c Campaign) Eligible(now time.Time) bool {
	if c.Status != CampaignActive {
		return false
	}
	if now.Before(c.StartDate) || now.After(c.EndDate) {
		return false
	}
	return c.RemainingBudget() > 0
}
