package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCampaignEligible(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	base := Campaign{
		Status:      CampaignActive,
		BudgetTotal: 100,
		BudgetSpent: 10,
		StartDate:   now.AddDate(0, 0, -1),
		EndDate:     now.AddDate(0, 0, 1),
	}

	tests := []struct {
		name   string
		mutate func(c *Campaign)
		want   bool
	}{
		{name: "active in window with budget", mutate: func(c *Campaign) {}, want: true},
		{name: "paused", mutate: func(c *Campaign) { c.Status = CampaignPaused }},
		{name: "draft", mutate: func(c *Campaign) { c.Status = CampaignDraft }},
		{name: "completed", mutate: func(c *Campaign) { c.Status = CampaignCompleted }},
		{name: "not started", mutate: func(c *Campaign) { c.StartDate = now.Add(time.Hour) }},
		{name: "ended", mutate: func(c *Campaign) { c.EndDate = now.Add(-time.Second) }},
		{name: "budget exhausted", mutate: func(c *Campaign) { c.BudgetSpent = 100 }},
		{name: "budget overspent", mutate: func(c *Campaign) { c.BudgetSpent = 120 }},
		{name: "window boundary start", mutate: func(c *Campaign) { c.StartDate = now }, want: true},
		{name: "window boundary end", mutate: func(c *Campaign) { c.EndDate = now }, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			assert.Equal(t, tt.want, c.Eligible(now))
		})
	}
}

func TestRemainingBudget(t *testing.T) {
	c := Campaign{BudgetTotal: 100, BudgetSpent: 90}
	assert.Equal(t, int64(10), c.RemainingBudget())
}
