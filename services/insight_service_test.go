package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminInsights(t *testing.T) {
	f := newFixture(t)
	insights := NewInsightService(f.store)

	a := f.rep(t, "Alice Rep", "10", nil)
	b := f.rep(t, "Bob Rep", "10", a)
	widget := f.product(t, "Widget", "100.00", 50)
	f.product(t, "Scarce Kit", "10.00", 2)
	ca := f.customer(t, a, "alice")
	cb := f.customer(t, b, "bob")
	f.sell(t, a, ca, widget, 1)
	f.sell(t, b, cb, widget, 3)

	recs, err := insights.ForAdmin(f.ctx)
	require.NoError(t, err)

	byTitle := map[string]string{}
	for _, r := range recs {
		byTitle[r.Title] = r.Description
	}
	assert.Contains(t, byTitle["Stock Reorder Suggestion"], "Scarce Kit is down to 2 units")
	assert.Contains(t, byTitle["Top Performer This Month"], "Bob Rep")
	assert.Contains(t, byTitle["Top Performer This Month"], "$300.00")
	assert.Contains(t, byTitle["Review Product Pricing"], "Widget sold 4 units")
	assert.Contains(t, byTitle["Pending Commission Payouts"], "3 commissions totalling $55.00")
}

func TestRepresentativeInsights(t *testing.T) {
	f := newFixture(t)
	insights := NewInsightService(f.store)

	a := f.rep(t, "a", "10", nil)
	b := f.rep(t, "b", "10", nil)
	widget := f.product(t, "Widget", "10.00", 50)
	gadget := f.product(t, "Gadget", "20.00", 50)
	active := f.customer(t, a, "Active Annie")
	f.customer(t, a, "Quiet Quinn")
	cb := f.customer(t, b, "bob")
	f.sell(t, a, active, widget, 1)
	f.sell(t, b, cb, gadget, 2)

	recs, err := insights.ForRepresentative(f.ctx, a)
	require.NoError(t, err)

	byTitle := map[string]string{}
	for _, r := range recs {
		byTitle[r.Title] = r.Description
	}
	assert.Contains(t, byTitle["Customers To Re-engage"], "Quiet Quinn")
	assert.Contains(t, byTitle["Cross-Sell Recommendation"], "Gadget")
	assert.Contains(t, byTitle["Commissions Awaiting Payment"], "1 pending commissions worth $1.00")
	assert.NotContains(t, byTitle, "Record Your First Sale")

	fresh := f.rep(t, "fresh", "10", nil)
	recs, err = insights.ForRepresentative(f.ctx, fresh)
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	assert.Equal(t, "Record Your First Sale", recs[len(recs)-1].Title)
}
