package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/mlm_backoffice/models"
)

func flatten(nodes []*models.SalesChainNode) []*models.SalesChainNode {
	var out []*models.SalesChainNode
	for _, n := range nodes {
		out = append(out, n)
		out = append(out, flatten(n.Children)...)
	}
	return out
}

func TestSalesChainTwoLevels(t *testing.T) {
	f := newFixture(t)
	a := f.rep(t, "a", "10", nil)
	b := f.rep(t, "b", "10", a)
	product := f.product(t, "Widget", "100.00", 50)
	customer := f.customer(t, b, "carol")
	f.sell(t, b, customer, product, 1)

	forest, err := f.chain.Build(f.ctx)
	require.NoError(t, err)
	require.Len(t, forest, 1)

	root := forest[0]
	assert.Equal(t, a.ID, root.ID)
	assert.Equal(t, "a", root.Name)
	assert.Equal(t, models.RoleRepresentative, root.Role)
	assert.Equal(t, 0.0, root.TotalSales)
	assert.Equal(t, 5.0, root.TotalCommissions)
	assert.Equal(t, 1, root.DownlineCount)
	require.Len(t, root.Children, 1)

	child := root.Children[0]
	assert.Equal(t, b.ID, child.ID)
	assert.Equal(t, 100.0, child.TotalSales)
	assert.Equal(t, 10.0, child.TotalCommissions)
	assert.Equal(t, 0, child.DownlineCount)
	assert.NotNil(t, child.Children)
	assert.Empty(t, child.Children)
}

func TestSalesChainEmpty(t *testing.T) {
	f := newFixture(t)
	f.user(t, "boss", models.RoleAdmin, "0", nil)

	forest, err := f.chain.Build(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, forest)
}

func TestSalesChainProperties(t *testing.T) {
	f := newFixture(t)
	root1 := f.rep(t, "root1", "10", nil)
	root2 := f.rep(t, "root2", "12", nil)
	c1 := f.rep(t, "c1", "10", root1)
	c2 := f.rep(t, "c2", "10", root1)
	g1 := f.rep(t, "g1", "8", c1)
	f.rep(t, "g2", "8", c1)
	f.rep(t, "g3", "8", c2)
	f.rep(t, "c3", "10", root2)

	product := f.product(t, "Widget", "25.00", 100)
	for i, seller := range []*models.User{root1, c1, g1, g1, c2, root2} {
		customer := f.customer(t, seller, "cust"+string(rune('a'+i)))
		f.sell(t, seller, customer, product, i+1)
	}

	forest, err := f.chain.Build(f.ctx)
	require.NoError(t, err)

	reps, err := f.store.ListRepresentatives(f.ctx)
	require.NoError(t, err)
	sales, err := f.store.ListSales(f.ctx)
	require.NoError(t, err)
	commissions, err := f.store.ListCommissions(f.ctx)
	require.NoError(t, err)

	nodes := flatten(forest)
	assert.Len(t, nodes, len(reps), "every representative appears exactly once")
	seen := map[string]bool{}
	for _, n := range nodes {
		assert.False(t, seen[n.ID], "duplicate node %s", n.ID)
		seen[n.ID] = true

		direct := 0
		for _, r := range reps {
			if r.UplineID != nil && *r.UplineID == n.ID {
				direct++
			}
		}
		assert.Equal(t, direct, n.DownlineCount)
		assert.Len(t, n.Children, direct)
	}

	sumSales, sumNodes := 0.0, 0.0
	for _, s := range sales {
		sumSales += s.TotalAmount.Float64()
	}
	for _, n := range nodes {
		sumNodes += n.TotalSales
	}
	assert.InDelta(t, sumSales, sumNodes, 0.001)

	sumComm, sumNodeComm := 0.0, 0.0
	for _, c := range commissions {
		sumComm += c.Amount.Float64()
	}
	for _, n := range nodes {
		sumNodeComm += n.TotalCommissions
	}
	assert.InDelta(t, sumComm, sumNodeComm, 0.001)

	again, err := f.chain.Build(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, forest, again)
}

func TestSalesChainInsertionOrder(t *testing.T) {
	f := newFixture(t)
	a := f.rep(t, "a", "10", nil)
	z := f.rep(t, "z", "10", a)
	m := f.rep(t, "m", "10", a)
	b := f.rep(t, "b", "10", nil)

	forest, err := f.chain.Build(f.ctx)
	require.NoError(t, err)
	require.Len(t, forest, 2)
	assert.Equal(t, a.ID, forest[0].ID)
	assert.Equal(t, b.ID, forest[1].ID)
	require.Len(t, forest[0].Children, 2)
	assert.Equal(t, z.ID, forest[0].Children[0].ID)
	assert.Equal(t, m.ID, forest[0].Children[1].ID)
}

func TestSalesChainDanglingSponsorBecomesRoot(t *testing.T) {
	f := newFixture(t)
	a := f.rep(t, "a", "10", nil)
	b := f.rep(t, "b", "10", a)
	admin := f.user(t, "boss", models.RoleAdmin, "0", nil)
	underAdmin := f.rep(t, "c", "10", admin)
	require.NoError(t, f.store.DeleteUser(f.ctx, a.ID))

	forest, err := f.chain.Build(f.ctx)
	require.NoError(t, err)
	ids := []string{}
	for _, n := range forest {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{b.ID, underAdmin.ID}, ids)
}

func TestSalesChainCycleTerminates(t *testing.T) {
	f := newFixture(t)
	root := f.rep(t, "root", "10", nil)
	f.rep(t, "child", "10", root)
	x := f.rep(t, "x", "10", nil)
	y := f.rep(t, "y", "10", x)
	// Close x -> y -> x directly in the store, bypassing sponsor validation.
	x.UplineID = &y.ID
	require.NoError(t, f.store.UpdateUser(f.ctx, x))

	forest, err := f.chain.Build(f.ctx)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, root.ID, forest[0].ID)
	assert.Len(t, flatten(forest), 2)

	var warned bool
	for _, e := range f.hook.AllEntries() {
		if e.Message == "representatives unreachable from any root, sponsor cycle suspected" {
			warned = true
			assert.ElementsMatch(t, []string{x.ID, y.ID}, e.Data["representativeIds"])
		}
	}
	assert.True(t, warned)
}

func TestSalesChainDepthLimit(t *testing.T) {
	f := newFixture(t)
	chain := NewSalesChainService(f.store, 3, f.log)

	var prev *models.User
	var ids []string
	for i := 0; i < 5; i++ {
		prev = f.rep(t, "lvl"+string(rune('0'+i)), "10", prev)
		ids = append(ids, prev.ID)
	}

	forest, err := chain.Build(f.ctx)
	require.NoError(t, err)
	require.Len(t, forest, 1)

	third := forest[0].Children[0].Children[0]
	assert.Equal(t, ids[2], third.ID)
	assert.Equal(t, 1, third.DownlineCount)
	assert.Empty(t, third.Children)
}
