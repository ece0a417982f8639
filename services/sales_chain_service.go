package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/repositories"
)

const DefaultMaxChainDepth = 64

// SalesChainService builds the sponsor forest with per-representative totals.
// The report is derived from the current store contents on every call.
type SalesChainService struct {
	store    repositories.Store
	maxDepth int
	log      logrus.FieldLogger
}

func NewSalesChainService(store repositories.Store, maxDepth int, log logrus.FieldLogger) *SalesChainService {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxChainDepth
	}
	return &SalesChainService{store: store, maxDepth: maxDepth, log: log}
}

type chainIndex struct {
	sales       map[string]decimal.Decimal
	commissions map[string]decimal.Decimal
	downline    map[string][]*models.User
}

// Build returns one tree per root representative. A root has no sponsor, or a
// sponsor that is not a representative. Representatives caught in a sponsor
// cycle that no root reaches are logged and left out.
func (s *SalesChainService) Build(ctx context.Context) ([]*models.SalesChainNode, error) {
	reps, err := s.store.ListRepresentatives(ctx)
	if err != nil {
		return nil, fmt.Errorf("list representatives: %w", err)
	}
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	commissions, err := s.store.ListCommissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list commissions: %w", err)
	}

	idx := chainIndex{
		sales:       make(map[string]decimal.Decimal, len(reps)),
		commissions: make(map[string]decimal.Decimal, len(reps)),
		downline:    make(map[string][]*models.User, len(reps)),
	}
	for _, sale := range sales {
		idx.sales[sale.RepresentativeID] = idx.sales[sale.RepresentativeID].Add(sale.TotalAmount.Decimal)
	}
	for _, c := range commissions {
		idx.commissions[c.RepresentativeID] = idx.commissions[c.RepresentativeID].Add(c.Amount.Decimal)
	}

	isRep := make(map[string]bool, len(reps))
	for _, rep := range reps {
		isRep[rep.ID] = true
	}
	var roots []*models.User
	for _, rep := range reps {
		if rep.HasUpline() && isRep[*rep.UplineID] {
			idx.downline[*rep.UplineID] = append(idx.downline[*rep.UplineID], rep)
			continue
		}
		roots = append(roots, rep)
	}

	visited := make(map[string]bool, len(reps))
	forest := make([]*models.SalesChainNode, 0, len(roots))
	for _, root := range roots {
		forest = append(forest, s.buildNode(root, 1, idx, visited))
	}

	if len(visited) < len(reps) {
		var stranded []string
		for _, rep := range reps {
			if !visited[rep.ID] {
				stranded = append(stranded, rep.ID)
			}
		}
		s.log.WithField("representativeIds", stranded).Warn("representatives unreachable from any root, sponsor cycle suspected")
	}
	return forest, nil
}

func (s *SalesChainService) buildNode(rep *models.User, depth int, idx chainIndex, visited map[string]bool) *models.SalesChainNode {
	visited[rep.ID] = true
	children := idx.downline[rep.ID]
	node := &models.SalesChainNode{
		ID:               rep.ID,
		Name:             rep.FullName,
		Role:             rep.Role,
		TotalSales:       idx.sales[rep.ID].Round(2).InexactFloat64(),
		TotalCommissions: idx.commissions[rep.ID].Round(2).InexactFloat64(),
		DownlineCount:    len(children),
		Children:         make([]*models.SalesChainNode, 0, len(children)),
	}

	if depth >= s.maxDepth {
		if len(children) > 0 {
			s.log.WithFields(logrus.Fields{
				"representativeId": rep.ID,
				"depth":            depth,
			}).Warn("sales chain depth limit reached, downline truncated")
		}
		return node
	}
	for _, child := range children {
		if visited[child.ID] {
			s.log.WithField("representativeId", child.ID).Warn("representative already placed in sales chain, skipping")
			continue
		}
		node.Children = append(node.Children, s.buildNode(child, depth+1, idx, visited))
	}
	return node
}
