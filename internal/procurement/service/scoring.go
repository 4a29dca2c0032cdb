package service

import (
	"math"
	"sort"

	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/entity"
)

// 报价综合评分权重（固定）
// 价格40% + 交期30% + 供应商评级20% + 优选供应商10%
const (
	weightPrice     = 0.40
	weightLeadTime  = 0.30
	weightRating    = 0.20
	weightPreferred = 0.10

	// 供应商无评级时的中性默认值（满分5）
	neutralRating = 3.0
)

// ScoredProposal 带评分的报价
type ScoredProposal struct {
	Proposal       entity.QuotationProposal `json:"proposal"`
	SupplierName   string                   `json:"supplier_name"`
	Score          int                      `json:"score"` // 0-100
	IsBestPrice    bool                     `json:"is_best_price"`
	IsBestLeadTime bool                     `json:"is_best_lead_time"`
	IsPreferred    bool                     `json:"is_preferred"`
}

// ScoreProposals 对单个行项的报价集合计算综合评分
// suppliers 提供评级与优选标记；空集合返回空结果
func ScoreProposals(proposals []entity.QuotationProposal, suppliers map[string]*entity.Supplier) []ScoredProposal {
	if len(proposals) == 0 {
		return []ScoredProposal{}
	}

	minPrice := proposals[0].UnitPrice
	minLead := proposals[0].LeadTimeDays
	for _, p := range proposals[1:] {
		if p.UnitPrice < minPrice {
			minPrice = p.UnitPrice
		}
		if p.LeadTimeDays < minLead {
			minLead = p.LeadTimeDays
		}
	}

	scored := make([]ScoredProposal, 0, len(proposals))
	for _, p := range proposals {
		var rating *float64
		var preferred bool
		var supplierName string
		if sup := suppliers[p.SupplierID]; sup != nil {
			rating = sup.Rating
			preferred = sup.IsPreferred
			supplierName = sup.Name
		} else if p.Supplier != nil {
			rating = p.Supplier.Rating
			preferred = p.Supplier.IsPreferred
			supplierName = p.Supplier.Name
		}

		total := weightPrice*ratioComponent(minPrice, p.UnitPrice) +
			weightLeadTime*ratioComponent(float64(minLead), float64(p.LeadTimeDays)) +
			weightRating*ratingComponent(rating) +
			weightPreferred*preferredComponent(preferred)

		score := int(math.Round(total * 100))
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}

		scored = append(scored, ScoredProposal{
			Proposal:       p,
			SupplierName:   supplierName,
			Score:          score,
			IsBestPrice:    p.UnitPrice == minPrice,
			IsBestLeadTime: p.LeadTimeDays == minLead,
			IsPreferred:    preferred,
		})
	}

	return scored
}

// SortScored 按评分降序排序，同分按供应商ID升序（全序且稳定）
func SortScored(scored []ScoredProposal) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Proposal.SupplierID < scored[j].Proposal.SupplierID
	})
}

// ratioComponent 线性归一：最低值得满分，按 min/v 比例递减
func ratioComponent(min, v float64) float64 {
	if v <= 0 {
		return 1
	}
	return min / v
}

func ratingComponent(rating *float64) float64 {
	r := neutralRating
	if rating != nil {
		r = *rating
	}
	if r < 0 {
		r = 0
	}
	if r > 5 {
		r = 5
	}
	return r / 5
}

func preferredComponent(preferred bool) float64 {
	if preferred {
		return 1
	}
	return 0
}

// lowestPrice 报价集合中的最低单价
func lowestPrice(proposals []entity.QuotationProposal) float64 {
	min := proposals[0].UnitPrice
	for _, p := range proposals[1:] {
		if p.UnitPrice < min {
			min = p.UnitPrice
		}
	}
	return min
}
