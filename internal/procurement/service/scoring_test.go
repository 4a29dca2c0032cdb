package service

import (
	"testing"

	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/entity"
)

func ratingPtr(v float64) *float64 { return &v }

// TestScoreProposalsWeighting 验证综合评分加权:
// 供应商A报价$5.00交期7天无评级; 供应商B报价$4.50交期14天评级4.5优选
func TestScoreProposalsWeighting(t *testing.T) {
	proposals := []entity.QuotationProposal{
		{ID: "p-a", ItemID: "item-1", SupplierID: "sup-a", UnitPrice: 5.00, LeadTimeDays: 7},
		{ID: "p-b", ItemID: "item-1", SupplierID: "sup-b", UnitPrice: 4.50, LeadTimeDays: 14},
	}
	suppliers := map[string]*entity.Supplier{
		"sup-a": {ID: "sup-a", Name: "供应商A"},
		"sup-b": {ID: "sup-b", Name: "供应商B", Rating: ratingPtr(4.5), IsPreferred: true},
	}

	scored := ScoreProposals(proposals, suppliers)
	if len(scored) != 2 {
		t.Fatalf("expected 2 scored proposals, got %d", len(scored))
	}

	// A: 0.4*(4.5/5) + 0.3*1 + 0.2*(3/5) + 0 = 0.78 → 78
	if scored[0].Score != 78 {
		t.Errorf("supplier A score: expected 78, got %d", scored[0].Score)
	}
	// B: 0.4*1 + 0.3*(7/14) + 0.2*(4.5/5) + 0.1 = 0.83 → 83
	if scored[1].Score != 83 {
		t.Errorf("supplier B score: expected 83, got %d", scored[1].Score)
	}

	if scored[0].IsBestPrice || !scored[1].IsBestPrice {
		t.Error("supplier B should hold the best price flag")
	}
	if !scored[0].IsBestLeadTime || scored[1].IsBestLeadTime {
		t.Error("supplier A should hold the best lead time flag")
	}
	if !scored[1].IsPreferred {
		t.Error("supplier B should be flagged preferred")
	}
}

// TestScoreProposalsNeutralRating 无评级供应商使用中性评级3.0
func TestScoreProposalsNeutralRating(t *testing.T) {
	proposals := []entity.QuotationProposal{
		{ID: "p-1", SupplierID: "sup-1", UnitPrice: 10, LeadTimeDays: 5},
	}
	suppliers := map[string]*entity.Supplier{
		"sup-1": {ID: "sup-1", Name: "无评级供应商"},
	}

	scored := ScoreProposals(proposals, suppliers)
	// 单个报价自身即最优: 0.4 + 0.3 + 0.2*(3/5) = 0.82 → 82
	if scored[0].Score != 82 {
		t.Errorf("expected 82, got %d", scored[0].Score)
	}
}

// TestScoreProposalsZeroValues 零价格/零交期按满分处理，不除零
func TestScoreProposalsZeroValues(t *testing.T) {
	proposals := []entity.QuotationProposal{
		{ID: "p-free", SupplierID: "sup-1", UnitPrice: 0, LeadTimeDays: 0},
		{ID: "p-paid", SupplierID: "sup-2", UnitPrice: 100, LeadTimeDays: 30},
	}

	scored := ScoreProposals(proposals, nil)
	for _, sp := range scored {
		if sp.Score < 0 || sp.Score > 100 {
			t.Errorf("score out of range [0,100]: %d", sp.Score)
		}
	}
	if !scored[0].IsBestPrice {
		t.Error("zero price should be the best price")
	}
}

// TestScoreProposalsEmpty 空报价集合返回空结果
func TestScoreProposalsEmpty(t *testing.T) {
	scored := ScoreProposals(nil, nil)
	if len(scored) != 0 {
		t.Fatalf("expected empty result, got %d", len(scored))
	}
}

// TestSortScoredTieBreak 同分按供应商ID升序，保证排序全序稳定
func TestSortScoredTieBreak(t *testing.T) {
	scored := []ScoredProposal{
		{Proposal: entity.QuotationProposal{ID: "p-z", SupplierID: "sup-z"}, Score: 80},
		{Proposal: entity.QuotationProposal{ID: "p-a", SupplierID: "sup-a"}, Score: 80},
		{Proposal: entity.QuotationProposal{ID: "p-m", SupplierID: "sup-m"}, Score: 90},
	}

	SortScored(scored)

	if scored[0].Proposal.SupplierID != "sup-m" {
		t.Errorf("highest score first, got %s", scored[0].Proposal.SupplierID)
	}
	if scored[1].Proposal.SupplierID != "sup-a" || scored[2].Proposal.SupplierID != "sup-z" {
		t.Errorf("tie should break by ascending supplier ID, got %s then %s",
			scored[1].Proposal.SupplierID, scored[2].Proposal.SupplierID)
	}
}

// TestRatingComponentClamp 评级越界值被钳制到[0,5]
func TestRatingComponentClamp(t *testing.T) {
	if got := ratingComponent(ratingPtr(7)); got != 1 {
		t.Errorf("rating above 5 should clamp to 1.0, got %v", got)
	}
	if got := ratingComponent(ratingPtr(-2)); got != 0 {
		t.Errorf("rating below 0 should clamp to 0, got %v", got)
	}
	if got := ratingComponent(nil); got != 0.6 {
		t.Errorf("nil rating should use neutral 3/5, got %v", got)
	}
}
