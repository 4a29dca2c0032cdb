package entity

import "testing"

// TestQuotationTransitions 状态机流转表
func TestQuotationTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{QuotationStatusDraft, QuotationStatusSent, true},
		{QuotationStatusDraft, QuotationStatusCancelled, true},
		{QuotationStatusDraft, QuotationStatusApproved, false},
		{QuotationStatusSent, QuotationStatusWaitingProposals, true},
		{QuotationStatusSent, QuotationStatusCancelled, true},
		{QuotationStatusWaitingProposals, QuotationStatusResponded, true},
		{QuotationStatusWaitingProposals, QuotationStatusRejected, false},
		{QuotationStatusWaitingProposals, QuotationStatusCancelled, true},
		{QuotationStatusResponded, QuotationStatusApproved, true},
		{QuotationStatusResponded, QuotationStatusRejected, true},
		{QuotationStatusApproved, QuotationStatusSent, false},
		{QuotationStatusApproved, QuotationStatusRejected, false},
		{QuotationStatusRejected, QuotationStatusSent, false},
		{QuotationStatusRejected, QuotationStatusApproved, false},
		{QuotationStatusCancelled, QuotationStatusDraft, false},
	}

	for _, tc := range cases {
		if got := CanTransitionQuotation(tc.from, tc.to); got != tc.allowed {
			t.Errorf("transition %s → %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

// TestQuotationEditable 仅 draft/sent/waiting_proposals 可编辑
func TestQuotationEditable(t *testing.T) {
	editable := []string{QuotationStatusDraft, QuotationStatusSent, QuotationStatusWaitingProposals}
	for _, s := range editable {
		if !IsQuotationEditable(s) {
			t.Errorf("status %s should be editable", s)
		}
	}

	frozen := []string{QuotationStatusResponded, QuotationStatusApproved, QuotationStatusRejected, QuotationStatusCancelled}
	for _, s := range frozen {
		if IsQuotationEditable(s) {
			t.Errorf("status %s should not be editable", s)
		}
	}
}

// TestProposalTotalPrice 总价 = 单价 × 数量
func TestProposalTotalPrice(t *testing.T) {
	p := QuotationProposal{UnitPrice: 4.50}
	if got := p.TotalPrice(10); got != 45.0 {
		t.Errorf("expected 45.0, got %v", got)
	}
}

// TestNegotiationSavings 节省金额 = 初始 - 最终
func TestNegotiationSavings(t *testing.T) {
	r := NegotiationRound{InitialTotal: 1000, FinalTotal: 850}
	if got := r.Savings(); got != 150 {
		t.Errorf("expected savings 150, got %v", got)
	}

	// 负折扣也如实反映
	r = NegotiationRound{InitialTotal: 800, FinalTotal: 900}
	if got := r.Savings(); got != -100 {
		t.Errorf("expected savings -100, got %v", got)
	}
}
