package entity

import "time"

// Quotation 询价单
type Quotation struct {
	ID      string     `json:"id" gorm:"primaryKey;size:32"`
	Code    string     `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Title   string     `json:"title" gorm:"size:200;not null"`
	DueDate *time.Time `json:"due_date"`
	Urgency string     `json:"urgency" gorm:"size:20;default:normal"` // low/normal/high/critical
	Purpose string     `json:"purpose" gorm:"size:20;not null"`       // stock/budget
	Status  string     `json:"status" gorm:"size:20;default:draft"`

	// 来源关联（车间工单或已审批预算）
	ServiceOrderID *string `json:"service_order_id" gorm:"size:32"`
	BudgetID       *string `json:"budget_id" gorm:"size:32"`

	// 管理
	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`

	// 关联
	Items []QuotationItem `json:"items,omitempty" gorm:"foreignKey:QuotationID"`
}

func (Quotation) TableName() string {
	return "proc_quotations"
}

// 询价单状态
const (
	QuotationStatusDraft            = "draft"
	QuotationStatusSent             = "sent"
	QuotationStatusWaitingProposals = "waiting_proposals"
	QuotationStatusResponded        = "responded"
	QuotationStatusApproved         = "approved"
	QuotationStatusRejected         = "rejected"
	QuotationStatusCancelled        = "cancelled"
)

// 紧急程度
const (
	UrgencyLow      = "low"
	UrgencyNormal   = "normal"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// 采购目的
const (
	PurposeStock  = "stock"
	PurposeBudget = "budget"
)

// ValidQuotationTransitions 询价单合法状态流转
// 取消可从任何非终态进入；rejected/cancelled为终态
var ValidQuotationTransitions = map[string][]string{
	QuotationStatusDraft:            {QuotationStatusSent, QuotationStatusCancelled},
	QuotationStatusSent:             {QuotationStatusWaitingProposals, QuotationStatusResponded, QuotationStatusCancelled},
	QuotationStatusWaitingProposals: {QuotationStatusResponded, QuotationStatusCancelled},
	QuotationStatusResponded:        {QuotationStatusApproved, QuotationStatusRejected, QuotationStatusCancelled},
	QuotationStatusApproved:         {QuotationStatusCancelled},
	QuotationStatusRejected:         {},
	QuotationStatusCancelled:        {},
}

// CanTransitionQuotation 判断状态流转是否合法
func CanTransitionQuotation(from, to string) bool {
	for _, t := range ValidQuotationTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// IsQuotationEditable 行项/报价是否可编辑
func IsQuotationEditable(status string) bool {
	switch status {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusWaitingProposals:
		return true
	}
	return false
}

// QuotationItem 询价行项（一个所需零件/物料）
type QuotationItem struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	QuotationID string `json:"quotation_id" gorm:"size:32;not null;index"`

	// 零件信息
	PartID        *string `json:"part_id" gorm:"size:32"` // 库存零件，可为空
	Name          string  `json:"name" gorm:"size:200;not null"`
	Code          string  `json:"code" gorm:"size:50"`
	Specification string  `json:"specification" gorm:"size:500"`

	Quantity float64 `json:"quantity" gorm:"type:decimal(10,2);not null"`
	Unit     string  `json:"unit" gorm:"size:20;default:pcs"`

	// 受邀报价的供应商（有序）
	InvitedSupplierIDs StringArray `json:"invited_supplier_ids" gorm:"type:jsonb"`

	SortOrder int       `json:"sort_order" gorm:"default:0"`
	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Proposals []QuotationProposal `json:"proposals,omitempty" gorm:"foreignKey:ItemID"`
}

func (QuotationItem) TableName() string {
	return "proc_quotation_items"
}
