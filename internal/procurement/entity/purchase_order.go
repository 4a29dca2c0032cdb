package entity

import "time"

// PurchaseOrder 采购订单（按供应商分组，从中标报价生成）
type PurchaseOrder struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	POCode      string `json:"po_code" gorm:"size:32;uniqueIndex;not null"`
	QuotationID string `json:"quotation_id" gorm:"size:32;not null;index"`
	SupplierID  string `json:"supplier_id" gorm:"size:32;not null;index"`
	Status      string `json:"status" gorm:"size:20;default:generated"` // generated/sent/received/cancelled

	// 金额
	TotalAmount float64 `json:"total_amount" gorm:"type:decimal(15,2);not null"`
	Currency    string  `json:"currency" gorm:"size:10;default:BRL"`

	PaymentTerms string `json:"payment_terms" gorm:"size:200"`

	// 管理
	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`

	// 关联
	Items    []POItem  `json:"items,omitempty" gorm:"foreignKey:POID"`
	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (PurchaseOrder) TableName() string {
	return "proc_purchase_orders"
}

// PO状态
const (
	POStatusGenerated = "generated"
	POStatusSent      = "sent"
	POStatusReceived  = "received"
	POStatusCancelled = "cancelled"
)

// POItem 采购订单行项
type POItem struct {
	ID              string  `json:"id" gorm:"primaryKey;size:32"`
	POID            string  `json:"po_id" gorm:"size:32;not null;index"`
	QuotationItemID *string `json:"quotation_item_id" gorm:"size:32"`
	ProposalID      *string `json:"proposal_id" gorm:"size:32"`

	PartID        *string `json:"part_id" gorm:"size:32"`
	Name          string  `json:"name" gorm:"size:200;not null"`
	Code          string  `json:"code" gorm:"size:50"`
	Specification string  `json:"specification" gorm:"size:500"`

	Quantity    float64 `json:"quantity" gorm:"type:decimal(10,2);not null"`
	Unit        string  `json:"unit" gorm:"size:20;default:pcs"`
	UnitPrice   float64 `json:"unit_price" gorm:"type:decimal(12,4);not null"`
	TotalAmount float64 `json:"total_amount" gorm:"type:decimal(15,2);not null"`

	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
}

func (POItem) TableName() string {
	return "proc_po_items"
}
