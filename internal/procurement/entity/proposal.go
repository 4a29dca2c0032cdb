package entity

import "time"

// QuotationProposal 供应商对单个行项的报价
// (item_id, supplier_id) 唯一；每个行项至多一条 is_selected=true
type QuotationProposal struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	ItemID     string `json:"item_id" gorm:"size:32;not null;uniqueIndex:idx_proposal_item_supplier"`
	SupplierID string `json:"supplier_id" gorm:"size:32;not null;uniqueIndex:idx_proposal_item_supplier"`

	// 报价内容
	UnitPrice     float64 `json:"unit_price" gorm:"type:decimal(12,4);not null"`
	LeadTimeDays  int     `json:"lead_time_days" gorm:"not null"`
	PaymentTerms  string  `json:"payment_terms" gorm:"size:200"`
	Specification string  `json:"specification" gorm:"size:500"` // 供应商可供规格
	ContactName   string  `json:"contact_name" gorm:"size:100"`

	// 中标标记；非最低价中标必须填写理由
	IsSelected    bool   `json:"is_selected" gorm:"default:false"`
	Justification string `json:"justification" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (QuotationProposal) TableName() string {
	return "proc_quotation_proposals"
}

// TotalPrice 报价总额（始终由单价×数量推导，不落库）
func (p *QuotationProposal) TotalPrice(quantity float64) float64 {
	return p.UnitPrice * quantity
}
