package entity

import "time"

// NegotiationRound 议价轮次（按询价单/供应商追加，只增不改）
type NegotiationRound struct {
	ID          string  `json:"id" gorm:"primaryKey;size:32"`
	QuotationID *string `json:"quotation_id" gorm:"size:32;index:idx_negotiation_pair"`
	SupplierID  string  `json:"supplier_id" gorm:"size:32;not null;index:idx_negotiation_pair"`

	// 轮次与金额；折扣率由服务端推导
	RoundNumber  int     `json:"round_number" gorm:"not null"`
	InitialTotal float64 `json:"initial_total" gorm:"type:decimal(15,2);not null"`
	FinalTotal   float64 `json:"final_total" gorm:"type:decimal(15,2);not null"`
	DiscountPct  float64 `json:"discount_pct" gorm:"type:decimal(7,2)"`

	NegotiatedAt          *time.Time `json:"negotiated_at"`
	Arguments             string     `json:"arguments" gorm:"type:text"`
	SupplierJustification string     `json:"supplier_justification" gorm:"type:text"`
	Notes                 string     `json:"notes" gorm:"type:text"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`

	// 关联
	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (NegotiationRound) TableName() string {
	return "proc_negotiation_rounds"
}

// Savings 本轮节省金额
func (n *NegotiationRound) Savings() float64 {
	return n.InitialTotal - n.FinalTotal
}
