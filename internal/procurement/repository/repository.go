package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 采购仓库集合
type Repositories struct {
	Supplier    *SupplierRepository
	Quotation   *QuotationRepository
	Proposal    *ProposalRepository
	PO          *PORepository
	Negotiation *NegotiationRepository
	ActivityLog *ActivityLogRepository
}

// NewRepositories 创建采购仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Supplier:    NewSupplierRepository(db),
		Quotation:   NewQuotationRepository(db),
		Proposal:    NewProposalRepository(db),
		PO:          NewPORepository(db),
		Negotiation: NewNegotiationRepository(db),
		ActivityLog: NewActivityLogRepository(db),
	}
}
