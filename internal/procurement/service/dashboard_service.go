package service

import (
	"context"
	"time"

	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/entity"
	"gorm.io/gorm"
)

// DashboardService 采购看板服务
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// ProcurementOverview 采购全景统计
type ProcurementOverview struct {
	QuotationsByStatus map[string]int64 `json:"quotations_by_status"`
	OverdueQuotations  int64            `json:"overdue_quotations"`
	OpenOrders         int64            `json:"open_orders"`
	OrderTotalThisYear float64          `json:"order_total_this_year"`
	NegotiationSavings float64          `json:"negotiation_savings"`
	ActiveSuppliers    int64            `json:"active_suppliers"`
}

// GetOverview 获取采购全景统计
func (s *DashboardService) GetOverview(ctx context.Context) (*ProcurementOverview, error) {
	overview := &ProcurementOverview{
		QuotationsByStatus: make(map[string]int64),
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := s.db.WithContext(ctx).
		Model(&entity.Quotation{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		overview.QuotationsByStatus[c.Status] = c.Count
	}

	// 已过截止日期仍未定案的询价单
	if err := s.db.WithContext(ctx).
		Model(&entity.Quotation{}).
		Where("due_date < ? AND status IN ?", time.Now(),
			[]string{entity.QuotationStatusSent, entity.QuotationStatusWaitingProposals}).
		Count(&overview.OverdueQuotations).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Where("status IN ?", []string{entity.POStatusGenerated, entity.POStatusSent}).
		Count(&overview.OpenOrders).Error; err != nil {
		return nil, err
	}

	yearStart := time.Date(time.Now().Year(), 1, 1, 0, 0, 0, 0, time.Local)
	row := s.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total_amount), 0)
		FROM proc_purchase_orders
		WHERE status <> 'cancelled' AND created_at >= ?
	`, yearStart).Row()
	if err := row.Scan(&overview.OrderTotalThisYear); err != nil {
		return nil, err
	}

	row = s.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(initial_total - final_total), 0)
		FROM proc_negotiation_rounds
	`).Row()
	if err := row.Scan(&overview.NegotiationSavings); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Model(&entity.Supplier{}).
		Where("status = ?", entity.SupplierStatusActive).
		Count(&overview.ActiveSuppliers).Error; err != nil {
		return nil, err
	}

	return overview, nil
}

// SupplierPerformance 单个供应商的采购表现
type SupplierPerformance struct {
	SupplierID     string  `json:"supplier_id"`
	WonItems       int64   `json:"won_items"`
	OrderCount     int64   `json:"order_count"`
	OrderTotal     float64 `json:"order_total"`
	AvgDiscountPct float64 `json:"avg_discount_pct"`
}

// GetSupplierPerformance 获取供应商采购表现
func (s *DashboardService) GetSupplierPerformance(ctx context.Context, supplierID string) (*SupplierPerformance, error) {
	perf := &SupplierPerformance{SupplierID: supplierID}

	if err := s.db.WithContext(ctx).
		Model(&entity.QuotationProposal{}).
		Where("supplier_id = ? AND is_selected = true", supplierID).
		Count(&perf.WonItems).Error; err != nil {
		return nil, err
	}

	row := s.db.WithContext(ctx).Raw(`
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM proc_purchase_orders
		WHERE supplier_id = ? AND status <> 'cancelled'
	`, supplierID).Row()
	if err := row.Scan(&perf.OrderCount, &perf.OrderTotal); err != nil {
		return nil, err
	}

	row = s.db.WithContext(ctx).Raw(`
		SELECT COALESCE(AVG(discount_pct), 0)
		FROM proc_negotiation_rounds
		WHERE supplier_id = ?
	`, supplierID).Row()
	if err := row.Scan(&perf.AvgDiscountPct); err != nil {
		return nil, err
	}

	return perf, nil
}
