package repository

import (
	"context"

	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/entity"
	"gorm.io/gorm"
)

// NegotiationRepository 议价轮次仓库（只增不改）
type NegotiationRepository struct {
	db *gorm.DB
}

func NewNegotiationRepository(db *gorm.DB) *NegotiationRepository {
	return &NegotiationRepository{db: db}
}

// Create 追加议价轮次；轮次号在同一事务内按 (询价单, 供应商) 递增
func (r *NegotiationRepository) Create(ctx context.Context, round *entity.NegotiationRound) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&entity.NegotiationRound{}).
			Where("supplier_id = ?", round.SupplierID)
		if round.QuotationID != nil {
			query = query.Where("quotation_id = ?", *round.QuotationID)
		} else {
			query = query.Where("quotation_id IS NULL")
		}

		var maxRound int
		if err := query.Select("COALESCE(MAX(round_number), 0)").Scan(&maxRound).Error; err != nil {
			return err
		}
		round.RoundNumber = maxRound + 1

		return tx.Create(round).Error
	})
}

// FindAll 查询议价轮次，可按询价单/供应商过滤
func (r *NegotiationRepository) FindAll(ctx context.Context, filters map[string]string) ([]entity.NegotiationRound, error) {
	var rounds []entity.NegotiationRound

	query := r.db.WithContext(ctx).Model(&entity.NegotiationRound{})

	if quotationID := filters["quotation_id"]; quotationID != "" {
		query = query.Where("quotation_id = ?", quotationID)
	}
	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}

	err := query.
		Preload("Supplier").
		Order("supplier_id ASC, round_number ASC").
		Find(&rounds).Error
	return rounds, err
}
