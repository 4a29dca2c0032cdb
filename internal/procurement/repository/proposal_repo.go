package repository

import (
	"context"
	"errors"

	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/entity"
	"gorm.io/gorm"
)

// ProposalRepository 供应商报价仓库
type ProposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// FindByID 根据ID查找报价
func (r *ProposalRepository) FindByID(ctx context.Context, id string) (*entity.QuotationProposal, error) {
	var p entity.QuotationProposal
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByItem 查询行项的全部报价（按创建顺序）
func (r *ProposalRepository) FindByItem(ctx context.Context, itemID string) ([]entity.QuotationProposal, error) {
	var proposals []entity.QuotationProposal
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("item_id = ?", itemID).
		Order("created_at ASC").
		Find(&proposals).Error
	return proposals, err
}

// FindByItemAndSupplier 查找 (行项, 供应商) 的报价
func (r *ProposalRepository) FindByItemAndSupplier(ctx context.Context, itemID, supplierID string) (*entity.QuotationProposal, error) {
	var p entity.QuotationProposal
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND supplier_id = ?", itemID, supplierID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Create 创建报价
func (r *ProposalRepository) Create(ctx context.Context, p *entity.QuotationProposal) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update 更新报价
func (r *ProposalRepository) Update(ctx context.Context, p *entity.QuotationProposal) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete 删除报价（供应商撤回）
func (r *ProposalRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.QuotationProposal{}).Error
}
