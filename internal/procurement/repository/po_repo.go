package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/entity"
	"gorm.io/gorm"
)

// PORepository 采购订单仓库
type PORepository struct {
	db *gorm.DB
}

func NewPORepository(db *gorm.DB) *PORepository {
	return &PORepository{db: db}
}

// FindAll 查询采购订单列表
func (r *PORepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	var items []entity.PurchaseOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{})

	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if quotationID := filters["quotation_id"]; quotationID != "" {
		query = query.Where("quotation_id = ?", quotationID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("po_code ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Supplier").
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找采购订单（含行项）
func (r *PORepository) FindByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ?", id).
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindByQuotation 查询询价单名下全部采购订单
func (r *PORepository) FindByQuotation(ctx context.Context, quotationID string) ([]entity.PurchaseOrder, error) {
	var pos []entity.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items").
		Where("quotation_id = ?", quotationID).
		Order("created_at ASC").
		Find(&pos).Error
	return pos, err
}

// CountByQuotation 统计询价单已生成订单数（一次性生成防重复）
func (r *PORepository) CountByQuotation(ctx context.Context, quotationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Where("quotation_id = ?", quotationID).
		Count(&count).Error
	return count, err
}

// Update 更新采购订单
func (r *PORepository) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(po).Error
}

// GenerateCode 生成PO编码 PO-{year}-{4位}
// 事务内生成时传入事务句柄，保证同事务读写一致
func (r *PORepository) GenerateCode(ctx context.Context, tx *gorm.DB) (string, error) {
	db := r.db
	if tx != nil {
		db = tx
	}

	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("PO-%s-", year)

	var maxCode string
	err := db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Select("COALESCE(MAX(po_code), '')").
		Where("po_code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "PO-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("PO-%s-%04d", year, seq), nil
}
