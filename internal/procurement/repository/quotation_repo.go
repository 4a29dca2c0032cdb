package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/entity"
	"gorm.io/gorm"
)

// QuotationRepository 询价单仓库
type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

// FindAll 查询询价单列表
func (r *QuotationRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Quotation, int64, error) {
	var items []entity.Quotation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Quotation{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if urgency := filters["urgency"]; urgency != "" {
		query = query.Where("urgency = ?", urgency)
	}
	if purpose := filters["purpose"]; purpose != "" {
		query = query.Where("purpose = ?", purpose)
	}
	if orderID := filters["service_order_id"]; orderID != "" {
		query = query.Where("service_order_id = ?", orderID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("title ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找询价单（含行项及报价）
func (r *QuotationRepository) FindByID(ctx context.Context, id string) (*entity.Quotation, error) {
	var q entity.Quotation
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Items.Proposals", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Proposals.Supplier").
		Where("id = ?", id).
		First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// Create 创建询价单
func (r *QuotationRepository) Create(ctx context.Context, q *entity.Quotation) error {
	return r.db.WithContext(ctx).Create(q).Error
}

// Update 更新询价单
func (r *QuotationRepository) Update(ctx context.Context, q *entity.Quotation) error {
	return r.db.WithContext(ctx).Save(q).Error
}

// UpdateStatus 更新询价单状态
func (r *QuotationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Quotation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// FindItemByID 查找询价行项
func (r *QuotationRepository) FindItemByID(ctx context.Context, itemID string) (*entity.QuotationItem, error) {
	var item entity.QuotationItem
	err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindItems 查询询价单全部行项（含报价，按sort_order排序）
func (r *QuotationRepository) FindItems(ctx context.Context, quotationID string) ([]entity.QuotationItem, error) {
	var items []entity.QuotationItem
	err := r.db.WithContext(ctx).
		Preload("Proposals", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Proposals.Supplier").
		Where("quotation_id = ?", quotationID).
		Order("sort_order ASC").
		Find(&items).Error
	return items, err
}

// CreateItem 创建询价行项
func (r *QuotationRepository) CreateItem(ctx context.Context, item *entity.QuotationItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateItem 更新询价行项
func (r *QuotationRepository) UpdateItem(ctx context.Context, item *entity.QuotationItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem 删除行项并级联删除其报价
func (r *QuotationRepository) DeleteItem(ctx context.Context, itemID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", itemID).Delete(&entity.QuotationProposal{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", itemID).Delete(&entity.QuotationItem{}).Error
	})
}

// GenerateCode 生成询价单编码 QT-{year}-{4位}
func (r *QuotationRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("QT-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Quotation{}).
		Select("COALESCE(MAX(code), '')").
		Where("code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "QT-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("QT-%s-%04d", year, seq), nil
}
