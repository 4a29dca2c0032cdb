package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/entity"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/repository"
)

// SupplierService 供应商服务
type SupplierService struct {
	supplierRepo    *repository.SupplierRepository
	activityLogRepo *repository.ActivityLogRepository
}

func NewSupplierService(supplierRepo *repository.SupplierRepository, activityLogRepo *repository.ActivityLogRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo, activityLogRepo: activityLogRepo}
}

// List 获取供应商列表
func (s *SupplierService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Supplier, int64, error) {
	return s.supplierRepo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取供应商详情
func (s *SupplierService) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.supplierRepo.FindByID(ctx, id)
}

// CreateSupplierRequest 创建供应商请求
type CreateSupplierRequest struct {
	Name         string   `json:"name" binding:"required"`
	Category     string   `json:"category" binding:"required"`
	Rating       *float64 `json:"rating"`
	IsPreferred  bool     `json:"is_preferred"`
	TaxID        string   `json:"tax_id"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Address      string   `json:"address"`
	PaymentTerms string   `json:"payment_terms"`
	Notes        string   `json:"notes"`
}

// Create 创建供应商
func (s *SupplierService) Create(ctx context.Context, userID string, req *CreateSupplierRequest) (*entity.Supplier, error) {
	if !validSupplierCategory(req.Category) {
		return nil, validationErr("category", "无效的供应商分类: "+req.Category)
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		return nil, validationErr("rating", "评级必须在0到5之间")
	}

	code, err := s.supplierRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("生成供应商编码失败: %w", err)
	}

	supplier := &entity.Supplier{
		ID:           uuid.New().String()[:32],
		Code:         code,
		Name:         req.Name,
		Category:     req.Category,
		Status:       entity.SupplierStatusActive,
		Rating:       req.Rating,
		IsPreferred:  req.IsPreferred,
		TaxID:        req.TaxID,
		City:         req.City,
		State:        req.State,
		Address:      req.Address,
		PaymentTerms: req.PaymentTerms,
		CreatedBy:    userID,
		Notes:        req.Notes,
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}

	s.activityLogRepo.LogActivity(ctx, "supplier", supplier.ID, supplier.Code, "create", "", supplier.Status, "", userID)
	return supplier, nil
}

// UpdateSupplierRequest 更新供应商请求
type UpdateSupplierRequest struct {
	Name         *string  `json:"name"`
	Category     *string  `json:"category"`
	Status       *string  `json:"status"`
	Rating       *float64 `json:"rating"`
	IsPreferred  *bool    `json:"is_preferred"`
	TaxID        *string  `json:"tax_id"`
	City         *string  `json:"city"`
	State        *string  `json:"state"`
	Address      *string  `json:"address"`
	PaymentTerms *string  `json:"payment_terms"`
	Notes        *string  `json:"notes"`
}

// Update 更新供应商
func (s *SupplierService) Update(ctx context.Context, id, userID string, req *UpdateSupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.Category != nil {
		if !validSupplierCategory(*req.Category) {
			return nil, validationErr("category", "无效的供应商分类: "+*req.Category)
		}
		supplier.Category = *req.Category
	}
	if req.Status != nil {
		switch *req.Status {
		case entity.SupplierStatusActive, entity.SupplierStatusSuspended, entity.SupplierStatusBlacklisted:
		default:
			return nil, validationErr("status", "无效的供应商状态: "+*req.Status)
		}
		if supplier.Status != *req.Status {
			s.activityLogRepo.LogActivity(ctx, "supplier", supplier.ID, supplier.Code, "status_change", supplier.Status, *req.Status, "", userID)
		}
		supplier.Status = *req.Status
	}
	if req.Rating != nil {
		if *req.Rating < 0 || *req.Rating > 5 {
			return nil, validationErr("rating", "评级必须在0到5之间")
		}
		supplier.Rating = req.Rating
	}
	if req.IsPreferred != nil {
		supplier.IsPreferred = *req.IsPreferred
	}
	if req.TaxID != nil {
		supplier.TaxID = *req.TaxID
	}
	if req.City != nil {
		supplier.City = *req.City
	}
	if req.State != nil {
		supplier.State = *req.State
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.PaymentTerms != nil {
		supplier.PaymentTerms = *req.PaymentTerms
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
	}

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// AddContactRequest 添加联系人请求
type AddContactRequest struct {
	Name      string `json:"name" binding:"required"`
	Title     string `json:"title"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	IsPrimary bool   `json:"is_primary"`
}

// AddContact 添加供应商联系人
func (s *SupplierService) AddContact(ctx context.Context, supplierID string, req *AddContactRequest) (*entity.SupplierContact, error) {
	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		return nil, err
	}

	contact := &entity.SupplierContact{
		ID:         uuid.New().String()[:32],
		SupplierID: supplierID,
		Name:       req.Name,
		Title:      req.Title,
		Phone:      req.Phone,
		Email:      req.Email,
		IsPrimary:  req.IsPrimary,
	}
	if err := s.supplierRepo.CreateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// RemoveContact 删除供应商联系人
func (s *SupplierService) RemoveContact(ctx context.Context, supplierID, contactID string) error {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return err
	}
	for _, c := range supplier.Contacts {
		if c.ID == contactID {
			return s.supplierRepo.DeleteContact(ctx, contactID)
		}
	}
	return repository.ErrNotFound
}

func validSupplierCategory(category string) bool {
	switch category {
	case entity.SupplierCategoryParts, entity.SupplierCategoryMachining,
		entity.SupplierCategoryConsumables, entity.SupplierCategoryServices,
		entity.SupplierCategoryOther:
		return true
	}
	return false
}
