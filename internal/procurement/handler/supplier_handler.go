package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/service"
)

// SupplierHandler 供应商处理器
type SupplierHandler struct {
	svc *service.SupplierService
}

func NewSupplierHandler(svc *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

// ListSuppliers 供应商列表
// GET /api/v1/procurement/suppliers?category=xxx&status=xxx&preferred=true&search=xxx
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":    c.Query("search"),
		"category":  c.Query("category"),
		"status":    c.Query("status"),
		"preferred": c.Query("preferred"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取供应商列表失败: "+err.Error())
		return
	}

	Success(c, ListResponse{
		Items:      items,
		Pagination: buildPagination(page, pageSize, total),
	})
}

// GetSupplier 供应商详情
// GET /api/v1/procurement/suppliers/:id
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	id := c.Param("id")
	supplier, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "供应商不存在")
		return
	}
	Success(c, supplier)
}

// CreateSupplier 创建供应商
// POST /api/v1/procurement/suppliers
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	supplier, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		HandleServiceError(c, err, "创建供应商失败")
		return
	}

	Created(c, supplier)
}

// UpdateSupplier 更新供应商
// PUT /api/v1/procurement/suppliers/:id
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	id := c.Param("id")
	var req service.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	supplier, err := h.svc.Update(c.Request.Context(), id, GetUserID(c), &req)
	if err != nil {
		HandleServiceError(c, err, "更新供应商失败")
		return
	}

	Success(c, supplier)
}

// AddContact 添加供应商联系人
// POST /api/v1/procurement/suppliers/:id/contacts
func (h *SupplierHandler) AddContact(c *gin.Context) {
	supplierID := c.Param("id")
	var req service.AddContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	contact, err := h.svc.AddContact(c.Request.Context(), supplierID, &req)
	if err != nil {
		HandleServiceError(c, err, "添加联系人失败")
		return
	}

	Created(c, contact)
}

// RemoveContact 删除供应商联系人
// DELETE /api/v1/procurement/suppliers/:id/contacts/:contactId
func (h *SupplierHandler) RemoveContact(c *gin.Context) {
	supplierID := c.Param("id")
	contactID := c.Param("contactId")

	if err := h.svc.RemoveContact(c.Request.Context(), supplierID, contactID); err != nil {
		HandleServiceError(c, err, "删除联系人失败")
		return
	}

	Success(c, nil)
}
