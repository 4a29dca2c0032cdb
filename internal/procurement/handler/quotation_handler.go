package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/service"
)

// QuotationHandler 询价单处理器
type QuotationHandler struct {
	svc *service.QuotationService
}

func NewQuotationHandler(svc *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{svc: svc}
}

// ListQuotations 询价单列表
// GET /api/v1/procurement/quotations?status=xxx&urgency=xxx&purpose=xxx&search=xxx
func (h *QuotationHandler) ListQuotations(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":           c.Query("status"),
		"urgency":          c.Query("urgency"),
		"purpose":          c.Query("purpose"),
		"service_order_id": c.Query("service_order_id"),
		"search":           c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取询价单列表失败: "+err.Error())
		return
	}

	Success(c, ListResponse{
		Items:      items,
		Pagination: buildPagination(page, pageSize, total),
	})
}

// GetQuotation 询价单详情
// GET /api/v1/procurement/quotations/:id
func (h *QuotationHandler) GetQuotation(c *gin.Context) {
	id := c.Param("id")
	quotation, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "询价单不存在")
		return
	}
	Success(c, quotation)
}

// CreateQuotation 创建询价单
// POST /api/v1/procurement/quotations
func (h *QuotationHandler) CreateQuotation(c *gin.Context) {
	var req service.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	userID := GetUserID(c)
	quotation, err := h.svc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		HandleServiceError(c, err, "创建询价单失败")
		return
	}

	Created(c, quotation)
}

// UpdateQuotation 更新询价单
// PUT /api/v1/procurement/quotations/:id
func (h *QuotationHandler) UpdateQuotation(c *gin.Context) {
	id := c.Param("id")
	var req service.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	quotation, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		HandleServiceError(c, err, "更新询价单失败")
		return
	}

	Success(c, quotation)
}

// ChangeStatus 询价单状态流转
// POST /api/v1/procurement/quotations/:id/status
func (h *QuotationHandler) ChangeStatus(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	quotation, err := h.svc.ChangeStatus(c.Request.Context(), id, req.Status, GetUserID(c))
	if err != nil {
		HandleServiceError(c, err, "询价单状态流转失败")
		return
	}

	Success(c, quotation)
}

// ReopenQuotation 重新打开已定案询价单
// POST /api/v1/procurement/quotations/:id/reopen
func (h *QuotationHandler) ReopenQuotation(c *gin.Context) {
	id := c.Param("id")
	quotation, err := h.svc.Reopen(c.Request.Context(), id, GetUserID(c))
	if err != nil {
		HandleServiceError(c, err, "重新打开询价单失败")
		return
	}
	Success(c, quotation)
}

// ListActivities 询价单操作日志
// GET /api/v1/procurement/quotations/:id/activities
func (h *QuotationHandler) ListActivities(c *gin.Context) {
	id := c.Param("id")
	page, pageSize := GetPagination(c)

	logs, total, err := h.svc.ListActivities(c.Request.Context(), id, page, pageSize)
	if err != nil {
		HandleServiceError(c, err, "获取操作日志失败")
		return
	}

	Success(c, ListResponse{
		Items:      logs,
		Pagination: buildPagination(page, pageSize, total),
	})
}

// AddItem 追加询价行项
// POST /api/v1/procurement/quotations/:id/items
func (h *QuotationHandler) AddItem(c *gin.Context) {
	quotationID := c.Param("id")
	var req service.CreateQuotationItem
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	item, err := h.svc.AddItem(c.Request.Context(), quotationID, &req)
	if err != nil {
		HandleServiceError(c, err, "追加行项失败")
		return
	}

	Created(c, item)
}

// UpdateItem 更新询价行项
// PUT /api/v1/procurement/quotations/:id/items/:itemId
func (h *QuotationHandler) UpdateItem(c *gin.Context) {
	quotationID := c.Param("id")
	itemID := c.Param("itemId")
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	item, err := h.svc.UpdateItem(c.Request.Context(), quotationID, itemID, &req)
	if err != nil {
		HandleServiceError(c, err, "更新行项失败")
		return
	}

	Success(c, item)
}

// DeleteItem 删除询价行项
// DELETE /api/v1/procurement/quotations/:id/items/:itemId
func (h *QuotationHandler) DeleteItem(c *gin.Context) {
	quotationID := c.Param("id")
	itemID := c.Param("itemId")

	if err := h.svc.DeleteItem(c.Request.Context(), quotationID, itemID); err != nil {
		HandleServiceError(c, err, "删除行项失败")
		return
	}

	Success(c, nil)
}

// RegisterProposal 登记供应商报价
// POST /api/v1/procurement/quotations/:id/items/:itemId/proposals
func (h *QuotationHandler) RegisterProposal(c *gin.Context) {
	quotationID := c.Param("id")
	itemID := c.Param("itemId")
	var req service.RegisterProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	proposal, err := h.svc.RegisterProposal(c.Request.Context(), quotationID, itemID, &req)
	if err != nil {
		HandleServiceError(c, err, "登记报价失败")
		return
	}

	Created(c, proposal)
}

// RetractProposal 撤回供应商报价
// DELETE /api/v1/procurement/quotations/:id/items/:itemId/proposals/:proposalId
func (h *QuotationHandler) RetractProposal(c *gin.Context) {
	quotationID := c.Param("id")
	itemID := c.Param("itemId")
	proposalID := c.Param("proposalId")

	if err := h.svc.RetractProposal(c.Request.Context(), quotationID, itemID, proposalID); err != nil {
		HandleServiceError(c, err, "撤回报价失败")
		return
	}

	Success(c, nil)
}
