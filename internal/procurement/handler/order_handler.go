package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/service"
)

// OrderHandler 采购订单处理器
type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// GenerateOrders 从询价单生成采购订单
// POST /api/v1/procurement/quotations/:id/generate-orders
func (h *OrderHandler) GenerateOrders(c *gin.Context) {
	quotationID := c.Param("id")

	orders, err := h.svc.GenerateOrders(c.Request.Context(), quotationID, GetUserID(c))
	if err != nil {
		HandleServiceError(c, err, "生成采购订单失败")
		return
	}

	Created(c, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// ListOrders 采购订单列表
// GET /api/v1/procurement/orders?supplier_id=xxx&quotation_id=xxx&status=xxx
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"supplier_id":  c.Query("supplier_id"),
		"quotation_id": c.Query("quotation_id"),
		"status":       c.Query("status"),
		"search":       c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取采购订单列表失败: "+err.Error())
		return
	}

	Success(c, ListResponse{
		Items:      items,
		Pagination: buildPagination(page, pageSize, total),
	})
}

// GetOrder 采购订单详情
// GET /api/v1/procurement/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id := c.Param("id")
	po, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "采购订单不存在")
		return
	}
	Success(c, po)
}

// MarkSent 标记采购订单已发送
// POST /api/v1/procurement/orders/:id/send
func (h *OrderHandler) MarkSent(c *gin.Context) {
	po, err := h.svc.MarkSent(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		HandleServiceError(c, err, "标记发送失败")
		return
	}
	Success(c, po)
}

// MarkReceived 标记采购订单已收货
// POST /api/v1/procurement/orders/:id/receive
func (h *OrderHandler) MarkReceived(c *gin.Context) {
	po, err := h.svc.MarkReceived(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		HandleServiceError(c, err, "标记收货失败")
		return
	}
	Success(c, po)
}

// CancelOrder 取消采购订单
// POST /api/v1/procurement/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	po, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		HandleServiceError(c, err, "取消采购订单失败")
		return
	}
	Success(c, po)
}
