package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/service"
)

// NegotiationHandler 议价历史处理器
type NegotiationHandler struct {
	svc *service.NegotiationService
}

func NewNegotiationHandler(svc *service.NegotiationService) *NegotiationHandler {
	return &NegotiationHandler{svc: svc}
}

// CreateRound 登记一轮议价
// POST /api/v1/procurement/negotiations
func (h *NegotiationHandler) CreateRound(c *gin.Context) {
	var req service.CreateRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	round, err := h.svc.CreateRound(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		HandleServiceError(c, err, "登记议价失败")
		return
	}

	Created(c, round)
}

// ListRounds 议价轮次列表及汇总统计
// GET /api/v1/procurement/negotiations?quotation_id=xxx&supplier_id=xxx
func (h *NegotiationHandler) ListRounds(c *gin.Context) {
	filters := map[string]string{
		"quotation_id": c.Query("quotation_id"),
		"supplier_id":  c.Query("supplier_id"),
	}

	rounds, stats, err := h.svc.ListRounds(c.Request.Context(), filters)
	if err != nil {
		InternalError(c, "获取议价记录失败: "+err.Error())
		return
	}

	Success(c, gin.H{
		"rounds": rounds,
		"stats":  stats,
	})
}
