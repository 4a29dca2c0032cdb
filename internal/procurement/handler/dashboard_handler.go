package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/service"
)

// DashboardHandler 采购看板处理器
type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// GetOverview 采购全景统计
// GET /api/v1/procurement/dashboard/overview
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	overview, err := h.svc.GetOverview(c.Request.Context())
	if err != nil {
		InternalError(c, "获取采购统计失败: "+err.Error())
		return
	}
	Success(c, overview)
}

// GetSupplierPerformance 供应商采购表现
// GET /api/v1/procurement/dashboard/suppliers/:id
func (h *DashboardHandler) GetSupplierPerformance(c *gin.Context) {
	perf, err := h.svc.GetSupplierPerformance(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, "获取供应商表现失败: "+err.Error())
		return
	}
	Success(c, perf)
}
