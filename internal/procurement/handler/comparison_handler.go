package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/service"
)

// ComparisonHandler 比价与中标选择处理器
type ComparisonHandler struct {
	svc       *service.ComparisonService
	exportSvc *service.ExportService
}

func NewComparisonHandler(svc *service.ComparisonService, exportSvc *service.ExportService) *ComparisonHandler {
	return &ComparisonHandler{svc: svc, exportSvc: exportSvc}
}

// GetComparison 询价单比较视图
// GET /api/v1/procurement/quotations/:id/comparison
func (h *ComparisonHandler) GetComparison(c *gin.Context) {
	quotationID := c.Param("id")

	comparison, err := h.svc.BuildComparison(c.Request.Context(), quotationID)
	if err != nil {
		HandleServiceError(c, err, "获取比价视图失败")
		return
	}

	Success(c, comparison)
}

// SelectProposal 选定行项中标报价
// POST /api/v1/procurement/quotations/:id/items/:itemId/select
func (h *ComparisonHandler) SelectProposal(c *gin.Context) {
	quotationID := c.Param("id")
	itemID := c.Param("itemId")
	var req struct {
		ProposalID    string `json:"proposal_id" binding:"required"`
		Justification string `json:"justification"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	err := h.svc.SelectProposal(c.Request.Context(), quotationID, itemID, req.ProposalID, req.Justification, GetUserID(c))
	if err != nil {
		HandleServiceError(c, err, "选定报价失败")
		return
	}

	Success(c, gin.H{"selected": true})
}

// ExportComparison 导出比价表xlsx
// GET /api/v1/procurement/quotations/:id/comparison/export
func (h *ComparisonHandler) ExportComparison(c *gin.Context) {
	quotationID := c.Param("id")

	f, filename, err := h.exportSvc.ExportComparison(c.Request.Context(), quotationID)
	if err != nil {
		HandleServiceError(c, err, "导出比价表失败")
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}
