package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/service"
)

// DraftHandler 询价单草稿处理器
type DraftHandler struct {
	svc *service.DraftService
}

func NewDraftHandler(svc *service.DraftService) *DraftHandler {
	return &DraftHandler{svc: svc}
}

// SaveDraft 保存询价单草稿
// PUT /api/v1/procurement/quotation-draft
func (h *DraftHandler) SaveDraft(c *gin.Context) {
	var req service.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if err := h.svc.Save(c.Request.Context(), GetUserID(c), &req); err != nil {
		InternalError(c, "保存草稿失败: "+err.Error())
		return
	}

	Success(c, gin.H{"saved": true})
}

// GetDraft 读取询价单草稿
// GET /api/v1/procurement/quotation-draft
func (h *DraftHandler) GetDraft(c *gin.Context) {
	draft, err := h.svc.Get(c.Request.Context(), GetUserID(c))
	if err != nil {
		HandleServiceError(c, err, "读取草稿失败")
		return
	}
	Success(c, draft)
}

// DiscardDraft 丢弃询价单草稿
// DELETE /api/v1/procurement/quotation-draft
func (h *DraftHandler) DiscardDraft(c *gin.Context) {
	if err := h.svc.Discard(c.Request.Context(), GetUserID(c)); err != nil {
		InternalError(c, "丢弃草稿失败: "+err.Error())
		return
	}
	Success(c, gin.H{"discarded": true})
}

// CommitDraft 将草稿正式创建为询价单
// POST /api/v1/procurement/quotation-draft/commit
func (h *DraftHandler) CommitDraft(c *gin.Context) {
	quotation, err := h.svc.Commit(c.Request.Context(), GetUserID(c))
	if err != nil {
		HandleServiceError(c, err, "提交草稿失败")
		return
	}
	Created(c, quotation)
}
