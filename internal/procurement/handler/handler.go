package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/repository"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/service"
)

// Handlers 采购处理器集合
type Handlers struct {
	Supplier    *SupplierHandler
	Quotation   *QuotationHandler
	Comparison  *ComparisonHandler
	Order       *OrderHandler
	Negotiation *NegotiationHandler
	Draft       *DraftHandler
	Dashboard   *DashboardHandler
}

// NewHandlers 创建采购处理器集合
func NewHandlers(
	supplierSvc *service.SupplierService,
	quotationSvc *service.QuotationService,
	comparisonSvc *service.ComparisonService,
	orderSvc *service.OrderService,
	negotiationSvc *service.NegotiationService,
	draftSvc *service.DraftService,
	dashboardSvc *service.DashboardService,
	exportSvc *service.ExportService,
) *Handlers {
	return &Handlers{
		Supplier:    NewSupplierHandler(supplierSvc),
		Quotation:   NewQuotationHandler(quotationSvc),
		Comparison:  NewComparisonHandler(comparisonSvc, exportSvc),
		Order:       NewOrderHandler(orderSvc),
		Negotiation: NewNegotiationHandler(negotiationSvc),
		Draft:       NewDraftHandler(draftSvc),
		Dashboard:   NewDashboardHandler(dashboardSvc),
	}
}

// === 响应辅助函数 ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// HandleServiceError 按错误类别映射HTTP响应:
// 校验错误400、状态前置条件409、未找到404、其余500
func HandleServiceError(c *gin.Context, err error, fallback string) {
	var ve *service.ValidationError
	var pe *service.PreconditionError

	switch {
	case errors.As(err, &ve):
		BadRequest(c, ve.Error())
	case errors.As(err, &pe):
		Conflict(c, pe.Error())
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, fallback+": 记录不存在")
	default:
		InternalError(c, fallback+": "+err.Error())
	}
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}

func buildPagination(page, pageSize int, total int64) *Pagination {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      int(total),
		TotalPages: totalPages,
	}
}
