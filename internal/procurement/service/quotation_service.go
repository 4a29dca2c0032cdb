package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/entity"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/repository"
	"go.uber.org/zap"
)

// QuotationService 询价单服务
type QuotationService struct {
	quotationRepo   *repository.QuotationRepository
	proposalRepo    *repository.ProposalRepository
	supplierRepo    *repository.SupplierRepository
	activityLogRepo *repository.ActivityLogRepository
	logger          *zap.Logger

	// 重新打开已定案询价单的业务策略，默认关闭
	allowReopen bool
}

func NewQuotationService(
	quotationRepo *repository.QuotationRepository,
	proposalRepo *repository.ProposalRepository,
	supplierRepo *repository.SupplierRepository,
	activityLogRepo *repository.ActivityLogRepository,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		quotationRepo:   quotationRepo,
		proposalRepo:    proposalRepo,
		supplierRepo:    supplierRepo,
		activityLogRepo: activityLogRepo,
		logger:          logger,
	}
}

// SetAllowReopen 配置重开策略
func (s *QuotationService) SetAllowReopen(allow bool) {
	s.allowReopen = allow
}

// === 询价单 ===

// List 获取询价单列表
func (s *QuotationService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Quotation, int64, error) {
	return s.quotationRepo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取询价单详情
func (s *QuotationService) Get(ctx context.Context, id string) (*entity.Quotation, error) {
	return s.quotationRepo.FindByID(ctx, id)
}

// CreateQuotationRequest 创建询价单请求
type CreateQuotationRequest struct {
	Title          string                `json:"title" binding:"required"`
	DueDate        *time.Time            `json:"due_date"`
	Urgency        string                `json:"urgency"`
	Purpose        string                `json:"purpose" binding:"required"`
	ServiceOrderID *string               `json:"service_order_id"`
	BudgetID       *string               `json:"budget_id"`
	Notes          string                `json:"notes"`
	Items          []CreateQuotationItem `json:"items"`
}

type CreateQuotationItem struct {
	PartID             *string  `json:"part_id"`
	Name               string   `json:"name" binding:"required"`
	Code               string   `json:"code"`
	Specification      string   `json:"specification"`
	Quantity           float64  `json:"quantity" binding:"required"`
	Unit               string   `json:"unit"`
	InvitedSupplierIDs []string `json:"invited_supplier_ids"`
	Notes              string   `json:"notes"`
}

// Create 创建询价单
func (s *QuotationService) Create(ctx context.Context, userID string, req *CreateQuotationRequest) (*entity.Quotation, error) {
	if req.DueDate == nil {
		return nil, validationErr("due_date", "截止日期必填")
	}
	if req.Purpose != entity.PurposeStock && req.Purpose != entity.PurposeBudget {
		return nil, validationErr("purpose", "采购目的必须为 stock 或 budget")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, validationErr("items", "行项数量必须大于0: "+item.Name)
		}
	}

	code, err := s.quotationRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("生成询价单编码失败: %w", err)
	}

	q := &entity.Quotation{
		ID:             uuid.New().String()[:32],
		Code:           code,
		Title:          req.Title,
		DueDate:        req.DueDate,
		Urgency:        req.Urgency,
		Purpose:        req.Purpose,
		Status:         entity.QuotationStatusDraft,
		ServiceOrderID: req.ServiceOrderID,
		BudgetID:       req.BudgetID,
		CreatedBy:      userID,
		Notes:          req.Notes,
	}
	if q.Urgency == "" {
		q.Urgency = entity.UrgencyNormal
	}

	for i, item := range req.Items {
		unit := item.Unit
		if unit == "" {
			unit = "pcs"
		}
		q.Items = append(q.Items, entity.QuotationItem{
			ID:                 uuid.New().String()[:32],
			QuotationID:        q.ID,
			PartID:             item.PartID,
			Name:               item.Name,
			Code:               item.Code,
			Specification:      item.Specification,
			Quantity:           item.Quantity,
			Unit:               unit,
			InvitedSupplierIDs: item.InvitedSupplierIDs,
			Notes:              item.Notes,
			SortOrder:          i + 1,
		})
	}

	if err := s.quotationRepo.Create(ctx, q); err != nil {
		return nil, err
	}

	s.activityLogRepo.LogActivity(ctx, "quotation", q.ID, q.Code, "create", "", q.Status, "", userID)
	return q, nil
}

// UpdateQuotationRequest 更新询价单请求
type UpdateQuotationRequest struct {
	Title   *string    `json:"title"`
	DueDate *time.Time `json:"due_date"`
	Urgency *string    `json:"urgency"`
	Notes   *string    `json:"notes"`
}

// Update 更新询价单头信息
func (s *QuotationService) Update(ctx context.Context, id string, req *UpdateQuotationRequest) (*entity.Quotation, error) {
	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.IsQuotationEditable(q.Status) {
		return nil, preconditionErr("当前状态不允许编辑: " + q.Status)
	}

	if req.Title != nil {
		q.Title = *req.Title
	}
	if req.DueDate != nil {
		q.DueDate = req.DueDate
	}
	if req.Urgency != nil {
		q.Urgency = *req.Urgency
	}
	if req.Notes != nil {
		q.Notes = *req.Notes
	}

	if err := s.quotationRepo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// ChangeStatus 流转询价单状态
func (s *QuotationService) ChangeStatus(ctx context.Context, id, toStatus, userID string) (*entity.Quotation, error) {
	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !entity.CanTransitionQuotation(q.Status, toStatus) {
		return nil, preconditionErr(fmt.Sprintf("不允许的状态流转: %s → %s", q.Status, toStatus))
	}

	fromStatus := q.Status
	if err := s.quotationRepo.UpdateStatus(ctx, id, toStatus); err != nil {
		return nil, err
	}
	q.Status = toStatus

	s.activityLogRepo.LogActivity(ctx, "quotation", q.ID, q.Code, "status_change", fromStatus, toStatus, "", userID)
	return q, nil
}

// Reopen 重新打开已定案询价单（业务策略，默认关闭）
// 允许 responded/rejected 回到 waiting_proposals
func (s *QuotationService) Reopen(ctx context.Context, id, userID string) (*entity.Quotation, error) {
	if !s.allowReopen {
		return nil, preconditionErr("重新打开询价单未启用")
	}

	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch q.Status {
	case entity.QuotationStatusResponded, entity.QuotationStatusRejected:
	default:
		return nil, preconditionErr("当前状态不允许重新打开: " + q.Status)
	}

	fromStatus := q.Status
	if err := s.quotationRepo.UpdateStatus(ctx, id, entity.QuotationStatusWaitingProposals); err != nil {
		return nil, err
	}
	q.Status = entity.QuotationStatusWaitingProposals

	s.logger.Warn("询价单被重新打开",
		zap.String("quotation_id", id),
		zap.String("from_status", fromStatus),
		zap.String("operator", userID),
	)
	s.activityLogRepo.LogActivity(ctx, "quotation", q.ID, q.Code, "reopen", fromStatus, q.Status, "", userID)
	return q, nil
}

// ListActivities 查询询价单操作日志
func (s *QuotationService) ListActivities(ctx context.Context, id string, page, pageSize int) ([]entity.ActivityLog, int64, error) {
	if _, err := s.quotationRepo.FindByID(ctx, id); err != nil {
		return nil, 0, err
	}
	return s.activityLogRepo.FindByEntity(ctx, "quotation", id, page, pageSize)
}

// === 行项 ===

// AddItem 追加询价行项
func (s *QuotationService) AddItem(ctx context.Context, quotationID string, req *CreateQuotationItem) (*entity.QuotationItem, error) {
	q, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if !entity.IsQuotationEditable(q.Status) {
		return nil, preconditionErr("当前状态不允许编辑行项: " + q.Status)
	}
	if req.Quantity <= 0 {
		return nil, validationErr("quantity", "数量必须大于0")
	}

	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}
	item := &entity.QuotationItem{
		ID:                 uuid.New().String()[:32],
		QuotationID:        quotationID,
		PartID:             req.PartID,
		Name:               req.Name,
		Code:               req.Code,
		Specification:      req.Specification,
		Quantity:           req.Quantity,
		Unit:               unit,
		InvitedSupplierIDs: req.InvitedSupplierIDs,
		Notes:              req.Notes,
		SortOrder:          len(q.Items) + 1,
	}

	if err := s.quotationRepo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItemRequest 更新行项请求
type UpdateItemRequest struct {
	Name               *string   `json:"name"`
	Code               *string   `json:"code"`
	Specification      *string   `json:"specification"`
	Quantity           *float64  `json:"quantity"`
	Unit               *string   `json:"unit"`
	InvitedSupplierIDs *[]string `json:"invited_supplier_ids"`
	Notes              *string   `json:"notes"`
}

// UpdateItem 更新询价行项
func (s *QuotationService) UpdateItem(ctx context.Context, quotationID, itemID string, req *UpdateItemRequest) (*entity.QuotationItem, error) {
	q, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if !entity.IsQuotationEditable(q.Status) {
		return nil, preconditionErr("当前状态不允许编辑行项: " + q.Status)
	}

	item, err := s.quotationRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.QuotationID != quotationID {
		return nil, validationErr("item_id", "行项不属于该询价单")
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Code != nil {
		item.Code = *req.Code
	}
	if req.Specification != nil {
		item.Specification = *req.Specification
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, validationErr("quantity", "数量必须大于0")
		}
		item.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.InvitedSupplierIDs != nil {
		item.InvitedSupplierIDs = *req.InvitedSupplierIDs
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}

	if err := s.quotationRepo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem 删除询价行项（级联删除报价）
func (s *QuotationService) DeleteItem(ctx context.Context, quotationID, itemID string) error {
	q, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return err
	}
	if !entity.IsQuotationEditable(q.Status) {
		return preconditionErr("当前状态不允许删除行项: " + q.Status)
	}

	item, err := s.quotationRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.QuotationID != quotationID {
		return validationErr("item_id", "行项不属于该询价单")
	}

	return s.quotationRepo.DeleteItem(ctx, itemID)
}

// === 供应商报价 ===

// RegisterProposalRequest 登记供应商报价请求
type RegisterProposalRequest struct {
	SupplierID    string  `json:"supplier_id" binding:"required"`
	UnitPrice     float64 `json:"unit_price"`
	LeadTimeDays  int     `json:"lead_time_days"`
	PaymentTerms  string  `json:"payment_terms"`
	Specification string  `json:"specification"`
	ContactName   string  `json:"contact_name"`
}

// RegisterProposal 登记供应商报价；同 (行项, 供应商) 已有报价则更新
func (s *QuotationService) RegisterProposal(ctx context.Context, quotationID, itemID string, req *RegisterProposalRequest) (*entity.QuotationProposal, error) {
	q, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if !entity.IsQuotationEditable(q.Status) {
		return nil, preconditionErr("当前状态不允许登记报价: " + q.Status)
	}

	item, err := s.quotationRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.QuotationID != quotationID {
		return nil, validationErr("item_id", "行项不属于该询价单")
	}

	if req.UnitPrice < 0 {
		return nil, validationErr("unit_price", "单价不能为负")
	}
	if req.LeadTimeDays < 0 {
		return nil, validationErr("lead_time_days", "交期不能为负")
	}
	if _, err := s.supplierRepo.FindByID(ctx, req.SupplierID); err != nil {
		return nil, validationErr("supplier_id", "供应商不存在")
	}

	existing, err := s.proposalRepo.FindByItemAndSupplier(ctx, itemID, req.SupplierID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.UnitPrice = req.UnitPrice
		existing.LeadTimeDays = req.LeadTimeDays
		existing.PaymentTerms = req.PaymentTerms
		existing.Specification = req.Specification
		existing.ContactName = req.ContactName
		if err := s.proposalRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	p := &entity.QuotationProposal{
		ID:            uuid.New().String()[:32],
		ItemID:        itemID,
		SupplierID:    req.SupplierID,
		UnitPrice:     req.UnitPrice,
		LeadTimeDays:  req.LeadTimeDays,
		PaymentTerms:  req.PaymentTerms,
		Specification: req.Specification,
		ContactName:   req.ContactName,
	}
	if err := s.proposalRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RetractProposal 撤回供应商报价
func (s *QuotationService) RetractProposal(ctx context.Context, quotationID, itemID, proposalID string) error {
	q, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return err
	}
	if !entity.IsQuotationEditable(q.Status) {
		return preconditionErr("当前状态不允许撤回报价: " + q.Status)
	}

	p, err := s.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		return err
	}
	if p.ItemID != itemID {
		return validationErr("proposal_id", "报价不属于该行项")
	}

	return s.proposalRepo.Delete(ctx, proposalID)
}
