package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/entity"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderService 采购订单服务
type OrderService struct {
	quotationRepo   *repository.QuotationRepository
	poRepo          *repository.PORepository
	supplierRepo    *repository.SupplierRepository
	activityLogRepo *repository.ActivityLogRepository
	db              *gorm.DB
	logger          *zap.Logger
}

func NewOrderService(
	quotationRepo *repository.QuotationRepository,
	poRepo *repository.PORepository,
	supplierRepo *repository.SupplierRepository,
	activityLogRepo *repository.ActivityLogRepository,
	db *gorm.DB,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		quotationRepo:   quotationRepo,
		poRepo:          poRepo,
		supplierRepo:    supplierRepo,
		activityLogRepo: activityLogRepo,
		db:              db,
		logger:          logger,
	}
}

// List 获取采购订单列表
func (s *OrderService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	return s.poRepo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取采购订单详情
func (s *OrderService) Get(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.poRepo.FindByID(ctx, id)
}

// ListByQuotation 查询询价单名下全部采购订单
func (s *OrderService) ListByQuotation(ctx context.Context, quotationID string) ([]entity.PurchaseOrder, error) {
	return s.poRepo.FindByQuotation(ctx, quotationID)
}

// GenerateOrders 从已定案询价单生成采购订单
// 按供应商分组中标报价，每个供应商一张PO；全部校验与写入在
// 同一事务内完成，询价单行加 FOR UPDATE 锁防并发重复生成，
// 并在同事务内将询价单推进到 approved
func (s *OrderService) GenerateOrders(ctx context.Context, quotationID, userID string) ([]entity.PurchaseOrder, error) {
	var generated []entity.PurchaseOrder

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁定询价单行
		var quotation entity.Quotation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", quotationID).
			First(&quotation).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return repository.ErrNotFound
			}
			return err
		}

		if quotation.Status != entity.QuotationStatusResponded && quotation.Status != entity.QuotationStatusApproved {
			return preconditionErr("只有 responded/approved 状态的询价单可以生成采购订单，当前: " + quotation.Status)
		}

		// 一次性生成防重复
		var existing int64
		if err := tx.Model(&entity.PurchaseOrder{}).
			Where("quotation_id = ?", quotationID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return preconditionErr("询价单已生成过采购订单")
		}

		var items []entity.QuotationItem
		if err := tx.Where("quotation_id = ?", quotationID).
			Order("sort_order ASC").
			Preload("Proposals").
			Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return preconditionErr("询价单没有行项，无法生成采购订单")
		}

		// 每个行项必须恰有一个中标报价
		type winner struct {
			item     entity.QuotationItem
			proposal entity.QuotationProposal
		}
		bySupplier := make(map[string][]winner)
		for _, item := range items {
			var selected *entity.QuotationProposal
			for i := range item.Proposals {
				if item.Proposals[i].IsSelected {
					selected = &item.Proposals[i]
					break
				}
			}
			if selected == nil {
				return preconditionErr("行项未选定中标报价: " + item.Name)
			}
			bySupplier[selected.SupplierID] = append(bySupplier[selected.SupplierID], winner{item: item, proposal: *selected})
		}

		// 供应商按ID排序，保证编码分配确定性
		supplierIDs := make([]string, 0, len(bySupplier))
		for supplierID := range bySupplier {
			supplierIDs = append(supplierIDs, supplierID)
		}
		sort.Strings(supplierIDs)

		for _, supplierID := range supplierIDs {
			winners := bySupplier[supplierID]

			code, err := s.poRepo.GenerateCode(ctx, tx)
			if err != nil {
				return fmt.Errorf("生成PO编码失败: %w", err)
			}

			po := entity.PurchaseOrder{
				ID:           uuid.New().String()[:32],
				POCode:       code,
				QuotationID:  quotationID,
				SupplierID:   supplierID,
				Status:       entity.POStatusGenerated,
				PaymentTerms: winners[0].proposal.PaymentTerms,
				CreatedBy:    userID,
			}

			var total float64
			for i, w := range winners {
				itemID := w.item.ID
				proposalID := w.proposal.ID
				lineTotal := w.proposal.TotalPrice(w.item.Quantity)
				total += lineTotal

				po.Items = append(po.Items, entity.POItem{
					ID:              uuid.New().String()[:32],
					POID:            po.ID,
					QuotationItemID: &itemID,
					ProposalID:      &proposalID,
					PartID:          w.item.PartID,
					Name:            w.item.Name,
					Code:            w.item.Code,
					Specification:   w.proposal.Specification,
					Quantity:        w.item.Quantity,
					Unit:            w.item.Unit,
					UnitPrice:       w.proposal.UnitPrice,
					TotalAmount:     lineTotal,
					SortOrder:       i + 1,
				})
			}
			po.TotalAmount = total

			if err := tx.Create(&po).Error; err != nil {
				return err
			}
			generated = append(generated, po)
		}

		// 同事务推进询价单状态
		if err := tx.Model(&entity.Quotation{}).
			Where("id = ?", quotationID).
			Update("status", entity.QuotationStatusApproved).Error; err != nil {
			return err
		}

		s.activityLogRepo.LogActivity(ctx, "quotation", quotationID, quotation.Code,
			"generate_orders", quotation.Status, entity.QuotationStatusApproved,
			fmt.Sprintf("生成 %d 张采购订单", len(generated)), userID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("采购订单生成完成",
		zap.String("quotation_id", quotationID),
		zap.Int("po_count", len(generated)),
	)
	return generated, nil
}

// MarkSent 标记采购订单已发送
func (s *OrderService) MarkSent(ctx context.Context, id, userID string) (*entity.PurchaseOrder, error) {
	return s.changeOrderStatus(ctx, id, entity.POStatusGenerated, entity.POStatusSent, userID)
}

// MarkReceived 标记采购订单已收货
func (s *OrderService) MarkReceived(ctx context.Context, id, userID string) (*entity.PurchaseOrder, error) {
	return s.changeOrderStatus(ctx, id, entity.POStatusSent, entity.POStatusReceived, userID)
}

// Cancel 取消采购订单（已收货不可取消）
func (s *OrderService) Cancel(ctx context.Context, id, userID string) (*entity.PurchaseOrder, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status == entity.POStatusReceived || po.Status == entity.POStatusCancelled {
		return nil, preconditionErr("当前状态不允许取消: " + po.Status)
	}

	fromStatus := po.Status
	po.Status = entity.POStatusCancelled
	if err := s.poRepo.Update(ctx, po); err != nil {
		return nil, err
	}

	s.activityLogRepo.LogActivity(ctx, "purchase_order", po.ID, po.POCode, "status_change", fromStatus, po.Status, "", userID)
	return po, nil
}

func (s *OrderService) changeOrderStatus(ctx context.Context, id, fromStatus, toStatus, userID string) (*entity.PurchaseOrder, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status != fromStatus {
		return nil, preconditionErr(fmt.Sprintf("不允许的状态流转: %s → %s", po.Status, toStatus))
	}

	po.Status = toStatus
	if err := s.poRepo.Update(ctx, po); err != nil {
		return nil, err
	}

	s.activityLogRepo.LogActivity(ctx, "purchase_order", po.ID, po.POCode, "status_change", fromStatus, toStatus, "", userID)
	return po, nil
}
