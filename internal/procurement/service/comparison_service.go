package service

import (
	"context"
	"strings"

	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/entity"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/repository"
	"gorm.io/gorm"
)

// ComparisonService 报价比较与中标选择
type ComparisonService struct {
	quotationRepo   *repository.QuotationRepository
	proposalRepo    *repository.ProposalRepository
	supplierRepo    *repository.SupplierRepository
	activityLogRepo *repository.ActivityLogRepository
	db              *gorm.DB
}

func NewComparisonService(
	quotationRepo *repository.QuotationRepository,
	proposalRepo *repository.ProposalRepository,
	supplierRepo *repository.SupplierRepository,
	activityLogRepo *repository.ActivityLogRepository,
	db *gorm.DB,
) *ComparisonService {
	return &ComparisonService{
		quotationRepo:   quotationRepo,
		proposalRepo:    proposalRepo,
		supplierRepo:    supplierRepo,
		activityLogRepo: activityLogRepo,
		db:              db,
	}
}

// ItemComparison 单个行项的比较结果
type ItemComparison struct {
	Item                  entity.QuotationItem `json:"item"`
	Proposals             []ScoredProposal     `json:"proposals"`
	RecommendedProposalID string               `json:"recommended_proposal_id,omitempty"`
	HasSelection          bool                 `json:"has_selection"`
}

// QuotationComparison 询价单比较视图
type QuotationComparison struct {
	Quotation   entity.Quotation `json:"quotation"`
	Items       []ItemComparison `json:"items"`
	AllSelected bool             `json:"all_selected"`
}

// BuildComparison 构建询价单比较视图（纯读）
// 零行项时 all_selected 恒为 false，不视为完成
func (s *ComparisonService) BuildComparison(ctx context.Context, quotationID string) (*QuotationComparison, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	result := &QuotationComparison{
		Quotation: *quotation,
		Items:     make([]ItemComparison, 0, len(quotation.Items)),
	}

	allSelected := len(quotation.Items) > 0
	for _, item := range quotation.Items {
		scored := ScoreProposals(item.Proposals, nil)
		SortScored(scored)

		ic := ItemComparison{
			Item:      item,
			Proposals: scored,
		}
		ic.Item.Proposals = nil

		if len(scored) > 0 {
			ic.RecommendedProposalID = scored[0].Proposal.ID
		}
		for _, p := range item.Proposals {
			if p.IsSelected {
				ic.HasSelection = true
				break
			}
		}
		if !ic.HasSelection {
			allSelected = false
		}

		result.Items = append(result.Items, ic)
	}
	result.AllSelected = allSelected

	return result, nil
}

// AllSelected 询价单是否每个行项都有中标报价
func (s *ComparisonService) AllSelected(ctx context.Context, quotationID string) (bool, error) {
	comparison, err := s.BuildComparison(ctx, quotationID)
	if err != nil {
		return false, err
	}
	return comparison.AllSelected, nil
}

// SelectProposal 选定行项的中标报价
// 非最低价中标必须填写理由；重复选择同一报价为幂等成功
func (s *ComparisonService) SelectProposal(ctx context.Context, quotationID, itemID, proposalID, justification, userID string) error {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return err
	}

	switch quotation.Status {
	case entity.QuotationStatusSent, entity.QuotationStatusWaitingProposals, entity.QuotationStatusResponded:
	default:
		return preconditionErr("当前状态不允许选定报价: " + quotation.Status)
	}

	item, err := s.quotationRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.QuotationID != quotationID {
		return validationErr("item_id", "行项不属于该询价单")
	}

	proposals, err := s.proposalRepo.FindByItem(ctx, itemID)
	if err != nil {
		return err
	}
	if len(proposals) == 0 {
		return validationErr("proposal_id", "行项没有任何报价")
	}

	var target *entity.QuotationProposal
	for i := range proposals {
		if proposals[i].ID == proposalID {
			target = &proposals[i]
			break
		}
	}
	if target == nil {
		return validationErr("proposal_id", "报价不属于该行项")
	}

	justification = strings.TrimSpace(justification)
	if target.UnitPrice > lowestPrice(proposals) && justification == "" {
		return validationErr("justification", "选定非最低价报价必须填写理由")
	}

	// 幂等：重复选择已中标报价直接成功
	if target.IsSelected && target.Justification == justification {
		return nil
	}

	// 事务内清旧标记、设新标记，避免两个用户并发选择产生双中标
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.QuotationProposal{}).
			Where("item_id = ? AND id <> ? AND is_selected = true", itemID, proposalID).
			Updates(map[string]interface{}{"is_selected": false, "justification": ""}).Error; err != nil {
			return err
		}
		return tx.Model(&entity.QuotationProposal{}).
			Where("id = ?", proposalID).
			Updates(map[string]interface{}{"is_selected": true, "justification": justification}).Error
	})
	if err != nil {
		return err
	}

	s.activityLogRepo.LogActivity(ctx, "quotation", quotationID, quotation.Code,
		"select_proposal", "", "", "行项 "+item.Name+" 选定供应商 "+target.SupplierID, userID)

	return nil
}
