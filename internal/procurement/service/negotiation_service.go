package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/entity"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/repository"
	"go.uber.org/zap"
)

// NegotiationService 议价历史服务
type NegotiationService struct {
	negotiationRepo *repository.NegotiationRepository
	quotationRepo   *repository.QuotationRepository
	supplierRepo    *repository.SupplierRepository
	logger          *zap.Logger
}

func NewNegotiationService(
	negotiationRepo *repository.NegotiationRepository,
	quotationRepo *repository.QuotationRepository,
	supplierRepo *repository.SupplierRepository,
	logger *zap.Logger,
) *NegotiationService {
	return &NegotiationService{
		negotiationRepo: negotiationRepo,
		quotationRepo:   quotationRepo,
		supplierRepo:    supplierRepo,
		logger:          logger,
	}
}

// CreateRoundRequest 登记议价轮次请求
type CreateRoundRequest struct {
	QuotationID           *string    `json:"quotation_id"`
	SupplierID            string     `json:"supplier_id" binding:"required"`
	InitialTotal          float64    `json:"initial_total" binding:"required"`
	FinalTotal            float64    `json:"final_total"`
	NegotiatedAt          *time.Time `json:"negotiated_at"`
	Arguments             string     `json:"arguments"`
	SupplierJustification string     `json:"supplier_justification"`
	Notes                 string     `json:"notes"`
}

// CreateRound 登记一轮议价，折扣率由初始/最终金额推导
// 最终金额高于初始金额（负折扣）照常记录，只打告警日志
func (s *NegotiationService) CreateRound(ctx context.Context, userID string, req *CreateRoundRequest) (*entity.NegotiationRound, error) {
	if req.InitialTotal <= 0 {
		return nil, validationErr("initial_total", "初始金额必须大于0")
	}
	if req.FinalTotal < 0 {
		return nil, validationErr("final_total", "最终金额不能为负")
	}
	if _, err := s.supplierRepo.FindByID(ctx, req.SupplierID); err != nil {
		return nil, validationErr("supplier_id", "供应商不存在")
	}
	if req.QuotationID != nil {
		if _, err := s.quotationRepo.FindByID(ctx, *req.QuotationID); err != nil {
			return nil, validationErr("quotation_id", "询价单不存在")
		}
	}

	discount := (req.InitialTotal - req.FinalTotal) / req.InitialTotal * 100
	discount = math.Round(discount*100) / 100

	negotiatedAt := req.NegotiatedAt
	if negotiatedAt == nil {
		now := time.Now()
		negotiatedAt = &now
	}

	round := &entity.NegotiationRound{
		ID:                    uuid.New().String()[:32],
		QuotationID:           req.QuotationID,
		SupplierID:            req.SupplierID,
		InitialTotal:          req.InitialTotal,
		FinalTotal:            req.FinalTotal,
		DiscountPct:           discount,
		NegotiatedAt:          negotiatedAt,
		Arguments:             req.Arguments,
		SupplierJustification: req.SupplierJustification,
		Notes:                 req.Notes,
		CreatedBy:             userID,
	}

	if err := s.negotiationRepo.Create(ctx, round); err != nil {
		return nil, err
	}

	if discount < 0 {
		s.logger.Warn("议价最终金额高于初始金额",
			zap.String("round_id", round.ID),
			zap.String("supplier_id", round.SupplierID),
			zap.Float64("discount_pct", discount),
		)
	}
	return round, nil
}

// NegotiationStats 议价汇总统计
type NegotiationStats struct {
	RoundCount     int     `json:"round_count"`
	AvgDiscountPct float64 `json:"avg_discount_pct"`
	TotalSavings   float64 `json:"total_savings"`
}

// ListRounds 查询议价轮次及汇总统计
func (s *NegotiationService) ListRounds(ctx context.Context, filters map[string]string) ([]entity.NegotiationRound, *NegotiationStats, error) {
	rounds, err := s.negotiationRepo.FindAll(ctx, filters)
	if err != nil {
		return nil, nil, err
	}

	stats := &NegotiationStats{RoundCount: len(rounds)}
	if len(rounds) > 0 {
		var sumDiscount float64
		for _, r := range rounds {
			sumDiscount += r.DiscountPct
			stats.TotalSavings += r.Savings()
		}
		stats.AvgDiscountPct = math.Round(sumDiscount/float64(len(rounds))*100) / 100
	}

	return rounds, stats, nil
}
