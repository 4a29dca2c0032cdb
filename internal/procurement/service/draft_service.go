package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/entity"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/repository"
	"github.com/redis/go-redis/v9"
)

// DraftService 询价单草稿暂存（redis，按用户隔离，24小时过期）
type DraftService struct {
	rdb              *redis.Client
	quotationService *QuotationService
}

const (
	draftKeyPrefix = "procurement:quotation_draft:"
	draftTTL       = 24 * time.Hour
)

func NewDraftService(rdb *redis.Client, quotationService *QuotationService) *DraftService {
	return &DraftService{rdb: rdb, quotationService: quotationService}
}

func draftKey(userID string) string {
	return draftKeyPrefix + userID
}

// Save 保存草稿，覆盖同用户已有草稿并刷新过期时间
func (s *DraftService) Save(ctx context.Context, userID string, req *CreateQuotationRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, draftKey(userID), data, draftTTL).Err()
}

// Get 读取草稿；无草稿返回 ErrNotFound
func (s *DraftService) Get(ctx context.Context, userID string) (*CreateQuotationRequest, error) {
	data, err := s.rdb.Get(ctx, draftKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var req CreateQuotationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Discard 丢弃草稿
func (s *DraftService) Discard(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, draftKey(userID)).Err()
}

// Commit 将草稿正式创建为询价单，成功后删除草稿
func (s *DraftService) Commit(ctx context.Context, userID string) (*entity.Quotation, error) {
	req, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	quotation, err := s.quotationService.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	// 草稿删除失败不影响已创建的询价单
	s.rdb.Del(ctx, draftKey(userID))
	return quotation, nil
}
