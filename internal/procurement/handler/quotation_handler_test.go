package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/entity"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/repository"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/service"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/testutil"
	"go.uber.org/zap"
)

func setupQuotationTest(t *testing.T, allowReopen bool) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svc := service.NewQuotationService(repos.Quotation, repos.Proposal, repos.Supplier, repos.ActivityLog, zap.NewNop())
	svc.SetAllowReopen(allowReopen)
	h := NewQuotationHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/procurement")
	api.GET("/quotations", h.ListQuotations)
	api.POST("/quotations", h.CreateQuotation)
	api.GET("/quotations/:id", h.GetQuotation)
	api.PUT("/quotations/:id", h.UpdateQuotation)
	api.POST("/quotations/:id/status", h.ChangeStatus)
	api.POST("/quotations/:id/reopen", h.ReopenQuotation)
	api.POST("/quotations/:id/items", h.AddItem)
	api.PUT("/quotations/:id/items/:itemId", h.UpdateItem)
	api.DELETE("/quotations/:id/items/:itemId", h.DeleteItem)
	api.POST("/quotations/:id/items/:itemId/proposals", h.RegisterProposal)
	api.DELETE("/quotations/:id/items/:itemId/proposals/:proposalId", h.RetractProposal)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestQuotationCreateWithItems(t *testing.T) {
	env := setupQuotationTest(t, false)
	token := testutil.DefaultTestToken()

	due := time.Now().Add(7 * 24 * time.Hour).Format(time.RFC3339)
	body := map[string]interface{}{
		"title":    "发动机大修配件询价",
		"due_date": due,
		"urgency":  "high",
		"purpose":  "stock",
		"items": []map[string]interface{}{
			{"name": "曲轴轴瓦", "quantity": 10, "unit": "pcs"},
			{"name": "活塞环", "quantity": 8},
		},
	}

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/quotations", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["status"] != entity.QuotationStatusDraft {
		t.Errorf("new quotation should start as draft, got %v", data["status"])
	}
	if data["code"] == "" {
		t.Error("quotation code should be generated")
	}

	items := data["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	second := items[1].(map[string]interface{})
	if second["unit"] != "pcs" {
		t.Errorf("unit should default to pcs, got %v", second["unit"])
	}
}

func TestQuotationCreateValidation(t *testing.T) {
	env := setupQuotationTest(t, false)
	token := testutil.DefaultTestToken()

	// 缺少截止日期
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/quotations",
		map[string]interface{}{"title": "无截止日期", "purpose": "stock"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without due_date, got %d", w.Code)
	}

	// 非法采购目的
	due := time.Now().Add(24 * time.Hour).Format(time.RFC3339)
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/quotations",
		map[string]interface{}{"title": "目的非法", "due_date": due, "purpose": "whatever"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid purpose, got %d", w.Code)
	}

	// 数量为零的行项
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/quotations",
		map[string]interface{}{
			"title": "零数量", "due_date": due, "purpose": "stock",
			"items": []map[string]interface{}{{"name": "缸垫", "quantity": 0}},
		}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", w.Code)
	}
}

func TestQuotationStatusTransitions(t *testing.T) {
	env := setupQuotationTest(t, false)
	token := testutil.DefaultTestToken()

	// draft → cancelled 合法
	testutil.SeedQuotation(t, env.DB, "q-st-001", entity.QuotationStatusDraft)
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/quotations/q-st-001/status",
		map[string]interface{}{"status": entity.QuotationStatusCancelled}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("draft→cancelled: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// approved → sent 非法
	testutil.SeedQuotation(t, env.DB, "q-st-002", entity.QuotationStatusApproved)
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/quotations/q-st-002/status",
		map[string]interface{}{"status": entity.QuotationStatusSent}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("approved→sent: expected 409, got %d", w.Code)
	}

	// rejected 为终态
	testutil.SeedQuotation(t, env.DB, "q-st-003", entity.QuotationStatusRejected)
	for _, to := range []string{entity.QuotationStatusSent, entity.QuotationStatusApproved, entity.QuotationStatusCancelled} {
		w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/quotations/q-st-003/status",
			map[string]interface{}{"status": to}, token)
		if w.Code != http.StatusConflict {
			t.Fatalf("rejected→%s: expected 409, got %d", to, w.Code)
		}
	}
}

func TestQuotationEditGate(t *testing.T) {
	env := setupQuotationTest(t, false)
	token := testutil.DefaultTestToken()

	testutil.SeedQuotation(t, env.DB, "q-frozen-001", entity.QuotationStatusResponded)

	// responded 状态不允许追加行项
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/quotations/q-frozen-001/items",
		map[string]interface{}{"name": "凸轮轴", "quantity": 1}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 adding item to responded quotation, got %d: %s", w.Code, w.Body.String())
	}

	// 也不允许更新头信息
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/procurement/quotations/q-frozen-001",
		map[string]interface{}{"title": "改名"}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 updating responded quotation, got %d", w.Code)
	}
}

func TestProposalRegisterUpsert(t *testing.T) {
	env := setupQuotationTest(t, false)
	token := testutil.DefaultTestToken()

	testutil.SeedSupplier(t, env.DB, "sup-a", "供应商A", nil, false)
	testutil.SeedQuotation(t, env.DB, "q-prop-001", entity.QuotationStatusWaitingProposals)
	testutil.SeedQuotationItem(t, env.DB, "item-prop-001", "q-prop-001", "气门导管", 16)

	// 首次登记
	w := testutil.DoRequest(env.Router, http.MethodPost,
		"/api/v1/procurement/quotations/q-prop-001/items/item-prop-001/proposals",
		map[string]interface{}{"supplier_id": "sup-a", "unit_price": 2.50, "lead_time_days": 10}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// 同供应商再次登记 → 更新而非新增
	w = testutil.DoRequest(env.Router, http.MethodPost,
		"/api/v1/procurement/quotations/q-prop-001/items/item-prop-001/proposals",
		map[string]interface{}{"supplier_id": "sup-a", "unit_price": 2.30, "lead_time_days": 8}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 on re-register, got %d", w.Code)
	}

	var proposals []entity.QuotationProposal
	env.DB.Where("item_id = ?", "item-prop-001").Find(&proposals)
	if len(proposals) != 1 {
		t.Fatalf("expected 1 proposal per (item, supplier), got %d", len(proposals))
	}
	if proposals[0].UnitPrice != 2.30 || proposals[0].LeadTimeDays != 8 {
		t.Errorf("proposal should hold latest values, got %v / %d", proposals[0].UnitPrice, proposals[0].LeadTimeDays)
	}

	// 负单价被拒绝
	w = testutil.DoRequest(env.Router, http.MethodPost,
		"/api/v1/procurement/quotations/q-prop-001/items/item-prop-001/proposals",
		map[string]interface{}{"supplier_id": "sup-a", "unit_price": -1.0}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative price, got %d", w.Code)
	}
}

func TestQuotationReopenPolicy(t *testing.T) {
	// 默认关闭
	env := setupQuotationTest(t, false)
	token := testutil.DefaultTestToken()

	testutil.SeedQuotation(t, env.DB, "q-ro-001", entity.QuotationStatusResponded)
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/quotations/q-ro-001/reopen", nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("reopen disabled: expected 409, got %d", w.Code)
	}

	// 开启后 responded → waiting_proposals
	env2 := setupQuotationTest(t, true)
	testutil.SeedQuotation(t, env2.DB, "q-ro-002", entity.QuotationStatusResponded)
	w = testutil.DoRequest(env2.Router, http.MethodPost, "/api/v1/procurement/quotations/q-ro-002/reopen", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("reopen enabled: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var q entity.Quotation
	env2.DB.Where("id = ?", "q-ro-002").First(&q)
	if q.Status != entity.QuotationStatusWaitingProposals {
		t.Errorf("expected waiting_proposals after reopen, got %s", q.Status)
	}

	// 终态 cancelled 不可重开
	testutil.SeedQuotation(t, env2.DB, "q-ro-003", entity.QuotationStatusCancelled)
	w = testutil.DoRequest(env2.Router, http.MethodPost, "/api/v1/procurement/quotations/q-ro-003/reopen", nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("reopen cancelled: expected 409, got %d", w.Code)
	}
}

func TestItemDeleteCascadesProposals(t *testing.T) {
	env := setupQuotationTest(t, false)
	token := testutil.DefaultTestToken()

	testutil.SeedSupplier(t, env.DB, "sup-a", "供应商A", nil, false)
	testutil.SeedQuotation(t, env.DB, "q-del-001", entity.QuotationStatusDraft)
	testutil.SeedQuotationItem(t, env.DB, "item-del-001", "q-del-001", "油封", 20)
	testutil.SeedProposal(t, env.DB, "prop-del-001", "item-del-001", "sup-a", 1.20, 3)

	w := testutil.DoRequest(env.Router, http.MethodDelete,
		"/api/v1/procurement/quotations/q-del-001/items/item-del-001", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	env.DB.Model(&entity.QuotationProposal{}).Where("item_id = ?", "item-del-001").Count(&count)
	if count != 0 {
		t.Fatalf("proposals should cascade on item delete, got %d remaining", count)
	}
}
