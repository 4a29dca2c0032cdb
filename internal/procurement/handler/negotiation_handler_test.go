package handler

import (
	"net/http"
	"testing"

	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/entity"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/repository"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/service"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/testutil"
	"go.uber.org/zap"
)

func setupNegotiationTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svc := service.NewNegotiationService(repos.Negotiation, repos.Quotation, repos.Supplier, zap.NewNop())
	h := NewNegotiationHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/procurement")
	api.GET("/negotiations", h.ListRounds)
	api.POST("/negotiations", h.CreateRound)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestNegotiationDiscountDerivation(t *testing.T) {
	env := setupNegotiationTest(t)
	token := testutil.DefaultTestToken()

	testutil.SeedSupplier(t, env.DB, "sup-a", "供应商A", nil, false)
	testutil.SeedQuotation(t, env.DB, "q-neg-001", entity.QuotationStatusWaitingProposals)

	body := map[string]interface{}{
		"quotation_id":  "q-neg-001",
		"supplier_id":   "sup-a",
		"initial_total": 1000.0,
		"final_total":   850.0,
		"arguments":     "量大优惠",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/negotiations", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["discount_pct"].(float64) != 15.0 {
		t.Errorf("1000→850: expected discount 15.0, got %v", data["discount_pct"])
	}
	if data["round_number"].(float64) != 1 {
		t.Errorf("first round should be 1, got %v", data["round_number"])
	}
}

func TestNegotiationRoundNumbering(t *testing.T) {
	env := setupNegotiationTest(t)
	token := testutil.DefaultTestToken()

	testutil.SeedSupplier(t, env.DB, "sup-a", "供应商A", nil, false)
	testutil.SeedSupplier(t, env.DB, "sup-b", "供应商B", nil, false)
	testutil.SeedQuotation(t, env.DB, "q-neg-002", entity.QuotationStatusWaitingProposals)

	post := func(supplierID string, initial, final float64) map[string]interface{} {
		w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/negotiations",
			map[string]interface{}{
				"quotation_id":  "q-neg-002",
				"supplier_id":   supplierID,
				"initial_total": initial,
				"final_total":   final,
			}, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		return testutil.ParseResponse(w)["data"].(map[string]interface{})
	}

	// 轮次号按 (询价单, 供应商) 独立递增
	r1 := post("sup-a", 1000, 950)
	r2 := post("sup-a", 950, 900)
	r3 := post("sup-b", 500, 480)

	if r1["round_number"].(float64) != 1 || r2["round_number"].(float64) != 2 {
		t.Errorf("supplier A rounds: expected 1 then 2, got %v / %v", r1["round_number"], r2["round_number"])
	}
	if r3["round_number"].(float64) != 1 {
		t.Errorf("supplier B first round should be 1, got %v", r3["round_number"])
	}
}

func TestNegotiationNegativeDiscountRecorded(t *testing.T) {
	env := setupNegotiationTest(t)
	token := testutil.DefaultTestToken()

	testutil.SeedSupplier(t, env.DB, "sup-a", "供应商A", nil, false)

	// 最终金额高于初始金额: 照常记录负折扣，不拒绝
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/negotiations",
		map[string]interface{}{
			"supplier_id":            "sup-a",
			"initial_total":          800.0,
			"final_total":            900.0,
			"supplier_justification": "原材料涨价",
		}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for price increase, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["discount_pct"].(float64) != -12.5 {
		t.Errorf("800→900: expected discount -12.5, got %v", data["discount_pct"])
	}
}

func TestNegotiationStats(t *testing.T) {
	env := setupNegotiationTest(t)
	token := testutil.DefaultTestToken()

	testutil.SeedSupplier(t, env.DB, "sup-a", "供应商A", nil, false)
	testutil.SeedQuotation(t, env.DB, "q-neg-003", entity.QuotationStatusWaitingProposals)

	for _, amounts := range [][2]float64{{1000, 850}, {850, 800}} {
		w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/negotiations",
			map[string]interface{}{
				"quotation_id":  "q-neg-003",
				"supplier_id":   "sup-a",
				"initial_total": amounts[0],
				"final_total":   amounts[1],
			}, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	}

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/procurement/negotiations?quotation_id=q-neg-003", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	stats := data["stats"].(map[string]interface{})

	if stats["round_count"].(float64) != 2 {
		t.Errorf("expected 2 rounds, got %v", stats["round_count"])
	}
	// 总节省 = 150 + 50
	if stats["total_savings"].(float64) != 200 {
		t.Errorf("expected total savings 200, got %v", stats["total_savings"])
	}
	// 平均折扣 = (15.0 + 5.88) / 2 = 10.44
	if stats["avg_discount_pct"].(float64) != 10.44 {
		t.Errorf("expected avg discount 10.44, got %v", stats["avg_discount_pct"])
	}
}

func TestNegotiationValidation(t *testing.T) {
	env := setupNegotiationTest(t)
	token := testutil.DefaultTestToken()

	// 供应商不存在
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/negotiations",
		map[string]interface{}{"supplier_id": "missing", "initial_total": 100.0, "final_total": 90.0}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown supplier, got %d", w.Code)
	}

	// 初始金额必须为正
	testutil.SeedSupplier(t, env.DB, "sup-a", "供应商A", nil, false)
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/negotiations",
		map[string]interface{}{"supplier_id": "sup-a", "initial_total": -10.0, "final_total": 5.0}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-positive initial total, got %d", w.Code)
	}
}
