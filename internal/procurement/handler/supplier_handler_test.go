package handler

import (
	"net/http"
	"testing"

	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/entity"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/repository"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/service"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/testutil"
)

func setupSupplierTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svc := service.NewSupplierService(repos.Supplier, repos.ActivityLog)
	h := NewSupplierHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/procurement")
	api.GET("/suppliers", h.ListSuppliers)
	api.POST("/suppliers", h.CreateSupplier)
	api.GET("/suppliers/:id", h.GetSupplier)
	api.PUT("/suppliers/:id", h.UpdateSupplier)
	api.POST("/suppliers/:id/contacts", h.AddContact)
	api.DELETE("/suppliers/:id/contacts/:contactId", h.RemoveContact)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestSupplierCreateAndGet(t *testing.T) {
	env := setupSupplierTest(t)
	token := testutil.DefaultTestToken()

	body := map[string]interface{}{
		"name":          "福米根发动机配件",
		"category":      "parts",
		"rating":        4.0,
		"is_preferred":  true,
		"city":          "Formiga",
		"state":         "MG",
		"payment_terms": "30天月结",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/suppliers", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["status"] != entity.SupplierStatusActive {
		t.Errorf("new supplier should be active, got %v", data["status"])
	}
	if data["code"] == "" {
		t.Error("supplier code should be generated")
	}

	id := data["id"].(string)
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/procurement/suppliers/"+id, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestSupplierValidation(t *testing.T) {
	env := setupSupplierTest(t)
	token := testutil.DefaultTestToken()

	// 非法分类
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/suppliers",
		map[string]interface{}{"name": "X", "category": "unknown"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid category, got %d", w.Code)
	}

	// 评级越界
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/suppliers",
		map[string]interface{}{"name": "X", "category": "parts", "rating": 6.0}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for rating above 5, got %d", w.Code)
	}
}

func TestSupplierContacts(t *testing.T) {
	env := setupSupplierTest(t)
	token := testutil.DefaultTestToken()

	testutil.SeedSupplier(t, env.DB, "sup-c-001", "联系人测试供应商", nil, false)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/suppliers/sup-c-001/contacts",
		map[string]interface{}{"name": "张三", "phone": "13800000000", "is_primary": true}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	contactID := resp["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(env.Router, http.MethodDelete,
		"/api/v1/procurement/suppliers/sup-c-001/contacts/"+contactID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// 不属于该供应商的联系人 → 404
	w = testutil.DoRequest(env.Router, http.MethodDelete,
		"/api/v1/procurement/suppliers/sup-c-001/contacts/nonexistent", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestSupplierStatusUpdate(t *testing.T) {
	env := setupSupplierTest(t)
	token := testutil.DefaultTestToken()

	testutil.SeedSupplier(t, env.DB, "sup-s-001", "状态测试供应商", nil, false)

	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/procurement/suppliers/sup-s-001",
		map[string]interface{}{"status": entity.SupplierStatusBlacklisted}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var supplier entity.Supplier
	env.DB.Where("id = ?", "sup-s-001").First(&supplier)
	if supplier.Status != entity.SupplierStatusBlacklisted {
		t.Errorf("expected blacklisted, got %s", supplier.Status)
	}

	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/procurement/suppliers/sup-s-001",
		map[string]interface{}{"status": "bogus"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid status, got %d", w.Code)
	}
}
