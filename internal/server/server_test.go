package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	assetuc "github.com/fekuna/accountbook-service/internal/asset/usecase"
	"github.com/fekuna/accountbook-service/internal/auth"
	"github.com/fekuna/accountbook-service/internal/finance"
	importhandler "github.com/fekuna/accountbook-service/internal/importer/handler"
	importuc "github.com/fekuna/accountbook-service/internal/importer/usecase"
	invhandler "github.com/fekuna/accountbook-service/internal/inventory/handler"
	invuc "github.com/fekuna/accountbook-service/internal/inventory/usecase"
	"github.com/fekuna/accountbook-service/internal/pkg/broker"
	"github.com/fekuna/accountbook-service/internal/pkg/cache"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	producthandler "github.com/fekuna/accountbook-service/internal/product/handler"
	productuc "github.com/fekuna/accountbook-service/internal/product/usecase"
	purchasehandler "github.com/fekuna/accountbook-service/internal/purchase/handler"
	purchaseuc "github.com/fekuna/accountbook-service/internal/purchase/usecase"
	saleuc "github.com/fekuna/accountbook-service/internal/sale/usecase"
	"github.com/fekuna/accountbook-service/internal/store/memory"
	"github.com/gin-gonic/gin"
)

type testServer struct {
	router   *gin.Engine
	verifier *auth.TokenVerifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	log := logger.NewNop()
	calendar := finance.NewFYCalendar(4)

	ledger := invuc.NewInventoryUseCase(memory.NewInventoryRepository(store), store, cache.NopLocker(), broker.NopPublisher(), log)
	products := productuc.NewProductUseCase(memory.NewProductRepository(store), ledger, log)
	purchases := purchaseuc.NewPurchaseUseCase(memory.NewPurchaseRepository(store), ledger, calendar, cache.NopStore(), log)
	sales := saleuc.NewSaleUseCase(memory.NewSaleRepository(store), ledger, calendar, cache.NopStore(), log)
	assets := assetuc.NewAssetUseCase(memory.NewAssetRepository(store), cache.NopStore(), log)
	importer := importuc.NewImportUseCase(purchases, sales, assets, 100, log)

	verifier := auth.NewTokenVerifier("test-secret", "")
	router, err := NewRouter(Config{AppEnv: "test"}, verifier, log,
		producthandler.NewProductHandler(products, log),
		invhandler.NewInventoryHandler(ledger, log),
		purchasehandler.NewPurchaseHandler(purchases, log),
		importhandler.NewImportHandler(importer, log),
	)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return &testServer{router: router, verifier: verifier}
}

func (s *testServer) token(t *testing.T, ownerID string) string {
	t.Helper()
	tok, err := s.verifier.Sign(auth.Owner{ID: ownerID, Email: ownerID + "@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return tok
}

// envelope is the {message, data, error, fields} response body.
type envelope struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func (s *testServer) do(t *testing.T, req *http.Request, ownerID string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if ownerID != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(t, ownerID))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var body envelope
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
	}
	return rec, body
}

func (s *testServer) doJSON(t *testing.T, method, path, ownerID string, payload interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req, ownerID)
}

func TestRouter_PublicAndProtected(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.doJSON(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("missing request id header")
	}

	rec, _ = s.doJSON(t, http.MethodGet, "/api/v1/products", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d, want 401", rec.Code)
	}

	rec, _ = s.doJSON(t, http.MethodGet, "/api/v1/nowhere", "owner-1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown route status = %d, want 404", rec.Code)
	}
}

func TestRouter_ProductAndPurchaseFlow(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.doJSON(t, http.MethodPost, "/api/v1/products", "owner-1", map[string]interface{}{"name": "   "})
	if rec.Code != http.StatusBadRequest || body.Fields["Name"] != "notblank" {
		t.Fatalf("blank name = %d %+v, want 400 with notblank", rec.Code, body)
	}

	rec, body = s.doJSON(t, http.MethodPost, "/api/v1/products", "owner-1", map[string]interface{}{"name": "Gown-A", "opening_stock": 4})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product = %d %s", rec.Code, rec.Body.String())
	}
	var product struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body.Data, &product); err != nil || product.ID == "" {
		t.Fatalf("product body = %s, %v", body.Data, err)
	}

	rec, _ = s.doJSON(t, http.MethodPost, "/api/v1/purchases", "owner-1", map[string]interface{}{
		"date": "2024-05-01", "supplier_name": "Surat Textiles", "item_name": "gown-a",
		"quantity": 6, "unit_price": 250, "gst_percentage": 5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create purchase = %d %s", rec.Code, rec.Body.String())
	}

	rec, body = s.doJSON(t, http.MethodGet, "/api/v1/inventory/products/"+product.ID+"/stock", "owner-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stock = %d %s", rec.Code, rec.Body.String())
	}
	var stock struct {
		CurrentStock int `json:"current_stock"`
	}
	if err := json.Unmarshal(body.Data, &stock); err != nil || stock.CurrentStock != 10 {
		t.Fatalf("stock body = %s, %v; want current_stock 10", body.Data, err)
	}

	// Another owner cannot see the product.
	rec, _ = s.doJSON(t, http.MethodGet, "/api/v1/products/"+product.ID, "owner-2", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("other owner status = %d, want 404", rec.Code)
	}
}

func TestRouter_Import(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "purchases.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte("date,supplier_name,category,item_name,quantity,unit_price,gst_percentage\n" +
		"01-04-2024,Surat Textiles,Gowns,Gown-A,2,250,5\n" +
		"31-02-2024,Surat Textiles,Gowns,Gown-A,2,250,5\n"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/purchases", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec, body := s.do(t, req, "owner-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("import = %d %s", rec.Code, rec.Body.String())
	}
	var result struct {
		SuccessCount int `json:"successCount"`
		ErrorCount   int `json:"errorCount"`
		Errors       []struct {
			Row int `json:"row"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.SuccessCount != 1 || result.ErrorCount != 1 || result.Errors[0].Row != 3 {
		t.Fatalf("result = %+v", result)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/import/sales/template", nil)
	rec, _ = s.do(t, req, "owner-1")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Disposition") != "attachment; filename=sales_template.csv" {
		t.Fatalf("template = %d %v", rec.Code, rec.Header())
	}
}
