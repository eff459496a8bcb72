package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pos-service/internal/auth"
	"pos-service/internal/models"
	"pos-service/internal/service"
	"pos-service/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemory()
	gate := auth.NewGate([]auth.Credential{
		{Email: "staff@gmail.com", Password: "staff123"},
	}, auth.NewMemorySessions(), time.Hour)

	handler := NewHandler(
		service.NewCatalogService(st),
		service.NewBillingService(st, nil),
		gate,
		time.Hour,
	)

	router := gin.New()
	handler.SetupRoutes(router)
	return router, st
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loginCookie(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/login", gin.H{
		"email":    "staff@gmail.com",
		"password": "staff123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatal("session cookie not set after login")
	return nil
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/login", gin.H{
		"email":    "staff@gmail.com",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/products", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/sales/bulk", gin.H{}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProductLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)
	cookie := loginCookie(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/products", gin.H{
		"name":      "Polo Shirt",
		"category":  "MEN",
		"model":     "classic",
		"size":      "M",
		"costPrice": 60,
		"price":     100,
		"stock":     10,
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	var product models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, "men", product.Category)

	rec = doJSON(t, router, http.MethodGet, "/api/products/"+product.ID, nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/products/"+product.ID, nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/products/"+product.ID, nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProductValidationStatus(t *testing.T) {
	router, _ := newTestRouter(t)
	cookie := loginCookie(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/products", gin.H{
		"name":     "Polo Shirt",
		"category": "accessories",
		"model":    "classic",
		"size":     "M",
		"price":    100,
		"stock":    10,
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkCheckoutAndBillsView(t *testing.T) {
	router, _ := newTestRouter(t)
	cookie := loginCookie(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/products", gin.H{
		"name": "Polo Shirt", "category": "men", "model": "classic",
		"size": "M", "costPrice": 60, "price": 100, "stock": 10,
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	var product models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))

	rec = doJSON(t, router, http.MethodPost, "/api/sales/bulk", gin.H{
		"customerName": "Asha",
		"items": []gin.H{
			{"productId": product.ID, "quantity": 2, "pricePerItem": 100},
			{"productId": product.ID, "quantity": 1, "pricePerItem": 100},
		},
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	var billResp struct {
		BillID string        `json:"billId"`
		Sales  []models.Sale `json:"sales"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &billResp))
	assert.NotEmpty(t, billResp.BillID)
	require.Len(t, billResp.Sales, 2)
	assert.Equal(t, "staff@gmail.com", billResp.Sales[0].CreatedBy)

	rec = doJSON(t, router, http.MethodGet, "/api/bills", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var billsResp struct {
		Bills       []models.Bill `json:"bills"`
		TotalAmount float64       `json:"totalAmount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &billsResp))
	require.Len(t, billsResp.Bills, 1)
	assert.Equal(t, 3, billsResp.Bills[0].TotalQuantity)
	assert.Equal(t, 300.0, billsResp.TotalAmount)
}

func TestBulkCheckoutInsufficientStockStatus(t *testing.T) {
	router, _ := newTestRouter(t)
	cookie := loginCookie(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/products", gin.H{
		"name": "Denim Jacket", "category": "men", "model": "rugged",
		"size": "L", "costPrice": 120, "price": 200, "stock": 2,
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	var product models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))

	rec = doJSON(t, router, http.MethodPost, "/api/sales/bulk", gin.H{
		"items": []gin.H{
			{"productId": product.ID, "quantity": 5, "pricePerItem": 200},
		},
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Denim Jacket")
	assert.Contains(t, rec.Body.String(), "Available: 2")
}

func TestDeleteSaleStatusMapping(t *testing.T) {
	router, _ := newTestRouter(t)
	cookie := loginCookie(t, router)

	rec := doJSON(t, router, http.MethodDelete, "/api/sales/missing", nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/status", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)

	cookie := loginCookie(t, router)
	rec = doJSON(t, router, http.MethodGet, "/api/status", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)
	assert.Contains(t, rec.Body.String(), "staff@gmail.com")
}
