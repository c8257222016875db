package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonk9218/gomarket/internal/models"
	"github.com/antonk9218/gomarket/pkg/api"
)

func setupProductsHandler(t *testing.T) (*ProductsHandler, *mockProductStorage, *mockCategoryStorage) {
	t.Helper()

	products := newMockProductStorage()
	categories := newMockCategoryStorage()

	return NewProductsHandler(setupTestLogger(), products, categories), products, categories
}

func seedProducts(t *testing.T, products *mockProductStorage, categories *mockCategoryStorage, n int) *models.Category {
	t.Helper()

	ctx := context.Background()
	category := &models.Category{Name: "Books"}
	require.NoError(t, categories.CreateCategory(ctx, category))

	now := time.Now()
	for i := 1; i <= n; i++ {
		require.NoError(t, products.CreateProduct(ctx, &models.Product{
			SKU:          fmt.Sprintf("BOOK-%03d", i),
			Name:         fmt.Sprintf("Book %d", i),
			UnitPrice:    float64(10 * i),
			Active:       true,
			UnitsInStock: 100,
			CategoryID:   category.ID,
			DateCreated:  now,
			LastUpdated:  now,
		}))
	}

	return category
}

// serveMux прогоняет запрос через ServeMux, чтобы r.PathValue работал
func serveMux(pattern string, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestProductsHandler_List_PageShape(t *testing.T) {
	h, products, categories := setupProductsHandler(t)
	seedProducts(t, products, categories, 5)

	req := httptest.NewRequest(http.MethodGet, "/api/products?page=1&size=2", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var page api.Page[models.Product]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.Size)
	assert.Equal(t, 1, page.Number)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "BOOK-003", page.Content[0].SKU)
}

func TestProductsHandler_List_Defaults(t *testing.T) {
	h, products, categories := setupProductsHandler(t)
	seedProducts(t, products, categories, 3)

	// Некорректные параметры сводятся к дефолтам
	req := httptest.NewRequest(http.MethodGet, "/api/products?page=-1&size=abc", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var page api.Page[models.Product]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 0, page.Number)
	assert.Equal(t, 10, page.Size)
	assert.Len(t, page.Content, 3)
}

func TestProductsHandler_List_EmptyPageIsArray(t *testing.T) {
	h, _, _ := setupProductsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// content - пустой массив, не null
	assert.Contains(t, w.Body.String(), `"content":[]`)
}

func TestProductsHandler_Get(t *testing.T) {
	h, products, categories := setupProductsHandler(t)
	seedProducts(t, products, categories, 1)

	req := httptest.NewRequest(http.MethodGet, "/api/products/1", nil)
	w := serveMux("GET /api/products/{id}", h.Get, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var product models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(t, "BOOK-001", product.SKU)
}

func TestProductsHandler_Get_NotFound(t *testing.T) {
	h, _, _ := setupProductsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products/999", nil)
	w := serveMux("GET /api/products/{id}", h.Get, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductsHandler_Get_BadID(t *testing.T) {
	h, _, _ := setupProductsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products/abc", nil)
	w := serveMux("GET /api/products/{id}", h.Get, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductsHandler_ListByCategory(t *testing.T) {
	h, products, categories := setupProductsHandler(t)
	category := seedProducts(t, products, categories, 3)

	// Неактивный товар в выдачу не попадает
	require.NoError(t, products.CreateProduct(context.Background(), &models.Product{
		SKU:        "BOOK-OFF",
		Name:       "Hidden Book",
		Active:     false,
		CategoryID: category.ID,
	}))

	path := fmt.Sprintf("/api/products/category/%d", category.ID)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := serveMux("GET /api/products/category/{categoryId}", h.ListByCategory, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var page api.Page[models.Product]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(3), page.TotalElements)
}

func TestProductsHandler_ListByCategory_UnknownCategory(t *testing.T) {
	h, _, _ := setupProductsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products/category/999", nil)
	w := serveMux("GET /api/products/category/{categoryId}", h.ListByCategory, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductsHandler_Search_RequiresKeyword(t *testing.T) {
	h, _, _ := setupProductsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products/search", nil)
	w := httptest.NewRecorder()
	h.Search(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductsHandler_Search(t *testing.T) {
	h, products, categories := setupProductsHandler(t)
	seedProducts(t, products, categories, 12)

	req := httptest.NewRequest(http.MethodGet, "/api/products/search?keyword=Book+1", nil)
	w := httptest.NewRecorder()
	h.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var page api.Page[models.Product]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	// "Book 1", "Book 10", "Book 11", "Book 12"
	assert.Equal(t, int64(4), page.TotalElements)
}

func TestProductsHandler_Create(t *testing.T) {
	h, _, categories := setupProductsHandler(t)

	ctx := context.Background()
	category := &models.Category{Name: "Books"}
	require.NoError(t, categories.CreateCategory(ctx, category))

	body, err := json.Marshal(api.ProductRequest{
		SKU:          "BOOK-001",
		Name:         "New Book",
		UnitPrice:    19.99,
		Active:       true,
		UnitsInStock: 50,
		CategoryID:   category.ID,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var product models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.NotZero(t, product.ID)
	assert.Equal(t, "BOOK-001", product.SKU)
}

func TestProductsHandler_Create_Validation(t *testing.T) {
	h, _, _ := setupProductsHandler(t)

	tests := []struct {
		name string
		req  api.ProductRequest
	}{
		{name: "missing sku", req: api.ProductRequest{Name: "X", UnitPrice: 1, CategoryID: 1}},
		{name: "missing name", req: api.ProductRequest{SKU: "X-1", UnitPrice: 1, CategoryID: 1}},
		{name: "negative price", req: api.ProductRequest{SKU: "X-1", Name: "X", UnitPrice: -1, CategoryID: 1}},
		{name: "negative stock", req: api.ProductRequest{SKU: "X-1", Name: "X", UnitPrice: 1, UnitsInStock: -5, CategoryID: 1}},
		{name: "missing category", req: api.ProductRequest{SKU: "X-1", Name: "X", UnitPrice: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.req)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body))
			w := httptest.NewRecorder()
			h.Create(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestProductsHandler_DecreaseStock(t *testing.T) {
	h, products, categories := setupProductsHandler(t)
	seedProducts(t, products, categories, 1)

	req := httptest.NewRequest(http.MethodPut, "/api/products/1/decrease-stock?quantity=30", nil)
	w := serveMux("PUT /api/products/{id}/decrease-stock", h.DecreaseStock, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp api.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Stock decreased successfully", resp.Message)

	product, err := products.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 70, product.UnitsInStock)
}

func TestProductsHandler_DecreaseStock_Insufficient(t *testing.T) {
	h, products, categories := setupProductsHandler(t)
	seedProducts(t, products, categories, 1)

	req := httptest.NewRequest(http.MethodPut, "/api/products/1/decrease-stock?quantity=500", nil)
	w := serveMux("PUT /api/products/{id}/decrease-stock", h.DecreaseStock, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Insufficient stock", resp.Error)

	// Остаток не изменился
	product, err := products.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 100, product.UnitsInStock)
}

func TestProductsHandler_IncreaseStock(t *testing.T) {
	h, products, categories := setupProductsHandler(t)
	seedProducts(t, products, categories, 1)

	req := httptest.NewRequest(http.MethodPut, "/api/products/1/increase-stock?quantity=25", nil)
	w := serveMux("PUT /api/products/{id}/increase-stock", h.IncreaseStock, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp api.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Stock increased successfully", resp.Message)

	product, err := products.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 125, product.UnitsInStock)
}

func TestProductsHandler_AdjustStock_BadQuantity(t *testing.T) {
	h, products, categories := setupProductsHandler(t)
	seedProducts(t, products, categories, 1)

	for _, query := range []string{"", "quantity=0", "quantity=-5", "quantity=abc"} {
		t.Run("query="+query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/products/1/decrease-stock?"+query, nil)
			w := serveMux("PUT /api/products/{id}/decrease-stock", h.DecreaseStock, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestProductsHandler_Delete(t *testing.T) {
	h, products, categories := setupProductsHandler(t)
	seedProducts(t, products, categories, 1)

	req := httptest.NewRequest(http.MethodDelete, "/api/products/1", nil)
	w := serveMux("DELETE /api/products/{id}", h.Delete, req)

	assert.Equal(t, http.StatusOK, w.Code)

	_, err := products.GetProductByID(context.Background(), 1)
	assert.Error(t, err)
}
