/*
handlers_test.go - HTTP tests for the API surface

Exercises the full stack (router -> handler -> engine -> in-memory store)
through httptest: status codes, response shapes, and error bodies.
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pos-engine/api"
	"github.com/warp/pos-engine/pos"
	"github.com/warp/pos-engine/pos/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer() (*httptest.Server, *store.Memory) {
	mem := store.NewMemory()
	engine := pos.NewEngine(mem)
	server := httptest.NewServer(api.NewRouter(api.NewHandler(engine)))
	return server, mem
}

func seedProduct(mem *store.Memory, id string, quantity int) {
	at := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	state := pos.NewState()
	state.Products = append(state.Products, pos.Product{
		ID:                id,
		Name:              "Widget",
		Category:          "hardware",
		Price:             decimal.NewFromInt(5),
		Quantity:          quantity,
		LowStockThreshold: 2,
		CreatedAt:         at,
		UpdatedAt:         at,
	})
	mem.Seed(state)
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

func saleBody(productID string, qty int, total float64) map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"productId": productID, "name": "Widget", "price": 5, "quantity": qty},
		},
		"totalAmount": total,
	}
}

// =============================================================================
// SALES ENDPOINT
// =============================================================================

func TestPostSales_Success(t *testing.T) {
	// GIVEN: Product p1 with 10 in stock
	// WHEN: POST /api/sales for 3 units
	// THEN: 201 with {message, sale}; quantity is 7; ledger has one entry

	server, mem := newTestServer()
	defer server.Close()
	seedProduct(mem, "p1", 10)

	resp := postJSON(t, server.URL+"/api/sales", saleBody("p1", 3, 15))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Message string      `json:"message"`
		Sale    api.SaleDTO `json:"sale"`
	}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Message)
	assert.NotEmpty(t, body.Sale.ID)
	assert.Equal(t, "Walk-in Customer", body.Sale.CustomerName)
	assert.Equal(t, "cash", body.Sale.PaymentMethod)
	require.Len(t, body.Sale.Items, 1)
	assert.Equal(t, 3, body.Sale.Items[0].Quantity)

	// Stock decremented
	resp, err := http.Get(server.URL + "/api/products/p1")
	require.NoError(t, err)
	var product api.ProductDTO
	decodeBody(t, resp, &product)
	assert.Equal(t, 7, product.Quantity)

	// Ledger entry appended
	resp, err = http.Get(server.URL + "/api/transactions?product_id=p1")
	require.NoError(t, err)
	var txs []api.StockTransactionDTO
	decodeBody(t, resp, &txs)
	require.Len(t, txs, 1)
	assert.Equal(t, "out", txs[0].Type)
	assert.Equal(t, 3, txs[0].Quantity)
	assert.Equal(t, "sale "+body.Sale.ID, txs[0].Reason)
}

func TestPostSales_InsufficientStock(t *testing.T) {
	// GIVEN: 10 in stock
	// WHEN: Requesting 15
	// THEN: 400 with an error naming available/requested; nothing recorded

	server, mem := newTestServer()
	defer server.Close()
	seedProduct(mem, "p1", 10)

	resp := postJSON(t, server.URL+"/api/sales", saleBody("p1", 15, 75))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body api.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Contains(t, body.Error, "available 10")
	assert.Contains(t, body.Error, "requested 15")

	resp, err := http.Get(server.URL + "/api/sales")
	require.NoError(t, err)
	var sales []api.SaleDTO
	decodeBody(t, resp, &sales)
	assert.Empty(t, sales)
}

func TestPostSales_EmptyItems(t *testing.T) {
	server, mem := newTestServer()
	defer server.Close()
	seedProduct(mem, "p1", 10)

	resp := postJSON(t, server.URL+"/api/sales", map[string]any{
		"items":       []any{},
		"totalAmount": 15,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body api.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "items array required", body.Error)
}

func TestPostSales_UnknownProduct(t *testing.T) {
	server, mem := newTestServer()
	defer server.Close()
	seedProduct(mem, "p1", 10)

	resp := postJSON(t, server.URL+"/api/sales", saleBody("ghost", 1, 5))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body api.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Contains(t, body.Error, "ghost")
}

func TestPostSales_MalformedBody(t *testing.T) {
	server, _ := newTestServer()
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/sales", "application/json",
		bytes.NewReader([]byte(`{"items": "not-an-array"}`)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// =============================================================================
// PRODUCTS ENDPOINTS
// =============================================================================

func TestProducts_CreateAndList(t *testing.T) {
	server, _ := newTestServer()
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/products", map[string]any{
		"name":              "Widget",
		"category":          "hardware",
		"price":             4.5,
		"quantity":          12,
		"lowStockThreshold": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created api.ProductDTO
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 12, created.Quantity)
	assert.Equal(t, 4.5, created.Price)

	resp, err := http.Get(server.URL + "/api/products")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []api.ProductDTO
	decodeBody(t, resp, &products)
	require.Len(t, products, 1)
	assert.Equal(t, created.ID, products[0].ID)
}

func TestProducts_GetUnknown(t *testing.T) {
	server, _ := newTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/products/ghost")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProducts_Restock(t *testing.T) {
	server, mem := newTestServer()
	defer server.Close()
	seedProduct(mem, "p1", 2)

	resp := postJSON(t, server.URL+"/api/products/p1/restock",
		map[string]any{"quantity": 8})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var product api.ProductDTO
	decodeBody(t, resp, &product)
	assert.Equal(t, 10, product.Quantity)

	resp = postJSON(t, server.URL+"/api/products/ghost/restock",
		map[string]any{"quantity": 8})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProducts_LowStock(t *testing.T) {
	server, mem := newTestServer()
	defer server.Close()
	seedProduct(mem, "p1", 2) // threshold 2 -> low

	resp, err := http.Get(server.URL + "/api/products/low-stock")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []api.ProductDTO
	decodeBody(t, resp, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
}

// =============================================================================
// CUSTOMERS ENDPOINTS
// =============================================================================

func TestCustomers_CreateAndList(t *testing.T) {
	server, _ := newTestServer()
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/customers", map[string]any{
		"name":  "Ada",
		"email": "ada@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created api.CustomerDTO
	decodeBody(t, resp, &created)
	assert.Equal(t, "Ada", created.Name)

	resp, err := http.Get(server.URL + "/api/customers")
	require.NoError(t, err)
	var customers []api.CustomerDTO
	decodeBody(t, resp, &customers)
	require.Len(t, customers, 1)
}

// =============================================================================
// SALES LISTING
// =============================================================================

func TestGetSales_ReturnsRecordedSales(t *testing.T) {
	server, mem := newTestServer()
	defer server.Close()
	seedProduct(mem, "p1", 10)

	for i := 0; i < 3; i++ {
		resp := postJSON(t, server.URL+"/api/sales", saleBody("p1", 1, 5))
		require.Equal(t, http.StatusCreated, resp.StatusCode, "sale %d", i)
		resp.Body.Close()
	}

	resp, err := http.Get(server.URL + "/api/sales")
	require.NoError(t, err)
	var sales []api.SaleDTO
	decodeBody(t, resp, &sales)
	assert.Len(t, sales, 3)

	resp, err = http.Get(fmt.Sprintf("%s/api/products/%s", server.URL, "p1"))
	require.NoError(t, err)
	var product api.ProductDTO
	decodeBody(t, resp, &product)
	assert.Equal(t, 7, product.Quantity)
}
