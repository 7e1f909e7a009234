/*
handlers.go - HTTP API handlers for the point-of-sale system

PURPOSE:
  Exposes the pos engine via REST API. Handles HTTP request/response, JSON
  serialization, and delegates every decision to the engine.

ENDPOINTS:
  Products:
    GET    /api/products               List all products
    POST   /api/products               Create product
    GET    /api/products/low-stock     Products at/below threshold
    GET    /api/products/{id}          Get one product
    POST   /api/products/{id}/restock  Add stock

  Sales:
    GET    /api/sales                  List all sales
    POST   /api/sales                  Record a sale

  Ledger:
    GET    /api/transactions           Stock movements (?product_id= filter)

  Customers:
    GET    /api/customers              List customers
    POST   /api/customers              Create customer

ERROR HANDLING:
  Engine errors map to HTTP status via the pos classifiers:
  - InvalidInput / InsufficientStock / NotFound -> 400 (404 on direct GET)
  - PersistenceError and anything unexpected    -> 500
  Every failure body is {"error": "..."}. No partial success is ever
  reported: a sale either landed whole or not at all.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/pos-engine/pos"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds the engine behind every endpoint.
type Handler struct {
	Engine *pos.Engine
}

// NewHandler creates a handler around the given engine.
func NewHandler(engine *pos.Engine) *Handler {
	return &Handler{Engine: engine}
}

// =============================================================================
// PRODUCT HANDLERS
// =============================================================================

// ListProducts returns all products.
// GET /api/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Engine.ListProducts(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTOs(products))
}

// CreateProduct creates a new product.
// POST /api/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.Engine.CreateProduct(r.Context(), pos.ProductInput{
		Name:              req.Name,
		Category:          req.Category,
		Price:             decimal.NewFromFloat(req.Price),
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductDTO(*product))
}

// GetProduct returns a single product.
// GET /api/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.Engine.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if pos.IsNotFound(err) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(*product))
}

// LowStockProducts returns products at or below their threshold.
// GET /api/products/low-stock
func (h *Handler) LowStockProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Engine.LowStockProducts(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTOs(products))
}

// RestockProduct adds stock to a product.
// POST /api/products/{id}/restock
func (h *Handler) RestockProduct(w http.ResponseWriter, r *http.Request) {
	var req RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.Engine.RestockProduct(r.Context(), chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		if pos.IsNotFound(err) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(*product))
}

// =============================================================================
// SALE HANDLERS
// =============================================================================

// ListSales returns all recorded sales.
// GET /api/sales
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Engine.ListSales(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	dtos := make([]SaleDTO, len(sales))
	for i, s := range sales {
		dtos[i] = toSaleDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RecordSale records a multi-item sale.
// POST /api/sales
func (h *Handler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sale, err := h.Engine.RecordSale(r.Context(), req.toDomain())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, RecordSaleResponse{
		Message: "Sale recorded successfully",
		Sale:    toSaleDTO(*sale),
	})
}

// =============================================================================
// LEDGER HANDLERS
// =============================================================================

// ListStockTransactions returns the stock ledger.
// GET /api/transactions?product_id=...
func (h *Handler) ListStockTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.Engine.ListStockTransactions(r.Context(), r.URL.Query().Get("product_id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStockTransactionDTOs(txs))
}

// =============================================================================
// CUSTOMER HANDLERS
// =============================================================================

// ListCustomers returns all customers.
// GET /api/customers
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Engine.ListCustomers(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	dtos := make([]CustomerDTO, len(customers))
	for i, c := range customers {
		dtos[i] = toCustomerDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCustomer creates a new customer.
// POST /api/customers
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customer, err := h.Engine.CreateCustomer(r.Context(), pos.CustomerInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerDTO(*customer))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeEngineError maps an engine error to a status code.
func writeEngineError(w http.ResponseWriter, err error) {
	if pos.IsClientError(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
