/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model (decimal money, time.Time) from the external
  API contract (float64, RFC3339 strings).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Structural validation (is it JSON, are the numbers numbers) happens at
  decode time in handlers; business validation (positive quantities,
  existing products, sufficient stock) lives in the engine.

SEE ALSO:
  - handlers.go: Uses these types
  - pos/engine.go: Request types the DTOs convert into
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/pos-engine/pos"
)

// =============================================================================
// PRODUCT
// =============================================================================

// ProductDTO represents a product in API responses.
type ProductDTO struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	Price             float64 `json:"price"`
	Quantity          int     `json:"quantity"`
	LowStockThreshold int     `json:"lowStockThreshold"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// CreateProductRequest is the request to create a product.
type CreateProductRequest struct {
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	Price             float64 `json:"price"`
	Quantity          int     `json:"quantity"`
	LowStockThreshold int     `json:"lowStockThreshold"`
}

// RestockRequest is the request to add stock to a product.
type RestockRequest struct {
	Quantity int `json:"quantity"`
}

func toProductDTO(p pos.Product) ProductDTO {
	return ProductDTO{
		ID:                p.ID,
		Name:              p.Name,
		Category:          p.Category,
		Price:             p.Price.InexactFloat64(),
		Quantity:          p.Quantity,
		LowStockThreshold: p.LowStockThreshold,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         p.UpdatedAt.Format(time.RFC3339),
	}
}

func toProductDTOs(products []pos.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p)
	}
	return dtos
}

// =============================================================================
// SALE
// =============================================================================

// SaleItemDTO is one line of a sale in responses.
type SaleItemDTO struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// SaleDTO represents a recorded sale in API responses.
type SaleDTO struct {
	ID            string        `json:"id"`
	CustomerName  string        `json:"customerName"`
	Items         []SaleItemDTO `json:"items"`
	TotalAmount   float64       `json:"totalAmount"`
	PaymentMethod string        `json:"paymentMethod"`
	Date          string        `json:"date"`
}

// SaleItemRequest is one proposed line item.
type SaleItemRequest struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// RecordSaleRequest is the request to record a sale.
type RecordSaleRequest struct {
	Items         []SaleItemRequest `json:"items"`
	CustomerName  string            `json:"customerName"`
	TotalAmount   float64           `json:"totalAmount"`
	PaymentMethod string            `json:"paymentMethod"`
}

// RecordSaleResponse wraps the created sale.
type RecordSaleResponse struct {
	Message string  `json:"message"`
	Sale    SaleDTO `json:"sale"`
}

func (r RecordSaleRequest) toDomain() pos.SaleRequest {
	items := make([]pos.SaleItemRequest, len(r.Items))
	for i, item := range r.Items {
		items[i] = pos.SaleItemRequest{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     decimal.NewFromFloat(item.Price),
			Quantity:  item.Quantity,
		}
	}
	return pos.SaleRequest{
		Items:         items,
		CustomerName:  r.CustomerName,
		TotalAmount:   decimal.NewFromFloat(r.TotalAmount),
		PaymentMethod: r.PaymentMethod,
	}
}

func toSaleDTO(s pos.Sale) SaleDTO {
	items := make([]SaleItemDTO, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price.InexactFloat64(),
			Quantity:  item.Quantity,
		}
	}
	return SaleDTO{
		ID:            s.ID,
		CustomerName:  s.CustomerName,
		Items:         items,
		TotalAmount:   s.TotalAmount.InexactFloat64(),
		PaymentMethod: s.PaymentMethod,
		Date:          s.Date.Format(time.RFC3339),
	}
}

// =============================================================================
// STOCK TRANSACTIONS
// =============================================================================

// StockTransactionDTO represents a ledger entry in API responses.
type StockTransactionDTO struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Type      string `json:"type"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
	Date      string `json:"date"`
}

func toStockTransactionDTOs(txs []pos.StockTransaction) []StockTransactionDTO {
	dtos := make([]StockTransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = StockTransactionDTO{
			ID:        tx.ID,
			ProductID: tx.ProductID,
			Type:      string(tx.Type),
			Quantity:  tx.Quantity,
			Reason:    tx.Reason,
			Date:      tx.Date.Format(time.RFC3339),
		}
	}
	return dtos
}

// =============================================================================
// CUSTOMER
// =============================================================================

// CustomerDTO represents a customer in API responses.
type CustomerDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// CreateCustomerRequest is the request to create a customer.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func toCustomerDTO(c pos.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every failure response.
type ErrorResponse struct {
	Error string `json:"error"`
}
