/*
engine.go - The sale transaction engine

PURPOSE:
  Owns every mutation of the State. The central operation is RecordSale:
  validate a multi-item sale against current stock, decrement quantities,
  append one ledger entry per line item, append the sale record, and
  persist the whole result or none of it.

ATOMICITY:
  The store is a whole-document replace with no native transactions, so the
  engine computes the COMPLETE next State in memory before the single Save
  call. Validation is a dry run over the loaded snapshot; the first failure
  returns before anything is touched. A Save failure discards the in-memory
  mutation - nothing was durably written, so the caller may safely retry.

CONCURRENCY:
  A mutex spans the whole read-validate-mutate-write section. Two
  concurrent sales against the same product cannot interleave and
  oversell; the State document is the only shared resource, so one
  critical section covers everything.

VALIDATION ORDER (first failure wins):
  1. items must be non-empty
  2. totalAmount must be > 0
  3. every item must carry a positive quantity and non-negative price
     (strict: malformed numbers are rejected, never coerced)
  4. per item, in request order: product must exist, stock must suffice

SEE ALSO:
  - store.go:  Persistence contract
  - ledger.go: Ledger entry construction
  - errors.go: The error taxonomy handed to callers
*/
package pos

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// SaleItemRequest is one proposed line of a sale.
type SaleItemRequest struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// SaleRequest is a proposed sale. CustomerName and PaymentMethod are
// optional; empty values get the walk-in/cash defaults.
type SaleRequest struct {
	Items         []SaleItemRequest
	CustomerName  string
	TotalAmount   decimal.Decimal
	PaymentMethod string
}

// ProductInput is the payload for creating a product.
type ProductInput struct {
	Name              string
	Category          string
	Price             decimal.Decimal
	Quantity          int
	LowStockThreshold int
}

// CustomerInput is the payload for creating a customer.
type CustomerInput struct {
	Name  string
	Email string
	Phone string
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine validates and commits all State mutations. Safe for concurrent
// use; every operation holds the engine mutex for its full duration.
type Engine struct {
	store StateStore

	mu sync.Mutex

	// Injection points for deterministic tests.
	Now   func() time.Time
	NewID func() string
}

// NewEngine creates an engine backed by the given store.
func NewEngine(store StateStore) *Engine {
	return &Engine{
		store: store,
		Now:   time.Now,
		NewID: NewID,
	}
}

// =============================================================================
// RECORD SALE - The core transaction
// =============================================================================

// RecordSale validates req against current stock and, if every line item
// passes, commits the sale: quantities decremented, one `out` ledger entry
// per item, the sale appended - all in one Save. On any error the store is
// left untouched.
func (e *Engine) RecordSale(ctx context.Context, req SaleRequest) (*Sale, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(req.Items) == 0 {
		return nil, invalidInput("items array required")
	}
	if !req.TotalAmount.IsPositive() {
		return nil, invalidInput("valid totalAmount required")
	}
	// Strict parse up front: reject rather than coerce.
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, invalidInput("item %d: quantity must be a positive integer", i)
		}
		if item.Price.IsNegative() {
			return nil, invalidInput("item %d: price must not be negative", i)
		}
	}

	state, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Dry run over the snapshot. First violation wins; nothing has been
	// mutated yet, so an invalid second item leaves the first untouched.
	// Remaining stock is tracked across line items so a product listed
	// twice cannot be oversold by passing each check individually.
	remaining := make(map[string]int, len(req.Items))
	for _, item := range req.Items {
		idx := state.FindProduct(item.ProductID)
		if idx < 0 {
			return nil, &NotFoundError{ProductID: item.ProductID}
		}
		p := state.Products[idx]
		rem, seen := remaining[p.ID]
		if !seen {
			rem = p.Quantity
		}
		if rem < item.Quantity {
			return nil, &InsufficientStockError{
				ProductName: p.Name,
				Available:   rem,
				Requested:   item.Quantity,
			}
		}
		remaining[p.ID] = rem - item.Quantity
	}

	// Commit: build the complete next State, then one Save.
	now := e.Now()
	sale := Sale{
		ID:            e.NewID(),
		CustomerName:  defaultIfEmpty(req.CustomerName, DefaultCustomerName),
		Items:         make([]SaleItem, 0, len(req.Items)),
		TotalAmount:   req.TotalAmount,
		PaymentMethod: defaultIfEmpty(req.PaymentMethod, DefaultPaymentMethod),
		Date:          now,
	}

	next := state.Clone()
	for _, item := range req.Items {
		idx := next.FindProduct(item.ProductID)
		next.Products[idx].Quantity -= item.Quantity
		next.Products[idx].UpdatedAt = now

		recorded := SaleItem{
			ProductID: item.ProductID,
			Name:      defaultIfEmpty(item.Name, next.Products[idx].Name),
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
		sale.Items = append(sale.Items, recorded)
		next.StockTransactions = append(next.StockTransactions,
			saleEntry(e.NewID(), recorded, sale.ID, now))
	}
	next.Sales = append(next.Sales, sale)

	if err := e.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &sale, nil
}

// =============================================================================
// PRODUCT OPERATIONS
// =============================================================================

// CreateProduct adds a product to the catalog. Initial stock, when
// positive, gets an `in` ledger entry so the ledger stays a complete
// history of quantity changes.
func (e *Engine) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if strings.TrimSpace(in.Name) == "" {
		return nil, invalidInput("product name required")
	}
	if in.Price.IsNegative() {
		return nil, invalidInput("price must not be negative")
	}
	if in.Quantity < 0 {
		return nil, invalidInput("quantity must not be negative")
	}
	if in.LowStockThreshold < 0 {
		return nil, invalidInput("lowStockThreshold must not be negative")
	}

	state, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	now := e.Now()
	product := Product{
		ID:                e.NewID(),
		Name:              in.Name,
		Category:          in.Category,
		Price:             in.Price,
		Quantity:          in.Quantity,
		LowStockThreshold: in.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	next := state.Clone()
	next.Products = append(next.Products, product)
	if in.Quantity > 0 {
		next.StockTransactions = append(next.StockTransactions,
			stockInEntry(e.NewID(), product.ID, in.Quantity, "initial stock", now))
	}

	if err := e.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &product, nil
}

// RestockProduct increments a product's quantity and appends an `in`
// ledger entry.
func (e *Engine) RestockProduct(ctx context.Context, productID string, quantity int) (*Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if quantity <= 0 {
		return nil, invalidInput("restock quantity must be a positive integer")
	}

	state, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	idx := state.FindProduct(productID)
	if idx < 0 {
		return nil, &NotFoundError{ProductID: productID}
	}

	now := e.Now()
	next := state.Clone()
	next.Products[idx].Quantity += quantity
	next.Products[idx].UpdatedAt = now
	next.StockTransactions = append(next.StockTransactions,
		stockInEntry(e.NewID(), productID, quantity, "restock", now))

	if err := e.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	product := next.Products[idx]
	return &product, nil
}

// GetProduct returns a single product by id.
func (e *Engine) GetProduct(ctx context.Context, productID string) (*Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	idx := state.FindProduct(productID)
	if idx < 0 {
		return nil, &NotFoundError{ProductID: productID}
	}
	product := state.Products[idx]
	return &product, nil
}

// ListProducts returns all products.
func (e *Engine) ListProducts(ctx context.Context) ([]Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return state.Products, nil
}

// LowStockProducts returns products at or below their low-stock threshold.
func (e *Engine) LowStockProducts(ctx context.Context) ([]Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	low := []Product{}
	for _, p := range state.Products {
		if p.LowOnStock() {
			low = append(low, p)
		}
	}
	return low, nil
}

// =============================================================================
// SALE / LEDGER / CUSTOMER READS
// =============================================================================

// ListSales returns all recorded sales.
func (e *Engine) ListSales(ctx context.Context) ([]Sale, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return state.Sales, nil
}

// ListStockTransactions returns ledger entries, optionally filtered by
// product id ("" means all).
func (e *Engine) ListStockTransactions(ctx context.Context, productID string) ([]StockTransaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return LedgerEntries(state, productID), nil
}

// ListCustomers returns all customers.
func (e *Engine) ListCustomers(ctx context.Context) ([]Customer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return state.Customers, nil
}

// CreateCustomer adds a customer record.
func (e *Engine) CreateCustomer(ctx context.Context, in CustomerInput) (*Customer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if strings.TrimSpace(in.Name) == "" {
		return nil, invalidInput("customer name required")
	}

	state, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	customer := Customer{
		ID:        e.NewID(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: e.Now(),
	}

	next := state.Clone()
	next.Customers = append(next.Customers, customer)

	if err := e.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &customer, nil
}

func defaultIfEmpty(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
