/*
Package pos provides the core point-of-sale inventory engine.

PURPOSE:
  This package contains the domain types and the sale-recording transaction
  for a single-store inventory tracker. Products hold current stock, sales
  record what left the shelf, and the stock ledger keeps an immutable entry
  for every quantity change.

KEY CONCEPTS IN THIS FILE (types.go):
  - Product:          Catalog entry with current stock level
  - Sale / SaleItem:  Immutable record of a completed multi-item sale
  - StockTransaction: Immutable ledger entry for one quantity change
  - State:            The aggregate of all collections - the unit of persistence

DESIGN PRINCIPLES:
  1. Immutability: Sales and ledger entries are never modified or deleted
  2. Precision: Uses decimal.Decimal for money to avoid floating-point errors
  3. Whole-document state: State is read and written as one value; the engine
     computes the complete next State before any write

SEE ALSO:
  - engine.go: The sale transaction (validate-then-commit)
  - ledger.go: Ledger entry construction and queries
  - store.go:  Persistence interface
*/
package pos

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PRODUCT - Catalog entry with current stock
// =============================================================================

// Product is a catalog entry. Quantity is mutated only by the engine
// (sales, restocks); everything else is set at creation time.
//
// INVARIANT: Quantity never goes negative.
type Product struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// LowOnStock reports whether the product is at or below its threshold.
func (p Product) LowOnStock() bool {
	return p.Quantity <= p.LowStockThreshold
}

// =============================================================================
// SALE - Immutable record of a completed transaction
// =============================================================================

// SaleItem is one line of a sale. Name and Price are captured at sale time
// so the sale record stays meaningful if the catalog changes later.
type SaleItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Sale is a completed multi-item transaction. A Sale is a fact: once
// created it is never edited or deleted.
type Sale struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customerName"`
	Items         []SaleItem      `json:"items"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentMethod string          `json:"paymentMethod"`
	Date          time.Time       `json:"date"`
}

// Defaults applied when a sale request omits the fields.
const (
	DefaultCustomerName  = "Walk-in Customer"
	DefaultPaymentMethod = "cash"
)

// =============================================================================
// STOCK TRANSACTION - Immutable ledger entry
// =============================================================================

// TransactionType is the direction of a stock movement.
type TransactionType string

const (
	TxIn  TransactionType = "in"  // stock added (initial stock, restock)
	TxOut TransactionType = "out" // stock removed (sale line item)
)

// StockTransaction records one inventory quantity change. Append-only.
//
// Reason carries a weak back-reference to the cause ("sale <id>",
// "initial stock", "restock"). It is a string, not an ownership link:
// removing a sale would not cascade here.
type StockTransaction struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Type      TransactionType `json:"type"`
	Quantity  int             `json:"quantity"`
	Reason    string          `json:"reason"`
	Date      time.Time       `json:"date"`
}

// =============================================================================
// CUSTOMER - Simple CRM record
// =============================================================================

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// =============================================================================
// STATE - The unit of persistence
// =============================================================================

// State is the aggregate of all persisted collections. The store reads and
// writes it as one document; there are no partial writes.
type State struct {
	Products          []Product          `json:"products"`
	Sales             []Sale             `json:"sales"`
	Customers         []Customer         `json:"customers"`
	StockTransactions []StockTransaction `json:"stockTransactions"`
}

// NewState returns an empty State with all collections allocated, so an
// empty state serializes as four empty arrays rather than nulls.
func NewState() *State {
	return &State{
		Products:          []Product{},
		Sales:             []Sale{},
		Customers:         []Customer{},
		StockTransactions: []StockTransaction{},
	}
}

// Clone returns a deep copy. The engine mutates a clone so a failed
// commit leaves the loaded snapshot untouched.
func (s *State) Clone() *State {
	c := &State{
		Products:          make([]Product, len(s.Products)),
		Sales:             make([]Sale, len(s.Sales)),
		Customers:         make([]Customer, len(s.Customers)),
		StockTransactions: make([]StockTransaction, len(s.StockTransactions)),
	}
	copy(c.Products, s.Products)
	copy(c.Customers, s.Customers)
	copy(c.StockTransactions, s.StockTransactions)
	for i, sale := range s.Sales {
		items := make([]SaleItem, len(sale.Items))
		copy(items, sale.Items)
		sale.Items = items
		c.Sales[i] = sale
	}
	return c
}

// FindProduct returns the index of the product with the given id, or -1.
func (s *State) FindProduct(id string) int {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return i
		}
	}
	return -1
}
