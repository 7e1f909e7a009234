/*
Package sqlite provides a SQLite-backed implementation of the StateStore.

PURPOSE:
  Persists the State in four tables (plus sale line items). The interface
  contract is still whole-document: Load reads everything, Save replaces
  everything. The tables exist for durability and inspectability, not for
  partial updates - the engine computes the complete next State and this
  store swaps it in.

WHOLE-DOCUMENT SAVE:
  Save runs DELETE + INSERT for every table inside ONE SQL transaction.
  Either the entire new State commits or the old State remains. Combined
  with the engine's critical section this gives the same all-or-nothing
  behavior as the jsonfile store, with real crash safety from SQLite.

FAIL-OPEN LOAD:
  An empty database yields an empty State. Row-level read errors surface
  as errors (unlike a missing file, a half-readable database is worth
  failing loudly over).

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/pos.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  engine := pos.NewEngine(store)

SEE ALSO:
  - pos/store.go: Interface and contract
  - store/jsonfile: Document-file alternative
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/pos-engine/pos"
)

// Store implements pos.StateStore using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT,
		price TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		low_stock_threshold INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		customer_name TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sale_items (
		sale_id TEXT NOT NULL REFERENCES sales(id),
		position INTEGER NOT NULL,
		product_id TEXT NOT NULL,
		name TEXT NOT NULL,
		price TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		PRIMARY KEY (sale_id, position)
	);

	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		created_at TEXT NOT NULL
	);

	-- Stock ledger (append-only at the domain level; rewritten wholesale
	-- on Save to honor the whole-document contract)
	CREATE TABLE IF NOT EXISTS stock_transactions (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		tx_type TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		reason TEXT,
		date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_stock_transactions_product
		ON stock_transactions(product_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LOAD - Read the whole state
// =============================================================================

func (s *Store) Load(ctx context.Context) (*pos.State, error) {
	state := pos.NewState()

	if err := s.loadProducts(ctx, state); err != nil {
		return nil, err
	}
	if err := s.loadSales(ctx, state); err != nil {
		return nil, err
	}
	if err := s.loadCustomers(ctx, state); err != nil {
		return nil, err
	}
	if err := s.loadStockTransactions(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *Store) loadProducts(ctx context.Context, state *pos.State) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, price, quantity, low_stock_threshold, created_at, updated_at
		FROM products ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p pos.Product
		var price, createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &price, &p.Quantity,
			&p.LowStockThreshold, &createdAt, &updatedAt); err != nil {
			return fmt.Errorf("failed to scan product: %w", err)
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return fmt.Errorf("bad price for product %s: %w", p.ID, err)
		}
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return err
		}
		state.Products = append(state.Products, p)
	}
	return rows.Err()
}

func (s *Store) loadSales(ctx context.Context, state *pos.State) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_name, total_amount, payment_method, date
		FROM sales ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("failed to load sales: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sale pos.Sale
		var total, date string
		if err := rows.Scan(&sale.ID, &sale.CustomerName, &total, &sale.PaymentMethod, &date); err != nil {
			return fmt.Errorf("failed to scan sale: %w", err)
		}
		if sale.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return fmt.Errorf("bad total for sale %s: %w", sale.ID, err)
		}
		if sale.Date, err = parseTime(date); err != nil {
			return err
		}
		sale.Items = []pos.SaleItem{}
		state.Sales = append(state.Sales, sale)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	itemRows, err := s.db.QueryContext(ctx, `
		SELECT sale_id, product_id, name, price, quantity
		FROM sale_items ORDER BY sale_id, position`)
	if err != nil {
		return fmt.Errorf("failed to load sale items: %w", err)
	}
	defer itemRows.Close()

	bySale := make(map[string]int, len(state.Sales))
	for i := range state.Sales {
		bySale[state.Sales[i].ID] = i
	}

	for itemRows.Next() {
		var saleID, price string
		var item pos.SaleItem
		if err := itemRows.Scan(&saleID, &item.ProductID, &item.Name, &price, &item.Quantity); err != nil {
			return fmt.Errorf("failed to scan sale item: %w", err)
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return fmt.Errorf("bad price in sale %s: %w", saleID, err)
		}
		if i, ok := bySale[saleID]; ok {
			state.Sales[i].Items = append(state.Sales[i].Items, item)
		}
	}
	return itemRows.Err()
}

func (s *Store) loadCustomers(ctx context.Context, state *pos.State) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, created_at FROM customers ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("failed to load customers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c pos.Customer
		var email, phone sql.NullString
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &email, &phone, &createdAt); err != nil {
			return fmt.Errorf("failed to scan customer: %w", err)
		}
		c.Email = email.String
		c.Phone = phone.String
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		state.Customers = append(state.Customers, c)
	}
	return rows.Err()
}

func (s *Store) loadStockTransactions(ctx context.Context, state *pos.State) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, tx_type, quantity, reason, date
		FROM stock_transactions ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("failed to load stock transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tx pos.StockTransaction
		var txType, date string
		var reason sql.NullString
		if err := rows.Scan(&tx.ID, &tx.ProductID, &txType, &tx.Quantity, &reason, &date); err != nil {
			return fmt.Errorf("failed to scan stock transaction: %w", err)
		}
		tx.Type = pos.TransactionType(txType)
		tx.Reason = reason.String
		if tx.Date, err = parseTime(date); err != nil {
			return err
		}
		state.StockTransactions = append(state.StockTransactions, tx)
	}
	return rows.Err()
}

// =============================================================================
// SAVE - Replace the whole state in one transaction
// =============================================================================

func (s *Store) Save(ctx context.Context, state *pos.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"sale_items", "sales", "products", "customers", "stock_transactions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, p := range state.Products {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO products (id, name, category, price, quantity, low_stock_threshold, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Category, p.Price.String(), p.Quantity,
			p.LowStockThreshold, formatTime(p.CreatedAt), formatTime(p.UpdatedAt)); err != nil {
			return fmt.Errorf("failed to insert product %s: %w", p.ID, err)
		}
	}

	for _, sale := range state.Sales {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sales (id, customer_name, total_amount, payment_method, date)
			VALUES (?, ?, ?, ?, ?)`,
			sale.ID, sale.CustomerName, sale.TotalAmount.String(),
			sale.PaymentMethod, formatTime(sale.Date)); err != nil {
			return fmt.Errorf("failed to insert sale %s: %w", sale.ID, err)
		}
		for i, item := range sale.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO sale_items (sale_id, position, product_id, name, price, quantity)
				VALUES (?, ?, ?, ?, ?, ?)`,
				sale.ID, i, item.ProductID, item.Name, item.Price.String(), item.Quantity); err != nil {
				return fmt.Errorf("failed to insert item for sale %s: %w", sale.ID, err)
			}
		}
	}

	for _, c := range state.Customers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO customers (id, name, email, phone, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Email, c.Phone, formatTime(c.CreatedAt)); err != nil {
			return fmt.Errorf("failed to insert customer %s: %w", c.ID, err)
		}
	}

	for _, st := range state.StockTransactions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO stock_transactions (id, product_id, tx_type, quantity, reason, date)
			VALUES (?, ?, ?, ?, ?, ?)`,
			st.ID, st.ProductID, string(st.Type), st.Quantity, st.Reason, formatTime(st.Date)); err != nil {
			return fmt.Errorf("failed to insert stock transaction %s: %w", st.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// =============================================================================
// TIME ENCODING
// =============================================================================

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t, nil
}
