/*
ledger.go - Append-only stock movement log

PURPOSE:
  Every inventory quantity change gets one immutable StockTransaction entry:
  `out` for each sale line item, `in` for initial stock and restocks. The
  ledger is the audit trail that explains how a product's quantity got to
  its current value.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: No update, no delete. Ever.
  2. ONE ENTRY PER LINE ITEM: A three-item sale appends three `out` entries,
     each with that item's full quantity (not one entry per unit).
  3. WEAK BACK-REFERENCE: Reason encodes the cause ("sale <id>"). It is a
     string reference, not a foreign key - nothing cascades.

SEE ALSO:
  - types.go:  StockTransaction definition
  - engine.go: The only writer of ledger entries
*/
package pos

import "time"

// saleEntry builds the `out` ledger entry for one sale line item.
func saleEntry(id string, item SaleItem, saleID string, at time.Time) StockTransaction {
	return StockTransaction{
		ID:        id,
		ProductID: item.ProductID,
		Type:      TxOut,
		Quantity:  item.Quantity,
		Reason:    "sale " + saleID,
		Date:      at,
	}
}

// stockInEntry builds an `in` ledger entry for initial stock or a restock.
func stockInEntry(id, productID string, quantity int, reason string, at time.Time) StockTransaction {
	return StockTransaction{
		ID:        id,
		ProductID: productID,
		Type:      TxIn,
		Quantity:  quantity,
		Reason:    reason,
		Date:      at,
	}
}

// =============================================================================
// READ SIDE - Queries over the ledger in a State snapshot
// =============================================================================

// LedgerEntries returns the ledger entries in s, optionally filtered by
// product id. The returned slice is a copy.
func LedgerEntries(s *State, productID string) []StockTransaction {
	entries := make([]StockTransaction, 0, len(s.StockTransactions))
	for _, tx := range s.StockTransactions {
		if productID != "" && tx.ProductID != productID {
			continue
		}
		entries = append(entries, tx)
	}
	return entries
}

// NetMovement replays the ledger for one product: total in minus total out.
// For a product never mutated outside the engine this equals its current
// quantity.
func NetMovement(s *State, productID string) int {
	net := 0
	for _, tx := range s.StockTransactions {
		if tx.ProductID != productID {
			continue
		}
		switch tx.Type {
		case TxIn:
			net += tx.Quantity
		case TxOut:
			net -= tx.Quantity
		}
	}
	return net
}
