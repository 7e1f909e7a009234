package pos_test

import (
	"context"
	"testing"

	"github.com/warp/pos-engine/pos"
)

// =============================================================================
// LEDGER REPLAY TESTS
// =============================================================================

func TestNetMovement_MatchesQuantityAfterLifecycle(t *testing.T) {
	// Create with initial stock, restock, sell twice: replaying the ledger
	// must land on the product's current quantity.

	engine, mem := newTestEngine()
	ctx := context.Background()

	product, err := engine.CreateProduct(ctx, pos.ProductInput{
		Name:     "Widget",
		Price:    amount(5),
		Quantity: 10,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	if _, err := engine.RestockProduct(ctx, product.ID, 5); err != nil {
		t.Fatalf("RestockProduct: %v", err)
	}

	for _, qty := range []int{4, 6} {
		_, err := engine.RecordSale(ctx, pos.SaleRequest{
			Items:       []pos.SaleItemRequest{item(product.ID, qty)},
			TotalAmount: amount(float64(qty * 5)),
		})
		if err != nil {
			t.Fatalf("RecordSale(%d): %v", qty, err)
		}
	}

	state, _ := mem.Load(ctx)
	got := state.Products[0].Quantity
	if got != 5 {
		t.Errorf("quantity = %d, want 5", got)
	}
	if net := pos.NetMovement(state, product.ID); net != got {
		t.Errorf("ledger replay = %d, quantity = %d; ledger out of sync", net, got)
	}

	// 1 initial + 1 restock + 2 sale entries
	if len(state.StockTransactions) != 4 {
		t.Errorf("ledger entries = %d, want 4", len(state.StockTransactions))
	}
}

func TestLedgerEntries_FilterByProduct(t *testing.T) {
	engine, mem := newTestEngine()
	ctx := context.Background()

	p1, _ := engine.CreateProduct(ctx, pos.ProductInput{Name: "A", Price: amount(1), Quantity: 3})
	p2, _ := engine.CreateProduct(ctx, pos.ProductInput{Name: "B", Price: amount(1), Quantity: 7})

	state, _ := mem.Load(ctx)

	all := pos.LedgerEntries(state, "")
	if len(all) != 2 {
		t.Fatalf("all entries = %d, want 2", len(all))
	}

	only := pos.LedgerEntries(state, p2.ID)
	if len(only) != 1 {
		t.Fatalf("filtered entries = %d, want 1", len(only))
	}
	if only[0].ProductID != p2.ID {
		t.Errorf("filtered entry product = %s, want %s", only[0].ProductID, p2.ID)
	}
	_ = p1
}
