package jsonfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pos-engine/pos"
	"github.com/warp/pos-engine/store/jsonfile"
)

func sampleState() *pos.State {
	at := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	state := pos.NewState()
	state.Products = append(state.Products, pos.Product{
		ID:                "p1",
		Name:              "Widget",
		Category:          "hardware",
		Price:             decimal.NewFromFloat(4.5),
		Quantity:          10,
		LowStockThreshold: 2,
		CreatedAt:         at,
		UpdatedAt:         at,
	})
	state.Sales = append(state.Sales, pos.Sale{
		ID:           "s1",
		CustomerName: "Walk-in Customer",
		Items: []pos.SaleItem{
			{ProductID: "p1", Name: "Widget", Price: decimal.NewFromFloat(4.5), Quantity: 2},
		},
		TotalAmount:   decimal.NewFromInt(9),
		PaymentMethod: "cash",
		Date:          at,
	})
	state.Customers = append(state.Customers, pos.Customer{
		ID: "c1", Name: "Ada", Email: "ada@example.com", CreatedAt: at,
	})
	state.StockTransactions = append(state.StockTransactions, pos.StockTransaction{
		ID: "t1", ProductID: "p1", Type: pos.TxOut, Quantity: 2, Reason: "sale s1", Date: at,
	})
	return state
}

func TestLoad_MissingFile_ReturnsEmptyState(t *testing.T) {
	// Fail-open: a fresh deployment has no document and no error.
	store, err := jsonfile.New(t.TempDir())
	require.NoError(t, err)

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Products)
	assert.Empty(t, state.Sales)
	assert.Empty(t, state.Customers)
	assert.Empty(t, state.StockTransactions)
}

func TestLoad_CorruptFile_ReturnsEmptyState(t *testing.T) {
	dir := t.TempDir()
	store, err := jsonfile.New(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o644))

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Products)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store, err := jsonfile.New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	want := sampleState()
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveLoad_PersistedDocumentIsStable(t *testing.T) {
	// save(load()) must be a no-op on the document bytes.
	store, err := jsonfile.New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleState()))
	first, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, loaded))

	second, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestSave_ReplacesWholeDocument(t *testing.T) {
	// Last writer wins: a save with fewer records leaves no trace of the old.
	store, err := jsonfile.New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleState()))
	require.NoError(t, store.Save(ctx, pos.NewState()))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Products)
	assert.Empty(t, got.Sales)
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := jsonfile.New(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), sampleState()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(store.Path()), entries[0].Name())
}
