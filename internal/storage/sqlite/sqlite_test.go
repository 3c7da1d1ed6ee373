package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jastipin/billing/internal/models"
	"github.com/jastipin/billing/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "billing-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleLedger() *models.Ledger {
	return &models.Ledger{
		Items: []models.Item{
			{Name: "Product A", UnitPrice: 125_000},
			{Name: "Barang misterius", Unpriced: true},
		},
		Customers: []models.Customer{
			{Key: "081200000001", DisplayName: "Alice", Phone: "081200000001"},
			{Key: "bob", DisplayName: "Bob"},
		},
		Entries: []models.LedgerEntry{
			{CustomerKey: "081200000001", ItemIndex: 0, Quantity: 2},
			{CustomerKey: "bob", ItemIndex: 0, Note: "warna merah", Quantity: 1},
		},
		Diagnostics: []models.Diagnostic{
			{Kind: models.DiagUnparsablePrice, Line: 4, Message: "item \"Barang misterius\" has no parsable price"},
		},
	}
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("SaveRun generates ID and timestamp", func(t *testing.T) {
		run := &models.Run{Source: "input-file.txt", Ledger: sampleLedger()}
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
		if run.ID == "" {
			t.Error("Expected run ID to be generated")
		}
		if run.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetRun retrieves complete ledger", func(t *testing.T) {
		original := &models.Run{Source: "input-file.txt", Ledger: sampleLedger()}
		if err := store.SaveRun(ctx, original); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}

		retrieved, err := store.GetRun(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetRun failed: %v", err)
		}

		if retrieved.Source != original.Source {
			t.Errorf("Source mismatch: got %s, want %s", retrieved.Source, original.Source)
		}
		if len(retrieved.Ledger.Items) != 2 {
			t.Errorf("Items count = %d, want 2", len(retrieved.Ledger.Items))
		}
		if !retrieved.Ledger.Items[1].Unpriced {
			t.Error("Unpriced flag lost in round trip")
		}
		if len(retrieved.Ledger.Customers) != 2 {
			t.Errorf("Customers count = %d, want 2", len(retrieved.Ledger.Customers))
		}
		if len(retrieved.Ledger.Entries) != 2 {
			t.Errorf("Entries count = %d, want 2", len(retrieved.Ledger.Entries))
		}
		if retrieved.Ledger.Entries[1].Note != "warna merah" {
			t.Errorf("Note mismatch: got %q", retrieved.Ledger.Entries[1].Note)
		}
		if len(retrieved.Ledger.Diagnostics) != 1 {
			t.Errorf("Diagnostics count = %d, want 1", len(retrieved.Ledger.Diagnostics))
		}
		if retrieved.Ledger.Diagnostics[0].Kind != models.DiagUnparsablePrice {
			t.Errorf("Diagnostic kind = %q", retrieved.Ledger.Diagnostics[0].Kind)
		}
	})

	t.Run("GetRun returns ErrRunNotFound for unknown ID", func(t *testing.T) {
		_, err := store.GetRun(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("ListRuns returns summaries", func(t *testing.T) {
		runs, err := store.ListRuns(ctx)
		if err != nil {
			t.Fatalf("ListRuns failed: %v", err)
		}
		if len(runs) < 2 {
			t.Fatalf("expected at least 2 runs, got %d", len(runs))
		}
		for _, r := range runs {
			if r.ItemCount != 2 || r.CustomerCount != 2 || r.EntryCount != 2 || r.DiagnosticCount != 1 {
				t.Errorf("summary counts = %+v, want items=2 customers=2 entries=2 diagnostics=1", r)
			}
		}
	})

	t.Run("SaveRun rejects run without ledger", func(t *testing.T) {
		if err := store.SaveRun(ctx, &models.Run{Source: "empty"}); err == nil {
			t.Error("expected error for run without ledger")
		}
	})
}
