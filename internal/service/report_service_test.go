package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jastipin/billing/internal/storage/sqlite"
)

const sampleTranscript = `Product A 125rb
- [x] Alice +62 812-0000-0001
- [x] Alice +62 812-0000-0001
- [x] Bob +62 812-0000-0002

Product B 3,4jt
- [x] Bob +62 812-0000-0002
- [ ] Caca

Product REQUEST cek harga
Product Z 999rb
- [x] Zed
`

func TestGenerate(t *testing.T) {
	svc := NewReportService(nil)
	ctx := context.Background()

	res, err := svc.Generate(ctx, sampleTranscript, GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(res.Billing.Customers) != 2 {
		t.Fatalf("expected 2 billed customers, got %d", len(res.Billing.Customers))
	}
	if res.Billing.Customers[0].Customer != "Alice" || res.Billing.Customers[0].Total != 250_000 {
		t.Errorf("Alice bill = %+v", res.Billing.Customers[0])
	}
	if res.Billing.Customers[1].Customer != "Bob" || res.Billing.Customers[1].Total != 3_525_000 {
		t.Errorf("Bob bill = %+v", res.Billing.Customers[1])
	}

	if res.TopSpenders[0].Customer != "Bob" {
		t.Errorf("top spender = %+v, want Bob", res.TopSpenders[0])
	}
	if res.Revenue.TotalRevenue != 3_775_000 {
		t.Errorf("total revenue = %d, want 3775000", res.Revenue.TotalRevenue)
	}
	if res.RunID != "" {
		t.Errorf("run should not be archived without Save, got id %q", res.RunID)
	}
	// Nothing under the skip heading may bill.
	for _, s := range res.TopSpenders {
		if s.Customer == "Zed" {
			t.Error("skip-section customer leaked into the report")
		}
	}
}

func TestGenerateNoInput(t *testing.T) {
	svc := NewReportService(nil)
	for _, input := range []string{"", "   \n\t\n"} {
		if _, err := svc.Generate(context.Background(), input, GenerateOptions{}); !errors.Is(err, ErrNoInput) {
			t.Errorf("Generate(%q) error = %v, want ErrNoInput", input, err)
		}
	}
}

func TestGenerateSaveWithoutStore(t *testing.T) {
	svc := NewReportService(nil)
	_, err := svc.Generate(context.Background(), sampleTranscript, GenerateOptions{Save: true})
	if !errors.Is(err, ErrArchiveDisabled) {
		t.Errorf("expected ErrArchiveDisabled, got %v", err)
	}
}

func TestGenerateArchivesRun(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "billing-service-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	store, err := sqlite.New(filepath.Join(tempDir, "runs.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	svc := NewReportService(store)
	ctx := context.Background()

	res, err := svc.Generate(ctx, sampleTranscript, GenerateOptions{Save: true, Source: "test"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.RunID == "" {
		t.Fatal("expected a run ID after archiving")
	}

	runs, err := svc.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != res.RunID || runs[0].Source != "test" {
		t.Errorf("archived runs = %+v, want one run %s from test", runs, res.RunID)
	}

	saved, err := store.GetRun(ctx, res.RunID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if len(saved.Ledger.Entries) == 0 {
		t.Error("archived ledger has no entries")
	}
	if !strings.Contains(saved.Ledger.Items[0].Name, "Product A") {
		t.Errorf("archived item name = %q", saved.Ledger.Items[0].Name)
	}
}
