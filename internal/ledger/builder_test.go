package ledger

import (
	"strings"
	"testing"

	"github.com/jastipin/billing/internal/models"
	"github.com/jastipin/billing/internal/parser"
)

func build(t *testing.T, lines ...string) *models.Ledger {
	t.Helper()
	return Build(parser.Tokenize(strings.Join(lines, "\n")))
}

func TestBuildUpsertsRepeatedMarks(t *testing.T) {
	l := build(t,
		"Product A 125rb",
		"- [x] Alice +62 812-0000-0001",
		"- [x] alice 0812 0000 0001",
	)

	if len(l.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(l.Entries))
	}
	if l.Entries[0].Quantity != 2 {
		t.Errorf("quantity = %d, want 2", l.Entries[0].Quantity)
	}
	if len(l.Customers) != 1 {
		t.Fatalf("expected 1 merged customer, got %d", len(l.Customers))
	}
	if l.Customers[0].DisplayName != "Alice" {
		t.Errorf("first-seen spelling should win, got %q", l.Customers[0].DisplayName)
	}
}

func TestBuildCurrentItemAdvances(t *testing.T) {
	l := build(t,
		"Product A 125rb",
		"- [x] Alice",
		"Product B 250rb",
		"- [x] Alice",
	)

	if len(l.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(l.Items))
	}
	if len(l.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(l.Entries))
	}
	if l.Entries[0].ItemIndex == l.Entries[1].ItemIndex {
		t.Error("marks under different items should reference different items")
	}
}

func TestBuildOrphanedMark(t *testing.T) {
	l := build(t,
		"- [x] Alice",
		"Product A 125rb",
		"- [x] Bob",
	)

	if len(l.Entries) != 1 {
		t.Fatalf("expected only Bob's entry, got %d entries", len(l.Entries))
	}
	if len(l.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(l.Diagnostics))
	}
	d := l.Diagnostics[0]
	if d.Kind != models.DiagOrphanedMark {
		t.Errorf("diagnostic kind = %q, want %q", d.Kind, models.DiagOrphanedMark)
	}
	if d.Line != 1 {
		t.Errorf("diagnostic line = %d, want 1", d.Line)
	}
}

func TestBuildUnparsablePrice(t *testing.T) {
	l := build(t,
		"Barang langka 99999999999999999999rb",
		"- [x] Alice",
	)

	if len(l.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(l.Items))
	}
	if !l.Items[0].Unpriced {
		t.Error("item with out-of-range price should be unpriced")
	}
	if len(l.Diagnostics) != 1 || l.Diagnostics[0].Kind != models.DiagUnparsablePrice {
		t.Errorf("expected one unparsable-price diagnostic, got %+v", l.Diagnostics)
	}
	// Marks against an unpriced item still accumulate quantity.
	if len(l.Entries) != 1 || l.Entries[0].Quantity != 1 {
		t.Errorf("expected one entry with quantity 1, got %+v", l.Entries)
	}
}

func TestBuildUncheckedMarksRegisterButDoNotBill(t *testing.T) {
	l := build(t,
		"Product A 125rb",
		"- [ ] Alice",
		"- Bob",
	)

	if len(l.Entries) != 0 {
		t.Fatalf("unchecked marks must not bill, got %d entries", len(l.Entries))
	}
	if len(l.Customers) != 2 {
		t.Errorf("unchecked marks should still register identities, got %d", len(l.Customers))
	}
	if len(l.Diagnostics) != 0 {
		t.Errorf("unchecked marks are not anomalies, got %+v", l.Diagnostics)
	}
}

func TestBuildNumberedMarksBill(t *testing.T) {
	l := build(t,
		"Product A 125rb",
		"1. Alice",
		"2. Bob",
	)

	if len(l.Entries) != 2 {
		t.Fatalf("numbered-list marks are billable, got %d entries", len(l.Entries))
	}
}

func TestBuildQuantityMarkerAndNotes(t *testing.T) {
	l := build(t,
		"Product A 125rb",
		"- [x] Alice (+10 box)",
		"- [x] Alice (warna merah)",
		"- [x] Alice (warna merah)",
	)

	if len(l.Entries) != 2 {
		t.Fatalf("expected separate entries for bare and noted lines, got %d", len(l.Entries))
	}
	if l.Entries[0].Quantity != 10 || l.Entries[0].Note != "" {
		t.Errorf("quantity-marker entry = %+v, want quantity 10 without note", l.Entries[0])
	}
	if l.Entries[1].Quantity != 2 || l.Entries[1].Note != "warna merah" {
		t.Errorf("noted entry = %+v, want quantity 2 with note", l.Entries[1])
	}
}

func TestBuildAnonymousMarksDoNotBill(t *testing.T) {
	// A checked mark with nothing to identify the buyer must not produce
	// an entry pointing at a customer that was never registered.
	for _, mark := range []string{"- [x]", "- [x] (ok)"} {
		l := build(t,
			"Product A 125rb",
			mark,
		)

		if len(l.Entries) != 0 {
			t.Errorf("%q: expected no entries, got %+v", mark, l.Entries)
		}
		if len(l.Customers) != 0 {
			t.Errorf("%q: expected no customers, got %+v", mark, l.Customers)
		}
		if len(l.Diagnostics) != 1 || l.Diagnostics[0].Kind != models.DiagAnonymousMark {
			t.Fatalf("%q: expected one anonymous-mark diagnostic, got %+v", mark, l.Diagnostics)
		}
		if l.Diagnostics[0].Line != 2 {
			t.Errorf("%q: diagnostic line = %d, want 2", mark, l.Diagnostics[0].Line)
		}
	}
}

func TestBuildSkipSectionProducesNoEntries(t *testing.T) {
	l := build(t,
		"Product REQUEST cek harga",
		"Product A 125rb",
		"- [x] Alice",
	)

	if len(l.Items) != 0 || len(l.Entries) != 0 {
		t.Errorf("skip section must not reach the ledger, got %d items, %d entries",
			len(l.Items), len(l.Entries))
	}
}
