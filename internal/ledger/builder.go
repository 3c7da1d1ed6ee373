// Package ledger builds the run Ledger from a token sequence in one
// linear pass.
package ledger

import (
	"fmt"

	"github.com/jastipin/billing/internal/models"
	"github.com/jastipin/billing/internal/parser"
)

type entryKey struct {
	customer string
	item     int
	note     string
}

// Build walks the tokens in order, maintaining the "current item" scan state
// locally. Billable marks upsert (customer, item, note) entries; repeated
// marks increment quantity. Anomalies become diagnostics on the Ledger, not
// errors: a partially malformed transcript still yields a report.
func Build(tokens []parser.Token) *models.Ledger {
	l := &models.Ledger{}
	customers := make(map[string]int)
	entries := make(map[entryKey]int)
	current := -1

	for _, tok := range tokens {
		switch tok.Kind {
		case parser.TokenItem:
			current = defineItem(l, tok)
		case parser.TokenMark:
			label := parser.ParseMarkLabel(tok.Text, tok.Checked)
			resolveCustomer(l, customers, label)
			if !tok.Billable {
				continue
			}
			if current < 0 {
				l.Diagnostics = append(l.Diagnostics, models.Diagnostic{
					Kind:    models.DiagOrphanedMark,
					Line:    tok.Line,
					Message: fmt.Sprintf("customer mark %q has no preceding item", label.Name),
				})
				continue
			}
			// A label with no name and no phone has no identity to charge.
			if label.Key == "" {
				l.Diagnostics = append(l.Diagnostics, models.Diagnostic{
					Kind:    models.DiagAnonymousMark,
					Line:    tok.Line,
					Message: "customer mark has no readable name or phone",
				})
				continue
			}
			upsertEntry(l, entries, entryKey{label.Key, current, label.Note}, label.Quantity)
		}
	}
	return l
}

func defineItem(l *models.Ledger, tok parser.Token) int {
	item := models.Item{Name: parser.CleanItemName(tok.Text)}
	m, ok := parser.FindPrice(tok.Text)
	if !ok || m.Unparsable {
		item.Unpriced = true
		l.Diagnostics = append(l.Diagnostics, models.Diagnostic{
			Kind:    models.DiagUnparsablePrice,
			Line:    tok.Line,
			Message: fmt.Sprintf("item %q has no parsable price", item.Name),
		})
	} else {
		item.UnitPrice = m.Amount
	}
	l.Items = append(l.Items, item)
	return len(l.Items) - 1
}

// resolveCustomer registers the identity on first sight; later labels with
// the same canonical key merge without touching the stored display name.
// Unchecked marks register too: they contribute identity bookkeeping even
// though they never bill.
func resolveCustomer(l *models.Ledger, index map[string]int, label parser.MarkLabel) {
	if label.Key == "" {
		return
	}
	if _, seen := index[label.Key]; seen {
		return
	}
	index[label.Key] = len(l.Customers)
	l.Customers = append(l.Customers, models.Customer{
		Key:         label.Key,
		DisplayName: label.Name,
		Phone:       label.Phone,
	})
}

func upsertEntry(l *models.Ledger, index map[entryKey]int, key entryKey, qty int64) {
	if i, ok := index[key]; ok {
		l.Entries[i].Quantity += qty
		return
	}
	index[key] = len(l.Entries)
	l.Entries = append(l.Entries, models.LedgerEntry{
		CustomerKey: key.customer,
		ItemIndex:   key.item,
		Note:        key.note,
		Quantity:    qty,
	})
}
