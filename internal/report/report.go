// Package report derives the output views from a completed Ledger.
// Every function here is pure: the Ledger is never mutated.
package report

import (
	"sort"
	"strings"

	"github.com/jastipin/billing/internal/models"
	"github.com/jastipin/billing/internal/parser"
)

// DefaultTopN is the leaderboard size when the caller passes n <= 0.
const DefaultTopN = 5

// Billing groups entries per customer into itemized bills with grand totals.
// Customers sort alphabetically by display name (case-insensitive); within a
// customer, lines keep first-appearance order. Unpriced items show their
// quantity but contribute nothing to the total.
func Billing(l *models.Ledger) models.BillingReport {
	order := make([]string, 0)
	byCustomer := make(map[string]*models.CustomerBill)

	for _, e := range l.Entries {
		c := l.CustomerByKey(e.CustomerKey)
		if c == nil {
			continue
		}
		bill, ok := byCustomer[e.CustomerKey]
		if !ok {
			bill = &models.CustomerBill{
				Customer: c.DisplayName,
				Phone:    displayPhone(c.Phone),
			}
			byCustomer[e.CustomerKey] = bill
			order = append(order, e.CustomerKey)
		}
		bill.Lines = append(bill.Lines, billLine(l, e))
		bill.Total += bill.Lines[len(bill.Lines)-1].Subtotal
	}

	out := models.BillingReport{Customers: make([]models.CustomerBill, 0, len(order))}
	for _, key := range order {
		out.Customers = append(out.Customers, *byCustomer[key])
	}
	sort.SliceStable(out.Customers, func(i, j int) bool {
		return lessFold(out.Customers[i].Customer, out.Customers[j].Customer)
	})
	return out
}

// TopSpenders returns the n customers with the highest grand totals,
// descending, ties broken by display name ascending.
func TopSpenders(l *models.Ledger, n int) []models.SpenderRank {
	if n <= 0 {
		n = DefaultTopN
	}

	totals := make(map[string]int64)
	order := make([]string, 0)
	for _, e := range l.Entries {
		if _, ok := totals[e.CustomerKey]; !ok {
			order = append(order, e.CustomerKey)
		}
		totals[e.CustomerKey] += entrySubtotal(l, e)
	}

	ranks := make([]models.SpenderRank, 0, len(order))
	for _, key := range order {
		c := l.CustomerByKey(key)
		if c == nil {
			continue
		}
		ranks = append(ranks, models.SpenderRank{
			Customer: c.DisplayName,
			Phone:    displayPhone(c.Phone),
			Total:    totals[key],
		})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Total != ranks[j].Total {
			return ranks[i].Total > ranks[j].Total
		}
		return lessFold(ranks[i].Customer, ranks[j].Customer)
	})
	if len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks
}

// TopItems returns the n items with the highest quantity sold, descending,
// ties broken by item name ascending. Items never marked by anyone are
// omitted.
func TopItems(l *models.Ledger, n int) []models.ItemRank {
	if n <= 0 {
		n = DefaultTopN
	}
	ranks := itemRanks(l)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Quantity != ranks[j].Quantity {
			return ranks[i].Quantity > ranks[j].Quantity
		}
		return lessFold(ranks[i].Item, ranks[j].Item)
	})
	if len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks
}

// Revenue sums the whole run: total revenue, distinct items sold, total
// quantity, and buying-customer count, with a per-item breakdown sorted by
// revenue descending (name ascending on ties).
func Revenue(l *models.Ledger) models.RevenueSummary {
	buyers := make(map[string]struct{})
	for _, e := range l.Entries {
		buyers[e.CustomerKey] = struct{}{}
	}

	sum := models.RevenueSummary{
		CustomerCount: len(buyers),
		Detail:        itemRanks(l),
	}
	for _, r := range sum.Detail {
		sum.TotalRevenue += r.Revenue
		sum.TotalQuantity += r.Quantity
	}
	sum.ItemsSold = len(sum.Detail)

	sort.SliceStable(sum.Detail, func(i, j int) bool {
		if sum.Detail[i].Revenue != sum.Detail[j].Revenue {
			return sum.Detail[i].Revenue > sum.Detail[j].Revenue
		}
		return lessFold(sum.Detail[i].Item, sum.Detail[j].Item)
	})
	return sum
}

// itemRanks aggregates quantity and revenue per catalog item, keeping only
// items with at least one entry. Notes collapse back onto their item here.
func itemRanks(l *models.Ledger) []models.ItemRank {
	qty := make(map[int]int64)
	order := make([]int, 0)
	for _, e := range l.Entries {
		if _, ok := qty[e.ItemIndex]; !ok {
			order = append(order, e.ItemIndex)
		}
		qty[e.ItemIndex] += e.Quantity
	}

	ranks := make([]models.ItemRank, 0, len(order))
	for _, idx := range order {
		item := l.Items[idx]
		r := models.ItemRank{
			Item:     item.Name,
			Quantity: qty[idx],
		}
		if !item.Unpriced {
			r.UnitPrice = item.UnitPrice
			r.Revenue = item.UnitPrice * qty[idx]
		}
		ranks = append(ranks, r)
	}
	return ranks
}

func billLine(l *models.Ledger, e models.LedgerEntry) models.BillLine {
	item := l.Items[e.ItemIndex]
	name := item.Name
	if e.Note != "" {
		name += " (" + e.Note + ")"
	}
	line := models.BillLine{
		ItemName: name,
		Quantity: e.Quantity,
		Unpriced: item.Unpriced,
	}
	if !item.Unpriced {
		line.UnitPrice = item.UnitPrice
		line.Subtotal = item.UnitPrice * e.Quantity
	}
	return line
}

func entrySubtotal(l *models.Ledger, e models.LedgerEntry) int64 {
	item := l.Items[e.ItemIndex]
	if item.Unpriced {
		return 0
	}
	return item.UnitPrice * e.Quantity
}

func displayPhone(normalized string) string {
	if normalized == "" {
		return ""
	}
	return parser.FormatPhone(normalized)
}

func lessFold(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
