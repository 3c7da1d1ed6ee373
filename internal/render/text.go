// Package render prints run results as plain text tables. It is a thin
// wrapper around the report views; all ordering and money math happens
// upstream.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jastipin/billing/internal/models"
)

// Currency formats rupiah the way the reports are read locally:
// 1989000 -> "Rp. 1.989.000,-".
func Currency(amount int64) string {
	digits := fmt.Sprintf("%d", amount)
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "Rp. " + b.String() + ",-"
	if neg {
		out = "-" + out
	}
	return out
}

// Write prints all four views plus diagnostics to w.
func Write(w io.Writer, res *models.RunResult) error {
	if err := writeBilling(w, res.Billing); err != nil {
		return err
	}
	if err := writeSpenders(w, res.TopSpenders); err != nil {
		return err
	}
	if err := writeItems(w, res.TopItems); err != nil {
		return err
	}
	if err := writeRevenue(w, res.Revenue); err != nil {
		return err
	}
	return writeDiagnostics(w, res.Diagnostics)
}

func writeBilling(w io.Writer, billing models.BillingReport) error {
	fmt.Fprintln(w, "== Billing Report ==")
	for _, bill := range billing.Customers {
		fmt.Fprintf(w, "\n%s", bill.Customer)
		if bill.Phone != "" {
			fmt.Fprintf(w, " (%s)", bill.Phone)
		}
		fmt.Fprintln(w)

		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  No\tItem\tQty\tUnit Price\tSubtotal")
		for i, line := range bill.Lines {
			price, subtotal := Currency(line.UnitPrice), Currency(line.Subtotal)
			if line.Unpriced {
				price, subtotal = "unpriced", "-"
			}
			fmt.Fprintf(tw, "  %d\t%s\t%d\t%s\t%s\n", i+1, line.ItemName, line.Quantity, price, subtotal)
		}
		fmt.Fprintf(tw, "  \tGRAND TOTAL\t\t\t%s\n", Currency(bill.Total))
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	fmt.Fprintln(w)
	return nil
}

func writeSpenders(w io.Writer, spenders []models.SpenderRank) error {
	fmt.Fprintf(w, "== Top %d Spenders ==\n", len(spenders))
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  No\tCustomer\tPhone\tTotal")
	for i, s := range spenders {
		phone := s.Phone
		if phone == "" {
			phone = "-"
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", i+1, s.Customer, phone, Currency(s.Total))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

func writeItems(w io.Writer, items []models.ItemRank) error {
	fmt.Fprintf(w, "== Top %d Items ==\n", len(items))
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  No\tItem\tQty\tUnit Price\tRevenue")
	for i, r := range items {
		fmt.Fprintf(tw, "  %d\t%s\t%d\t%s\t%s\n", i+1, r.Item, r.Quantity, Currency(r.UnitPrice), Currency(r.Revenue))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

func writeRevenue(w io.Writer, rev models.RevenueSummary) error {
	fmt.Fprintln(w, "== Revenue Summary ==")
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  Total Revenue\t%s\n", Currency(rev.TotalRevenue))
	fmt.Fprintf(tw, "  Items Sold\t%d\n", rev.ItemsSold)
	fmt.Fprintf(tw, "  Total Quantity\t%d\n", rev.TotalQuantity)
	fmt.Fprintf(tw, "  Customers\t%d\n", rev.CustomerCount)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n  Revenue per item:")
	tw = tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for i, r := range rev.Detail {
		fmt.Fprintf(tw, "  %d\t%s\t%d\t%s\n", i+1, r.Item, r.Quantity, Currency(r.Revenue))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

func writeDiagnostics(w io.Writer, diags []models.Diagnostic) error {
	if len(diags) == 0 {
		return nil
	}
	fmt.Fprintf(w, "== Diagnostics (%d) ==\n", len(diags))
	for _, d := range diags {
		if _, err := fmt.Fprintf(w, "  line %d: %s: %s\n", d.Line, d.Kind, d.Message); err != nil {
			return err
		}
	}
	return nil
}
