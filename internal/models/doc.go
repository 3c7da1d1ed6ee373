// Package models defines the core domain models for the jastip billing
// pipeline.
//
// # Ledger Models
//
// The parsing pass produces a Ledger, the single source of truth for one run:
//   - Item: a product defined by an item line, with its parsed unit price
//   - Customer: a resolved buyer identity (phone-or-name canonical key)
//   - LedgerEntry: one (customer, item, note) fact with an accumulated quantity
//   - Diagnostic: a non-fatal parsing anomaly attached to the run
//
// # Report Models
//
// The aggregator derives read-only views from a completed Ledger:
//   - BillingReport: per-customer itemized bills with grand totals
//   - SpenderRank / ItemRank: leaderboard rows for top spenders and top items
//   - RevenueSummary: overall revenue totals with per-item detail
//
// # Design Principles
//
//  1. **One run, one Ledger**: nothing here persists across invocations;
//     the optional run archive stores snapshots, never live state.
//  2. **Plain serializable structs**: report views carry JSON tags so the
//     rendering layer and the HTTP API consume the same shapes.
//  3. **Integer money**: all amounts are int64 rupiah (smallest unit);
//     fractional arithmetic happens only inside the price parser.
//  4. **Avoid circular references**: entries reference customers by key and
//     items by catalog index instead of pointers.
package models
