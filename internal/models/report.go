package models

// BillLine is one item row on a customer's bill.
type BillLine struct {
	// ItemName is the catalog name, with the entry note appended when present.
	ItemName  string `json:"item_name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`

	// Unpriced lines carry quantity but no money.
	Unpriced bool `json:"unpriced,omitempty"`
}

// CustomerBill is one customer's itemized bill with grand total.
type CustomerBill struct {
	Customer string `json:"customer"`
	// Phone is display-formatted ("+62 812-3456-7890"), empty if unknown.
	Phone string     `json:"phone,omitempty"`
	Lines []BillLine `json:"lines"`
	Total int64      `json:"total"`
}

// BillingReport lists customer bills sorted alphabetically by display name
// (case-insensitive). Within a bill, lines follow first-appearance order.
type BillingReport struct {
	Customers []CustomerBill `json:"customers"`
}

// SpenderRank is one row of the top-spender leaderboard.
type SpenderRank struct {
	Customer string `json:"customer"`
	Phone    string `json:"phone,omitempty"`
	Total    int64  `json:"total"`
}

// ItemRank is one row of the top-item leaderboard and of the revenue detail.
type ItemRank struct {
	Item      string `json:"item"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Revenue   int64  `json:"revenue"`
}

// RevenueSummary aggregates the whole run: grand totals plus a per-item
// revenue breakdown sorted by revenue descending.
type RevenueSummary struct {
	TotalRevenue  int64      `json:"total_revenue"`
	ItemsSold     int        `json:"items_sold"`
	TotalQuantity int64      `json:"total_quantity"`
	CustomerCount int        `json:"customer_count"`
	Detail        []ItemRank `json:"detail"`
}

// RunResult bundles everything one run produces. It is the unit the
// renderer prints and the HTTP API serializes.
type RunResult struct {
	// RunID is set only when the run was archived.
	RunID       string         `json:"run_id,omitempty"`
	Billing     BillingReport  `json:"billing"`
	TopSpenders []SpenderRank  `json:"top_spenders"`
	TopItems    []ItemRank     `json:"top_items"`
	Revenue     RevenueSummary `json:"revenue"`
	Diagnostics []Diagnostic   `json:"diagnostics,omitempty"`
}
