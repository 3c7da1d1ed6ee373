package models

// Run is an archived parsing run: the full Ledger snapshot plus metadata.
// Archiving is optional; the live pipeline never reads the archive.
type Run struct {
	// ID is the unique identifier for the run (UUID format).
	ID string `json:"id"`

	// Source labels where the input came from (file name, "http", ...).
	Source string `json:"source"`

	// CreatedAt is the Unix timestamp when the run was archived.
	CreatedAt int64 `json:"created_at"`

	Ledger *Ledger `json:"ledger"`
}

// RunSummary is the listing row for an archived run.
type RunSummary struct {
	ID              string `json:"id"`
	Source          string `json:"source"`
	CreatedAt       int64  `json:"created_at"`
	ItemCount       int    `json:"item_count"`
	CustomerCount   int    `json:"customer_count"`
	EntryCount      int    `json:"entry_count"`
	DiagnosticCount int    `json:"diagnostic_count"`
}
