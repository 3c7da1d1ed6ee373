package models

// Item represents a product defined by an item line in the transcript.
type Item struct {
	// Name is the item description with the price fragment and any trailing
	// note removed. Trimmed, original casing preserved.
	Name string `json:"name"`

	// UnitPrice is the parsed price in rupiah (smallest currency unit).
	// Zero when Unpriced is true.
	UnitPrice int64 `json:"unit_price"`

	// Unpriced marks an item whose price fragment could not be converted.
	// Unpriced items keep their quantities but are excluded from all
	// revenue math.
	Unpriced bool `json:"unpriced,omitempty"`
}

// Customer represents a resolved buyer identity.
//
// Two raw labels with the same canonical key always resolve to the same
// Customer within a run. The first label seen fixes DisplayName and Phone.
type Customer struct {
	// Key is the canonical identity: normalized phone digits when a phone
	// is present, else the lowercased whitespace-collapsed name.
	Key string `json:"key"`

	// DisplayName is the first-seen original spelling of the name.
	DisplayName string `json:"display_name"`

	// Phone is the normalized phone number ("08..." digits only),
	// empty when the customer never supplied one.
	Phone string `json:"phone,omitempty"`
}

// LedgerEntry is one (customer, item, note) fact. Repeated billable marks
// for the same triple increment Quantity instead of adding entries.
type LedgerEntry struct {
	// CustomerKey references a Customer by canonical key.
	CustomerKey string `json:"customer_key"`

	// ItemIndex references an Item by position in the Ledger catalog.
	ItemIndex int `json:"item_index"`

	// Note is an optional per-entry annotation extracted from the customer
	// line (e.g. a color choice). Entries with different notes stay separate
	// billing lines for the same item.
	Note string `json:"note,omitempty"`

	// Quantity is the accumulated count, always >= 1.
	Quantity int64 `json:"quantity"`
}

// DiagnosticKind classifies a non-fatal parsing anomaly.
type DiagnosticKind string

const (
	// DiagUnparsablePrice: an item line's price fragment failed conversion;
	// the item is recorded unpriced.
	DiagUnparsablePrice DiagnosticKind = "unparsable_price"

	// DiagAnonymousMark: a billable customer mark whose label yields no
	// name and no phone; there is no identity to charge.
	DiagAnonymousMark DiagnosticKind = "anonymous_mark"

	// DiagOrphanedMark: a billable customer mark appeared before any item
	// was defined; the mark was skipped.
	DiagOrphanedMark DiagnosticKind = "orphaned_mark"
)

// Diagnostic records one non-fatal anomaly found while parsing.
// Diagnostics accompany the Ledger so callers can warn without losing
// the best-effort report.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Line    int            `json:"line"`
	Message string         `json:"message"`
}

// Ledger is the complete fact set for one run: the item catalog, the
// customer registry, the accumulated entries, and any diagnostics.
// It is mutated only by the ledger builder and read-only afterwards.
type Ledger struct {
	// Items in definition order.
	Items []Item `json:"items"`

	// Customers in first-seen order.
	Customers []Customer `json:"customers"`

	// Entries in first-appearance order.
	Entries []LedgerEntry `json:"entries"`

	// Diagnostics in occurrence order.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// CustomerByKey returns the customer with the given canonical key,
// or nil if the key is unknown.
func (l *Ledger) CustomerByKey(key string) *Customer {
	for i := range l.Customers {
		if l.Customers[i].Key == key {
			return &l.Customers[i]
		}
	}
	return nil
}
