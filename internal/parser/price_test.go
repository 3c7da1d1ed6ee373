package parser

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    int64
		wantOK  bool
	}{
		{
			name:   "thousand suffix",
			text:   "125rb",
			want:   125_000,
			wantOK: true,
		},
		{
			name:   "thousand suffix uppercase with space",
			text:   "Keripik 195 RB",
			want:   195_000,
			wantOK: true,
		},
		{
			name:   "million suffix with comma fraction",
			text:   "3,4jt",
			want:   3_400_000,
			wantOK: true,
		},
		{
			name:   "million suffix with period fraction",
			text:   "1.5jt",
			want:   1_500_000,
			wantOK: true,
		},
		{
			name:   "fully delimited",
			text:   "Tas kulit 1.989.000",
			want:   1_989_000,
			wantOK: true,
		},
		{
			name:   "delimited with fractional part truncates",
			text:   "1.989.000,9",
			want:   1_989_000,
			wantOK: true,
		},
		{
			name:   "first true price grammar wins over bare number",
			text:   "Product C isi 44 pcs 285rb",
			want:   285_000,
			wantOK: true,
		},
		{
			name:   "leftmost match wins across notations",
			text:   "Paket 1.250.000 bonus 125rb",
			want:   1_250_000,
			wantOK: true,
		},
		{
			name:   "bare number is not a price",
			text:   "isi 44 pcs",
			wantOK: false,
		},
		{
			name:   "short delimited-looking number is not a price",
			text:   "ukuran 1.5",
			wantOK: false,
		},
		{
			name:   "suffix requires word boundary",
			text:   "Bumbu 25rbx",
			wantOK: false,
		},
		{
			name:   "no numbers at all",
			text:   "Keranjang rotan",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ParsePrice(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParsePrice(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestFindPriceUnparsable(t *testing.T) {
	m, ok := FindPrice("Barang 99999999999999999999rb")
	if !ok {
		t.Fatal("expected the fragment to match the thousand-suffix grammar")
	}
	if !m.Unparsable {
		t.Errorf("expected out-of-range amount to be flagged unparsable, got amount %d", m.Amount)
	}
}

func TestCleanItemName(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "price removed",
			line: "Product name isi 40 pcs 439rb",
			want: "Product name isi 40 pcs",
		},
		{
			name: "trailing note after price removed",
			line: "Sambal cumi 125rb (pedas)",
			want: "Sambal cumi",
		},
		{
			name: "delimited price removed",
			line: "Tas kulit 1.989.000",
			want: "Tas kulit",
		},
		{
			name: "million suffix removed",
			line: "Parfum refill 3,4jt",
			want: "Parfum refill",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanItemName(tt.line); got != tt.want {
				t.Errorf("CleanItemName(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}
