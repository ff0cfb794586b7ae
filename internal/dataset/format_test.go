package dataset

import "testing"

func TestFormatting(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"small number", FormatNumber(999), "999"},
		{"fraction", FormatNumber(12.5), "12.5"},
		{"thousand", FormatNumber(1000), "1,000"},
		{"grouped fraction", FormatNumber(1234567.25), "1,234,567.25"},
		{"currency", FormatCurrency(500000), "$500,000"},
		{"currency rounds cents", FormatCurrency(1999.6), "$2,000"},
		{"negative currency", FormatCurrency(-1500), "-$1,500"},
		{"price string", FormatPrice("$1,200,000"), "$1,200,000"},
		{"price number", FormatPrice(750.0), "$750"},
		{"price text", FormatPrice("Call for price"), "Call for price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestLinkTarget(t *testing.T) {
	if _, ok := linkTarget("https://example.com/listing/1"); !ok {
		t.Fatalf("https url should be a link")
	}
	for _, v := range []any{"example.com", "javascript:alert(1)", "https://", 12.0} {
		if _, ok := linkTarget(v); ok {
			t.Fatalf("%v should not be a link", v)
		}
	}
}

func TestIsPriceColumn(t *testing.T) {
	for _, k := range []string{"Price", "price", "List Price", "PRICE_USD"} {
		if !IsPriceColumn(k) {
			t.Fatalf("%q should be price-like", k)
		}
	}
	if IsPriceColumn("Beds") {
		t.Fatalf("Beds is not price-like")
	}
}
