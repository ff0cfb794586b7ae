package dataset

import (
	"testing"

	"houseboard/internal/model"
)

func TestDecodeFirstSheet(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Name", "Latitude", "Longitude", "Price", "URL"},
		{"Loft", 40.7, -74.0, 500000, "https://example.com/loft"},
		{"Cabin", "34.05", nil, "$1,200,000"},
		{nil, nil, nil, nil},
	})

	ds, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(ds) != 2 {
		t.Fatalf("len(ds)=%d, want 2 (blank row skipped)", len(ds))
	}

	first := ds[0]
	if got := first.Keys(); len(got) != 5 || got[0] != "Name" || got[4] != "URL" {
		t.Fatalf("first row keys=%v", got)
	}
	if v, _ := first.Get("Latitude"); v != 40.7 {
		t.Fatalf("Latitude=%#v, want float64 40.7", v)
	}
	if v, _ := first.Get("Price"); v != float64(500000) {
		t.Fatalf("Price=%#v, want float64 500000", v)
	}

	second := ds[1]
	if v, _ := second.Get("Latitude"); v != "34.05" {
		t.Fatalf("text cell should stay a string, got %#v", v)
	}
	if _, ok := second.Get("Longitude"); ok {
		t.Fatalf("empty cell should be absent")
	}
	if v, _ := second.Get("Price"); v != "$1,200,000" {
		t.Fatalf("Price=%#v", v)
	}
}

func TestDecodeInvalidBytes(t *testing.T) {
	if _, err := Decode([]byte("definitely not a workbook")); err == nil {
		t.Fatalf("Decode should fail on invalid bytes")
	}
}

func TestDecodeHeaderOnly(t *testing.T) {
	ds, err := Decode(buildWorkbook(t, [][]interface{}{{"Name", "Price"}}))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(ds) != 0 {
		t.Fatalf("len(ds)=%d, want 0", len(ds))
	}
}

func TestHeaderKeys(t *testing.T) {
	got := headerKeys([]string{"Name", "", "Name", " ", "Name", "Price"})
	want := []string{"Name", "__EMPTY", "Name_1", "__EMPTY_1", "Name_2", "Price"}
	if len(got) != len(want) {
		t.Fatalf("headerKeys=%v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("headerKeys=%v, want %v", got, want)
		}
	}
}

func TestNewRowIsImmutable(t *testing.T) {
	keys := []string{"Name"}
	values := map[string]any{"Name": "A"}
	r := model.NewRow(keys, values)

	keys[0] = "Other"
	values["Name"] = "B"
	r.Keys()[0] = "Mutated"

	if v, _ := r.Get("Name"); v != "A" || r.Keys()[0] != "Name" {
		t.Fatalf("row changed after construction: %v %v", r.Keys(), v)
	}
}
