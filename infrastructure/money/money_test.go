package money

import (
	"encoding/json"
	"testing"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "10,50", want: 10.5},
		{in: "10.50", want: 10.5},
		{in: " 3,99 ", want: 3.99},
		{in: "7", want: 7},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1,2,3", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParsePrice(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParsePrice(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParsePrice(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePrice(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(10.5); got != "10.50" {
		t.Fatalf("FormatPrice(10.5) = %q", got)
	}
	if got := FormatPrice(0); got != "0.00" {
		t.Fatalf("FormatPrice(0) = %q", got)
	}
}

func TestDecimalUnmarshal(t *testing.T) {
	var payload struct {
		Price Decimal `json:"preco"`
	}

	if err := json.Unmarshal([]byte(`{"preco": "10,50"}`), &payload); err != nil {
		t.Fatalf("unmarshal comma string: %v", err)
	}
	if payload.Price.Float64() != 10.5 {
		t.Fatalf("comma string price = %v, want 10.5", payload.Price)
	}

	if err := json.Unmarshal([]byte(`{"preco": 4.25}`), &payload); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if payload.Price.Float64() != 4.25 {
		t.Fatalf("number price = %v, want 4.25", payload.Price)
	}

	if err := json.Unmarshal([]byte(`{"preco": "x"}`), &payload); err == nil {
		t.Fatalf("expected error for malformed price")
	}
}
