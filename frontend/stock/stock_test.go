package stock

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"mercadinho/models"
)

func TestRowClass(t *testing.T) {
	cases := []struct {
		qty  int
		want string
	}{
		{qty: 0, want: "table-danger"},
		{qty: 1, want: "table-warning"},
		{qty: 5, want: "table-warning"},
		{qty: 6, want: ""},
		{qty: 100, want: ""},
	}
	for _, tc := range cases {
		if got := RowClass(tc.qty); got != tc.want {
			t.Errorf("RowClass(%d) = %q, want %q", tc.qty, got, tc.want)
		}
	}
}

func TestStockPageRendersRowClasses(t *testing.T) {
	data := PageData{
		Products: []models.Product{
			{Barcode: "1", Name: "Cheio", Quantity: 10},
			{Barcode: "2", Name: "Baixo", Quantity: 4},
			{Barcode: "3", Name: "Vazio", Quantity: 0},
		},
	}
	out := StockPage(data)
	if !strings.Contains(out, `<tr class="table-warning">`) {
		t.Fatal("low-stock row class missing")
	}
	if !strings.Contains(out, `<tr class="table-danger">`) {
		t.Fatal("empty-stock row class missing")
	}
}

func TestStockPageEscapesProductFields(t *testing.T) {
	data := PageData{
		Products: []models.Product{{Barcode: "1", Name: `<script>alert(1)</script>`, Quantity: 1}},
	}
	out := StockPage(data)
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Fatal("product name not escaped")
	}
}

func TestRenderProductLabelPDF(t *testing.T) {
	p := models.Product{Barcode: "7891000100103", Name: "Café Forte", Category: "Mercearia", Price: 18.9, Quantity: 12}
	pdfBytes, err := renderProductLabelPDF(p, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("render label: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}
