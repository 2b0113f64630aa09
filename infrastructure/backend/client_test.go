package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mercadinho/models"
)

func newFakeBackend(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/estoque", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"codigo_barras":"789","nome":"Café","descricao":"500g","categoria":"Mercearia","preco":"18,90","quantidade":12},
			{"codigo_barras":"123","nome":"Arroz","descricao":"","categoria":"Mercearia","preco":7.5,"quantidade":3}
		]`))
	})
	mux.HandleFunc("GET /api/produto/{barcode}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.PathValue("barcode") != "789" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"erro": "Produto não encontrado"}`))
			return
		}
		w.Write([]byte(`{"codigo_barras":"789","nome":"Café","descricao":"500g","categoria":"Mercearia","preco":"18,90","quantidade":12}`))
	})
	mux.HandleFunc("POST /api/venda", func(w http.ResponseWriter, r *http.Request) {
		var req saleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Items) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"erro": "Carrinho vazio"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id_venda": 42}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, New(srv.URL)
}

func TestFetchStockDecodesMixedPriceFormats(t *testing.T) {
	_, client := newFakeBackend(t)

	products, err := client.FetchStock(context.Background())
	if err != nil {
		t.Fatalf("FetchStock: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}
	if products[0].Price.Float64() != 18.9 {
		t.Fatalf("comma price = %v, want 18.9", products[0].Price)
	}
	if products[1].Price.Float64() != 7.5 {
		t.Fatalf("number price = %v, want 7.5", products[1].Price)
	}
}

func TestFetchProductNotFound(t *testing.T) {
	_, client := newFakeBackend(t)

	if _, err := client.FetchProduct(context.Background(), "000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	p, err := client.FetchProduct(context.Background(), "789")
	if err != nil {
		t.Fatalf("FetchProduct: %v", err)
	}
	if p.Name != "Café" {
		t.Fatalf("name = %q", p.Name)
	}
}

func TestSubmitSale(t *testing.T) {
	_, client := newFakeBackend(t)

	id, err := client.SubmitSale(context.Background(), []models.CartLine{
		{Barcode: "789", Name: "Café", Quantity: 2, UnitPrice: 18.9, Total: 37.8},
	})
	if err != nil {
		t.Fatalf("SubmitSale: %v", err)
	}
	if id != "42" {
		t.Fatalf("sale id = %q, want 42", id)
	}

	if _, err := client.SubmitSale(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty sale")
	}
}

func TestAPIErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).FetchStock(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d", apiErr.Status)
	}
	if apiErr.Message != "erro do servidor (status 500)" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}
