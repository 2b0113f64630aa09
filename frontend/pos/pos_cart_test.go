package pos

import (
	"errors"
	"testing"

	"mercadinho/models"
)

func coffee() models.Product {
	return models.Product{Barcode: "789", Name: "Café Forte", Price: 18.9, Quantity: 10}
}

func TestAddToCartMergesAndChecksStock(t *testing.T) {
	p := coffee()

	cart, err := AddToCart(nil, p, 3)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	cart, err = AddToCart(cart, p, 4)
	if err != nil {
		t.Fatalf("merge add: %v", err)
	}
	if len(cart) != 1 || cart[0].Quantity != 7 {
		t.Fatalf("cart = %+v", cart)
	}

	// 7 in cart + 5 would exceed the 10 in stock.
	after, err := AddToCart(cart, p, 5)
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Available != 10 {
		t.Fatalf("available = %d", stockErr.Available)
	}
	if len(after) != 1 || after[0].Quantity != 7 {
		t.Fatalf("rejected add must not change the cart: %+v", after)
	}
}

func TestAddToCartSnapshotsPrice(t *testing.T) {
	p := coffee()
	cart, err := AddToCart(nil, p, 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	// A price change between adds must not affect the existing line.
	p.Price = 25
	cart, err = AddToCart(cart, p, 1)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if cart[0].UnitPrice != 18.9 {
		t.Fatalf("unit price = %v, want snapshot 18.9", cart[0].UnitPrice)
	}
	if cart[0].Total != 2*18.9 {
		t.Fatalf("total = %v", cart[0].Total)
	}
}

func TestAddToCartRejectsBadQuantity(t *testing.T) {
	if _, err := AddToCart(nil, coffee(), 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("qty 0: %v", err)
	}
	if _, err := AddToCart(nil, coffee(), -2); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("qty -2: %v", err)
	}
}

func TestDecrementLine(t *testing.T) {
	cart, _ := AddToCart(nil, coffee(), 2)

	cart = DecrementLine(cart, "789")
	if len(cart) != 1 || cart[0].Quantity != 1 {
		t.Fatalf("after first decrement: %+v", cart)
	}
	if cart[0].Total != 18.9 {
		t.Fatalf("total = %v", cart[0].Total)
	}

	// Reaching zero removes the line entirely.
	cart = DecrementLine(cart, "789")
	if len(cart) != 0 {
		t.Fatalf("line should be removed: %+v", cart)
	}

	cart = DecrementLine(cart, "missing")
	if len(cart) != 0 {
		t.Fatalf("unknown barcode should be a no-op: %+v", cart)
	}
}

func TestCartTotals(t *testing.T) {
	p2 := models.Product{Barcode: "123", Name: "Arroz", Price: 7.5, Quantity: 5}
	cart, _ := AddToCart(nil, coffee(), 2)
	cart, _ = AddToCart(cart, p2, 1)

	items, total := CartTotals(cart)
	if items != 3 {
		t.Fatalf("items = %d", items)
	}
	if total != 2*18.9+7.5 {
		t.Fatalf("total = %v", total)
	}
}
