package pos

import (
	"strings"
	"testing"

	"mercadinho/models"
)

func TestFinalizeButtonDisabledForEmptyCart(t *testing.T) {
	page := PosPage(PageData{})
	if !strings.Contains(page, `id="finalizar-btn" class="btn btn-success btn-lg" disabled`) {
		t.Fatal("finalize button should render disabled with an empty cart")
	}

	page = PosPage(PageData{Cart: []models.CartLine{
		{Barcode: "789", Name: "Café Forte", Quantity: 1, UnitPrice: 18.9, Total: 18.9},
	}})
	if strings.Contains(page, `id="finalizar-btn" class="btn btn-success btn-lg" disabled`) {
		t.Fatal("finalize button should be enabled with cart lines")
	}
	// Submitting disables the button so a double click cannot fire twice.
	if !strings.Contains(page, "finalizar-btn').disabled = true") {
		t.Fatal("finalize form should disable its button on submit")
	}
}
