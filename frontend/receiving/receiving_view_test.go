package receiving

import (
	"strings"
	"testing"

	"mercadinho/models"
)

func TestReceivingQuantityDefaultsToOne(t *testing.T) {
	restock := renderReceivingForm(models.ReceivingState{
		Mode:    models.ReceivingRestock,
		Product: &models.Product{Barcode: "789", Name: "Café Forte", Quantity: 10},
	})
	if !strings.Contains(restock, `name="quantidade" min="1" value="1"`) {
		t.Fatal("restock quantity should default to 1")
	}

	create := renderReceivingForm(models.ReceivingState{
		Mode:    models.ReceivingNewProduct,
		Product: &models.Product{Barcode: "999"},
	})
	if !strings.Contains(create, `name="quantidade" min="1" value="1"`) {
		t.Fatal("new-product quantity should default to 1")
	}

	idle := renderReceivingForm(models.ReceivingState{})
	if strings.Contains(idle, `value="1"`) {
		t.Fatal("idle form should not carry a quantity default")
	}
	if !strings.Contains(idle, `name="quantidade" min="1" disabled`) {
		t.Fatal("idle quantity input should be disabled")
	}
}
