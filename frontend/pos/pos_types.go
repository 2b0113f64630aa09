package pos

import (
	"mercadinho/frontend/shared/notify"
	"mercadinho/models"
)

// PageData feeds the checkout page renderer.
type PageData struct {
	Cart     []models.CartLine
	Products []models.Product

	LookupCode  string
	Lookup      *models.Product
	LookupError string

	// SaleID is set right after a checkout so the page can offer the receipt.
	SaleID string

	Flash    notify.Flash
	HasFlash bool
}
