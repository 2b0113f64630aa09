// Package stock is the stock browser page: a filterable table over the
// cached stock snapshot with an inline edit modal and product labels.
package stock

import (
	"mercadinho/frontend/shared/notify"
	"mercadinho/models"
)

// PageData feeds the stock browser renderer.
type PageData struct {
	Products []models.Product
	Query    string

	// LoadError renders as an inline table row when the backend refresh
	// failed and the page fell back to whatever snapshot it had.
	LoadError string

	// Edit holds the form values for the edit modal. When EditOpen is true
	// the modal is shown on load, including after a failed save.
	Edit      EditForm
	EditOpen  bool
	EditError string

	Flash    notify.Flash
	HasFlash bool
}

// EditForm carries the mutable product fields as entered.
type EditForm struct {
	Barcode     string
	Name        string
	Description string
	Category    string
	Price       string
	Quantity    string
}

// RowClass maps a stock quantity to the table row style: empty stock is
// flagged red, five units or fewer amber.
func RowClass(qty int) string {
	switch {
	case qty == 0:
		return "table-danger"
	case qty <= 5:
		return "table-warning"
	default:
		return ""
	}
}
