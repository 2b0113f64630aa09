package reports

import (
	"mercadinho/frontend/shared/notify"
	"mercadinho/infrastructure/backend"
	"mercadinho/models"
)

// PageData feeds the dashboard renderer. Each half of the page carries its
// own error so one failing report does not blank the other.
type PageData struct {
	Sales      Summary
	HasSales   bool
	SalesError string

	Stock      backend.StockReport
	HasStock   bool
	StockError string

	RecentOps []models.OpsLogEntry

	Flash    notify.Flash
	HasFlash bool
}
