package receiving

import (
	"mercadinho/frontend/shared/notify"
	"mercadinho/models"
)

// PageData feeds the goods-in page renderer.
type PageData struct {
	State models.ReceivingState

	Flash    notify.Flash
	HasFlash bool
}
