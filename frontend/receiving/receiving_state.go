// Package receiving is the goods-in page. A barcode lookup decides between
// registering a new product and topping up an existing one; the form mode
// lives in the terminal session until submit or reset.
package receiving

import (
	"errors"
	"fmt"

	"mercadinho/infrastructure/backend"
	"mercadinho/models"
)

var ErrInvalidTopUp = errors.New("quantidade a adicionar deve ser maior que zero")

// NextState decides the form mode from a lookup result: a found product
// means restock, a backend 404 means a fresh registration, and any other
// failure keeps the form idle.
func NextState(p *models.Product, lookupErr error) (models.ReceivingState, error) {
	switch {
	case lookupErr == nil:
		return models.ReceivingState{Mode: models.ReceivingRestock, Product: p}, nil
	case errors.Is(lookupErr, backend.ErrNotFound):
		return models.ReceivingState{Mode: models.ReceivingNewProduct}, nil
	default:
		return models.ReceivingState{Mode: models.ReceivingIdle}, lookupErr
	}
}

// SubmitLabel returns the submit button text and icon for a form mode.
func SubmitLabel(mode models.ReceivingMode) (text, icon string) {
	switch mode {
	case models.ReceivingNewProduct:
		return "Cadastrar Novo Produto", "bi-save"
	case models.ReceivingRestock:
		return "Adicionar ao Estoque", "bi-plus-circle"
	default:
		return "Digite um código para começar", "bi-search"
	}
}

// RestockTotal computes the new stock level for a top-up. Zero or negative
// deltas are rejected; removing stock is not a receiving operation.
func RestockTotal(current, delta int) (int, error) {
	if delta <= 0 {
		return 0, ErrInvalidTopUp
	}
	return current + delta, nil
}

// RestockMessage is the confirmation shown after a successful top-up.
func RestockMessage(name string, total int) string {
	return fmt.Sprintf("%s: estoque atualizado para %d unidades.", name, total)
}
