package pos

import (
	"errors"
	"fmt"

	"mercadinho/models"
)

var (
	ErrEmptyBarcode    = errors.New("informe um código de barras")
	ErrInvalidQuantity = errors.New("quantidade inválida")
	ErrEmptyCart       = errors.New("carrinho está vazio")
)

// InsufficientStockError is returned when a cart line would exceed the
// cached stock for the product.
type InsufficientStockError struct {
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("estoque insuficiente para %s (disponível: %d)", e.Name, e.Available)
}

// AddToCart merges qty units of the product into the cart. The unit price is
// snapshotted on the first add of a barcode and kept on later merges. The
// combined quantity is checked against the product's cached stock; on
// rejection the cart is returned unchanged.
func AddToCart(cart []models.CartLine, p models.Product, qty int) ([]models.CartLine, error) {
	if qty <= 0 {
		return cart, ErrInvalidQuantity
	}

	for i, line := range cart {
		if line.Barcode != p.Barcode {
			continue
		}
		combined := line.Quantity + qty
		if combined > p.Quantity {
			return cart, &InsufficientStockError{Name: p.Name, Available: p.Quantity}
		}
		out := make([]models.CartLine, len(cart))
		copy(out, cart)
		out[i].Quantity = combined
		out[i].Total = float64(combined) * out[i].UnitPrice
		return out, nil
	}

	if qty > p.Quantity {
		return cart, &InsufficientStockError{Name: p.Name, Available: p.Quantity}
	}

	unit := p.Price.Float64()
	return append(append([]models.CartLine{}, cart...), models.CartLine{
		Barcode:   p.Barcode,
		Name:      p.Name,
		Quantity:  qty,
		UnitPrice: unit,
		Total:     float64(qty) * unit,
	}), nil
}

// DecrementLine removes one unit of the barcode, dropping the line when it
// reaches zero. Unknown barcodes leave the cart unchanged.
func DecrementLine(cart []models.CartLine, barcode string) []models.CartLine {
	for i, line := range cart {
		if line.Barcode != barcode {
			continue
		}
		out := make([]models.CartLine, len(cart))
		copy(out, cart)
		if line.Quantity <= 1 {
			return append(out[:i], out[i+1:]...)
		}
		out[i].Quantity--
		out[i].Total = float64(out[i].Quantity) * out[i].UnitPrice
		return out
	}
	return cart
}

// CartTotals sums item count and value across the cart.
func CartTotals(cart []models.CartLine) (items int, total float64) {
	for _, line := range cart {
		items += line.Quantity
		total += line.Total
	}
	return items, total
}
