// Package cache holds the in-process caches backing the terminal pages. The
// POS page and the stock browser each own their own StockCache instance so a
// refresh on one page never invalidates the other mid-interaction.
package cache

import (
	"strings"
	"sync"

	"mercadinho/models"
)

// StockCache is a snapshot of the backend stock collection. Replace swaps
// the whole snapshot; there is no per-item mutation.
type StockCache struct {
	mu       sync.RWMutex
	products []models.Product
	byCode   map[string]int
}

func NewStockCache() *StockCache {
	return &StockCache{byCode: make(map[string]int)}
}

// Replace installs a new snapshot, keeping backend order.
func (c *StockCache) Replace(products []models.Product) {
	byCode := make(map[string]int, len(products))
	for i, p := range products {
		byCode[p.Barcode] = i
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = products
	c.byCode = byCode
}

// All returns the snapshot in backend order.
func (c *StockCache) All() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Find looks a product up by exact barcode.
func (c *StockCache) Find(barcode string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byCode[barcode]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// FindByLabel resolves a quick-add label ("nome (cod: barras)") back to its
// product. The match is exact.
func (c *StockCache) FindByLabel(label string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.QuickAddLabel() == label {
			return p, true
		}
	}
	return models.Product{}, false
}

// Filter returns products whose name or barcode contains the term, case
// insensitive. An empty term returns the full snapshot. The snapshot itself
// is never modified, so filtering is freely repeatable.
func (c *StockCache) Filter(term string) []models.Product {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return c.All()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Barcode), needle) {
			out = append(out, p)
		}
	}
	return out
}

func (c *StockCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}
