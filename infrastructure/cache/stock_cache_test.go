package cache

import (
	"testing"
	"time"

	"mercadinho/models"
)

func sampleStock() []models.Product {
	return []models.Product{
		{Barcode: "789", Name: "Café Forte", Price: 18.9, Quantity: 12},
		{Barcode: "123", Name: "Arroz", Price: 7.5, Quantity: 3},
		{Barcode: "456", Name: "Feijão", Price: 9.2, Quantity: 0},
	}
}

func TestStockCacheFind(t *testing.T) {
	c := NewStockCache()
	c.Replace(sampleStock())

	p, ok := c.Find("123")
	if !ok || p.Name != "Arroz" {
		t.Fatalf("Find(123) = %v, %v", p, ok)
	}
	if _, ok := c.Find("999"); ok {
		t.Fatal("Find(999) should miss")
	}
}

func TestStockCacheFindByLabel(t *testing.T) {
	c := NewStockCache()
	c.Replace(sampleStock())

	p, ok := c.FindByLabel("Café Forte (cod: 789)")
	if !ok || p.Barcode != "789" {
		t.Fatalf("FindByLabel = %v, %v", p, ok)
	}
	if _, ok := c.FindByLabel("Café Forte"); ok {
		t.Fatal("partial label should not match")
	}
}

func TestStockCacheFilter(t *testing.T) {
	c := NewStockCache()
	c.Replace(sampleStock())

	// Case-insensitive match on name or barcode.
	if got := c.Filter("café"); len(got) != 1 || got[0].Barcode != "789" {
		t.Fatalf("Filter(café) = %v", got)
	}
	if got := c.Filter("45"); len(got) != 1 || got[0].Name != "Feijão" {
		t.Fatalf("Filter(45) = %v", got)
	}

	// Empty term returns everything in backend order.
	all := c.Filter("")
	if len(all) != 3 || all[0].Barcode != "789" || all[2].Barcode != "456" {
		t.Fatalf("Filter(\"\") = %v", all)
	}

	// Filtering never shrinks the snapshot: repeat after a no-match.
	if got := c.Filter("zzz"); len(got) != 0 {
		t.Fatalf("Filter(zzz) = %v", got)
	}
	if got := c.Filter("café"); len(got) != 1 {
		t.Fatalf("Filter(café) after miss = %v", got)
	}
	if c.Len() != 3 {
		t.Fatalf("Len = %d after filtering", c.Len())
	}
}

func TestSessionCacheExpiry(t *testing.T) {
	c := NewSessionCache()
	c.Add(&models.Session{ID: "live", ExpiresAt: time.Now().Add(time.Hour)})
	c.Add(&models.Session{ID: "stale", ExpiresAt: time.Now().Add(-time.Minute)})

	if _, ok := c.Find("live"); !ok {
		t.Fatal("live session should be found")
	}
	if _, ok := c.Find("stale"); ok {
		t.Fatal("expired session should be evicted")
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}

	c.Delete("live")
	if _, ok := c.Find("live"); ok {
		t.Fatal("deleted session should miss")
	}
}
