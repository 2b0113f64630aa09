// Package reports renders the sales and stock dashboards. Sales KPIs are
// aggregated here from the raw sale rows in a single pass; the stock KPIs
// arrive pre-aggregated from the backend.
package reports

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"mercadinho/infrastructure/backend"
	"mercadinho/infrastructure/money"
)

// Summary is the aggregate of one pass over the sale rows.
type Summary struct {
	TotalRevenue float64
	SaleCount    int
	QtyByProduct map[string]int
	RevenueByDay map[string]float64
	Skipped      int
}

// ProductQty pairs a product name with its total units sold.
type ProductQty struct {
	Name string
	Qty  int
}

// Aggregate folds the sale rows into a Summary. Rows with malformed numbers
// or timestamps are skipped with a warning rather than failing the report.
func Aggregate(rows []backend.SaleRow, log *slog.Logger) Summary {
	sum := Summary{
		QtyByProduct: make(map[string]int),
		RevenueByDay: make(map[string]float64),
	}
	saleIDs := make(map[string]struct{})

	for _, row := range rows {
		total, err := money.ParsePrice(row.Total.String())
		if err != nil {
			sum.Skipped++
			log.Warn("skipping malformed sale row", "sale_id", row.SaleID.String(), "total", row.Total.String())
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(row.Quantity.String()))
		if err != nil {
			sum.Skipped++
			log.Warn("skipping malformed sale row", "sale_id", row.SaleID.String(), "quantity", row.Quantity.String())
			continue
		}
		day, err := saleDay(row.Timestamp)
		if err != nil {
			sum.Skipped++
			log.Warn("skipping malformed sale row", "sale_id", row.SaleID.String(), "timestamp", row.Timestamp)
			continue
		}

		sum.TotalRevenue += total
		sum.RevenueByDay[day] += total
		sum.QtyByProduct[row.Product] += qty
		saleIDs[row.SaleID.String()] = struct{}{}
	}

	sum.SaleCount = len(saleIDs)
	return sum
}

// saleDay extracts the date part of a "2006-01-02 15:04:05" timestamp.
func saleDay(ts string) (string, error) {
	day, _, _ := strings.Cut(strings.TrimSpace(ts), " ")
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return "", err
	}
	return day, nil
}

// Days returns the revenue days in chronological order.
func (s Summary) Days() []string {
	days := make([]string, 0, len(s.RevenueByDay))
	for day := range s.RevenueByDay {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

// TopProducts returns up to n products by units sold, ties broken by name.
func (s Summary) TopProducts(n int) []ProductQty {
	out := make([]ProductQty, 0, len(s.QtyByProduct))
	for name, qty := range s.QtyByProduct {
		out = append(out, ProductQty{Name: name, Qty: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Qty != out[j].Qty {
			return out[i].Qty > out[j].Qty
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// BestSeller returns the product with the most units sold.
func (s Summary) BestSeller() (ProductQty, bool) {
	top := s.TopProducts(1)
	if len(top) == 0 {
		return ProductQty{}, false
	}
	return top[0], true
}
