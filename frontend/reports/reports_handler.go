package reports

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"mercadinho/frontend/shared/notify"
	"mercadinho/infrastructure/backend"
	"mercadinho/infrastructure/money"
	"mercadinho/infrastructure/opslog"
)

// ReportsPageQueryHandler renders the dashboard. Backend failures degrade to
// an inline error instead of a blank page.
func ReportsPageQueryHandler(client *backend.Client, ops *opslog.Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var data PageData
		data.Flash, data.HasFlash = notify.FromRequest(r)

		rows, err := client.FetchSaleRows(r.Context())
		if err != nil {
			log.Warn("sales report fetch failed", "error", err)
			data.SalesError = "Falha ao carregar o relatório de vendas: " + err.Error()
		} else {
			data.Sales = Aggregate(rows, log)
			data.HasSales = true
		}

		stockRep, err := client.FetchStockReport(r.Context())
		if err != nil {
			log.Warn("stock report fetch failed", "error", err)
			data.StockError = "Falha ao carregar o relatório de estoque: " + err.Error()
		} else {
			data.Stock = stockRep
			data.HasStock = true
		}

		if entries, err := ops.Recent(r.Context(), 15); err != nil {
			log.Warn("ops journal read failed", "error", err)
		} else {
			data.RecentOps = entries
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, ReportsPage(data))
	}
}

// ReportsDataQueryHandler serves the chart payload as JSON so the page can
// refresh without a full reload.
func ReportsDataQueryHandler(client *backend.Client, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := client.FetchSaleRows(r.Context())
		if err != nil {
			log.Warn("sales report fetch failed", "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]string{"erro": "relatório de vendas indisponível"})
			return
		}

		sum := Aggregate(rows, log)
		payload := chartPayload{
			Revenue:   sum.TotalRevenue,
			SaleCount: sum.SaleCount,
			Days:      sum.Days(),
		}
		for _, day := range payload.Days {
			payload.DayRevenue = append(payload.DayRevenue, sum.RevenueByDay[day])
		}
		for _, pq := range sum.TopProducts(10) {
			payload.Products = append(payload.Products, pq.Name)
			payload.Quantities = append(payload.Quantities, pq.Qty)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}
}

type chartPayload struct {
	Revenue    float64   `json:"faturamento"`
	SaleCount  int       `json:"vendas"`
	Days       []string  `json:"dias"`
	DayRevenue []float64 `json:"faturamento_dia"`
	Products   []string  `json:"produtos"`
	Quantities []int     `json:"quantidades"`
}

// ReportsCSVQueryHandler exports the raw sale rows as CSV.
func ReportsCSVQueryHandler(client *backend.Client, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := client.FetchSaleRows(r.Context())
		if err != nil {
			log.Warn("sales report fetch failed", "error", err)
			http.Error(w, "relatório de vendas indisponível", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename=vendas.csv")

		cw := csv.NewWriter(w)
		cw.Write([]string{"id_venda", "data_hora", "codigo_barras", "nome_produto", "quantidade_vendida", "preco_unitario", "total_item", "categoria"})
		for _, row := range rows {
			record := []string{
				row.SaleID.String(),
				row.Timestamp,
				row.Barcode.String(),
				row.Product,
				row.Quantity.String(),
				normalizeCSVPrice(row.UnitPrice.String()),
				normalizeCSVPrice(row.Total.String()),
				row.Category,
			}
			if err := cw.Write(record); err != nil {
				log.Warn("csv write failed", "error", err)
				return
			}
		}
		cw.Flush()
	}
}

// normalizeCSVPrice renders prices with a dot decimal so the export loads
// cleanly in spreadsheet tools; unparseable values pass through untouched.
func normalizeCSVPrice(raw string) string {
	v, err := money.ParsePrice(raw)
	if err != nil {
		return raw
	}
	return money.FormatPrice(v)
}
