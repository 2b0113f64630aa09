// Package receipt renders the customer coupon for one finished sale, as a
// printable page and as a PDF.
package receipt

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"mercadinho/infrastructure/backend"
	"mercadinho/infrastructure/money"
)

// Line is one coupon line, with numbers already normalized.
type Line struct {
	Product   string
	Quantity  int
	UnitPrice float64
	Total     float64
}

// Coupon is one sale ready for rendering.
type Coupon struct {
	SaleID    string
	Timestamp string
	Lines     []Line
	Total     float64
}

// loadCoupon filters the sales report down to one sale. Malformed lines are
// skipped the same way the dashboard skips them.
func loadCoupon(ctx context.Context, client *backend.Client, saleID string, log *slog.Logger) (Coupon, error) {
	rows, err := client.FetchSaleRows(ctx)
	if err != nil {
		return Coupon{}, err
	}

	coupon := Coupon{SaleID: saleID}
	for _, row := range rows {
		if row.SaleID.String() != saleID {
			continue
		}
		if coupon.Timestamp == "" {
			coupon.Timestamp = row.Timestamp
		}
		qty, qtyErr := strconv.Atoi(strings.TrimSpace(row.Quantity.String()))
		unit, unitErr := money.ParsePrice(row.UnitPrice.String())
		total, totalErr := money.ParsePrice(row.Total.String())
		if qtyErr != nil || unitErr != nil || totalErr != nil {
			log.Warn("skipping malformed coupon line", "sale_id", saleID, "product", row.Product)
			continue
		}
		coupon.Lines = append(coupon.Lines, Line{
			Product:   row.Product,
			Quantity:  qty,
			UnitPrice: unit,
			Total:     total,
		})
		coupon.Total += total
	}
	return coupon, nil
}

// ReceiptPageQueryHandler renders the coupon page for /cupom/{id}.
func ReceiptPageQueryHandler(client *backend.Client, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID := chi.URLParam(r, "id")
		coupon, err := loadCoupon(r.Context(), client, saleID, log)
		if err != nil {
			log.Warn("coupon load failed", "sale_id", saleID, "error", err)
			http.Error(w, "cupom indisponível", http.StatusBadGateway)
			return
		}
		if len(coupon.Lines) == 0 {
			http.Error(w, "venda não encontrada", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, ReceiptPage(coupon))
	}
}

// ReceiptPDFQueryHandler serves the coupon as a PDF for /cupom/{id}.pdf.
func ReceiptPDFQueryHandler(client *backend.Client, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID := chi.URLParam(r, "id")
		coupon, err := loadCoupon(r.Context(), client, saleID, log)
		if err != nil {
			log.Warn("coupon load failed", "sale_id", saleID, "error", err)
			http.Error(w, "cupom indisponível", http.StatusBadGateway)
			return
		}
		if len(coupon.Lines) == 0 {
			http.Error(w, "venda não encontrada", http.StatusNotFound)
			return
		}

		pdfBytes, err := renderCouponPDF(coupon)
		if err != nil {
			log.Error("coupon pdf render failed", "sale_id", saleID, "error", err)
			http.Error(w, "falha ao gerar o cupom", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=cupom-%s.pdf", saleID))
		w.Write(pdfBytes)
	}
}
