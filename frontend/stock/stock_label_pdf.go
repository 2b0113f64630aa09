package stock

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"net/http"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"

	backendapi "mercadinho/infrastructure/backend"
	"mercadinho/infrastructure/cache"
	"mercadinho/infrastructure/money"
	"mercadinho/models"
)

// StockLabelPDFQueryHandler serves a printable shelf label for one product.
func StockLabelPDFQueryHandler(client *backendapi.Client, stock *cache.StockCache, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "codigo")
		p, ok := stock.Find(code)
		if !ok {
			fetched, err := client.FetchProduct(r.Context(), code)
			if err != nil {
				http.Error(w, "produto não encontrado", http.StatusNotFound)
				return
			}
			p = fetched
		}

		pdfBytes, err := renderProductLabelPDF(p, time.Now())
		if err != nil {
			log.Error("label render failed", "barcode", code, "error", err)
			http.Error(w, "falha ao gerar a etiqueta", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=etiqueta-%s.pdf", code))
		w.Write(pdfBytes)
	}
}

func renderProductLabelPDF(p models.Product, printedAt time.Time) ([]byte, error) {
	barcodePNG, err := renderCode128PNG(p.Barcode, 900, 220)
	if err != nil {
		return nil, err
	}

	// 100x60mm shelf label stock.
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: 100, Ht: 60},
	})
	pdf.SetTitle("Etiqueta de Produto", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	translate := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(4, 5)
	pdf.CellFormat(92, 8, translate(p.Name), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetXY(4, 14)
	pdf.CellFormat(92, 10, "R$ "+money.FormatPrice(p.Price.Float64()), "", 1, "C", false, 0, "")

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	imageName := "label-barcode-" + p.Barcode
	pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
	pdf.ImageOptions(imageName, 15, 27, 70, 18, false, opt, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(4, 46)
	pdf.CellFormat(92, 5, p.Barcode, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(4, 53)
	pdf.CellFormat(92, 4, translate(p.Category)+" - "+printedAt.Format("02/01/2006"), "", 1, "C", false, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}

	bounds := scaled.Bounds()
	normalized := image.NewNRGBA(bounds)
	draw.Draw(normalized, bounds, scaled, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, normalized); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
