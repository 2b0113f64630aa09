package receipt

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"image"
	"image/draw"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"

	sharedhtml "mercadinho/frontend/shared/html"
	"mercadinho/infrastructure/money"
)

// ReceiptPage renders the printable coupon.
func ReceiptPage(coupon Coupon) string {
	var b strings.Builder
	b.WriteString(`<div class="container my-4" style="max-width:420px">`)
	b.WriteString(`<div class="card"><div class="card-body">`)
	b.WriteString(`<h5 class="text-center mb-0">Mercadinho</h5>`)
	b.WriteString(`<p class="text-center text-muted small mb-3">Cupom não fiscal</p>`)

	b.WriteString(fmt.Sprintf(`<p class="mb-1 small">Venda: <strong>%s</strong></p>`, html.EscapeString(coupon.SaleID)))
	if coupon.Timestamp != "" {
		b.WriteString(fmt.Sprintf(`<p class="mb-3 small">Data: %s</p>`, html.EscapeString(coupon.Timestamp)))
	}

	b.WriteString(`<table class="table table-sm"><thead><tr><th>Item</th><th class="text-center">Qtd</th><th class="text-end">Total</th></tr></thead><tbody>`)
	for _, line := range coupon.Lines {
		b.WriteString(fmt.Sprintf(`<tr><td>%s<br><small class="text-muted">R$ %s/un</small></td><td class="text-center">%d</td><td class="text-end">R$ %s</td></tr>`,
			html.EscapeString(line.Product), money.FormatPrice(line.UnitPrice), line.Quantity, money.FormatPrice(line.Total)))
	}
	b.WriteString(`</tbody></table>`)

	b.WriteString(fmt.Sprintf(`<div class="d-flex justify-content-between border-top pt-2"><strong>TOTAL</strong><strong>R$ %s</strong></div>`,
		money.FormatPrice(coupon.Total)))

	if pngData, err := couponBarcodePNG(coupon.SaleID); err == nil {
		b.WriteString(fmt.Sprintf(`<div class="text-center mt-3"><img src="data:image/png;base64,%s" alt="%s" style="max-width:100%%;height:48px"></div>`,
			base64.StdEncoding.EncodeToString(pngData), html.EscapeString(coupon.SaleID)))
	}

	b.WriteString(`<div class="d-grid gap-2 mt-3 d-print-none">`)
	b.WriteString(`<button class="btn btn-primary" onclick="window.print()"><i class="bi bi-printer"></i> Imprimir</button>`)
	b.WriteString(fmt.Sprintf(`<a class="btn btn-outline-secondary" href="/cupom/%s.pdf">Baixar PDF</a>`, html.EscapeString(coupon.SaleID)))
	b.WriteString(`</div>`)

	b.WriteString(`</div></div></div>`)
	return sharedhtml.RenderLayout("Cupom "+coupon.SaleID, b.String())
}

func couponBarcodePNG(value string) ([]byte, error) {
	code, err := code128.Encode("V" + value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, 600, 120)
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
