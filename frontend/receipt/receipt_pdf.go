package receipt

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"mercadinho/infrastructure/money"
)

// renderCouponPDF lays the coupon out on 80mm thermal paper.
func renderCouponPDF(coupon Coupon) ([]byte, error) {
	height := 90.0 + float64(len(coupon.Lines))*10.0

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: 80, Ht: height},
	})
	pdf.SetTitle("Cupom "+coupon.SaleID, false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(5, 5, 5)
	pdf.AddPage()

	translate := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(70, 6, "Mercadinho", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(70, 4, translate("Cupom não fiscal"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(70, 4, "Venda: "+coupon.SaleID, "", 1, "L", false, 0, "")
	if coupon.Timestamp != "" {
		pdf.CellFormat(70, 4, "Data: "+coupon.Timestamp, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(38, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(10, 5, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(22, 5, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, line := range coupon.Lines {
		pdf.CellFormat(38, 5, translate(line.Product), "", 0, "L", false, 0, "")
		pdf.CellFormat(10, 5, fmt.Sprintf("%d", line.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(22, 5, "R$ "+money.FormatPrice(line.Total), "", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 6)
		pdf.CellFormat(70, 3, "R$ "+money.FormatPrice(line.UnitPrice)+"/un", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(48, 6, "TOTAL", "T", 0, "L", false, 0, "")
	pdf.CellFormat(22, 6, "R$ "+money.FormatPrice(coupon.Total), "T", 1, "R", false, 0, "")

	if barcodePNG, err := couponBarcodePNG(coupon.SaleID); err == nil {
		opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		imageName := "coupon-barcode-" + coupon.SaleID
		pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
		pdf.ImageOptions(imageName, 15, pdf.GetY()+4, 50, 12, false, opt, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
