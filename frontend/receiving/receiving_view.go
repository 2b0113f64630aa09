package receiving

import (
	"fmt"
	"html"
	"strings"

	"mercadinho/frontend/scanner"
	sharedhtml "mercadinho/frontend/shared/html"
	"mercadinho/frontend/shared/nav"
	"mercadinho/frontend/shared/notify"
	"mercadinho/infrastructure/money"
	"mercadinho/models"
)

// ReceivingPage renders the goods-in form for the current session mode.
func ReceivingPage(data PageData) string {
	var b strings.Builder
	b.WriteString(nav.RenderTopNav("/recebimento"))
	b.WriteString(`<div class="container" style="max-width:640px">`)

	b.WriteString(`<div class="card mb-4"><div class="card-header"><i class="bi bi-search"></i> Consultar Código</div><div class="card-body">`)
	b.WriteString(`<form method="POST" action="/recebimento/consultar"><div class="input-group">`)
	code := ""
	if data.State.Product != nil {
		code = data.State.Product.Barcode
	}
	b.WriteString(fmt.Sprintf(`<input type="text" class="form-control" id="receb-codigo" name="codigo" placeholder="Código de barras" value="%s" autofocus>`,
		html.EscapeString(code)))
	b.WriteString(`<button type="button" class="btn btn-outline-secondary" onclick="openScanModal('receb-codigo')"><i class="bi bi-upc-scan"></i></button>`)
	b.WriteString(`<button type="submit" class="btn btn-primary">Consultar</button>`)
	b.WriteString(`</div></form></div></div>`)

	b.WriteString(renderModeBanner(data.State))
	b.WriteString(renderReceivingForm(data.State))

	b.WriteString(`</div>`)
	b.WriteString(scanner.RenderScanModal())
	b.WriteString(notify.RenderToast(data.Flash, data.HasFlash))
	return sharedhtml.RenderLayout("Recebimento", b.String())
}

func renderModeBanner(state models.ReceivingState) string {
	switch state.Mode {
	case models.ReceivingNewProduct:
		return `<div class="alert alert-info"><i class="bi bi-stars"></i> Produto não cadastrado. Preencha os dados para cadastrá-lo.</div>`
	case models.ReceivingRestock:
		p := state.Product
		return fmt.Sprintf(`<div class="alert alert-success"><i class="bi bi-box-seam"></i> <strong>%s</strong> encontrado. Estoque atual: %d. Informe quanto chegou.</div>`,
			html.EscapeString(p.Name), p.Quantity)
	default:
		return `<div class="alert alert-secondary">Consulte um código de barras para começar.</div>`
	}
}

func renderReceivingForm(state models.ReceivingState) string {
	var b strings.Builder
	b.WriteString(`<div class="card"><div class="card-body">`)
	b.WriteString(`<form method="POST" action="/recebimento/enviar">`)

	var p models.Product
	if state.Product != nil {
		p = *state.Product
	}
	editable := state.Mode == models.ReceivingNewProduct
	idle := state.Mode == models.ReceivingIdle

	b.WriteString(fmt.Sprintf(`<input type="hidden" name="codigo" value="%s">`, html.EscapeString(p.Barcode)))
	b.WriteString(textField("Nome", "nome", p.Name, editable))
	b.WriteString(textField("Descrição", "descricao", p.Description, editable))
	b.WriteString(textField("Categoria", "categoria", p.Category, editable))

	price := ""
	if state.Mode == models.ReceivingRestock {
		price = money.FormatPrice(p.Price.Float64())
	}
	b.WriteString(textField("Preço", "preco", price, editable))

	qtyLabel := "Quantidade"
	if state.Mode == models.ReceivingRestock {
		qtyLabel = "Quantidade Recebida"
	}
	disabledAttr := ""
	qtyValue := ` value="1"`
	if idle {
		disabledAttr = " disabled"
		qtyValue = ""
	}
	b.WriteString(fmt.Sprintf(`<div class="mb-3"><label class="form-label">%s</label><input type="number" class="form-control" name="quantidade" min="1"%s%s></div>`,
		qtyLabel, qtyValue, disabledAttr))

	text, icon := SubmitLabel(state.Mode)
	b.WriteString(fmt.Sprintf(`<div class="d-grid gap-2"><button type="submit" class="btn btn-primary btn-lg"%s><i class="bi %s"></i> %s</button></div>`,
		disabledAttr, icon, html.EscapeString(text)))
	b.WriteString(`</form>`)

	if !idle {
		b.WriteString(`<form method="POST" action="/recebimento/cancelar" class="d-grid mt-2"><button type="submit" class="btn btn-outline-secondary">Cancelar</button></form>`)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

func textField(label, name, value string, editable bool) string {
	disabled := ""
	if !editable {
		disabled = " disabled"
	}
	return fmt.Sprintf(`<div class="mb-3"><label class="form-label">%s</label><input type="text" class="form-control" name="%s" value="%s"%s></div>`,
		label, name, html.EscapeString(value), disabled)
}
