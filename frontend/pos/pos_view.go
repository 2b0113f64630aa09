package pos

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"mercadinho/frontend/scanner"
	sharedhtml "mercadinho/frontend/shared/html"
	"mercadinho/frontend/shared/nav"
	"mercadinho/frontend/shared/notify"
	"mercadinho/infrastructure/money"
)

// PosPage renders the checkout terminal page.
func PosPage(data PageData) string {
	var b strings.Builder
	b.WriteString(nav.RenderTopNav("/"))
	b.WriteString(`<div class="container"><div class="row g-4">`)

	b.WriteString(`<div class="col-lg-6">`)
	b.WriteString(renderLookupCard(data))
	b.WriteString(renderQuickAddCard(data))
	b.WriteString(`</div>`)

	b.WriteString(`<div class="col-lg-6">`)
	b.WriteString(renderCartCard(data))
	b.WriteString(`</div>`)

	b.WriteString(`</div></div>`)
	b.WriteString(scanner.RenderScanModal())
	b.WriteString(notify.RenderToast(data.Flash, data.HasFlash))
	if data.SaleID != "" {
		b.WriteString(fmt.Sprintf(`<script>window.open("/cupom/%s", "_blank");</script>`, url.PathEscape(data.SaleID)))
	}
	return sharedhtml.RenderLayout("Caixa", b.String())
}

func renderLookupCard(data PageData) string {
	var b strings.Builder
	b.WriteString(`<div class="card mb-4"><div class="card-header"><i class="bi bi-search"></i> Consultar Produto</div><div class="card-body">`)
	b.WriteString(`<form method="GET" action="/"><div class="input-group">`)
	b.WriteString(fmt.Sprintf(`<input type="text" class="form-control" id="lookup-codigo" name="codigo" placeholder="Código de barras" value="%s" autofocus>`,
		html.EscapeString(data.LookupCode)))
	b.WriteString(`<button type="button" class="btn btn-outline-secondary" onclick="openScanModal('lookup-codigo')"><i class="bi bi-upc-scan"></i></button>`)
	b.WriteString(`<button type="submit" class="btn btn-primary">Consultar</button>`)
	b.WriteString(`</div></form>`)

	if data.LookupError != "" {
		b.WriteString(fmt.Sprintf(`<div class="alert alert-warning mt-3">%s</div>`, html.EscapeString(data.LookupError)))
	}
	if p := data.Lookup; p != nil {
		b.WriteString(`<div class="border rounded p-3 mt-3">`)
		b.WriteString(fmt.Sprintf(`<h5>%s</h5>`, html.EscapeString(p.Name)))
		b.WriteString(fmt.Sprintf(`<p class="mb-1 text-muted">%s</p>`, html.EscapeString(p.Description)))
		b.WriteString(fmt.Sprintf(`<p class="mb-1">R$ %s &middot; %d em estoque</p>`, money.FormatPrice(p.Price.Float64()), p.Quantity))
		b.WriteString(`<form method="POST" action="/caixa/adicionar" class="d-flex gap-2 mt-2">`)
		b.WriteString(fmt.Sprintf(`<input type="hidden" name="codigo" value="%s">`, html.EscapeString(p.Barcode)))
		b.WriteString(`<input type="number" class="form-control" name="quantidade" value="1" min="1" style="max-width:6rem">`)
		b.WriteString(`<button type="submit" class="btn btn-success"><i class="bi bi-cart-plus"></i> Adicionar</button>`)
		b.WriteString(`</form></div>`)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

func renderQuickAddCard(data PageData) string {
	var b strings.Builder
	b.WriteString(`<div class="card mb-4"><div class="card-header"><i class="bi bi-lightning"></i> Adição Rápida</div><div class="card-body">`)
	b.WriteString(`<form method="POST" action="/caixa/rapido"><div class="input-group">`)
	b.WriteString(`<input type="text" class="form-control" name="item" list="produtos-lista" placeholder="Nome ou código do produto">`)
	b.WriteString(`<button type="submit" class="btn btn-primary"><i class="bi bi-plus-lg"></i></button>`)
	b.WriteString(`</div></form>`)
	b.WriteString(`<datalist id="produtos-lista">`)
	for _, p := range data.Products {
		b.WriteString(fmt.Sprintf(`<option value="%s">`, html.EscapeString(p.QuickAddLabel())))
	}
	b.WriteString(`</datalist>`)
	b.WriteString(`</div></div>`)
	return b.String()
}

func renderCartCard(data PageData) string {
	var b strings.Builder
	b.WriteString(`<div class="card"><div class="card-header"><i class="bi bi-cart3"></i> Carrinho</div><div class="card-body">`)

	if len(data.Cart) == 0 {
		b.WriteString(`<p class="text-muted text-center my-4" id="carrinho-vazio">Carrinho vazio.</p>`)
	} else {
		b.WriteString(`<table class="table align-middle"><thead><tr><th>Produto</th><th class="text-center">Qtd</th><th class="text-end">Total</th><th></th></tr></thead><tbody>`)
		for _, line := range data.Cart {
			b.WriteString(`<tr>`)
			b.WriteString(fmt.Sprintf(`<td>%s<br><small class="text-muted">R$ %s/un</small></td>`,
				html.EscapeString(line.Name), money.FormatPrice(line.UnitPrice)))
			b.WriteString(fmt.Sprintf(`<td class="text-center">%d</td>`, line.Quantity))
			b.WriteString(fmt.Sprintf(`<td class="text-end">R$ %s</td>`, money.FormatPrice(line.Total)))
			b.WriteString(`<td class="text-end"><div class="btn-group btn-group-sm">`)
			b.WriteString(fmt.Sprintf(`<form method="POST" action="/caixa/adicionar"><input type="hidden" name="codigo" value="%s"><button type="submit" class="btn btn-outline-success"><i class="bi bi-plus"></i></button></form>`,
				html.EscapeString(line.Barcode)))
			b.WriteString(fmt.Sprintf(`<form method="POST" action="/caixa/remover"><input type="hidden" name="codigo" value="%s"><button type="submit" class="btn btn-outline-danger"><i class="bi bi-dash"></i></button></form>`,
				html.EscapeString(line.Barcode)))
			b.WriteString(`</div></td></tr>`)
		}
		b.WriteString(`</tbody></table>`)
	}

	items, total := CartTotals(data.Cart)
	b.WriteString(fmt.Sprintf(`<div class="d-flex justify-content-between border-top pt-3"><span>%d itens</span><strong>R$ %s</strong></div>`,
		items, money.FormatPrice(total)))

	checkoutDisabled := ""
	if len(data.Cart) == 0 {
		checkoutDisabled = " disabled"
	}
	b.WriteString(`<div class="d-grid gap-2 mt-3">`)
	b.WriteString(fmt.Sprintf(`<form method="POST" action="/caixa/finalizar" class="d-grid" onsubmit="setTimeout(() => { document.getElementById('finalizar-btn').disabled = true; }, 0);"><button type="submit" id="finalizar-btn" class="btn btn-success btn-lg"%s><i class="bi bi-check-circle"></i> Finalizar Venda</button></form>`, checkoutDisabled))
	b.WriteString(`<form method="POST" action="/caixa/limpar" class="d-grid"><button type="submit" class="btn btn-outline-secondary">Limpar Carrinho</button></form>`)
	b.WriteString(`</div>`)

	b.WriteString(`</div></div>`)
	return b.String()
}
