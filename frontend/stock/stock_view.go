package stock

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	sharedhtml "mercadinho/frontend/shared/html"
	"mercadinho/frontend/shared/nav"
	"mercadinho/frontend/shared/notify"
	"mercadinho/infrastructure/money"
)

// StockPage renders the stock browser with filter bar, table and edit modal.
func StockPage(data PageData) string {
	var b strings.Builder
	b.WriteString(nav.RenderTopNav("/consulta"))
	b.WriteString(`<div class="container">`)

	b.WriteString(`<div class="d-flex gap-2 mb-3">`)
	b.WriteString(`<form method="GET" action="/consulta" class="flex-grow-1"><div class="input-group">`)
	b.WriteString(fmt.Sprintf(`<input type="text" class="form-control" name="q" placeholder="Filtrar por nome ou código" value="%s">`,
		html.EscapeString(data.Query)))
	b.WriteString(`<button type="submit" class="btn btn-primary"><i class="bi bi-funnel"></i> Filtrar</button>`)
	b.WriteString(`</div></form>`)
	b.WriteString(`<a class="btn btn-outline-secondary" href="/consulta?atualizar=1"><i class="bi bi-arrow-clockwise"></i> Atualizar</a>`)
	b.WriteString(`</div>`)

	b.WriteString(renderStockTable(data))
	b.WriteString(renderEditModal(data))
	b.WriteString(notify.RenderToast(data.Flash, data.HasFlash))
	b.WriteString(`</div>`)
	return sharedhtml.RenderLayout("Consulta de Estoque", b.String())
}

func renderStockTable(data PageData) string {
	var b strings.Builder
	b.WriteString(`<div class="card"><div class="table-responsive"><table class="table table-hover align-middle mb-0">`)
	b.WriteString(`<thead><tr><th>Código</th><th>Nome</th><th>Descrição</th><th>Categoria</th><th class="text-end">Preço</th><th class="text-center">Estoque</th><th></th></tr></thead><tbody>`)

	if data.LoadError != "" {
		b.WriteString(fmt.Sprintf(`<tr><td colspan="7" class="text-center text-danger">%s</td></tr>`,
			html.EscapeString(data.LoadError)))
	} else if len(data.Products) == 0 {
		b.WriteString(`<tr><td colspan="7" class="text-center">Nenhum produto encontrado.</td></tr>`)
	}

	for _, p := range data.Products {
		class := RowClass(p.Quantity)
		if class != "" {
			b.WriteString(fmt.Sprintf(`<tr class="%s">`, class))
		} else {
			b.WriteString(`<tr>`)
		}
		b.WriteString(fmt.Sprintf(`<td>%s</td>`, html.EscapeString(p.Barcode)))
		b.WriteString(fmt.Sprintf(`<td>%s</td>`, html.EscapeString(p.Name)))
		b.WriteString(fmt.Sprintf(`<td>%s</td>`, html.EscapeString(p.Description)))
		b.WriteString(fmt.Sprintf(`<td>%s</td>`, html.EscapeString(p.Category)))
		b.WriteString(fmt.Sprintf(`<td class="text-end">R$ %s</td>`, money.FormatPrice(p.Price.Float64())))
		b.WriteString(fmt.Sprintf(`<td class="text-center">%d</td>`, p.Quantity))

		editURL := "/consulta?editar=" + url.QueryEscape(p.Barcode)
		if data.Query != "" {
			editURL += "&q=" + url.QueryEscape(data.Query)
		}
		b.WriteString(`<td class="text-end"><div class="btn-group btn-group-sm">`)
		b.WriteString(fmt.Sprintf(`<a class="btn btn-outline-primary" href="%s"><i class="bi bi-pencil"></i></a>`, editURL))
		b.WriteString(fmt.Sprintf(`<a class="btn btn-outline-secondary" href="/consulta/produto/%s/etiqueta.pdf" target="_blank"><i class="bi bi-tag"></i></a>`,
			url.PathEscape(p.Barcode)))
		b.WriteString(`</div></td></tr>`)
	}

	b.WriteString(`</tbody></table></div></div>`)
	return b.String()
}

func renderEditModal(data PageData) string {
	var b strings.Builder
	b.WriteString(`<div class="modal fade" id="edit-modal" tabindex="-1"><div class="modal-dialog"><div class="modal-content">`)
	b.WriteString(`<form method="POST" action="/consulta/salvar">`)
	b.WriteString(`<div class="modal-header"><h5 class="modal-title">Editar Produto</h5><button type="button" class="btn-close" data-bs-dismiss="modal"></button></div>`)
	b.WriteString(`<div class="modal-body">`)

	if data.EditError != "" {
		b.WriteString(fmt.Sprintf(`<div class="alert alert-danger">%s</div>`, html.EscapeString(data.EditError)))
	}

	e := data.Edit
	b.WriteString(fmt.Sprintf(`<input type="hidden" name="codigo" value="%s">`, html.EscapeString(e.Barcode)))
	b.WriteString(fmt.Sprintf(`<input type="hidden" name="q" value="%s">`, html.EscapeString(data.Query)))
	b.WriteString(fmt.Sprintf(`<div class="mb-2"><label class="form-label">Código de Barras</label><input type="text" class="form-control" value="%s" disabled></div>`,
		html.EscapeString(e.Barcode)))
	b.WriteString(fmt.Sprintf(`<div class="mb-2"><label class="form-label">Nome</label><input type="text" class="form-control" name="nome" value="%s" required></div>`,
		html.EscapeString(e.Name)))
	b.WriteString(fmt.Sprintf(`<div class="mb-2"><label class="form-label">Descrição</label><input type="text" class="form-control" name="descricao" value="%s"></div>`,
		html.EscapeString(e.Description)))
	b.WriteString(fmt.Sprintf(`<div class="mb-2"><label class="form-label">Categoria</label><input type="text" class="form-control" name="categoria" value="%s"></div>`,
		html.EscapeString(e.Category)))
	b.WriteString(`<div class="row">`)
	b.WriteString(fmt.Sprintf(`<div class="col"><label class="form-label">Preço</label><input type="text" class="form-control" name="preco" value="%s" required></div>`,
		html.EscapeString(e.Price)))
	b.WriteString(fmt.Sprintf(`<div class="col"><label class="form-label">Quantidade</label><input type="number" class="form-control" name="quantidade" value="%s" min="0" required></div>`,
		html.EscapeString(e.Quantity)))
	b.WriteString(`</div></div>`)
	b.WriteString(`<div class="modal-footer"><button type="button" class="btn btn-secondary" data-bs-dismiss="modal">Cancelar</button><button type="submit" class="btn btn-primary">Salvar</button></div>`)
	b.WriteString(`</form></div></div></div>`)

	if data.EditOpen {
		b.WriteString(`<script>
document.addEventListener("DOMContentLoaded", function () {
  new bootstrap.Modal(document.getElementById("edit-modal")).show();
});
</script>`)
	}
	return b.String()
}
