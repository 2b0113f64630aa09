package nav

import (
	"fmt"
	"strings"
)

// Item is one top-navigation entry.
type Item struct {
	Path  string
	Label string
	Icon  string
}

// Items lists the terminal pages in display order.
func Items() []Item {
	return []Item{
		{Path: "/", Label: "Caixa", Icon: "bi-upc-scan"},
		{Path: "/consulta", Label: "Consulta de Estoque", Icon: "bi-search"},
		{Path: "/recebimento", Label: "Recebimento", Icon: "bi-box-seam"},
		{Path: "/relatorios", Label: "Relatórios", Icon: "bi-bar-chart-line"},
	}
}

// RenderTopNav renders the navbar with the entry for activePath highlighted.
func RenderTopNav(activePath string) string {
	var b strings.Builder
	b.WriteString(`<nav class="navbar navbar-expand navbar-dark bg-dark mb-4"><div class="container-fluid">`)
	b.WriteString(`<a class="navbar-brand" href="/"><i class="bi bi-shop"></i> Mercadinho</a>`)
	b.WriteString(`<ul class="navbar-nav">`)
	for _, item := range Items() {
		class := "nav-link"
		if item.Path == activePath {
			class += " active"
		}
		b.WriteString(fmt.Sprintf(`<li class="nav-item"><a class="%s" href="%s"><i class="bi %s"></i> %s</a></li>`,
			class, item.Path, item.Icon, item.Label))
	}
	b.WriteString(`</ul></div></nav>`)
	return b.String()
}
