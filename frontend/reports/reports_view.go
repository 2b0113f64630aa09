package reports

import (
	"fmt"
	"html"
	"strings"

	sharedhtml "mercadinho/frontend/shared/html"
	"mercadinho/frontend/shared/nav"
	"mercadinho/frontend/shared/notify"
	"mercadinho/infrastructure/money"
	"mercadinho/infrastructure/opslog"
	"mercadinho/models"
)

// ReportsPage renders the dashboard with KPI cards, charts and the local
// operations journal.
func ReportsPage(data PageData) string {
	var b strings.Builder
	b.WriteString(nav.RenderTopNav("/relatorios"))
	b.WriteString(`<div class="container">`)

	b.WriteString(`<div class="d-flex justify-content-between align-items-center mb-3">`)
	b.WriteString(`<h4 class="mb-0">Relatórios</h4><div class="btn-group">`)
	b.WriteString(`<button type="button" class="btn btn-outline-secondary" onclick="refreshCharts()"><i class="bi bi-arrow-clockwise"></i> Atualizar</button>`)
	b.WriteString(`<a class="btn btn-outline-secondary" href="/relatorios/vendas.csv"><i class="bi bi-filetype-csv"></i> Exportar CSV</a>`)
	b.WriteString(`</div></div>`)

	if data.SalesError != "" {
		b.WriteString(fmt.Sprintf(`<div class="alert alert-danger">%s</div>`, html.EscapeString(data.SalesError)))
	}
	if data.HasSales {
		b.WriteString(renderSalesKPIs(data.Sales))
	}

	if data.StockError != "" {
		b.WriteString(fmt.Sprintf(`<div class="alert alert-danger">%s</div>`, html.EscapeString(data.StockError)))
	}
	if data.HasStock {
		b.WriteString(renderStockKPIs(data))
	}

	if data.HasSales {
		b.WriteString(`<div class="row g-4 mb-4">`)
		b.WriteString(`<div class="col-lg-6"><div class="card"><div class="card-header">Faturamento por Dia</div><div class="card-body"><canvas id="chart-dias"></canvas></div></div></div>`)
		b.WriteString(`<div class="col-lg-6"><div class="card"><div class="card-header">Mais Vendidos</div><div class="card-body"><canvas id="chart-produtos"></canvas></div></div></div>`)
		b.WriteString(`</div>`)
	}

	b.WriteString(renderRecentOps(data.RecentOps))
	b.WriteString(notify.RenderToast(data.Flash, data.HasFlash))
	b.WriteString(`</div>`)
	b.WriteString(renderChartScript())
	return sharedhtml.RenderLayout("Relatórios", b.String())
}

func renderSalesKPIs(sum Summary) string {
	var b strings.Builder
	b.WriteString(`<div class="row g-3 mb-4">`)
	b.WriteString(kpiCard("bi-cash-stack", "Faturamento Total", "R$ "+money.FormatPrice(sum.TotalRevenue)))
	b.WriteString(kpiCard("bi-receipt", "Vendas Realizadas", fmt.Sprintf("%d", sum.SaleCount)))
	if best, ok := sum.BestSeller(); ok {
		b.WriteString(kpiCard("bi-trophy", "Mais Vendido", fmt.Sprintf("%s (%d un)", best.Name, best.Qty)))
	} else {
		b.WriteString(kpiCard("bi-trophy", "Mais Vendido", "-"))
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderStockKPIs(data PageData) string {
	var b strings.Builder
	b.WriteString(`<div class="row g-3 mb-4">`)
	b.WriteString(kpiCard("bi-safe", "Valor do Estoque", "R$ "+money.FormatPrice(data.Stock.KPIs.TotalValue.Float64())))
	b.WriteString(kpiCard("bi-boxes", "Itens em Estoque", fmt.Sprintf("%d", data.Stock.KPIs.TotalItems)))
	b.WriteString(kpiCard("bi-exclamation-triangle", "Estoque Baixo", fmt.Sprintf("%d", data.Stock.KPIs.LowStockCount)))
	b.WriteString(`</div>`)

	if names := data.Stock.Lists.LowStockNames; len(names) > 0 {
		b.WriteString(`<div class="alert alert-warning"><i class="bi bi-exclamation-triangle"></i> Estoque baixo: `)
		escaped := make([]string, len(names))
		for i, n := range names {
			escaped[i] = html.EscapeString(n)
		}
		b.WriteString(strings.Join(escaped, ", "))
		b.WriteString(`</div>`)
	}
	return b.String()
}

func kpiCard(icon, label, value string) string {
	return fmt.Sprintf(`<div class="col-md-4"><div class="card"><div class="card-body text-center">
<i class="bi %s fs-2 text-primary"></i>
<div class="text-muted">%s</div>
<div class="fs-4 fw-bold">%s</div>
</div></div></div>`, icon, html.EscapeString(label), html.EscapeString(value))
}

func renderRecentOps(entries []models.OpsLogEntry) string {
	var b strings.Builder
	b.WriteString(`<div class="card mb-4"><div class="card-header"><i class="bi bi-journal-text"></i> Operações Recentes do Terminal</div>`)
	if len(entries) == 0 {
		b.WriteString(`<div class="card-body text-muted">Nenhuma operação registrada neste terminal.</div></div>`)
		return b.String()
	}

	b.WriteString(`<ul class="list-group list-group-flush">`)
	for _, e := range entries {
		b.WriteString(fmt.Sprintf(`<li class="list-group-item d-flex justify-content-between"><span>%s <strong>%s</strong> %s</span><small class="text-muted">%s</small></li>`,
			html.EscapeString(actionLabel(e.Action)),
			html.EscapeString(e.EntityType),
			html.EscapeString(e.EntityID),
			e.CreatedAt.Format("02/01/2006 15:04")))
	}
	b.WriteString(`</ul></div>`)
	return b.String()
}

func actionLabel(action string) string {
	switch action {
	case opslog.ActionSaleSubmitted:
		return "Venda finalizada"
	case opslog.ActionProductCreated:
		return "Produto cadastrado"
	case opslog.ActionProductUpdated:
		return "Produto atualizado"
	case opslog.ActionStockTopUp:
		return "Estoque reposto"
	default:
		return action
	}
}

func renderChartScript() string {
	return `<script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.3/dist/chart.umd.min.js"></script>
<script>
let chartDias = null;
let chartProdutos = null;

function drawCharts(data) {
  const elDias = document.getElementById("chart-dias");
  const elProdutos = document.getElementById("chart-produtos");
  if (!elDias || !elProdutos) return;

  if (chartDias) chartDias.destroy();
  if (chartProdutos) chartProdutos.destroy();

  chartDias = new Chart(elDias, {
    type: "line",
    data: {
      labels: data.dias,
      datasets: [{
        label: "Faturamento (R$)",
        data: data.faturamento_dia,
        borderColor: "#0d6efd",
        backgroundColor: "rgba(13, 110, 253, 0.15)",
        fill: true,
        tension: 0.2
      }]
    },
    options: { scales: { y: { beginAtZero: true } } }
  });

  chartProdutos = new Chart(elProdutos, {
    type: "bar",
    data: {
      labels: data.produtos,
      datasets: [{
        label: "Unidades vendidas",
        data: data.quantidades,
        backgroundColor: "#198754"
      }]
    },
    options: { indexAxis: "y", scales: { x: { beginAtZero: true } } }
  });
}

async function refreshCharts() {
  try {
    const resp = await fetch("/relatorios/dados");
    if (!resp.ok) return;
    drawCharts(await resp.json());
  } catch (err) {}
}

document.addEventListener("DOMContentLoaded", refreshCharts);
</script>`
}
