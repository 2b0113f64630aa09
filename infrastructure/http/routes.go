package http

import (
	"mercadinho/frontend/pos"
	receiptpage "mercadinho/frontend/receipt"
	receivingpage "mercadinho/frontend/receiving"
	reportspage "mercadinho/frontend/reports"
	"mercadinho/frontend/scanner"
	stockpage "mercadinho/frontend/stock"
)

// RegisterFrontendRoutes registers all terminal pages and their commands.
func (s *Server) RegisterFrontendRoutes() {
	// Checkout.
	s.router.Get("/", pos.PosPageQueryHandler(s.Backend, s.PosStock, s.log))
	s.router.Post("/caixa/adicionar", pos.PosAddCommandHandler(s.Backend, s.PosStock, s.log))
	s.router.Post("/caixa/rapido", pos.PosQuickAddCommandHandler(s.Backend, s.PosStock, s.log))
	s.router.Post("/caixa/remover", pos.PosDecrementCommandHandler())
	s.router.Post("/caixa/limpar", pos.PosClearCommandHandler())
	s.router.Post("/caixa/finalizar", pos.PosCheckoutCommandHandler(s.Backend, s.PosStock, s.Ops, s.log))

	// Stock browser.
	s.router.Get("/consulta", stockpage.StockPageQueryHandler(s.Backend, s.BrowseStock, s.log))
	s.router.Post("/consulta/salvar", stockpage.StockSaveCommandHandler(s.Backend, s.BrowseStock, s.Ops, s.log))
	s.router.Get("/consulta/produto/{codigo}/etiqueta.pdf", stockpage.StockLabelPDFQueryHandler(s.Backend, s.BrowseStock, s.log))

	// Goods-in.
	s.router.Get("/recebimento", receivingpage.ReceivingPageQueryHandler())
	s.router.Post("/recebimento/consultar", receivingpage.ReceivingLookupCommandHandler(s.Backend, s.log))
	s.router.Post("/recebimento/enviar", receivingpage.ReceivingSubmitCommandHandler(s.Backend, s.Ops, s.log))
	s.router.Post("/recebimento/cancelar", receivingpage.ReceivingResetCommandHandler())

	// Dashboards.
	s.router.Get("/relatorios", reportspage.ReportsPageQueryHandler(s.Backend, s.Ops, s.log))
	s.router.Get("/relatorios/dados", reportspage.ReportsDataQueryHandler(s.Backend, s.log))
	s.router.Get("/relatorios/vendas.csv", reportspage.ReportsCSVQueryHandler(s.Backend, s.log))

	// Receipts.
	s.router.Get("/cupom/{id}.pdf", receiptpage.ReceiptPDFQueryHandler(s.Backend, s.log))
	s.router.Get("/cupom/{id}", receiptpage.ReceiptPageQueryHandler(s.Backend, s.log))

	// Scanner facade.
	s.router.Post("/scanner/abrir", scanner.OpenHandler(s.Scanner))
	s.router.Post("/scanner/alternar", scanner.SwitchHandler(s.Scanner))
	s.router.Post("/scanner/fechar", scanner.CloseHandler(s.Scanner))
	s.router.Get("/scanner/codigo", scanner.PollHandler(s.Scanner))
}
