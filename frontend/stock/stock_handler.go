package stock

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	sessioncontext "mercadinho/frontend/shared/context"
	"mercadinho/frontend/shared/notify"
	"mercadinho/infrastructure/backend"
	"mercadinho/infrastructure/cache"
	"mercadinho/infrastructure/money"
	"mercadinho/infrastructure/opslog"
)

func sessionID(r *http.Request) string {
	if s, ok := sessioncontext.GetSessionFromContext(r.Context()); ok {
		return s.ID
	}
	return ""
}

func refreshStock(ctx context.Context, client *backend.Client, stock *cache.StockCache) error {
	products, err := client.FetchStock(ctx)
	if err != nil {
		return err
	}
	stock.Replace(products)
	return nil
}

// StockPageQueryHandler renders the stock browser. The snapshot refreshes on
// first load and on ?atualizar=1; ?q= filters locally without a backend
// round trip, and ?editar= opens the edit modal for a cached product.
func StockPageQueryHandler(client *backend.Client, stock *cache.StockCache, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var data PageData
		data.Query = strings.TrimSpace(r.URL.Query().Get("q"))
		data.Flash, data.HasFlash = notify.FromRequest(r)

		if stock.Len() == 0 || r.URL.Query().Get("atualizar") == "1" {
			if err := refreshStock(r.Context(), client, stock); err != nil {
				log.Warn("stock refresh failed", "error", err)
				data.LoadError = "Falha ao carregar o estoque: " + err.Error()
			}
		}
		data.Products = stock.Filter(data.Query)

		if code := strings.TrimSpace(r.URL.Query().Get("editar")); code != "" {
			p, ok := stock.Find(code)
			if !ok {
				// The product left the snapshot since the page was rendered.
				data.Flash = notify.Flash{Kind: notify.KindError, Message: "Produto não está mais no estoque carregado. Atualize a lista."}
				data.HasFlash = true
			} else {
				data.Edit = EditForm{
					Barcode:     p.Barcode,
					Name:        p.Name,
					Description: p.Description,
					Category:    p.Category,
					Price:       money.FormatPrice(p.Price.Float64()),
					Quantity:    strconv.Itoa(p.Quantity),
				}
				data.EditOpen = true
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, StockPage(data))
	}
}

// StockSaveCommandHandler applies the edit modal form as a full update of
// the mutable fields. On failure the page re-renders with the typed values
// so nothing is lost.
func StockSaveCommandHandler(client *backend.Client, stock *cache.StockCache, ops *opslog.Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			notify.Redirect(w, r, "/consulta", notify.Flash{Kind: notify.KindError, Message: "Formulário inválido."}, nil)
			return
		}

		form := EditForm{
			Barcode:     strings.TrimSpace(r.PostFormValue("codigo")),
			Name:        strings.TrimSpace(r.PostFormValue("nome")),
			Description: strings.TrimSpace(r.PostFormValue("descricao")),
			Category:    strings.TrimSpace(r.PostFormValue("categoria")),
			Price:       strings.TrimSpace(r.PostFormValue("preco")),
			Quantity:    strings.TrimSpace(r.PostFormValue("quantidade")),
		}
		query := strings.TrimSpace(r.PostFormValue("q"))

		renderWithError := func(msg string) {
			data := PageData{
				Products:  stock.Filter(query),
				Query:     query,
				Edit:      form,
				EditOpen:  true,
				EditError: msg,
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, StockPage(data))
		}

		if form.Barcode == "" || form.Name == "" {
			renderWithError("Código e nome são obrigatórios.")
			return
		}
		price, err := money.ParsePrice(form.Price)
		if err != nil || price < 0 {
			renderWithError("Preço inválido.")
			return
		}
		qty, err := strconv.Atoi(form.Quantity)
		if err != nil || qty < 0 {
			renderWithError("Quantidade inválida.")
			return
		}

		upd := backend.ProductUpdate{
			Name:        &form.Name,
			Description: &form.Description,
			Category:    &form.Category,
			Price:       &price,
			Quantity:    &qty,
		}
		if err := client.UpdateProduct(r.Context(), form.Barcode, upd); err != nil {
			log.Warn("product update failed", "barcode", form.Barcode, "error", err)
			renderWithError("Falha ao salvar: " + err.Error())
			return
		}

		ops.Record(r.Context(), sessionID(r), opslog.ActionProductUpdated, "produto", form.Barcode, form)

		if err := refreshStock(r.Context(), client, stock); err != nil {
			log.Warn("stock refresh failed after update", "error", err)
		}

		extra := url.Values{}
		if query != "" {
			extra.Set("q", query)
		}
		notify.Redirect(w, r, "/consulta",
			notify.Flash{Kind: notify.KindSuccess, Message: form.Name + " atualizado com sucesso."}, extra)
	}
}
