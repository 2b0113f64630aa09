package pos

import (
	"context"
	"errors"
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
	"mercadinho/infrastructure/opslog"
)

// refreshStock replaces the POS stock snapshot from the backend.
func refreshStock(ctx context.Context, client *backend.Client, stock *cache.StockCache) error {
	products, err := client.FetchStock(ctx)
	if err != nil {
		return err
	}
	stock.Replace(products)
	return nil
}

// PosPageQueryHandler renders the checkout page. An empty cache is filled on
// first load; ?codigo= shows the lookup result for that barcode.
func PosPageQueryHandler(client *backend.Client, stock *cache.StockCache, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Error(w, "sessão não encontrada", http.StatusInternalServerError)
			return
		}

		if stock.Len() == 0 {
			if err := refreshStock(r.Context(), client, stock); err != nil {
				log.Warn("stock refresh failed on checkout page", "error", err)
			}
		}

		session.Lock()
		cart := session.Cart
		session.Unlock()

		data := PageData{
			Cart:     cart,
			Products: stock.All(),
			SaleID:   r.URL.Query().Get("venda"),
		}
		data.Flash, data.HasFlash = notify.FromRequest(r)

		if code := strings.TrimSpace(r.URL.Query().Get("codigo")); code != "" {
			data.LookupCode = code
			p, err := client.FetchProduct(r.Context(), code)
			switch {
			case err == nil:
				data.Lookup = &p
			case errors.Is(err, backend.ErrNotFound):
				data.LookupError = "Produto não encontrado."
			default:
				log.Warn("product lookup failed", "barcode", code, "error", err)
				data.LookupError = "Falha ao consultar o produto: " + err.Error()
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, PosPage(data))
	}
}

// PosAddCommandHandler adds a product to the session cart. The product is
// resolved against the POS cache first and the backend on a miss.
func PosAddCommandHandler(client *backend.Client, stock *cache.StockCache, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Error(w, "sessão não encontrada", http.StatusInternalServerError)
			return
		}
		if err := r.ParseForm(); err != nil {
			notify.Redirect(w, r, "/", notify.Flash{Kind: notify.KindError, Message: "Formulário inválido."}, nil)
			return
		}

		code := strings.TrimSpace(r.PostFormValue("codigo"))
		if code == "" {
			notify.Redirect(w, r, "/", notify.Flash{Kind: notify.KindError, Message: ErrEmptyBarcode.Error()}, nil)
			return
		}
		qty := 1
		if raw := strings.TrimSpace(r.PostFormValue("quantidade")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				notify.Redirect(w, r, "/", notify.Flash{Kind: notify.KindError, Message: ErrInvalidQuantity.Error()}, nil)
				return
			}
			qty = n
		}

		p, found := stock.Find(code)
		if !found {
			fetched, err := client.FetchProduct(r.Context(), code)
			if errors.Is(err, backend.ErrNotFound) {
				notify.Redirect(w, r, "/", notify.Flash{Kind: notify.KindError, Message: "Produto não encontrado."}, nil)
				return
			}
			if err != nil {
				log.Warn("product fetch failed on add", "barcode", code, "error", err)
				notify.Redirect(w, r, "/", notify.Flash{Kind: notify.KindError, Message: "Falha ao consultar o produto."}, nil)
				return
			}
			p = fetched
		}

		session.Lock()
		cart, err := AddToCart(session.Cart, p, qty)
		if err == nil {
			session.Cart = cart
		}
		session.Unlock()
		if err != nil {
			notify.Redirect(w, r, "/", notify.Flash{Kind: notify.KindError, Message: err.Error()}, nil)
			return
		}
		notify.Redirect(w, r, "/", notify.Flash{Kind: notify.KindSuccess, Message: p.Name + " adicionado ao carrinho."}, nil)
	}
}

// PosQuickAddCommandHandler resolves the quick-add field, which holds either
// a "nome (cod: barras)" label picked from the datalist or a raw barcode.
func PosQuickAddCommandHandler(client *backend.Client, stock *cache.StockCache, log *slog.Logger) http.HandlerFunc {
	add := PosAddCommandHandler(client, stock, log)
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			notify.Redirect(w, r, "/", notify.Flash{Kind: notify.KindError, Message: "Formulário inválido."}, nil)
			return
		}
		term := strings.TrimSpace(r.PostFormValue("item"))
		if term == "" {
			notify.Redirect(w, r, "/", notify.Flash{Kind: notify.KindError, Message: ErrEmptyBarcode.Error()}, nil)
			return
		}

		code := term
		if p, ok := stock.FindByLabel(term); ok {
			code = p.Barcode
		}
		r.PostForm.Set("codigo", code)
		add(w, r)
	}
}

// PosDecrementCommandHandler removes one unit of a cart line.
func PosDecrementCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Error(w, "sessão não encontrada", http.StatusInternalServerError)
			return
		}
		if err := r.ParseForm(); err != nil {
			notify.Redirect(w, r, "/", notify.Flash{Kind: notify.KindError, Message: "Formulário inválido."}, nil)
			return
		}
		session.Lock()
		session.Cart = DecrementLine(session.Cart, strings.TrimSpace(r.PostFormValue("codigo")))
		session.Unlock()
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// PosClearCommandHandler empties the cart.
func PosClearCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Error(w, "sessão não encontrada", http.StatusInternalServerError)
			return
		}
		session.Lock()
		session.Cart = nil
		session.Unlock()
		notify.Redirect(w, r, "/", notify.Flash{Kind: notify.KindSuccess, Message: "Carrinho limpo."}, nil)
	}
}

// PosCheckoutCommandHandler submits the cart as one sale. On success the
// cart is cleared, the stock snapshot refreshed and the receipt offered; on
// failure the cart is left untouched for retry.
func PosCheckoutCommandHandler(client *backend.Client, stock *cache.StockCache, ops *opslog.Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Error(w, "sessão não encontrada", http.StatusInternalServerError)
			return
		}
		// The lock is held across the submit so a double-click cannot send
		// the same cart twice; the second request finds it already empty.
		session.Lock()
		defer session.Unlock()

		if len(session.Cart) == 0 {
			notify.Redirect(w, r, "/", notify.Flash{Kind: notify.KindError, Message: ErrEmptyCart.Error()}, nil)
			return
		}

		saleID, err := client.SubmitSale(r.Context(), session.Cart)
		if err != nil {
			log.Error("sale submit failed", "lines", len(session.Cart), "error", err)
			notify.Redirect(w, r, "/", notify.Flash{Kind: notify.KindError, Message: "Falha ao registrar a venda: " + err.Error()}, nil)
			return
		}

		_, total := CartTotals(session.Cart)
		ops.Record(r.Context(), session.ID, opslog.ActionSaleSubmitted, "venda", saleID, map[string]any{
			"linhas": len(session.Cart),
			"total":  total,
		})

		session.Cart = nil
		if err := refreshStock(r.Context(), client, stock); err != nil {
			log.Warn("stock refresh failed after sale", "error", err)
		}

		notify.Redirect(w, r, "/",
			notify.Flash{Kind: notify.KindSuccess, Message: fmt.Sprintf("Venda %s registrada com sucesso!", saleID)},
			url.Values{"venda": {saleID}})
	}
}
