package receiving

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	sessioncontext "mercadinho/frontend/shared/context"
	"mercadinho/frontend/shared/notify"
	"mercadinho/infrastructure/backend"
	"mercadinho/infrastructure/opslog"
	"mercadinho/models"
)

// ReceivingPageQueryHandler renders the goods-in form in whatever mode the
// session last reached.
func ReceivingPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Error(w, "sessão não encontrada", http.StatusInternalServerError)
			return
		}

		session.Lock()
		state := session.Receiving
		session.Unlock()

		data := PageData{State: state}
		data.Flash, data.HasFlash = notify.FromRequest(r)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, ReceivingPage(data))
	}
}

// ReceivingLookupCommandHandler checks a barcode against the backend and
// stores the resulting form mode in the session.
func ReceivingLookupCommandHandler(client *backend.Client, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Error(w, "sessão não encontrada", http.StatusInternalServerError)
			return
		}
		if err := r.ParseForm(); err != nil {
			notify.Redirect(w, r, "/recebimento", notify.Flash{Kind: notify.KindError, Message: "Formulário inválido."}, nil)
			return
		}

		code := strings.TrimSpace(r.PostFormValue("codigo"))
		if code == "" {
			session.Lock()
			session.Receiving = models.ReceivingState{}
			session.Unlock()
			notify.Redirect(w, r, "/recebimento", notify.Flash{Kind: notify.KindError, Message: "Informe um código de barras."}, nil)
			return
		}

		var lookup *models.Product
		p, err := client.FetchProduct(r.Context(), code)
		if err == nil {
			lookup = &p
		}

		state, stateErr := NextState(lookup, err)
		if state.Mode == models.ReceivingNewProduct {
			state.Product = &models.Product{Barcode: code}
		}
		session.Lock()
		session.Receiving = state
		session.Unlock()

		if stateErr != nil {
			log.Warn("receiving lookup failed", "barcode", code, "error", stateErr)
			notify.Redirect(w, r, "/recebimento", notify.Flash{Kind: notify.KindError, Message: "Falha ao consultar o produto: " + stateErr.Error()}, nil)
			return
		}
		http.Redirect(w, r, "/recebimento", http.StatusSeeOther)
	}
}

// ReceivingSubmitCommandHandler applies the form according to the session
// mode: registration posts the fields as entered, a top-up updates only the
// quantity. A failure preserves the mode so the operator can retry.
func ReceivingSubmitCommandHandler(client *backend.Client, ops *opslog.Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Error(w, "sessão não encontrada", http.StatusInternalServerError)
			return
		}
		if err := r.ParseForm(); err != nil {
			notify.Redirect(w, r, "/recebimento", notify.Flash{Kind: notify.KindError, Message: "Formulário inválido."}, nil)
			return
		}

		session.Lock()
		defer session.Unlock()
		switch session.Receiving.Mode {
		case models.ReceivingNewProduct:
			handleCreate(w, r, session, client, ops, log)
		case models.ReceivingRestock:
			handleTopUp(w, r, session, client, ops, log)
		default:
			notify.Redirect(w, r, "/recebimento", notify.Flash{Kind: notify.KindError, Message: "Consulte um código antes de enviar."}, nil)
		}
	}
}

func handleCreate(w http.ResponseWriter, r *http.Request, session *models.Session, client *backend.Client, ops *opslog.Service, log *slog.Logger) {
	req := backend.ProductCreate{
		Barcode:     strings.TrimSpace(r.PostFormValue("codigo")),
		Name:        strings.TrimSpace(r.PostFormValue("nome")),
		Description: strings.TrimSpace(r.PostFormValue("descricao")),
		Category:    strings.TrimSpace(r.PostFormValue("categoria")),
		Price:       strings.TrimSpace(r.PostFormValue("preco")),
		Quantity:    strings.TrimSpace(r.PostFormValue("quantidade")),
	}
	if req.Barcode == "" || req.Name == "" || req.Price == "" || req.Quantity == "" {
		notify.Redirect(w, r, "/recebimento", notify.Flash{Kind: notify.KindError, Message: "Preencha código, nome, preço e quantidade."}, nil)
		return
	}

	if err := client.CreateProduct(r.Context(), req); err != nil {
		log.Warn("product create failed", "barcode", req.Barcode, "error", err)
		notify.Redirect(w, r, "/recebimento", notify.Flash{Kind: notify.KindError, Message: "Falha ao cadastrar: " + err.Error()}, nil)
		return
	}

	ops.Record(r.Context(), session.ID, opslog.ActionProductCreated, "produto", req.Barcode, req)
	session.Receiving = models.ReceivingState{}
	notify.Redirect(w, r, "/recebimento", notify.Flash{Kind: notify.KindSuccess, Message: req.Name + " cadastrado com sucesso."}, nil)
}

func handleTopUp(w http.ResponseWriter, r *http.Request, session *models.Session, client *backend.Client, ops *opslog.Service, log *slog.Logger) {
	p := session.Receiving.Product
	if p == nil {
		session.Receiving = models.ReceivingState{}
		notify.Redirect(w, r, "/recebimento", notify.Flash{Kind: notify.KindError, Message: "Consulte um código antes de enviar."}, nil)
		return
	}

	delta, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("quantidade")))
	if err != nil {
		notify.Redirect(w, r, "/recebimento", notify.Flash{Kind: notify.KindError, Message: ErrInvalidTopUp.Error()}, nil)
		return
	}
	total, err := RestockTotal(p.Quantity, delta)
	if err != nil {
		notify.Redirect(w, r, "/recebimento", notify.Flash{Kind: notify.KindError, Message: err.Error()}, nil)
		return
	}

	upd := backend.ProductUpdate{Quantity: &total}
	if err := client.UpdateProduct(r.Context(), p.Barcode, upd); err != nil {
		log.Warn("stock top-up failed", "barcode", p.Barcode, "error", err)
		msg := "Falha ao atualizar o estoque: " + err.Error()
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			msg = "Falha ao atualizar o estoque: " + apiErr.Message
		}
		notify.Redirect(w, r, "/recebimento", notify.Flash{Kind: notify.KindError, Message: msg}, nil)
		return
	}

	ops.Record(r.Context(), session.ID, opslog.ActionStockTopUp, "produto", p.Barcode, map[string]int{
		"adicionado": delta,
		"total":      total,
	})
	name := p.Name
	session.Receiving = models.ReceivingState{}
	notify.Redirect(w, r, "/recebimento", notify.Flash{Kind: notify.KindSuccess, Message: RestockMessage(name, total)}, nil)
}

// ReceivingResetCommandHandler returns the form to idle.
func ReceivingResetCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Error(w, "sessão não encontrada", http.StatusInternalServerError)
			return
		}
		session.Lock()
		session.Receiving = models.ReceivingState{}
		session.Unlock()
		http.Redirect(w, r, "/recebimento", http.StatusSeeOther)
	}
}
