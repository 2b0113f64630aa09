package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/uptrace/bun"

	"mercadinho/infrastructure/backend"
	"mercadinho/infrastructure/opslog"
	"mercadinho/infrastructure/sqlite"
)

// fakeBackend implements the stock backend REST surface in memory.
type fakeBackend struct {
	mu       sync.Mutex
	products map[string]map[string]any
	sales    []map[string]any
	nextSale int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		products: map[string]map[string]any{
			"789": {"codigo_barras": "789", "nome": "Café Forte", "descricao": "500g", "categoria": "Mercearia", "preco": "18,90", "quantidade": 10},
			"123": {"codigo_barras": "123", "nome": "Arroz", "descricao": "", "categoria": "Mercearia", "preco": 7.5, "quantidade": 4},
			"456": {"codigo_barras": "456", "nome": "Feijão", "descricao": "", "categoria": "Mercearia", "preco": 9.2, "quantidade": 0},
		},
		nextSale: 100,
	}
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/estoque", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := make([]map[string]any, 0, len(f.products))
		for _, code := range []string{"789", "123", "456"} {
			if p, ok := f.products[code]; ok {
				out = append(out, p)
			}
		}
		writeJSON(w, out)
	})

	mux.HandleFunc("GET /api/produto/{codigo}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		p, ok := f.products[r.PathValue("codigo")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]string{"erro": "Produto não encontrado"})
			return
		}
		writeJSON(w, p)
	})

	mux.HandleFunc("POST /api/produto", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		code, _ := req["codigo_barras"].(string)
		f.mu.Lock()
		f.products[code] = req
		f.mu.Unlock()
		writeJSON(w, map[string]string{"mensagem": "ok"})
	})

	mux.HandleFunc("PUT /api/produto/{codigo}", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		p, ok := f.products[r.PathValue("codigo")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]string{"erro": "Produto não encontrado"})
			return
		}
		for k, v := range req {
			p[k] = v
		}
		writeJSON(w, map[string]string{"mensagem": "ok"})
	})

	mux.HandleFunc("POST /api/venda", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Items []map[string]any `json:"itens"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Items) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, map[string]string{"erro": "Carrinho vazio"})
			return
		}
		f.mu.Lock()
		f.nextSale++
		id := f.nextSale
		f.sales = append(f.sales, map[string]any{"id": id, "itens": req.Items})
		f.mu.Unlock()
		writeJSON(w, map[string]any{"id_venda": id})
	})

	mux.HandleFunc("GET /api/relatorio/vendas", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{})
	})

	mux.HandleFunc("GET /api/relatorio/estoque", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"kpis":   map[string]any{"valor_total_estoque": "218,90", "total_itens_estoque": 14, "itens_baixo_estoque_contagem": 2},
			"listas": map[string]any{"itens_baixo_estoque_nomes": []string{"Arroz", "Feijão"}},
		})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

type testEnv struct {
	srv     *httptest.Server
	client  *http.Client
	fake    *fakeBackend
	db      *sqlite.DB
	baseURL string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fake := newFakeBackend()
	backendSrv := httptest.NewServer(fake.handler())
	t.Cleanup(backendSrv.Close)

	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	log := slog.Default()
	server := NewServer("127.0.0.1:0", db, backend.New(backendSrv.URL), opslog.New(db, log), nil, log)
	appSrv := httptest.NewServer(server.server.Handler)
	t.Cleanup(appSrv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &testEnv{
		srv:     appSrv,
		client:  &http.Client{Jar: jar},
		fake:    fake,
		db:      db,
		baseURL: appSrv.URL,
	}
}

func (e *testEnv) get(t *testing.T, path string) string {
	t.Helper()
	resp, err := e.client.Get(e.baseURL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d\n%s", path, resp.StatusCode, body)
	}
	return string(body)
}

func (e *testEnv) csrfToken(t *testing.T) string {
	t.Helper()
	u, _ := url.Parse(e.baseURL)
	for _, c := range e.client.Jar.Cookies(u) {
		if c.Name == csrfCookieName {
			return c.Value
		}
	}
	t.Fatal("csrf cookie not set; GET a page first")
	return ""
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) string {
	t.Helper()
	form.Set("_csrf", e.csrfToken(t))
	resp, err := e.client.PostForm(e.baseURL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST %s: status %d\n%s", path, resp.StatusCode, body)
	}
	return string(body)
}

func TestCheckoutFlow(t *testing.T) {
	env := newTestEnv(t)

	// First page load creates the session and fills the POS cache.
	page := env.get(t, "/")
	if !strings.Contains(page, "Carrinho vazio.") {
		t.Fatal("fresh session should start with an empty cart")
	}

	page = env.post(t, "/caixa/adicionar", url.Values{"codigo": {"789"}, "quantidade": {"2"}})
	if !strings.Contains(page, "Café Forte") {
		t.Fatal("cart line missing after add")
	}

	page = env.post(t, "/caixa/finalizar", url.Values{})
	if !strings.Contains(page, "registrada com sucesso") {
		t.Fatalf("checkout success message missing:\n%s", truncate(page))
	}
	if !strings.Contains(page, "Carrinho vazio.") {
		t.Fatal("cart should be cleared after checkout")
	}

	env.fake.mu.Lock()
	sales := len(env.fake.sales)
	env.fake.mu.Unlock()
	if sales != 1 {
		t.Fatalf("backend received %d sales, want 1", sales)
	}

	// The journal must hold the sale.
	var count int
	err := env.db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM ops_log WHERE action = ?`, opslog.ActionSaleSubmitted).Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("count journal: %v", err)
	}
	if count != 1 {
		t.Fatalf("journal rows = %d, want 1", count)
	}
}

func TestCheckoutRejectsStockExcess(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")

	env.post(t, "/caixa/adicionar", url.Values{"codigo": {"123"}, "quantidade": {"4"}})
	page := env.post(t, "/caixa/adicionar", url.Values{"codigo": {"123"}, "quantidade": {"1"}})
	if !strings.Contains(page, "estoque insuficiente") {
		t.Fatalf("stock excess should be rejected:\n%s", truncate(page))
	}
}

func TestReceivingFlow(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/recebimento")

	// Unknown barcode switches the form to registration mode.
	page := env.post(t, "/recebimento/consultar", url.Values{"codigo": {"999"}})
	if !strings.Contains(page, "Cadastrar Novo Produto") {
		t.Fatalf("registration mode missing:\n%s", truncate(page))
	}

	page = env.post(t, "/recebimento/enviar", url.Values{
		"codigo": {"999"}, "nome": {"Leite"}, "descricao": {"1L"}, "categoria": {"Laticínios"},
		"preco": {"4,99"}, "quantidade": {"24"},
	})
	if !strings.Contains(page, "cadastrado com sucesso") {
		t.Fatalf("create confirmation missing:\n%s", truncate(page))
	}

	// Known barcode switches to top-up mode; submit updates only quantity.
	page = env.post(t, "/recebimento/consultar", url.Values{"codigo": {"789"}})
	if !strings.Contains(page, "Adicionar ao Estoque") {
		t.Fatalf("top-up mode missing:\n%s", truncate(page))
	}
	page = env.post(t, "/recebimento/enviar", url.Values{"quantidade": {"5"}})
	if !strings.Contains(page, "estoque atualizado para 15 unidades") {
		t.Fatalf("top-up confirmation missing:\n%s", truncate(page))
	}

	env.fake.mu.Lock()
	qty := env.fake.products["789"]["quantidade"]
	env.fake.mu.Unlock()
	if qty != float64(15) {
		t.Fatalf("backend quantity = %v, want 15", qty)
	}
}

func TestStockBrowserFlow(t *testing.T) {
	env := newTestEnv(t)

	page := env.get(t, "/consulta")
	if !strings.Contains(page, `<tr class="table-warning">`) {
		t.Fatal("low-stock row class missing")
	}
	if !strings.Contains(page, `<tr class="table-danger">`) {
		t.Fatal("empty-stock row class missing")
	}

	// Local filter narrows without dropping the snapshot.
	page = env.get(t, "/consulta?q=café")
	if !strings.Contains(page, "Café Forte") || strings.Contains(page, "Feijão") {
		t.Fatalf("filter result wrong:\n%s", truncate(page))
	}

	// Edit modal saves through to the backend.
	page = env.post(t, "/consulta/salvar", url.Values{
		"codigo": {"789"}, "nome": {"Café Extra Forte"}, "descricao": {"500g"},
		"categoria": {"Mercearia"}, "preco": {"19,90"}, "quantidade": {"10"},
	})
	if !strings.Contains(page, "atualizado com sucesso") {
		t.Fatalf("save confirmation missing:\n%s", truncate(page))
	}

	env.fake.mu.Lock()
	name := env.fake.products["789"]["nome"]
	env.fake.mu.Unlock()
	if name != "Café Extra Forte" {
		t.Fatalf("backend name = %v", name)
	}
}

func TestCSRFRejectsMissingToken(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")

	resp, err := env.client.PostForm(env.baseURL+"/caixa/limpar", url.Values{})
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestScannerPostAcceptsHeaderToken(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")

	// The scan modal script sends the token as a header, not a form field.
	req, err := http.NewRequest(http.MethodPost, env.baseURL+"/scanner/abrir", nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("X-CSRF-Token", env.csrfToken(t))
	resp, err := env.client.Do(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		t.Fatal("header token should pass the csrf check")
	}
	// No scanner is configured in the test env, so the request reaches the
	// handler and gets its 503.
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}

func TestConcurrentCartAdds(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")
	token := env.csrfToken(t)

	const adds = 10
	var wg sync.WaitGroup
	errCh := make(chan error, adds)
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			form := url.Values{"codigo": {"789"}, "_csrf": {token}}
			resp, err := env.client.PostForm(env.baseURL+"/caixa/adicionar", form)
			if err != nil {
				errCh <- err
				return
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				errCh <- fmt.Errorf("status %d", resp.StatusCode)
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("add: %v", err)
	}

	// Every unit must land on the one merged line; lost updates mean the
	// session was mutated without the lock.
	page := env.get(t, "/")
	if !strings.Contains(page, `<td class="text-center">10</td>`) {
		t.Fatalf("cart line should hold all %d units:\n%s", adds, truncate(page))
	}
}

func TestScannerUnconfigured(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")

	form := url.Values{"_csrf": {env.csrfToken(t)}}
	resp, err := env.client.PostForm(env.baseURL+"/scanner/abrir", form)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}

func truncate(s string) string {
	if len(s) > 2000 {
		return s[:2000] + "..."
	}
	return s
}
