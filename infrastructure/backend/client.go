// Package backend is the HTTP client for the external POS backend. The
// backend owns all stock arithmetic and sale recording; this client only
// mirrors its REST surface.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mercadinho/models"
)

// ErrNotFound is returned when the backend answers 404 for a barcode.
var ErrNotFound = errors.New("product not found")

// APIError carries a backend-rejected request. Message is the backend's own
// human-readable text when present, or a generic fallback.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the backend REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// FetchStock returns the full stock collection.
func (c *Client) FetchStock(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.getJSON(ctx, "/api/estoque", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchProduct returns one product by barcode. A backend 404 is reported as
// ErrNotFound.
func (c *Client) FetchProduct(ctx context.Context, barcode string) (models.Product, error) {
	var p models.Product
	err := c.getJSON(ctx, "/api/produto/"+url.PathEscape(barcode), &p)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return models.Product{}, ErrNotFound
		}
		return models.Product{}, err
	}
	return p, nil
}

// CreateProduct registers a new product. Price and quantity are forwarded as
// entered; normalization on this path is the backend's responsibility.
func (c *Client) CreateProduct(ctx context.Context, req ProductCreate) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/produto", req, nil)
}

// UpdateProduct submits a partial update for the given barcode. Only non-nil
// fields are sent.
func (c *Client) UpdateProduct(ctx context.Context, barcode string, upd ProductUpdate) error {
	return c.sendJSON(ctx, http.MethodPut, "/api/produto/"+url.PathEscape(barcode), upd, nil)
}

// SubmitSale posts the whole cart as one sale and returns the backend
// assigned sale id.
func (c *Client) SubmitSale(ctx context.Context, items []models.CartLine) (string, error) {
	var resp saleResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/api/venda", saleRequest{Items: items}, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.SaleID.String()) == "" {
		return "", fmt.Errorf("backend accepted sale but returned no id")
	}
	return resp.SaleID.String(), nil
}

// FetchSaleRows returns the raw sale-line rows used for reporting and
// receipt rendering.
func (c *Client) FetchSaleRows(ctx context.Context) ([]SaleRow, error) {
	var rows []SaleRow
	if err := c.getJSON(ctx, "/api/relatorio/vendas", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// FetchStockReport returns the backend's pre-aggregated stock KPIs.
func (c *Client) FetchStockReport(ctx context.Context) (StockReport, error) {
	var rep StockReport
	if err := c.getJSON(ctx, "/api/relatorio/estoque", &rep); err != nil {
		return StockReport{}, err
	}
	return rep, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read backend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}

// errorMessage extracts the backend's "erro" field, degrading to a generic
// message when the body is not the expected JSON shape.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Erro string `json:"erro"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Erro) != "" {
		return payload.Erro
	}
	return fmt.Sprintf("erro do servidor (status %d)", status)
}
