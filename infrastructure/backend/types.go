package backend

import (
	"encoding/json"
	"fmt"

	"mercadinho/infrastructure/money"
	"mercadinho/models"
)

// ProductCreate is the registration payload. Price and quantity stay strings
// so the value typed at the terminal reaches the backend untouched.
type ProductCreate struct {
	Barcode     string `json:"codigo_barras"`
	Name        string `json:"nome"`
	Description string `json:"descricao"`
	Category    string `json:"categoria"`
	Price       string `json:"preco"`
	Quantity    string `json:"quantidade"`
}

// ProductUpdate is a partial update. Nil fields are omitted from the request
// body and left unchanged by the backend.
type ProductUpdate struct {
	Name        *string  `json:"nome,omitempty"`
	Description *string  `json:"descricao,omitempty"`
	Category    *string  `json:"categoria,omitempty"`
	Price       *float64 `json:"preco,omitempty"`
	Quantity    *int     `json:"quantidade,omitempty"`
}

type saleRequest struct {
	Items []models.CartLine `json:"itens"`
}

type saleResponse struct {
	SaleID FlexString `json:"id_venda"`
}

// SaleRow is one sale line from the sales report. The backend persists to a
// spreadsheet, so numeric columns can come back as strings with comma
// decimals; FlexString keeps the literal text for the caller to normalize.
type SaleRow struct {
	SaleID    FlexString `json:"id_venda"`
	Timestamp string     `json:"data_hora"`
	Barcode   FlexString `json:"codigo_barras"`
	Product   string     `json:"nome_produto"`
	Quantity  FlexString `json:"quantidade_vendida"`
	UnitPrice FlexString `json:"preco_unitario"`
	Total     FlexString `json:"total_item"`
	Category  string     `json:"categoria"`
}

// StockReport is the backend's pre-aggregated stock summary, passed through
// to the reports page without recomputation.
type StockReport struct {
	KPIs  StockKPIs  `json:"kpis"`
	Lists StockLists `json:"listas"`
}

type StockKPIs struct {
	TotalValue    money.Decimal `json:"valor_total_estoque"`
	TotalItems    int           `json:"total_itens_estoque"`
	LowStockCount int           `json:"itens_baixo_estoque_contagem"`
}

type StockLists struct {
	LowStockNames []string `json:"itens_baixo_estoque_nomes"`
}

// FlexString decodes a JSON string, number, or null into its literal text.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("value %s is neither string nor number", data)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

func (f FlexString) String() string {
	return string(f)
}
