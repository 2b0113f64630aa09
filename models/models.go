package models

import (
	"sync"
	"time"

	"github.com/uptrace/bun"

	"mercadinho/infrastructure/money"
)

// Product mirrors one stock record owned by the backend. Field names follow
// the backend wire contract; Preco can arrive either as a JSON number or as
// a comma-decimal string, so it is decoded through money.Decimal.
type Product struct {
	Barcode     string        `json:"codigo_barras"`
	Name        string        `json:"nome"`
	Description string        `json:"descricao"`
	Category    string        `json:"categoria"`
	Price       money.Decimal `json:"preco"`
	Quantity    int           `json:"quantidade"`
}

// QuickAddLabel is the "nome (cod: barras)" label the POS quick-add input
// matches against.
func (p Product) QuickAddLabel() string {
	return p.Name + " (cod: " + p.Barcode + ")"
}

// CartLine is one intended sale line. UnitPrice is snapshotted when the line
// is first added and never refreshed afterwards.
type CartLine struct {
	Barcode   string  `json:"codigo_barras"`
	Name      string  `json:"nome"`
	Quantity  int     `json:"quantidade"`
	UnitPrice float64 `json:"preco_unit"`
	Total     float64 `json:"total"`
}

// ReceivingMode enumerates the receiving form states. The zero value is
// Idle, in which submitting is impossible.
type ReceivingMode int

const (
	ReceivingIdle ReceivingMode = iota
	ReceivingNewProduct
	ReceivingRestock
)

// ReceivingState is the tagged union {Idle, NewProduct, Restock(Product)}.
// Product is non-nil exactly when Mode is ReceivingRestock.
type ReceivingState struct {
	Mode    ReceivingMode
	Product *Product
}

// Session is an anonymous terminal session. Cart and receiving state live
// only here, in process memory, for the lifetime of the session. Handlers
// hold the embedded mutex while reading or mutating Cart and Receiving.
type Session struct {
	sync.Mutex

	ID        string
	Cart      []CartLine
	Receiving ReceivingState
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired returns true when the session expiry time has passed.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// OpsLogEntry records one local operation: a sale submitted, a product
// registered or updated, a stock top-up. It is terminal-side bookkeeping
// only and never feeds stock arithmetic.
type OpsLogEntry struct {
	bun.BaseModel `bun:"table:ops_log,alias:ol"`

	ID         int64     `bun:"id,pk,autoincrement"`
	SessionID  string    `bun:"session_id,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	DetailJSON string    `bun:"detail_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
