// Package opslog journals terminal operations to the local sqlite file so a
// shift can be reviewed even when the backend is unreachable. Entries are
// advisory; a failed journal write never fails the operation itself.
package opslog

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/uptrace/bun"

	"mercadinho/infrastructure/sqlite"
	"mercadinho/models"
)

const (
	ActionSaleSubmitted  = "venda_finalizada"
	ActionProductCreated = "produto_cadastrado"
	ActionProductUpdated = "produto_atualizado"
	ActionStockTopUp     = "estoque_reposto"
)

type Service struct {
	db  *sqlite.DB
	log *slog.Logger
}

func New(db *sqlite.DB, log *slog.Logger) *Service {
	return &Service{db: db, log: log}
}

// Record writes one journal entry. detail is serialized to JSON; a nil
// detail leaves the column empty.
func (s *Service) Record(ctx context.Context, sessionID, action, entityType, entityID string, detail any) {
	if s == nil || s.db == nil {
		return
	}

	var detailJSON string
	if detail != nil {
		data, err := json.Marshal(detail)
		if err != nil {
			s.log.Warn("ops journal detail not serializable", "action", action, "error", err)
		} else {
			detailJSON = string(data)
		}
	}

	entry := &models.OpsLogEntry{
		SessionID:  sessionID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		DetailJSON: detailJSON,
	}

	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(entry).Exec(ctx)
		return err
	})
	if err != nil {
		s.log.Error("ops journal write failed", "action", action, "entity_id", entityID, "error", err)
	}
}

// Recent returns the newest entries, most recent first.
func (s *Service) Recent(ctx context.Context, limit int) ([]models.OpsLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []models.OpsLogEntry
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&entries).
			Order("created_at DESC", "id DESC").
			Limit(limit).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
