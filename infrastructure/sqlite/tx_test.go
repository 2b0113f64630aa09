package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func insertEntry(ctx context.Context, tx bun.Tx, sessionID, action string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO ops_log (session_id, action, entity_type, entity_id) VALUES (?, ?, 'venda', '1')`,
		sessionID, action)
	return err
}

func countEntries(t *testing.T, db *DB, sessionID string) int {
	t.Helper()
	var count int
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM ops_log WHERE session_id = ?`, sessionID).Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("count entries: %v", err)
	}
	return count
}

func TestWithWriteTxRollsBackOnError(t *testing.T) {
	db := openTestDB(t)

	boom := errors.New("boom")
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if err := insertEntry(ctx, tx, "sess-rollback", "venda_finalizada"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got: %v", err)
	}

	if count := countEntries(t, db, "sess-rollback"); count != 0 {
		t.Fatalf("expected rollback to remove insert, count=%d", count)
	}
}

func TestWithWriteTxCommitsOnSuccess(t *testing.T) {
	db := openTestDB(t)

	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return insertEntry(ctx, tx, "sess-commit", "venda_finalizada")
	})
	if err != nil {
		t.Fatalf("write tx failed: %v", err)
	}

	if count := countEntries(t, db, "sess-commit"); count != 1 {
		t.Fatalf("expected committed insert, count=%d", count)
	}
}

func TestWithReadTxRejectsWrite(t *testing.T) {
	db := openTestDB(t)

	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return insertEntry(ctx, tx, "sess-ro", "venda_finalizada")
	})
	if err == nil && countEntries(t, db, "sess-ro") > 0 {
		t.Fatal("expected write in read tx to be blocked; write succeeded")
	}
}
