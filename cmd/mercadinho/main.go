package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"mercadinho/frontend/scanner"
	"mercadinho/infrastructure/backend"
	httpserver "mercadinho/infrastructure/http"
	"mercadinho/infrastructure/opslog"
	"mercadinho/infrastructure/scan"
	"mercadinho/infrastructure/sqlite"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	addr := getenv("APP_ADDR", ":8080")
	dbPath := getenv("SQLITE_PATH", "mercadinho.db")
	backendURL := getenv("BACKEND_URL", "http://localhost:5000")

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Error("open journal db failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, os.Getenv("MIGRATIONS_DIR")); err != nil {
		log.Error("apply migrations failed", "error", err)
		os.Exit(1)
	}

	client := backend.New(backendURL)
	ops := opslog.New(db, log)
	scannerMgr := scanner.NewManager(buildScanSession(log), log)

	server := httpserver.NewServer(addr, db, client, ops, scannerMgr, log)
	if err := server.Start(); err != nil {
		log.Error("start server failed", "error", err)
		os.Exit(1)
	}
	log.Info("mercadinho listening", "addr", addr, "backend", backendURL)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Warn("graceful shutdown error", "error", err)
	}
}

// buildScanSession wires the configured scanner devices, if any. The device
// list is a comma-separated set of "path=label" pairs, for example
// SCANNER_DEVICES="/dev/ttyUSB0=leitor traseira,/dev/ttyUSB1=leitor balcão".
func buildScanSession(log *slog.Logger) *scan.Session {
	raw := strings.TrimSpace(os.Getenv("SCANNER_DEVICES"))
	if raw == "" {
		return nil
	}

	var devices []scan.Device
	for _, entry := range strings.Split(raw, ",") {
		path, label, _ := strings.Cut(strings.TrimSpace(entry), "=")
		if path == "" {
			continue
		}
		if label == "" {
			label = path
		}
		devices = append(devices, scan.Device{ID: path, Label: label})
	}
	if len(devices) == 0 {
		return nil
	}

	log.Info("scanner devices configured", "count", len(devices))
	return scan.NewSession(&scan.LineDecoder{Devices: devices}, nil, log)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
