// Package scanner exposes the terminal's barcode scanner to the browser
// pages. The scan session lives server-side; pages drive it through small
// JSON endpoints and receive decoded codes by polling.
package scanner

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"mercadinho/infrastructure/scan"
)

// Manager serializes access to the scan session and buffers the decoded
// code until the page polls for it.
type Manager struct {
	session *scan.Session
	codes   chan string
}

// NewManager wires the session callbacks. A nil session means no scanner is
// configured; handlers answer 503.
func NewManager(session *scan.Session, log *slog.Logger) *Manager {
	m := &Manager{session: session, codes: make(chan string, 1)}
	if session != nil {
		session.OnSuccess = func(code string) {
			select {
			case m.codes <- code:
			default:
			}
		}
		session.OnError = func(err error) {
			log.Warn("scanner error", "error", err)
		}
	}
	return m
}

func (m *Manager) configured() bool {
	return m != nil && m.session != nil
}

// OpenHandler starts a decode session.
func OpenHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.configured() {
			writeJSONError(w, http.StatusServiceUnavailable, "scanner não configurado")
			return
		}
		// Drop any code left over from an abandoned session.
		select {
		case <-m.codes:
		default:
		}
		if err := m.session.Show(); err != nil {
			writeJSONError(w, http.StatusBadGateway, "não foi possível acessar o leitor")
			return
		}
		writeJSON(w, map[string]bool{"ok": true, "alternar": m.session.CanSwitch()})
	}
}

// SwitchHandler moves to the next scanner device.
func SwitchHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.configured() {
			writeJSONError(w, http.StatusServiceUnavailable, "scanner não configurado")
			return
		}
		if err := m.session.SwitchDevice(); err != nil {
			writeJSONError(w, http.StatusBadGateway, "não foi possível alternar o leitor")
			return
		}
		writeJSON(w, map[string]bool{"ok": true})
	}
}

// CloseHandler stops the decode session.
func CloseHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.configured() {
			m.session.Hide()
		}
		writeJSON(w, map[string]bool{"ok": true})
	}
}

// PollHandler long-polls for the next decoded code. It answers an empty
// object after the wait window so the page can keep the loop alive.
func PollHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.configured() {
			writeJSONError(w, http.StatusServiceUnavailable, "scanner não configurado")
			return
		}
		select {
		case code := <-m.codes:
			writeJSON(w, map[string]string{"codigo": code})
		case <-time.After(25 * time.Second):
			writeJSON(w, map[string]string{})
		case <-r.Context().Done():
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"erro": msg})
}
