package scanner

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercadinho/infrastructure/scan"
)

type scriptedStream struct {
	codes  chan string
	closed chan struct{}
}

func (s *scriptedStream) Next() (string, error) {
	select {
	case code := <-s.codes:
		return code, nil
	case <-s.closed:
		return "", io.EOF
	}
}

func (s *scriptedStream) Close() error {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
	return nil
}

type scriptedDecoder struct {
	stream *scriptedStream
}

func (d *scriptedDecoder) ListDevices() ([]scan.Device, error) {
	return []scan.Device{{ID: "dev0", Label: "usb scanner"}}, nil
}

func (d *scriptedDecoder) Open(string) (scan.Stream, error) {
	return d.stream, nil
}

func TestOpenAndPollDeliversCode(t *testing.T) {
	stream := &scriptedStream{codes: make(chan string, 1), closed: make(chan struct{})}
	sess := scan.NewSession(&scriptedDecoder{stream: stream}, nil, nil)
	m := NewManager(sess, slog.Default())

	w := httptest.NewRecorder()
	OpenHandler(m)(w, httptest.NewRequest(http.MethodPost, "/scanner/abrir", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("open status = %d, body = %s", w.Code, w.Body.String())
	}

	stream.codes <- "7891000100103"

	w = httptest.NewRecorder()
	PollHandler(m)(w, httptest.NewRequest(http.MethodGet, "/scanner/codigo", nil))
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode poll response: %v", err)
	}
	if resp["codigo"] != "7891000100103" {
		t.Fatalf("poll response = %v", resp)
	}
}

func TestScanModalSendsCSRFHeader(t *testing.T) {
	modal := RenderScanModal()
	if !strings.Contains(modal, `c.startsWith("csrf_token=")`) {
		t.Fatal("modal script should read the csrf cookie")
	}
	if !strings.Contains(modal, `"X-CSRF-Token": token`) {
		t.Fatal("modal script should send the token header on its posts")
	}
	for _, path := range []string{"/scanner/abrir", "/scanner/alternar", "/scanner/fechar"} {
		if !strings.Contains(modal, `scanPost("`+path+`")`) {
			t.Fatalf("%s should go through scanPost", path)
		}
	}
}

func TestHandlersWithoutScanner(t *testing.T) {
	m := NewManager(nil, slog.Default())

	for _, h := range []http.HandlerFunc{OpenHandler(m), SwitchHandler(m), PollHandler(m)} {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/", nil))
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", w.Code)
		}
		if !strings.Contains(w.Body.String(), "scanner não configurado") {
			t.Fatalf("body = %s", w.Body.String())
		}
	}

	// Close is always a no-op success.
	w := httptest.NewRecorder()
	CloseHandler(m)(w, httptest.NewRequest(http.MethodPost, "/scanner/fechar", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("close status = %d", w.Code)
	}
}
