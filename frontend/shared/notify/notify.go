// Package notify carries one-shot status messages across the POST/redirect
// cycle as query parameters and renders them as auto-dismissing toasts.
package notify

import (
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
)

const (
	KindSuccess = "sucesso"
	KindError   = "erro"
)

// Flash is one status message for the next page render.
type Flash struct {
	Kind    string
	Message string
}

// Redirect sends a see-other redirect to path with the flash attached. Extra
// query parameters survive alongside the flash.
func Redirect(w http.ResponseWriter, r *http.Request, path string, flash Flash, extra url.Values) {
	q := url.Values{}
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if flash.Message != "" {
		q.Set("msg", flash.Message)
		q.Set("tipo", flash.Kind)
	}
	target := path
	if encoded := q.Encode(); encoded != "" {
		target += "?" + encoded
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// FromRequest reads the flash parameters from the URL, if any.
func FromRequest(r *http.Request) (Flash, bool) {
	msg := r.URL.Query().Get("msg")
	if msg == "" {
		return Flash{}, false
	}
	kind := r.URL.Query().Get("tipo")
	if kind != KindError {
		kind = KindSuccess
	}
	return Flash{Kind: kind, Message: msg}, true
}

// RenderToast renders the toast container and, when a flash is present, the
// script that shows and auto-hides it.
func RenderToast(flash Flash, present bool) string {
	out := `<div class="toast-container position-fixed bottom-0 end-0 p-3" id="toast-area"></div>`
	if !present {
		return out
	}

	bg := "text-bg-success"
	icon := "bi-check-circle"
	if flash.Kind == KindError {
		bg = "text-bg-danger"
		icon = "bi-exclamation-triangle"
	}

	out += fmt.Sprintf(`<script>
(function () {
  const area = document.getElementById("toast-area");
  const el = document.createElement("div");
  el.className = "toast align-items-center %s border-0";
  el.innerHTML = '<div class="d-flex"><div class="toast-body"><i class="bi %s"></i> %s</div>' +
    '<button type="button" class="btn-close btn-close-white me-2 m-auto" data-bs-dismiss="toast"></button></div>';
  area.appendChild(el);
  new bootstrap.Toast(el, { delay: 5000 }).show();
})();
</script>`, bg, icon, jsEscape(flash.Message))
	return out
}

func jsEscape(s string) string {
	s = html.EscapeString(s)
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return s
}
