package dbadmin

import (
	"io"
	"net/http"
)

// WriteNoCacheHTML sends a rendered page. The underlying data mutates
// continuously, so caching is explicitly disabled on every response.
func WriteNoCacheHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, body)
}
