package middleware

import (
	"io"
	"net/http"
)

// maxDrainBytes bounds how much of an unread body is discarded. Measurement
// forms are a few hundred bytes; anything larger is just closed.
const maxDrainBytes = 64 << 10

// DrainAndCloseRequest reads whatever the handler left of a form or JSON
// measurement body and closes it, so the connection can be reused.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			drainBody(r.Body)
		})
	}
}

// drainBody returns how many bytes were discarded.
func drainBody(body io.ReadCloser) int64 {
	if body == nil || body == http.NoBody {
		return 0
	}
	n, _ := io.CopyN(io.Discard, body, maxDrainBytes)
	_ = body.Close()
	return n
}
