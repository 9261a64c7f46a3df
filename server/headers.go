package server

import (
	"net/http"

	"twixsite/config"
)

// Headers adds the configured headers to every response.
// They are applied when the status line is written, so error responses
// that reset the header map still carry them.
func Headers(headers []config.Header) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(&headerWriter{ResponseWriter: w, headers: headers}, r)
		})
	}
}

type headerWriter struct {
	http.ResponseWriter
	headers     []config.Header
	wroteHeader bool
}

func (w *headerWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		for _, h := range w.headers {
			w.Header().Set(h.Name, h.Value)
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *headerWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(p)
}

func (w *headerWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
