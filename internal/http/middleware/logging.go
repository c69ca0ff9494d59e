package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Logging registra uma linha estruturada por requisição atendida, com o
// request_id do chi quando presente.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		inicio := time.Now()

		next.ServeHTTP(ww, r)

		evento := log.Info().Str("method", r.Method).Str("path", r.URL.Path).
			Int("status", ww.Status()).Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(inicio))

		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			evento = evento.Str("request_id", reqID)
		}

		if ip := r.Header.Get("X-Real-IP"); ip != "" {
			evento = evento.Str("ip", ip)
		} else {
			evento = evento.Str("ip", r.RemoteAddr)
		}

		evento.Msg("http_request")
	})
}
