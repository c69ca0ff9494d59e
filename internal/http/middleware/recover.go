package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Recover intercepta panics dos handlers e devolve o envelope de erro
// padrão em vez de derrubar a conexão.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("panic recuperado")
				escreverErroInterno(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// O pacote http importa este; o envelope fica duplicado aqui para não fechar
// um ciclo de importação.
func escreverErroInterno(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    "INTERNAL",
			"message": "erro interno",
		},
	})
}
