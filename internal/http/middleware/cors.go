package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// CORS libera o dashboard para as origens configuradas em ALLOW_ORIGINS.
// Aceita:
// - Origin exato (ex.: https://painel.fabinhoeventos.com.br)
// - wildcard de subdomínio quando a entrada começar com *. (ex.: *.fabinhoeventos.com.br)
func CORS(origensPermitidas []string) func(http.Handler) http.Handler {
	exatas := make(map[string]struct{}, len(origensPermitidas))
	var sufixos []string // apenas host suffix (sem esquema), começando com .

	for _, entrada := range origensPermitidas {
		e := strings.TrimSpace(entrada)
		if e == "" {
			continue
		}
		if strings.HasPrefix(e, "*.") {
			sufixos = append(sufixos, strings.TrimPrefix(e, "*")) // preserva ".dominio"
			continue
		}
		exatas[e] = struct{}{}
	}

	permitida := func(origin string) bool {
		if origin == "" {
			return false
		}
		if _, ok := exatas[origin]; ok {
			return true
		}

		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		host := strings.ToLower(u.Hostname())
		for _, suf := range sufixos {
			// suf já começa com '.' (ex.: ".fabinhoeventos.com.br")
			if strings.HasSuffix(host, strings.ToLower(suf)) {
				// exige subdomínio: host != raiz do sufixo
				raiz := strings.TrimPrefix(strings.ToLower(suf), ".")
				if host == raiz {
					continue
				}
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if permitida(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With")
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
