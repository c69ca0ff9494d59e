// Package http expõe a fachada web do bot: o dashboard estático, os
// endpoints de leitura consumidos por ele e o webhook da Cloud API.
package http

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/fabinhoeventos/pesquisabot/internal/canal"
	"github.com/fabinhoeventos/pesquisabot/internal/config"
	httpmiddleware "github.com/fabinhoeventos/pesquisabot/internal/http/middleware"
	"github.com/fabinhoeventos/pesquisabot/internal/relatorio"
	"github.com/fabinhoeventos/pesquisabot/internal/repo"
)

// Handler agrega as dependências dos endpoints.
type Handler struct {
	cfg       *config.Config
	pesquisas repo.Pesquisas
	cache     *relatorio.Cache
	webhook   *canal.CloudAPI
}

// NewRouter devolve o roteador configurado. O webhook só é montado quando o
// canal da Cloud API está em uso.
func NewRouter(cfg *config.Config, pesquisas repo.Pesquisas, cache *relatorio.Cache, webhook *canal.CloudAPI) http.Handler {
	h := &Handler{
		cfg:       cfg,
		pesquisas: pesquisas,
		cache:     cache,
		webhook:   webhook,
	}

	limiter := httpmiddleware.NewRateLimiter(10, 30)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))
	r.Use(httpmiddleware.IPRateLimit(limiter))

	r.Get("/healthz", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dados", h.handleDados)
		r.Get("/estatisticas", h.handleEstatisticas)
	})

	if webhook != nil {
		r.Get("/webhook", h.handleWebhookVerify)
		r.Post("/webhook", h.handleWebhookEvent)
	}

	fileServer := http.FileServer(http.Dir(cfg.PublicDir))
	r.Handle("/*", fileServer)

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDados devolve a tabela de pesquisas inteira, como o dashboard espera.
func (h *Handler) handleDados(w http.ResponseWriter, r *http.Request) {
	type linha struct {
		CPF             string `json:"cpf"`
		NomeEvento      string `json:"nomeEvento"`
		NomeLider       string `json:"nomeLider"`
		DataEvento      string `json:"dataEvento"`
		PesquisaEnviada bool   `json:"pesquisaEnviada"`
		Nota            *int   `json:"nota"`
		DataResposta    string `json:"dataResposta,omitempty"`
	}

	var cacheado []linha
	if h.cache.Obter(r.Context(), "api:dados", &cacheado) {
		WriteJSON(w, http.StatusOK, cacheado)
		return
	}

	todas, err := h.pesquisas.ListarTodas(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("listar pesquisas para /api/dados")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro ao carregar dados", nil)
		return
	}

	linhas := make([]linha, 0, len(todas))
	for _, p := range todas {
		if p.Sentinela() {
			continue
		}
		linhas = append(linhas, linha{
			CPF:             p.CPF,
			NomeEvento:      p.NomeEvento,
			NomeLider:       p.NomeLider,
			DataEvento:      p.DataEvento,
			PesquisaEnviada: p.PesquisaEnviada,
			Nota:            p.Nota,
			DataResposta:    p.DataResposta,
		})
	}

	h.cache.Guardar(r.Context(), "api:dados", linhas)
	WriteJSON(w, http.StatusOK, linhas)
}

type estatisticasResposta struct {
	TotalCadastros      int                                   `json:"totalCadastros"`
	TotalRespondidas    int                                   `json:"totalRespondidas"`
	EstatisticasLideres map[string]relatorio.EstatisticaLider `json:"estatisticasLideres"`
}

// handleEstatisticas devolve os totais e a média por líder. Os totais contam
// linhas de pesquisa (a atribuição, não o cadastro), sempre fora a sentinela.
func (h *Handler) handleEstatisticas(w http.ResponseWriter, r *http.Request) {
	var cacheado estatisticasResposta
	if h.cache.Obter(r.Context(), "api:estatisticas", &cacheado) {
		WriteJSON(w, http.StatusOK, cacheado)
		return
	}

	todas, err := h.pesquisas.ListarTodas(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("listar pesquisas para /api/estatisticas")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro ao carregar estatísticas", nil)
		return
	}

	total, respondidas := 0, 0
	for _, p := range todas {
		if p.Sentinela() {
			continue
		}
		total++
		if p.Respondida() {
			respondidas++
		}
	}

	resposta := estatisticasResposta{
		TotalCadastros:      total,
		TotalRespondidas:    respondidas,
		EstatisticasLideres: relatorio.EstatisticasLideres(todas),
	}
	h.cache.Guardar(r.Context(), "api:estatisticas", resposta)
	WriteJSON(w, http.StatusOK, resposta)
}

// handleWebhookVerify responde ao desafio de assinatura da Cloud API.
func (h *Handler) handleWebhookVerify(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("hub.mode") == "subscribe" && query.Get("hub.verify_token") == h.cfg.WebhookVerifyToken {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(query.Get("hub.challenge")))
		return
	}
	w.WriteHeader(http.StatusForbidden)
}

// handleWebhookEvent recebe as notificações de mensagens. O provedor exige
// resposta 200 imediata; o processamento segue em background.
func (h *Handler) handleWebhookEvent(w http.ResponseWriter, r *http.Request) {
	corpo, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "corpo ilegível", nil)
		return
	}

	entradas, err := canal.ParseWebhook(corpo)
	if err != nil {
		log.Warn().Err(err).Msg("webhook com envelope inválido")
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "envelope inválido", nil)
		return
	}

	for _, entrada := range entradas {
		go h.webhook.Receber(entrada)
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "received"})
}
