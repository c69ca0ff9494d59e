package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fabinhoeventos/pesquisabot/internal/bot"
	"github.com/fabinhoeventos/pesquisabot/internal/canal"
	"github.com/fabinhoeventos/pesquisabot/internal/config"
	"github.com/fabinhoeventos/pesquisabot/internal/db"
	internalhttp "github.com/fabinhoeventos/pesquisabot/internal/http"
	"github.com/fabinhoeventos/pesquisabot/internal/relatorio"
	"github.com/fabinhoeventos/pesquisabot/internal/repo"
	"github.com/fabinhoeventos/pesquisabot/internal/repo/planilha"
	"github.com/fabinhoeventos/pesquisabot/internal/repo/postgres"
	"github.com/fabinhoeventos/pesquisabot/internal/sessao"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("bot encerrado com erro")
	}
}

// armazem agrupa os repositórios de um backend.
type armazem struct {
	cadastros   repo.Cadastros
	pesquisas   repo.Pesquisas
	blacklist   repo.Blacklist
	credenciais repo.Credenciais
	eventos     repo.Eventos
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	store, fechar, err := montarArmazem(ctx, cfg)
	if err != nil {
		return err
	}
	defer fechar()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis parse: %w", err)
		}
		redisClient = redis.NewClient(redisOpts)
		defer redisClient.Close()
	}
	cache := relatorio.NewCache(redisClient, cfg.CacheTTL, log.Logger)

	sessoes := sessao.NewGerente(cfg.SessionTTL, nil)

	// O roteador e o canal se referenciam mutuamente; o receptor fecha sobre
	// o ponteiro preenchido depois.
	var roteador *bot.Roteador
	receptor := func(entrada canal.Entrada) {
		roteador.Processar(context.Background(), entrada)
	}

	var transporte canal.Canal
	var webhook *canal.CloudAPI
	switch cfg.Canal {
	case config.CanalWhatsmeow:
		transporte, err = canal.NewWhatsmeow(ctx, cfg.WhatsmeowDB, receptor, log.Logger)
		if err != nil {
			return fmt.Errorf("whatsmeow: %w", err)
		}
	case config.CanalCloudAPI:
		webhook = canal.NewCloudAPI(cfg.WhatsAppToken, cfg.PhoneNumberID, receptor, log.Logger)
		transporte = webhook
	}

	roteador = bot.NovoRoteador(bot.Deps{
		Cadastros:   store.cadastros,
		Pesquisas:   store.pesquisas,
		Blacklist:   store.blacklist,
		Credenciais: store.credenciais,
		Eventos:     store.eventos,
		Canal:       transporte,
		Sessoes:     sessoes,
		Log:         log.Logger,
	})

	if err := transporte.Iniciar(ctx); err != nil {
		return fmt.Errorf("canal: %w", err)
	}
	defer transporte.Encerrar()

	handler := internalhttp.NewRouter(cfg, store.pesquisas, cache, webhook)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("HTTP ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// montarArmazem instancia os repositórios do backend configurado e devolve a
// função de liberação dos recursos.
func montarArmazem(ctx context.Context, cfg *config.Config) (*armazem, func(), error) {
	switch cfg.StoreProvider {
	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("db: %w", err)
		}
		return &armazem{
			cadastros:   postgres.NewCadastros(pool),
			pesquisas:   postgres.NewPesquisas(pool),
			blacklist:   postgres.NewBlacklist(pool),
			credenciais: postgres.NewCredenciais(pool),
			eventos:     postgres.NewEventos(pool),
		}, pool.Close, nil

	case config.StorePlanilha:
		cliente, err := planilha.NewCliente(ctx, cfg.SpreadsheetID, cfg.GoogleCredentials)
		if err != nil {
			return nil, nil, fmt.Errorf("planilha: %w", err)
		}
		return &armazem{
			cadastros:   planilha.NewCadastros(cliente),
			pesquisas:   planilha.NewPesquisas(cliente),
			blacklist:   planilha.NewBlacklist(cliente),
			credenciais: planilha.NewCredenciais(cliente),
			eventos:     planilha.NewEventos(cliente),
		}, func() {}, nil
	}

	return nil, nil, fmt.Errorf("STORE_PROVIDER desconhecido: %s", cfg.StoreProvider)
}
