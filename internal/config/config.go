package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backends de armazenamento aceitos em STORE_PROVIDER.
const (
	StorePostgres = "postgres"
	StorePlanilha = "planilha"
)

// Backends de transporte aceitos em CANAL.
const (
	CanalWhatsmeow = "whatsmeow"
	CanalCloudAPI  = "cloudapi"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port         int
	AllowOrigins []string
	PublicDir    string

	StoreProvider string
	DBDSN         string
	SpreadsheetID string
	// GoogleCredentials é o caminho do JSON da conta de serviço.
	GoogleCredentials string

	// RedisURL é opcional; vazio desliga o cache de relatórios.
	RedisURL string
	CacheTTL time.Duration

	SessionTTL time.Duration

	Canal string
	// WhatsmeowDB é o caminho do banco local de sessão do socket.
	WhatsmeowDB        string
	WhatsAppToken      string
	PhoneNumberID      string
	WebhookVerifyToken string
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	allowOrigins := strings.Split(getEnv("ALLOW_ORIGINS", ""), ",")
	cfg.AllowOrigins = nil
	for _, origin := range allowOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	cfg.PublicDir = getEnv("PUBLIC_DIR", "public")

	cfg.StoreProvider = strings.ToLower(getEnv("STORE_PROVIDER", StorePostgres))
	switch cfg.StoreProvider {
	case StorePostgres:
		cfg.DBDSN = getEnv("DB_DSN", "")
		if cfg.DBDSN == "" {
			return nil, errors.New("DB_DSN obrigatório com STORE_PROVIDER=postgres")
		}
	case StorePlanilha:
		cfg.SpreadsheetID = getEnv("SPREADSHEET_ID", "")
		if cfg.SpreadsheetID == "" {
			return nil, errors.New("SPREADSHEET_ID obrigatório com STORE_PROVIDER=planilha")
		}
		cfg.GoogleCredentials = getEnv("GOOGLE_CREDENTIALS", "")
		if cfg.GoogleCredentials == "" {
			return nil, errors.New("GOOGLE_CREDENTIALS obrigatório com STORE_PROVIDER=planilha")
		}
	default:
		return nil, errors.New("STORE_PROVIDER deve ser postgres ou planilha")
	}

	cfg.RedisURL = getEnv("REDIS_URL", "")

	cacheTTL, err := parseDurationEnv("CACHE_TTL", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = cacheTTL

	sessionTTL, err := parseDurationEnv("SESSION_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = sessionTTL

	cfg.Canal = strings.ToLower(getEnv("CANAL", CanalWhatsmeow))
	switch cfg.Canal {
	case CanalWhatsmeow:
		cfg.WhatsmeowDB = getEnv("WHATSMEOW_DB", "file:whatsmeow.db?_pragma=foreign_keys(1)")
	case CanalCloudAPI:
		cfg.WhatsAppToken = getEnv("WHATSAPP_TOKEN", "")
		if cfg.WhatsAppToken == "" {
			return nil, errors.New("WHATSAPP_TOKEN obrigatório com CANAL=cloudapi")
		}
		cfg.PhoneNumberID = getEnv("PHONE_NUMBER_ID", "")
		if cfg.PhoneNumberID == "" {
			return nil, errors.New("PHONE_NUMBER_ID obrigatório com CANAL=cloudapi")
		}
		cfg.WebhookVerifyToken = getEnv("WEBHOOK_VERIFY_TOKEN", "")
		if cfg.WebhookVerifyToken == "" {
			return nil, errors.New("WEBHOOK_VERIFY_TOKEN obrigatório com CANAL=cloudapi")
		}
	default:
		return nil, errors.New("CANAL deve ser whatsmeow ou cloudapi")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}
