package relatorio

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache guarda relatórios serializados no Redis por um TTL curto, aliviando
// releituras da tabela inteira pelo painel. Instância nula é segura: tudo
// vira cache miss.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewCache cria o cache de relatórios.
func NewCache(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, log: log}
}

// Obter tenta preencher destino com o valor cacheado. Falhas de Redis são
// tratadas como miss, nunca como erro para o chamador.
func (c *Cache) Obter(ctx context.Context, chave string, destino any) bool {
	if c == nil || c.rdb == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, chave).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("chave", chave).Msg("cache de relatório indisponível")
		}
		return false
	}
	if err := json.Unmarshal(raw, destino); err != nil {
		c.log.Warn().Err(err).Str("chave", chave).Msg("cache de relatório corrompido")
		return false
	}
	return true
}

// Guardar serializa e grava o valor com o TTL configurado.
func (c *Cache) Guardar(ctx context.Context, chave string, valor any) {
	if c == nil || c.rdb == nil {
		return
	}

	raw, err := json.Marshal(valor)
	if err != nil {
		c.log.Warn().Err(err).Str("chave", chave).Msg("falha ao serializar relatório")
		return
	}
	if err := c.rdb.Set(ctx, chave, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("chave", chave).Msg("falha ao gravar cache de relatório")
	}
}
