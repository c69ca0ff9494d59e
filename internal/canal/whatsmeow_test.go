package canal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// A primeira execução parte de um banco de sessão vazio: o construtor deve
// criar o armazenamento, obter um dispositivo novo e ficar pronto para o
// pareamento por QR Code (Store.ID ainda nulo).
func TestNewWhatsmeowComBancoVazio(t *testing.T) {
	uri := "file:" + filepath.Join(t.TempDir(), "sessao.db") + "?_pragma=foreign_keys(1)"

	c, err := NewWhatsmeow(context.Background(), uri, func(Entrada) {}, zerolog.Nop())
	if err != nil {
		t.Fatalf("construtor não deveria falhar com banco vazio: %v", err)
	}
	if c == nil || c.cliente == nil {
		t.Fatal("cliente não inicializado")
	}
	if c.cliente.Store.ID != nil {
		t.Fatalf("dispositivo novo não deveria estar pareado: %v", c.cliente.Store.ID)
	}
}
