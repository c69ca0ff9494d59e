package cpf

import (
	"errors"
	"testing"
)

func TestValidar(t *testing.T) {
	casos := []struct {
		nome    string
		entrada string
		saida   string
		erro    error
	}{
		{nome: "válido sem máscara", entrada: "11144477735", saida: "111.444.777-35"},
		{nome: "válido com máscara", entrada: "111.444.777-35", saida: "111.444.777-35"},
		{nome: "válido com ruído", entrada: " 111 444 777 35 ", saida: "111.444.777-35"},
		{nome: "curto", entrada: "1114447773", erro: ErrTamanhoInvalido},
		{nome: "longo", entrada: "111444777351", erro: ErrTamanhoInvalido},
		{nome: "vazio", entrada: "", erro: ErrTamanhoInvalido},
		{nome: "sem dígitos", entrada: "abc", erro: ErrTamanhoInvalido},
		{nome: "repetido", entrada: "11111111111", erro: ErrDigitosRepetidos},
		{nome: "repetido zero", entrada: "00000000000", erro: ErrDigitosRepetidos},
		{nome: "primeiro dígito errado", entrada: "11144477745", erro: ErrDigitoVerificador},
		{nome: "segundo dígito errado", entrada: "11144477736", erro: ErrDigitoVerificador},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			saida, err := Validar(c.entrada)
			if c.erro != nil {
				if !errors.Is(err, c.erro) {
					t.Fatalf("esperava erro %v, obteve %v", c.erro, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("erro inesperado: %v", err)
			}
			if saida != c.saida {
				t.Fatalf("esperava %q, obteve %q", c.saida, saida)
			}
		})
	}
}

func TestValidarIdempotente(t *testing.T) {
	formatado, err := Validar("11144477735")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	reformatado, err := Validar(formatado)
	if err != nil {
		t.Fatalf("revalidação falhou: %v", err)
	}
	if reformatado != formatado {
		t.Fatalf("revalidação mudou o formato: %q != %q", reformatado, formatado)
	}
}

func TestExtrairLista(t *testing.T) {
	texto := "segue a lista: 11144477735, 11111111111 e também 52998224725\n99999999"
	lista := ExtrairLista(texto)

	if len(lista) != 2 {
		t.Fatalf("esperava 2 CPFs válidos, obteve %d (%v)", len(lista), lista)
	}
	if lista[0] != "111.444.777-35" || lista[1] != "529.982.247-25" {
		t.Fatalf("lista inesperada: %v", lista)
	}
}

func TestExtrairListaVazia(t *testing.T) {
	if lista := ExtrairLista("nenhum número aqui"); lista != nil {
		t.Fatalf("esperava lista vazia, obteve %v", lista)
	}
}
