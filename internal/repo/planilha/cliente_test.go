package planilha

import "testing"

func TestColunaLetra(t *testing.T) {
	casos := map[int]string{
		0:  "A",
		1:  "B",
		25: "Z",
		26: "AA",
		27: "AB",
		51: "AZ",
		52: "BA",
	}
	for indice, esperado := range casos {
		if letra := colunaLetra(indice); letra != esperado {
			t.Errorf("colunaLetra(%d) = %q, esperava %q", indice, letra, esperado)
		}
	}
}

func TestTabelaCelula(t *testing.T) {
	tab := tabela{
		colunas: map[string]int{ColCPF: 0, ColNomeEvento: 1, ColNota: 5},
		linhas:  [][]string{{"111.444.777-35", "Festival"}},
	}

	if v := tab.celula(tab.linhas[0], ColCPF); v != "111.444.777-35" {
		t.Fatalf("celula CPF = %q", v)
	}
	// Coluna mapeada além do fim da linha (célula vazia na planilha).
	if v := tab.celula(tab.linhas[0], ColNota); v != "" {
		t.Fatalf("celula Nota = %q, esperava vazio", v)
	}
	if v := tab.celula(tab.linhas[0], "ColunaInexistente"); v != "" {
		t.Fatalf("coluna inexistente = %q, esperava vazio", v)
	}
}
