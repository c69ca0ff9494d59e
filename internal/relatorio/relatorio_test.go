package relatorio

import (
	"strings"
	"testing"

	"github.com/fabinhoeventos/pesquisabot/internal/repo"
)

func respondida(cpf, evento, lider, data string, nota int) repo.Pesquisa {
	return repo.Pesquisa{
		CPF:             cpf,
		NomeEvento:      evento,
		NomeLider:       lider,
		DataEvento:      data,
		PesquisaEnviada: true,
		Nota:            &nota,
		DataResposta:    data,
	}
}

func pendente(cpf, evento, lider, data string) repo.Pesquisa {
	return repo.Pesquisa{CPF: cpf, NomeEvento: evento, NomeLider: lider, DataEvento: data}
}

func TestRankingLideres(t *testing.T) {
	pesquisas := []repo.Pesquisa{
		respondida("1", "Festa", "A", "01/03/2025", 8),
		respondida("2", "Festa", "A", "01/03/2025", 6),
		respondida("3", "Festa", "B", "01/03/2025", 10),
	}

	ranking := RankingLideres(pesquisas)

	if len(ranking) != 2 {
		t.Fatalf("esperava 2 líderes, obteve %d", len(ranking))
	}
	if ranking[0].Lider != "B" || ranking[0].Media != "10.00" || ranking[0].TotalVotos != 1 {
		t.Fatalf("primeiro lugar inesperado: %+v", ranking[0])
	}
	if ranking[1].Lider != "A" || ranking[1].Media != "7.00" || ranking[1].TotalVotos != 2 {
		t.Fatalf("segundo lugar inesperado: %+v", ranking[1])
	}
}

func TestRankingEmpateMantemOrdem(t *testing.T) {
	pesquisas := []repo.Pesquisa{
		respondida("1", "Festa", "Carla", "01/03/2025", 9),
		respondida("2", "Festa", "Bruno", "01/03/2025", 9),
	}

	ranking := RankingLideres(pesquisas)
	if ranking[0].Lider != "Carla" || ranking[1].Lider != "Bruno" {
		t.Fatalf("empate deveria preservar ordem de aparição: %+v", ranking)
	}
}

func TestRankingExcluiSentinelaEPendentes(t *testing.T) {
	nota := 10
	pesquisas := []repo.Pesquisa{
		respondida("1", "Festa", "A", "01/03/2025", 8),
		pendente("2", "Festa", "A", "01/03/2025"),
		{CPF: "3", NomeEvento: repo.EventoAdministracao, NomeLider: "A", PesquisaEnviada: true, Nota: &nota},
	}

	ranking := RankingLideres(pesquisas)
	if len(ranking) != 1 || ranking[0].TotalVotos != 1 || ranking[0].Media != "8.00" {
		t.Fatalf("sentinela/pendente contaminou o ranking: %+v", ranking)
	}
}

func TestAdesao(t *testing.T) {
	pesquisas := []repo.Pesquisa{
		respondida("1", "X", "A", "15/03/2025", 7),
		pendente("2", "X", "A", "15/03/2025"),
		pendente("3", "X", "A", "15/03/2025"),
		pendente("4", "X", "A", "15/03/2025"),
	}

	adesao := Adesao(pesquisas)
	if len(adesao) != 1 {
		t.Fatalf("esperava um grupo, obteve %d", len(adesao))
	}
	item := adesao[0]
	if item.Mes != "03/2025" || item.Atribuidas != 4 || item.Respondidas != 1 || item.Percentual != "25.0" {
		t.Fatalf("adesão inesperada: %+v", item)
	}
}

func TestAdesaoIgnoraSentinela(t *testing.T) {
	pesquisas := []repo.Pesquisa{
		pendente("1", repo.EventoAdministracao, "", "15/03/2025"),
	}
	if adesao := Adesao(pesquisas); len(adesao) != 0 {
		t.Fatalf("sentinela não pode aparecer na adesão: %+v", adesao)
	}
}

func TestEventosPorMesOrdenacao(t *testing.T) {
	pesquisas := []repo.Pesquisa{
		respondida("1", "Antigo", "A", "10/02/2025", 5),
		respondida("2", "Recente", "A", "20/03/2025", 9),
		respondida("3", "MeioDoMes", "A", "05/03/2025", 7),
	}

	grupos := EventosPorMes(pesquisas)
	if len(grupos) != 2 {
		t.Fatalf("esperava 2 meses, obteve %d", len(grupos))
	}
	if grupos[0].Mes != "03/2025" || grupos[1].Mes != "02/2025" {
		t.Fatalf("meses fora de ordem: %+v", grupos)
	}
	if grupos[0].Eventos[0].NomeEvento != "Recente" || grupos[0].Eventos[1].NomeEvento != "MeioDoMes" {
		t.Fatalf("eventos do mês fora de ordem: %+v", grupos[0].Eventos)
	}
}

func TestDataMalformadaViraEpoca(t *testing.T) {
	pesquisas := []repo.Pesquisa{
		respondida("1", "SemData", "A", "data inválida", 5),
		respondida("2", "ComData", "A", "10/03/2025", 8),
	}

	grupos := EventosPorMes(pesquisas)
	if len(grupos) != 2 {
		t.Fatalf("esperava 2 grupos, obteve %d", len(grupos))
	}
	// Ordem decrescente: a data malformada (época) afunda para o fim.
	if grupos[len(grupos)-1].Eventos[0].NomeEvento != "SemData" {
		t.Fatalf("data malformada deveria ordenar por último: %+v", grupos)
	}
}

func TestEstatisticasLideres(t *testing.T) {
	pesquisas := []repo.Pesquisa{
		respondida("1", "Festa", "A", "01/03/2025", 8),
		respondida("2", "Festa", "A", "01/03/2025", 7),
	}

	estatisticas := EstatisticasLideres(pesquisas)
	lider, ok := estatisticas["A"]
	if !ok || lider.Media != "7.50" || lider.TotalRespostas != 2 {
		t.Fatalf("estatísticas inesperadas: %+v", estatisticas)
	}
}

func TestFormatarRanking(t *testing.T) {
	texto := FormatarRanking([]LiderRanking{
		{Lider: "B", Media: "10.00", TotalVotos: 1},
		{Lider: "A", Media: "7.00", TotalVotos: 2},
	})

	if !strings.Contains(texto, "🥇 *B*") || !strings.Contains(texto, "🥈 *A*") {
		t.Fatalf("medalhas ausentes:\n%s", texto)
	}
	if !strings.Contains(texto, "Nota Média: *10.00*") {
		t.Fatalf("média ausente:\n%s", texto)
	}
}

func TestFormatarRankingVazio(t *testing.T) {
	texto := FormatarRanking(nil)
	if !strings.Contains(texto, "Nenhuma avaliação") {
		t.Fatalf("mensagem de vazio inesperada: %q", texto)
	}
}

func TestGerarPlanilhaCredenciados(t *testing.T) {
	conteudo, err := GerarPlanilhaCredenciados("Festival", []repo.Credencial{
		{NomeEvento: "Festival", CPF: "111.444.777-35", NomeCompleto: "Maria", Funcao: "Recepção"},
	})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if len(conteudo) == 0 {
		t.Fatal("planilha vazia")
	}
	// Assinatura ZIP do formato xlsx.
	if conteudo[0] != 'P' || conteudo[1] != 'K' {
		t.Fatalf("conteúdo não parece um xlsx: % x", conteudo[:4])
	}
}
