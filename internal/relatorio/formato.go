package relatorio

import (
	"fmt"
	"strings"
)

var medalhas = []string{"🥇", "🥈", "🥉"}

// FormatarRanking monta o relatório de líderes para envio no WhatsApp.
func FormatarRanking(ranking []LiderRanking) string {
	if len(ranking) == 0 {
		return "Nenhuma avaliação foi computada ainda para gerar um relatório."
	}

	var b strings.Builder
	b.WriteString("📊 *Relatório de Desempenho dos Líderes* 📊\n\n")
	for i, pos := range ranking {
		medalha := fmt.Sprintf("%d️⃣", i+1)
		if i < len(medalhas) {
			medalha = medalhas[i]
		}
		fmt.Fprintf(&b, "%s *%s*\n", medalha, pos.Lider)
		fmt.Fprintf(&b, "   - Nota Média: *%s*\n", pos.Media)
		fmt.Fprintf(&b, "   - Total de Votos: *%d*\n\n", pos.TotalVotos)
	}
	return b.String()
}

// FormatarEventosPorMes monta o relatório mensal por evento.
func FormatarEventosPorMes(grupos []GrupoMes) string {
	if len(grupos) == 0 {
		return "Nenhuma avaliação foi computada ainda para gerar um relatório."
	}

	var b strings.Builder
	b.WriteString("📅 *Médias por Evento* 📅\n")
	for _, grupo := range grupos {
		fmt.Fprintf(&b, "\n*%s*\n", grupo.Mes)
		for _, evento := range grupo.Eventos {
			fmt.Fprintf(&b, "   • %s — média *%s* (%d respostas)\n",
				evento.NomeEvento, evento.Media, evento.Respostas)
		}
	}
	return b.String()
}

// FormatarAdesao monta o relatório de adesão às pesquisas.
func FormatarAdesao(itens []AdesaoEvento) string {
	if len(itens) == 0 {
		return "Nenhuma pesquisa cadastrada ainda para medir adesão."
	}

	var b strings.Builder
	b.WriteString("📈 *Adesão às Pesquisas* 📈\n")
	mesAtual := ""
	for _, item := range itens {
		if item.Mes != mesAtual {
			mesAtual = item.Mes
			fmt.Fprintf(&b, "\n*%s*\n", mesAtual)
		}
		fmt.Fprintf(&b, "   • %s — %s%% (%d de %d respondidas)\n",
			item.NomeEvento, item.Percentual, item.Respondidas, item.Atribuidas)
	}
	return b.String()
}
