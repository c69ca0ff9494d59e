// Package relatorio agrega pesquisas já materializadas em rankings,
// médias mensais e adesão. Todas as funções são puras.
package relatorio

import (
	"fmt"
	"sort"
	"time"

	"github.com/fabinhoeventos/pesquisabot/internal/repo"
)

// LiderRanking é uma posição no ranking de líderes.
type LiderRanking struct {
	Lider      string `json:"lider"`
	Media      string `json:"media"`
	TotalVotos int    `json:"totalVotos"`
}

// MediaEvento é a média de um evento dentro de um mês.
type MediaEvento struct {
	NomeEvento string `json:"nomeEvento"`
	Media      string `json:"media"`
	Respostas  int    `json:"respostas"`

	data time.Time
}

// GrupoMes agrupa os eventos de um mês calendário.
type GrupoMes struct {
	Mes     string        `json:"mes"`
	Eventos []MediaEvento `json:"eventos"`

	chave time.Time
}

// AdesaoEvento é a taxa de resposta de um evento em um mês.
type AdesaoEvento struct {
	Mes         string `json:"mes"`
	NomeEvento  string `json:"nomeEvento"`
	Atribuidas  int    `json:"atribuidas"`
	Respondidas int    `json:"respondidas"`
	Percentual  string `json:"percentual"`

	chaveMes  time.Time
	dataEvent time.Time
}

// respondidas filtra linhas com nota lançada, descartando sentinelas.
func respondidas(pesquisas []repo.Pesquisa) []repo.Pesquisa {
	var out []repo.Pesquisa
	for _, p := range pesquisas {
		if p.Respondida() && !p.Sentinela() && p.NomeLider != "" {
			out = append(out, p)
		}
	}
	return out
}

// RankingLideres calcula a média por líder (2 casas) e ordena da maior para a
// menor. Empates preservam a ordem de primeira aparição.
func RankingLideres(pesquisas []repo.Pesquisa) []LiderRanking {
	type acumulado struct {
		soma  int
		votos int
	}
	somas := make(map[string]*acumulado)
	var ordem []string

	for _, p := range respondidas(pesquisas) {
		acc, ok := somas[p.NomeLider]
		if !ok {
			acc = &acumulado{}
			somas[p.NomeLider] = acc
			ordem = append(ordem, p.NomeLider)
		}
		acc.soma += *p.Nota
		acc.votos++
	}

	ranking := make([]LiderRanking, 0, len(ordem))
	medias := make(map[string]float64, len(ordem))
	for _, lider := range ordem {
		acc := somas[lider]
		media := float64(acc.soma) / float64(acc.votos)
		medias[lider] = media
		ranking = append(ranking, LiderRanking{
			Lider:      lider,
			Media:      fmt.Sprintf("%.2f", media),
			TotalVotos: acc.votos,
		})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return medias[ranking[i].Lider] > medias[ranking[j].Lider]
	})
	return ranking
}

// EventosPorMes agrupa as respostas por mês calendário e evento. Meses em
// ordem cronológica decrescente; eventos dentro do mês por data decrescente.
func EventosPorMes(pesquisas []repo.Pesquisa) []GrupoMes {
	type chaveEvento struct {
		mes    time.Time
		evento string
	}
	type acumulado struct {
		soma  int
		votos int
		data  time.Time
	}
	somas := make(map[chaveEvento]*acumulado)

	for _, p := range respondidas(pesquisas) {
		data := parseData(p.DataEvento)
		mes := time.Date(data.Year(), data.Month(), 1, 0, 0, 0, 0, time.UTC)
		chave := chaveEvento{mes: mes, evento: p.NomeEvento}
		acc, ok := somas[chave]
		if !ok {
			acc = &acumulado{data: data}
			somas[chave] = acc
		}
		acc.soma += *p.Nota
		acc.votos++
	}

	grupos := make(map[time.Time]*GrupoMes)
	for chave, acc := range somas {
		grupo, ok := grupos[chave.mes]
		if !ok {
			grupo = &GrupoMes{Mes: chave.mes.Format("01/2006"), chave: chave.mes}
			grupos[chave.mes] = grupo
		}
		grupo.Eventos = append(grupo.Eventos, MediaEvento{
			NomeEvento: chave.evento,
			Media:      fmt.Sprintf("%.2f", float64(acc.soma)/float64(acc.votos)),
			Respostas:  acc.votos,
			data:       acc.data,
		})
	}

	resultado := make([]GrupoMes, 0, len(grupos))
	for _, grupo := range grupos {
		sort.SliceStable(grupo.Eventos, func(i, j int) bool {
			return grupo.Eventos[i].data.After(grupo.Eventos[j].data)
		})
		resultado = append(resultado, *grupo)
	}
	sort.SliceStable(resultado, func(i, j int) bool {
		return resultado[i].chave.After(resultado[j].chave)
	})
	return resultado
}

// Adesao calcula, por (mês, evento), atribuídas versus respondidas, com
// percentual de uma casa. Zero atribuídas resulta em 0.0%, nunca em divisão
// por zero.
func Adesao(pesquisas []repo.Pesquisa) []AdesaoEvento {
	type chaveEvento struct {
		mes    time.Time
		evento string
	}
	contagens := make(map[chaveEvento]*AdesaoEvento)
	var ordem []chaveEvento

	for _, p := range pesquisas {
		if p.Sentinela() {
			continue
		}
		data := parseData(p.DataEvento)
		mes := time.Date(data.Year(), data.Month(), 1, 0, 0, 0, 0, time.UTC)
		chave := chaveEvento{mes: mes, evento: p.NomeEvento}
		item, ok := contagens[chave]
		if !ok {
			item = &AdesaoEvento{
				Mes:        mes.Format("01/2006"),
				NomeEvento: p.NomeEvento,
				chaveMes:   mes,
				dataEvent:  data,
			}
			contagens[chave] = item
			ordem = append(ordem, chave)
		}
		item.Atribuidas++
		if p.Respondida() {
			item.Respondidas++
		}
	}

	resultado := make([]AdesaoEvento, 0, len(ordem))
	for _, chave := range ordem {
		item := contagens[chave]
		percentual := 0.0
		if item.Atribuidas > 0 {
			percentual = float64(item.Respondidas) / float64(item.Atribuidas) * 100
		}
		item.Percentual = fmt.Sprintf("%.1f", percentual)
		resultado = append(resultado, *item)
	}

	sort.SliceStable(resultado, func(i, j int) bool {
		if !resultado[i].chaveMes.Equal(resultado[j].chaveMes) {
			return resultado[i].chaveMes.After(resultado[j].chaveMes)
		}
		return resultado[i].dataEvent.After(resultado[j].dataEvent)
	})
	return resultado
}

// EstatisticaLider alimenta o endpoint /api/estatisticas.
type EstatisticaLider struct {
	Media          string `json:"media"`
	TotalRespostas int    `json:"totalRespostas"`
}

// EstatisticasLideres devolve média e total de respostas por líder.
func EstatisticasLideres(pesquisas []repo.Pesquisa) map[string]EstatisticaLider {
	estatisticas := make(map[string]EstatisticaLider)
	for _, pos := range RankingLideres(pesquisas) {
		estatisticas[pos.Lider] = EstatisticaLider{Media: pos.Media, TotalRespostas: pos.TotalVotos}
	}
	return estatisticas
}

// parseData interpreta datas DD/MM/YYYY. Datas malformadas viram o instante
// zero e afundam no fim das ordenações decrescentes (peculiaridade herdada da
// planilha, mantida de propósito).
func parseData(s string) time.Time {
	data, err := time.Parse("02/01/2006", s)
	if err != nil {
		return time.Time{}
	}
	return data
}
