package bot

import (
	"context"
	"strconv"

	"github.com/fabinhoeventos/pesquisabot/internal/canal"
	"github.com/fabinhoeventos/pesquisabot/internal/sessao"
)

// iniciarFluxoPesquisa consulta as pendências do CPF e decide entre encerrar,
// pedir a nota direto ou oferecer a escolha de evento. A saudação é suprimida
// quando o fluxo vem logo após o cadastro.
func (r *Roteador) iniciarFluxoPesquisa(ctx context.Context, contato, cpf string, saudacao bool) error {
	pendentes, err := r.pesquisas.ListarPendentes(ctx, cpf)
	if err != nil {
		return err
	}

	switch len(pendentes) {
	case 0:
		return r.finalizar(ctx, contato, msgSemPendencias(saudacao))
	case 1:
		pesquisa := pendentes[0]
		r.sessoes.Definir(contato, &sessao.Sessao{
			Etapa: EtapaAguardandoNota,
			Dados: sessao.Dados{CPF: cpf, Pesquisa: &pesquisa},
		})
		return r.perguntar(ctx, contato, canal.Texto(msgPesquisaUnica(pesquisa)))
	default:
		r.sessoes.Definir(contato, &sessao.Sessao{
			Etapa: EtapaAguardandoEscolhaEvento,
			Dados: sessao.Dados{CPF: cpf, Pendentes: pendentes},
		})
		return r.perguntar(ctx, contato, canal.Texto(msgEscolhaEvento(pendentes)))
	}
}

func (r *Roteador) etapaEscolhaEvento(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	indice, err := strconv.Atoi(texto)
	if err != nil || indice < 1 || indice > len(sess.Dados.Pendentes) {
		return r.perguntar(ctx, contato, canal.Texto(msgEscolhaNumeroValido(len(sess.Dados.Pendentes))))
	}

	pesquisa := sess.Dados.Pendentes[indice-1]
	sess.Dados.Pesquisa = &pesquisa
	sess.Etapa = EtapaAguardandoNota
	return r.perguntar(ctx, contato, canal.Texto(msgNotaParaEvento(pesquisa)))
}

// etapaNota grava a resposta. Entrada fora de 0 a 10 repete o pedido sem
// tocar no armazenamento.
func (r *Roteador) etapaNota(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	nota, err := strconv.Atoi(texto)
	if err != nil || nota < 0 || nota > 10 {
		return r.perguntar(ctx, contato, canal.Texto(msgNotaInvalida))
	}

	dataResposta := r.sessoes.Agora().Format("02/01/2006")
	if err := r.pesquisas.RegistrarResposta(ctx, sess.Dados.Pesquisa.ID, nota, dataResposta); err != nil {
		return err
	}

	restantes, err := r.pesquisas.ListarPendentes(ctx, sess.Dados.CPF)
	if err != nil {
		return err
	}
	if len(restantes) == 0 {
		return r.finalizar(ctx, contato, msgPesquisasConcluidas)
	}

	sess.Dados.Pendentes = restantes
	sess.Dados.Pesquisa = nil
	sess.Etapa = EtapaAguardandoContinuar
	return r.perguntar(ctx, contato, botoesSimNao(msgAvaliarOutra(len(restantes))))
}

func (r *Roteador) etapaContinuar(ctx context.Context, contato, resposta string, sess *sessao.Sessao) error {
	switch {
	case respostaAfirmativa(resposta):
		return r.iniciarFluxoPesquisa(ctx, contato, sess.Dados.CPF, false)
	case respostaNegativa(resposta):
		return r.finalizar(ctx, contato, msgAteLogo)
	default:
		return r.perguntar(ctx, contato, canal.Texto(msgRespostaSimNao))
	}
}
