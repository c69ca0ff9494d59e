package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/fabinhoeventos/pesquisabot/internal/canal"
	"github.com/fabinhoeventos/pesquisabot/internal/cpf"
	"github.com/fabinhoeventos/pesquisabot/internal/repo"
	"github.com/fabinhoeventos/pesquisabot/internal/sessao"
)

// iniciarSubstituicao abre o fluxo de trocar um credenciado por outro, com a
// mesma função, dentro de um evento.
func (r *Roteador) iniciarSubstituicao(ctx context.Context, contato string) error {
	eventos, err := r.eventos.Listar(ctx)
	if err != nil {
		return err
	}
	if len(eventos) == 0 {
		return r.finalizar(ctx, contato, msgNenhumEvento)
	}

	r.sessoes.Definir(contato, &sessao.Sessao{
		Etapa: EtapaSubEvento,
		Dados: sessao.Dados{Eventos: eventos},
	})
	return r.perguntar(ctx, contato, canal.Texto(msgListaEventos("🔄 *Substituição* — escolha o evento:", eventos)))
}

func (r *Roteador) etapaSubEvento(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	evento, ok := escolherEvento(texto, sess.Dados.Eventos)
	if !ok {
		return r.perguntar(ctx, contato, canal.Texto(msgEscolhaNumeroValido(len(sess.Dados.Eventos))))
	}

	sess.Dados.Evento = evento
	sess.Etapa = EtapaSubCPFSaida
	return r.perguntar(ctx, contato, canal.Texto("Digite o *CPF de quem sai* do evento."))
}

func (r *Roteador) etapaSubCPFSaida(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	formatado, err := cpf.Validar(texto)
	if err != nil {
		return r.perguntar(ctx, contato, canal.Texto(msgCPFInvalido))
	}

	credencial, err := r.credenciais.BuscarPorEventoECPF(ctx, sess.Dados.Evento.Nome, formatado)
	if errors.Is(err, repo.ErrNaoEncontrado) {
		return r.perguntar(ctx, contato, canal.Texto("❌ Esse CPF não está credenciado nesse evento. Digite outro CPF ou 'cancelar'."))
	}
	if err != nil {
		return err
	}

	sess.Dados.Credencial = &credencial
	sess.Etapa = EtapaSubCPFEntrada
	return r.perguntar(ctx, contato, canal.Texto("Agora digite o *CPF de quem entra* no lugar."))
}

func (r *Roteador) etapaSubCPFEntrada(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	formatado, err := cpf.Validar(texto)
	if err != nil {
		return r.perguntar(ctx, contato, canal.Texto(msgCPFInvalido))
	}

	if _, err := r.blacklist.BuscarPorCPF(ctx, formatado); err == nil {
		return r.perguntar(ctx, contato, canal.Texto("🚫 Esse CPF está na blacklist. Digite outro CPF ou 'cancelar'."))
	} else if !errors.Is(err, repo.ErrNaoEncontrado) {
		return err
	}

	pessoa, err := r.cadastros.BuscarPorCPF(ctx, formatado)
	if errors.Is(err, repo.ErrNaoEncontrado) {
		return r.perguntar(ctx, contato, canal.Texto(msgCPFNaoCadastrado+" Digite outro CPF ou 'cancelar'."))
	}
	if err != nil {
		return err
	}

	if _, err := r.credenciais.BuscarPorEventoECPF(ctx, sess.Dados.Evento.Nome, formatado); err == nil {
		return r.perguntar(ctx, contato, canal.Texto("ℹ️ Esse CPF já está credenciado nesse evento. Digite outro CPF ou 'cancelar'."))
	} else if !errors.Is(err, repo.ErrNaoEncontrado) {
		return err
	}

	sess.Dados.CPFEntrada = formatado
	sess.Dados.NomeEntrada = pessoa.NomeCompleto
	sess.Etapa = EtapaSubConfirma
	pergunta := fmt.Sprintf("Confirma a substituição no evento \"%s\"?\n\nSai: *%s* (%s)\nEntra: *%s* (%s)\nFunção: *%s*\n\n(Responda 'Sim' ou 'Não')",
		sess.Dados.Evento.Nome,
		sess.Dados.Credencial.NomeCompleto, sess.Dados.Credencial.CPF,
		pessoa.NomeCompleto, formatado,
		sess.Dados.Credencial.Funcao)
	return r.perguntar(ctx, contato, botoesSimNao(pergunta))
}

func (r *Roteador) etapaSubConfirma(ctx context.Context, contato, resposta string, sess *sessao.Sessao, cadastro *repo.Cadastro) error {
	switch {
	case respostaAfirmativa(resposta):
		nova := repo.Credencial{
			NomeEvento:   sess.Dados.Evento.Nome,
			CPF:          sess.Dados.CPFEntrada,
			NomeCompleto: sess.Dados.NomeEntrada,
			Funcao:       sess.Dados.Credencial.Funcao,
			CriadoEm:     r.sessoes.Agora(),
			Observacao:   fmt.Sprintf("Substituiu %s", sess.Dados.Credencial.NomeCompleto),
		}
		if cadastro != nil {
			nova.CredenciadoPor = cadastro.NomeCompleto
		}
		if err := r.substituirCredencial(ctx, sess.Dados.Credencial.ID, nova); err != nil {
			return err
		}
		return r.finalizar(ctx, contato, msgSubstituicaoFeita+rodape)
	case respostaNegativa(resposta):
		return r.finalizar(ctx, contato, msgOperacaoCancelada)
	default:
		return r.perguntar(ctx, contato, canal.Texto(msgRespostaSimNao))
	}
}

// substituirCredencial usa o caminho atômico quando o armazenamento oferece;
// senão remove e insere em dois passos, como a planilha sempre fez.
func (r *Roteador) substituirCredencial(ctx context.Context, saidaID string, nova repo.Credencial) error {
	if sub, ok := r.credenciais.(repo.Substituidor); ok {
		return sub.Substituir(ctx, saidaID, nova)
	}
	if err := r.credenciais.Remover(ctx, saidaID); err != nil {
		return err
	}
	return r.credenciais.Inserir(ctx, nova)
}
