package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fabinhoeventos/pesquisabot/internal/canal"
	"github.com/fabinhoeventos/pesquisabot/internal/cpf"
	"github.com/fabinhoeventos/pesquisabot/internal/relatorio"
	"github.com/fabinhoeventos/pesquisabot/internal/repo"
	"github.com/fabinhoeventos/pesquisabot/internal/sessao"
)

// iniciarCredenciamento abre o fluxo de credenciar uma fila de CPFs em um
// evento do catálogo.
func (r *Roteador) iniciarCredenciamento(ctx context.Context, contato string) error {
	eventos, err := r.eventos.Listar(ctx)
	if err != nil {
		return err
	}
	if len(eventos) == 0 {
		return r.finalizar(ctx, contato, msgNenhumEvento)
	}

	r.sessoes.Definir(contato, &sessao.Sessao{
		Etapa: EtapaCredEvento,
		Dados: sessao.Dados{Eventos: eventos},
	})
	return r.perguntar(ctx, contato, canal.Texto(msgListaEventos("🎟️ *Credenciamento* — escolha o evento:", eventos)))
}

func (r *Roteador) etapaCredEvento(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	evento, ok := escolherEvento(texto, sess.Dados.Eventos)
	if !ok {
		return r.perguntar(ctx, contato, canal.Texto(msgEscolhaNumeroValido(len(sess.Dados.Eventos))))
	}

	sess.Dados.Evento = evento
	sess.Etapa = EtapaCredCPFs
	return r.perguntar(ctx, contato, canal.Texto(msgPedirListaCPFs))
}

func (r *Roteador) etapaCredCPFs(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	lista := cpf.ExtrairLista(texto)
	if len(lista) == 0 {
		return r.perguntar(ctx, contato, canal.Texto(msgNenhumCPFValido))
	}

	sess.Dados.Fila = lista
	sess.Dados.Indice = 0
	return r.avancarCredenciamento(ctx, contato, sess)
}

// avancarCredenciamento percorre a fila de CPFs. Barrados, não cadastrados e
// já credenciados são pulados com aviso; os demais param em uma confirmação.
func (r *Roteador) avancarCredenciamento(ctx context.Context, contato string, sess *sessao.Sessao) error {
	for sess.Dados.Indice < len(sess.Dados.Fila) {
		cpfAtual := sess.Dados.Fila[sess.Dados.Indice]

		if _, err := r.blacklist.BuscarPorCPF(ctx, cpfAtual); err == nil {
			if err := r.enviarTexto(ctx, contato, fmt.Sprintf("🚫 *%s* está na blacklist e foi pulado.", cpfAtual)); err != nil {
				return err
			}
			sess.Dados.Indice++
			continue
		} else if !errors.Is(err, repo.ErrNaoEncontrado) {
			return err
		}

		pessoa, err := r.cadastros.BuscarPorCPF(ctx, cpfAtual)
		if errors.Is(err, repo.ErrNaoEncontrado) {
			if err := r.enviarTexto(ctx, contato, fmt.Sprintf("⚠️ *%s* não está cadastrado e foi pulado.", cpfAtual)); err != nil {
				return err
			}
			sess.Dados.Indice++
			continue
		}
		if err != nil {
			return err
		}

		if _, err := r.credenciais.BuscarPorEventoECPF(ctx, sess.Dados.Evento.Nome, cpfAtual); err == nil {
			if err := r.enviarTexto(ctx, contato, fmt.Sprintf("ℹ️ *%s* já está credenciado nesse evento.", cpfAtual)); err != nil {
				return err
			}
			sess.Dados.Indice++
			continue
		} else if !errors.Is(err, repo.ErrNaoEncontrado) {
			return err
		}

		sess.Dados.Pessoa = &pessoa
		sess.Etapa = EtapaCredConfirma
		pergunta := fmt.Sprintf("Credenciar *%s* (%s) no evento \"%s\"? (Responda 'Sim' ou 'Não')",
			pessoa.NomeCompleto, pessoa.CPF, sess.Dados.Evento.Nome)
		return r.perguntar(ctx, contato, botoesSimNao(pergunta))
	}

	return r.finalizar(ctx, contato, fmt.Sprintf("✅ Credenciamento do evento \"%s\" concluído.", sess.Dados.Evento.Nome)+rodape)
}

func (r *Roteador) etapaCredConfirma(ctx context.Context, contato, resposta string, sess *sessao.Sessao) error {
	switch {
	case respostaAfirmativa(resposta):
		if len(sess.Dados.Evento.Funcoes) == 0 {
			return r.concluirCredencial(ctx, contato, sess, "", "")
		}
		sess.Etapa = EtapaCredFuncao
		return r.perguntar(ctx, contato, canal.Texto(msgListaFuncoes(sess.Dados.Evento.Funcoes)))
	case respostaNegativa(resposta):
		sess.Dados.Indice++
		return r.avancarCredenciamento(ctx, contato, sess)
	default:
		return r.perguntar(ctx, contato, canal.Texto(msgRespostaSimNao))
	}
}

func (r *Roteador) etapaCredFuncao(ctx context.Context, contato, texto string, sess *sessao.Sessao, cadastro *repo.Cadastro) error {
	indice, err := strconv.Atoi(texto)
	if err != nil || indice < 1 || indice > len(sess.Dados.Evento.Funcoes) {
		return r.perguntar(ctx, contato, canal.Texto(msgEscolhaNumeroValido(len(sess.Dados.Evento.Funcoes))))
	}
	operador := ""
	if cadastro != nil {
		operador = cadastro.NomeCompleto
	}
	return r.concluirCredencial(ctx, contato, sess, sess.Dados.Evento.Funcoes[indice-1], operador)
}

func (r *Roteador) concluirCredencial(ctx context.Context, contato string, sess *sessao.Sessao, funcao, operador string) error {
	credencial := repo.Credencial{
		NomeEvento:     sess.Dados.Evento.Nome,
		CPF:            sess.Dados.Pessoa.CPF,
		NomeCompleto:   sess.Dados.Pessoa.NomeCompleto,
		Funcao:         funcao,
		CredenciadoPor: operador,
		CriadoEm:       r.sessoes.Agora(),
	}
	if err := r.credenciais.Inserir(ctx, credencial); err != nil {
		return err
	}
	if err := r.enviarTexto(ctx, contato, fmt.Sprintf("✅ *%s* credenciado como *%s*.", credencial.NomeCompleto, funcao)); err != nil {
		return err
	}

	sess.Dados.Pessoa = nil
	sess.Dados.Indice++
	return r.avancarCredenciamento(ctx, contato, sess)
}

// --- exportação de credenciados ---

func (r *Roteador) iniciarExportacao(ctx context.Context, contato string) error {
	eventos, err := r.eventos.Listar(ctx)
	if err != nil {
		return err
	}
	if len(eventos) == 0 {
		return r.finalizar(ctx, contato, msgNenhumEvento)
	}

	r.sessoes.Definir(contato, &sessao.Sessao{
		Etapa: EtapaExportEvento,
		Dados: sessao.Dados{Eventos: eventos},
	})
	return r.perguntar(ctx, contato, canal.Texto(msgListaEventos("📤 *Exportação* — escolha o evento:", eventos)))
}

func (r *Roteador) etapaExportEvento(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	evento, ok := escolherEvento(texto, sess.Dados.Eventos)
	if !ok {
		return r.perguntar(ctx, contato, canal.Texto(msgEscolhaNumeroValido(len(sess.Dados.Eventos))))
	}

	credenciais, err := r.credenciais.ListarPorEvento(ctx, evento.Nome)
	if err != nil {
		return err
	}
	if len(credenciais) == 0 {
		return r.finalizar(ctx, contato, msgSemCredenciados)
	}

	if err := r.enviarTexto(ctx, contato, msgGerandoArquivo); err != nil {
		return err
	}
	conteudo, err := relatorio.GerarPlanilhaCredenciados(evento.Nome, credenciais)
	if err != nil {
		return err
	}

	anexo := canal.Mensagem{
		Documento: &canal.Documento{
			Nome:     nomeArquivoExport(evento.Nome),
			MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Conteudo: conteudo,
		},
	}
	if err := r.canal.Enviar(ctx, contato, anexo); err != nil {
		return err
	}
	return r.finalizar(ctx, contato, fmt.Sprintf("✅ Planilha com *%d* credenciado(s) enviada.", len(credenciais))+rodape)
}

func nomeArquivoExport(nomeEvento string) string {
	limpo := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			return c
		default:
			return '_'
		}
	}, nomeEvento)
	return "credenciados_" + limpo + ".xlsx"
}

// escolherEvento interpreta a resposta numérica sobre a lista apresentada.
func escolherEvento(texto string, eventos []repo.EventoCatalogo) (*repo.EventoCatalogo, bool) {
	indice, err := strconv.Atoi(texto)
	if err != nil || indice < 1 || indice > len(eventos) {
		return nil, false
	}
	return &eventos[indice-1], true
}
