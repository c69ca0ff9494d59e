package bot

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/fabinhoeventos/pesquisabot/internal/canal"
	"github.com/fabinhoeventos/pesquisabot/internal/cpf"
	"github.com/fabinhoeventos/pesquisabot/internal/relatorio"
	"github.com/fabinhoeventos/pesquisabot/internal/repo"
	"github.com/fabinhoeventos/pesquisabot/internal/sessao"
)

func (r *Roteador) etapaMenuAdmin(ctx context.Context, contato, texto string) error {
	switch texto {
	case "1":
		return r.enviarRelatorio(ctx, contato, relatorioLideres)
	case "2":
		return r.iniciarNovaPesquisa(ctx, contato)
	case "3":
		return r.enviarRelatorio(ctx, contato, relatorioEventos)
	case "4":
		return r.enviarRelatorio(ctx, contato, relatorioAdesao)
	case "5":
		r.sessoes.Definir(contato, &sessao.Sessao{Etapa: EtapaPapelCPF})
		return r.perguntar(ctx, contato, canal.Texto(msgPedirCPFPapel))
	case "6":
		r.sessoes.Definir(contato, &sessao.Sessao{Etapa: EtapaBlacklistMenu})
		return r.perguntar(ctx, contato, canal.Texto(menuBlacklist))
	case "7":
		return r.iniciarCredenciamento(ctx, contato)
	case "8":
		return r.iniciarSubstituicao(ctx, contato)
	case "9":
		return r.iniciarExportacao(ctx, contato)
	default:
		return r.perguntar(ctx, contato, canal.Texto(msgOpcaoInvalida+"\n\n"+menuAdmin))
	}
}

func (r *Roteador) etapaMenuLider(ctx context.Context, contato, texto string) error {
	switch texto {
	case "1":
		return r.enviarRelatorio(ctx, contato, relatorioLideres)
	case "2":
		return r.iniciarNovaPesquisa(ctx, contato)
	default:
		return r.perguntar(ctx, contato, canal.Texto(msgOpcaoInvalida+"\n\n"+menuLider))
	}
}

func (r *Roteador) etapaMenuCoordenador(ctx context.Context, contato, texto string) error {
	switch texto {
	case "1":
		return r.iniciarCredenciamento(ctx, contato)
	case "2":
		return r.iniciarSubstituicao(ctx, contato)
	case "3":
		return r.iniciarExportacao(ctx, contato)
	default:
		return r.perguntar(ctx, contato, canal.Texto(msgOpcaoInvalida+"\n\n"+menuCoordenador))
	}
}

// Funções de relatório sobre o conjunto completo de pesquisas.
func relatorioLideres(pesquisas []repo.Pesquisa) string {
	return relatorio.FormatarRanking(relatorio.RankingLideres(pesquisas))
}

func relatorioEventos(pesquisas []repo.Pesquisa) string {
	return relatorio.FormatarEventosPorMes(relatorio.EventosPorMes(pesquisas))
}

func relatorioAdesao(pesquisas []repo.Pesquisa) string {
	return relatorio.FormatarAdesao(relatorio.Adesao(pesquisas))
}

// enviarRelatorio materializa a tabela inteira, formata e oferece o próximo
// relatório sem voltar ao menu.
func (r *Roteador) enviarRelatorio(ctx context.Context, contato string, gerar func([]repo.Pesquisa) string) error {
	if err := r.enviarTexto(ctx, contato, msgGerandoRelatorio); err != nil {
		return err
	}

	todas, err := r.pesquisas.ListarTodas(ctx)
	if err != nil {
		return err
	}
	if err := r.enviarTexto(ctx, contato, gerar(todas)); err != nil {
		return err
	}

	r.sessoes.Definir(contato, &sessao.Sessao{Etapa: EtapaRelatorioOutro})
	return r.perguntar(ctx, contato, botoesSimNao(msgVerOutroRelatorio))
}

func (r *Roteador) etapaRelatorioOutro(ctx context.Context, contato, resposta, papel string) error {
	switch {
	case respostaAfirmativa(resposta):
		return r.abrirMenu(ctx, contato, papel)
	case respostaNegativa(resposta):
		return r.finalizar(ctx, contato, msgAteLogo)
	default:
		return r.perguntar(ctx, contato, canal.Texto(msgRespostaSimNao))
	}
}

// --- cadastro de pesquisa em lote ---

func (r *Roteador) iniciarNovaPesquisa(ctx context.Context, contato string) error {
	r.sessoes.Definir(contato, &sessao.Sessao{Etapa: EtapaNovaPesquisaCPFs})
	return r.perguntar(ctx, contato, canal.Texto(msgPedirListaCPFs))
}

func (r *Roteador) etapaNovaPesquisaCPFs(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	lista := cpf.ExtrairLista(texto)
	if len(lista) == 0 {
		return r.perguntar(ctx, contato, canal.Texto(msgNenhumCPFValido))
	}

	sess.Dados.CPFs = lista
	sess.Etapa = EtapaNovaPesquisaEvento
	return r.perguntar(ctx, contato, canal.Texto(msgPedirNomeEvento))
}

func (r *Roteador) etapaNovaPesquisaEvento(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	if texto == "" {
		return r.perguntar(ctx, contato, canal.Texto(msgPedirNomeEvento))
	}
	sess.Dados.NomeEvento = texto
	sess.Etapa = EtapaNovaPesquisaLider
	return r.perguntar(ctx, contato, canal.Texto(msgPedirNomeLider))
}

func (r *Roteador) etapaNovaPesquisaLider(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	if texto == "" {
		return r.perguntar(ctx, contato, canal.Texto(msgPedirNomeLider))
	}
	sess.Dados.NomeLider = texto
	sess.Etapa = EtapaNovaPesquisaData
	return r.perguntar(ctx, contato, canal.Texto(msgPedirDataEvento))
}

func (r *Roteador) etapaNovaPesquisaData(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	if _, err := time.Parse("02/01/2006", texto); err != nil {
		return r.perguntar(ctx, contato, canal.Texto(msgDataInvalida))
	}
	sess.Dados.DataEvento = texto

	if err := r.enviarTexto(ctx, contato, msgSalvando); err != nil {
		return err
	}

	lote := make([]repo.Pesquisa, 0, len(sess.Dados.CPFs))
	for _, cpfFormatado := range sess.Dados.CPFs {
		lote = append(lote, repo.Pesquisa{
			CPF:        cpfFormatado,
			NomeEvento: sess.Dados.NomeEvento,
			NomeLider:  sess.Dados.NomeLider,
			DataEvento: sess.Dados.DataEvento,
		})
	}
	if err := r.pesquisas.InserirLote(ctx, lote); err != nil {
		return err
	}

	return r.finalizar(ctx, contato, msgPesquisasCadastradas(len(lote), sess.Dados.NomeEvento))
}

// --- alteração de papel ---

func (r *Roteador) etapaPapelCPF(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	formatado, err := cpf.Validar(texto)
	if err != nil {
		return r.perguntar(ctx, contato, canal.Texto(msgCPFInvalido))
	}

	pessoa, err := r.cadastros.BuscarPorCPF(ctx, formatado)
	if errors.Is(err, repo.ErrNaoEncontrado) {
		return r.perguntar(ctx, contato, canal.Texto(msgCPFNaoCadastrado+" Digite outro CPF ou 'cancelar'."))
	}
	if err != nil {
		return err
	}

	sess.Dados.Pessoa = &pessoa
	sess.Etapa = EtapaPapelEscolha
	return r.perguntar(ctx, contato, canal.Texto(msgPapelAtual(pessoa)+"\n\n"+msgListaPapeis()))
}

func (r *Roteador) etapaPapelEscolha(ctx context.Context, contato, texto string, sess *sessao.Sessao, papel string) error {
	indice, err := strconv.Atoi(texto)
	if err != nil || indice < 1 || indice > len(repo.PapeisValidos) {
		return r.perguntar(ctx, contato, canal.Texto(msgEscolhaNumeroValido(len(repo.PapeisValidos))))
	}

	novoPapel := repo.PapeisValidos[indice-1]
	if err := r.cadastros.AtualizarPapel(ctx, sess.Dados.Pessoa.CPF, novoPapel); err != nil {
		return err
	}
	return r.finalizar(ctx, contato, msgPapelAtualizado(sess.Dados.Pessoa.NomeCompleto, novoPapel))
}

// --- blacklist ---

func (r *Roteador) etapaBlacklistMenu(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	switch texto {
	case "1":
		sess.Etapa = EtapaBlacklistCPF
		return r.perguntar(ctx, contato, canal.Texto(msgPedirCPFBlacklist))
	case "2":
		sess.Etapa = EtapaBlacklistRemoverCPF
		return r.perguntar(ctx, contato, canal.Texto(msgPedirCPFRemover))
	case "3":
		entradas, err := r.blacklist.Listar(ctx)
		if err != nil {
			return err
		}
		if len(entradas) == 0 {
			return r.finalizar(ctx, contato, msgBlacklistVazia)
		}
		return r.finalizar(ctx, contato, msgListaBlacklist(entradas))
	default:
		return r.perguntar(ctx, contato, canal.Texto(msgOpcaoInvalida+"\n\n"+menuBlacklist))
	}
}

func (r *Roteador) etapaBlacklistCPF(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	formatado, err := cpf.Validar(texto)
	if err != nil {
		return r.perguntar(ctx, contato, canal.Texto(msgCPFInvalido))
	}

	if _, err := r.blacklist.BuscarPorCPF(ctx, formatado); err == nil {
		return r.finalizar(ctx, contato, msgJaNaBlacklist)
	} else if !errors.Is(err, repo.ErrNaoEncontrado) {
		return err
	}

	sess.Dados.CPF = formatado
	// O nome é informativo; CPF fora do cadastro também pode ser barrado.
	if pessoa, err := r.cadastros.BuscarPorCPF(ctx, formatado); err == nil {
		sess.Dados.Nome = pessoa.NomeCompleto
	} else if !errors.Is(err, repo.ErrNaoEncontrado) {
		return err
	}

	sess.Etapa = EtapaBlacklistMotivo
	return r.perguntar(ctx, contato, canal.Texto(msgPedirMotivo))
}

func (r *Roteador) etapaBlacklistMotivo(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	if texto == "" {
		return r.perguntar(ctx, contato, canal.Texto(msgPedirMotivo))
	}
	sess.Dados.Motivo = texto
	sess.Etapa = EtapaBlacklistConfirma
	return r.perguntar(ctx, contato, botoesSimNao(msgConfirmarBlacklist(sess.Dados.CPF, sess.Dados.Nome, texto)))
}

func (r *Roteador) etapaBlacklistConfirma(ctx context.Context, contato, resposta string, sess *sessao.Sessao, cadastro *repo.Cadastro, papel string) error {
	switch {
	case respostaAfirmativa(resposta):
		entrada := repo.EntradaBlacklist{
			CPF:          sess.Dados.CPF,
			NomeCompleto: sess.Dados.Nome,
			DataInclusao: r.sessoes.Agora().Format("02/01/2006"),
			Motivo:       sess.Dados.Motivo,
		}
		if cadastro != nil {
			entrada.IncluidoPor = cadastro.NomeCompleto
		}
		if err := r.blacklist.Inserir(ctx, entrada); err != nil {
			return err
		}
		return r.finalizar(ctx, contato, msgIncluidoBlacklist(sess.Dados.CPF))
	case respostaNegativa(resposta):
		return r.finalizar(ctx, contato, msgOperacaoCancelada)
	default:
		return r.perguntar(ctx, contato, canal.Texto(msgRespostaSimNao))
	}
}

func (r *Roteador) etapaBlacklistRemoverCPF(ctx context.Context, contato, texto, papel string) error {
	formatado, err := cpf.Validar(texto)
	if err != nil {
		return r.perguntar(ctx, contato, canal.Texto(msgCPFInvalido))
	}

	err = r.blacklist.Remover(ctx, formatado)
	if errors.Is(err, repo.ErrNaoEncontrado) {
		return r.finalizar(ctx, contato, msgNaoEstaBlacklist)
	}
	if err != nil {
		return err
	}
	return r.finalizar(ctx, contato, msgRemovidoBlacklist)
}
