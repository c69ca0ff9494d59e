// Package bot contém a máquina de estados da conversa: dado (contato, texto,
// sessão, papel), decide as mensagens de saída, a próxima etapa e as
// mutações no armazenamento.
package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fabinhoeventos/pesquisabot/internal/canal"
	"github.com/fabinhoeventos/pesquisabot/internal/repo"
	"github.com/fabinhoeventos/pesquisabot/internal/sessao"
)

// Deps agrupa as dependências do roteador.
type Deps struct {
	Cadastros   repo.Cadastros
	Pesquisas   repo.Pesquisas
	Blacklist   repo.Blacklist
	Credenciais repo.Credenciais
	Eventos     repo.Eventos
	Canal       canal.Canal
	Sessoes     *sessao.Gerente
	Log         zerolog.Logger
}

// Roteador sequencia os diálogos de múltiplos passos por contato.
type Roteador struct {
	cadastros   repo.Cadastros
	pesquisas   repo.Pesquisas
	blacklist   repo.Blacklist
	credenciais repo.Credenciais
	eventos     repo.Eventos
	canal       canal.Canal
	sessoes     *sessao.Gerente
	log         zerolog.Logger
}

// NovoRoteador monta o roteador e registra o aviso de expiração de sessão.
func NovoRoteador(deps Deps) *Roteador {
	r := &Roteador{
		cadastros:   deps.Cadastros,
		pesquisas:   deps.Pesquisas,
		blacklist:   deps.Blacklist,
		credenciais: deps.Credenciais,
		eventos:     deps.Eventos,
		canal:       deps.Canal,
		sessoes:     deps.Sessoes,
		log:         deps.Log,
	}
	r.sessoes.AoExpirar = func(contato string) {
		r.log.Info().Str("contato", contato).Msg("sessão expirada por inatividade")
		r.enviarTexto(context.Background(), contato, msgSessaoExpirada)
	}
	return r
}

// Processar trata uma mensagem recebida. Mensagens do mesmo contato são
// serializadas; qualquer erro de armazenamento ou transporte derruba a
// sessão inteira e manda a desculpa genérica (sem recuperação parcial).
func (r *Roteador) Processar(ctx context.Context, entrada canal.Entrada) {
	destravar := r.sessoes.Trancar(entrada.Contato)
	defer destravar()

	r.sessoes.CancelarTimeout(entrada.Contato)

	defer func() {
		if panico := recover(); panico != nil {
			r.log.Error().Interface("panic", panico).Str("contato", entrada.Contato).
				Msg("pânico ao processar mensagem")
			r.abortar(ctx, entrada.Contato)
		}
	}()

	texto := strings.TrimSpace(entrada.TextoEfetivo())
	r.log.Info().Str("contato", entrada.Contato).Msg("processando mensagem")

	if err := r.rotear(ctx, entrada.Contato, texto); err != nil {
		r.log.Error().Err(err).Str("contato", entrada.Contato).Msg("falha ao processar mensagem")
		r.abortar(ctx, entrada.Contato)
	}
}

func (r *Roteador) abortar(ctx context.Context, contato string) {
	r.sessoes.Encerrar(contato)
	r.enviarTexto(ctx, contato, msgErroGenerico)
}

func (r *Roteador) rotear(ctx context.Context, contato, texto string) error {
	resposta := strings.ToLower(texto)

	sess, temSessao := r.sessoes.Obter(contato)
	if temSessao && resposta == "cancelar" {
		r.sessoes.Encerrar(contato)
		return r.enviarTexto(ctx, contato, msgSessaoCancelada)
	}

	cadastro, papel, err := r.resolverPapel(ctx, contato)
	if err != nil {
		return err
	}

	// Papel é resolvido a cada mensagem: quem perdeu acesso administrativo
	// perde também a sessão administrativa em andamento.
	if temSessao && etapasAdministrativas[sess.Etapa] && !papelTemMenu(papel) {
		r.sessoes.Encerrar(contato)
		sess, temSessao = nil, false
	}

	if !temSessao {
		return r.iniciarConversa(ctx, contato, cadastro, papel)
	}
	return r.continuarConversa(ctx, contato, texto, resposta, sess, cadastro, papel)
}

// resolverPapel busca o cadastro e o papel vigentes. O papel nunca fica em
// sessão; a linha sentinela na tabela de pesquisas é o mecanismo legado de
// concessão de acesso administrativo e continua valendo.
func (r *Roteador) resolverPapel(ctx context.Context, contato string) (*repo.Cadastro, string, error) {
	cadastro, err := r.cadastros.BuscarPorContato(ctx, contato)
	if errors.Is(err, repo.ErrNaoEncontrado) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	papel := cadastro.Papel
	if papel == "" {
		papel = repo.PapelFreelancer
	}
	if papel != repo.PapelAdmin {
		marcador, err := r.pesquisas.TemMarcadorAdmin(ctx, cadastro.CPF)
		if err != nil {
			return nil, "", err
		}
		if marcador {
			papel = repo.PapelAdmin
		}
	}
	return &cadastro, papel, nil
}

func papelTemMenu(papel string) bool {
	return papel == repo.PapelAdmin || papel == repo.PapelLider || papel == repo.PapelCoordenador
}

// iniciarConversa decide o primeiro passo de quem chegou sem sessão.
func (r *Roteador) iniciarConversa(ctx context.Context, contato string, cadastro *repo.Cadastro, papel string) error {
	if cadastro == nil {
		return r.iniciarCadastro(ctx, contato)
	}
	switch papel {
	case repo.PapelAdmin, repo.PapelLider, repo.PapelCoordenador:
		return r.abrirMenu(ctx, contato, papel)
	default:
		return r.iniciarFluxoPesquisa(ctx, contato, cadastro.CPF, true)
	}
}

// continuarConversa despacha para o tratador da etapa corrente. Entrada não
// reconhecida dentro de uma etapa reapresenta o mesmo pedido em vez de
// avançar; esse é o único mecanismo de recuperação do sistema.
func (r *Roteador) continuarConversa(ctx context.Context, contato, texto, resposta string, sess *sessao.Sessao, cadastro *repo.Cadastro, papel string) error {
	switch sess.Etapa {
	case EtapaAguardandoCPF:
		return r.etapaCPF(ctx, contato, texto, sess)
	case EtapaAguardandoConfirmacaoCPF:
		return r.etapaConfirmacaoCPF(ctx, contato, resposta, sess)
	case EtapaAguardandoNome:
		return r.etapaNome(ctx, contato, texto, sess)
	case EtapaAguardandoTelefone:
		return r.etapaTelefone(ctx, contato, texto, sess)

	case EtapaAguardandoNota:
		return r.etapaNota(ctx, contato, texto, sess)
	case EtapaAguardandoEscolhaEvento:
		return r.etapaEscolhaEvento(ctx, contato, texto, sess)
	case EtapaAguardandoContinuar:
		return r.etapaContinuar(ctx, contato, resposta, sess)

	case EtapaMenuAdmin:
		return r.etapaMenuAdmin(ctx, contato, texto)
	case EtapaMenuLider:
		return r.etapaMenuLider(ctx, contato, texto)
	case EtapaMenuCoordenador:
		return r.etapaMenuCoordenador(ctx, contato, texto)
	case EtapaRelatorioOutro:
		return r.etapaRelatorioOutro(ctx, contato, resposta, papel)

	case EtapaNovaPesquisaCPFs:
		return r.etapaNovaPesquisaCPFs(ctx, contato, texto, sess)
	case EtapaNovaPesquisaEvento:
		return r.etapaNovaPesquisaEvento(ctx, contato, texto, sess)
	case EtapaNovaPesquisaLider:
		return r.etapaNovaPesquisaLider(ctx, contato, texto, sess)
	case EtapaNovaPesquisaData:
		return r.etapaNovaPesquisaData(ctx, contato, texto, sess)

	case EtapaPapelCPF:
		return r.etapaPapelCPF(ctx, contato, texto, sess)
	case EtapaPapelEscolha:
		return r.etapaPapelEscolha(ctx, contato, texto, sess, papel)

	case EtapaBlacklistMenu:
		return r.etapaBlacklistMenu(ctx, contato, texto, sess)
	case EtapaBlacklistCPF:
		return r.etapaBlacklistCPF(ctx, contato, texto, sess)
	case EtapaBlacklistMotivo:
		return r.etapaBlacklistMotivo(ctx, contato, texto, sess)
	case EtapaBlacklistConfirma:
		return r.etapaBlacklistConfirma(ctx, contato, resposta, sess, cadastro, papel)
	case EtapaBlacklistRemoverCPF:
		return r.etapaBlacklistRemoverCPF(ctx, contato, texto, papel)

	case EtapaCredEvento:
		return r.etapaCredEvento(ctx, contato, texto, sess)
	case EtapaCredCPFs:
		return r.etapaCredCPFs(ctx, contato, texto, sess)
	case EtapaCredConfirma:
		return r.etapaCredConfirma(ctx, contato, resposta, sess)
	case EtapaCredFuncao:
		return r.etapaCredFuncao(ctx, contato, texto, sess, cadastro)

	case EtapaSubEvento:
		return r.etapaSubEvento(ctx, contato, texto, sess)
	case EtapaSubCPFSaida:
		return r.etapaSubCPFSaida(ctx, contato, texto, sess)
	case EtapaSubCPFEntrada:
		return r.etapaSubCPFEntrada(ctx, contato, texto, sess)
	case EtapaSubConfirma:
		return r.etapaSubConfirma(ctx, contato, resposta, sess, cadastro)

	case EtapaExportEvento:
		return r.etapaExportEvento(ctx, contato, texto, sess)
	}

	// Etapa desconhecida indica sessão de uma versão antiga do processo.
	r.log.Warn().Str("contato", contato).Str("etapa", string(sess.Etapa)).Msg("etapa desconhecida")
	r.sessoes.Encerrar(contato)
	return r.enviarTexto(ctx, contato, msgErroGenerico)
}

// abrirMenu apresenta o menu do papel e agenda o timeout.
func (r *Roteador) abrirMenu(ctx context.Context, contato, papel string) error {
	var etapa sessao.Etapa
	var menu string
	switch papel {
	case repo.PapelAdmin:
		etapa, menu = EtapaMenuAdmin, menuAdmin
	case repo.PapelLider:
		etapa, menu = EtapaMenuLider, menuLider
	default:
		etapa, menu = EtapaMenuCoordenador, menuCoordenador
	}
	r.sessoes.Definir(contato, &sessao.Sessao{Etapa: etapa})
	return r.perguntar(ctx, contato, canal.Texto(menu))
}

// enviarTexto manda texto simples sem renovar o timeout (mensagens terminais
// e avisos).
func (r *Roteador) enviarTexto(ctx context.Context, contato, texto string) error {
	return r.canal.Enviar(ctx, contato, canal.Texto(texto))
}

// perguntar manda uma mensagem que espera resposta e renova o timeout de
// inatividade.
func (r *Roteador) perguntar(ctx context.Context, contato string, msg canal.Mensagem) error {
	if err := r.canal.Enviar(ctx, contato, msg); err != nil {
		return err
	}
	r.sessoes.RenovarTimeout(contato)
	return nil
}

// finalizar encerra a sessão (cancelando o timeout) e manda a despedida.
func (r *Roteador) finalizar(ctx context.Context, contato, texto string) error {
	r.sessoes.Encerrar(contato)
	return r.enviarTexto(ctx, contato, texto)
}

func respostaAfirmativa(resposta string) bool {
	switch resposta {
	case "sim", "s", "quero", "correto":
		return true
	}
	return false
}

func respostaNegativa(resposta string) bool {
	switch resposta {
	case "não", "nao", "n":
		return true
	}
	return false
}

func botoesSimNao(pergunta string) canal.Mensagem {
	return canal.Mensagem{
		Texto: pergunta,
		Botoes: []canal.Botao{
			{ID: "sim", Rotulo: "Sim"},
			{ID: "não", Rotulo: "Não"},
		},
	}
}
