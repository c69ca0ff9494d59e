package bot

import (
	"context"
	"strings"

	"github.com/fabinhoeventos/pesquisabot/internal/canal"
	"github.com/fabinhoeventos/pesquisabot/internal/cpf"
	"github.com/fabinhoeventos/pesquisabot/internal/repo"
	"github.com/fabinhoeventos/pesquisabot/internal/sessao"
)

// iniciarCadastro abre o fluxo de registro para um contato desconhecido.
func (r *Roteador) iniciarCadastro(ctx context.Context, contato string) error {
	r.sessoes.Definir(contato, &sessao.Sessao{Etapa: EtapaAguardandoCPF})
	return r.perguntar(ctx, contato, canal.Texto(msgBoasVindas))
}

func (r *Roteador) etapaCPF(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	formatado, err := cpf.Validar(texto)
	if err != nil {
		return r.perguntar(ctx, contato, canal.Texto(msgCPFInvalido))
	}

	sess.Dados.CPF = formatado
	sess.Etapa = EtapaAguardandoConfirmacaoCPF
	return r.perguntar(ctx, contato, botoesSimNao(msgConfirmarCPF(formatado)))
}

func (r *Roteador) etapaConfirmacaoCPF(ctx context.Context, contato, resposta string, sess *sessao.Sessao) error {
	switch {
	case respostaAfirmativa(resposta):
		sess.Etapa = EtapaAguardandoNome
		return r.perguntar(ctx, contato, canal.Texto(msgPedirNome))
	case respostaNegativa(resposta):
		sess.Dados.CPF = ""
		sess.Etapa = EtapaAguardandoCPF
		return r.perguntar(ctx, contato, canal.Texto(msgCPFNovamente))
	default:
		return r.perguntar(ctx, contato, canal.Texto(msgRespostaSimNao))
	}
}

func (r *Roteador) etapaNome(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	if texto == "" {
		return r.perguntar(ctx, contato, canal.Texto(msgPedirNome))
	}
	sess.Dados.Nome = texto
	sess.Etapa = EtapaAguardandoTelefone
	return r.perguntar(ctx, contato, canal.Texto(msgPedirTelefone))
}

func (r *Roteador) etapaTelefone(ctx context.Context, contato, texto string, sess *sessao.Sessao) error {
	telefone := somenteDigitos(texto)
	if telefone == "" {
		return r.perguntar(ctx, contato, canal.Texto(msgPedirTelefone))
	}

	cadastro := repo.Cadastro{
		CPF:          sess.Dados.CPF,
		NomeCompleto: sess.Dados.Nome,
		Telefone:     telefone,
		ContatoID:    contato,
		Papel:        repo.PapelFreelancer,
	}
	if err := r.cadastros.Inserir(ctx, cadastro); err != nil {
		return err
	}

	if err := r.enviarTexto(ctx, contato, msgCadastroFinalizado); err != nil {
		return err
	}
	return r.iniciarFluxoPesquisa(ctx, contato, cadastro.CPF, false)
}

func somenteDigitos(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}
