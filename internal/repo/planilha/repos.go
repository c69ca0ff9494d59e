package planilha

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fabinhoeventos/pesquisabot/internal/repo"
)

// Nomes de coluna herdados da planilha legada. Precisam casar byte a byte.
const (
	ColCPF         = "CPF (xxx.xxx.xxx-xx)"
	ColNomeEvento  = "NomeEvento"
	ColNomeLider   = "NomeLider"
	ColDataEvento  = "DataEvento"
	ColEnviada     = "PesquisaEnviada"
	ColNota        = "Nota"
	ColResposta    = "DataResposta"
	ColNome        = "NomeCompleto"
	ColTelefone    = "TelefoneInformado"
	ColContato     = "IDContatoWhatsApp"
	ColFuncao      = "Funcao"
	ColInclusao    = "DataInclusao"
	ColIncluidoPor = "IncluidoPor"
	ColMotivo      = "Motivo"
	ColCredPor     = "CredenciadoPor"
	ColDataHora    = "DataHora"
	ColObservacao  = "Observacao"
	ColFuncoes     = "FuncoesDisponiveis"
)

// Cadastros implementa repo.Cadastros sobre a aba Cadastros.
type Cadastros struct {
	cliente *Cliente
}

// NewCadastros cria instância do repositório.
func NewCadastros(cliente *Cliente) *Cadastros {
	return &Cadastros{cliente: cliente}
}

func cadastroDaLinha(t tabela, linha []string) repo.Cadastro {
	papel := strings.ToUpper(strings.TrimSpace(t.celula(linha, ColFuncao)))
	if papel == "" {
		papel = repo.PapelFreelancer
	}
	return repo.Cadastro{
		CPF:          strings.TrimSpace(t.celula(linha, ColCPF)),
		NomeCompleto: t.celula(linha, ColNome),
		Telefone:     t.celula(linha, ColTelefone),
		ContatoID:    t.celula(linha, ColContato),
		Papel:        papel,
	}
}

// BuscarPorContato localiza o cadastro pelo identificador do WhatsApp.
func (r *Cadastros) BuscarPorContato(ctx context.Context, contatoID string) (repo.Cadastro, error) {
	t, err := r.cliente.lerTabela(ctx, AbaCadastros)
	if err != nil {
		return repo.Cadastro{}, err
	}
	for _, linha := range t.linhas {
		if t.celula(linha, ColContato) == contatoID {
			return cadastroDaLinha(t, linha), nil
		}
	}
	return repo.Cadastro{}, repo.ErrNaoEncontrado
}

// BuscarPorCPF localiza o cadastro pelo CPF canônico.
func (r *Cadastros) BuscarPorCPF(ctx context.Context, cpf string) (repo.Cadastro, error) {
	t, err := r.cliente.lerTabela(ctx, AbaCadastros)
	if err != nil {
		return repo.Cadastro{}, err
	}
	for _, linha := range t.linhas {
		if strings.TrimSpace(t.celula(linha, ColCPF)) == cpf {
			return cadastroDaLinha(t, linha), nil
		}
	}
	return repo.Cadastro{}, repo.ErrNaoEncontrado
}

// Inserir acrescenta um cadastro na ordem de colunas da planilha legada.
func (r *Cadastros) Inserir(ctx context.Context, c repo.Cadastro) error {
	papel := c.Papel
	if papel == "" {
		papel = repo.PapelFreelancer
	}
	return r.cliente.acrescentarLinhas(ctx, AbaCadastros, [][]any{
		{c.CPF, c.NomeCompleto, c.Telefone, c.ContatoID, papel},
	})
}

// AtualizarPapel troca a função registrada para o CPF.
func (r *Cadastros) AtualizarPapel(ctx context.Context, cpf, papel string) error {
	t, err := r.cliente.lerTabela(ctx, AbaCadastros)
	if err != nil {
		return err
	}
	colFuncao, ok := t.colunas[ColFuncao]
	if !ok {
		return fmt.Errorf("aba %s sem coluna %s", AbaCadastros, ColFuncao)
	}
	for i, linha := range t.linhas {
		if strings.TrimSpace(t.celula(linha, ColCPF)) == cpf {
			return r.cliente.atualizarCelulas(ctx, AbaCadastros, i+2, map[int]any{colFuncao: papel})
		}
	}
	return repo.ErrNaoEncontrado
}

// Pesquisas implementa repo.Pesquisas sobre a aba Eventos.
type Pesquisas struct {
	cliente *Cliente
}

// NewPesquisas cria instância do repositório.
func NewPesquisas(cliente *Cliente) *Pesquisas {
	return &Pesquisas{cliente: cliente}
}

func pesquisaDaLinha(t tabela, indice int, linha []string) repo.Pesquisa {
	p := repo.Pesquisa{
		// ID é o número da linha na planilha (o cabeçalho é a linha 1).
		ID:              strconv.Itoa(indice + 2),
		CPF:             strings.TrimSpace(t.celula(linha, ColCPF)),
		NomeEvento:      strings.TrimSpace(t.celula(linha, ColNomeEvento)),
		NomeLider:       t.celula(linha, ColNomeLider),
		DataEvento:      t.celula(linha, ColDataEvento),
		PesquisaEnviada: strings.EqualFold(t.celula(linha, ColEnviada), "TRUE"),
		DataResposta:    t.celula(linha, ColResposta),
	}
	if nota, err := strconv.Atoi(strings.TrimSpace(t.celula(linha, ColNota))); err == nil {
		p.Nota = &nota
	}
	return p
}

// ListarTodas devolve todas as linhas da aba Eventos, inclusive sentinelas.
func (r *Pesquisas) ListarTodas(ctx context.Context) ([]repo.Pesquisa, error) {
	t, err := r.cliente.lerTabela(ctx, AbaEventos)
	if err != nil {
		return nil, err
	}
	var pesquisas []repo.Pesquisa
	for i, linha := range t.linhas {
		pesquisas = append(pesquisas, pesquisaDaLinha(t, i, linha))
	}
	return pesquisas, nil
}

// ListarPendentes devolve as pendências do CPF, sem sentinelas.
func (r *Pesquisas) ListarPendentes(ctx context.Context, cpf string) ([]repo.Pesquisa, error) {
	todas, err := r.ListarTodas(ctx)
	if err != nil {
		return nil, err
	}
	return repo.FiltrarPendentes(todas, cpf), nil
}

// InserirLote acrescenta uma linha por atribuição. A operação não é atômica:
// uma falha no meio deixa o prefixo gravado, como na planilha legada.
func (r *Pesquisas) InserirLote(ctx context.Context, lote []repo.Pesquisa) error {
	linhas := make([][]any, 0, len(lote))
	for _, p := range lote {
		linhas = append(linhas, []any{p.CPF, p.NomeEvento, p.NomeLider, p.DataEvento, "", "", ""})
	}
	return r.cliente.acrescentarLinhas(ctx, AbaEventos, linhas)
}

// RegistrarResposta grava nota, data de resposta e o marcador de envio.
func (r *Pesquisas) RegistrarResposta(ctx context.Context, id string, nota int, dataResposta string) error {
	linha, err := strconv.Atoi(id)
	if err != nil {
		return fmt.Errorf("id de pesquisa inválido %q: %w", id, err)
	}

	t, err := r.cliente.lerTabela(ctx, AbaEventos)
	if err != nil {
		return err
	}
	valores := map[int]any{}
	for coluna, valor := range map[string]any{
		ColNota:     nota,
		ColResposta: dataResposta,
		ColEnviada:  "TRUE",
	} {
		idx, ok := t.colunas[coluna]
		if !ok {
			return fmt.Errorf("aba %s sem coluna %s", AbaEventos, coluna)
		}
		valores[idx] = valor
	}
	return r.cliente.atualizarCelulas(ctx, AbaEventos, linha, valores)
}

// TemMarcadorAdmin verifica se o CPF possui linha sentinela de administração.
func (r *Pesquisas) TemMarcadorAdmin(ctx context.Context, cpf string) (bool, error) {
	todas, err := r.ListarTodas(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range todas {
		if p.CPF == cpf && p.Sentinela() {
			return true, nil
		}
	}
	return false, nil
}

// Blacklist implementa repo.Blacklist sobre a aba Blacklist.
type Blacklist struct {
	cliente *Cliente
}

// NewBlacklist cria instância do repositório.
func NewBlacklist(cliente *Cliente) *Blacklist {
	return &Blacklist{cliente: cliente}
}

func entradaDaLinha(t tabela, linha []string) repo.EntradaBlacklist {
	return repo.EntradaBlacklist{
		CPF:          strings.TrimSpace(t.celula(linha, ColCPF)),
		NomeCompleto: t.celula(linha, ColNome),
		DataInclusao: t.celula(linha, ColInclusao),
		IncluidoPor:  t.celula(linha, ColIncluidoPor),
		Motivo:       t.celula(linha, ColMotivo),
	}
}

// Listar devolve todas as entradas.
func (r *Blacklist) Listar(ctx context.Context) ([]repo.EntradaBlacklist, error) {
	t, err := r.cliente.lerTabela(ctx, AbaBlacklist)
	if err != nil {
		return nil, err
	}
	var entradas []repo.EntradaBlacklist
	for _, linha := range t.linhas {
		entradas = append(entradas, entradaDaLinha(t, linha))
	}
	return entradas, nil
}

// BuscarPorCPF localiza a entrada do CPF, se barrado.
func (r *Blacklist) BuscarPorCPF(ctx context.Context, cpf string) (repo.EntradaBlacklist, error) {
	t, err := r.cliente.lerTabela(ctx, AbaBlacklist)
	if err != nil {
		return repo.EntradaBlacklist{}, err
	}
	for _, linha := range t.linhas {
		if strings.TrimSpace(t.celula(linha, ColCPF)) == cpf {
			return entradaDaLinha(t, linha), nil
		}
	}
	return repo.EntradaBlacklist{}, repo.ErrNaoEncontrado
}

// Inserir acrescenta uma entrada.
func (r *Blacklist) Inserir(ctx context.Context, e repo.EntradaBlacklist) error {
	return r.cliente.acrescentarLinhas(ctx, AbaBlacklist, [][]any{
		{e.CPF, e.NomeCompleto, e.DataInclusao, e.IncluidoPor, e.Motivo},
	})
}

// Remover apaga a linha do CPF.
func (r *Blacklist) Remover(ctx context.Context, cpf string) error {
	t, err := r.cliente.lerTabela(ctx, AbaBlacklist)
	if err != nil {
		return err
	}
	for i, linha := range t.linhas {
		if strings.TrimSpace(t.celula(linha, ColCPF)) == cpf {
			return r.cliente.removerLinha(ctx, AbaBlacklist, i+2)
		}
	}
	return repo.ErrNaoEncontrado
}

// Credenciais implementa repo.Credenciais sobre a aba Credenciamento.
type Credenciais struct {
	cliente *Cliente
}

// NewCredenciais cria instância do repositório.
func NewCredenciais(cliente *Cliente) *Credenciais {
	return &Credenciais{cliente: cliente}
}

func credencialDaLinha(t tabela, indice int, linha []string) repo.Credencial {
	criadoEm, _ := time.Parse("02/01/2006 15:04", t.celula(linha, ColDataHora))
	return repo.Credencial{
		ID:             strconv.Itoa(indice + 2),
		NomeEvento:     strings.TrimSpace(t.celula(linha, ColNomeEvento)),
		CPF:            strings.TrimSpace(t.celula(linha, ColCPF)),
		NomeCompleto:   t.celula(linha, ColNome),
		Funcao:         t.celula(linha, ColFuncao),
		CredenciadoPor: t.celula(linha, ColCredPor),
		CriadoEm:       criadoEm,
		Observacao:     t.celula(linha, ColObservacao),
	}
}

// ListarPorEvento devolve as credenciais do evento.
func (r *Credenciais) ListarPorEvento(ctx context.Context, nomeEvento string) ([]repo.Credencial, error) {
	t, err := r.cliente.lerTabela(ctx, AbaCredencial)
	if err != nil {
		return nil, err
	}
	var credenciais []repo.Credencial
	for i, linha := range t.linhas {
		if strings.TrimSpace(t.celula(linha, ColNomeEvento)) == nomeEvento {
			credenciais = append(credenciais, credencialDaLinha(t, i, linha))
		}
	}
	return credenciais, nil
}

// BuscarPorEventoECPF localiza a credencial de uma pessoa no evento.
func (r *Credenciais) BuscarPorEventoECPF(ctx context.Context, nomeEvento, cpf string) (repo.Credencial, error) {
	t, err := r.cliente.lerTabela(ctx, AbaCredencial)
	if err != nil {
		return repo.Credencial{}, err
	}
	for i, linha := range t.linhas {
		if strings.TrimSpace(t.celula(linha, ColNomeEvento)) == nomeEvento &&
			strings.TrimSpace(t.celula(linha, ColCPF)) == cpf {
			return credencialDaLinha(t, i, linha), nil
		}
	}
	return repo.Credencial{}, repo.ErrNaoEncontrado
}

// Inserir acrescenta uma credencial.
func (r *Credenciais) Inserir(ctx context.Context, c repo.Credencial) error {
	criadoEm := c.CriadoEm
	if criadoEm.IsZero() {
		criadoEm = time.Now()
	}
	return r.cliente.acrescentarLinhas(ctx, AbaCredencial, [][]any{
		{c.NomeEvento, c.CPF, c.NomeCompleto, c.Funcao, c.CredenciadoPor,
			criadoEm.Format("02/01/2006 15:04"), c.Observacao},
	})
}

// Remover apaga a linha indicada pelo ID (número da linha).
func (r *Credenciais) Remover(ctx context.Context, id string) error {
	linha, err := strconv.Atoi(id)
	if err != nil {
		return fmt.Errorf("id de credencial inválido %q: %w", id, err)
	}
	return r.cliente.removerLinha(ctx, AbaCredencial, linha)
}

// Eventos implementa repo.Eventos sobre a aba Eventos_Cadastrados.
type Eventos struct {
	cliente *Cliente
}

// NewEventos cria instância do repositório.
func NewEventos(cliente *Cliente) *Eventos {
	return &Eventos{cliente: cliente}
}

// Listar devolve o catálogo de eventos. Funções vêm separadas por vírgula.
func (r *Eventos) Listar(ctx context.Context) ([]repo.EventoCatalogo, error) {
	t, err := r.cliente.lerTabela(ctx, AbaCatalogo)
	if err != nil {
		return nil, err
	}
	var eventos []repo.EventoCatalogo
	for _, linha := range t.linhas {
		nome := strings.TrimSpace(t.celula(linha, ColNomeEvento))
		if nome == "" {
			continue
		}
		var funcoes []string
		for _, f := range strings.Split(t.celula(linha, ColFuncoes), ",") {
			if f = strings.TrimSpace(f); f != "" {
				funcoes = append(funcoes, f)
			}
		}
		eventos = append(eventos, repo.EventoCatalogo{
			Nome:    nome,
			Data:    t.celula(linha, ColDataEvento),
			Funcoes: funcoes,
		})
	}
	return eventos, nil
}
