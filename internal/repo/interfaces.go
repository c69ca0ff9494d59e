package repo

import "context"

// Cadastros dá acesso à tabela de pessoas registradas.
type Cadastros interface {
	BuscarPorContato(ctx context.Context, contatoID string) (Cadastro, error)
	BuscarPorCPF(ctx context.Context, cpf string) (Cadastro, error)
	Inserir(ctx context.Context, c Cadastro) error
	AtualizarPapel(ctx context.Context, cpf, papel string) error
}

// Pesquisas dá acesso às atribuições de pesquisa (aba Eventos).
type Pesquisas interface {
	ListarTodas(ctx context.Context) ([]Pesquisa, error)
	// ListarPendentes devolve as atribuições ainda não respondidas do CPF,
	// excluindo linhas sentinela.
	ListarPendentes(ctx context.Context, cpf string) ([]Pesquisa, error)
	InserirLote(ctx context.Context, lote []Pesquisa) error
	RegistrarResposta(ctx context.Context, id string, nota int, dataResposta string) error
	// TemMarcadorAdmin verifica se existe linha sentinela para o CPF
	// (mecanismo legado de concessão de acesso administrativo).
	TemMarcadorAdmin(ctx context.Context, cpf string) (bool, error)
}

// Blacklist dá acesso aos CPFs barrados de credenciamento.
type Blacklist interface {
	Listar(ctx context.Context) ([]EntradaBlacklist, error)
	BuscarPorCPF(ctx context.Context, cpf string) (EntradaBlacklist, error)
	Inserir(ctx context.Context, e EntradaBlacklist) error
	Remover(ctx context.Context, cpf string) error
}

// Credenciais dá acesso às credenciais por evento.
type Credenciais interface {
	ListarPorEvento(ctx context.Context, nomeEvento string) ([]Credencial, error)
	BuscarPorEventoECPF(ctx context.Context, nomeEvento, cpf string) (Credencial, error)
	Inserir(ctx context.Context, c Credencial) error
	Remover(ctx context.Context, id string) error
}

// Substituidor é implementado por armazenamentos capazes de trocar uma
// credencial por outra de forma atômica. Quem não implementa cai no caminho
// remover-depois-inserir, sem atomicidade (comportamento legado da planilha).
type Substituidor interface {
	Substituir(ctx context.Context, saidaID string, entrada Credencial) error
}

// Eventos dá acesso ao catálogo de eventos cadastrados.
type Eventos interface {
	Listar(ctx context.Context) ([]EventoCatalogo, error)
}

// FiltrarPendentes aplica em memória a regra de pendência: mesma pessoa,
// pesquisa não enviada e linha não sentinela. Usada pelos adaptadores que só
// sabem ler a tabela inteira.
func FiltrarPendentes(todas []Pesquisa, cpf string) []Pesquisa {
	var pendentes []Pesquisa
	for _, p := range todas {
		if p.CPF == cpf && !p.PesquisaEnviada && !p.Sentinela() {
			pendentes = append(pendentes, p)
		}
	}
	return pendentes
}
