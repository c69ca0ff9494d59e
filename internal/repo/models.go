package repo

import "time"

// EventoAdministracao é o nome de evento reservado que marca uma linha como
// sinalizador administrativo. Linhas com esse nome nunca entram em consultas
// de pesquisas pendentes nem em relatórios.
const EventoAdministracao = "ADMINISTRACAOGERAL"

// Papéis reconhecidos de um cadastro.
const (
	PapelFreelancer  = "FREELANCER"
	PapelLider       = "LIDER"
	PapelCoordenador = "COORDENADOR"
	PapelAdmin       = "ADMIN"
)

// PapeisValidos lista os papéis aceitos na troca de papel, na ordem exibida no menu.
var PapeisValidos = []string{PapelFreelancer, PapelLider, PapelCoordenador, PapelAdmin}

// Cadastro representa uma pessoa registrada na aba Cadastros.
type Cadastro struct {
	CPF          string
	NomeCompleto string
	Telefone     string
	ContatoID    string
	Papel        string
}

// Pesquisa representa uma atribuição (participante, evento) na aba Eventos.
// Nota fica nula até a pesquisa ser respondida.
type Pesquisa struct {
	ID              string
	CPF             string
	NomeEvento      string
	NomeLider       string
	DataEvento      string
	PesquisaEnviada bool
	Nota            *int
	DataResposta    string
}

// Respondida indica se a pesquisa já recebeu nota.
func (p Pesquisa) Respondida() bool {
	return p.PesquisaEnviada && p.Nota != nil
}

// Sentinela indica se a linha é um sinalizador administrativo.
func (p Pesquisa) Sentinela() bool {
	return p.NomeEvento == EventoAdministracao
}

// EntradaBlacklist representa um CPF barrado de credenciamento.
type EntradaBlacklist struct {
	CPF          string
	NomeCompleto string
	DataInclusao string
	IncluidoPor  string
	Motivo       string
}

// Credencial representa a função de uma pessoa em um evento específico.
type Credencial struct {
	ID             string
	NomeEvento     string
	CPF            string
	NomeCompleto   string
	Funcao         string
	CredenciadoPor string
	CriadoEm       time.Time
	Observacao     string
}

// EventoCatalogo representa um evento da aba Eventos_Cadastrados, com as
// funções disponíveis para credenciamento.
type EventoCatalogo struct {
	Nome    string
	Data    string
	Funcoes []string
}
