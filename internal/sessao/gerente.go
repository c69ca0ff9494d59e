// Package sessao guarda o estado transitório de conversa por contato,
// apenas em memória de processo, com expiração por inatividade.
package sessao

import (
	"sync"
	"time"

	"github.com/fabinhoeventos/pesquisabot/internal/repo"
)

// Etapa identifica o passo atual do diálogo de um contato.
type Etapa string

// Dados acumula o que cada fluxo coletou até aqui. Cada etapa usa só os
// campos que lhe dizem respeito.
type Dados struct {
	CPF      string
	Nome     string
	Telefone string

	// fluxo de pesquisa
	Pendentes []repo.Pesquisa
	Pesquisa  *repo.Pesquisa

	// cadastro de pesquisa em lote
	CPFs       []string
	NomeEvento string
	NomeLider  string
	DataEvento string

	// blacklist
	Motivo string

	// credenciamento e substituição
	Eventos     []repo.EventoCatalogo
	Evento      *repo.EventoCatalogo
	Fila        []string
	Indice      int
	Pessoa      *repo.Cadastro
	Credencial  *repo.Credencial
	CPFEntrada  string
	NomeEntrada string
}

// Sessao é o par etapa + dados de um contato. No máximo uma por contato.
type Sessao struct {
	Etapa Etapa
	Dados Dados
}

// Gerente é o dono do mapa contato → sessão e dos temporizadores de
// inatividade. Todas as operações são seguras para uso concorrente.
type Gerente struct {
	ttl     time.Duration
	relogio Relogio

	// AoExpirar é chamado (fora do lock interno) quando uma sessão expira
	// por inatividade, depois de já removida. Deve ser definido antes da
	// primeira mensagem.
	AoExpirar func(contato string)

	mu       sync.Mutex
	sessoes  map[string]*Sessao
	timers   map[string]Temporizador
	trancas  map[string]*sync.Mutex
	geracoes map[string]uint64
}

// NewGerente cria o gerente com o TTL de inatividade configurado.
func NewGerente(ttl time.Duration, relogio Relogio) *Gerente {
	if relogio == nil {
		relogio = RelogioPadrao{}
	}
	return &Gerente{
		ttl:      ttl,
		relogio:  relogio,
		sessoes:  make(map[string]*Sessao),
		timers:   make(map[string]Temporizador),
		trancas:  make(map[string]*sync.Mutex),
		geracoes: make(map[string]uint64),
	}
}

// Trancar serializa o processamento por contato: uma segunda mensagem do
// mesmo contato só é tratada quando a transição anterior termina. Devolve a
// função de destravamento.
func (g *Gerente) Trancar(contato string) func() {
	g.mu.Lock()
	tranca, ok := g.trancas[contato]
	if !ok {
		tranca = &sync.Mutex{}
		g.trancas[contato] = tranca
	}
	g.mu.Unlock()

	tranca.Lock()
	return tranca.Unlock
}

// Obter devolve a sessão do contato, se existir.
func (g *Gerente) Obter(contato string) (*Sessao, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessoes[contato]
	return s, ok
}

// Definir registra (ou substitui) a sessão do contato.
func (g *Gerente) Definir(contato string, s *Sessao) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessoes[contato] = s
}

// Encerrar remove a sessão e cancela o temporizador pendente.
func (g *Gerente) Encerrar(contato string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sessoes, contato)
	g.cancelarTimerLocked(contato)
}

// RenovarTimeout (re)agenda a expiração por inatividade do contato. Deve ser
// chamado ao fim de toda transição que espera nova resposta.
func (g *Gerente) RenovarTimeout(contato string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cancelarTimerLocked(contato)
	g.geracoes[contato]++
	geracao := g.geracoes[contato]

	g.timers[contato] = g.relogio.Apos(g.ttl, func() {
		g.expirar(contato, geracao)
	})
}

// CancelarTimeout descarta o temporizador pendente sem mexer na sessão.
func (g *Gerente) CancelarTimeout(contato string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelarTimerLocked(contato)
}

func (g *Gerente) cancelarTimerLocked(contato string) {
	if t, ok := g.timers[contato]; ok {
		t.Parar()
		delete(g.timers, contato)
	}
	// invalida disparos já em voo
	g.geracoes[contato]++
}

// expirar roda no disparo do temporizador. A geração garante que um disparo
// atrasado, concorrente com uma renovação, não derrube a sessão nova nem
// gere aviso duplicado.
func (g *Gerente) expirar(contato string, geracao uint64) {
	g.mu.Lock()
	if g.geracoes[contato] != geracao {
		g.mu.Unlock()
		return
	}
	delete(g.sessoes, contato)
	delete(g.timers, contato)
	aviso := g.AoExpirar
	g.mu.Unlock()

	if aviso != nil {
		aviso(contato)
	}
}

// Agora expõe o relógio injetado para quem precisa carimbar datas.
func (g *Gerente) Agora() time.Time {
	return g.relogio.Agora()
}
