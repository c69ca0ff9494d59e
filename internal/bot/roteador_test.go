package bot

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fabinhoeventos/pesquisabot/internal/canal"
	"github.com/fabinhoeventos/pesquisabot/internal/repo"
	"github.com/fabinhoeventos/pesquisabot/internal/sessao"
)

const (
	contatoTeste = "5511999990000@s.whatsapp.net"
	cpfTeste     = "111.444.777-35"
	cpfTeste2    = "529.982.247-25"
)

type canalFalso struct {
	mensagens []canal.Mensagem
}

func (c *canalFalso) Iniciar(ctx context.Context) error { return nil }
func (c *canalFalso) Encerrar()                         {}
func (c *canalFalso) Enviar(ctx context.Context, contato string, msg canal.Mensagem) error {
	c.mensagens = append(c.mensagens, msg)
	return nil
}

func (c *canalFalso) ultima() canal.Mensagem {
	if len(c.mensagens) == 0 {
		return canal.Mensagem{}
	}
	return c.mensagens[len(c.mensagens)-1]
}

type cadastrosStub struct {
	itens []repo.Cadastro
}

func (s *cadastrosStub) BuscarPorContato(ctx context.Context, contatoID string) (repo.Cadastro, error) {
	for _, c := range s.itens {
		if c.ContatoID == contatoID {
			return c, nil
		}
	}
	return repo.Cadastro{}, repo.ErrNaoEncontrado
}

func (s *cadastrosStub) BuscarPorCPF(ctx context.Context, cpf string) (repo.Cadastro, error) {
	for _, c := range s.itens {
		if c.CPF == cpf {
			return c, nil
		}
	}
	return repo.Cadastro{}, repo.ErrNaoEncontrado
}

func (s *cadastrosStub) Inserir(ctx context.Context, c repo.Cadastro) error {
	s.itens = append(s.itens, c)
	return nil
}

func (s *cadastrosStub) AtualizarPapel(ctx context.Context, cpf, papel string) error {
	for i := range s.itens {
		if s.itens[i].CPF == cpf {
			s.itens[i].Papel = papel
			return nil
		}
	}
	return repo.ErrNaoEncontrado
}

type pesquisasStub struct {
	itens []repo.Pesquisa
}

func (s *pesquisasStub) ListarTodas(ctx context.Context) ([]repo.Pesquisa, error) {
	return append([]repo.Pesquisa(nil), s.itens...), nil
}

func (s *pesquisasStub) ListarPendentes(ctx context.Context, cpf string) ([]repo.Pesquisa, error) {
	return repo.FiltrarPendentes(s.itens, cpf), nil
}

func (s *pesquisasStub) InserirLote(ctx context.Context, lote []repo.Pesquisa) error {
	for _, p := range lote {
		p.ID = strconv.Itoa(len(s.itens) + 1)
		s.itens = append(s.itens, p)
	}
	return nil
}

func (s *pesquisasStub) RegistrarResposta(ctx context.Context, id string, nota int, dataResposta string) error {
	for i := range s.itens {
		if s.itens[i].ID == id {
			s.itens[i].PesquisaEnviada = true
			s.itens[i].Nota = &nota
			s.itens[i].DataResposta = dataResposta
			return nil
		}
	}
	return repo.ErrNaoEncontrado
}

func (s *pesquisasStub) TemMarcadorAdmin(ctx context.Context, cpf string) (bool, error) {
	for _, p := range s.itens {
		if p.CPF == cpf && p.Sentinela() {
			return true, nil
		}
	}
	return false, nil
}

type blacklistStub struct {
	itens []repo.EntradaBlacklist
}

func (s *blacklistStub) Listar(ctx context.Context) ([]repo.EntradaBlacklist, error) {
	return s.itens, nil
}

func (s *blacklistStub) BuscarPorCPF(ctx context.Context, cpf string) (repo.EntradaBlacklist, error) {
	for _, e := range s.itens {
		if e.CPF == cpf {
			return e, nil
		}
	}
	return repo.EntradaBlacklist{}, repo.ErrNaoEncontrado
}

func (s *blacklistStub) Inserir(ctx context.Context, e repo.EntradaBlacklist) error {
	s.itens = append(s.itens, e)
	return nil
}

func (s *blacklistStub) Remover(ctx context.Context, cpf string) error {
	for i, e := range s.itens {
		if e.CPF == cpf {
			s.itens = append(s.itens[:i], s.itens[i+1:]...)
			return nil
		}
	}
	return repo.ErrNaoEncontrado
}

type credenciaisStub struct {
	itens []repo.Credencial
}

func (s *credenciaisStub) ListarPorEvento(ctx context.Context, nomeEvento string) ([]repo.Credencial, error) {
	var out []repo.Credencial
	for _, c := range s.itens {
		if c.NomeEvento == nomeEvento {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *credenciaisStub) BuscarPorEventoECPF(ctx context.Context, nomeEvento, cpf string) (repo.Credencial, error) {
	for _, c := range s.itens {
		if c.NomeEvento == nomeEvento && c.CPF == cpf {
			return c, nil
		}
	}
	return repo.Credencial{}, repo.ErrNaoEncontrado
}

func (s *credenciaisStub) Inserir(ctx context.Context, c repo.Credencial) error {
	c.ID = strconv.Itoa(len(s.itens) + 1)
	s.itens = append(s.itens, c)
	return nil
}

func (s *credenciaisStub) Remover(ctx context.Context, id string) error {
	for i, c := range s.itens {
		if c.ID == id {
			s.itens = append(s.itens[:i], s.itens[i+1:]...)
			return nil
		}
	}
	return repo.ErrNaoEncontrado
}

type eventosStub struct {
	itens []repo.EventoCatalogo
}

func (s *eventosStub) Listar(ctx context.Context) ([]repo.EventoCatalogo, error) {
	return s.itens, nil
}

type ambiente struct {
	roteador    *Roteador
	canal       *canalFalso
	cadastros   *cadastrosStub
	pesquisas   *pesquisasStub
	blacklist   *blacklistStub
	credenciais *credenciaisStub
	eventos     *eventosStub
	sessoes     *sessao.Gerente
}

func novoAmbiente(t *testing.T) *ambiente {
	t.Helper()
	a := &ambiente{
		canal:       &canalFalso{},
		cadastros:   &cadastrosStub{},
		pesquisas:   &pesquisasStub{},
		blacklist:   &blacklistStub{},
		credenciais: &credenciaisStub{},
		eventos:     &eventosStub{},
		sessoes:     sessao.NewGerente(time.Hour, nil),
	}
	a.roteador = NovoRoteador(Deps{
		Cadastros:   a.cadastros,
		Pesquisas:   a.pesquisas,
		Blacklist:   a.blacklist,
		Credenciais: a.credenciais,
		Eventos:     a.eventos,
		Canal:       a.canal,
		Sessoes:     a.sessoes,
		Log:         zerolog.Nop(),
	})
	return a
}

func (a *ambiente) mensagem(t *testing.T, texto string) {
	t.Helper()
	a.roteador.Processar(context.Background(), canal.Entrada{Contato: contatoTeste, Texto: texto})
}

func (a *ambiente) esperaUltima(t *testing.T, trecho string) {
	t.Helper()
	ultima := a.canal.ultima()
	if !strings.Contains(ultima.Texto, trecho) {
		t.Fatalf("última mensagem deveria conter %q, foi: %q", trecho, ultima.Texto)
	}
}

func freelancerCadastrado() repo.Cadastro {
	return repo.Cadastro{
		CPF:          cpfTeste,
		NomeCompleto: "Maria Souza",
		ContatoID:    contatoTeste,
		Papel:        repo.PapelFreelancer,
	}
}

func TestFluxoPesquisaNotaValida(t *testing.T) {
	a := novoAmbiente(t)
	a.cadastros.itens = []repo.Cadastro{freelancerCadastrado()}
	a.pesquisas.itens = []repo.Pesquisa{
		{ID: "2", CPF: cpfTeste, NomeEvento: "Festival de Verão", NomeLider: "Carlos", DataEvento: "15/08/2026"},
	}

	a.mensagem(t, "oi")
	a.esperaUltima(t, "Festival de Verão")

	a.mensagem(t, "7")
	p := a.pesquisas.itens[0]
	if !p.PesquisaEnviada || p.Nota == nil || *p.Nota != 7 {
		t.Fatalf("resposta não registrada: %+v", p)
	}
	if p.DataResposta == "" {
		t.Fatal("data de resposta deveria ter sido carimbada")
	}
	a.esperaUltima(t, "concluídas")

	if _, ok := a.sessoes.Obter(contatoTeste); ok {
		t.Fatal("sessão deveria ter sido encerrada")
	}
}

func TestNotaInvalidaNaoAvanca(t *testing.T) {
	a := novoAmbiente(t)
	a.cadastros.itens = []repo.Cadastro{freelancerCadastrado()}
	a.pesquisas.itens = []repo.Pesquisa{
		{ID: "2", CPF: cpfTeste, NomeEvento: "Festival de Verão", NomeLider: "Carlos", DataEvento: "15/08/2026"},
	}

	a.mensagem(t, "oi")
	for _, invalida := range []string{"15", "-1", "abc"} {
		a.mensagem(t, invalida)
		a.esperaUltima(t, "0 a 10")
		if a.pesquisas.itens[0].PesquisaEnviada {
			t.Fatalf("entrada %q não deveria ter gravado resposta", invalida)
		}
	}

	sess, ok := a.sessoes.Obter(contatoTeste)
	if !ok || sess.Etapa != EtapaAguardandoNota {
		t.Fatal("sessão deveria continuar aguardando a nota")
	}
}

func TestSentinelaNuncaEntraComoPendente(t *testing.T) {
	a := novoAmbiente(t)
	cadastro := freelancerCadastrado()
	a.cadastros.itens = []repo.Cadastro{cadastro}
	a.pesquisas.itens = []repo.Pesquisa{
		{ID: "2", CPF: cpfTeste, NomeEvento: repo.EventoAdministracao},
	}

	a.mensagem(t, "oi")

	// O marcador vira acesso administrativo, não pesquisa pendente.
	a.esperaUltima(t, "Administrador")
}

func TestEscolhaEntreVariasPendentes(t *testing.T) {
	a := novoAmbiente(t)
	a.cadastros.itens = []repo.Cadastro{freelancerCadastrado()}
	a.pesquisas.itens = []repo.Pesquisa{
		{ID: "2", CPF: cpfTeste, NomeEvento: "Festival de Verão", NomeLider: "Carlos", DataEvento: "15/08/2026"},
		{ID: "3", CPF: cpfTeste, NomeEvento: "Congresso Tech", NomeLider: "Ana", DataEvento: "20/08/2026"},
	}

	a.mensagem(t, "oi")
	a.esperaUltima(t, "mais de uma pesquisa")

	a.mensagem(t, "5")
	a.esperaUltima(t, "entre 1 e 2")

	a.mensagem(t, "2")
	a.esperaUltima(t, "Congresso Tech")

	a.mensagem(t, "10")
	if a.pesquisas.itens[1].Nota == nil || *a.pesquisas.itens[1].Nota != 10 {
		t.Fatalf("nota deveria ter ido para a segunda pesquisa: %+v", a.pesquisas.itens)
	}
	a.esperaUltima(t, "1")
}

func TestCadastroCompleto(t *testing.T) {
	a := novoAmbiente(t)

	a.mensagem(t, "olá")
	a.esperaUltima(t, "CPF")

	a.mensagem(t, "123")
	a.esperaUltima(t, "CPF inválido")

	a.mensagem(t, "11144477735")
	a.esperaUltima(t, cpfTeste)

	a.mensagem(t, "sim")
	a.esperaUltima(t, "Nome Completo")

	a.mensagem(t, "João da Silva")
	a.esperaUltima(t, "telefone")

	a.mensagem(t, "(11) 98888-7777")
	if len(a.cadastros.itens) != 1 {
		t.Fatalf("cadastro não inserido: %+v", a.cadastros.itens)
	}
	c := a.cadastros.itens[0]
	if c.CPF != cpfTeste || c.NomeCompleto != "João da Silva" || c.Telefone != "11988887777" {
		t.Fatalf("cadastro inesperado: %+v", c)
	}
	if c.Papel != repo.PapelFreelancer {
		t.Fatalf("papel inicial deveria ser FREELANCER: %+v", c)
	}

	// Sem pendências, a conversa termina sem repetir a saudação.
	ultima := a.canal.ultima().Texto
	if strings.Contains(ultima, "Olá!") {
		t.Fatalf("saudação não deveria reaparecer após o cadastro: %q", ultima)
	}
	a.esperaUltima(t, "não há pesquisas pendentes")
}

func TestConfirmacaoCPFNegadaRecomeca(t *testing.T) {
	a := novoAmbiente(t)

	a.mensagem(t, "oi")
	a.mensagem(t, "11144477735")
	a.mensagem(t, "não")
	a.esperaUltima(t, "digite seu CPF novamente")

	sess, ok := a.sessoes.Obter(contatoTeste)
	if !ok || sess.Etapa != EtapaAguardandoCPF {
		t.Fatal("sessão deveria voltar para a coleta do CPF")
	}
	if sess.Dados.CPF != "" {
		t.Fatal("CPF rejeitado deveria ter sido descartado")
	}
}

func TestCancelarEncerraSessao(t *testing.T) {
	a := novoAmbiente(t)

	a.mensagem(t, "oi")
	if _, ok := a.sessoes.Obter(contatoTeste); !ok {
		t.Fatal("sessão deveria existir após a primeira mensagem")
	}

	a.mensagem(t, "cancelar")
	a.esperaUltima(t, "cancelada")
	if _, ok := a.sessoes.Obter(contatoTeste); ok {
		t.Fatal("sessão deveria ter sido removida")
	}
}

func TestMenuAdminEhRelatorio(t *testing.T) {
	a := novoAmbiente(t)
	admin := freelancerCadastrado()
	admin.Papel = repo.PapelAdmin
	a.cadastros.itens = []repo.Cadastro{admin}
	nota := 10
	a.pesquisas.itens = []repo.Pesquisa{
		{ID: "2", CPF: cpfTeste2, NomeEvento: "Festival", NomeLider: "Carlos", DataEvento: "15/08/2026", PesquisaEnviada: true, Nota: &nota, DataResposta: "16/08/2026"},
	}

	a.mensagem(t, "oi")
	a.esperaUltima(t, "Administrador")

	a.mensagem(t, "1")
	encontrou := false
	for _, m := range a.canal.mensagens {
		if strings.Contains(m.Texto, "Carlos") && strings.Contains(m.Texto, "10.00") {
			encontrou = true
		}
	}
	if !encontrou {
		t.Fatalf("relatório de líderes não foi enviado: %+v", a.canal.mensagens)
	}
	a.esperaUltima(t, "outro relatório")

	a.mensagem(t, "não")
	a.esperaUltima(t, "ótimo dia")
}

func TestPapelRebaixadoDerrubaSessaoAdministrativa(t *testing.T) {
	a := novoAmbiente(t)
	admin := freelancerCadastrado()
	admin.Papel = repo.PapelAdmin
	a.cadastros.itens = []repo.Cadastro{admin}

	a.mensagem(t, "oi")
	a.esperaUltima(t, "Administrador")

	a.cadastros.itens[0].Papel = repo.PapelFreelancer

	a.mensagem(t, "1")
	// O menu administrativo deixa de valer na mensagem seguinte.
	a.esperaUltima(t, "não há pesquisas pendentes")
}

func TestCadastroDePesquisaEmLote(t *testing.T) {
	a := novoAmbiente(t)
	lider := freelancerCadastrado()
	lider.Papel = repo.PapelLider
	a.cadastros.itens = []repo.Cadastro{lider}

	a.mensagem(t, "oi")
	a.esperaUltima(t, "Líder")

	a.mensagem(t, "2")
	a.esperaUltima(t, "lista de CPFs")

	a.mensagem(t, "sem numeros aqui")
	a.esperaUltima(t, "Nenhum CPF válido")

	a.mensagem(t, "11144477735, 52998224725")
	a.esperaUltima(t, "nome do evento")

	a.mensagem(t, "Festival de Verão")
	a.esperaUltima(t, "líder")

	a.mensagem(t, "Carlos")
	a.esperaUltima(t, "data do evento")

	a.mensagem(t, "31/02/2026")
	a.esperaUltima(t, "Data inválida")

	a.mensagem(t, "15/08/2026")
	if len(a.pesquisas.itens) != 2 {
		t.Fatalf("esperava 2 pesquisas, obteve %d", len(a.pesquisas.itens))
	}
	p := a.pesquisas.itens[0]
	if p.CPF != cpfTeste || p.NomeEvento != "Festival de Verão" || p.NomeLider != "Carlos" || p.DataEvento != "15/08/2026" {
		t.Fatalf("pesquisa inesperada: %+v", p)
	}
	if p.PesquisaEnviada || p.Nota != nil {
		t.Fatalf("pesquisa nova deveria nascer sem resposta: %+v", p)
	}
	a.esperaUltima(t, "2")
}

func TestAlterarPapel(t *testing.T) {
	a := novoAmbiente(t)
	admin := freelancerCadastrado()
	admin.Papel = repo.PapelAdmin
	alvo := repo.Cadastro{CPF: cpfTeste2, NomeCompleto: "Pedro Lima", ContatoID: "outro@s.whatsapp.net", Papel: repo.PapelFreelancer}
	a.cadastros.itens = []repo.Cadastro{admin, alvo}

	a.mensagem(t, "oi")
	a.mensagem(t, "5")
	a.esperaUltima(t, "CPF")

	a.mensagem(t, "52998224725")
	a.esperaUltima(t, "Pedro Lima")

	a.mensagem(t, "2")
	if a.cadastros.itens[1].Papel != repo.PapelLider {
		t.Fatalf("papel não atualizado: %+v", a.cadastros.itens[1])
	}
	a.esperaUltima(t, "LIDER")
}

func TestBlacklistAdicionarERemover(t *testing.T) {
	a := novoAmbiente(t)
	admin := freelancerCadastrado()
	admin.Papel = repo.PapelAdmin
	a.cadastros.itens = []repo.Cadastro{admin}

	a.mensagem(t, "oi")
	a.mensagem(t, "6")
	a.esperaUltima(t, "Blacklist")

	a.mensagem(t, "1")
	a.mensagem(t, "52998224725")
	a.esperaUltima(t, "motivo")

	a.mensagem(t, "Abandonou o posto")
	a.esperaUltima(t, "Confirma")

	a.mensagem(t, "sim")
	if len(a.blacklist.itens) != 1 {
		t.Fatalf("entrada não inserida: %+v", a.blacklist.itens)
	}
	e := a.blacklist.itens[0]
	if e.CPF != cpfTeste2 || e.Motivo != "Abandonou o posto" || e.IncluidoPor != "Maria Souza" {
		t.Fatalf("entrada inesperada: %+v", e)
	}

	a.mensagem(t, "oi")
	a.mensagem(t, "6")
	a.mensagem(t, "2")
	a.mensagem(t, "52998224725")
	if len(a.blacklist.itens) != 0 {
		t.Fatalf("entrada deveria ter sido removida: %+v", a.blacklist.itens)
	}
}

func TestCredenciamentoPulaBarradosENaoCadastrados(t *testing.T) {
	a := novoAmbiente(t)
	coord := freelancerCadastrado()
	coord.Papel = repo.PapelCoordenador
	alvo := repo.Cadastro{CPF: cpfTeste2, NomeCompleto: "Pedro Lima", ContatoID: "outro@s.whatsapp.net", Papel: repo.PapelFreelancer}
	a.cadastros.itens = []repo.Cadastro{coord, alvo}
	a.eventos.itens = []repo.EventoCatalogo{
		{Nome: "Festival de Verão", Data: "15/08/2026", Funcoes: []string{"GARÇOM", "SEGURANÇA"}},
	}
	a.blacklist.itens = []repo.EntradaBlacklist{{CPF: "390.533.447-05", Motivo: "teste"}}

	a.mensagem(t, "oi")
	a.esperaUltima(t, "Coordenador")

	a.mensagem(t, "1")
	a.esperaUltima(t, "Festival de Verão")

	a.mensagem(t, "1")
	a.esperaUltima(t, "lista de CPFs")

	// barrado, não cadastrado e válido, nessa ordem
	a.mensagem(t, "39053344705 16899535009 52998224725")
	a.esperaUltima(t, "Pedro Lima")

	a.mensagem(t, "sim")
	a.esperaUltima(t, "função")

	a.mensagem(t, "2")
	if len(a.credenciais.itens) != 1 {
		t.Fatalf("esperava 1 credencial, obteve %+v", a.credenciais.itens)
	}
	c := a.credenciais.itens[0]
	if c.CPF != cpfTeste2 || c.Funcao != "SEGURANÇA" || c.NomeEvento != "Festival de Verão" {
		t.Fatalf("credencial inesperada: %+v", c)
	}
	if c.CredenciadoPor != "Maria Souza" {
		t.Fatalf("operador não registrado: %+v", c)
	}
	a.esperaUltima(t, "concluído")
}

func TestSubstituicaoPreservaFuncao(t *testing.T) {
	a := novoAmbiente(t)
	coord := freelancerCadastrado()
	coord.Papel = repo.PapelCoordenador
	entra := repo.Cadastro{CPF: cpfTeste2, NomeCompleto: "Pedro Lima", ContatoID: "outro@s.whatsapp.net", Papel: repo.PapelFreelancer}
	a.cadastros.itens = []repo.Cadastro{coord, entra}
	a.eventos.itens = []repo.EventoCatalogo{{Nome: "Festival de Verão", Funcoes: []string{"GARÇOM"}}}
	a.credenciais.itens = []repo.Credencial{
		{ID: "1", NomeEvento: "Festival de Verão", CPF: "390.533.447-05", NomeCompleto: "José Santos", Funcao: "GARÇOM"},
	}

	a.mensagem(t, "oi")
	a.mensagem(t, "2")
	a.esperaUltima(t, "Festival de Verão")

	a.mensagem(t, "1")
	a.esperaUltima(t, "quem sai")

	a.mensagem(t, "39053344705")
	a.esperaUltima(t, "quem entra")

	a.mensagem(t, "52998224725")
	a.esperaUltima(t, "Confirma a substituição")

	a.mensagem(t, "sim")
	if len(a.credenciais.itens) != 1 {
		t.Fatalf("esperava exatamente 1 credencial: %+v", a.credenciais.itens)
	}
	c := a.credenciais.itens[0]
	if c.CPF != cpfTeste2 || c.Funcao != "GARÇOM" {
		t.Fatalf("substituição deveria preservar a função: %+v", c)
	}
	a.esperaUltima(t, "Substituição concluída")
}

func TestExportacaoEnviaDocumento(t *testing.T) {
	a := novoAmbiente(t)
	coord := freelancerCadastrado()
	coord.Papel = repo.PapelCoordenador
	a.cadastros.itens = []repo.Cadastro{coord}
	a.eventos.itens = []repo.EventoCatalogo{{Nome: "Festival de Verão"}}
	a.credenciais.itens = []repo.Credencial{
		{ID: "1", NomeEvento: "Festival de Verão", CPF: cpfTeste2, NomeCompleto: "Pedro Lima", Funcao: "GARÇOM", CriadoEm: time.Now()},
	}

	a.mensagem(t, "oi")
	a.mensagem(t, "3")
	a.mensagem(t, "1")

	var doc *canal.Documento
	for _, m := range a.canal.mensagens {
		if m.Documento != nil {
			doc = m.Documento
		}
	}
	if doc == nil {
		t.Fatal("nenhum documento foi enviado")
	}
	if !strings.HasSuffix(doc.Nome, ".xlsx") {
		t.Fatalf("nome de arquivo inesperado: %q", doc.Nome)
	}
	if len(doc.Conteudo) < 4 || string(doc.Conteudo[:2]) != "PK" {
		t.Fatal("conteúdo não parece um .xlsx")
	}
}

func TestBotaoValeComoTexto(t *testing.T) {
	a := novoAmbiente(t)

	a.mensagem(t, "oi")
	a.mensagem(t, "11144477735")

	a.roteador.Processar(context.Background(), canal.Entrada{
		Contato: contatoTeste,
		Texto:   "Sim",
		BotaoID: "sim",
	})
	a.esperaUltima(t, "Nome Completo")
}
