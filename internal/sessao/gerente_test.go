package sessao

import (
	"testing"
	"time"
)

// relogioFalso dispara temporizadores manualmente.
type relogioFalso struct {
	agora     time.Time
	agendados []*temporizadorFalso
}

type temporizadorFalso struct {
	prazo   time.Duration
	f       func()
	parado  bool
	disparo bool
}

func (t *temporizadorFalso) Parar() bool {
	ja := t.parado || t.disparo
	t.parado = true
	return !ja
}

func (r *relogioFalso) Agora() time.Time { return r.agora }

func (r *relogioFalso) Apos(d time.Duration, f func()) Temporizador {
	t := &temporizadorFalso{prazo: d, f: f}
	r.agendados = append(r.agendados, t)
	return t
}

// avancar dispara todos os temporizadores ainda ativos.
func (r *relogioFalso) avancar() {
	pendentes := r.agendados
	r.agendados = nil
	for _, t := range pendentes {
		if !t.parado {
			t.disparo = true
			t.f()
		}
	}
}

func TestExpiracaoEnviaUmAviso(t *testing.T) {
	relogio := &relogioFalso{agora: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	g := NewGerente(5*time.Minute, relogio)

	var avisos []string
	g.AoExpirar = func(contato string) { avisos = append(avisos, contato) }

	g.Definir("5511999990000", &Sessao{Etapa: "aguardandoNota"})
	g.RenovarTimeout("5511999990000")

	relogio.avancar()

	if _, ok := g.Obter("5511999990000"); ok {
		t.Fatal("sessão deveria ter sido removida na expiração")
	}
	if len(avisos) != 1 || avisos[0] != "5511999990000" {
		t.Fatalf("esperava exatamente um aviso, obteve %v", avisos)
	}

	// Um novo avanço não pode gerar segundo aviso.
	relogio.avancar()
	if len(avisos) != 1 {
		t.Fatalf("aviso duplicado: %v", avisos)
	}
}

func TestMensagemAntesDoPrazoCancelaTimeout(t *testing.T) {
	relogio := &relogioFalso{agora: time.Now()}
	g := NewGerente(5*time.Minute, relogio)

	var avisos int
	g.AoExpirar = func(string) { avisos++ }

	g.Definir("contato", &Sessao{Etapa: "aguardandoCPF"})
	g.RenovarTimeout("contato")

	// Nova mensagem chega: o roteador cancela e depois renova.
	g.CancelarTimeout("contato")
	g.RenovarTimeout("contato")

	// Só o temporizador vigente dispara.
	relogio.avancar()
	relogio.avancar()

	if avisos != 1 {
		t.Fatalf("esperava um único aviso do temporizador vigente, obteve %d", avisos)
	}
	if _, ok := g.Obter("contato"); ok {
		t.Fatal("sessão deveria ter expirado pelo temporizador vigente")
	}
}

func TestDisparoAtrasadoIgnorado(t *testing.T) {
	relogio := &relogioFalso{agora: time.Now()}
	g := NewGerente(5*time.Minute, relogio)

	var avisos int
	g.AoExpirar = func(string) { avisos++ }

	g.Definir("contato", &Sessao{Etapa: "aguardandoNota"})
	g.RenovarTimeout("contato")
	antigo := relogio.agendados[0]

	// Mensagem chega e renova; o disparo antigo já estava em voo e executa
	// mesmo assim (Parar tarde demais).
	g.CancelarTimeout("contato")
	g.RenovarTimeout("contato")
	antigo.f()

	if avisos != 0 {
		t.Fatalf("disparo atrasado gerou aviso: %d", avisos)
	}
	if _, ok := g.Obter("contato"); !ok {
		t.Fatal("disparo atrasado removeu a sessão vigente")
	}
}

func TestEncerrarCancelaTimeout(t *testing.T) {
	relogio := &relogioFalso{agora: time.Now()}
	g := NewGerente(time.Minute, relogio)

	var avisos int
	g.AoExpirar = func(string) { avisos++ }

	g.Definir("contato", &Sessao{Etapa: "aguardandoContinuar"})
	g.RenovarTimeout("contato")
	g.Encerrar("contato")

	relogio.avancar()

	if avisos != 0 {
		t.Fatalf("transição terminal não pode gerar aviso de timeout, obteve %d", avisos)
	}
}

func TestUmaSessaoPorContato(t *testing.T) {
	g := NewGerente(time.Minute, &relogioFalso{})

	g.Definir("contato", &Sessao{Etapa: "aguardandoCPF"})
	g.Definir("contato", &Sessao{Etapa: "aguardandoNome"})

	s, ok := g.Obter("contato")
	if !ok || s.Etapa != "aguardandoNome" {
		t.Fatalf("esperava sessão substituída, obteve %+v (ok=%v)", s, ok)
	}
}

func TestTrancarSerializaPorContato(t *testing.T) {
	g := NewGerente(time.Minute, &relogioFalso{})

	destravar := g.Trancar("contato")

	segundo := make(chan struct{})
	go func() {
		d := g.Trancar("contato")
		d()
		close(segundo)
	}()

	select {
	case <-segundo:
		t.Fatal("segunda mensagem não deveria passar antes do destravamento")
	case <-time.After(20 * time.Millisecond):
	}

	destravar()

	select {
	case <-segundo:
	case <-time.After(time.Second):
		t.Fatal("segunda mensagem ficou presa após o destravamento")
	}
}
