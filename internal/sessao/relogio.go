package sessao

import "time"

// Relogio abstrai tempo e agendamento para permitir testes com relógio falso.
type Relogio interface {
	Agora() time.Time
	Apos(d time.Duration, f func()) Temporizador
}

// Temporizador é um agendamento pendente que pode ser cancelado.
type Temporizador interface {
	Parar() bool
}

// RelogioPadrao usa o relógio do sistema.
type RelogioPadrao struct{}

func (RelogioPadrao) Agora() time.Time { return time.Now() }

func (RelogioPadrao) Apos(d time.Duration, f func()) Temporizador {
	return temporizadorPadrao{timer: time.AfterFunc(d, f)}
}

type temporizadorPadrao struct {
	timer *time.Timer
}

func (t temporizadorPadrao) Parar() bool { return t.timer.Stop() }
