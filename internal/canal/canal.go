// Package canal abstrai o transporte de mensagens do WhatsApp. A lógica de
// conversa existe uma vez só; os backends (socket whatsmeow e Cloud API
// oficial) implementam a mesma interface.
package canal

import "context"

// Entrada é o único evento de entrada: mensagem de texto recebida. Respostas
// de botão chegam com o ID preenchido e são tratadas como texto digitado.
type Entrada struct {
	Contato string
	Texto   string
	BotaoID string
}

// TextoEfetivo devolve o que o roteador deve interpretar: o id do botão,
// quando houver, senão o texto digitado.
func (e Entrada) TextoEfetivo() string {
	if e.BotaoID != "" {
		return e.BotaoID
	}
	return e.Texto
}

// Botao é uma opção de resposta rápida.
type Botao struct {
	ID     string
	Rotulo string
}

// Documento é um anexo binário (planilhas exportadas).
type Documento struct {
	Nome     string
	MimeType string
	Conteudo []byte
}

// Mensagem é o payload de saída: texto simples, texto com botões ou documento.
type Mensagem struct {
	Texto     string
	Botoes    []Botao
	Documento *Documento
}

// Texto monta uma mensagem de texto simples.
func Texto(s string) Mensagem { return Mensagem{Texto: s} }

// Receptor recebe cada entrada do transporte.
type Receptor func(Entrada)

// Canal é o contrato comum dos backends de WhatsApp.
type Canal interface {
	// Iniciar conecta o transporte e começa a entregar entradas ao receptor.
	Iniciar(ctx context.Context) error
	// Enviar entrega uma mensagem ao contato (identificador derivado do telefone).
	Enviar(ctx context.Context, contato string, msg Mensagem) error
	// Encerrar derruba a conexão de forma limpa.
	Encerrar()
}
