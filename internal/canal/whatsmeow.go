package canal

import (
	"context"
	"fmt"
	"os"

	"github.com/mdp/qrterminal/v3"
	"github.com/rs/zerolog"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
	_ "modernc.org/sqlite"
)

// Whatsmeow implementa Canal sobre o protocolo de socket do WhatsApp. A
// sessão (chaves, dispositivo) fica em um SQLite local; a primeira execução
// exige parear via QR Code no terminal.
type Whatsmeow struct {
	cliente  *whatsmeow.Client
	receptor Receptor
	log      zerolog.Logger
}

// NewWhatsmeow abre o armazenamento de sessão e prepara o cliente.
func NewWhatsmeow(ctx context.Context, bancoURI string, receptor Receptor, log zerolog.Logger) (*Whatsmeow, error) {
	container, err := sqlstore.New("sqlite", bancoURI, waLog.Noop)
	if err != nil {
		return nil, fmt.Errorf("sessão whatsapp: %w", err)
	}

	// GetFirstDevice cria um dispositivo novo quando o banco está vazio.
	dispositivo, err := container.GetFirstDevice()
	if err != nil {
		return nil, fmt.Errorf("dispositivo: %w", err)
	}

	c := &Whatsmeow{
		cliente:  whatsmeow.NewClient(dispositivo, waLog.Noop),
		receptor: receptor,
		log:      log,
	}
	c.cliente.AddEventHandler(c.tratarEvento)
	return c, nil
}

// Iniciar conecta e, se necessário, conduz o pareamento por QR Code.
func (c *Whatsmeow) Iniciar(ctx context.Context) error {
	if c.cliente.Store.ID == nil {
		qrChan, err := c.cliente.GetQRChannel(ctx)
		if err != nil {
			return fmt.Errorf("canal qr: %w", err)
		}
		if err := c.cliente.Connect(); err != nil {
			return fmt.Errorf("conectar: %w", err)
		}
		for evt := range qrChan {
			switch evt.Event {
			case "code":
				c.log.Info().Msg("escaneie o QR Code abaixo para parear")
				qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
			case "timeout":
				return fmt.Errorf("qr code expirado antes do pareamento")
			case "success":
				c.log.Info().Msg("pareamento concluído")
			default:
				c.log.Info().Str("evento", evt.Event).Msg("evento de login")
			}
		}
		return nil
	}

	if err := c.cliente.Connect(); err != nil {
		return fmt.Errorf("conectar: %w", err)
	}
	return nil
}

// Encerrar derruba a conexão.
func (c *Whatsmeow) Encerrar() {
	c.cliente.Disconnect()
}

func (c *Whatsmeow) tratarEvento(rawEvt any) {
	evt, ok := rawEvt.(*events.Message)
	if !ok {
		return
	}
	if evt.Info.IsFromMe || evt.Info.IsGroup {
		return
	}

	entrada := Entrada{Contato: evt.Info.Sender.User}

	if texto := evt.Message.GetConversation(); texto != "" {
		entrada.Texto = texto
	} else if estendida := evt.Message.GetExtendedTextMessage(); estendida != nil {
		entrada.Texto = estendida.GetText()
	}
	if resposta := evt.Message.GetButtonsResponseMessage(); resposta != nil {
		entrada.BotaoID = resposta.GetSelectedButtonID()
	}

	if entrada.Texto == "" && entrada.BotaoID == "" {
		return
	}

	c.log.Info().Str("contato", entrada.Contato).Msg("mensagem recebida")
	c.receptor(entrada)
}

// Enviar entrega texto, botões ou documento ao contato.
func (c *Whatsmeow) Enviar(ctx context.Context, contato string, msg Mensagem) error {
	jid := types.NewJID(contato, types.DefaultUserServer)

	var payload *waProto.Message
	switch {
	case msg.Documento != nil:
		enviado, err := c.cliente.Upload(ctx, msg.Documento.Conteudo, whatsmeow.MediaDocument)
		if err != nil {
			return fmt.Errorf("upload de documento: %w", err)
		}
		payload = &waProto.Message{
			DocumentMessage: &waProto.DocumentMessage{
				Title:         proto.String(msg.Documento.Nome),
				FileName:      proto.String(msg.Documento.Nome),
				Mimetype:      proto.String(msg.Documento.MimeType),
				URL:           proto.String(enviado.URL),
				DirectPath:    proto.String(enviado.DirectPath),
				MediaKey:      enviado.MediaKey,
				FileEncSHA256: enviado.FileEncSHA256,
				FileSHA256:    enviado.FileSHA256,
				FileLength:    proto.Uint64(enviado.FileLength),
			},
		}

	case len(msg.Botoes) > 0:
		botoes := make([]*waProto.ButtonsMessage_Button, 0, len(msg.Botoes))
		for _, b := range msg.Botoes {
			botoes = append(botoes, &waProto.ButtonsMessage_Button{
				ButtonID:       proto.String(b.ID),
				ButtonText:     &waProto.ButtonsMessage_Button_ButtonText{DisplayText: proto.String(b.Rotulo)},
				Type:           waProto.ButtonsMessage_Button_RESPONSE.Enum(),
				NativeFlowInfo: &waProto.ButtonsMessage_Button_NativeFlowInfo{},
			})
		}
		payload = &waProto.Message{
			ButtonsMessage: &waProto.ButtonsMessage{
				ContentText: proto.String(msg.Texto),
				HeaderType:  waProto.ButtonsMessage_EMPTY.Enum(),
				Buttons:     botoes,
			},
		}

	default:
		payload = &waProto.Message{Conversation: proto.String(msg.Texto)}
	}

	if _, err := c.cliente.SendMessage(ctx, jid, payload); err != nil {
		return fmt.Errorf("enviar para %s: %w", contato, err)
	}
	return nil
}
