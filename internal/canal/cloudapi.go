package canal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/rs/zerolog"
)

// CloudAPI implementa Canal sobre a API oficial (Graph API). O recebimento é
// por webhook: o servidor HTTP interpreta o envelope do provedor e repassa as
// entradas via Receber.
type CloudAPI struct {
	http     *http.Client
	baseURL  string
	token    string
	numeroID string
	receptor Receptor
	log      zerolog.Logger
}

// NewCloudAPI configura o cliente da Graph API.
func NewCloudAPI(token, numeroID string, receptor Receptor, log zerolog.Logger) *CloudAPI {
	return &CloudAPI{
		http:     &http.Client{},
		baseURL:  "https://graph.facebook.com/v19.0",
		token:    token,
		numeroID: numeroID,
		receptor: receptor,
		log:      log,
	}
}

// Iniciar não abre conexão própria: a entrega é por webhook.
func (c *CloudAPI) Iniciar(ctx context.Context) error { return nil }

// Encerrar não tem conexão a derrubar.
func (c *CloudAPI) Encerrar() {}

// Receber entrega uma entrada já extraída do webhook ao roteador.
func (c *CloudAPI) Receber(entrada Entrada) {
	c.receptor(entrada)
}

// Enviar entrega texto, botões ou documento via Graph API.
func (c *CloudAPI) Enviar(ctx context.Context, contato string, msg Mensagem) error {
	corpo := map[string]any{
		"messaging_product": "whatsapp",
		"to":                contato,
	}

	switch {
	case msg.Documento != nil:
		mediaID, err := c.subirMedia(ctx, msg.Documento)
		if err != nil {
			return err
		}
		corpo["type"] = "document"
		corpo["document"] = map[string]any{"id": mediaID, "filename": msg.Documento.Nome}

	case len(msg.Botoes) > 0:
		botoes := make([]map[string]any, 0, len(msg.Botoes))
		for _, b := range msg.Botoes {
			botoes = append(botoes, map[string]any{
				"type":  "reply",
				"reply": map[string]string{"id": b.ID, "title": b.Rotulo},
			})
		}
		corpo["type"] = "interactive"
		corpo["interactive"] = map[string]any{
			"type":   "button",
			"body":   map[string]string{"text": msg.Texto},
			"action": map[string]any{"buttons": botoes},
		}

	default:
		corpo["type"] = "text"
		corpo["text"] = map[string]string{"body": msg.Texto}
	}

	return c.postJSON(ctx, fmt.Sprintf("%s/%s/messages", c.baseURL, c.numeroID), corpo)
}

func (c *CloudAPI) postJSON(ctx context.Context, url string, corpo any) error {
	raw, err := json.Marshal(corpo)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("graph api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detalhe, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("graph api respondeu %d: %s", resp.StatusCode, detalhe)
	}
	return nil
}

// subirMedia envia o binário e devolve o media id para anexar na mensagem.
func (c *CloudAPI) subirMedia(ctx context.Context, doc *Documento) (string, error) {
	var buffer bytes.Buffer
	escritor := multipart.NewWriter(&buffer)

	if err := escritor.WriteField("messaging_product", "whatsapp"); err != nil {
		return "", err
	}
	if err := escritor.WriteField("type", doc.MimeType); err != nil {
		return "", err
	}
	parte, err := escritor.CreateFormFile("file", doc.Nome)
	if err != nil {
		return "", err
	}
	if _, err := parte.Write(doc.Conteudo); err != nil {
		return "", err
	}
	if err := escritor.Close(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/media", c.baseURL, c.numeroID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buffer)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", escritor.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload de mídia: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detalhe, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("upload de mídia respondeu %d: %s", resp.StatusCode, detalhe)
	}

	var saida struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&saida); err != nil {
		return "", fmt.Errorf("resposta do upload: %w", err)
	}
	return saida.ID, nil
}

// envelopeWebhook espelha só o que interessa do payload do provedor.
type envelopeWebhook struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From string `json:"from"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
					Button struct {
						Payload string `json:"payload"`
						Text    string `json:"text"`
					} `json:"button"`
					Interactive struct {
						Type        string `json:"type"`
						ButtonReply struct {
							ID    string `json:"id"`
							Title string `json:"title"`
						} `json:"button_reply"`
					} `json:"interactive"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// ParseWebhook extrai as entradas de um envelope do webhook da Cloud API.
// Mensagens sem texto nem botão são ignoradas.
func ParseWebhook(corpo []byte) ([]Entrada, error) {
	var envelope envelopeWebhook
	if err := json.Unmarshal(corpo, &envelope); err != nil {
		return nil, fmt.Errorf("envelope do webhook: %w", err)
	}

	var entradas []Entrada
	for _, entry := range envelope.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				entrada := Entrada{Contato: msg.From}
				switch {
				case msg.Interactive.ButtonReply.ID != "":
					entrada.BotaoID = msg.Interactive.ButtonReply.ID
					entrada.Texto = msg.Interactive.ButtonReply.Title
				case msg.Button.Payload != "":
					entrada.BotaoID = msg.Button.Payload
					entrada.Texto = msg.Button.Text
				default:
					entrada.Texto = msg.Text.Body
				}
				if entrada.Texto == "" && entrada.BotaoID == "" {
					continue
				}
				entradas = append(entradas, entrada)
			}
		}
	}
	return entradas, nil
}
