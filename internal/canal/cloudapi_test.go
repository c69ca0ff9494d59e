package canal

import "testing"

func TestParseWebhookTexto(t *testing.T) {
	corpo := []byte(`{
        "entry": [{
            "changes": [{
                "value": {
                    "messages": [{
                        "from": "5511999990000",
                        "type": "text",
                        "text": {"body": "7"}
                    }]
                }
            }]
        }]
    }`)

	entradas, err := ParseWebhook(corpo)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if len(entradas) != 1 {
		t.Fatalf("esperava 1 entrada, obteve %d", len(entradas))
	}
	if entradas[0].Contato != "5511999990000" || entradas[0].Texto != "7" {
		t.Fatalf("entrada inesperada: %+v", entradas[0])
	}
	if entradas[0].TextoEfetivo() != "7" {
		t.Fatalf("texto efetivo inesperado: %q", entradas[0].TextoEfetivo())
	}
}

func TestParseWebhookBotao(t *testing.T) {
	corpo := []byte(`{
        "entry": [{
            "changes": [{
                "value": {
                    "messages": [{
                        "from": "5511999990000",
                        "type": "interactive",
                        "interactive": {
                            "type": "button_reply",
                            "button_reply": {"id": "sim", "title": "Sim"}
                        }
                    }]
                }
            }]
        }]
    }`)

	entradas, err := ParseWebhook(corpo)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if len(entradas) != 1 {
		t.Fatalf("esperava 1 entrada, obteve %d", len(entradas))
	}
	// Resposta de botão vale como texto digitado.
	if entradas[0].TextoEfetivo() != "sim" {
		t.Fatalf("id do botão deveria prevalecer: %+v", entradas[0])
	}
}

func TestParseWebhookVazio(t *testing.T) {
	entradas, err := ParseWebhook([]byte(`{"entry":[{"changes":[{"value":{"statuses":[{}]}}]}]}`))
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if len(entradas) != 0 {
		t.Fatalf("status de entrega não é mensagem: %+v", entradas)
	}
}

func TestParseWebhookInvalido(t *testing.T) {
	if _, err := ParseWebhook([]byte(`nao-e-json`)); err == nil {
		t.Fatal("esperava erro para envelope inválido")
	}
}
