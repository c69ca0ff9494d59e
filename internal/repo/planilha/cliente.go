// Package planilha implementa os repositórios sobre a planilha Google legada.
// Cada operação é uma viagem completa à API (a planilha não tem índice nem
// cache de linhas); os nomes de coluna são o esquema de fato e precisam casar
// com a planilha existente.
package planilha

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Nomes das abas da planilha.
const (
	AbaCadastros  = "Cadastros"
	AbaEventos    = "Eventos"
	AbaBlacklist  = "Blacklist"
	AbaCredencial = "Credenciamento"
	AbaCatalogo   = "Eventos_Cadastrados"
)

// Cliente encapsula o acesso à planilha.
type Cliente struct {
	srv           *sheets.Service
	spreadsheetID string
	abaIDs        map[string]int64
}

// NewCliente autentica com a conta de serviço e resolve os IDs numéricos das abas.
func NewCliente(ctx context.Context, spreadsheetID, arquivoCredenciais string) (*Cliente, error) {
	raw, err := os.ReadFile(arquivoCredenciais)
	if err != nil {
		return nil, fmt.Errorf("credenciais: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("credenciais: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("sheets: %w", err)
	}

	doc, err := srv.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("planilha %s: %w", spreadsheetID, err)
	}

	abaIDs := make(map[string]int64, len(doc.Sheets))
	for _, aba := range doc.Sheets {
		if aba.Properties != nil {
			abaIDs[aba.Properties.Title] = aba.Properties.SheetId
		}
	}

	return &Cliente{srv: srv, spreadsheetID: spreadsheetID, abaIDs: abaIDs}, nil
}

// tabela é o resultado bruto de uma leitura completa de aba.
type tabela struct {
	colunas map[string]int
	// linhas de dados; a linha i corresponde à linha i+2 da planilha
	// (a linha 1 é o cabeçalho).
	linhas [][]string
}

// celula devolve o valor da coluna nomeada, ou vazio se ausente.
func (t tabela) celula(linha []string, coluna string) string {
	idx, ok := t.colunas[coluna]
	if !ok || idx >= len(linha) {
		return ""
	}
	return linha[idx]
}

// lerTabela busca a aba inteira e indexa as colunas pelo cabeçalho.
func (c *Cliente) lerTabela(ctx context.Context, aba string) (tabela, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, aba+"!A1:Z").Context(ctx).Do()
	if err != nil {
		return tabela{}, fmt.Errorf("ler aba %s: %w", aba, err)
	}
	if len(resp.Values) == 0 {
		return tabela{}, fmt.Errorf("aba %s sem cabeçalho", aba)
	}

	t := tabela{colunas: make(map[string]int)}
	for i, v := range resp.Values[0] {
		t.colunas[fmt.Sprint(v)] = i
	}
	for _, bruta := range resp.Values[1:] {
		linha := make([]string, len(bruta))
		for i, v := range bruta {
			linha[i] = fmt.Sprint(v)
		}
		t.linhas = append(t.linhas, linha)
	}
	return t, nil
}

// acrescentarLinhas anexa linhas ao fim da aba.
func (c *Cliente) acrescentarLinhas(ctx context.Context, aba string, linhas [][]any) error {
	vr := &sheets.ValueRange{Values: linhas}
	_, err := c.srv.Spreadsheets.Values.Append(c.spreadsheetID, aba+"!A1", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("acrescentar em %s: %w", aba, err)
	}
	return nil
}

// atualizarCelulas grava valores em células individuais de uma linha.
// linha é 1-based contando o cabeçalho (dados começam em 2).
func (c *Cliente) atualizarCelulas(ctx context.Context, aba string, linha int, valores map[int]any) error {
	for coluna, valor := range valores {
		intervalo := fmt.Sprintf("%s!%s%d", aba, colunaLetra(coluna), linha)
		vr := &sheets.ValueRange{Values: [][]any{{valor}}}
		_, err := c.srv.Spreadsheets.Values.Update(c.spreadsheetID, intervalo, vr).
			ValueInputOption("USER_ENTERED").
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("atualizar %s: %w", intervalo, err)
		}
	}
	return nil
}

// removerLinha apaga uma linha inteira da aba. linha é 1-based contando o cabeçalho.
func (c *Cliente) removerLinha(ctx context.Context, aba string, linha int) error {
	abaID, ok := c.abaIDs[aba]
	if !ok {
		return fmt.Errorf("aba %s não encontrada na planilha", aba)
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    abaID,
					Dimension:  "ROWS",
					StartIndex: int64(linha - 1),
					EndIndex:   int64(linha),
				},
			},
		}},
	}
	_, err := c.srv.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("remover linha %d de %s: %w", linha, aba, err)
	}
	return nil
}

// colunaLetra converte índice 0-based em letra de coluna (A, B, ..., AA, AB).
func colunaLetra(i int) string {
	letra := ""
	for i >= 0 {
		letra = string(rune('A'+i%26)) + letra
		i = i/26 - 1
	}
	return letra
}
