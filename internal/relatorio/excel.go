package relatorio

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/fabinhoeventos/pesquisabot/internal/repo"
)

// GerarPlanilhaCredenciados monta o .xlsx com os credenciados de um evento,
// pronto para envio como anexo.
func GerarPlanilhaCredenciados(nomeEvento string, credenciais []repo.Credencial) ([]byte, error) {
	arquivo := excelize.NewFile()
	defer arquivo.Close()

	const aba = "Credenciados"
	indice, err := arquivo.NewSheet(aba)
	if err != nil {
		return nil, fmt.Errorf("criar aba: %w", err)
	}
	arquivo.SetActiveSheet(indice)
	if err := arquivo.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("remover aba padrão: %w", err)
	}

	cabecalho := []string{"Evento", "CPF", "Nome Completo", "Função", "Credenciado Por", "Data/Hora", "Observação"}
	for i, titulo := range cabecalho {
		celula, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := arquivo.SetCellValue(aba, celula, titulo); err != nil {
			return nil, err
		}
	}

	for linha, c := range credenciais {
		valores := []any{
			c.NomeEvento, c.CPF, c.NomeCompleto, c.Funcao, c.CredenciadoPor,
			c.CriadoEm.Format("02/01/2006 15:04"), c.Observacao,
		}
		for coluna, valor := range valores {
			celula, err := excelize.CoordinatesToCellName(coluna+1, linha+2)
			if err != nil {
				return nil, err
			}
			if err := arquivo.SetCellValue(aba, celula, valor); err != nil {
				return nil, err
			}
		}
	}

	buffer, err := arquivo.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("gerar planilha de %s: %w", nomeEvento, err)
	}
	return buffer.Bytes(), nil
}
