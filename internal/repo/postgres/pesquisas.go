package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fabinhoeventos/pesquisabot/internal/repo"
)

// Pesquisas implementa repo.Pesquisas sobre PostgreSQL.
type Pesquisas struct {
	pool *pgxpool.Pool
}

// NewPesquisas cria instância do repositório.
func NewPesquisas(pool *pgxpool.Pool) *Pesquisas {
	return &Pesquisas{pool: pool}
}

const colunasPesquisa = `id, cpf, nome_evento, nome_lider, data_evento, pesquisa_enviada, nota, data_resposta`

func scanPesquisa(row pgx.Row) (repo.Pesquisa, error) {
	var p repo.Pesquisa
	err := row.Scan(&p.ID, &p.CPF, &p.NomeEvento, &p.NomeLider, &p.DataEvento,
		&p.PesquisaEnviada, &p.Nota, &p.DataResposta)
	return p, err
}

// ListarTodas devolve todas as atribuições, inclusive sentinelas.
func (r *Pesquisas) ListarTodas(ctx context.Context) ([]repo.Pesquisa, error) {
	const query = `SELECT ` + colunasPesquisa + ` FROM pesquisas ORDER BY criado_em`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pesquisas []repo.Pesquisa
	for rows.Next() {
		p, err := scanPesquisa(rows)
		if err != nil {
			return nil, err
		}
		pesquisas = append(pesquisas, p)
	}
	return pesquisas, rows.Err()
}

// ListarPendentes devolve atribuições não respondidas do CPF, sem sentinelas.
func (r *Pesquisas) ListarPendentes(ctx context.Context, cpf string) ([]repo.Pesquisa, error) {
	const query = `
        SELECT ` + colunasPesquisa + `
        FROM pesquisas
        WHERE cpf = $1 AND NOT pesquisa_enviada AND nome_evento <> $2
        ORDER BY criado_em
    `

	rows, err := r.pool.Query(ctx, query, cpf, repo.EventoAdministracao)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pendentes []repo.Pesquisa
	for rows.Next() {
		p, err := scanPesquisa(rows)
		if err != nil {
			return nil, err
		}
		pendentes = append(pendentes, p)
	}
	return pendentes, rows.Err()
}

// InserirLote grava uma atribuição por CPF em um batch único.
func (r *Pesquisas) InserirLote(ctx context.Context, lote []repo.Pesquisa) error {
	const query = `
        INSERT INTO pesquisas (id, cpf, nome_evento, nome_lider, data_evento, pesquisa_enviada)
        VALUES ($1, $2, $3, $4, $5, FALSE)
    `

	batch := &pgx.Batch{}
	for _, p := range lote {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}
		batch.Queue(query, id, p.CPF, p.NomeEvento, p.NomeLider, p.DataEvento)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range lote {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// RegistrarResposta grava nota, data e marca a pesquisa como enviada.
func (r *Pesquisas) RegistrarResposta(ctx context.Context, id string, nota int, dataResposta string) error {
	const query = `
        UPDATE pesquisas
        SET nota = $2, data_resposta = $3, pesquisa_enviada = TRUE
        WHERE id = $1
    `

	tag, err := r.pool.Exec(ctx, query, id, nota, dataResposta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNaoEncontrado
	}
	return nil
}

// TemMarcadorAdmin verifica se o CPF possui linha sentinela de administração.
func (r *Pesquisas) TemMarcadorAdmin(ctx context.Context, cpf string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM pesquisas WHERE cpf = $1 AND nome_evento = $2
        )
    `

	var existe bool
	err := r.pool.QueryRow(ctx, query, cpf, repo.EventoAdministracao).Scan(&existe)
	return existe, err
}
