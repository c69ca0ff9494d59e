package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fabinhoeventos/pesquisabot/internal/db"
	"github.com/fabinhoeventos/pesquisabot/internal/repo"
)

// Credenciais implementa repo.Credenciais sobre PostgreSQL.
type Credenciais struct {
	pool *pgxpool.Pool
}

// NewCredenciais cria instância do repositório.
func NewCredenciais(pool *pgxpool.Pool) *Credenciais {
	return &Credenciais{pool: pool}
}

const colunasCredencial = `id, nome_evento, cpf, nome_completo, funcao, credenciado_por, criado_em, observacao`

func scanCredencial(row pgx.Row) (repo.Credencial, error) {
	var c repo.Credencial
	err := row.Scan(&c.ID, &c.NomeEvento, &c.CPF, &c.NomeCompleto, &c.Funcao,
		&c.CredenciadoPor, &c.CriadoEm, &c.Observacao)
	return c, err
}

// ListarPorEvento devolve as credenciais do evento.
func (r *Credenciais) ListarPorEvento(ctx context.Context, nomeEvento string) ([]repo.Credencial, error) {
	const query = `
        SELECT ` + colunasCredencial + `
        FROM credenciais
        WHERE nome_evento = $1
        ORDER BY criado_em
    `

	rows, err := r.pool.Query(ctx, query, nomeEvento)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var credenciais []repo.Credencial
	for rows.Next() {
		c, err := scanCredencial(rows)
		if err != nil {
			return nil, err
		}
		credenciais = append(credenciais, c)
	}
	return credenciais, rows.Err()
}

// BuscarPorEventoECPF localiza a credencial de uma pessoa no evento.
func (r *Credenciais) BuscarPorEventoECPF(ctx context.Context, nomeEvento, cpf string) (repo.Credencial, error) {
	const query = `
        SELECT ` + colunasCredencial + `
        FROM credenciais
        WHERE nome_evento = $1 AND cpf = $2
    `

	c, err := scanCredencial(r.pool.QueryRow(ctx, query, nomeEvento, cpf))
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.Credencial{}, repo.ErrNaoEncontrado
	}
	return c, err
}

const inserirCredencialQuery = `
    INSERT INTO credenciais (id, nome_evento, cpf, nome_completo, funcao, credenciado_por, criado_em, observacao)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// Inserir grava uma nova credencial.
func (r *Credenciais) Inserir(ctx context.Context, c repo.Credencial) error {
	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := r.pool.Exec(ctx, inserirCredencialQuery,
		id, c.NomeEvento, c.CPF, c.NomeCompleto, c.Funcao, c.CredenciadoPor, c.CriadoEm, c.Observacao)
	return err
}

// Remover apaga a credencial indicada.
func (r *Credenciais) Remover(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM credenciais WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNaoEncontrado
	}
	return nil
}

// Substituir troca a credencial de saída pela de entrada na mesma transação.
func (r *Credenciais) Substituir(ctx context.Context, saidaID string, entrada repo.Credencial) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM credenciais WHERE id = $1`, saidaID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return repo.ErrNaoEncontrado
		}

		id := entrada.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err = tx.Exec(ctx, inserirCredencialQuery,
			id, entrada.NomeEvento, entrada.CPF, entrada.NomeCompleto, entrada.Funcao,
			entrada.CredenciadoPor, entrada.CriadoEm, entrada.Observacao)
		return err
	})
}

// Eventos implementa repo.Eventos sobre PostgreSQL.
type Eventos struct {
	pool *pgxpool.Pool
}

// NewEventos cria instância do repositório.
func NewEventos(pool *pgxpool.Pool) *Eventos {
	return &Eventos{pool: pool}
}

// Listar devolve o catálogo de eventos com as funções disponíveis.
func (r *Eventos) Listar(ctx context.Context) ([]repo.EventoCatalogo, error) {
	const query = `
        SELECT nome, data, funcoes
        FROM eventos_cadastrados
        ORDER BY criado_em
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var eventos []repo.EventoCatalogo
	for rows.Next() {
		var e repo.EventoCatalogo
		if err := rows.Scan(&e.Nome, &e.Data, &e.Funcoes); err != nil {
			return nil, err
		}
		eventos = append(eventos, e)
	}
	return eventos, rows.Err()
}
