package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fabinhoeventos/pesquisabot/internal/repo"
)

// Blacklist implementa repo.Blacklist sobre PostgreSQL.
type Blacklist struct {
	pool *pgxpool.Pool
}

// NewBlacklist cria instância do repositório.
func NewBlacklist(pool *pgxpool.Pool) *Blacklist {
	return &Blacklist{pool: pool}
}

// Listar devolve todas as entradas da blacklist.
func (r *Blacklist) Listar(ctx context.Context) ([]repo.EntradaBlacklist, error) {
	const query = `
        SELECT cpf, nome_completo, data_inclusao, incluido_por, motivo
        FROM blacklist
        ORDER BY criado_em
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entradas []repo.EntradaBlacklist
	for rows.Next() {
		var e repo.EntradaBlacklist
		if err := rows.Scan(&e.CPF, &e.NomeCompleto, &e.DataInclusao, &e.IncluidoPor, &e.Motivo); err != nil {
			return nil, err
		}
		entradas = append(entradas, e)
	}
	return entradas, rows.Err()
}

// BuscarPorCPF localiza a entrada do CPF, se barrado.
func (r *Blacklist) BuscarPorCPF(ctx context.Context, cpf string) (repo.EntradaBlacklist, error) {
	const query = `
        SELECT cpf, nome_completo, data_inclusao, incluido_por, motivo
        FROM blacklist
        WHERE cpf = $1
    `

	var e repo.EntradaBlacklist
	err := r.pool.QueryRow(ctx, query, cpf).
		Scan(&e.CPF, &e.NomeCompleto, &e.DataInclusao, &e.IncluidoPor, &e.Motivo)
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.EntradaBlacklist{}, repo.ErrNaoEncontrado
	}
	return e, err
}

// Inserir grava uma nova entrada.
func (r *Blacklist) Inserir(ctx context.Context, e repo.EntradaBlacklist) error {
	const query = `
        INSERT INTO blacklist (cpf, nome_completo, data_inclusao, incluido_por, motivo)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := r.pool.Exec(ctx, query, e.CPF, e.NomeCompleto, e.DataInclusao, e.IncluidoPor, e.Motivo)
	return err
}

// Remover apaga a entrada do CPF.
func (r *Blacklist) Remover(ctx context.Context, cpf string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blacklist WHERE cpf = $1`, cpf)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNaoEncontrado
	}
	return nil
}
