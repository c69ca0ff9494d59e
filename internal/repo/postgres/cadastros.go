package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fabinhoeventos/pesquisabot/internal/repo"
)

// Cadastros implementa repo.Cadastros sobre PostgreSQL.
type Cadastros struct {
	pool *pgxpool.Pool
}

// NewCadastros cria instância do repositório.
func NewCadastros(pool *pgxpool.Pool) *Cadastros {
	return &Cadastros{pool: pool}
}

// BuscarPorContato localiza o cadastro pelo identificador do WhatsApp.
func (r *Cadastros) BuscarPorContato(ctx context.Context, contatoID string) (repo.Cadastro, error) {
	const query = `
        SELECT cpf, nome_completo, telefone, contato_id, papel
        FROM cadastros
        WHERE contato_id = $1
    `

	var c repo.Cadastro
	err := r.pool.QueryRow(ctx, query, contatoID).
		Scan(&c.CPF, &c.NomeCompleto, &c.Telefone, &c.ContatoID, &c.Papel)
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.Cadastro{}, repo.ErrNaoEncontrado
	}
	return c, err
}

// BuscarPorCPF localiza o cadastro pelo CPF canônico.
func (r *Cadastros) BuscarPorCPF(ctx context.Context, cpf string) (repo.Cadastro, error) {
	const query = `
        SELECT cpf, nome_completo, telefone, contato_id, papel
        FROM cadastros
        WHERE cpf = $1
    `

	var c repo.Cadastro
	err := r.pool.QueryRow(ctx, query, cpf).
		Scan(&c.CPF, &c.NomeCompleto, &c.Telefone, &c.ContatoID, &c.Papel)
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.Cadastro{}, repo.ErrNaoEncontrado
	}
	return c, err
}

// Inserir grava um novo cadastro.
func (r *Cadastros) Inserir(ctx context.Context, c repo.Cadastro) error {
	const query = `
        INSERT INTO cadastros (cpf, nome_completo, telefone, contato_id, papel)
        VALUES ($1, $2, $3, $4, $5)
    `

	papel := c.Papel
	if papel == "" {
		papel = repo.PapelFreelancer
	}

	_, err := r.pool.Exec(ctx, query,
		c.CPF,
		strings.TrimSpace(c.NomeCompleto),
		c.Telefone,
		c.ContatoID,
		papel,
	)
	return err
}

// AtualizarPapel troca o papel do cadastro indicado.
func (r *Cadastros) AtualizarPapel(ctx context.Context, cpf, papel string) error {
	const query = `UPDATE cadastros SET papel = $2 WHERE cpf = $1`

	tag, err := r.pool.Exec(ctx, query, cpf, papel)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNaoEncontrado
	}
	return nil
}
