package repo

import "errors"

var (
	// ErrNaoEncontrado é retornado quando nenhum registro é encontrado.
	ErrNaoEncontrado = errors.New("registro não encontrado")
)
