package cpf

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrTamanhoInvalido é retornado quando não restam exatamente 11 dígitos.
	ErrTamanhoInvalido = errors.New("cpf deve conter 11 dígitos")
	// ErrDigitosRepetidos é retornado para sequências com todos os dígitos iguais.
	ErrDigitosRepetidos = errors.New("cpf com todos os dígitos repetidos")
	// ErrDigitoVerificador é retornado quando um dos dígitos verificadores não confere.
	ErrDigitoVerificador = errors.New("dígito verificador inválido")
)

var reDigitos = regexp.MustCompile(`\d{11,}`)

// Validar verifica um CPF e devolve o formato canônico XXX.XXX.XXX-XX.
// A validação segue o algoritmo oficial de dois dígitos verificadores.
func Validar(entrada string) (string, error) {
	digitos := somenteDigitos(entrada)
	if len(digitos) != 11 {
		return "", ErrTamanhoInvalido
	}

	repetido := true
	for i := 1; i < 11; i++ {
		if digitos[i] != digitos[0] {
			repetido = false
			break
		}
	}
	if repetido {
		return "", ErrDigitosRepetidos
	}

	if digitoVerificador(digitos, 9) != int(digitos[9]-'0') {
		return "", ErrDigitoVerificador
	}
	if digitoVerificador(digitos, 10) != int(digitos[10]-'0') {
		return "", ErrDigitoVerificador
	}

	return fmt.Sprintf("%s.%s.%s-%s", digitos[0:3], digitos[3:6], digitos[6:9], digitos[9:11]), nil
}

// ExtrairLista localiza sequências de 11+ dígitos em texto livre e devolve
// apenas os CPFs válidos, já no formato canônico. Sequências inválidas são
// descartadas em silêncio.
func ExtrairLista(texto string) []string {
	var validos []string
	for _, bruto := range reDigitos.FindAllString(texto, -1) {
		formatado, err := Validar(bruto)
		if err != nil {
			continue
		}
		validos = append(validos, formatado)
	}
	return validos
}

// digitoVerificador calcula o dígito verificador sobre os primeiros n dígitos,
// com pesos decrescentes de n+1 até 2. Resto 10 ou 11 vira zero.
func digitoVerificador(digitos string, n int) int {
	soma := 0
	for i := 0; i < n; i++ {
		soma += int(digitos[i]-'0') * (n + 1 - i)
	}
	resto := (soma * 10) % 11
	if resto == 10 || resto == 11 {
		resto = 0
	}
	return resto
}

func somenteDigitos(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
