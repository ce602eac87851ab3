package domain

import (
	"errors"
	"math"
	"strconv"
	"time"
)

// ErrLockTimeout indica que o escritor não conseguiu a vaga exclusiva do store a tempo.
var ErrLockTimeout = errors.New("store lock timeout")

// ValidationError: nome ou mensagem vazios depois da sanitização.
//
// Fields lista os campos vazios (nomes em minúsculo), útil para log.
type ValidationError struct {
	Fields []string
}

func (e ValidationError) Error() string { return "Name and message are required" }

// RateLimitError carrega quanto falta para o mesmo IP poder postar de novo.
type RateLimitError struct {
	Remaining time.Duration
}

// Seconds arredonda Remaining para cima (nunca reporta 0 quando ainda bloqueia).
func (e RateLimitError) Seconds() int {
	return int(math.Ceil(e.Remaining.Seconds()))
}

func (e RateLimitError) Error() string {
	return "Rate limit exceeded. Please wait " + strconv.Itoa(e.Seconds()) + " seconds."
}

// MalformedInputError: corpo da requisição não pôde ser interpretado.
type MalformedInputError struct {
	Err error
}

func (e MalformedInputError) Error() string { return "Invalid JSON input" }
func (e MalformedInputError) Unwrap() error { return e.Err }

// MethodNotAllowedError: método (ou override via ?method=) não suportado.
type MethodNotAllowedError struct {
	Method string
}

func (e MethodNotAllowedError) Error() string { return "Method not allowed" }

// StorageError embrulha falhas de leitura, escrita ou troca atômica do documento.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	if e.Err == nil {
		return "storage " + e.Op + " failed"
	}
	return "storage " + e.Op + ": " + e.Err.Error()
}

func (e StorageError) Unwrap() error { return e.Err }
