package parsing

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedInput = errors.New("malformed input")
	ErrUnknownFormat  = errors.New("unknown input format")
)

// ParseError indica que a estrutura da entrada não pôde ser interpretada.
// Interrompe a execução do pipeline e é reportado ao chamador como está.
type ParseError struct {
	Line  int    // Linha da entrada (1 = cabeçalho), 0 quando não se aplica
	Cause string // Motivo legível
	Err   error  // Erro subjacente, quando houver
}

// Error implementa a interface error
func (e *ParseError) Error() string {
	msg := "erro ao interpretar entrada"
	if e.Line > 0 {
		msg = fmt.Sprintf("%s (linha %d)", msg, e.Line)
	}
	msg = fmt.Sprintf("%s: %s", msg, e.Cause)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap retorna o erro subjacente
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is permite errors.Is(err, ErrMalformedInput) para qualquer ParseError
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedInput
}

func newParseError(line int, cause string, err error) *ParseError {
	return &ParseError{Line: line, Cause: cause, Err: err}
}
