package forecasting

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrInvalidHorizon      = errors.New("horizon must be a positive integer")
	ErrDuplicateStrategy   = errors.New("strategy already registered")
	ErrUnknownStrategy     = errors.New("unknown strategy")
	ErrInvalidStrategy     = errors.New("invalid strategy definition")
	ErrUnknownBaseline     = errors.New("unknown growth baseline")
)

// InsufficientHistoryError indica que a série não cobre o ciclo de referência exigido
type InsufficientHistoryError struct {
	Have int
	Need int
}

// Error implementa a interface error
func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("histórico insuficiente para previsão: %d meses disponíveis, %d necessários", e.Have, e.Need)
}

// Is permite errors.Is(err, ErrInsufficientHistory)
func (e *InsufficientHistoryError) Is(target error) bool {
	return target == ErrInsufficientHistory
}
