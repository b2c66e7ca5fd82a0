package pipeline

import "errors"

var (
	ErrNoSnapshot = errors.New("no snapshot available yet")
)
