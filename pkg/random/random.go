// Package random define a fonte de aleatoriedade injetada no gerador sintético e no motor de previsão
package random

import (
	"math/rand"
	"time"
)

// Source retorna valores uniformes em [0, 1). Não é seguro para uso concorrente.
type Source interface {
	Float64() float64
}

// New cria uma fonte semeada; seed 0 usa o relógio
func New(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Constant devolve sempre o mesmo valor. Com 0.5 o ruído simétrico é zero.
type Constant float64

func (c Constant) Float64() float64 {
	return float64(c)
}

// Midpoint anula qualquer perturbação uniforme simétrica
const Midpoint = Constant(0.5)
