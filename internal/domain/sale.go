package domain

import "time"

// RawRecord representa uma linha de venda já tipada, antes da agregação mensal
type RawRecord struct {
	Date  time.Time `json:"date"`
	Sales float64   `json:"sales"`
	Item  string    `json:"item,omitempty"` // Vazio quando a entrada não possui coluna de item
}

// HasItem indica se o registro carrega um identificador de item
func (r RawRecord) HasItem() bool {
	return r.Item != ""
}

// SalesFile é o conteúdo bruto obtido da fonte de vendas
type SalesFile struct {
	Name    string
	Format  string // csv ou xlsx
	Content []byte
}

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)
