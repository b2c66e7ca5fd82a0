// Package parsing converte a entrada tabular de vendas em registros tipados
package parsing

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/pkg/utils"
)

var (
	dateColumns  = []string{"date", "data", "month"}
	salesColumns = []string{"sales", "amount", "valor"}
	itemColumns  = []string{"item", "product", "produto"}
)

type Options struct {
	Format    string // csv ou xlsx
	Delimiter rune   // Apenas para csv; zero = vírgula
}

type columns struct {
	date  int
	sales int
	item  int // -1 quando ausente
}

// ParseFile interpreta um arquivo obtido da fonte, inferindo o formato pelo nome quando necessário
func ParseFile(file *domain.SalesFile, delimiter rune) ([]domain.RawRecord, error) {
	format := file.Format
	if format == "" {
		format = FormatFromName(file.Name)
	}

	return Parse(bytes.NewReader(file.Content), Options{Format: format, Delimiter: delimiter})
}

// FormatFromName infere o formato pela extensão; csv é o padrão
func FormatFromName(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return domain.FormatXLSX
	}
	return domain.FormatCSV
}

// Parse lê a entrada com cabeçalho e retorna os registros válidos na ordem original.
// Linhas sem data ou venda utilizável são descartadas silenciosamente.
func Parse(r io.Reader, opts Options) ([]domain.RawRecord, error) {
	switch opts.Format {
	case "", domain.FormatCSV:
		return parseCSV(r, opts.Delimiter)
	case domain.FormatXLSX:
		rows, err := readXLSXRows(r)
		if err != nil {
			return nil, err
		}
		return typeRows(rows, true)
	default:
		return nil, newParseError(0, "formato "+opts.Format, ErrUnknownFormat)
	}
}

func parseCSV(r io.Reader, delimiter rune) ([]domain.RawRecord, error) {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.TrimLeadingSpace = true
	// Linhas curtas ou longas são aceitas; typeRow descarta as que não têm data ou venda
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			return nil, newParseError(csvErr.Line, "estrutura csv inválida", csvErr.Err)
		}
		return nil, newParseError(0, "falha na leitura", err)
	}

	return typeRows(rows, false)
}

func typeRows(rows [][]string, allowSerialDates bool) ([]domain.RawRecord, error) {
	if len(rows) == 0 {
		return nil, newParseError(0, "entrada sem cabeçalho", nil)
	}

	cols, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]domain.RawRecord, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		record, ok := typeRow(row, cols, allowSerialDates)
		if !ok {
			skipped++
			continue
		}
		records = append(records, record)
	}

	if skipped > 0 {
		logrus.WithFields(logrus.Fields{
			"skipped": skipped,
			"parsed":  len(records),
		}).Debug("parsing: linhas sem data ou venda válidas foram descartadas")
	}

	return records, nil
}

func resolveColumns(header []string) (columns, error) {
	cols := columns{date: -1, sales: -1, item: -1}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch {
		case cols.date < 0 && slices.Contains(dateColumns, name):
			cols.date = i
		case cols.sales < 0 && slices.Contains(salesColumns, name):
			cols.sales = i
		case cols.item < 0 && slices.Contains(itemColumns, name):
			cols.item = i
		}
	}

	if cols.date < 0 {
		return cols, newParseError(1, "coluna de data ausente no cabeçalho", nil)
	}
	if cols.sales < 0 {
		return cols, newParseError(1, "coluna de vendas ausente no cabeçalho", nil)
	}

	return cols, nil
}

func typeRow(row []string, cols columns, allowSerialDates bool) (domain.RawRecord, bool) {
	date, ok := parseDate(cell(row, cols.date), allowSerialDates)
	if !ok {
		return domain.RawRecord{}, false
	}

	sales, err := strconv.ParseFloat(cell(row, cols.sales), 64)
	if err != nil || math.IsNaN(sales) || math.IsInf(sales, 0) {
		return domain.RawRecord{}, false
	}

	return domain.RawRecord{
		Date:  date,
		Sales: sales,
		Item:  cell(row, cols.item),
	}, true
}

func parseDate(value string, allowSerial bool) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	date, err := utils.ParseDate(value)
	if err == nil {
		return *date, true
	}

	if allowSerial {
		return excelSerialDate(value)
	}

	return time.Time{}, false
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
