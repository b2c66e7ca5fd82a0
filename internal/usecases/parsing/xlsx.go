package parsing

import (
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// readXLSXRows lê todas as linhas da primeira planilha com os valores brutos das células
func readXLSXRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, newParseError(0, "planilha xlsx inválida", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, newParseError(0, "planilha xlsx sem abas", nil)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, newParseError(0, "falha ao ler a aba "+sheets[0], err)
	}

	return rows, nil
}

// excelSerialDate converte o número serial de data do Excel
func excelSerialDate(value string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil || serial <= 0 {
		return time.Time{}, false
	}

	date, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}

	return date, true
}
