package parsing

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

func TestParse_CSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		opts     Options
		validate func(t *testing.T, records []domain.RawRecord)
	}{
		{
			name:  "Entrada com data, venda e item",
			input: "date,store,item,sales\n2020-01-01,1,A,10\n2020-01-02,1,B,12.5\n",
			validate: func(t *testing.T, records []domain.RawRecord) {
				require.Len(t, records, 2)
				assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), records[0].Date)
				assert.Equal(t, 10.0, records[0].Sales)
				assert.Equal(t, "A", records[0].Item)
				assert.Equal(t, 12.5, records[1].Sales)
				assert.Equal(t, "B", records[1].Item)
			},
		},
		{
			name:  "Cabeçalho sem diferenciar maiúsculas e com espaços",
			input: " Date , SALES \n2021-05-10, 300 \n",
			validate: func(t *testing.T, records []domain.RawRecord) {
				require.Len(t, records, 1)
				assert.Equal(t, 300.0, records[0].Sales)
				assert.False(t, records[0].HasItem())
			},
		},
		{
			name:  "Linhas sem data ou venda utilizável são descartadas",
			input: "date,sales\n2020-01-01,10\n,20\nnot-a-date,30\n2020-01-03,\n2020-01-04,abc\n2020-01-05,NaN\n2020-01-06,5\n",
			validate: func(t *testing.T, records []domain.RawRecord) {
				require.Len(t, records, 2)
				assert.Equal(t, 10.0, records[0].Sales)
				assert.Equal(t, 5.0, records[1].Sales)
			},
		},
		{
			name:  "Delimitador configurável",
			input: "data;valor;produto\n2020-02-01;7;X\n",
			opts:  Options{Delimiter: ';'},
			validate: func(t *testing.T, records []domain.RawRecord) {
				require.Len(t, records, 1)
				assert.Equal(t, 7.0, records[0].Sales)
				assert.Equal(t, "X", records[0].Item)
			},
		},
		{
			name:  "Linhas com quantidade de campos diferente do cabeçalho",
			input: "date,sales,item\n2020-01-01,100,A\n2020-02-01,200\n2020-03-01\n2020-04-01,300,B,extra\n",
			validate: func(t *testing.T, records []domain.RawRecord) {
				require.Len(t, records, 3)
				assert.Equal(t, 100.0, records[0].Sales)
				assert.Equal(t, "A", records[0].Item)
				assert.Equal(t, 200.0, records[1].Sales)
				assert.False(t, records[1].HasItem())
				assert.Equal(t, 300.0, records[2].Sales)
				assert.Equal(t, "B", records[2].Item)
			},
		},
		{
			name:  "Apenas cabeçalho retorna lista vazia",
			input: "date,sales\n",
			validate: func(t *testing.T, records []domain.RawRecord) {
				assert.Empty(t, records)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Parse(strings.NewReader(tt.input), tt.opts)
			require.NoError(t, err)
			tt.validate(t, records)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		line  int
	}{
		{name: "Entrada vazia", input: "", line: 0},
		{name: "Sem coluna de data", input: "day,sales\n1,2\n", line: 1},
		{name: "Sem coluna de vendas", input: "date,qty\n2020-01-01,2\n", line: 1},
		{name: "Aspas soltas em campo sem aspas", input: "date,sales\n2020-01-01,1\"0\n", line: 2},
		{name: "Formato desconhecido", input: "date,sales\n", opts: Options{Format: "json"}, line: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), tt.opts)
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.line, parseErr.Line)
			assert.True(t, errors.Is(err, ErrMalformedInput))
			assert.NotEmpty(t, parseErr.Error())
		})
	}
}

func TestParse_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"date", "sales", "item"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"2020-01-15", 100, "A"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{43876, 50.5, "B"})) // 15/02/2020 como serial
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{"", 10, "C"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	records, err := ParseFile(&domain.SalesFile{Name: "vendas.xlsx", Content: buf.Bytes()}, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, 100.0, records[0].Sales)
	assert.Equal(t, time.February, records[1].Date.Month())
	assert.Equal(t, 15, records[1].Date.Day())
	assert.Equal(t, 50.5, records[1].Sales)
	assert.Equal(t, "B", records[1].Item)
}

func TestParse_XLSXInvalido(t *testing.T) {
	_, err := ParseFile(&domain.SalesFile{Name: "vendas.xlsx", Content: []byte("not a zip")}, 0)
	assert.True(t, errors.Is(err, ErrMalformedInput))
}

func TestFormatFromName(t *testing.T) {
	assert.Equal(t, domain.FormatXLSX, FormatFromName("dados/Vendas.XLSX"))
	assert.Equal(t, domain.FormatCSV, FormatFromName("train.csv"))
	assert.Equal(t, domain.FormatCSV, FormatFromName("https://example.com/export"))
}
