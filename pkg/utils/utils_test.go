package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		places   int32
		expected float64
	}{
		{name: "Zero permanece zero", input: 0, places: 2, expected: 0},
		{name: "Metade arredonda para cima", input: 2.5, places: 0, expected: 3},
		{name: "Metade negativa arredonda para longe do zero", input: -3.75, places: 1, expected: -3.8},
		{name: "Duas casas", input: 42.345, places: 2, expected: 42.35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Round(tt.input, tt.places))
		})
	}
}

func TestPercentChange(t *testing.T) {
	change, ok := PercentChange(200, 250)
	assert.True(t, ok)
	assert.InDelta(t, 25.0, change, 1e-9)

	change, ok = PercentChange(0, 250)
	assert.False(t, ok)
	assert.Equal(t, 0.0, change)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{name: "Formato ISO", input: "2020-01-15", expected: time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "Data e hora", input: "2020-03-02 10:30:00", expected: time.Date(2020, 3, 2, 10, 30, 0, 0, time.UTC)},
		{name: "Formato americano", input: "12/31/2021", expected: time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC)},
		{name: "Apenas ano e mês", input: " 2022-07 ", expected: time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Formato inválido", input: "ontem", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(*date), "esperado %s, obtido %s", tt.expected, date)
		})
	}
}

func TestPrettyJson(t *testing.T) {
	out, err := PrettyJson(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"a\": 1\n}", out)

	out, err = PrettyJson([]byte(`{"b":2}`))
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"b\": 2\n}", out)
}

func TestGenerateID(t *testing.T) {
	id, err := GenerateID()
	require.NoError(t, err)
	assert.Len(t, id, 10)
}
