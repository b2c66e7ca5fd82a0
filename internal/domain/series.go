package domain

import "time"

// MonthLabels são os rótulos fixos dos meses, de janeiro a dezembro
var MonthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthLabelLayout é o formato de rótulo dos meses previstos (ex: Jan 2021)
const MonthLabelLayout = "Jan 2006"

// MonthlyPoint representa o total de vendas de um mês do calendário
type MonthlyPoint struct {
	MonthStart time.Time `json:"month_start"` // Primeiro dia do mês, 00:00 UTC
	Sales      float64   `json:"sales"`
}

// SeasonalPoint é a média de vendas de um mês do calendário considerando todos os anos
type SeasonalPoint struct {
	Month        string  `json:"month"`
	AverageSales float64 `json:"average_sales"`
}

// MonthStart retorna o primeiro dia do mês da data informada, em UTC
func MonthStart(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}
