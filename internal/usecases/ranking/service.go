package ranking

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/pkg/metrics"
	"github.com/vfg2006/sales-forecast-api/pkg/utils"
)

const (
	DefaultPeriodMonths = 12
	DefaultLimit        = 5
)

type RankingService interface {
	RankItems(records []domain.RawRecord) []domain.ItemRanking
}

// ItemRankingService ordena os itens pelo total vendido
type ItemRankingService struct {
	PeriodMonths int // Tamanho das janelas usadas no crescimento
	Limit        int // 0 = sem limite
	metrics      *metrics.Metrics
}

func NewItemRankingService(periodMonths, limit int, m *metrics.Metrics) RankingService {
	if periodMonths < 1 {
		periodMonths = DefaultPeriodMonths
	}
	if limit < 0 {
		limit = DefaultLimit
	}

	return &ItemRankingService{
		PeriodMonths: periodMonths,
		Limit:        limit,
		metrics:      m,
	}
}

// FallbackRanking é o ranking fixo usado quando a entrada não identifica itens
func FallbackRanking() []domain.ItemRanking {
	return []domain.ItemRanking{
		{Item: "Product A", TotalSales: 125000, GrowthPct: 12.5},
		{Item: "Product B", TotalSales: 98000, GrowthPct: 8.2},
		{Item: "Product C", TotalSales: 76500, GrowthPct: -3.7},
		{Item: "Product D", TotalSales: 65200, GrowthPct: 5.1},
		{Item: "Product E", TotalSales: 42800, GrowthPct: 15.8},
	}
}

type itemTotals struct {
	total   float64
	current float64
	prior   float64
}

func (s *ItemRankingService) RankItems(records []domain.RawRecord) []domain.ItemRanking {
	totals := make(map[string]*itemTotals)
	var latest time.Time

	for _, record := range records {
		if !record.HasItem() {
			continue
		}
		if _, ok := totals[record.Item]; !ok {
			totals[record.Item] = &itemTotals{}
		}
		if record.Date.After(latest) {
			latest = record.Date
		}
	}

	if len(totals) == 0 {
		logrus.Warn("Registros sem identificação de item, usando ranking padrão")
		s.metrics.Fallback(metrics.ReasonNoItemField)
		return s.limit(FallbackRanking())
	}

	// Janela atual: os PeriodMonths meses terminando no mês mais recente.
	// Janela anterior: o mesmo número de meses imediatamente antes.
	currentStart := domain.MonthStart(latest).AddDate(0, -(s.PeriodMonths - 1), 0)
	priorStart := currentStart.AddDate(0, -s.PeriodMonths, 0)

	for _, record := range records {
		item, ok := totals[record.Item]
		if !ok {
			continue
		}

		item.total += record.Sales
		switch month := domain.MonthStart(record.Date); {
		case !month.Before(currentStart):
			item.current += record.Sales
		case !month.Before(priorStart):
			item.prior += record.Sales
		}
	}

	ranking := make([]domain.ItemRanking, 0, len(totals))
	for name, item := range totals {
		growth, ok := utils.PercentChange(item.prior, item.current)
		if !ok {
			growth = 0
		}

		ranking = append(ranking, domain.ItemRanking{
			Item:       name,
			TotalSales: utils.RoundWithTwoDecimalPlace(item.total),
			GrowthPct:  utils.Round(growth, 1),
		})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].TotalSales != ranking[j].TotalSales {
			return ranking[i].TotalSales > ranking[j].TotalSales
		}
		return ranking[i].Item < ranking[j].Item
	})

	return s.limit(ranking)
}

func (s *ItemRankingService) limit(ranking []domain.ItemRanking) []domain.ItemRanking {
	if s.Limit > 0 && len(ranking) > s.Limit {
		return ranking[:s.Limit]
	}
	return ranking
}
