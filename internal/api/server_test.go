package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-forecast-api/internal/config"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/forecasting"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/parsing"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/pipeline"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/ranking"
	"github.com/vfg2006/sales-forecast-api/pkg/apiErrors"
	"github.com/vfg2006/sales-forecast-api/pkg/metrics"
	"github.com/vfg2006/sales-forecast-api/pkg/random"
	"golang.org/x/crypto/bcrypt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const adminPassword = "s3nh@Forte"

type fakePipeline struct {
	snapshot *domain.Snapshot
	runErr   error
	runs     int
}

func (f *fakePipeline) Run(ctx context.Context) (*domain.Snapshot, error) {
	f.runs++
	if f.runErr != nil {
		return nil, f.runErr
	}
	return f.snapshot, nil
}

func (f *fakePipeline) Latest() *domain.Snapshot {
	return f.snapshot
}

func (f *fakePipeline) Status() pipeline.Status {
	return pipeline.Status{LastRunID: "run0000001"}
}

type fakeScheduler struct {
	accept bool
}

func (f *fakeScheduler) TriggerManualSync() bool {
	return f.accept
}

func (f *fakeScheduler) GetStatus() map[string]any {
	return map[string]any{"sync_enabled": false}
}

func testSnapshot(t *testing.T) *domain.Snapshot {
	t.Helper()

	series := aggregating.GenerateSynthetic(random.Midpoint)
	result, err := forecasting.NewEngine(forecasting.DefaultRegistry(), random.Midpoint).Forecast(series, 6)
	require.NoError(t, err)

	return &domain.Snapshot{
		RunID:         "run0000001",
		Source:        domain.SourceSynthetic,
		Horizon:       result.Horizon,
		MonthlySeries: series,
		Seasonality:   aggregating.Seasonality(series),
		StrategyOrder: result.Order,
		Forecasts:     result.ByStrategy,
		Metrics:       result.Metrics,
		Comparison:    forecasting.BuildComparison(result.Order, result.ByStrategy),
		TopItems:      ranking.FallbackRanking(),
		Summary:       domain.Summary{Baseline: domain.BaselineLastPoint, ForecastGrowth: map[string]float64{}},
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Auth.Secret = "segredo-de-teste"
	cfg.Auth.AdminEmail = "admin@example.com"
	cfg.Auth.AdminPasswordHash = string(hash)
	cfg.RateLimit.PerMinute = 1000
	cfg.RateLimit.Burst = 100
	return cfg
}

func newTestHandler(t *testing.T, cfg *config.Config, p *fakePipeline, s *fakeScheduler) http.Handler {
	t.Helper()

	reg := prometheus.NewRegistry()
	metrics.New(reg).Fallback(metrics.ReasonNoItemField)

	return NewHandler(cfg, p, forecasting.DefaultRegistry(), authenticating.NewService(cfg), s, reg)
}

func do(t *testing.T, h http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()

	rec := do(t, h, http.MethodPost, "/v1/login", `{"email":"admin@example.com","password":"`+adminPassword+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp domain.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	t.Helper()

	var apiErr apiErrors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func TestLeituras_SemSnapshot(t *testing.T) {
	h := newTestHandler(t, testConfig(t), &fakePipeline{}, &fakeScheduler{})

	for _, path := range []string{"/v1/sales/monthly", "/v1/sales/seasonality", "/v1/items/top", "/v1/forecast", "/v1/forecast/comparison"} {
		rec := do(t, h, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Equal(t, apiErrors.ErrNoSnapshot, decodeError(t, rec).Code, path)
	}

	rec := do(t, h, http.MethodGet, "/healthcheck", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestGetMonthlySalesESazonalidade(t *testing.T) {
	snapshot := testSnapshot(t)
	h := newTestHandler(t, testConfig(t), &fakePipeline{snapshot: snapshot}, &fakeScheduler{})

	rec := do(t, h, http.MethodGet, "/v1/sales/monthly", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var monthly struct {
		Source string                `json:"source"`
		Series []domain.MonthlyPoint `json:"series"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &monthly))
	assert.Equal(t, domain.SourceSynthetic, monthly.Source)
	assert.Len(t, monthly.Series, 24)

	rec = do(t, h, http.MethodGet, "/v1/sales/seasonality", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var seasonality struct {
		Seasonality []domain.SeasonalPoint `json:"seasonality"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &seasonality))
	require.Len(t, seasonality.Seasonality, 12)
	assert.Equal(t, "Jan", seasonality.Seasonality[0].Month)
}

func TestGetTopItems(t *testing.T) {
	h := newTestHandler(t, testConfig(t), &fakePipeline{snapshot: testSnapshot(t)}, &fakeScheduler{})

	tests := []struct {
		name   string
		query  string
		status int
		count  int
	}{
		{name: "Sem limite", query: "", status: http.StatusOK, count: 5},
		{name: "Com limite", query: "?limit=2", status: http.StatusOK, count: 2},
		{name: "Limite inválido", query: "?limit=zero", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/v1/items/top"+tt.query, "", "")
			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				return
			}

			var resp struct {
				Items []domain.ItemRanking `json:"items"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Len(t, resp.Items, tt.count)
			assert.Equal(t, "Product A", resp.Items[0].Item)
		})
	}
}

func TestGetForecast(t *testing.T) {
	snapshot := testSnapshot(t)
	h := newTestHandler(t, testConfig(t), &fakePipeline{snapshot: snapshot}, &fakeScheduler{})

	tests := []struct {
		name     string
		query    string
		status   int
		code     string
		strategy string
		horizon  int
	}{
		{name: "Padrões", query: "", status: http.StatusOK, strategy: "linear", horizon: 6},
		{name: "Estratégia e horizonte", query: "?strategy=lstm&horizon=3", status: http.StatusOK, strategy: "lstm", horizon: 3},
		{name: "Horizonte acima do disponível", query: "?horizon=7", status: http.StatusBadRequest, code: apiErrors.ErrInvalidHorizon},
		{name: "Horizonte zero", query: "?horizon=0", status: http.StatusBadRequest, code: apiErrors.ErrInvalidHorizon},
		{name: "Horizonte não numérico", query: "?horizon=seis", status: http.StatusBadRequest, code: apiErrors.ErrInvalidFormat},
		{name: "Estratégia desconhecida", query: "?strategy=arima", status: http.StatusNotFound, code: apiErrors.ErrUnknownStrategy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/v1/forecast"+tt.query, "", "")
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			if tt.code != "" {
				assert.Equal(t, tt.code, decodeError(t, rec).Code)
				return
			}

			var resp struct {
				Strategy string                 `json:"strategy"`
				Horizon  int                    `json:"horizon"`
				Forecast []domain.ForecastPoint `json:"forecast"`
				Metrics  domain.StrategyMetrics `json:"metrics"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.strategy, resp.Strategy)
			assert.Equal(t, tt.horizon, resp.Horizon)
			assert.Len(t, resp.Forecast, tt.horizon)
			assert.Equal(t, snapshot.Metrics[tt.strategy], resp.Metrics)
		})
	}
}

func TestGetComparisonEStrategies(t *testing.T) {
	h := newTestHandler(t, testConfig(t), &fakePipeline{snapshot: testSnapshot(t)}, &fakeScheduler{})

	rec := do(t, h, http.MethodGet, "/v1/forecast/comparison?horizon=4", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var comparison struct {
		Strategies []string               `json:"strategies"`
		Rows       []domain.ComparisonRow `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comparison))
	assert.Equal(t, []string{"linear", "xgboost", "lstm"}, comparison.Strategies)
	require.Len(t, comparison.Rows, 4)
	assert.Equal(t, "Jan 2022", comparison.Rows[0].Month)
	assert.Len(t, comparison.Rows[0].Values, 3)

	rec = do(t, h, http.MethodGet, "/v1/strategies", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var strategies struct {
		Strategies []domain.StrategyInfo `json:"strategies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &strategies))
	require.Len(t, strategies.Strategies, 3)
	assert.Equal(t, "XGBoost", strategies.Strategies[1].Label)
}

func TestLogin(t *testing.T) {
	h := newTestHandler(t, testConfig(t), &fakePipeline{}, &fakeScheduler{})

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{name: "Senha incorreta", body: `{"email":"admin@example.com","password":"errada"}`, status: http.StatusUnauthorized, code: apiErrors.ErrInvalidCredentials},
		{name: "Email inválido", body: `{"email":"admin","password":"x"}`, status: http.StatusBadRequest, code: apiErrors.ErrMissingRequiredData},
		{name: "Corpo inválido", body: `{`, status: http.StatusBadRequest, code: apiErrors.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/login", tt.body, "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}

	assert.NotEmpty(t, login(t, h))
}

func TestRunPipeline(t *testing.T) {
	snapshot := testSnapshot(t)

	tests := []struct {
		name   string
		runErr error
		query  string
		accept bool
		status int
		code   string
	}{
		{name: "Execução síncrona", status: http.StatusOK},
		{name: "Entrada malformada", runErr: &parsing.ParseError{Line: 3, Cause: "estrutura csv inválida", Err: parsing.ErrMalformedInput}, status: http.StatusUnprocessableEntity, code: apiErrors.ErrMalformedInput},
		{name: "Histórico insuficiente", runErr: &forecasting.InsufficientHistoryError{Have: 5, Need: 12}, status: http.StatusUnprocessableEntity, code: apiErrors.ErrInsufficientHistory},
		{name: "Assíncrona aceita", query: "?async=true", accept: true, status: http.StatusAccepted},
		{name: "Assíncrona em andamento", query: "?async=true", accept: false, status: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePipeline{snapshot: snapshot, runErr: tt.runErr}
			h := newTestHandler(t, testConfig(t), p, &fakeScheduler{accept: tt.accept})
			token := login(t, h)

			rec := do(t, h, http.MethodPost, "/v1/pipeline/run"+tt.query, "", token)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			if tt.code != "" {
				assert.Equal(t, tt.code, decodeError(t, rec).Code)
			}
			if tt.status == http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"run_id":"run0000001"`)
				assert.Equal(t, 1, p.runs)
			}
		})
	}
}

func TestRunPipeline_Protecoes(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.PerMinute = 1
	cfg.RateLimit.Burst = 1
	p := &fakePipeline{snapshot: testSnapshot(t)}
	h := newTestHandler(t, cfg, p, &fakeScheduler{})

	rec := do(t, h, http.MethodPost, "/v1/pipeline/run", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/pipeline/run", "", "token.invalido.aqui")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, p.runs)

	token := login(t, h)
	rec = do(t, h, http.MethodPost, "/v1/pipeline/run", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/pipeline/run", "", token)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, apiErrors.ErrTooManyRequests, decodeError(t, rec).Code)
	assert.Equal(t, 1, p.runs)
}

func TestPipelineStatusEMetrics(t *testing.T) {
	h := newTestHandler(t, testConfig(t), &fakePipeline{}, &fakeScheduler{})

	rec := do(t, h, http.MethodGet, "/v1/pipeline/status", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"last_run_id":"run0000001"`)
	assert.Contains(t, rec.Body.String(), `"sync_enabled":false`)

	rec = do(t, h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sales_forecast_pipeline_fallbacks_total{reason="no_item_field"} 1`)
}

func TestCors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.AllowedOrigins = []string{"http://painel.local"}
	h := newTestHandler(t, cfg, &fakePipeline{}, &fakeScheduler{})

	req := httptest.NewRequest(http.MethodOptions, "/v1/sales/monthly", nil)
	req.Header.Set("Origin", "http://painel.local")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://painel.local", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}
