package salesfeedclient

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vfg2006/sales-forecast-api/internal/config"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
)

var (
	ErrSourceUnavailable = errors.New("sales source unavailable")
	ErrEmptySource       = errors.New("sales source is empty")
)

type Client interface {
	Download(ctx context.Context, location string) (*domain.SalesFile, error)
}

type SalesFeedClient struct {
	httpClient *http.Client
	config     *config.Config
}

// NewClient cria o cliente da fonte de vendas. O prazo de cada download vem do contexto;
// o timeout do http.Client é só um limite superior.
func NewClient(cfg *config.Config) Client {
	return &SalesFeedClient{
		httpClient: &http.Client{
			Timeout: 2 * defaultTimeout(cfg),
		},
		config: cfg,
	}
}

// NewClientWithHTTP permite injetar o http.Client (usado em testes)
func NewClientWithHTTP(cfg *config.Config, httpClient *http.Client) Client {
	return &SalesFeedClient{
		httpClient: httpClient,
		config:     cfg,
	}
}

func defaultTimeout(cfg *config.Config) time.Duration {
	if cfg == nil || cfg.Source.FetchTimeout <= 0 {
		return 10 * time.Second
	}
	return cfg.Source.FetchTimeout
}
