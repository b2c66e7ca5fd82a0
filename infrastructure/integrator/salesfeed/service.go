package salesfeed

import (
	"context"

	"github.com/vfg2006/sales-forecast-api/infrastructure/integrator/salesfeed/salesfeedclient"
	"github.com/vfg2006/sales-forecast-api/internal/config"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_salesfeed.go -package=mocks

type SalesFeedIntegrator interface {
	Fetch(ctx context.Context) (*domain.SalesFile, error)
}

type SalesFeedService struct {
	cfg    *config.Config
	Client salesfeedclient.Client
}

func New(cfg *config.Config, client salesfeedclient.Client) SalesFeedIntegrator {
	return &SalesFeedService{
		cfg:    cfg,
		Client: client,
	}
}

// Fetch baixa o arquivo configurado respeitando o timeout da fonte
func (s *SalesFeedService) Fetch(ctx context.Context) (*domain.SalesFile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Source.FetchTimeout)
	defer cancel()

	return s.Client.Download(ctx, s.cfg.Source.Location)
}
