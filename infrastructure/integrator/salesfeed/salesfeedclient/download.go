package salesfeedclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
)

// maxFileSize limita o tamanho do arquivo lido da fonte; acima dele o download falha
var maxFileSize int64 = 64 << 20

// Download obtém o arquivo de vendas de uma URL http(s) ou de um caminho local
func (c *SalesFeedClient) Download(ctx context.Context, location string) (*domain.SalesFile, error) {
	if location == "" {
		return nil, errors.Wrap(ErrSourceUnavailable, "localização da fonte não configurada")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout(c.config))
		defer cancel()
	}

	var (
		file *domain.SalesFile
		err  error
	)
	if isRemote(location) {
		file, err = c.downloadHTTP(ctx, location)
	} else {
		file, err = readLocal(ctx, location)
	}
	if err != nil {
		return nil, err
	}

	if len(strings.TrimSpace(string(file.Content))) == 0 {
		return nil, errors.Wrapf(ErrEmptySource, "arquivo %s", file.Name)
	}

	if c.config != nil {
		file.Format = c.config.Source.Format
	}

	return file, nil
}

func (c *SalesFeedClient) downloadHTTP(ctx context.Context, location string) (*domain.SalesFile, error) {
	endpoint, err := url.Parse(location)
	if err != nil {
		return nil, errors.Wrapf(ErrSourceUnavailable, "erro ao analisar a URL: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, errors.Wrapf(ErrSourceUnavailable, "erro ao criar a requisição: %v", err)
	}
	req.Header.Set("Accept", "text/csv, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrSourceUnavailable, "erro ao executar a requisição: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrSourceUnavailable, "requisição falhou com status: %s", resp.Status)
	}

	content, err := readLimited(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao ler a resposta de %s", endpoint.Redacted())
	}

	return &domain.SalesFile{
		Name:    path.Base(endpoint.Path),
		Content: content,
	}, nil
}

func readLocal(ctx context.Context, location string) (*domain.SalesFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(ErrSourceUnavailable, err.Error())
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, errors.Wrapf(ErrSourceUnavailable, "erro ao abrir o arquivo: %v", err)
	}
	defer f.Close()

	content, err := readLimited(f)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao ler o arquivo %s", location)
	}

	return &domain.SalesFile{
		Name:    filepath.Base(location),
		Content: content,
	}, nil
}

// readLimited lê até maxFileSize bytes. Um byte a mais indica arquivo grande demais,
// que seria cortado no meio de uma linha.
func readLimited(r io.Reader) ([]byte, error) {
	content, err := io.ReadAll(io.LimitReader(r, maxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(ErrSourceUnavailable, err.Error())
	}
	if int64(len(content)) > maxFileSize {
		return nil, errors.Wrapf(ErrSourceUnavailable, "arquivo excede o limite de %d bytes", maxFileSize)
	}
	return content, nil
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
