package afclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/appsflyer-master-sync/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// corpo máximo guardado em APIError
const maxErrorBody = 512

type MasterReportParams struct {
	APIToken  string
	AppID     string
	Groupings string
	KPIs      string
	From      time.Time
	To        time.Time
}

// Values monta os parâmetros de query da Master API
func (p MasterReportParams) Values() url.Values {
	params := url.Values{}
	params.Set("api_token", p.APIToken)
	params.Set("app_id", p.AppID)
	params.Set("groupings", p.Groupings)
	params.Set("kpis", p.KPIs)
	params.Set("from", p.From.Format(time.DateOnly))
	params.Set("to", p.To.Format(time.DateOnly))
	params.Set("format", "json")
	return params
}

// GetMasterReport busca uma página do relatório master e devolve os registros
// brutos, um por elemento do array de topo da resposta.
func (c *AppsFlyerClient) GetMasterReport(ctx context.Context, params MasterReportParams) ([]domain.Record, error) {
	endpoint := c.reportURL + "?" + params.Values().Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<uint(attempt-1))

			logrus.WithFields(logrus.Fields{
				"app_id":  params.AppID,
				"from":    params.From.Format(time.DateOnly),
				"to":      params.To.Format(time.DateOnly),
				"attempt": attempt,
				"wait":    wait.String(),
				"error":   lastErr.Error(),
			}).Warn("appsflyer: repetindo requisição do relatório master")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "appsflyer: limitador de requisições")
		}

		body, err := c.doRequest(ctx, endpoint)
		if err == nil {
			return decodeRecords(body)
		}

		lastErr = err
		if !isRetryable(ctx, err) {
			return nil, err
		}
	}

	return nil, errors.Wrapf(lastErr, "appsflyer: máximo de %d tentativas excedido", c.maxRetries+1)
}

func (c *AppsFlyerClient) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "appsflyer: erro ao criar a requisição")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A URL carrega o api_token; não repassar o erro original com ela
		if urlErr, ok := err.(*url.Error); ok {
			return nil, errors.Wrap(urlErr.Err, "appsflyer: erro ao executar a requisição")
		}
		return nil, errors.Wrap(err, "appsflyer: erro ao executar a requisição")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "appsflyer: erro ao ler a resposta")
	}

	if resp.StatusCode != http.StatusOK {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: snippet}
	}

	return body, nil
}

// decodeRecords extrai todos os elementos do array de topo ($[*]).
// Números são mantidos como json.Number para não perder precisão.
func decodeRecords(body []byte) ([]domain.Record, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var items []any
	if err := decoder.Decode(&items); err != nil {
		return nil, errors.Wrapf(ErrUnexpectedPayload, "esperado array JSON: %v", err)
	}

	records := make([]domain.Record, 0, len(items))
	for i, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			return nil, errors.Wrapf(ErrUnexpectedPayload, "elemento %d não é um objeto", i)
		}
		records = append(records, domain.Record(row))
	}

	return records, nil
}

func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}

	return true
}
