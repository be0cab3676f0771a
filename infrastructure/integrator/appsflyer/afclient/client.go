package afclient

import (
	"context"
	"net/http"
	"time"

	"github.com/vfg2006/appsflyer-master-sync/internal/config"
	"github.com/vfg2006/appsflyer-master-sync/internal/domain"
	"golang.org/x/time/rate"
)

const userAgent = "appsflyer-master-sync/1.0"

type Client interface {
	GetMasterReport(ctx context.Context, params MasterReportParams) ([]domain.Record, error)
}

type AppsFlyerClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	reportURL   string
	maxRetries  int
	backoff     time.Duration
}

type Option func(*AppsFlyerClient)

// WithHTTPClient substitui o cliente HTTP (útil em testes)
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *AppsFlyerClient) {
		c.httpClient = httpClient
	}
}

// WithBackoff altera o intervalo base entre tentativas
func WithBackoff(base time.Duration) Option {
	return func(c *AppsFlyerClient) {
		c.backoff = base
	}
}

// WithRateLimiter substitui o limitador de requisições
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *AppsFlyerClient) {
		c.rateLimiter = limiter
	}
}

func NewClient(cfg *config.Config, opts ...Option) Client {
	timeout := time.Duration(cfg.AppsFlyer.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	limit := rate.Inf
	if cfg.AppsFlyer.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.AppsFlyer.RequestsPerMinute))
	}

	maxRetries := cfg.AppsFlyer.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	client := &AppsFlyerClient{
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: rate.NewLimiter(limit, 1),
		reportURL:   cfg.AppsFlyer.ReportURL(),
		maxRetries:  maxRetries,
		backoff:     time.Second,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}
