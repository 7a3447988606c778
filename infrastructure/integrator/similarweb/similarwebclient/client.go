package similarwebclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	similarwebdomain "github.com/vfg2006/lead-enrichment-api/infrastructure/integrator/similarweb/domain"
	"github.com/vfg2006/lead-enrichment-api/internal/config"
	"github.com/vfg2006/lead-enrichment-api/internal/domain"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client interface {
	GetLeadEnrichment(ctx context.Context, req domain.EnrichmentRequest) (*similarwebdomain.LeadEnrichmentResponse, error)
	GetUserCapabilities(ctx context.Context, apiKey string) (*similarwebdomain.UserCapabilities, error)
}

type SimilarwebClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	retryDelay time.Duration
}

// NewClient cria o cliente da API da Similarweb. O limitador é compartilhado
// por todas as chamadas do processo.
func NewClient(cfg *config.Config) Client {
	return &SimilarwebClient{
		httpClient: &http.Client{
			Timeout: cfg.Similarweb.Timeout(),
		},
		baseURL:    strings.TrimSuffix(cfg.Similarweb.URL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(cfg.Similarweb.RequestsPerSecond), 1),
		retryDelay: cfg.Similarweb.RetryDelay(),
	}
}
