package adsclient

import (
	"net/http"
	"time"

	"github.com/vfg2006/profit-guardian/internal/config"

	adsdomain "github.com/vfg2006/profit-guardian/infrastructure/integrator/ads/domain"
)

type Client interface {
	GetEntityMetricsByID(entityID string, since, until time.Time) (*adsdomain.EntityMetrics, error)
	UpdateEntityStatus(entityID string, status string, idempotencyKey string) (*adsdomain.StatusAck, error)
	RefreshToken() error
	EnsureValidToken() error
	HandleResponse(resp *http.Response) ([]byte, error)
}

type AdsClient struct {
	Cfg          *config.Config
	TokenManager *TokenManager
	httpClient   *http.Client
}

func NewClient(cfg *config.Config, tokenManager *TokenManager) Client {
	client := &AdsClient{
		Cfg:          cfg,
		TokenManager: tokenManager,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	return client
}

// RefreshToken obtém um novo token de acesso
func (c *AdsClient) RefreshToken() error {
	return c.TokenManager.RefreshToken()
}

// EnsureValidToken verifica se o token atual é válido e tenta renová-lo se necessário
func (c *AdsClient) EnsureValidToken() error {
	return c.TokenManager.EnsureValidToken()
}

// HandleResponse manipula a resposta HTTP e verifica erros de token expirado
func (c *AdsClient) HandleResponse(resp *http.Response) ([]byte, error) {
	return c.TokenManager.HandleResponse(resp)
}
