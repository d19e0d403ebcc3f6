package adsclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	adsdomain "github.com/vfg2006/profit-guardian/infrastructure/integrator/ads/domain"
)

type ResponseEntityMetrics struct {
	Data []adsdomain.EntityMetrics `json:"data"`
}

// GetEntityMetricsByID busca as métricas acumuladas do dia corrente para
// uma entidade na plataforma de anúncios.
func (c *AdsClient) GetEntityMetricsByID(entityID string, since, until time.Time) (*adsdomain.EntityMetrics, error) {
	// Garantir que o token seja válido antes de fazer a requisição
	if err := c.EnsureValidToken(); err != nil {
		return nil, fmt.Errorf("erro ao verificar validade do token: %w", err)
	}

	baseURL := fmt.Sprintf("%s/entities/%s/metrics", c.Cfg.Ads.URL, entityID)

	params := url.Values{}
	params.Add("fields", "entity_id,status,spend,conversions,conversion_value,clicks,impressions")
	params.Add("since", since.Format(time.RFC3339))
	params.Add("until", until.Format(time.RFC3339))
	params.Add("access_token", c.Cfg.Ads.AccessToken)

	requestURL := baseURL + "?" + params.Encode()

	req, err := http.NewRequest("GET", requestURL, nil)
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return nil, &adsdomain.PermanentError{Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição")
		return nil, &adsdomain.TransientError{Err: err}
	}
	defer resp.Body.Close()

	body, err := c.HandleResponse(resp)
	if err != nil {
		return nil, err
	}

	var response ResponseEntityMetrics
	if err := json.Unmarshal(body, &response); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON")
		return nil, &adsdomain.PermanentError{StatusCode: resp.StatusCode, Err: err}
	}

	if len(response.Data) == 0 {
		return nil, &adsdomain.PermanentError{
			StatusCode: http.StatusNotFound,
			Err:        fmt.Errorf("nenhuma métrica encontrada para a entidade %s", entityID),
		}
	}

	return &response.Data[0], nil
}
