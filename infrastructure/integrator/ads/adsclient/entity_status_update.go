package adsclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	adsdomain "github.com/vfg2006/profit-guardian/infrastructure/integrator/ads/domain"
)

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateEntityStatus aplica uma mudança de status (ENABLED/PAUSED) em uma
// entidade da plataforma. O discriminador de idempotência segue no header
// Idempotency-Key para que retentativas da mesma intenção não produzam
// efeito duplicado na plataforma. Falhas retornam PlatformError para que o
// aplicador decida sobre retentativas.
func (c *AdsClient) UpdateEntityStatus(entityID string, status string, idempotencyKey string) (*adsdomain.StatusAck, error) {
	if err := c.EnsureValidToken(); err != nil {
		return nil, fmt.Errorf("erro ao verificar validade do token: %w", err)
	}

	requestURL := fmt.Sprintf("%s/entities/%s/status?access_token=%s", c.Cfg.Ads.URL, entityID, c.Cfg.Ads.AccessToken)

	payload, err := json.Marshal(updateStatusRequest{Status: status})
	if err != nil {
		return nil, &adsdomain.PlatformError{EntityID: entityID, Err: err}
	}

	req, err := http.NewRequest("POST", requestURL, bytes.NewReader(payload))
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return nil, &adsdomain.PlatformError{EntityID: entityID, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição")
		return nil, &adsdomain.PlatformError{EntityID: entityID, Err: err}
	}
	defer resp.Body.Close()

	body, err := c.HandleResponse(resp)
	if err != nil {
		return nil, &adsdomain.PlatformError{EntityID: entityID, StatusCode: resp.StatusCode, Err: err}
	}

	var ack adsdomain.StatusAck
	if err := json.Unmarshal(body, &ack); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON")
		return nil, &adsdomain.PlatformError{EntityID: entityID, StatusCode: resp.StatusCode, Err: err}
	}

	if !ack.Success {
		return nil, &adsdomain.PlatformError{
			EntityID:   entityID,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("plataforma recusou a mudança de status para %s", status),
		}
	}

	return &ack, nil
}
