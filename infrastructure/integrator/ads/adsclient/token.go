package adsclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// TokenResponse representa a resposta da API ao trocar um refresh token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ExchangeRefreshToken troca o refresh token por um novo token de acesso
func ExchangeRefreshToken(refreshToken, clientID, clientSecret, baseURL, version string) (*TokenResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token não pode ser vazio")
	}

	endpoint := fmt.Sprintf("%s/%s/oauth/token", baseURL, version)

	params := url.Values{}
	params.Add("grant_type", "refresh_token")
	params.Add("client_id", clientID)
	params.Add("client_secret", clientSecret)
	params.Add("refresh_token", refreshToken)

	requestURL := endpoint + "?" + params.Encode()

	// Usar um cliente HTTP com timeout adequado
	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Post(requestURL, "application/x-www-form-urlencoded", nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter token de acesso: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logrus.Errorf("Erro obtendo token de acesso. Status: %d, Resposta: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("erro ao obter token de acesso. Status: %d, Resposta: %s", resp.StatusCode, body)
	}

	var tokenResp TokenResponse
	err = json.Unmarshal(body, &tokenResp)
	if err != nil {
		return nil, fmt.Errorf("erro ao decodificar resposta: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("token retornado pela API é vazio")
	}

	expiresInText := FormatDuration(tokenResp.ExpiresIn)
	logrus.Infof("Token de acesso obtido com sucesso. Expira em %s.", expiresInText)

	return &tokenResp, nil
}

// FormatDuration formata a duração em segundos para um formato legível
func FormatDuration(seconds int64) string {
	duration := time.Duration(seconds) * time.Second
	days := duration / (24 * time.Hour)
	hours := (duration % (24 * time.Hour)) / time.Hour
	minutes := (duration % time.Hour) / time.Minute

	return fmt.Sprintf("%d dias, %d horas e %d minutos", days, hours, minutes)
}

// CalculateTokenExpiration calcula a data de expiração do token com base no tempo de expiração em segundos
func CalculateTokenExpiration(expiresIn int64) time.Time {
	// Subtraímos uma margem para renovar antes da expiração real
	buffer := int64(10 * 60) // 10 minutos em segundos
	safeExpiresIn := expiresIn - buffer

	if safeExpiresIn < 0 {
		safeExpiresIn = expiresIn / 2 // Se for muito curto, usamos metade do tempo
	}

	return time.Now().Add(time.Duration(safeExpiresIn) * time.Second)
}
