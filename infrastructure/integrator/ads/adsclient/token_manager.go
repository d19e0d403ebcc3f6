package adsclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	adsdomain "github.com/vfg2006/profit-guardian/infrastructure/integrator/ads/domain"
	"github.com/vfg2006/profit-guardian/internal/config"

	"github.com/sirupsen/logrus"
)

// TokenManager gerencia tokens de acesso da API da plataforma de anúncios
type TokenManager struct {
	cfg               *config.Config
	TokenRefreshMutex sync.Mutex
	stopRefresh       chan struct{}
}

// NewTokenManager cria uma nova instância do gerenciador de tokens
func NewTokenManager(cfg *config.Config) *TokenManager {
	return &TokenManager{
		cfg:               cfg,
		TokenRefreshMutex: sync.Mutex{},
		stopRefresh:       make(chan struct{}),
	}
}

func (tm *TokenManager) InitToken() {
	if tm.cfg.Ads.AccessToken == "" {
		logrus.Info("Token de acesso não encontrado. Iniciando processo de obtenção...")
		if err := tm.RefreshToken(); err != nil {
			logrus.Errorf("Falha ao inicializar token de acesso: %v", err)
			logrus.Warn("A API da plataforma pode ter funcionalidade limitada até que o token seja configurado corretamente")
			return
		}

		logrus.Info("Token de acesso inicializado com sucesso")
		return
	}

	// Garantir que o token seja válido, mesmo que já exista um configurado
	if err := tm.EnsureValidToken(); err != nil {
		logrus.Errorf("Erro ao verificar validade do token: %v", err)
	}
}

// StartAutoRefresh inicia uma goroutine que atualiza o token periodicamente
func (tm *TokenManager) StartAutoRefresh() {
	refreshInterval := 50 * time.Minute
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logrus.Info("Iniciando renovação periódica do token da plataforma de anúncios")
			if err := tm.RefreshToken(); err != nil {
				logrus.Errorf("Erro na renovação periódica do token: %v", err)

				// Se falhar, tente novamente em um intervalo mais curto
				ticker.Reset(5 * time.Minute)
			} else {
				logrus.Info("Renovação periódica do token concluída com sucesso")

				// Restaurar para o intervalo normal
				ticker.Reset(refreshInterval)
			}
		case <-tm.stopRefresh:
			logrus.Info("Encerrando goroutine de renovação periódica do token")
			return
		}
	}
}

// StopAutoRefresh para a goroutine de renovação automática
func (tm *TokenManager) StopAutoRefresh() {
	close(tm.stopRefresh)
}

// RefreshToken obtém um novo token de acesso a partir do refresh token
func (tm *TokenManager) RefreshToken() error {
	tm.TokenRefreshMutex.Lock()
	defer tm.TokenRefreshMutex.Unlock()

	logrus.Info("Iniciando renovação do token...")
	tokenResponse, err := ExchangeRefreshToken(
		tm.cfg.Ads.RefreshToken,
		tm.cfg.Ads.ClientID,
		tm.cfg.Ads.ClientSecret,
		tm.cfg.Ads.BaseURL,
		tm.cfg.Ads.Version,
	)
	if err != nil {
		logrus.Errorf("Erro ao renovar token: %v", err)
		return fmt.Errorf("erro ao obter novo token de acesso: %w", err)
	}

	oldToken := tm.cfg.Ads.AccessToken
	tm.cfg.Ads.AccessToken = tokenResponse.AccessToken
	tm.cfg.Ads.TokenExpiresAt = CalculateTokenExpiration(tokenResponse.ExpiresIn)

	if oldToken != tm.cfg.Ads.AccessToken {
		logrus.Infof("Token de acesso atualizado com sucesso. Expira em: %s",
			tm.cfg.Ads.TokenExpiresAt.Format(time.RFC3339))
	} else {
		logrus.Info("Token renovado, mas não mudou. Isso pode indicar um problema na API da plataforma")
	}

	return nil
}

// EnsureValidToken verifica se o token atual é válido e tenta renová-lo se necessário
func (tm *TokenManager) EnsureValidToken() error {
	// Se o token está nulo ou vazio, precisamos inicializá-lo
	if tm.cfg.Ads.AccessToken == "" {
		logrus.Info("Token não inicializado. Inicializando...")
		return tm.RefreshToken()
	}

	// Renovar proativamente quando faltar pouco para a expiração
	if !tm.cfg.Ads.TokenExpiresAt.IsZero() && time.Until(tm.cfg.Ads.TokenExpiresAt) < 5*time.Minute {
		logrus.Info("Token perto de expirar. Renovando proativamente...")
		return tm.RefreshToken()
	}

	return nil
}

// ParseErrorResponse tenta parsear um erro da API da plataforma
func ParseErrorResponse(body []byte) (*adsdomain.ErrorResponse, error) {
	var errorResp adsdomain.ErrorResponse
	err := json.Unmarshal(body, &errorResp)
	if err != nil {
		return nil, err
	}
	return &errorResp, nil
}

// HandleResponse manipula a resposta HTTP e verifica erros de token expirado
func (tm *TokenManager) HandleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &adsdomain.TransientError{StatusCode: resp.StatusCode, Err: fmt.Errorf("erro ao ler resposta: %w", err)}
	}

	// Se a resposta for bem-sucedida, retorna o corpo
	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	// Token expirado é tratado antes da classificação por status
	errorResp, parseErr := ParseErrorResponse(body)
	if parseErr == nil && resp.StatusCode == http.StatusUnauthorized && errorResp.IsTokenExpired() {
		return tm.handleExpiredToken(errorResp)
	}

	return nil, adsdomain.ClassifyFetchError(resp.StatusCode, fmt.Errorf("erro na resposta da API. Status: %d, Corpo: %s", resp.StatusCode, string(body)))
}

// handleExpiredToken trata um token expirado detectado via estrutura de erro
func (tm *TokenManager) handleExpiredToken(errorResp *adsdomain.ErrorResponse) ([]byte, error) {
	logrus.Warnf("Token expirado detectado pela API da plataforma. Código: %d, Tipo: %s",
		errorResp.Error.Code, errorResp.Error.Type)

	// Tenta renovar o token
	if refreshErr := tm.RefreshToken(); refreshErr != nil {
		return nil, &adsdomain.PermanentError{
			StatusCode: http.StatusUnauthorized,
			Err:        fmt.Errorf("erro ao renovar token expirado: %w", refreshErr),
		}
	}

	// O token foi renovado; a chamada deve ser refeita
	return nil, &adsdomain.TransientError{
		StatusCode: http.StatusUnauthorized,
		Err:        fmt.Errorf("token expirado e renovado, por favor tente novamente"),
	}
}
