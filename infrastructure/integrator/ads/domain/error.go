package adsdomain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse representa a estrutura de erro da API da plataforma
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails contém os detalhes de erro da API da plataforma
type ErrorDetails struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
	TraceID string `json:"trace_id,omitempty"`
}

// IsTokenExpired verifica se o erro é de token expirado
func (e *ErrorResponse) IsTokenExpired() bool {
	return e.Error.Code == 190 || e.Error.Type == "OAuthException"
}

// TransientError indica uma falha de leitura que vale a pena retentar:
// timeouts, erros de rede, rate limit ou instabilidade da plataforma.
type TransientError struct {
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("erro transitório da plataforma (status %d): %v", e.StatusCode, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError indica uma falha de leitura que não deve ser retentada:
// entidade inexistente, credencial revogada ou requisição malformada.
type PermanentError struct {
	StatusCode int
	Err        error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("erro permanente da plataforma (status %d): %v", e.StatusCode, e.Err)
}

func (e *PermanentError) Unwrap() error { return e.Err }

// PlatformError indica uma falha ao aplicar uma mudança de status.
// A escrita é retentada com backoff antes de ser marcada como falha.
type PlatformError struct {
	EntityID   string
	StatusCode int
	Err        error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("erro ao aplicar ação na entidade %s (status %d): %v", e.EntityID, e.StatusCode, e.Err)
}

func (e *PlatformError) Unwrap() error { return e.Err }

// IsTransient informa se o erro de leitura permite retentativa
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// IsPermanent informa se o erro de leitura é definitivo
func IsPermanent(err error) bool {
	var permanent *PermanentError
	return errors.As(err, &permanent)
}

// ClassifyFetchError classifica uma resposta de leitura da API pelo status
// HTTP: 429 e 5xx são transitórios, o restante é permanente.
func ClassifyFetchError(statusCode int, err error) error {
	if statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError {
		return &TransientError{StatusCode: statusCode, Err: err}
	}
	return &PermanentError{StatusCode: statusCode, Err: err}
}
