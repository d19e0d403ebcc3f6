package retry

import (
	"context"
	"time"
)

// Backoff calcula o delay exponencial para uma tentativa. A primeira
// retentativa (attempt=1) espera o delay base; cada retentativa seguinte
// dobra o anterior. É uma função pura para facilitar testes.
func Backoff(attempt int, base time.Duration) time.Duration {
	if attempt < 1 {
		return 0
	}
	return base << (attempt - 1)
}

// Do executa fn até maxAttempts vezes, aguardando o backoff exponencial
// entre tentativas. Só retenta quando retryable retorna true para o erro;
// caso contrário retorna o erro imediatamente. Respeita o cancelamento do
// contexto durante a espera.
func Do(ctx context.Context, maxAttempts int, base time.Duration, fn func() error, retryable func(error) bool) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if retryable != nil && !retryable(lastErr) {
			return lastErr
		}

		if attempt == maxAttempts {
			break
		}

		select {
		case <-time.After(Backoff(attempt, base)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}
