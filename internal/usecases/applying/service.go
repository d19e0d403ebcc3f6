package applying

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	adsdomain "github.com/vfg2006/profit-guardian/infrastructure/integrator/ads/domain"
	"github.com/vfg2006/profit-guardian/infrastructure/integrator/ads/adsclient"
	"github.com/vfg2006/profit-guardian/internal/config"
	"github.com/vfg2006/profit-guardian/internal/domain"
	"github.com/vfg2006/profit-guardian/pkg/retry"
)

// Service aplica na plataforma de anúncios as intenções de mutação do tick.
// PAUSE e RESUME viram chamadas de status; REPACE e NONE nunca tocam a
// plataforma. Escritas falhas são retentadas com backoff antes de serem
// marcadas como FAILED.
type Service interface {
	Apply(ctx context.Context, decision *domain.GuardianDecision, entity *domain.ManagedEntity) error
	ApplyBatch(ctx context.Context, decisions []*domain.GuardianDecision, entities map[string]*domain.ManagedEntity) []*domain.GuardianDecision
}

type ApplierService struct {
	cfg    *config.Config
	client adsclient.Client
}

func NewApplierService(cfg *config.Config, client adsclient.Client) Service {
	return &ApplierService{
		cfg:    cfg,
		client: client,
	}
}

// ApplyBatch aplica cada decisão que exige mutação de plataforma e devolve
// as decisões cuja aplicação falhou depois de esgotadas as retentativas.
// O chamador reverte a transição em memória das decisões falhas antes do
// commit do tick.
func (s *ApplierService) ApplyBatch(ctx context.Context, decisions []*domain.GuardianDecision, entities map[string]*domain.ManagedEntity) []*domain.GuardianDecision {
	var failed []*domain.GuardianDecision

	for _, decision := range decisions {
		entity, ok := entities[decision.EntityID]
		if !ok {
			continue
		}

		if err := s.Apply(ctx, decision, entity); err != nil {
			failed = append(failed, decision)
		}
	}

	return failed
}

// Apply envia a mutação de status de uma decisão à plataforma e registra o
// resultado no próprio registro da decisão.
func (s *ApplierService) Apply(ctx context.Context, decision *domain.GuardianDecision, entity *domain.ManagedEntity) error {
	targetStatus, required := platformStatusFor(decision)
	if !required {
		decision.ApplyStatus = domain.ApplyNotRequired
		return nil
	}

	err := retry.Do(ctx, s.cfg.Guardian.RetryMaxAttempts, s.cfg.Guardian.RetryBackoffBase(), func() error {
		_, updateErr := s.client.UpdateEntityStatus(entity.ExternalID, targetStatus, decision.IdempotencyKey)
		return updateErr
	}, retryableApplyError)

	if err != nil {
		decision.ApplyStatus = domain.ApplyFailed

		logrus.WithFields(logrus.Fields{
			"entity_id":       decision.EntityID,
			"action":          decision.Action,
			"target_status":   targetStatus,
			"idempotency_key": decision.IdempotencyKey,
		}).WithError(err).Error("falha ao aplicar ação na plataforma, transição revertida")

		return err
	}

	decision.ApplyStatus = domain.ApplyApplied

	logrus.WithFields(logrus.Fields{
		"entity_id":     decision.EntityID,
		"action":        decision.Action,
		"reason":        decision.Reason,
		"target_status": targetStatus,
	}).Info("ação aplicada na plataforma")

	return nil
}

// platformStatusFor traduz a ação da decisão para o status da plataforma.
// Apenas PAUSE e RESUME exigem chamada externa.
func platformStatusFor(decision *domain.GuardianDecision) (string, bool) {
	switch decision.Action {
	case domain.ActionPause:
		return adsdomain.StatusPaused, true
	case domain.ActionResume:
		return adsdomain.StatusEnabled, true
	}
	return "", false
}

// retryableApplyError considera retentáveis as falhas de rede e as respostas
// de rate limit ou instabilidade; rejeições definitivas falham direto.
func retryableApplyError(err error) bool {
	var platformErr *adsdomain.PlatformError
	if !errors.As(err, &platformErr) {
		return false
	}

	return platformErr.StatusCode == 0 ||
		platformErr.StatusCode == http.StatusTooManyRequests ||
		platformErr.StatusCode >= http.StatusInternalServerError
}
