package ads

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	adsdomain "github.com/vfg2006/profit-guardian/infrastructure/integrator/ads/domain"
	"github.com/vfg2006/profit-guardian/infrastructure/integrator/ads/adsclient"
	"github.com/vfg2006/profit-guardian/internal/config"
	"github.com/vfg2006/profit-guardian/internal/domain"
	"github.com/vfg2006/profit-guardian/pkg/retry"
	"github.com/vfg2006/profit-guardian/pkg/utils"
)

// SnapshotResult é o resultado da busca de métricas de uma entidade.
// Quando Err é preenchido o snapshot é nulo e o tick trata a entidade
// como obsoleta (erro transitório esgotado) ou a ignora (erro permanente).
type SnapshotResult struct {
	Snapshot       *domain.MetricsSnapshot
	PlatformStatus string
	Err            error
}

type AdsIntegrator struct {
	cfg    *config.Config
	Client adsclient.Client
}

func New(cfg *config.Config, client adsclient.Client) *AdsIntegrator {
	return &AdsIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// FetchSnapshots busca as métricas do dia corrente para todas as entidades,
// com concorrência limitada por semáforo. Erros transitórios são retentados
// com backoff antes de marcar a entidade como obsoleta.
func (s *AdsIntegrator) FetchSnapshots(ctx context.Context, entities []*domain.ManagedEntity, tickAt time.Time) map[string]SnapshotResult {
	results := make(map[string]SnapshotResult, len(entities))

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		semaphore = make(chan struct{}, s.cfg.Guardian.MaxConcurrentFetches)
	)

	dayStart := time.Date(tickAt.Year(), tickAt.Month(), tickAt.Day(), 0, 0, 0, 0, tickAt.Location())

	for _, entity := range entities {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(entity *domain.ManagedEntity) {
			defer wg.Done()
			defer func() { <-semaphore }()

			result := s.fetchOne(ctx, entity, dayStart, tickAt)

			mu.Lock()
			results[entity.ID] = result
			mu.Unlock()
		}(entity)
	}

	wg.Wait()

	return results
}

func (s *AdsIntegrator) fetchOne(ctx context.Context, entity *domain.ManagedEntity, since, tickAt time.Time) SnapshotResult {
	var metrics *adsdomain.EntityMetrics

	err := retry.Do(ctx, s.cfg.Guardian.RetryMaxAttempts, s.cfg.Guardian.RetryBackoffBase(), func() error {
		var fetchErr error
		metrics, fetchErr = s.Client.GetEntityMetricsByID(entity.ExternalID, since, tickAt)
		return fetchErr
	}, adsdomain.IsTransient)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"entity_id":   entity.ID,
			"external_id": entity.ExternalID,
			"error":       err.Error(),
		}).Error("guardian: falha ao buscar métricas da entidade")
		return SnapshotResult{Err: err}
	}

	snapshot := FactoryMetricsSnapshot(metrics, entity.ID, tickAt)

	logrus.WithFields(logrus.Fields{
		"entity_id": entity.ID,
		"spend":     snapshot.Spend,
		"clicks":    snapshot.Clicks,
	}).Debug("guardian: métricas da entidade obtidas com sucesso")

	return SnapshotResult{
		Snapshot:       snapshot,
		PlatformStatus: metrics.Status,
	}
}

// FactoryMetricsSnapshot converte as métricas da plataforma para o snapshot
// interno, tolerando campos numéricos malformados.
func FactoryMetricsSnapshot(metrics *adsdomain.EntityMetrics, entityID string, tickAt time.Time) *domain.MetricsSnapshot {
	spend, err := strconv.ParseFloat(metrics.Spend, 64)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"spend_value": metrics.Spend,
			"error":       err.Error(),
		}).Warn("guardian: erro ao converter spend para float")
	}

	conversionValue, err := strconv.ParseFloat(metrics.ConversionValue, 64)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"conversion_value": metrics.ConversionValue,
			"error":            err.Error(),
		}).Warn("guardian: erro ao converter conversion_value para float")
	}

	conversions, err := strconv.ParseInt(metrics.Conversions, 10, 64)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"conversions_value": metrics.Conversions,
			"error":             err.Error(),
		}).Warn("guardian: erro ao converter conversions para inteiro")
	}

	clicks, err := strconv.ParseInt(metrics.Clicks, 10, 64)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"clicks_value": metrics.Clicks,
			"error":        err.Error(),
		}).Warn("guardian: erro ao converter clicks para inteiro")
	}

	impressions, err := strconv.ParseInt(metrics.Impressions, 10, 64)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"impressions_value": metrics.Impressions,
			"error":             err.Error(),
		}).Warn("guardian: erro ao converter impressions para inteiro")
	}

	id, _ := utils.GenerateID()

	return &domain.MetricsSnapshot{
		ID:              id,
		EntityID:        entityID,
		TickAt:          tickAt,
		Spend:           utils.RoundWithTwoDecimalPlace(spend),
		Conversions:     conversions,
		ConversionValue: utils.RoundWithTwoDecimalPlace(conversionValue),
		Clicks:          clicks,
		Impressions:     impressions,
		DayElapsed:      domain.DayFraction(tickAt),
	}
}
