package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/profit-guardian/infrastructure/integrator/ads"
	adsdomain "github.com/vfg2006/profit-guardian/infrastructure/integrator/ads/domain"
	"github.com/vfg2006/profit-guardian/infrastructure/repository"
	"github.com/vfg2006/profit-guardian/internal/config"
	"github.com/vfg2006/profit-guardian/internal/domain"
	"github.com/vfg2006/profit-guardian/internal/usecases/applying"
	"github.com/vfg2006/profit-guardian/internal/usecases/deciding"
	"github.com/vfg2006/profit-guardian/internal/usecases/evaluating"
	"github.com/vfg2006/profit-guardian/internal/usecases/protecting"
	"github.com/vfg2006/profit-guardian/pkg/utils"
)

// Snapshots velhos são limpos diariamente depois deste prazo
const snapshotRetentionDays = 30

// SnapshotFetcher busca as métricas do dia de todas as entidades gerenciadas
type SnapshotFetcher interface {
	FetchSnapshots(ctx context.Context, entities []*domain.ManagedEntity, tickAt time.Time) map[string]ads.SnapshotResult
}

// GuardianTickService agenda e executa o loop de controle do guardian.
// Ticks nunca rodam em paralelo: se o anterior ainda está em execução, o
// corrente é registrado como pulado.
type GuardianTickService struct {
	scheduler     *gocron.Scheduler
	cfg           *config.Config
	entityRepo    repository.EntityRepository
	snapshotRepo  repository.SnapshotRepository
	guardianStore repository.GuardianStore
	fetcher       SnapshotFetcher
	evaluator     evaluating.Service
	protector     protecting.Service
	engine        *deciding.Engine
	applier       applying.Service

	tickMutex   sync.Mutex
	tickRunning bool

	stateMutex          sync.Mutex
	enabled             bool
	lastTickStartedAt   time.Time
	lastTickCompletedAt time.Time
}

func NewGuardianTickService(
	entityRepo repository.EntityRepository,
	snapshotRepo repository.SnapshotRepository,
	guardianStore repository.GuardianStore,
	fetcher SnapshotFetcher,
	evaluator evaluating.Service,
	protector protecting.Service,
	engine *deciding.Engine,
	applier applying.Service,
	cfg *config.Config,
) *GuardianTickService {
	logrus.WithFields(logrus.Fields{
		"tick_interval_minutes": cfg.Guardian.TickIntervalMinutes,
		"hysteresis_ticks":      cfg.Guardian.HysteresisTicks,
		"absolute_loss_limit":   cfg.Guardian.AbsoluteLossLimit,
		"loss_rate_limit":       cfg.Guardian.LossRateLimitPerHour,
		"enabled":               cfg.Guardian.Enabled,
	}).Info("Configuração do loop de controle do guardian carregada")

	return &GuardianTickService{
		scheduler:     gocron.NewScheduler(time.UTC),
		cfg:           cfg,
		entityRepo:    entityRepo,
		snapshotRepo:  snapshotRepo,
		guardianStore: guardianStore,
		fetcher:       fetcher,
		evaluator:     evaluator,
		protector:     protector,
		engine:        engine,
		applier:       applier,
		enabled:       cfg.Guardian.Enabled,
	}
}

// Start agenda o tick periódico e a limpeza diária de snapshots. O guardian
// sobe desarmado a menos que a configuração diga o contrário; o operador
// arma pelo endpoint de controle.
func (s *GuardianTickService) Start(ctx context.Context) error {
	_, err := s.scheduler.Every(s.cfg.Guardian.TickIntervalMinutes).Minutes().Do(func() {
		s.RunTick(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar o tick do guardian: %w", err)
	}

	_, err = s.scheduler.Every(1).Day().At("03:00").Do(func() {
		s.cleanupSnapshots()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar a limpeza de snapshots: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando o agendador do guardian")
		s.scheduler.Stop()
	}()

	return nil
}

// Enable arma o loop de controle
func (s *GuardianTickService) Enable() {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()
	s.enabled = true
	logrus.Info("guardian: loop de controle armado")
}

// Disable desarma o loop de controle sem parar o agendador
func (s *GuardianTickService) Disable() {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()
	s.enabled = false
	logrus.Info("guardian: loop de controle desarmado")
}

// Toggle inverte o estado do loop e devolve o estado resultante
func (s *GuardianTickService) Toggle() bool {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()
	s.enabled = !s.enabled

	logrus.WithField("enabled", s.enabled).Info("guardian: loop de controle alternado")

	return s.enabled
}

// IsEnabled informa se o loop está armado
func (s *GuardianTickService) IsEnabled() bool {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()
	return s.enabled
}

// TriggerManualTick dispara um tick imediato fora do agendamento
func (s *GuardianTickService) TriggerManualTick(ctx context.Context) {
	logrus.Info("guardian: tick manual solicitado")
	go s.RunTick(ctx)
}

// GetStatus retorna o estado corrente do agendador para o endpoint de controle
func (s *GuardianTickService) GetStatus() map[string]any {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	return map[string]any{
		"enabled":                s.enabled,
		"tick_interval_minutes":  s.cfg.Guardian.TickIntervalMinutes,
		"hysteresis_ticks":       s.cfg.Guardian.HysteresisTicks,
		"absolute_loss_limit":    s.cfg.Guardian.AbsoluteLossLimit,
		"loss_rate_limit_hour":   s.cfg.Guardian.LossRateLimitPerHour,
		"loss_window_hours":      s.cfg.Guardian.LossWindowHours,
		"last_tick_started_at":   s.lastTickStartedAt,
		"last_tick_completed_at": s.lastTickCompletedAt,
	}
}

// RunTick executa um ciclo completo: coleta, avaliação, proteção de capital,
// decisão, aplicação e commit transacional. Qualquer falha de persistência
// aborta o tick inteiro e restaura o estado em memória do motor.
func (s *GuardianTickService) RunTick(ctx context.Context) {
	if !s.IsEnabled() {
		return
	}

	s.tickMutex.Lock()
	if s.tickRunning {
		s.tickMutex.Unlock()
		s.recordSkippedTick()
		return
	}
	s.tickRunning = true
	s.tickMutex.Unlock()

	defer func() {
		s.tickMutex.Lock()
		s.tickRunning = false
		s.tickMutex.Unlock()
	}()

	tickAt := time.Now().UTC()
	tickID, _ := utils.GenerateID()

	s.stateMutex.Lock()
	s.lastTickStartedAt = tickAt
	s.stateMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"tick_id": tickID,
		"tick_at": tickAt.Format(time.RFC3339),
	}).Info("guardian: tick iniciado")

	entities, err := s.entityRepo.ListAll()
	if err != nil {
		logrus.WithError(err).Error("guardian: erro ao listar entidades, tick abortado")
		s.recordAbortedTick(tickID, tickAt, "erro ao listar entidades")
		return
	}

	if len(entities) == 0 {
		logrus.Info("guardian: nenhuma entidade sob guardianship")
		s.recordEmptyTick(tickID, tickAt)
		return
	}

	// Estado do motor antes do tick, para restauração em caso de aborto
	engineSnapshot := s.engine.Snapshot()

	results := s.fetcher.FetchSnapshots(ctx, entities, tickAt)

	evaluations, staleCount := s.evaluateAll(entities, results)

	ledgers := s.assessCampaigns(entities, evaluations, tickAt)

	decisions, snapshots := s.decideAll(entities, results, evaluations, ledgers, tickID, tickAt)

	entityIndex := make(map[string]*domain.ManagedEntity, len(entities))
	for _, entity := range entities {
		entityIndex[entity.ID] = entity
	}

	failed := s.applier.ApplyBatch(ctx, decisions, entityIndex)
	for _, decision := range failed {
		s.engine.Revert(decision)
	}

	lifecycleUpdates := s.collectLifecycleUpdates(entities)

	run := &domain.TickRun{
		ID:                tickID,
		StartedAt:         tickAt,
		FinishedAt:        time.Now().UTC(),
		Outcome:           domain.TickCompleted,
		EntitiesEvaluated: len(evaluations),
		EntitiesStale:     staleCount,
		ActionsApplied:    countApplied(decisions),
		ActionsFailed:     len(failed),
	}

	commit := &domain.TickCommit{
		Run:              run,
		Snapshots:        snapshots,
		Decisions:        decisions,
		LifecycleUpdates: lifecycleUpdates,
		Ledgers:          ledgerList(ledgers),
	}

	if err := s.guardianStore.CommitTick(ctx, commit); err != nil {
		logrus.WithError(err).WithField("tick_id", tickID).Error("guardian: erro ao gravar o tick, estado do motor restaurado")
		s.engine.Restore(engineSnapshot)
		s.recordAbortedTick(tickID, tickAt, "erro ao gravar o tick")
		return
	}

	s.stateMutex.Lock()
	s.lastTickCompletedAt = time.Now().UTC()
	s.stateMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"tick_id":            tickID,
		"entities_evaluated": run.EntitiesEvaluated,
		"entities_stale":     run.EntitiesStale,
		"actions_applied":    run.ActionsApplied,
		"actions_failed":     run.ActionsFailed,
		"duration":           time.Since(tickAt).String(),
	}).Info("guardian: tick concluído")
}

// evaluateAll transforma os resultados da coleta em avaliações. Erros
// permanentes tiram a entidade do tick; erros transitórios esgotados a
// marcam como obsoleta, o que congela sua histerese.
func (s *GuardianTickService) evaluateAll(entities []*domain.ManagedEntity, results map[string]ads.SnapshotResult) (map[string]*domain.EntityEvaluation, int) {
	evaluations := make(map[string]*domain.EntityEvaluation, len(entities))
	staleCount := 0

	for _, entity := range entities {
		result, ok := results[entity.ID]
		if !ok {
			continue
		}

		if result.Err != nil {
			if adsdomain.IsPermanent(result.Err) {
				logrus.WithFields(logrus.Fields{
					"entity_id":   entity.ID,
					"external_id": entity.ExternalID,
				}).WithError(result.Err).Error("guardian: erro permanente ao coletar métricas, entidade fora do tick")
				continue
			}

			logrus.WithFields(logrus.Fields{
				"entity_id":   entity.ID,
				"external_id": entity.ExternalID,
			}).WithError(result.Err).Warn("guardian: retentativas esgotadas, métricas obsoletas")

			evaluations[entity.ID] = &domain.EntityEvaluation{Entity: entity, Stale: true}
			staleCount++
			continue
		}

		evaluations[entity.ID] = s.evaluator.Evaluate(entity, result.Snapshot, false)
	}

	return evaluations, staleCount
}

// assessCampaigns acumula a perda do intervalo de cada campanha no ledger e
// avalia os limites do protetor de capital
func (s *GuardianTickService) assessCampaigns(entities []*domain.ManagedEntity, evaluations map[string]*domain.EntityEvaluation, tickAt time.Time) map[string]*domain.LossLedger {
	campaignLoss := make(map[string]float64)
	campaigns := make(map[string]bool)

	for _, entity := range entities {
		eval, ok := evaluations[entity.ID]
		if !ok {
			continue
		}

		campaigns[entity.CampaignID] = true

		if eval.Stale || eval.Profit == nil || eval.Profit.Basis == domain.BasisNeutral {
			continue
		}

		campaignLoss[entity.CampaignID] += s.entityIntervalLoss(eval, tickAt)
	}

	ledgers := make(map[string]*domain.LossLedger, len(campaigns))

	for campaignID := range campaigns {
		ledger, err := s.guardianStore.GetLossLedger(campaignID)
		if err != nil {
			logrus.WithError(err).WithField("campaign_id", campaignID).Error("guardian: erro ao carregar o ledger da campanha")
		}

		ledgers[campaignID] = s.protector.Assess(ledger, campaignID, campaignLoss[campaignID], tickAt)
	}

	return ledgers
}

// entityIntervalLoss compara o lucro corrente com o do snapshot anterior.
// Janelas diárias: um snapshot de outro dia significa que a janela reiniciou
// e o lucro corrente é o próprio intervalo.
func (s *GuardianTickService) entityIntervalLoss(eval *domain.EntityEvaluation, tickAt time.Time) float64 {
	previous, err := s.snapshotRepo.GetLatestByEntityID(eval.Entity.ID)
	if err != nil {
		logrus.WithError(err).WithField("entity_id", eval.Entity.ID).Warn("guardian: erro ao carregar snapshot anterior, intervalo tratado como janela nova")
		previous = nil
	}

	previousProfit := 0.0
	sameWindow := false

	if previous != nil {
		sameWindow = sameDay(previous.TickAt, tickAt)
		previousProfit = s.evaluator.EvaluateProfitability(eval.Entity, previous).WindowProfit
	}

	return s.protector.IntervalLoss(previousProfit, eval.Profit.WindowProfit, sameWindow)
}

func (s *GuardianTickService) decideAll(
	entities []*domain.ManagedEntity,
	results map[string]ads.SnapshotResult,
	evaluations map[string]*domain.EntityEvaluation,
	ledgers map[string]*domain.LossLedger,
	tickID string,
	tickAt time.Time,
) ([]*domain.GuardianDecision, []*domain.MetricsSnapshot) {
	decisions := make([]*domain.GuardianDecision, 0, len(evaluations))
	snapshots := make([]*domain.MetricsSnapshot, 0, len(evaluations))

	for _, entity := range entities {
		eval, ok := evaluations[entity.ID]
		if !ok {
			continue
		}

		result := results[entity.ID]
		ledger := ledgers[entity.CampaignID]

		decision := s.engine.Decide(deciding.DecideInput{
			Evaluation:          eval,
			CampaignHalted:      ledger != nil && ledger.Halted,
			Ledger:              ledger,
			ManualPauseObserved: s.manualPauseObserved(entity, result),
			TickID:              tickID,
			TickAt:              tickAt,
		})

		decisions = append(decisions, decision)

		if result.Snapshot != nil {
			snapshots = append(snapshots, result.Snapshot)
		}
	}

	return decisions, snapshots
}

// manualPauseObserved detecta uma pausa feita direto na plataforma: o status
// externo diz pausado enquanto o guardian acredita que a entidade está ativa
func (s *GuardianTickService) manualPauseObserved(entity *domain.ManagedEntity, result ads.SnapshotResult) bool {
	if result.Err != nil || result.PlatformStatus != adsdomain.StatusPaused {
		return false
	}

	state, ok := s.engine.CurrentState(entity.ID)
	if !ok {
		state = entity.LifecycleState
	}

	return state == domain.LifecycleActive
}

// collectLifecycleUpdates compara o estado em memória pós-tick com o estado
// persistido e devolve apenas as entidades que mudaram
func (s *GuardianTickService) collectLifecycleUpdates(entities []*domain.ManagedEntity) map[string]domain.LifecycleState {
	updates := make(map[string]domain.LifecycleState)

	for _, entity := range entities {
		state, ok := s.engine.CurrentState(entity.ID)
		if !ok || state == entity.LifecycleState {
			continue
		}
		updates[entity.ID] = state
	}

	return updates
}

func (s *GuardianTickService) recordSkippedTick() {
	logrus.Warn("guardian: tick anterior ainda em execução, tick corrente pulado")

	tickID, _ := utils.GenerateID()
	now := time.Now().UTC()

	if err := s.guardianStore.SaveTickRun(&domain.TickRun{
		ID:         tickID,
		StartedAt:  now,
		FinishedAt: now,
		Outcome:    domain.TickSkipped,
		Reason:     "tick anterior ainda em execução",
	}); err != nil {
		logrus.WithError(err).Error("guardian: erro ao registrar tick pulado")
	}
}

func (s *GuardianTickService) recordAbortedTick(tickID string, startedAt time.Time, reason string) {
	if err := s.guardianStore.SaveTickRun(&domain.TickRun{
		ID:         tickID,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
		Outcome:    domain.TickAborted,
		Reason:     reason,
	}); err != nil {
		logrus.WithError(err).Error("guardian: erro ao registrar tick abortado")
	}
}

func (s *GuardianTickService) recordEmptyTick(tickID string, startedAt time.Time) {
	if err := s.guardianStore.SaveTickRun(&domain.TickRun{
		ID:         tickID,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
		Outcome:    domain.TickCompleted,
		Reason:     "nenhuma entidade sob guardianship",
	}); err != nil {
		logrus.WithError(err).Error("guardian: erro ao registrar tick vazio")
	}
}

func (s *GuardianTickService) cleanupSnapshots() {
	deleted, err := s.snapshotRepo.DeleteOlderThan(snapshotRetentionDays)
	if err != nil {
		logrus.WithError(err).Error("guardian: erro ao limpar snapshots antigos")
		return
	}

	if deleted > 0 {
		logrus.WithFields(logrus.Fields{
			"deleted":        deleted,
			"retention_days": snapshotRetentionDays,
		}).Info("guardian: snapshots antigos removidos")
	}
}

func countApplied(decisions []*domain.GuardianDecision) int {
	applied := 0
	for _, decision := range decisions {
		if decision.ApplyStatus == domain.ApplyApplied {
			applied++
		}
	}
	return applied
}

func ledgerList(ledgers map[string]*domain.LossLedger) []*domain.LossLedger {
	list := make([]*domain.LossLedger, 0, len(ledgers))
	for _, ledger := range ledgers {
		list = append(list, ledger)
	}
	return list
}

func sameDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
