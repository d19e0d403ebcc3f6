package deciding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/profit-guardian/internal/config"
	"github.com/vfg2006/profit-guardian/internal/domain"
)

func newTestEngine() *Engine {
	return NewEngine(&config.Config{
		Guardian: config.Guardian{
			HysteresisTicks:      2,
			MinClicksForDecision: 10,
			OverpaceRatio:        1.5,
		},
	})
}

func newEntity(state domain.LifecycleState) *domain.ManagedEntity {
	return &domain.ManagedEntity{
		ID:             "ENT001",
		CampaignID:     "CMP001",
		Kind:           domain.EntityKindAdGroup,
		LifecycleState: state,
		DailyBudget:    100.0,
	}
}

func negativeEvaluation(entity *domain.ManagedEntity) *domain.EntityEvaluation {
	return &domain.EntityEvaluation{
		Entity: entity,
		Pacing: &domain.PacingState{EntityID: entity.ID, Ratio: 1.0, HasSignal: true},
		Profit: &domain.ProfitabilitySignal{
			EntityID:     entity.ID,
			WindowProfit: -40.0,
			WindowSpend:  60.0,
			Clicks:       30,
			Basis:        domain.BasisProxy,
			Confidence:   domain.ConfidenceHigh,
		},
	}
}

func positiveEvaluation(entity *domain.ManagedEntity) *domain.EntityEvaluation {
	return &domain.EntityEvaluation{
		Entity: entity,
		Pacing: &domain.PacingState{EntityID: entity.ID, Ratio: 1.0, HasSignal: true},
		Profit: &domain.ProfitabilitySignal{
			EntityID:     entity.ID,
			WindowProfit: 25.0,
			WindowSpend:  50.0,
			Clicks:       40,
			Basis:        domain.BasisValue,
			Confidence:   domain.ConfidenceHigh,
		},
	}
}

func decideInput(eval *domain.EntityEvaluation, tickAt time.Time) DecideInput {
	return DecideInput{
		Evaluation: eval,
		TickID:     "TICK01",
		TickAt:     tickAt,
	}
}

func TestEngine_HisteresePausa(t *testing.T) {
	engine := newTestEngine()
	entity := newEntity(domain.LifecycleActive)
	tickAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	// Primeiro tick negativo: aguarda a sequência, ainda ativo
	decision := engine.Decide(decideInput(negativeEvaluation(entity), tickAt))
	assert.Equal(t, domain.ActionNone, decision.Action)
	assert.Equal(t, domain.ReasonAwaitingStreak, decision.Reason)
	assert.Equal(t, domain.LifecycleActive, decision.ToState)
	assert.Equal(t, 1, decision.Signals.NegativeStreak)

	// Segundo tick negativo consecutivo: pausa
	decision = engine.Decide(decideInput(negativeEvaluation(entity), tickAt.Add(15*time.Minute)))
	assert.Equal(t, domain.ActionPause, decision.Action)
	assert.Equal(t, domain.ReasonUnprofitable, decision.Reason)
	assert.Equal(t, domain.LifecycleActive, decision.FromState)
	assert.Equal(t, domain.LifecycleGuardianPaused, decision.ToState)
	assert.NotEmpty(t, decision.IdempotencyKey)
}

func TestEngine_TickPositivoZeraSequenciaNegativa(t *testing.T) {
	engine := newTestEngine()
	entity := newEntity(domain.LifecycleActive)
	tickAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	engine.Decide(decideInput(negativeEvaluation(entity), tickAt))

	// Tick positivo no meio zera o contador
	decision := engine.Decide(decideInput(positiveEvaluation(entity), tickAt.Add(15*time.Minute)))
	assert.Equal(t, domain.ReasonWithinThresholds, decision.Reason)
	assert.Equal(t, 0, decision.Signals.NegativeStreak)

	// O próximo negativo recomeça a contagem do zero
	decision = engine.Decide(decideInput(negativeEvaluation(entity), tickAt.Add(30*time.Minute)))
	assert.Equal(t, domain.ActionNone, decision.Action)
	assert.Equal(t, domain.ReasonAwaitingStreak, decision.Reason)
}

func TestEngine_HistereseRetomada(t *testing.T) {
	engine := newTestEngine()
	entity := newEntity(domain.LifecycleGuardianPaused)
	tickAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	decision := engine.Decide(decideInput(positiveEvaluation(entity), tickAt))
	assert.Equal(t, domain.ActionNone, decision.Action)
	assert.Equal(t, domain.ReasonAwaitingStreak, decision.Reason)
	assert.Equal(t, 1, decision.Signals.RecoveredStreak)

	decision = engine.Decide(decideInput(positiveEvaluation(entity), tickAt.Add(15*time.Minute)))
	assert.Equal(t, domain.ActionResume, decision.Action)
	assert.Equal(t, domain.ReasonRecovered, decision.Reason)
	assert.Equal(t, domain.LifecycleGuardianPaused, decision.FromState)
	assert.Equal(t, domain.LifecycleActive, decision.ToState)
}

func TestEngine_CircuitoDominaRetomada(t *testing.T) {
	engine := newTestEngine()
	entity := newEntity(domain.LifecycleGuardianPaused)
	tickAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	// Um tick positivo deixa a retomada a um passo de acontecer
	engine.Decide(decideInput(positiveEvaluation(entity), tickAt))

	// Circuito da campanha dispara: a interrupção vence a retomada
	input := decideInput(positiveEvaluation(entity), tickAt.Add(15*time.Minute))
	input.CampaignHalted = true

	decision := engine.Decide(input)
	assert.Equal(t, domain.ActionPause, decision.Action)
	assert.Equal(t, domain.ReasonCircuitHalt, decision.Reason)
	assert.Equal(t, domain.LifecycleCircuitHalted, decision.ToState)
}

func TestEngine_CircuitoInterrompeEntidadeLucrativa(t *testing.T) {
	engine := newTestEngine()
	entity := newEntity(domain.LifecycleActive)
	tickAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	input := decideInput(positiveEvaluation(entity), tickAt)
	input.CampaignHalted = true

	decision := engine.Decide(input)
	assert.Equal(t, domain.ActionPause, decision.Action)
	assert.Equal(t, domain.ReasonCircuitHalt, decision.Reason)
	assert.Equal(t, domain.LifecycleCircuitHalted, decision.ToState)
}

func TestEngine_LiberacaoDoCircuitoRetomaAposTickLimpo(t *testing.T) {
	engine := newTestEngine()
	entity := newEntity(domain.LifecycleCircuitHalted)
	tickAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	// Campanha ainda interrompida: nada muda
	input := decideInput(positiveEvaluation(entity), tickAt)
	input.CampaignHalted = true
	decision := engine.Decide(input)
	assert.Equal(t, domain.ActionNone, decision.Action)
	assert.Equal(t, domain.LifecycleCircuitHalted, decision.ToState)

	// Primeiro tick com o circuito liberado retoma a entidade
	decision = engine.Decide(decideInput(positiveEvaluation(entity), tickAt.Add(15*time.Minute)))
	assert.Equal(t, domain.ActionResume, decision.Action)
	assert.Equal(t, domain.ReasonHaltCleared, decision.Reason)
	assert.Equal(t, domain.LifecycleActive, decision.ToState)
}

func TestEngine_PausaManualObservada(t *testing.T) {
	engine := newTestEngine()
	entity := newEntity(domain.LifecycleActive)
	tickAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	input := decideInput(negativeEvaluation(entity), tickAt)
	input.ManualPauseObserved = true

	decision := engine.Decide(input)
	assert.Equal(t, domain.ActionNone, decision.Action)
	assert.Equal(t, domain.ReasonManualPause, decision.Reason)
	assert.Equal(t, domain.LifecycleManuallyPaused, decision.ToState)

	// Entidade pausada manualmente nunca é retomada pelo guardian, mesmo
	// com sinais positivos consecutivos
	for i := 1; i <= 5; i++ {
		decision = engine.Decide(decideInput(positiveEvaluation(entity), tickAt.Add(time.Duration(i)*15*time.Minute)))
		assert.Equal(t, domain.ActionNone, decision.Action)
		assert.Equal(t, domain.ReasonManualPause, decision.Reason)
		assert.Equal(t, domain.LifecycleManuallyPaused, decision.ToState)
	}
}

func TestEngine_ConfiancaBaixaSoPermiteAcoesReversiveis(t *testing.T) {
	engine := newTestEngine()
	entity := newEntity(domain.LifecycleActive)
	tickAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	lowConfidence := negativeEvaluation(entity)
	lowConfidence.Profit.Clicks = 3
	lowConfidence.Profit.Confidence = domain.ConfidenceLow

	// Ticks negativos com poucos cliques nunca acumulam para pausa
	for i := 0; i < 5; i++ {
		decision := engine.Decide(decideInput(lowConfidence, tickAt.Add(time.Duration(i)*15*time.Minute)))
		assert.Equal(t, domain.ActionNone, decision.Action)
		assert.Equal(t, domain.ReasonLowConfidence, decision.Reason)
		assert.Equal(t, domain.LifecycleActive, decision.ToState)
		assert.Equal(t, 0, decision.Signals.NegativeStreak)
	}
}

func TestEngine_ConfiancaBaixaComOverpaceRecomendaAjuste(t *testing.T) {
	engine := newTestEngine()
	entity := newEntity(domain.LifecycleActive)
	tickAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	eval := negativeEvaluation(entity)
	eval.Profit.Confidence = domain.ConfidenceLow
	eval.Pacing.Ratio = 2.0

	decision := engine.Decide(decideInput(eval, tickAt))
	assert.Equal(t, domain.ActionRepace, decision.Action)
	assert.Equal(t, domain.ReasonLowConfidence, decision.Reason)
	assert.Equal(t, domain.LifecycleActive, decision.ToState)
}

func TestEngine_OverpaceComLucroRecomendaAjuste(t *testing.T) {
	engine := newTestEngine()
	entity := newEntity(domain.LifecycleActive)
	tickAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	eval := positiveEvaluation(entity)
	eval.Pacing.Ratio = 1.8

	decision := engine.Decide(decideInput(eval, tickAt))
	assert.Equal(t, domain.ActionRepace, decision.Action)
	assert.Equal(t, domain.ReasonOverPace, decision.Reason)
	assert.Equal(t, domain.LifecycleActive, decision.ToState)
}

func TestEngine_MetricasObsoletasNaoAlimentamHisterese(t *testing.T) {
	engine := newTestEngine()
	entity := newEntity(domain.LifecycleActive)
	tickAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	engine.Decide(decideInput(negativeEvaluation(entity), tickAt))

	stale := &domain.EntityEvaluation{Entity: entity, Stale: true}
	decision := engine.Decide(decideInput(stale, tickAt.Add(15*time.Minute)))
	assert.Equal(t, domain.ActionNone, decision.Action)
	assert.Equal(t, domain.ReasonStaleMetrics, decision.Reason)
	assert.Equal(t, 1, decision.Signals.NegativeStreak)

	// A sequência continua de onde parou quando as métricas voltam
	decision = engine.Decide(decideInput(negativeEvaluation(entity), tickAt.Add(30*time.Minute)))
	assert.Equal(t, domain.ActionPause, decision.Action)
	assert.Equal(t, domain.ReasonUnprofitable, decision.Reason)
}

func TestEngine_SinalNeutroNaoDecide(t *testing.T) {
	engine := newTestEngine()
	entity := newEntity(domain.LifecycleActive)
	tickAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	neutral := &domain.EntityEvaluation{
		Entity: entity,
		Pacing: &domain.PacingState{EntityID: entity.ID, HasSignal: false},
		Profit: &domain.ProfitabilitySignal{EntityID: entity.ID, Basis: domain.BasisNeutral, Confidence: domain.ConfidenceLow},
	}

	decision := engine.Decide(decideInput(neutral, tickAt))
	assert.Equal(t, domain.ActionNone, decision.Action)
	assert.Equal(t, domain.ReasonNoSignal, decision.Reason)
}

func TestEngine_RevertDevolveEstadoAposFalhaDeAplicacao(t *testing.T) {
	engine := newTestEngine()
	entity := newEntity(domain.LifecycleActive)
	tickAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	engine.Decide(decideInput(negativeEvaluation(entity), tickAt))
	decision := engine.Decide(decideInput(negativeEvaluation(entity), tickAt.Add(15*time.Minute)))
	assert.Equal(t, domain.ActionPause, decision.Action)

	engine.Revert(decision)

	state, ok := engine.CurrentState(entity.ID)
	assert.True(t, ok)
	assert.Equal(t, domain.LifecycleActive, state)
}

func TestEngine_SnapshotRestore(t *testing.T) {
	engine := newTestEngine()
	entity := newEntity(domain.LifecycleActive)
	tickAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	engine.Decide(decideInput(negativeEvaluation(entity), tickAt))
	snapshot := engine.Snapshot()

	// Segundo tick negativo pausa a entidade
	engine.Decide(decideInput(negativeEvaluation(entity), tickAt.Add(15*time.Minute)))
	state, _ := engine.CurrentState(entity.ID)
	assert.Equal(t, domain.LifecycleGuardianPaused, state)

	// Restaurar desfaz tudo que o tick abortado fez
	engine.Restore(snapshot)
	state, _ = engine.CurrentState(entity.ID)
	assert.Equal(t, domain.LifecycleActive, state)

	decision := engine.Decide(decideInput(negativeEvaluation(entity), tickAt.Add(30*time.Minute)))
	assert.Equal(t, domain.ActionPause, decision.Action)
}

func TestEngine_LoadFromHistory(t *testing.T) {
	engine := newTestEngine()
	entity := newEntity(domain.LifecycleActive)

	latest := map[string]*domain.GuardianDecision{
		entity.ID: {
			EntityID: entity.ID,
			Action:   domain.ActionNone,
			Reason:   domain.ReasonAwaitingStreak,
			Signals:  &domain.DecisionSignals{NegativeStreak: 1},
		},
	}

	engine.LoadFromHistory([]*domain.ManagedEntity{entity}, latest)

	// O contador recomposto do histórico faz o próximo negativo pausar
	tickAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	decision := engine.Decide(decideInput(negativeEvaluation(entity), tickAt))
	assert.Equal(t, domain.ActionPause, decision.Action)
	assert.Equal(t, domain.ReasonUnprofitable, decision.Reason)
}

func TestEngine_UmaDecisaoPorEntidadePorTick(t *testing.T) {
	engine := newTestEngine()
	entity := newEntity(domain.LifecycleActive)
	tickAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	decision := engine.Decide(decideInput(negativeEvaluation(entity), tickAt))

	assert.Equal(t, "TICK01", decision.TickID)
	assert.Equal(t, entity.ID, decision.EntityID)
	assert.Equal(t, entity.CampaignID, decision.CampaignID)
	assert.NotEmpty(t, decision.ID)
}
