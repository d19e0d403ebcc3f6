package deciding

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/profit-guardian/internal/config"
	"github.com/vfg2006/profit-guardian/internal/domain"
	"github.com/vfg2006/profit-guardian/pkg/utils"
)

// entityTrack é o estado em memória de uma entidade entre ticks: o estado
// de ciclo de vida corrente e os contadores de histerese.
type entityTrack struct {
	State           domain.LifecycleState
	NegativeStreak  int
	RecoveredStreak int
}

// DecideInput agrupa tudo que o motor precisa para decidir sobre uma
// entidade em um tick.
type DecideInput struct {
	Evaluation *domain.EntityEvaluation
	// CampaignHalted indica que o protetor de capital interrompeu a
	// campanha desta entidade neste tick
	CampaignHalted bool
	// Ledger é o registro de perdas da campanha, usado apenas para
	// preencher os sinais da decisão
	Ledger *domain.LossLedger
	// ManualPauseObserved indica que a plataforma reporta a entidade
	// pausada sem que o guardian a tenha pausado
	ManualPauseObserved bool
	TickID              string
	TickAt              time.Time
}

// Engine é a máquina de estados do guardian. Exatamente uma decisão por
// entidade por tick; transições de PAUSE/RESUME exigem K observações
// consecutivas, interrupção de circuito é imediata e domina a retomada.
type Engine struct {
	cfg    *config.Config
	mu     sync.Mutex
	tracks map[string]*entityTrack
}

func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		cfg:    cfg,
		tracks: make(map[string]*entityTrack),
	}
}

// SyncEntity registra ou sobrescreve o estado de uma entidade. Usado na
// inicialização e quando o operador pausa ou retoma manualmente.
func (e *Engine) SyncEntity(entityID string, state domain.LifecycleState) {
	e.mu.Lock()
	defer e.mu.Unlock()

	track, ok := e.tracks[entityID]
	if !ok {
		e.tracks[entityID] = &entityTrack{State: state}
		return
	}

	if track.State != state {
		track.State = state
		track.NegativeStreak = 0
		track.RecoveredStreak = 0
	}
}

// CurrentState retorna o estado corrente de uma entidade
func (e *Engine) CurrentState(entityID string) (domain.LifecycleState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	track, ok := e.tracks[entityID]
	if !ok {
		return "", false
	}
	return track.State, true
}

// LoadFromHistory recompõe os contadores de histerese a partir da decisão
// mais recente de cada entidade. Os sinais da decisão registram os
// contadores pós-observação, então reprocessar o mesmo histórico produz
// sempre os mesmos contadores.
func (e *Engine) LoadFromHistory(entities []*domain.ManagedEntity, latestDecisions map[string]*domain.GuardianDecision) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, entity := range entities {
		track := &entityTrack{State: entity.LifecycleState}

		if decision, ok := latestDecisions[entity.ID]; ok && decision.Signals != nil {
			track.NegativeStreak = decision.Signals.NegativeStreak
			track.RecoveredStreak = decision.Signals.RecoveredStreak
		}

		e.tracks[entity.ID] = track
	}

	logrus.WithField("entities", len(entities)).Info("guardian: estados e contadores recompostos do histórico")
}

// Snapshot copia os estados em memória para permitir restauração em caso
// de aborto do tick antes do commit.
func (e *Engine) Snapshot() map[string]entityTrack {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := make(map[string]entityTrack, len(e.tracks))
	for id, track := range e.tracks {
		snapshot[id] = *track
	}
	return snapshot
}

// Restore devolve o motor ao estado capturado por Snapshot
func (e *Engine) Restore(snapshot map[string]entityTrack) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tracks = make(map[string]*entityTrack, len(snapshot))
	for id, track := range snapshot {
		copied := track
		e.tracks[id] = &copied
	}
}

// Revert desfaz uma transição cujo apply falhou, devolvendo a entidade ao
// estado de origem para que o próximo tick decida de novo.
func (e *Engine) Revert(decision *domain.GuardianDecision) {
	e.mu.Lock()
	defer e.mu.Unlock()

	track, ok := e.tracks[decision.EntityID]
	if !ok {
		return
	}

	track.State = decision.FromState
}

// Decide produz a decisão de uma entidade para o tick corrente e avança a
// máquina de estados em memória. O estado persistido só muda no commit.
func (e *Engine) Decide(input DecideInput) *domain.GuardianDecision {
	e.mu.Lock()
	defer e.mu.Unlock()

	entity := input.Evaluation.Entity

	track, ok := e.tracks[entity.ID]
	if !ok {
		track = &entityTrack{State: entity.LifecycleState}
		e.tracks[entity.ID] = track
	}

	fromState := track.State
	decision := e.newDecision(input, fromState)

	switch {
	case input.ManualPauseObserved && fromState != domain.LifecycleManuallyPaused:
		// Pausa manual pertence ao operador: o guardian apenas observa
		track.State = domain.LifecycleManuallyPaused
		track.NegativeStreak = 0
		track.RecoveredStreak = 0

		decision.Action = domain.ActionNone
		decision.Reason = domain.ReasonManualPause
		decision.ToState = domain.LifecycleManuallyPaused

	case fromState == domain.LifecycleManuallyPaused:
		decision.Action = domain.ActionNone
		decision.Reason = domain.ReasonManualPause

	case input.CampaignHalted && fromState != domain.LifecycleCircuitHalted:
		// Interrupção de circuito é imediata, sem histerese, e vale para
		// todas as entidades da campanha
		track.State = domain.LifecycleCircuitHalted
		track.NegativeStreak = 0
		track.RecoveredStreak = 0

		decision.Action = domain.ActionPause
		decision.Reason = domain.ReasonCircuitHalt
		decision.ToState = domain.LifecycleCircuitHalted
		decision.IdempotencyKey = domain.IdempotencyKeyFor(entity.ID, domain.LifecycleCircuitHalted, input.TickAt)

	case input.CampaignHalted:
		decision.Action = domain.ActionNone
		decision.Reason = domain.ReasonCircuitHalt

	case input.Evaluation.Stale:
		// Métricas obsoletas não alimentam a histerese nem contam como
		// tick limpo para liberar o circuito
		decision.Action = domain.ActionNone
		decision.Reason = domain.ReasonStaleMetrics

	case fromState == domain.LifecycleCircuitHalted:
		// Um tick limpo depois da liberação do circuito devolve a entidade
		// ao estado ativo
		track.State = domain.LifecycleActive
		track.NegativeStreak = 0
		track.RecoveredStreak = 0

		decision.Action = domain.ActionResume
		decision.Reason = domain.ReasonHaltCleared
		decision.ToState = domain.LifecycleActive
		decision.IdempotencyKey = domain.IdempotencyKeyFor(entity.ID, domain.LifecycleActive, input.TickAt)

	case fromState == domain.LifecycleActive:
		e.decideActive(track, input, decision)

	case fromState == domain.LifecycleGuardianPaused:
		e.decidePaused(track, input, decision)
	}

	e.fillStreaks(decision, track)

	return decision
}

func (e *Engine) decideActive(track *entityTrack, input DecideInput, decision *domain.GuardianDecision) {
	profit := input.Evaluation.Profit
	pacing := input.Evaluation.Pacing
	entity := input.Evaluation.Entity

	if profit.Basis == domain.BasisNeutral {
		decision.Action = domain.ActionNone
		decision.Reason = domain.ReasonNoSignal
		return
	}

	if profit.Negative() {
		if profit.Confidence == domain.ConfidenceLow {
			// Dados finos demais para uma pausa; só ações reversíveis
			track.RecoveredStreak = 0

			decision.Reason = domain.ReasonLowConfidence
			decision.Action = domain.ActionNone
			if e.overpacing(pacing) {
				decision.Action = domain.ActionRepace
			}
			return
		}

		track.NegativeStreak++
		track.RecoveredStreak = 0

		if track.NegativeStreak >= e.cfg.Guardian.HysteresisTicks {
			track.State = domain.LifecycleGuardianPaused
			track.NegativeStreak = 0

			decision.Action = domain.ActionPause
			decision.Reason = domain.ReasonUnprofitable
			decision.ToState = domain.LifecycleGuardianPaused
			decision.IdempotencyKey = domain.IdempotencyKeyFor(entity.ID, domain.LifecycleGuardianPaused, input.TickAt)
			return
		}

		decision.Action = domain.ActionNone
		decision.Reason = domain.ReasonAwaitingStreak
		return
	}

	track.NegativeStreak = 0

	if e.overpacing(pacing) {
		decision.Action = domain.ActionRepace
		decision.Reason = domain.ReasonOverPace
		return
	}

	decision.Action = domain.ActionNone
	decision.Reason = domain.ReasonWithinThresholds
}

func (e *Engine) decidePaused(track *entityTrack, input DecideInput, decision *domain.GuardianDecision) {
	profit := input.Evaluation.Profit
	entity := input.Evaluation.Entity

	if profit.Negative() {
		track.RecoveredStreak = 0

		decision.Action = domain.ActionNone
		decision.Reason = domain.ReasonUnprofitable
		return
	}

	// Entidade pausada não gasta; sinais neutros ou não-negativos contam
	// como recuperação
	track.RecoveredStreak++

	if track.RecoveredStreak >= e.cfg.Guardian.HysteresisTicks {
		track.State = domain.LifecycleActive
		track.RecoveredStreak = 0

		decision.Action = domain.ActionResume
		decision.Reason = domain.ReasonRecovered
		decision.ToState = domain.LifecycleActive
		decision.IdempotencyKey = domain.IdempotencyKeyFor(entity.ID, domain.LifecycleActive, input.TickAt)
		return
	}

	decision.Action = domain.ActionNone
	decision.Reason = domain.ReasonAwaitingStreak
}

func (e *Engine) overpacing(pacing *domain.PacingState) bool {
	return pacing != nil && pacing.HasSignal && pacing.Ratio >= e.cfg.Guardian.OverpaceRatio
}

func (e *Engine) newDecision(input DecideInput, fromState domain.LifecycleState) *domain.GuardianDecision {
	entity := input.Evaluation.Entity

	id, _ := utils.GenerateID()

	decision := &domain.GuardianDecision{
		ID:         id,
		TickID:     input.TickID,
		EntityID:   entity.ID,
		CampaignID: entity.CampaignID,
		FromState:  fromState,
		ToState:    fromState,
		CreatedAt:  input.TickAt,
		Signals:    &domain.DecisionSignals{},
	}

	if profit := input.Evaluation.Profit; profit != nil {
		decision.Signals.WindowProfit = profit.WindowProfit
		decision.Signals.WindowSpend = profit.WindowSpend
		decision.Signals.Clicks = profit.Clicks
		decision.Signals.Basis = profit.Basis
		decision.Signals.Confidence = profit.Confidence
	}

	if pacing := input.Evaluation.Pacing; pacing != nil && pacing.HasSignal {
		ratio := pacing.Ratio
		decision.Signals.PacingRatio = &ratio
	}

	if input.Ledger != nil {
		decision.Signals.CampaignLoss = input.Ledger.CumulativeLoss
		decision.Signals.CampaignLossRate = input.Ledger.LossRatePerHour(input.TickAt)
	}

	return decision
}

func (e *Engine) fillStreaks(decision *domain.GuardianDecision, track *entityTrack) {
	decision.Signals.NegativeStreak = track.NegativeStreak
	decision.Signals.RecoveredStreak = track.RecoveredStreak
	decision.ApplyStatus = domain.ApplyNotRequired
}
