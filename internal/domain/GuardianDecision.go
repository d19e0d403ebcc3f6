package domain

import (
	"fmt"
	"time"
)

// ActionType é a intenção de ação produzida pelo motor de decisão
type ActionType string

const (
	ActionNone   ActionType = "NONE"
	ActionPause  ActionType = "PAUSE"
	ActionResume ActionType = "RESUME"
	ActionRepace ActionType = "REPACE"
)

// ReasonCode explica por que uma decisão foi tomada
type ReasonCode string

const (
	ReasonUnprofitable     ReasonCode = "UNPROFITABLE"
	ReasonRecovered        ReasonCode = "RECOVERED"
	ReasonCircuitHalt      ReasonCode = "CIRCUIT_HALT"
	ReasonHaltCleared      ReasonCode = "HALT_CLEARED"
	ReasonOverPace         ReasonCode = "OVER_PACE"
	ReasonManualPause      ReasonCode = "MANUAL_PAUSE_OBSERVED"
	ReasonNoSignal         ReasonCode = "NO_SIGNAL"
	ReasonStaleMetrics     ReasonCode = "STALE_METRICS"
	ReasonLowConfidence    ReasonCode = "LOW_CONFIDENCE"
	ReasonWithinThresholds ReasonCode = "WITHIN_THRESHOLDS"
	ReasonAwaitingStreak   ReasonCode = "AWAITING_STREAK"
)

// ApplyStatus registra o resultado da aplicação da intenção na plataforma
type ApplyStatus string

const (
	ApplyNotRequired ApplyStatus = "NOT_REQUIRED"
	ApplyApplied     ApplyStatus = "APPLIED"
	ApplyFailed      ApplyStatus = "FAILED"
)

// DecisionSignals captura os valores de sinal que produziram a decisão,
// permitindo recompor o contador de histerese apenas pelo histórico
type DecisionSignals struct {
	PacingRatio      *float64    `json:"pacing_ratio,omitempty"`
	WindowProfit     float64     `json:"window_profit"`
	WindowSpend      float64     `json:"window_spend"`
	Clicks           int64       `json:"clicks"`
	Basis            SignalBasis `json:"basis"`
	Confidence       Confidence  `json:"confidence"`
	NegativeStreak   int         `json:"negative_streak"`
	RecoveredStreak  int         `json:"recovered_streak"`
	CampaignLoss     float64     `json:"campaign_loss,omitempty"`
	CampaignLossRate float64     `json:"campaign_loss_rate,omitempty"`
}

// GuardianDecision é o registro append-only de uma decisão por entidade por
// tick. A decisão mais recente por entidade é o estado corrente autoritativo.
type GuardianDecision struct {
	ID             string           `json:"id"`
	TickID         string           `json:"tick_id"`
	EntityID       string           `json:"entity_id"`
	CampaignID     string           `json:"campaign_id"`
	Action         ActionType       `json:"action"`
	Reason         ReasonCode       `json:"reason"`
	FromState      LifecycleState   `json:"from_state"`
	ToState        LifecycleState   `json:"to_state"`
	Signals        *DecisionSignals `json:"signals,omitempty"`
	ApplyStatus    ApplyStatus      `json:"apply_status"`
	IdempotencyKey string           `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// Transitions indica se a decisão muda o estado de ciclo de vida
func (d *GuardianDecision) Transitions() bool {
	return d.FromState != d.ToState
}

// IdempotencyKeyFor gera o discriminador de idempotência de uma mutação de
// status: a mesma tripla (entidade, estado alvo, timestamp do tick) produz
// sempre a mesma chave, então uma retentativa após timeout não aplica duas
// vezes nem conflita com uma intenção mais recente.
func IdempotencyKeyFor(entityID string, target LifecycleState, tickAt time.Time) string {
	return fmt.Sprintf("%s:%s:%d", entityID, target, tickAt.UTC().Unix())
}
