package domain

import (
	"time"
)

// TickOutcome classifica o desfecho de um tick do guardian
type TickOutcome string

const (
	TickCompleted TickOutcome = "COMPLETED"
	TickSkipped   TickOutcome = "SKIPPED"
	TickAborted   TickOutcome = "ABORTED"
)

// TickRun registra o desfecho de cada tick, incluindo pulos e abortos, para
// que o operador consiga reconstruir por que uma entidade foi ou não tocada
type TickRun struct {
	ID                string      `json:"id"`
	StartedAt         time.Time   `json:"started_at"`
	FinishedAt        time.Time   `json:"finished_at"`
	Outcome           TickOutcome `json:"outcome"`
	Reason            string      `json:"reason,omitempty"`
	EntitiesEvaluated int         `json:"entities_evaluated"`
	EntitiesStale     int         `json:"entities_stale"`
	ActionsApplied    int         `json:"actions_applied"`
	ActionsFailed     int         `json:"actions_failed"`
}

// TickCommit é o lote transacional de um tick: ou tudo é gravado, ou nada.
// Isso preserva a correção do contador de histerese em caso de aborto.
type TickCommit struct {
	Run              *TickRun
	Snapshots        []*MetricsSnapshot
	Decisions        []*GuardianDecision
	LifecycleUpdates map[string]LifecycleState
	Ledgers          []*LossLedger
}
