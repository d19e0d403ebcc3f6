package domain

import (
	"time"
)

// EntityKind identifica o tipo de entidade gerenciada pelo guardian
type EntityKind string

const (
	EntityKindCampaign EntityKind = "CAMPAIGN"
	EntityKindAdGroup  EntityKind = "AD_GROUP"
	EntityKindKeyword  EntityKind = "KEYWORD"
)

// LifecycleState representa o estado de ciclo de vida de uma entidade.
// Transições acontecem exclusivamente pela máquina de estados do motor de
// decisão, exceto MANUALLY_PAUSED, que pertence ao operador.
type LifecycleState string

const (
	LifecycleActive         LifecycleState = "ACTIVE"
	LifecycleGuardianPaused LifecycleState = "GUARDIAN_PAUSED"
	LifecycleManuallyPaused LifecycleState = "MANUALLY_PAUSED"
	LifecycleCircuitHalted  LifecycleState = "CIRCUIT_HALTED"
)

// ValidEntityKind verifica se o tipo informado é reconhecido
func ValidEntityKind(kind EntityKind) bool {
	switch kind {
	case EntityKindCampaign, EntityKindAdGroup, EntityKindKeyword:
		return true
	}
	return false
}

// ManagedEntity representa uma campanha, grupo de anúncios ou keyword sob
// guardianship. Imutável exceto pelo orçamento diário, que pode ser
// atualizado externamente entre ticks.
type ManagedEntity struct {
	ID             string         `json:"id"`
	ExternalID     string         `json:"external_id"`
	Kind           EntityKind     `json:"kind"`
	CampaignID     string         `json:"campaign_id"`
	Name           string         `json:"name"`
	DailyBudget    float64        `json:"daily_budget"`
	LifecycleState LifecycleState `json:"lifecycle_state"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// IsCampaign indica se a entidade é a própria campanha (raiz do rollup)
func (e *ManagedEntity) IsCampaign() bool {
	return e.Kind == EntityKindCampaign
}
