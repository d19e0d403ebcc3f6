package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vfg2006/profit-guardian/internal/domain"
)

// O created_at gravado precisa ser o timestamp do tick carregado pela
// decisão; se a coluna ficar de fora do insert o default NOW() do banco
// descola o registro de auditoria do tick_at e da chave de idempotência.
func TestDecisionInsertQuery_GravaCreatedAtDaDecisao(t *testing.T) {
	tickAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	decisions := []*domain.GuardianDecision{
		{
			ID:             "DEC001",
			TickID:         "TICK01",
			EntityID:       "ENT001",
			CampaignID:     "CMP001",
			Action:         domain.ActionPause,
			Reason:         domain.ReasonUnprofitable,
			FromState:      domain.LifecycleActive,
			ToState:        domain.LifecycleGuardianPaused,
			Signals:        &domain.DecisionSignals{},
			ApplyStatus:    domain.ApplyApplied,
			IdempotencyKey: domain.IdempotencyKeyFor("ENT001", domain.LifecycleGuardianPaused, tickAt),
			CreatedAt:      tickAt,
		},
	}

	sqlQuery, args, err := decisionInsertQuery(decisions)

	assert.NoError(t, err)
	assert.True(t, strings.Contains(sqlQuery, "created_at"), "o insert deve incluir a coluna created_at")
	assert.Len(t, args, 12)
	assert.Equal(t, tickAt, args[len(args)-1], "o último argumento deve ser o timestamp do tick, não o default do banco")
}
