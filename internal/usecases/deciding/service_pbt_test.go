package deciding

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/vfg2006/profit-guardian/internal/domain"
)

// tickEvent é um tick sintético sobre uma única entidade: sinal de
// lucratividade aleatório mais os flags de circuito e pausa manual.
type tickEvent struct {
	WindowProfit   float64
	Clicks         int64
	Basis          domain.SignalBasis
	Confidence     domain.Confidence
	PacingRatio    float64
	Stale          bool
	CampaignHalted bool
	ManualPause    bool
}

func tickEventGen() *rapid.Generator[tickEvent] {
	return rapid.Custom(func(t *rapid.T) tickEvent {
		basis := rapid.SampledFrom([]domain.SignalBasis{
			domain.BasisValue, domain.BasisProxy, domain.BasisNeutral,
		}).Draw(t, "basis")

		profit := rapid.Float64Range(-500, 500).Draw(t, "profit")
		if basis == domain.BasisNeutral {
			profit = 0
		}

		clicks := rapid.Int64Range(0, 200).Draw(t, "clicks")
		confidence := domain.ConfidenceHigh
		if clicks < 10 {
			confidence = domain.ConfidenceLow
		}

		return tickEvent{
			WindowProfit:   profit,
			Clicks:         clicks,
			Basis:          basis,
			Confidence:     confidence,
			PacingRatio:    rapid.Float64Range(0, 3).Draw(t, "pacing"),
			Stale:          rapid.Bool().Draw(t, "stale"),
			CampaignHalted: rapid.Bool().Draw(t, "halted"),
			ManualPause:    rapid.Bool().Draw(t, "manual"),
		}
	})
}

func (ev tickEvent) toInput(entity *domain.ManagedEntity, tickAt time.Time) DecideInput {
	eval := &domain.EntityEvaluation{Entity: entity, Stale: ev.Stale}
	if !ev.Stale {
		eval.Pacing = &domain.PacingState{EntityID: entity.ID, Ratio: ev.PacingRatio, HasSignal: true}
		eval.Profit = &domain.ProfitabilitySignal{
			EntityID:     entity.ID,
			WindowProfit: ev.WindowProfit,
			Clicks:       ev.Clicks,
			Basis:        ev.Basis,
			Confidence:   ev.Confidence,
		}
	}

	return DecideInput{
		Evaluation:          eval,
		CampaignHalted:      ev.CampaignHalted,
		ManualPauseObserved: ev.ManualPause,
		TickID:              "TICKPBT",
		TickAt:              tickAt,
	}
}

// Propriedades estruturais da máquina de estados: valem para qualquer
// sequência de ticks, não importa a ordem dos sinais.
func TestEngine_Propriedades(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		engine := newTestEngine()
		entity := newEntity(domain.LifecycleActive)

		events := rapid.SliceOfN(tickEventGen(), 1, 40).Draw(rt, "events")
		tickAt := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

		manuallyPaused := false

		for _, ev := range events {
			fromState, tracked := engine.CurrentState(entity.ID)
			if !tracked {
				fromState = entity.LifecycleState
			}

			decision := engine.Decide(ev.toInput(entity, tickAt))
			tickAt = tickAt.Add(15 * time.Minute)

			// A decisão sempre pertence à entidade e ao tick avaliados
			if decision.EntityID != entity.ID || decision.TickID != "TICKPBT" {
				rt.Fatalf("decisão com identidade errada: %+v", decision)
			}

			// FromState reflete o estado antes do tick; o estado em memória
			// depois do tick é sempre o ToState da decisão
			if decision.FromState != fromState {
				rt.Fatalf("FromState %s difere do estado anterior %s", decision.FromState, fromState)
			}
			current, ok := engine.CurrentState(entity.ID)
			if !ok || current != decision.ToState {
				rt.Fatalf("estado em memória %s difere do ToState %s", current, decision.ToState)
			}

			// Entidade pausada manualmente nunca recebe RESUME do guardian
			if manuallyPaused && decision.Action == domain.ActionResume {
				rt.Fatalf("RESUME emitido para entidade pausada manualmente")
			}
			if decision.ToState == domain.LifecycleManuallyPaused {
				manuallyPaused = true
			}

			// Interrupção de circuito domina: com o circuito aberto a
			// entidade nunca volta ao estado ativo
			if ev.CampaignHalted && decision.Action == domain.ActionResume {
				rt.Fatalf("RESUME emitido com circuito da campanha aberto")
			}

			// Ações de plataforma carregam transição e chave de idempotência
			switch decision.Action {
			case domain.ActionPause:
				if decision.ToState != domain.LifecycleGuardianPaused && decision.ToState != domain.LifecycleCircuitHalted {
					rt.Fatalf("PAUSE com ToState inesperado %s", decision.ToState)
				}
				if decision.IdempotencyKey == "" {
					rt.Fatalf("PAUSE sem chave de idempotência")
				}
			case domain.ActionResume:
				if decision.ToState != domain.LifecycleActive {
					rt.Fatalf("RESUME com ToState inesperado %s", decision.ToState)
				}
				if decision.IdempotencyKey == "" {
					rt.Fatalf("RESUME sem chave de idempotência")
				}
			case domain.ActionNone, domain.ActionRepace:
				// REPACE nunca muda o ciclo de vida; NONE só muda quando a
				// pausa manual é observada
				if decision.Action == domain.ActionRepace && decision.ToState != decision.FromState {
					rt.Fatalf("REPACE mudou o estado de %s para %s", decision.FromState, decision.ToState)
				}
			}

			// Contadores registrados nunca ultrapassam o limiar de histerese
			if decision.Signals.NegativeStreak >= 2 || decision.Signals.RecoveredStreak >= 2 {
				rt.Fatalf("contador registrado acima do limiar: %+v", decision.Signals)
			}
		}
	})
}

// A recomposição do histórico reproduz exatamente o que o motor faria se
// nunca tivesse reiniciado.
func TestEngine_RecomposicaoDeterministica(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		entity := newEntity(domain.LifecycleActive)
		events := rapid.SliceOfN(tickEventGen(), 2, 30).Draw(rt, "events")
		restartAt := rapid.IntRange(1, len(events)-1).Draw(rt, "restartAt")

		tickAt := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

		continuous := newTestEngine()
		restarted := newTestEngine()

		var lastDecision *domain.GuardianDecision

		for i, ev := range events {
			if i == restartAt {
				// Motor novo recomposto apenas do snapshot persistido: a
				// última decisão carrega estado e contadores
				entityAfter := *entity
				entityAfter.LifecycleState = lastDecision.ToState

				fresh := newTestEngine()
				fresh.LoadFromHistory(
					[]*domain.ManagedEntity{&entityAfter},
					map[string]*domain.GuardianDecision{entity.ID: lastDecision},
				)
				restarted = fresh
			}

			a := continuous.Decide(ev.toInput(entity, tickAt))
			b := restarted.Decide(ev.toInput(entity, tickAt))
			tickAt = tickAt.Add(15 * time.Minute)

			if a.Action != b.Action || a.Reason != b.Reason || a.ToState != b.ToState {
				rt.Fatalf("divergência no tick %d: contínuo (%s %s %s) vs recomposto (%s %s %s)",
					i, a.Action, a.Reason, a.ToState, b.Action, b.Reason, b.ToState)
			}

			lastDecision = a
		}
	})
}
