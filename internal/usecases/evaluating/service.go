package evaluating

import (
	"github.com/vfg2006/profit-guardian/internal/config"
	"github.com/vfg2006/profit-guardian/internal/domain"
)

// Service deriva os sinais de ritmo de gasto e lucratividade a partir do
// snapshot de métricas de uma entidade. É pura: não toca banco nem rede.
type Service interface {
	Evaluate(entity *domain.ManagedEntity, snapshot *domain.MetricsSnapshot, stale bool) *domain.EntityEvaluation
	EvaluatePacing(entity *domain.ManagedEntity, snapshot *domain.MetricsSnapshot) *domain.PacingState
	EvaluateProfitability(entity *domain.ManagedEntity, snapshot *domain.MetricsSnapshot) *domain.ProfitabilitySignal
}

type EvaluationService struct {
	cfg *config.Config
}

func NewEvaluationService(cfg *config.Config) Service {
	return &EvaluationService{
		cfg: cfg,
	}
}

func (s *EvaluationService) Evaluate(entity *domain.ManagedEntity, snapshot *domain.MetricsSnapshot, stale bool) *domain.EntityEvaluation {
	return &domain.EntityEvaluation{
		Entity: entity,
		Pacing: s.EvaluatePacing(entity, snapshot),
		Profit: s.EvaluateProfitability(entity, snapshot),
		Stale:  stale,
	}
}

// EvaluatePacing compara o gasto acumulado do dia com o gasto esperado
// para a fração do dia decorrida. Quando o gasto esperado é zero (orçamento
// zerado ou primeiro instante do dia) a razão é indefinida, nunca infinita.
func (s *EvaluationService) EvaluatePacing(entity *domain.ManagedEntity, snapshot *domain.MetricsSnapshot) *domain.PacingState {
	pacing := &domain.PacingState{
		EntityID:    entity.ID,
		ActualSpend: snapshot.Spend,
	}

	targetSpend := entity.DailyBudget * snapshot.DayElapsed
	if targetSpend <= 0 {
		pacing.HasSignal = false
		return pacing
	}

	pacing.TargetSpend = targetSpend
	pacing.Ratio = snapshot.Spend / targetSpend
	pacing.HasSignal = true

	return pacing
}

// EvaluateProfitability calcula o lucro da janela. Com valor de conversão
// reportado usa valor menos gasto; sem valor, aproxima pelo custo de
// equilíbrio por conversão. Sem gasto e sem cliques o sinal é neutro.
func (s *EvaluationService) EvaluateProfitability(entity *domain.ManagedEntity, snapshot *domain.MetricsSnapshot) *domain.ProfitabilitySignal {
	signal := &domain.ProfitabilitySignal{
		EntityID:    entity.ID,
		WindowSpend: snapshot.Spend,
		WindowValue: snapshot.ConversionValue,
		Conversions: snapshot.Conversions,
		Clicks:      snapshot.Clicks,
		Confidence:  domain.ConfidenceHigh,
	}

	if snapshot.Clicks < s.cfg.Guardian.MinClicksForDecision {
		signal.Confidence = domain.ConfidenceLow
	}

	if snapshot.Spend == 0 && snapshot.Clicks == 0 {
		signal.Basis = domain.BasisNeutral
		return signal
	}

	if snapshot.ConversionValue > 0 {
		signal.Basis = domain.BasisValue
		signal.WindowProfit = snapshot.ConversionValue - snapshot.Spend
		return signal
	}

	signal.Basis = domain.BasisProxy
	signal.WindowProfit = s.cfg.Guardian.BreakevenCost*float64(snapshot.Conversions) - snapshot.Spend

	return signal
}
