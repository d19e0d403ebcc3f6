package domain

// Confidence indica quanto volume de dados sustenta um sinal
type Confidence string

const (
	ConfidenceLow  Confidence = "LOW"
	ConfidenceHigh Confidence = "HIGH"
)

// SignalBasis indica a origem da estimativa de rentabilidade
type SignalBasis string

const (
	// BasisValue: valor de conversão atribuído disponível
	BasisValue SignalBasis = "VALUE"
	// BasisProxy: estimado via custo de breakeven por conversão
	BasisProxy SignalBasis = "PROXY"
	// BasisNeutral: sem gasto e sem cliques na janela, nenhum sinal
	BasisNeutral SignalBasis = "NEUTRAL"
)

// PacingState é o estado de ritmo de gasto derivado por tick.
// HasSignal é falso quando o gasto esperado até agora é zero: nesse caso a
// razão de pacing é indefinida, nunca zero nem divisão por zero.
type PacingState struct {
	EntityID    string  `json:"entity_id"`
	TargetSpend float64 `json:"target_spend"`
	ActualSpend float64 `json:"actual_spend"`
	Ratio       float64 `json:"ratio"`
	HasSignal   bool    `json:"has_signal"`
}

// ProfitabilitySignal é a estimativa de lucro na janela móvel.
// Sinais de confiança LOW só podem justificar ações reversíveis (REPACE).
type ProfitabilitySignal struct {
	EntityID     string      `json:"entity_id"`
	WindowProfit float64     `json:"window_profit"`
	WindowSpend  float64     `json:"window_spend"`
	WindowValue  float64     `json:"window_value"`
	Conversions  int64       `json:"conversions"`
	Clicks       int64       `json:"clicks"`
	Basis        SignalBasis `json:"basis"`
	Confidence   Confidence  `json:"confidence"`
}

// Negative indica rentabilidade negativa na janela. Sinais neutros nunca
// são negativos.
func (s *ProfitabilitySignal) Negative() bool {
	return s.Basis != BasisNeutral && s.WindowProfit < 0
}

// EntityEvaluation agrupa os sinais derivados de uma entidade em um tick
type EntityEvaluation struct {
	Entity *ManagedEntity
	Pacing *PacingState
	Profit *ProfitabilitySignal
	// Stale indica que a coleta de métricas falhou neste tick e os
	// sinais não devem alimentar o contador de histerese
	Stale bool
}
