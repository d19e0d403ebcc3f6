package evaluating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/profit-guardian/internal/config"
	"github.com/vfg2006/profit-guardian/internal/domain"
)

func newTestService() Service {
	return NewEvaluationService(&config.Config{
		Guardian: config.Guardian{
			MinClicksForDecision: 10,
			BreakevenCost:        45.0,
		},
	})
}

func TestEvaluationService_EvaluatePacing(t *testing.T) {
	service := newTestService()

	entity := &domain.ManagedEntity{ID: "ENT001", DailyBudget: 100.0}

	tests := []struct {
		name          string
		entity        *domain.ManagedEntity
		snapshot      *domain.MetricsSnapshot
		wantSignal    bool
		expectedRatio float64
	}{
		{
			name:          "Gasto no ritmo esperado deve ter razão 1",
			entity:        entity,
			snapshot:      &domain.MetricsSnapshot{Spend: 50.0, DayElapsed: 0.5},
			wantSignal:    true,
			expectedRatio: 1.0,
		},
		{
			name:          "Gasto acima do ritmo deve ter razão maior que 1",
			entity:        entity,
			snapshot:      &domain.MetricsSnapshot{Spend: 90.0, DayElapsed: 0.5},
			wantSignal:    true,
			expectedRatio: 1.8,
		},
		{
			name:       "Orçamento zerado não produz sinal de pacing",
			entity:     &domain.ManagedEntity{ID: "ENT002", DailyBudget: 0},
			snapshot:   &domain.MetricsSnapshot{Spend: 10.0, DayElapsed: 0.5},
			wantSignal: false,
		},
		{
			name:       "Início do dia não produz sinal de pacing",
			entity:     entity,
			snapshot:   &domain.MetricsSnapshot{Spend: 0, DayElapsed: 0},
			wantSignal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pacing := service.EvaluatePacing(tt.entity, tt.snapshot)

			assert.Equal(t, tt.wantSignal, pacing.HasSignal)
			if tt.wantSignal {
				assert.InDelta(t, tt.expectedRatio, pacing.Ratio, 0.0001)
			}
		})
	}
}

func TestEvaluationService_EvaluateProfitability(t *testing.T) {
	service := newTestService()

	entity := &domain.ManagedEntity{ID: "ENT001", DailyBudget: 100.0}

	tests := []struct {
		name               string
		snapshot           *domain.MetricsSnapshot
		expectedBasis      domain.SignalBasis
		expectedProfit     float64
		expectedConfidence domain.Confidence
		expectedNegative   bool
	}{
		{
			name:               "Valor de conversão disponível usa base VALUE",
			snapshot:           &domain.MetricsSnapshot{Spend: 80.0, ConversionValue: 120.0, Conversions: 3, Clicks: 40},
			expectedBasis:      domain.BasisValue,
			expectedProfit:     40.0,
			expectedConfidence: domain.ConfidenceHigh,
			expectedNegative:   false,
		},
		{
			name:               "Gasto maior que valor de conversão é negativo",
			snapshot:           &domain.MetricsSnapshot{Spend: 150.0, ConversionValue: 90.0, Conversions: 2, Clicks: 60},
			expectedBasis:      domain.BasisValue,
			expectedProfit:     -60.0,
			expectedConfidence: domain.ConfidenceHigh,
			expectedNegative:   true,
		},
		{
			name:               "Sem valor de conversão usa proxy de breakeven",
			snapshot:           &domain.MetricsSnapshot{Spend: 100.0, Conversions: 2, Clicks: 30},
			expectedBasis:      domain.BasisProxy,
			expectedProfit:     -10.0, // 45*2 - 100
			expectedConfidence: domain.ConfidenceHigh,
			expectedNegative:   true,
		},
		{
			name:               "Gasto sem conversões é perda integral via proxy",
			snapshot:           &domain.MetricsSnapshot{Spend: 60.0, Conversions: 0, Clicks: 25},
			expectedBasis:      domain.BasisProxy,
			expectedProfit:     -60.0,
			expectedConfidence: domain.ConfidenceHigh,
			expectedNegative:   true,
		},
		{
			name:               "Sem gasto e sem cliques o sinal é neutro",
			snapshot:           &domain.MetricsSnapshot{Spend: 0, Conversions: 0, Clicks: 0},
			expectedBasis:      domain.BasisNeutral,
			expectedProfit:     0,
			expectedConfidence: domain.ConfidenceLow,
			expectedNegative:   false,
		},
		{
			name:               "Poucos cliques rebaixam a confiança",
			snapshot:           &domain.MetricsSnapshot{Spend: 30.0, Conversions: 0, Clicks: 5},
			expectedBasis:      domain.BasisProxy,
			expectedProfit:     -30.0,
			expectedConfidence: domain.ConfidenceLow,
			expectedNegative:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := service.EvaluateProfitability(entity, tt.snapshot)

			assert.Equal(t, tt.expectedBasis, signal.Basis)
			assert.InDelta(t, tt.expectedProfit, signal.WindowProfit, 0.0001)
			assert.Equal(t, tt.expectedConfidence, signal.Confidence)
			assert.Equal(t, tt.expectedNegative, signal.Negative())
		})
	}
}

func TestEvaluationService_Evaluate(t *testing.T) {
	service := newTestService()

	entity := &domain.ManagedEntity{ID: "ENT001", DailyBudget: 100.0}
	snapshot := &domain.MetricsSnapshot{
		TickAt:          time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
		Spend:           50.0,
		ConversionValue: 75.0,
		Conversions:     2,
		Clicks:          20,
		DayElapsed:      0.5,
	}

	evaluation := service.Evaluate(entity, snapshot, false)

	assert.Equal(t, entity, evaluation.Entity)
	assert.False(t, evaluation.Stale)
	assert.True(t, evaluation.Pacing.HasSignal)
	assert.InDelta(t, 1.0, evaluation.Pacing.Ratio, 0.0001)
	assert.Equal(t, domain.BasisValue, evaluation.Profit.Basis)
	assert.InDelta(t, 25.0, evaluation.Profit.WindowProfit, 0.0001)
}

func TestDayFraction(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected float64
	}{
		{
			name:     "Meio-dia é metade do dia",
			input:    time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
			expected: 0.5,
		},
		{
			name:     "Meia-noite é início do dia",
			input:    time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			expected: 0,
		},
		{
			name:     "Seis da manhã é um quarto do dia",
			input:    time.Date(2024, 6, 10, 6, 0, 0, 0, time.UTC),
			expected: 0.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, domain.DayFraction(tt.input), 0.0001)
		})
	}
}
