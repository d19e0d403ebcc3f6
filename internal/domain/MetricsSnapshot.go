package domain

import (
	"time"
)

// MetricsSnapshot é o resultado de uma coleta de métricas para uma entidade
// em um tick. Imutável depois de registrado; o histórico é append-only com
// chave (entity_id, tick_at).
type MetricsSnapshot struct {
	ID              string    `json:"id"`
	EntityID        string    `json:"entity_id"`
	TickAt          time.Time `json:"tick_at"`
	Spend           float64   `json:"spend"`
	Conversions     int64     `json:"conversions"`
	ConversionValue float64   `json:"conversion_value"`
	Clicks          int64     `json:"clicks"`
	Impressions     int64     `json:"impressions"`
	DayElapsed      float64   `json:"day_elapsed"`
	CreatedAt       time.Time `json:"created_at"`
}

// DayFraction calcula a fração do dia decorrida para um instante
func DayFraction(t time.Time) float64 {
	elapsed := t.Sub(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()))
	return elapsed.Hours() / 24
}
