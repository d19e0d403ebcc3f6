package adsdomain

// Status de entidade reconhecidos pela plataforma de anúncios
const (
	StatusEnabled = "ENABLED"
	StatusPaused  = "PAUSED"
)

// EntityMetrics representa as métricas de uma entidade como retornadas
// pela API da plataforma de anúncios. Valores numéricos chegam como
// strings e são convertidos pelo integrador.
type EntityMetrics struct {
	EntityID        string `json:"entity_id"`
	Status          string `json:"status"`
	Spend           string `json:"spend"`
	Conversions     string `json:"conversions"`
	ConversionValue string `json:"conversion_value"`
	Clicks          string `json:"clicks"`
	Impressions     string `json:"impressions"`
}

// StatusAck é a confirmação da plataforma para uma mudança de status
type StatusAck struct {
	EntityID string `json:"entity_id"`
	Status   string `json:"status"`
	Success  bool   `json:"success"`
}
