package domain

import (
	"time"
)

// LossLedger acumula a perda líquida de uma campanha dentro de uma janela
// móvel. Monotônico dentro da janela; zera quando a janela rola.
type LossLedger struct {
	CampaignID     string    `json:"campaign_id"`
	WindowStart    time.Time `json:"window_start"`
	CumulativeLoss float64   `json:"cumulative_loss"`
	Halted         bool      `json:"halted"`
	HaltReason     string    `json:"halt_reason,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LossRatePerHour é a taxa de perda por hora decorrida da janela
func (l *LossLedger) LossRatePerHour(now time.Time) float64 {
	elapsed := now.Sub(l.WindowStart).Hours()
	if elapsed <= 0 {
		return 0
	}
	return l.CumulativeLoss / elapsed
}

// WindowExpired verifica se a janela já passou da duração configurada
func (l *LossLedger) WindowExpired(now time.Time, window time.Duration) bool {
	return now.Sub(l.WindowStart) >= window
}
