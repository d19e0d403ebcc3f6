package protecting

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/profit-guardian/internal/config"
	"github.com/vfg2006/profit-guardian/internal/domain"
)

// Motivos de disparo do circuito registrados no ledger
const (
	HaltReasonAbsoluteLimit = "ABSOLUTE_LIMIT"
	HaltReasonLossRate      = "LOSS_RATE_LIMIT"
)

// Service é o protetor de capital: acumula perdas por campanha em uma
// janela móvel e dispara o circuito quando um limite é cruzado. O circuito
// vale para a campanha inteira, incluindo entidades individualmente
// lucrativas.
type Service interface {
	Assess(ledger *domain.LossLedger, campaignID string, intervalLoss float64, now time.Time) *domain.LossLedger
	IntervalLoss(previousProfit, currentProfit float64, sameWindow bool) float64
}

type ProtectionService struct {
	cfg *config.Config
}

func NewProtectionService(cfg *config.Config) Service {
	return &ProtectionService{
		cfg: cfg,
	}
}

// IntervalLoss converte a variação de lucro entre dois ticks em perda do
// intervalo. A perda nunca é negativa: lucro no intervalo não abate o
// acumulado do ledger. Quando a janela de métricas reiniciou (novo dia),
// o lucro corrente é o próprio intervalo.
func (s *ProtectionService) IntervalLoss(previousProfit, currentProfit float64, sameWindow bool) float64 {
	intervalProfit := currentProfit
	if sameWindow {
		intervalProfit = currentProfit - previousProfit
	}

	if intervalProfit >= 0 {
		return 0
	}

	loss := -intervalProfit

	// Perdas dentro da tolerância por intervalo não contam
	loss -= s.cfg.Guardian.AcceptableLossInterval
	if loss < 0 {
		return 0
	}

	return loss
}

// Assess aplica a perda do intervalo ao ledger da campanha e avalia os
// limites de perda absoluta e de taxa de perda por hora. A janela zera
// quando expira, o que também limpa um circuito disparado.
func (s *ProtectionService) Assess(ledger *domain.LossLedger, campaignID string, intervalLoss float64, now time.Time) *domain.LossLedger {
	if ledger == nil {
		ledger = &domain.LossLedger{
			CampaignID:  campaignID,
			WindowStart: now,
		}
	}

	if ledger.WindowExpired(now, s.cfg.Guardian.LossWindow()) {
		if ledger.Halted {
			logrus.WithFields(logrus.Fields{
				"campaign_id": campaignID,
				"loss":        ledger.CumulativeLoss,
			}).Info("guardian: janela de perdas expirou, circuito da campanha liberado")
		}

		ledger.WindowStart = now
		ledger.CumulativeLoss = 0
		ledger.Halted = false
		ledger.HaltReason = ""
	}

	ledger.CumulativeLoss += intervalLoss
	ledger.UpdatedAt = now

	if ledger.Halted {
		return ledger
	}

	if ledger.CumulativeLoss >= s.cfg.Guardian.AbsoluteLossLimit {
		ledger.Halted = true
		ledger.HaltReason = HaltReasonAbsoluteLimit

		logrus.WithFields(logrus.Fields{
			"campaign_id": campaignID,
			"loss":        ledger.CumulativeLoss,
			"limit":       s.cfg.Guardian.AbsoluteLossLimit,
		}).Warn("guardian: limite absoluto de perda cruzado, campanha interrompida")

		return ledger
	}

	if rate := ledger.LossRatePerHour(now); rate > s.cfg.Guardian.LossRateLimitPerHour {
		ledger.Halted = true
		ledger.HaltReason = HaltReasonLossRate

		logrus.WithFields(logrus.Fields{
			"campaign_id": campaignID,
			"loss_rate":   rate,
			"limit":       s.cfg.Guardian.LossRateLimitPerHour,
		}).Warn("guardian: taxa de perda por hora cruzada, campanha interrompida")
	}

	return ledger
}
