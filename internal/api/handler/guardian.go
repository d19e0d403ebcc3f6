package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/profit-guardian/internal/scheduler"
	"github.com/vfg2006/profit-guardian/pkg/apiErrors"
)

// EnableGuardian arma o loop de controle
func EnableGuardian(service *scheduler.GuardianTickService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		service.Enable()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"enabled": true,
		})
	}
}

// DisableGuardian desarma o loop de controle sem derrubar o agendador
func DisableGuardian(service *scheduler.GuardianTickService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		service.Disable()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"enabled": false,
		})
	}
}

// ToggleGuardian inverte o estado do loop de controle
func ToggleGuardian(service *scheduler.GuardianTickService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		enabled := service.Toggle()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"enabled": enabled,
		})
	}
}

// RunGuardianTick dispara um tick imediato fora do agendamento
func RunGuardianTick(service *scheduler.GuardianTickService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunGuardianTick")

		if !service.IsEnabled() {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Loop de controle desarmado; arme antes de disparar um tick", nil)
			return
		}

		service.TriggerManualTick(r.Context())

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Tick iniciado com sucesso",
		})
	}
}

// GetGuardianStatus retorna o estado corrente do loop de controle
func GetGuardianStatus(service *scheduler.GuardianTickService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.GetStatus())
	}
}
