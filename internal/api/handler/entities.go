package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/profit-guardian/internal/usecases/managing"
	"github.com/vfg2006/profit-guardian/pkg/apiErrors"
)

type UpdateBudgetRequest struct {
	DailyBudget float64 `json:"daily_budget"`
}

// ListEntities retorna todas as entidades sob guardianship
func ListEntities(service managing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entities, err := service.ListEntities()
		if err != nil {
			logrus.WithError(err).Error("Erro ao listar entidades")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar entidades", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entities)
	}
}

// RegisterEntity coloca uma entidade da plataforma sob guardianship
func RegisterEntity(service managing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req managing.RegisterEntityInput

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		entity, err := service.RegisterEntity(req)
		if err != nil {
			handleEntityError(w, err, "Erro ao registrar entidade")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(entity)
	}
}

// GetEntity retorna uma entidade pelo identificador interno
func GetEntity(service managing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if entityID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da entidade não fornecido", nil)
			return
		}

		entity, err := service.GetEntity(entityID)
		if err != nil {
			handleEntityError(w, err, "Erro ao buscar entidade")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entity)
	}
}

// UpdateEntityBudget atualiza o orçamento diário de uma entidade
func UpdateEntityBudget(service managing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if entityID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da entidade não fornecido", nil)
			return
		}

		var req UpdateBudgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if err := service.UpdateDailyBudget(entityID, req.DailyBudget); err != nil {
			handleEntityError(w, err, "Erro ao atualizar orçamento")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"entity_id":    entityID,
			"daily_budget": req.DailyBudget,
		})
	}
}

// PauseEntity pausa uma entidade manualmente em nome do operador
func PauseEntity(service managing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if entityID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da entidade não fornecido", nil)
			return
		}

		if err := service.PauseManually(entityID); err != nil {
			handleEntityError(w, err, "Erro ao pausar entidade")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"entity_id": entityID,
			"state":     "MANUALLY_PAUSED",
		})
	}
}

// ResumeEntity devolve uma entidade pausada manualmente ao controle do guardian
func ResumeEntity(service managing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if entityID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da entidade não fornecido", nil)
			return
		}

		if err := service.ResumeManually(entityID); err != nil {
			handleEntityError(w, err, "Erro ao retomar entidade")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"entity_id": entityID,
			"state":     "ACTIVE",
		})
	}
}

func handleEntityError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, managing.ErrEntityNotFound):
		apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Entidade não encontrada", nil)

	case errors.Is(err, managing.ErrInvalidEntityKind),
		errors.Is(err, managing.ErrInvalidBudget),
		errors.Is(err, managing.ErrNotManuallyPaused):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)

	default:
		logrus.WithError(err).Error(fallback)
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
	}
}
