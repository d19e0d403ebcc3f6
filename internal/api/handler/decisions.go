package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/profit-guardian/infrastructure/repository"
	"github.com/vfg2006/profit-guardian/internal/config"
	"github.com/vfg2006/profit-guardian/internal/domain"
	"github.com/vfg2006/profit-guardian/internal/usecases/managing"
	"github.com/vfg2006/profit-guardian/pkg/apiErrors"
)

// GetEntityState retorna a entidade com sua decisão mais recente. A decisão
// mais recente é o estado corrente autoritativo da entidade.
func GetEntityState(service managing.Service, store repository.GuardianStore) http.HandlerFunc {
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

		decision, err := store.GetLatestDecision(entityID)
		if err != nil {
			logrus.WithError(err).Error("Erro ao buscar a última decisão da entidade")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar a última decisão", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"entity":          entity,
			"latest_decision": decision,
		})
	}
}

// ListEntityDecisions retorna o histórico de decisões de uma entidade, da
// mais recente para a mais antiga
func ListEntityDecisions(store repository.GuardianStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if entityID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da entidade não fornecido", nil)
			return
		}

		limit := uint64(cfg.Guardian.HistoryTicks)
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro limit inválido", nil)
				return
			}
			if parsed < limit {
				limit = parsed
			}
		}

		decisions, err := store.ListDecisionHistory(entityID, limit)
		if err != nil {
			logrus.WithError(err).Error("Erro ao listar o histórico de decisões")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar o histórico de decisões", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(decisions)
	}
}

// ListTickDecisions retorna todas as decisões registradas por um tick, a
// visão detalhada do que o guardian fez em um ciclo
func ListTickDecisions(store repository.GuardianStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tickID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if tickID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do tick não fornecido", nil)
			return
		}

		decisions, err := store.ListDecisionsByTick(tickID)
		if err != nil {
			logrus.WithError(err).Error("Erro ao listar decisões do tick")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar decisões do tick", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(decisions)
	}
}

// GetLossLedger retorna o ledger de perda de uma campanha
func GetLossLedger(store repository.GuardianStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campaignID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if campaignID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da campanha não fornecido", nil)
			return
		}

		ledger, err := store.GetLossLedger(campaignID)
		if err != nil {
			logrus.WithError(err).Error("Erro ao buscar o ledger de perda")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar o ledger de perda", nil)
			return
		}
		if ledger == nil {
			apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Ledger não encontrado para a campanha", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ledger)
	}
}

// ListLossLedgers retorna os ledgers de perda por campanha
func ListLossLedgers(store repository.GuardianStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ledgers, err := store.ListLossLedgers()
		if err != nil {
			logrus.WithError(err).Error("Erro ao listar os ledgers de perda")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar os ledgers de perda", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ledgers)
	}
}

// ListTickRuns retorna os desfechos dos ticks mais recentes
func ListTickRuns(store repository.GuardianStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := uint64(50)
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro limit inválido", nil)
				return
			}
			limit = parsed
		}

		runs, err := store.ListTickRuns(limit)
		if err != nil {
			logrus.WithError(err).Error("Erro ao listar os ticks")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar os ticks", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(runs)
	}
}

// GetDecisionSummary agrega as decisões das últimas 24 horas por ação e o
// quadro geral das entidades sob guardianship
func GetDecisionSummary(service managing.Service, store repository.GuardianStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		since := time.Now().UTC().Add(-24 * time.Hour)

		counts, err := store.DecisionCountsSince(since)
		if err != nil {
			logrus.WithError(err).Error("Erro ao agregar decisões")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao agregar decisões", nil)
			return
		}

		entities, err := service.ListEntities()
		if err != nil {
			logrus.WithError(err).Error("Erro ao listar entidades para o resumo")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar entidades", nil)
			return
		}

		byState := make(map[domain.LifecycleState]int, 4)
		for _, entity := range entities {
			byState[entity.LifecycleState]++
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"since":              since,
			"counts":             counts,
			"entities_watched":   len(entities),
			"entities_by_state":  byState,
			"paused_by_guardian": byState[domain.LifecycleGuardianPaused],
		})
	}
}
