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
	"github.com/vfg2006/profit-guardian/pkg/apiErrors"
)

// ListEntitySnapshots retorna as métricas coletadas para uma entidade dentro
// da janela de avaliação, da mais recente para a mais antiga
func ListEntitySnapshots(snapshotRepo repository.SnapshotRepository, cfg *config.Config) http.HandlerFunc {
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

		since := time.Now().UTC().Add(-cfg.Guardian.LossWindow())

		snapshots, err := snapshotRepo.ListRecent(entityID, since, limit)
		if err != nil {
			logrus.WithError(err).Error("Erro ao listar snapshots da entidade")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar snapshots da entidade", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snapshots)
	}
}
