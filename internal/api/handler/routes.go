package handler

import (
	"net/http"

	"github.com/vfg2006/profit-guardian/infrastructure/repository"
	"github.com/vfg2006/profit-guardian/internal/api/handler/router"
	"github.com/vfg2006/profit-guardian/internal/config"
	"github.com/vfg2006/profit-guardian/internal/scheduler"
	"github.com/vfg2006/profit-guardian/internal/usecases/authenticating"
	"github.com/vfg2006/profit-guardian/internal/usecases/managing"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
	}
}

func Entities(service managing.Service, store repository.GuardianStore, cfg *config.Config) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/entities",
			Method:  http.MethodGet,
			Handler: ListEntities(service),
		},
		{
			Path:    "/v1/entities",
			Method:  http.MethodPost,
			Handler: RegisterEntity(service),
		},
		{
			Path:    "/v1/entities/:id",
			Method:  http.MethodGet,
			Handler: GetEntity(service),
		},
		{
			Path:    "/v1/entities/:id/budget",
			Method:  http.MethodPut,
			Handler: UpdateEntityBudget(service),
		},
		{
			Path:    "/v1/entities/:id/pause",
			Method:  http.MethodPost,
			Handler: PauseEntity(service),
		},
		{
			Path:    "/v1/entities/:id/resume",
			Method:  http.MethodPost,
			Handler: ResumeEntity(service),
		},
		{
			Path:    "/v1/entities/:id/state",
			Method:  http.MethodGet,
			Handler: GetEntityState(service, store),
		},
		{
			Path:    "/v1/entities/:id/decisions",
			Method:  http.MethodGet,
			Handler: ListEntityDecisions(store, cfg),
		},
	}
}

func Guardian(service *scheduler.GuardianTickService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/guardian/enable",
			Method:  http.MethodPost,
			Handler: EnableGuardian(service),
		},
		{
			Path:    "/v1/guardian/disable",
			Method:  http.MethodPost,
			Handler: DisableGuardian(service),
		},
		{
			Path:    "/v1/guardian/toggle",
			Method:  http.MethodPost,
			Handler: ToggleGuardian(service),
		},
		{
			Path:    "/v1/guardian/run",
			Method:  http.MethodPost,
			Handler: RunGuardianTick(service),
		},
		{
			Path:    "/v1/guardian/status",
			Method:  http.MethodGet,
			Handler: GetGuardianStatus(service),
		},
	}
}

func Observability(
	service managing.Service,
	store repository.GuardianStore,
	snapshotRepo repository.SnapshotRepository,
	cfg *config.Config,
) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/ledgers",
			Method:  http.MethodGet,
			Handler: ListLossLedgers(store),
		},
		{
			Path:    "/v1/campaigns/:id/ledger",
			Method:  http.MethodGet,
			Handler: GetLossLedger(store),
		},
		{
			Path:    "/v1/ticks",
			Method:  http.MethodGet,
			Handler: ListTickRuns(store),
		},
		{
			Path:    "/v1/ticks/:id/decisions",
			Method:  http.MethodGet,
			Handler: ListTickDecisions(store),
		},
		{
			Path:    "/v1/entities/:id/snapshots",
			Method:  http.MethodGet,
			Handler: ListEntitySnapshots(snapshotRepo, cfg),
		},
		{
			Path:    "/v1/decisions/summary",
			Method:  http.MethodGet,
			Handler: GetDecisionSummary(service, store),
		},
	}
}
