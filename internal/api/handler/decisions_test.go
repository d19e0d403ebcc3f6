package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/profit-guardian/infrastructure/repository/mocks"
	"github.com/vfg2006/profit-guardian/internal/api/handler/router"
	"github.com/vfg2006/profit-guardian/internal/config"
	"github.com/vfg2006/profit-guardian/internal/domain"
)

func testGuardianConfig() *config.Config {
	return &config.Config{
		Guardian: config.Guardian{
			HistoryTicks:    12,
			LossWindowHours: 24,
		},
	}
}

func TestListTickDecisions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockGuardianStore(ctrl)
	store.EXPECT().
		ListDecisionsByTick("TICK01").
		Return([]*domain.GuardianDecision{
			{ID: "DEC001", TickID: "TICK01", EntityID: "ENT001", Action: domain.ActionPause},
			{ID: "DEC002", TickID: "TICK01", EntityID: "ENT002", Action: domain.ActionNone},
		}, nil).
		Times(1)

	rt := router.New(router.WithRoutes(router.Route{
		Path:    "/v1/ticks/:id/decisions",
		Method:  http.MethodGet,
		Handler: ListTickDecisions(store),
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/ticks/TICK01/decisions", nil)
	recorder := httptest.NewRecorder()
	rt.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var decisions []*domain.GuardianDecision
	assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&decisions))
	assert.Len(t, decisions, 2)
	assert.Equal(t, "ENT001", decisions[0].EntityID)
	assert.Equal(t, domain.ActionPause, decisions[0].Action)
}

func TestListEntitySnapshots(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	snapshotRepo := mocks.NewMockSnapshotRepository(ctrl)
	snapshotRepo.EXPECT().
		ListRecent("ENT001", gomock.Any(), uint64(12)).
		Return([]*domain.MetricsSnapshot{
			{ID: "SNAP01", EntityID: "ENT001", Spend: 42.5, Clicks: 17, TickAt: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)},
		}, nil).
		Times(1)

	rt := router.New(router.WithRoutes(router.Route{
		Path:    "/v1/entities/:id/snapshots",
		Method:  http.MethodGet,
		Handler: ListEntitySnapshots(snapshotRepo, testGuardianConfig()),
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/entities/ENT001/snapshots", nil)
	recorder := httptest.NewRecorder()
	rt.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var snapshots []*domain.MetricsSnapshot
	assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&snapshots))
	assert.Len(t, snapshots, 1)
	assert.Equal(t, "ENT001", snapshots[0].EntityID)
	assert.Equal(t, int64(17), snapshots[0].Clicks)
}

func TestListEntitySnapshots_LimiteInvalido(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	snapshotRepo := mocks.NewMockSnapshotRepository(ctrl)

	rt := router.New(router.WithRoutes(router.Route{
		Path:    "/v1/entities/:id/snapshots",
		Method:  http.MethodGet,
		Handler: ListEntitySnapshots(snapshotRepo, testGuardianConfig()),
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/entities/ENT001/snapshots?limit=abc", nil)
	recorder := httptest.NewRecorder()
	rt.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
