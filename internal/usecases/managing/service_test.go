package managing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	adsdomain "github.com/vfg2006/profit-guardian/infrastructure/integrator/ads/domain"
	adsmocks "github.com/vfg2006/profit-guardian/infrastructure/integrator/ads/mocks"
	repomocks "github.com/vfg2006/profit-guardian/infrastructure/repository/mocks"
	"github.com/vfg2006/profit-guardian/internal/config"
	"github.com/vfg2006/profit-guardian/internal/domain"
	"github.com/vfg2006/profit-guardian/internal/usecases/deciding"
)

func newTestEngine() *deciding.Engine {
	return deciding.NewEngine(&config.Config{
		Guardian: config.Guardian{
			HysteresisTicks:      2,
			MinClicksForDecision: 10,
			OverpaceRatio:        1.5,
		},
	})
}

func managedEntity(state domain.LifecycleState) *domain.ManagedEntity {
	return &domain.ManagedEntity{
		ID:             "ENT001",
		ExternalID:     "ext-9001",
		Kind:           domain.EntityKindAdGroup,
		CampaignID:     "CMP001",
		Name:           "Grupo Teste",
		DailyBudget:    100.0,
		LifecycleState: state,
	}
}

func TestManagementService_RegisterEntity(t *testing.T) {
	tests := []struct {
		name        string
		input       RegisterEntityInput
		setupMocks  func(repo *repomocks.MockEntityRepository)
		expectedErr error
	}{
		{
			name: "registro valido persiste e sincroniza o motor",
			input: RegisterEntityInput{
				ExternalID:  "ext-9001",
				Kind:        domain.EntityKindAdGroup,
				CampaignID:  "CMP001",
				Name:        "Grupo Teste",
				DailyBudget: 100.0,
			},
			setupMocks: func(repo *repomocks.MockEntityRepository) {
				repo.EXPECT().SaveOrUpdate(gomock.Any()).Return(nil).Times(1)
				repo.EXPECT().GetByExternalID("ext-9001").Return(managedEntity(domain.LifecycleActive), nil).Times(1)
			},
		},
		{
			name: "tipo de entidade desconhecido é rejeitado",
			input: RegisterEntityInput{
				ExternalID: "ext-9001",
				Kind:       domain.EntityKind("BANNER"),
			},
			setupMocks:  func(repo *repomocks.MockEntityRepository) {},
			expectedErr: ErrInvalidEntityKind,
		},
		{
			name: "orcamento negativo é rejeitado",
			input: RegisterEntityInput{
				ExternalID:  "ext-9001",
				Kind:        domain.EntityKindCampaign,
				DailyBudget: -10.0,
			},
			setupMocks:  func(repo *repomocks.MockEntityRepository) {},
			expectedErr: ErrInvalidBudget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := repomocks.NewMockEntityRepository(ctrl)
			client := adsmocks.NewMockClient(ctrl)
			tt.setupMocks(repo)

			service := NewManagementService(repo, client, newTestEngine())

			entity, err := service.RegisterEntity(tt.input)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, entity)
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, entity)
			assert.Equal(t, domain.LifecycleActive, entity.LifecycleState)
		})
	}
}

func TestManagementService_RegisterEntity_CampanhaSemPaiEhPropriaRaiz(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repomocks.NewMockEntityRepository(ctrl)
	client := adsmocks.NewMockClient(ctrl)

	var saved *domain.ManagedEntity
	repo.EXPECT().SaveOrUpdate(gomock.Any()).DoAndReturn(func(entity *domain.ManagedEntity) error {
		saved = entity
		return nil
	}).Times(1)
	repo.EXPECT().GetByExternalID("ext-raiz").Return(nil, nil).Times(1)

	service := NewManagementService(repo, client, newTestEngine())

	entity, err := service.RegisterEntity(RegisterEntityInput{
		ExternalID:  "ext-raiz",
		Kind:        domain.EntityKindCampaign,
		Name:        "Campanha Raiz",
		DailyBudget: 500.0,
	})

	assert.NoError(t, err)
	assert.NotNil(t, saved)
	assert.Equal(t, saved.ID, saved.CampaignID)
	assert.Equal(t, entity.ID, entity.CampaignID)
}

func TestManagementService_UpdateDailyBudget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repomocks.NewMockEntityRepository(ctrl)
	client := adsmocks.NewMockClient(ctrl)

	repo.EXPECT().GetByID("ENT001").Return(managedEntity(domain.LifecycleActive), nil).Times(1)
	repo.EXPECT().UpdateDailyBudget("ENT001", 250.0).Return(nil).Times(1)

	service := NewManagementService(repo, client, newTestEngine())

	assert.NoError(t, service.UpdateDailyBudget("ENT001", 250.0))
	assert.ErrorIs(t, service.UpdateDailyBudget("ENT001", -1.0), ErrInvalidBudget)
}

func TestManagementService_PauseManually(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repomocks.NewMockEntityRepository(ctrl)
	client := adsmocks.NewMockClient(ctrl)
	engine := newTestEngine()

	repo.EXPECT().GetByID("ENT001").Return(managedEntity(domain.LifecycleActive), nil).Times(1)
	client.EXPECT().
		UpdateEntityStatus("ext-9001", adsdomain.StatusPaused, gomock.Any()).
		Return(&adsdomain.StatusAck{EntityID: "ext-9001", Status: adsdomain.StatusPaused, Success: true}, nil).
		Times(1)
	repo.EXPECT().UpdateLifecycleState("ENT001", domain.LifecycleManuallyPaused).Return(nil).Times(1)

	service := NewManagementService(repo, client, engine)

	assert.NoError(t, service.PauseManually("ENT001"))

	state, ok := engine.CurrentState("ENT001")
	assert.True(t, ok)
	assert.Equal(t, domain.LifecycleManuallyPaused, state)
}

func TestManagementService_PauseManually_FalhaDaPlataformaNaoMudaEstado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repomocks.NewMockEntityRepository(ctrl)
	client := adsmocks.NewMockClient(ctrl)

	repo.EXPECT().GetByID("ENT001").Return(managedEntity(domain.LifecycleActive), nil).Times(1)
	client.EXPECT().
		UpdateEntityStatus("ext-9001", adsdomain.StatusPaused, gomock.Any()).
		Return(nil, &adsdomain.PlatformError{EntityID: "ext-9001", StatusCode: 500, Err: errors.New("erro interno")}).
		Times(1)

	service := NewManagementService(repo, client, newTestEngine())

	assert.Error(t, service.PauseManually("ENT001"))
}

func TestManagementService_ResumeManually(t *testing.T) {
	tests := []struct {
		name        string
		entity      *domain.ManagedEntity
		setupMocks  func(repo *repomocks.MockEntityRepository, client *adsmocks.MockClient)
		expectedErr error
	}{
		{
			name:   "retomada devolve a entidade ao controle do guardian",
			entity: managedEntity(domain.LifecycleManuallyPaused),
			setupMocks: func(repo *repomocks.MockEntityRepository, client *adsmocks.MockClient) {
				client.EXPECT().
					UpdateEntityStatus("ext-9001", adsdomain.StatusEnabled, gomock.Any()).
					Return(&adsdomain.StatusAck{EntityID: "ext-9001", Status: adsdomain.StatusEnabled, Success: true}, nil).
					Times(1)
				repo.EXPECT().UpdateLifecycleState("ENT001", domain.LifecycleActive).Return(nil).Times(1)
			},
		},
		{
			name:        "entidade que nao esta pausada manualmente é rejeitada",
			entity:      managedEntity(domain.LifecycleGuardianPaused),
			setupMocks:  func(repo *repomocks.MockEntityRepository, client *adsmocks.MockClient) {},
			expectedErr: ErrNotManuallyPaused,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := repomocks.NewMockEntityRepository(ctrl)
			client := adsmocks.NewMockClient(ctrl)
			engine := newTestEngine()

			repo.EXPECT().GetByID("ENT001").Return(tt.entity, nil).Times(1)
			tt.setupMocks(repo, client)

			service := NewManagementService(repo, client, engine)

			err := service.ResumeManually("ENT001")

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}

			assert.NoError(t, err)
			state, ok := engine.CurrentState("ENT001")
			assert.True(t, ok)
			assert.Equal(t, domain.LifecycleActive, state)
		})
	}
}
