package managing

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	adsdomain "github.com/vfg2006/profit-guardian/infrastructure/integrator/ads/domain"
	"github.com/vfg2006/profit-guardian/infrastructure/integrator/ads/adsclient"
	"github.com/vfg2006/profit-guardian/infrastructure/repository"
	"github.com/vfg2006/profit-guardian/internal/domain"
	"github.com/vfg2006/profit-guardian/internal/usecases/deciding"
	"github.com/vfg2006/profit-guardian/pkg/utils"
)

var (
	ErrEntityNotFound    = errors.New("entidade não encontrada")
	ErrInvalidEntityKind = errors.New("tipo de entidade inválido")
	ErrInvalidBudget     = errors.New("orçamento diário não pode ser negativo")
	ErrNotManuallyPaused = errors.New("entidade não está pausada manualmente")
)

// RegisterEntityInput são os dados necessários para colocar uma entidade da
// plataforma sob guardianship
type RegisterEntityInput struct {
	ExternalID  string            `json:"external_id"`
	Kind        domain.EntityKind `json:"kind"`
	CampaignID  string            `json:"campaign_id"`
	Name        string            `json:"name"`
	DailyBudget float64           `json:"daily_budget"`
}

// Service gerencia o cadastro das entidades sob guardianship e as operações
// manuais do operador: pausa e retomada fora do controle do guardian.
type Service interface {
	RegisterEntity(input RegisterEntityInput) (*domain.ManagedEntity, error)
	ListEntities() ([]*domain.ManagedEntity, error)
	GetEntity(entityID string) (*domain.ManagedEntity, error)
	UpdateDailyBudget(entityID string, dailyBudget float64) error
	PauseManually(entityID string) error
	ResumeManually(entityID string) error
}

type ManagementService struct {
	entityRepo repository.EntityRepository
	client     adsclient.Client
	engine     *deciding.Engine
}

func NewManagementService(entityRepo repository.EntityRepository, client adsclient.Client, engine *deciding.Engine) Service {
	return &ManagementService{
		entityRepo: entityRepo,
		client:     client,
		engine:     engine,
	}
}

// RegisterEntity coloca uma entidade sob guardianship. Registrar de novo uma
// entidade com o mesmo identificador externo atualiza nome e orçamento sem
// perder o estado de ciclo de vida.
func (s *ManagementService) RegisterEntity(input RegisterEntityInput) (*domain.ManagedEntity, error) {
	if !domain.ValidEntityKind(input.Kind) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEntityKind, input.Kind)
	}

	if input.DailyBudget < 0 {
		return nil, ErrInvalidBudget
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar identificador da entidade: %w", err)
	}

	entity := &domain.ManagedEntity{
		ID:             id,
		ExternalID:     input.ExternalID,
		Kind:           input.Kind,
		CampaignID:     input.CampaignID,
		Name:           input.Name,
		DailyBudget:    input.DailyBudget,
		LifecycleState: domain.LifecycleActive,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	// A própria campanha é a raiz do rollup de perdas
	if entity.IsCampaign() && entity.CampaignID == "" {
		entity.CampaignID = entity.ID
	}

	if err := s.entityRepo.SaveOrUpdate(entity); err != nil {
		return nil, err
	}

	persisted, err := s.entityRepo.GetByExternalID(entity.ExternalID)
	if err != nil {
		return nil, err
	}
	if persisted != nil {
		entity = persisted
	}

	s.engine.SyncEntity(entity.ID, entity.LifecycleState)

	logrus.WithFields(logrus.Fields{
		"entity_id":   entity.ID,
		"external_id": entity.ExternalID,
		"kind":        entity.Kind,
	}).Info("entidade registrada sob guardianship")

	return entity, nil
}

func (s *ManagementService) ListEntities() ([]*domain.ManagedEntity, error) {
	return s.entityRepo.ListAll()
}

func (s *ManagementService) GetEntity(entityID string) (*domain.ManagedEntity, error) {
	entity, err := s.entityRepo.GetByID(entityID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrEntityNotFound
	}
	return entity, nil
}

// UpdateDailyBudget atualiza o orçamento diário usado pelo cálculo de ritmo.
// O novo valor vale a partir do próximo tick.
func (s *ManagementService) UpdateDailyBudget(entityID string, dailyBudget float64) error {
	if dailyBudget < 0 {
		return ErrInvalidBudget
	}

	if _, err := s.GetEntity(entityID); err != nil {
		return err
	}

	return s.entityRepo.UpdateDailyBudget(entityID, dailyBudget)
}

// PauseManually pausa a entidade na plataforma em nome do operador. A pausa
// manual tira a entidade do controle automático: o guardian observa, registra
// e nunca retoma por conta própria.
func (s *ManagementService) PauseManually(entityID string) error {
	entity, err := s.GetEntity(entityID)
	if err != nil {
		return err
	}

	idempotencyKey := domain.IdempotencyKeyFor(entity.ID, domain.LifecycleManuallyPaused, time.Now().UTC())
	if _, err := s.client.UpdateEntityStatus(entity.ExternalID, adsdomain.StatusPaused, idempotencyKey); err != nil {
		return fmt.Errorf("erro ao pausar entidade na plataforma: %w", err)
	}

	if err := s.entityRepo.UpdateLifecycleState(entityID, domain.LifecycleManuallyPaused); err != nil {
		return err
	}

	s.engine.SyncEntity(entityID, domain.LifecycleManuallyPaused)

	logrus.WithFields(logrus.Fields{
		"entity_id":   entityID,
		"external_id": entity.ExternalID,
	}).Info("entidade pausada manualmente pelo operador")

	return nil
}

// ResumeManually devolve ao guardian o controle de uma entidade pausada
// manualmente, reativando-a na plataforma.
func (s *ManagementService) ResumeManually(entityID string) error {
	entity, err := s.GetEntity(entityID)
	if err != nil {
		return err
	}

	if entity.LifecycleState != domain.LifecycleManuallyPaused {
		return ErrNotManuallyPaused
	}

	idempotencyKey := domain.IdempotencyKeyFor(entity.ID, domain.LifecycleActive, time.Now().UTC())
	if _, err := s.client.UpdateEntityStatus(entity.ExternalID, adsdomain.StatusEnabled, idempotencyKey); err != nil {
		return fmt.Errorf("erro ao reativar entidade na plataforma: %w", err)
	}

	if err := s.entityRepo.UpdateLifecycleState(entityID, domain.LifecycleActive); err != nil {
		return err
	}

	s.engine.SyncEntity(entityID, domain.LifecycleActive)

	logrus.WithFields(logrus.Fields{
		"entity_id":   entityID,
		"external_id": entity.ExternalID,
	}).Info("entidade retomada manualmente pelo operador")

	return nil
}
