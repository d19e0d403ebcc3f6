package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "github.com/lib/pq"
	"github.com/vfg2006/profit-guardian/infrastructure/database/postgres"
	"github.com/vfg2006/profit-guardian/internal/domain"
)

const (
	managedEntitiesTable = "managed_entities me"
)

type EntityRepository interface {
	GetByID(entityID string) (*domain.ManagedEntity, error)
	GetByExternalID(externalID string) (*domain.ManagedEntity, error)
	ListAll() ([]*domain.ManagedEntity, error)
	ListByStates(states []domain.LifecycleState) ([]*domain.ManagedEntity, error)
	SaveOrUpdate(entity *domain.ManagedEntity) error
	UpdateDailyBudget(entityID string, dailyBudget float64) error
	UpdateLifecycleState(entityID string, state domain.LifecycleState) error
}

type entityRepository struct {
	conn *postgres.Connection
}

func NewEntityRepository(conn *postgres.Connection) EntityRepository {
	return &entityRepository{
		conn: conn,
	}
}

func (r *entityRepository) GetByID(entityID string) (*domain.ManagedEntity, error) {
	return r.getEntity(squirrel.Eq{"me.id": entityID})
}

func (r *entityRepository) GetByExternalID(externalID string) (*domain.ManagedEntity, error) {
	return r.getEntity(squirrel.Eq{"me.external_id": externalID})
}

func (r *entityRepository) getEntity(whereClause map[string]interface{}) (*domain.ManagedEntity, error) {
	entitySQL, entityArgs, err := squirrel.
		Select("me.id, me.external_id, me.kind, me.campaign_id, me.name, me.daily_budget, me.lifecycle_state, me.created_at, me.updated_at").
		From(managedEntitiesTable).
		Where(whereClause).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(entitySQL, entityArgs...)

	entity, err := r.deserializeEntity(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return entity, nil
}

func (r *entityRepository) deserializeEntity(row *sql.Row) (*domain.ManagedEntity, error) {
	entity := &domain.ManagedEntity{}

	if err := row.Scan(
		&entity.ID,
		&entity.ExternalID,
		&entity.Kind,
		&entity.CampaignID,
		&entity.Name,
		&entity.DailyBudget,
		&entity.LifecycleState,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return entity, nil
}

func (r *entityRepository) ListAll() ([]*domain.ManagedEntity, error) {
	return r.ListByStates(nil)
}

func (r *entityRepository) ListByStates(states []domain.LifecycleState) ([]*domain.ManagedEntity, error) {
	queryBuilder := squirrel.
		Select("me.id, me.external_id, me.kind, me.campaign_id, me.name, me.daily_budget, me.lifecycle_state, me.created_at, me.updated_at").
		From(managedEntitiesTable).
		OrderBy("me.campaign_id ASC, me.id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if len(states) > 0 {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"me.lifecycle_state": states})
	}

	entitiesSQL, entitiesArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(entitiesSQL, entitiesArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	entities := make([]*domain.ManagedEntity, 0)

	for rows.Next() {
		entity := &domain.ManagedEntity{}
		if err := rows.Scan(
			&entity.ID,
			&entity.ExternalID,
			&entity.Kind,
			&entity.CampaignID,
			&entity.Name,
			&entity.DailyBudget,
			&entity.LifecycleState,
			&entity.CreatedAt,
			&entity.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao deserializar a entidade: %w", err)
		}

		entities = append(entities, entity)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os resultados: %w", err)
	}

	return entities, nil
}

func (r *entityRepository) SaveOrUpdate(entity *domain.ManagedEntity) error {
	query := squirrel.StatementBuilder.
		Insert("managed_entities").
		Columns("id", "external_id", "kind", "campaign_id", "name", "daily_budget", "lifecycle_state").
		Values(
			entity.ID,
			entity.ExternalID,
			entity.Kind,
			entity.CampaignID,
			entity.Name,
			entity.DailyBudget,
			entity.LifecycleState,
		).
		Suffix(`
			ON CONFLICT (external_id) DO UPDATE SET
				name = EXCLUDED.name,
				daily_budget = EXCLUDED.daily_budget,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *entityRepository) UpdateDailyBudget(entityID string, dailyBudget float64) error {
	return r.updateEntity(entityID, map[string]interface{}{"daily_budget": dailyBudget})
}

func (r *entityRepository) UpdateLifecycleState(entityID string, state domain.LifecycleState) error {
	return r.updateEntity(entityID, map[string]interface{}{"lifecycle_state": state})
}

func (r *entityRepository) updateEntity(entityID string, fields map[string]interface{}) error {
	if entityID == "" {
		return errors.New("ID is required")
	}

	queryBuilder := squirrel.
		Update("managed_entities").
		Where(squirrel.Eq{"id": entityID}).
		Set("updated_at", squirrel.Expr("NOW()")).
		PlaceholderFormat(squirrel.Dollar)

	for column, value := range fields {
		queryBuilder = queryBuilder.Set(column, value)
	}

	sqlQuery, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao obter linhas afetadas: %w", err)
	}

	if rowsAffected == 0 {
		return errors.New("entity not found")
	}

	return nil
}
