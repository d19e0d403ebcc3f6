package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/profit-guardian/infrastructure/database/postgres"
	"github.com/vfg2006/profit-guardian/internal/domain"
)

const (
	guardianDecisionsTable = "guardian_decisions gd"
	lossLedgersTable       = "loss_ledgers ll"
	tickRunsTable          = "tick_runs tr"
)

// GuardianStore persiste o resultado de cada tick. CommitTick grava
// snapshots, decisões, estados de ciclo de vida e registros de perda em
// uma única transação: ou o tick inteiro é registrado, ou nada é.
type GuardianStore interface {
	CommitTick(ctx context.Context, commit *domain.TickCommit) error
	SaveTickRun(run *domain.TickRun) error
	GetLatestDecision(entityID string) (*domain.GuardianDecision, error)
	ListDecisionHistory(entityID string, limit uint64) ([]*domain.GuardianDecision, error)
	ListDecisionsByTick(tickID string) ([]*domain.GuardianDecision, error)
	GetLossLedger(campaignID string) (*domain.LossLedger, error)
	ListLossLedgers() ([]*domain.LossLedger, error)
	ListTickRuns(limit uint64) ([]*domain.TickRun, error)
	DecisionCountsSince(since time.Time) (map[domain.ActionType]int64, error)
}

type guardianStore struct {
	conn *postgres.Connection
}

func NewGuardianStore(conn *postgres.Connection) GuardianStore {
	return &guardianStore{
		conn: conn,
	}
}

func (s *guardianStore) CommitTick(ctx context.Context, commit *domain.TickCommit) error {
	return s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if err := s.insertTickRun(tx, commit.Run); err != nil {
			return fmt.Errorf("erro ao gravar execução do tick: %w", err)
		}

		if err := s.insertSnapshots(tx, commit.Snapshots); err != nil {
			return fmt.Errorf("erro ao gravar snapshots do tick: %w", err)
		}

		if err := s.insertDecisions(tx, commit.Decisions); err != nil {
			return fmt.Errorf("erro ao gravar decisões do tick: %w", err)
		}

		if err := s.updateLifecycleStates(tx, commit.LifecycleUpdates); err != nil {
			return fmt.Errorf("erro ao atualizar estados das entidades: %w", err)
		}

		if err := s.upsertLedgers(tx, commit.Ledgers); err != nil {
			return fmt.Errorf("erro ao gravar registros de perda: %w", err)
		}

		return nil
	})
}

// SaveTickRun grava uma execução fora da transação do tick. Usado para
// registrar ticks pulados ou abortados, que não produzem commit.
func (s *guardianStore) SaveTickRun(run *domain.TickRun) error {
	query, args, err := s.tickRunInsert(run).ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = s.conn.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (s *guardianStore) tickRunInsert(run *domain.TickRun) squirrel.InsertBuilder {
	return squirrel.StatementBuilder.
		Insert("tick_runs").
		Columns("id", "started_at", "finished_at", "outcome", "reason", "entities_evaluated", "entities_stale", "actions_applied", "actions_failed").
		Values(
			run.ID,
			run.StartedAt,
			run.FinishedAt,
			run.Outcome,
			run.Reason,
			run.EntitiesEvaluated,
			run.EntitiesStale,
			run.ActionsApplied,
			run.ActionsFailed,
		).
		PlaceholderFormat(squirrel.Dollar)
}

func (s *guardianStore) insertTickRun(tx *sql.Tx, run *domain.TickRun) error {
	query, args, err := s.tickRunInsert(run).ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = tx.Exec(query, args...)
	return err
}

func (s *guardianStore) insertSnapshots(tx *sql.Tx, snapshots []*domain.MetricsSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	query := squirrel.StatementBuilder.
		Insert("metrics_snapshots").
		Columns("id", "entity_id", "tick_at", "spend", "conversions", "conversion_value", "clicks", "impressions", "day_elapsed").
		PlaceholderFormat(squirrel.Dollar)

	for _, snapshot := range snapshots {
		query = query.Values(
			snapshot.ID,
			snapshot.EntityID,
			snapshot.TickAt,
			snapshot.Spend,
			snapshot.Conversions,
			snapshot.ConversionValue,
			snapshot.Clicks,
			snapshot.Impressions,
			snapshot.DayElapsed,
		)
	}

	// O mesmo tick nunca sobrescreve métricas já gravadas
	query = query.Suffix(`ON CONFLICT (entity_id, tick_at) DO NOTHING`)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = tx.Exec(sqlQuery, args...)
	return err
}

func (s *guardianStore) insertDecisions(tx *sql.Tx, decisions []*domain.GuardianDecision) error {
	if len(decisions) == 0 {
		return nil
	}

	sqlQuery, args, err := decisionInsertQuery(decisions)
	if err != nil {
		return err
	}

	_, err = tx.Exec(sqlQuery, args...)
	return err
}

// decisionInsertQuery monta o insert em lote das decisões de um tick. O
// created_at gravado é o timestamp do tick carregado pela decisão, não o
// default do banco: o registro de auditoria precisa casar com o tick_at e
// com o timestamp embutido na chave de idempotência.
func decisionInsertQuery(decisions []*domain.GuardianDecision) (string, []interface{}, error) {
	query := squirrel.StatementBuilder.
		Insert("guardian_decisions").
		Columns("id", "tick_id", "entity_id", "campaign_id", "action", "reason", "from_state", "to_state", "signals", "apply_status", "idempotency_key", "created_at").
		PlaceholderFormat(squirrel.Dollar)

	for _, decision := range decisions {
		signalsJSON, err := json.Marshal(decision.Signals)
		if err != nil {
			return "", nil, fmt.Errorf("erro ao serializar sinais da decisão: %w", err)
		}

		query = query.Values(
			decision.ID,
			decision.TickID,
			decision.EntityID,
			decision.CampaignID,
			decision.Action,
			decision.Reason,
			decision.FromState,
			decision.ToState,
			signalsJSON,
			decision.ApplyStatus,
			decision.IdempotencyKey,
			decision.CreatedAt,
		)
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return sqlQuery, args, nil
}

func (s *guardianStore) updateLifecycleStates(tx *sql.Tx, updates map[string]domain.LifecycleState) error {
	for entityID, state := range updates {
		query, args, err := squirrel.
			Update("managed_entities").
			Set("lifecycle_state", state).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": entityID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.Exec(query, args...); err != nil {
			return err
		}
	}

	return nil
}

func (s *guardianStore) upsertLedgers(tx *sql.Tx, ledgers []*domain.LossLedger) error {
	for _, ledger := range ledgers {
		query, args, err := squirrel.StatementBuilder.
			Insert("loss_ledgers").
			Columns("campaign_id", "window_start", "cumulative_loss", "halted", "halt_reason").
			Values(
				ledger.CampaignID,
				ledger.WindowStart,
				ledger.CumulativeLoss,
				ledger.Halted,
				ledger.HaltReason,
			).
			Suffix(`
				ON CONFLICT (campaign_id) DO UPDATE SET
					window_start = EXCLUDED.window_start,
					cumulative_loss = EXCLUDED.cumulative_loss,
					halted = EXCLUDED.halted,
					halt_reason = EXCLUDED.halt_reason,
					updated_at = NOW()
			`).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.Exec(query, args...); err != nil {
			return err
		}
	}

	return nil
}

func (s *guardianStore) GetLatestDecision(entityID string) (*domain.GuardianDecision, error) {
	decisions, err := s.ListDecisionHistory(entityID, 1)
	if err != nil {
		return nil, err
	}

	if len(decisions) == 0 {
		return nil, nil
	}

	return decisions[0], nil
}

func (s *guardianStore) ListDecisionHistory(entityID string, limit uint64) ([]*domain.GuardianDecision, error) {
	queryBuilder := squirrel.
		Select("gd.id, gd.tick_id, gd.entity_id, gd.campaign_id, gd.action, gd.reason, gd.from_state, gd.to_state, gd.signals, gd.apply_status, gd.idempotency_key, gd.created_at").
		From(guardianDecisionsTable).
		Where(squirrel.Eq{"gd.entity_id": entityID}).
		OrderBy("gd.created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if limit > 0 {
		queryBuilder = queryBuilder.Limit(limit)
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return s.queryDecisions(query, args)
}

func (s *guardianStore) ListDecisionsByTick(tickID string) ([]*domain.GuardianDecision, error) {
	query, args, err := squirrel.
		Select("gd.id, gd.tick_id, gd.entity_id, gd.campaign_id, gd.action, gd.reason, gd.from_state, gd.to_state, gd.signals, gd.apply_status, gd.idempotency_key, gd.created_at").
		From(guardianDecisionsTable).
		Where(squirrel.Eq{"gd.tick_id": tickID}).
		OrderBy("gd.entity_id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return s.queryDecisions(query, args)
}

func (s *guardianStore) queryDecisions(query string, args []interface{}) ([]*domain.GuardianDecision, error) {
	rows, err := s.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	decisions := make([]*domain.GuardianDecision, 0)
	for rows.Next() {
		decision, err := s.scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear decisão: %w", err)
		}
		decisions = append(decisions, decision)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return decisions, nil
}

func (s *guardianStore) scanDecision(rows *sql.Rows) (*domain.GuardianDecision, error) {
	decision := &domain.GuardianDecision{}
	var signalsJSON []byte

	if err := rows.Scan(
		&decision.ID,
		&decision.TickID,
		&decision.EntityID,
		&decision.CampaignID,
		&decision.Action,
		&decision.Reason,
		&decision.FromState,
		&decision.ToState,
		&signalsJSON,
		&decision.ApplyStatus,
		&decision.IdempotencyKey,
		&decision.CreatedAt,
	); err != nil {
		return nil, err
	}

	if len(signalsJSON) > 0 {
		if err := json.Unmarshal(signalsJSON, &decision.Signals); err != nil {
			return nil, fmt.Errorf("erro ao deserializar sinais da decisão: %w", err)
		}
	}

	return decision, nil
}

func (s *guardianStore) GetLossLedger(campaignID string) (*domain.LossLedger, error) {
	query, args, err := squirrel.
		Select("ll.campaign_id, ll.window_start, ll.cumulative_loss, ll.halted, ll.halt_reason, ll.updated_at").
		From(lossLedgersTable).
		Where(squirrel.Eq{"ll.campaign_id": campaignID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := s.conn.QueryRow(query, args...)

	ledger := &domain.LossLedger{}
	if err := row.Scan(
		&ledger.CampaignID,
		&ledger.WindowStart,
		&ledger.CumulativeLoss,
		&ledger.Halted,
		&ledger.HaltReason,
		&ledger.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear registro de perda: %w", err)
	}

	return ledger, nil
}

func (s *guardianStore) ListLossLedgers() ([]*domain.LossLedger, error) {
	query, args, err := squirrel.
		Select("ll.campaign_id, ll.window_start, ll.cumulative_loss, ll.halted, ll.halt_reason, ll.updated_at").
		From(lossLedgersTable).
		OrderBy("ll.campaign_id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	ledgers := make([]*domain.LossLedger, 0)
	for rows.Next() {
		ledger := &domain.LossLedger{}
		if err := rows.Scan(
			&ledger.CampaignID,
			&ledger.WindowStart,
			&ledger.CumulativeLoss,
			&ledger.Halted,
			&ledger.HaltReason,
			&ledger.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear registros de perda: %w", err)
		}
		ledgers = append(ledgers, ledger)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return ledgers, nil
}

func (s *guardianStore) ListTickRuns(limit uint64) ([]*domain.TickRun, error) {
	queryBuilder := squirrel.
		Select("tr.id, tr.started_at, tr.finished_at, tr.outcome, tr.reason, tr.entities_evaluated, tr.entities_stale, tr.actions_applied, tr.actions_failed").
		From(tickRunsTable).
		OrderBy("tr.started_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if limit > 0 {
		queryBuilder = queryBuilder.Limit(limit)
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.TickRun, 0)
	for rows.Next() {
		run := &domain.TickRun{}
		if err := rows.Scan(
			&run.ID,
			&run.StartedAt,
			&run.FinishedAt,
			&run.Outcome,
			&run.Reason,
			&run.EntitiesEvaluated,
			&run.EntitiesStale,
			&run.ActionsApplied,
			&run.ActionsFailed,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear execuções: %w", err)
		}
		runs = append(runs, run)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return runs, nil
}

// DecisionCountsSince agrega as decisões por ação desde um instante,
// usado pelo endpoint de status do guardian.
func (s *guardianStore) DecisionCountsSince(since time.Time) (map[domain.ActionType]int64, error) {
	query, args, err := squirrel.
		Select("gd.action, COUNT(*)").
		From(guardianDecisionsTable).
		Where(squirrel.GtOrEq{"gd.created_at": since}).
		GroupBy("gd.action").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return map[domain.ActionType]int64{}, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.ActionType]int64)
	for rows.Next() {
		var action domain.ActionType
		var count int64
		if err := rows.Scan(&action, &count); err != nil {
			return nil, fmt.Errorf("erro ao escanear contagens: %w", err)
		}
		counts[action] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return counts, nil
}
