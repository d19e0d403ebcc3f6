package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/profit-guardian/infrastructure/database/postgres"
	"github.com/vfg2006/profit-guardian/internal/domain"
)

const (
	metricsSnapshotsTable = "metrics_snapshots ms"
)

// SnapshotRepository lê snapshots de métricas. A escrita acontece apenas
// dentro do commit transacional do tick (ver GuardianStore).
type SnapshotRepository interface {
	GetLatestByEntityID(entityID string) (*domain.MetricsSnapshot, error)
	ListRecent(entityID string, since time.Time, limit uint64) ([]*domain.MetricsSnapshot, error)
	DeleteOlderThan(days int) (int64, error)
}

type snapshotRepository struct {
	conn *postgres.Connection
}

func NewSnapshotRepository(conn *postgres.Connection) SnapshotRepository {
	return &snapshotRepository{
		conn: conn,
	}
}

func (r *snapshotRepository) GetLatestByEntityID(entityID string) (*domain.MetricsSnapshot, error) {
	query, args, err := squirrel.
		Select("ms.id, ms.entity_id, ms.tick_at, ms.spend, ms.conversions, ms.conversion_value, ms.clicks, ms.impressions, ms.day_elapsed, ms.created_at").
		From(metricsSnapshotsTable).
		Where(squirrel.Eq{"ms.entity_id": entityID}).
		OrderBy("ms.tick_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)

	snapshot := &domain.MetricsSnapshot{}
	if err := row.Scan(
		&snapshot.ID,
		&snapshot.EntityID,
		&snapshot.TickAt,
		&snapshot.Spend,
		&snapshot.Conversions,
		&snapshot.ConversionValue,
		&snapshot.Clicks,
		&snapshot.Impressions,
		&snapshot.DayElapsed,
		&snapshot.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear snapshot: %w", err)
	}

	return snapshot, nil
}

func (r *snapshotRepository) ListRecent(entityID string, since time.Time, limit uint64) ([]*domain.MetricsSnapshot, error) {
	queryBuilder := squirrel.
		Select("ms.id, ms.entity_id, ms.tick_at, ms.spend, ms.conversions, ms.conversion_value, ms.clicks, ms.impressions, ms.day_elapsed, ms.created_at").
		From(metricsSnapshotsTable).
		Where(squirrel.Eq{"ms.entity_id": entityID}).
		Where(squirrel.GtOrEq{"ms.tick_at": since}).
		OrderBy("ms.tick_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if limit > 0 {
		queryBuilder = queryBuilder.Limit(limit)
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*domain.MetricsSnapshot, 0)
	for rows.Next() {
		snapshot := &domain.MetricsSnapshot{}
		if err := rows.Scan(
			&snapshot.ID,
			&snapshot.EntityID,
			&snapshot.TickAt,
			&snapshot.Spend,
			&snapshot.Conversions,
			&snapshot.ConversionValue,
			&snapshot.Clicks,
			&snapshot.Impressions,
			&snapshot.DayElapsed,
			&snapshot.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear snapshots: %w", err)
		}

		snapshots = append(snapshots, snapshot)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return snapshots, nil
}

func (r *snapshotRepository) DeleteOlderThan(days int) (int64, error) {
	query, args, err := squirrel.
		Delete("metrics_snapshots").
		Where(squirrel.Expr("tick_at < NOW() - INTERVAL '1 day' * ?", days)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}
