package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/profit-guardian/infrastructure/database/postgres"
	"github.com/vfg2006/profit-guardian/internal/domain"
)

type UserRepository interface {
	GetByUsername(username string) (*domain.User, error)
	Create(user *domain.User) error
}

type userRepository struct {
	conn *postgres.Connection
}

func NewUserRepository(conn *postgres.Connection) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func (r *userRepository) GetByUsername(username string) (*domain.User, error) {
	userSQL, userArgs, err := squirrel.
		Select("u.id, u.username, u.password_hash, u.created_at").
		From("users u").
		Where(squirrel.Eq{"u.username": username}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	user := &domain.User{}

	err = r.conn.QueryRow(userSQL, userArgs...).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao consultar o usuário: %w", err)
	}

	return user, nil
}

func (r *userRepository) Create(user *domain.User) error {
	sqlQuery, args, err := squirrel.StatementBuilder.
		Insert("users").
		Columns("id", "username", "password_hash").
		Values(user.ID, user.Username, user.PasswordHash).
		Suffix("ON CONFLICT (username) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
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
