package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/accounting-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
)

const clientsTable = "clients"

// registered_seq guarda a ordem de cadastro, usada pelo comparativo
var clientSchema = []string{
	`CREATE TABLE IF NOT EXISTS clients (
	code           TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	active         BOOLEAN NOT NULL DEFAULT TRUE,
	created_on     DATE NOT NULL DEFAULT CURRENT_DATE,
	registered_seq BIGSERIAL
)`,
	`ALTER TABLE clients ADD COLUMN IF NOT EXISTS registered_seq BIGSERIAL`,
}

type clientPostgresRepository struct {
	db postgres.Queryer
}

// NewClientPostgresRepository aceita a conexão ou uma transação em andamento
func NewClientPostgresRepository(db postgres.Queryer) ClientRepository {
	return &clientPostgresRepository{
		db: db,
	}
}

// EnsureClientSchema cria a tabela de clientes caso ainda não exista
func EnsureClientSchema(ctx context.Context, db postgres.Queryer) error {
	for _, statement := range clientSchema {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return wrapDatabaseError(err)
		}
	}
	return nil
}

func (r *clientPostgresRepository) GetClient(ctx context.Context, code string) (*domain.Client, error) {
	query, args, err := squirrel.
		Select("code, name, active, created_on").
		From(clientsTable).
		Where(squirrel.Eq{"code": code}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	client := &domain.Client{}
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&client.Code,
		&client.Name,
		&client.Active,
		&client.CreatedOn,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, wrapDatabaseError(err)
	}

	return client, nil
}

func listClientsQuery() (string, []any, error) {
	return squirrel.
		Select("code, name, active, created_on").
		From(clientsTable).
		OrderBy("registered_seq ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (r *clientPostgresRepository) ListClients(ctx context.Context) ([]*domain.Client, error) {
	query, args, err := listClientsQuery()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDatabaseError(err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client := &domain.Client{}
		if err := rows.Scan(&client.Code, &client.Name, &client.Active, &client.CreatedOn); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	return clients, rows.Err()
}

// upsertClientQuery omite created_on quando a data é zero, para que o
// DEFAULT CURRENT_DATE da tabela valha
func upsertClientQuery(client *domain.Client) (string, []any, error) {
	columns := []string{"code", "name", "active"}
	values := []any{client.Code, client.Name, client.Active}
	if !client.CreatedOn.IsZero() {
		columns = append(columns, "created_on")
		values = append(values, client.CreatedOn)
	}

	return squirrel.StatementBuilder.
		Insert(clientsTable).
		Columns(columns...).
		Values(values...).
		Suffix("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, active = EXCLUDED.active").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (r *clientPostgresRepository) SaveOrUpdate(ctx context.Context, client *domain.Client) error {
	query, args, err := upsertClientQuery(client)
	if err != nil {
		return fmt.Errorf("erro ao construir query de cliente: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return wrapDatabaseError(err)
	}

	return nil
}

func (r *clientPostgresRepository) DeleteClient(ctx context.Context, code string) error {
	query, args, err := squirrel.
		Delete(clientsTable).
		Where(squirrel.Eq{"code": code}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapDatabaseError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao obter linhas afetadas: %w", err)
	}

	if rowsAffected == 0 {
		return ErrClientNotFound
	}

	return nil
}

func wrapDatabaseError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
	}
	return fmt.Errorf("erro ao executar a query: %w", err)
}
