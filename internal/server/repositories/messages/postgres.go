package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/dmitrijs2005/flatfinder/internal/dbx"
	"github.com/dmitrijs2005/flatfinder/internal/server/models"
)

const messageColumns = `id, content, flat_id, sender_id, created_by, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	query :=
		`INSERT INTO messages (id, content, flat_id, sender_id, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING ` + messageColumns

	m, err := scanMessage(r.db.QueryRowContext(ctx, query, msg.ID, msg.Content, msg.FlatID, msg.SenderID, msg.CreatedBy))
	if err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	m, err := scanMessage(r.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

func (r *PostgresRepository) ListByFlat(ctx context.Context, flatID string) ([]*models.Message, error) {
	return r.list(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE flat_id = $1 ORDER BY created_at, row_id`, flatID)
}

func (r *PostgresRepository) ListByFlatAndSender(ctx context.Context, flatID, senderID string) ([]*models.Message, error) {
	return r.list(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE flat_id = $1 AND sender_id = $2 ORDER BY created_at, row_id`,
		flatID, senderID)
}

func (r *PostgresRepository) ListConversation(ctx context.Context, flatID, a, b string) ([]*models.Message, error) {
	return r.list(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE flat_id = $1 AND sender_id IN ($2, $3) ORDER BY created_at, row_id`,
		flatID, a, b)
}

func (r *PostgresRepository) ListBySender(ctx context.Context, senderID string) ([]*models.Message, error) {
	return r.list(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE sender_id = $1 ORDER BY created_at DESC, row_id DESC`, senderID)
}

func (r *PostgresRepository) Senders(ctx context.Context, flatID string) ([]models.SenderSummary, error) {
	query :=
		`SELECT sender_id, COUNT(*), MAX(created_at) FROM messages
		 WHERE flat_id = $1
		 GROUP BY sender_id
		 ORDER BY MAX(created_at) DESC, MAX(row_id) DESC`

	rows, err := r.db.QueryContext(ctx, query, flatID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	res := make([]models.SenderSummary, 0)
	for rows.Next() {
		var s models.SenderSummary
		if err := rows.Scan(&s.SenderID, &s.MessageCount, &s.LastMessageAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		res = append(res, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	n, err := r.exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByFlat(ctx context.Context, flatID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM messages WHERE flat_id = $1`, flatID)
}

func (r *PostgresRepository) DeleteBySender(ctx context.Context, senderID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM messages WHERE sender_id = $1`, senderID)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	res := make([]*models.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

func scanMessage(s dbx.Scanner) (*models.Message, error) {
	m := &models.Message{}
	if err := s.Scan(&m.ID, &m.Content, &m.FlatID, &m.SenderID, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return common.ErrorNotFound
	case dbx.IsUniqueViolation(err):
		return common.ErrorAlreadyExists
	default:
		return fmt.Errorf("db error: %w", err)
	}
}
