package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/green-campus/internal/domain"
)

type postgresMessageRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresMessageRepository returns a Postgres-backed implementation.
// Replies live in a JSONB array on the message row.
func NewPostgresMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &postgresMessageRepository{pool: pool}
}

const messageColumns = `id, user_name, user_email, subject, body, status, replies, created_at`

func (r *postgresMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	const query = `
        INSERT INTO messages (id, user_name, user_email, subject, body, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`

	id := newID()
	if err := r.pool.QueryRow(ctx, query,
		id,
		msg.UserName,
		msg.UserEmail,
		msg.Subject,
		msg.Body,
		msg.Status,
	).Scan(&msg.CreatedAt); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	msg.ID = id
	if msg.Replies == nil {
		msg.Replies = []domain.Reply{}
	}
	return nil
}

func (r *postgresMessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id=$1`

	msg, err := scanMessage(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	return msg, nil
}

func (r *postgresMessageRepository) List(ctx context.Context) ([]domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

func (r *postgresMessageRepository) AppendReply(ctx context.Context, id string, reply domain.Reply) error {
	const query = `
        UPDATE messages SET replies = replies || $2::jsonb, status=$3
        WHERE id=$1`

	payload, err := json.Marshal(repliesToRecords([]domain.Reply{reply}))
	if err != nil {
		return fmt.Errorf("encode reply: %w", err)
	}
	cmd, err := r.pool.Exec(ctx, query, id, string(payload), domain.MessageStatusReplied)
	if err != nil {
		return fmt.Errorf("append reply: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresMessageRepository) MarkRead(ctx context.Context, id string) error {
	const query = `UPDATE messages SET status=$2 WHERE id=$1 AND status <> $3`

	if _, err := r.pool.Exec(ctx, query, id, domain.MessageStatusRead, domain.MessageStatusReplied); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func (r *postgresMessageRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresMessageRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return count, nil
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var (
		msg     domain.Message
		replies []byte
	)
	if err := row.Scan(
		&msg.ID,
		&msg.UserName,
		&msg.UserEmail,
		&msg.Subject,
		&msg.Body,
		&msg.Status,
		&replies,
		&msg.CreatedAt,
	); err != nil {
		return nil, err
	}
	var records []replyRecord
	if len(replies) > 0 {
		if err := json.Unmarshal(replies, &records); err != nil {
			return nil, fmt.Errorf("decode replies: %w", err)
		}
	}
	msg.Replies = recordsToReplies(records)
	return &msg, nil
}
