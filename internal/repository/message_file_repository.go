package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/green-campus/internal/domain"
)

// fileMessageRepository keeps messages in a JSON array file.
// Every mutation loads the whole file, edits it in memory and rewrites it.
type fileMessageRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileMessageRepository returns a flat-file implementation.
func NewFileMessageRepository(path string) MessageRepository {
	return &fileMessageRepository{path: path}
}

func (r *fileMessageRepository) load() ([]messageRecord, error) {
	records := []messageRecord{}
	if _, err := readJSON(r.path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *fileMessageRepository) Create(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}
	msg.ID = newID()
	msg.CreatedAt = time.Now().UTC()
	if msg.Replies == nil {
		msg.Replies = []domain.Reply{}
	}
	records = append(records, messageToRecord(msg))
	return writeJSON(r.path, records)
}

func (r *fileMessageRepository) GetByID(_ context.Context, id string) (*domain.Message, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec.toDomain(), nil
		}
	}
	return nil, ErrNotFound
}

func (r *fileMessageRepository) List(_ context.Context) ([]domain.Message, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Time().After(records[j].CreatedAt.Time())
	})
	messages := make([]domain.Message, 0, len(records))
	for _, rec := range records {
		messages = append(messages, *rec.toDomain())
	}
	return messages, nil
}

func (r *fileMessageRepository) AppendReply(_ context.Context, id string, reply domain.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].ID != id {
			continue
		}
		records[i].Replies = append(records[i].Replies, replyRecord{
			Sender:    reply.Sender,
			Text:      reply.Text,
			Timestamp: recordTime(reply.Timestamp),
		})
		records[i].Status = string(domain.MessageStatusReplied)
		return writeJSON(r.path, records)
	}
	return ErrNotFound
}

func (r *fileMessageRepository) MarkRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].ID != id {
			continue
		}
		if records[i].Status == string(domain.MessageStatusReplied) {
			return nil
		}
		records[i].Status = string(domain.MessageStatusRead)
		return writeJSON(r.path, records)
	}
	return nil
}

func (r *fileMessageRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, rec := range records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return ErrNotFound
	}
	return writeJSON(r.path, kept)
}

func (r *fileMessageRepository) Count(_ context.Context) (int64, error) {
	records, err := r.load()
	if err != nil {
		return 0, err
	}
	return int64(len(records)), nil
}
