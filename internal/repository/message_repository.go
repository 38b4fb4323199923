package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/spec-kit/green-campus/internal/domain"
)

// MessageRepository manages contact messages and their reply threads.
type MessageRepository interface {
	// Create stores the message and fills in ID and CreatedAt.
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	// List returns every message, newest first.
	List(ctx context.Context) ([]domain.Message, error)
	// AppendReply adds reply to the thread and marks the message replied.
	AppendReply(ctx context.Context, id string, reply domain.Reply) error
	// MarkRead flags the message read unless it was already replied to. Unknown ids are ignored.
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type messageDocument struct {
	ID        bson.ObjectID   `bson:"_id,omitempty"`
	UserName  string          `bson:"user_name"`
	UserEmail string          `bson:"user_email"`
	Subject   string          `bson:"subject"`
	Message   string          `bson:"message"`
	Status    string          `bson:"status"`
	CreatedAt time.Time       `bson:"created_at"`
	Replies   []replyDocument `bson:"replies"`
}

type replyDocument struct {
	Sender    string    `bson:"sender"`
	Text      string    `bson:"text"`
	Timestamp time.Time `bson:"timestamp"`
}

func (d messageDocument) toDomain() domain.Message {
	replies := make([]domain.Reply, 0, len(d.Replies))
	for _, r := range d.Replies {
		replies = append(replies, domain.Reply{Sender: r.Sender, Text: r.Text, Timestamp: r.Timestamp})
	}
	return domain.Message{
		ID:        d.ID.Hex(),
		UserName:  d.UserName,
		UserEmail: d.UserEmail,
		Subject:   d.Subject,
		Body:      d.Message,
		Status:    domain.MessageStatus(d.Status),
		CreatedAt: d.CreatedAt,
		Replies:   replies,
	}
}

type messageRepository struct {
	coll *mongo.Collection
}

// NewMessageRepository returns a MongoDB-backed implementation.
func NewMessageRepository(coll *mongo.Collection) MessageRepository {
	return &messageRepository{coll: coll}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	doc := messageDocument{
		UserName:  msg.UserName,
		UserEmail: msg.UserEmail,
		Subject:   msg.Subject,
		Message:   msg.Body,
		Status:    string(msg.Status),
		CreatedAt: time.Now().UTC(),
		Replies:   []replyDocument{},
	}
	result, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	id, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return fmt.Errorf("insert message: unexpected id type %T", result.InsertedID)
	}
	msg.ID = id.Hex()
	msg.CreatedAt = doc.CreatedAt
	if msg.Replies == nil {
		msg.Replies = []domain.Reply{}
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc messageDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	msg := doc.toDomain()
	return &msg, nil
}

func (r *messageRepository) List(ctx context.Context) ([]domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	messages := make([]domain.Message, 0, len(docs))
	for _, d := range docs {
		messages = append(messages, d.toDomain())
	}
	return messages, nil
}

func (r *messageRepository) AppendReply(ctx context.Context, id string, reply domain.Reply) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	update := bson.M{
		"$push": bson.M{"replies": replyDocument{Sender: reply.Sender, Text: reply.Text, Timestamp: reply.Timestamp}},
		"$set":  bson.M{"status": string(domain.MessageStatusReplied)},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("append reply: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	filter := bson.M{
		"_id":    oid,
		"status": bson.M{"$ne": string(domain.MessageStatusReplied)},
	}
	if _, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"status": string(domain.MessageStatusRead)}}); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func (r *messageRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *messageRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return count, nil
}
