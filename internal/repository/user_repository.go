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

// UserRepository defines persistence access for dashboard accounts.
type UserRepository interface {
	// Create stores the user and fills in ID and CreatedAt. A taken email yields ErrAlreadyExists.
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type userDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password"`
	Role      string        `bson:"role"`
	CreatedAt time.Time     `bson:"created_at"`
}

func (d userDocument) toDomain() domain.User {
	return domain.User{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		Password:  d.Password,
		Role:      domain.Role(d.Role),
		CreatedAt: d.CreatedAt,
	}
}

type userRepository struct {
	coll *mongo.Collection
}

// NewUserRepository returns a MongoDB-backed implementation.
func NewUserRepository(coll *mongo.Collection) UserRepository {
	return &userRepository{coll: coll}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	count, err := r.coll.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return ErrAlreadyExists
	}

	doc := userDocument{
		Email:     user.Email,
		Password:  user.Password,
		Role:      string(user.Role),
		CreatedAt: time.Now().UTC(),
	}
	result, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return fmt.Errorf("insert user: unexpected id type %T", result.InsertedID)
	}
	user.ID = id.Hex()
	user.CreatedAt = doc.CreatedAt
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	user := doc.toDomain()
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	users := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}
