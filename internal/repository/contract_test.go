package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/green-campus/internal/config"
	"github.com/spec-kit/green-campus/internal/domain"
	"github.com/spec-kit/green-campus/internal/persistence"
)

// Every backend must satisfy the same store contract; only the id representation differs.

func TestFileRepositoriesContract(t *testing.T) {
	runContract(t, func(t *testing.T) *Repositories {
		return NewFileRepositories(t.TempDir())
	})
}

func TestMongoRepositoriesContract(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set; skipping integration test")
	}
	runContract(t, func(t *testing.T) *Repositories {
		ctx := context.Background()
		m, err := persistence.NewMongo(ctx, config.MongoConfig{URI: uri, Database: "green_campus_test"}, zap.NewNop())
		require.NoError(t, err)
		require.NoError(t, m.Database().Drop(ctx))
		require.NoError(t, m.CreateIndexes(ctx))
		t.Cleanup(func() {
			_ = m.Database().Drop(context.Background())
			_ = m.Close(context.Background())
		})
		repos, err := New(&persistence.Backend{Kind: config.StorageMongo, Mongo: m})
		require.NoError(t, err)
		return repos
	})
}

func TestPostgresRepositoriesContract(t *testing.T) {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set; skipping integration test")
	}
	runContract(t, func(t *testing.T) *Repositories {
		ctx := context.Background()
		pg, err := persistence.NewPostgres(ctx, config.PostgresConfig{DSN: dsn}, zap.NewNop())
		require.NoError(t, err)
		require.NoError(t, persistence.RunMigrations(ctx, pg.PoolHandle(), zap.NewNop()))
		_, err = pg.PoolHandle().Exec(ctx, `TRUNCATE users, messages, dashboard`)
		require.NoError(t, err)
		t.Cleanup(pg.Close)
		repos, err := New(&persistence.Backend{Kind: config.StoragePostgres, Postgres: pg})
		require.NoError(t, err)
		return repos
	})
}

func runContract(t *testing.T, setup func(t *testing.T) *Repositories) {
	t.Run("users", func(t *testing.T) {
		repos := setup(t)
		ctx := context.Background()

		u := &domain.User{Email: "alice@example.com", Password: "pw1", Role: domain.RoleUser}
		require.NoError(t, repos.Users.Create(ctx, u))
		assert.NotEmpty(t, u.ID)
		assert.False(t, u.CreatedAt.IsZero())

		dup := &domain.User{Email: "alice@example.com", Password: "other", Role: domain.RoleUser}
		assert.ErrorIs(t, repos.Users.Create(ctx, dup), ErrAlreadyExists)

		got, err := repos.Users.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "pw1", got.Password)
		assert.Equal(t, domain.RoleUser, got.Role)

		_, err = repos.Users.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)

		users, err := repos.Users.List(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("messages", func(t *testing.T) {
		repos := setup(t)
		ctx := context.Background()

		first := newTestMessage("alice@example.com", "First")
		require.NoError(t, repos.Messages.Create(ctx, first))
		time.Sleep(5 * time.Millisecond)
		second := newTestMessage("bob@example.com", "Second")
		require.NoError(t, repos.Messages.Create(ctx, second))

		list, err := repos.Messages.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID, "newest first")
		assert.Equal(t, domain.MessageStatusUnread, list[1].Status)
		assert.Empty(t, list[1].Replies)

		require.NoError(t, repos.Messages.AppendReply(ctx, first.ID, domain.NewReply("We got it")))
		require.NoError(t, repos.Messages.AppendReply(ctx, first.ID, domain.NewReply("Follow-up")))
		got, err := repos.Messages.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.MessageStatusReplied, got.Status)
		require.Len(t, got.Replies, 2)
		assert.Equal(t, "We got it", got.Replies[0].Text)
		assert.Equal(t, domain.ReplySenderAdmin, got.Replies[1].Sender)

		require.NoError(t, repos.Messages.MarkRead(ctx, first.ID))
		got, err = repos.Messages.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.MessageStatusReplied, got.Status, "read-marking never downgrades a reply")

		require.NoError(t, repos.Messages.MarkRead(ctx, second.ID))
		got, err = repos.Messages.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.MessageStatusRead, got.Status)

		assert.NoError(t, repos.Messages.MarkRead(ctx, missingID))
		assert.ErrorIs(t, repos.Messages.AppendReply(ctx, missingID, domain.NewReply("x")), ErrNotFound)
		_, err = repos.Messages.GetByID(ctx, missingID)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, repos.Messages.Delete(ctx, missingID), ErrNotFound)
		count, err := repos.Messages.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		require.NoError(t, repos.Messages.Delete(ctx, second.ID))
		count, err = repos.Messages.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("dashboard", func(t *testing.T) {
		repos := setup(t)
		ctx := context.Background()

		_, err := repos.Dashboard.Get(ctx)
		assert.ErrorIs(t, err, ErrNotFound)

		d := domain.Dashboard{
			EnergyData: []domain.MetricPoint{{Week: "Week 1", Current: 1.5, Previous: 2}},
			WaterData:  []domain.MetricPoint{},
			WasteData:  []domain.MetricPoint{},
		}
		require.NoError(t, repos.Dashboard.Save(ctx, d))
		require.NoError(t, repos.Dashboard.Save(ctx, d))

		got, err := repos.Dashboard.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, d.EnergyData, got.EnergyData)
		assert.Empty(t, got.WaterData)
	})
}

// missingID is well-formed for every backend but never issued.
const missingID = "000000000000000000000000"

func newTestMessage(email, subject string) *domain.Message {
	return &domain.Message{
		UserName:  "Tester",
		UserEmail: email,
		Subject:   subject,
		Body:      "Help",
		Status:    domain.MessageStatusUnread,
	}
}
