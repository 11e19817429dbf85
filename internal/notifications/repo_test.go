package notifications

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/PrasannaVit-21/chummaOrder/pkg/db/models"
)

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  read_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestNotificationsListNewestFirst(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	older := &models.Notification{ID: uuid.New(), UserID: userID, Title: "Order ready", Message: "first", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.Notification{ID: uuid.New(), UserID: userID, Title: "Order ready", Message: "second", CreatedAt: time.Now()}
	for _, n := range []*models.Notification{older, newer} {
		_, err := repo.Create(context.Background(), n)
		require.NoError(t, err)
	}
	_, err := repo.Create(context.Background(), &models.Notification{ID: uuid.New(), UserID: uuid.New(), Title: "Order ready", Message: "other user"})
	require.NoError(t, err)

	list, err := repo.ListForUser(context.Background(), userID)
	require.NoError(t, err)

	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)
	assert.Equal(t, "first", list[1].Message)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	created, err := repo.Create(context.Background(), &models.Notification{
		ID: uuid.New(), UserID: userID, Title: "Order ready", Message: "pickup window open",
	})
	require.NoError(t, err)

	first := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.MarkRead(context.Background(), created.ID, first))

	// A later mark must not move the original read timestamp.
	require.NoError(t, repo.MarkRead(context.Background(), created.ID, first.Add(time.Hour)))

	got, err := repo.FindByIDAndUser(context.Background(), created.ID, userID)
	require.NoError(t, err)
	require.NotNil(t, got.ReadAt)
	assert.WithinDuration(t, first, *got.ReadAt, time.Second)
}
