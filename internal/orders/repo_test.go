package orders

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
	"github.com/PrasannaVit-21/chummaOrder/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	menuItems := `
CREATE TABLE IF NOT EXISTS menu_items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL,
  price_paise INTEGER NOT NULL,
  quantity_available INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  serves INTEGER NOT NULL DEFAULT 1,
  rating REAL,
  canteen_name TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`
	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total_paise INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  menu_item_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price_paise INTEGER NOT NULL,
  created_at DATETIME
);`
	for _, schema := range []string{menuItems, ordersTable, orderItems} {
		require.NoError(t, db.Exec(schema).Error)
	}
	return db
}

func seedOrder(t *testing.T, repo Repository, userID uuid.UUID, totalPaise int, createdAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		TotalPaise:    totalPaise,
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
		CreatedAt:     createdAt,
	}
	created, err := repo.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestCreateOrderWithItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	menuItem := models.MenuItem{ID: uuid.New(), Name: "dosa", Category: "breakfast", PricePaise: 6000, QuantityAvailable: 5, Serves: 1}
	require.NoError(t, db.Create(&menuItem).Error)

	userID := uuid.New()
	order := seedOrder(t, repo, userID, 12000, time.Now())

	items := []models.OrderItem{
		{ID: uuid.New(), OrderID: order.ID, MenuItemID: menuItem.ID, Quantity: 2, PricePaise: 6000},
	}
	require.NoError(t, repo.CreateOrderItems(context.Background(), items))

	got, err := repo.FindByIDAndUser(context.Background(), order.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 12000, got.TotalPaise)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	require.NotNil(t, got.Items[0].MenuItem)
	assert.Equal(t, "dosa", got.Items[0].MenuItem.Name)
}

func TestListForUserNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	older := seedOrder(t, repo, userID, 5000, time.Now().Add(-2*time.Hour))
	newer := seedOrder(t, repo, userID, 9000, time.Now())
	seedOrder(t, repo, uuid.New(), 7000, time.Now())

	list, err := repo.ListForUser(context.Background(), userID)
	require.NoError(t, err)

	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestFindByIDAndUserScopesToOwner(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	owner := uuid.New()
	order := seedOrder(t, repo, owner, 4000, time.Now())

	_, err := repo.FindByIDAndUser(context.Background(), order.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
