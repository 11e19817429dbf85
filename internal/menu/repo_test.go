package menu

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/PrasannaVit-21/chummaOrder/pkg/db/models"
)

func setupMenuTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
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
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedMenuItem(t *testing.T, db *gorm.DB, name, category string, qty, pricePaise int) models.MenuItem {
	t.Helper()
	item := models.MenuItem{
		ID:                uuid.New(),
		Name:              name,
		Category:          category,
		PricePaise:        pricePaise,
		QuantityAvailable: qty,
		Serves:            1,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func TestListAvailableSkipsOutOfStockAndSortsByName(t *testing.T) {
	db := setupMenuTestDB(t)
	repo := NewRepository(db)

	seedMenuItem(t, db, "vada", "snacks", 5, 2000)
	seedMenuItem(t, db, "idli", "breakfast", 3, 3000)
	seedMenuItem(t, db, "dosa", "breakfast", 0, 6000)

	items, err := repo.ListAvailable(context.Background(), ListFilters{})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "idli", items[0].Name)
	assert.Equal(t, "vada", items[1].Name)
}

func TestListAvailableFilters(t *testing.T) {
	db := setupMenuTestDB(t)
	repo := NewRepository(db)

	seedMenuItem(t, db, "masala dosa", "breakfast", 4, 6000)
	seedMenuItem(t, db, "veg biryani", "lunch", 2, 12000)
	seedMenuItem(t, db, "onion dosa", "breakfast", 1, 6500)

	byCategory, err := repo.ListAvailable(context.Background(), ListFilters{Category: "lunch"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "veg biryani", byCategory[0].Name)

	bySearch, err := repo.ListAvailable(context.Background(), ListFilters{Search: "DOSA"})
	require.NoError(t, err)
	require.Len(t, bySearch, 2)

	// "all" is the unfiltered category sentinel.
	all, err := repo.ListAvailable(context.Background(), ListFilters{Category: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDecrementStockHasNoFloor(t *testing.T) {
	db := setupMenuTestDB(t)
	repo := NewRepository(db)

	item := seedMenuItem(t, db, "lemon rice", "lunch", 2, 5000)

	require.NoError(t, repo.DecrementStock(context.Background(), item.ID, 5))

	var got models.MenuItem
	require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
	assert.Equal(t, -3, got.QuantityAvailable)
}

func TestFindByID(t *testing.T) {
	db := setupMenuTestDB(t)
	repo := NewRepository(db)

	item := seedMenuItem(t, db, "curd rice", "lunch", 7, 4000)

	got, err := repo.FindByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Name, got.Name)

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListCategories(t *testing.T) {
	db := setupMenuTestDB(t)
	repo := NewRepository(db)

	seedMenuItem(t, db, "idli", "breakfast", 3, 3000)
	seedMenuItem(t, db, "dosa", "breakfast", 2, 6000)
	seedMenuItem(t, db, "biryani", "lunch", 1, 12000)

	categories, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"breakfast", "lunch"}, categories)
}
