package menu

import (
	"context"
	"strings"

	"github.com/PrasannaVit-21/chummaOrder/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilters narrows the available-items listing.
type ListFilters struct {
	Search   string
	Category string
}

// Repository exposes menu item persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListAvailable(ctx context.Context, filters ListFilters) ([]models.MenuItem, error)
	ListCategories(ctx context.Context) ([]string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a menu repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListAvailable(ctx context.Context, filters ListFilters) ([]models.MenuItem, error) {
	query := r.db.WithContext(ctx).
		Where("quantity_available > 0").
		Order("name ASC")

	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if category := strings.TrimSpace(filters.Category); category != "" && !strings.EqualFold(category, "all") {
		query = query.Where("category = ?", category)
	}

	var items []models.MenuItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("quantity_available > 0").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DecrementStock applies a relative decrement with no lower bound. Two
// concurrent checkouts against the same low-stock item can both succeed
// and drive the counter negative; nothing here prevents that.
func (r *repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ?", id).
		UpdateColumn("quantity_available", gorm.Expr("quantity_available - ?", qty)).Error
}
