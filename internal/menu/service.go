package menu

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/PrasannaVit-21/chummaOrder/pkg/errors"
	"github.com/PrasannaVit-21/chummaOrder/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes read access to the purchasable menu.
type Service interface {
	ListAvailable(ctx context.Context, filters ListFilters) ([]models.MenuItem, error)
	ListCategories(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
}

type service struct {
	repo Repository
}

// NewService builds a menu service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListAvailable(ctx context.Context, filters ListFilters) ([]models.MenuItem, error) {
	items, err := s.repo.ListAvailable(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu items")
	}
	return items, nil
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu categories")
	}
	return categories, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id required")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	return item, nil
}
