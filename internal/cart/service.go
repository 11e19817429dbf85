package cart

import (
	"context"
	"errors"
	"time"

	"github.com/PrasannaVit-21/chummaOrder/internal/menu"
	"github.com/PrasannaVit-21/chummaOrder/pkg/db/models"
	pkgerrors "github.com/PrasannaVit-21/chummaOrder/pkg/errors"
	"github.com/PrasannaVit-21/chummaOrder/pkg/logger"
	"github.com/PrasannaVit-21/chummaOrder/pkg/redis"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes the cart operations available to an authenticated user.
type Service interface {
	// AddItem increments the quantity of an existing cart line or creates a
	// new line with quantity 1. Concurrent adds of the same (user, item)
	// pair are collapsed: while one add is in flight the duplicate is
	// ignored and the current line is returned unchanged.
	AddItem(ctx context.Context, userID, menuItemID uuid.UUID) (*models.CartItem, error)
	// SetQuantity updates a cart line's quantity. A quantity of zero or
	// below removes the line.
	SetQuantity(ctx context.Context, userID, cartItemID uuid.UUID, quantity int) error
	List(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     Repository
	menuRepo menu.Repository
	guards   redis.GuardStore
	guardTTL time.Duration
	logg     *logger.Logger
}

// NewService wires the cart service with its repositories and guard store.
func NewService(repo Repository, menuRepo menu.Repository, guards redis.GuardStore, guardTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("cart repository is required")
	}
	if menuRepo == nil {
		return nil, errors.New("menu repository is required")
	}
	if guards == nil {
		return nil, errors.New("guard store is required")
	}
	if guardTTL <= 0 {
		guardTTL = 10 * time.Second
	}
	return &service{
		repo:     repo,
		menuRepo: menuRepo,
		guards:   guards,
		guardTTL: guardTTL,
		logg:     logg,
	}, nil
}

func (s *service) AddItem(ctx context.Context, userID, menuItemID uuid.UUID) (*models.CartItem, error) {
	guardKey := s.guards.CartAddGuardKey(userID.String(), menuItemID.String())
	acquired, err := s.guards.AcquireGuard(ctx, guardKey, s.guardTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring cart add guard")
	}
	if !acquired {
		// A duplicate add is already in flight. Return whatever line
		// exists right now without touching it.
		existing, findErr := s.repo.FindByUserAndItem(ctx, userID, menuItemID)
		if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "loading cart line")
		}
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "menu_item_id", menuItemID.String()), "duplicate cart add ignored")
		}
		return existing, nil
	}
	defer func() {
		if releaseErr := s.guards.ReleaseGuard(ctx, guardKey); releaseErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "releasing cart add guard failed")
		}
	}()

	if _, err := s.menuRepo.FindByID(ctx, menuItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading menu item")
	}

	existing, err := s.repo.FindByUserAndItem(ctx, userID, menuItemID)
	switch {
	case err == nil:
		if err := s.repo.UpdateQuantity(ctx, existing.ID, existing.Quantity+1); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "incrementing cart line")
		}
		existing.Quantity++
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, createErr := s.repo.Create(ctx, &models.CartItem{
			UserID:     userID,
			MenuItemID: menuItemID,
			Quantity:   1,
		})
		if createErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "creating cart line")
		}
		return created, nil
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart line")
	}
}

func (s *service) SetQuantity(ctx context.Context, userID, cartItemID uuid.UUID, quantity int) error {
	line, err := s.repo.FindByIDAndUser(ctx, cartItemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart line")
	}
	if quantity <= 0 {
		if err := s.repo.Delete(ctx, line.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing cart line")
		}
		return nil
	}
	if err := s.repo.UpdateQuantity(ctx, line.ID, quantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cart line quantity")
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	items, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing cart")
	}
	return items, nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.ClearForUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
	}
	return nil
}
