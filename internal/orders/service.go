package orders

import (
	"context"
	"errors"

	"github.com/PrasannaVit-21/chummaOrder/pkg/db/models"
	pkgerrors "github.com/PrasannaVit-21/chummaOrder/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes read access to a user's order history.
type Service interface {
	History(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
}

type service struct {
	repo Repository
}

// NewService wires the order history service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("order repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	result, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return order, nil
}
