package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/PrasannaVit-21/chummaOrder/pkg/db/models"
	pkgerrors "github.com/PrasannaVit-21/chummaOrder/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes a user's persisted notifications.
type Service interface {
	NotifyOrderReady(ctx context.Context, userID, orderID uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires the notification service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("notification repository is required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) NotifyOrderReady(ctx context.Context, userID, orderID uuid.UUID) (*models.Notification, error) {
	created, err := s.repo.Create(ctx, &models.Notification{
		UserID:  userID,
		Title:   "Order ready",
		Message: "Your order is ready for pickup! Order " + shortOrderRef(orderID),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating notification")
	}
	return created, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	result, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing notifications")
	}
	return result, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if _, err := s.repo.FindByIDAndUser(ctx, notificationID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading notification")
	}
	if err := s.repo.MarkRead(ctx, notificationID, s.now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking notification read")
	}
	return nil
}

// shortOrderRef renders the first id block as a human-friendly reference.
func shortOrderRef(orderID uuid.UUID) string {
	full := orderID.String()
	if len(full) >= 8 {
		return "#" + full[:8]
	}
	return "#" + full
}
