package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/PrasannaVit-21/chummaOrder/internal/cart"
	"github.com/PrasannaVit-21/chummaOrder/internal/menu"
	"github.com/PrasannaVit-21/chummaOrder/internal/orders"
	"github.com/PrasannaVit-21/chummaOrder/pkg/db/models"
	"github.com/PrasannaVit-21/chummaOrder/pkg/enums"
	pkgerrors "github.com/PrasannaVit-21/chummaOrder/pkg/errors"
	"github.com/PrasannaVit-21/chummaOrder/pkg/logger"
	"github.com/PrasannaVit-21/chummaOrder/pkg/metrics"
	"github.com/PrasannaVit-21/chummaOrder/pkg/redis"
	"github.com/google/uuid"
)

// Step names used for failure metrics.
const (
	stepGuard          = "guard"
	stepLoadCart       = "load_cart"
	stepCreateOrder    = "create_order"
	stepDecrementStock = "decrement_stock"
	stepClearCart      = "clear_cart"
)

// Transactor runs a function inside a database transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service runs the place-order flow.
type Service interface {
	// PlaceOrder converts the user's cart into an order.
	//
	// The order header and its lines are written in one transaction, so a
	// partially written order is never visible. Stock decrements run after
	// the commit and are best effort: a failed decrement is logged and
	// counted but does not fail the order. Clearing the cart is required;
	// if it fails the call returns an error even though the order row
	// already exists.
	PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error)
}

type service struct {
	tx        Transactor
	cartRepo  cart.Repository
	orderRepo orders.Repository
	menuRepo  menu.Repository
	guards    redis.GuardStore
	guardTTL  time.Duration
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
}

// NewService wires the checkout saga with its collaborators.
func NewService(
	tx Transactor,
	cartRepo cart.Repository,
	orderRepo orders.Repository,
	menuRepo menu.Repository,
	guards redis.GuardStore,
	guardTTL time.Duration,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, errors.New("transactor is required")
	}
	if cartRepo == nil {
		return nil, errors.New("cart repository is required")
	}
	if orderRepo == nil {
		return nil, errors.New("order repository is required")
	}
	if menuRepo == nil {
		return nil, errors.New("menu repository is required")
	}
	if guards == nil {
		return nil, errors.New("guard store is required")
	}
	if guardTTL <= 0 {
		guardTTL = 30 * time.Second
	}
	return &service{
		tx:        tx,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		menuRepo:  menuRepo,
		guards:    guards,
		guardTTL:  guardTTL,
		metrics:   checkoutMetrics,
		logg:      logg,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	start := time.Now()
	s.metrics.IncStarted()

	guardKey := s.guards.CheckoutGuardKey(userID.String())
	acquired, err := s.guards.AcquireGuard(ctx, guardKey, s.guardTTL)
	if err != nil {
		s.metrics.IncFailed(stepGuard)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring checkout guard")
	}
	if !acquired {
		s.metrics.IncFailed(stepGuard)
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")
	}
	defer func() {
		if releaseErr := s.guards.ReleaseGuard(ctx, guardKey); releaseErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "releasing checkout guard failed")
		}
	}()

	lines, err := s.cartRepo.ListForUser(ctx, userID)
	if err != nil {
		s.metrics.IncFailed(stepLoadCart)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	if len(lines) == 0 {
		s.metrics.IncFailed(stepLoadCart)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	items, totalPaise, err := buildOrderLines(lines)
	if err != nil {
		s.metrics.IncFailed(stepLoadCart)
		return nil, err
	}

	order := &models.Order{
		UserID:        userID,
		TotalPaise:    totalPaise,
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txOrders := s.orderRepo.WithTx(tx)
		created, createErr := txOrders.CreateOrder(ctx, order)
		if createErr != nil {
			return fmt.Errorf("creating order header: %w", createErr)
		}
		for i := range items {
			items[i].OrderID = created.ID
		}
		if createErr := txOrders.CreateOrderItems(ctx, items); createErr != nil {
			return fmt.Errorf("creating order lines: %w", createErr)
		}
		return nil
	})
	if err != nil {
		s.metrics.IncFailed(stepCreateOrder)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting order")
	}
	order.Items = items

	ctx = s.withOrderLog(ctx, order.ID)

	// Stock decrements run after the commit and do not join the order
	// transaction. Failures leave stock stale, which the canteen's
	// inventory tooling reconciles out of band.
	var decrementErrs error
	for _, line := range items {
		if decErr := s.menuRepo.DecrementStock(ctx, line.MenuItemID, line.Quantity); decErr != nil {
			decrementErrs = multierr.Append(decrementErrs, fmt.Errorf("item %s: %w", line.MenuItemID, decErr))
			s.metrics.IncStockDecrementError()
		}
	}
	if decrementErrs != nil && s.logg != nil {
		s.metrics.IncFailed(stepDecrementStock)
		s.logg.Error(ctx, "stock decrement failed for one or more lines", decrementErrs)
	}

	if err := s.cartRepo.ClearForUser(ctx, userID); err != nil {
		s.metrics.IncFailed(stepClearCart)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart after order").
			WithDetails(map[string]string{"order_id": order.ID.String()})
	}

	s.metrics.IncSucceeded()
	s.metrics.ObserveDuration(time.Since(start))
	if s.logg != nil {
		s.logg.Info(ctx, "order placed")
	}
	return order, nil
}

func (s *service) withOrderLog(ctx context.Context, orderID uuid.UUID) context.Context {
	if s.logg == nil {
		return ctx
	}
	return s.logg.WithOrderID(ctx, orderID.String())
}

// buildOrderLines snapshots cart lines into order lines and sums the total.
// Prices come from the preloaded menu association at this moment; later
// menu price changes do not affect the order.
func buildOrderLines(lines []models.CartItem) ([]models.OrderItem, int, error) {
	items := make([]models.OrderItem, 0, len(lines))
	total := 0
	for _, line := range lines {
		if line.MenuItem == nil {
			return nil, 0, pkgerrors.New(pkgerrors.CodeInternal, "cart line missing menu item")
		}
		items = append(items, models.OrderItem{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			PricePaise: line.MenuItem.PricePaise,
		})
		total += line.MenuItem.PricePaise * line.Quantity
	}
	return items, total, nil
}
