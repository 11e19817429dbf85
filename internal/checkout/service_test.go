package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PrasannaVit-21/chummaOrder/internal/cart"
	"github.com/PrasannaVit-21/chummaOrder/internal/menu"
	"github.com/PrasannaVit-21/chummaOrder/internal/orders"
	"github.com/PrasannaVit-21/chummaOrder/pkg/db/models"
	pkgerrors "github.com/PrasannaVit-21/chummaOrder/pkg/errors"
)

type stubCartRepo struct {
	lines        []models.CartItem
	listErr      error
	clearErr     error
	clearedUser  uuid.UUID
	clearedCalls int
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.lines, nil
}

func (s *stubCartRepo) FindByUserAndItem(ctx context.Context, userID, menuItemID uuid.UUID) (*models.CartItem, error) {
	panic("not implemented")
}

func (s *stubCartRepo) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.CartItem, error) {
	panic("not implemented")
}

func (s *stubCartRepo) Create(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	panic("not implemented")
}

func (s *stubCartRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	panic("not implemented")
}

func (s *stubCartRepo) Delete(ctx context.Context, id uuid.UUID) error {
	panic("not implemented")
}

func (s *stubCartRepo) ClearForUser(ctx context.Context, userID uuid.UUID) error {
	s.clearedCalls++
	s.clearedUser = userID
	return s.clearErr
}

type stubOrderRepo struct {
	createOrderErr error
	createItemsErr error
	createdOrder   *models.Order
	createdItems   []models.OrderItem
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrderRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.createOrderErr != nil {
		return nil, s.createOrderErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.createdOrder = order
	return order, nil
}

func (s *stubOrderRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if s.createItemsErr != nil {
		return s.createItemsErr
	}
	s.createdItems = items
	return nil
}

func (s *stubOrderRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	panic("not implemented")
}

func (s *stubOrderRepo) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	panic("not implemented")
}

type stubMenuRepo struct {
	decrements   map[uuid.UUID]int
	decrementErr map[uuid.UUID]error
}

func (s *stubMenuRepo) WithTx(tx *gorm.DB) menu.Repository { return s }

func (s *stubMenuRepo) ListAvailable(ctx context.Context, filters menu.ListFilters) ([]models.MenuItem, error) {
	panic("not implemented")
}

func (s *stubMenuRepo) ListCategories(ctx context.Context) ([]string, error) {
	panic("not implemented")
}

func (s *stubMenuRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	panic("not implemented")
}

func (s *stubMenuRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	if err := s.decrementErr[id]; err != nil {
		return err
	}
	if s.decrements == nil {
		s.decrements = make(map[uuid.UUID]int)
	}
	s.decrements[id] += qty
	return nil
}

type stubGuards struct {
	held        bool
	acquireErr  error
	acquired    []string
	released    []string
	releaseErr  error
	acquireHits int
}

func (s *stubGuards) AcquireGuard(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.acquireHits++
	if s.acquireErr != nil {
		return false, s.acquireErr
	}
	if s.held {
		return false, nil
	}
	s.acquired = append(s.acquired, key)
	return true, nil
}

func (s *stubGuards) ReleaseGuard(ctx context.Context, key string) error {
	s.released = append(s.released, key)
	return s.releaseErr
}

func (s *stubGuards) CheckoutGuardKey(userID string) string {
	return "guard:checkout:" + userID
}

func (s *stubGuards) CartAddGuardKey(userID, menuItemID string) string {
	return "guard:cart_add:" + userID + ":" + menuItemID
}

type stubTx struct {
	err   error
	calls int
}

func (s *stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

func cartLine(menuItemID uuid.UUID, qty, pricePaise int) models.CartItem {
	return models.CartItem{
		ID:         uuid.New(),
		MenuItemID: menuItemID,
		Quantity:   qty,
		MenuItem: &models.MenuItem{
			ID:         menuItemID,
			Name:       "item",
			PricePaise: pricePaise,
		},
	}
}

func newTestService(t *testing.T, cartRepo *stubCartRepo, orderRepo *stubOrderRepo, menuRepo *stubMenuRepo, guards *stubGuards, tx *stubTx) Service {
	t.Helper()
	svc, err := NewService(tx, cartRepo, orderRepo, menuRepo, guards, time.Second, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestPlaceOrderSnapshotsTotalAndClearsCart(t *testing.T) {
	userID := uuid.New()
	itemA := uuid.New()
	itemB := uuid.New()
	cartRepo := &stubCartRepo{lines: []models.CartItem{
		cartLine(itemA, 2, 5000),
		cartLine(itemB, 1, 12050),
	}}
	orderRepo := &stubOrderRepo{}
	menuRepo := &stubMenuRepo{}
	guards := &stubGuards{}
	tx := &stubTx{}

	svc := newTestService(t, cartRepo, orderRepo, menuRepo, guards, tx)

	order, err := svc.PlaceOrder(context.Background(), userID)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	if order.TotalPaise != 2*5000+12050 {
		t.Fatalf("total = %d, want %d", order.TotalPaise, 2*5000+12050)
	}
	if len(order.Items) != 2 {
		t.Fatalf("order items = %d, want 2", len(order.Items))
	}
	for _, line := range order.Items {
		if line.OrderID != order.ID {
			t.Fatalf("line order id = %s, want %s", line.OrderID, order.ID)
		}
	}
	if tx.calls != 1 {
		t.Fatalf("transaction calls = %d, want 1", tx.calls)
	}
	if cartRepo.clearedCalls != 1 || cartRepo.clearedUser != userID {
		t.Fatalf("cart not cleared for user")
	}
	if menuRepo.decrements[itemA] != 2 || menuRepo.decrements[itemB] != 1 {
		t.Fatalf("stock decrements = %v", menuRepo.decrements)
	}
	if len(guards.released) != 1 {
		t.Fatalf("guard released %d times, want 1", len(guards.released))
	}
}

func TestPlaceOrderRejectsConcurrentCheckout(t *testing.T) {
	cartRepo := &stubCartRepo{lines: []models.CartItem{cartLine(uuid.New(), 1, 100)}}
	orderRepo := &stubOrderRepo{}
	guards := &stubGuards{held: true}
	tx := &stubTx{}

	svc := newTestService(t, cartRepo, orderRepo, &stubMenuRepo{}, guards, tx)

	_, err := svc.PlaceOrder(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
	if tx.calls != 0 {
		t.Fatalf("transaction ran despite held guard")
	}
	if cartRepo.clearedCalls != 0 {
		t.Fatalf("cart cleared despite held guard")
	}
	if len(guards.released) != 0 {
		t.Fatalf("released a guard it never held")
	}
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	cartRepo := &stubCartRepo{}
	tx := &stubTx{}
	guards := &stubGuards{}

	svc := newTestService(t, cartRepo, &stubOrderRepo{}, &stubMenuRepo{}, guards, tx)

	_, err := svc.PlaceOrder(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
	if tx.calls != 0 {
		t.Fatalf("transaction ran for empty cart")
	}
	if len(guards.released) != 1 {
		t.Fatalf("guard not released after empty cart rejection")
	}
}

func TestPlaceOrderHeaderFailureLeavesEverythingUntouched(t *testing.T) {
	cartRepo := &stubCartRepo{lines: []models.CartItem{cartLine(uuid.New(), 1, 100)}}
	orderRepo := &stubOrderRepo{createOrderErr: errors.New("header insert failed")}
	menuRepo := &stubMenuRepo{}
	guards := &stubGuards{}

	svc := newTestService(t, cartRepo, orderRepo, menuRepo, guards, &stubTx{})

	_, err := svc.PlaceOrder(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("err = %v, want dependency", err)
	}
	if cartRepo.clearedCalls != 0 {
		t.Fatalf("cart cleared after failed order write")
	}
	if len(menuRepo.decrements) != 0 {
		t.Fatalf("stock decremented after failed order write")
	}
	if len(guards.released) != 1 {
		t.Fatalf("guard not released after failure")
	}
}

func TestPlaceOrderSucceedsWhenStockDecrementFails(t *testing.T) {
	itemID := uuid.New()
	cartRepo := &stubCartRepo{lines: []models.CartItem{cartLine(itemID, 3, 2500)}}
	menuRepo := &stubMenuRepo{decrementErr: map[uuid.UUID]error{itemID: errors.New("decrement failed")}}
	guards := &stubGuards{}

	svc := newTestService(t, cartRepo, &stubOrderRepo{}, menuRepo, guards, &stubTx{})

	order, err := svc.PlaceOrder(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if order.TotalPaise != 3*2500 {
		t.Fatalf("total = %d, want %d", order.TotalPaise, 3*2500)
	}
	if cartRepo.clearedCalls != 1 {
		t.Fatalf("cart not cleared when only the decrement failed")
	}
}

func TestPlaceOrderFailsWhenCartClearFails(t *testing.T) {
	cartRepo := &stubCartRepo{
		lines:    []models.CartItem{cartLine(uuid.New(), 1, 100)},
		clearErr: errors.New("clear failed"),
	}
	orderRepo := &stubOrderRepo{}
	guards := &stubGuards{}

	svc := newTestService(t, cartRepo, orderRepo, &stubMenuRepo{}, guards, &stubTx{})

	_, err := svc.PlaceOrder(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("err = %v, want dependency", err)
	}
	// The order row already exists when the clear fails.
	if orderRepo.createdOrder == nil {
		t.Fatalf("order was not persisted before clear failure")
	}
	if len(guards.released) != 1 {
		t.Fatalf("guard not released after clear failure")
	}
}

func TestPlaceOrderGuardDependencyError(t *testing.T) {
	guards := &stubGuards{acquireErr: errors.New("redis down")}
	tx := &stubTx{}

	svc := newTestService(t, &stubCartRepo{}, &stubOrderRepo{}, &stubMenuRepo{}, guards, tx)

	_, err := svc.PlaceOrder(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("err = %v, want dependency", err)
	}
	if tx.calls != 0 {
		t.Fatalf("transaction ran despite guard error")
	}
}
