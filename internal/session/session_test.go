package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/PrasannaVit-21/chummaOrder/internal/realtime"
	"github.com/PrasannaVit-21/chummaOrder/pkg/db/models"
	"github.com/PrasannaVit-21/chummaOrder/pkg/enums"
)

func orderUpdateEvent(t *testing.T, orderID, userID uuid.UUID, oldStatus, newStatus enums.OrderStatus) *realtime.ChangeEvent {
	t.Helper()
	newRow, err := json.Marshal(realtime.OrderRow{ID: orderID, UserID: userID, Status: newStatus})
	if err != nil {
		t.Fatalf("marshal new row: %v", err)
	}
	oldRow, err := json.Marshal(realtime.OrderRow{ID: orderID, UserID: userID, Status: oldStatus})
	if err != nil {
		t.Fatalf("marshal old row: %v", err)
	}
	return &realtime.ChangeEvent{
		Table: realtime.TableOrders,
		Op:    enums.ChangeOpUpdate,
		New:   newRow,
		Old:   oldRow,
	}
}

func menuEvent(t *testing.T, op enums.ChangeOp, row realtime.MenuItemRow) *realtime.ChangeEvent {
	t.Helper()
	payload, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal menu row: %v", err)
	}
	event := &realtime.ChangeEvent{Table: realtime.TableMenuItems, Op: op}
	if op == enums.ChangeOpDelete {
		event.Old = payload
	} else {
		event.New = payload
	}
	return event
}

func TestReadyToastFiresOncePerTransition(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()
	sess := NewSession(userID, Loaders{}, nil)
	defer sess.Close()

	sess.Enqueue(orderUpdateEvent(t, orderID, userID, enums.OrderStatusProcessing, enums.OrderStatusReady))

	state, err := sess.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(state.Toasts) != 1 {
		t.Fatalf("toasts = %d, want 1", len(state.Toasts))
	}
	if state.Toasts[0].Severity != enums.ToastSuccess {
		t.Fatalf("severity = %s, want success", state.Toasts[0].Severity)
	}

	// A redelivered ready update must not fire a second toast.
	sess.Enqueue(orderUpdateEvent(t, orderID, userID, enums.OrderStatusReady, enums.OrderStatusReady))

	state, err = sess.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(state.Toasts) != 1 {
		t.Fatalf("toasts after redelivery = %d, want 1", len(state.Toasts))
	}
}

func TestReadyToastNotFiredForOtherTransitions(t *testing.T) {
	userID := uuid.New()
	sess := NewSession(userID, Loaders{}, nil)
	defer sess.Close()

	sess.Enqueue(orderUpdateEvent(t, uuid.New(), userID, enums.OrderStatusPending, enums.OrderStatusProcessing))
	sess.Enqueue(orderUpdateEvent(t, uuid.New(), userID, enums.OrderStatusReady, enums.OrderStatusCompleted))

	state, err := sess.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(state.Toasts) != 0 {
		t.Fatalf("toasts = %d, want 0", len(state.Toasts))
	}
}

func TestCartChangeTriggersReload(t *testing.T) {
	userID := uuid.New()
	calls := 0
	loaders := Loaders{
		Cart: func(ctx context.Context, id uuid.UUID) ([]models.CartItem, error) {
			calls++
			return []models.CartItem{{ID: uuid.New(), UserID: id, Quantity: 2}}, nil
		},
	}
	sess := NewSession(userID, loaders, nil)
	defer sess.Close()

	row, err := json.Marshal(realtime.CartItemRow{ID: uuid.New(), UserID: userID, Quantity: 2})
	if err != nil {
		t.Fatalf("marshal cart row: %v", err)
	}
	sess.Enqueue(&realtime.ChangeEvent{Table: realtime.TableCartItems, Op: enums.ChangeOpInsert, New: row})

	state, err := sess.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if calls != 1 {
		t.Fatalf("cart loader calls = %d, want 1", calls)
	}
	if len(state.Cart) != 1 || state.Cart[0].Quantity != 2 {
		t.Fatalf("cart state = %+v", state.Cart)
	}
}

func TestMenuChangePatchedInPlace(t *testing.T) {
	sess := NewSession(uuid.New(), Loaders{}, nil)
	defer sess.Close()

	idli := realtime.MenuItemRow{ID: uuid.New(), Name: "idli", QuantityAvailable: 10}
	vada := realtime.MenuItemRow{ID: uuid.New(), Name: "vada", QuantityAvailable: 5}
	sess.Enqueue(menuEvent(t, enums.ChangeOpInsert, vada))
	sess.Enqueue(menuEvent(t, enums.ChangeOpInsert, idli))

	state, err := sess.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(state.Menu) != 2 {
		t.Fatalf("menu = %d items, want 2", len(state.Menu))
	}
	if state.Menu[0].Name != "idli" || state.Menu[1].Name != "vada" {
		t.Fatalf("menu not sorted by name: %s, %s", state.Menu[0].Name, state.Menu[1].Name)
	}

	// Stock running out patches the row but keeps it visible until
	// the next full refresh.
	idli.QuantityAvailable = 0
	sess.Enqueue(menuEvent(t, enums.ChangeOpUpdate, idli))

	state, err = sess.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(state.Menu) != 2 {
		t.Fatalf("menu = %d items, want 2", len(state.Menu))
	}
	if state.Menu[0].Name != "idli" || state.Menu[0].QuantityAvailable != 0 {
		t.Fatalf("update not patched in place: %+v", state.Menu[0])
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	sess := NewSession(uuid.New(), Loaders{}, nil)
	defer sess.Close()

	sess.Enqueue(menuEvent(t, enums.ChangeOpInsert, realtime.MenuItemRow{
		ID: uuid.New(), Name: "dosa", QuantityAvailable: 3,
	}))

	first, err := sess.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	first.Menu[0].Name = "mutated"

	second, err := sess.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if second.Menu[0].Name != "dosa" {
		t.Fatalf("snapshot shares state with the session")
	}
}

func TestCartOpenAndToastDismissal(t *testing.T) {
	userID := uuid.New()
	sess := NewSession(userID, Loaders{}, nil)
	defer sess.Close()

	sess.SetCartOpen(true)
	sess.Enqueue(orderUpdateEvent(t, uuid.New(), userID, enums.OrderStatusProcessing, enums.OrderStatusReady))

	state, err := sess.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !state.CartOpen {
		t.Fatalf("cart drawer not open")
	}
	if len(state.Toasts) != 1 {
		t.Fatalf("toasts = %d, want 1", len(state.Toasts))
	}

	sess.DismissToast(state.Toasts[0].ID)

	state, err = sess.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(state.Toasts) != 0 {
		t.Fatalf("toast not dismissed")
	}
}

func TestCartHelpers(t *testing.T) {
	lines := []models.CartItem{
		{Quantity: 2, MenuItem: &models.MenuItem{PricePaise: 5000}},
		{Quantity: 1, MenuItem: &models.MenuItem{PricePaise: 12050}},
		{Quantity: 3}, // association not loaded
	}
	if got := CartCount(lines); got != 6 {
		t.Fatalf("CartCount = %d, want 6", got)
	}
	if got := CartTotalPaise(lines); got != 2*5000+12050 {
		t.Fatalf("CartTotalPaise = %d, want %d", got, 2*5000+12050)
	}
}
