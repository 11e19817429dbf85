package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/PrasannaVit-21/chummaOrder/internal/realtime"
	"github.com/PrasannaVit-21/chummaOrder/pkg/enums"
)

func TestHubReturnsSameSessionPerUser(t *testing.T) {
	hub := NewHub(Loaders{}, nil)
	defer hub.Close()

	userID := uuid.New()
	if hub.Get(userID) != hub.Get(userID) {
		t.Fatalf("hub created two sessions for one user")
	}
	if hub.Peek(uuid.New()) != nil {
		t.Fatalf("peek created a session")
	}
}

func TestHubRoutesUserScopedEvents(t *testing.T) {
	hub := NewHub(Loaders{}, nil)
	defer hub.Close()

	alice := uuid.New()
	bob := uuid.New()
	aliceSess := hub.Get(alice)
	bobSess := hub.Get(bob)

	orderID := uuid.New()
	newRow, err := json.Marshal(realtime.OrderRow{ID: orderID, UserID: alice, Status: enums.OrderStatusReady})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	oldRow, err := json.Marshal(realtime.OrderRow{ID: orderID, UserID: alice, Status: enums.OrderStatusProcessing})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	hub.DeliverTo(alice, &realtime.ChangeEvent{
		Table: realtime.TableOrders,
		Op:    enums.ChangeOpUpdate,
		New:   newRow,
		Old:   oldRow,
	})

	aliceState, err := aliceSess.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(aliceState.Toasts) != 1 {
		t.Fatalf("alice toasts = %d, want 1", len(aliceState.Toasts))
	}

	bobState, err := bobSess.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(bobState.Toasts) != 0 {
		t.Fatalf("bob received alice's event")
	}
}

func TestHubBroadcastReachesAllSessions(t *testing.T) {
	hub := NewHub(Loaders{}, nil)
	defer hub.Close()

	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range users {
		hub.Get(id)
	}

	row, err := json.Marshal(realtime.MenuItemRow{ID: uuid.New(), Name: "poori", QuantityAvailable: 4})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	hub.Broadcast(&realtime.ChangeEvent{
		Table: realtime.TableMenuItems,
		Op:    enums.ChangeOpInsert,
		New:   row,
	})

	for _, id := range users {
		state, err := hub.Get(id).Snapshot(context.Background())
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		if len(state.Menu) != 1 {
			t.Fatalf("user %s menu = %d items, want 1", id, len(state.Menu))
		}
	}
}
