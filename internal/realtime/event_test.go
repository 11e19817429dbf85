package realtime

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/PrasannaVit-21/chummaOrder/pkg/enums"
)

func TestDecodeChangeEvent(t *testing.T) {
	userID := uuid.New()
	payload := []byte(`{
		"table": "cart_items",
		"op": "INSERT",
		"new": {"id": "` + uuid.NewString() + `", "user_id": "` + userID.String() + `", "menu_item_id": "` + uuid.NewString() + `", "quantity": 2}
	}`)

	event, err := DecodeChangeEvent(payload)
	if err != nil {
		t.Fatalf("DecodeChangeEvent: %v", err)
	}
	if event.Table != TableCartItems || event.Op != enums.ChangeOpInsert {
		t.Fatalf("event = %+v", event)
	}

	got, ok := event.UserID()
	if !ok || got != userID {
		t.Fatalf("UserID() = (%s, %v), want (%s, true)", got, ok, userID)
	}
}

func TestDecodeChangeEventRejectsMalformedPayloads(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"not json", `{{`},
		{"missing table", `{"op": "INSERT", "new": {}}`},
		{"invalid op", `{"table": "orders", "op": "TRUNCATE", "new": {}}`},
		{"insert without new row", `{"table": "orders", "op": "INSERT"}`},
		{"delete without old row", `{"table": "orders", "op": "DELETE"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeChangeEvent([]byte(tc.payload)); err == nil {
				t.Fatalf("DecodeChangeEvent accepted %s", tc.name)
			}
		})
	}
}

func TestDeleteEventUsesOldRowForUser(t *testing.T) {
	userID := uuid.New()
	oldRow, err := json.Marshal(CartItemRow{ID: uuid.New(), UserID: userID, Quantity: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	event := &ChangeEvent{Table: TableCartItems, Op: enums.ChangeOpDelete, Old: oldRow}
	got, ok := event.UserID()
	if !ok || got != userID {
		t.Fatalf("UserID() = (%s, %v), want (%s, true)", got, ok, userID)
	}
}

func TestMenuEventsCarryNoUser(t *testing.T) {
	row, err := json.Marshal(MenuItemRow{ID: uuid.New(), Name: "idli", QuantityAvailable: 3})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	event := &ChangeEvent{Table: TableMenuItems, Op: enums.ChangeOpInsert, New: row}
	if _, ok := event.UserID(); ok {
		t.Fatalf("menu event reported a user id")
	}
}

func TestOrderRowsDecode(t *testing.T) {
	orderID := uuid.New()
	newRow, err := json.Marshal(OrderRow{ID: orderID, Status: enums.OrderStatusReady})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	oldRow, err := json.Marshal(OrderRow{ID: orderID, Status: enums.OrderStatusProcessing})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	event := &ChangeEvent{Table: TableOrders, Op: enums.ChangeOpUpdate, New: newRow, Old: oldRow}
	gotNew, gotOld, err := event.OrderRows()
	if err != nil {
		t.Fatalf("OrderRows: %v", err)
	}
	if gotNew.Status != enums.OrderStatusReady || gotOld.Status != enums.OrderStatusProcessing {
		t.Fatalf("rows = %+v / %+v", gotNew, gotOld)
	}
}
