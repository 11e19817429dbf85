package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/PrasannaVit-21/chummaOrder/pkg/enums"
	"github.com/google/uuid"
)

// Table names carried in change events.
const (
	TableMenuItems = "menu_items"
	TableCartItems = "cart_items"
	TableOrders    = "orders"
)

// ChangeEvent is one row-level change published on a table feed. New holds
// the row after the change (nil for DELETE), Old the row before it (nil for
// INSERT). Row payloads stay raw until the consumer knows the table.
type ChangeEvent struct {
	Table      string          `json:"table"`
	Op         enums.ChangeOp  `json:"op"`
	New        json.RawMessage `json:"new,omitempty"`
	Old        json.RawMessage `json:"old,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// DecodeChangeEvent parses and validates a change event payload.
func DecodeChangeEvent(data []byte) (*ChangeEvent, error) {
	var event ChangeEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("decoding change event: %w", err)
	}
	if event.Table == "" {
		return nil, fmt.Errorf("change event missing table")
	}
	if !event.Op.IsValid() {
		return nil, fmt.Errorf("change event has invalid op %q", event.Op)
	}
	if event.Op != enums.ChangeOpDelete && len(event.New) == 0 {
		return nil, fmt.Errorf("%s change event missing new row", event.Op)
	}
	if event.Op == enums.ChangeOpDelete && len(event.Old) == 0 {
		return nil, fmt.Errorf("delete change event missing old row")
	}
	return &event, nil
}

// MenuItemRow is the menu_items payload inside a change event.
type MenuItemRow struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	PricePaise        int       `json:"price_paise"`
	QuantityAvailable int       `json:"quantity_available"`
	ImageURL          *string   `json:"image_url"`
	Serves            int       `json:"serves"`
	Rating            *float64  `json:"rating"`
	CanteenName       string    `json:"canteen_name"`
}

// CartItemRow is the cart_items payload inside a change event.
type CartItemRow struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Quantity   int       `json:"quantity"`
}

// OrderRow is the orders payload inside a change event.
type OrderRow struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	TotalPaise    int                 `json:"total_paise"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
}

// MenuItemRows decodes the new and old menu rows from the event.
func (e *ChangeEvent) MenuItemRows() (newRow, oldRow *MenuItemRow, err error) {
	newRow, err = decodeRow[MenuItemRow](e.New)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding new menu row: %w", err)
	}
	oldRow, err = decodeRow[MenuItemRow](e.Old)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding old menu row: %w", err)
	}
	return newRow, oldRow, nil
}

// CartItemRows decodes the new and old cart rows from the event.
func (e *ChangeEvent) CartItemRows() (newRow, oldRow *CartItemRow, err error) {
	newRow, err = decodeRow[CartItemRow](e.New)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding new cart row: %w", err)
	}
	oldRow, err = decodeRow[CartItemRow](e.Old)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding old cart row: %w", err)
	}
	return newRow, oldRow, nil
}

// OrderRows decodes the new and old order rows from the event.
func (e *ChangeEvent) OrderRows() (newRow, oldRow *OrderRow, err error) {
	newRow, err = decodeRow[OrderRow](e.New)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding new order row: %w", err)
	}
	oldRow, err = decodeRow[OrderRow](e.Old)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding old order row: %w", err)
	}
	return newRow, oldRow, nil
}

// UserID extracts the owning user from a user-scoped event, preferring the
// new row. Menu events carry no user and return false.
func (e *ChangeEvent) UserID() (uuid.UUID, bool) {
	switch e.Table {
	case TableCartItems:
		newRow, oldRow, err := e.CartItemRows()
		if err != nil {
			return uuid.Nil, false
		}
		if newRow != nil {
			return newRow.UserID, true
		}
		if oldRow != nil {
			return oldRow.UserID, true
		}
	case TableOrders:
		newRow, oldRow, err := e.OrderRows()
		if err != nil {
			return uuid.Nil, false
		}
		if newRow != nil {
			return newRow.UserID, true
		}
		if oldRow != nil {
			return oldRow.UserID, true
		}
	}
	return uuid.Nil, false
}

func decodeRow[T any](raw json.RawMessage) (*T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var row T
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	return &row, nil
}
