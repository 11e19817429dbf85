package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/PrasannaVit-21/chummaOrder/internal/session"
	"github.com/PrasannaVit-21/chummaOrder/pkg/db/models"
	"github.com/PrasannaVit-21/chummaOrder/pkg/enums"
	"github.com/PrasannaVit-21/chummaOrder/pkg/types"
)

type menuItemResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	PricePaise        int       `json:"price_paise"`
	PriceDisplay      string    `json:"price_display"`
	QuantityAvailable int       `json:"quantity_available"`
	ImageURL          *string   `json:"image_url,omitempty"`
	Serves            int       `json:"serves"`
	Rating            *float64  `json:"rating,omitempty"`
	CanteenName       string    `json:"canteen_name"`
}

func newMenuItemResponse(item models.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:                item.ID,
		Name:              item.Name,
		Description:       item.Description,
		Category:          item.Category,
		PricePaise:        item.PricePaise,
		PriceDisplay:      types.FormatRupees(item.PricePaise),
		QuantityAvailable: item.QuantityAvailable,
		ImageURL:          item.ImageURL,
		Serves:            item.Serves,
		Rating:            item.Rating,
		CanteenName:       item.CanteenName,
	}
}

func newMenuListResponse(items []models.MenuItem) []menuItemResponse {
	out := make([]menuItemResponse, len(items))
	for i, item := range items {
		out[i] = newMenuItemResponse(item)
	}
	return out
}

type cartItemResponse struct {
	ID            uuid.UUID         `json:"id"`
	MenuItemID    uuid.UUID         `json:"menu_item_id"`
	Quantity      int               `json:"quantity"`
	MenuItem      *menuItemResponse `json:"menu_item,omitempty"`
	SubtotalPaise int               `json:"subtotal_paise"`
}

func newCartItemResponse(line models.CartItem) cartItemResponse {
	out := cartItemResponse{
		ID:         line.ID,
		MenuItemID: line.MenuItemID,
		Quantity:   line.Quantity,
	}
	if line.MenuItem != nil {
		view := newMenuItemResponse(*line.MenuItem)
		out.MenuItem = &view
		out.SubtotalPaise = line.MenuItem.PricePaise * line.Quantity
	}
	return out
}

type cartResponse struct {
	Items        []cartItemResponse `json:"items"`
	Count        int                `json:"count"`
	TotalPaise   int                `json:"total_paise"`
	TotalDisplay string             `json:"total_display"`
}

func newCartResponse(lines []models.CartItem) cartResponse {
	items := make([]cartItemResponse, len(lines))
	for i, line := range lines {
		items[i] = newCartItemResponse(line)
	}
	total := session.CartTotalPaise(lines)
	return cartResponse{
		Items:        items,
		Count:        session.CartCount(lines),
		TotalPaise:   total,
		TotalDisplay: types.FormatRupees(total),
	}
}

type orderItemResponse struct {
	ID           uuid.UUID `json:"id"`
	MenuItemID   uuid.UUID `json:"menu_item_id"`
	Name         string    `json:"name"`
	Quantity     int       `json:"quantity"`
	PricePaise   int       `json:"price_paise"`
	PriceDisplay string    `json:"price_display"`
}

type orderResponse struct {
	ID            uuid.UUID           `json:"id"`
	TotalPaise    int                 `json:"total_paise"`
	TotalDisplay  string              `json:"total_display"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	Items         []orderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

func newOrderResponse(order models.Order) orderResponse {
	items := make([]orderItemResponse, len(order.Items))
	for i, line := range order.Items {
		items[i] = orderItemResponse{
			ID:           line.ID,
			MenuItemID:   line.MenuItemID,
			Quantity:     line.Quantity,
			PricePaise:   line.PricePaise,
			PriceDisplay: types.FormatRupees(line.PricePaise),
		}
		if line.MenuItem != nil {
			items[i].Name = line.MenuItem.Name
		}
	}
	return orderResponse{
		ID:            order.ID,
		TotalPaise:    order.TotalPaise,
		TotalDisplay:  types.FormatRupees(order.TotalPaise),
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Items:         items,
		CreatedAt:     order.CreatedAt,
	}
}

func newOrderListResponse(ordersList []models.Order) []orderResponse {
	out := make([]orderResponse, len(ordersList))
	for i, order := range ordersList {
		out[i] = newOrderResponse(order)
	}
	return out
}

type notificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func newNotificationListResponse(list []models.Notification) []notificationResponse {
	out := make([]notificationResponse, len(list))
	for i, n := range list {
		out[i] = notificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		}
	}
	return out
}
