package session

import (
	"time"

	"github.com/PrasannaVit-21/chummaOrder/pkg/db/models"
	"github.com/PrasannaVit-21/chummaOrder/pkg/enums"
	"github.com/google/uuid"
)

// Toast is a transient user-facing notice.
type Toast struct {
	ID        uuid.UUID           `json:"id"`
	Severity  enums.ToastSeverity `json:"severity"`
	Message   string              `json:"message"`
	CreatedAt time.Time           `json:"created_at"`
}

// State is a point-in-time snapshot of one user's session.
type State struct {
	Menu     []models.MenuItem `json:"menu"`
	Cart     []models.CartItem `json:"cart"`
	Orders   []models.Order    `json:"orders"`
	Toasts   []Toast           `json:"toasts"`
	CartOpen bool              `json:"cart_open"`
}

// CartCount sums the quantities across all cart lines.
func CartCount(cart []models.CartItem) int {
	count := 0
	for _, line := range cart {
		count += line.Quantity
	}
	return count
}

// CartTotalPaise sums quantity times unit price across all cart lines.
// Lines whose menu association is not loaded contribute nothing.
func CartTotalPaise(cart []models.CartItem) int {
	total := 0
	for _, line := range cart {
		if line.MenuItem == nil {
			continue
		}
		total += line.MenuItem.PricePaise * line.Quantity
	}
	return total
}
