package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/PrasannaVit-21/chummaOrder/internal/realtime"
	"github.com/PrasannaVit-21/chummaOrder/pkg/db/models"
	"github.com/PrasannaVit-21/chummaOrder/pkg/enums"
	"github.com/PrasannaVit-21/chummaOrder/pkg/logger"
	"github.com/google/uuid"
)

const (
	eventQueueSize = 64
	maxToasts      = 20
)

// Loaders fetch fresh state from the services. Cart and order changes
// trigger a refetch of the owning collection; menu changes are patched in
// place without a round trip.
type Loaders struct {
	Menu   func(ctx context.Context) ([]models.MenuItem, error)
	Cart   func(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	Orders func(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
}

// Session holds one user's live view of menu, cart, orders and toasts.
// All state belongs to a single goroutine draining the event queue; the
// public methods only enqueue messages or wait on a reply channel, so no
// state is ever read or written concurrently.
type Session struct {
	userID  uuid.UUID
	loaders Loaders
	logg    *logger.Logger

	queue chan message
	done  chan struct{}
	stop  sync.Once

	state State
	// lastOrderStatus keeps the previously seen status per order so a
	// ready toast fires exactly once per transition into ready.
	lastOrderStatus map[uuid.UUID]enums.OrderStatus
}

type message interface{ sessionMessage() }

type changeMsg struct{ event *realtime.ChangeEvent }
type snapshotMsg struct{ reply chan State }
type setCartOpenMsg struct{ open bool }
type dismissToastMsg struct{ id uuid.UUID }
type refreshMsg struct{ reply chan error }

func (changeMsg) sessionMessage()       {}
func (snapshotMsg) sessionMessage()     {}
func (setCartOpenMsg) sessionMessage()  {}
func (dismissToastMsg) sessionMessage() {}
func (refreshMsg) sessionMessage()      {}

// NewSession builds a session and starts its event loop. The initial
// snapshot is loaded on the first Refresh call.
func NewSession(userID uuid.UUID, loaders Loaders, logg *logger.Logger) *Session {
	s := &Session{
		userID:          userID,
		loaders:         loaders,
		logg:            logg,
		queue:           make(chan message, eventQueueSize),
		done:            make(chan struct{}),
		lastOrderStatus: make(map[uuid.UUID]enums.OrderStatus),
	}
	go s.loop()
	return s
}

// UserID returns the owning user.
func (s *Session) UserID() uuid.UUID {
	return s.userID
}

// Close stops the event loop. Pending messages are dropped.
func (s *Session) Close() {
	s.stop.Do(func() { close(s.done) })
}

// Enqueue hands a change event to the session. When the queue is full the
// event is dropped; the next cart or order refetch resynchronizes.
func (s *Session) Enqueue(event *realtime.ChangeEvent) {
	select {
	case s.queue <- changeMsg{event: event}:
	case <-s.done:
	default:
		if s.logg != nil {
			s.logg.Warn(context.Background(), "session queue full, change event dropped")
		}
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot(ctx context.Context) (State, error) {
	reply := make(chan State, 1)
	select {
	case s.queue <- snapshotMsg{reply: reply}:
	case <-s.done:
		return State{}, context.Canceled
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
	select {
	case state := <-reply:
		return state, nil
	case <-s.done:
		return State{}, context.Canceled
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Refresh reloads menu, cart and orders through the loaders and waits for
// completion.
func (s *Session) Refresh(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case s.queue <- refreshMsg{reply: reply}:
	case <-s.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-s.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetCartOpen toggles the cart drawer flag.
func (s *Session) SetCartOpen(open bool) {
	select {
	case s.queue <- setCartOpenMsg{open: open}:
	case <-s.done:
	}
}

// DismissToast removes a toast by id.
func (s *Session) DismissToast(id uuid.UUID) {
	select {
	case s.queue <- dismissToastMsg{id: id}:
	case <-s.done:
	}
}

func (s *Session) loop() {
	for {
		select {
		case <-s.done:
			return
		case msg := <-s.queue:
			s.dispatch(msg)
		}
	}
}

func (s *Session) dispatch(msg message) {
	switch m := msg.(type) {
	case changeMsg:
		s.applyChange(m.event)
	case snapshotMsg:
		m.reply <- s.cloneState()
	case setCartOpenMsg:
		s.state.CartOpen = m.open
	case dismissToastMsg:
		s.removeToast(m.id)
	case refreshMsg:
		m.reply <- s.refreshAll()
	}
}

func (s *Session) applyChange(event *realtime.ChangeEvent) {
	switch event.Table {
	case realtime.TableMenuItems:
		s.applyMenuChange(event)
	case realtime.TableCartItems:
		s.reloadCart()
	case realtime.TableOrders:
		s.applyOrderChange(event)
	}
}

// applyMenuChange patches the cached menu in place. Updates mutate the
// matching row's fields; a row that drops to zero stock stays visible
// until the next full refresh. Only a row DELETE removes it.
func (s *Session) applyMenuChange(event *realtime.ChangeEvent) {
	newRow, oldRow, err := event.MenuItemRows()
	if err != nil {
		if s.logg != nil {
			s.logg.Error(context.Background(), "applying menu change failed", err)
		}
		return
	}

	switch event.Op {
	case enums.ChangeOpDelete:
		if oldRow != nil {
			s.removeMenuItem(oldRow.ID)
		}
	case enums.ChangeOpUpdate:
		if newRow == nil {
			return
		}
		for i := range s.state.Menu {
			if s.state.Menu[i].ID == newRow.ID {
				patchMenuItem(&s.state.Menu[i], newRow)
				return
			}
		}
	case enums.ChangeOpInsert:
		if newRow == nil || newRow.QuantityAvailable <= 0 {
			return
		}
		item := models.MenuItem{ID: newRow.ID}
		patchMenuItem(&item, newRow)
		s.state.Menu = append(s.state.Menu, item)
		sort.Slice(s.state.Menu, func(i, j int) bool {
			return s.state.Menu[i].Name < s.state.Menu[j].Name
		})
	}
}

func patchMenuItem(item *models.MenuItem, row *realtime.MenuItemRow) {
	item.Name = row.Name
	item.Description = row.Description
	item.Category = row.Category
	item.PricePaise = row.PricePaise
	item.QuantityAvailable = row.QuantityAvailable
	item.ImageURL = row.ImageURL
	item.Serves = row.Serves
	item.Rating = row.Rating
	item.CanteenName = row.CanteenName
}

func (s *Session) applyOrderChange(event *realtime.ChangeEvent) {
	newRow, oldRow, err := event.OrderRows()
	if err != nil {
		if s.logg != nil {
			s.logg.Error(context.Background(), "applying order change failed", err)
		}
		return
	}

	if newRow != nil {
		previous, seen := s.lastOrderStatus[newRow.ID]
		if !seen && oldRow != nil {
			previous = oldRow.Status
			seen = true
		}
		transitioned := newRow.Status == enums.OrderStatusReady &&
			(!seen || previous != enums.OrderStatusReady)
		if transitioned && event.Op == enums.ChangeOpUpdate {
			s.pushToast(enums.ToastSuccess, "Your order is ready for pickup!")
		}
		s.lastOrderStatus[newRow.ID] = newRow.Status
	}

	s.reloadOrders()
}

func (s *Session) reloadCart() {
	if s.loaders.Cart == nil {
		return
	}
	cart, err := s.loaders.Cart(context.Background(), s.userID)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(context.Background(), "reloading cart failed", err)
		}
		return
	}
	s.state.Cart = cart
}

func (s *Session) reloadOrders() {
	if s.loaders.Orders == nil {
		return
	}
	ordersList, err := s.loaders.Orders(context.Background(), s.userID)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(context.Background(), "reloading orders failed", err)
		}
		return
	}
	s.state.Orders = ordersList
	for _, order := range ordersList {
		s.lastOrderStatus[order.ID] = order.Status
	}
}

func (s *Session) refreshAll() error {
	if s.loaders.Menu != nil {
		menuList, err := s.loaders.Menu(context.Background())
		if err != nil {
			return err
		}
		s.state.Menu = menuList
	}
	if s.loaders.Cart != nil {
		cart, err := s.loaders.Cart(context.Background(), s.userID)
		if err != nil {
			return err
		}
		s.state.Cart = cart
	}
	if s.loaders.Orders != nil {
		ordersList, err := s.loaders.Orders(context.Background(), s.userID)
		if err != nil {
			return err
		}
		s.state.Orders = ordersList
		for _, order := range ordersList {
			s.lastOrderStatus[order.ID] = order.Status
		}
	}
	return nil
}

func (s *Session) pushToast(severity enums.ToastSeverity, msg string) {
	s.state.Toasts = append(s.state.Toasts, Toast{
		ID:        uuid.New(),
		Severity:  severity,
		Message:   msg,
		CreatedAt: time.Now().UTC(),
	})
	if len(s.state.Toasts) > maxToasts {
		s.state.Toasts = s.state.Toasts[len(s.state.Toasts)-maxToasts:]
	}
}

func (s *Session) removeToast(id uuid.UUID) {
	kept := s.state.Toasts[:0]
	for _, toast := range s.state.Toasts {
		if toast.ID != id {
			kept = append(kept, toast)
		}
	}
	s.state.Toasts = kept
}

func (s *Session) removeMenuItem(id uuid.UUID) {
	kept := s.state.Menu[:0]
	for _, item := range s.state.Menu {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.state.Menu = kept
}

func (s *Session) cloneState() State {
	out := State{CartOpen: s.state.CartOpen}
	out.Menu = append([]models.MenuItem(nil), s.state.Menu...)
	out.Cart = append([]models.CartItem(nil), s.state.Cart...)
	out.Orders = append([]models.Order(nil), s.state.Orders...)
	out.Toasts = append([]Toast(nil), s.state.Toasts...)
	return out
}
