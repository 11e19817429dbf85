package realtime

import (
	"context"
	"errors"
	"sync"

	pubsub "cloud.google.com/go/pubsub/v2"
	"go.uber.org/multierr"

	"github.com/PrasannaVit-21/chummaOrder/pkg/logger"
	"github.com/google/uuid"
)

// Sink receives decoded change events. Menu changes go to every connected
// session, cart and order changes only to the owning user's sessions.
type Sink interface {
	Broadcast(event *ChangeEvent)
	DeliverTo(userID uuid.UUID, event *ChangeEvent)
}

type subscriber interface {
	Receive(ctx context.Context, f func(context.Context, *pubsub.Message)) error
}

// Relay consumes the table change feeds and routes events into a sink.
type Relay struct {
	menuSub   subscriber
	cartSub   subscriber
	ordersSub subscriber
	sink      Sink
	logg      *logger.Logger
}

// NewRelay wires the relay with its feed subscribers and sink.
func NewRelay(menuSub, cartSub, ordersSub *pubsub.Subscriber, sink Sink, logg *logger.Logger) (*Relay, error) {
	if menuSub == nil || cartSub == nil || ordersSub == nil {
		return nil, errors.New("all change feed subscribers are required")
	}
	if sink == nil {
		return nil, errors.New("sink is required")
	}
	return &Relay{
		menuSub:   menuSub,
		cartSub:   cartSub,
		ordersSub: ordersSub,
		sink:      sink,
		logg:      logg,
	}, nil
}

// Run consumes all three feeds until ctx is cancelled or one feed fails.
func (r *Relay) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	subs := []subscriber{r.menuSub, r.cartSub, r.ordersSub}
	errs := make([]error, len(subs))

	var wg sync.WaitGroup
	for i, sub := range subs {
		wg.Add(1)
		go func(i int, sub subscriber) {
			defer wg.Done()
			if err := sub.Receive(ctx, r.handle); err != nil {
				errs[i] = err
				cancel()
			}
		}(i, sub)
	}
	wg.Wait()

	if err := multierr.Combine(errs...); err != nil {
		return err
	}
	return ctx.Err()
}

func (r *Relay) handle(ctx context.Context, msg *pubsub.Message) {
	event, err := DecodeChangeEvent(msg.Data)
	if err != nil {
		// Undecodable payloads are acked so they do not redeliver forever.
		if r.logg != nil {
			r.logg.Error(ctx, "dropping malformed change event", err)
		}
		msg.Ack()
		return
	}

	switch event.Table {
	case TableMenuItems:
		r.sink.Broadcast(event)
	case TableCartItems, TableOrders:
		userID, ok := event.UserID()
		if !ok {
			if r.logg != nil {
				r.logg.Warn(ctx, "dropping user-scoped change event without user id")
			}
			msg.Ack()
			return
		}
		r.sink.DeliverTo(userID, event)
	default:
		if r.logg != nil {
			r.logg.Warn(ctx, "dropping change event for unknown table")
		}
	}
	msg.Ack()
}
