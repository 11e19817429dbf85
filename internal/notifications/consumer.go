package notifications

import (
	"context"
	"errors"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/PrasannaVit-21/chummaOrder/internal/realtime"
	"github.com/PrasannaVit-21/chummaOrder/pkg/enums"
	"github.com/PrasannaVit-21/chummaOrder/pkg/logger"
)

type subscriber interface {
	Receive(ctx context.Context, f func(context.Context, *pubsub.Message)) error
}

// OrderReadyConsumer watches the orders change feed and persists a
// notification when an order transitions into ready. The edge is detected
// from the event's old and new rows, so the consumer keeps no state and a
// redelivered message at most duplicates one notification.
type OrderReadyConsumer struct {
	sub     subscriber
	service Service
	logg    *logger.Logger
}

// NewOrderReadyConsumer wires the consumer with its feed and service.
func NewOrderReadyConsumer(sub *pubsub.Subscriber, service Service, logg *logger.Logger) (*OrderReadyConsumer, error) {
	if sub == nil {
		return nil, errors.New("orders subscription is required")
	}
	if service == nil {
		return nil, errors.New("notification service is required")
	}
	return &OrderReadyConsumer{sub: sub, service: service, logg: logg}, nil
}

// Run consumes the orders feed until ctx is cancelled.
func (c *OrderReadyConsumer) Run(ctx context.Context) error {
	return c.sub.Receive(ctx, c.handle)
}

func (c *OrderReadyConsumer) handle(ctx context.Context, msg *pubsub.Message) {
	event, err := realtime.DecodeChangeEvent(msg.Data)
	if err != nil {
		if c.logg != nil {
			c.logg.Error(ctx, "dropping malformed order change event", err)
		}
		msg.Ack()
		return
	}
	newRow, ok := orderReadyTransition(event)
	if !ok {
		msg.Ack()
		return
	}

	logCtx := ctx
	if c.logg != nil {
		logCtx = c.logg.WithOrderID(c.logg.WithUserID(ctx, newRow.UserID.String()), newRow.ID.String())
	}
	if _, err := c.service.NotifyOrderReady(logCtx, newRow.UserID, newRow.ID); err != nil {
		if c.logg != nil {
			c.logg.Error(logCtx, "persisting order ready notification failed", err)
		}
		msg.Nack()
		return
	}
	if c.logg != nil {
		c.logg.Info(logCtx, "order ready notification persisted")
	}
	msg.Ack()
}

// orderReadyTransition reports whether the event is an order update that
// moved into ready, returning the new row when it is.
func orderReadyTransition(event *realtime.ChangeEvent) (*realtime.OrderRow, bool) {
	if event.Table != realtime.TableOrders || event.Op != enums.ChangeOpUpdate {
		return nil, false
	}
	newRow, oldRow, err := event.OrderRows()
	if err != nil || newRow == nil {
		return nil, false
	}
	if newRow.Status != enums.OrderStatusReady {
		return nil, false
	}
	if oldRow != nil && oldRow.Status == enums.OrderStatusReady {
		return nil, false
	}
	return newRow, true
}
