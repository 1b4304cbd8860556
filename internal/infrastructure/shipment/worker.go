package shipment

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	apporder "github.com/oculare/shop-backend/internal/application/order"
	"github.com/oculare/shop-backend/internal/domain/event"
	domorder "github.com/oculare/shop-backend/internal/domain/order"
	"github.com/oculare/shop-backend/internal/pkg/logging"
	"go.uber.org/zap"
)

// Worker sends the shipment notification email for order.shipped events.
// Failures are logged and counted; they never reach the request that
// recorded the tracking code.
type Worker struct {
	subscriber event.Subscriber
	notifier   apporder.Notifier
	failures   *prometheus.CounterVec
}

func New(subscriber event.Subscriber, notifier apporder.Notifier, failures *prometheus.CounterVec) *Worker {
	return &Worker{
		subscriber: subscriber,
		notifier:   notifier,
		failures:   failures,
	}
}

func (w *Worker) Start() {
	w.subscriber.Subscribe(domorder.OrderShippedEvent{}.EventName(), w.handleOrderShipped)
}

func (w *Worker) handleOrderShipped(ctx context.Context, e event.Event) error {
	logger := logging.FromContext(ctx).With(zap.String("component", "shipment_worker"))

	evt, ok := e.(domorder.OrderShippedEvent)
	if !ok {
		return nil
	}

	msg := apporder.Message{
		To:      evt.Email,
		Subject: "Your order is on its way",
		Body:    fmt.Sprintf("Your order has been shipped. Tracking number: %s", evt.Tracking),
	}
	if err := w.notifier.Send(ctx, msg); err != nil {
		if w.failures != nil {
			w.failures.WithLabelValues(evt.EventName()).Inc()
		}
		logger.Warn("shipment_notification_failed",
			zap.Int64("order_id", evt.OrderID),
			zap.Error(err),
		)
		return err
	}

	logger.Info("shipment_notification_sent",
		zap.Int64("order_id", evt.OrderID),
		zap.String("tracking", evt.Tracking),
	)
	return nil
}
