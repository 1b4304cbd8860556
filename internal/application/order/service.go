package order

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/oculare/shop-backend/internal/domain/catalog"
	"github.com/oculare/shop-backend/internal/domain/event"
	domorder "github.com/oculare/shop-backend/internal/domain/order"
	dompayment "github.com/oculare/shop-backend/internal/domain/payment"
	"github.com/oculare/shop-backend/internal/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	opPlaceOrder     = "order.place"
	opUpdateTracking = "order.update_tracking"
	opStockQuery     = "order.stock"

	stepCharge  = "charge"
	stepPersist = "persist"
	stepInvoice = "invoice"
	stepNotify  = "notify"
)

// Options carries the fixed parameters of the workflow.
type Options struct {
	// InitialCapacity is the capacity the derived stock query subtracts
	// recorded quantities from. Stock is never reserved and may go
	// negative; no order is rejected for exceeding it.
	InitialCapacity int64
	// SupplierURL is the external fulfillment endpoint the supplier link
	// points at.
	SupplierURL string
	Metrics     *Metrics
}

// Service orchestrates the order workflow: charge the gateway, persist
// the order, render the invoice, notify the customer. Collaborators are
// injected so the workflow is testable with fakes.
type Service struct {
	repo      domorder.Repository
	gateway   dompayment.Gateway
	renderer  InvoiceRenderer
	notifier  Notifier
	publisher event.Publisher
	idGen     IDGenerator

	initialCapacity int64
	supplierURL     string
	metrics         *Metrics
	tracer          trace.Tracer
}

func NewService(
	repo domorder.Repository,
	gateway dompayment.Gateway,
	renderer InvoiceRenderer,
	notifier Notifier,
	publisher event.Publisher,
	idGen IDGenerator,
	opts Options,
) *Service {
	return &Service{
		repo:            repo,
		gateway:         gateway,
		renderer:        renderer,
		notifier:        notifier,
		publisher:       publisher,
		idGen:           idGen,
		initialCapacity: opts.InitialCapacity,
		supplierURL:     opts.SupplierURL,
		metrics:         opts.Metrics,
		tracer:          otel.Tracer("shop-backend"),
	}
}

type PlaceOrderInput struct {
	CustomerName string
	Email        string
	Phone        string
	Address      string
	Quantity     int
	PaymentToken string
}

type PlaceOrderResult struct {
	OrderID      int64
	Message      string
	SupplierLink string
}

// PlaceOrder runs the fixed side-effect chain: charge, persist, invoice,
// notify. There is no compensation: a failure after the charge leaves the
// charge in place, so each completed step is logged for manual
// reconciliation.
func (s *Service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (_ *PlaceOrderResult, err error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "order_service"))

	ctx, span := s.tracer.Start(ctx, opPlaceOrder)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "place order failed")
			s.metrics.outcome(opPlaceOrder, "failure")
		} else {
			span.SetStatus(codes.Ok, "")
			s.metrics.outcome(opPlaceOrder, "success")
		}
		span.End()
	}()

	if err := validatePlaceOrder(input); err != nil {
		return nil, err
	}

	amount := catalog.UnitPriceMinor * int64(input.Quantity)
	logger.Info("place_order_start",
		zap.String("email", input.Email),
		zap.Int("quantity", input.Quantity),
		zap.Int64("amount_minor", amount),
	)

	err = s.step(ctx, stepCharge, func(ctx context.Context) error {
		result, chargeErr := s.gateway.Charge(ctx, dompayment.ChargeRequest{
			AmountMinor:    amount,
			Currency:       catalog.Currency,
			Token:          input.PaymentToken,
			IdempotencyKey: s.idGen.NewID(),
			Capture:        true,
		})
		if chargeErr != nil {
			return chargeErr
		}
		// A result returned without error but not succeeded blocks order
		// creation exactly like a declined charge.
		if result.Status != dompayment.StatusSucceeded {
			return fmt.Errorf("%w: charge %s in status %q", dompayment.ErrDeclined, result.ID, result.Status)
		}
		return nil
	})
	if err != nil {
		logger.Error("place_order_failed",
			zap.String("failed_step", stepCharge),
			zap.Error(err),
		)
		return nil, fmt.Errorf("place order: %s: %w", stepCharge, err)
	}
	logger.Info("step_completed", zap.String("step", stepCharge))

	entity, err := domorder.New(
		input.CustomerName,
		input.Email,
		input.Phone,
		input.Address,
		catalog.ProductName,
		input.Quantity,
	)
	if err != nil {
		return nil, err
	}

	err = s.step(ctx, stepPersist, func(ctx context.Context) error {
		id, insertErr := s.repo.Insert(ctx, entity)
		if insertErr != nil {
			return insertErr
		}
		entity.ID = id
		return nil
	})
	if err != nil {
		logger.Error("place_order_failed",
			zap.String("failed_step", stepPersist),
			zap.Error(err),
		)
		return nil, fmt.Errorf("place order: %s: %w", stepPersist, err)
	}
	logger.Info("step_completed",
		zap.String("step", stepPersist),
		zap.Int64("order_id", entity.ID),
	)

	var invoice *Invoice
	err = s.step(ctx, stepInvoice, func(ctx context.Context) error {
		var renderErr error
		invoice, renderErr = s.renderer.Render(ctx, entity)
		return renderErr
	})
	if err != nil {
		logger.Error("place_order_failed",
			zap.String("failed_step", stepInvoice),
			zap.Int64("order_id", entity.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("place order: %s: %w", stepInvoice, err)
	}
	logger.Info("step_completed",
		zap.String("step", stepInvoice),
		zap.String("invoice", invoice.Filename),
	)

	err = s.step(ctx, stepNotify, func(ctx context.Context) error {
		return s.notifier.Send(ctx, confirmationMessage(entity, invoice))
	})
	if err != nil {
		logger.Error("place_order_failed",
			zap.String("failed_step", stepNotify),
			zap.Int64("order_id", entity.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("place order: %s: %w", stepNotify, err)
	}
	logger.Info("step_completed", zap.String("step", stepNotify))

	logger.Info("place_order_success", zap.Int64("order_id", entity.ID))
	return &PlaceOrderResult{
		OrderID:      entity.ID,
		Message:      "order received",
		SupplierLink: s.supplierLink(entity),
	}, nil
}

// UpdateTracking records the tracking code for an order and dispatches
// the shipment notification asynchronously. The response does not wait on
// mail delivery; notification failures are logged by the worker, never
// surfaced here.
func (s *Service) UpdateTracking(ctx context.Context, orderID int64, tracking string) (err error) {
	logger := logging.FromContext(ctx).With(
		zap.String("component", "order_service"),
		zap.Int64("order_id", orderID),
	)

	ctx, span := s.tracer.Start(ctx, opUpdateTracking)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "update tracking failed")
			s.metrics.outcome(opUpdateTracking, "failure")
		} else {
			span.SetStatus(codes.Ok, "")
			s.metrics.outcome(opUpdateTracking, "success")
		}
		span.End()
	}()

	if tracking == "" {
		return fmt.Errorf("%w: tracking code", domorder.ErrMissingField)
	}

	if err := s.repo.SetTracking(ctx, orderID, tracking); err != nil {
		logger.Error("tracking_update_failed", zap.Error(err))
		return fmt.Errorf("update tracking: %w", err)
	}
	logger.Info("tracking_updated", zap.String("tracking", tracking))

	// Read back the customer email for the notification. A missing row
	// after a successful update means the order vanished concurrently;
	// skip the notification silently.
	entity, findErr := s.repo.FindByID(ctx, orderID)
	if findErr != nil {
		if !errors.Is(findErr, domorder.ErrNotFound) {
			logger.Warn("tracking_readback_failed", zap.Error(findErr))
		}
		return nil
	}

	entity.Tracking = tracking
	if pubErr := s.publisher.Publish(ctx, domorder.NewOrderShippedEvent(entity)); pubErr != nil {
		logger.Warn("shipment_event_publish_failed", zap.Error(pubErr))
	}
	return nil
}

// Stock returns the derived stock: initial capacity minus the sum of all
// recorded order quantities. It is recomputed from the order history on
// demand, never reserved, and may be negative when oversold.
func (s *Service) Stock(ctx context.Context) (int64, error) {
	total, err := s.repo.TotalQuantity(ctx)
	if err != nil {
		s.metrics.outcome(opStockQuery, "failure")
		return 0, fmt.Errorf("stock query: %w", err)
	}
	s.metrics.outcome(opStockQuery, "success")
	return s.initialCapacity - total, nil
}

// step runs one link of the side-effect chain inside its own span and
// records its latency.
func (s *Service) step(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, opPlaceOrder+"."+name)
	start := time.Now()
	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, name)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
	s.metrics.stepDuration(name, time.Since(start).Seconds())
	return err
}

func (s *Service) supplierLink(o *domorder.Order) string {
	q := url.Values{}
	q.Set("name", o.CustomerName)
	q.Set("address", o.Address)
	q.Set("product", o.Product)
	q.Set("quantity", strconv.Itoa(o.Quantity))
	return s.supplierURL + "?" + q.Encode()
}

func confirmationMessage(o *domorder.Order, invoice *Invoice) Message {
	return Message{
		To:      o.Email,
		Subject: "Order confirmation",
		Body: fmt.Sprintf(
			"Thank you for your purchase at %s. Your invoice for %s is attached.",
			catalog.StoreName,
			catalog.FormatAmount(catalog.Total(o.Quantity)),
		),
		AttachmentPath: invoice.Path,
	}
}

func validatePlaceOrder(input PlaceOrderInput) error {
	if input.CustomerName == "" {
		return fmt.Errorf("%w: customer name", domorder.ErrMissingField)
	}
	if input.Email == "" {
		return fmt.Errorf("%w: email", domorder.ErrMissingField)
	}
	if input.Phone == "" {
		return fmt.Errorf("%w: phone", domorder.ErrMissingField)
	}
	if input.Address == "" {
		return fmt.Errorf("%w: address", domorder.ErrMissingField)
	}
	if input.Quantity < 1 {
		return domorder.ErrInvalidQuantity
	}
	if input.PaymentToken == "" {
		return fmt.Errorf("%w: payment token", domorder.ErrMissingField)
	}
	return nil
}
