package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apporder "github.com/oculare/shop-backend/internal/application/order"
	"github.com/oculare/shop-backend/internal/config"
	domorder "github.com/oculare/shop-backend/internal/domain/order"
	httptransport "github.com/oculare/shop-backend/internal/infrastructure/http"
	"github.com/oculare/shop-backend/internal/infrastructure/id"
	"github.com/oculare/shop-backend/internal/infrastructure/invoice"
	"github.com/oculare/shop-backend/internal/infrastructure/mail"
	"github.com/oculare/shop-backend/internal/infrastructure/memory"
	"github.com/oculare/shop-backend/internal/infrastructure/notify"
	"github.com/oculare/shop-backend/internal/infrastructure/shipment"
	"github.com/oculare/shop-backend/internal/infrastructure/sqlite"
	"github.com/oculare/shop-backend/internal/infrastructure/stripegw"
	"github.com/oculare/shop-backend/internal/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger := logging.MustNewLogger(cfg.ServiceName, cfg.Env)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDurations := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	orderOutcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_operations_total",
			Help: "Total number of order workflow invocations.",
		},
		[]string{"operation", "outcome"},
	)
	orderStepDurations := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "order_step_duration_seconds",
			Help:    "Duration of each place-order step in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"step"},
	)
	notifyFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Count of notification send failures.",
		},
		[]string{"event"},
	)
	prometheus.MustRegister(httpRequests, httpDurations, orderOutcomes, orderStepDurations, notifyFailures)

	var repo domorder.Repository
	if cfg.DatabasePath != "" {
		store, err := sqlite.Open(cfg.DatabasePath)
		if err != nil {
			logger.Fatal("sqlite_open_failed", zap.Error(err))
		}
		defer func() { _ = store.Close() }()
		repo = store
	} else {
		repo = memory.NewOrderRepository()
	}

	renderer, err := invoice.NewPDFRenderer(cfg.InvoiceDir)
	if err != nil {
		logger.Fatal("invoice_dir_failed", zap.Error(err))
	}

	gateway := stripegw.New(cfg.Gateway.BaseURL, cfg.Gateway.SecretKey, cfg.Gateway.Timeout)
	mailer := mail.NewMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.FromName)

	bus := notify.NewBus(logger)
	bus.Start(context.Background())
	defer bus.Stop(context.Background())

	shipmentWorker := shipment.New(bus, mailer, notifyFailures)
	shipmentWorker.Start()

	orderService := apporder.NewService(
		repo,
		gateway,
		renderer,
		mailer,
		bus,
		id.NewUUIDGenerator(),
		apporder.Options{
			InitialCapacity: cfg.InitialCapacity,
			SupplierURL:     cfg.SupplierURL,
			Metrics: &apporder.Metrics{
				Outcomes:      orderOutcomes,
				StepDurations: orderStepDurations,
			},
		},
	)

	handler := httptransport.NewHandler(orderService)
	middleware := httptransport.Observability(logger, httpRequests, httpDurations)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", middleware(handler.Router()))

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http_server_start", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		logger.Info("http_server_stopped")
	}
}
