package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	cancelBookingHandler "github.com/julinotmonth/outtthelook/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/julinotmonth/outtthelook/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/julinotmonth/outtthelook/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/julinotmonth/outtthelook/internal/api/handlers/get_booking"
	getBookingHistoryHandler "github.com/julinotmonth/outtthelook/internal/api/handlers/get_booking_history"
	getBookingPolicyHandler "github.com/julinotmonth/outtthelook/internal/api/handlers/get_booking_policy"
	getBookingStatsHandler "github.com/julinotmonth/outtthelook/internal/api/handlers/get_booking_stats"
	getUserBookingsHandler "github.com/julinotmonth/outtthelook/internal/api/handlers/get_user_bookings"
	healthHandler "github.com/julinotmonth/outtthelook/internal/api/handlers/health"
	listBookingsHandler "github.com/julinotmonth/outtthelook/internal/api/handlers/list_bookings"
	listPaymentMethodsHandler "github.com/julinotmonth/outtthelook/internal/api/handlers/list_payment_methods"
	listServicesHandler "github.com/julinotmonth/outtthelook/internal/api/handlers/list_services"
	listStaffHandler "github.com/julinotmonth/outtthelook/internal/api/handlers/list_staff"
	submitPaymentProofHandler "github.com/julinotmonth/outtthelook/internal/api/handlers/submit_payment_proof"
	updateBookingStatusHandler "github.com/julinotmonth/outtthelook/internal/api/handlers/update_booking_status"
	verifyPaymentHandler "github.com/julinotmonth/outtthelook/internal/api/handlers/verify_payment"
	"github.com/julinotmonth/outtthelook/internal/api/middleware"
	"github.com/julinotmonth/outtthelook/internal/config"
	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/internal/events"
	bookingRepo "github.com/julinotmonth/outtthelook/internal/infra/storage/booking"
	catalogRepo "github.com/julinotmonth/outtthelook/internal/infra/storage/catalog"
	"github.com/julinotmonth/outtthelook/internal/infra/storage/memory"
	userServiceClient "github.com/julinotmonth/outtthelook/internal/integrations/userservice"
	bookingsService "github.com/julinotmonth/outtthelook/internal/service/bookings"
	catalogService "github.com/julinotmonth/outtthelook/internal/service/catalog"
	createBookingUC "github.com/julinotmonth/outtthelook/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/julinotmonth/outtthelook/internal/usecase/get_available_slots"
	paymentVerificationUC "github.com/julinotmonth/outtthelook/internal/usecase/payment_verification"
	transitionBookingUC "github.com/julinotmonth/outtthelook/internal/usecase/transition_booking"
	"github.com/julinotmonth/outtthelook/pkg/dbmetrics"
	"github.com/julinotmonth/outtthelook/pkg/keylock"
	"github.com/julinotmonth/outtthelook/pkg/logger"
	"github.com/julinotmonth/outtthelook/pkg/metrics"
	"github.com/julinotmonth/outtthelook/pkg/mq"
	"github.com/julinotmonth/outtthelook/pkg/txmanager"
)

// bookingStore все операции хранилища бронирований, нужные use case'ам и сервисам
type bookingStore interface {
	createBookingUC.BookingRepository
	transitionBookingUC.BookingRepository
	bookingsService.BookingRepository
}

// catalogStore каталог услуг и мастеров
type catalogStore interface {
	createBookingUC.CatalogRepository
	catalogService.CatalogRepository
}

// txManager транзакции для всех use case'ов
type txManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting Outtthelook booking service...")
	log.Info("Configuration loaded from config.toml")

	// Метрики: nil-коллектор безопасен, все методы ничего не делают
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	policy, err := bookingPolicy(cfg)
	if err != nil {
		log.Fatal("Invalid booking policy: %v", err)
	}
	log.Info("Booking policy: timezone=%s, step=%dm, max_advance_days=%d, customer_can_cancel_confirmed=%t",
		policy.Location, policy.SlotStepMinutes, policy.MaxAdvanceDays, policy.Transitions.CustomerCanCancelConfirmed)

	// Хранилище
	var (
		bookingRepository bookingStore
		catalogRepository catalogStore
		txMgr             txManager
		dbPinger          healthHandler.Pinger
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Database.IsMemory() {
		catalog := memory.NewCatalogRepository()
		if cfg.Database.SeedDemoData {
			catalog.SeedDemo()
			log.Info("In-memory catalog seeded with demo data")
		}
		bookingRepository = memory.NewBookingRepository()
		catalogRepository = catalog
		txMgr = txmanager.NoopManager{}
		log.Warn("Using in-memory storage, data is lost on restart")
	} else {
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		var dbRecorder dbmetrics.Recorder
		if metricsCollector != nil {
			dbRecorder = metricsCollector
		}
		wrappedDB := dbmetrics.WrapWithDefault(db, dbRecorder, stopMetricsCh)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		dbPinger = wrappedDB
	}

	// События
	var publisher events.Publisher = events.NewLogPublisher(log)
	var broker *mq.Publisher
	if cfg.Events.Enabled {
		broker, err = mq.NewPublisher(cfg.Events.RabbitURL, cfg.Events.Exchange)
		if err != nil {
			log.Error("Failed to connect to RabbitMQ, events will be logged only: %v", err)
		} else {
			publisher = events.NewBrokerPublisher(broker)
			log.Info("Publishing events to exchange %s", cfg.Events.Exchange)
		}
	}
	dispatcher := events.NewDispatcher(publisher, metricsCollector,
		time.Duration(cfg.Events.PublishTimeout)*time.Second, log)

	// Профили пользователей (опционально)
	var userClient createBookingUC.UserServiceClient
	if cfg.UserService.URL != "" {
		userClient = userServiceClient.NewClient(
			cfg.UserService.URL,
			time.Duration(cfg.UserService.Timeout)*time.Second,
			log,
		)
		log.Info("UserService client initialized (url=%s, timeout=%ds)", cfg.UserService.URL, cfg.UserService.Timeout)
	}

	paymentMethods := cfg.DomainPaymentMethods()

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		userClient,
		txMgr,
		keylock.New(),
		dispatcher,
		metricsCollector,
		paymentMethods,
		policy,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		policy,
		log,
	)
	transitionBookingUseCase := transitionBookingUC.NewUseCase(
		bookingRepository,
		txMgr,
		dispatcher,
		policy.Transitions,
		cfg.Booking.TransitionRetries,
		log,
	)
	paymentUseCase := paymentVerificationUC.NewUseCase(
		bookingRepository,
		txMgr,
		dispatcher,
		cfg.Booking.TransitionRetries,
		log,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, txMgr, log)
	catalogSvc := catalogService.NewService(catalogRepository, paymentMethods, policy, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getBookingHistory := getBookingHistoryHandler.NewHandler(bookingSvc, log)
	getBookingStats := getBookingStatsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(transitionBookingUseCase, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(transitionBookingUseCase, log)
	submitPaymentProof := submitPaymentProofHandler.NewHandler(paymentUseCase, log)
	verifyPayment := verifyPaymentHandler.NewHandler(paymentUseCase, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	listStaff := listStaffHandler.NewHandler(catalogSvc, log)
	listPaymentMethods := listPaymentMethodsHandler.NewHandler(catalogSvc)
	getBookingPolicy := getBookingPolicyHandler.NewHandler(catalogSvc, log)
	health := healthHandler.NewHandler(dbPinger, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/staff", listStaff.Handle).Methods(http.MethodGet)
	api.HandleFunc("/payment-methods", listPaymentMethods.Handle).Methods(http.MethodGet)
	api.HandleFunc("/booking-policy", getBookingPolicy.Handle).Methods(http.MethodGet)
	api.HandleFunc("/staff/{staffId:[0-9]+}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID, роль из X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	staffOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireStaff(h)
	}

	// --- Бронирования клиента ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Панель сотрудников ---
	// /bookings/stats регистрируется до /bookings/{bookingId}
	protected.Handle("/bookings", staffOnly(listBookings.Handle)).Methods(http.MethodGet)
	protected.Handle("/bookings/stats", staffOnly(getBookingStats.Handle)).Methods(http.MethodGet)

	// --- Бронь по ID ---
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/payment-proof", submitPaymentProof.Handle).Methods(http.MethodPost)
	protected.Handle("/bookings/{bookingId:[0-9]+}/status", staffOnly(updateBookingStatus.Handle)).Methods(http.MethodPatch)
	protected.Handle("/bookings/{bookingId:[0-9]+}/verify-payment", staffOnly(verifyPayment.Handle)).Methods(http.MethodPut)
	protected.Handle("/bookings/{bookingId:[0-9]+}/history", staffOnly(getBookingHistory.Handle)).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся отправки событий, порожденных последними запросами
	dispatcher.Wait()
	if broker != nil {
		if err := broker.Close(); err != nil {
			log.Warn("Failed to close RabbitMQ connection: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// bookingPolicy собирает доменную политику бронирования из конфигурации
func bookingPolicy(cfg *config.Config) (domain.BookingPolicy, error) {
	location, err := cfg.Booking.Location()
	if err != nil {
		return domain.BookingPolicy{}, err
	}

	return domain.BookingPolicy{
		SlotStepMinutes: cfg.Booking.SlotStepMinutes,
		MaxAdvanceDays:  cfg.Booking.MaxAdvanceDays,
		Location:        location,
		Transitions: domain.TransitionPolicy{
			CustomerCanCancelConfirmed: cfg.Booking.CustomerCanCancelConfirmed,
		},
	}, nil
}
