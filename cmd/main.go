package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	calculatePriceHandler "github.com/m04kA/SMC-EventBookingService/internal/api/handlers/calculate_price"
	createBookingHandler "github.com/m04kA/SMC-EventBookingService/internal/api/handlers/create_booking"
	getAllBookingsHandler "github.com/m04kA/SMC-EventBookingService/internal/api/handlers/get_all_bookings"
	getAllPaymentsHandler "github.com/m04kA/SMC-EventBookingService/internal/api/handlers/get_all_payments"
	getBookingHandler "github.com/m04kA/SMC-EventBookingService/internal/api/handlers/get_booking"
	getBookingQRHandler "github.com/m04kA/SMC-EventBookingService/internal/api/handlers/get_booking_qr"
	getPaymentHandler "github.com/m04kA/SMC-EventBookingService/internal/api/handlers/get_payment"
	getServiceHandler "github.com/m04kA/SMC-EventBookingService/internal/api/handlers/get_service"
	getServicesHandler "github.com/m04kA/SMC-EventBookingService/internal/api/handlers/get_services"
	getUserBookingsHandler "github.com/m04kA/SMC-EventBookingService/internal/api/handlers/get_user_bookings"
	getUserPaymentsHandler "github.com/m04kA/SMC-EventBookingService/internal/api/handlers/get_user_payments"
	healthHandler "github.com/m04kA/SMC-EventBookingService/internal/api/handlers/health"
	notificationsHandler "github.com/m04kA/SMC-EventBookingService/internal/api/handlers/notifications"
	paymentWebhookHandler "github.com/m04kA/SMC-EventBookingService/internal/api/handlers/payment_webhook"
	proceedPaymentHandler "github.com/m04kA/SMC-EventBookingService/internal/api/handlers/proceed_payment"
	processPaymentHandler "github.com/m04kA/SMC-EventBookingService/internal/api/handlers/process_payment"
	updateBookingStatusHandler "github.com/m04kA/SMC-EventBookingService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-EventBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-EventBookingService/internal/config"
	"github.com/m04kA/SMC-EventBookingService/internal/infra/mailer"
	"github.com/m04kA/SMC-EventBookingService/internal/infra/qrcode"
	auditRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/audit"
	bookingRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/catalog"
	notificationRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/notification"
	paymentRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-EventBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-EventBookingService/internal/integrations/paymentgateway"
	auditService "github.com/m04kA/SMC-EventBookingService/internal/service/audit"
	bookingsService "github.com/m04kA/SMC-EventBookingService/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-EventBookingService/internal/service/catalog"
	notificationsService "github.com/m04kA/SMC-EventBookingService/internal/service/notifications"
	paymentsService "github.com/m04kA/SMC-EventBookingService/internal/service/payments"
	"github.com/m04kA/SMC-EventBookingService/internal/service/pricing"
	createBookingUC "github.com/m04kA/SMC-EventBookingService/internal/usecase/create_booking"
	createPaymentUC "github.com/m04kA/SMC-EventBookingService/internal/usecase/create_payment"
	handleWebhookUC "github.com/m04kA/SMC-EventBookingService/internal/usecase/handle_webhook"
	processPaymentUC "github.com/m04kA/SMC-EventBookingService/internal/usecase/process_payment"
	updateBookingStatusUC "github.com/m04kA/SMC-EventBookingService/internal/usecase/update_booking_status"
	"github.com/m04kA/SMC-EventBookingService/internal/worker"
	"github.com/m04kA/SMC-EventBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-EventBookingService/pkg/logger"
	"github.com/m04kA/SMC-EventBookingService/pkg/metrics"
	"github.com/m04kA/SMC-EventBookingService/pkg/mq"
	"github.com/m04kA/SMC-EventBookingService/pkg/txmanager"
)

// uuidPattern не дает /bookings/my совпасть с /bookings/{bookingId}
const uuidPattern = "[0-9a-fA-F-]{36}"

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

	log.Info("Starting SMC-EventBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (driver=%s, host=%s, port=%d, db=%s)",
		cfg.Database.Driver, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обертка работает как прозрачный прокси
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	paymentRepository := paymentRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	notificationRepository := notificationRepo.NewRepository(wrappedDB)
	auditRepository := auditRepo.NewRepository(wrappedDB)

	// Почта и шаблоны писем
	renderer, err := mailer.NewRenderer()
	if err != nil {
		log.Fatal("Failed to parse email templates: %v", err)
	}

	var sender notifier.EmailSender
	if cfg.Mail.Mode == "smtp" {
		sender = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
		log.Info("SMTP mailer initialized (host=%s, port=%d)", cfg.Mail.Host, cfg.Mail.Port)
	} else {
		sender = mailer.NewLogSender(log)
		log.Info("Mailer in log mode, emails are written to the log")
	}

	// QR коды билетов
	qrGenerator, err := qrcode.NewGenerator(cfg.QR.Dir, cfg.QR.PublicPrefix, cfg.QR.Size)
	if err != nil {
		log.Fatal("Failed to initialize QR generator: %v", err)
	}

	// Фоновые задачи останавливаются отменой bgCtx
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	var bg sync.WaitGroup

	// Доставка уведомлений: через RabbitMQ или в процессе
	executor := notifier.NewExecutor(notificationRepository, sender, renderer, cfg.Mail.AdminEmails, log)

	var dispatcher *notifier.Dispatcher
	if cfg.RabbitMQ.Enabled {
		publisher, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ publisher: %v", err)
		}
		defer publisher.Close()

		consumer, err := mq.NewConsumer(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.Exchange,
			cfg.RabbitMQ.Queue,
			notifier.RoutingKeys,
			cfg.RabbitMQ.Prefetch,
		)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ consumer: %v", err)
		}
		defer consumer.Close()

		dispatcher = notifier.NewQueueDispatcher(publisher, metricsCollector, log)

		notifierWorker := notifier.NewWorker(consumer, executor, metricsCollector, log)
		bg.Add(1)
		go func() {
			defer bg.Done()
			if err := notifierWorker.Run(bgCtx); err != nil {
				log.Error("Notifier worker failed: %v", err)
			}
		}()
		log.Info("RabbitMQ notifier enabled (exchange=%s, queue=%s)", cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue)
	} else {
		dispatcher = notifier.NewInlineDispatcher(executor, metricsCollector, log)
		log.Info("RabbitMQ disabled, notifications are delivered in-process")
	}

	// Инициализируем сервисы
	auditRecorder := auditService.NewRecorder(auditRepository, log)
	calculator := pricing.NewCalculator(catalogRepository, log)
	catalogSvc := catalogService.NewService(catalogRepository, log)
	bookingSvc := bookingsService.NewService(bookingRepository, paymentRepository, qrGenerator, log)
	paymentSvc := paymentsService.NewService(paymentRepository, log)
	notificationSvc := notificationsService.NewService(notificationRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		calculator,
		txMgr,
		dispatcher,
		renderer,
		auditRecorder,
		metricsCollector,
		log,
	)

	createPaymentUseCase := createPaymentUC.NewUseCase(
		bookingRepository,
		paymentRepository,
		txMgr,
		dispatcher,
		auditRecorder,
		metricsCollector,
		cfg.Payments.Currency,
		log,
	)

	processPaymentUseCase := processPaymentUC.NewUseCase(
		bookingRepository,
		paymentRepository,
		txMgr,
		qrGenerator,
		dispatcher,
		renderer,
		auditRecorder,
		metricsCollector,
		log,
	)

	handleWebhookUseCase := handleWebhookUC.NewUseCase(
		paymentRepository,
		processPaymentUseCase,
		auditRecorder,
		metricsCollector,
		cfg.Payments.WebhookProviders,
		log,
	)

	updateBookingStatusUseCase := updateBookingStatusUC.NewUseCase(
		bookingRepository,
		txMgr,
		dispatcher,
		auditRecorder,
		log,
	)

	// Сверка зависших платежей со шлюзом
	gatewayClient := paymentgateway.NewClient(
		cfg.PaymentGateway.URL,
		time.Duration(cfg.PaymentGateway.Timeout)*time.Second,
		log,
	)
	reconciler := worker.NewReconciler(
		paymentRepository,
		gatewayClient,
		processPaymentUseCase,
		worker.ReconcilerConfig{
			Interval:   cfg.Payments.ReconcileInterval.Duration,
			CheckAfter: cfg.Payments.CheckAfter.Duration,
			PendingTTL: cfg.Payments.PendingTTL.Duration,
			Batch:      cfg.Payments.ReconcileBatch,
		},
		log,
	)
	bg.Add(1)
	go func() {
		defer bg.Done()
		reconciler.Run(bgCtx)
	}()
	log.Info("Payment reconciliation started (interval=%s, gateway=%t)",
		cfg.Payments.ReconcileInterval.Duration, gatewayClient.Enabled())

	// Redis: rate limit и кеш справочников. Без redis оба слоя выключены
	var (
		limiter       *middleware.RateLimiter
		responseCache *middleware.ResponseCache
	)
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis ping failed, rate limiter will fail open: %v", err)
		}
		cancelPing()

		if cfg.RateLimit.Enabled {
			rlCfg := middleware.RateLimitConfig{
				Prefix:         cfg.RateLimit.Prefix,
				RefillTokens:   cfg.RateLimit.RefillTokens,
				RefillInterval: cfg.RateLimit.RefillInterval.Duration,
				TTL:            cfg.RateLimit.TTL.Duration,
			}
			limiter = middleware.NewRateLimiter(rdb, rlCfg, log)
			log.Info("Rate limiter enabled (%s, capacity=%d, sensitive=%d)",
				rlCfg, cfg.RateLimit.Capacity, cfg.RateLimit.SensitiveCapacity)
		}
		if cfg.Cache.Enabled {
			responseCache = middleware.NewResponseCache(
				rdb,
				cfg.Cache.Prefix,
				cfg.Cache.TTL.Duration,
				cfg.Cache.MaxBodyBytes,
				log,
			)
			log.Info("Response cache enabled (ttl=%s)", cfg.Cache.TTL.Duration)
		}
	}

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, log)

	// Инициализируем handlers
	health := healthHandler.NewHandler(wrappedDB, log)
	calculatePrice := calculatePriceHandler.NewHandler(calculator, log)
	getServices := getServicesHandler.NewHandler(catalogSvc, log)
	getService := getServiceHandler.NewHandler(catalogSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getAllBookings := getAllBookingsHandler.NewHandler(bookingSvc, log)
	getBookingQR := getBookingQRHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(updateBookingStatusUseCase, log)
	proceedPayment := proceedPaymentHandler.NewHandler(createPaymentUseCase, log)
	processPayment := processPaymentHandler.NewHandler(processPaymentUseCase, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(handleWebhookUseCase, log)
	getPayment := getPaymentHandler.NewHandler(paymentSvc, log)
	getUserPayments := getUserPaymentsHandler.NewHandler(paymentSvc, log)
	getAllPayments := getAllPaymentsHandler.NewHandler(paymentSvc, log)
	notifications := notificationsHandler.NewHandler(notificationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestMeta)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(limiter.Limit("api", cfg.RateLimit.Capacity))

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог услуг (кешируется в redis)
	catalog := api.PathPrefix("/services").Subrouter()
	catalog.Use(responseCache.Middleware())
	catalog.HandleFunc("", getServices.Handle).Methods(http.MethodGet)
	catalog.HandleFunc("/{serviceId:"+uuidPattern+"}", getService.Handle).Methods(http.MethodGet)

	// Предварительный расчет стоимости
	api.HandleFunc("/bookings/calculate-price", calculatePrice.Handle).Methods(http.MethodPost)

	// Уведомления платежного провайдера (всегда 200)
	api.HandleFunc("/payments/webhook", paymentWebhook.Handle).Methods(http.MethodPost)

	// Создание бронирования доступно и гостям
	optional := api.PathPrefix("").Subrouter()
	optional.Use(auth.OptionalAuth)
	optional.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Auth)

	sensitive := limiter.Limit("payments", cfg.RateLimit.SensitiveCapacity)

	// --- Бронирования ---
	protected.HandleFunc("/bookings/my", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:"+uuidPattern+"}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:"+uuidPattern+"}/qr", getBookingQR.Handle).Methods(http.MethodGet)
	protected.Handle("/bookings/{bookingId:"+uuidPattern+"}/payment",
		sensitive(http.HandlerFunc(proceedPayment.Handle))).Methods(http.MethodPost)
	protected.Handle("/bookings/{bookingId:"+uuidPattern+"}/status",
		middleware.RequireAdmin(http.HandlerFunc(updateBookingStatus.Handle))).Methods(http.MethodPatch)

	// --- Платежи ---
	protected.HandleFunc("/payments/my", getUserPayments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/payments/{paymentId:"+uuidPattern+"}", getPayment.Handle).Methods(http.MethodGet)
	protected.Handle("/payments/{paymentId:"+uuidPattern+"}/process",
		middleware.RequireAdmin(sensitive(http.HandlerFunc(processPayment.Handle)))).Methods(http.MethodPost)

	// --- Уведомления ---
	protected.HandleFunc("/notifications", notifications.List).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/unread-count", notifications.UnreadCount).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/read-all", notifications.MarkAllRead).Methods(http.MethodPatch)
	protected.HandleFunc("/notifications/{notificationId:"+uuidPattern+"}/read", notifications.MarkRead).Methods(http.MethodPatch)
	protected.HandleFunc("/notifications/{notificationId:"+uuidPattern+"}", notifications.Delete).Methods(http.MethodDelete)

	// --- Администрирование ---
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/bookings", getAllBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/payments", getAllPayments.Handle).Methods(http.MethodGet)

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

	// Останавливаем сверку и воркер уведомлений, дожидаемся отложенных доставок
	stopBackground()
	bg.Wait()
	dispatcher.Wait()
	log.Info("Background workers stopped")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)
	if cfg.Metrics.Enabled {
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
