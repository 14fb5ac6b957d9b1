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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/salonflow/scheduling-service/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/salonflow/scheduling-service/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/salonflow/scheduling-service/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/salonflow/scheduling-service/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/salonflow/scheduling-service/internal/api/handlers/get_client_bookings"
	getSalonBookingsHandler "github.com/salonflow/scheduling-service/internal/api/handlers/get_salon_bookings"
	getUnavailableBlocksHandler "github.com/salonflow/scheduling-service/internal/api/handlers/get_unavailable_blocks"
	getWorkingHoursHandler "github.com/salonflow/scheduling-service/internal/api/handlers/get_working_hours"
	rescheduleBookingHandler "github.com/salonflow/scheduling-service/internal/api/handlers/reschedule_booking"
	updateWorkingHoursHandler "github.com/salonflow/scheduling-service/internal/api/handlers/update_working_hours"
	"github.com/salonflow/scheduling-service/internal/api/middleware"
	"github.com/salonflow/scheduling-service/internal/config"
	"github.com/salonflow/scheduling-service/internal/infra/cache/slotcache"
	bookingRepo "github.com/salonflow/scheduling-service/internal/infra/storage/booking"
	scheduleRepo "github.com/salonflow/scheduling-service/internal/infra/storage/schedule"
	staffRepo "github.com/salonflow/scheduling-service/internal/infra/storage/staff"
	timeOffRepo "github.com/salonflow/scheduling-service/internal/infra/storage/timeoff"
	billingServiceClient "github.com/salonflow/scheduling-service/internal/integrations/billingservice"
	bookingsService "github.com/salonflow/scheduling-service/internal/service/bookings"
	scheduleService "github.com/salonflow/scheduling-service/internal/service/schedule"
	createBookingUC "github.com/salonflow/scheduling-service/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/salonflow/scheduling-service/internal/usecase/get_available_slots"
	getUnavailableBlocksUC "github.com/salonflow/scheduling-service/internal/usecase/get_unavailable_blocks"
	rescheduleBookingUC "github.com/salonflow/scheduling-service/internal/usecase/reschedule_booking"
	"github.com/salonflow/scheduling-service/pkg/dbmetrics"
	"github.com/salonflow/scheduling-service/pkg/logger"
	"github.com/salonflow/scheduling-service/pkg/metrics"
	"github.com/salonflow/scheduling-service/pkg/simpletxmanager"
	"github.com/salonflow/scheduling-service/pkg/txmanager"
)

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

	log.Info("Starting SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
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
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Подключаемся к Redis (если кэш слотов включен)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			pingCancel()
			log.Fatal("Failed to ping redis: %v", err)
		}
		pingCancel()
		log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
	} else {
		log.Info("Slot cache disabled")
	}
	slotCache := slotcache.New(redisClient, time.Duration(cfg.Redis.SlotTTL)*time.Second)
	defer slotCache.Close()

	// Инициализируем клиента BillingService
	billingClient := billingServiceClient.NewClient(
		cfg.BillingService.URL,
		time.Duration(cfg.BillingService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (BillingService=%s timeout=%ds)",
		cfg.BillingService.URL, cfg.BillingService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		timeOffRepository  *timeOffRepo.Repository
		staffRepository    *staffRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		timeOffRepository = timeOffRepo.NewRepository(wrappedDB)
		staffRepository = staffRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		timeOffRepository = timeOffRepo.NewRepository(db)
		staffRepository = staffRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		slotCache,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		timeOffRepository,
		staffRepository,
		billingClient,
		slotCache,
		txMgr,
		log,
		cfg.Booking.PublicStepMinutes,
	)

	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		timeOffRepository,
		staffRepository,
		slotCache,
		txMgr,
		log,
		cfg.Booking.CalendarStepMinutes,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		scheduleRepository,
		bookingRepository,
		timeOffRepository,
		staffRepository,
		slotCache,
		log,
		cfg.Booking.PublicStepMinutes,
	)

	getUnavailableBlocksUseCase := getUnavailableBlocksUC.NewUseCase(
		scheduleRepository,
		bookingRepository,
		timeOffRepository,
		staffRepository,
		log,
		cfg.Booking.CalendarStepMinutes,
		cfg.Booking.CalendarDayStart,
		cfg.Booking.CalendarDayEnd,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getUnavailableBlocks := getUnavailableBlocksHandler.NewHandler(getUnavailableBlocksUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getSalonBookings := getSalonBookingsHandler.NewHandler(bookingSvc, log)
	getWorkingHours := getWorkingHoursHandler.NewHandler(scheduleSvc, log)
	updateWorkingHours := updateWorkingHoursHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

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

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации, с rate limit)
	// ============================================================

	rateLimiter := middleware.NewRateLimiter(cfg.Server.PublicRateLimit, cfg.Server.PublicRateBurst)
	public := api.PathPrefix("").Subrouter()
	public.Use(rateLimiter.Middleware)

	// Доступные слоты для записи
	public.HandleFunc("/salons/{salonId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Недоступные блоки для календаря
	public.HandleFunc("/salons/{salonId}/unavailable-blocks",
		getUnavailableBlocks.Handle).Methods(http.MethodGet)

	// Рабочие часы салона / сотрудника
	public.HandleFunc("/salons/{salonId}/working-hours",
		getWorkingHours.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание записи
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Перенос записи на другое время
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/clients/{clientId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// --- Управление салоном (для администраторов) ---
	// Список записей салона
	protected.HandleFunc("/salons/{salonId}/bookings", getSalonBookings.Handle).Methods(http.MethodGet)

	// Обновление рабочих часов
	protected.HandleFunc("/salons/{salonId}/working-hours", updateWorkingHours.Handle).Methods(http.MethodPut)

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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
