package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arone/auth"
	"arone/config"
	"arone/cron"
	"arone/database"
	"arone/database/repository"
	"arone/handlers"
	"arone/middleware"
	"arone/routes"
	"arone/services/catalog"
	"arone/services/events"
	"arone/services/inquiry"
	"arone/services/itinerary"
	"arone/services/liveview"
	"arone/services/notification"
	"arone/services/storage"
	"arone/services/user"
	"arone/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const identityLocal = "local"

func needsFirebase() bool {
	cfg := config.AppConfig
	usesFirestore := cfg.StoreDriver == database.DriverFirestore || cfg.StoreDriver == ""
	return usesFirestore || cfg.IdentityDriver != identityLocal || cfg.FirebaseBucket != ""
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	sugar := logger.Sugar()
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if needsFirebase() {
		if err := utils.FirebaseInit(ctx); err != nil {
			sugar.Fatalf("main: %v", err)
		}
	}

	store, err := database.NewStore(ctx, utils.FirebaseApp, logger)
	if err != nil {
		sugar.Fatalf("main: failed to open document store: %v", err)
	}

	repos := repository.New(store)
	users, packages, bookings, items := repos.Users, repos.Packages, repos.Bookings, repos.Itineraries

	var redisClients []*redis.Client
	var identity auth.IdentityProvider
	if config.AppConfig.IdentityDriver == identityLocal {
		var cache auth.SessionCache = auth.NewMemorySessionCache()
		if err := utils.InitAuthCache(); err != nil {
			logger.Warn("Redis session cache unavailable, sessions are kept in memory", zap.Error(err))
		} else {
			cache = auth.NewRedisSessionCache(utils.GetAuthCacheClient())
			redisClients = append(redisClients, utils.GetAuthCacheClient())
		}
		identity = auth.NewLocalProvider(store, cache, config.AppConfig.SessionTTL, logger)
	} else {
		fb, err := auth.NewFirebaseProvider(ctx, utils.FirebaseApp, config.AppConfig.FirebaseAPIKey, logger)
		if err != nil {
			sugar.Fatalf("main: failed to initialize firebase auth: %v", err)
		}
		identity = fb
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if url := config.AppConfig.RabbitMQURL; url != "" {
		rabbit, err := events.NewRabbitPublisher(url, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, domain events are dropped", zap.Error(err))
		} else {
			publisher = rabbit
		}
	}
	defer publisher.Close()

	// Push notifications are queued on Redis and delivered by the FCM worker.
	var notifier notification.Notifier = notification.NoopNotifier{}
	var worker *cron.PushWorker
	if utils.FCMClient != nil {
		fcm, err := notification.NewFCMNotifier(users, utils.FCMClient, logger)
		if err != nil {
			sugar.Fatalf("main: %v", err)
		}
		queue := asynq.NewClient(cron.QueueRedisOpt())
		defer queue.Close()
		notifier = notification.NewQueueNotifier(queue)

		worker = cron.NewPushWorker(fcm, logger)
		worker.Start(ctx)
	}

	var images storage.ImageStore
	if bucket := config.FirebaseBucketName(); bucket != "" {
		imageStore, err := storage.NewFirebaseImageStore(ctx, config.AppConfig.FirebaseCredentialsFile, bucket, logger)
		if err != nil {
			logger.Warn("Image uploads disabled", zap.Error(err))
		} else {
			images = imageStore
			defer imageStore.Close()
		}
	}

	// services.
	userService := user.NewUserService(users, identity, publisher, logger)
	catalogService := catalog.NewCatalogService(packages, publisher, logger)
	inquiryService := inquiry.NewInquiryService(packages, bookings, notifier, publisher, logger)
	itineraryService := itinerary.NewItineraryService(items, packages, bookings, notifier, publisher, config.AppConfig.RetainSourceItems, logger)
	views := liveview.NewCatalog(store, logger)

	handlerBundle := &handlers.HandlerBundle{
		Identity: identity,
		Gate:     userService.Gate,
		Auth:     handlers.NewAuthHandler(userService),
		Admin:    handlers.NewAdminHandler(userService),
		Packages: handlers.NewPackageHandler(packages, catalogService, images),
		Bookings: handlers.NewBookingHandler(inquiryService, itineraryService),
		Views:    handlers.NewViewHandler(views, userService.Gate, identity),
	}

	utils.StartHealthMonitor(ctx, redisClients, func(ctx context.Context) error {
		_, err := store.GetByID(ctx, "health", "ping")
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		return err
	})

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	sugar.Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugar.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorf("main: server forced to shutdown: %v", err)
	}
	stop()

	if worker != nil {
		worker.Shutdown()
	}
	if err := store.Close(); err != nil {
		sugar.Errorf("main: failed to close document store: %v", err)
	}
	sugar.Info("main: server stopped gracefully")
}
