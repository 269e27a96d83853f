package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"storefront-account-go/internal/account"
	"storefront-account-go/internal/api"
	"storefront-account-go/internal/cache"
	"storefront-account-go/internal/config"
	"storefront-account-go/internal/core"
	"storefront-account-go/internal/db"
	"storefront-account-go/internal/mailer"
	"storefront-account-go/internal/messagequeue"
	"storefront-account-go/internal/middleware"
	"storefront-account-go/internal/storage"
)

func newLogger(ginMode string) (*zap.Logger, error) {
	if strings.ToLower(ginMode) == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	// --- 1. Load .env (local development only) ---
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("WARNING: failed to read .env: %v", err)
		}
	}

	// --- 2. Initialize Logger (Zap) ---
	zapLogger, err := newLogger(os.Getenv("GIN_MODE"))
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// --- 3. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 4. Initialize Firebase Admin SDK (Firestore, Auth, Storage) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirebase(initCtx, appConfig, zapLogger); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer db.Close()

	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firestoreClient == nil || firebaseAuthClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firebase clients are nil after initialization. Application cannot start.")
	}

	// --- 5. Initialize Repositories ---
	profileRepo := db.NewFirestoreProfileRepository(firestoreClient)
	orderRepo := db.NewFirestoreOrderRepository(firestoreClient, zapLogger)
	notificationRepo := db.NewFirestoreNotificationRepository(firestoreClient)
	wishlistRepo := db.NewFirestoreWishlistRepository(firestoreClient)
	cartRepo := db.NewFirestoreCartRepository(firestoreClient)
	couponRepo := db.NewFirestoreCouponRepository(firestoreClient, zapLogger)
	supportRepo := db.NewFirestoreSupportRepository(firestoreClient, zapLogger)

	// --- 6. Initialize Infrastructure (storage, cooldowns, broker, mail) ---
	store, err := storage.FromConfig(initCtx, appConfig)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize image storage", zap.Error(err))
	}
	zapLogger.Info("Image storage initialized", zap.String("driver", store.Driver))

	var cooldown cache.Cooldown = cache.NewMemoryCooldown()
	if appConfig.RedisAddr != "" {
		redisCooldown, err := cache.NewRedisCooldown(initCtx, cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to Redis", zap.Error(err))
		}
		defer redisCooldown.Close()
		cooldown = redisCooldown
		zapLogger.Info("Coupon copy cooldowns stored in Redis", zap.String("addr", appConfig.RedisAddr))
	}

	var publisher messagequeue.Publisher
	if appConfig.RabbitMQURL != "" {
		rabbit, err := messagequeue.NewRabbitMQPublisher(appConfig.RabbitMQURL, zapLogger)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer rabbit.Close()
		publisher = rabbit
	} else {
		zapLogger.Warn("RABBITMQ_URL is not configured, order events will not be published.")
	}

	var mail mailer.Mailer
	if appConfig.MailEnabled() {
		mail = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:   appConfig.SMTPHost,
			Port:   appConfig.SMTPPort,
			User:   appConfig.SMTPUser,
			Pass:   appConfig.SMTPPass,
			Sender: appConfig.SupportSender,
		})
	} else {
		zapLogger.Warn("SMTP is not configured, support acknowledgements will not be mailed.")
	}

	// --- 7. Initialize Services ---
	services := account.Services{
		Profiles: core.NewProfileService(profileRepo, store.Storage, core.NewFirebaseIdentityUpdater(firebaseAuthClient), appConfig.MaxImageBytes, zapLogger),
		Orders:   core.NewOrderService(orderRepo, notificationRepo, publisher, appConfig.NotificationQueue, zapLogger),
		Wishlist: core.NewWishlistService(wishlistRepo, cartRepo, zapLogger),
		Coupons:  core.NewCouponService(couponRepo, cooldown, zapLogger),
		Support:  core.NewSupportService(supportRepo, profileRepo, mail, zapLogger),
	}
	zapLogger.Info("Core services initialized successfully.")

	// --- 8. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	// --- 9. Apply Global Middleware (Order is important) ---
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(metrics.Handler())
	if appConfig.ClientURL == "" {
		zapLogger.Warn("CLIENT_URL is not configured, CORS allows the local development origin only.")
	}
	router.Use(middleware.CORSMiddleware(appConfig.ClientURL))

	// --- 10. Setup API Routes ---
	api.SetupRoutes(router, appConfig, zapLogger, firebaseAuthClient, services, metrics, reg)

	// --- 11. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 12. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
