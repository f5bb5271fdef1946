package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Juli03-22/lookaly-fullstack/clients"
	"github.com/Juli03-22/lookaly-fullstack/config"
	"github.com/Juli03-22/lookaly-fullstack/controllers"
	"github.com/Juli03-22/lookaly-fullstack/database"
	"github.com/Juli03-22/lookaly-fullstack/kafka"
	"github.com/Juli03-22/lookaly-fullstack/logger"
	"github.com/Juli03-22/lookaly-fullstack/middleware"
	awspkg "github.com/Juli03-22/lookaly-fullstack/pkg/aws"
	"github.com/Juli03-22/lookaly-fullstack/routes"
	"github.com/Juli03-22/lookaly-fullstack/services"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Optional CloudWatch log shipping; off unless CLOUDWATCH_ENABLED=true.
	awsCfg, awsErr := awspkg.LoadAWSConfig(ctx)
	if awsErr == nil {
		if cw, err := awspkg.NewCloudWatchLogsWriter(ctx, awsCfg, "storefront"); err == nil && cw.Enabled() {
			logger.InitializeWithWriter(cfg.Environment, cw)
		} else {
			logger.Initialize(cfg.Environment)
		}
	} else {
		logger.Initialize(cfg.Environment)
	}
	defer logger.Log.Sync()

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	api := clients.NewAPIClient(cfg.APIBaseURL, cfg.APITimeout)

	sessionRepo := database.NewSessionRepository(redisClient)
	cartRepo := database.NewCartRepository(redisClient, cfg.CartTTL)
	cache := database.NewCatalogCache(redisClient, cfg.CacheTTL)

	sessionService := services.NewSessionService(api, sessionRepo, cartRepo, cache, cfg.SessionTTL, logger.Log)
	cartService := services.NewCartService(cartRepo, logger.Log)

	var payments services.PaymentTokenizer
	if cfg.StripeSecretKey != "" {
		payments = services.NewStripeService(cfg.StripeSecretKey)
	}

	var producer *kafka.Producer
	var events services.EventPublisher
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaBrokers[0] != "" {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		events = producer
	}

	var notifier services.Notifier
	if awsErr == nil && cfg.SNSTopicARN != "" {
		notifier = awspkg.NewSNSClient(awsCfg)
	}

	checkoutService := services.NewCheckoutService(api, cartService, payments, events, notifier, cfg.SNSTopicARN, logger.Log)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Session-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(router, sessionService, routes.Controllers{
		Auth:    controllers.NewAuthController(sessionService, api),
		TwoFA:   controllers.NewTwoFAController(api, sessionService),
		Cart:    controllers.NewCartController(cartService),
		Catalog: controllers.NewCatalogController(api, cache),
		Orders:  controllers.NewOrderController(checkoutService, api),
		Admin:   controllers.NewAdminController(api),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("Storefront is running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal("Shutdown error", zap.Error(err))
	}
	logger.Log.Info("Server shutdown complete")
}
