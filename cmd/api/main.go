package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/592Darkness/ride-dispatch/internal/fares"
	"github.com/592Darkness/ride-dispatch/internal/loyalty"
	"github.com/592Darkness/ride-dispatch/internal/matching"
	"github.com/592Darkness/ride-dispatch/internal/notifications"
	"github.com/592Darkness/ride-dispatch/internal/payments"
	"github.com/592Darkness/ride-dispatch/internal/rides"
	"github.com/592Darkness/ride-dispatch/internal/routing"
	"github.com/592Darkness/ride-dispatch/pkg/common"
	"github.com/592Darkness/ride-dispatch/pkg/config"
	"github.com/592Darkness/ride-dispatch/pkg/database"
	"github.com/592Darkness/ride-dispatch/pkg/logger"
	"github.com/592Darkness/ride-dispatch/pkg/middleware"
	"github.com/592Darkness/ride-dispatch/pkg/redis"
)

const serviceName = "dispatch-api"

var version = "dev"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic(err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Get()

	if err := database.Migrate(&cfg.Database); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	db, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer database.Close(db)

	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	// notifications first: everything else delivers through it
	notificationService := notifications.NewService(
		notifications.NewRepository(db),
		notifications.NewRedisDispatcher(redisClient),
	)

	routingService := routing.NewService(
		routing.NewClient(&cfg.Routing),
		routing.NewCache(redisClient),
		routing.NewRepository(db),
		&cfg.Routing,
	)

	fareService := fares.NewService(fares.NewRepository(db), routingService)

	matchingService := matching.NewService(matching.NewRepository(db), notificationService)

	loyaltyService := loyalty.NewService(loyalty.NewRepository(db))

	rideService := rides.NewService(
		rides.NewRepository(db),
		matchingService,
		fareService,
		routingService,
		loyaltyService,
		notificationService,
		cfg.Business.DriverShareRate,
		cfg.Business.PointsRate,
	)

	paymentService := payments.NewService(payments.NewRepository(db), notificationService)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(serviceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.Server.CORSOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", common.HealthCheck(serviceName, version, map[string]func() error{
		"postgres": func() error { return db.Ping(context.Background()) },
		"redis":    func() error { return redisClient.Ping(context.Background()).Err() },
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	jwtSecret := cfg.JWT.Secret
	rides.NewHandler(rideService).RegisterRoutes(router, jwtSecret)
	matching.NewHandler(matchingService).RegisterRoutes(router, jwtSecret)
	fares.NewHandler(fareService).RegisterRoutes(router, jwtSecret)
	payments.NewHandler(paymentService).RegisterRoutes(router, jwtSecret)
	loyalty.NewHandler(loyaltyService).RegisterRoutes(router, jwtSecret)
	notifications.NewHandler(notificationService).RegisterRoutes(router, jwtSecret)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("starting server",
			zap.String("service", serviceName),
			zap.String("port", cfg.Server.Port),
			zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
