package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cake-shop/internal/auth"
	"cake-shop/internal/cart"
	"cake-shop/internal/config"
	httpctl "cake-shop/internal/controllers/http"
	"cake-shop/internal/domain"
	"cake-shop/internal/infra"
	mmysql "cake-shop/internal/infra/mysql"
	"cake-shop/internal/infra/rabbitmq"
	"cake-shop/internal/logger"
	mysqlrepo "cake-shop/internal/repository/mysql"
	"cake-shop/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	configPath := pflag.StringP("config", "c", os.Getenv("CAKESHOP_CONFIG"), "path to a YAML config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.Init(cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	if cfg.UsesDefaultJWTSecret() && cfg.Log.Level != "debug" {
		zap.L().Warn("jwt.secret is the built-in default; set CAKESHOP_JWT_SECRET before serving real users")
	}

	db, err := mmysql.NewMySQL(cfg.MySQL)
	if err != nil {
		zap.L().Fatal("db: connect", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.PoolSize / 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	defer redisClient.Close()

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	if err != nil {
		zap.L().Fatal("failed to init publisher", zap.Error(err))
	}
	defer publisher.Close()

	mailer := infra.NewEmailClient(cfg.Email.BaseURL, cfg.Email.APIKey, cfg.Email.From, domain.VerificationCodeTTL, cfg.Email.Timeout)
	bot := infra.NewBotClient(cfg.Bot.BaseURL, cfg.Bot.Token, cfg.Bot.ChatID, cfg.Bot.Timeout)
	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL)

	orderRepo := mysqlrepo.NewOrderRepository(db)
	productRepo := mysqlrepo.NewProductRepository(db)
	profileRepo := mysqlrepo.NewProfileRepository(db)
	cakeRepo := mysqlrepo.NewCakeRepository(db)

	catalog := services.NewCatalogService(productRepo, cfg.Catalog.PageSize, cfg.Catalog.CacheTTL)
	catalog.SetCache(redisClient)
	carts := services.NewCartService(cart.NewRedisStore(redisClient, cfg.Redis.CartTTL), productRepo)

	handler := httpctl.NewHandler(httpctl.Services{
		Catalog: catalog,
		Carts:   carts,
		Auth: services.NewAuthService(
			profileRepo,
			mysqlrepo.NewCredentialRepository(db),
			mysqlrepo.NewVerificationRepository(db),
			mailer,
			tokens,
		),
		Orders:    services.NewOrderService(orderRepo, carts, publisher, bot),
		Lifecycle: services.NewLifecycleService(orderRepo, publisher, bot, cfg.Bot.ChatID),
		Profiles:  services.NewProfileService(profileRepo, orderRepo, cakeRepo),
		Cakes:     services.NewCakeService(cakeRepo, carts),
		Mailer:    mailer,
	}, httpctl.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst))

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(httpctl.Recovery(), httpctl.RequestLogger())
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zap.L().Info("starting cake shop service", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server run", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}
}
