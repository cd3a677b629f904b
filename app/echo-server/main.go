package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"megaMart/app/echo-server/router"
	cartService "megaMart/business/cart"
	ordersService "megaMart/business/orders"
	productService "megaMart/business/product"
	userService "megaMart/business/user"
	"megaMart/internal/middleware"
	"megaMart/internal/repository/notification"
	psqlRepo "megaMart/internal/repository/postgres"
	redisRepo "megaMart/internal/repository/redis"
	"megaMart/internal/rest"
	"megaMart/pkg/config"
	"megaMart/pkg/database"
	redisdb "megaMart/pkg/database/redis"
	"megaMart/pkg/logger"
	"megaMart/pkg/metrics"
	"megaMart/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting MegaMart", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer redisdb.CloseRedisClient(redisClient)

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			BaseURL:           cfg.Mailjet.MailjetBaseUrl,
			BasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			BasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			SenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			SenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	cartRepo := psqlRepo.NewCartRepository(db)
	ordersRepo := psqlRepo.NewOrdersRepository(db)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)

	// Init service
	users := userService.NewUserService(userRepo, tokenRepo, validate)
	products := productService.NewProductService(productRepo)
	carts := cartService.NewCartService(cartRepo, productRepo)
	orders := ordersService.NewOrdersService(ordersRepo, userRepo, cartRepo, mailjetEmail, cfg.App.AdminEmail)

	// Init handler
	userHandler := rest.NewUserHandler(users)
	productHandler := rest.NewProductHandler(products)
	cartHandler := rest.NewCartHandler(carts)
	ordersHandler := rest.NewOrdersHandler(orders)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.App.ClientOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Auth middleware
	authRequired := middleware.AuthMiddleware(tokenRepo)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupAuthRoutes(api, userHandler, authRequired)
	router.SetupProductRoutes(api, productHandler, authRequired, adminOnly)
	router.SetupCartRoutes(api, cartHandler, authRequired)
	router.SetupOrdersRoutes(api, ordersHandler, authRequired)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
