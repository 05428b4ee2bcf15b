package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/controllers"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/database"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/pkg/logger"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/repository"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/routes"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/services"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger.Initialize(cfg.Env)
	defer zap.L().Sync()

	if err := database.ConnectWithConfig(cfg.MongoURL, cfg.MongoDB); err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.Disconnect(ctx); err != nil {
			zap.L().Warn("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()

	// Redis is optional; without it the product list cache is a no-op.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zap.L().Warn("Failed to parse REDIS_URL, running without cache", zap.Error(err))
		} else {
			redisClient = redis.NewClient(opts)
		}
	}

	uploader, err := services.NewCloudinaryUploader(cfg.CloudinaryURL, "products")
	if err != nil {
		zap.L().Fatal("Failed to initialize Cloudinary", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewMongoUserRepository(database.DB)
	productRepo := repository.NewMongoProductRepository(database.DB)
	categoryRepo := repository.NewMongoCategoryRepository(database.DB)
	cartRepo := repository.NewMongoCartRepository(database.DB)
	orderRepo := repository.NewMongoOrderRepository(database.DB)

	// Services
	tokenService := services.NewTokenService(cfg.JWTSecret)
	mailer := services.NewSMTPMailer(services.EmailConfig{
		SmtpServer:  cfg.SmtpServer,
		SmtpPort:    cfg.SmtpPort,
		SenderEmail: cfg.SenderEmail,
		SenderPass:  cfg.SenderPass,
		SenderName:  cfg.SenderName,
	})
	authService := services.NewAuthService(userRepo, tokenService, mailer)
	cartService := services.NewCartService(cartRepo, productRepo, categoryRepo)
	orderService := services.NewOrderService(orderRepo, cartRepo, productRepo, categoryRepo, cfg.WhatsappNumber)
	productCache := services.NewProductCache(redisClient)
	productService := services.NewProductService(productRepo, categoryRepo, uploader, productCache)
	categoryService := services.NewCategoryService(categoryRepo, productRepo)
	userService := services.NewUserService(userRepo, cartRepo)
	dashboardService := services.NewDashboardService(productRepo, categoryRepo, userRepo, orderRepo)

	cookieSecure := cfg.Env == "production"

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(corsMiddleware(cfg.FrontendURL))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.Register(r, routes.Controllers{
		Auth:       controllers.NewAuthController(authService, cookieSecure),
		Cart:       controllers.NewCartController(cartService),
		Orders:     controllers.NewOrderController(orderService),
		Products:   controllers.NewProductController(productService),
		Categories: controllers.NewCategoryController(categoryService),
		Users:      controllers.NewUserController(userService),
		Dashboard:  controllers.NewDashboardController(dashboardService),
	}, tokenService, userRepo)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("Forced shutdown", zap.Error(err))
	}
}

// corsMiddleware allows the storefront origin to send the session cookie.
func corsMiddleware(frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", frontendURL)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
