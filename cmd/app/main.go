package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"auction-tool-backend/internal/common/config"
	"auction-tool-backend/internal/common/logger"
	"auction-tool-backend/internal/common/middleware"
	deliverydiscord "auction-tool-backend/internal/features/auction/delivery/discord"
	deliveryhttp "auction-tool-backend/internal/features/auction/delivery/http"
	"auction-tool-backend/internal/features/auction/repository"
	filerepo "auction-tool-backend/internal/features/auction/repository/file"
	redisrepo "auction-tool-backend/internal/features/auction/repository/redis"
	"auction-tool-backend/internal/features/auction/service"
	platformdiscord "auction-tool-backend/internal/platform/discord"
)

func main() {
	cfg := config.Load()
	logger.Init("auction-tool-backend", cfg.Debug)

	ctx := context.Background()

	loc, err := time.LoadLocation(cfg.Auction.Timezone)
	if err != nil {
		logger.Fatal().Err(err).Str("timezone", cfg.Auction.Timezone).Msg("Invalid reference timezone")
	}

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open storage")
	}
	logger.Info().Str("driver", cfg.Storage.Driver).Msg("Storage opened")

	session, err := platformdiscord.Open(cfg.Discord.BotToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Discord")
	}
	defer session.Close()
	logger.Info().Str("user", session.State.User.Username).Msg("Discord gateway connected")

	publisher := platformdiscord.NewPublisher(session)
	engine := service.NewAuctionService(service.NewSystemClock(), repo, publisher, loc)
	defer engine.Shutdown()

	// A load failure here must abort the start: running with an empty,
	// inconsistent auction set would silently drop live auctions.
	if err := engine.Restore(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to restore auctions from storage")
	}

	handler, err := deliverydiscord.NewHandler(ctx, engine, repo)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize command handler")
	}
	if err := handler.Register(session, cfg.Discord.GuildID); err != nil {
		logger.Fatal().Err(err).Msg("Failed to register slash commands")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      newRouter(cfg, engine, repo),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server forced to shut down")
	}

	logger.Info().Msg("Server exited")
}

func openRepository(ctx context.Context, cfg *config.Config) (repository.Repository, error) {
	switch cfg.Storage.Driver {
	case "redis":
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		return redisrepo.New(ctx, addr, cfg.Redis.Password, cfg.Redis.DB)
	case "file":
		return filerepo.New(cfg.Storage.SnapshotPath, cfg.Storage.ClosedPath, cfg.Storage.BindingsPath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func newRouter(cfg *config.Config, engine *service.AuctionService, repo repository.Repository) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	deliveryhttp.NewAuctionHandler(engine).RegisterRoutes(v1)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "auction-tool-backend",
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := repo.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "storage unavailable",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   "auction-tool-backend",
		})
	})

	return router
}
