package app

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sysboard/internal/auth/credentials"
	"sysboard/internal/config"
	"sysboard/internal/handler"
	"sysboard/internal/middleware"
	"sysboard/internal/sysmon"
)

func setupHTTP(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gin.Engine, func() error, error) {

	if cfg.Auth.TokenSecret == "" {
		return nil, nil, errors.New("auth.tokenSecret is required")
	}

	infra, err := setupInfra(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	credentialService := credentials.NewService(infra.DB, logger)

	if err := credentialService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		return nil, nil, err
	}

	systemd := sysmon.NewSystemdManager(logger)
	docker := sysmon.NewDockerManager(logger)

	secret := []byte(cfg.Auth.TokenSecret)
	h := handler.NewHandler(
		credentialService,
		secret,
		cfg.Auth.TokenTTL,
		systemd,
		docker,
		logger,
	)

	authMiddleware := middleware.NewAuthMiddleware(secret)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	h.RegisterPublicRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/me", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"user_id": c.GetString("userID"),
		})
	})

	h.RegisterAPIRoutes(api)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
