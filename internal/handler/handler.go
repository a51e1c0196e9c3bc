package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sysboard/internal/auth/credentials"
	"sysboard/internal/sysmon"
)

type Handler struct {
	credentialService *credentials.Service
	tokenSecret       []byte
	tokenTTL          time.Duration
	systemd           *sysmon.SystemdManager
	docker            *sysmon.DockerManager
	logger            *zap.Logger
}

func NewHandler(
	credentialService *credentials.Service,
	tokenSecret []byte,
	tokenTTL time.Duration,
	systemd *sysmon.SystemdManager,
	docker *sysmon.DockerManager,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		credentialService: credentialService,
		tokenSecret:       tokenSecret,
		tokenTTL:          tokenTTL,
		systemd:           systemd,
		docker:            docker,
		logger:            logger,
	}
}

// RegisterPublicRoutes wires the unauthenticated surface.
func (h *Handler) RegisterPublicRoutes(r *gin.Engine) {
	r.POST("/auth/login", h.Login)
	r.POST("/auth/register", h.Register)
}

// RegisterAPIRoutes wires the protected dashboard API onto the group.
func (h *Handler) RegisterAPIRoutes(api *gin.RouterGroup) {
	api.GET("/services", h.ListServices)
	api.POST("/services/:name/start", h.StartService)
	api.POST("/services/:name/stop", h.StopService)
	api.POST("/services/:name/restart", h.RestartService)
	api.GET("/services/:name/logs", h.ServiceLogs)

	api.GET("/containers", h.ListContainers)
	api.POST("/containers/:id/start", h.StartContainer)
	api.POST("/containers/:id/stop", h.StopContainer)
	api.POST("/containers/:id/restart", h.RestartContainer)
	api.GET("/containers/:id/logs", h.ContainerLogs)
}
