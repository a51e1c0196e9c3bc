package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sysboard/internal/sysmon"
)

type serviceListResponse struct {
	Services []sysmon.Service `json:"services"`
	Total    int              `json:"total"`
}

type actionResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.systemd.ListServices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, serviceListResponse{
		Services: services,
		Total:    len(services),
	})
}

func (h *Handler) StartService(c *gin.Context) {
	h.serviceAction(c, "started", h.systemd.StartService)
}

func (h *Handler) StopService(c *gin.Context) {
	h.serviceAction(c, "stopped", h.systemd.StopService)
}

func (h *Handler) RestartService(c *gin.Context) {
	h.serviceAction(c, "restarted", h.systemd.RestartService)
}

func (h *Handler) ServiceLogs(c *gin.Context) {
	name := c.Param("name")
	lines, _ := strconv.Atoi(c.DefaultQuery("lines", "100"))

	logs, err := h.systemd.ServiceLogs(c.Request.Context(), name, lines)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"service_name": name,
		"logs":         logs,
	})
}

func (h *Handler) serviceAction(
	c *gin.Context,
	verb string,
	action func(ctx context.Context, name string) error,
) {
	name := c.Param("name")
	if err := action(c.Request.Context(), name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, actionResponse{
		Message: fmt.Sprintf("Service %s %s successfully", name, verb),
		Success: true,
	})
}
