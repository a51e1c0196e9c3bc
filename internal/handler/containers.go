package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sysboard/internal/sysmon"
)

type containerListResponse struct {
	Containers []sysmon.Container `json:"containers"`
	Total      int                `json:"total"`
}

func (h *Handler) ListContainers(c *gin.Context) {
	all := c.DefaultQuery("all", "true") == "true"

	containers, err := h.docker.ListContainers(c.Request.Context(), all)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, containerListResponse{
		Containers: containers,
		Total:      len(containers),
	})
}

func (h *Handler) StartContainer(c *gin.Context) {
	h.containerAction(c, "started", h.docker.StartContainer)
}

func (h *Handler) StopContainer(c *gin.Context) {
	h.containerAction(c, "stopped", h.docker.StopContainer)
}

func (h *Handler) RestartContainer(c *gin.Context) {
	h.containerAction(c, "restarted", h.docker.RestartContainer)
}

func (h *Handler) ContainerLogs(c *gin.Context) {
	id := c.Param("id")
	lines, _ := strconv.Atoi(c.DefaultQuery("lines", "100"))

	logs, err := h.docker.ContainerLogs(c.Request.Context(), id, lines)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"container_id": id,
		"logs":         logs,
	})
}

func (h *Handler) containerAction(
	c *gin.Context,
	verb string,
	action func(ctx context.Context, id string) error,
) {
	id := c.Param("id")
	if err := action(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, actionResponse{
		Message: fmt.Sprintf("Container %s %s successfully", id, verb),
		Success: true,
	})
}
