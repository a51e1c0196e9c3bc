package sysmon

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Container describes one docker container.
type Container struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Image   string   `json:"image"`
	Status  string   `json:"status"`
	State   string   `json:"state"`
	Ports   []string `json:"ports"`
	Created string   `json:"created"`
}

var containerRefRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

type DockerManager struct {
	run    runner
	logger *zap.Logger
}

func NewDockerManager(logger *zap.Logger) *DockerManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DockerManager{run: execRunner, logger: logger}
}

// ListContainers lists containers, including stopped ones when all is set.
func (m *DockerManager) ListContainers(ctx context.Context, all bool) ([]Container, error) {
	args := []string{"ps", "--format", "{{json .}}"}
	if all {
		args = append(args, "--all")
	}
	out, err := m.run(ctx, "docker", args...)
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}
	return parseContainers(out), nil
}

func (m *DockerManager) StartContainer(ctx context.Context, id string) error {
	return m.control(ctx, "start", id)
}

func (m *DockerManager) StopContainer(ctx context.Context, id string) error {
	return m.control(ctx, "stop", id)
}

func (m *DockerManager) RestartContainer(ctx context.Context, id string) error {
	return m.control(ctx, "restart", id)
}

// ContainerLogs returns the last lines of the container's log.
func (m *DockerManager) ContainerLogs(ctx context.Context, id string, lines int) (string, error) {
	if err := validateRef(id); err != nil {
		return "", err
	}
	if lines <= 0 {
		lines = 100
	}
	if lines > 1000 {
		lines = 1000
	}
	out, err := m.run(ctx, "docker", "logs", "--tail", strconv.Itoa(lines), id)
	if err != nil {
		return "", fmt.Errorf("logs for %s: %w", id, err)
	}
	return out, nil
}

func (m *DockerManager) control(ctx context.Context, verb, id string) error {
	if err := validateRef(id); err != nil {
		return err
	}
	if _, err := m.run(ctx, "docker", verb, id); err != nil {
		return fmt.Errorf("%s %s: %w", verb, id, err)
	}
	m.logger.Info("container "+verb, zap.String("container", id))
	return nil
}

func validateRef(id string) error {
	if id == "" || !containerRefRe.MatchString(id) {
		return fmt.Errorf("invalid container reference %q", id)
	}
	return nil
}

// dockerPS mirrors the fields of `docker ps --format '{{json .}}'`.
type dockerPS struct {
	ID        string `json:"ID"`
	Names     string `json:"Names"`
	Image     string `json:"Image"`
	Status    string `json:"Status"`
	State     string `json:"State"`
	Ports     string `json:"Ports"`
	CreatedAt string `json:"CreatedAt"`
}

func parseContainers(out string) []Container {
	var containers []Container
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var row dockerPS
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			continue
		}
		id := row.ID
		if len(id) > 12 {
			id = id[:12]
		}
		var ports []string
		if row.Ports != "" {
			ports = strings.Split(row.Ports, ", ")
		}
		containers = append(containers, Container{
			ID:      id,
			Name:    row.Names,
			Image:   row.Image,
			Status:  row.Status,
			State:   row.State,
			Ports:   ports,
			Created: row.CreatedAt,
		})
	}
	return containers
}
