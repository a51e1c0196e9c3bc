package sysmon

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Service describes one systemd service unit.
type Service struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	LoadState   string `json:"load_state"`
	ActiveState string `json:"active_state"`
	SubState    string `json:"sub_state"`
	Enabled     bool   `json:"enabled"`
}

// Unit names reach exec argv; anything outside this set is rejected.
var unitNameRe = regexp.MustCompile(`^[A-Za-z0-9@:._\\-]+$`)

type SystemdManager struct {
	run    runner
	logger *zap.Logger
}

func NewSystemdManager(logger *zap.Logger) *SystemdManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SystemdManager{run: execRunner, logger: logger}
}

// ListServices returns every service unit systemd knows about, with its
// enablement state merged in from the unit-file listing.
func (m *SystemdManager) ListServices(ctx context.Context) ([]Service, error) {
	out, err := m.run(ctx, "systemctl",
		"list-units", "--type=service", "--all", "--no-legend", "--no-pager", "--plain")
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	services := parseServices(out)

	enabled, err := m.run(ctx, "systemctl",
		"list-unit-files", "--type=service", "--no-legend", "--no-pager", "--plain")
	if err != nil {
		// Degrade to enabled=false rather than failing the listing.
		m.logger.Warn("unit-file listing failed", zap.Error(err))
		return services, nil
	}
	states := parseUnitFiles(enabled)
	for i := range services {
		services[i].Enabled = states[services[i].Name]
	}

	return services, nil
}

func (m *SystemdManager) StartService(ctx context.Context, name string) error {
	return m.control(ctx, "start", name)
}

func (m *SystemdManager) StopService(ctx context.Context, name string) error {
	return m.control(ctx, "stop", name)
}

func (m *SystemdManager) RestartService(ctx context.Context, name string) error {
	return m.control(ctx, "restart", name)
}

// ServiceLogs returns the most recent journal lines for the unit.
func (m *SystemdManager) ServiceLogs(ctx context.Context, name string, lines int) (string, error) {
	if err := validateUnit(name); err != nil {
		return "", err
	}
	if lines <= 0 {
		lines = 100
	}
	if lines > 1000 {
		lines = 1000
	}
	out, err := m.run(ctx, "journalctl",
		"-u", name, "-n", strconv.Itoa(lines), "--no-pager")
	if err != nil {
		return "", fmt.Errorf("logs for %s: %w", name, err)
	}
	return out, nil
}

func (m *SystemdManager) control(ctx context.Context, verb, name string) error {
	if err := validateUnit(name); err != nil {
		return err
	}
	if _, err := m.run(ctx, "systemctl", verb, name); err != nil {
		return fmt.Errorf("%s %s: %w", verb, name, err)
	}
	m.logger.Info("service "+verb, zap.String("unit", name))
	return nil
}

func validateUnit(name string) error {
	if name == "" || !unitNameRe.MatchString(name) {
		return fmt.Errorf("invalid unit name %q", name)
	}
	return nil
}

// parseServices reads `systemctl list-units --plain` output:
// UNIT LOAD ACTIVE SUB DESCRIPTION...
func parseServices(out string) []Service {
	var services []Service
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		s := Service{
			Name:        fields[0],
			LoadState:   fields[1],
			ActiveState: fields[2],
			SubState:    fields[3],
		}
		if len(fields) > 4 {
			s.Description = strings.Join(fields[4:], " ")
		}
		services = append(services, s)
	}
	return services
}

// parseUnitFiles reads `systemctl list-unit-files --plain` output:
// UNIT-FILE STATE [PRESET]
func parseUnitFiles(out string) map[string]bool {
	states := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		state := fields[1]
		states[fields[0]] = state == "enabled" || state == "enabled-runtime"
	}
	return states
}
