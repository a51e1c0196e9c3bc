package sysmon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listUnitsOutput = `nginx.service        loaded active   running A high performance web server
sshd.service         loaded active   running OpenSSH server daemon
postgresql.service   loaded inactive dead    PostgreSQL RDBMS
broken.service       not-found inactive dead broken.service
`

const listUnitFilesOutput = `nginx.service        enabled  enabled
sshd.service         enabled  disabled
postgresql.service   disabled enabled
`

func TestParseServices(t *testing.T) {
	services := parseServices(listUnitsOutput)
	require.Len(t, services, 4)

	assert.Equal(t, "nginx.service", services[0].Name)
	assert.Equal(t, "loaded", services[0].LoadState)
	assert.Equal(t, "active", services[0].ActiveState)
	assert.Equal(t, "running", services[0].SubState)
	assert.Equal(t, "A high performance web server", services[0].Description)

	assert.Equal(t, "postgresql.service", services[2].Name)
	assert.Equal(t, "inactive", services[2].ActiveState)
	assert.Equal(t, "dead", services[2].SubState)
}

func TestParseUnitFiles(t *testing.T) {
	states := parseUnitFiles(listUnitFilesOutput)

	assert.True(t, states["nginx.service"])
	assert.True(t, states["sshd.service"])
	assert.False(t, states["postgresql.service"])
}

func TestListServicesMergesEnablement(t *testing.T) {
	calls := 0
	m := &SystemdManager{
		run: func(ctx context.Context, name string, args ...string) (string, error) {
			calls++
			if calls == 1 {
				return listUnitsOutput, nil
			}
			return listUnitFilesOutput, nil
		},
	}

	services, err := m.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 4)
	assert.True(t, services[0].Enabled)
	assert.False(t, services[2].Enabled)
}

func TestControlRejectsUnsafeUnitNames(t *testing.T) {
	m := NewSystemdManager(nil)
	m.run = func(ctx context.Context, name string, args ...string) (string, error) {
		t.Fatal("runner must not be called for invalid names")
		return "", nil
	}

	assert.Error(t, m.StartService(context.Background(), "nginx; rm -rf /"))
	assert.Error(t, m.StopService(context.Background(), ""))
	assert.Error(t, m.RestartService(context.Background(), "a b"))
}

func TestParseContainers(t *testing.T) {
	out := `{"ID":"4fa6e0f0c678abcdef","Names":"web","Image":"nginx:1.25","Status":"Up 3 hours","State":"running","Ports":"0.0.0.0:80->80/tcp, 443/tcp","CreatedAt":"2026-08-20 11:02:15 +0000 UTC"}
{"ID":"9b2c","Names":"db","Image":"postgres:16","Status":"Exited (0) 2 days ago","State":"exited","Ports":"","CreatedAt":"2026-08-18 09:00:00 +0000 UTC"}
not json
`
	containers := parseContainers(out)
	require.Len(t, containers, 2)

	assert.Equal(t, "4fa6e0f0c678", containers[0].ID)
	assert.Equal(t, "web", containers[0].Name)
	assert.Equal(t, []string{"0.0.0.0:80->80/tcp", "443/tcp"}, containers[0].Ports)

	assert.Equal(t, "9b2c", containers[1].ID)
	assert.Equal(t, "exited", containers[1].State)
	assert.Empty(t, containers[1].Ports)
}

func TestDockerControlRejectsUnsafeRefs(t *testing.T) {
	m := NewDockerManager(nil)
	m.run = func(ctx context.Context, name string, args ...string) (string, error) {
		t.Fatal("runner must not be called for invalid refs")
		return "", nil
	}

	assert.Error(t, m.StartContainer(context.Background(), "web; id"))
	assert.Error(t, m.StopContainer(context.Background(), ""))
}
