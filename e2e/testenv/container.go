// Package testenv provides ephemeral test infrastructure using testcontainers.
package testenv

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// managerPort is the port rod's launcher manager listens on inside the image.
const managerPort = "7317/tcp"

// BrowserContainer holds an ephemeral rod browser manager.
type BrowserContainer struct {
	// Container is the testcontainers container instance.
	Container testcontainers.Container

	// ControlURL is the launcher manager endpoint (ws://host:port).
	ControlURL string
}

// ContainerConfig holds configuration for the browser container.
type ContainerConfig struct {
	// Image is the rod browser image (default: ghcr.io/go-rod/rod).
	Image string

	// StartupTimeout bounds how long to wait for the manager port.
	StartupTimeout time.Duration
}

// DefaultContainerConfig returns default browser container configuration.
func DefaultContainerConfig() ContainerConfig {
	return ContainerConfig{
		Image:          "ghcr.io/go-rod/rod:latest",
		StartupTimeout: 90 * time.Second,
	}
}

// StartBrowserContainer spins up a rod launcher manager in Docker.
//
// hostPorts are host ports the browser must be able to reach; inside the
// container they are served on testcontainers.HostInternal.
//
// Always call the cleanup function when done:
//
//	bc, cleanup, err := StartBrowserContainer(ctx, DefaultContainerConfig(), fixturePort)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer cleanup()
func StartBrowserContainer(ctx context.Context, cfg ContainerConfig, hostPorts ...int) (*BrowserContainer, func(), error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:           cfg.Image,
			ExposedPorts:    []string{managerPort},
			HostAccessPorts: hostPorts,
			WaitingFor: wait.ForListeningPort(managerPort).
				WithStartupTimeout(cfg.StartupTimeout),
		},
		Started: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start browser container: %w", err)
	}

	cleanup := func() {
		_ = container.Terminate(context.Background())
	}

	host, err := container.Host(ctx)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to get container host: %w", err)
	}

	mappedPort, err := container.MappedPort(ctx, managerPort)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	return &BrowserContainer{
		Container:  container,
		ControlURL: fmt.Sprintf("ws://%s:%s", host, mappedPort.Port()),
	}, cleanup, nil
}
