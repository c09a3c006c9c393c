// Package testenv provides ephemeral test infrastructure using testcontainers.
//
// This package manages the complete E2E test environment including:
//   - A rod browser manager in Docker via testcontainers-go
//   - An echo server serving the HTML fixtures
//   - Element construction bound to the shared page
//
// Example usage:
//
//	func TestMain(m *testing.M) {
//	    env, err := testenv.Setup(context.Background(), testenv.DefaultConfig())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer env.Teardown()
//
//	    os.Exit(m.Run())
//	}
package testenv

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gti/pageobject/internal/browser"
	"github.com/gti/pageobject/internal/driver"
	"github.com/gti/pageobject/internal/element"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
)

// TestEnv holds all resources for E2E testing.
//
// The browser has a single page, so tests sharing a TestEnv must not run in
// parallel.
type TestEnv struct {
	// Browser is the shared browser session.
	Browser *browser.Browser

	// Fixtures serves the HTML pages under test.
	Fixtures *FixtureServer

	// Container is the browser container (nil when not using Docker).
	Container *BrowserContainer

	// Config holds the environment configuration.
	Config EnvConfig

	// Log receives element and browser tracing.
	Log *logrus.Logger

	fixtureHost  string
	cleanupFuncs []func()
}

// EnvConfig holds configuration for the test environment.
type EnvConfig struct {
	// Container holds browser container configuration.
	Container ContainerConfig

	// ExternalControlURL is an optional rod manager to use instead of
	// testcontainers. Useful for CI environments without Docker.
	ExternalControlURL string

	// FixtureHost is the hostname the browser uses to reach the fixture
	// server when ExternalControlURL is set.
	FixtureHost string

	// LocalBrowser launches a browser on the host instead of in Docker.
	LocalBrowser bool

	// PollInterval is passed to every element built by the environment.
	PollInterval time.Duration

	// ArtifactsDir receives failure screenshots.
	ArtifactsDir string
}

// DefaultConfig returns the default test environment configuration.
//
// Configuration is loaded from environment variables (and .env):
//   - E2E_BROWSER_CONTROL_URL: external rod manager endpoint
//   - E2E_FIXTURE_HOST: fixture hostname as seen from that manager
//   - E2E_LOCAL_BROWSER: "true" to launch a local browser
//   - E2E_ARTIFACTS_DIR: where failure screenshots are written
func DefaultConfig() EnvConfig {
	_ = godotenv.Load()

	local, _ := strconv.ParseBool(os.Getenv("E2E_LOCAL_BROWSER"))
	return EnvConfig{
		Container:          DefaultContainerConfig(),
		ExternalControlURL: os.Getenv("E2E_BROWSER_CONTROL_URL"),
		FixtureHost:        getEnvOrDefault("E2E_FIXTURE_HOST", "host.docker.internal"),
		LocalBrowser:       local,
		PollInterval:       50 * time.Millisecond,
		ArtifactsDir:       getEnvOrDefault("E2E_ARTIFACTS_DIR", "artifacts"),
	}
}

// NeedsDocker reports whether Setup will start a container.
func (cfg EnvConfig) NeedsDocker() bool {
	return !cfg.LocalBrowser && cfg.ExternalControlURL == ""
}

// Setup initializes the complete E2E test environment.
//
// This function:
//  1. Starts the fixture server
//  2. Starts a browser container (or uses a local/external browser)
//  3. Connects a headless browser session
//
// Always call Teardown() when done.
func Setup(ctx context.Context, cfg EnvConfig) (*TestEnv, error) {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)

	env := &TestEnv{
		Config:       cfg,
		Log:          log,
		cleanupFuncs: make([]func(), 0),
	}

	fixtures, fixturesCleanup, err := StartFixtureServer(log)
	if err != nil {
		return nil, fmt.Errorf("failed to start fixture server: %w", err)
	}
	env.addCleanup(fixturesCleanup)
	env.Fixtures = fixtures

	opts := browser.Options{Headless: true, Logger: log}
	switch {
	case cfg.LocalBrowser:
		env.fixtureHost = "127.0.0.1"
	case cfg.ExternalControlURL != "":
		opts.ControlURL = cfg.ExternalControlURL
		env.fixtureHost = cfg.FixtureHost
	default:
		bc, bcCleanup, err := StartBrowserContainer(ctx, cfg.Container, fixtures.Port)
		if err != nil {
			env.Teardown()
			return nil, err
		}
		env.addCleanup(bcCleanup)
		env.Container = bc
		opts.ControlURL = bc.ControlURL
		env.fixtureHost = testcontainers.HostInternal
	}

	b, err := browser.New(opts)
	if err != nil {
		env.Teardown()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	env.Browser = b
	env.addCleanup(func() { _ = b.Close() })

	return env, nil
}

// Teardown releases all test resources in reverse order.
func (env *TestEnv) Teardown() {
	for i := len(env.cleanupFuncs) - 1; i >= 0; i-- {
		env.cleanupFuncs[i]()
	}
	env.cleanupFuncs = nil
}

// URL returns the fixture URL for path as seen from the browser.
func (env *TestEnv) URL(path string) string {
	return fmt.Sprintf("http://%s:%d%s", env.fixtureHost, env.Fixtures.Port, path)
}

// Open navigates the shared page to the fixture at path.
func (env *TestEnv) Open(ctx context.Context, path string) error {
	return env.Browser.Navigate(ctx, env.URL(path))
}

// Element builds an element bound to the shared page.
func (env *TestEnv) Element(selector string, by driver.Locator) *element.Element {
	return element.New(env.Browser.Driver(), selector, by,
		element.WithLogger(env.Log),
		element.WithPollInterval(env.Config.PollInterval),
	)
}

// addCleanup adds a cleanup function to be called during Teardown.
func (env *TestEnv) addCleanup(fn func()) {
	env.cleanupFuncs = append(env.cleanupFuncs, fn)
}

// getEnvOrDefault returns the environment variable value or the default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
