//go:build e2e

// Package tests contains E2E tests that drive a real browser.
//
// These tests need Docker (or E2E_LOCAL_BROWSER=true, or an external rod
// manager in E2E_BROWSER_CONTROL_URL) and are excluded from regular unit
// test runs. Run with: go test -tags=e2e ./e2e/tests/...
package tests

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/gti/pageobject/e2e/helpers"
	"github.com/gti/pageobject/e2e/testenv"
	"github.com/gti/pageobject/internal/driver"
	"github.com/gti/pageobject/internal/element"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// env is the shared test environment for all tests in this file.
var env *testenv.TestEnv

// TestMain sets up the E2E test environment before running tests.
//
// Tests are skipped if Docker is needed but not available.
func TestMain(m *testing.M) {
	cfg := testenv.DefaultConfig()
	if cfg.NeedsDocker() && !isDockerAvailable() {
		fmt.Println("SKIP: Docker is not available, skipping E2E tests")
		os.Exit(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	var err error
	env, err = testenv.Setup(ctx, cfg)
	if err != nil {
		fmt.Printf("Failed to setup E2E environment: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	env.Teardown()

	os.Exit(code)
}

// isDockerAvailable checks if Docker daemon is running.
func isDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}

func openFixture(t *testing.T, path string) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	helpers.ScreenshotOnFailure(t, env.Browser, env.Config.ArtifactsDir)
	require.NoError(t, env.Open(ctx, path))
	return ctx
}

func TestResolution(t *testing.T) {
	ctx := openFixture(t, "/elements.html")
	a := helpers.NewAssert(t)

	a.Text(ctx, env.Element("#title", driver.CSS), "Elements")
	a.Count(ctx, env.Element("#rows .row", driver.CSS), 3)
	a.Count(ctx, env.Element(".does-not-exist", driver.CSS), 0)

	_, err := env.Element("#rows .row", driver.CSS).Index(ctx, 5)
	a.ErrorIs(err, element.ErrNotFound)

	_, err = env.Element(".does-not-exist", driver.CSS).Element(ctx)
	require.ErrorIs(t, err, element.ErrNotFound)

	var ee *element.Error
	require.ErrorAs(t, err, &ee)
	a.Equal(env.URL("/elements.html"), ee.URL)
}

func TestFormattedSelector(t *testing.T) {
	ctx := openFixture(t, "/elements.html")
	a := helpers.NewAssert(t)

	row := env.Element("//div[@id='rows']/div[{}]", driver.XPath)

	err := row.WithFormat([]any{2}, func(el *element.Element) error {
		a.Text(ctx, el, "row 2")
		return nil
	})
	a.NoError(err)
	a.Equal("//div[@id='rows']/div[{}]", row.Selector())

	byID := env.Element("[data-id='{id}']", driver.CSS)
	third, err := byID.Formatted(element.Named{"id": "r3"})
	require.NoError(t, err)
	a.Text(ctx, third, "row 3")
}

func TestLocatorKinds(t *testing.T) {
	ctx := openFixture(t, "/elements.html")
	a := helpers.NewAssert(t)

	a.Text(ctx, env.Element("title", driver.ID), "Elements")
	a.Count(ctx, env.Element("row", driver.ClassName), 3)

	email := env.Element("email", driver.Name)
	enabled, err := email.IsEnabled(ctx)
	a.NoError(err)
	a.Equal(false, enabled)

	value, ok, err := email.Attribute(ctx, "value")
	a.NoError(err)
	a.Equal(true, ok)
	a.Equal("user@example.com", value)

	_, ok, err = email.Attribute(ctx, "placeholder")
	a.NoError(err)
	a.Equal(false, ok)

	require.NoError(t, env.Element("Show two", driver.PartialLinkText).Click(ctx))
	items := env.Element("li.item", driver.CSS)
	a.Visible(ctx, items, 5*time.Second)
	a.Count(ctx, items, 2)
	a.Count(ctx, env.Element("Show two items", driver.LinkText), 0)
}

func TestClick(t *testing.T) {
	ctx := openFixture(t, "/elements.html")
	a := helpers.NewAssert(t)

	counter := env.Element("#counter", driver.CSS)
	a.NoError(counter.Click(ctx))
	a.NoError(counter.Click(ctx))
	a.Text(ctx, counter, "Clicked 2")

	err := env.Element("#covered", driver.CSS).Click(ctx)
	a.ErrorIs(err, element.ErrNotClickable)
}

func TestClickDisabled(t *testing.T) {
	ctx := openFixture(t, "/elements.html")
	a := helpers.NewAssert(t)

	// #late is enabled by a timer shortly after load.
	start := time.Now()
	err := env.Element("#late", driver.CSS).Click(ctx)
	require.ErrorIs(t, err, driver.ErrElementDisabled)
	a.NotErrorIs(err, element.ErrNotClickable)
	a.NotErrorIs(err, element.ErrNotFound)
	assert.Less(t, time.Since(start), time.Second, "disabled click must fail fast")
}

func TestPolling(t *testing.T) {
	ctx := openFixture(t, "/elements.html")
	a := helpers.NewAssert(t)

	late := env.Element("#late", driver.CSS)
	node, err := late.WaitForClickability(ctx, 5*time.Second, "late button never enabled")
	require.NoError(t, err)
	require.NoError(t, node.Click(ctx))

	a.Visible(ctx, env.Element("#toast", driver.CSS), 5*time.Second)
	a.NoError(env.Element("#spinner", driver.CSS).WaitForInvisibility(ctx, 5*time.Second, "spinner stuck"))

	hidden := env.Element("#hidden", driver.CSS)
	visible, err := hidden.IsVisible(ctx, 300*time.Millisecond)
	a.NoError(err)
	a.Equal(false, visible)

	_, err = hidden.WaitForVisibility(ctx, 300*time.Millisecond, "hidden stays hidden")
	a.ErrorIs(err, element.ErrNotVisible)

	a.Clickable(ctx, env.Element("#counter", driver.CSS), time.Second)
	_, err = env.Element("#covered", driver.CSS).WaitForClickability(ctx, 300*time.Millisecond, "")
	a.NoError(err, "covered button is displayed and enabled")
}

func TestNowChecks(t *testing.T) {
	ctx := openFixture(t, "/elements.html")
	a := helpers.NewAssert(t)

	hidden := env.Element("#hidden", driver.CSS)
	present, err := hidden.IsPresentNow(ctx)
	a.NoError(err)
	a.Equal(true, present)
	a.NotVisible(ctx, hidden)

	absent := env.Element("#absent", driver.CSS)
	present, err = absent.IsPresentNow(ctx)
	a.NoError(err)
	a.Equal(false, present)
	a.NotVisible(ctx, absent)
}
