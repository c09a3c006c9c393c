// Package browser owns the rod browser and page that elements are resolved
// against.
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"github.com/gti/pageobject/internal/driver"
	"github.com/sirupsen/logrus"
)

// Options controls how the browser is started.
type Options struct {
	// ControlURL is a rod launcher manager endpoint (ws://host:7317). When
	// empty a local browser is launched.
	ControlURL string

	Headless bool

	// Timeout bounds navigation. Zero means 30 seconds.
	Timeout time.Duration

	Logger logrus.FieldLogger
}

// Browser is a single-page rod browser session.
type Browser struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
	timeout  time.Duration
	log      logrus.FieldLogger
}

// New starts or connects to a browser and opens a blank page.
//
// Call Close() when done to release browser resources:
//
//	b, err := browser.New(browser.Options{Headless: true})
//	if err != nil {
//	    return err
//	}
//	defer b.Close()
func New(opts Options) (*Browser, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	b := &Browser{timeout: timeout, log: log}

	if opts.ControlURL != "" {
		l, err := launcher.NewManaged(opts.ControlURL)
		if err != nil {
			return nil, fmt.Errorf("failed to reach browser manager %s: %w", opts.ControlURL, err)
		}
		l = l.Headless(opts.Headless)
		client, err := l.Client()
		if err != nil {
			return nil, fmt.Errorf("failed to start remote browser: %w", err)
		}
		b.browser = rod.New().Client(client)
		log.WithField("control_url", opts.ControlURL).Debug("Using remote browser")
	} else {
		l := launcher.New().Headless(opts.Headless)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		b.launcher = l
		b.browser = rod.New().ControlURL(u)
		log.WithField("control_url", u).Debug("Launched local browser")
	}

	if err := b.browser.Connect(); err != nil {
		b.cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	b.page = page

	return b, nil
}

// Driver returns a driver bound to the browser's page.
func (b *Browser) Driver() *driver.Rod {
	return driver.NewRod(b.page)
}

// Navigate loads url and waits for the load event.
func (b *Browser) Navigate(ctx context.Context, url string) error {
	page := b.page.Context(ctx).Timeout(b.timeout)
	defer page.CancelTimeout()

	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to wait for page load: %w", err)
	}
	b.log.WithField("url", url).Debug("Navigated")
	return nil
}

// Screenshot captures the viewport into dir and returns the file path.
func (b *Browser) Screenshot(dir string) (string, error) {
	data, err := b.page.Screenshot(false, nil)
	if err != nil {
		return "", fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, uuid.New().String()+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	return path, nil
}

// Close releases browser resources.
func (b *Browser) Close() error {
	if b.page != nil {
		_ = b.page.Close()
	}
	var err error
	if b.browser != nil {
		err = b.browser.Close()
	}
	b.cleanup()
	return err
}

func (b *Browser) cleanup() {
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}
