package testenv

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

//go:embed fixtures/*.html
var fixtureFS embed.FS

// FixtureServer serves the HTML pages the E2E tests drive.
type FixtureServer struct {
	// Port is the host port the server listens on.
	Port int

	server *echo.Echo
}

// StartFixtureServer serves the embedded fixture pages on a random port.
//
// Returns the server and a cleanup function that shuts it down.
func StartFixtureServer(log logrus.FieldLogger) (*FixtureServer, func(), error) {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find available port: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Listener = listener
	e.StaticFS("/", echo.MustSubFS(fixtureFS, "fixtures"))

	// Renders a list of n items (li.item) labelled "item 1".."item n".
	e.GET("/list/:n", func(c echo.Context) error {
		n, err := strconv.Atoi(c.Param("n"))
		if err != nil || n < 0 || n > 1000 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid item count")
		}
		var b strings.Builder
		b.WriteString(`<html><body><ul id="list">`)
		for i := 1; i <= n; i++ {
			fmt.Fprintf(&b, `<li class="item" data-pos="%d">item %d</li>`, i, i)
		}
		b.WriteString(`</ul></body></html>`)
		return c.HTML(http.StatusOK, b.String())
	})

	go func() {
		if err := e.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Fixture server stopped")
		}
	}()

	fs := &FixtureServer{
		Port:   listener.Addr().(*net.TCPAddr).Port,
		server: e,
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(ctx)
	}

	return fs, cleanup, nil
}
