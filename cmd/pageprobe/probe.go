package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gti/pageobject/internal/browser"
	"github.com/gti/pageobject/internal/config"
	"github.com/gti/pageobject/internal/driver"
	"github.com/gti/pageobject/internal/element"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type probeFlags struct {
	url        string
	selector   string
	by         string
	timeout    time.Duration
	attrs      []string
	screenshot bool
}

func (f *probeFlags) register(fs *pflag.FlagSet, cfg *config.Config) {
	fs.StringVar(&f.url, "url", "", "page to load")
	fs.StringVarP(&f.selector, "selector", "s", "", "element selector")
	fs.StringVar(&f.by, "by", "css", "locator strategy: css, xpath, id, name, class, tag, link text, partial link text")
	fs.DurationVarP(&f.timeout, "timeout", "t", cfg.ElementTimeout, "how long to wait for visibility and clickability")
	fs.StringSliceVarP(&f.attrs, "attr", "a", nil, "attribute to report (repeatable)")
	fs.BoolVar(&f.screenshot, "screenshot", false, "save a screenshot into the artifacts directory")
}

func newRootCommand(cfg *config.Config, logger *logrus.Logger) *cobra.Command {
	flags := &probeFlags{}

	cmd := &cobra.Command{
		Use:          "pageprobe",
		Short:        "Report the state of a page element",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			by, err := driver.ParseLocator(flags.by)
			if err != nil {
				return err
			}

			b, err := browser.New(browser.Options{
				ControlURL: cfg.BrowserControlURL,
				Headless:   cfg.BrowserHeadless,
				Logger:     logger,
			})
			if err != nil {
				return err
			}
			defer func() {
				if err := b.Close(); err != nil {
					logger.WithError(err).Warn("Failed to close browser")
				}
			}()

			ctx := cmd.Context()
			if err := b.Navigate(ctx, flags.url); err != nil {
				return err
			}

			el := element.New(b.Driver(), flags.selector, by,
				element.WithLogger(logger),
				element.WithPollInterval(cfg.PollInterval),
			)
			if err := probe(ctx, cmd.OutOrStdout(), el, flags); err != nil {
				return err
			}

			if flags.screenshot {
				path, err := b.Screenshot(cfg.ArtifactsDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "screenshot: %s\n", path)
			}
			return nil
		},
	}

	flags.register(cmd.Flags(), cfg)
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("selector")

	return cmd
}

// probe writes one "key: value" line per reported property.
func probe(ctx context.Context, w io.Writer, el *element.Element, flags *probeFlags) error {
	count, err := el.Count(ctx)
	if err != nil {
		return err
	}
	present, err := el.IsPresentNow(ctx)
	if err != nil {
		return err
	}
	visible, err := el.IsVisible(ctx, flags.timeout)
	if err != nil {
		return err
	}
	clickable := false
	if visible {
		if clickable, err = el.IsClickable(ctx, flags.timeout); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "element: %s (%s)\n", el, el.Locator())
	fmt.Fprintf(w, "count: %d\n", count)
	fmt.Fprintf(w, "present: %t\n", present)
	fmt.Fprintf(w, "visible: %t\n", visible)
	fmt.Fprintf(w, "clickable: %t\n", clickable)

	if !present {
		return nil
	}

	text, err := el.Text(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "text: %q\n", text)

	for _, name := range flags.attrs {
		v, ok, err := el.Attribute(ctx, name)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(w, "attr %s: <absent>\n", name)
			continue
		}
		fmt.Fprintf(w, "attr %s: %q\n", name, v)
	}
	return nil
}
