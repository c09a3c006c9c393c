// Package driver defines the browser-automation surface the element layer
// consumes, plus a go-rod backed implementation.
package driver

import (
	"context"
	"errors"
	"fmt"
)

// Locator is the strategy used to interpret a selector string.
type Locator string

// Supported locator strategies. Values match the Selenium "By" names.
const (
	CSS             Locator = "css selector"
	XPath           Locator = "xpath"
	ID              Locator = "id"
	Name            Locator = "name"
	ClassName       Locator = "class name"
	TagName         Locator = "tag name"
	LinkText        Locator = "link text"
	PartialLinkText Locator = "partial link text"
)

var locatorAliases = map[string]Locator{
	"css":               CSS,
	"css selector":      CSS,
	"xpath":             XPath,
	"id":                ID,
	"name":              Name,
	"class":             ClassName,
	"class name":        ClassName,
	"tag":               TagName,
	"tag name":          TagName,
	"link text":         LinkText,
	"partial link text": PartialLinkText,
}

// ParseLocator converts a strategy name (e.g. "css", "xpath", "link text")
// into a Locator.
func ParseLocator(s string) (Locator, error) {
	if l, ok := locatorAliases[s]; ok {
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLocator, s)
}

var (
	// ErrNoSuchElement is returned by FindElement when nothing matches.
	ErrNoSuchElement = errors.New("no such element")

	// ErrClickIntercepted is returned by Node.Click when the target is
	// covered by another node or cannot receive pointer events.
	ErrClickIntercepted = errors.New("element click intercepted")

	// ErrElementDisabled is returned by Node.Click when the target is disabled.
	ErrElementDisabled = errors.New("element is disabled")

	// ErrUnsupportedLocator is returned for unknown locator strategies.
	ErrUnsupportedLocator = errors.New("unsupported locator")
)

// Driver resolves selectors against the current document.
type Driver interface {
	// FindElement returns the first match or ErrNoSuchElement. It must not wait.
	FindElement(ctx context.Context, by Locator, selector string) (Node, error)

	// FindElements returns every match in document order. An empty result is
	// not an error.
	FindElements(ctx context.Context, by Locator, selector string) ([]Node, error)

	// CurrentURL returns the URL of the loaded document.
	CurrentURL(ctx context.Context) (string, error)
}

// Node is a live handle into the current document. It is only valid until
// the document changes.
type Node interface {
	Click(ctx context.Context) error
	IsDisplayed(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	Text(ctx context.Context) (string, error)

	// Attribute returns the attribute value and whether it is present.
	Attribute(ctx context.Context, name string) (string, bool, error)
}
