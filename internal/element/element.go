// Package element implements page-object elements: a selector bound to a
// driver, resolved against the live document on every call.
//
// An Element never caches node handles. Each query or action looks the
// selector up again, so an Element built once per page stays valid across
// navigations and DOM updates.
package element

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gti/pageobject/internal/driver"
	"github.com/gti/pageobject/internal/wait"
	"github.com/sirupsen/logrus"
)

// BasicTimeout is used by the polling checks when no positive timeout is given.
const BasicTimeout = 5 * time.Second

const unknownURL = "<unknown>"

// Element is a lazily resolved handle to zero or more nodes.
//
// The selector may be temporarily replaced inside a Format/WithFormat scope.
// Such scopes are not reentrant: sharing one Element between goroutines
// while a scope is open is not supported. Use Formatted for a detached copy.
type Element struct {
	driver   driver.Driver
	selector string
	locator  driver.Locator

	log      logrus.FieldLogger
	interval time.Duration
}

// Option configures an Element.
type Option func(*Element)

// WithLogger sets the logger used for debug tracing and failure warnings.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Element) {
		e.log = l
	}
}

// WithPollInterval sets how often IsClickable, IsVisible and the WaitFor
// helpers re-check their condition.
func WithPollInterval(d time.Duration) Option {
	return func(e *Element) {
		e.interval = d
	}
}

// New binds selector, interpreted with locator, to d. The driver remains
// owned by the caller.
func New(d driver.Driver, selector string, locator driver.Locator, opts ...Option) *Element {
	e := &Element{
		driver:   d,
		selector: selector,
		locator:  locator,
		log:      logrus.StandardLogger(),
		interval: wait.DefaultInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// String returns the descriptor used in error messages.
func (e *Element) String() string {
	return "selector='" + e.selector + "'"
}

// Selector returns the currently active selector.
func (e *Element) Selector() string {
	return e.selector
}

// Locator returns the locator strategy.
func (e *Element) Locator() driver.Locator {
	return e.locator
}

// Element returns the first node matching the selector.
func (e *Element) Element(ctx context.Context) (driver.Node, error) {
	node, err := e.driver.FindElement(ctx, e.locator, e.selector)
	if err != nil {
		if errors.Is(err, driver.ErrNoSuchElement) {
			return nil, e.fail(ctx, KindNotFound, err)
		}
		return nil, fmt.Errorf("failed to resolve %s: %w", e, err)
	}
	return node, nil
}

// Elements returns all matching nodes in document order. No match yields an
// empty slice and no error.
func (e *Element) Elements(ctx context.Context) ([]driver.Node, error) {
	nodes, err := e.driver.FindElements(ctx, e.locator, e.selector)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", e, err)
	}
	e.logger().WithField("count", len(nodes)).Debug("Resolved elements")
	return nodes, nil
}

// Index returns the i-th matching node. Negative values count from the end.
func (e *Element) Index(ctx context.Context, i int) (driver.Node, error) {
	nodes, err := e.Elements(ctx)
	if err != nil {
		return nil, err
	}
	j := i
	if j < 0 {
		j += len(nodes)
	}
	if j < 0 || j >= len(nodes) {
		return nil, e.fail(ctx, KindNotFound, nil, fmt.Sprintf("Element with index=%d is not exist.", i))
	}
	return nodes[j], nil
}

// Slice returns matching nodes in [lo, hi). Negative bounds count from the
// end and out-of-range bounds are clamped, so Slice never reports a missing
// element.
func (e *Element) Slice(ctx context.Context, lo, hi int) ([]driver.Node, error) {
	nodes, err := e.Elements(ctx)
	if err != nil {
		return nil, err
	}
	lo, hi = clamp(lo, len(nodes)), clamp(hi, len(nodes))
	if lo >= hi {
		return []driver.Node{}, nil
	}
	return nodes[lo:hi], nil
}

func clamp(i, n int) int {
	if i < 0 {
		i += n
	}
	return max(0, min(i, n))
}

// Count returns the number of matching nodes.
func (e *Element) Count(ctx context.Context) (int, error) {
	nodes, err := e.Elements(ctx)
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}

// Each calls fn for every matching node in order and stops at the first error.
func (e *Element) Each(ctx context.Context, fn func(i int, n driver.Node) error) error {
	nodes, err := e.Elements(ctx)
	if err != nil {
		return err
	}
	for i, n := range nodes {
		if err := fn(i, n); err != nil {
			return err
		}
	}
	return nil
}

// IsEnabled reports whether the first matching node is enabled.
func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	node, err := e.Element(ctx)
	if err != nil {
		return false, err
	}
	return node.IsEnabled(ctx)
}

// Text returns the rendered text of the first matching node.
func (e *Element) Text(ctx context.Context) (string, error) {
	node, err := e.Element(ctx)
	if err != nil {
		return "", err
	}
	return node.Text(ctx)
}

// Attribute returns the named attribute of the first matching node. ok is
// false when the attribute is absent.
func (e *Element) Attribute(ctx context.Context, name string) (value string, ok bool, err error) {
	node, err := e.Element(ctx)
	if err != nil {
		return "", false, err
	}
	return node.Attribute(ctx, name)
}

// Click clicks the first matching node. A click that lands on another node
// fails with ErrNotClickable.
func (e *Element) Click(ctx context.Context) error {
	node, err := e.Element(ctx)
	if err != nil {
		return err
	}
	if err := node.Click(ctx); err != nil {
		if errors.Is(err, driver.ErrClickIntercepted) {
			return e.fail(ctx, KindNotClickable, err)
		}
		return fmt.Errorf("failed to click %s: %w", e, err)
	}
	e.logger().Debug("Clicked element")
	return nil
}

// IsPresentNow reports whether at least one node matches right now.
func (e *Element) IsPresentNow(ctx context.Context) (bool, error) {
	_, err := e.driver.FindElement(ctx, e.locator, e.selector)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, driver.ErrNoSuchElement):
		return false, nil
	default:
		return false, fmt.Errorf("failed to resolve %s: %w", e, err)
	}
}

// IsVisibleNow reports whether the first matching node is displayed right
// now. A missing node is not visible.
func (e *Element) IsVisibleNow(ctx context.Context) (bool, error) {
	ok, err := e.displayed(ctx)
	switch {
	case err == nil:
		return ok, nil
	case errors.Is(err, driver.ErrNoSuchElement):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check visibility of %s: %w", e, err)
	}
}

// IsClickable polls until the element is displayed and enabled. It returns
// false, without an error, if that does not happen within timeout.
func (e *Element) IsClickable(ctx context.Context, timeout time.Duration) (bool, error) {
	return e.poll(ctx, "clickable", timeout, e.clickable)
}

// IsVisible polls until the element is displayed. It returns false, without
// an error, if that does not happen within timeout.
func (e *Element) IsVisible(ctx context.Context, timeout time.Duration) (bool, error) {
	return e.poll(ctx, "visible", timeout, e.displayed)
}

// WaitForClickability waits for the element to become clickable and returns
// the resolved node. On timeout it fails with ErrNotClickable carrying msg.
func (e *Element) WaitForClickability(ctx context.Context, timeout time.Duration, msg string) (driver.Node, error) {
	timeout = orDefault(timeout)
	ok, err := e.IsClickable(ctx, timeout)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, e.fail(ctx, KindNotClickable, nil, msg, timeoutInfo(timeout))
	}
	return e.Element(ctx)
}

// WaitForVisibility waits for the element to become visible and returns the
// resolved node. On timeout it fails with ErrNotVisible carrying msg.
func (e *Element) WaitForVisibility(ctx context.Context, timeout time.Duration, msg string) (driver.Node, error) {
	timeout = orDefault(timeout)
	ok, err := e.IsVisible(ctx, timeout)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, e.fail(ctx, KindNotVisible, nil, msg, timeoutInfo(timeout))
	}
	return e.Element(ctx)
}

// WaitForInvisibility waits until no displayed node matches. On timeout it
// fails with ErrVisible carrying msg.
func (e *Element) WaitForInvisibility(ctx context.Context, timeout time.Duration, msg string) error {
	timeout = orDefault(timeout)
	ok, err := e.poll(ctx, "invisible", timeout, func(ctx context.Context) (bool, error) {
		shown, err := e.displayed(ctx)
		if errors.Is(err, driver.ErrNoSuchElement) {
			return true, nil
		}
		return !shown, err
	})
	if err != nil {
		return err
	}
	if !ok {
		return e.fail(ctx, KindVisible, nil, msg, timeoutInfo(timeout))
	}
	return nil
}

func (e *Element) poll(ctx context.Context, state string, timeout time.Duration, cond wait.Condition) (bool, error) {
	timeout = orDefault(timeout)
	log := e.logger().WithFields(logrus.Fields{"state": state, "timeout": timeout})
	log.Debug("Waiting for element")

	err := wait.Until(ctx, timeout, e.interval, wait.Ignoring(cond, driver.ErrNoSuchElement))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, wait.ErrTimeout):
		log.Debug("Element did not reach state before timeout")
		return false, nil
	default:
		return false, fmt.Errorf("failed waiting for %s to be %s: %w", e, state, err)
	}
}

func (e *Element) displayed(ctx context.Context) (bool, error) {
	node, err := e.driver.FindElement(ctx, e.locator, e.selector)
	if err != nil {
		return false, err
	}
	return node.IsDisplayed(ctx)
}

func (e *Element) clickable(ctx context.Context) (bool, error) {
	node, err := e.driver.FindElement(ctx, e.locator, e.selector)
	if err != nil {
		return false, err
	}
	shown, err := node.IsDisplayed(ctx)
	if err != nil || !shown {
		return false, err
	}
	return node.IsEnabled(ctx)
}

// fail builds an *Error for e, annotated with the current page URL.
func (e *Element) fail(ctx context.Context, kind Kind, cause error, details ...string) *Error {
	url, err := e.driver.CurrentURL(ctx)
	if err != nil {
		url = unknownURL
	}
	ee := &Error{
		Kind:       kind,
		Descriptor: e.String(),
		URL:        url,
		Context:    details,
		cause:      cause,
	}
	e.logger().WithField("url", url).Warn(ee.Error())
	return ee
}

func (e *Element) logger() logrus.FieldLogger {
	return e.log.WithFields(logrus.Fields{
		"selector": e.selector,
		"locator":  e.locator,
	})
}

func orDefault(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return BasicTimeout
	}
	return timeout
}

func timeoutInfo(timeout time.Duration) string {
	return fmt.Sprintf("Error raised after timeout=%s.", timeout)
}
