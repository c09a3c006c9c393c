package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Rod adapts a go-rod page to the Driver interface.
//
// Lookups never wait: the page is queried with rod.NotFoundSleeper so a
// missing node is reported immediately. Waiting is left to the caller.
type Rod struct {
	page *rod.Page
}

var _ Driver = (*Rod)(nil)

// NewRod wraps the given page. The page stays owned by the caller.
func NewRod(page *rod.Page) *Rod {
	return &Rod{page: page}
}

// Page returns the underlying rod page.
func (r *Rod) Page() *rod.Page {
	return r.page
}

// FindElement returns the first node matching selector.
func (r *Rod) FindElement(ctx context.Context, by Locator, selector string) (Node, error) {
	kind, query, err := translate(by, selector)
	if err != nil {
		return nil, err
	}

	page := r.page.Context(ctx).Sleeper(rod.NotFoundSleeper)

	var el *rod.Element
	if kind == XPath {
		el, err = page.ElementX(query)
	} else {
		el, err = page.Element(query)
	}
	if err != nil {
		var notFound *rod.ElementNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s %q", ErrNoSuchElement, by, selector)
		}
		return nil, fmt.Errorf("failed to find element %s %q: %w", by, selector, err)
	}
	return &rodNode{el: el}, nil
}

// FindElements returns all nodes matching selector in document order.
func (r *Rod) FindElements(ctx context.Context, by Locator, selector string) ([]Node, error) {
	kind, query, err := translate(by, selector)
	if err != nil {
		return nil, err
	}

	page := r.page.Context(ctx)

	var els rod.Elements
	if kind == XPath {
		els, err = page.ElementsX(query)
	} else {
		els, err = page.Elements(query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find elements %s %q: %w", by, selector, err)
	}

	nodes := make([]Node, 0, len(els))
	for _, el := range els {
		nodes = append(nodes, &rodNode{el: el})
	}
	return nodes, nil
}

// CurrentURL returns the URL of the page's current document.
func (r *Rod) CurrentURL(ctx context.Context) (string, error) {
	info, err := r.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("failed to read page info: %w", err)
	}
	return info.URL, nil
}

type rodNode struct {
	el *rod.Element
}

func (n *rodNode) Click(ctx context.Context) error {
	// Nodes inherit the lookup's NotFoundSleeper; rod's own waits inside Click
	// need a real sleeper bounded by ctx.
	el := n.el.Sleeper(rod.DefaultSleeper).Context(ctx)

	disabled, err := el.Disabled()
	if err != nil {
		return fmt.Errorf("failed to read disabled state: %w", err)
	}
	if disabled {
		return ErrElementDisabled
	}

	if err := el.ScrollIntoView(); err != nil {
		return fmt.Errorf("failed to scroll element into view: %w", err)
	}

	// Check the hit target first; rod's Click would otherwise retry a covered
	// element until ctx expires.
	if _, err := el.Interactable(); err != nil {
		if clickIntercepted(err) {
			return fmt.Errorf("%w: %v", ErrClickIntercepted, err)
		}
		return fmt.Errorf("element is not interactable: %w", err)
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to click element: %w", err)
	}
	return nil
}

// clickIntercepted reports whether err means another node would receive the
// click. Invisible or zero-size targets are not intercepted.
func clickIntercepted(err error) bool {
	var covered *rod.CoveredError
	var noPointer *rod.NoPointerEventsError
	return errors.As(err, &covered) || errors.As(err, &noPointer)
}

func (n *rodNode) IsDisplayed(ctx context.Context) (bool, error) {
	return n.el.Context(ctx).Visible()
}

func (n *rodNode) IsEnabled(ctx context.Context) (bool, error) {
	disabled, err := n.el.Context(ctx).Disabled()
	if err != nil {
		return false, err
	}
	return !disabled, nil
}

func (n *rodNode) Text(ctx context.Context) (string, error) {
	return n.el.Context(ctx).Text()
}

func (n *rodNode) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, err := n.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

// translate maps a locator strategy onto the CSS or XPath query rod
// understands.
func translate(by Locator, selector string) (Locator, string, error) {
	switch by {
	case CSS, TagName:
		return CSS, selector, nil
	case XPath:
		return XPath, selector, nil
	case ID:
		return CSS, `[id=` + cssString(selector) + `]`, nil
	case Name:
		return CSS, `[name=` + cssString(selector) + `]`, nil
	case ClassName:
		return CSS, "." + selector, nil
	case LinkText:
		return XPath, `//a[normalize-space(string(.))=` + xpathString(selector) + `]`, nil
	case PartialLinkText:
		return XPath, `//a[contains(string(.),` + xpathString(selector) + `)]`, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedLocator, by)
	}
}

func cssString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

// xpathString quotes s as an XPath 1.0 literal, which has no escape syntax.
func xpathString(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = `"` + p + `"`
	}
	return `concat(` + strings.Join(quoted, `, '"', `) + `)`
}
