package element

import (
	"context"
	"fmt"
	"sync"

	"github.com/gti/pageobject/internal/driver"
)

// fakeDriver is an in-memory document keyed by selector.
type fakeDriver struct {
	mu      sync.Mutex
	url     string
	urlErr  error
	findErr error
	nodes   map[string][]*fakeNode
	lookups []string
}

func newFakeDriver(url string) *fakeDriver {
	return &fakeDriver{url: url, nodes: map[string][]*fakeNode{}}
}

func (d *fakeDriver) set(selector string, nodes ...*fakeNode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nodes[selector] = nodes
}

func (d *fakeDriver) FindElement(_ context.Context, by driver.Locator, selector string) (driver.Node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lookups = append(d.lookups, selector)
	if d.findErr != nil {
		return nil, d.findErr
	}
	ns := d.nodes[selector]
	if len(ns) == 0 {
		return nil, fmt.Errorf("%w: %s %q", driver.ErrNoSuchElement, by, selector)
	}
	return ns[0], nil
}

func (d *fakeDriver) FindElements(_ context.Context, _ driver.Locator, selector string) ([]driver.Node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lookups = append(d.lookups, selector)
	if d.findErr != nil {
		return nil, d.findErr
	}
	out := make([]driver.Node, 0, len(d.nodes[selector]))
	for _, n := range d.nodes[selector] {
		out = append(out, n)
	}
	return out, nil
}

func (d *fakeDriver) CurrentURL(context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url, d.urlErr
}

type fakeNode struct {
	mu        sync.Mutex
	name      string
	displayed bool
	enabled   bool
	text      string
	attrs     map[string]string
	clickErr  error
	clicks    int
}

func visibleNode(name string) *fakeNode {
	return &fakeNode{name: name, displayed: true, enabled: true, text: name}
}

func (n *fakeNode) setState(displayed, enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.displayed, n.enabled = displayed, enabled
}

func (n *fakeNode) Click(context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.clickErr != nil {
		return n.clickErr
	}
	n.clicks++
	return nil
}

func (n *fakeNode) IsDisplayed(context.Context) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.displayed, nil
}

func (n *fakeNode) IsEnabled(context.Context) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enabled, nil
}

func (n *fakeNode) Text(context.Context) (string, error) {
	return n.text, nil
}

func (n *fakeNode) Attribute(_ context.Context, name string) (string, bool, error) {
	v, ok := n.attrs[name]
	return v, ok, nil
}
