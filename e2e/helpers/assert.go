// Package helpers provides narrowly-scoped utilities for E2E testing.
package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/gti/pageobject/internal/element"
	"github.com/stretchr/testify/assert"
)

// Assert provides assertion capabilities for E2E tests.
//
// This is a thin wrapper around testify/assert plus element-level checks.
// All assertions log failures but do not stop test execution (use the
// require package for fatal assertions).
//
// Usage:
//
//	a := NewAssert(t)
//	a.Visible(ctx, env.Element("#toast", driver.CSS), time.Second)
//	a.Text(ctx, env.Element("h1", driver.CSS), "Elements")
type Assert struct {
	t *testing.T
}

// NewAssert creates a new assertion helper for the given test.
func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t}
}

// Equal asserts that expected and actual are equal.
func (a *Assert) Equal(expected, actual interface{}, msgAndArgs ...interface{}) bool {
	return assert.Equal(a.t, expected, actual, msgAndArgs...)
}

// NoError asserts that err is nil.
func (a *Assert) NoError(err error, msgAndArgs ...interface{}) bool {
	return assert.NoError(a.t, err, msgAndArgs...)
}

// ErrorIs asserts that err matches target, e.g. element.ErrNotFound.
//
//	_, err := missing.Element(ctx)
//	a.ErrorIs(err, element.ErrNotFound)
func (a *Assert) ErrorIs(err, target error, msgAndArgs ...interface{}) bool {
	return assert.ErrorIs(a.t, err, target, msgAndArgs...)
}

// NotErrorIs asserts that err does not match target.
func (a *Assert) NotErrorIs(err, target error, msgAndArgs ...interface{}) bool {
	return assert.NotErrorIs(a.t, err, target, msgAndArgs...)
}

// Visible asserts that el becomes visible within timeout.
func (a *Assert) Visible(ctx context.Context, el *element.Element, timeout time.Duration) bool {
	ok, err := el.IsVisible(ctx, timeout)
	if !assert.NoError(a.t, err, "checking visibility of %s", el) {
		return false
	}
	return assert.True(a.t, ok, "%s should be visible within %s", el, timeout)
}

// NotVisible asserts that el is not visible right now.
func (a *Assert) NotVisible(ctx context.Context, el *element.Element) bool {
	ok, err := el.IsVisibleNow(ctx)
	if !assert.NoError(a.t, err, "checking visibility of %s", el) {
		return false
	}
	return assert.False(a.t, ok, "%s should not be visible", el)
}

// Clickable asserts that el becomes clickable within timeout.
func (a *Assert) Clickable(ctx context.Context, el *element.Element, timeout time.Duration) bool {
	ok, err := el.IsClickable(ctx, timeout)
	if !assert.NoError(a.t, err, "checking clickability of %s", el) {
		return false
	}
	return assert.True(a.t, ok, "%s should be clickable within %s", el, timeout)
}

// Count asserts that exactly n nodes match el.
func (a *Assert) Count(ctx context.Context, el *element.Element, n int) bool {
	got, err := el.Count(ctx)
	if !assert.NoError(a.t, err, "counting %s", el) {
		return false
	}
	return assert.Equal(a.t, n, got, "number of nodes matching %s", el)
}

// Text asserts the rendered text of the first node matching el.
func (a *Assert) Text(ctx context.Context, el *element.Element, want string) bool {
	got, err := el.Text(ctx)
	if !assert.NoError(a.t, err, "reading text of %s", el) {
		return false
	}
	return assert.Equal(a.t, want, got, "text of %s", el)
}
