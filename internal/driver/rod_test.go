package driver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-rod/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		by       Locator
		selector string
		kind     Locator
		query    string
	}{
		{CSS, "div.item > a", CSS, "div.item > a"},
		{TagName, "button", CSS, "button"},
		{XPath, ".//div[3]", XPath, ".//div[3]"},
		{ID, "main", CSS, `[id="main"]`},
		{ID, `we"ird`, CSS, `[id="we\"ird"]`},
		{Name, "email", CSS, `[name="email"]`},
		{ClassName, "btn", CSS, ".btn"},
		{LinkText, "Sign in", XPath, `//a[normalize-space(string(.))="Sign in"]`},
		{PartialLinkText, "Sign", XPath, `//a[contains(string(.),"Sign")]`},
	}

	for _, tt := range tests {
		t.Run(string(tt.by)+"/"+tt.selector, func(t *testing.T) {
			kind, query, err := translate(tt.by, tt.selector)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.query, query)
		})
	}
}

func TestTranslateUnsupported(t *testing.T) {
	t.Parallel()

	_, _, err := translate(Locator("shadow"), "x")
	require.ErrorIs(t, err, ErrUnsupportedLocator)
}

func TestXPathString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"plain"`, xpathString("plain"))
	assert.Equal(t, `'say "hi"'`, xpathString(`say "hi"`))
	assert.Equal(t, `concat("it's ", '"', "quoted", '"', "")`, xpathString(`it's "quoted"`))
}

func TestParseLocator(t *testing.T) {
	t.Parallel()

	l, err := ParseLocator("css")
	require.NoError(t, err)
	assert.Equal(t, CSS, l)

	l, err = ParseLocator("partial link text")
	require.NoError(t, err)
	assert.Equal(t, PartialLinkText, l)

	_, err = ParseLocator("jquery")
	assert.ErrorIs(t, err, ErrUnsupportedLocator)
}

func TestClickIntercepted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"covered", &rod.CoveredError{}, true},
		{"pointer events none", &rod.NoPointerEventsError{}, true},
		{"wrapped covered", fmt.Errorf("hit test: %w", &rod.CoveredError{}), true},
		{"invisible shape", &rod.InvisibleShapeError{}, false},
		{"not interactable", &rod.NotInteractableError{}, false},
		{"other", errors.New("cdp failure"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, clickIntercepted(tt.err))
		})
	}
}
