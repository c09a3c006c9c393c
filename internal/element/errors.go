package element

import "strings"

// Kind classifies an element failure.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindNotVisible
	KindNotClickable
	KindVisible
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "element not found"
	case KindNotVisible:
		return "element not visible"
	case KindNotClickable:
		return "element not clickable"
	case KindVisible:
		return "element visible"
	default:
		return "element error"
	}
}

// Sentinels for errors.Is checks against *Error.
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrNotVisible   = &Error{Kind: KindNotVisible}
	ErrNotClickable = &Error{Kind: KindNotClickable}
	ErrVisible      = &Error{Kind: KindVisible}
)

// Error is returned by Element operations. Every error carries the element
// descriptor and the page URL at the time of failure.
type Error struct {
	Kind       Kind
	Descriptor string
	URL        string
	// Context holds free-form details such as a requested index, the
	// caller's message or the timeout that elapsed.
	Context []string

	cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Descriptor != "" {
		b.WriteString(": ")
		b.WriteString(e.Descriptor)
	}
	if e.URL != "" {
		b.WriteString(" on ")
		b.WriteString(e.URL)
	}
	for _, c := range e.Context {
		if c == "" {
			continue
		}
		b.WriteString(". ")
		b.WriteString(c)
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Is matches any *Error of the same Kind, so callers can test against the
// package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Unwrap returns the driver error that triggered this one, if any.
func (e *Error) Unwrap() error {
	return e.cause
}
