package element

import "fmt"

// Format activates the selector template filled with args and returns a func
// that restores the original selector. Use it with defer:
//
//	restore, err := row.Format(3)
//	if err != nil {
//	    return err
//	}
//	defer restore()
//
// On error the selector is left untouched and restore is a no-op.
func (e *Element) Format(args ...any) (restore func(), err error) {
	original := e.selector
	formatted, err := formatSelector(original, args)
	if err != nil {
		return func() {}, fmt.Errorf("failed to format %s: %w", e, err)
	}

	e.selector = formatted
	e.logger().WithField("template", original).Debug("Entered selector format scope")

	return func() {
		e.selector = original
	}, nil
}

// WithFormat runs fn with the selector template filled with args. The
// original selector is restored when fn returns, fails or panics.
//
//	err := cell.WithFormat([]any{row, element.Named{"col": "price"}}, func(c *element.Element) error {
//	    return c.Click(ctx)
//	})
func (e *Element) WithFormat(args []any, fn func(*Element) error) error {
	restore, err := e.Format(args...)
	if err != nil {
		return err
	}
	defer restore()

	return fn(e)
}

// Formatted returns a copy of e bound to the filled-in selector. e itself is
// not modified.
func (e *Element) Formatted(args ...any) (*Element, error) {
	formatted, err := formatSelector(e.selector, args)
	if err != nil {
		return nil, fmt.Errorf("failed to format %s: %w", e, err)
	}
	c := *e
	c.selector = formatted
	return &c, nil
}
