package element

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Named supplies values for {name} placeholders. Pass it among the
// positional arguments of Format, WithFormat or Formatted.
type Named map[string]any

// ErrFormat is wrapped by every selector template error.
var ErrFormat = errors.New("invalid selector template")

// formatSelector substitutes args into tmpl using str.format placeholder
// rules: {} (automatic numbering), {0} (manual numbering), {name}, and the
// {{ and }} escapes. Surplus arguments are ignored.
func formatSelector(tmpl string, args []any) (string, error) {
	var positional []any
	named := Named{}
	for _, a := range args {
		if n, ok := a.(Named); ok {
			for k, v := range n {
				named[k] = v
			}
			continue
		}
		positional = append(positional, a)
	}

	var (
		b      strings.Builder
		next   int
		auto   bool
		manual bool
	)
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("%w: single '}' at offset %d", ErrFormat, i)
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: single '{' at offset %d", ErrFormat, i)
			}
			field := tmpl[i+1 : i+1+end]
			i += end + 1

			if strings.ContainsAny(field, "{:!.[") {
				return "", fmt.Errorf("%w: unsupported field %q", ErrFormat, field)
			}

			var v any
			switch {
			case field == "":
				if manual {
					return "", fmt.Errorf("%w: cannot switch from manual to automatic field numbering", ErrFormat)
				}
				auto = true
				if next >= len(positional) {
					return "", fmt.Errorf("%w: missing positional argument %d", ErrFormat, next)
				}
				v = positional[next]
				next++
			case isIndex(field):
				if auto {
					return "", fmt.Errorf("%w: cannot switch from automatic to manual field numbering", ErrFormat)
				}
				manual = true
				n, err := strconv.Atoi(field)
				if err != nil {
					return "", fmt.Errorf("%w: invalid field index %q", ErrFormat, field)
				}
				if n >= len(positional) {
					return "", fmt.Errorf("%w: missing positional argument %d", ErrFormat, n)
				}
				v = positional[n]
			default:
				val, ok := named[field]
				if !ok {
					return "", fmt.Errorf("%w: missing named argument %q", ErrFormat, field)
				}
				v = val
			}
			b.WriteString(fmt.Sprint(v))
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func isIndex(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
