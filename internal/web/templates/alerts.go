// Package templates holds the HTML fragments returned to HTMX requests.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// ErrorAlert renders a dismissible error box with the support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="alert alert-error" role="alert">`)
		fmt.Fprintf(&b, `<p class="alert-message">%s</p>`, templ.EscapeString(message))
		if action != "" {
			fmt.Fprintf(&b, `<p class="alert-action">%s</p>`, templ.EscapeString(action))
		}
		if code != "" {
			fmt.Fprintf(&b, `<p class="alert-code">Code: %s</p>`, templ.EscapeString(code))
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// HeaderList renders the header row detected in a rejected file so the user
// can see which columns the export actually had.
func HeaderList(headers []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(headers) == 0 {
			return nil
		}
		var b strings.Builder
		b.WriteString(`<details class="detected-headers"><summary>Detected columns</summary><ul>`)
		for _, h := range headers {
			fmt.Fprintf(&b, `<li>%s</li>`, templ.EscapeString(h))
		}
		b.WriteString(`</ul></details>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
