package templates

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// UploadSummary is what the upload result fragment shows.
type UploadSummary struct {
	FileName         string
	BatchID          string
	ImportedCount    int
	TotalRows        int
	Rejected         map[string]int
	DuplicatesInFile int
	DateFallbacks    int
	Encoding         string
}

// UploadResult renders the success panel shown after an import.
func UploadResult(s UploadSummary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="alert alert-success" role="status">`)
		fmt.Fprintf(&b, `<p class="alert-message">%d of %d rows imported from %s</p>`,
			s.ImportedCount, s.TotalRows, templ.EscapeString(s.FileName))
		fmt.Fprintf(&b, `<p class="batch-id">Batch %s</p>`, templ.EscapeString(s.BatchID))

		if len(s.Rejected) > 0 {
			reasons := make([]string, 0, len(s.Rejected))
			for r := range s.Rejected {
				reasons = append(reasons, r)
			}
			sort.Strings(reasons)

			b.WriteString(`<ul class="rejections">`)
			for _, r := range reasons {
				fmt.Fprintf(&b, `<li>%s: %d</li>`, templ.EscapeString(r), s.Rejected[r])
			}
			b.WriteString(`</ul>`)
		}
		if s.DuplicatesInFile > 0 {
			fmt.Fprintf(&b, `<p class="note">%d repeated order ids collapsed</p>`, s.DuplicatesInFile)
		}
		if s.DateFallbacks > 0 {
			fmt.Fprintf(&b, `<p class="note">%d rows had no readable date and were dated today</p>`, s.DateFallbacks)
		}
		if s.Encoding != "" {
			fmt.Fprintf(&b, `<p class="note">Read as %s</p>`, templ.EscapeString(s.Encoding))
		}
		b.WriteString(`</div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// UploadFailure renders an error alert followed by the detected headers.
func UploadFailure(message, action, code string, headers []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ErrorAlert(message, action, code).Render(ctx, w); err != nil {
			return err
		}
		return HeaderList(headers).Render(ctx, w)
	})
}
