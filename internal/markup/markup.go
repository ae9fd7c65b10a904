// Package markup holds the small writer used to build templ components by hand.
package markup

import (
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Writer accumulates the first write error so components can emit markup
// without checking every call.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes trusted markup verbatim.
func (m *Writer) Raw(s string) {
	if m.err != nil {
		return
	}
	_, m.err = io.WriteString(m.w, s)
}

// Rawf writes formatted trusted markup. Arguments are not escaped.
func (m *Writer) Rawf(format string, args ...any) {
	m.Raw(fmt.Sprintf(format, args...))
}

// Text writes s HTML-escaped. It is safe for element content and quoted attributes.
func (m *Writer) Text(s string) {
	m.Raw(templ.EscapeString(s))
}

// Err returns the first write error.
func (m *Writer) Err() error {
	return m.err
}
