package http

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/aretw0/tally/internal/markup"
	"github.com/aretw0/tally/pkg/domain"
)

type actionButton struct {
	Action domain.Action
	Title  string
}

var indexButtons = []actionButton{
	{domain.ActionCollectCoverage, "update coverage data (collect coverage)"},
	{domain.ActionUpdateReport, "update coverage report (rebuild report)"},
	{domain.ActionClear, "clear coverage report"},
	{domain.ActionReloadFiles, "reload settings files"},
}

type indexView struct {
	Base      string
	Notice    string
	HasNotice bool
	CanReload bool
	Version   string
	Homepage  string
}

// indexPage renders the admin index. Every interpolated value is escaped,
// including the base path, which comes from the request.
func indexPage(v indexView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := markup.NewWriter(w)

		m.Raw("<!DOCTYPE html>\n<html>\n<head><meta charset='utf-8'/><title>tally web admin</title></head>\n<body>\n")
		if v.HasNotice {
			m.Raw("<strong>Notice:</strong> ")
			m.Text(v.Notice)
			m.Raw("<br/>\n")
		}

		m.Raw("<ul>\n")
		m.Raw("<li><a href='")
		m.Text(v.Base)
		m.Raw("'>tally web admin index</a></li>\n")
		m.Raw("<li><a href='")
		m.Text(v.Base + "show")
		m.Raw("'>view coverage report</a></li>\n")
		for _, b := range indexButtons {
			if b.Action == domain.ActionReloadFiles && !v.CanReload {
				continue
			}
			m.Raw("<li><form action='")
			m.Text(v.Base + string(b.Action))
			m.Raw("' method='post'><button type='submit'>")
			m.Text(b.Title)
			m.Raw("</button></form></li>\n")
		}
		m.Raw("</ul>\n<br/>\n")

		m.Raw("version: ")
		m.Text(v.Version)
		m.Raw("<br/>\n<a href='")
		m.Text(v.Homepage)
		m.Raw("'>tally</a>\n</body>\n</html>\n")
		return m.Err()
	})
}
