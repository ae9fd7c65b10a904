package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
	"github.com/aretw0/tally/internal/markup"
	"github.com/aretw0/tally/pkg/domain"
)

type fileView struct {
	Name    string
	Anchor  string
	Hits    domain.LineHits
	Summary domain.Summary
}

type pageView struct {
	Title       string
	Version     string
	GeneratedAt time.Time
	Total       domain.Summary
	Files       []fileView
}

func coverageClass(p float64) string {
	switch {
	case p >= 90:
		return "green"
	case p >= 80:
		return "yellow"
	}
	return "red"
}

// reportPage renders the report document. Asset references are single-quoted
// and relative so the admin surface can re-root them under its mount point.
func reportPage(v pageView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := markup.NewWriter(w)

		m.Raw("<!DOCTYPE html>\n<html xmlns='http://www.w3.org/1999/xhtml'>\n<head>\n")
		m.Raw("<meta http-equiv='Content-Type' content='text/html; charset=utf-8'/>\n<title>")
		m.Text(v.Title)
		m.Raw("</title>\n")
		m.Raw("<link href='application.css' media='screen, projection, print' rel='stylesheet' type='text/css'/>\n")
		m.Raw("<script src='application.js' type='text/javascript'></script>\n")
		m.Raw("</head>\n<body>\n")
		m.Raw("<div id='loading'><img src='loading.gif' alt='loading'/></div>\n")
		m.Raw("<div id='wrapper' style='display:none;'>\n")
		m.Rawf("<div class='timestamp'>Generated <abbr class='timeago' title='%s'>%s</abbr></div>\n",
			v.GeneratedAt.UTC().Format(time.RFC3339), v.GeneratedAt.UTC().Format(time.RFC1123))

		m.Raw("<h2>")
		m.Text(v.Title)
		m.Rawf(" <span class='%s'>%.2f%%</span></h2>\n", coverageClass(v.Total.Percent()), v.Total.Percent())
		m.Rawf("<div class='bar' style=\"background-image: url(/images/bar.png); width: %.0f%%\"></div>\n", v.Total.Percent())
		m.Rawf("<p><b>%d</b> files, <b>%d</b> relevant lines, <b>%d</b> lines covered, <b>%d</b> lines missed.</p>\n",
			len(v.Files), v.Total.Relevant, v.Total.Covered, v.Total.Relevant-v.Total.Covered)

		m.Raw("<table class='file_list'>\n<thead><tr><th>File</th><th>% covered</th><th>Relevant Lines</th><th>Lines covered</th><th>Lines missed</th></tr></thead>\n<tbody>\n")
		for _, f := range v.Files {
			m.Raw("<tr><td class='strong'><a href='#")
			m.Text(f.Anchor)
			m.Raw("' class='src_link'>")
			m.Text(f.Name)
			m.Rawf("</a></td><td class='%s strong'>%.2f %%</td><td>%d</td><td>%d</td><td>%d</td></tr>\n",
				coverageClass(f.Summary.Percent()), f.Summary.Percent(),
				f.Summary.Relevant, f.Summary.Covered, f.Summary.Relevant-f.Summary.Covered)
		}
		m.Raw("</tbody>\n</table>\n")

		m.Raw("<div class='source_files'>\n")
		for _, f := range v.Files {
			m.Raw("<div class='source_table' id='")
			m.Text(f.Anchor)
			m.Raw("'>\n<h3>")
			m.Text(f.Name)
			m.Raw("</h3>\n<ol>\n")
			for _, line := range f.Hits.Lines() {
				hits := f.Hits[line]
				class := "missed"
				if hits > 0 {
					class = "covered"
				}
				m.Rawf("<li class='%s' data-hits='%d' data-linenumber='%d'><span class='hits'>%d</span> line %d</li>\n",
					class, hits, line, hits, line)
			}
			m.Raw("</ol>\n</div>\n")
		}
		m.Raw("</div>\n")

		m.Raw("<div id='footer'>Generated by <a href='https://github.com/aretw0/tally'>tally</a> v")
		m.Text(v.Version)
		m.Raw("</div>\n</div>\n</body>\n</html>\n")
		return m.Err()
	})
}

func anchor(i int) string {
	return fmt.Sprintf("file-%d", i+1)
}
