// Package templates renders the intake wizard HTML surface.
//
// Page fragments are html/template files compiled into templ components so
// page rendering composes through the shared layout the same way on every
// step. View structs carry form state back into re-rendered steps after
// validation failures.
package templates

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Toast describes a one-time notice rendered at the top of the page.
type Toast struct {
	Kind    string
	Message string
}

// LayoutOptions carries shared page chrome state.
type LayoutOptions struct {
	Title        string
	Lang         string
	Loc          Localizer
	CurrentPath  string
	CurrentQuery string
	Step         int
	Refresh      string
	Toast        *Toast
}

type layoutView struct {
	pageText
	Title     string
	Lang      string
	Step      int
	Refresh   string
	Toast     *Toast
	Languages []languageLink
	Body      template.HTML
}

// Layout renders the wizard page shell around child content.
func Layout(opts LayoutOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var body bytes.Buffer
		if children := templ.GetChildren(ctx); children != nil {
			if err := children.Render(ctx, &body); err != nil {
				return err
			}
		}
		view := layoutView{
			pageText:  pageText{loc: opts.Loc},
			Title:     opts.Title,
			Lang:      opts.Lang,
			Step:      opts.Step,
			Refresh:   opts.Refresh,
			Toast:     opts.Toast,
			Languages: languageLinks(opts),
			Body:      template.HTML(body.String()),
		}
		return pages.ExecuteTemplate(w, "layout.html", view)
	})
}

func renderPage(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}
