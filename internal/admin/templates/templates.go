// Package templates renders the server-side HTML for the admin dashboard.
// Each page template is parsed together with the shared layout at startup,
// so template errors surface at boot rather than at request time.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"elamli.org/elamli-admin/internal/admin/orders"
	"elamli.org/elamli-admin/internal/admin/templates/helpers"
)

//go:embed html/*.html
var files embed.FS

const layoutFile = "html/layout.html"

// pageFiles maps the page name used by handlers to its template file.
// Fragments render standalone without the layout.
var pageFiles = map[string]string{
	"login":      "html/login.html",
	"dashboard":  "html/dashboard.html",
	"orders":     "html/orders.html",
	"statistics": "html/statistics.html",
	"settings":   "html/settings.html",
}

var fragmentFiles = map[string]string{
	"orders_table": "html/orders_table.html",
}

// Renderer holds the parsed template set.
type Renderer struct {
	pages     map[string]*template.Template
	fragments map[string]*template.Template
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"currency": helpers.Currency,
		"date":     helpers.Date,
		"datetime": helpers.DateTime,
		"relative": func(t time.Time) string {
			return helpers.Relative(t, time.Now())
		},
		"truncate":    helpers.Truncate,
		"placeholder": helpers.Placeholder,
		"statusLabel": func(s orders.Status) string { return orders.StatusLabel(s) },
		"statusTone":  func(s orders.Status) string { return orders.StatusTone(s) },
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
	}
}

// New parses the embedded template set.
func New() (*Renderer, error) {
	r := &Renderer{
		pages:     make(map[string]*template.Template, len(pageFiles)),
		fragments: make(map[string]*template.Template, len(fragmentFiles)),
	}

	for name, file := range pageFiles {
		tmpl, err := template.New("layout.html").Funcs(funcMap()).ParseFS(files, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parse page %q: %w", name, err)
		}
		// Pages embed the orders table fragment where they include it.
		if name == "orders" {
			if tmpl, err = tmpl.ParseFS(files, fragmentFiles["orders_table"]); err != nil {
				return nil, fmt.Errorf("parse page %q: %w", name, err)
			}
		}
		r.pages[name] = tmpl
	}

	for name, file := range fragmentFiles {
		tmpl, err := template.New(name).Funcs(funcMap()).ParseFS(files, file)
		if err != nil {
			return nil, fmt.Errorf("parse fragment %q: %w", name, err)
		}
		r.fragments[name] = tmpl
	}

	return r, nil
}

// RenderPage renders a full page inside the shared layout.
func (r *Renderer) RenderPage(w io.Writer, name string, data any) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page template %q", name)
	}
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		return fmt.Errorf("render page %q: %w", name, err)
	}
	return nil
}

// RenderFragment renders a partial without the layout, used for htmx swaps.
func (r *Renderer) RenderFragment(w io.Writer, name string, data any) error {
	tmpl, ok := r.fragments[name]
	if !ok {
		return fmt.Errorf("unknown fragment template %q", name)
	}
	if err := tmpl.ExecuteTemplate(w, name+".html", data); err != nil {
		return fmt.Errorf("render fragment %q: %w", name, err)
	}
	return nil
}
