package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rtplus/rtplus/internal/auth"
	"github.com/rtplus/rtplus/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Breadcrumb is one step of the page trail. The last crumb has no Href.
type Breadcrumb struct {
	Label string
	Href  string
}

type pageData struct {
	Title       string
	User        *auth.Session
	Org         *store.Organization
	Orgs        []store.Organization
	Breadcrumbs []Breadcrumb
	Content     any
}

// renderer holds one template set per page, each layered on the layout.
type renderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(dateLayout)
	},
	"lower": strings.ToLower,
}

func newRenderer() (*renderer, error) {
	layout, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &renderer{pages: make(map[string]*template.Template)}
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		r.pages[strings.TrimSuffix(path.Base(f), ".html")] = t
	}
	return r, nil
}

func (r *renderer) render(c *fiber.Ctx, status int, name string, data pageData) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("no page template %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	c.Status(status)
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// renderError shows the error page. A broken error template falls back to
// plain text.
func (s *Server) renderError(c *fiber.Ctx, e *Error) error {
	data := pageData{
		Title:       "Error",
		Breadcrumbs: []Breadcrumb{{Label: "Error"}},
		Content:     e,
	}
	data.User, _ = auth.UserSession(c)
	if err := s.pages.render(c, e.Status, "error", data); err != nil {
		return c.Status(e.Status).SendString(e.Message)
	}
	return nil
}
