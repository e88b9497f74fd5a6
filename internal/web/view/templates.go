// Package view renders the HTML screens. Layout and styling stay minimal:
// the backend owns all data, the templates only lay out forms and tables.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ems-platform/web-client/internal/domain"
	"github.com/ems-platform/web-client/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// Data contains values shared across templates.
type Data struct {
	Title       string
	User        *domain.Profile
	Role        domain.Role
	Flash       *session.Flash
	Error       string
	CurrentPath string
	Data        any
}

// IsAdmin reports whether the page renders for an ADMIN session.
func (d Data) IsAdmin() bool {
	return d.Role == domain.RoleAdmin
}

// IsReviewer reports whether the leave review screens apply.
func (d Data) IsReviewer() bool {
	return d.Role == domain.RoleAdmin || d.Role == domain.RoleManager
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		// Backend date-times arrive as "2006-01-02T15:04:05" strings.
		"datetime": func(s string) string {
			return strings.Replace(s, "T", " ", 1)
		},
		"timeOnly": func(s string) string {
			if i := strings.IndexByte(s, 'T'); i >= 0 && len(s) >= i+6 {
				return s[i+1 : i+6]
			}
			return s
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template into the response.
func (e *Engine) Render(c *fiber.Ctx, name string, data Data) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
