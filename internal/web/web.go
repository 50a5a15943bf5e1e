// Package web holds the HTML templates and the helpers handlers use to
// render pages, fragments and error pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/logs"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/user"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/validation"
)

//go:embed templates
var files embed.FS

var (
	tmpl     *template.Template
	tmplOnce sync.Once
)

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("02 Jan 2006 15:04")
	},
	"fieldErrors": func(fe validation.FieldErrors, field string) []string {
		return fe[field]
	},
}

// Templates parses the embedded templates once.
func Templates() *template.Template {
	tmplOnce.Do(func() {
		tmpl = template.Must(template.New("").Funcs(funcs).ParseFS(files,
			"templates/*.html",
			"templates/misc/*.html",
		))
	})
	return tmpl
}

// CurrentUser is the authenticated user or nil.
func CurrentUser(c *gin.Context) *user.User {
	if v, ok := c.Get("user"); ok {
		if u, ok := v.(*user.User); ok {
			return u
		}
	}
	return nil
}

// Render writes the named page with the current user available as .user.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["user"] = CurrentUser(c)
	data["path"] = c.Request.URL.Path
	c.HTML(status, name, data)
}

// RenderFragment executes a template into memory, for caching.
func RenderFragment(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := Templates().ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render fragment %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func NotFound(c *gin.Context) {
	Render(c, http.StatusNotFound, "404.html", gin.H{})
	c.Abort()
}

// ServerError logs err against the current route and renders the 500 page.
func ServerError(c *gin.Context, err error) {
	fields := map[string]interface{}{
		"route": c.FullPath(),
		"path":  c.Request.URL.Path,
	}
	if err != nil {
		fields["error"] = err.Error()
		_ = c.Error(err)
	}
	if userID := c.GetUint("user_id"); userID != 0 {
		fields["userID"] = userID
	}
	logs.LogJSON("ERROR", "Internal server error", fields)

	Render(c, http.StatusInternalServerError, "500.html", gin.H{})
	c.Abort()
}
