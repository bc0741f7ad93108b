package api

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/bakkerme/pagewatch/internal/seen"
)

// WatchEntry is the in-memory view of one configured watch, rendered by the
// status page alongside its recorded seen keys.
type WatchEntry struct {
	Name     string
	Schedule string
	Source   string
	Seen     seen.Store
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head><title>pagewatch</title></head>
<body>
<h1>Watches</h1>
{{range .Watches}}
<h2>{{.Name}}</h2>
<p>{{.Source}} &mdash; <code>{{.Schedule}}</code></p>
{{if .Keys}}
<ul>
{{range .Keys}}<li>{{.}}</li>
{{end}}</ul>
{{else}}
<p><em>nothing recorded yet</em></p>
{{end}}
{{end}}
</body>
</html>
`

type Server struct {
	echo     *echo.Echo
	logger   *slog.Logger
	pagePath string
	entries  []WatchEntry
	tmpl     *template.Template
}

func NewServer(logger *slog.Logger, pagePath string, entries []WatchEntry) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if pagePath == "" {
		pagePath = "/watches"
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	server := &Server{
		echo:     e,
		logger:   logger,
		pagePath: pagePath,
		entries:  entries,
		tmpl:     template.Must(template.New("page").Parse(pageTemplate)),
	}

	// Anything outside the page path and the API gets the JSON 404 payload.
	e.HTTPErrorHandler = server.handleError
	e.GET(pagePath, server.handlePage)
	e.GET("/api/v1/health", server.handleHealth)
	return server
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handlePage(c echo.Context) error {
	type watchView struct {
		Name     string
		Schedule string
		Source   string
		Keys     []string
	}
	views := make([]watchView, 0, len(s.entries))
	for _, entry := range s.entries {
		view := watchView{
			Name:     entry.Name,
			Schedule: entry.Schedule,
			Source:   entry.Source,
		}
		if entry.Seen != nil {
			keys, err := entry.Seen.Load(c.Request().Context())
			if err != nil {
				s.logger.Error("failed to load seen keys", "watch_id", entry.Name, "error", err)
			} else {
				view.Keys = keys
			}
		}
		views = append(views, view)
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, map[string]interface{}{"Watches": views}); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "pagewatch",
	})
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	if httpErr, ok := err.(*echo.HTTPError); ok {
		code = httpErr.Code
	}
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request().URL.Path, "error", err)
	}
	_ = c.JSON(code, map[string]interface{}{
		"status":  code,
		"message": http.StatusText(code),
	})
}
