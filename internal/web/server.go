// Package web serves the board over HTTP: an HTML page and a JSON API that
// drive the same store as the CLI.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abatilo/lanes/internal/board"
	"github.com/abatilo/lanes/internal/task"
)

//go:embed templates/*.html
var templatesFS embed.FS

const shutdownTimeout = 5 * time.Second

// Server is the lanes web server
type Server struct {
	handlers *board.Handlers
	router   *gin.Engine
	log      *zap.Logger
	now      func() time.Time
}

// NewServer creates a new web server
func NewServer(h *board.Handlers, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	s := &Server{
		handlers: h,
		router:   router,
		log:      log,
		now:      time.Now,
	}

	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"date":    func(ms int64) string { return board.FormatDate(ms, h.Location()) },
		"overdue": func(t task.Task) bool { return t.Overdue(s.now()) },
	}).ParseFS(templatesFS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)

	// Web routes
	router.GET("/", s.handleIndex)

	// API routes
	api := router.Group("/api")
	{
		api.GET("/board", s.handleAPIBoard)
		api.GET("/stages", s.handleAPIStages)
		api.GET("/tasks/:id", s.handleAPITask)
		api.POST("/tasks", s.handleAPICreate)
		api.PUT("/tasks/:id", s.handleAPIUpdate)
		api.DELETE("/tasks/:id", s.handleAPIDelete)
		api.POST("/columns/:stage/drop", s.handleAPIDropOnColumn)
		api.DELETE("/columns/:stage/tasks", s.handleAPIClearColumn)
		api.POST("/trash/drop", s.handleAPIDropOnTrash)
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("serving board", zap.String("addr", addr))
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
