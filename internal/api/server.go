// ABOUTME: HTTP server exposing the quiz and chat endpoints
// ABOUTME: Echo instance with recover, CORS and request logging middleware plus graceful shutdown
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/2jang/Pawsonality/internal/core"
	"github.com/2jang/Pawsonality/internal/models"
	"github.com/2jang/Pawsonality/internal/personality"
)

// ShutdownTimeout bounds graceful shutdown
const ShutdownTimeout = 10 * time.Second

// ChatService answers chat requests
type ChatService interface {
	ComposeWith(ctx context.Context, req core.Request) models.ChatAnswer
	Explain(ctx context.Context, typeCode string) models.ChatAnswer
	Greeting(typeCode string) string
	Status() core.Status
}

// Config configures a Server
type Config struct {
	Catalog     *personality.Catalog
	Chat        ChatService
	Logger      *log.Logger
	CORSOrigins []string
	Version     string
}

// Server wires handlers onto an echo instance
type Server struct {
	echo    *echo.Echo
	catalog *personality.Catalog
	chat    ChatService
	logger  *log.Logger
	version string
}

// NewServer creates a Server with all routes registered
func NewServer(cfg Config) (*Server, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("server requires a catalog")
	}
	if cfg.Chat == nil {
		return nil, errors.New("server requires a chat service")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		catalog: cfg.Catalog,
		chat:    cfg.Chat,
		logger:  logger,
		version: cfg.Version,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(s.requestLogger())

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.echo.GET("/", s.handleRoot)
	s.echo.GET("/health", s.handleHealth)

	pawna := s.echo.Group("/api/pawna")
	pawna.GET("/questions", s.handleQuestions)
	pawna.POST("/submit", s.handleSubmit)
	pawna.GET("/types", s.handleTypes)
	pawna.GET("/types/:code", s.handleType)

	chat := s.echo.Group("/api/chat")
	chat.POST("", s.handleChat)
	chat.POST("/explain/:code", s.handleExplain)
	chat.GET("/greeting", s.handleGreeting)
	chat.GET("/health", s.handleChatHealth)
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Warn("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "err", v.Error)
				return nil
			}
			s.logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	})
}
