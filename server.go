package main

import (
	"database/sql"
	"net/http"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"golink/db"
	link "golink/handlers/link"
	"golink/helpers"
	"golink/workers"
)

type Server struct {
	E            *echo.Echo
	DB           *sql.DB
	Q            *db.Queries
	Log          *zap.Logger
	BaseHost     string
	ClickWorkers *workers.ClickWorker
	Cache        *lru.Cache
	Limiter      *helpers.RateLimiter
}

func NewServer(dbConn *sql.DB, log *zap.Logger, q *db.Queries, baseHost string, cw *workers.ClickWorker, cache *lru.Cache, limiter *helpers.RateLimiter) *Server {
	e := echo.New()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Logger())

	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		E:            e,
		DB:           dbConn,
		Q:            q,
		Log:          log,
		BaseHost:     baseHost,
		ClickWorkers: cw,
		Cache:        cache,
		Limiter:      limiter,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.E.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	s.E.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	link := link.New(s.Q, s.Log, s.BaseHost, s.ClickWorkers, s.Cache)

	api := s.E.Group("/api/v1")
	if s.Limiter != nil {
		api.Use(s.Limiter.Middleware)
	}
	api.POST("/links", link.Create)
	api.GET("/links", link.List)
	api.PUT("/links/:shortlink", link.Update)
	api.DELETE("/links/:shortlink", link.Delete)
	api.GET("/links/:shortlink/stats", link.Stats)

	// everything else is a shortlink: go/foo, go/foo/bar, go/foo+
	s.E.GET("/*", link.Redirect)
	s.E.HEAD("/*", link.Redirect)
}

func (s *Server) Start(addr string) error {
	s.Log.Info("server starting", zap.String("addr", addr))
	return s.E.Start(addr)
}
