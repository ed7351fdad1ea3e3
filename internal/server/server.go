package server

import (
	"context"
	"ctchen222/pokedex/internal/api/controller"
	"ctchen222/pokedex/internal/api/middleware"
	"ctchen222/pokedex/internal/api/response"
	"ctchen222/pokedex/internal/auth"
	"ctchen222/pokedex/internal/telemetry"
	"ctchen222/pokedex/internal/validator"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("server")

const healthTimeout = 2 * time.Second

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	ServiceName    string
	Tokens         auth.TokenIssuer
	Database       Pinger
	Metrics        *telemetry.HTTPMetrics
	MaxUploadBytes int64
}

type Server struct {
	engine      *gin.Engine
	db          Pinger
	serviceName string
}

// NewServer builds the gin engine with the middleware chain and every route.
func NewServer(opts Options, users *controller.UserController, pokemon *controller.PokemonController) *Server {
	validator.InstallGin()

	engine := gin.New()
	if opts.MaxUploadBytes > 0 {
		engine.MaxMultipartMemory = opts.MaxUploadBytes
	}
	engine.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.Metrics(opts.Metrics),
	)
	engine.NoRoute(func(c *gin.Context) {
		response.ErrorResponse(c, http.StatusNotFound, "route not found")
	})

	s := &Server{
		engine:      engine,
		db:          opts.Database,
		serviceName: opts.ServiceName,
	}
	s.RegisterHandlers(opts.Tokens, users, pokemon)
	return s
}

func (s *Server) RegisterHandlers(tokens auth.TokenIssuer, users *controller.UserController, pokemon *controller.PokemonController) {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.POST("/register", users.Register)
	s.engine.POST("/login", users.Login)

	group := s.engine.Group("/pokemon", middleware.BearerAuth(tokens))
	group.POST("/", pokemon.Create)
	group.GET("/", pokemon.List)
	group.GET("/:id", pokemon.Get)
	group.PATCH("/:id", pokemon.Update)
	group.DELETE("/:id", pokemon.Delete)
}

// Engine exposes the router, mostly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler is the engine wrapped with server spans.
func (s *Server) Handler() http.Handler {
	name := s.serviceName
	if name == "" {
		name = "http.server"
	}
	return otelhttp.NewHandler(s.engine, name,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleHealth")
	defer span.End()

	if s.db == nil {
		c.Status(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "database unreachable")
		slog.WarnContext(ctx, "Health check failed", "error", err)
		response.ErrorResponse(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	c.Status(http.StatusNoContent)
}
