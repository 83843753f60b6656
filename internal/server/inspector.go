package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danmuck/ofwire/internal/codec"
	"github.com/danmuck/ofwire/internal/config"
	"github.com/danmuck/ofwire/internal/observability"
	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Inspector serves decode requests against one registry.
type Inspector struct {
	Name     string
	Addr     string
	Versions []protocol.Version
	Vendors  []string
	Started  time.Time

	reg    *registry.Registry
	opts   codec.MessageOptions
	router *gin.Engine
}

func New(cfg config.InspectorConfig, reg *registry.Registry) *Inspector {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.With().Str("inspector", cfg.Name).Logger()))
	r.Use(observability.RequestMetricsMiddleware(cfg.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	return &Inspector{
		Name:     cfg.Name,
		Addr:     cfg.Addr,
		Versions: cfg.Versions,
		Vendors:  cfg.Vendors,
		Started:  time.Now(),
		reg:      reg,
		opts:     cfg.MessageOptions(),
		router:   r,
	}
}

func (s *Inspector) HTTPRouter() *gin.Engine {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Inspector) Run(ctx context.Context) error {
	s.RegisterRoutes()
	srv := &http.Server{Addr: s.Addr, Handler: s.router, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		log.Info().
			Str("inspector", s.Name).
			Str("addr", s.Addr).
			Int("codecs", s.reg.Len()).
			Msg("inspector listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info().Str("inspector", s.Name).Msg("inspector shutting down")
	return srv.Shutdown(shutdownCtx)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
