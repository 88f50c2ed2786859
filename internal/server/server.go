// Package server assembles the HTTP router: shared middleware, the health
// probe and the authenticated /api/v1 group every domain handler mounts on.
package server

import (
	"net/http"

	"github.com/fekuna/accountbook-service/internal/auth"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handler is implemented by every domain handler.
type Handler interface {
	Register(r gin.IRouter)
}

type Config struct {
	AppEnv         string
	AllowedOrigins []string
}

func (c Config) production() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func NewRouter(cfg Config, verifier *auth.TokenVerifier, log logger.ZapLogger, handlers ...Handler) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}
	if cfg.production() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(requestID())
	r.Use(accessLog(log))
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1", auth.Middleware(verifier))
	for _, h := range handlers {
		h.Register(api)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
	})
	return r, nil
}

// corsConfig allows any origin outside production; production needs an
// explicit allowlist.
func corsConfig(cfg Config) cors.Config {
	c := cors.DefaultConfig()
	if cfg.production() {
		c.AllowOrigins = cfg.AllowedOrigins
		if len(c.AllowOrigins) == 0 {
			c.AllowOrigins = []string{"http://localhost"}
		}
	} else {
		c.AllowAllOrigins = true
	}
	c.AddAllowHeaders("Authorization", requestIDHeader)
	c.AddExposeHeaders("Content-Disposition", requestIDHeader)
	return c
}
