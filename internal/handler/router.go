package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterOptions carries the wiring that differs between server and tests.
type RouterOptions struct {
	FrontendDir string
	CORSOrigins []string
	Middleware  []gin.HandlerFunc // run after recovery, logging and CORS
	Metrics     http.Handler      // served on /metrics when set
}

// NewRouter builds the gin engine serving the API, health, metrics and the static shell.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/health", "/metrics"},
	}))

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}
	if len(opts.CORSOrigins) == 0 || (len(opts.CORSOrigins) == 1 && opts.CORSOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = opts.CORSOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(opts.Middleware...)

	r.GET("/health", h.Health)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	h.Register(r.Group("/api"))

	if opts.FrontendDir != "" {
		index := filepath.Join(opts.FrontendDir, "index.html")
		r.StaticFile("/", index)
		r.Static("/static", filepath.Join(opts.FrontendDir, "static"))
		r.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
				return
			}
			c.File(index)
		})
	}
	return r
}
