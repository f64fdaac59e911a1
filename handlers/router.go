package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"rssz/render"
)

// RouterOptions carries the middleware dependencies of NewRouter.
type RouterOptions struct {
	Sessions sessions.Store
	// Limiter throttles the raw query proxy. nil disables throttling.
	Limiter *rate.Limiter
}

// NewRouter builds the gin engine with every route of the service.
func NewRouter(h *Handlers, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.logger))

	// Allow all origins, the proxy is meant to be called from static pages too.
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept", "Accept-Encoding", "Origin", "Cache-Control", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	if opts.Sessions != nil {
		r.Use(SessionMiddleware(opts.Sessions, h.logger))
	}

	r.SetHTMLTemplate(render.Templates())

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", h.HealthHandler)

	// Page and datastar actions
	r.GET("/", h.IndexHandler)
	r.GET("/ui/search/:kind", h.SearchSSEHandler)
	r.GET("/ui/detail", h.DetailSSEHandler)

	api := r.Group("/api")
	if opts.Limiter != nil {
		api.POST("/query", RateLimit(opts.Limiter), h.QueryProxyHandler)
	} else {
		api.POST("/query", h.QueryProxyHandler)
	}

	api.GET("/queries", h.ListQueriesHandler)
	api.GET("/table/:kind", h.SearchTableHandler)
	api.GET("/detail/:ico", h.DetailTableHandler)
	api.GET("/display/:target", h.CurrentDisplayHandler)

	api.GET("/history", h.ListHistoryHandler)
	api.GET("/history/:id", h.GetHistoryEntryHandler)

	api.POST("/results/export", h.ExportResultHandler)
	api.GET("/results/files", h.ListResultFilesHandler)
	api.GET("/results/file/:filename", h.GetResultFileHandler)

	return r
}

// RequestLogger logs one line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("Request failed", fields...)
		case status >= 400:
			logger.Warn("Request rejected", fields...)
		default:
			logger.Debug("Request served", fields...)
		}
	}
}
