package api

import (
	"github.com/gin-gonic/gin"

	infrajwt "github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/jwt"
	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/metrics"
)

// RouteOptions carries the cross-cutting pieces of the router.
type RouteOptions struct {
	// JWTSecret guards the admin routes. Empty rejects every admin request.
	JWTSecret string
	// HTTPMetrics is optional.
	HTTPMetrics *metrics.HTTP
}

// SetupRoutes configures all API routes. Health routes are registered by
// the server builder.
func SetupRoutes(router *gin.Engine, handler *Handler, opts RouteOptions) {
	if opts.HTTPMetrics != nil {
		router.Use(opts.HTTPMetrics.Middleware())
		router.GET("/metrics", opts.HTTPMetrics.Handler())
	}

	v1 := router.Group("/api/v1")
	{
		blog := v1.Group("/blog")
		{
			blog.GET("", handler.BlogList)
			blog.GET("/categories", handler.BlogCategories)
			blog.GET("/:slug", handler.BlogPost)
		}

		v1.GET("/news", handler.NewsList)

		tools := v1.Group("/tools")
		{
			tools.GET("", handler.ToolList)
			tools.GET("/:slug", handler.Tool)
		}

		v1.GET("/content/:provider", handler.Content)

		admin := v1.Group("/admin", infrajwt.Middleware(opts.JWTSecret))
		{
			admin.DELETE("/cache/:provider", handler.PurgeCache)
		}
	}
}
