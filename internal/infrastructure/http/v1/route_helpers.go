// Package v1 provides HTTP API version 1.
package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stationdesk/internal/infrastructure/http/v1/middleware"
)

// RecordRouteHandler defines the interface for record handlers.
type RecordRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterRecordRoutes registers standard CRUD routes for a record resource,
// guarded by the role policy for resource.
//
// Usage:
//
//	handler := handlers.NewRecordHandler(base, handlers.RecordHandlerConfig[*safedrop.Safedrop]{...})
//	RegisterRecordRoutes(api.Group("/safedrops"), handler, policy, "safedrops")
func RegisterRecordRoutes(group *gin.RouterGroup, handler RecordRouteHandler, policy middleware.Policy, resource string) {
	read := policy.Require(resource, middleware.AccessFor(http.MethodGet))
	create := policy.Require(resource, middleware.AccessFor(http.MethodPost))
	write := policy.Require(resource, middleware.AccessFor(http.MethodPut))

	group.GET("", read, handler.List)
	group.POST("", create, handler.Create)
	group.GET("/:id", read, handler.Get)
	group.PUT("/:id", write, handler.Update)
	group.DELETE("/:id", write, handler.Delete)
}
