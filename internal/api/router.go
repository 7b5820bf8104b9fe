package api

import (
	"github.com/gin-gonic/gin"

	"github.com/justyntemme/bookinsights/internal/auth"
	"github.com/justyntemme/bookinsights/internal/logger"
)

// RouterConfig holds what both service routers share
type RouterConfig struct {
	JWTSecret   string
	CORSOrigins []string
	Log         *logger.Logger
}

func newEngine(cfg RouterConfig, service string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(cfg.Log))
	r.Use(CORS(cfg.CORSOrigins))

	r.GET("/health", HealthCheck(service))
	return r
}

// NewBookRouter builds the book service routes
func NewBookRouter(cfg RouterConfig, h *BookHandler) *gin.Engine {
	r := newEngine(cfg, "book-service")

	booksGroup := r.Group("/books")
	booksGroup.Use(auth.AuthMiddleware(cfg.JWTSecret))
	{
		booksGroup.GET("/search", h.Search)
		booksGroup.GET("/library", h.ListLibrary)
		booksGroup.POST("/library", h.AddBook)
		booksGroup.DELETE("/library/:workId", h.RemoveBook)
		booksGroup.GET("/details/:workId", h.Details)
	}
	return r
}

// NewOrderRouter builds the order service routes
func NewOrderRouter(cfg RouterConfig, h *OrderHandler) *gin.Engine {
	r := newEngine(cfg, "order-service")

	ordersGroup := r.Group("/orders")
	ordersGroup.Use(auth.AuthMiddleware(cfg.JWTSecret))
	{
		ordersGroup.POST("", h.CreateOrder)
		ordersGroup.GET("", h.ListOrders)
		ordersGroup.GET("/:id", h.GetOrder)
		ordersGroup.DELETE("/:id", h.DeleteOrder)
	}
	return r
}
