// Package api exposes the ordering core over HTTP with gin.
package api

import (
	"net/http"

	"gourmet/internal/chat"
	"gourmet/internal/database"
	"gourmet/internal/menu"
	"gourmet/internal/monitoring"
	"gourmet/internal/recommend"
	"gourmet/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the collaborators the API serves from
type Deps struct {
	Catalog   *menu.Catalog
	Sessions  *session.Manager
	Collector *monitoring.Collector
	Hub       *OrderHub
	// Completion backs POST /api/v1/chat/completions; nil disables the route
	Completion *chat.LLMCompleter
	// Orders backs the order history route; nil disables it
	Orders *database.OrderStore
	Logger *zap.SugaredLogger
}

// API represents the ordering HTTP API
type API struct {
	Router *gin.Engine

	catalog    *menu.Catalog
	engine     *recommend.Engine
	sessions   *session.Manager
	collector  *monitoring.Collector
	hub        *OrderHub
	completion *chat.LLMCompleter
	orders     *database.OrderStore
	logger     *zap.SugaredLogger
}

// New creates the API with all routes mounted
func New(deps Deps) *API {
	router := gin.New()

	a := &API{
		Router:     router,
		catalog:    deps.Catalog,
		engine:     recommend.NewEngine(deps.Catalog),
		sessions:   deps.Sessions,
		collector:  deps.Collector,
		hub:        deps.Hub,
		completion: deps.Completion,
		orders:     deps.Orders,
		logger:     deps.Logger,
	}

	router.Use(gin.Recovery(), a.requestLogger())
	a.setupRoutes()
	return a
}

// setupRoutes configures all API endpoints
func (a *API) setupRoutes() {
	a.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "GourmetAI API is running"})
	})

	v1 := a.Router.Group("/api/v1")
	{
		v1.POST("/sessions", a.CreateSession)

		// Menu
		v1.GET("/menu", a.ListMenu)
		v1.GET("/menu/:id", a.GetMenuItem)
		v1.GET("/menu/:id/pairings", a.GetPairings)

		// Completion service
		v1.POST("/chat/completions", a.CreateCompletion)

		v1.GET("/metrics", a.GetMetrics)
	}

	authed := v1.Group("", a.requireSession())
	{
		authed.GET("/session", a.GetSession)

		// Cart
		authed.GET("/cart", a.GetCart)
		authed.DELETE("/cart", a.ClearCart)
		authed.POST("/cart/items", a.AddCartItem)
		authed.PUT("/cart/items/:id", a.UpdateCartItem)
		authed.DELETE("/cart/items/:id", a.RemoveCartItem)

		// Preferences and recommendations
		authed.GET("/preferences", a.GetPreferences)
		authed.PUT("/preferences", a.UpdatePreferences)
		authed.GET("/recommendations", a.GetRecommendations)

		// Orders
		authed.POST("/orders", a.Checkout)
		authed.GET("/orders/current", a.GetCurrentOrder)
		authed.POST("/orders/current/status", a.AdvanceOrder)
		authed.GET("/orders/current/ws", a.StreamOrder)
		authed.GET("/orders/history", a.GetOrderHistory)

		// Assistant
		authed.GET("/chat", a.GetChat)
		authed.POST("/chat", a.SendChat)
		authed.DELETE("/chat", a.ClearChat)
	}
}

// GetMetrics returns the JSON metrics snapshot
func (a *API) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, a.collector.Monitor().Snapshot())
}
