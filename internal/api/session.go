package api

import (
	"errors"
	"net/http"

	"gourmet/internal/cart"
	"gourmet/internal/session"

	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
	Quantity   *int   `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type preferencesRequest struct {
	Preferences []string `json:"preferences"`
}

// CreateSession starts a session and returns its token
func (a *API) CreateSession(c *gin.Context) {
	s, token, err := a.sessions.Create()
	if err != nil {
		a.logger.Errorw("Failed to create session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session_id": s.ID(), "token": token})
}

// GetSession returns the full session view
func (a *API) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c).View())
}

// GetCart returns the cart lines and total
func (a *API) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c).Cart())
}

// ClearCart empties the cart
func (a *API) ClearCart(c *gin.Context) {
	s := currentSession(c)
	s.ClearCart()
	c.JSON(http.StatusOK, s.View())
}

// AddCartItem adds an item; quantity defaults to one
func (a *API) AddCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	s := currentSession(c)
	if err := s.AddToCart(req.MenuItemID, quantity); err != nil {
		switch {
		case errors.Is(err, session.ErrUnknownItem):
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		case errors.Is(err, cart.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, s.View())
}

// UpdateCartItem overwrites a line quantity; zero or less removes it
func (a *API) UpdateCartItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := currentSession(c)
	s.UpdateQuantity(c.Param("id"), *req.Quantity)
	c.JSON(http.StatusOK, s.View())
}

// RemoveCartItem drops a line from the cart
func (a *API) RemoveCartItem(c *gin.Context) {
	s := currentSession(c)
	s.RemoveFromCart(c.Param("id"))
	c.JSON(http.StatusOK, s.View())
}

// GetPreferences returns the preference tags
func (a *API) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"preferences": currentSession(c).Preferences()})
}

// UpdatePreferences replaces the preference tags
func (a *API) UpdatePreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := currentSession(c)
	s.UpdatePreferences(req.Preferences)
	c.JSON(http.StatusOK, s.View())
}

// GetRecommendations returns the current recommendations
func (a *API) GetRecommendations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": currentSession(c).Recommendations()})
}
