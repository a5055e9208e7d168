package api

import (
	"errors"
	"io"
	"net/http"

	"gourmet/internal/models"
	"gourmet/internal/order"
	"gourmet/internal/session"

	"github.com/gin-gonic/gin"
)

type advanceRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// Checkout places an order from the cart. The delivery details body is optional.
func (a *API) Checkout(c *gin.Context) {
	var details order.DeliveryDetails
	if err := c.ShouldBindJSON(&details); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, ok := currentSession(c).Checkout(details)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cart is empty"})
		return
	}
	c.JSON(http.StatusCreated, session.NewOrderView(o))
}

// GetCurrentOrder returns the tracked order
func (a *API) GetCurrentOrder(c *gin.Context) {
	o, ok := currentSession(c).CurrentOrder()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active order"})
		return
	}
	c.JSON(http.StatusOK, session.NewOrderView(o))
}

// AdvanceOrder moves the tracked order to the requested status
func (a *API) AdvanceOrder(c *gin.Context) {
	var req advanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status: " + string(req.Status)})
		return
	}

	o, err := currentSession(c).AdvanceOrder(req.Status)
	switch {
	case errors.Is(err, order.ErrNoActiveOrder):
		c.JSON(http.StatusNotFound, gin.H{"error": "No active order"})
	case errors.Is(err, order.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, session.NewOrderView(o))
	}
}

// GetOrderHistory lists the persisted orders of the session
func (a *API) GetOrderHistory(c *gin.Context) {
	if a.orders == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Order history is not enabled"})
		return
	}

	orders, err := a.orders.ListBySession(currentSession(c).ID())
	if err != nil {
		a.logger.Errorw("Failed to list orders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// StreamOrder upgrades to a websocket that receives the tracked order on
// every change
func (a *API) StreamOrder(c *gin.Context) {
	if a.hub == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Order streaming is not enabled"})
		return
	}
	s := currentSession(c)

	var snapshot *session.OrderView
	if o, ok := s.CurrentOrder(); ok {
		snapshot = session.NewOrderView(o)
	}
	if err := a.hub.Serve(c.Writer, c.Request, s.ID(), snapshot); err != nil {
		a.logger.Warnw("Failed to upgrade connection", "session_id", s.ID(), "error", err)
	}
}
