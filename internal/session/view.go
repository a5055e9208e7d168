package session

import (
	"gourmet/internal/cart"
	"gourmet/internal/models"
)

// View is the read-only projection of a session
type View struct {
	SessionID       string              `json:"session_id"`
	Cart            cart.Snapshot       `json:"cart"`
	Recommendations []models.MenuItem   `json:"recommendations"`
	Suggestions     []models.Suggestion `json:"suggestions"`
	Preferences     []string            `json:"preferences"`
	Order           *OrderView          `json:"order,omitempty"`
}

// OrderView is an order with its tracking progress and label
type OrderView struct {
	models.Order
	Progress int    `json:"progress"`
	Label    string `json:"label"`
}

// NewOrderView decorates o with its tracking fields
func NewOrderView(o models.Order) *OrderView {
	return &OrderView{
		Order:    o,
		Progress: o.Status.Progress(),
		Label:    o.Status.Label(),
	}
}

// View builds the projection under a single lock so the cart, total and
// recommendations agree with each other.
func (s *Session) View() View {
	s.mu.Lock()
	v := View{
		SessionID:       s.id,
		Cart:            s.cart.Snapshot(),
		Recommendations: cloneItems(s.recommendations),
		Suggestions:     s.engine.Suggestions(s.cart.Items(), s.prefs),
		Preferences:     s.prefs.List(),
	}
	s.mu.Unlock()

	if o, ok := s.lifecycle.Current(); ok {
		v.Order = NewOrderView(o)
	}
	return v
}
