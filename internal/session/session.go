// Package session owns the per-customer ordering state: cart, current order,
// preferences, recommendations and chat transcript. Every mutation recomputes
// recommendations before it returns, so reads after a write are consistent.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gourmet/internal/cart"
	"gourmet/internal/chat"
	"gourmet/internal/menu"
	"gourmet/internal/models"
	"gourmet/internal/order"
	"gourmet/internal/recommend"

	"go.uber.org/zap"
)

// ErrUnknownItem is returned when a cart operation names an item not on the menu
var ErrUnknownItem = errors.New("unknown menu item")

// OrderObserver receives order events together with the owning session id
type OrderObserver interface {
	OrderCreated(sessionID string, o models.Order)
	OrderStatusChanged(sessionID string, o models.Order, from models.OrderStatus)
}

// Options configures a session
type Options struct {
	Catalog   *menu.Catalog
	Completer chat.Completer
	// AutoProgress schedules Steps after every checkout
	AutoProgress bool
	Steps        []order.Step
	Observers    []OrderObserver
	Logger       *zap.SugaredLogger
}

// Session is the state of one customer
type Session struct {
	id        string
	catalog   *menu.Catalog
	engine    *recommend.Engine
	lifecycle *order.Lifecycle
	assistant *chat.Assistant
	logger    *zap.SugaredLogger

	autoProgress bool
	steps        []order.Step

	mu              sync.Mutex
	cart            *cart.Cart
	prefs           recommend.Preferences
	recommendations []models.MenuItem
	lastActive      time.Time
}

// New creates a session with an empty cart and the popular items recommended
func New(id string, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	logger = logger.With("session_id", id)

	steps := opts.Steps
	if steps == nil {
		steps = order.DefaultSteps
	}
	completer := opts.Completer
	if completer == nil {
		completer = chat.CompleterFunc(func(context.Context, []models.ChatMessage, string) (string, error) {
			return "", fmt.Errorf("%w: no completer configured", chat.ErrCompletion)
		})
	}

	s := &Session{
		id:           id,
		catalog:      opts.Catalog,
		engine:       recommend.NewEngine(opts.Catalog),
		assistant:    chat.NewAssistant(completer, logger),
		logger:       logger,
		autoProgress: opts.AutoProgress,
		steps:        steps,
		cart:         cart.New(),
		prefs:        recommend.NewPreferences(),
		lastActive:   time.Now(),
	}

	listeners := make([]order.Listener, len(opts.Observers))
	for i, o := range opts.Observers {
		listeners[i] = observerAdapter{sessionID: id, observer: o}
	}
	s.lifecycle = order.NewLifecycle(logger, listeners...)
	s.refresh()
	return s
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// AddToCart adds quantity units of the menu item with the given id
func (s *Session) AddToCart(itemID string, quantity int) error {
	item, ok := s.catalog.ByID(itemID)
	if !ok {
		return fmt.Errorf("add %s: %w", itemID, ErrUnknownItem)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if err := s.cart.Add(item, quantity); err != nil {
		return err
	}
	s.refresh()
	return nil
}

// RemoveFromCart drops the line for itemID
func (s *Session) RemoveFromCart(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.cart.Remove(itemID)
	s.refresh()
}

// UpdateQuantity overwrites a line quantity; zero or less removes the line
func (s *Session) UpdateQuantity(itemID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.cart.UpdateQuantity(itemID, quantity)
	s.refresh()
}

// ClearCart empties the cart
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.cart.Clear()
	s.refresh()
}

// Cart returns a snapshot of the cart
func (s *Session) Cart() cart.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// UpdatePreferences replaces the preference set
func (s *Session) UpdatePreferences(tags []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.prefs = recommend.NewPreferences(tags...)
	s.refresh()
}

// Preferences returns the preference set, sorted
func (s *Session) Preferences() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.List()
}

// Recommendations returns the recommendations computed after the last mutation
func (s *Session) Recommendations() []models.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.recommendations)
}

// Checkout turns the cart into an order. An empty cart yields false and
// changes nothing. Observers run after the session lock is released.
func (s *Session) Checkout(d order.DeliveryDetails) (models.Order, bool) {
	s.mu.Lock()
	s.touch()
	o, ok := s.lifecycle.PlaceOrder(s.cart, d)
	if ok {
		s.refresh()
	}
	s.mu.Unlock()

	if !ok {
		return o, false
	}
	s.lifecycle.NotifyCreated(o)
	if s.autoProgress {
		s.lifecycle.Scheduler().Schedule(o.ID, s.steps)
	}
	return o, ok
}

// CurrentOrder returns the tracked order
func (s *Session) CurrentOrder() (models.Order, bool) {
	return s.lifecycle.Current()
}

// AdvanceOrder moves the tracked order forward to status
func (s *Session) AdvanceOrder(status models.OrderStatus) (models.Order, error) {
	s.mu.Lock()
	s.touch()
	s.mu.Unlock()
	return s.lifecycle.AdvanceStatus(status)
}

// SendChat forwards text to the assistant. The session lock is not held
// while waiting for the reply.
func (s *Session) SendChat(ctx context.Context, text string) models.ChatMessage {
	s.mu.Lock()
	s.touch()
	s.mu.Unlock()
	return s.assistant.Send(ctx, text)
}

// ChatMessages returns the transcript
func (s *Session) ChatMessages() []models.ChatMessage {
	return s.assistant.Messages()
}

// ClearChat resets the transcript to the greeting
func (s *Session) ClearChat() {
	s.assistant.Clear()
}

// LastActive returns the time of the last customer action
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Close stops pending scheduled advances
func (s *Session) Close() {
	s.lifecycle.Close()
}

// refresh must be called with s.mu held
func (s *Session) refresh() {
	s.recommendations = s.engine.Recommend(s.cart.Items(), s.prefs)
}

// touch must be called with s.mu held
func (s *Session) touch() {
	s.lastActive = time.Now()
}

type observerAdapter struct {
	sessionID string
	observer  OrderObserver
}

func (a observerAdapter) OrderCreated(o models.Order) {
	a.observer.OrderCreated(a.sessionID, o)
}

func (a observerAdapter) OrderStatusChanged(o models.Order, from models.OrderStatus) {
	a.observer.OrderStatusChanged(a.sessionID, o, from)
}

func cloneItems(items []models.MenuItem) []models.MenuItem {
	out := make([]models.MenuItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
