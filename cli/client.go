package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// ApiClient handles requests to the GourmetAI API on behalf of one session
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
	token      string
	sessionID  string
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("GOURMET_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 30,
		},
		BaseURL: baseURL,
	}
}

// MenuItem is a dish on the menu
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Tags        []string        `json:"tags"`
	Popular     bool            `json:"popular"`
}

// CartLine is one item and its quantity in the cart
type CartLine struct {
	Item      MenuItem        `json:"item"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Cart is the cart contents and total
type Cart struct {
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// OrderItem is one line of a placed order
type OrderItem struct {
	MenuItemID          string `json:"menuItemId"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

// Order is a placed order with its tracking fields
type Order struct {
	ID              string          `json:"id"`
	Items           []OrderItem     `json:"items"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	DeliveryAddress string          `json:"deliveryAddress,omitempty"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	Progress        int             `json:"progress"`
	Label           string          `json:"label"`
}

// SessionView is the full state of the session
type SessionView struct {
	Cart            Cart       `json:"cart"`
	Recommendations []MenuItem `json:"recommendations"`
	Preferences     []string   `json:"preferences"`
	Order           *Order     `json:"order,omitempty"`
}

// ChatMessage is one transcript entry
type ChatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// DeliveryDetails are sent with a checkout
type DeliveryDetails struct {
	Address       string `json:"deliveryAddress,omitempty"`
	Time          string `json:"deliveryTime,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

// apiError is the error body every failing route answers with
type apiError struct {
	Error string `json:"error"`
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() error {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}
	return nil
}

// StartSession creates a session and keeps its token for later requests
func (c *ApiClient) StartSession() error {
	var resp struct {
		SessionID string `json:"session_id"`
		Token     string `json:"token"`
	}
	if err := c.do(http.MethodPost, "/api/v1/sessions", nil, &resp); err != nil {
		return err
	}
	c.sessionID = resp.SessionID
	c.token = resp.Token
	return nil
}

// GetMenu retrieves the menu, optionally filtered by category
func (c *ApiClient) GetMenu(category string) ([]MenuItem, error) {
	path := "/api/v1/menu"
	if category != "" {
		path += "?category=" + category
	}
	var resp struct {
		Items []MenuItem `json:"items"`
	}
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// GetSession retrieves the session view
func (c *ApiClient) GetSession() (*SessionView, error) {
	var view SessionView
	if err := c.do(http.MethodGet, "/api/v1/session", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// AddToCart adds quantity units of an item
func (c *ApiClient) AddToCart(itemID string, quantity int) (*SessionView, error) {
	body := map[string]any{"menu_item_id": itemID, "quantity": quantity}
	var view SessionView
	if err := c.do(http.MethodPost, "/api/v1/cart/items", body, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// RemoveFromCart drops an item from the cart
func (c *ApiClient) RemoveFromCart(itemID string) (*SessionView, error) {
	var view SessionView
	if err := c.do(http.MethodDelete, "/api/v1/cart/items/"+itemID, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ClearCart empties the cart
func (c *ApiClient) ClearCart() (*SessionView, error) {
	var view SessionView
	if err := c.do(http.MethodDelete, "/api/v1/cart", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Checkout places an order from the cart
func (c *ApiClient) Checkout(details DeliveryDetails) (*Order, error) {
	var order Order
	if err := c.do(http.MethodPost, "/api/v1/orders", details, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetCurrentOrder retrieves the tracked order
func (c *ApiClient) GetCurrentOrder() (*Order, error) {
	var order Order
	if err := c.do(http.MethodGet, "/api/v1/orders/current", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// SendChat posts a message to the assistant and returns the transcript
func (c *ApiClient) SendChat(message string) ([]ChatMessage, error) {
	var reply ChatMessage
	if err := c.do(http.MethodPost, "/api/v1/chat", map[string]string{"message": message}, &reply); err != nil {
		return nil, err
	}
	return c.GetChat()
}

// GetChat retrieves the transcript
func (c *ApiClient) GetChat() ([]ChatMessage, error) {
	var resp struct {
		Messages []ChatMessage `json:"messages"`
	}
	if err := c.do(http.MethodGet, "/api/v1/chat", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (c *ApiClient) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
