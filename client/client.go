package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const authKey = "auth"

// User is the client's view of an account.
type User struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Role    int    `json:"role"`
}

// Session is the persisted auth state: the signed-in user and their token.
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Category mirrors the server's category document.
type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Product is the catalog snapshot the client works with; the cart holds
// these, not live references.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    Category  `json:"category"`
	Quantity    int       `json:"quantity"`
	Shipping    bool      `json:"shipping"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Buyer is the populated buyer reference on an order.
type Buyer struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Order is the client's view of an order.
type Order struct {
	ID        string    `json:"_id"`
	Products  []Product `json:"products"`
	Buyer     Buyer     `json:"buyer"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// APIError is a server answer that signalled failure, either by HTTP status
// or by success:false in the envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Client talks to the storefront API. Credentials are injected per request
// from the session store; nothing mutates shared defaults.
type Client struct {
	base  string
	http  *http.Client
	store Store
}

// New builds a client for a base URL. The store holds the session, so two
// clients sharing a store share a sign-in.
func New(base string, store Store) *Client {
	return &Client{
		base:  strings.TrimRight(base, "/"),
		http:  &http.Client{Timeout: 10 * time.Second},
		store: store,
	}
}

// Session returns the persisted session, if any.
func (c *Client) Session() (Session, bool) {
	var s Session
	ok, err := c.store.Load(authKey, &s)
	if err != nil || !ok {
		return Session{}, false
	}
	return s, s.Token != ""
}

// do issues a request, attaching the current session token, and decodes the
// response into out. Envelope failures become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// The API expects the raw token, no "Bearer " prefix.
	if s, ok := c.Session(); ok {
		req.Header.Set("Authorization", s.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	// Probe the envelope; array bodies simply won't decode into it.
	var envelope struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	json.Unmarshal(data, &envelope)

	if resp.StatusCode >= 400 || (envelope.Success != nil && !*envelope.Success) {
		return &APIError{Status: resp.StatusCode, Message: envelope.Message}
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Answer   string `json:"answer"`
}

func (c *Client) Register(ctx context.Context, in RegisterInput) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/register", in, nil)
}

// Login signs in and persists the session on success.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var resp struct {
		User  *User  `json:"user"`
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &resp); err != nil {
		return Session{}, err
	}
	session := Session{User: resp.User, Token: resp.Token}
	if err := c.store.Save(authKey, session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Logout drops the persisted session.
func (c *Client) Logout() error {
	return c.store.Clear(authKey)
}

func (c *Client) ForgotPassword(ctx context.Context, email, answer, newPassword string) error {
	body := map[string]string{"email": email, "answer": answer, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/api/v1/auth/forgot-password", body, nil)
}

// Categories fetches the category list. Callers rendering auxiliary UI may
// treat the error as non-fatal; it is returned rather than swallowed so
// they can decide.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var resp struct {
		Category []Category `json:"category"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/category/get-category", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Category, nil
}

func (c *Client) CreateCategory(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/category/create-category", map[string]string{"name": name}, nil)
}

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var resp struct {
		Products []Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/product/get-product", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (c *Client) ProductBySlug(ctx context.Context, slug string) (Product, error) {
	var resp struct {
		Product Product `json:"product"`
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/product/get-product/"+slug, nil, &resp)
	return resp.Product, err
}

func (c *Client) SearchProducts(ctx context.Context, keyword string) ([]Product, error) {
	var results []Product
	if err := c.do(ctx, http.MethodGet, "/api/v1/product/search/"+keyword, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) ProductCount(ctx context.Context) (int64, error) {
	var resp struct {
		Total int64 `json:"total"`
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/product/product-count", nil, &resp)
	return resp.Total, err
}

// MyOrders returns the signed-in user's orders.
func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AllOrders returns every order, newest first. Admin only.
func (c *Client) AllOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/all-orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to a new status. Admin only.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	body := map[string]string{"status": status}
	return c.do(ctx, http.MethodPut, "/api/v1/auth/order-status/"+orderID, body, nil)
}

// PaymentToken fetches a gateway client token for payment tokenization.
func (c *Client) PaymentToken(ctx context.Context) (string, error) {
	var resp struct {
		ClientToken string `json:"clientToken"`
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/product/braintree/token", nil, &resp)
	return resp.ClientToken, err
}

// Checkout submits the cart with a payment nonce and clears the cart on
// success.
func (c *Client) Checkout(ctx context.Context, nonce string, cart *Cart) error {
	body := map[string]interface{}{
		"nonce": nonce,
		"cart":  cart.Items(),
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/product/braintree/payment", body, nil); err != nil {
		return err
	}
	return cart.Reset()
}
