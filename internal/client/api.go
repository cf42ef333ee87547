package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
)

// Resource is one CRUD endpoint: list, create and delete by id.
type Resource[T any] struct {
	c    *Client
	path string
}

func (r Resource[T]) Path() string {
	return r.path
}

// List fetches the collection; query carries parent filters.
func (r Resource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	var items []T
	if err := r.c.doRequest(ctx, http.MethodGet, r.path, query, nil, &items, nil); err != nil {
		return nil, err
	}
	return items, nil
}

// Create posts input and returns the stored entity with its server id.
func (r Resource[T]) Create(ctx context.Context, input interface{}) (*T, error) {
	var created T
	if err := r.c.doRequest(ctx, http.MethodPost, r.path, nil, input, &created, nil); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, r.path, id)
}

func (c *Client) Categories() Resource[entity.Category] {
	return Resource[entity.Category]{c: c, path: "/categories.php"}
}

func (c *Client) Subcategories() Resource[entity.Subcategory] {
	return Resource[entity.Subcategory]{c: c, path: "/subcategories.php"}
}

func (c *Client) Materials() Resource[entity.Material] {
	return Resource[entity.Material]{c: c, path: "/materials.php"}
}

func (c *Client) Sites() Resource[entity.ConstructionSite] {
	return Resource[entity.ConstructionSite]{c: c, path: "/construction_sites.php"}
}

func (c *Client) Users() Resource[entity.User] {
	return Resource[entity.User]{c: c, path: "/users.php"}
}

func (c *Client) Tools() Resource[entity.Tool] {
	return Resource[entity.Tool]{c: c, path: "/tools.php"}
}

func (c *Client) Notes() Resource[entity.Note] {
	return Resource[entity.Note]{c: c, path: "/notes.php"}
}

// Transactions lists movements. Use RecordTransaction to create one; there is no delete.
func (c *Client) Transactions() Resource[entity.Transaction] {
	return Resource[entity.Transaction]{c: c, path: "/transactions.php"}
}

// LoginResponse login.php body
type LoginResponse struct {
	Success   bool               `json:"success"`
	User      entity.SessionUser `json:"user"`
	Token     string             `json:"token"`
	ExpiresIn int64              `json:"expiresIn"`
	Message   string             `json:"message"`
}

// Login authenticates and keeps the issued token for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.doRequest(ctx, http.MethodPost, "/login.php", nil, body, &resp, nil); err != nil {
		return nil, err
	}
	// a 200 with success:false is still a rejected login
	if !resp.Success || resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "Invalid username or password"
		}
		return nil, &APIError{Status: http.StatusUnauthorized, Code: 40100, Message: msg}
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// Logout forgets the token. The server keeps no session.
func (c *Client) Logout() {
	c.SetToken("")
}

// MaterialByQR looks up a material by its exact QR string.
func (c *Client) MaterialByQR(ctx context.Context, code string) (*entity.Material, error) {
	var m entity.Material
	query := url.Values{"qrCode": {code}}
	if err := c.doRequest(ctx, http.MethodGet, "/get_material_by_qr.php", query, nil, &m, nil); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) ZeroStockMaterials(ctx context.Context) ([]entity.Material, error) {
	var items []entity.Material
	if err := c.doRequest(ctx, http.MethodGet, "/zero_stock_materials.php", nil, nil, &items, nil); err != nil {
		return nil, err
	}
	return items, nil
}

// TransactionInput transactions.php POST body
type TransactionInput struct {
	MaterialID       string `json:"materialId"`
	Type             string `json:"type"`
	Quantity         int    `json:"quantity"`
	Reason           string `json:"reason"`
	ConstructionSite string `json:"constructionSite,omitempty"`
	IdempotencyKey   string `json:"idempotencyKey,omitempty"`
}

// TransactionResult is the same for a first submission and a replay.
type TransactionResult struct {
	ID       string `json:"id"`
	NewStock int    `json:"newStock"`
	Status   string `json:"status"`
	Replayed bool   `json:"replayed,omitempty"`
}

func (c *Client) ListTransactions(ctx context.Context, materialID string) ([]entity.Transaction, error) {
	var query url.Values
	if materialID != "" {
		query = url.Values{"materialId": {materialID}}
	}
	var items []entity.Transaction
	if err := c.doRequest(ctx, http.MethodGet, "/transactions.php", query, nil, &items, nil); err != nil {
		return nil, err
	}
	return items, nil
}

// RecordTransaction posts one movement. The idempotency key is sent in the body and
// the Idempotency-Key header.
func (c *Client) RecordTransaction(ctx context.Context, in TransactionInput) (*TransactionResult, error) {
	var headers map[string]string
	if in.IdempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": in.IdempotencyKey}
	}
	var result TransactionResult
	if err := c.doRequest(ctx, http.MethodPost, "/transactions.php", nil, in, &result, headers); err != nil {
		return nil, err
	}
	return &result, nil
}
