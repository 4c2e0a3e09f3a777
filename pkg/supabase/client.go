package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

// DefaultTimeout bounds every request made with a client created by NewClient
const DefaultTimeout = 15 * time.Second

// Client represents a Supabase client
type Client struct {
	URL        string
	ServiceKey string
	HTTPClient *http.Client
}

// NewClient creates a new Supabase client
func NewClient(url, serviceKey string) *Client {
	return &Client{
		URL:        url,
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Error is returned for any response with a 4xx or 5xx status
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("supabase error (status %d): %s", e.StatusCode, e.Body)
}

// request describes a single PostgREST call
type request struct {
	method string
	path   string
	query  map[string]interface{}
	body   interface{}
	prefer string
	token  string
}

func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	var reader io.Reader
	if r.body != nil {
		jsonData, err := sonic.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.URL+r.path, reader)
	if err != nil {
		return nil, err
	}

	if len(r.query) > 0 {
		q := req.URL.Query()
		for key, value := range r.query {
			q.Add(key, fmt.Sprintf("%v", value))
		}
		req.URL.RawQuery = q.Encode()
	}

	req.Header.Set("apikey", c.ServiceKey)

	// Use user token if provided, otherwise use service key
	token := r.token
	if token == "" {
		token = c.ServiceKey
	}
	req.Header.Set("Authorization", "Bearer "+token)

	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.prefer != "" {
		req.Header.Set("Prefer", r.prefer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

func tablePath(table string) string {
	return "/rest/v1/" + table
}

// Query executes a query on a Supabase table
func (c *Client) Query(ctx context.Context, table string, query map[string]interface{}) ([]byte, error) {
	return c.do(ctx, request{method: http.MethodGet, path: tablePath(table), query: query})
}

// Insert inserts one record, or a slice of records, into a Supabase table
func (c *Client) Insert(ctx context.Context, table string, data interface{}) ([]byte, error) {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   tablePath(table),
		body:   data,
		prefer: "return=representation",
	})
}

// Update updates a record in a Supabase table
func (c *Client) Update(ctx context.Context, table string, id string, data interface{}) ([]byte, error) {
	return c.UpdateWhere(ctx, table, map[string]interface{}{"id": "eq." + id}, data)
}

// UpdateWhere updates records matching a query
func (c *Client) UpdateWhere(ctx context.Context, table string, query map[string]interface{}, data interface{}) ([]byte, error) {
	return c.do(ctx, request{
		method: http.MethodPatch,
		path:   tablePath(table),
		query:  query,
		body:   data,
		prefer: "return=representation",
	})
}

// Upsert inserts or updates a record in a Supabase table
// onConflict specifies the columns to detect conflicts (e.g., "user_id,key,route")
func (c *Client) Upsert(ctx context.Context, table string, data interface{}, onConflict string) ([]byte, error) {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   tablePath(table),
		query:  map[string]interface{}{"on_conflict": onConflict},
		body:   data,
		// resolution=merge-duplicates will update existing rows
		prefer: "return=representation,resolution=merge-duplicates",
	})
}

// Delete deletes a record from a Supabase table
func (c *Client) Delete(ctx context.Context, table string, id string) error {
	return c.DeleteWhere(ctx, table, map[string]interface{}{"id": "eq." + id})
}

// DeleteWhere deletes records matching a query
func (c *Client) DeleteWhere(ctx context.Context, table string, query map[string]interface{}) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: tablePath(table), query: query})
	return err
}

// VerifyToken verifies a JWT token with Supabase
func (c *Client) VerifyToken(ctx context.Context, token string) (*User, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/user", token: token})
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	var user User
	if err := sonic.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	return &user, nil
}

// User represents a Supabase user
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
