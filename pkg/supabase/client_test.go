package supabase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_QuerySendsFiltersAndServiceKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/rest/v1/mood_entries" {
			t.Errorf("path = %s, want /rest/v1/mood_entries", r.URL.Path)
		}
		if got := r.URL.Query().Get("user_id"); got != "eq.user-1" {
			t.Errorf("user_id filter = %q, want eq.user-1", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer service-key" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("apikey"); got != "service-key" {
			t.Errorf("apikey = %q", got)
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "service-key")
	body, err := c.Query(context.Background(), "mood_entries", map[string]interface{}{"user_id": "eq.user-1"})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if string(body) != "[]" {
		t.Errorf("body = %s, want []", body)
	}
}

func TestClient_InsertEncodesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Prefer") != "return=representation" {
			t.Errorf("Prefer = %q", r.Header.Get("Prefer"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"mood":"Happy"`) {
			t.Errorf("body = %s, want mood field", body)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write(body)
	}))
	defer server.Close()

	c := NewClient(server.URL, "key")
	if _, err := c.Insert(context.Background(), "mood_entries", map[string]interface{}{"mood": "Happy"}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"duplicate key"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "key")
	_, err := c.Insert(context.Background(), "goals", map[string]interface{}{})

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Errorf("StatusCode = %d, want 409", apiErr.StatusCode)
	}
}

func TestClient_VerifyTokenUsesUserToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer user-jwt" {
			t.Errorf("Authorization = %q, want user token", got)
		}
		w.Write([]byte(`{"id":"user-1","email":"a@example.com"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "key")
	user, err := c.VerifyToken(context.Background(), "user-jwt")
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if user.ID != "user-1" || user.Email != "a@example.com" {
		t.Errorf("user = %+v", user)
	}
}

func TestClient_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(server.URL, "key")
	if _, err := c.Query(ctx, "goals", nil); err == nil {
		t.Error("Query() with canceled context = nil error, want error")
	}
}
