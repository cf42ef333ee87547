package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/api/")
}

func TestLoginStoresToken(t *testing.T) {
	var gotAuth string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login.php":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["username"] != "alice" || body["password"] != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"code":40100,"message":"Invalid username or password"}`))
				return
			}
			w.Write([]byte(`{"success":true,"token":"tok-1","user":{"username":"alice","role":"manager","full_name":"Alice A"}}`))
		case "/api/categories.php":
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`[{"id":"c1","name":"Steel"}]`))
		}
	})

	if _, err := c.Login(context.Background(), "alice", "wrong"); err == nil {
		t.Fatal("expected login failure")
	} else {
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Invalid username or password" {
			t.Fatalf("unexpected error %#v", err)
		}
	}
	if c.Token() != "" {
		t.Error("failed login must not set a token")
	}

	resp, err := c.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User.FullName != "Alice A" || c.Token() != "tok-1" {
		t.Fatalf("unexpected login result %+v", resp)
	}

	cats, err := c.Categories().List(context.Background(), nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 1 || cats[0].Name != "Steel" {
		t.Errorf("unexpected categories %+v", cats)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("expected bearer token, got %q", gotAuth)
	}

	c.Logout()
	if c.Token() != "" {
		t.Error("logout should clear the token")
	}
}

func TestRecordTransactionSendsIdempotencyKey(t *testing.T) {
	var header string
	var body TransactionInput
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Idempotency-Key")
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"t1","newStock":7,"status":"in-stock"}`))
	})

	result, err := c.RecordTransaction(context.Background(), TransactionInput{
		MaterialID:     "m1",
		Type:           "check-in",
		Quantity:       2,
		Reason:         "Delivery",
		IdempotencyKey: "key-1",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if result.NewStock != 7 || result.ID != "t1" {
		t.Errorf("unexpected result %+v", result)
	}
	if header != "key-1" || body.IdempotencyKey != "key-1" {
		t.Errorf("key not sent: header=%q body=%q", header, body.IdempotencyKey)
	}
}

func TestErrorsAndInvalidJSON(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/get_material_by_qr.php":
			if r.URL.Query().Get("qrCode") != "QR-X-001" {
				t.Errorf("unexpected qr query %q", r.URL.RawQuery)
			}
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"code":40400,"message":"Material not found"}`))
		case "/api/materials.php":
			w.Write([]byte(`<html>oops</html>`))
		case "/api/categories.php":
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`bad gateway`))
		}
	})
	ctx := context.Background()

	_, err := c.MaterialByQR(ctx, "QR-X-001")
	if !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	_, err = c.Materials().List(ctx, nil)
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("expected invalid response, got %v", err)
	}

	_, err = c.Categories().List(ctx, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway {
		t.Errorf("expected 502 api error, got %v", err)
	}
	if apiErr != nil && apiErr.Error() != "request failed with status 502" {
		t.Errorf("unexpected message %q", apiErr.Error())
	}
}

func TestResourceCreateAndDelete(t *testing.T) {
	var deletedID string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"s1","name":"North Tower","isActive":true}`))
		case http.MethodDelete:
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			deletedID = body["id"]
			w.Write([]byte(`{"success":true}`))
		}
	})
	ctx := context.Background()

	site, err := c.Sites().Create(ctx, map[string]string{"name": "North Tower"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if site.ID != "s1" || !site.IsActive {
		t.Errorf("unexpected site %+v", site)
	}

	if err := c.Sites().Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deletedID != "s1" {
		t.Errorf("expected id in body, got %q", deletedID)
	}
}

func TestTransportError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1/api")
	if _, err := c.ZeroStockMaterials(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestLoginRejectsUnsuccessfulBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"Account disabled"}`))
	})

	resp, err := c.Login(context.Background(), "bob", "secret")
	if resp != nil {
		t.Fatalf("expected no session, got %+v", resp)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Account disabled" {
		t.Fatalf("unexpected error %#v", err)
	}
	if c.Token() != "" {
		t.Errorf("rejected login must not set a token, got %q", c.Token())
	}
}
