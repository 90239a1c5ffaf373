package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMountCustomerRoutes_NestedMountsDoNotCollide(t *testing.T) {
	root := chi.NewRouter()

	tagged := func(name string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Handler", name)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(chi.URLParam(r, "id")))
		})
	}

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				t.Fatalf("registering customer routes panicked: %v", rec)
			}
		}()
		mountCustomerRoutes(root, tagged("customers"), tagged("points"), tagged("messages"), tagged("schulungen"))
	}()

	t.Run("customer list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		rr := httptest.NewRecorder()
		root.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		if got := rr.Header().Get("X-Handler"); got != "customers" {
			t.Fatalf("expected customers handler, got %q", got)
		}
	})

	t.Run("customer detail falls through the nested param mounts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/customers/a1b2c3", nil)
		rr := httptest.NewRecorder()
		root.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		if got := rr.Header().Get("X-Handler"); got != "customers" {
			t.Fatalf("expected customers handler, got %q", got)
		}
	})

	t.Run("points mount receives the id param", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/customers/a1b2c3/points", nil)
		rr := httptest.NewRecorder()
		root.ServeHTTP(rr, req)
		if got := rr.Header().Get("X-Handler"); got != "points" {
			t.Fatalf("expected points handler, got %q", got)
		}
		if rr.Body.String() != "a1b2c3" {
			t.Fatalf("expected id param a1b2c3, got %q", rr.Body.String())
		}
	})

	t.Run("messages mount handles nested paths", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/customers/a1b2c3/messages/unread-count", nil)
		rr := httptest.NewRecorder()
		root.ServeHTTP(rr, req)
		if got := rr.Header().Get("X-Handler"); got != "messages" {
			t.Fatalf("expected messages handler, got %q", got)
		}
		if rr.Body.String() != "a1b2c3" {
			t.Fatalf("expected id param a1b2c3, got %q", rr.Body.String())
		}
	})

	t.Run("assignments mount receives the id param", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/customers/a1b2c3/schulungen", nil)
		rr := httptest.NewRecorder()
		root.ServeHTTP(rr, req)
		if got := rr.Header().Get("X-Handler"); got != "schulungen" {
			t.Fatalf("expected schulungen handler, got %q", got)
		}
		if rr.Body.String() != "a1b2c3" {
			t.Fatalf("expected id param a1b2c3, got %q", rr.Body.String())
		}
	})
}
