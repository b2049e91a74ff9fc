package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gdg-garage/event-signup-bot/internal/auth"
	"github.com/go-chi/chi/v5"
)

type staticAdmin struct{}

func (staticAdmin) Verify(login, password string) bool {
	return login == "admin" && password == "secret"
}

func newRouter(t *testing.T, f *fixture) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, Handlers{
		Auth:          auth.NewAuthHandler("test-secret", staticAdmin{}),
		Events:        NewEventHandler(f.events, f.logger),
		Registrations: NewRegistrationHandler(f.registrations, f.users, f.logger),
		Stats:         NewStatsHandler(f.events, f.registrations, f.users, f.logger),
		QRCode:        NewQRCodeHandler(f.events, "signup_bot", f.logger),
	})
	return r
}

func do(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func login(t *testing.T, router http.Handler) string {
	t.Helper()
	rr := do(router, http.MethodPost, "/login", "", `{"login":"admin","password":"secret"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("login failed with %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

func TestRoutes(t *testing.T) {
	f := setup(t)
	router := newRouter(t, f)
	token := login(t, router)

	t.Run("Health", func(t *testing.T) {
		rr := do(router, http.MethodGet, "/health", "", "")
		if rr.Code != http.StatusOK || rr.Body.String() != "OK" {
			t.Errorf("unexpected health response %d %q", rr.Code, rr.Body.String())
		}
	})

	t.Run("LoginWrongPassword", func(t *testing.T) {
		for _, body := range []string{
			`{"login":"admin","password":"nope"}`,
			`{"login":"admin","password":""}`,
			`{"login":"","password":"secret"}`,
		} {
			rr := do(router, http.MethodPost, "/login", "", body)
			if rr.Code != http.StatusUnauthorized {
				t.Errorf("%s: expected 401, got %d", body, rr.Code)
			}
		}
	})

	for _, path := range []string{"/events", "/registrations", "/users", "/stats"} {
		t.Run("Unauthorized"+path, func(t *testing.T) {
			rr := do(router, http.MethodGet, path, "", "")
			if rr.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rr.Code)
			}
			rr = do(router, http.MethodGet, path, "not-a-token", "")
			if rr.Code != http.StatusUnauthorized {
				t.Errorf("expected 401 for a bad token, got %d", rr.Code)
			}
		})
	}

	var eventID string
	t.Run("CreateAndList", func(t *testing.T) {
		body := `{"title":"Go Meetup","description":"Talks","date":"2026-11-20T00:00:00Z","time":"18:30","location":"IT Park","price":15000}`
		rr := do(router, http.MethodPost, "/events", token, body)
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
		}
		var created struct {
			ID       string `json:"id"`
			IsActive bool   `json:"is_active"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if created.ID == "" || !created.IsActive {
			t.Errorf("unexpected created event %+v", created)
		}
		eventID = created.ID

		rr = do(router, http.MethodGet, "/events", token, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `"title":"Go Meetup"`) {
			t.Errorf("expected event in list, got %s", rr.Body.String())
		}
	})

	t.Run("CreateMissingField", func(t *testing.T) {
		rr := do(router, http.MethodPost, "/events", token, `{"title":"No date"}`)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d", rr.Code)
		}
	})

	t.Run("QRCode", func(t *testing.T) {
		rr := do(router, http.MethodGet, "/events/"+eventID+"/qrcode", token, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("expected image/png, got %q", ct)
		}
		if !bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG")) {
			t.Error("expected a PNG body")
		}

		rr = do(router, http.MethodGet, "/events/"+eventID+"/qrcode", "", "")
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 without a token, got %d", rr.Code)
		}
		rr = do(router, http.MethodGet, "/events/missing/qrcode", token, "")
		if rr.Code != http.StatusNotFound {
			t.Errorf("expected 404 for an unknown event, got %d", rr.Code)
		}
	})

	t.Run("DeleteUnknown", func(t *testing.T) {
		rr := do(router, http.MethodDelete, "/events/missing", token, "")
		if rr.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rr.Code)
		}
	})
}

func TestDeepLink(t *testing.T) {
	if got := DeepLink("signup_bot", "abc"); got != "https://t.me/signup_bot?start=event_abc" {
		t.Errorf("unexpected deep link %q", got)
	}
}
