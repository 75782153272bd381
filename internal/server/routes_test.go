package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dishfeed/internal/auth"
	"dishfeed/internal/config"

	"github.com/gin-gonic/gin"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AppEnv:         "test",
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:19006"},
		SessionMaxAge:  time.Hour,
		SeedDemo:       true,
	}
	s := NewServer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(s.Close)
	return s.RegisterRoutes()
}

func do(h http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			return c
		}
	}
	return nil
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)

	w := do(h, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]any
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp["status"] != "up" {
		t.Errorf("Expected status up, got %v", resp)
	}
	if _, ok := resp["redis"]; ok {
		t.Error("Expected no redis section without redis")
	}
}

func TestSeededFeed(t *testing.T) {
	h := newTestServer(t)

	w := do(h, http.MethodGet, "/dishes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    []struct {
			ID       int64  `json:"id"`
			ImageURL string `json:"image_url"`
		} `json:"data"`
	}
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if !resp.Success || len(resp.Data) != 3 {
		t.Fatalf("Expected 3 seeded dishes, got %+v", resp)
	}
	if resp.Data[0].ImageURL != "asset:dish1.jpg" {
		t.Errorf("Expected asset refs to pass through, got %q", resp.Data[0].ImageURL)
	}
}

func TestLocationDrivesFeedDistance(t *testing.T) {
	h := newTestServer(t)

	do(h, http.MethodPost, "/dishes", map[string]any{
		"name":       "Kinilaw",
		"place_name": "Bay Grill",
		"location":   map[string]float64{"latitude": 8.4542, "longitude": 124.6319},
	})

	if w := do(h, http.MethodPut, "/location", map[string]float64{"latitude": 8.4542, "longitude": 124.6319}); w.Code != http.StatusOK {
		t.Fatalf("Expected location grant, got %d", w.Code)
	}

	var resp struct {
		Data []struct {
			Name         string `json:"name"`
			DistanceText string `json:"distance_text"`
		} `json:"data"`
	}
	_ = json.NewDecoder(do(h, http.MethodGet, "/dishes", nil).Body).Decode(&resp)
	if len(resp.Data) != 4 || resp.Data[0].Name != "Kinilaw" || resp.Data[0].DistanceText != "0 m" {
		t.Errorf("Expected located dish first at 0 m, got %+v", resp.Data)
	}
}

func TestAuthFlowOwnsPosts(t *testing.T) {
	h := newTestServer(t)

	if w := do(h, http.MethodPost, "/auth/register", map[string]string{"username": "ana", "password": "pw"}); w.Code != http.StatusCreated {
		t.Fatalf("Expected register 201, got %d", w.Code)
	}
	login := do(h, http.MethodPost, "/auth/login", map[string]string{"username": "ana", "password": "pw"})
	cookie := sessionCookie(login)
	if login.Code != http.StatusOK || cookie == nil {
		t.Fatalf("Expected login with cookie, got %d", login.Code)
	}

	w := do(h, http.MethodPost, "/dishes", map[string]string{"name": "Sisig", "place_name": "Aling Lucing"}, cookie)
	var created struct {
		Data struct {
			OwnerID string `json:"owner_id"`
		} `json:"data"`
	}
	_ = json.NewDecoder(w.Body).Decode(&created)
	if created.Data.OwnerID != "ana" {
		t.Errorf("Expected dish owned by ana, got %q", created.Data.OwnerID)
	}

	if w := do(h, http.MethodPatch, "/auth/profile", map[string]string{"display_name": "Chef Ana"}); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected guest profile update to be rejected, got %d", w.Code)
	}
	if w := do(h, http.MethodPatch, "/auth/profile", map[string]string{"display_name": "Chef Ana"}, cookie); w.Code != http.StatusOK {
		t.Errorf("Expected profile update, got %d", w.Code)
	}
}

func TestSettingsAndUploads(t *testing.T) {
	h := newTestServer(t)

	if w := do(h, http.MethodPost, "/settings/theme/toggle", nil); w.Code != http.StatusOK {
		t.Errorf("Expected theme toggle 200, got %d", w.Code)
	}
	if w := do(h, http.MethodPut, "/profile/avatar", map[string]string{"uri": "file:///me.jpg"}); w.Code != http.StatusOK {
		t.Errorf("Expected avatar save 200, got %d", w.Code)
	}

	// No object storage configured in tests.
	w := do(h, http.MethodPost, "/uploads/image-url", map[string]string{"filename": "a.jpg", "content_type": "image/jpeg"})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without storage, got %d", w.Code)
	}
}
