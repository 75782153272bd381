package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dishfeed/internal/session"

	"github.com/gin-gonic/gin"
)

func TestService_RegisterAndLogin(t *testing.T) {
	svc := NewService()

	user, err := svc.Register("  jane  ", "secret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Username != "jane" || user.DisplayName != "jane" || user.Bio != DefaultBio {
		t.Errorf("Unexpected registered user: %+v", user)
	}
	if _, ok := svc.Current(); ok {
		t.Error("Register must not sign the user in")
	}

	if _, err := svc.Login("jane", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(" jane ", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if cur, ok := svc.Current(); !ok || cur.Username != "jane" {
		t.Errorf("Expected jane to be signed in, got %+v", cur)
	}

	svc.Logout()
	if _, ok := svc.Current(); ok {
		t.Error("Expected no current user after logout")
	}
}

func TestService_RejectsBlankCredentials(t *testing.T) {
	svc := NewService()

	if _, err := svc.Register("   ", "secret"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for blank username, got %v", err)
	}
	if _, err := svc.Register("jane", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for blank password, got %v", err)
	}
	if _, err := svc.Login("jane", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials with nobody registered, got %v", err)
	}
}

func TestService_RejectsGuestUsername(t *testing.T) {
	svc := NewService()

	for _, name := range []string{GuestID, " Guest ", "GUEST"} {
		if _, err := svc.Register(name, "secret"); !errors.Is(err, ErrReservedUsername) {
			t.Errorf("Expected ErrReservedUsername for %q, got %v", name, err)
		}
	}
	if _, err := svc.Login(GuestID, "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected guest login to fail, got %v", err)
	}
}

func TestService_UpdateProfileKeepsBothCopies(t *testing.T) {
	svc := NewService()
	_, _ = svc.Register("jane", "secret")
	_, _ = svc.Login("jane", "secret")

	name := "Jane D."
	user, err := svc.UpdateProfile(ProfilePatch{DisplayName: &name})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.DisplayName != name {
		t.Errorf("Expected display name %q, got %q", name, user.DisplayName)
	}

	// Logging in again must pick up the change from the registered copy
	svc.Logout()
	relogged, _ := svc.Login("jane", "secret")
	if relogged.DisplayName != name {
		t.Errorf("Expected registered copy to be updated, got %q", relogged.DisplayName)
	}
}

func TestService_UpdateProfileWithoutUser(t *testing.T) {
	bio := "hi"
	if _, err := NewService().UpdateProfile(ProfilePatch{Bio: &bio}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func setupRouter(svc Service, mgr session.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, mgr, time.Hour, false)

	r := gin.New()
	r.Use(ActorMiddleware(svc, mgr))
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", h.Me)
	r.PATCH("/auth/profile", RequireUser(), h.UpdateProfile)
	return r
}

func doJSON(r http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_LoginFlow(t *testing.T) {
	svc := NewService()
	r := setupRouter(svc, session.NewManager(session.NewMemoryStore()))

	w := doJSON(r, http.MethodPost, "/auth/register", CredentialsRequest{Username: "jane", Password: "secret"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/auth/login", CredentialsRequest{Username: "jane", Password: "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for bad password, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/auth/login", CredentialsRequest{Username: "jane", Password: "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var cookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == SessionCookie {
			cookie = ck
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("Expected session cookie to be set")
	}

	w = doJSON(r, http.MethodGet, "/auth/me", nil, cookie)
	var me struct {
		Actor Actor `json:"actor"`
	}
	if err := json.NewDecoder(w.Body).Decode(&me); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if me.Actor.ID != "jane" {
		t.Errorf("Expected actor jane, got %+v", me.Actor)
	}

	w = doJSON(r, http.MethodPost, "/auth/logout", nil, cookie)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 on logout, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/auth/me", nil, cookie)
	_ = json.NewDecoder(w.Body).Decode(&me)
	if !me.Actor.IsGuest() {
		t.Errorf("Expected guest after logout, got %+v", me.Actor)
	}
}

func TestRequireUser_RejectsGuest(t *testing.T) {
	r := setupRouter(NewService(), session.NewManager(session.NewMemoryStore()))

	w := doJSON(r, http.MethodPatch, "/auth/profile", map[string]string{"bio": "x"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestActorMiddleware_InvalidSessionIsGuest(t *testing.T) {
	r := setupRouter(NewService(), session.NewManager(session.NewMemoryStore()))

	w := doJSON(r, http.MethodGet, "/auth/me", nil, &http.Cookie{Name: SessionCookie, Value: "bogus"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var me struct {
		Actor Actor `json:"actor"`
	}
	_ = json.NewDecoder(w.Body).Decode(&me)
	if me.Actor.ID != GuestID {
		t.Errorf("Expected guest actor, got %+v", me.Actor)
	}
}
