package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mkpass/mkpass-go/internal/crypto"
	"github.com/mkpass/mkpass-go/internal/middleware"
	"github.com/mkpass/mkpass-go/internal/model"
	"github.com/mkpass/mkpass-go/internal/repository"
	"github.com/mkpass/mkpass-go/internal/service"
)

const testSecret = "handler-test-secret"

type memUsers struct {
	mu    sync.Mutex
	users []model.User
}

func (s *memUsers) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = int64(len(s.users) + 1)
	s.users = append(s.users, *u)
	return nil
}

func (s *memUsers) find(match func(model.User) bool) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return s.find(func(u model.User) bool { return u.Email == email })
}

func (s *memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	return s.find(func(u model.User) bool { return u.ID == id })
}

type memProfiles struct {
	mu       sync.Mutex
	profiles map[profileKey]model.Profile
}

type profileKey struct {
	userID int64
	name   string
}

func (s *memProfiles) Upsert(_ context.Context, p *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profileKey{p.UserID, p.Name}] = *p
	return nil
}

func (s *memProfiles) Get(_ context.Context, userID int64, name string) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[profileKey{userID, name}]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return &p, nil
}

func (s *memProfiles) ListByUser(_ context.Context, userID int64) ([]model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Profile
	for _, p := range s.profiles {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memProfiles) Delete(_ context.Context, userID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := profileKey{userID, name}
	if _, ok := s.profiles[k]; !ok {
		return repository.ErrProfileNotFound
	}
	delete(s.profiles, k)
	return nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	gen := service.NewGeneratorServiceWithSource(crypto.DefaultRequirements(), func() crypto.Source {
		return crypto.NewSeededSource(1, 2)
	})
	genHandler := NewGeneratorHandler(gen)
	authHandler := NewAuthHandler(service.NewAuthService(&memUsers{}, testSecret, time.Hour))
	profileHandler := NewProfileHandler(service.NewProfileService(&memProfiles{profiles: map[profileKey]model.Profile{}}, gen))

	r := chi.NewRouter()
	r.Post("/api/v1/generate", genHandler.HandleGenerate)
	r.Post("/api/v1/validate", genHandler.HandleValidate)
	r.Get("/api/v1/samples", genHandler.HandleSamples)
	r.Get("/api/v1/samples/{kind}", genHandler.HandleSample)
	r.Post("/api/v1/auth/register", authHandler.HandleRegister)
	r.Post("/api/v1/auth/login", authHandler.HandleLogin)
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(testSecret))
		r.Get("/api/v1/auth/me", authHandler.HandleMe)
		r.Get("/api/v1/profiles", profileHandler.HandleList)
		r.Put("/api/v1/profiles/{name}", profileHandler.HandlePut)
		r.Delete("/api/v1/profiles/{name}", profileHandler.HandleDelete)
		r.Post("/api/v1/profiles/{name}/generate", profileHandler.HandleGenerate)
	})
	return r
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHandleGenerate(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCount  int
		wantLength int
	}{
		{name: "empty body uses defaults", body: "", wantStatus: http.StatusOK, wantCount: 1, wantLength: 16},
		{name: "empty object", body: `{}`, wantStatus: http.StatusOK, wantCount: 1, wantLength: 16},
		{name: "custom", body: `{"length":24,"numbers":3,"specials":2,"count":4}`, wantStatus: http.StatusOK, wantCount: 4, wantLength: 24},
		{name: "length below minimum", body: `{"length":4}`, wantStatus: http.StatusOK, wantCount: 1, wantLength: 10},
		{name: "invalid json", body: `{"length":`, wantStatus: http.StatusBadRequest},
		{name: "count too large", body: `{"count":51}`, wantStatus: http.StatusBadRequest},
		{name: "pool exhausted", body: `{"numbers":16,"specials":16}`, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/generate", tt.body, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			resp := decode[model.GenerateResponse](t, rec)
			if len(resp.Passwords) != tt.wantCount {
				t.Fatalf("expected %d passwords, got %d", tt.wantCount, len(resp.Passwords))
			}
			for _, p := range resp.Passwords {
				if len(p) != tt.wantLength {
					t.Errorf("expected length %d, got %d (%q)", tt.wantLength, len(p), p)
				}
			}
			if int(resp.Requirements.Length) != tt.wantLength {
				t.Errorf("expected requirements length %d, got %d", tt.wantLength, resp.Requirements.Length)
			}
		})
	}
}

func TestHandleValidate(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/validate", `{"length":16,"numbers":16,"specials":16}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decode[model.Requirements](t, rec)
	want := model.Requirements{Length: 16, Numbers: 13, Specials: 1, FirstIsLetter: true}
	if got != want {
		t.Errorf("validate = %+v, want %+v", got, want)
	}
}

func TestHandleSamples(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/samples", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if sets := decode[[]model.SampleSet](t, rec); len(sets) != 4 {
		t.Errorf("expected 4 sample sets, got %d", len(sets))
	}

	rec = do(t, h, http.MethodGet, "/api/v1/samples/specials", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	set := decode[model.SampleSet](t, rec)
	if strings.Join(set.Set, "") != crypto.SpecialCharacters {
		t.Errorf("specials set = %v", set.Set)
	}

	if rec := do(t, h, http.MethodGet, "/api/v1/samples/emoji", "", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown kind, got %d", rec.Code)
	}
}

func TestAuthFlow(t *testing.T) {
	h := newTestRouter(t)
	creds := `{"email":"Someone@Example.com","password":"correct horse battery"}`

	rec := do(t, h, http.MethodPost, "/api/v1/auth/register", creds, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if rec := do(t, h, http.MethodPost, "/api/v1/auth/register", creds, ""); rec.Code != http.StatusConflict {
		t.Errorf("duplicate register: expected 409, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/v1/auth/register", `{"email":"x@y.z","password":"short"}`, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("short password: expected 400, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/v1/auth/login", `{"email":"someone@example.com","password":"wrong password"}`, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login: expected 401, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/auth/login", creds, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}
	auth := decode[model.AuthResponse](t, rec)

	rec = do(t, h, http.MethodGet, "/api/v1/auth/me", "", auth.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", rec.Code)
	}
	if me := decode[model.UserResponse](t, rec); me.Email != "someone@example.com" {
		t.Errorf("me: unexpected email %q", me.Email)
	}
}

func TestProfileFlow(t *testing.T) {
	h := newTestRouter(t)

	token, err := crypto.GenerateToken(1, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec := do(t, h, http.MethodGet, "/api/v1/profiles", "", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	rec := do(t, h, http.MethodPut, "/api/v1/profiles/wifi", `{"length":20,"numbers":4,"specials":0}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	saved := decode[model.ProfileResponse](t, rec)
	if saved.Requirements.Length != 20 || saved.Requirements.Numbers != 4 {
		t.Errorf("unexpected saved requirements %+v", saved.Requirements)
	}

	if rec := do(t, h, http.MethodPut, "/api/v1/profiles/bad.name", `{}`, token); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid name: expected 400, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/profiles", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	if list := decode[[]model.ProfileResponse](t, rec); len(list) != 1 || list[0].Name != "wifi" {
		t.Errorf("unexpected profile list %+v", list)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/profiles/wifi/generate", `{"count":3}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[model.GenerateResponse](t, rec)
	if len(resp.Passwords) != 3 {
		t.Fatalf("expected 3 passwords, got %d", len(resp.Passwords))
	}
	for _, p := range resp.Passwords {
		counts := crypto.CountKinds(p)
		if len(p) != 20 || counts.Digits != 4 || counts.Specials != 0 {
			t.Errorf("password %q does not match the profile: %+v", p, counts)
		}
	}

	if rec := do(t, h, http.MethodPost, "/api/v1/profiles/missing/generate", "", token); rec.Code != http.StatusNotFound {
		t.Errorf("missing profile generate: expected 404, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/api/v1/profiles/wifi", "", token); rec.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/api/v1/profiles/wifi", "", token); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", rec.Code)
	}
}
