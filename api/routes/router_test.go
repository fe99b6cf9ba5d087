package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/angelmondragon/crewstock-backend/internal/crew"
	"github.com/angelmondragon/crewstock-backend/internal/identity"
	"github.com/angelmondragon/crewstock-backend/internal/inventory"
	"github.com/angelmondragon/crewstock-backend/internal/locationorders"
	"github.com/angelmondragon/crewstock-backend/internal/locations"
	"github.com/angelmondragon/crewstock-backend/internal/notices"
	"github.com/angelmondragon/crewstock-backend/internal/users"
	"github.com/angelmondragon/crewstock-backend/pkg/auth"
	"github.com/angelmondragon/crewstock-backend/pkg/config"
	"github.com/angelmondragon/crewstock-backend/pkg/db/dbtest"
	"github.com/angelmondragon/crewstock-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/crewstock-backend/pkg/redis"
)

const crewEmail = "grip@crew.test"

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", AllowedOrigins: []string{"http://localhost:3000"}},
		Identity: config.IdentityConfig{
			Secret: "secret",
			Issuer: "crew-idp",
			Leeway: time.Second,
		},
		RateLimit: config.RateLimitConfig{Limit: 1000, Window: time.Minute},
	}
}

type testServer struct {
	handler  http.Handler
	cfg      *config.Config
	registry *prometheus.Registry
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	ctx := context.Background()
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})

	client := dbtest.Open(t)
	conn := client.DB()

	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	cache := pkgredis.Wrap(raw)

	crewSvc, err := crew.NewService(crew.NewRepository(conn))
	if err != nil {
		t.Fatalf("crew service: %v", err)
	}
	if _, _, err := crewSvc.Add(ctx, crewEmail); err != nil {
		t.Fatalf("allowlist: %v", err)
	}

	usersRepo := users.NewRepository(conn)
	usersSvc, err := users.NewService(usersRepo)
	if err != nil {
		t.Fatalf("users service: %v", err)
	}
	names, err := users.NewNameResolver(usersRepo)
	if err != nil {
		t.Fatalf("name resolver: %v", err)
	}

	gate, err := identity.NewGate(identity.GateParams{
		Config:    cfg.Identity,
		Allowlist: crew.NewCachedChecker(crewSvc, cache, time.Minute, logg),
		Users:     usersSvc,
		Logger:    logg,
	})
	if err != nil {
		t.Fatalf("gate: %v", err)
	}

	locationsRepo := locations.NewRepository(conn)
	locationsSvc, err := locations.NewService(locationsRepo)
	if err != nil {
		t.Fatalf("locations service: %v", err)
	}
	ordersSvc, err := locationorders.NewService(locationorders.ServiceParams{
		Orders:    locationorders.NewRepository(conn),
		Locations: locationsRepo,
		Tx:        client,
	})
	if err != nil {
		t.Fatalf("orders service: %v", err)
	}
	inventorySvc, err := inventory.NewService(inventory.ServiceParams{
		Items:     inventory.NewRepository(conn),
		Locations: locationsRepo,
		Orders:    ordersSvc,
		Names:     names,
	})
	if err != nil {
		t.Fatalf("inventory service: %v", err)
	}
	noticesSvc, err := notices.NewService(notices.NewRepository(conn), names)
	if err != nil {
		t.Fatalf("notices service: %v", err)
	}

	registry := prometheus.NewRegistry()
	handler := NewRouter(Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             client,
		Cache:          cache,
		Registry:       registry,
		Identity:       gate,
		Inventory:      inventorySvc,
		Locations:      locationsSvc,
		LocationOrders: ordersSvc,
		Notices:        noticesSvc,
		Users:          usersSvc,
	})
	return testServer{handler: handler, cfg: cfg, registry: registry}
}

func (s testServer) token(t *testing.T, email string) string {
	t.Helper()
	token, err := auth.MintIdentityToken(s.cfg.Identity, time.Now(), time.Hour, auth.IdentityPayload{Email: email, Name: "Grip"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func (s testServer) do(t *testing.T, token, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data any `json:"data"`
	}{Data: dest}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode %s: %v", resp.Body.String(), err)
	}
}

func TestHealthRoutes(t *testing.T) {
	srv := newTestServer(t)
	if resp := srv.do(t, "", http.MethodGet, "/health/live", ""); resp.Code != http.StatusOK {
		t.Fatalf("live: expected 200 got %d", resp.Code)
	}
	if resp := srv.do(t, "", http.MethodGet, "/health/ready", ""); resp.Code != http.StatusOK {
		t.Fatalf("ready: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAPIRejectsMissingAndForeignTokens(t *testing.T) {
	srv := newTestServer(t)
	if resp := srv.do(t, "", http.MethodGet, "/api/v1/inventory", ""); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
	outsider := srv.token(t, "stranger@else.test")
	if resp := srv.do(t, outsider, http.MethodGet, "/api/v1/inventory", ""); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-allowlisted email got %d", resp.Code)
	}
}

func TestInventoryGroupingFollowsCallerOrder(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, crewEmail)

	var shed, attic struct {
		ID uuid.UUID `json:"id"`
	}
	resp := srv.do(t, token, http.MethodPost, "/api/v1/locations", `{"name":"Shed"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create shed: %d %s", resp.Code, resp.Body.String())
	}
	decode(t, resp, &shed)
	resp = srv.do(t, token, http.MethodPost, "/api/v1/locations", `{"name":"Attic"}`)
	decode(t, resp, &attic)

	resp = srv.do(t, token, http.MethodPost, "/api/v1/inventory", `{"name":"tarp","location_id":"`+shed.ID.String()+`"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create item: %d %s", resp.Code, resp.Body.String())
	}

	groupNames := func() []string {
		t.Helper()
		resp := srv.do(t, token, http.MethodGet, "/api/v1/inventory", "")
		if resp.Code != http.StatusOK {
			t.Fatalf("list: %d %s", resp.Code, resp.Body.String())
		}
		var result inventory.ListResult
		decode(t, resp, &result)
		if result.TotalCount != 1 {
			t.Fatalf("expected total 1 got %d", result.TotalCount)
		}
		out := make([]string, 0, len(result.Groups))
		for _, g := range result.Groups {
			if g.Location == nil {
				out = append(out, "<none>")
				continue
			}
			out = append(out, g.Location.Name)
		}
		return out
	}

	if got := strings.Join(groupNames(), ","); got != "<none>,Attic,Shed" {
		t.Fatalf("unordered groups should sort by name, got %s", got)
	}

	body := `{"location_ids":["` + shed.ID.String() + `","` + attic.ID.String() + `"]}`
	if resp := srv.do(t, token, http.MethodPut, "/api/v1/location-orders", body); resp.Code != http.StatusOK {
		t.Fatalf("batch order: %d %s", resp.Code, resp.Body.String())
	}
	if got := strings.Join(groupNames(), ","); got != "<none>,Shed,Attic" {
		t.Fatalf("ordered groups should follow the batch, got %s", got)
	}
}

func TestNoticeCreateReplaysWithIdempotencyKey(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, crewEmail)

	var first, second struct {
		ID uuid.UUID `json:"id"`
	}
	resp := srv.do(t, token, http.MethodPost, "/api/v1/notices", `{"content":"call time 6am"}`, "Idempotency-Key", "k-1")
	if resp.Code != http.StatusCreated {
		t.Fatalf("create notice: %d %s", resp.Code, resp.Body.String())
	}
	decode(t, resp, &first)
	resp = srv.do(t, token, http.MethodPost, "/api/v1/notices", `{"content":"call time 6am"}`, "Idempotency-Key", "k-1")
	decode(t, resp, &second)
	if first.ID != second.ID {
		t.Fatalf("expected replayed notice %s got %s", first.ID, second.ID)
	}

	var listed []json.RawMessage
	decode(t, srv.do(t, token, http.MethodGet, "/api/v1/notices", ""), &listed)
	if len(listed) != 1 {
		t.Fatalf("expected one notice got %d", len(listed))
	}
}

func TestProfileRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, crewEmail)

	resp := srv.do(t, token, http.MethodPatch, "/api/v1/users/me", `{"name":"Key Grip"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("update profile: %d %s", resp.Code, resp.Body.String())
	}
	var me users.UserDTO
	decode(t, srv.do(t, token, http.MethodGet, "/api/v1/users/me", ""), &me)
	if me.Name != "Key Grip" {
		t.Fatalf("expected renamed profile got %q", me.Name)
	}
}

func TestMetricsEndpointExposesRequestCounters(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, "", http.MethodGet, "/health/live", "")

	resp := srv.do(t, "", http.MethodGet, "/metrics", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `crewstock_http_requests_total{method="GET",route="/health/live",status="200"} 1`) {
		t.Fatalf("expected request counter in metrics output:\n%s", resp.Body.String())
	}
}
