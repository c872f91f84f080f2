package httpapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/go-catalog-backend/internal/config"
	"github.com/openshelf/go-catalog-backend/internal/domain"
	"github.com/openshelf/go-catalog-backend/internal/http/middleware"
	"github.com/openshelf/go-catalog-backend/internal/repo"
)

// --- tiny fake feed to satisfy ingest.Fetcher ---
type fakeFeed struct{}

func (fakeFeed) Fetch(_ context.Context, _ string) ([]byte, error) { return []byte("[]"), nil }

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:routerdb_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// schema so handlers don't explode on list endpoints
	if err := db.AutoMigrate(&domain.BlogPost{}, &domain.Book{}, &domain.Item{}, &domain.Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := config.Config{
		APIBasePath: "/api/v1",
		RateRPS:     100,
		RateBurst:   10,
		CORS:        config.CORSConfig{AllowedOrigins: nil}, // triggers AllowAllOrigins branch
		Security:    config.SecurityConfig{EnableHSTS: false, HSTSMaxAge: 0},
		OTEL:        config.OTELConfig{ServiceName: "test-svc"},
	}
	db := newTestDB(t)

	RegisterRoutes(r, db, fakeFeed{}, cfg)

	// /health works
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /metrics is wired
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || len(w.Body.Bytes()) == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// A representative API route works end to end against the migrated DB.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/posts = %d body=%s", w.Code, w.Body.String())
	}

	// NoRoute → 404
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 (POST /health)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := config.Config{
		APIBasePath: "/api/v2",
		RateRPS:     50,
		RateBurst:   5,
		CORS:        config.CORSConfig{AllowedOrigins: []string{"http://example.com"}},
		Security:    config.SecurityConfig{EnableHSTS: false, HSTSMaxAge: 0},
		OTEL:        config.OTELConfig{ServiceName: "test-svc"},
	}
	db := newTestDB(t)

	RegisterRoutes(r, db, fakeFeed{}, cfg)

	// Any request runs through CORS middleware; header should reflect origin.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// tiny cap to trigger MaxBytesReader
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")) // 12 bytes
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// "/" and "" should mount at root
	root1 := groupWithPrefix(r, "/")
	root1.GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	root2 := groupWithPrefix(r, "")
	root2.GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })

	// non-root prefix
	api := groupWithPrefix(r, "/api")
	api.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	// Hit all three
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/one", nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "one" {
		t.Fatalf("GET /one got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/two", nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "two" {
		t.Fatalf("GET /two got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("GET /api/ping got %d %q", rec.Code, rec.Body.String())
	}
}

// Smoke test that a request traverses idempotency + ratelimit + otel + security headers pipeline.
func TestPipeline_Smoke(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := config.Config{
		APIBasePath: "/api/v1",
		RateRPS:     100,
		RateBurst:   10,
		CORS:        config.CORSConfig{},                                            // allow-all branch
		Security:    config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: time.Hour}, // enabled (but only set on https)
		OTEL:        config.OTELConfig{ServiceName: "svc"},
	}
	db := newTestDB(t)
	RegisterRoutes(r, db, fakeFeed{}, cfg)

	// Any request goes through the middleware stack
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	// simulate https so HSTS could be eligible if middleware checks scheme
	req.URL.Scheme = "https"
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("pipeline GET /health = %d", w.Code)
	}
	// RequestID header should be present (from RequestID middleware)
	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
}

func Test_itemStoreShim_Proxies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	shim := itemStoreShim{}
	ctx := context.Background()

	price := "19.95"
	seed := &domain.Item{
		Title:      "Mechanical keyboard",
		Price:      &price,
		ExternalID: "42",
		SourceURL:  "https://feeds.example.com/products",
	}

	// --- Create ---
	created, err := shim.Create(ctx, db, seed)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created == nil || created.ID == 0 || created.Title != "Mechanical keyboard" {
		t.Fatalf("Create returned bad item: %+v", created)
	}

	// --- ListByExternalID ---
	got, err := shim.ListByExternalID(ctx, db, "42")
	if err != nil {
		t.Fatalf("ListByExternalID: %v", err)
	}
	if len(got) != 1 || got[0].ID != created.ID {
		t.Fatalf("ListByExternalID mismatch: %+v", got)
	}

	// --- UpdateFields ---
	newPrice := "24.50"
	if err := shim.UpdateFields(ctx, db, created.ID, repo.ItemFields{
		Title: "Mechanical keyboard v2",
		Price: &newPrice,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err = shim.ListByExternalID(ctx, db, "42")
	if err != nil {
		t.Fatalf("ListByExternalID (after update): %v", err)
	}
	if len(got) != 1 || got[0].Title != "Mechanical keyboard v2" {
		t.Fatalf("UpdateFields not applied: %+v", got)
	}
	if got[0].Price == nil || *got[0].Price != "24.50" {
		t.Fatalf("UpdateFields price not applied: %+v", got[0].Price)
	}
	// Rating was not provided, so the update must null it out.
	if got[0].Rating != nil {
		t.Fatalf("expected rating cleared, got %v", *got[0].Rating)
	}
}

func TestRegisterRoutes_IdempotencyCallback_MissAndHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	const defaultFeed = "https://feeds.example.com/products"
	cfg := config.Config{
		APIBasePath:   "/api/vX",
		RateRPS:       100,
		RateBurst:     10,
		SyncSourceURL: defaultFeed,
		CORS:          config.CORSConfig{}, // allow-all branch
		Security:      config.SecurityConfig{EnableHSTS: false},
		OTEL:          config.OTELConfig{ServiceName: "svc"},
	}
	db := newTestDB(t)
	RegisterRoutes(r, db, fakeFeed{}, cfg)

	const userID = "u1"
	const key = "key-hit"

	// --- MISS: record does not exist (executes 'rec == nil' branch) ---
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/health", bytes.NewBufferString("{}"))
	req.Header.Set("X-User-ID", userID)
	req.Header.Set(middleware.HeaderIdempotencyKey, key)
	r.ServeHTTP(w, req)
	// NoMethod is expected for POST /health, but middleware ran.

	// --- seed an idempotency record so the callback returns non-nil ---
	seed := &domain.Idempotency{
		ID:        "idem-seed-1",
		UserID:    userID,
		SourceURL: defaultFeed,
		Key:       key,
		Status:    1,
		Summary:   "{}",
		// ensure it's considered valid "now"
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := db.Create(seed).Error; err != nil {
		t.Fatalf("seed idempotency: %v", err)
	}

	// --- HIT: record exists (executes 'return true, nil' branch) ---
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/health", bytes.NewBufferString("{}"))
	req.Header.Set("X-User-ID", userID)
	req.Header.Set(middleware.HeaderIdempotencyKey, key)
	r.ServeHTTP(w, req)
	// again, 405 is fine; goal is to drive the middleware branch.
}

// A replayable retry must be served even after the client's token bucket is
// drained: the replay lookup keys on the same (user, source URL, key) tuple
// the sync handler stores, and a hit bypasses the rate limiter.
func TestRegisterRoutes_SyncReplayBypassesRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := config.Config{
		APIBasePath:    "/api/v1",
		RateRPS:        0.001, // no practical refill during the test
		RateBurst:      1,
		SyncSourceURL:  "https://feeds.example.com/products",
		IdempotencyTTL: time.Hour,
		CORS:           config.CORSConfig{},
		Security:       config.SecurityConfig{EnableHSTS: false},
		OTEL:           config.OTELConfig{ServiceName: "svc"},
	}
	db := newTestDB(t)
	RegisterRoutes(r, db, fakeFeed{}, cfg)

	do := func(key string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/items/sync", nil)
		req.Header.Set("X-User-ID", "u1")
		req.Header.Set(middleware.HeaderIdempotencyKey, key)
		r.ServeHTTP(w, req)
		return w
	}

	// First run consumes the only token and stores the run summary.
	if w := do("key-replay-1"); w.Code != http.StatusOK {
		t.Fatalf("first sync = %d body=%s", w.Code, w.Body.String())
	}

	// Retrying the same key is a replay: served from the stored summary,
	// skipping the drained limiter.
	w := do("key-replay-1")
	if w.Code != http.StatusOK {
		t.Fatalf("replay = %d body=%s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Idempotency-Replayed"); got != "true" {
		t.Fatalf("expected replay header, got %q", got)
	}

	// A key with no stored run gets no bypass and hits the limiter.
	if w := do("key-fresh-2"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("fresh key with drained bucket = %d", w.Code)
	}
}

// The replay scope follows a body-carried feed override the same way the sync
// handler resolves it, and the body stays readable for the handler.
func Test_syncScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const def = "https://feeds.example.com/products"
	scope := syncScope(def)

	newCtx := func(body string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		if body == "" {
			c.Request = httptest.NewRequest(http.MethodPost, "/items/sync", nil)
		} else {
			c.Request = httptest.NewRequest(http.MethodPost, "/items/sync", bytes.NewBufferString(body))
		}
		return c
	}

	if got := scope(newCtx("")); got != def {
		t.Fatalf("no body scope = %q", got)
	}
	if got := scope(newCtx(`{"source_url":"https://other.example.com/feed"}`)); got != "https://other.example.com/feed" {
		t.Fatalf("override scope = %q", got)
	}
	if got := scope(newCtx(`{"source_url":"   "}`)); got != def {
		t.Fatalf("blank override scope = %q", got)
	}
	if got := scope(newCtx("{bad")); got != def {
		t.Fatalf("bad json scope = %q", got)
	}

	// The body must survive for the handler's own binding.
	c := newCtx(`{"source_url":"https://other.example.com/feed"}`)
	if got := scope(c); got != "https://other.example.com/feed" {
		t.Fatalf("scope = %q", got)
	}
	b, err := io.ReadAll(c.Request.Body)
	if err != nil || string(b) != `{"source_url":"https://other.example.com/feed"}` {
		t.Fatalf("body not restored: %q err=%v", b, err)
	}
}

func TestRegisterRoutes_IdempotencyCallback_ErrorBranch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := config.Config{
		APIBasePath: "/api/v1",
		RateRPS:     100,
		RateBurst:   10,
		CORS:        config.CORSConfig{}, // allow-all branch
		Security:    config.SecurityConfig{EnableHSTS: false},
		OTEL:        config.OTELConfig{ServiceName: "svc"},
	}

	db := newTestDB(t)

	// Wire routes first...
	RegisterRoutes(r, db, fakeFeed{}, cfg)

	// ...then force queries to fail by closing the underlying connection.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	_ = sqlDB.Close()

	// Now any repo.GetIdempotency call should error → drives (err != nil) branch.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/health", bytes.NewBufferString("{}"))
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set(middleware.HeaderIdempotencyKey, "force-error")
	r.ServeHTTP(w, req)

	// 405 is expected for POST /health; goal is to exercise the middleware branch.
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
