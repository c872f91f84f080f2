package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/go-catalog-backend/internal/domain"
	"github.com/openshelf/go-catalog-backend/internal/ingest"
	"github.com/openshelf/go-catalog-backend/internal/repo"
	"github.com/openshelf/go-catalog-backend/internal/services"
)

// ---------- test DB ----------

func newHandlerDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:catalog_handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(migrate...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// ---------- flexible stubs shared across handler tests ----------

type stubBlogSvc struct {
	create func(context.Context, string, string) (*domain.BlogPost, error)
	list   func(context.Context) ([]domain.BlogPost, error)
	get    func(context.Context, uint) (*domain.BlogPost, error)
	update func(context.Context, uint, *string, *string) (*domain.BlogPost, error)
	del    func(context.Context, uint) error
	search func(context.Context, string, int) ([]services.SearchHit, error)
}

func (s stubBlogSvc) Create(ctx context.Context, title, content string) (*domain.BlogPost, error) {
	if s.create != nil {
		return s.create(ctx, title, content)
	}
	return &domain.BlogPost{ID: 1, Title: title, Content: content}, nil
}

func (s stubBlogSvc) List(ctx context.Context) ([]domain.BlogPost, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, nil
}

func (s stubBlogSvc) Get(ctx context.Context, id uint) (*domain.BlogPost, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &domain.BlogPost{ID: id}, nil
}

func (s stubBlogSvc) Update(ctx context.Context, id uint, title, content *string) (*domain.BlogPost, error) {
	if s.update != nil {
		return s.update(ctx, id, title, content)
	}
	return &domain.BlogPost{ID: id}, nil
}

func (s stubBlogSvc) Delete(ctx context.Context, id uint) error {
	if s.del != nil {
		return s.del(ctx, id)
	}
	return nil
}

func (s stubBlogSvc) Search(ctx context.Context, q string, k int) ([]services.SearchHit, error) {
	if s.search != nil {
		return s.search(ctx, q, k)
	}
	return []services.SearchHit{}, nil
}

type stubBookSvc struct {
	create    func(context.Context, services.BookInput) (*domain.Book, error)
	list      func(context.Context) ([]domain.Book, error)
	bySection func(context.Context, string) ([]domain.Book, error)
	get       func(context.Context, uint) (*domain.Book, error)
	update    func(context.Context, uint, repo.BookUpdate) (*domain.Book, error)
	del       func(context.Context, uint) error
}

func (s stubBookSvc) Create(ctx context.Context, in services.BookInput) (*domain.Book, error) {
	if s.create != nil {
		return s.create(ctx, in)
	}
	return &domain.Book{ID: 1, Title: in.Title, Section: in.Section}, nil
}

func (s stubBookSvc) List(ctx context.Context) ([]domain.Book, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, nil
}

func (s stubBookSvc) ListBySection(ctx context.Context, section string) ([]domain.Book, error) {
	if s.bySection != nil {
		return s.bySection(ctx, section)
	}
	return nil, nil
}

func (s stubBookSvc) Get(ctx context.Context, id uint) (*domain.Book, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &domain.Book{ID: id}, nil
}

func (s stubBookSvc) Update(ctx context.Context, id uint, upd repo.BookUpdate) (*domain.Book, error) {
	if s.update != nil {
		return s.update(ctx, id, upd)
	}
	return &domain.Book{ID: id}, nil
}

func (s stubBookSvc) Delete(ctx context.Context, id uint) error {
	if s.del != nil {
		return s.del(ctx, id)
	}
	return nil
}

type stubItemSvc struct {
	create   func(context.Context, services.ItemInput) (*domain.Item, error)
	get      func(context.Context, uint) (*domain.Item, error)
	listPage func(context.Context, repo.ItemFilter, int, int) (*services.ItemPage, error)
	update   func(context.Context, uint, repo.ItemUpdate) (*domain.Item, error)
	del      func(context.Context, uint) error
}

func (s stubItemSvc) Create(ctx context.Context, in services.ItemInput) (*domain.Item, error) {
	if s.create != nil {
		return s.create(ctx, in)
	}
	return &domain.Item{ID: 1, Title: in.Title}, nil
}

func (s stubItemSvc) Get(ctx context.Context, id uint) (*domain.Item, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &domain.Item{ID: id}, nil
}

func (s stubItemSvc) ListPage(ctx context.Context, f repo.ItemFilter, limit, offset int) (*services.ItemPage, error) {
	if s.listPage != nil {
		return s.listPage(ctx, f, limit, offset)
	}
	return &services.ItemPage{Items: []domain.Item{}, Limit: limit, Offset: offset}, nil
}

func (s stubItemSvc) Update(ctx context.Context, id uint, upd repo.ItemUpdate) (*domain.Item, error) {
	if s.update != nil {
		return s.update(ctx, id, upd)
	}
	return &domain.Item{ID: id}, nil
}

func (s stubItemSvc) Delete(ctx context.Context, id uint) error {
	if s.del != nil {
		return s.del(ctx, id)
	}
	return nil
}

type stubSyncSvc struct {
	preview func(context.Context, string) ([]ingest.NewItem, ingest.Summary, error)
	sync    func(context.Context, string) (services.SyncSummary, error)
}

func (s stubSyncSvc) Preview(ctx context.Context, src string) ([]ingest.NewItem, ingest.Summary, error) {
	if s.preview != nil {
		return s.preview(ctx, src)
	}
	return nil, ingest.Summary{}, nil
}

func (s stubSyncSvc) Sync(ctx context.Context, src string) (services.SyncSummary, error) {
	if s.sync != nil {
		return s.sync(ctx, src)
	}
	return services.SyncSummary{}, nil
}

// newTestHandlers wires a Handlers with stub defaults for everything the test
// under focus does not care about.
func newTestHandlers(blog BlogService, book BookService, item ItemService, sync SyncRunner, defaultFeed string) *Handlers {
	if blog == nil {
		blog = stubBlogSvc{}
	}
	if book == nil {
		book = stubBookSvc{}
	}
	if item == nil {
		item = stubItemSvc{}
	}
	if sync == nil {
		sync = stubSyncSvc{}
	}
	return New(blog, book, item, sync, defaultFeed, 24*time.Hour)
}

// ---------- pathID ----------

func TestPathID_RejectsGarbage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandlers(nil, nil, nil, nil, "")
	r := gin.New()
	r.GET("/posts/:id", h.GetBlogPost)

	for _, bad := range []string{"abc", "0", "-4", "1.5"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/posts/"+bad, nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("id %q -> %d", bad, w.Code)
		}
	}
}

// ---------- CreateBlogPost ----------

func TestCreateBlogPost_BadJSON_Success_Internal(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Bad JSON -> 400
	{
		h := newTestHandlers(nil, nil, nil, nil, "")
		r := gin.New()
		r.POST("/posts", h.CreateBlogPost)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewBufferString("{bad"))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("bad json -> %d", w.Code)
		}
	}

	// Success -> 201, title trimmed by the real service
	{
		db := newHandlerDB(t, &domain.BlogPost{})
		h := newTestHandlers(&services.BlogService{DB: db}, nil, nil, nil, "")
		r := gin.New()
		r.POST("/posts", h.CreateBlogPost)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewBufferString(`{"title":"  Launch notes ","content":"body"}`))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("create -> %d body=%s", w.Code, w.Body.String())
		}
		var out domain.BlogPost
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("json: %v", err)
		}
		if out.ID == 0 || out.Title != "Launch notes" {
			t.Fatalf("unexpected post: %#v", out)
		}
	}

	// Internal error -> 500
	{
		errSvc := stubBlogSvc{
			create: func(context.Context, string, string) (*domain.BlogPost, error) {
				return nil, gorm.ErrInvalidField
			},
		}
		h := newTestHandlers(errSvc, nil, nil, nil, "")
		r := gin.New()
		r.POST("/posts", h.CreateBlogPost)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewBufferString(`{"title":"X","content":"y"}`))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("internal -> %d", w.Code)
		}
	}
}

// ---------- ListBlogPosts ----------

func TestListBlogPosts_EmptyAndError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// nil slice from service serializes as []
	{
		h := newTestHandlers(stubBlogSvc{}, nil, nil, nil, "")
		r := gin.New()
		r.GET("/posts", h.ListBlogPosts)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts", nil))
		if w.Code != http.StatusOK || w.Body.String() != "[]" {
			t.Fatalf("empty list -> %d body=%s", w.Code, w.Body.String())
		}
	}

	// service error -> 500
	{
		errSvc := stubBlogSvc{
			list: func(context.Context) ([]domain.BlogPost, error) { return nil, gorm.ErrInvalidField },
		}
		h := newTestHandlers(errSvc, nil, nil, nil, "")
		r := gin.New()
		r.GET("/posts", h.ListBlogPosts)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts", nil))
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("list error -> %d", w.Code)
		}
	}
}

// ---------- Get / Update / Delete ----------

func TestGetBlogPost_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := newTestHandlers(stubBlogSvc{
		get: func(context.Context, uint) (*domain.BlogPost, error) { return nil, services.ErrPostNotFound },
	}, nil, nil, nil, "")
	r := gin.New()
	r.GET("/posts/:id", h.GetBlogPost)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/42", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("not found -> %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Code != ErrCodeNotFound {
		t.Fatalf("error code = %q", resp.Code)
	}
}

func TestUpdateBlogPost_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", services.ErrPostNotFound, http.StatusNotFound},
		{"empty title", services.ErrEmptyTitle, http.StatusBadRequest},
		{"empty content", services.ErrEmptyContent, http.StatusBadRequest},
		{"other", gorm.ErrInvalidField, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandlers(stubBlogSvc{
				update: func(context.Context, uint, *string, *string) (*domain.BlogPost, error) {
					return nil, tc.err
				},
			}, nil, nil, nil, "")
			r := gin.New()
			r.PUT("/posts/:id", h.UpdateBlogPost)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/posts/7", bytes.NewBufferString(`{"title":"x"}`))
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("%s -> %d, want %d", tc.name, w.Code, tc.want)
			}
		})
	}

	// success passes parsed fields through
	{
		var got struct {
			id    uint
			title *string
		}
		h := newTestHandlers(stubBlogSvc{
			update: func(_ context.Context, id uint, title, _ *string) (*domain.BlogPost, error) {
				got.id, got.title = id, title
				return &domain.BlogPost{ID: id, Title: *title}, nil
			},
		}, nil, nil, nil, "")
		r := gin.New()
		r.PUT("/posts/:id", h.UpdateBlogPost)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/posts/7", bytes.NewBufferString(`{"title":"New"}`))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("update -> %d body=%s", w.Code, w.Body.String())
		}
		if got.id != 7 || got.title == nil || *got.title != "New" {
			t.Fatalf("service args mismatch: %+v", got)
		}
	}
}

// ---------- SearchBlogPosts ----------

func TestSearchBlogPosts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Missing q -> 400
	{
		h := newTestHandlers(nil, nil, nil, nil, "")
		r := gin.New()
		r.GET("/search", h.SearchBlogPosts)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?q=%20", nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("missing q -> %d", w.Code)
		}
	}

	// Limit is clamped and passed through; hits are returned as-is.
	{
		var gotQ string
		var gotK int
		h := newTestHandlers(stubBlogSvc{
			search: func(_ context.Context, q string, k int) ([]services.SearchHit, error) {
				gotQ, gotK = q, k
				return []services.SearchHit{{PostID: 1, Title: "t", Snippet: "s", Score: 0.5}}, nil
			},
		}, nil, nil, nil, "")
		r := gin.New()
		r.GET("/search", h.SearchBlogPosts)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?q=reconciler&limit=999", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("search -> %d body=%s", w.Code, w.Body.String())
		}
		if gotQ != "reconciler" || gotK != 20 {
			t.Fatalf("service args: q=%q k=%d", gotQ, gotK)
		}
		var out SearchResponse
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("json: %v", err)
		}
		if out.Query != "reconciler" || len(out.Hits) != 1 || out.Hits[0].PostID != 1 {
			t.Fatalf("unexpected response: %#v", out)
		}
	}

	// End to end through the real service.
	{
		db := newHandlerDB(t, &domain.BlogPost{})
		svc := &services.BlogService{DB: db}
		if _, err := svc.Create(context.Background(), "Sync pipeline", "The reconciler matches incoming records by their natural key and updates matching rows in place."); err != nil {
			t.Fatalf("seed: %v", err)
		}
		h := newTestHandlers(svc, nil, nil, nil, "")
		r := gin.New()
		r.GET("/search", h.SearchBlogPosts)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?q=reconciler+natural+key", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("search -> %d body=%s", w.Code, w.Body.String())
		}
		var out SearchResponse
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("json: %v", err)
		}
		if len(out.Hits) != 1 || out.Hits[0].Title != "Sync pipeline" {
			t.Fatalf("unexpected hits: %#v", out.Hits)
		}
	}
}

func TestDeleteBlogPost(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := newTestHandlers(nil, nil, nil, nil, "")
	r := gin.New()
	r.DELETE("/posts/:id", h.DeleteBlogPost)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/posts/3", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete -> %d", w.Code)
	}

	h = newTestHandlers(stubBlogSvc{
		del: func(context.Context, uint) error { return services.ErrPostNotFound },
	}, nil, nil, nil, "")
	r = gin.New()
	r.DELETE("/posts/:id", h.DeleteBlogPost)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/posts/3", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("delete missing -> %d", w.Code)
	}
}
