package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/go-catalog-backend/internal/domain"
	"github.com/openshelf/go-catalog-backend/internal/ingest"
	"github.com/openshelf/go-catalog-backend/internal/repo"
)

func newSyncDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("sync_service_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&domain.Item{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// feedStub serves canned feed bytes or a canned error.
type feedStub struct {
	body []byte
	err  error
}

func (f feedStub) Fetch(context.Context, string) ([]byte, error) {
	return f.body, f.err
}

// repoStore is the production persistence wiring for SyncService.
type repoStore struct{}

func (repoStore) ListByExternalID(ctx context.Context, db *gorm.DB, externalID string) ([]domain.Item, error) {
	return repo.ListItemsByExternalID(ctx, db, externalID)
}

func (repoStore) Create(ctx context.Context, db *gorm.DB, item *domain.Item) (*domain.Item, error) {
	return repo.CreateItem(ctx, db, item)
}

func (repoStore) UpdateFields(ctx context.Context, db *gorm.DB, id uint, f repo.ItemFields) error {
	return repo.UpdateItemFields(ctx, db, id, f)
}

func newSyncService(t *testing.T, feed ingest.Fetcher) *SyncService {
	t.Helper()
	return &SyncService{DB: newSyncDB(t), Feed: feed, Store: repoStore{}}
}

const feedURL = "https://feeds.example.com/products"

func TestSync_EmptySourceURL(t *testing.T) {
	svc := newSyncService(t, feedStub{body: []byte(`[]`)})
	if _, err := svc.Sync(context.Background(), ""); !errors.Is(err, ErrEmptySourceURL) {
		t.Fatalf("expected ErrEmptySourceURL, got %v", err)
	}
	if _, _, err := svc.Preview(context.Background(), ""); !errors.Is(err, ErrEmptySourceURL) {
		t.Fatalf("Preview: expected ErrEmptySourceURL, got %v", err)
	}
}

func TestSync_FetchAndParseFailuresAbort(t *testing.T) {
	svc := newSyncService(t, feedStub{err: &ingest.FetchError{SourceURL: feedURL, Status: 502}})
	_, err := svc.Sync(context.Background(), feedURL)
	var fe *ingest.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}

	svc = newSyncService(t, feedStub{body: []byte("not json")})
	_, err = svc.Sync(context.Background(), feedURL)
	var pe *ingest.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestSync_InsertsNewRecords(t *testing.T) {
	svc := newSyncService(t, feedStub{body: []byte(`[
		{"id": 1, "title": "Backpack", "price": 109.95, "category": "gear", "rating": {"rate": 3.9, "count": 120}},
		{"id": 2, "title": "Shirt"}
	]`)})

	sum, err := svc.Sync(context.Background(), feedURL)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	want := SyncSummary{Accepted: 2, Rejected: 0, Inserted: 2, Updated: 0, Failed: 0}
	if sum != want {
		t.Fatalf("summary = %+v, want %+v", sum, want)
	}

	rows, err := repo.ListItemsByExternalID(context.Background(), svc.DB, "1")
	if err != nil || len(rows) != 1 {
		t.Fatalf("lookup: n=%d err=%v", len(rows), err)
	}
	it := rows[0]
	if it.Title != "Backpack" || it.SourceURL != feedURL {
		t.Fatalf("unexpected row: %+v", it)
	}
	// Price is persisted as two-decimal text.
	if it.Price == nil || *it.Price != "109.95" {
		t.Fatalf("price text = %v", it.Price)
	}
	if it.Rating == nil || *it.Rating != 3.9 {
		t.Fatalf("rating = %v", it.Rating)
	}
}

func TestSync_SecondRunUpdatesInPlace(t *testing.T) {
	svc := newSyncService(t, feedStub{body: []byte(`[{"id": 1, "title": "v1", "price": 10}]`)})

	if _, err := svc.Sync(context.Background(), feedURL); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	before, _ := repo.ListItemsByExternalID(context.Background(), svc.DB, "1")
	if len(before) != 1 {
		t.Fatalf("expected 1 row after first run, got %d", len(before))
	}
	// Backdate so the advance is visible regardless of clock resolution.
	stale := time.Now().UTC().Add(-time.Hour)
	if err := svc.DB.Model(&before[0]).Update("updated_at", stale).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	svc.Feed = feedStub{body: []byte(`[{"id": 1, "title": "v2", "price": 12.5}]`)}
	sum, err := svc.Sync(context.Background(), feedURL)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if sum.Inserted != 0 || sum.Updated != 1 {
		t.Fatalf("expected pure update run, got %+v", sum)
	}

	after, _ := repo.ListItemsByExternalID(context.Background(), svc.DB, "1")
	if len(after) != 1 {
		t.Fatalf("re-sync must not duplicate the row, got %d", len(after))
	}
	got := after[0]
	if got.Title != "v2" || got.Price == nil || *got.Price != "12.50" {
		t.Fatalf("update not applied: %+v", got)
	}
	if got.ID != before[0].ID || got.CreatedAt.Unix() != before[0].CreatedAt.Unix() {
		t.Fatalf("identity fields must survive updates: %+v vs %+v", got, before[0])
	}
	if !got.UpdatedAt.After(stale) {
		t.Fatalf("updated_at must advance on re-sync: %v", got.UpdatedAt)
	}
}

func TestSync_UpdateRewritesAbsentFieldsToNull(t *testing.T) {
	svc := newSyncService(t, feedStub{body: []byte(`[{"id": 1, "title": "full", "description": "d", "price": 5, "rating": {"rate": 4}}]`)})
	if _, err := svc.Sync(context.Background(), feedURL); err != nil {
		t.Fatalf("first sync: %v", err)
	}

	// Next run omits every optional field; the feed is authoritative.
	svc.Feed = feedStub{body: []byte(`[{"id": 1, "title": "bare"}]`)}
	if _, err := svc.Sync(context.Background(), feedURL); err != nil {
		t.Fatalf("second sync: %v", err)
	}

	rows, _ := repo.ListItemsByExternalID(context.Background(), svc.DB, "1")
	got := rows[0]
	if got.Description != nil || got.Price != nil || got.Rating != nil {
		t.Fatalf("absent feed fields must clear stored values: %+v", got)
	}
	if got.Title != "bare" {
		t.Fatalf("title not rewritten: %+v", got)
	}
}

func TestSync_NaturalKeyIsScopedBySource(t *testing.T) {
	svc := newSyncService(t, feedStub{body: []byte(`[{"id": 1, "title": "from A"}]`)})
	if _, err := svc.Sync(context.Background(), "https://a.example.com/feed"); err != nil {
		t.Fatalf("sync A: %v", err)
	}

	// Same external identifier, different feed: distinct natural key.
	svc.Feed = feedStub{body: []byte(`[{"id": 1, "title": "from B"}]`)}
	sum, err := svc.Sync(context.Background(), "https://b.example.com/feed")
	if err != nil {
		t.Fatalf("sync B: %v", err)
	}
	if sum.Inserted != 1 || sum.Updated != 0 {
		t.Fatalf("expected an insert for the new source, got %+v", sum)
	}

	rows, _ := repo.ListItemsByExternalID(context.Background(), svc.DB, "1")
	if len(rows) != 2 {
		t.Fatalf("expected one row per source, got %d", len(rows))
	}
}

func TestSync_MixedFeedCountsRejections(t *testing.T) {
	svc := newSyncService(t, feedStub{body: []byte(`[
		{"id": 1, "title": "ok"},
		{"title": "no id"},
		{"id": 3, "title": "bad price", "price": -1}
	]`)})

	sum, err := svc.Sync(context.Background(), feedURL)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if sum.Accepted != 1 || sum.Rejected != 2 || sum.Inserted != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

// flakyStore fails persistence for one external identifier and delegates the
// rest to the real repository.
type flakyStore struct {
	repoStore
	failID string
}

func (f flakyStore) Create(ctx context.Context, db *gorm.DB, item *domain.Item) (*domain.Item, error) {
	if item.ExternalID == f.failID {
		return nil, errors.New("store unavailable")
	}
	return f.repoStore.Create(ctx, db, item)
}

func TestSync_PerRecordPersistenceFailureDoesNotAbort(t *testing.T) {
	svc := newSyncService(t, feedStub{body: []byte(`[
		{"id": 1, "title": "a"},
		{"id": 2, "title": "b"},
		{"id": 3, "title": "c"}
	]`)})
	svc.Store = flakyStore{failID: "2"}

	sum, err := svc.Sync(context.Background(), feedURL)
	if err != nil {
		t.Fatalf("persistence failures must not abort the run: %v", err)
	}
	if sum.Inserted != 2 || sum.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	for _, id := range []string{"1", "3"} {
		rows, _ := repo.ListItemsByExternalID(context.Background(), svc.DB, id)
		if len(rows) != 1 {
			t.Fatalf("record %s should have survived the run", id)
		}
	}
}

func TestPreview_DoesNotPersist(t *testing.T) {
	svc := newSyncService(t, feedStub{body: []byte(`[
		{"id": 1, "title": "a", "price": 19.95},
		{"title": "rejected"}
	]`)})

	records, sum, err := svc.Preview(context.Background(), feedURL)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if sum.Accepted != 1 || sum.Rejected != 1 || len(records) != 1 {
		t.Fatalf("unexpected preview: records=%d sum=%+v", len(records), sum)
	}
	if records[0].ExternalID != "1" || records[0].Price == nil || *records[0].Price != 19.95 {
		t.Fatalf("unexpected record: %+v", records[0])
	}

	var n int64
	if err := svc.DB.Model(&domain.Item{}).Count(&n).Error; err != nil || n != 0 {
		t.Fatalf("preview must not write rows: n=%d err=%v", n, err)
	}
}
