// Feed synchronization HTTP handlers.
//
// This file exposes the ingestion pipeline over HTTP:
//   - POST /items/sync          (fetch, normalize, reconcile into the catalog)
//   - POST /items/sync/preview  (fetch and normalize only, nothing persisted)
//
// Both endpoints accept an optional JSON body {"source_url": "..."}; when the
// field is absent the configured default feed is synced.
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// run exists for the same (user, source URL, key), the endpoint replays the
// stored run summary and sets `Idempotency-Replayed: true` instead of hitting
// the external feed again.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/go-catalog-backend/internal/http/middleware"
	"github.com/openshelf/go-catalog-backend/internal/ingest"
	"github.com/openshelf/go-catalog-backend/internal/repo"
	"github.com/openshelf/go-catalog-backend/internal/services"
)

// SyncRunner defines the ingestion operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type SyncRunner interface {
	// Preview normalizes the feed without persisting anything.
	Preview(ctx context.Context, sourceURL string) ([]ingest.NewItem, ingest.Summary, error)
	// Sync normalizes the feed and reconciles it into the catalog.
	Sync(ctx context.Context, sourceURL string) (services.SyncSummary, error)
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// SyncRequest is the (optional) JSON payload for the sync endpoints.
type SyncRequest struct {
	// SourceURL overrides the configured default feed.
	SourceURL string `json:"source_url" example:"https://fakestoreapi.com/products"`
}

// SyncResponse wraps one completed ingestion run.
type SyncResponse struct {
	SourceURL string               `json:"source_url"`
	Summary   services.SyncSummary `json:"summary"`
}

// PreviewItem is the public shape of one normalized feed record.
type PreviewItem struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"image_url"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Rating      *float64 `json:"rating"`
	ExternalID  string   `json:"external_id"`
	SourceURL   string   `json:"source_url"`
}

// PreviewResponse wraps one normalization pass that persisted nothing.
type PreviewResponse struct {
	SourceURL string        `json:"source_url"`
	Items     []PreviewItem `json:"items"`
	Accepted  int           `json:"accepted"`
	Rejected  int           `json:"rejected"`
}

// sourceURLFrom resolves the feed locator for a sync request: the body field
// when present, the configured default otherwise. An unreadable body is
// treated as absent; a present-but-blank source_url is reported as invalid.
func (h *Handlers) sourceURLFrom(c *gin.Context) (string, bool) {
	var req SyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return "", false
		}
	}
	src := strings.TrimSpace(req.SourceURL)
	if src == "" {
		src = h.defaultFeedURL
	}
	if src == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "source_url required")
		return "", false
	}
	return src, true
}

// syncFailStatus maps an ingestion error to its HTTP status and code. Fetch
// and parse failures are upstream faults (502); anything else is internal.
func syncFailStatus(err error) (int, string) {
	var fe *ingest.FetchError
	var pe *ingest.ParseError
	switch {
	case errors.Is(err, services.ErrEmptySourceURL):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.As(err, &fe), errors.As(err, &pe):
		return http.StatusBadGateway, ErrCodeSyncFailed
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}

// SyncItems godoc
// @ID          syncItems
// @Summary     Synchronize the catalog with an external feed
// @Description Fetches the feed, normalizes its records, and upserts them into the catalog by (external_id, source_url). Per-record defects are skipped and counted; only fetch/parse failures abort the run. Supports safe retries via the Idempotency-Key header.
// @Tags        Sync
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.SyncRequest  false  "Feed override"
//
// @Success     200  {object}  handlers.SyncResponse
// @Header      200  {string}  Idempotency-Replayed  "true when a stored run summary was replayed"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     502  {object}  handlers.ErrorResponse  "Feed unreachable or malformed"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /items/sync [post]
func (h *Handlers) SyncItems(c *gin.Context) {
	ctx := c.Request.Context()
	src, okSrc := h.sourceURLFrom(c)
	if !okSrc {
		return
	}
	currentUser := userID(c)

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey == "" {
		idemKey = strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))
	}
	if idemKey != "" {
		if svc, okSvc := h.syncSvc.(*services.SyncService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, currentUser, src, idemKey, time.Now().UTC()); err == nil && rec != nil {
				var prev services.SyncSummary
				if json.Unmarshal([]byte(rec.Summary), &prev) == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, rec.Status, SyncResponse{SourceURL: src, Summary: prev})
					return
				}
			}
		}
	}

	sum, err := h.syncSvc.Sync(ctx, src)
	if err != nil {
		status, code := syncFailStatus(err)
		fail(c, status, code, err.Error())
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if svc, okSvc := h.syncSvc.(*services.SyncService); okSvc && svc.DB != nil {
			if b, merr := json.Marshal(sum); merr == nil {
				ttl := h.idempotencyTTL
				if ttl <= 0 {
					ttl = 24 * time.Hour
				}
				_, _ = repo.CreateIdempotency(ctx, svc.DB, currentUser, src, idemKey, http.StatusOK, string(b), ttl)
			}
		}
	}

	ok(c, http.StatusOK, SyncResponse{SourceURL: src, Summary: sum})
}

// PreviewSync godoc
// @ID          previewSync
// @Summary     Preview a feed synchronization
// @Description Fetches and normalizes the feed without touching the catalog. Returns the records that a sync run would persist plus accept/reject counts.
// @Tags        Sync
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SyncRequest  false  "Feed override"
//
// @Success     200  {object}  handlers.PreviewResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     502  {object}  handlers.ErrorResponse  "Feed unreachable or malformed"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /items/sync/preview [post]
func (h *Handlers) PreviewSync(c *gin.Context) {
	src, okSrc := h.sourceURLFrom(c)
	if !okSrc {
		return
	}

	records, sum, err := h.syncSvc.Preview(c.Request.Context(), src)
	if err != nil {
		status, code := syncFailStatus(err)
		fail(c, status, code, err.Error())
		return
	}

	items := make([]PreviewItem, 0, len(records))
	for _, r := range records {
		items = append(items, PreviewItem{
			Title:       r.Title,
			Description: r.Description,
			ImageURL:    r.ImageURL,
			Category:    r.Category,
			Price:       r.Price,
			Rating:      r.Rating,
			ExternalID:  r.ExternalID,
			SourceURL:   r.SourceURL,
		})
	}
	ok(c, http.StatusOK, PreviewResponse{
		SourceURL: src,
		Items:     items,
		Accepted:  sum.Accepted,
		Rejected:  sum.Rejected,
	})
}
