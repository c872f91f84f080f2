// Blog post HTTP handlers.
//
// This file exposes REST endpoints for blog post resources:
//   - POST   /posts       (create)
//   - GET    /posts       (list, newest first)
//   - GET    /posts/{id}  (fetch one)
//   - PUT    /posts/{id}  (partial update)
//   - DELETE /posts/{id}  (delete)
//   - GET    /search      (ranked snippet search over post content)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/go-catalog-backend/internal/domain"
	"github.com/openshelf/go-catalog-backend/internal/services"
	"github.com/openshelf/go-catalog-backend/internal/utils"
)

// BlogService defines blog post lifecycle operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type BlogService interface {
	// Create inserts a new post with the given title and content.
	Create(ctx context.Context, title, content string) (*domain.BlogPost, error)
	// List returns all posts, newest first.
	List(ctx context.Context) ([]domain.BlogPost, error)
	// Get fetches one post by ID.
	Get(ctx context.Context, id uint) (*domain.BlogPost, error)
	// Update applies a partial update.
	Update(ctx context.Context, id uint, title, content *string) (*domain.BlogPost, error)
	// Delete removes a post.
	Delete(ctx context.Context, id uint) error
	// Search ranks post snippets against a free-text query.
	Search(ctx context.Context, query string, k int) ([]services.SearchHit, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for blog posts, books, catalog items, and
// feed synchronization. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	blogSvc BlogService
	bookSvc BookService
	itemSvc ItemService
	syncSvc SyncRunner

	// defaultFeedURL is synced when a request does not name a feed.
	defaultFeedURL string

	// idempotencyTTL bounds how long a stored sync run summary stays
	// replayable for a given Idempotency-Key.
	idempotencyTTL time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
// defaultFeedURL is the feed synced when a request omits source_url;
// idempotencyTTL is the replay window for stored sync summaries (values <= 0
// default to 24h).
func New(blogSvc BlogService, bookSvc BookService, itemSvc ItemService, syncSvc SyncRunner, defaultFeedURL string, idempotencyTTL time.Duration) *Handlers {
	return &Handlers{
		blogSvc:        blogSvc,
		bookSvc:        bookSvc,
		itemSvc:        itemSvc,
		syncSvc:        syncSvc,
		defaultFeedURL: defaultFeedURL,
		idempotencyTTL: idempotencyTTL,
	}
}

//
// DTOs
//

// CreateBlogPostRequest is the JSON payload for creating a blog post.
type CreateBlogPostRequest struct {
	Title   string `json:"title"   binding:"required,min=1" example:"Launch notes"`
	Content string `json:"content" binding:"required,min=1" example:"We shipped the catalog."`
}

// UpdateBlogPostRequest is the JSON payload for a partial blog post update.
// Omitted fields are left untouched.
type UpdateBlogPostRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// pathID parses the :id path parameter as an unsigned integer, writing a 400
// and returning ok=false on garbage input.
func pathID(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a positive integer")
		return 0, false
	}
	return uint(n), true
}

// CreateBlogPost godoc
// @ID          createBlogPost
// @Summary     Create a blog post
// @Tags        Posts
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreateBlogPostRequest  true  "Create post payload"
// @Success     201  {object}  domain.BlogPost
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /posts [post]
func (h *Handlers) CreateBlogPost(c *gin.Context) {
	var req CreateBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title and content are required")
		return
	}

	p, err := h.blogSvc.Create(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		if errors.Is(err, services.ErrEmptyTitle) || errors.Is(err, services.ErrEmptyContent) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, p)
}

// ListBlogPosts godoc
// @ID          listBlogPosts
// @Summary     List blog posts
// @Tags        Posts
// @Produce     json
// @Success     200  {array}   domain.BlogPost
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /posts [get]
func (h *Handlers) ListBlogPosts(c *gin.Context) {
	posts, err := h.blogSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if posts == nil {
		posts = []domain.BlogPost{}
	}
	ok(c, http.StatusOK, posts)
}

// GetBlogPost godoc
// @ID          getBlogPost
// @Summary     Fetch a blog post
// @Tags        Posts
// @Produce     json
// @Param       id  path  int  true  "Post ID"
// @Success     200  {object}  domain.BlogPost
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Post not found"
// @Router      /posts/{id} [get]
func (h *Handlers) GetBlogPost(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	p, err := h.blogSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "post not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, p)
}

// UpdateBlogPost godoc
// @ID          updateBlogPost
// @Summary     Update a blog post
// @Tags        Posts
// @Accept      json
// @Produce     json
// @Param       id    path  int  true  "Post ID"
// @Param       body  body  handlers.UpdateBlogPostRequest  true  "Fields to update"
// @Success     200  {object}  domain.BlogPost
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Post not found"
// @Router      /posts/{id} [put]
func (h *Handlers) UpdateBlogPost(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	var req UpdateBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.blogSvc.Update(c.Request.Context(), id, req.Title, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPostNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "post not found")
		case errors.Is(err, services.ErrEmptyTitle), errors.Is(err, services.ErrEmptyContent):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, p)
}

// SearchResponse wraps one blog post search.
type SearchResponse struct {
	Query string               `json:"query"`
	Hits  []services.SearchHit `json:"hits"`
}

// SearchBlogPosts godoc
// @ID          searchBlogPosts
// @Summary     Search blog posts
// @Description Ranks post paragraphs against the query by token overlap and returns the best snippets with their post IDs.
// @Tags        Posts
// @Produce     json
// @Param       q      query  string  true   "Free-text query"
// @Param       limit  query  int     false  "Maximum hits"  minimum(1) maximum(20) default(3)
// @Success     200  {object}  handlers.SearchResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing query"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /search [get]
func (h *Handlers) SearchBlogPosts(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "q is required")
		return
	}
	k := utils.AtoiDefault(c.Query("limit"), 3)
	if k < 1 {
		k = 1
	}
	if k > 20 {
		k = 20
	}

	hits, err := h.blogSvc.Search(c.Request.Context(), q, k)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, SearchResponse{Query: q, Hits: hits})
}

// DeleteBlogPost godoc
// @ID          deleteBlogPost
// @Summary     Delete a blog post
// @Tags        Posts
// @Param       id  path  int  true  "Post ID"
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "Post not found"
// @Router      /posts/{id} [delete]
func (h *Handlers) DeleteBlogPost(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	if err := h.blogSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "post not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		return
	}
	noContent(c)
}
