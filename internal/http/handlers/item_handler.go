// Catalog item HTTP handlers.
//
// This file exposes REST endpoints for catalog item resources:
//   - POST   /items       (create)
//   - GET    /items       (list, filtered + offset/limit paginated, ETag support)
//   - GET    /items/{id}  (fetch one)
//   - PUT    /items/{id}  (partial update)
//   - DELETE /items/{id}  (delete)
//
// Prices are stored as fixed-precision decimal text; handlers convert them
// back to numbers on the way out via ItemResponse, so clients always see a
// numeric price.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openshelf/go-catalog-backend/internal/domain"
	"github.com/openshelf/go-catalog-backend/internal/repo"
	"github.com/openshelf/go-catalog-backend/internal/services"
	"github.com/openshelf/go-catalog-backend/internal/utils"
)

// ItemService defines catalog item operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ItemService interface {
	// Create inserts a new item.
	Create(ctx context.Context, in services.ItemInput) (*domain.Item, error)
	// Get fetches one item by ID.
	Get(ctx context.Context, id uint) (*domain.Item, error)
	// ListPage returns a filtered page of items plus the total count.
	ListPage(ctx context.Context, f repo.ItemFilter, limit, offset int) (*services.ItemPage, error)
	// Update applies a partial update.
	Update(ctx context.Context, id uint, upd repo.ItemUpdate) (*domain.Item, error)
	// Delete removes an item.
	Delete(ctx context.Context, id uint) error
}

//
// DTOs
//

// CreateItemRequest is the JSON payload for creating an item directly,
// outside the sync pipeline.
type CreateItemRequest struct {
	Title       string   `json:"title" binding:"required,min=1" example:"Fjallraven backpack"`
	Description *string  `json:"description,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Category    *string  `json:"category,omitempty" example:"men's clothing"`
	Price       *float64 `json:"price,omitempty" example:"109.95"`
	Rating      *float64 `json:"rating,omitempty" example:"3.9"`
	ExternalID  string   `json:"external_id,omitempty"`
	SourceURL   string   `json:"source_url,omitempty"`
}

// UpdateItemRequest is the JSON payload for a partial item update. Omitted
// fields are left untouched.
type UpdateItemRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
}

// ItemResponse is the public shape of a catalog item. It mirrors domain.Item
// except that the stored decimal price text is parsed back into a number.
type ItemResponse struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"image_url"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Rating      *float64 `json:"rating"`
	ExternalID  string   `json:"external_id"`
	SourceURL   string   `json:"source_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListItemsResponse wraps a page of items and its pagination envelope.
type ListItemsResponse struct {
	Items   []ItemResponse `json:"items"`
	Total   int64          `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
	HasMore bool           `json:"has_more"`
}

// itemResponse converts a persisted item into its public shape.
func itemResponse(it *domain.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		ImageURL:    it.ImageURL,
		Category:    it.Category,
		Price:       it.PriceValue(),
		Rating:      it.Rating,
		ExternalID:  it.ExternalID,
		SourceURL:   it.SourceURL,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

// itemFilter builds the repo filter from query parameters. Unparseable
// numeric filters are ignored rather than rejected.
func itemFilter(c *gin.Context) repo.ItemFilter {
	var f repo.ItemFilter
	if cat := c.Query("category"); cat != "" {
		f.Category = &cat
	}
	if v, ok := utils.ParseFloat(c.Query("min_price")); ok {
		f.MinPrice = &v
	}
	if v, ok := utils.ParseFloat(c.Query("max_price")); ok {
		f.MaxPrice = &v
	}
	if v, ok := utils.ParseFloat(c.Query("min_rating")); ok {
		f.MinRating = &v
	}
	return f
}

//
// Handlers
//

// CreateItem godoc
// @ID          createItem
// @Summary     Create a catalog item
// @Tags        Items
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreateItemRequest  true  "Create item payload"
// @Success     201  {object}  handlers.ItemResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /items [post]
func (h *Handlers) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title is required")
		return
	}

	it, err := h.itemSvc.Create(c.Request.Context(), services.ItemInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Price:       req.Price,
		Rating:      req.Rating,
		ExternalID:  req.ExternalID,
		SourceURL:   req.SourceURL,
	})
	if err != nil {
		switch err {
		case services.ErrEmptyTitle, services.ErrNegativePrice, services.ErrInvalidRating:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, itemResponse(it))
}

// ListItems godoc
// @ID          listItems
// @Summary     List catalog items (filtered, paginated)
// @Description Returns a page of items. Supports category, price-range and rating filters, offset/limit pagination, and weak ETag via If-None-Match.
// @Tags        Items
// @Produce     json
//
// @Param       If-None-Match  header  string   false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       category       query   string   false "Exact category match"
// @Param       min_price      query   number   false "Inclusive lower price bound"
// @Param       max_price      query   number   false "Inclusive upper price bound"
// @Param       min_rating     query   number   false "Inclusive lower rating bound"
// @Param       limit          query   int      false "Page size"    minimum(1) maximum(100) default(20)
// @Param       offset         query   int      false "Rows to skip" minimum(0) default(0)
//
// @Success     200  {object} handlers.ListItemsResponse
// @Header      200  {string} ETag  "Weak ETag for current catalog state"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /items [get]
func (h *Handlers) ListItems(c *gin.Context) {
	ctx := c.Request.Context()
	limit := utils.AtoiDefault(c.Query("limit"), 20)
	offset := utils.AtoiDefault(c.Query("offset"), 0)
	f := itemFilter(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, okSvc := h.itemSvc.(*services.CatalogService); okSvc {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.ItemsStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"items:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	page, err := h.itemSvc.ListPage(ctx, f, limit, offset)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	items := make([]ItemResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, itemResponse(&page.Items[i]))
	}
	ok(c, http.StatusOK, ListItemsResponse{
		Items:   items,
		Total:   page.Total,
		Limit:   page.Limit,
		Offset:  page.Offset,
		HasMore: page.HasMore,
	})
}

// GetItem godoc
// @ID          getItem
// @Summary     Fetch a catalog item
// @Tags        Items
// @Produce     json
// @Param       id  path  int  true  "Item ID"
// @Success     200  {object}  handlers.ItemResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Item not found"
// @Router      /items/{id} [get]
func (h *Handlers) GetItem(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	it, err := h.itemSvc.Get(c.Request.Context(), id)
	if err != nil {
		if err == services.ErrItemNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "item not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, itemResponse(it))
}

// UpdateItem godoc
// @ID          updateItem
// @Summary     Update a catalog item
// @Tags        Items
// @Accept      json
// @Produce     json
// @Param       id    path  int  true  "Item ID"
// @Param       body  body  handlers.UpdateItemRequest  true  "Fields to update"
// @Success     200  {object}  handlers.ItemResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Item not found"
// @Router      /items/{id} [put]
func (h *Handlers) UpdateItem(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	it, err := h.itemSvc.Update(c.Request.Context(), id, repo.ItemUpdate{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Price:       req.Price,
		Rating:      req.Rating,
	})
	if err != nil {
		switch err {
		case services.ErrItemNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "item not found")
		case services.ErrEmptyTitle, services.ErrNegativePrice, services.ErrInvalidRating:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, itemResponse(it))
}

// DeleteItem godoc
// @ID          deleteItem
// @Summary     Delete a catalog item
// @Tags        Items
// @Param       id  path  int  true  "Item ID"
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "Item not found"
// @Router      /items/{id} [delete]
func (h *Handlers) DeleteItem(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	if err := h.itemSvc.Delete(c.Request.Context(), id); err != nil {
		if err == services.ErrItemNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "item not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		return
	}
	noContent(c)
}
