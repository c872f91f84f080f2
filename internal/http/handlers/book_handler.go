// Book HTTP handlers.
//
// This file exposes REST endpoints for book resources:
//   - POST   /books           (create)
//   - GET    /books           (list, optional ?section= filter)
//   - GET    /books/{id}      (fetch one)
//   - PUT    /books/{id}      (partial update)
//   - DELETE /books/{id}      (delete)
//
// Books are shelved into one of two gallery sections; the section whitelist
// is enforced by the service layer.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/go-catalog-backend/internal/domain"
	"github.com/openshelf/go-catalog-backend/internal/repo"
	"github.com/openshelf/go-catalog-backend/internal/services"
)

// BookService defines book lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type BookService interface {
	// Create inserts a new book.
	Create(ctx context.Context, in services.BookInput) (*domain.Book, error)
	// List returns all books, newest first.
	List(ctx context.Context) ([]domain.Book, error)
	// ListBySection returns the books shelved in one section.
	ListBySection(ctx context.Context, section string) ([]domain.Book, error)
	// Get fetches one book by ID.
	Get(ctx context.Context, id uint) (*domain.Book, error)
	// Update applies a partial update.
	Update(ctx context.Context, id uint, upd repo.BookUpdate) (*domain.Book, error)
	// Delete removes a book.
	Delete(ctx context.Context, id uint) error
}

// CreateBookRequest is the JSON payload for creating a book.
type CreateBookRequest struct {
	Title         string  `json:"title"   binding:"required,min=1" example:"The Glass Orchard"`
	Authors       string  `json:"authors" binding:"required,min=1" example:"R. Calloway"`
	Genre         string  `json:"genre"   binding:"required,min=1" example:"Fiction"`
	Description   *string `json:"description,omitempty"`
	CoverImageURL *string `json:"cover_image_url,omitempty"`
	Content       string  `json:"content" binding:"required,min=1"`
	Section       string  `json:"section" binding:"required" example:"mind_and_machine"`
}

// UpdateBookRequest is the JSON payload for a partial book update. Omitted
// fields are left untouched.
type UpdateBookRequest struct {
	Title         *string `json:"title,omitempty"`
	Authors       *string `json:"authors,omitempty"`
	Genre         *string `json:"genre,omitempty"`
	Description   *string `json:"description,omitempty"`
	CoverImageURL *string `json:"cover_image_url,omitempty"`
	Content       *string `json:"content,omitempty"`
	Section       *string `json:"section,omitempty"`
}

// CreateBook godoc
// @ID          createBook
// @Summary     Create a book
// @Tags        Books
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreateBookRequest  true  "Create book payload"
// @Success     201  {object}  domain.Book
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /books [post]
func (h *Handlers) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title, authors, genre, content and section are required")
		return
	}

	b, err := h.bookSvc.Create(c.Request.Context(), services.BookInput{
		Title:         req.Title,
		Authors:       req.Authors,
		Genre:         req.Genre,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
		Content:       req.Content,
		Section:       req.Section,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSection):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "section must be one of: mind_and_machine, veridion_writers_coop")
		case errors.Is(err, services.ErrEmptyTitle), errors.Is(err, services.ErrEmptyContent):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, b)
}

// ListBooks godoc
// @ID          listBooks
// @Summary     List books
// @Description Returns all books, newest first. Pass ?section= to restrict to one gallery section.
// @Tags        Books
// @Produce     json
// @Param       section  query  string  false  "Gallery section"  Enums(mind_and_machine, veridion_writers_coop)
// @Success     200  {array}   domain.Book
// @Failure     400  {object}  handlers.ErrorResponse  "Unknown section"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /books [get]
func (h *Handlers) ListBooks(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		books []domain.Book
		err   error
	)
	if section := c.Query("section"); section != "" {
		books, err = h.bookSvc.ListBySection(ctx, section)
	} else {
		books, err = h.bookSvc.List(ctx)
	}
	if err != nil {
		if errors.Is(err, services.ErrInvalidSection) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown section")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if books == nil {
		books = []domain.Book{}
	}
	ok(c, http.StatusOK, books)
}

// GetBook godoc
// @ID          getBook
// @Summary     Fetch a book
// @Tags        Books
// @Produce     json
// @Param       id  path  int  true  "Book ID"
// @Success     200  {object}  domain.Book
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Book not found"
// @Router      /books/{id} [get]
func (h *Handlers) GetBook(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	b, err := h.bookSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrBookNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "book not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, b)
}

// UpdateBook godoc
// @ID          updateBook
// @Summary     Update a book
// @Tags        Books
// @Accept      json
// @Produce     json
// @Param       id    path  int  true  "Book ID"
// @Param       body  body  handlers.UpdateBookRequest  true  "Fields to update"
// @Success     200  {object}  domain.Book
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Book not found"
// @Router      /books/{id} [put]
func (h *Handlers) UpdateBook(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	b, err := h.bookSvc.Update(c.Request.Context(), id, repo.BookUpdate{
		Title:         req.Title,
		Authors:       req.Authors,
		Genre:         req.Genre,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
		Content:       req.Content,
		Section:       req.Section,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "book not found")
		case errors.Is(err, services.ErrInvalidSection), errors.Is(err, services.ErrEmptyTitle):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, b)
}

// DeleteBook godoc
// @ID          deleteBook
// @Summary     Delete a book
// @Tags        Books
// @Param       id  path  int  true  "Book ID"
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "Book not found"
// @Router      /books/{id} [delete]
func (h *Handlers) DeleteBook(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	if err := h.bookSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrBookNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "book not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		return
	}
	noContent(c)
}
