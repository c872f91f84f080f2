// Package services – BookService
//
// This file implements the BookService, which manages books across the two
// gallery sections. It enforces the section whitelist and required metadata,
// then delegates persistence to the repo package.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/openshelf/go-catalog-backend/internal/domain"
	"github.com/openshelf/go-catalog-backend/internal/repo"
)

// BookService provides book operations backed by the repo package.
type BookService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// BookInput carries the fields accepted when creating a book.
type BookInput struct {
	Title         string
	Authors       string
	Genre         string
	Description   *string
	CoverImageURL *string
	Content       string
	Section       string
}

// Create inserts a new book after validating required metadata and the
// section whitelist.
func (s *BookService) Create(ctx context.Context, in BookInput) (*domain.Book, error) {
	in.Title = normalizeText(in.Title)
	if in.Title == "" {
		return nil, ErrEmptyTitle
	}
	if strings.TrimSpace(in.Authors) == "" || strings.TrimSpace(in.Genre) == "" {
		return nil, ErrEmptyContent
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, ErrEmptyContent
	}
	if !domain.ValidSection(in.Section) {
		return nil, ErrInvalidSection
	}
	b := &domain.Book{
		Title:         in.Title,
		Authors:       in.Authors,
		Genre:         in.Genre,
		Description:   in.Description,
		CoverImageURL: in.CoverImageURL,
		Content:       in.Content,
		Section:       in.Section,
	}
	return repo.CreateBook(ctx, s.DB, b)
}

// List returns all books, newest first.
func (s *BookService) List(ctx context.Context) ([]domain.Book, error) {
	return repo.ListBooks(ctx, s.DB)
}

// ListBySection returns the books shelved in one section, newest first.
// Unknown sections yield ErrInvalidSection rather than an empty slice so
// typos surface to the caller.
func (s *BookService) ListBySection(ctx context.Context, section string) ([]domain.Book, error) {
	if !domain.ValidSection(section) {
		return nil, ErrInvalidSection
	}
	return repo.ListBooksBySection(ctx, s.DB, section)
}

// Get fetches one book by ID, mapping a missing row to ErrBookNotFound.
func (s *BookService) Get(ctx context.Context, id uint) (*domain.Book, error) {
	b, err := repo.GetBook(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	return b, err
}

// Update applies a partial update. A provided section must be in the
// whitelist; a provided title must be non-blank.
func (s *BookService) Update(ctx context.Context, id uint, upd repo.BookUpdate) (*domain.Book, error) {
	if upd.Title != nil {
		t := normalizeText(*upd.Title)
		if t == "" {
			return nil, ErrEmptyTitle
		}
		upd.Title = &t
	}
	if upd.Section != nil && !domain.ValidSection(*upd.Section) {
		return nil, ErrInvalidSection
	}
	b, err := repo.UpdateBook(ctx, s.DB, id, upd)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	return b, err
}

// Delete removes a book, mapping a missing row to ErrBookNotFound.
func (s *BookService) Delete(ctx context.Context, id uint) error {
	err := repo.DeleteBook(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBookNotFound
	}
	return err
}
