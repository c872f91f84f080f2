// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Book model.
//
// Error semantics match the rest of the package: gorm.ErrRecordNotFound
// (aliased as ErrNotFound) for missing rows, raw gorm errors otherwise.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/openshelf/go-catalog-backend/internal/domain"
)

// BookUpdate carries the optional fields of a partial book update.
// Nil fields are left untouched.
type BookUpdate struct {
	Title         *string
	Authors       *string
	Genre         *string
	Description   *string
	CoverImageURL *string
	Content       *string
	Section       *string
}

// CreateBook inserts a new book row. CreatedAt is set to UTC; the store
// assigns the ID. Section validity is enforced at the service layer.
func CreateBook(ctx context.Context, db *gorm.DB, b *domain.Book) (*domain.Book, error) {
	b.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks returns all books ordered by creation time descending.
func ListBooks(ctx context.Context, db *gorm.DB) ([]domain.Book, error) {
	var out []domain.Book
	err := db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListBooksBySection returns books in one section, newest first.
// An empty slice is returned when the section has no books.
func ListBooksBySection(ctx context.Context, db *gorm.DB, section string) ([]domain.Book, error) {
	var out []domain.Book
	err := db.WithContext(ctx).
		Where("section = ?", section).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// GetBook fetches a single book by ID, or ErrNotFound if missing.
func GetBook(ctx context.Context, db *gorm.DB, id uint) (*domain.Book, error) {
	var b domain.Book
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBook applies the non-nil fields of upd to a book and refreshes
// updated_at. It returns the updated row, or ErrNotFound when the book does
// not exist.
func UpdateBook(ctx context.Context, db *gorm.DB, id uint, upd BookUpdate) (*domain.Book, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		updates["title"] = *upd.Title
	}
	if upd.Authors != nil {
		updates["authors"] = *upd.Authors
	}
	if upd.Genre != nil {
		updates["genre"] = *upd.Genre
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.CoverImageURL != nil {
		updates["cover_image_url"] = *upd.CoverImageURL
	}
	if upd.Content != nil {
		updates["content"] = *upd.Content
	}
	if upd.Section != nil {
		updates["section"] = *upd.Section
	}

	res := db.WithContext(ctx).
		Model(&domain.Book{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return GetBook(ctx, db, id)
}

// DeleteBook removes a book by ID. It returns ErrNotFound when no row was
// deleted.
func DeleteBook(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.Book{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
