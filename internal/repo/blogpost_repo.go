// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the BlogPost
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a post is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/openshelf/go-catalog-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateBlogPost inserts a new post with the given title and content.
// CreatedAt is set to UTC; the store assigns the ID.
func CreateBlogPost(ctx context.Context, db *gorm.DB, title, content string) (*domain.BlogPost, error) {
	p := &domain.BlogPost{
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ListBlogPosts returns all posts ordered by creation time descending
// (most recent first). It returns an empty slice when there are none.
func ListBlogPosts(ctx context.Context, db *gorm.DB) ([]domain.BlogPost, error) {
	var out []domain.BlogPost
	err := db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// GetBlogPost fetches a single post by ID, or ErrNotFound if missing.
func GetBlogPost(ctx context.Context, db *gorm.DB, id uint) (*domain.BlogPost, error) {
	var p domain.BlogPost
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateBlogPost applies the provided non-nil fields to a post and refreshes
// updated_at. It returns the updated row, or ErrNotFound when the post does
// not exist.
func UpdateBlogPost(ctx context.Context, db *gorm.DB, id uint, title, content *string) (*domain.BlogPost, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if title != nil {
		updates["title"] = *title
	}
	if content != nil {
		updates["content"] = *content
	}

	res := db.WithContext(ctx).
		Model(&domain.BlogPost{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return GetBlogPost(ctx, db, id)
}

// DeleteBlogPost removes a post by ID. It returns ErrNotFound when no row
// was deleted.
func DeleteBlogPost(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.BlogPost{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
