// Package services – BlogService
//
// This file implements the BlogService, which manages the lifecycle of blog
// posts. It validates and normalizes input, then coordinates repository
// operations for creating, listing, fetching, updating, and deleting posts.
//
// Service-level errors (e.g., ErrPostNotFound) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/openshelf/go-catalog-backend/internal/domain"
	"github.com/openshelf/go-catalog-backend/internal/repo"
	"github.com/openshelf/go-catalog-backend/internal/search"
)

// BlogService provides blog post operations backed by the repo package.
type BlogService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Create inserts a new post. Title and content are required; the title is
// trimmed and Unicode-normalized before storage.
func (s *BlogService) Create(ctx context.Context, title, content string) (*domain.BlogPost, error) {
	title = normalizeText(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	return repo.CreateBlogPost(ctx, s.DB, title, content)
}

// List returns all posts, newest first.
func (s *BlogService) List(ctx context.Context) ([]domain.BlogPost, error) {
	return repo.ListBlogPosts(ctx, s.DB)
}

// Get fetches one post by ID, mapping a missing row to ErrPostNotFound.
func (s *BlogService) Get(ctx context.Context, id uint) (*domain.BlogPost, error) {
	p, err := repo.GetBlogPost(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	return p, err
}

// Update applies a partial update. Provided fields must still satisfy the
// creation rules (non-blank title/content).
func (s *BlogService) Update(ctx context.Context, id uint, title, content *string) (*domain.BlogPost, error) {
	if title != nil {
		t := normalizeText(*title)
		if t == "" {
			return nil, ErrEmptyTitle
		}
		title = &t
	}
	if content != nil && strings.TrimSpace(*content) == "" {
		return nil, ErrEmptyContent
	}
	p, err := repo.UpdateBlogPost(ctx, s.DB, id, title, content)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	return p, err
}

// Delete removes a post, mapping a missing row to ErrPostNotFound.
func (s *BlogService) Delete(ctx context.Context, id uint) error {
	err := repo.DeleteBlogPost(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	return err
}

// SearchHit is one ranked snippet from a blog post search.
type SearchHit struct {
	PostID  uint    `json:"post_id"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// Search ranks post paragraphs against the query and returns up to k hits.
// The index is rebuilt per call from current posts; the corpus is small enough
// that this stays cheap and always reflects the latest edits.
func (s *BlogService) Search(ctx context.Context, query string, k int) ([]SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return []SearchHit{}, nil
	}

	posts, err := repo.ListBlogPosts(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	docs := make([]search.Document, 0, len(posts))
	titles := make(map[uint]string, len(posts))
	for _, p := range posts {
		docs = append(docs, search.Document{ID: p.ID, Title: p.Title, Content: p.Content})
		titles[p.ID] = p.Title
	}

	hits := []SearchHit{}
	for _, r := range search.NewIndex(docs).TopK(query, k) {
		hits = append(hits, SearchHit{
			PostID:  r.PostID,
			Title:   titles[r.PostID],
			Snippet: r.Snippet,
			Score:   r.Score,
		})
	}
	return hits, nil
}

// normalizeText trims surrounding whitespace and applies NFC normalization so
// visually identical titles compare equal regardless of input encoding.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
