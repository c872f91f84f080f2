// Package services – CatalogService
//
// This file implements the CatalogService, the CRUD surface over catalog
// items. It validates numeric bounds (non-negative price, rating in [0,5])
// and keeps the price-precision discipline: prices cross into persistence as
// fixed two-decimal text and back out as numbers only through
// domain.Item.PriceValue.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/openshelf/go-catalog-backend/internal/domain"
	"github.com/openshelf/go-catalog-backend/internal/repo"
)

// CatalogService provides item CRUD and filtered listing backed by the repo
// package.
type CatalogService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// ItemInput carries the fields accepted when creating an item directly
// (outside the sync pipeline).
type ItemInput struct {
	Title       string
	Description *string
	ImageURL    *string
	Category    *string
	Price       *float64
	Rating      *float64
	ExternalID  string
	SourceURL   string
}

// ItemPage is one page of a filtered item listing.
type ItemPage struct {
	Items   []domain.Item
	Total   int64
	Limit   int
	Offset  int
	HasMore bool
}

// Create inserts a new item after validating bounds.
func (s *CatalogService) Create(ctx context.Context, in ItemInput) (*domain.Item, error) {
	in.Title = normalizeText(in.Title)
	if in.Title == "" {
		return nil, ErrEmptyTitle
	}
	if err := checkBounds(in.Price, in.Rating); err != nil {
		return nil, err
	}

	it := &domain.Item{
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		Rating:      in.Rating,
		ExternalID:  in.ExternalID,
		SourceURL:   in.SourceURL,
	}
	if in.Price != nil {
		p := domain.FormatPrice(*in.Price)
		it.Price = &p
	}
	return repo.CreateItem(ctx, s.DB, it)
}

// Get fetches one item by ID, mapping a missing row to ErrItemNotFound.
func (s *CatalogService) Get(ctx context.Context, id uint) (*domain.Item, error) {
	it, err := repo.GetItem(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	return it, err
}

// ListPage returns one page of items matching the filter, along with the
// total and a has-more flag. Invalid limits fall back to defaults; the
// offset is clamped at zero.
func (s *CatalogService) ListPage(ctx context.Context, f repo.ItemFilter, limit, offset int) (*ItemPage, error) {
	const (
		defaultLimit = 20
		maxLimit     = 100
	)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	total, err := repo.CountItems(ctx, s.DB, f)
	if err != nil {
		return nil, err
	}

	var items []domain.Item
	if total > 0 {
		items, err = repo.ListItemsPage(ctx, s.DB, f, offset, limit)
		if err != nil {
			return nil, err
		}
	}
	if items == nil {
		items = []domain.Item{}
	}

	return &ItemPage{
		Items:   items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	}, nil
}

// Update applies a partial update after validating bounds on any provided
// numeric fields.
func (s *CatalogService) Update(ctx context.Context, id uint, upd repo.ItemUpdate) (*domain.Item, error) {
	if upd.Title != nil {
		t := normalizeText(*upd.Title)
		if t == "" {
			return nil, ErrEmptyTitle
		}
		upd.Title = &t
	}
	if err := checkBounds(upd.Price, upd.Rating); err != nil {
		return nil, err
	}
	it, err := repo.UpdateItem(ctx, s.DB, id, upd)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	return it, err
}

// Delete removes an item, mapping a missing row to ErrItemNotFound.
func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	err := repo.DeleteItem(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrItemNotFound
	}
	return err
}

// checkBounds validates the shared numeric constraints on price and rating.
func checkBounds(price, rating *float64) error {
	if price != nil && *price < 0 {
		return ErrNegativePrice
	}
	if rating != nil && (*rating < 0 || *rating > 5) {
		return ErrInvalidRating
	}
	return nil
}
