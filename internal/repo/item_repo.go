// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Item model.
//
// Items carry the price-precision discipline described in the domain package:
// the price column holds fixed two-decimal text, so range filters compare
// against CAST(price AS REAL) rather than the raw text value.
//
// Functions:
//
//   - CreateItem(ctx, db, item) -> *domain.Item, error
//     Inserts a new catalog row with UTC timestamps.
//
//   - GetItem(ctx, db, id) -> *domain.Item, error
//     Fetches a single item by primary key, or ErrNotFound.
//
//   - UpdateItem(ctx, db, id, upd) -> *domain.Item, error
//     Partial update through the CRUD surface; nil fields untouched.
//
//   - UpdateItemFields(ctx, db, id, fields) -> error
//     Reconciler path: rewrites only the mutable feed fields and updated_at,
//     never external_id, source_url, or created_at.
//
//   - DeleteItem(ctx, db, id) -> error
//     Removes an item, ErrNotFound when missing.
//
//   - ListItemsByExternalID(ctx, db, externalID) -> []domain.Item, error
//     External-id-scoped lookup backing the composite natural-key match.
//
//   - ListItemsPage(ctx, db, f, offset, limit) / CountItems(ctx, db, f)
//     Filtered, offset-paginated listing ordered by created_at descending.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/openshelf/go-catalog-backend/internal/domain"
)

// ItemFilter narrows item listings. Nil fields impose no constraint.
type ItemFilter struct {
	Category  *string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
}

// ItemUpdate carries the optional fields of a partial item update via the
// CRUD surface. Nil fields are left untouched. Price is accepted as a number
// and stored as two-decimal text.
type ItemUpdate struct {
	Title       *string
	Description *string
	ImageURL    *string
	Category    *string
	Price       *float64
	Rating      *float64
	ExternalID  *string
	SourceURL   *string
}

// ItemFields is the set of mutable feed fields the reconciler may rewrite on
// an existing row. Unlike ItemUpdate, nil here means "store NULL": the feed
// is authoritative for all six fields on every sync.
type ItemFields struct {
	Title       string
	Description *string
	ImageURL    *string
	Category    *string
	Price       *string
	Rating      *float64
}

// CreateItem inserts a new catalog row. CreatedAt is set to UTC; the store
// assigns the ID.
func CreateItem(ctx context.Context, db *gorm.DB, item *domain.Item) (*domain.Item, error) {
	item.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem fetches a single item by ID, or ErrNotFound if missing.
func GetItem(ctx context.Context, db *gorm.DB, id uint) (*domain.Item, error) {
	var it domain.Item
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// UpdateItem applies the non-nil fields of upd to an item and refreshes
// updated_at. It returns the updated row, or ErrNotFound when the item does
// not exist.
func UpdateItem(ctx context.Context, db *gorm.DB, id uint, upd ItemUpdate) (*domain.Item, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		updates["title"] = *upd.Title
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.ImageURL != nil {
		updates["image_url"] = *upd.ImageURL
	}
	if upd.Category != nil {
		updates["category"] = *upd.Category
	}
	if upd.Price != nil {
		updates["price"] = domain.FormatPrice(*upd.Price)
	}
	if upd.Rating != nil {
		updates["rating"] = *upd.Rating
	}
	if upd.ExternalID != nil {
		updates["external_id"] = *upd.ExternalID
	}
	if upd.SourceURL != nil {
		updates["source_url"] = *upd.SourceURL
	}

	res := db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return GetItem(ctx, db, id)
}

// UpdateItemFields rewrites the mutable feed fields of an existing item and
// refreshes updated_at. external_id, source_url, and created_at are never
// altered by this path. ErrNotFound is returned when the row is missing.
func UpdateItemFields(ctx context.Context, db *gorm.DB, id uint, f ItemFields) error {
	res := db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":       f.Title,
			"description": f.Description,
			"image_url":   f.ImageURL,
			"category":    f.Category,
			"price":       f.Price,
			"rating":      f.Rating,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteItem removes an item by ID. It returns ErrNotFound when no row was
// deleted.
func DeleteItem(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.Item{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListItemsByExternalID returns every item carrying the given external
// identifier, regardless of source. The reconciler narrows the result to a
// composite natural-key match in memory.
func ListItemsByExternalID(ctx context.Context, db *gorm.DB, externalID string) ([]domain.Item, error) {
	var out []domain.Item
	err := db.WithContext(ctx).
		Where("external_id = ?", externalID).
		Find(&out).Error
	return out, err
}

// ListItemsPage returns a filtered slice of items ordered by creation time
// descending, using offset/limit pagination. Use CountItems with the same
// filter to obtain the total.
func ListItemsPage(ctx context.Context, db *gorm.DB, f ItemFilter, offset, limit int) ([]domain.Item, error) {
	var out []domain.Item
	err := applyItemFilter(db.WithContext(ctx), f).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountItems returns the number of items matching the filter.
func CountItems(ctx context.Context, db *gorm.DB, f ItemFilter) (int64, error) {
	var total int64
	err := applyItemFilter(db.WithContext(ctx).Model(&domain.Item{}), f).
		Count(&total).Error
	return total, err
}

// applyItemFilter composes the WHERE clauses shared by listing and counting.
// Price bounds compare against the numeric value of the decimal-text column.
func applyItemFilter(q *gorm.DB, f ItemFilter) *gorm.DB {
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.MinPrice != nil {
		q = q.Where("CAST(price AS REAL) >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("CAST(price AS REAL) <= ?", *f.MaxPrice)
	}
	if f.MinRating != nil {
		q = q.Where("rating >= ?", *f.MinRating)
	}
	return q
}
