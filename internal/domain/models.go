// Package domain defines the persistence models for blog posts, books, and
// catalog items. These types are mapped with GORM and form the core data
// layer of the catalog application.
package domain

import (
	"strconv"
	"time"
)

// Book sections recognized by the gallery frontend. Books outside these two
// shelves are rejected at the service layer.
const (
	SectionMindAndMachine      = "mind_and_machine"
	SectionVeridionWritersCoop = "veridion_writers_coop"
)

// ValidSection reports whether s names a known book section.
func ValidSection(s string) bool {
	return s == SectionMindAndMachine || s == SectionVeridionWritersCoop
}

// BlogPost represents a single long-form post. Both title and content are
// required; timestamps are managed by GORM.
type BlogPost struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title"      gorm:"type:text;not null"`
	Content   string    `json:"content"    gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for BlogPost.
func (BlogPost) TableName() string { return "blog_posts" }

// Book represents a readable book in one of the gallery sections.
//
// Fields:
//   - Title / Authors / Genre: required descriptive metadata.
//   - Description / CoverImageURL: optional presentation fields.
//   - Content: full book text served to the reader view.
//   - Section: shelf the book belongs to (see Section* constants).
type Book struct {
	ID            uint      `json:"id"              gorm:"primaryKey;autoIncrement"`
	Title         string    `json:"title"           gorm:"type:text;not null"`
	Authors       string    `json:"authors"         gorm:"type:text;not null"`
	Genre         string    `json:"genre"           gorm:"type:text;not null"`
	Description   *string   `json:"description"     gorm:"type:text"`
	CoverImageURL *string   `json:"cover_image_url" gorm:"type:text"`
	Content       string    `json:"content"         gorm:"type:text;not null"`
	Section       string    `json:"section"         gorm:"type:varchar(64);not null;index:idx_book_section"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the database table name for Book.
func (Book) TableName() string { return "books" }

// Item represents a catalog entry maintained by the external sync pipeline
// (and editable through the regular CRUD endpoints).
//
// Price is persisted as fixed-precision decimal text (two places) and must be
// parsed back to a number at every read boundary; see PriceValue. Rating is a
// native float and needs no such conversion.
//
// The pair (ExternalID, SourceURL) is the natural key used by reconciliation.
// It is indexed for lookup speed but deliberately NOT unique at the store
// level: the reconciler owns the upsert decision.
type Item struct {
	ID          uint      `json:"id"          gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title"       gorm:"type:text;not null"`
	Description *string   `json:"description" gorm:"type:text"`
	ImageURL    *string   `json:"image_url"   gorm:"type:text"`
	Category    *string   `json:"category"    gorm:"type:text;index:idx_item_category"`
	Price       *string   `json:"-"           gorm:"type:numeric(10,2)"`
	Rating      *float64  `json:"rating"      gorm:"type:real"`
	ExternalID  string    `json:"external_id" gorm:"type:text;not null;index:idx_item_natural_key,priority:1"`
	SourceURL   string    `json:"source_url"  gorm:"type:text;not null;index:idx_item_natural_key,priority:2"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for Item.
func (Item) TableName() string { return "items" }

// PriceValue parses the stored decimal text back into a number. It returns
// nil when the item has no price. Unparseable stored values also yield nil;
// they cannot be produced through this codebase.
func (i *Item) PriceValue() *float64 {
	if i.Price == nil {
		return nil
	}
	f, err := strconv.ParseFloat(*i.Price, 64)
	if err != nil {
		return nil
	}
	return &f
}

// FormatPrice renders a price as the canonical two-decimal text stored in the
// price column, e.g. 19.95 -> "19.95" and 10 -> "10.00".
func FormatPrice(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
