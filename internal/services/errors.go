// Package services defines the business logic for blog posts, books, catalog
// items, and feed synchronization. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

var (
	// ErrPostNotFound indicates that the requested blog post does not exist.
	ErrPostNotFound = errors.New("blog post not found")

	// ErrBookNotFound indicates that the requested book does not exist.
	ErrBookNotFound = errors.New("book not found")

	// ErrItemNotFound indicates that the requested catalog item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrEmptyTitle is returned when a create or update request carries a
	// blank title where one is required.
	ErrEmptyTitle = errors.New("title is empty")

	// ErrEmptyContent is returned when a create request carries blank content
	// where content is required.
	ErrEmptyContent = errors.New("content is empty")

	// ErrInvalidSection is returned when a book section is outside the known
	// set (see domain.ValidSection).
	ErrInvalidSection = errors.New("unknown book section")

	// ErrNegativePrice is returned when an item price is below zero.
	ErrNegativePrice = errors.New("price must be non-negative")

	// ErrInvalidRating is returned when an item rating is outside [0, 5].
	ErrInvalidRating = errors.New("rating must be between 0 and 5")

	// ErrEmptySourceURL is returned when a sync is requested without a
	// source locator.
	ErrEmptySourceURL = errors.New("source url is empty")
)
