// Package ingest – Normalizer
//
// This file turns one external feed response into a list of validated,
// internally shaped creation records. External feeds disagree on field names
// (an identifier may arrive as "id", "external_id", or "itemId"; an image as
// "image", "image_url", or "imageUrl"), send explicit nulls where fields are
// simply absent, and mix malformed records into otherwise usable batches.
//
// Policy: transport or JSON-level failures abort the run; per-record defects
// never do. Malformed records are logged, counted in the Summary, and
// skipped, so the caller always learns how much of the feed was usable.
package ingest

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Field alias tables, resolved first-present-wins in the listed order.
// Keeping these declarative makes the mapping testable in isolation.
var (
	idAliases    = []string{"id", "external_id", "itemId"}
	imageAliases = []string{"image", "image_url", "imageUrl"}
)

// NewItem is a validated creation record in internal shape, ready for the
// reconciler. Optional fields are nil when the feed omitted them (or sent
// null or an empty string).
type NewItem struct {
	Title       string
	Description *string
	ImageURL    *string
	Category    *string
	Price       *float64
	Rating      *float64
	ExternalID  string
	SourceURL   string
}

// Summary accounts for one normalization pass.
type Summary struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// Normalize fetches the document at sourceURL and maps it to creation
// records. A single top-level object is treated as a one-element batch.
// Accepted records preserve feed order.
//
// Errors: *FetchError on transport failure, *ParseError when the body is not
// valid JSON. Per-record validation failures are absorbed into the Summary.
// An empty result is not an error.
func Normalize(ctx context.Context, f Fetcher, sourceURL string) ([]NewItem, Summary, error) {
	body, err := f.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, Summary{}, err
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, Summary{}, &ParseError{SourceURL: sourceURL, Err: err}
	}

	batch, ok := raw.([]any)
	if !ok {
		batch = []any{raw}
	}

	var (
		out []NewItem
		sum Summary
	)
	for _, el := range batch {
		rec, ok := el.(map[string]any)
		if !ok {
			sum.Rejected++
			log.Warn().Str("source_url", sourceURL).Msg("skipping non-object feed element")
			continue
		}
		item, reason := normalizeRecord(rec, sourceURL)
		if item == nil {
			sum.Rejected++
			log.Warn().Str("source_url", sourceURL).Str("reason", reason).Msg("skipping invalid feed record")
			continue
		}
		out = append(out, *item)
		sum.Accepted++
	}
	return out, sum, nil
}

// normalizeRecord validates one raw feed record and maps it to a NewItem.
// It returns (nil, reason) when the record must be skipped.
func normalizeRecord(rec map[string]any, sourceURL string) (*NewItem, string) {
	id, hasID := resolveAlias(rec, idAliases)
	if !hasID || !usableIdentifier(id) {
		if s, ok := stringField(rec, "title"); !ok || s == "" {
			return nil, "missing identifier and title"
		}
		return nil, "missing identifier"
	}

	externalID, ok := identifierString(id)
	if !ok {
		return nil, "identifier is neither string nor number"
	}

	title, ok := stringField(rec, "title")
	if !ok || title == "" {
		return nil, "missing or empty title"
	}

	description, ok := optionalString(rec, "description")
	if !ok {
		return nil, "description is not text"
	}
	category, ok := optionalString(rec, "category")
	if !ok {
		return nil, "category is not text"
	}

	var imageURL *string
	if v, present := resolveAlias(rec, imageAliases); present {
		s, ok := v.(string)
		if !ok {
			return nil, "image is not text"
		}
		if s != "" {
			if u, err := url.Parse(s); err != nil || u.Scheme == "" || u.Host == "" {
				return nil, "image is not a URL"
			}
			imageURL = &s
		}
	}

	var price *float64
	if v, present := presentField(rec, "price"); present {
		n, ok := v.(float64)
		if !ok {
			return nil, "price is not a number"
		}
		if n <= 0 {
			return nil, "price is not positive"
		}
		price = &n
	}

	var rating *float64
	if v, present := presentField(rec, "rating"); present {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, "rating is not an object"
		}
		rate, ok := obj["rate"].(float64)
		if !ok {
			return nil, "rating.rate is not a number"
		}
		if c, exists := obj["count"]; exists && c != nil {
			if _, ok := c.(float64); !ok {
				return nil, "rating.count is not a number"
			}
		}
		// The count field is not retained; a zero rate maps to absent.
		if rate != 0 {
			rating = &rate
		}
	}

	return &NewItem{
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
		Category:    category,
		Price:       price,
		Rating:      rating,
		ExternalID:  externalID,
		SourceURL:   sourceURL,
	}, ""
}

// resolveAlias walks the alias table in order and returns the first value
// that is present and not an explicit null. Explicit nulls are coerced to
// absent before resolution, so they never shadow a later alias.
func resolveAlias(rec map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// presentField returns the value of a single key, treating explicit null as
// absent.
func presentField(rec map[string]any, key string) (any, bool) {
	v, ok := rec[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// stringField returns rec[key] as a string. ok is false when the value is
// present but not text; an absent or null value yields ("", true) handling
// deferred to the caller via the empty string.
func stringField(rec map[string]any, key string) (string, bool) {
	v, present := presentField(rec, key)
	if !present {
		return "", true
	}
	s, ok := v.(string)
	return s, ok
}

// optionalString maps an optional text field to a pointer, collapsing
// absent, null, and empty values to nil. ok is false on a type mismatch.
func optionalString(rec map[string]any, key string) (*string, bool) {
	v, present := presentField(rec, key)
	if !present {
		return nil, true
	}
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	if s == "" {
		return nil, true
	}
	return &s, true
}

// usableIdentifier reports whether a resolved identifier can key a record:
// non-empty text or a non-zero number.
func usableIdentifier(v any) bool {
	switch t := v.(type) {
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return false
	}
}

// identifierString coerces a string-or-number identifier to its text form.
// Numbers render without exponent notation ("2", "2.5").
func identifierString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}
