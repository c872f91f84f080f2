// Package services – SyncService
//
// This file implements the SyncService, the reconciler half of the ingestion
// pipeline. It drives the ingest normalizer for a source locator and upserts
// the resulting creation records against existing catalog state by the
// composite natural key (external_id, source_url): update in place on match,
// insert otherwise.
//
// Per-record persistence failures are logged, counted, and skipped; only
// normalizer-stage failures (fetch, parse) abort a run. A batch of N records
// is persisted as N independent operations with no cross-record transaction,
// so partial completion is expected and acceptable. Concurrent syncs of the
// same feed can race on the lookup-then-write sequence; the store carries no
// composite uniqueness constraint, so the race can produce a duplicate row
// rather than an update.
package services

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/openshelf/go-catalog-backend/internal/domain"
	"github.com/openshelf/go-catalog-backend/internal/ingest"
	"github.com/openshelf/go-catalog-backend/internal/repo"
)

// syncRecords counts per-record outcomes across all sync runs, keyed by
// outcome: accepted, rejected, inserted, updated, failed.
var syncRecords = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_sync_records_total",
		Help: "Per-record outcomes of catalog feed synchronization.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(syncRecords)
}

// ItemStore defines the persistence contract required by SyncService.
// Implementations are responsible for catalog item rows.
type ItemStore interface {
	// ListByExternalID returns every item carrying the external identifier.
	ListByExternalID(ctx context.Context, db *gorm.DB, externalID string) ([]domain.Item, error)

	// Create inserts a new catalog row.
	Create(ctx context.Context, db *gorm.DB, item *domain.Item) (*domain.Item, error)

	// UpdateFields rewrites the mutable feed fields of an existing row.
	UpdateFields(ctx context.Context, db *gorm.DB, id uint, f repo.ItemFields) error
}

// SyncSummary accounts for one full ingestion run.
type SyncSummary struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
}

// SyncService orchestrates feed ingestion: normalize, then reconcile.
type SyncService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Feed retrieves external documents.
	Feed ingest.Fetcher
	// Store is the item persistence used by this service.
	Store ItemStore
}

// Preview normalizes the feed at sourceURL without persisting anything.
// Fetch/parse failures propagate; per-record defects are absorbed into the
// returned summary.
func (s *SyncService) Preview(ctx context.Context, sourceURL string) ([]ingest.NewItem, ingest.Summary, error) {
	if sourceURL == "" {
		return nil, ingest.Summary{}, ErrEmptySourceURL
	}
	return ingest.Normalize(ctx, s.Feed, sourceURL)
}

// Sync ingests the feed at sourceURL into the catalog. For each normalized
// record it looks up existing rows by external_id, narrows to the composite
// natural-key match on source_url, and updates in place or inserts.
// external_id, source_url, and created_at are never altered on the update
// path. An empty normalized batch is a no-op success.
func (s *SyncService) Sync(ctx context.Context, sourceURL string) (SyncSummary, error) {
	if sourceURL == "" {
		return SyncSummary{}, ErrEmptySourceURL
	}

	records, nsum, err := ingest.Normalize(ctx, s.Feed, sourceURL)
	if err != nil {
		return SyncSummary{}, err
	}

	sum := SyncSummary{Accepted: nsum.Accepted, Rejected: nsum.Rejected}
	syncRecords.WithLabelValues("accepted").Add(float64(nsum.Accepted))
	syncRecords.WithLabelValues("rejected").Add(float64(nsum.Rejected))

	for _, rec := range records {
		if err := s.reconcile(ctx, rec, &sum); err != nil {
			sum.Failed++
			syncRecords.WithLabelValues("failed").Inc()
			log.Error().Err(err).
				Str("external_id", rec.ExternalID).
				Str("source_url", rec.SourceURL).
				Msg("failed to sync item")
		}
	}

	log.Info().
		Str("source_url", sourceURL).
		Int("accepted", sum.Accepted).
		Int("rejected", sum.Rejected).
		Int("inserted", sum.Inserted).
		Int("updated", sum.Updated).
		Int("failed", sum.Failed).
		Msg("feed sync complete")
	return sum, nil
}

// reconcile persists one creation record, deciding between update and
// insert by the composite natural key.
func (s *SyncService) reconcile(ctx context.Context, rec ingest.NewItem, sum *SyncSummary) error {
	existing, err := s.Store.ListByExternalID(ctx, s.DB, rec.ExternalID)
	if err != nil {
		return err
	}

	var match *domain.Item
	for i := range existing {
		if existing[i].SourceURL == rec.SourceURL {
			match = &existing[i]
			break
		}
	}

	var price *string
	if rec.Price != nil {
		p := domain.FormatPrice(*rec.Price)
		price = &p
	}

	if match != nil {
		if err := s.Store.UpdateFields(ctx, s.DB, match.ID, repo.ItemFields{
			Title:       rec.Title,
			Description: rec.Description,
			ImageURL:    rec.ImageURL,
			Category:    rec.Category,
			Price:       price,
			Rating:      rec.Rating,
		}); err != nil {
			return err
		}
		sum.Updated++
		syncRecords.WithLabelValues("updated").Inc()
		return nil
	}

	if _, err := s.Store.Create(ctx, s.DB, &domain.Item{
		Title:       rec.Title,
		Description: rec.Description,
		ImageURL:    rec.ImageURL,
		Category:    rec.Category,
		Price:       price,
		Rating:      rec.Rating,
		ExternalID:  rec.ExternalID,
		SourceURL:   rec.SourceURL,
	}); err != nil {
		return err
	}
	sum.Inserted++
	syncRecords.WithLabelValues("inserted").Inc()
	return nil
}
