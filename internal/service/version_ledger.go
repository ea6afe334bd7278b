package service

import (
	"context"
	"fmt"

	"github.com/marktrack/marktrack-backend/internal/content"
	"github.com/marktrack/marktrack-backend/internal/domain"
	"github.com/marktrack/marktrack-backend/internal/repository"
	pkglogger "github.com/marktrack/marktrack-backend/pkg/logger"
)

// VersionLedger maintains the bounded per-document snapshot history.
// It evicts the oldest snapshots once the cap is reached and always
// copies the document's pre-write content into the new snapshot, at the
// document's current tier. Autosave policy lives with the caller; the
// ledger snapshots whenever it is asked to.
type VersionLedger struct {
	versions repository.VersionRepository
	store    ObjectStore
	bucket   string
	keep     int
}

// NewVersionLedger creates a new VersionLedger
func NewVersionLedger(versions repository.VersionRepository, store ObjectStore, bucket string, keep int) *VersionLedger {
	return &VersionLedger{versions: versions, store: store, bucket: bucket, keep: keep}
}

// Snapshot records the document's current content as a new version,
// evicting the oldest snapshots first when the cap is reached. Blob
// deletion during eviction is best-effort: a failing delete is logged
// and the snapshot record is removed regardless, so eviction never
// blocks a save. The new snapshot must persist, though; its failure
// propagates because the overwrite that follows relies on it.
func (l *VersionLedger) Snapshot(ctx context.Context, doc *domain.Document, changeSummary, createdBy string) (*domain.DocumentVersion, error) {
	count, err := l.versions.CountByDocument(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("counting versions: %w", err)
	}

	if count >= int64(l.keep) {
		evict := int(count) - l.keep + 1
		oldest, err := l.versions.OldestByDocument(doc.ID, evict)
		if err != nil {
			return nil, fmt.Errorf("locating oldest versions: %w", err)
		}
		for _, old := range oldest {
			if old.ObjectKey != nil {
				if err := l.store.Delete(ctx, l.bucket, *old.ObjectKey); err != nil {
					pkglogger.GetLogger().Warn().Err(err).
						Uint64("document_id", doc.ID).
						Uint64("version_id", old.ID).
						Str("object_key", *old.ObjectKey).
						Msg("evicted version blob not deleted, storage may leak")
				}
			}
			if err := l.versions.Delete(old.ID); err != nil {
				return nil, fmt.Errorf("evicting version %d: %w", old.ID, err)
			}
		}
	}

	version := &domain.DocumentVersion{
		DocumentID:    doc.ID,
		VersionNumber: int(count) + 1,
		SizeBytes:     doc.SizeBytes,
		CreatedBy:     createdBy,
	}
	if changeSummary != "" {
		version.ChangeSummary = &changeSummary
	}

	if err := l.copyContent(ctx, doc, version); err != nil {
		return nil, err
	}

	if err := l.versions.Create(version); err != nil {
		return nil, fmt.Errorf("persisting version: %w", err)
	}

	pkglogger.GetLogger().Info().
		Uint64("document_id", doc.ID).
		Int("version_number", version.VersionNumber).
		Msg("version snapshot created")

	return version, nil
}

// copyContent copies the document's live content into the snapshot at
// the same tier. Blob-tier content is duplicated under a fresh key so
// the snapshot owns its blob outright; later live writes or tier
// migrations cannot invalidate it.
func (l *VersionLedger) copyContent(ctx context.Context, doc *domain.Document, version *domain.DocumentVersion) error {
	if doc.StorageType == domain.StorageObject && doc.ObjectKey != nil {
		blob, err := l.store.Get(ctx, l.bucket, *doc.ObjectKey)
		if err != nil {
			return fmt.Errorf("reading live blob for snapshot: %w", err)
		}
		key := content.NewObjectKey()
		if err := l.store.Put(ctx, l.bucket, key, blob, content.EnvelopeContentType); err != nil {
			return fmt.Errorf("writing snapshot blob: %w", err)
		}
		version.ObjectKey = &key
		return nil
	}

	if doc.ContentDelta != nil {
		delta := *doc.ContentDelta
		version.ContentDelta = &delta
	}
	if doc.ContentHTML != nil {
		html := *doc.ContentHTML
		version.ContentHTML = &html
	}
	return nil
}
