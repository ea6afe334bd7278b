package service

import (
	"context"
	"fmt"
	"time"

	"github.com/marktrack/marktrack-backend/internal/common"
	"github.com/marktrack/marktrack-backend/internal/content"
	"github.com/marktrack/marktrack-backend/internal/domain"
	"github.com/marktrack/marktrack-backend/internal/repository"
	"github.com/marktrack/marktrack-backend/pkg/cache"
	pkglogger "github.com/marktrack/marktrack-backend/pkg/logger"
)

// Presigned URL lifetimes
const (
	archiveURLTTL = 15 * time.Minute
	imageURLTTL   = time.Hour
)

// DocumentConfig carries the tiering and versioning limits
type DocumentConfig struct {
	// MaxInlineSize is the serialized-size threshold above which content
	// moves to object storage
	MaxInlineSize int
	// MaxDocumentSize is the hard cap on serialized content size
	MaxDocumentSize int
	// DocumentBucket holds document envelopes and version snapshots
	DocumentBucket string
	// ImageBucket holds extracted editor images
	ImageBucket string
	// AutosaveLockTTL is the advisory edit lock lifetime
	AutosaveLockTTL time.Duration
}

// DocumentService handles document lifecycle, content tiering and
// version history
type DocumentService interface {
	// Create makes a new, empty inline document
	Create(ctx context.Context, req *domain.CreateDocumentRequest) (*domain.Document, error)
	// Save persists one editor submission, selecting the storage tier
	// from the serialized size and snapshotting the pre-write content
	// on manual saves
	Save(ctx context.Context, id uint64, req *domain.SaveDocumentRequest) (*domain.SaveResult, error)
	// Load returns the fully resolved document content, cache first
	Load(ctx context.Context, id uint64, userEmail string) (*domain.DocumentContent, error)
	// List returns a filtered, paginated page of document summaries
	List(ctx context.Context, q *domain.ListDocumentsQuery) ([]*domain.DocumentSummary, int64, error)
	// SoftDelete flags a document deleted, keeping all content
	SoftDelete(ctx context.Context, id uint64, userEmail string) error
	// RestoreDeleted clears the soft-delete flag
	RestoreDeleted(ctx context.Context, id uint64, userEmail string) error
	// HardDelete removes the document and everything attached to it
	HardDelete(ctx context.Context, id uint64) error
	// ListVersions returns the document's retained snapshots
	ListVersions(ctx context.Context, id uint64) (*domain.VersionListResponse, error)
	// RestoreVersion replaces the live content with a snapshot's,
	// snapshotting the current content first
	RestoreVersion(ctx context.Context, docID, versionID uint64, userEmail string) (*domain.RestoreVersionResult, error)
	// Stats aggregates storage numbers, optionally per owner
	Stats(ctx context.Context, ownerEmail string) (*domain.StorageStats, error)
	// ArchiveURL issues a temporary direct-download URL for a blob-tier
	// document's envelope
	ArchiveURL(ctx context.Context, id uint64) (string, error)
	// ImageURL issues a temporary direct-download URL for an extracted image
	ImageURL(ctx context.Context, filename string) (string, error)
	// LockStatus reports the current autosave lock holder, nil when unlocked
	LockStatus(ctx context.Context, id uint64) (*cache.LockInfo, error)
	// ListActivities returns a document's activity trail
	ListActivities(ctx context.Context, id uint64, page, perPage int) ([]*domain.DocumentActivity, int64, error)
}

type documentService struct {
	docs       repository.DocumentRepository
	versions   repository.VersionRepository
	users      repository.UserRepository
	activities repository.ActivityRepository
	shares     repository.ShareRepository
	ledger     *VersionLedger
	store      ObjectStore
	cache      cache.Service
	extractor  ImageExtractor
	cfg        DocumentConfig
	saveMu     keyedMutex
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	docs repository.DocumentRepository,
	versions repository.VersionRepository,
	users repository.UserRepository,
	activities repository.ActivityRepository,
	shares repository.ShareRepository,
	ledger *VersionLedger,
	store ObjectStore,
	cacheService cache.Service,
	extractor ImageExtractor,
	cfg DocumentConfig,
) DocumentService {
	return &documentService{
		docs:       docs,
		versions:   versions,
		users:      users,
		activities: activities,
		shares:     shares,
		ledger:     ledger,
		store:      store,
		cache:      cacheService,
		extractor:  extractor,
		cfg:        cfg,
	}
}

func (s *documentService) Create(ctx context.Context, req *domain.CreateDocumentRequest) (*domain.Document, error) {
	title := req.Title
	if title == "" {
		title = "Untitled Document"
	}

	doc := &domain.Document{
		Title:        title,
		StorageType:  domain.StorageDatabase,
		DocumentType: domain.DocumentTypeCreated,
	}

	empty := string(content.EmptyDelta)
	html := ""
	doc.ContentDelta = &empty
	doc.ContentHTML = &html
	doc.SizeBytes = content.Size(content.EmptyDelta, html)

	if req.OwnerEmail != "" {
		owner, err := s.users.GetOrCreate(req.OwnerEmail, req.OwnerEmail)
		if err != nil {
			return nil, fmt.Errorf("resolving owner: %w", err)
		}
		doc.OwnerID = &owner.ID
		doc.Owner = owner
	}

	if err := s.docs.Create(doc); err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}

	s.logActivity(doc.ID, req.OwnerEmail, domain.ActivityCreated, "document created")
	pkglogger.GetLogger().Info().Uint64("document_id", doc.ID).Str("title", doc.Title).Msg("document created")
	return doc, nil
}

func (s *documentService) Save(ctx context.Context, id uint64, req *domain.SaveDocumentRequest) (*domain.SaveResult, error) {
	if err := content.ValidateDelta(req.Delta); err != nil {
		return nil, err
	}
	if content.Size(req.Delta, req.HTML) > s.cfg.MaxDocumentSize {
		return nil, common.ErrContentTooLarge
	}

	doc, err := s.docs.FindByID(id)
	if err != nil {
		return nil, err
	}
	if doc.IsDeleted {
		return nil, common.ErrNotFound
	}

	if req.IsAutosave {
		holder, err := s.cache.AcquireAutosaveLock(ctx, id, req.UserEmail, s.cfg.AutosaveLockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquiring autosave lock: %w", err)
		}
		if holder != nil {
			return nil, &common.ConflictError{LockedBy: holder.UserEmail}
		}
	} else {
		summary := "before update"
		if req.UserEmail != "" {
			summary = "before update by " + req.UserEmail
		}
		if _, err := s.ledger.Snapshot(ctx, doc, summary, req.UserEmail); err != nil {
			return nil, err
		}
	}

	delta := s.extractor.Rewrite(ctx, req.Delta)
	size := content.Size(delta, req.HTML)
	tier := content.SelectStorageType(size, s.cfg.MaxInlineSize)

	prevKey := doc.ObjectKey

	switch tier {
	case domain.StorageDatabase:
		deltaStr := string(delta)
		htmlStr := req.HTML
		doc.ContentDelta = &deltaStr
		doc.ContentHTML = &htmlStr
		doc.ObjectKey = nil
	case domain.StorageObject:
		blob, err := content.Pack(delta, req.HTML)
		if err != nil {
			return nil, err
		}
		key := content.NewObjectKey()
		if err := s.store.Put(ctx, s.cfg.DocumentBucket, key, blob, content.EnvelopeContentType); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
		}
		doc.ContentDelta = nil
		doc.ContentHTML = nil
		doc.ObjectKey = &key
	}

	doc.StorageType = tier
	doc.SizeBytes = size
	doc.UpdatedAt = time.Now().UTC()
	if req.Title != "" {
		doc.Title = req.Title
	}

	if err := s.commit(ctx, doc); err != nil {
		return nil, err
	}

	// Snapshots carry their own blob copies, so the superseded live
	// envelope is orphaned once the record points elsewhere
	if prevKey != nil && (doc.ObjectKey == nil || *doc.ObjectKey != *prevKey) {
		s.deleteBlobQuietly(ctx, *prevKey, id)
	}

	if !req.IsAutosave {
		s.logActivity(id, req.UserEmail, domain.ActivityUpdated, "document saved")
	}

	pkglogger.GetLogger().Info().
		Uint64("document_id", id).
		Str("storage_type", tier).
		Int("size_bytes", size).
		Bool("is_autosave", req.IsAutosave).
		Msg("document saved")

	return &domain.SaveResult{
		Status:      "saved",
		StorageType: tier,
		SizeBytes:   size,
		UpdatedAt:   doc.UpdatedAt,
		IsAutosave:  req.IsAutosave,
	}, nil
}

func (s *documentService) Load(ctx context.Context, id uint64, userEmail string) (*domain.DocumentContent, error) {
	var cached domain.DocumentContent
	if s.cache.GetDocument(ctx, id, &cached) {
		s.logActivity(id, userEmail, domain.ActivityViewed, "document viewed")
		return &cached, nil
	}

	resolved, err := s.loadAndCache(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logActivity(id, userEmail, domain.ActivityViewed, "document viewed")
	return resolved, nil
}

// loadAndCache resolves a cache miss under the document's mutex. A save
// holds the same mutex across its record update and cache invalidation,
// so a miss cannot read the pre-save record and then write the
// superseded payload over the save's invalidation.
func (s *documentService) loadAndCache(ctx context.Context, id uint64) (*domain.DocumentContent, error) {
	unlock := s.saveMu.Lock(id)
	defer unlock()

	doc, err := s.docs.FindByID(id)
	if err != nil {
		return nil, err
	}
	if doc.IsDeleted {
		return nil, common.ErrNotFound
	}

	resolved, err := s.resolveContent(ctx, doc)
	if err != nil {
		return nil, err
	}

	s.cache.SetDocument(ctx, id, resolved)
	return resolved, nil
}

// resolveContent materializes a document's delta and HTML from its tier
func (s *documentService) resolveContent(ctx context.Context, doc *domain.Document) (*domain.DocumentContent, error) {
	resolved := &domain.DocumentContent{
		ID:               doc.ID,
		Title:            doc.Title,
		StorageType:      doc.StorageType,
		SizeBytes:        doc.SizeBytes,
		DocumentType:     doc.DocumentType,
		OriginalFilename: doc.OriginalFilename,
		VersionNumber:    doc.VersionNumber,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
		OwnerEmail:       doc.OwnerEmail(),
	}

	if doc.StorageType == domain.StorageObject {
		if doc.ObjectKey == nil {
			return nil, fmt.Errorf("%w: document %d is object-tier but has no object key", common.ErrLoadFailure, doc.ID)
		}
		blob, err := s.store.Get(ctx, s.cfg.DocumentBucket, *doc.ObjectKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrLoadFailure, err)
		}
		delta, html, err := content.Unpack(blob)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrLoadFailure, err)
		}
		resolved.Delta = delta
		resolved.HTML = html
		return resolved, nil
	}

	resolved.Delta = content.EmptyDelta
	if doc.ContentDelta != nil && *doc.ContentDelta != "" {
		resolved.Delta = []byte(*doc.ContentDelta)
	}
	if doc.ContentHTML != nil {
		resolved.HTML = *doc.ContentHTML
	}
	return resolved, nil
}

func (s *documentService) List(ctx context.Context, q *domain.ListDocumentsQuery) ([]*domain.DocumentSummary, int64, error) {
	var ownerID *uint64
	if q.OwnerEmail != "" {
		owner, err := s.users.FindByEmail(q.OwnerEmail)
		if err != nil {
			if err == common.ErrNotFound {
				return []*domain.DocumentSummary{}, 0, nil
			}
			return nil, 0, err
		}
		ownerID = &owner.ID
	}

	docs, total, err := s.docs.List(q, ownerID)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]*domain.DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, doc.ToSummary())
	}
	return summaries, total, nil
}

func (s *documentService) SoftDelete(ctx context.Context, id uint64, userEmail string) error {
	doc, err := s.docs.FindByID(id)
	if err != nil {
		return err
	}
	if doc.IsDeleted {
		return common.ErrNotFound
	}

	if err := s.docs.SoftDelete(id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	s.cache.InvalidateDocument(ctx, id)
	s.logActivity(id, userEmail, domain.ActivityDeleted, "document moved to trash")
	return nil
}

func (s *documentService) RestoreDeleted(ctx context.Context, id uint64, userEmail string) error {
	doc, err := s.docs.FindByID(id)
	if err != nil {
		return err
	}
	if !doc.IsDeleted {
		return common.ErrInvalidInput
	}

	if err := s.docs.RestoreDeleted(id); err != nil {
		return fmt.Errorf("restoring document: %w", err)
	}

	s.logActivity(id, userEmail, domain.ActivityRestored, "document restored from trash")
	return nil
}

// HardDelete removes the document, its snapshots and their blobs, its
// shares and its activity trail. Blob deletes are best-effort; record
// deletes are not.
func (s *documentService) HardDelete(ctx context.Context, id uint64) error {
	doc, err := s.docs.FindByID(id)
	if err != nil {
		return err
	}

	versions, err := s.versions.ListByDocument(id)
	if err != nil {
		return fmt.Errorf("listing versions: %w", err)
	}
	for _, v := range versions {
		if v.ObjectKey != nil {
			s.deleteBlobQuietly(ctx, *v.ObjectKey, id)
		}
	}
	if err := s.versions.DeleteByDocument(id); err != nil {
		return fmt.Errorf("deleting versions: %w", err)
	}

	if err := s.shares.DeleteByDocument(id); err != nil {
		return fmt.Errorf("deleting shares: %w", err)
	}
	if err := s.activities.DeleteByDocument(id); err != nil {
		return fmt.Errorf("deleting activities: %w", err)
	}

	if doc.ObjectKey != nil {
		s.deleteBlobQuietly(ctx, *doc.ObjectKey, id)
	}

	if err := s.docs.HardDelete(id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	s.cache.InvalidateDocument(ctx, id)
	pkglogger.GetLogger().Info().Uint64("document_id", id).Msg("document permanently deleted")
	return nil
}

func (s *documentService) ListVersions(ctx context.Context, id uint64) (*domain.VersionListResponse, error) {
	doc, err := s.docs.FindByID(id)
	if err != nil {
		return nil, err
	}

	versions, err := s.versions.ListByDocument(id)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}

	return &domain.VersionListResponse{
		DocumentID:     doc.ID,
		DocumentTitle:  doc.Title,
		CurrentVersion: doc.VersionNumber,
		Versions:       versions,
	}, nil
}

func (s *documentService) RestoreVersion(ctx context.Context, docID, versionID uint64, userEmail string) (*domain.RestoreVersionResult, error) {
	doc, err := s.docs.FindByID(docID)
	if err != nil {
		return nil, err
	}
	if doc.IsDeleted {
		return nil, common.ErrNotFound
	}

	version, err := s.versions.FindByID(versionID)
	if err != nil {
		return nil, err
	}
	if version.DocumentID != docID {
		return nil, common.ErrVersionMismatch
	}

	summary := fmt.Sprintf("before restoring version %d", version.VersionNumber)
	if _, err := s.ledger.Snapshot(ctx, doc, summary, userEmail); err != nil {
		return nil, err
	}

	delta := content.EmptyDelta
	html := ""
	if version.ObjectKey != nil {
		blob, err := s.store.Get(ctx, s.cfg.DocumentBucket, *version.ObjectKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrLoadFailure, err)
		}
		if delta, html, err = content.Unpack(blob); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrLoadFailure, err)
		}
	} else {
		if version.ContentDelta != nil && *version.ContentDelta != "" {
			delta = []byte(*version.ContentDelta)
		}
		if version.ContentHTML != nil {
			html = *version.ContentHTML
		}
	}

	prevKey := doc.ObjectKey

	// Restored content always lands inline; the next save re-evaluates
	// the tier from its size
	deltaStr := string(delta)
	doc.ContentDelta = &deltaStr
	doc.ContentHTML = &html
	doc.ObjectKey = nil
	doc.StorageType = domain.StorageDatabase
	doc.SizeBytes = content.Size(delta, html)
	doc.VersionNumber++
	doc.UpdatedAt = time.Now().UTC()

	if err := s.commit(ctx, doc); err != nil {
		return nil, err
	}

	if prevKey != nil {
		s.deleteBlobQuietly(ctx, *prevKey, docID)
	}

	s.logActivity(docID, userEmail, domain.ActivityVersionRestored,
		fmt.Sprintf("restored version %d", version.VersionNumber))

	pkglogger.GetLogger().Info().
		Uint64("document_id", docID).
		Int("restored_version", version.VersionNumber).
		Int("new_version", doc.VersionNumber).
		Msg("version restored")

	return &domain.RestoreVersionResult{
		Status:          "restored",
		RestoredVersion: version.VersionNumber,
		NewVersion:      doc.VersionNumber,
	}, nil
}

func (s *documentService) Stats(ctx context.Context, ownerEmail string) (*domain.StorageStats, error) {
	var ownerID *uint64
	if ownerEmail != "" {
		owner, err := s.users.FindByEmail(ownerEmail)
		if err != nil {
			return nil, err
		}
		ownerID = &owner.ID
	}

	stats, err := s.docs.Stats(ownerID)
	if err != nil {
		return nil, fmt.Errorf("aggregating stats: %w", err)
	}
	stats.OwnerEmail = ownerEmail
	return stats, nil
}

func (s *documentService) ArchiveURL(ctx context.Context, id uint64) (string, error) {
	doc, err := s.docs.FindByID(id)
	if err != nil {
		return "", err
	}
	if doc.StorageType != domain.StorageObject || doc.ObjectKey == nil {
		return "", common.ErrInvalidInput
	}

	url, err := s.store.PresignedGet(ctx, s.cfg.DocumentBucket, *doc.ObjectKey, archiveURLTTL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	return url, nil
}

func (s *documentService) ImageURL(ctx context.Context, filename string) (string, error) {
	url, err := s.store.PresignedGet(ctx, s.cfg.ImageBucket, filename, imageURLTTL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	return url, nil
}

func (s *documentService) LockStatus(ctx context.Context, id uint64) (*cache.LockInfo, error) {
	if _, err := s.docs.FindByID(id); err != nil {
		return nil, err
	}
	return s.cache.GetAutosaveLock(ctx, id), nil
}

func (s *documentService) ListActivities(ctx context.Context, id uint64, page, perPage int) ([]*domain.DocumentActivity, int64, error) {
	if _, err := s.docs.FindByID(id); err != nil {
		return nil, 0, err
	}
	return s.activities.ListByDocument(id, page, perPage)
}

// commit persists the record and drops the cached payload. Both steps
// run under the document's mutex, which cache-miss loads also hold
// while reading the record and populating the cache.
func (s *documentService) commit(ctx context.Context, doc *domain.Document) error {
	unlock := s.saveMu.Lock(doc.ID)
	defer unlock()

	if err := s.docs.Update(doc); err != nil {
		return fmt.Errorf("persisting document: %w", err)
	}
	s.cache.InvalidateDocument(ctx, doc.ID)
	return nil
}

func (s *documentService) deleteBlobQuietly(ctx context.Context, key string, docID uint64) {
	if err := s.store.Delete(ctx, s.cfg.DocumentBucket, key); err != nil {
		pkglogger.GetLogger().Warn().Err(err).
			Uint64("document_id", docID).
			Str("object_key", key).
			Msg("superseded blob not deleted, storage may leak")
	}
}

// logActivity records an audit entry; failures are logged and dropped
func (s *documentService) logActivity(docID uint64, userEmail, activityType, description string) {
	if userEmail == "" {
		userEmail = "anonymous"
	}
	activity := &domain.DocumentActivity{
		DocumentID:   docID,
		UserEmail:    userEmail,
		ActivityType: activityType,
	}
	if description != "" {
		activity.Description = &description
	}
	if err := s.activities.Create(activity); err != nil {
		pkglogger.GetLogger().Warn().Err(err).
			Uint64("document_id", docID).
			Str("activity_type", activityType).
			Msg("activity record not written")
	}
}
