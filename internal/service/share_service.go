package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marktrack/marktrack-backend/internal/common"
	"github.com/marktrack/marktrack-backend/internal/domain"
	"github.com/marktrack/marktrack-backend/internal/repository"
	pkglogger "github.com/marktrack/marktrack-backend/pkg/logger"
)

// ShareConfig carries share link policy
type ShareConfig struct {
	// DefaultExpiry applies when a grant does not name its own lifetime
	DefaultExpiry time.Duration
}

// ShareService handles token-addressable document access grants
type ShareService interface {
	// Create grants a user access to a document and returns the grant
	// with its access token
	Create(ctx context.Context, docID uint64, req *domain.CreateShareRequest) (*domain.DocumentShare, error)
	// Resolve returns the grant and the document behind a token,
	// recording the access
	Resolve(ctx context.Context, token string) (*domain.SharedDocumentResponse, error)
	// ListByDocument returns all grants on a document
	ListByDocument(ctx context.Context, docID uint64) ([]*domain.DocumentShare, error)
	// ListByUser returns active grants held by a user
	ListByUser(ctx context.Context, userEmail string) ([]*domain.DocumentShare, error)
	// Update changes an existing grant's permission or expiry
	Update(ctx context.Context, shareID uint64, req *domain.UpdateShareRequest) (*domain.DocumentShare, error)
	// Revoke deactivates a grant without deleting it
	Revoke(ctx context.Context, shareID uint64) error
}

type shareService struct {
	shares   repository.ShareRepository
	users    repository.UserRepository
	docs     DocumentService
	docsRepo repository.DocumentRepository
	cfg      ShareConfig
}

// NewShareService creates a new ShareService
func NewShareService(
	shares repository.ShareRepository,
	users repository.UserRepository,
	docs DocumentService,
	docsRepo repository.DocumentRepository,
	cfg ShareConfig,
) ShareService {
	return &shareService{shares: shares, users: users, docs: docs, docsRepo: docsRepo, cfg: cfg}
}

// newShareToken generates an unguessable, URL-safe access token
func newShareToken() string {
	return strings.ReplaceAll(uuid.New().String()+uuid.New().String(), "-", "")
}

func (s *shareService) Create(ctx context.Context, docID uint64, req *domain.CreateShareRequest) (*domain.DocumentShare, error) {
	level := req.PermissionLevel
	if level == "" {
		level = domain.PermissionRead
	}
	if !domain.ValidPermission(level) {
		return nil, common.ErrInvalidInput
	}

	doc, err := s.docsRepo.FindByID(docID)
	if err != nil {
		return nil, err
	}
	if doc.IsDeleted {
		return nil, common.ErrNotFound
	}

	user, err := s.users.GetOrCreate(req.UserEmail, req.UserEmail)
	if err != nil {
		return nil, fmt.Errorf("resolving share recipient: %w", err)
	}

	expiry := s.cfg.DefaultExpiry
	if req.ExpiresInHours > 0 {
		expiry = time.Duration(req.ExpiresInHours) * time.Hour
	}
	expiresAt := time.Now().UTC().Add(expiry)

	share := &domain.DocumentShare{
		DocumentID:      docID,
		UserID:          user.ID,
		User:            user,
		PermissionLevel: level,
		ShareToken:      newShareToken(),
		IsActive:        true,
		ExpiresAt:       &expiresAt,
		SharedByEmail:   req.SharedByEmail,
	}
	if req.ShareMessage != "" {
		share.ShareMessage = &req.ShareMessage
	}

	if err := s.shares.Create(share); err != nil {
		return nil, fmt.Errorf("creating share: %w", err)
	}

	pkglogger.GetLogger().Info().
		Uint64("document_id", docID).
		Uint64("share_id", share.ID).
		Str("permission_level", level).
		Msg("document shared")

	return share, nil
}

func (s *shareService) Resolve(ctx context.Context, token string) (*domain.SharedDocumentResponse, error) {
	share, err := s.shares.FindByToken(token)
	if err != nil {
		return nil, err
	}
	if !share.IsActive {
		return nil, common.ErrShareRevoked
	}
	if share.IsExpired(time.Now().UTC()) {
		return nil, common.ErrShareExpired
	}

	viewer := ""
	if share.User != nil {
		viewer = share.User.Email
	}
	doc, err := s.docs.Load(ctx, share.DocumentID, viewer)
	if err != nil {
		return nil, err
	}

	if err := s.shares.RecordAccess(share.ID, time.Now().UTC()); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Uint64("share_id", share.ID).Msg("share access not recorded")
	}

	return &domain.SharedDocumentResponse{Share: share, Document: doc}, nil
}

func (s *shareService) ListByDocument(ctx context.Context, docID uint64) ([]*domain.DocumentShare, error) {
	if _, err := s.docsRepo.FindByID(docID); err != nil {
		return nil, err
	}
	return s.shares.ListByDocument(docID)
}

func (s *shareService) ListByUser(ctx context.Context, userEmail string) ([]*domain.DocumentShare, error) {
	user, err := s.users.FindByEmail(userEmail)
	if err != nil {
		if err == common.ErrNotFound {
			return []*domain.DocumentShare{}, nil
		}
		return nil, err
	}
	return s.shares.ListByUser(user.ID)
}

func (s *shareService) Update(ctx context.Context, shareID uint64, req *domain.UpdateShareRequest) (*domain.DocumentShare, error) {
	share, err := s.shares.FindByID(shareID)
	if err != nil {
		return nil, err
	}

	if req.PermissionLevel != "" {
		if !domain.ValidPermission(req.PermissionLevel) {
			return nil, common.ErrInvalidInput
		}
		share.PermissionLevel = req.PermissionLevel
	}
	if req.ExpiresInHours > 0 {
		expiresAt := time.Now().UTC().Add(time.Duration(req.ExpiresInHours) * time.Hour)
		share.ExpiresAt = &expiresAt
	}

	if err := s.shares.Update(share); err != nil {
		return nil, fmt.Errorf("updating share: %w", err)
	}
	return share, nil
}

func (s *shareService) Revoke(ctx context.Context, shareID uint64) error {
	share, err := s.shares.FindByID(shareID)
	if err != nil {
		return err
	}
	if !share.IsActive {
		return nil
	}

	share.IsActive = false
	if err := s.shares.Update(share); err != nil {
		return fmt.Errorf("revoking share: %w", err)
	}

	pkglogger.GetLogger().Info().Uint64("share_id", shareID).Msg("share revoked")
	return nil
}
