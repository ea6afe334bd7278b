package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/marktrack/marktrack-backend/internal/domain"
	"github.com/marktrack/marktrack-backend/pkg/cache"
)

// MockDocumentRepository is a mock implementation of DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(doc *domain.Document) error {
	args := m.Called(doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindByID(id uint64) (*domain.Document, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) Update(doc *domain.Document) error {
	args := m.Called(doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) List(q *domain.ListDocumentsQuery, ownerID *uint64) ([]*domain.Document, int64, error) {
	args := m.Called(q, ownerID)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Document), args.Get(1).(int64), args.Error(2)
}

func (m *MockDocumentRepository) SoftDelete(id uint64, at time.Time) error {
	args := m.Called(id, at)
	return args.Error(0)
}

func (m *MockDocumentRepository) RestoreDeleted(id uint64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockDocumentRepository) HardDelete(id uint64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockDocumentRepository) Stats(ownerID *uint64) (*domain.StorageStats, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StorageStats), args.Error(1)
}

// MockVersionRepository is a mock implementation of VersionRepository
type MockVersionRepository struct {
	mock.Mock
}

func (m *MockVersionRepository) Create(version *domain.DocumentVersion) error {
	args := m.Called(version)
	return args.Error(0)
}

func (m *MockVersionRepository) FindByID(id uint64) (*domain.DocumentVersion, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentVersion), args.Error(1)
}

func (m *MockVersionRepository) CountByDocument(documentID uint64) (int64, error) {
	args := m.Called(documentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVersionRepository) OldestByDocument(documentID uint64, limit int) ([]*domain.DocumentVersion, error) {
	args := m.Called(documentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DocumentVersion), args.Error(1)
}

func (m *MockVersionRepository) ListByDocument(documentID uint64) ([]*domain.DocumentVersion, error) {
	args := m.Called(documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DocumentVersion), args.Error(1)
}

func (m *MockVersionRepository) Delete(id uint64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockVersionRepository) DeleteByDocument(documentID uint64) error {
	args := m.Called(documentID)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByEmail(email string) (*domain.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetOrCreate(email, name string) (*domain.User, error) {
	args := m.Called(email, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockActivityRepository is a mock implementation of ActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(activity *domain.DocumentActivity) error {
	args := m.Called(activity)
	return args.Error(0)
}

func (m *MockActivityRepository) ListByDocument(documentID uint64, page, perPage int) ([]*domain.DocumentActivity, int64, error) {
	args := m.Called(documentID, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.DocumentActivity), args.Get(1).(int64), args.Error(2)
}

func (m *MockActivityRepository) DeleteByDocument(documentID uint64) error {
	args := m.Called(documentID)
	return args.Error(0)
}

// MockShareRepository is a mock implementation of ShareRepository
type MockShareRepository struct {
	mock.Mock
}

func (m *MockShareRepository) Create(share *domain.DocumentShare) error {
	args := m.Called(share)
	return args.Error(0)
}

func (m *MockShareRepository) FindByID(id uint64) (*domain.DocumentShare, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentShare), args.Error(1)
}

func (m *MockShareRepository) FindByToken(token string) (*domain.DocumentShare, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentShare), args.Error(1)
}

func (m *MockShareRepository) ListByDocument(documentID uint64) ([]*domain.DocumentShare, error) {
	args := m.Called(documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DocumentShare), args.Error(1)
}

func (m *MockShareRepository) ListByUser(userID uint64) ([]*domain.DocumentShare, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DocumentShare), args.Error(1)
}

func (m *MockShareRepository) Update(share *domain.DocumentShare) error {
	args := m.Called(share)
	return args.Error(0)
}

func (m *MockShareRepository) RecordAccess(id uint64, at time.Time) error {
	args := m.Called(id, at)
	return args.Error(0)
}

func (m *MockShareRepository) DeleteByDocument(documentID uint64) error {
	args := m.Called(documentID)
	return args.Error(0)
}

// MockObjectStore is a mock implementation of ObjectStore
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	args := m.Called(bucket, key, data, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	args := m.Called(bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectStore) Delete(ctx context.Context, bucket, key string) error {
	args := m.Called(bucket, key)
	return args.Error(0)
}

func (m *MockObjectStore) PresignedGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	args := m.Called(bucket, key, expiry)
	return args.String(0), args.Error(1)
}

// MockCacheService is a mock implementation of cache.Service
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetDocument(ctx context.Context, docID uint64, dest interface{}) bool {
	args := m.Called(docID, dest)
	return args.Bool(0)
}

func (m *MockCacheService) SetDocument(ctx context.Context, docID uint64, data interface{}) {
	m.Called(docID, data)
}

func (m *MockCacheService) InvalidateDocument(ctx context.Context, docID uint64) {
	m.Called(docID)
}

func (m *MockCacheService) AcquireAutosaveLock(ctx context.Context, docID uint64, userEmail string, ttl time.Duration) (*cache.LockInfo, error) {
	args := m.Called(docID, userEmail, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cache.LockInfo), args.Error(1)
}

func (m *MockCacheService) GetAutosaveLock(ctx context.Context, docID uint64) *cache.LockInfo {
	args := m.Called(docID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*cache.LockInfo)
}

func (m *MockCacheService) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}

// passthroughExtractor returns deltas unchanged
type passthroughExtractor struct{}

func (passthroughExtractor) Rewrite(_ context.Context, delta json.RawMessage) json.RawMessage {
	return delta
}
