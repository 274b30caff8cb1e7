package main

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2025, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Wed, 02 Jul 2025 00:00:00 UTC` in time.RFC1123 format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_ string) bool {
	return muid.Valid
}

// MockQueuer implements a fake Queuer.
type MockQueuer struct {
	PushFunc func(ctx context.Context, qid string, entry AuditEntry) error
	PopFunc  func(ctx context.Context, qids ...string) (string, AuditEntry, error)
}

// Push mocks the behavior of enqueueing an audit entry.
func (m *MockQueuer) Push(ctx context.Context, qid string, entry AuditEntry) error {
	return m.PushFunc(ctx, qid, entry)
}

// Pop mocks the behavior of dequeueing an audit entry.
func (m *MockQueuer) Pop(ctx context.Context, qids ...string) (string, AuditEntry, error) {
	return m.PopFunc(ctx, qids...)
}

// MockAuditStorage implements a fake AuditStorage.
type MockAuditStorage struct {
	SaveFunc   func(ctx context.Context, entry AuditEntry) error
	GetAllFunc func(ctx context.Context) ([]AuditEntry, error)
}

// Save mocks the behavior of persisting an audit entry.
func (m *MockAuditStorage) Save(ctx context.Context, entry AuditEntry) error {
	return m.SaveFunc(ctx, entry)
}

// GetAll mocks the behavior of listing all audit entries.
func (m *MockAuditStorage) GetAll(ctx context.Context) ([]AuditEntry, error) {
	return m.GetAllFunc(ctx)
}

// Close satisfies the AuditStorage contract.
func (m *MockAuditStorage) Close() error {
	return nil
}

// MockAuthenticator implements a fake Authenticator.
type MockAuthenticator struct {
	MockToken   string
	MockProfile UserProfile
	RefreshFunc func(ctx context.Context) error
}

// Token returns the configured bearer token.
func (m *MockAuthenticator) Token() string {
	return m.MockToken
}

// IsAuthenticated tells whether a token is configured.
func (m *MockAuthenticator) IsAuthenticated() bool {
	return m.MockToken != ""
}

// CheckAndRefresh mocks the token renewal.
func (m *MockAuthenticator) CheckAndRefresh(ctx context.Context) error {
	if m.RefreshFunc == nil {
		return nil
	}
	return m.RefreshFunc(ctx)
}

// UserInfo returns the configured profile.
func (m *MockAuthenticator) UserInfo() UserProfile {
	return m.MockProfile
}
