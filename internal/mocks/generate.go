// Package mocks provides mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the ports interfaces. Regenerate after interface changes with:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	docs := mocks.NewMockDocumentStore(ctrl)
//	docs.EXPECT().Get(gomock.Any(), ports.CollectionAccounts, "u1").Return(doc, nil)
package mocks

// Generate mock for the DocumentStore interface:
// Get, Query, Create, Update, Delete.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=document_store_mock.go github.com/hosteldesk/hosteldesk/internal/ports DocumentStore

// Generate mock for the SessionStore interface: Save, Get, Delete.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=session_store_mock.go github.com/hosteldesk/hosteldesk/internal/ports SessionStore
