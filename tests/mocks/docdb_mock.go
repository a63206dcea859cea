package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sri-intel/console-service/internal/core/docdb"
	"github.com/sri-intel/console-service/internal/domain/models"
)

// MockParamsCollection is a mock implementation of docdb.ParamsCollection.
type MockParamsCollection struct {
	mock.Mock
}

// Get retrieves the global parameters document.
func (m *MockParamsCollection) Get(ctx context.Context) (*models.GlobalParams, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GlobalParams), args.Error(1)
}

// Upsert replaces the global parameters document.
func (m *MockParamsCollection) Upsert(ctx context.Context, params *models.GlobalParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

// EnsureIndexes creates the collection indexes.
func (m *MockParamsCollection) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockDocDBClient is a mock implementation of docdb.Client.
type MockDocDBClient struct {
	mock.Mock
	ParamsCollection *MockParamsCollection
}

// NewMockDocDBClient creates a new MockDocDBClient.
func NewMockDocDBClient() *MockDocDBClient {
	return &MockDocDBClient{
		ParamsCollection: &MockParamsCollection{},
	}
}

// Params returns the global parameters collection.
func (m *MockDocDBClient) Params() docdb.ParamsCollection {
	return m.ParamsCollection
}

// Ping verifies the database connection.
func (m *MockDocDBClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close closes the database connection.
func (m *MockDocDBClient) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// EnsureIndexes creates all necessary indexes.
func (m *MockDocDBClient) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
