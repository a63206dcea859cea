package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sri-intel/console-service/internal/domain/models"
	"github.com/sri-intel/console-service/internal/services/upstream"
)

// MockUpstreamClient is a mock implementation of upstream.Client.
type MockUpstreamClient struct {
	mock.Mock
}

// Login authenticates the operator.
func (m *MockUpstreamClient) Login(ctx context.Context, creds upstream.Credentials) (*upstream.LoginResult, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upstream.LoginResult), args.Error(1)
}

// Me returns the profile for the given token.
func (m *MockUpstreamClient) Me(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Do performs an arbitrary backend request.
func (m *MockUpstreamClient) Do(ctx context.Context, method, path, token string, body, out interface{}) error {
	args := m.Called(ctx, method, path, token, body, out)
	return args.Error(0)
}

// OnUnauthorized registers the forced-logout hook.
func (m *MockUpstreamClient) OnUnauthorized(fn func()) {
	m.Called(fn)
}
