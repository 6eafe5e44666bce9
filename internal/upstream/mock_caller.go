package upstream

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/stretchr/testify/mock"
)

type MockCaller struct {
	mock.Mock
}

func (m *MockCaller) DoJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockCaller) Stream(ctx context.Context, req Request) (*http.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func (m *MockCaller) Login(ctx context.Context, username string, password string) (json.RawMessage, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
