package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nucleav/internal/model"
	"nucleav/internal/upstream"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Login(ctx context.Context, email, password string) (*upstream.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upstream.LoginResult), args.Error(1)
}

func (m *MockClient) Me(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockClient) UpdateMe(ctx context.Context, token string, in upstream.ProfileInput) (*model.User, error) {
	args := m.Called(ctx, token, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockClient) Users(ctx context.Context, token string) ([]model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockClient) Companies(ctx context.Context, token string) ([]model.Company, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Company), args.Error(1)
}

func (m *MockClient) Company(ctx context.Context, token, cif string) (*model.Company, error) {
	args := m.Called(ctx, token, cif)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockClient) CreateCompany(ctx context.Context, token string, in upstream.CompanyInput) (*model.Company, error) {
	args := m.Called(ctx, token, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockClient) UpdateCompany(ctx context.Context, token, cif string, in upstream.CompanyInput) (*model.Company, error) {
	args := m.Called(ctx, token, cif, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockClient) DeleteCompany(ctx context.Context, token, cif string) error {
	args := m.Called(ctx, token, cif)
	return args.Error(0)
}

func (m *MockClient) Materials(ctx context.Context, token string) ([]model.Material, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Material), args.Error(1)
}
