package mocks

import (
	"context"

	"arquivo/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockRelationRepository struct {
	mock.Mock
}

func (m *MockRelationRepository) Create(ctx context.Context, rel *model.DocumentRelation) (*model.DocumentRelation, error) {
	args := m.Called(ctx, rel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRelation), args.Error(1)
}

func (m *MockRelationRepository) ListByParent(ctx context.Context, parentID int64) ([]model.DocumentRelation, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentRelation), args.Error(1)
}

func (m *MockRelationRepository) DeleteByDocument(ctx context.Context, docID int64) error {
	args := m.Called(ctx, docID)
	return args.Error(0)
}
