package mocks

import (
	"context"
	"io"

	"arquivo/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, r io.Reader, originalFilename, declaredMIME string, bucketFamily string, declaredCategory string, userMeta map[string]string) (*model.FileObject, error) {
	args := m.Called(ctx, r, originalFilename, declaredMIME, bucketFamily, declaredCategory, userMeta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileObject), args.Error(1)
}
