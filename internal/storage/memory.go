package storage

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"
)

// memoryStorage is the in-process fallback used when the remote backend is
// unavailable. Objects live only for the process lifetime; nothing is
// persisted. It is safe for concurrent use.
type memoryStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject // keyed by bucket + "/" + key
}

type memoryObject struct {
	data []byte
	info ObjectInfo
}

// NewMemory creates an empty in-process storage fallback.
func NewMemory() Storage {
	return &memoryStorage{objects: map[string]memoryObject{}}
}

func objectKey(bucket, key string) string { return bucket + "/" + key }

func (m *memoryStorage) Put(ctx context.Context, bucket, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ObjectInfo{}, err
	}
	info := ObjectInfo{
		Bucket:       bucket,
		Key:          key,
		Size:         int64(len(data)),
		ContentType:  opt.ContentType,
		LastModified: time.Now(),
		Metadata:     opt.Metadata,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectKey(bucket, key)] = memoryObject{data: data, info: info}
	return info, nil
}

func (m *memoryStorage) Get(ctx context.Context, bucket, key string) (io.ReadCloser, ObjectInfo, error) {
	m.mu.RLock()
	obj, ok := m.objects[objectKey(bucket, key)]
	m.mu.RUnlock()
	if !ok {
		return nil, ObjectInfo{}, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.info, nil
}

func (m *memoryStorage) Delete(ctx context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, objectKey(bucket, key))
	return nil
}

func (m *memoryStorage) List(ctx context.Context, bucket string) ([]string, error) {
	prefix := bucket + "/"
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k := range m.objects {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k[len(prefix):])
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// PresignGet is unsupported: the fallback has no addressable endpoint to sign
// URLs against.
func (m *memoryStorage) PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	return "", ErrPresignUnsupported
}
