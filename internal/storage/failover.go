package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"arquivo/internal/backend"
	"arquivo/internal/logging"
)

// Failover routes calls to the remote backend while the health latch is up
// and to the in-process fallback once it trips. The first failing remote call
// trips the latch; from then on every call takes the fallback path for the
// remainder of the process lifetime, even if the remote backend recovers.
type Failover struct {
	primary  Storage
	fallback Storage
	health   *backend.Health
	log      *logging.Logger
}

// NewFailover wraps primary and fallback behind the given health latch.
// A nil primary pins the wrapper to the fallback immediately.
func NewFailover(primary, fallback Storage, health *backend.Health) *Failover {
	f := &Failover{
		primary:  primary,
		fallback: fallback,
		health:   health,
		log:      logging.New("storage"),
	}
	if primary == nil {
		health.MarkUnavailable()
	}
	return f
}

func (f *Failover) active() Storage {
	if f.health.Available() {
		return f.primary
	}
	return f.fallback
}

// Put writes through the active backend. When the remote write fails, the
// latch trips and the write is retried once against the fallback — the reader
// must be seekable for the retry to see the full payload.
func (f *Failover) Put(ctx context.Context, bucket, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if !f.health.Available() {
		return f.fallback.Put(ctx, bucket, key, r, opt)
	}
	info, err := f.primary.Put(ctx, bucket, key, r, opt)
	if err == nil {
		return info, nil
	}
	f.trip("put", err)
	if s, ok := r.(io.Seeker); ok {
		if _, serr := s.Seek(0, io.SeekStart); serr == nil {
			return f.fallback.Put(ctx, bucket, key, r, opt)
		}
	}
	return ObjectInfo{}, err
}

func (f *Failover) Get(ctx context.Context, bucket, key string) (io.ReadCloser, ObjectInfo, error) {
	if !f.health.Available() {
		return f.fallback.Get(ctx, bucket, key)
	}
	rc, info, err := f.primary.Get(ctx, bucket, key)
	if err == nil || errors.Is(err, ErrObjectNotFound) {
		return rc, info, err
	}
	f.trip("get", err)
	return f.fallback.Get(ctx, bucket, key)
}

func (f *Failover) Delete(ctx context.Context, bucket, key string) error {
	if !f.health.Available() {
		return f.fallback.Delete(ctx, bucket, key)
	}
	if err := f.primary.Delete(ctx, bucket, key); err != nil {
		f.trip("delete", err)
		return f.fallback.Delete(ctx, bucket, key)
	}
	return nil
}

func (f *Failover) List(ctx context.Context, bucket string) ([]string, error) {
	if !f.health.Available() {
		return f.fallback.List(ctx, bucket)
	}
	keys, err := f.primary.List(ctx, bucket)
	if err != nil {
		f.trip("list", err)
		return f.fallback.List(ctx, bucket)
	}
	return keys, nil
}

func (f *Failover) PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if !f.health.Available() {
		return f.fallback.PresignGet(ctx, bucket, key, expiry)
	}
	u, err := f.primary.PresignGet(ctx, bucket, key, expiry)
	if err != nil {
		f.trip("presign", err)
		return f.fallback.PresignGet(ctx, bucket, key, expiry)
	}
	return u, nil
}

func (f *Failover) trip(op string, err error) {
	f.log.Error("storage_backend_failed", err, map[string]any{"op": op})
	f.health.MarkUnavailable()
}

var _ Storage = (*Failover)(nil)
