package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoragePutGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	info, err := st.Put(ctx, "documents", "a/key.pdf", strings.NewReader("hello"), PutObjectOptions{
		Size:        5,
		ContentType: "application/pdf",
		Metadata:    map[string]string{"original-filename": "key.pdf"},
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.Equal(t, "documents", info.Bucket)

	rc, got, err := st.Get(ctx, "documents", "a/key.pdf")
	assert.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "application/pdf", got.ContentType)

	assert.NoError(t, st.Delete(ctx, "documents", "a/key.pdf"))
	_, _, err = st.Get(ctx, "documents", "a/key.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestMemoryStoragePutOverwrites(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	_, err := st.Put(ctx, "b", "k", strings.NewReader("one"), PutObjectOptions{Size: 3})
	assert.NoError(t, err)
	_, err = st.Put(ctx, "b", "k", strings.NewReader("twotwo"), PutObjectOptions{Size: 6})
	assert.NoError(t, err)

	rc, info, err := st.Get(ctx, "b", "k")
	assert.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, int64(6), info.Size)
}

func TestMemoryStorageListScopedToBucket(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	_, _ = st.Put(ctx, "images", "x.png", strings.NewReader("x"), PutObjectOptions{Size: 1})
	_, _ = st.Put(ctx, "images", "y.png", strings.NewReader("y"), PutObjectOptions{Size: 1})
	_, _ = st.Put(ctx, "documents", "z.pdf", strings.NewReader("z"), PutObjectOptions{Size: 1})

	keys, err := st.List(ctx, "images")
	assert.NoError(t, err)
	assert.Equal(t, []string{"x.png", "y.png"}, keys)
}

func TestMemoryStoragePresignUnsupported(t *testing.T) {
	st := NewMemory()
	_, err := st.PresignGet(context.Background(), "b", "k", time.Minute)
	assert.ErrorIs(t, err, ErrPresignUnsupported)
}
