package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Put(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "cover.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/cover.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "cover.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	t.Run("existing key is not overwritten", func(t *testing.T) {
		_, err := store.Put(context.Background(), "cover.png", strings.NewReader("other"), "image/png")
		assert.Error(t, err)
	})

	t.Run("path traversal rejected", func(t *testing.T) {
		_, err := store.Put(context.Background(), "../escape.png", strings.NewReader("x"), "image/png")
		assert.Error(t, err)
	})
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Store_Put(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StoreWithClient(client, "shop-media", "eu-west-1")

	url, err := store.Put(context.Background(), "a.jpg", bytes.NewReader([]byte{1, 2}), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "https://shop-media.s3.eu-west-1.amazonaws.com/uploads/a.jpg", url)
	assert.Equal(t, "shop-media", aws.ToString(client.input.Bucket))
	assert.Equal(t, "uploads/a.jpg", aws.ToString(client.input.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(client.input.ContentType))
	assert.Equal(t, []byte{1, 2}, client.body)

	client.err = errors.New("access denied")
	_, err = store.Put(context.Background(), "b.jpg", bytes.NewReader(nil), "image/jpeg")
	assert.ErrorContains(t, err, "access denied")
}
