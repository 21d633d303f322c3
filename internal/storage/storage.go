// Package storage keeps account profile pictures in an object store.
package storage

import (
	"context"
	"io"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// AvatarKey builds the object key for an account's profile picture.
func AvatarKey(accountID string) string {
	return "avatars/" + accountID
}
