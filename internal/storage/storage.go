// Package storage defines blob storage for user-uploaded content such as
// avatars, with filesystem and Google Cloud Storage backends.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound indicates the named object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// BlobStore stores named binary objects and serves them by public URL.
type BlobStore interface {
	// Put writes an object, replacing any previous content, and returns
	// its public URL.
	Put(ctx context.Context, name, contentType string, content io.Reader) (string, error)

	// Get opens an object for reading. The caller must close the reader.
	// Returns ErrObjectNotFound if the object does not exist.
	Get(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes an object. Deleting a missing object is not an
	// error.
	Delete(ctx context.Context, name string) error

	// DeletePrefix removes every object whose name starts with prefix.
	// Used to clear all stored variants of an avatar regardless of file
	// extension.
	DeletePrefix(ctx context.Context, prefix string) error
}
