// internal/blob/blob.go
//
// Blob storage fetcher.
//
// Context
// -------
// Compiled theme templates live in an S3 bucket at deterministic keys
// (`<theme key>/templates/<name>`).  The theme loader only ever reads, so
// the surface is one method.  ErrNotFound separates an absent object (a
// tolerated, per-template condition) from a transport failure (which
// aborts the theme load).
package blob

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the object does not exist in the bucket.
var ErrNotFound = errors.New("blob: object not found")

// Fetcher reads one object by key.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}
