// Package datasource defines the minimal contract for importer inputs.
package datasource

import (
	"context"
	"io"
)

// Source yields a readable stream of raw dataset bytes.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
