package calibration

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("anchor set not found")

type Store interface {
	Get(ctx context.Context, sel Selection) (Record, error)
	Put(ctx context.Context, rec Record) error // upsert by pair
	Delete(ctx context.Context, sel Selection) error
	List(ctx context.Context) ([]Record, error)
}
