package port

import "context"

// CacheGateway is a write-through view keyed by aggregate id. Entries expire on their own;
// a miss is reported with ok=false, not with an error.
type CacheGateway[T any] interface {
	Save(ctx context.Context, value T) error
	Get(ctx context.Context, id string) (value T, ok bool, err error)
	Delete(ctx context.Context, id string) error
}
