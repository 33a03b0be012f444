package interfaces

import "context"

// FilterCache memoizes the order ids selected by one filter stage. Entries
// expire after a fixed TTL and are not invalidated on writes.
type FilterCache interface {
	Get(ctx context.Context, key string) ([]int64, bool)
	Set(ctx context.Context, key string, ids []int64) error
}
