// Package projector stitches related rows onto a primary result set in the application.
// Each relation is resolved with exactly one batched lookup over the distinct keys of the
// primary set; an empty key set issues no lookup.
package projector

import (
	"context"
	"fmt"

	"github.com/gymratia/gymratia-api/pkg/metrics"
)

// BatchFetcher loads every related row whose key is in keys.
// Implementations are expected to run a single `= ANY($1)` query.
type BatchFetcher[K comparable, R any] func(ctx context.Context, keys []K) ([]R, error)

// Keys returns the distinct non-zero keys of items in first-seen order
func Keys[T any, K comparable](items []T, key func(T) K) []K {
	var zero K
	seen := make(map[K]struct{}, len(items))
	keys := make([]K, 0, len(items))

	for _, item := range items {
		k := key(item)
		if k == zero {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	return keys
}

// One resolves a to-one relation. The result maps each key to its related row;
// keys with no related row are absent. When several rows share a key the first wins.
func One[T any, K comparable, R any](
	ctx context.Context,
	relation string,
	items []T,
	key func(T) K,
	fetch BatchFetcher[K, R],
	relatedKey func(R) K,
) (map[K]R, error) {
	rows, err := load(ctx, relation, items, key, fetch)
	if err != nil {
		return nil, err
	}

	index := make(map[K]R, len(rows))
	for _, row := range rows {
		k := relatedKey(row)
		if _, exists := index[k]; !exists {
			index[k] = row
		}
	}
	return index, nil
}

// Many resolves a to-many relation. Related rows keep the order the fetcher returned them in.
func Many[T any, K comparable, R any](
	ctx context.Context,
	relation string,
	items []T,
	key func(T) K,
	fetch BatchFetcher[K, R],
	relatedKey func(R) K,
) (map[K][]R, error) {
	rows, err := load(ctx, relation, items, key, fetch)
	if err != nil {
		return nil, err
	}

	index := make(map[K][]R)
	for _, row := range rows {
		k := relatedKey(row)
		index[k] = append(index[k], row)
	}
	return index, nil
}

func load[T any, K comparable, R any](
	ctx context.Context,
	relation string,
	items []T,
	key func(T) K,
	fetch BatchFetcher[K, R],
) ([]R, error) {
	keys := Keys(items, key)
	metrics.ProjectorLookups.WithLabelValues(relation).Observe(float64(len(keys)))

	if len(keys) == 0 {
		return nil, nil
	}

	rows, err := fetch(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", relation, err)
	}
	return rows, nil
}
