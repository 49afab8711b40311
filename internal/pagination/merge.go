// Package pagination merges incrementally fetched pages into a working collection.
package pagination

import (
	"slices"

	"qiitawatch/internal/domain/model"
)

// Merge folds page into current. Elements whose key is already present are replaced
// in place by the page's copy, new elements are appended, and the result is stably
// sorted by less. current is not modified.
func Merge[T any, K comparable](current, page []T, key func(T) K, less func(a, b T) bool) []T {
	merged := make([]T, len(current), len(current)+len(page))
	copy(merged, current)

	index := make(map[K]int, len(merged))
	for i, item := range merged {
		index[key(item)] = i
	}

	for _, item := range page {
		k := key(item)
		if i, ok := index[k]; ok {
			merged[i] = item
			continue
		}
		index[k] = len(merged)
		merged = append(merged, item)
	}

	slices.SortStableFunc(merged, func(a, b T) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		default:
			return 0
		}
	})
	return merged
}

// Articles merges a page of articles, newest first.
func Articles(current, page []model.Article) []model.Article {
	return Merge(current, page,
		func(a model.Article) string { return a.ID },
		func(a, b model.Article) bool { return a.CreatedAt.After(b.CreatedAt) },
	)
}

// Users merges a page of users ordered by id.
func Users(current, page []model.User) []model.User {
	return Merge(current, page,
		func(u model.User) string { return u.ID },
		func(a, b model.User) bool { return a.ID < b.ID },
	)
}
