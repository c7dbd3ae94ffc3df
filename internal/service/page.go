package service

import "github.com/pestozap/pestozap-backend/internal/repository"

// mapPage carries page metadata over to converted results.
func mapPage[T, V any](page *repository.Page[T], results []V) *repository.Page[V] {
	return &repository.Page[V]{
		Results:     results,
		Count:       page.Count,
		NumPages:    page.NumPages,
		CurrentPage: page.CurrentPage,
	}
}

// withFilter returns a copy of q with filter key forced to value.
func withFilter(q *repository.ListQuery, key, value string) *repository.ListQuery {
	out := repository.ListQuery{}
	if q != nil {
		out = *q
	}
	filters := make(map[string]string, len(out.Filters)+1)
	for k, v := range out.Filters {
		filters[k] = v
	}
	filters[key] = value
	out.Filters = filters
	return &out
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
