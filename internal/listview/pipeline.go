// Package listview implements the filter/sort/paginate pipeline shared by the
// resumes, jobs and evaluations list views. The pipeline is pure: it never
// mutates its input and re-running it with the same query yields the same
// page, so it is re-applied synchronously on every keystroke.
package listview

import (
	"sort"
	"strings"
	"time"
)

// SortKey enumerates the fixed sort orders offered by the list views.
type SortKey string

const (
	SortCreatedDesc SortKey = "created_at_desc"
	SortCreatedAsc  SortKey = "created_at_asc"
	SortScoreDesc   SortKey = "score_desc"
	SortScoreAsc    SortKey = "score_asc"
	SortNameAsc     SortKey = "name_asc"
	SortTitleAsc    SortKey = "title_asc"
)

// Query is the filter/sort/page state of one list view.
type Query struct {
	Search   string  // case-insensitive substring match over the item's search fields
	Category string  // exact match against the item's category, "" matches everything
	Sort     SortKey // zero value keeps input order
	Page     int     // 1-based; out-of-range values are clamped
	PageSize int     // fixed per view; <=0 disables pagination
}

// Accessors describe how the pipeline reads an item. Nil accessors disable
// the corresponding filter or sort for that view.
type Accessors[T any] struct {
	SearchFields func(T) []string
	Category     func(T) string
	CreatedAt    func(T) time.Time
	Score        func(T) float64
	Name         func(T) string
	Title        func(T) string
}

// Counts summarizes a pipeline run for the "Showing X of Y" display.
type Counts struct {
	Total      int // items before filtering
	Filtered   int // items surviving the filter
	Shown      int // items on the returned page
	Page       int // effective page after clamping
	TotalPages int
}

// Page is one rendered page plus its counts.
type Page[T any] struct {
	Items  []T
	Counts Counts
}

// Apply runs filter, stable sort, and pagination in that fixed order.
// A search term matching zero records yields an empty page and a "0 of N"
// count, never an error. When the filtered set no longer reaches the
// requested page, the page is clamped to the last valid one rather than
// showing an empty page with a nonzero total.
func Apply[T any](items []T, q Query, acc Accessors[T]) Page[T] {
	filtered := filter(items, q, acc)
	sorted := sortItems(filtered, q.Sort, acc)

	counts := Counts{
		Total:    len(items),
		Filtered: len(sorted),
	}

	if q.PageSize <= 0 {
		counts.Shown = len(sorted)
		counts.Page = 1
		counts.TotalPages = 1
		return Page[T]{Items: sorted, Counts: counts}
	}

	counts.TotalPages = (len(sorted) + q.PageSize - 1) / q.PageSize
	if counts.TotalPages == 0 {
		counts.TotalPages = 1
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > counts.TotalPages {
		page = counts.TotalPages
	}
	counts.Page = page

	start := (page - 1) * q.PageSize
	end := start + q.PageSize
	if start > len(sorted) {
		start = len(sorted)
	}
	if end > len(sorted) {
		end = len(sorted)
	}

	pageItems := sorted[start:end]
	counts.Shown = len(pageItems)
	return Page[T]{Items: pageItems, Counts: counts}
}

// filter applies the search term and category with AND semantics.
func filter[T any](items []T, q Query, acc Accessors[T]) []T {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]T, 0, len(items))

	for _, item := range items {
		if search != "" && acc.SearchFields != nil {
			matched := false
			for _, field := range acc.SearchFields(item) {
				if strings.Contains(strings.ToLower(field), search) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		if q.Category != "" && acc.Category != nil && acc.Category(item) != q.Category {
			continue
		}
		out = append(out, item)
	}
	return out
}

// sortItems returns a sorted copy. Ties keep input order (stable sort).
func sortItems[T any](items []T, key SortKey, acc Accessors[T]) []T {
	out := make([]T, len(items))
	copy(out, items)

	less := lessFunc(key, acc)
	if less == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func lessFunc[T any](key SortKey, acc Accessors[T]) func(a, b T) bool {
	switch key {
	case SortCreatedDesc:
		if acc.CreatedAt == nil {
			return nil
		}
		return func(a, b T) bool { return acc.CreatedAt(a).After(acc.CreatedAt(b)) }
	case SortCreatedAsc:
		if acc.CreatedAt == nil {
			return nil
		}
		return func(a, b T) bool { return acc.CreatedAt(a).Before(acc.CreatedAt(b)) }
	case SortScoreDesc:
		if acc.Score == nil {
			return nil
		}
		return func(a, b T) bool { return acc.Score(a) > acc.Score(b) }
	case SortScoreAsc:
		if acc.Score == nil {
			return nil
		}
		return func(a, b T) bool { return acc.Score(a) < acc.Score(b) }
	case SortNameAsc:
		if acc.Name == nil {
			return nil
		}
		return func(a, b T) bool {
			return strings.ToLower(acc.Name(a)) < strings.ToLower(acc.Name(b))
		}
	case SortTitleAsc:
		title := acc.Title
		if title == nil {
			title = acc.Name
		}
		if title == nil {
			return nil
		}
		return func(a, b T) bool {
			return strings.ToLower(title(a)) < strings.ToLower(title(b))
		}
	default:
		return nil
	}
}
