// Package query contains the read-only helpers behind every "photos in
// album/tag" listing. They are pure functions over an already-loaded gallery
// slice and never touch the store; composition order is always
// resolve → filter → sort → limit.
package query

import (
	"sort"

	"gallery_admin/internal/domain/models"
	"gallery_admin/internal/lib/collate"
)

type SortMode string

const (
	SortDateAsc  SortMode = "date-asc"
	SortDateDesc SortMode = "date-desc"
	SortNone     SortMode = "none"
)

// ParseSortMode maps a query parameter to a sort mode, defaulting to none.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortDateAsc, SortDateDesc:
		return SortMode(s)
	default:
		return SortNone
	}
}

// Ref is an id/name pair of an album or tag, used for reference resolution.
type Ref struct {
	ID   string
	Name string
}

func AlbumRefs(albums []models.Album) []Ref {
	refs := make([]Ref, 0, len(albums))
	for _, a := range albums {
		refs = append(refs, Ref{ID: a.AlbumID, Name: a.Name})
	}

	return refs
}

func TagRefs(tags []models.Tag) []Ref {
	refs := make([]Ref, 0, len(tags))
	for _, t := range tags {
		refs = append(refs, Ref{ID: t.TagID, Name: t.Name})
	}

	return refs
}

// ResolveRef resolves a reference that may carry either an id or a display
// name. Id match wins; name lookup is collation-insensitive exact match.
// Returns "" when nothing matches.
func ResolveRef(refs []Ref, idOrName string) string {
	if idOrName == "" {
		return ""
	}

	for _, r := range refs {
		if r.ID == idOrName {
			return r.ID
		}
	}

	for _, r := range refs {
		if collate.EqualFold(r.Name, idOrName) {
			return r.ID
		}
	}

	return ""
}

// FilterByAlbum returns the items assigned to albumID. An empty id yields an
// empty result, not "all items".
func FilterByAlbum(items []models.GalleryItem, albumID string) []models.GalleryItem {
	return filterBy(items, albumID, func(it models.GalleryItem) string { return it.AlbumID })
}

// FilterByTag is FilterByAlbum over the tag reference.
func FilterByTag(items []models.GalleryItem, tagID string) []models.GalleryItem {
	return filterBy(items, tagID, func(it models.GalleryItem) string { return it.TagID })
}

func filterBy(items []models.GalleryItem, id string, key func(models.GalleryItem) string) []models.GalleryItem {
	out := []models.GalleryItem{}
	if id == "" {
		return out
	}

	for _, it := range items {
		if key(it) == id {
			out = append(out, it)
		}
	}

	return out
}

// SortByDate orders items by (year, month, day). The sort is stable and
// operates on a copy; SortNone returns the input order untouched.
func SortByDate(items []models.GalleryItem, mode SortMode) []models.GalleryItem {
	out := make([]models.GalleryItem, len(items))
	copy(out, items)

	if mode == SortNone {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		less := dateLess(out[i], out[j])
		if mode == SortDateDesc {
			return dateLess(out[j], out[i])
		}

		return less
	})

	return out
}

func dateLess(a, b models.GalleryItem) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if a.Month != b.Month {
		return a.Month < b.Month
	}

	return a.Day < b.Day
}

// Limit returns at most n leading items; n <= 0 means unlimited.
func Limit(items []models.GalleryItem, n int) []models.GalleryItem {
	if n <= 0 || n >= len(items) {
		return items
	}

	return items[:n]
}
